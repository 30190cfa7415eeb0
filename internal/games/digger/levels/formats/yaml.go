// Package formats provides level file format parsers.
package formats

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
)

//go:embed level.schema.json
var schemaJSON string

// ValidationError describes a level file rejected by the schema.
type ValidationError struct {
	Code    string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// YAMLLevel represents the YAML structure for a level file.
type YAMLLevel struct {
	ID             string            `yaml:"id"`
	Name           string            `yaml:"name,omitempty"`
	Layout         string            `yaml:"layout"`
	MoveEveryTicks int               `yaml:"move_every_ticks,omitempty"`
	Metadata       map[string]string `yaml:"metadata,omitempty"`
}

// Level represents a decoded level file. The layout is not parsed yet.
type Level struct {
	ID             string
	Name           string
	Layout         string
	MoveEveryTicks int
	Metadata       map[string]string
}

var levelSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	return jsonschema.CompileString("level.schema.json", schemaJSON)
})

// Validate checks a YAML document against the level schema.
func Validate(data []byte) error {
	schema, err := levelSchema()
	if err != nil {
		return fmt.Errorf("compiling level schema: %w", err)
	}

	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("yaml unmarshal: %w", err)
	}

	// The validator expects values shaped like encoding/json output.
	raw, err := json.Marshal(doc)
	if err != nil {
		return ValidationError{Code: "NOT_AN_OBJECT", Message: err.Error()}
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return fmt.Errorf("json round trip: %w", err)
	}

	if err := schema.Validate(v); err != nil {
		return ValidationError{Code: "SCHEMA", Message: err.Error()}
	}
	return nil
}

// ParseYAML validates and decodes a YAML level file.
func ParseYAML(data []byte) (Level, error) {
	if err := Validate(data); err != nil {
		return Level{}, err
	}

	var yl YAMLLevel
	if err := yaml.Unmarshal(data, &yl); err != nil {
		return Level{}, fmt.Errorf("yaml unmarshal: %w", err)
	}

	name := yl.Name
	if name == "" {
		name = yl.ID
	}

	return Level{
		ID:             yl.ID,
		Name:           name,
		Layout:         yl.Layout,
		MoveEveryTicks: yl.MoveEveryTicks,
		Metadata:       yl.Metadata,
	}, nil
}

// MarshalYAML encodes a level in the file format read by ParseYAML.
func MarshalYAML(l Level) ([]byte, error) {
	out, err := yaml.Marshal(YAMLLevel{
		ID:             l.ID,
		Name:           l.Name,
		Layout:         l.Layout,
		MoveEveryTicks: l.MoveEveryTicks,
		Metadata:       l.Metadata,
	})
	if err != nil {
		return nil, fmt.Errorf("yaml marshal: %w", err)
	}
	return out, nil
}

// FormatExtensions returns supported file extensions.
func FormatExtensions() []string {
	return []string{".yaml", ".yml"}
}
