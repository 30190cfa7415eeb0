package levels

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/digger/internal/games/digger/levels/formats"
	"github.com/vovakirdan/digger/internal/games/digger/sim"
)

//go:embed builtin/*.yaml
var builtinFS embed.FS

// Level represents a complete level definition.
type Level struct {
	ID             string
	Name           string
	Rows           []string
	Width          int
	Height         int
	MoveEveryTicks int // 0 means use the configured pace
	Metadata       map[string]string
	FilePath       string // Empty for built-in and generated levels
}

// NewBoard creates a fresh board from the level layout.
func (l *Level) NewBoard() (*sim.Board, error) {
	return ParseRows(l.Rows)
}

// NewSim creates a fresh simulation from the level layout.
func (l *Level) NewSim() (*sim.Sim, error) {
	b, err := l.NewBoard()
	if err != nil {
		return nil, fmt.Errorf("level %s: %w", l.ID, err)
	}
	return sim.NewSim(b)
}

// Layout returns the layout rows joined into a single text block.
func (l *Level) Layout() string {
	return strings.Join(l.Rows, "\n")
}

// FromLayout builds a level from layout text, checking that it parses.
func FromLayout(id, name, layout string) (Level, error) {
	rows := SplitRows(layout)
	b, err := ParseRows(rows)
	if err != nil {
		return Level{}, fmt.Errorf("level %s: %w", id, err)
	}
	if name == "" {
		name = id
	}
	return Level{
		ID:     id,
		Name:   name,
		Rows:   rows,
		Width:  b.W,
		Height: b.H,
	}, nil
}

// fromParsed converts a decoded level file into a Level.
func fromParsed(p formats.Level, path string) (Level, error) {
	lvl, err := FromLayout(p.ID, p.Name, p.Layout)
	if err != nil {
		return Level{}, err
	}
	lvl.MoveEveryTicks = p.MoveEveryTicks
	lvl.Metadata = p.Metadata
	lvl.FilePath = path
	return lvl, nil
}

// Builtin returns the embedded campaign levels sorted by ID.
func Builtin() ([]Level, error) {
	entries, err := fs.ReadDir(builtinFS, "builtin")
	if err != nil {
		return nil, fmt.Errorf("reading built-in levels: %w", err)
	}

	levels := make([]Level, 0, len(entries))
	for _, e := range entries {
		data, err := builtinFS.ReadFile("builtin/" + e.Name())
		if err != nil {
			return nil, fmt.Errorf("reading built-in level %s: %w", e.Name(), err)
		}
		parsed, err := formats.ParseYAML(data)
		if err != nil {
			return nil, fmt.Errorf("parsing built-in level %s: %w", e.Name(), err)
		}
		lvl, err := fromParsed(parsed, "")
		if err != nil {
			return nil, err
		}
		levels = append(levels, lvl)
	}

	sortByID(levels)
	return levels, nil
}

// Loader handles loading levels from a directory.
// An empty Root loads the built-in campaign.
type Loader struct {
	Root   string
	Logger *log.Logger // Optional; receives warnings about skipped files
}

// NewLoader creates a new level loader.
func NewLoader(root string) *Loader {
	return &Loader{Root: root}
}

// LoadAll recursively scans and loads all level files.
// Invalid files are skipped. Returns levels sorted by ID for deterministic ordering.
func (l *Loader) LoadAll() ([]Level, error) {
	if l.Root == "" {
		return Builtin()
	}

	var levels []Level

	err := filepath.WalkDir(l.Root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() {
			return nil
		}

		ext := strings.ToLower(filepath.Ext(path))
		if !isSupportedExtension(ext) {
			return nil
		}

		level, err := l.LoadFile(path)
		if err != nil {
			if l.Logger != nil {
				l.Logger.Warn("skipping level", "path", path, "err", err)
			}
			return nil
		}

		levels = append(levels, level)
		return nil
	})

	if err != nil {
		return nil, fmt.Errorf("walking directory %s: %w", l.Root, err)
	}

	sortByID(levels)
	return levels, nil
}

// LoadCampaign loads the levels under dir, falling back to the built-in
// campaign when dir is empty, unreadable or holds no valid level.
func LoadCampaign(dir string, logger *log.Logger) ([]Level, error) {
	l := &Loader{Root: dir, Logger: logger}
	lvls, err := l.LoadAll()
	if err != nil || len(lvls) == 0 {
		if err != nil && logger != nil {
			logger.Warn("using built-in levels", "dir", dir, "err", err)
		}
		return Builtin()
	}
	return lvls, nil
}

// LoadFile loads a single level file.
func (l *Loader) LoadFile(path string) (Level, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Level{}, fmt.Errorf("reading file %s: %w", path, err)
	}

	ext := strings.ToLower(filepath.Ext(path))
	parsed, err := parseByExtension(data, ext)
	if err != nil {
		return Level{}, fmt.Errorf("parsing file %s: %w", path, err)
	}

	return fromParsed(parsed, path)
}

// WriteFile stores a level as YAML at path, creating parent directories.
func WriteFile(path string, lvl Level) error {
	data, err := formats.MarshalYAML(formats.Level{
		ID:             lvl.ID,
		Name:           lvl.Name,
		Layout:         lvl.Layout() + "\n",
		MoveEveryTicks: lvl.MoveEveryTicks,
		Metadata:       lvl.Metadata,
	})
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating level directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing level %s: %w", path, err)
	}
	return nil
}

func sortByID(levels []Level) {
	sort.Slice(levels, func(i, j int) bool {
		return levels[i].ID < levels[j].ID
	})
}

// isSupportedExtension checks if extension is supported.
func isSupportedExtension(ext string) bool {
	for _, supported := range formats.FormatExtensions() {
		if ext == supported {
			return true
		}
	}
	return false
}

// parseByExtension routes to the correct parser.
func parseByExtension(data []byte, ext string) (formats.Level, error) {
	switch ext {
	case ".yaml", ".yml":
		return formats.ParseYAML(data)
	default:
		return formats.Level{}, fmt.Errorf("unsupported extension: %s", ext)
	}
}
