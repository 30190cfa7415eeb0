// Package replay records simulation ticks to zstd-compressed JSON lines and
// verifies recordings by re-running them.
//
// A recording is a sequence of segments, one per level played. Each segment
// starts with a header line holding the level layout, followed by one line
// per simulation tick.
package replay

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/klauspost/compress/zstd"

	"github.com/vovakirdan/digger/internal/games/digger/levels"
	"github.com/vovakirdan/digger/internal/games/digger/sim"
)

// Version is the recording format version written by Recorder.
const Version = 1

// Extension is the file suffix of recordings.
const Extension = ".jsonl.zst"

// Line types.
const (
	typeLevel = "level"
	typeTick  = "tick"
)

var (
	// ErrNoHeader is returned when a tick line precedes any level header.
	ErrNoHeader = errors.New("replay: tick before level header")
	// ErrVersion is returned for recordings written by an unknown format version.
	ErrVersion = errors.New("replay: unsupported version")
)

// Header starts a segment.
type Header struct {
	Type      string    `json:"type"`
	Version   int       `json:"version"`
	GameID    string    `json:"game_id"`
	LevelID   string    `json:"level_id"`
	Layout    []string  `json:"layout"`
	Seed      int64     `json:"seed"`
	StartedAt time.Time `json:"started_at"`
}

// Tick is one simulation tick.
type Tick struct {
	Type   string `json:"type"`
	Tick   uint64 `json:"tick"`
	Dir    string `json:"dir"`
	Score  int    `json:"score"`
	Digest string `json:"digest"`
}

// Segment is the recording of a single level.
type Segment struct {
	Header Header
	Ticks  []Tick
}

// Recording is a decoded recording file.
type Recording struct {
	Segments []Segment
}

// TickCount returns the number of ticks across all segments.
func (r Recording) TickCount() int {
	n := 0
	for _, s := range r.Segments {
		n += len(s.Ticks)
	}
	return n
}

// Recorder writes a recording file. It implements the game's tick recorder hook.
type Recorder struct {
	gameID string
	path   string

	mu    sync.Mutex
	f     *os.File
	enc   *zstd.Encoder
	w     *bufio.Writer
	ticks uint64
	now   func() time.Time
}

// Create opens a new recording at path, creating parent directories.
func Create(path, gameID string) (*Recorder, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("replay: creating directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("replay: creating %s: %w", path, err)
	}
	enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("replay: zstd writer: %w", err)
	}
	return &Recorder{
		gameID: gameID,
		path:   path,
		f:      f,
		enc:    enc,
		w:      bufio.NewWriterSize(enc, 64*1024),
		now:    time.Now,
	}, nil
}

// Path returns the file path of the recording.
func (r *Recorder) Path() string {
	return r.path
}

// Ticks returns the number of ticks written so far.
func (r *Recorder) Ticks() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.ticks
}

// BeginLevel starts a new segment for lvl.
func (r *Recorder) BeginLevel(lvl levels.Level, seed int64) error {
	return r.write(Header{
		Type:      typeLevel,
		Version:   Version,
		GameID:    r.gameID,
		LevelID:   lvl.ID,
		Layout:    lvl.Rows,
		Seed:      seed,
		StartedAt: r.now().UTC(),
	})
}

// RecordTick appends a tick to the current segment.
func (r *Recorder) RecordTick(tick uint64, dir sim.Dir, score int, digest string) error {
	if err := r.write(Tick{
		Type:   typeTick,
		Tick:   tick,
		Dir:    dir.String(),
		Score:  score,
		Digest: digest,
	}); err != nil {
		return err
	}
	r.mu.Lock()
	r.ticks++
	r.mu.Unlock()
	return nil
}

func (r *Recorder) write(v any) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.w == nil {
		return errors.New("replay: recorder is closed")
	}
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	if _, err := r.w.Write(b); err != nil {
		return err
	}
	return r.w.WriteByte('\n')
}

// Close flushes and closes the recording.
func (r *Recorder) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.w == nil {
		return nil
	}
	err := r.w.Flush()
	if cerr := r.enc.Close(); err == nil {
		err = cerr
	}
	if cerr := r.f.Close(); err == nil {
		err = cerr
	}
	r.w = nil
	r.enc = nil
	r.f = nil
	return err
}

// Read decodes the recording at path.
func Read(path string) (Recording, error) {
	f, err := os.Open(path)
	if err != nil {
		return Recording{}, err
	}
	defer f.Close()

	rec, err := Decode(f)
	if err != nil {
		return Recording{}, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return rec, nil
}

// Decode reads a zstd-compressed recording stream.
func Decode(r io.Reader) (Recording, error) {
	dec, err := zstd.NewReader(r)
	if err != nil {
		return Recording{}, err
	}
	defer dec.Close()

	sc := bufio.NewScanner(dec)
	sc.Buffer(make([]byte, 64*1024), 8*1024*1024)

	var rec Recording
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := sc.Bytes()
		if len(line) == 0 {
			continue
		}

		var probe struct {
			Type string `json:"type"`
		}
		if err := json.Unmarshal(line, &probe); err != nil {
			return Recording{}, fmt.Errorf("line %d: unmarshal: %w", lineNo, err)
		}

		switch probe.Type {
		case typeLevel:
			var h Header
			if err := json.Unmarshal(line, &h); err != nil {
				return Recording{}, fmt.Errorf("line %d: unmarshal header: %w", lineNo, err)
			}
			if h.Version != Version {
				return Recording{}, fmt.Errorf("line %d: %w %d", lineNo, ErrVersion, h.Version)
			}
			rec.Segments = append(rec.Segments, Segment{Header: h})
		case typeTick:
			if len(rec.Segments) == 0 {
				return Recording{}, fmt.Errorf("line %d: %w", lineNo, ErrNoHeader)
			}
			var t Tick
			if err := json.Unmarshal(line, &t); err != nil {
				return Recording{}, fmt.Errorf("line %d: unmarshal tick: %w", lineNo, err)
			}
			seg := &rec.Segments[len(rec.Segments)-1]
			seg.Ticks = append(seg.Ticks, t)
		default:
			return Recording{}, fmt.Errorf("line %d: unknown line type %q", lineNo, probe.Type)
		}
	}
	if err := sc.Err(); err != nil {
		return Recording{}, err
	}
	return rec, nil
}
