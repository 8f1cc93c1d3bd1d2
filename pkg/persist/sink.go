// Package persist writes generated packets and session logs to disk.
package persist

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/goliatone/go-grievance/pkg/session"
)

// TimestampLayout formats the UTC second-precision stamp used in file names.
const TimestampLayout = "20060102_150405"

const (
	DefaultOutputDir = "outputs"
	DefaultLogDir    = "logs"
)

// Log is the JSON document written next to every packet.
type Log struct {
	Schema  string          `json:"schema"`
	Answers session.Answers `json:"answers"`
}

// Result reports where a Save call wrote its files.
type Result struct {
	Timestamp  string
	PacketPath string
	LogPath    string
}

// Option configures a Sink.
type Option func(*Sink)

// WithOutputDir sets the packet directory.
func WithOutputDir(dir string) Option {
	return func(s *Sink) {
		if dir != "" {
			s.outputDir = dir
		}
	}
}

// WithLogDir sets the session log directory.
func WithLogDir(dir string) Option {
	return func(s *Sink) {
		if dir != "" {
			s.logDir = dir
		}
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Sink) {
		if now != nil {
			s.now = now
		}
	}
}

// WithUniqueSuffix appends a random suffix to file names so two saves in the
// same second no longer overwrite each other.
func WithUniqueSuffix(enabled bool) Option {
	return func(s *Sink) {
		s.unique = enabled
	}
}

// WithLogger attaches a logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Sink) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// Sink writes packet/log pairs. Writes are plain blocking writes; a crash
// mid-write can leave a partial file.
type Sink struct {
	outputDir string
	logDir    string
	now       func() time.Time
	unique    bool
	logger    *zap.Logger
}

// NewSink constructs a Sink writing to outputs/ and logs/ by default.
func NewSink(options ...Option) *Sink {
	s := &Sink{
		outputDir: DefaultOutputDir,
		logDir:    DefaultLogDir,
		now:       time.Now,
		logger:    zap.NewNop(),
	}
	for _, opt := range options {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Save writes packet to <outputs>/packet_<ts>.txt and the answers to
// <logs>/session_<ts>.json. Without a unique suffix, two saves in the same UTC
// second target the same pair and the later one wins.
func (s *Sink) Save(ctx context.Context, portalID, packet string, answers session.Answers) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	if err := os.MkdirAll(s.outputDir, 0o755); err != nil {
		return Result{}, fmt.Errorf("persist: create output dir: %w", err)
	}
	if err := os.MkdirAll(s.logDir, 0o755); err != nil {
		return Result{}, fmt.Errorf("persist: create log dir: %w", err)
	}

	stamp := s.now().UTC().Format(TimestampLayout)
	name := stamp
	if s.unique {
		name = stamp + "_" + uuid.NewString()[:8]
	}

	result := Result{
		Timestamp:  stamp,
		PacketPath: filepath.Join(s.outputDir, "packet_"+name+".txt"),
		LogPath:    filepath.Join(s.logDir, "session_"+name+".json"),
	}

	if err := os.WriteFile(result.PacketPath, []byte(packet), 0o644); err != nil {
		return Result{}, fmt.Errorf("persist: write packet: %w", err)
	}

	payload, err := EncodeLog(Log{Schema: portalID, Answers: answers})
	if err != nil {
		return Result{}, err
	}
	if err := os.WriteFile(result.LogPath, payload, 0o644); err != nil {
		return Result{}, fmt.Errorf("persist: write session log: %w", err)
	}

	s.logger.Info("saved submission packet",
		zap.String("portal", portalID),
		zap.String("packet", result.PacketPath),
		zap.String("log", result.LogPath),
	)
	return result, nil
}

// EncodeLog renders a session log with two-space indentation and without HTML
// escaping, so answers are stored verbatim.
func EncodeLog(entry Log) ([]byte, error) {
	if entry.Answers == nil {
		entry.Answers = session.Answers{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(entry); err != nil {
		return nil, fmt.Errorf("persist: encode session log: %w", err)
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// LoadLog reads a session log back. Numbers are kept as json.Number so they
// print the way they were stored.
func LoadLog(path string) (Log, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Log{}, fmt.Errorf("persist: read session log: %w", err)
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var entry Log
	if err := dec.Decode(&entry); err != nil {
		return Log{}, fmt.Errorf("persist: decode session log %s: %w", path, err)
	}
	if entry.Answers == nil {
		entry.Answers = session.Answers{}
	}
	return entry, nil
}
