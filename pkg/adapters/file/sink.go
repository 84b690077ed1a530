package file

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/PatrickMassot/lean-gym/pkg/domain"
	"gopkg.in/natefinch/lumberjack.v2"
)

// TranscriptSink implements ports.TranscriptSink as newline-delimited JSON in a
// size-rotated file.
type TranscriptSink struct {
	mu  sync.Mutex
	out *lumberjack.Logger
	enc *json.Encoder
}

// Option configures the rotation policy.
type Option func(*lumberjack.Logger)

// WithMaxSize sets the size in megabytes at which the file is rotated.
func WithMaxSize(mb int) Option {
	return func(l *lumberjack.Logger) {
		l.MaxSize = mb
	}
}

// WithMaxBackups sets how many rotated files are kept.
func WithMaxBackups(n int) Option {
	return func(l *lumberjack.Logger) {
		l.MaxBackups = n
	}
}

// WithMaxAge sets how many days rotated files are kept.
func WithMaxAge(days int) Option {
	return func(l *lumberjack.Logger) {
		l.MaxAge = days
	}
}

// WithCompress gzips rotated files.
func WithCompress(compress bool) Option {
	return func(l *lumberjack.Logger) {
		l.Compress = compress
	}
}

// New creates a sink appending to path. Missing directories are created on first write.
func New(path string, opts ...Option) *TranscriptSink {
	out := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    10,
		MaxBackups: 5,
		MaxAge:     30,
	}
	for _, opt := range opts {
		opt(out)
	}

	enc := json.NewEncoder(out)
	enc.SetEscapeHTML(false)
	return &TranscriptSink{out: out, enc: enc}
}

// Record appends entry as one JSON line.
func (s *TranscriptSink) Record(ctx context.Context, entry domain.TranscriptEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.enc.Encode(entry); err != nil {
		return fmt.Errorf("failed to write transcript entry: %w", err)
	}
	return nil
}

// Close closes the current file.
func (s *TranscriptSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.out.Close()
}

// ReadEntries decodes a transcript written by TranscriptSink.
func ReadEntries(r io.Reader) ([]domain.TranscriptEntry, error) {
	var entries []domain.TranscriptEntry
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for sc.Scan() {
		if len(sc.Bytes()) == 0 {
			continue
		}
		var e domain.TranscriptEntry
		if err := json.Unmarshal(sc.Bytes(), &e); err != nil {
			return nil, fmt.Errorf("malformed transcript line %d: %w", len(entries)+1, err)
		}
		entries = append(entries, e)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("failed to read transcript: %w", err)
	}
	return entries, nil
}

// ReadFile decodes the transcript at path.
func ReadFile(path string) ([]domain.TranscriptEntry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open transcript: %w", err)
	}
	defer f.Close()
	return ReadEntries(f)
}
