package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/PatrickMassot/lean-gym/pkg/domain"
	backend "github.com/redis/go-redis/v9"
)

// DefaultPrefix namespaces transcript keys.
const DefaultPrefix = "lean-gym:transcript:"

// TranscriptSink implements ports.TranscriptSink by appending JSON entries to
// one Redis list per session.
type TranscriptSink struct {
	client *backend.Client
	prefix string
	ttl    time.Duration
	owned  bool
}

// Option configures a TranscriptSink.
type Option func(*TranscriptSink)

// WithTTL sets the expiration of a session's transcript, refreshed on every entry.
func WithTTL(ttl time.Duration) Option {
	return func(s *TranscriptSink) {
		s.ttl = ttl
	}
}

// WithPrefix sets the key prefix.
func WithPrefix(prefix string) Option {
	return func(s *TranscriptSink) {
		s.prefix = prefix
	}
}

// New connects to the Redis server at address. Close releases the client.
func New(address, password string, db int, opts ...Option) *TranscriptSink {
	rdb := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})

	sink := NewFromClient(rdb, opts...)
	sink.owned = true
	return sink
}

// NewFromClient creates a sink on an existing client. Close leaves the client open.
func NewFromClient(client *backend.Client, opts ...Option) *TranscriptSink {
	sink := &TranscriptSink{
		client: client,
		prefix: DefaultPrefix,
	}
	for _, opt := range opts {
		opt(sink)
	}
	return sink
}

// Key returns the list key holding session's transcript.
func (s *TranscriptSink) Key(session string) string {
	return s.prefix + session
}

// Record appends entry to its session's list.
func (s *TranscriptSink) Record(ctx context.Context, entry domain.TranscriptEntry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal transcript entry: %w", err)
	}

	key := s.Key(entry.Session)
	pipe := s.client.Pipeline()
	pipe.RPush(ctx, key, data)
	if s.ttl > 0 {
		pipe.Expire(ctx, key, s.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to record transcript entry: %w", err)
	}
	return nil
}

// Entries returns a session's transcript in recording order.
func (s *TranscriptSink) Entries(ctx context.Context, session string) ([]domain.TranscriptEntry, error) {
	vals, err := s.client.LRange(ctx, s.Key(session), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read transcript: %w", err)
	}

	entries := make([]domain.TranscriptEntry, 0, len(vals))
	for _, v := range vals {
		var e domain.TranscriptEntry
		if err := json.Unmarshal([]byte(v), &e); err != nil {
			return nil, fmt.Errorf("failed to unmarshal transcript entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// Close releases the client if the sink created it.
func (s *TranscriptSink) Close() error {
	if !s.owned {
		return nil
	}
	return s.client.Close()
}
