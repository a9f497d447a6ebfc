package services

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/custodia-labs/sercha-federated/internal/core/domain"
	"github.com/custodia-labs/sercha-federated/internal/core/ports/driven"
)

// --- Mock implementations ---

// mockLLM implements driven.LLMService for testing.
type mockLLM struct {
	response string
	err      error
	delay    time.Duration
	calls    atomic.Int32

	mu       sync.Mutex
	messages []driven.ChatMessage
	opts     driven.ChatOptions
}

func (m *mockLLM) Chat(ctx context.Context, messages []driven.ChatMessage, opts driven.ChatOptions) (string, error) {
	m.calls.Add(1)
	m.mu.Lock()
	m.messages = messages
	m.opts = opts
	m.mu.Unlock()

	if m.delay > 0 {
		select {
		case <-time.After(m.delay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	return m.response, m.err
}

func (m *mockLLM) ModelName() string            { return "mock" }
func (m *mockLLM) Ping(_ context.Context) error { return m.err }
func (m *mockLLM) Close() error                 { return nil }

// mockPromptStore implements driven.PromptStore for testing.
type mockPromptStore struct {
	prompts map[string]string
}

func (m *mockPromptStore) Load(name string) (string, error) {
	p, ok := m.prompts[name]
	if !ok {
		return "", domain.ErrNotFound
	}
	return p, nil
}

// failingStore wraps a record store and fails or panics for chosen tables.
type failingStore struct {
	driven.RecordStore
	fail   map[string]bool
	panics map[string]bool
	block  map[string]bool
}

var errStoreDown = errors.New("connection refused")

func (f *failingStore) Search(ctx context.Context, q driven.RecordQuery) ([]domain.Record, error) {
	if f.panics[q.Table] {
		panic("boom")
	}
	if f.fail[q.Table] {
		return nil, errStoreDown
	}
	if f.block[q.Table] {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	return f.RecordStore.Search(ctx, q)
}

// countingStore records every query it receives.
type countingStore struct {
	driven.RecordStore
	mu      sync.Mutex
	queries []driven.RecordQuery
}

func (c *countingStore) Search(ctx context.Context, q driven.RecordQuery) ([]domain.Record, error) {
	c.mu.Lock()
	c.queries = append(c.queries, q)
	c.mu.Unlock()
	return c.RecordStore.Search(ctx, q)
}

// fixedClock returns a clock frozen at t.
func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func fallbackSettings() domain.AnalyzerSettings {
	return domain.AnalyzerSettings{Timeout: time.Second}
}
