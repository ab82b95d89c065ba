package clipboard

import (
	"context"
	"sync"

	apperrors "tripshare/internal/errors"
)

// MockWriter is an in-memory clipboard for testing
type MockWriter struct {
	mu     sync.Mutex
	err    error
	writes []string

	// block, when set, holds each write until a value is received
	block chan struct{}
}

// NewMockWriter creates a mock clipboard that accepts every write
func NewMockWriter() *MockWriter {
	return &MockWriter{}
}

// NewFailingMockWriter creates a mock clipboard that rejects every write
func NewFailingMockWriter(err error) *MockWriter {
	return &MockWriter{err: err}
}

// Blocking makes writes wait for Release before completing
func (m *MockWriter) Blocking() *MockWriter {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.block = make(chan struct{})
	return m
}

// Release lets one blocked write complete
func (m *MockWriter) Release() {
	m.block <- struct{}{}
}

// SetError changes the outcome of subsequent writes
func (m *MockWriter) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

func (m *MockWriter) WriteText(ctx context.Context, text string) error {
	m.mu.Lock()
	block := m.block
	m.mu.Unlock()

	if block != nil {
		select {
		case <-block:
		case <-ctx.Done():
			return apperrors.WrapClipboardError(ctx.Err(), "mock")
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.writes = append(m.writes, text)
	if m.err != nil {
		return apperrors.WrapClipboardError(m.err, "mock")
	}
	return nil
}

// Writes returns every text passed to WriteText, including rejected ones
func (m *MockWriter) Writes() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]string, len(m.writes))
	copy(out, m.writes)
	return out
}

// Last returns the most recent write, or "" when nothing was written
func (m *MockWriter) Last() string {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.writes) == 0 {
		return ""
	}
	return m.writes[len(m.writes)-1]
}

// Ensure MockWriter implements Writer
var _ Writer = (*MockWriter)(nil)
