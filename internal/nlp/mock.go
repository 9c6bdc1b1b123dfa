package nlp

import (
	"context"
	"sync"
)

// MockExtractor permite tests sin llamar a Comprehend.
type MockExtractor struct {
	Phrases []string
	Err     error

	mu    sync.Mutex
	calls int
}

func (m *MockExtractor) Extract(ctx context.Context, text, languageCode string) ([]string, error) {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()
	return m.Phrases, m.Err
}

func (m *MockExtractor) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// MockBackend permite tests sin llamar a Bedrock. Si EmbedFn está definida se
// usa en lugar de los campos fijos.
type MockBackend struct {
	Vector  []float32
	Err     error
	EmbedFn func(ctx context.Context, text string, dimension int) ([]float32, error)

	mu       sync.Mutex
	calls    int
	lastText string
}

func (m *MockBackend) Embed(ctx context.Context, text string, dimension int) ([]float32, error) {
	m.mu.Lock()
	m.calls++
	m.lastText = text
	m.mu.Unlock()
	if m.EmbedFn != nil {
		return m.EmbedFn(ctx, text, dimension)
	}
	return m.Vector, m.Err
}

func (m *MockBackend) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

func (m *MockBackend) LastText() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastText
}
