package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"go.uber.org/zap"

	"roomie-match/internal/domain"
)

// mockEmbedder devuelve vectores por id de perfil y permite simular caidas
// del backend para perfiles puntuales.
type mockEmbedder struct {
	mu      sync.Mutex
	vectors map[string][]float32
	errs    map[string]error
	calls   map[string]int
}

func newMockEmbedder() *mockEmbedder {
	return &mockEmbedder{
		vectors: make(map[string][]float32),
		errs:    make(map[string]error),
		calls:   make(map[string]int),
	}
}

func (m *mockEmbedder) Embed(ctx context.Context, profileID, description string) ([]float32, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls[profileID]++
	if err, ok := m.errs[profileID]; ok {
		return nil, err
	}
	if v, ok := m.vectors[profileID]; ok {
		return v, nil
	}
	return []float32{1, 0, 0}, nil
}

func (m *mockEmbedder) Dimension() int { return 3 }

func (m *mockEmbedder) callCount(profileID string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[profileID]
}

func TestMatchEnginePartialFailureIsolation(t *testing.T) {
	embedder := newMockEmbedder()
	embedder.vectors["subject"] = []float32{1, 0, 0}
	embedder.vectors["c1"] = []float32{1, 0, 0}
	embedder.errs["c2"] = ErrEmbeddingUnavailable
	embedder.vectors["c3"] = []float32{0, 1, 0}

	engine := NewMatchEngine(embedder, CompatibilityFilter{}, 2, zap.NewNop())

	subject := domain.Profile{ID: "subject", Description: "a"}
	candidates := []domain.Profile{
		{ID: "c1", Description: "b"},
		{ID: "c2", Description: "c"},
		{ID: "c3", Description: "d"},
	}

	results, err := engine.Match(context.Background(), subject, candidates)
	if err != nil {
		t.Fatalf("expected no batch error, got %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}

	// El orden de salida corresponde al de entrada.
	for i, id := range []string{"c1", "c2", "c3"} {
		if results[i].CandidateID != id {
			t.Fatalf("result %d: expected %s, got %s", i, id, results[i].CandidateID)
		}
	}

	if results[1].Err == nil {
		t.Fatal("expected embedding failure marker on candidate 2")
	}
	if !errors.Is(results[1].Err, ErrEmbeddingUnavailable) {
		t.Fatalf("expected ErrEmbeddingUnavailable, got %v", results[1].Err)
	}

	if results[0].Err != nil || results[2].Err != nil {
		t.Fatal("healthy candidates must not carry errors")
	}
	if results[0].Similarity < 0.99 {
		t.Fatalf("expected c1 similarity ~1, got %f", results[0].Similarity)
	}
	if results[2].Similarity > 0.01 {
		t.Fatalf("expected c3 similarity ~0, got %f", results[2].Similarity)
	}

	if !HasFailures(results) {
		t.Fatal("HasFailures should report the partial failure")
	}
}

func TestMatchEngineSubjectFailureAbortsBatch(t *testing.T) {
	embedder := newMockEmbedder()
	embedder.errs["subject"] = ErrEmbeddingUnavailable

	engine := NewMatchEngine(embedder, CompatibilityFilter{}, 2, zap.NewNop())

	_, err := engine.Match(context.Background(), domain.Profile{ID: "subject"}, []domain.Profile{{ID: "c1"}})
	if !errors.Is(err, ErrEmbeddingUnavailable) {
		t.Fatalf("expected subject failure to abort batch, got %v", err)
	}
}

func TestMatchEngineSkipsEmbeddingForVetoed(t *testing.T) {
	embedder := newMockEmbedder()

	engine := NewMatchEngine(embedder, CompatibilityFilter{}, 1, zap.NewNop())

	subject := domain.Profile{
		ID:           "subject",
		Requirements: domain.PreferenceSet{Smoking: domain.TriTrue},
	}
	vetoed := domain.Profile{
		ID:     "smoker",
		Traits: domain.PreferenceSet{Smoking: domain.TriTrue},
	}

	results, err := engine.Match(context.Background(), subject, []domain.Profile{vetoed})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	res := results[0]
	if res.Compatible {
		t.Fatal("expected vetoed candidate")
	}
	if res.Similarity != 0 {
		t.Fatalf("vetoed candidate must report similarity 0, got %f", res.Similarity)
	}
	if len(res.Reasons) == 0 {
		t.Fatal("vetoed candidate must carry reasons")
	}
	// El veto es barato; el embedding es la llamada cara y debe ahorrarse.
	if embedder.callCount("smoker") != 0 {
		t.Fatalf("expected no embedding call for vetoed candidate, got %d", embedder.callCount("smoker"))
	}
}

// blockingEmbedder embebe normal salvo para blockID, donde queda esperando
// la cancelación del contexto y devuelve su error.
type blockingEmbedder struct {
	blockID string
	started chan struct{}
}

func (e *blockingEmbedder) Embed(ctx context.Context, profileID, description string) ([]float32, error) {
	if profileID == e.blockID {
		close(e.started)
		<-ctx.Done()
		return nil, ctx.Err()
	}
	return []float32{1, 0, 0}, nil
}

func (e *blockingEmbedder) Dimension() int { return 3 }

func TestMatchEngineCancellationKeepsCompletedResults(t *testing.T) {
	embedder := &blockingEmbedder{blockID: "c2", started: make(chan struct{})}
	engine := NewMatchEngine(embedder, CompatibilityFilter{}, 2, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	subject := domain.Profile{ID: "subject", Description: "a"}
	candidates := []domain.Profile{
		{ID: "c1", Description: "b"},
		{ID: "c2", Description: "c"},
	}

	done := make(chan struct{})
	var results []domain.MatchResult
	var err error
	go func() {
		results, err = engine.Match(ctx, subject, candidates)
		close(done)
	}()

	// Cancelamos con c2 en vuelo; c1 no depende del contexto y completa.
	<-embedder.started
	cancel()
	<-done

	if err != nil {
		t.Fatalf("cancellation must not abort the batch, got %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}

	if results[0].Err != nil {
		t.Fatalf("completed candidate must keep its result, got %v", results[0].Err)
	}
	if results[0].Similarity < 0.99 {
		t.Fatalf("expected valid similarity for completed candidate, got %f", results[0].Similarity)
	}

	if !errors.Is(results[1].Err, context.Canceled) {
		t.Fatalf("in-flight candidate must report the context error, got %v", results[1].Err)
	}
}

func TestMatchEngineKeepsIncompatibleInOutput(t *testing.T) {
	embedder := newMockEmbedder()
	engine := NewMatchEngine(embedder, CompatibilityFilter{}, 0, zap.NewNop())

	subject := domain.Profile{
		ID:           "subject",
		Requirements: domain.PreferenceSet{Pets: domain.TriTrue},
	}
	candidates := []domain.Profile{
		{ID: "ok"},
		{ID: "pets", Traits: domain.PreferenceSet{Pets: domain.TriTrue}},
	}

	results, err := engine.Match(context.Background(), subject, candidates)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	// Nunca se omiten candidatos vetados: decidir si ocultarlos es del caller.
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[1].Compatible {
		t.Fatal("expected pets conflict")
	}
}
