package service

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"roomie-match/internal/nlp"
)

func TestTextEmbedderJoinsPhrases(t *testing.T) {
	extractor := &nlp.MockExtractor{Phrases: []string{"quiet person", "early riser", "no parties"}}
	backend := &nlp.MockBackend{Vector: []float32{0.1, 0.2, 0.3}}

	embedder := NewTextEmbedder(extractor, backend, 3, "en", zap.NewNop())

	vector, err := embedder.Embed(context.Background(), "p1", "I am a quiet person and an early riser, no parties please")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(vector) != 3 {
		t.Fatalf("expected 3-dim vector, got %d", len(vector))
	}
	// Las frases se compactan en un solo string separado por ", ".
	if backend.LastText() != "quiet person, early riser, no parties" {
		t.Fatalf("unexpected compacted text: %q", backend.LastText())
	}
}

func TestTextEmbedderExtractionError(t *testing.T) {
	extractor := &nlp.MockExtractor{Err: errors.New("comprehend unavailable")}
	backend := &nlp.MockBackend{Vector: []float32{0.1}}

	embedder := NewTextEmbedder(extractor, backend, 1, "en", zap.NewNop())

	_, err := embedder.Embed(context.Background(), "p1", "some description")
	if !errors.Is(err, ErrExtraction) {
		t.Fatalf("expected ErrExtraction, got %v", err)
	}
	// Sin fallback silencioso al texto crudo: el backend no debe ser llamado.
	if backend.CallCount() != 0 {
		t.Fatalf("backend should not be called after extraction failure, got %d calls", backend.CallCount())
	}
}

func TestTextEmbedderNoVector(t *testing.T) {
	extractor := &nlp.MockExtractor{Phrases: []string{"something"}}
	backend := &nlp.MockBackend{Vector: nil}

	embedder := NewTextEmbedder(extractor, backend, 4, "en", zap.NewNop())

	_, err := embedder.Embed(context.Background(), "p1", "text")
	if !errors.Is(err, ErrEmbeddingUnavailable) {
		t.Fatalf("expected ErrEmbeddingUnavailable, got %v", err)
	}
}

func TestTextEmbedderEmptyDescription(t *testing.T) {
	extractor := &nlp.MockExtractor{Phrases: []string{"should not be used"}}
	backend := &nlp.MockBackend{Vector: []float32{0.5, 0.5}}

	embedder := NewTextEmbedder(extractor, backend, 2, "en", zap.NewNop())

	vector, err := embedder.Embed(context.Background(), "p1", "   ")
	if err != nil {
		t.Fatalf("empty description must not fail, got %v", err)
	}
	if len(vector) != 2 {
		t.Fatalf("expected fallback vector, got %v", vector)
	}
	if extractor.CallCount() != 0 {
		t.Fatalf("extractor should be skipped for empty input, got %d calls", extractor.CallCount())
	}
	if backend.LastText() != "" {
		t.Fatalf("expected empty compacted text, got %q", backend.LastText())
	}
}
