package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"roomie-match/internal/domain"
)

// MatchEngine combina el filtro de compatibilidad con la similitud semántica.
// Produce un resultado por candidato, en el orden de entrada; el ranking es
// un asunto de presentación por encima de este contrato.
type MatchEngine struct {
	embedder    Embedder
	filter      CompatibilityFilter
	concurrency int
	logger      *zap.Logger
}

func NewMatchEngine(embedder Embedder, filter CompatibilityFilter, concurrency int, logger *zap.Logger) *MatchEngine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MatchEngine{
		embedder:    embedder,
		filter:      filter,
		concurrency: concurrency,
		logger:      logger,
	}
}

// Match evalúa a cada candidato contra el sujeto. Una falla embebiendo al
// sujeto aborta el batch completo: sin su vector no hay comparación posible.
// Las fallas por candidato quedan aisladas en su MatchResult y el resto del
// batch sigue.
func (e *MatchEngine) Match(ctx context.Context, subject domain.Profile, candidates []domain.Profile) ([]domain.MatchResult, error) {
	subjectVector, err := e.embedder.Embed(ctx, subject.ID, subject.Description)
	if err != nil {
		return nil, fmt.Errorf("embed subject %s: %w", subject.ID, err)
	}

	results := make([]domain.MatchResult, len(candidates))

	var g errgroup.Group
	if e.concurrency > 0 {
		g.SetLimit(e.concurrency)
	}
	for i := range candidates {
		g.Go(func() error {
			results[i] = e.evaluate(ctx, subject, subjectVector, candidates[i])
			return nil
		})
	}
	// Las goroutines nunca devuelven error; las fallas van en el resultado.
	_ = g.Wait()

	return results, nil
}

func (e *MatchEngine) evaluate(ctx context.Context, subject domain.Profile, subjectVector []float32, candidate domain.Profile) domain.MatchResult {
	result := domain.MatchResult{CandidateID: candidate.ID}

	compatible, reasons := e.filter.Check(subject, candidate)
	result.Compatible = compatible
	result.Reasons = reasons
	if !compatible {
		// Vetado: no gastamos la llamada externa de embedding.
		return result
	}

	candidateVector, err := e.embedder.Embed(ctx, candidate.ID, candidate.Description)
	if err != nil {
		e.logger.Warn("candidate embedding failed",
			zap.String("candidate_id", candidate.ID),
			zap.Error(err),
		)
		result.Err = err
		return result
	}

	sim, err := Cosine(subjectVector, candidateVector)
	if err != nil {
		result.Err = err
		return result
	}
	if sim.ZeroNorm {
		e.logger.Warn("zero-norm embedding, similarity forced to 0",
			zap.String("candidate_id", candidate.ID),
		)
	}
	result.Similarity = sim.Score
	return result
}

// HasFailures reporta si algún candidato del batch quedó con falla de
// embedding (falla parcial, no abortante).
func HasFailures(results []domain.MatchResult) bool {
	for _, r := range results {
		if r.Err != nil {
			return true
		}
	}
	return false
}
