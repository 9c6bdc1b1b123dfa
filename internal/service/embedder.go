package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"roomie-match/internal/nlp"
)

var (
	// ErrExtraction indica que la extracción de frases clave falló. No se
	// cae de vuelta al texto crudo: ese cambio de señal sería invisible
	// para el caller.
	ErrExtraction = errors.New("key phrase extraction failed")

	// ErrEmbeddingUnavailable indica que el backend no produjo vector para
	// el texto dado. El caller puede reintentar mas tarde.
	ErrEmbeddingUnavailable = errors.New("embedding backend returned no vector")
)

// Embedder convierte la descripción de un perfil en un vector de dimensión fija.
// El profileID sólo se usa como clave de cache; el vector depende del texto.
type Embedder interface {
	Embed(ctx context.Context, profileID, description string) ([]float32, error)
	Dimension() int
}

// TextEmbedder implementa el pipeline de dos etapas: extraer frases clave y
// embeber el string compactado. Reducir a frases salientes antes de embeber
// concentra la señal semántica en lugar de diluirla en la estructura de la
// oración.
type TextEmbedder struct {
	extractor nlp.KeyPhraseExtractor
	backend   nlp.EmbeddingBackend
	dimension int
	language  string
	logger    *zap.Logger
}

func NewTextEmbedder(extractor nlp.KeyPhraseExtractor, backend nlp.EmbeddingBackend, dimension int, language string, logger *zap.Logger) *TextEmbedder {
	if language == "" {
		language = "en"
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TextEmbedder{
		extractor: extractor,
		backend:   backend,
		dimension: dimension,
		language:  language,
		logger:    logger,
	}
}

func (e *TextEmbedder) Dimension() int {
	return e.dimension
}

func (e *TextEmbedder) Embed(ctx context.Context, profileID, description string) ([]float32, error) {
	// Descripción vacía: embebemos el conjunto vacío de frases, sin llamar
	// al extractor (rechaza input vacío).
	var phrases []string
	if strings.TrimSpace(description) != "" {
		var err error
		phrases, err = e.extractor.Extract(ctx, description, e.language)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrExtraction, err)
		}
	}

	compacted := strings.Join(phrases, ", ")
	e.logger.Debug("embedding key phrases",
		zap.String("profile_id", profileID),
		zap.Int("phrase_count", len(phrases)),
	)

	vector, err := e.backend.Embed(ctx, compacted, e.dimension)
	if err != nil {
		return nil, fmt.Errorf("generate embedding: %w", err)
	}
	if len(vector) == 0 {
		return nil, ErrEmbeddingUnavailable
	}
	return vector, nil
}
