package service

import (
	"errors"
	"math"
)

// ErrDimensionMismatch indica un error de programación: se compararon
// vectores de largo distinto. No es una condición recuperable en runtime.
var ErrDimensionMismatch = errors.New("embedding vectors have different dimensions")

// Similarity es el resultado de comparar dos vectores.
type Similarity struct {
	// Score es la similitud coseno, en teoría [-1, 1]; en la práctica se
	// interpreta como relevancia [0, 1] porque los embeddings son
	// mayormente no negativos.
	Score float64
	// ZeroNorm marca el caso degenerado de norma cero. Score queda en 0
	// en lugar de propagar NaN/Inf al ranking.
	ZeroNorm bool
}

// Cosine calcula la similitud coseno entre dos vectores: producto punto
// dividido por el producto de las normas euclidianas. Pura y determinista.
func Cosine(a, b []float32) (Similarity, error) {
	if len(a) != len(b) {
		return Similarity{}, ErrDimensionMismatch
	}

	var dot, normA, normB float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		normA += x * x
		normB += y * y
	}

	if normA == 0 || normB == 0 {
		return Similarity{ZeroNorm: true}, nil
	}

	return Similarity{Score: dot / (math.Sqrt(normA) * math.Sqrt(normB))}, nil
}
