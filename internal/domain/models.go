package domain

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	pgvector "github.com/pgvector/pgvector-go"
)

// Tri representa una preferencia de tres estados: sin definir, falso o verdadero.
// El zero value es TriUnset, asi una clave ausente en el JSON nunca puede vetar.
type Tri int8

const (
	TriUnset Tri = iota
	TriFalse
	TriTrue
)

// UnmarshalJSON acepta booleanos, null y los strings legados "True"/"False"
// del formulario original.
func (t *Tri) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		*t = TriUnset
		return nil
	}
	switch strings.ToLower(strings.Trim(string(data), `"`)) {
	case "true":
		*t = TriTrue
	case "false":
		*t = TriFalse
	case "":
		*t = TriUnset
	default:
		return fmt.Errorf("invalid tri-state value: %s", string(data))
	}
	return nil
}

// MarshalJSON emite null para TriUnset y booleanos para el resto.
func (t Tri) MarshalJSON() ([]byte, error) {
	switch t {
	case TriTrue:
		return []byte("true"), nil
	case TriFalse:
		return []byte("false"), nil
	default:
		return []byte("null"), nil
	}
}

func (t Tri) String() string {
	switch t {
	case TriTrue:
		return "true"
	case TriFalse:
		return "false"
	default:
		return "unset"
	}
}

// PreferenceSet agrupa los atributos de convivencia sobre los que se aplica el veto.
// Gender es categorico; el resto son banderas tri-estado.
type PreferenceSet struct {
	Drinking Tri    `json:"drinking"`
	Smoking  Tri    `json:"smoking"`
	NotClean Tri    `json:"not_clean"`
	Pets     Tri    `json:"pets"`
	Gender   string `json:"gender,omitempty"`
}

// GenderSet indica si hay una preferencia de genero definida.
// El string legado "False" cuenta como sin definir.
func (p PreferenceSet) GenderSet() bool {
	g := strings.TrimSpace(p.Gender)
	return g != "" && !strings.EqualFold(g, "false")
}

// Profile es el registro minimo necesario para correr el matching.
// Requirements es lo que la persona exige; Traits lo que ofrece.
type Profile struct {
	ID           string        `json:"id"`
	Name         string        `json:"name"`
	Education    string        `json:"education,omitempty"`
	Age          int           `json:"age,omitempty"`
	Description  string        `json:"description"`
	Requirements PreferenceSet `json:"requirements"`
	Traits       PreferenceSet `json:"traits"`
	CreatedAt    time.Time     `json:"created_at"`
}

// MatchResult es la salida por candidato de una corrida del engine.
// Reasons queda vacio si y solo si Compatible es true. Err marca una falla
// de embedding aislada a este candidato; no aborta el batch.
type MatchResult struct {
	CandidateID string   `json:"candidate_id"`
	Similarity  float64  `json:"similarity"`
	Compatible  bool     `json:"compatible"`
	Reasons     []string `json:"reasons,omitempty"`
	Err         error    `json:"-"`
}

// GraphNode es un nodo del grafo de resultados, identificado por id de perfil.
type GraphNode struct {
	ID    string `json:"id"`
	Label string `json:"label,omitempty"`
	Focal bool   `json:"focal,omitempty"`
}

// GraphEdge conecta al sujeto con un candidato aceptado; el par es no dirigido.
type GraphEdge struct {
	Source     string  `json:"source"`
	Target     string  `json:"target"`
	Similarity float64 `json:"similarity"`
}

// MatchGraph es la estructura que consume la capa de presentacion.
// Invariante: toda arista une dos nodos presentes y proviene de un
// MatchResult con Compatible=true.
type MatchGraph struct {
	FocalID string      `json:"focal_id"`
	Nodes   []GraphNode `json:"nodes"`
	Edges   []GraphEdge `json:"edges"`
}

// StoredEmbedding es la tupla (perfil, vector, timestamp) que se persiste
// para poder re-correr matching sin recomputar vectores.
type StoredEmbedding struct {
	ProfileID string          `json:"profile_id"`
	Embedding pgvector.Vector `json:"embedding"`
	CreatedAt time.Time       `json:"created_at"`
}
