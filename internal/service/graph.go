package service

import (
	"fmt"

	"roomie-match/internal/domain"
)

// MatchGraphBuilder arma el grafo de resultados aceptados para la capa de
// presentación. Determinista: mismo input, mismo grafo; el layout/física es
// asunto del renderer.
type MatchGraphBuilder struct{}

// Build crea un nodo por el sujeto más uno por cada candidato compatible, y
// una arista sujeto-candidato por cada resultado aceptado. Los candidatos
// vetados no entran al grafo.
func (MatchGraphBuilder) Build(subject domain.Profile, results []domain.MatchResult) domain.MatchGraph {
	graph := domain.MatchGraph{FocalID: subject.ID}
	graph.Nodes = append(graph.Nodes, domain.GraphNode{
		ID:    subject.ID,
		Label: subject.Name,
		Focal: true,
	})

	for _, r := range results {
		if !r.Compatible {
			continue
		}
		graph.Nodes = append(graph.Nodes, domain.GraphNode{ID: r.CandidateID})
		graph.Edges = append(graph.Edges, domain.GraphEdge{
			Source:     subject.ID,
			Target:     r.CandidateID,
			Similarity: r.Similarity,
		})
	}
	return graph
}

// Reroot recorta el grafo a la vista de un salto alrededor de focalID: el
// nodo focal más sus vecinos directos. Acota el tamaño presentado y hace el
// recorrido incremental en lugar de render del pool completo.
func (MatchGraphBuilder) Reroot(graph domain.MatchGraph, focalID string) (domain.MatchGraph, error) {
	found := false
	for _, n := range graph.Nodes {
		if n.ID == focalID {
			found = true
			break
		}
	}
	if !found {
		return domain.MatchGraph{}, fmt.Errorf("focal node %s not present in graph", focalID)
	}

	keep := map[string]bool{focalID: true}
	var edges []domain.GraphEdge
	for _, e := range graph.Edges {
		switch focalID {
		case e.Source:
			keep[e.Target] = true
			edges = append(edges, e)
		case e.Target:
			keep[e.Source] = true
			edges = append(edges, e)
		}
	}

	var nodes []domain.GraphNode
	for _, n := range graph.Nodes {
		if !keep[n.ID] {
			continue
		}
		n.Focal = n.ID == focalID
		nodes = append(nodes, n)
	}

	return domain.MatchGraph{FocalID: focalID, Nodes: nodes, Edges: edges}, nil
}
