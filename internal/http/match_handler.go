package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"roomie-match/internal/domain"
	"roomie-match/internal/repository"
	"roomie-match/internal/service"
)

// MatchHandler expone el engine de matching a la capa de presentación.
type MatchHandler struct {
	logger   *zap.Logger
	profiles repository.ProfileRepository
	engine   *service.MatchEngine
	graphs   service.MatchGraphBuilder
}

func NewMatchHandler(
	logger *zap.Logger,
	profiles repository.ProfileRepository,
	engine *service.MatchEngine,
) *MatchHandler {
	return &MatchHandler{
		logger:   logger,
		profiles: profiles,
		engine:   engine,
	}
}

// matchResultResponse agrega el marcador de falla de embedding como string.
type matchResultResponse struct {
	domain.MatchResult
	Error string `json:"error,omitempty"`
}

// Match maneja POST /match: resuelve sujeto y candidatos (por id o
// inline), corre el engine y arma el grafo. Distingue "sin matches" (200
// con lista vacía de compatibles) de "matching temporalmente no disponible"
// (503, falla sistémica de embeddings).
func (h *MatchHandler) Match(c *gin.Context) {
	var req struct {
		SubjectID    string           `json:"subject_id"`
		Subject      *domain.Profile  `json:"subject"`
		CandidateIDs []string         `json:"candidate_ids"`
		Candidates   []domain.Profile `json:"candidates"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid match request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	subject, ok := h.resolveSubject(c, req.SubjectID, req.Subject)
	if !ok {
		return
	}

	candidates, ok := h.resolveCandidates(c, req.CandidateIDs, req.Candidates)
	if !ok {
		return
	}

	results, err := h.engine.Match(c.Request.Context(), subject, candidates)
	if err != nil {
		// El engine solo falla embebiendo al sujeto, y sin su vector no hay
		// resultado posible para nadie: la corrida entera queda no disponible.
		h.logger.Error("matching unavailable", zap.Error(err), zap.String("subject_id", subject.ID))
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "matching temporarily unavailable"})
		return
	}

	resp := make([]matchResultResponse, len(results))
	for i, r := range results {
		resp[i] = matchResultResponse{MatchResult: r}
		if r.Err != nil {
			resp[i].Error = r.Err.Error()
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"results":         resp,
		"graph":           h.graphs.Build(subject, results),
		"partial_failure": service.HasFailures(results),
	})
}

// resolveSubject admite un id a cargar del store o un perfil inline ya
// validado por el caller. El id viene asignado por el caller (spec de
// Profile); un inline sin id se rechaza.
func (h *MatchHandler) resolveSubject(c *gin.Context, subjectID string, inline *domain.Profile) (domain.Profile, bool) {
	if inline != nil {
		if inline.ID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "inline subject requires an id"})
			return domain.Profile{}, false
		}
		return *inline, true
	}
	if subjectID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "subject_id or subject is required"})
		return domain.Profile{}, false
	}

	subject, err := h.profiles.GetByID(c.Request.Context(), subjectID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			c.JSON(http.StatusNotFound, gin.H{"error": "subject profile not found"})
			return domain.Profile{}, false
		}
		h.logger.Error("get subject failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not fetch subject"})
		return domain.Profile{}, false
	}
	return subject, true
}

// resolveCandidates junta los cargados por id con los inline, en ese orden.
func (h *MatchHandler) resolveCandidates(c *gin.Context, ids []string, inline []domain.Profile) ([]domain.Profile, bool) {
	if len(ids) == 0 && len(inline) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "candidate_ids or candidates is required"})
		return nil, false
	}

	for _, p := range inline {
		if p.ID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "inline candidates require an id"})
			return nil, false
		}
	}

	candidates, err := h.profiles.ListByIDs(c.Request.Context(), ids)
	if err != nil {
		h.logger.Error("list candidates failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not fetch candidates"})
		return nil, false
	}
	return append(candidates, inline...), true
}

// RerootGraph maneja POST /match/graph/reroot: devuelve la vista de un salto
// alrededor del nuevo nodo focal.
func (h *MatchHandler) RerootGraph(c *gin.Context) {
	var req struct {
		Graph   domain.MatchGraph `json:"graph" binding:"required"`
		FocalID string            `json:"focal_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid reroot request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	graph, err := h.graphs.Reroot(req.Graph, req.FocalID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "focal node not found in graph"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"graph": graph})
}
