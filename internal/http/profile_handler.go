package http

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	pgvector "github.com/pgvector/pgvector-go"
	"go.uber.org/zap"

	"roomie-match/internal/domain"
	"roomie-match/internal/repository"
	"roomie-match/internal/service"
)

// ProfileHandler mantiene dependencias para los endpoints de perfiles.
type ProfileHandler struct {
	logger     *zap.Logger
	profiles   repository.ProfileRepository
	embeddings repository.EmbeddingRepository
	embedder   service.Embedder
}

func NewProfileHandler(
	logger *zap.Logger,
	profiles repository.ProfileRepository,
	embeddings repository.EmbeddingRepository,
	embedder service.Embedder,
) *ProfileHandler {
	return &ProfileHandler{
		logger:     logger,
		profiles:   profiles,
		embeddings: embeddings,
		embedder:   embedder,
	}
}

// CreateProfile maneja POST /profiles. Persiste el perfil y dispara el
// computo y guardado del embedding en background, best-effort: un fallo del
// backend de embeddings no bloquea el alta.
func (h *ProfileHandler) CreateProfile(c *gin.Context) {
	var req struct {
		Name         string               `json:"name" binding:"required"`
		Education    string               `json:"education"`
		Age          int                  `json:"age"`
		Description  string               `json:"description"`
		Requirements domain.PreferenceSet `json:"requirements"`
		Traits       domain.PreferenceSet `json:"traits"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid create profile request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	profile := domain.Profile{
		ID:           uuid.NewString(),
		Name:         req.Name,
		Education:    req.Education,
		Age:          req.Age,
		Description:  req.Description,
		Requirements: req.Requirements,
		Traits:       req.Traits,
		CreatedAt:    time.Now().UTC(),
	}

	if err := h.profiles.Create(c.Request.Context(), profile); err != nil {
		h.logger.Error("create profile failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create profile"})
		return
	}

	go h.storeEmbedding(profile)

	c.JSON(http.StatusCreated, gin.H{"profile": profile})
}

func (h *ProfileHandler) storeEmbedding(profile domain.Profile) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	vector, err := h.embedder.Embed(ctx, profile.ID, profile.Description)
	if err != nil {
		h.logger.Warn("profile embedding failed", zap.Error(err), zap.String("profile_id", profile.ID))
		return
	}
	if err := h.embeddings.Upsert(ctx, profile.ID, pgvector.NewVector(vector), time.Now().UTC()); err != nil {
		h.logger.Warn("profile embedding upsert failed", zap.Error(err), zap.String("profile_id", profile.ID))
	}
}

// GetProfile maneja GET /profiles/:id.
func (h *ProfileHandler) GetProfile(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id is required"})
		return
	}

	profile, err := h.profiles.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			c.JSON(http.StatusNotFound, gin.H{"error": "profile not found"})
			return
		}
		h.logger.Error("get profile failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not fetch profile"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"profile": profile})
}

// GetSimilarProfiles maneja GET /profiles/:id/similar y arma un pool de
// candidatos por cercania de vectores. Es descubrimiento, no matching: los
// vetos duros se aplican despues, al correr /match sobre este pool.
func (h *ProfileHandler) GetSimilarProfiles(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id is required"})
		return
	}

	k := 5
	if raw := c.Query("k"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 || parsed > 50 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "k must be between 1 and 50"})
			return
		}
		k = parsed
	}

	stored, err := h.embeddings.GetByProfileID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			c.JSON(http.StatusNotFound, gin.H{"error": "profile embedding not found"})
			return
		}
		h.logger.Error("get profile embedding failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not fetch embedding"})
		return
	}

	// Pedimos k+1 porque el propio perfil es su vecino mas cercano.
	neighbors, err := h.embeddings.Nearest(c.Request.Context(), stored.Embedding, k+1)
	if err != nil {
		h.logger.Error("nearest embeddings failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not search embeddings"})
		return
	}

	ids := make([]string, 0, len(neighbors))
	for _, n := range neighbors {
		if n.ProfileID == id {
			continue
		}
		ids = append(ids, n.ProfileID)
	}
	if len(ids) > k {
		ids = ids[:k]
	}

	profiles, err := h.profiles.ListByIDs(c.Request.Context(), ids)
	if err != nil {
		h.logger.Error("list similar profiles failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not fetch profiles"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"profiles": profiles})
}
