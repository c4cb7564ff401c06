package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/dramlab/tastegraph/internal/domain"
	"github.com/dramlab/tastegraph/internal/engine"
	"github.com/dramlab/tastegraph/internal/http/response"
	"github.com/dramlab/tastegraph/internal/platform/logger"
)

type RecommendationHandler struct {
	sampler *engine.Sampler
	log     *logger.Logger
}

func NewRecommendationHandler(sampler *engine.Sampler, log *logger.Logger) *RecommendationHandler {
	return &RecommendationHandler{
		sampler: sampler,
		log:     log.With("handler", "RecommendationHandler"),
	}
}

func (h *RecommendationHandler) GetRecommendations(c *gin.Context) {
	userID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_argument", errBadUserID)
		return
	}

	limit := engine.DefaultRecommendLimit
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			response.RespondError(c, http.StatusBadRequest, "invalid_argument", errBadLimit)
			return
		}
		limit = parsed
	}

	items, err := h.sampler.Recommend(c.Request.Context(), userID, limit)
	if err != nil {
		response.RespondFromError(c, err)
		return
	}
	if items == nil {
		items = []domain.Item{}
	}
	response.RespondOK(c, gin.H{
		"user_id": userID,
		"items":   items,
	})
}
