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

type TasteHandler struct {
	profiler *engine.Profiler
	log      *logger.Logger
}

func NewTasteHandler(profiler *engine.Profiler, log *logger.Logger) *TasteHandler {
	return &TasteHandler{
		profiler: profiler,
		log:      log.With("handler", "TasteHandler"),
	}
}

// GetTaste returns the user's full profile, or a single category's
// dominant attributes when ?category= is given.
func (h *TasteHandler) GetTaste(c *gin.Context) {
	userID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_argument", errBadUserID)
		return
	}

	if raw := c.Query("category"); raw != "" {
		attrs, err := h.profiler.DominantAttributes(c.Request.Context(), userID, domain.Category(raw))
		if err != nil {
			response.RespondFromError(c, err)
			return
		}
		if attrs == nil {
			attrs = []domain.Attribute{}
		}
		response.RespondOK(c, gin.H{
			"user_id":    userID,
			"category":   raw,
			"attributes": attrs,
		})
		return
	}

	profile, err := h.profiler.Profile(c.Request.Context(), userID)
	if err != nil {
		response.RespondFromError(c, err)
		return
	}
	response.RespondOK(c, gin.H{
		"user_id":      userID,
		"dominant":     profile.Dominant,
		"undetermined": profile.Undetermined(),
	})
}
