package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dramlab/tastegraph/internal/domain"
	"github.com/dramlab/tastegraph/internal/engine"
	"github.com/dramlab/tastegraph/internal/http/response"
	"github.com/dramlab/tastegraph/internal/platform/logger"
)

type RatingHandler struct {
	ledger *engine.Ledger
	cache  engine.ProfileCache
	log    *logger.Logger
}

// NewRatingHandler wires the ledger plus an optional profile cache to
// invalidate after writes. cache may be nil.
func NewRatingHandler(ledger *engine.Ledger, cache engine.ProfileCache, log *logger.Logger) *RatingHandler {
	return &RatingHandler{
		ledger: ledger,
		cache:  cache,
		log:    log.With("handler", "RatingHandler"),
	}
}

type putRatingRequest struct {
	User domain.User `json:"user"`
	Rank int         `json:"rank"`
}

func (h *RatingHandler) PutRating(c *gin.Context) {
	itemID := c.Param("id")

	var req putRatingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}
	if req.User.ID == 0 {
		response.RespondError(c, http.StatusBadRequest, "invalid_argument", errMissingUserID)
		return
	}

	rating := domain.Rating{Rank: req.Rank, At: time.Now().UTC()}
	if err := h.ledger.UpsertRating(c.Request.Context(), req.User, itemID, rating); err != nil {
		response.RespondFromError(c, err)
		return
	}
	if h.cache != nil {
		h.cache.Invalidate(c.Request.Context(), req.User.ID)
	}

	response.RespondOK(c, gin.H{
		"item_id": itemID,
		"user_id": req.User.ID,
		"rating":  rating,
	})
}

// ListRatings serves everything the user has rated, each item joined
// with the rank they gave it.
func (h *RatingHandler) ListRatings(c *gin.Context) {
	userID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_argument", errBadUserID)
		return
	}

	ratings, err := h.ledger.ListRatings(c.Request.Context(), userID)
	if err != nil {
		response.RespondFromError(c, err)
		return
	}
	if ratings == nil {
		ratings = []domain.UserRating{}
	}
	response.RespondOK(c, gin.H{
		"user_id": userID,
		"ratings": ratings,
	})
}

func (h *RatingHandler) GetRating(c *gin.Context) {
	itemID := c.Param("id")
	userID, err := strconv.ParseInt(c.Query("user_id"), 10, 64)
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_argument", errBadUserID)
		return
	}

	rating, err := h.ledger.GetRating(c.Request.Context(), userID, itemID)
	if err != nil {
		response.RespondFromError(c, err)
		return
	}

	// rating is null when the user never rated the item.
	response.RespondOK(c, gin.H{
		"item_id": itemID,
		"user_id": userID,
		"rating":  rating,
	})
}
