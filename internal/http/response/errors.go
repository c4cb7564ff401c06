package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/dramlab/tastegraph/internal/pkg/errors"
)

// RespondFromError maps the engine's error taxonomy onto HTTP statuses.
func RespondFromError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, apperrors.ErrItemNotFound):
		RespondError(c, http.StatusNotFound, "item_not_found", err)
	case errors.Is(err, apperrors.ErrNotFound):
		RespondError(c, http.StatusNotFound, "not_found", err)
	case errors.Is(err, apperrors.ErrInvalidArgument):
		RespondError(c, http.StatusBadRequest, "invalid_argument", err)
	case errors.Is(err, apperrors.ErrStoreUnavailable):
		RespondError(c, http.StatusBadGateway, "store_unavailable", err)
	default:
		RespondError(c, http.StatusInternalServerError, "internal", err)
	}
}
