package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/dramlab/tastegraph/internal/data/catalog"
	"github.com/dramlab/tastegraph/internal/domain"
	"github.com/dramlab/tastegraph/internal/engine"
	"github.com/dramlab/tastegraph/internal/http/response"
	"github.com/dramlab/tastegraph/internal/platform/logger"
)

type ItemHandler struct {
	catalog  catalog.Catalog
	rankings *engine.Rankings
	log      *logger.Logger
}

func NewItemHandler(cat catalog.Catalog, rankings *engine.Rankings, log *logger.Logger) *ItemHandler {
	return &ItemHandler{
		catalog:  cat,
		rankings: rankings,
		log:      log.With("handler", "ItemHandler"),
	}
}

// SearchItems serves the catalog name search. Without ?search= it lists
// the whole catalog.
func (h *ItemHandler) SearchItems(c *gin.Context) {
	var (
		recs []*catalog.ItemRecord
		err  error
	)
	if text := c.Query("search"); text != "" {
		recs, err = h.catalog.FindByNameMatch(c.Request.Context(), text)
	} else {
		recs, err = h.catalog.GetAll(c.Request.Context())
	}
	if err != nil {
		response.RespondFromError(c, err)
		return
	}
	if recs == nil {
		recs = []*catalog.ItemRecord{}
	}
	response.RespondOK(c, gin.H{"items": recs})
}

func (h *ItemHandler) GetItem(c *gin.Context) {
	rec, err := h.catalog.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.RespondFromError(c, err)
		return
	}
	response.RespondOK(c, rec)
}

func (h *ItemHandler) TopByStrength(c *gin.Context) {
	limit, ok := h.limitParam(c)
	if !ok {
		return
	}
	items, err := h.rankings.TopByStrength(c.Request.Context(), limit)
	if err != nil {
		response.RespondFromError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"items": items})
}

// SearchByStrength lists items whose strength falls within the inclusive
// ?min=..&max=.. range.
func (h *ItemHandler) SearchByStrength(c *gin.Context) {
	min, errMin := strconv.ParseFloat(c.Query("min"), 64)
	max, errMax := strconv.ParseFloat(c.Query("max"), 64)
	if errMin != nil || errMax != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_argument", errBadStrength)
		return
	}
	items, err := h.rankings.ByStrengthRange(c.Request.Context(), min, max)
	if err != nil {
		response.RespondFromError(c, err)
		return
	}
	if items == nil {
		items = []domain.Item{}
	}
	response.RespondOK(c, gin.H{"items": items})
}

func (h *ItemHandler) TopByPopularity(c *gin.Context) {
	limit, ok := h.limitParam(c)
	if !ok {
		return
	}
	ranked, err := h.rankings.TopByPopularity(c.Request.Context(), limit)
	if err != nil {
		response.RespondFromError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"items": ranked})
}

func (h *ItemHandler) limitParam(c *gin.Context) (int, bool) {
	raw := c.Query("limit")
	if raw == "" {
		return engine.DefaultRecommendLimit, true
	}
	limit, err := strconv.Atoi(raw)
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_argument", errBadLimit)
		return 0, false
	}
	return limit, true
}
