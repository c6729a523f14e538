// Catalog and interaction HTTP handlers.
//
// This file exposes the REST endpoints for browsing the catalog and recording
// user feedback:
//   - GET  /items          (catalog with the user's own interactions)
//   - GET  /items/search   (keyword search over the catalog)
//   - POST /interactions   (upsert a feedback event)
//
// Handlers in this file are transport-thin: they validate input, delegate to
// application services, and translate domain/service errors into HTTP results.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dperalta/go-recsys-backend/internal/i18n"
	"github.com/dperalta/go-recsys-backend/internal/services"
	"github.com/dperalta/go-recsys-backend/internal/utils"
)

// RecordInteractionRequest is the JSON payload for recording feedback on an
// item. InteractionType defaults to "rating" when omitted.
type RecordInteractionRequest struct {
	// ItemID references an existing catalog item.
	ItemID uint `json:"item_id" binding:"required" example:"42"`
	// Rating is the feedback value, 1 (worst) to 5 (best).
	Rating int `json:"rating" binding:"required,min=1,max=5" example:"4"`
	// InteractionType is one of rating, viewed, purchased.
	InteractionType string `json:"interaction_type" binding:"omitempty,oneof=rating viewed purchased" example:"rating"`
}

// ListItems godoc
// @ID          listItems
// @Summary     List catalog items
// @Description Returns a page of catalog items with the requesting user's own interactions attached.
// @Tags        Items
// @Produce     json
//
// @Param       X-User-ID  header  string  false "User ID (demo header)"  example(user123)
// @Param       page       query   int     false "1-based page"           default(1)
// @Param       per_page   query   int     false "Page size (max 100)"    default(20)
//
// @Success     200  {object}  services.CatalogPage
// @Failure     500  {object}  handlers.ErrorResponse "Internal server error"
// @Router      /items [get]
func (h *Handlers) ListItems(c *gin.Context) {
	page := utils.AtoiDefault(c.Query("page"), 1)
	perPage := utils.AtoiDefault(c.Query("per_page"), 20)

	out, err := h.interactions.ListCatalog(c.Request.Context(), userID(c), page, perPage)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, "could not list items")
		return
	}
	ok(c, http.StatusOK, out)
}

// SearchItems godoc
// @ID          searchItems
// @Summary     Search catalog items
// @Description Keyword search over item titles, descriptions and categories. Results are ranked by similarity.
// @Tags        Items
// @Produce     json
//
// @Param       q     query  string  true  "Search query"
// @Param       limit query  int     false "Maximum results" default(10)
//
// @Success     200  {object}  map[string]any
// @Failure     400  {object}  handlers.ErrorResponse "Missing query"
// @Router      /items/search [get]
func (h *Handlers) SearchItems(c *gin.Context) {
	q := c.Query("q")
	if q == "" {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "query parameter q is required")
		return
	}
	limit := utils.AtoiDefault(c.Query("limit"), 10)

	results := h.idx.TopK(q, limit)
	ids := make([]uint, 0, len(results))
	scores := make(map[uint]float64, len(results))
	for _, r := range results {
		ids = append(ids, r.ItemID)
		scores[r.ItemID] = r.Score
	}

	items, err := h.interactions.ItemsByRankedIDs(c.Request.Context(), ids)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, "could not load search results")
		return
	}

	type hit struct {
		Item  any     `json:"item"`
		Score float64 `json:"score"`
	}
	hits := make([]hit, 0, len(items))
	for _, it := range items {
		hits = append(hits, hit{Item: it, Score: scores[it.ID]})
	}
	ok(c, http.StatusOK, gin.H{"query": q, "results": hits})
}

// RecordInteraction godoc
// @ID          recordInteraction
// @Summary     Record a user interaction
// @Description Upserts a feedback event keyed on (user, item, interaction_type). A repeated event overwrites the rating of the existing row.
// @Tags        Interactions
// @Accept      json
// @Produce     json
//
// @Param       X-User-ID  header  string  false "User ID (demo header)"  example(user123)
// @Param       body       body    handlers.RecordInteractionRequest true "Interaction payload"
//
// @Success     200  {object}  map[string]any
// @Failure     400  {object}  handlers.ErrorResponse "Invalid payload"
// @Failure     404  {object}  handlers.ErrorResponse "Item not found"
// @Failure     500  {object}  handlers.ErrorResponse "Internal server error"
// @Router      /interactions [post]
func (h *Handlers) RecordInteraction(c *gin.Context) {
	var req RecordInteractionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeValidation, "item_id is required and rating must be between 1 and 5")
		return
	}

	row, err := h.interactions.Record(c.Request.Context(), userID(c), req.ItemID, req.Rating, req.InteractionType)
	if err != nil {
		switch err {
		case services.ErrItemNotFound:
			fail(c, http.StatusNotFound, ErrCodeNotFound, "item not found")
		case services.ErrInvalidRating:
			fail(c, http.StatusBadRequest, ErrCodeValidation, "rating must be between 1 and 5")
		case services.ErrInvalidInteractionType:
			fail(c, http.StatusBadRequest, ErrCodeValidation, "interaction_type must be rating, viewed or purchased")
		default:
			fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		}
		return
	}

	p := i18n.Printer(c.GetHeader("Accept-Language"))
	ok(c, http.StatusOK, gin.H{
		"message":     p.Sprintf(i18n.KeyInteractionSaved),
		"interaction": row,
	})
}
