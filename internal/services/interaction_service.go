// Package services – InteractionService
//
// This file implements the InteractionService, the single place user feedback
// enters the system. It validates the event (item existence, rating range,
// interaction type) and persists it with upsert-by-identity semantics: at
// most one row per (user, item, type), later events overwrite the rating.
// Service-level errors (ErrItemNotFound, ErrInvalidRating,
// ErrInvalidInteractionType) are returned for predictable cases so handlers
// can map them to HTTP results consistently.
package services

import (
	"context"

	"gorm.io/gorm"

	"github.com/dperalta/go-recsys-backend/internal/domain"
	"github.com/dperalta/go-recsys-backend/internal/repo"
)

// InteractionService implements the use-cases around user↔item feedback.
type InteractionService struct {
	// DB is the database handle used for all interaction operations.
	DB *gorm.DB
}

// Record persists a feedback event for userID on itemID.
//
// Semantics and validation:
//   - itemID must reference an existing item; otherwise ErrItemNotFound.
//   - rating must be an integer in [1,5]; otherwise ErrInvalidRating.
//   - itype must be "", "rating", "viewed" or "purchased"; empty defaults to
//     "rating"; anything else yields ErrInvalidInteractionType.
//
// Idempotency:
//   - The write is an upsert keyed on (userID, itemID, itype). Submitting the
//     identical request twice leaves exactly one row, carrying the rating of
//     the second call. No retraining or other side effect is triggered here.
func (s *InteractionService) Record(ctx context.Context, userID string, itemID uint, rating int, itype string) (*domain.Interaction, error) {
	if itype == "" {
		itype = domain.InteractionRating
	}
	if !domain.ValidInteractionType(itype) {
		return nil, ErrInvalidInteractionType
	}
	if rating < 1 || rating > 5 {
		return nil, ErrInvalidRating
	}

	if _, err := repo.GetItem(ctx, s.DB, itemID); err != nil {
		if err == repo.ErrNotFound {
			return nil, ErrItemNotFound
		}
		return nil, err
	}

	return repo.UpsertInteraction(ctx, s.DB, userID, itemID, rating, itype)
}

// CatalogPage is one page of items with the requesting user's interactions
// attached.
type CatalogPage struct {
	Items      []domain.Item `json:"items"`
	Page       int           `json:"page"`
	PerPage    int           `json:"per_page"`
	TotalItems int64         `json:"total_items"`
}

// ListCatalog returns a page of the catalog with userID's own interactions
// preloaded on each item. page and perPage are 1-based and clamped to sane
// bounds.
func (s *InteractionService) ListCatalog(ctx context.Context, userID string, page, perPage int) (*CatalogPage, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}

	total, err := repo.CountItems(ctx, s.DB)
	if err != nil {
		return nil, err
	}
	items, err := repo.ListItemsPage(ctx, s.DB, userID, (page-1)*perPage, perPage)
	if err != nil {
		return nil, err
	}
	return &CatalogPage{Items: items, Page: page, PerPage: perPage, TotalItems: total}, nil
}

// ItemsByRankedIDs loads the items for ids and returns them in the given
// order. Ids with no matching row are dropped.
func (s *InteractionService) ItemsByRankedIDs(ctx context.Context, ids []uint) ([]domain.Item, error) {
	if len(ids) == 0 {
		return []domain.Item{}, nil
	}
	items, err := repo.ListItemsByIDs(ctx, s.DB, ids)
	if err != nil {
		return nil, err
	}
	return OrderByRank(ids, items), nil
}

// ExportRow is the flat shape shared by the CSV and JSON export endpoints.
type ExportRow struct {
	UserID          string `json:"user_id"`
	ItemID          uint   `json:"item_id"`
	Rating          int    `json:"rating"`
	InteractionType string `json:"interaction_type"`
	CreatedAt       string `json:"created_at"`
}

// Export returns every interaction as a flat row, oldest first.
func (s *InteractionService) Export(ctx context.Context) ([]ExportRow, error) {
	rows, err := repo.AllInteractions(ctx, s.DB)
	if err != nil {
		return nil, err
	}
	out := make([]ExportRow, 0, len(rows))
	for _, r := range rows {
		out = append(out, ExportRow{
			UserID:          r.UserID,
			ItemID:          r.ItemID,
			Rating:          r.Rating,
			InteractionType: r.InteractionType,
			CreatedAt:       r.CreatedAt.UTC().Format("2006-01-02 15:04:05"),
		})
	}
	return out, nil
}
