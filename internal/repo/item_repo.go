// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the Item model.
//
// The repository follows a "thin" approach: it performs persistence and simple
// query composition, leaving business rules to the services package.
package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/dperalta/go-recsys-backend/internal/domain"
)

// ErrNotFound is the repo-level sentinel for missing rows. It wraps GORM's
// record-not-found so callers can branch with errors.Is on either.
var ErrNotFound = errors.New("record not found")

// GetItem returns the item with the given id, or ErrNotFound.
func GetItem(ctx context.Context, db *gorm.DB, id uint) (*domain.Item, error) {
	var it domain.Item
	err := db.WithContext(ctx).First(&it, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &it, nil
}

// CountItems returns the total number of catalog items.
func CountItems(ctx context.Context, db *gorm.DB) (int64, error) {
	var n int64
	err := db.WithContext(ctx).Model(&domain.Item{}).Count(&n).Error
	return n, err
}

// ListItemsPage returns a page of catalog items ordered by id, with the given
// user's interactions preloaded on each row. Interactions belonging to other
// users are never loaded.
func ListItemsPage(ctx context.Context, db *gorm.DB, userID string, offset, limit int) ([]domain.Item, error) {
	var items []domain.Item
	err := db.WithContext(ctx).
		Preload("Interactions", "user_id = ?", userID).
		Order("id ASC").
		Offset(offset).
		Limit(limit).
		Find(&items).Error
	return items, err
}

// ListItemsByIDs fetches the items whose ids appear in ids. The database does
// not preserve the input order; callers that care about ranking must re-sort
// (see services.OrderByRank).
func ListItemsByIDs(ctx context.Context, db *gorm.DB, ids []uint) ([]domain.Item, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var items []domain.Item
	err := db.WithContext(ctx).Where("id IN ?", ids).Find(&items).Error
	return items, err
}

// AllItems returns the full catalog ordered by id. Used to build the in-memory
// search index at startup.
func AllItems(ctx context.Context, db *gorm.DB) ([]domain.Item, error) {
	var items []domain.Item
	err := db.WithContext(ctx).Order("id ASC").Find(&items).Error
	return items, err
}
