// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the Interaction
// model.
//
// Error semantics:
//   - UpsertInteraction never reports a duplicate: the identity triple
//     (user_id, item_id, interaction_type) resolves to ON CONFLICT DO UPDATE,
//     so a repeated event overwrites the rating of the existing row.
//   - On other DB errors (connectivity, constraints, etc.), the raw gorm
//     error is propagated.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/dperalta/go-recsys-backend/internal/domain"
)

// UpsertInteraction records a feedback event for (userID, itemID, itype).
//
// If a row with that identity already exists its rating and updated_at are
// overwritten; otherwise a new row is created. The saved row is re-read and
// returned so callers always see the persisted state (including the original
// created_at on update).
//
// The upsert makes the operation idempotent under retries: issuing the
// identical request twice yields one row, with the rating of the second call.
func UpsertInteraction(ctx context.Context, db *gorm.DB, userID string, itemID uint, rating int, itype string) (*domain.Interaction, error) {
	now := time.Now().UTC()
	row := &domain.Interaction{
		ID:              uuid.NewString(),
		UserID:          userID,
		ItemID:          itemID,
		Rating:          rating,
		InteractionType: itype,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	err := db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "user_id"},
			{Name: "item_id"},
			{Name: "interaction_type"},
		},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"rating":     rating,
			"updated_at": now,
		}),
	}).Create(row).Error
	if err != nil {
		return nil, err
	}

	// Re-read: on conflict the generated ID above was discarded in favor of
	// the existing row's.
	var saved domain.Interaction
	err = db.WithContext(ctx).
		Where("user_id = ? AND item_id = ? AND interaction_type = ?", userID, itemID, itype).
		First(&saved).Error
	if err != nil {
		return nil, err
	}
	return &saved, nil
}

// ListUserInteractions returns all interactions recorded for userID,
// newest first.
func ListUserInteractions(ctx context.Context, db *gorm.DB, userID string) ([]domain.Interaction, error) {
	var rows []domain.Interaction
	err := db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("updated_at DESC").
		Find(&rows).Error
	return rows, err
}

// AllInteractions returns every interaction row ordered by creation time.
// Used by the export endpoints.
func AllInteractions(ctx context.Context, db *gorm.DB) ([]domain.Interaction, error) {
	var rows []domain.Interaction
	err := db.WithContext(ctx).Order("created_at ASC").Find(&rows).Error
	return rows, err
}
