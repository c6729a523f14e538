// Package domain defines the persistence models for catalog items and user
// interactions. These types are mapped with GORM and form the core data layer
// of the recommendation backend.
package domain

import (
	"time"

	"gorm.io/gorm"
)

// Interaction type values accepted by the store.
const (
	InteractionRating    = "rating"
	InteractionViewed    = "viewed"
	InteractionPurchased = "purchased"
)

// ValidInteractionType reports whether t is one of the accepted
// interaction_type values.
func ValidInteractionType(t string) bool {
	switch t {
	case InteractionRating, InteractionViewed, InteractionPurchased:
		return true
	}
	return false
}

// Item represents a catalog entity that users can rate and that the external
// recommender ranks. Items are created by seed/import tooling; this service
// only reads them.
//
// Fields:
//   - ID: integer primary key; the external service identifies items by this id.
//   - Title / Description / Category: display attributes.
//   - CreatedAt / UpdatedAt: timestamps managed by GORM.
//   - Interactions: the user feedback rows attached to this item. Loaded only
//     when explicitly preloaded (scoped to the requesting user).
type Item struct {
	ID          uint      `json:"id"          gorm:"primaryKey"`
	Title       string    `json:"title"       gorm:"type:varchar(255);not null"`
	Description string    `json:"description" gorm:"type:text"`
	Category    string    `json:"category"    gorm:"type:varchar(100);index"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	Interactions []Interaction `json:"interactions,omitempty" gorm:"foreignKey:ItemID"`
}

// TableName returns the database table name for Item.
func (Item) TableName() string { return "items" }

// Interaction represents a single user↔item feedback event. The triple
// (user_id, item_id, interaction_type) is unique: a new event for an existing
// triple overwrites the rating in place (upsert, never a second row).
//
// Fields:
//   - ID: stable UUID primary key (char(36)).
//   - UserID: identifier of the interacting user; indexed.
//   - ItemID: foreign key to the rated item (cascade delete).
//   - Rating: integer in [1,5]; defaults to 1.
//   - InteractionType: "rating", "viewed" or "purchased"; defaults to "rating".
//   - CreatedAt / UpdatedAt: timestamps managed by GORM.
type Interaction struct {
	ID              string    `json:"id"               gorm:"type:char(36);primaryKey"`
	UserID          string    `json:"user_id"          gorm:"type:varchar(64);not null;index;uniqueIndex:ux_interaction_identity,priority:1"`
	ItemID          uint      `json:"item_id"          gorm:"not null;index;uniqueIndex:ux_interaction_identity,priority:2"`
	Rating          int       `json:"rating"           gorm:"not null;default:1;check:rating BETWEEN 1 AND 5"`
	InteractionType string    `json:"interaction_type" gorm:"type:varchar(16);not null;default:'rating';uniqueIndex:ux_interaction_identity,priority:3;check:interaction_type IN ('rating','viewed','purchased')"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`

	// Item is the rated catalog entry. Interactions are cascade-deleted
	// if the underlying item is removed.
	Item *Item `json:"-" gorm:"foreignKey:ItemID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for Interaction.
func (Interaction) TableName() string { return "interactions" }

// BeforeSave keeps invalid enum values out even when a caller bypasses the
// service layer; the DB check constraint is the last line of defense.
func (i *Interaction) BeforeSave(tx *gorm.DB) error {
	if i.InteractionType == "" {
		i.InteractionType = InteractionRating
	}
	return nil
}
