package repo

import (
	"context"
	"fmt"
	"testing"
	"time"

	sqlite "github.com/glebarez/sqlite" // pure-Go SQLite
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/dperalta/go-recsys-backend/internal/domain"
)

func newRepoDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:repo_%s?mode=memory&cache=shared", uuid.NewString())

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	db.Exec("PRAGMA foreign_keys=ON;")
	if err := AutoMigrate(db); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	return db
}

func seedItem(t *testing.T, db *gorm.DB, id uint, title string) {
	t.Helper()
	it := domain.Item{ID: id, Title: title, Category: "general"}
	if err := db.Create(&it).Error; err != nil {
		t.Fatalf("seed item %d: %v", id, err)
	}
}

func TestUpsertInteraction_CreatesRow(t *testing.T) {
	db := newRepoDB(t)
	seedItem(t, db, 1, "A")

	row, err := UpsertInteraction(context.Background(), db, "u1", 1, 4, domain.InteractionRating)
	if err != nil {
		t.Fatalf("UpsertInteraction: %v", err)
	}
	if row.ID == "" || row.UserID != "u1" || row.ItemID != 1 || row.Rating != 4 {
		t.Fatalf("unexpected row: %+v", row)
	}
	if row.InteractionType != domain.InteractionRating {
		t.Fatalf("interaction type = %q", row.InteractionType)
	}
}

func TestUpsertInteraction_SameIdentityOverwritesRating(t *testing.T) {
	db := newRepoDB(t)
	seedItem(t, db, 1, "A")
	ctx := context.Background()

	first, err := UpsertInteraction(ctx, db, "u1", 1, 2, domain.InteractionRating)
	if err != nil {
		t.Fatalf("first upsert: %v", err)
	}
	second, err := UpsertInteraction(ctx, db, "u1", 1, 5, domain.InteractionRating)
	if err != nil {
		t.Fatalf("second upsert: %v", err)
	}

	if second.ID != first.ID {
		t.Fatalf("expected same row id, got %q then %q", first.ID, second.ID)
	}
	if second.Rating != 5 {
		t.Fatalf("rating not overwritten: %+v", second)
	}

	var n int64
	if err := db.Model(&domain.Interaction{}).Count(&n).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected exactly 1 row, got %d", n)
	}
}

func TestUpsertInteraction_DistinctTypesCreateDistinctRows(t *testing.T) {
	db := newRepoDB(t)
	seedItem(t, db, 1, "A")
	ctx := context.Background()

	if _, err := UpsertInteraction(ctx, db, "u1", 1, 5, domain.InteractionRating); err != nil {
		t.Fatalf("rating upsert: %v", err)
	}
	if _, err := UpsertInteraction(ctx, db, "u1", 1, 5, domain.InteractionViewed); err != nil {
		t.Fatalf("viewed upsert: %v", err)
	}

	var n int64
	if err := db.Model(&domain.Interaction{}).Count(&n).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 2 {
		t.Fatalf("expected 2 rows (one per type), got %d", n)
	}
}

func TestUpsertInteraction_DistinctUsersDoNotCollide(t *testing.T) {
	db := newRepoDB(t)
	seedItem(t, db, 1, "A")
	ctx := context.Background()

	a, err := UpsertInteraction(ctx, db, "u1", 1, 3, domain.InteractionRating)
	if err != nil {
		t.Fatalf("u1 upsert: %v", err)
	}
	b, err := UpsertInteraction(ctx, db, "u2", 1, 4, domain.InteractionRating)
	if err != nil {
		t.Fatalf("u2 upsert: %v", err)
	}
	if a.ID == b.ID {
		t.Fatalf("rows for different users share id %q", a.ID)
	}
}

func TestListUserInteractions_FiltersAndOrders(t *testing.T) {
	db := newRepoDB(t)
	seedItem(t, db, 1, "A")
	seedItem(t, db, 2, "B")
	ctx := context.Background()

	// Deterministic timestamps so order is verifiable.
	old := time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)
	rows := []domain.Interaction{
		{ID: uuid.NewString(), UserID: "u1", ItemID: 1, Rating: 3, InteractionType: "rating", CreatedAt: old, UpdatedAt: old},
		{ID: uuid.NewString(), UserID: "u1", ItemID: 2, Rating: 4, InteractionType: "rating", CreatedAt: old.Add(time.Hour), UpdatedAt: old.Add(time.Hour)},
		{ID: uuid.NewString(), UserID: "u2", ItemID: 1, Rating: 5, InteractionType: "rating", CreatedAt: old, UpdatedAt: old},
	}
	for i := range rows {
		if err := db.Create(&rows[i]).Error; err != nil {
			t.Fatalf("seed interaction: %v", err)
		}
	}

	got, err := ListUserInteractions(ctx, db, "u1")
	if err != nil {
		t.Fatalf("ListUserInteractions: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 rows for u1, got %d", len(got))
	}
	if got[0].ItemID != 2 || got[1].ItemID != 1 {
		t.Fatalf("expected newest first, got %+v", got)
	}
}

func TestAllInteractions_OrderedByCreation(t *testing.T) {
	db := newRepoDB(t)
	seedItem(t, db, 1, "A")
	ctx := context.Background()

	old := time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)
	newer := old.Add(time.Hour)
	for i, ts := range []time.Time{newer, old} {
		row := domain.Interaction{
			ID: uuid.NewString(), UserID: fmt.Sprintf("u%d", i), ItemID: 1,
			Rating: 3, InteractionType: "rating", CreatedAt: ts, UpdatedAt: ts,
		}
		if err := db.Create(&row).Error; err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	got, err := AllInteractions(ctx, db)
	if err != nil {
		t.Fatalf("AllInteractions: %v", err)
	}
	if len(got) != 2 || !got[0].CreatedAt.Before(got[1].CreatedAt) {
		t.Fatalf("expected oldest first, got %+v", got)
	}
}
