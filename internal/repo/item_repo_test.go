package repo

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/dperalta/go-recsys-backend/internal/domain"
)

func TestGetItem_NotFound(t *testing.T) {
	db := newRepoDB(t)

	it, err := GetItem(context.Background(), db, 999)
	if it != nil || !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got item=%v err=%v", it, err)
	}
}

func TestGetItem_Success(t *testing.T) {
	db := newRepoDB(t)
	seedItem(t, db, 7, "Seven")

	it, err := GetItem(context.Background(), db, 7)
	if err != nil {
		t.Fatalf("GetItem: %v", err)
	}
	if it.ID != 7 || it.Title != "Seven" {
		t.Fatalf("unexpected item: %+v", it)
	}
}

func TestCountItems(t *testing.T) {
	db := newRepoDB(t)
	seedItem(t, db, 1, "A")
	seedItem(t, db, 2, "B")

	n, err := CountItems(context.Background(), db)
	if err != nil || n != 2 {
		t.Fatalf("CountItems = %d, %v; want 2, nil", n, err)
	}
}

func TestListItemsPage_PreloadsOnlyRequestingUser(t *testing.T) {
	db := newRepoDB(t)
	seedItem(t, db, 1, "A")
	seedItem(t, db, 2, "B")
	ctx := context.Background()

	for _, uid := range []string{"u1", "u2"} {
		row := domain.Interaction{ID: uuid.NewString(), UserID: uid, ItemID: 1, Rating: 3, InteractionType: "rating"}
		if err := db.Create(&row).Error; err != nil {
			t.Fatalf("seed interaction: %v", err)
		}
	}

	items, err := ListItemsPage(ctx, db, "u1", 0, 10)
	if err != nil {
		t.Fatalf("ListItemsPage: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
	if len(items[0].Interactions) != 1 || items[0].Interactions[0].UserID != "u1" {
		t.Fatalf("preload not scoped to u1: %+v", items[0].Interactions)
	}
	if len(items[1].Interactions) != 0 {
		t.Fatalf("item 2 should carry no interactions, got %+v", items[1].Interactions)
	}
}

func TestListItemsPage_OffsetLimit(t *testing.T) {
	db := newRepoDB(t)
	for i := uint(1); i <= 5; i++ {
		seedItem(t, db, i, "item")
	}

	items, err := ListItemsPage(context.Background(), db, "u1", 2, 2)
	if err != nil {
		t.Fatalf("ListItemsPage: %v", err)
	}
	if len(items) != 2 || items[0].ID != 3 || items[1].ID != 4 {
		t.Fatalf("unexpected page: %+v", items)
	}
}

func TestListItemsByIDs_EmptyInput(t *testing.T) {
	db := newRepoDB(t)
	items, err := ListItemsByIDs(context.Background(), db, nil)
	if err != nil || len(items) != 0 {
		t.Fatalf("expected empty result, got %v, %v", items, err)
	}
}

func TestListItemsByIDs_MissingIDsDropped(t *testing.T) {
	db := newRepoDB(t)
	seedItem(t, db, 1, "A")
	seedItem(t, db, 3, "C")

	items, err := ListItemsByIDs(context.Background(), db, []uint{1, 2, 3})
	if err != nil {
		t.Fatalf("ListItemsByIDs: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(items))
	}
}

func TestAllItems(t *testing.T) {
	db := newRepoDB(t)
	seedItem(t, db, 2, "B")
	seedItem(t, db, 1, "A")

	items, err := AllItems(context.Background(), db)
	if err != nil {
		t.Fatalf("AllItems: %v", err)
	}
	if len(items) != 2 || items[0].ID != 1 {
		t.Fatalf("expected id-ordered catalog, got %+v", items)
	}
}
