package services

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/dperalta/go-recsys-backend/internal/domain"
	"github.com/dperalta/go-recsys-backend/internal/mlclient"
)

// fakeRecommender returns a canned result or failure.
type fakeRecommender struct {
	res *mlclient.RecommendationResult
	err error

	gotUser string
	gotTopN int
}

func (f *fakeRecommender) Recommend(ctx context.Context, userID string, topN int) (*mlclient.RecommendationResult, error) {
	f.gotUser = userID
	f.gotTopN = topN
	return f.res, f.err
}

func TestGetForUser_RestoresRankOrder(t *testing.T) {
	db := newTestDB(t)
	seedItems(t, db, 2, 5, 9, 11)

	rec := &fakeRecommender{res: &mlclient.RecommendationResult{
		ItemIDs:        []uint{5, 2, 9},
		TotalAvailable: 3,
		SeenItemsCount: 1,
	}}
	svc := &RecommendationService{DB: db, Client: rec}

	page, err := svc.GetForUser(context.Background(), "u1", 3, "")
	if err != nil {
		t.Fatalf("GetForUser: %v", err)
	}
	if page.ErrorMessage != "" {
		t.Fatalf("unexpected error message: %q", page.ErrorMessage)
	}
	if len(page.Items) != 3 || page.Items[0].ID != 5 || page.Items[1].ID != 2 || page.Items[2].ID != 9 {
		t.Fatalf("rank order broken: %+v", page.Items)
	}
	if page.Meta.TotalAvailable != 3 || page.Meta.SeenItemsCount != 1 {
		t.Fatalf("meta mismatch: %+v", page.Meta)
	}
	if rec.gotUser != "u1" || rec.gotTopN != 3 {
		t.Fatalf("client called with %q/%d", rec.gotUser, rec.gotTopN)
	}
}

func TestGetForUser_DropsIDsWithoutCatalogRow(t *testing.T) {
	db := newTestDB(t)
	seedItems(t, db, 1)

	rec := &fakeRecommender{res: &mlclient.RecommendationResult{ItemIDs: []uint{7, 1}}}
	svc := &RecommendationService{DB: db, Client: rec}

	page, err := svc.GetForUser(context.Background(), "u1", 5, "")
	if err != nil {
		t.Fatalf("GetForUser: %v", err)
	}
	if len(page.Items) != 1 || page.Items[0].ID != 1 {
		t.Fatalf("expected only the known id, got %+v", page.Items)
	}
}

func TestGetForUser_FailureBecomesLocalizedMessage(t *testing.T) {
	db := newTestDB(t)
	rec := &fakeRecommender{err: &mlclient.Failure{Kind: mlclient.FailureUnreachable, Message: "dial tcp: refused"}}
	svc := &RecommendationService{DB: db, Client: rec}

	page, err := svc.GetForUser(context.Background(), "u1", 5, "es")
	if err != nil {
		t.Fatalf("client failures must not surface as errors, got %v", err)
	}
	if len(page.Items) != 0 {
		t.Fatalf("expected empty list, got %+v", page.Items)
	}
	if !strings.Contains(page.ErrorMessage, "No se pudo conectar") {
		t.Fatalf("expected Spanish unreachable message, got %q", page.ErrorMessage)
	}
}

func TestGetForUser_UserNotInModelMessage(t *testing.T) {
	db := newTestDB(t)
	rec := &fakeRecommender{err: &mlclient.Failure{Kind: mlclient.FailureUserNotInModel, Status: 404}}
	svc := &RecommendationService{DB: db, Client: rec}

	page, err := svc.GetForUser(context.Background(), "ghost", 5, "")
	if err != nil {
		t.Fatalf("GetForUser: %v", err)
	}
	if !strings.Contains(page.ErrorMessage, "not in the recommendation model") {
		t.Fatalf("unexpected message: %q", page.ErrorMessage)
	}
}

func TestGetForUser_ServiceErrorKeepsUpstreamMessage(t *testing.T) {
	db := newTestDB(t)
	rec := &fakeRecommender{err: &mlclient.Failure{Kind: mlclient.FailureService, Status: 500, Message: "model not trained"}}
	svc := &RecommendationService{DB: db, Client: rec}

	page, err := svc.GetForUser(context.Background(), "u1", 5, "")
	if err != nil {
		t.Fatalf("GetForUser: %v", err)
	}
	if page.ErrorMessage != "model not trained" {
		t.Fatalf("message = %q", page.ErrorMessage)
	}
}

func TestGetForUser_PredictionsPassedThrough(t *testing.T) {
	db := newTestDB(t)
	seedItems(t, db, 1)

	rec := &fakeRecommender{res: &mlclient.RecommendationResult{
		ItemIDs:     []uint{1},
		Predictions: json.RawMessage(`{"1": 0.93}`),
	}}
	svc := &RecommendationService{DB: db, Client: rec}

	page, err := svc.GetForUser(context.Background(), "u1", 5, "")
	if err != nil {
		t.Fatalf("GetForUser: %v", err)
	}
	raw, ok := page.Meta.Predictions.(json.RawMessage)
	if !ok || string(raw) != `{"1": 0.93}` {
		t.Fatalf("predictions not passed through: %#v", page.Meta.Predictions)
	}
}

func TestOrderByRank(t *testing.T) {
	items := []domain.Item{{ID: 2}, {ID: 5}, {ID: 9}}
	got := OrderByRank([]uint{9, 404, 2}, items)
	if len(got) != 2 || got[0].ID != 9 || got[1].ID != 2 {
		t.Fatalf("OrderByRank mismatch: %+v", got)
	}
}
