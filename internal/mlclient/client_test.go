package mlclient

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dperalta/go-recsys-backend/internal/config"
)

func testCfg(baseURL string) config.MLConfig {
	return config.MLConfig{
		BaseURL:          baseURL,
		RecommendTimeout: 2 * time.Second,
		StatsTimeout:     2 * time.Second,
		HealthTimeout:    2 * time.Second,
		RetrainTimeout:   2 * time.Second,
	}
}

func TestClampTopN(t *testing.T) {
	for _, tc := range []struct{ in, want int }{
		{0, MinTopN},
		{-3, MinTopN},
		{1, 1},
		{5, 5},
		{20, 20},
		{21, MaxTopN},
		{1000, MaxTopN},
	} {
		if got := ClampTopN(tc.in); got != tc.want {
			t.Fatalf("ClampTopN(%d) = %d, want %d", tc.in, got, tc.want)
		}
	}
}

func TestRecommend_SendsClampedQuery(t *testing.T) {
	var gotUser, gotTopN string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUser = r.URL.Query().Get("user_id")
		gotTopN = r.URL.Query().Get("top_n")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"item_ids":        []uint{3, 1, 2},
			"total_available": 3,
		})
	}))
	defer srv.Close()

	c := New(testCfg(srv.URL))
	res, err := c.Recommend(context.Background(), "u1", 50)
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	if gotUser != "u1" || gotTopN != "20" {
		t.Fatalf("query = user_id=%q top_n=%q, want u1/20", gotUser, gotTopN)
	}
	if len(res.ItemIDs) != 3 || res.ItemIDs[0] != 3 {
		t.Fatalf("unexpected ids: %v", res.ItemIDs)
	}
}

func TestRecommend_ZeroTopNSendsMinimum(t *testing.T) {
	var gotTopN string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotTopN = r.URL.Query().Get("top_n")
		_ = json.NewEncoder(w).Encode(map[string]any{"item_ids": []uint{1}})
	}))
	defer srv.Close()

	c := New(testCfg(srv.URL))
	if _, err := c.Recommend(context.Background(), "u1", 0); err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	if gotTopN != "1" {
		t.Fatalf("top_n = %q, want 1", gotTopN)
	}
}

func TestRecommend_EmptyListIsValid(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"total_available": 0, "seen_items_count": 4}`))
	}))
	defer srv.Close()

	c := New(testCfg(srv.URL))
	res, err := c.Recommend(context.Background(), "u1", 5)
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	if res.ItemIDs == nil || len(res.ItemIDs) != 0 {
		t.Fatalf("expected non-nil empty slice, got %#v", res.ItemIDs)
	}
	if res.SeenItemsCount != 4 {
		t.Fatalf("seen = %d", res.SeenItemsCount)
	}
}

func TestRecommend_404WithAvailableUsersMeansUserNotInModel(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"user 42 not found","available_users":["u1","u2"]}`))
	}))
	defer srv.Close()

	c := New(testCfg(srv.URL))
	_, err := c.Recommend(context.Background(), "42", 5)
	f, ok := AsFailure(err)
	if !ok || f.Kind != FailureUserNotInModel {
		t.Fatalf("expected user_not_in_model, got %v", err)
	}
	if f.Status != http.StatusNotFound || f.Message != "user 42 not found" {
		t.Fatalf("unexpected failure: %+v", f)
	}
}

func TestRecommend_Plain404IsServiceError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"no model loaded"}`))
	}))
	defer srv.Close()

	c := New(testCfg(srv.URL))
	_, err := c.Recommend(context.Background(), "u1", 5)
	f, ok := AsFailure(err)
	if !ok || f.Kind != FailureService {
		t.Fatalf("expected service_error, got %v", err)
	}
	if f.Message != "no model loaded" {
		t.Fatalf("message = %q", f.Message)
	}
}

func TestRecommend_UnreachableService(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on

	c := New(testCfg(srv.URL))
	_, err := c.Recommend(context.Background(), "u1", 5)
	f, ok := AsFailure(err)
	if !ok || f.Kind != FailureUnreachable {
		t.Fatalf("expected service_unreachable, got %v", err)
	}
	if f.Status != 0 {
		t.Fatalf("unreachable failure should carry no status, got %d", f.Status)
	}
}

func TestStats_TrainedAtExtraction(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"model_metadata":{"trained_at":"2026-08-30T12:00:00Z","components":20},"n_users":10}`))
	}))
	defer srv.Close()

	c := New(testCfg(srv.URL))
	st, err := c.Stats(context.Background())
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if got := st.TrainedAt(); got != "2026-08-30T12:00:00Z" {
		t.Fatalf("TrainedAt = %q", got)
	}
}

func TestStats_TrainedAtAbsent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"n_users":10}`))
	}))
	defer srv.Close()

	c := New(testCfg(srv.URL))
	st, err := c.Stats(context.Background())
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if st.TrainedAt() != "" {
		t.Fatalf("expected empty trained_at, got %q", st.TrainedAt())
	}
}

func TestHealth_States(t *testing.T) {
	healthy := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":"ok","model_loaded":true}`))
	}))
	defer healthy.Close()

	res := New(testCfg(healthy.URL)).Health(context.Background())
	if res.State != Healthy || res.Payload["model_loaded"] != true {
		t.Fatalf("expected healthy, got %+v", res)
	}

	unhealthy := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`model not loaded`))
	}))
	defer unhealthy.Close()

	res = New(testCfg(unhealthy.URL)).Health(context.Background())
	if res.State != Unhealthy || res.Status != http.StatusServiceUnavailable {
		t.Fatalf("expected unhealthy 503, got %+v", res)
	}

	dead := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	dead.Close()

	res = New(testCfg(dead.URL)).Health(context.Background())
	if res.State != Unreachable {
		t.Fatalf("expected unreachable, got %+v", res)
	}
}

func TestRetrain_OmitsAbsentParams(t *testing.T) {
	var body []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ = io.ReadAll(r.Body)
		_, _ = w.Write([]byte(`{"message":"ok","model_metadata":{"trained_at":"t1"}}`))
	}))
	defer srv.Close()

	c := New(testCfg(srv.URL))
	res, err := c.Retrain(context.Background(), RetrainParams{})
	if err != nil {
		t.Fatalf("Retrain: %v", err)
	}
	if string(body) != "{}" {
		t.Fatalf("expected empty JSON object body, got %s", body)
	}
	if meta := res.ModelMetadata(); meta == nil || meta["trained_at"] != "t1" {
		t.Fatalf("model metadata = %v", meta)
	}
}

func TestRetrain_SendsOnlyProvidedParams(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&got)
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	mc := 25
	c := New(testCfg(srv.URL))
	if _, err := c.Retrain(context.Background(), RetrainParams{MaxComponents: &mc}); err != nil {
		t.Fatalf("Retrain: %v", err)
	}
	if got["max_components"] != float64(25) {
		t.Fatalf("max_components = %v", got["max_components"])
	}
	if _, present := got["max_iter"]; present {
		t.Fatalf("max_iter must be omitted when nil, body: %v", got)
	}
}

func TestRetrain_ServiceErrorDetail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"details":"not enough interactions"}`))
	}))
	defer srv.Close()

	c := New(testCfg(srv.URL))
	_, err := c.Retrain(context.Background(), RetrainParams{})
	f, ok := AsFailure(err)
	if !ok || f.Kind != FailureService || f.Message != "not enough interactions" {
		t.Fatalf("unexpected failure: %v", err)
	}
}
