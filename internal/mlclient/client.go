// Package mlclient wraps the external recommendation service's HTTP API
// (/recommend, /stats, /health, /retrain) behind typed calls with a uniform
// failure taxonomy.
//
// Design notes:
//   - Every call is a single attempt: no automatic retries. Retry policy, if
//     any, belongs to the caller (the retrain job relies on its queue for
//     redelivery, the poller simply counts a failed tick).
//   - Error bodies from the service are loosely typed JSON; every optional
//     field is read defensively with an explicit fallback message.
//   - Each endpoint has its own timeout (health checks are fast, retraining
//     is expected to be slow) enforced via context deadlines on the request.
//   - No logging in the library; callers decide how/what to log.
package mlclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/dperalta/go-recsys-backend/internal/config"
)

// TopN bounds enforced before any request reaches the service.
const (
	MinTopN     = 1
	MaxTopN     = 20
	DefaultTopN = 5
)

// FailureKind classifies why a call to the recommendation service failed.
type FailureKind string

const (
	// FailureUserNotInModel: the service returned 404 with an available_users
	// field, meaning this user has not interacted enough to be modeled yet.
	FailureUserNotInModel FailureKind = "user_not_in_model"
	// FailureService: the service answered with a non-2xx status and a
	// (possibly partial) structured error body.
	FailureService FailureKind = "service_error"
	// FailureUnreachable: the request never produced an HTTP response
	// (connection refused, DNS failure, timeout).
	FailureUnreachable FailureKind = "service_unreachable"
	// FailureUnexpected: anything else, e.g. a malformed success body.
	FailureUnexpected FailureKind = "unexpected_error"
)

// Failure is the error type returned by all client calls. Status is zero when
// no HTTP response was received.
type Failure struct {
	Kind    FailureKind
	Status  int
	Message string
}

// Error implements the error interface.
func (f *Failure) Error() string {
	if f.Status > 0 {
		return fmt.Sprintf("ml service: %s (status %d): %s", f.Kind, f.Status, f.Message)
	}
	return fmt.Sprintf("ml service: %s: %s", f.Kind, f.Message)
}

// AsFailure unwraps err into a *Failure when possible. Convenience for
// callers that switch on Kind.
func AsFailure(err error) (*Failure, bool) {
	f, ok := err.(*Failure)
	return f, ok
}

// RecommendationResult is the parsed success payload of GET /recommend.
// ItemIDs is rank-ordered, best first; an empty slice is a valid answer
// ("no recommendations"). Predictions are opaque per-item metadata passed
// through untouched.
type RecommendationResult struct {
	ItemIDs        []uint          `json:"item_ids"`
	TotalAvailable int             `json:"total_available"`
	SeenItemsCount int             `json:"seen_items_count"`
	Predictions    json.RawMessage `json:"predictions,omitempty"`
}

// StatsResult carries the raw /stats payload plus the one field this backend
// actually interprets: model_metadata.trained_at, used purely for change
// detection (never parsed or ordered).
type StatsResult struct {
	Raw map[string]any
}

// TrainedAt returns model_metadata.trained_at as a string, or "" when absent.
func (s *StatsResult) TrainedAt() string {
	if s == nil || s.Raw == nil {
		return ""
	}
	meta, ok := s.Raw["model_metadata"].(map[string]any)
	if !ok {
		return ""
	}
	ts, _ := meta["trained_at"].(string)
	return ts
}

// HealthStatus summarizes GET /health.
type HealthStatus string

const (
	Healthy     HealthStatus = "healthy"
	Unhealthy   HealthStatus = "unhealthy"
	Unreachable HealthStatus = "unreachable"
)

// HealthResult is the outcome of a health probe. Payload holds the service's
// own body on success; Detail holds the raw error body or transport error
// otherwise. Status mirrors the upstream HTTP status when one was received.
type HealthResult struct {
	State   HealthStatus
	Status  int
	Payload map[string]any
	Detail  string
}

// RetrainParams are the optional hyperparameters for POST /retrain. Nil
// fields are omitted from the payload entirely; defaults live in the service.
type RetrainParams struct {
	MaxComponents *int `json:"max_components,omitempty"`
	MaxIter       *int `json:"max_iter,omitempty"`
}

// RetrainResult is the parsed success payload of POST /retrain.
type RetrainResult struct {
	Raw map[string]any
}

// ModelMetadata returns the model_metadata object from the retrain response,
// or nil when the service did not include one.
func (r *RetrainResult) ModelMetadata() map[string]any {
	if r == nil || r.Raw == nil {
		return nil
	}
	meta, _ := r.Raw["model_metadata"].(map[string]any)
	return meta
}

// Client talks to the external recommendation service. The zero value is not
// usable; construct with New.
type Client struct {
	baseURL string
	cfg     config.MLConfig
	httpc   *http.Client
}

// New builds a Client from the ML section of the application configuration.
// The underlying http.Client carries no global timeout; deadlines are set per
// call so each endpoint gets its configured budget.
func New(cfg config.MLConfig) *Client {
	return &Client{
		baseURL: cfg.BaseURL,
		cfg:     cfg,
		httpc:   &http.Client{},
	}
}

// ClampTopN forces n into [MinTopN, MaxTopN]. Zero and negative values clamp
// to MinTopN; defaulting an absent value to DefaultTopN is the caller's job.
func ClampTopN(n int) int {
	if n < MinTopN {
		return MinTopN
	}
	if n > MaxTopN {
		return MaxTopN
	}
	return n
}

// Recommend fetches ranked item ids for userID. topN is clamped to [1,20]
// before sending. Read-only; a single attempt.
func (c *Client) Recommend(ctx context.Context, userID string, topN int) (*RecommendationResult, error) {
	topN = ClampTopN(topN)

	q := url.Values{}
	q.Set("user_id", userID)
	q.Set("top_n", strconv.Itoa(topN))

	body, status, err := c.get(ctx, "/recommend", q, c.cfg.RecommendTimeout)
	if err != nil {
		return nil, err
	}
	if status < 200 || status >= 300 {
		return nil, classifyRecommendError(status, body)
	}

	var out RecommendationResult
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, &Failure{Kind: FailureUnexpected, Status: status, Message: "malformed recommendation response: " + err.Error()}
	}
	if out.ItemIDs == nil {
		out.ItemIDs = []uint{}
	}
	return &out, nil
}

// Stats fetches the service's model/statistics payload.
func (c *Client) Stats(ctx context.Context) (*StatsResult, error) {
	body, status, err := c.get(ctx, "/stats", nil, c.cfg.StatsTimeout)
	if err != nil {
		return nil, err
	}
	if status < 200 || status >= 300 {
		return nil, serviceFailure(status, body, "failed to fetch model statistics")
	}
	raw := map[string]any{}
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, &Failure{Kind: FailureUnexpected, Status: status, Message: "malformed stats response: " + err.Error()}
	}
	return &StatsResult{Raw: raw}, nil
}

// Health probes the service. Unlike the other calls it never returns an
// error: every outcome maps onto a HealthResult state.
func (c *Client) Health(ctx context.Context) *HealthResult {
	body, status, err := c.get(ctx, "/health", nil, c.cfg.HealthTimeout)
	if err != nil {
		msg := "health probe failed"
		if f, ok := AsFailure(err); ok {
			msg = f.Message
		}
		return &HealthResult{State: Unreachable, Detail: msg}
	}
	if status < 200 || status >= 300 {
		return &HealthResult{State: Unhealthy, Status: status, Detail: string(body)}
	}
	payload := map[string]any{}
	if err := json.Unmarshal(body, &payload); err != nil {
		// A 2xx with an unparseable body still counts as alive.
		return &HealthResult{State: Healthy, Status: status, Detail: string(body)}
	}
	return &HealthResult{State: Healthy, Status: status, Payload: payload}
}

// Retrain issues POST /retrain with only the supplied hyperparameters in the
// body (absent fields are omitted, never sent as null). The timeout is the
// job-level budget from configuration; retraining is expected to be slow.
func (c *Client) Retrain(ctx context.Context, params RetrainParams) (*RetrainResult, error) {
	payload, err := json.Marshal(params)
	if err != nil {
		return nil, &Failure{Kind: FailureUnexpected, Message: "encode retrain payload: " + err.Error()}
	}

	ctx, cancel := context.WithTimeout(ctx, c.cfg.RetrainTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/retrain", bytes.NewReader(payload))
	if err != nil {
		return nil, &Failure{Kind: FailureUnexpected, Message: err.Error()}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, &Failure{Kind: FailureUnreachable, Message: err.Error()}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &Failure{Kind: FailureUnexpected, Status: resp.StatusCode, Message: "read retrain response: " + err.Error()}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, serviceFailure(resp.StatusCode, body, "model retraining failed")
	}

	raw := map[string]any{}
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, &Failure{Kind: FailureUnexpected, Status: resp.StatusCode, Message: "malformed retrain response: " + err.Error()}
	}
	return &RetrainResult{Raw: raw}, nil
}

// get performs a GET with a per-call deadline and returns the raw body and
// status. Transport-level errors come back as FailureUnreachable.
func (c *Client) get(ctx context.Context, path string, q url.Values, timeout time.Duration) ([]byte, int, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	u := c.baseURL + path
	if len(q) > 0 {
		u += "?" + q.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, 0, &Failure{Kind: FailureUnexpected, Message: err.Error()}
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, 0, &Failure{Kind: FailureUnreachable, Message: err.Error()}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, &Failure{Kind: FailureUnexpected, Status: resp.StatusCode, Message: "read response: " + err.Error()}
	}
	return body, resp.StatusCode, nil
}

// classifyRecommendError maps a non-2xx /recommend response onto the failure
// taxonomy. A 404 whose body carries available_users means the user is not in
// the model; everything else is a generic service error with the service's
// message when one is present.
func classifyRecommendError(status int, body []byte) *Failure {
	errBody := map[string]any{}
	_ = json.Unmarshal(body, &errBody)

	if status == http.StatusNotFound {
		if _, ok := errBody["available_users"]; ok {
			msg, _ := errBody["error"].(string)
			if msg == "" {
				msg = "user not present in the trained model"
			}
			return &Failure{Kind: FailureUserNotInModel, Status: status, Message: msg}
		}
	}
	return serviceFailure(status, body, "failed to fetch recommendations")
}

// serviceFailure builds a FailureService from a loosely-typed error body,
// preferring "error", then "details", then the raw body, then fallback.
func serviceFailure(status int, body []byte, fallback string) *Failure {
	errBody := map[string]any{}
	_ = json.Unmarshal(body, &errBody)

	msg, _ := errBody["error"].(string)
	if msg == "" {
		msg, _ = errBody["details"].(string)
	}
	if msg == "" && len(body) > 0 {
		msg = string(body)
	}
	if msg == "" {
		msg = fallback
	}
	return &Failure{Kind: FailureService, Status: status, Message: msg}
}
