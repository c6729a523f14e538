// Package services – RecommendationService
//
// This file implements the read path for personalized recommendations: call
// the external service, map the returned ids back onto catalog rows, and
// restore the service's ranking (a bulk IN-query does not preserve order).
// External failures never propagate as raw errors to the view; they are
// converted into a localized message next to an empty list, mirroring how the
// UI is expected to render them.
package services

import (
	"context"

	"golang.org/x/text/message"
	"gorm.io/gorm"

	"github.com/dperalta/go-recsys-backend/internal/domain"
	"github.com/dperalta/go-recsys-backend/internal/i18n"
	"github.com/dperalta/go-recsys-backend/internal/mlclient"
	"github.com/dperalta/go-recsys-backend/internal/repo"
)

// Recommender is the subset of the ML client used by this service.
type Recommender interface {
	Recommend(ctx context.Context, userID string, topN int) (*mlclient.RecommendationResult, error)
}

// RecommendationService fetches and shapes recommendation pages.
type RecommendationService struct {
	DB     *gorm.DB
	Client Recommender
}

// RecommendationMeta carries the informational counters the service returns
// alongside the ranked ids.
type RecommendationMeta struct {
	TotalAvailable int `json:"total_available"`
	SeenItemsCount int `json:"seen_items_count"`
	// Predictions is the service's per-item score blob, passed through opaque.
	Predictions any `json:"predictions,omitempty"`
}

// RecommendationPage is what the recommendations view renders: either a
// ranked item list with metadata, or an empty list plus a user-facing error
// message. Exactly one of the two shapes is populated.
type RecommendationPage struct {
	Items        []domain.Item      `json:"recommendations"`
	Meta         RecommendationMeta `json:"metadata"`
	ErrorMessage string             `json:"error,omitempty"`
}

// GetForUser fetches up to topN recommendations for userID.
//
// The external service's id ordering is authoritative: after the bulk fetch,
// items are re-sorted to the rank order of the returned ids, and ids without
// a matching catalog row are silently dropped.
//
// acceptLanguage selects the language of the error message when the fetch
// fails; database errors (our own storage, not the external service) are
// returned as hard errors.
func (s *RecommendationService) GetForUser(ctx context.Context, userID string, topN int, acceptLanguage string) (*RecommendationPage, error) {
	p := i18n.Printer(acceptLanguage)

	res, err := s.Client.Recommend(ctx, userID, topN)
	if err != nil {
		return &RecommendationPage{
			Items:        []domain.Item{},
			ErrorMessage: failureMessage(p, err),
		}, nil
	}

	items, err := repo.ListItemsByIDs(ctx, s.DB, res.ItemIDs)
	if err != nil {
		return nil, err
	}

	page := &RecommendationPage{
		Items: OrderByRank(res.ItemIDs, items),
		Meta: RecommendationMeta{
			TotalAvailable: res.TotalAvailable,
			SeenItemsCount: res.SeenItemsCount,
		},
	}
	if len(res.Predictions) > 0 {
		page.Meta.Predictions = res.Predictions
	}
	return page, nil
}

// OrderByRank returns items re-sorted to the position of their id in
// rankedIDs. Items whose id does not appear in rankedIDs are dropped, as are
// ranked ids with no matching item.
func OrderByRank(rankedIDs []uint, items []domain.Item) []domain.Item {
	byID := make(map[uint]domain.Item, len(items))
	for _, it := range items {
		byID[it.ID] = it
	}
	out := make([]domain.Item, 0, len(rankedIDs))
	for _, id := range rankedIDs {
		if it, ok := byID[id]; ok {
			out = append(out, it)
		}
	}
	return out
}

// failureMessage maps a client failure onto a localized, user-presentable
// string. Never leaks a stack trace or transport detail for the common cases.
func failureMessage(p *message.Printer, err error) string {
	f, ok := mlclient.AsFailure(err)
	if !ok {
		return p.Sprintf(i18n.KeyUnexpectedError, err.Error())
	}
	switch f.Kind {
	case mlclient.FailureUserNotInModel:
		return p.Sprintf(i18n.KeyUserNotInModel)
	case mlclient.FailureUnreachable:
		return p.Sprintf(i18n.KeyServiceUnreachable)
	case mlclient.FailureService:
		if f.Message != "" {
			return f.Message
		}
		return p.Sprintf(i18n.KeyServiceError)
	default:
		return p.Sprintf(i18n.KeyUnexpectedError, f.Message)
	}
}
