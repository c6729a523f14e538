// Package services defines the business logic for catalog items, user
// interactions, and recommendation/retrain orchestration. This file
// centralizes common service-level error values so that they can be
// consistently returned by service methods and checked by callers.
//
// These errors are intended for internal use by the service layer; translation
// into user-facing messages or HTTP status codes is performed at the
// handler layer.
package services

import "errors"

var (
	// ErrItemNotFound indicates that the referenced catalog item does not
	// exist.
	ErrItemNotFound = errors.New("item not found")

	// ErrInvalidRating is returned when a rating is outside [1,5].
	ErrInvalidRating = errors.New("rating must be between 1 and 5")

	// ErrInvalidInteractionType is returned when an interaction_type is not
	// one of rating, viewed, purchased.
	ErrInvalidInteractionType = errors.New("interaction_type must be rating, viewed or purchased")

	// ErrInvalidRetrainParams is returned when retrain hyperparameters fall
	// outside their allowed ranges (max_components 1-50, max_iter 1-100).
	ErrInvalidRetrainParams = errors.New("retrain parameters out of range")

	// ErrEnqueueFailed is returned when the retrain job could not be placed
	// on the queue (e.g., the queue backend is down).
	ErrEnqueueFailed = errors.New("could not enqueue retrain job")
)
