package model

import "errors"

// Error sentinels for the failure kinds every adapter can surface.
// Callers classify with errors.Is at the call site nearest the user action;
// adapters wrap these with context via fmt.Errorf("...: %w", ...).
var (
	// ErrInvalidInput marks an empty or malformed required input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrCityNotFound means geocoding completed but returned zero results.
	// Distinct from ErrNetwork so callers can present different messaging.
	ErrCityNotFound = errors.New("city not found")

	// ErrNetwork marks a transport-level failure on an external call.
	ErrNetwork = errors.New("network error")

	// ErrTimeout marks an external call that exceeded its deadline.
	ErrTimeout = errors.New("timeout")

	// ErrPredictionFailed means the prediction API was reachable but
	// responded non-2xx or reported success=false.
	ErrPredictionFailed = errors.New("prediction failed")
)
