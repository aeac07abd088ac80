package domain

import "errors"

var (
	// ErrRefreshInFlight is returned when a refresh is requested while one is running
	ErrRefreshInFlight = errors.New("refresh already in flight")

	// ErrNoSnapshot is returned when no scan has produced data yet
	ErrNoSnapshot = errors.New("no snapshot available")

	// ErrNoCollectors is returned when no topology source is registered or reachable
	ErrNoCollectors = errors.New("no topology sources available")

	// ErrAlertNotConfigured is returned when alert dispatch has no backend URL
	ErrAlertNotConfigured = errors.New("alerting is not configured")

	// ErrUnknownAlertBackend is returned for unrecognised alert backend types
	ErrUnknownAlertBackend = errors.New("unknown alert backend")
)
