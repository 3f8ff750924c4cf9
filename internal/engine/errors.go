package engine

import "errors"

// Forecast failure taxonomy. Every error is raised at the point of
// detection and wrapped with the county it concerns; nothing is
// substituted with a default value.
var (
	// ErrMissingRecentPrice means a target county has no entry in the
	// recent-window dataset, so there is no base price to forecast from.
	ErrMissingRecentPrice = errors.New("no recent price for county")

	// ErrInsufficientHistory means a target county is absent from the
	// historical series, so no price bounds can be derived.
	ErrInsufficientHistory = errors.New("no price history for county")

	// ErrUnconfiguredCounty means a target county has no configured
	// county factor. This is a configuration error and is also checked
	// at startup by NewForecaster.
	ErrUnconfiguredCounty = errors.New("no county factor configured")
)
