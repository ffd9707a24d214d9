package maps

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"vezoh_backend/internal/geo"
)

// Fallback estimates. The ride orchestrator uses the 5 km / 15 min pair;
// the matcher substitutes a smaller per-candidate pair. Both keep
// rider-facing requests alive when the provider is down.
var (
	RideFallback = DistanceResult{
		DistanceText:    "5 km",
		DistanceMeters:  5000,
		DurationText:    "15 mins",
		DurationSeconds: 900,
	}
	CandidateFallback = DistanceResult{
		DistanceText:    "2.5 km",
		DistanceMeters:  2500,
		DurationText:    "5 mins",
		DurationSeconds: 300,
	}
)

// DistanceEstimator is the capability consumed by the matcher and the
// ride orchestrator. *Client satisfies it.
type DistanceEstimator interface {
	Distance(ctx context.Context, origin, destination geo.Coordinate, mode string) (*DistanceResult, error)
}

// EstimateOrFallback performs one best-effort provider call and
// substitutes the given fallback on any failure. The error is logged but
// never propagated: a rider request must not fail because the mapping
// provider is unreachable.
func EstimateOrFallback(ctx context.Context, est DistanceEstimator, origin, destination geo.Coordinate, mode string, fallback DistanceResult) DistanceResult {
	res, err := est.Distance(ctx, origin, destination, mode)
	if err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{
			"origin":      fmt.Sprintf("%f,%f", origin.Latitude, origin.Longitude),
			"destination": fmt.Sprintf("%f,%f", destination.Latitude, destination.Longitude),
		}).Warn("Distance provider failed, using fallback estimate")
		return fallback
	}
	return *res
}
