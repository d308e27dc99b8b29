package models

import "time"

// Threshold holds the warning and critical breach levels for one
// parameter. Parameter names are unique; thresholds are seeded once at
// first boot and never deleted.
type Threshold struct {
	ID        int64     `json:"id"`
	Parameter string    `json:"parameter"`
	Warning   *float64  `json:"warning_threshold"`
	Critical  *float64  `json:"critical_threshold"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ThresholdUpdate is the payload of a threshold mutation. Both levels
// are overwritten; critical > warning is expected but not enforced.
type ThresholdUpdate struct {
	Warning  *float64 `json:"warning_threshold"`
	Critical *float64 `json:"critical_threshold"`
}
