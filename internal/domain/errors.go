package domain

import (
	"errors"
	"fmt"
)

// ErrPlanNotFound indicates no plan has been generated for the user yet.
var ErrPlanNotFound = errors.New("plan not found")

// InvalidTimeframeError reports a timeframe outside the canonical four.
type InvalidTimeframeError struct {
	Value string
}

func (e *InvalidTimeframeError) Error() string {
	return fmt.Sprintf("invalid milestone timeframe: %q", e.Value)
}

// MilestoneNotFoundError reports an empty slot where a milestone was required.
type MilestoneNotFoundError struct {
	Timeframe Timeframe
	UserID    string
}

func (e *MilestoneNotFoundError) Error() string {
	if e.UserID == "" {
		return fmt.Sprintf("milestone %s not found in plan", e.Timeframe)
	}
	return fmt.Sprintf("milestone %s not found in plan for user %s", e.Timeframe, e.UserID)
}

// UserNotFoundError reports a missing user profile.
type UserNotFoundError struct {
	UserID string
}

func (e *UserNotFoundError) Error() string {
	return fmt.Sprintf("user %s not found", e.UserID)
}

// PlanGenerationError is returned when the initial plan could not be
// generated. There is no prior plan to fall back to on this path.
type PlanGenerationError struct {
	UserID string
	Err    error
}

func (e *PlanGenerationError) Error() string {
	return fmt.Sprintf("generating plan for %s: %v", e.UserID, e.Err)
}

func (e *PlanGenerationError) Unwrap() error { return e.Err }
