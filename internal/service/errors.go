package service

import "errors"

// ErrInvalidUpdate is returned when a structured update carries values that
// would break milestone invariants.
var ErrInvalidUpdate = errors.New("invalid update")

// ErrEmptyThoughts is returned when a natural-language edit has no text.
var ErrEmptyThoughts = errors.New("user thoughts must not be empty")

// ErrNoTargets is returned when a regeneration request names no milestones.
var ErrNoTargets = errors.New("no target milestones given")
