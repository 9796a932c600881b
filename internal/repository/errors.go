// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as
// services and handlers to distinguish between different failure
// scenarios without inspecting error strings.
package repository

import "errors"

// ErrScheduleNotFound is returned when a schedule lookup matches no row.
var ErrScheduleNotFound = errors.New("schedule not found")

// ErrBookingNotFound is returned when a booking lookup by id or
// reservation code matches no row.
var ErrBookingNotFound = errors.New("booking not found")

// ErrTrainNotFound is returned when a train lookup matches no row.
var ErrTrainNotFound = errors.New("train not found")

// ErrCapacityExceeded is returned by the availability adjustment when
// the requested delta would push the seat counter below zero or above
// the schedule's total capacity. The counter is left untouched.
var ErrCapacityExceeded = errors.New("capacity exceeded")

// ErrAdjustConflict is returned when the optimistic write inside the
// availability adjustment lost the version race on every attempt. The
// operation had no effect; callers may retry the whole operation.
var ErrAdjustConflict = errors.New("availability adjustment conflict")
