package domain

import (
	"errors"
	"fmt"
)

// Error taxonomy shared by all layers. Package-level sentinels wrap these,
// so callers can match either the specific error or its kind.
var (
	// ErrValidation malformed input (plate format, bad date string)
	ErrValidation = errors.New("validation error")

	// ErrPrecondition the operation is not allowed in the current state
	ErrPrecondition = errors.New("precondition failed")

	// ErrDuplicateActiveOrder the vehicle already has an active order
	ErrDuplicateActiveOrder = errors.New("vehicle already has an active order")

	// ErrUnavailable a collaborator call failed (network or server error)
	ErrUnavailable = errors.New("collaborator unavailable")

	// ErrCanceled the operation was abandoned; never shown to the user
	ErrCanceled = errors.New("operation canceled")

	// ErrNotFound the referenced entity does not exist
	ErrNotFound = errors.New("not found")
)

// Draft completeness errors
var (
	ErrDraftNoVehicle       = fmt.Errorf("%w: no vehicle selected", ErrPrecondition)
	ErrDraftNoAddress       = fmt.Errorf("%w: no address selected", ErrPrecondition)
	ErrDraftNoServices      = fmt.Errorf("%w: no services selected", ErrPrecondition)
	ErrDraftNoSchedule      = fmt.Errorf("%w: service date and time are not selected", ErrPrecondition)
	ErrDraftPartialSchedule = fmt.Errorf("%w: service date and time must be set together", ErrPrecondition)
	ErrDraftDateInPast      = fmt.Errorf("%w: service date is in the past", ErrPrecondition)
	ErrDraftTimeOffGrid     = fmt.Errorf("%w: service time is not on the slot grid", ErrPrecondition)
)
