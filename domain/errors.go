package domain

import "errors"

// Sentinel errors classifying failure kinds across the control plane. Callers
// use errors.Is against these rather than matching on message text.
var (
	ErrNotFound          = errors.New("not found")
	ErrInvalidInput      = errors.New("invalid input")
	ErrPreconditionUnmet = errors.New("precondition unmet")
	ErrVerification      = errors.New("verification failure")
	ErrTransientIO       = errors.New("transient io failure")
)
