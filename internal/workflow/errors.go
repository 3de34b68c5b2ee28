package workflow

import "errors"

var (
	// ErrUnauthorized is returned when the acting role is not permitted
	// to act at the shipment's current step
	ErrUnauthorized = errors.New("role not permitted at current step")

	// ErrInvalidState is returned when the target state id is not
	// declared in the shipment kind's step list. The valid targets are
	// static, so this is a caller bug, never retried.
	ErrInvalidState = errors.New("target state not defined for shipment kind")

	// ErrUnknownShipmentKind is returned when a shipment's current
	// status resolves against neither the export nor the import table.
	// Guessing a kind could authorize an illegitimate transition, so it
	// is always surfaced, never defaulted.
	ErrUnknownShipmentKind = errors.New("shipment status matches no workflow table")
)
