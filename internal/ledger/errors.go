// Package ledger implements the retainer ledger: allocation, utilization
// and balance accounting across retainers and their scopes, plus the
// currency converter the ledger bills through.  Handlers translate the
// sentinel errors defined here into HTTP statuses.
package ledger

import "errors"

// ErrRateNotFound is returned by the currency converter when no exchange
// rate exists for the requested pair and date.  Handlers map it to 400.
var ErrRateNotFound = errors.New("exchange rate not found")

// ErrInvalidAmount is returned when a conversion or billing amount is
// negative.  Handlers map it to 400.
var ErrInvalidAmount = errors.New("amount must not be negative")

// ErrInvalidAllocation is returned when a scope is allocated a negative
// amount or negative hours.  Handlers map it to 400.
var ErrInvalidAllocation = errors.New("invalid allocation")

// ErrNegativeDelta is returned when a utilization delta is negative.
// Utilization is monotonic; corrections are modelled as explicit
// reversals, never as negative deltas.
var ErrNegativeDelta = errors.New("utilization delta must not be negative")

// ErrOverAllocation is returned in strict mode when a utilization delta
// would drive a balance negative.  In the default permissive mode the
// write succeeds and an over-allocation event is published instead.
var ErrOverAllocation = errors.New("utilization exceeds allocation")

// ErrValidation is returned when retainer creation input is inconsistent,
// such as a start date after the end date.
var ErrValidation = errors.New("invalid retainer input")

// ErrRenewNotAllowed is returned when renewal is requested for a retainer
// that has auto-renew disabled and the caller did not force the renewal.
var ErrRenewNotAllowed = errors.New("retainer is not renewable")
