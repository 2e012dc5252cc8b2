package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// BillingMethod is how work inside a retainer scope is charged.
type BillingMethod string

const (
	BillingFixed      BillingMethod = "Fixed"
	BillingHourly     BillingMethod = "Hourly"
	BillingPercentage BillingMethod = "Percentage"
)

// Valid reports whether the method is one of the recognised values.
func (m BillingMethod) Valid() bool {
	switch m {
	case BillingFixed, BillingHourly, BillingPercentage:
		return true
	}
	return false
}

// ScopeStatus enumerates retainer scope states.  Transitions are always
// explicit; the ledger never moves a scope between states on its own.
type ScopeStatus string

const (
	ScopeActive    ScopeStatus = "Active"
	ScopeCompleted ScopeStatus = "Completed"
	ScopeSuspended ScopeStatus = "Suspended"
)

// Valid reports whether the status is one of the recognised values.
func (s ScopeStatus) Valid() bool {
	switch s {
	case ScopeActive, ScopeCompleted, ScopeSuspended:
		return true
	}
	return false
}

// RetainerScope is a sub-allocation within a retainer dedicated to one
// billing method.  A scope is owned by exactly one retainer and is never
// shared.  Both the scope and its parent retainer accumulate utilization
// when work is billed through the scope, so either side can answer balance
// queries without a join.
//
// Fields:
//  ID              – primary key identifier (string, "scope" prefixed).
//  RetainerID      – owning retainer.
//  Name            – display name of the scope.
//  Description     – free-text description (nullable).
//  BillingMethod   – Fixed, Hourly or Percentage.
//  AllocatedAmount – amount allocated to this scope.
//  UtilizedAmount  – cumulative amount consumed.
//  AllocatedHours  – allocated hours (nil when hours untracked).
//  UtilizedHours   – cumulative hours consumed.
//  HourlyRate      – rate applied for Hourly scopes (nullable).
//  StartDate       – scope start date (nullable).
//  EndDate         – scope end date (nullable).
//  ExtensionCount  – number of times the scope has been extended via renewal.
//  Status          – Active, Completed or Suspended.
//  CreatedAt       – creation timestamp.
//  UpdatedAt       – last update timestamp.
type RetainerScope struct {
	ID              string           `json:"id"`                        // retainer_scopes.id
	RetainerID      string           `json:"retainer_id"`               // retainer_scopes.retainer_id
	Name            string           `json:"name"`                      // retainer_scopes.name
	Description     *string          `json:"description,omitempty"`     // retainer_scopes.description (nullable)
	BillingMethod   BillingMethod    `json:"billing_method"`            // retainer_scopes.billing_method
	AllocatedAmount decimal.Decimal  `json:"allocated_amount"`          // retainer_scopes.allocated_amount
	UtilizedAmount  decimal.Decimal  `json:"utilized_amount"`           // retainer_scopes.utilized_amount
	AllocatedHours  *decimal.Decimal `json:"allocated_hours,omitempty"` // retainer_scopes.allocated_hours (nullable)
	UtilizedHours   decimal.Decimal  `json:"utilized_hours"`            // retainer_scopes.utilized_hours
	HourlyRate      *decimal.Decimal `json:"hourly_rate,omitempty"`     // retainer_scopes.hourly_rate (nullable)
	StartDate       *time.Time       `json:"start_date,omitempty"`      // retainer_scopes.start_date (nullable)
	EndDate         *time.Time       `json:"end_date,omitempty"`        // retainer_scopes.end_date (nullable)
	ExtensionCount  int              `json:"extension_count"`           // retainer_scopes.extension_count
	Status          ScopeStatus      `json:"status"`                    // retainer_scopes.status
	CreatedAt       time.Time        `json:"created_at"`                // retainer_scopes.created_at
	UpdatedAt       time.Time        `json:"updated_at"`                // retainer_scopes.updated_at
}

// BalanceAmount returns allocated minus utilized; negative when the scope
// is over-utilized.
func (s *RetainerScope) BalanceAmount() decimal.Decimal {
	return s.AllocatedAmount.Sub(s.UtilizedAmount)
}

// HoursRemaining returns the remaining allocated hours, or nil when the
// scope does not track hours.
func (s *RetainerScope) HoursRemaining() *decimal.Decimal {
	if s.AllocatedHours == nil {
		return nil
	}
	rem := s.AllocatedHours.Sub(s.UtilizedHours)
	return &rem
}
