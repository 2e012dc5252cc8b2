package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// RetainerStatus enumerates the lifecycle states of a retainer.  Active
// retainers transition to ExpiringSoon and Expired through the expiry scan;
// Suspended is only ever set manually and is never auto-transitioned.
type RetainerStatus string

const (
	RetainerActive       RetainerStatus = "Active"
	RetainerExpiringSoon RetainerStatus = "Expiring Soon"
	RetainerExpired      RetainerStatus = "Expired"
	RetainerSuspended    RetainerStatus = "Suspended"
)

// Retainer is a prepaid engagement for one client: a pool of funds (and
// optionally hours) drawn down as billable work is recorded against it.
// Corresponds to a row in the `retainers` table.
//
// The derived quantities are not stored: balance = TotalAmount -
// UtilizedAmount, and hours remaining = TotalHoursAllocated -
// HoursUtilized (undefined when hours are not tracked).  Utilization may
// exceed the allocation; a negative balance is surfaced to callers as an
// over-allocation signal rather than rejected at write time.
//
// Fields:
//  ID                  – primary key identifier (string, "ret" prefixed).
//  ClientID            – owning client.
//  Name                – display name of the engagement.
//  Description         – free-text description (nullable).
//  TotalAmount         – total allocated amount.
//  Currency            – currency of all amounts on this retainer.
//  UtilizedAmount      – cumulative amount consumed.
//  TotalHoursAllocated – allocated hours (nil when hours untracked).
//  HoursUtilized       – cumulative hours consumed.
//  StartDate           – engagement start date.
//  EndDate             – engagement end date.
//  AutoRenew           – whether the retainer renews automatically.
//  Status              – lifecycle status.
//  ExpiryAlertSent     – set once the expiry alert has been published, so
//                        the alert fires at most once per expiry event.
//  CreatedAt           – creation timestamp.
//  UpdatedAt           – last update timestamp.
type Retainer struct {
	ID                  string           `json:"id"`                              // retainers.id
	ClientID            string           `json:"client_id"`                       // retainers.client_id
	Name                string           `json:"name"`                            // retainers.name
	Description         *string          `json:"description,omitempty"`           // retainers.description (nullable)
	TotalAmount         decimal.Decimal  `json:"total_amount"`                    // retainers.total_amount
	Currency            Currency         `json:"currency"`                        // retainers.currency
	UtilizedAmount      decimal.Decimal  `json:"utilized_amount"`                 // retainers.utilized_amount
	TotalHoursAllocated *decimal.Decimal `json:"total_hours_allocated,omitempty"` // retainers.total_hours_allocated (nullable)
	HoursUtilized       decimal.Decimal  `json:"hours_utilized"`                  // retainers.hours_utilized
	StartDate           time.Time        `json:"start_date"`                      // retainers.start_date
	EndDate             time.Time        `json:"end_date"`                        // retainers.end_date
	AutoRenew           bool             `json:"auto_renew"`                      // retainers.auto_renew
	Status              RetainerStatus   `json:"status"`                          // retainers.status
	ExpiryAlertSent     bool             `json:"expiry_alert_sent"`               // retainers.expiry_alert_sent
	CreatedAt           time.Time        `json:"created_at"`                      // retainers.created_at
	UpdatedAt           time.Time        `json:"updated_at"`                      // retainers.updated_at
}

// BalanceAmount returns the remaining funds: total minus utilized.  The
// result can be negative when the retainer is over-utilized.
func (r *Retainer) BalanceAmount() decimal.Decimal {
	return r.TotalAmount.Sub(r.UtilizedAmount)
}

// HoursRemaining returns the remaining allocated hours, or nil when the
// retainer does not track hours.
func (r *Retainer) HoursRemaining() *decimal.Decimal {
	if r.TotalHoursAllocated == nil {
		return nil
	}
	rem := r.TotalHoursAllocated.Sub(r.HoursUtilized)
	return &rem
}
