package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Staff holds the employment record for a member of the firm.  A staff row
// may be linked to a login account via UserID; accounts without a staff
// profile are service accounts.  Corresponds to the `staff` table.
//
// Fields:
//  ID            – primary key identifier (string, "s" prefixed).
//  UserID        – linked login account (nullable).
//  FullName      – staff member's full name.
//  Email         – work email address.
//  Phone         – contact phone number.
//  Position      – job title (e.g. "Senior Partner", "Associate").
//  Department    – practice department the staff member belongs to.
//  Status        – Active or Inactive.
//  HourlyRate    – default billing rate for the staff member.
//  RateCurrency  – currency of HourlyRate.
//  HireDate      – date of employment.
//  MonthlyTarget – target billable hours per month.
//  CreatedAt     – creation timestamp.
//  UpdatedAt     – last update timestamp.
type Staff struct {
	ID            string          `json:"id"`                   // staff.id
	UserID        *uint64         `json:"user_id,omitempty"`    // staff.user_id (nullable)
	FullName      string          `json:"full_name"`            // staff.full_name
	Email         string          `json:"email"`                // staff.email
	Phone         string          `json:"phone"`                // staff.phone
	Position      string          `json:"position"`             // staff.position
	Department    string          `json:"department"`           // staff.department
	Status        string          `json:"status"`               // staff.status ('Active','Inactive')
	HourlyRate    decimal.Decimal `json:"hourly_rate"`          // staff.hourly_rate
	RateCurrency  Currency        `json:"rate_currency"`        // staff.rate_currency
	HireDate      time.Time       `json:"hire_date"`            // staff.hire_date
	MonthlyTarget int             `json:"monthly_target_hours"` // staff.monthly_target_hours
	CreatedAt     time.Time       `json:"created_at"`           // staff.created_at
	UpdatedAt     time.Time       `json:"updated_at"`           // staff.updated_at
}
