package model

import "time"

// CaseStatus enumerates the lifecycle states of a case.  Open and
// InProgress count as active for the client-deletion guard.
type CaseStatus string

const (
	CaseOpen       CaseStatus = "Open"
	CaseInProgress CaseStatus = "In Progress"
	CaseClosed     CaseStatus = "Closed"
	CaseOnHold     CaseStatus = "On Hold"
)

// Valid reports whether the status is one of the recognised values.
func (s CaseStatus) Valid() bool {
	switch s {
	case CaseOpen, CaseInProgress, CaseClosed, CaseOnHold:
		return true
	}
	return false
}

// Active reports whether the status blocks deletion of the owning client.
func (s CaseStatus) Active() bool {
	return s == CaseOpen || s == CaseInProgress
}

// Case is a legal matter handled for a client, optionally funded by a
// retainer.  Corresponds to the `cases` table.
//
// Fields:
//  ID            – primary key identifier (string, "case" prefixed).
//  CaseReference – unique human-readable reference number.
//  ClientID      – owning client.
//  RetainerID    – funding retainer (nullable).
//  Title         – matter title.
//  Description   – free-text description (nullable).
//  PracticeArea  – area of law the case falls under.
//  Priority      – Low, Medium, High or Urgent.
//  Status        – Open, In Progress, Closed or On Hold.
//  StartDate     – when work on the case began.
//  Deadline      – court or contractual deadline (nullable).
//  ClosedDate    – date the case was closed (nullable).
//  CreatedBy     – login account that opened the case (nullable).
//  CreatedAt     – creation timestamp.
//  UpdatedAt     – last update timestamp.
type Case struct {
	ID            string     `json:"id"`                    // cases.id
	CaseReference string     `json:"case_reference"`        // cases.case_reference
	ClientID      string     `json:"client_id"`             // cases.client_id
	RetainerID    *string    `json:"retainer_id,omitempty"` // cases.retainer_id (nullable)
	Title         string     `json:"title"`                 // cases.title
	Description   *string    `json:"description,omitempty"` // cases.description (nullable)
	PracticeArea  string     `json:"practice_area"`         // cases.practice_area
	Priority      string     `json:"priority"`              // cases.priority ('Low','Medium','High','Urgent')
	Status        CaseStatus `json:"status"`                // cases.status
	StartDate     time.Time  `json:"start_date"`            // cases.start_date
	Deadline      *time.Time `json:"deadline,omitempty"`    // cases.deadline (nullable)
	ClosedDate    *time.Time `json:"closed_date,omitempty"` // cases.closed_date (nullable)
	CreatedBy     *uint64    `json:"created_by,omitempty"`  // cases.created_by (nullable)
	CreatedAt     time.Time  `json:"created_at"`            // cases.created_at
	UpdatedAt     time.Time  `json:"updated_at"`            // cases.updated_at
}
