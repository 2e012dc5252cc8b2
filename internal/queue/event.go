// Package queue defines message payloads exchanged over the message broker.
package queue

// OverAllocatedQueue and ExpiringQueue name the durable queues the ledger
// publishes to.  The consumer declares the same names, so declaration is
// idempotent on both sides.
const (
	OverAllocatedQueue = "retainer.overallocated"
	ExpiringQueue      = "retainer.expiring"
)

// RetainerOverAllocatedEvent is published when a utilization write drives
// a balance negative for the first time.  It carries enough context for
// downstream consumers to alert or reconcile without querying the primary
// database.
type RetainerOverAllocatedEvent struct {
	RetainerID string `json:"retainer_id"`
	ScopeID    string `json:"scope_id,omitempty"`
	ClientID   string `json:"client_id"`
	Currency   string `json:"currency"`
	Allocated  string `json:"allocated_amount"`
	Utilized   string `json:"utilized_amount"`
	Balance    string `json:"balance_amount"`
	RecordedAt string `json:"recorded_at"`
}

// RetainerExpiringEvent is published at most once per retainer per expiry
// event, when the expiry scan moves a retainer into Expiring Soon or
// Expired.  Idempotence is enforced by the expiry_alert_sent flag.
type RetainerExpiringEvent struct {
	RetainerID string `json:"retainer_id"`
	ClientID   string `json:"client_id"`
	Status     string `json:"status"`
	EndDate    string `json:"end_date"`
	AutoRenew  bool   `json:"auto_renew"`
	NotifiedAt string `json:"notified_at"`
}
