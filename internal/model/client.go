package model

import "time"

// ClientType categorises the kind of entity a client is.
type ClientType string

const (
	ClientCorporate  ClientType = "Corporate"
	ClientIndividual ClientType = "Individual"
	ClientNGO        ClientType = "NGO"
	ClientGovernment ClientType = "Government"
)

// Valid reports whether the type is one of the recognised values.
func (t ClientType) Valid() bool {
	switch t {
	case ClientCorporate, ClientIndividual, ClientNGO, ClientGovernment:
		return true
	}
	return false
}

// Client represents a client of the firm as stored in the `clients` table.
// A client owns retainers, cases, tasks and invoices.  Deletion is blocked
// while the client still has cases in an active status.
//
// Fields:
//  ID                – primary key identifier (string, "c" prefixed).
//  Name              – legal or personal name of the client.
//  Type              – entity type (Corporate, Individual, NGO, Government).
//  Email             – contact email address.
//  Phone             – contact phone number.
//  Address           – postal address (nullable).
//  Industry          – industry the client operates in (nullable).
//  Status            – Active or Inactive.
//  PreferredCurrency – currency the client is normally billed in.
//  CreatedBy         – login account that onboarded the client (nullable).
//  CreatedAt         – creation timestamp.
//  UpdatedAt         – last update timestamp.
type Client struct {
	ID                string     `json:"id"`                   // clients.id
	Name              string     `json:"name"`                 // clients.name
	Type              ClientType `json:"type"`                 // clients.type
	Email             string     `json:"email"`                // clients.email
	Phone             string     `json:"phone"`                // clients.phone
	Address           *string    `json:"address,omitempty"`    // clients.address (nullable)
	Industry          *string    `json:"industry,omitempty"`   // clients.industry (nullable)
	Status            string     `json:"status"`               // clients.status ('Active','Inactive')
	PreferredCurrency Currency   `json:"preferred_currency"`   // clients.preferred_currency
	CreatedBy         *uint64    `json:"created_by,omitempty"` // clients.created_by (nullable)
	CreatedAt         time.Time  `json:"created_at"`           // clients.created_at
	UpdatedAt         time.Time  `json:"updated_at"`           // clients.updated_at
}
