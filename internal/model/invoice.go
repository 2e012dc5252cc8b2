package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// InvoiceStatus enumerates invoice lifecycle states.
type InvoiceStatus string

const (
	InvoiceDraft   InvoiceStatus = "Draft"
	InvoiceSent    InvoiceStatus = "Sent"
	InvoicePaid    InvoiceStatus = "Paid"
	InvoiceOverdue InvoiceStatus = "Overdue"
)

// Valid reports whether the status is one of the recognised values.
func (s InvoiceStatus) Valid() bool {
	switch s {
	case InvoiceDraft, InvoiceSent, InvoicePaid, InvoiceOverdue:
		return true
	}
	return false
}

// Invoice is a billing document issued to a client, optionally tied to a
// case.  AmountInBase carries the amount converted into the firm's
// reporting currency at issue time so revenue reports do not depend on
// later rate changes.  Corresponds to the `invoices` table.
//
// Fields:
//  ID            – primary key identifier (string, "inv" prefixed).
//  InvoiceNumber – unique sequential invoice number.
//  ClientID      – billed client.
//  CaseID        – related case (nullable).
//  Amount        – invoiced amount in Currency.
//  Currency      – invoicing currency.
//  AmountInBase  – amount converted to the firm's base currency.
//  Status        – Draft, Sent, Paid or Overdue.
//  IssueDate     – date the invoice was issued.
//  DueDate       – payment due date.
//  PaidDate      – date payment was received (nullable).
//  Notes         – free-text notes (nullable).
//  CreatedBy     – issuing account (nullable).
//  CreatedAt     – creation timestamp.
//  UpdatedAt     – last update timestamp.
type Invoice struct {
	ID            string          `json:"id"`                   // invoices.id
	InvoiceNumber string          `json:"invoice_number"`       // invoices.invoice_number
	ClientID      string          `json:"client_id"`            // invoices.client_id
	CaseID        *string         `json:"case_id,omitempty"`    // invoices.case_id (nullable)
	Amount        decimal.Decimal `json:"amount"`               // invoices.amount
	Currency      Currency        `json:"currency"`             // invoices.currency
	AmountInBase  decimal.Decimal `json:"amount_in_base"`       // invoices.amount_in_base
	Status        InvoiceStatus   `json:"status"`               // invoices.status
	IssueDate     time.Time       `json:"issue_date"`           // invoices.issue_date
	DueDate       time.Time       `json:"due_date"`             // invoices.due_date
	PaidDate      *time.Time      `json:"paid_date,omitempty"`  // invoices.paid_date (nullable)
	Notes         *string         `json:"notes,omitempty"`      // invoices.notes (nullable)
	CreatedBy     *uint64         `json:"created_by,omitempty"` // invoices.created_by (nullable)
	CreatedAt     time.Time       `json:"created_at"`           // invoices.created_at
	UpdatedAt     time.Time       `json:"updated_at"`           // invoices.updated_at
}

// ExchangeRate is one row of the rate table used by the currency
// converter: the price of one unit of FromCurrency in ToCurrency on
// RateDate.  Corresponds to the `exchange_rates` table.
//
// Fields:
//  ID           – primary key identifier.
//  FromCurrency – source currency code.
//  ToCurrency   – target currency code.
//  Rate         – units of ToCurrency per unit of FromCurrency.
//  RateDate     – date the rate applies from.
//  CreatedAt    – creation timestamp.
type ExchangeRate struct {
	ID           uint64          `json:"id"`            // exchange_rates.id
	FromCurrency Currency        `json:"from_currency"` // exchange_rates.from_currency
	ToCurrency   Currency        `json:"to_currency"`   // exchange_rates.to_currency
	Rate         decimal.Decimal `json:"rate"`          // exchange_rates.rate
	RateDate     time.Time       `json:"rate_date"`     // exchange_rates.rate_date
	CreatedAt    time.Time       `json:"created_at"`    // exchange_rates.created_at
}
