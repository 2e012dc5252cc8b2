package handler

import (
	"database/sql"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/amkessy/law-practice-api/internal/ledger"
	"github.com/amkessy/law-practice-api/internal/model"
)

func canTransition(from, to model.InvoiceStatus) bool {
	for _, s := range invoiceTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

func TestInvoiceTransitions(t *testing.T) {
	assert.True(t, canTransition(model.InvoiceDraft, model.InvoiceSent))
	assert.True(t, canTransition(model.InvoiceSent, model.InvoicePaid))
	assert.True(t, canTransition(model.InvoiceSent, model.InvoiceOverdue))
	assert.True(t, canTransition(model.InvoiceOverdue, model.InvoicePaid))

	// No skipping ahead, no travelling back.
	assert.False(t, canTransition(model.InvoiceDraft, model.InvoicePaid))
	assert.False(t, canTransition(model.InvoiceSent, model.InvoiceDraft))
	assert.False(t, canTransition(model.InvoicePaid, model.InvoiceSent))
	assert.False(t, canTransition(model.InvoicePaid, model.InvoiceOverdue))
}

// A failed follow-up debit must surface as a warning inside a success
// response, never as an error status: the invoice or task row is already
// committed, and an error status would have the client create it again.
func TestBillingFailureNote(t *testing.T) {
	assert.Contains(t, billingFailureNote(ledger.ErrRateNotFound), "no exchange rate")
	assert.Contains(t, billingFailureNote(ledger.ErrOverAllocation), "allocation exceeded")
	assert.Contains(t, billingFailureNote(sql.ErrNoRows), "no longer exists")
	assert.Equal(t, "billing failed: ledger not updated", billingFailureNote(errors.New("broker down")))
}
