package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/amkessy/law-practice-api/internal/model"
)

// InvoiceRepo provides persistence for invoices.
type InvoiceRepo struct {
	db *sql.DB
}

// NewInvoiceRepo returns a new InvoiceRepo bound to the given database.
func NewInvoiceRepo(db *sql.DB) *InvoiceRepo { return &InvoiceRepo{db: db} }

const invoiceCols = `id, invoice_number, client_id, case_id, amount, currency,
	   amount_in_base, status, issue_date, due_date, paid_date, notes,
	   created_by, created_at, updated_at`

func scanInvoice(s interface{ Scan(...any) error }) (*model.Invoice, error) {
	var inv model.Invoice
	var caseID, notes sql.NullString
	var paid sql.NullTime
	var createdBy sql.NullInt64
	if err := s.Scan(
		&inv.ID, &inv.InvoiceNumber, &inv.ClientID, &caseID, &inv.Amount, &inv.Currency,
		&inv.AmountInBase, &inv.Status, &inv.IssueDate, &inv.DueDate, &paid, &notes,
		&createdBy, &inv.CreatedAt, &inv.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if caseID.Valid {
		v := caseID.String
		inv.CaseID = &v
	}
	if notes.Valid {
		v := notes.String
		inv.Notes = &v
	}
	if paid.Valid {
		t := paid.Time
		inv.PaidDate = &t
	}
	if createdBy.Valid {
		v := uint64(createdBy.Int64)
		inv.CreatedBy = &v
	}
	return &inv, nil
}

// Create inserts an invoice.  Duplicate invoice numbers surface as
// ErrConflict.
func (r *InvoiceRepo) Create(ctx context.Context, inv *model.Invoice) error {
	const q = `INSERT INTO invoices
		(id, invoice_number, client_id, case_id, amount, currency,
		 amount_in_base, status, issue_date, due_date, notes, created_by)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, q,
		inv.ID, inv.InvoiceNumber, inv.ClientID, inv.CaseID, inv.Amount, inv.Currency,
		inv.AmountInBase, inv.Status, inv.IssueDate, inv.DueDate, inv.Notes, inv.CreatedBy,
	)
	if err != nil && strings.Contains(err.Error(), "Duplicate entry") {
		return ErrConflict
	}
	return err
}

// NextNumber produces the next invoice number for the given year, e.g.
// "INV-2026-0042".  It counts existing invoices for the year, which is
// adequate because invoice numbers also carry a unique constraint that
// turns a rare race into ErrConflict instead of a silent duplicate.
func (r *InvoiceRepo) NextNumber(ctx context.Context, year int) (string, error) {
	var n int
	const q = `SELECT COUNT(*) FROM invoices WHERE invoice_number LIKE ?`
	if err := r.db.QueryRowContext(ctx, q, fmt.Sprintf("INV-%d-%%", year)).Scan(&n); err != nil {
		return "", err
	}
	return fmt.Sprintf("INV-%d-%04d", year, n+1), nil
}

// GetByID returns a single invoice or sql.ErrNoRows.
func (r *InvoiceRepo) GetByID(ctx context.Context, id string) (*model.Invoice, error) {
	const q = `SELECT ` + invoiceCols + ` FROM invoices WHERE id = ?`
	return scanInvoice(r.db.QueryRowContext(ctx, q, id))
}

// List returns all invoices, newest first.
func (r *InvoiceRepo) List(ctx context.Context) ([]model.Invoice, error) {
	const q = `SELECT ` + invoiceCols + ` FROM invoices ORDER BY created_at DESC`
	return r.queryInvoices(ctx, q)
}

// ListByClient returns a client's invoices, newest first.
func (r *InvoiceRepo) ListByClient(ctx context.Context, clientID string) ([]model.Invoice, error) {
	const q = `SELECT ` + invoiceCols + ` FROM invoices WHERE client_id = ? ORDER BY created_at DESC`
	return r.queryInvoices(ctx, q, clientID)
}

func (r *InvoiceRepo) queryInvoices(ctx context.Context, q string, args ...any) ([]model.Invoice, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Invoice, 0)
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *inv)
	}
	return out, rows.Err()
}

// UpdateStatus moves an invoice to a new status; marking it Paid also
// stamps the paid date.
func (r *InvoiceRepo) UpdateStatus(ctx context.Context, id string, status model.InvoiceStatus, paidOn *time.Time) error {
	var res sql.Result
	var err error
	if status == model.InvoicePaid && paidOn != nil {
		const q = `UPDATE invoices SET status = ?, paid_date = ? WHERE id = ?`
		res, err = r.db.ExecContext(ctx, q, status, *paidOn, id)
	} else {
		const q = `UPDATE invoices SET status = ? WHERE id = ?`
		res, err = r.db.ExecContext(ctx, q, status, id)
	}
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err == nil && n == 0 {
		return sql.ErrNoRows
	}
	return err
}
