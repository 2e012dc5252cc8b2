package ledger

import (
	"context"
	"database/sql"
	"time"

	"github.com/shopspring/decimal"

	"github.com/amkessy/law-practice-api/internal/model"
	"github.com/amkessy/law-practice-api/internal/queue"
	"github.com/amkessy/law-practice-api/internal/repository"
)

// Publisher sends ledger events to the message broker.  Publishing is
// best-effort: the ledger records the write first, commits, and only then
// publishes, so a broker outage never rolls back billing.
type Publisher interface {
	PublishOverAllocated(ctx context.Context, ev queue.RetainerOverAllocatedEvent) error
}

// Ledger coordinates allocation and utilization across retainers and
// their scopes.  Every utilization write runs as a transactional
// read-modify-write holding row locks on the affected retainer (and
// scope), so two billing events racing against the same balance serialize
// and neither update is lost.
//
// By default over-utilization is permitted: the write succeeds, the
// balance goes negative, and an over-allocation event is published on the
// crossing.  With strict mode enabled the same write is rejected with
// ErrOverAllocation and rolled back.
type Ledger struct {
	db        *sql.DB
	retainers *repository.RetainerRepo
	scopes    *repository.RetainerScopeRepo
	publisher Publisher
	strict    bool
}

// New returns a Ledger over the given repositories.  publisher may be nil
// when no broker is configured; events are then dropped.
func New(db *sql.DB, retainers *repository.RetainerRepo, scopes *repository.RetainerScopeRepo, publisher Publisher, strict bool) *Ledger {
	return &Ledger{db: db, retainers: retainers, scopes: scopes, publisher: publisher, strict: strict}
}

// CreateRetainerInput carries the validated fields for a new retainer.
type CreateRetainerInput struct {
	ClientID    string
	Name        string
	Description *string
	TotalAmount decimal.Decimal
	Currency    model.Currency
	TotalHours  *decimal.Decimal
	StartDate   time.Time
	EndDate     time.Time
	AutoRenew   bool
}

// NewRetainer builds a retainer from the input without persisting it, so
// callers composing larger transactions (client onboarding creates client
// plus retainer in one tx) can insert it with RetainerRepo.CreateTx.
func NewRetainer(in CreateRetainerInput) (*model.Retainer, error) {
	if in.TotalAmount.IsNegative() {
		return nil, ErrValidation
	}
	if in.TotalHours != nil && in.TotalHours.IsNegative() {
		return nil, ErrValidation
	}
	if !in.Currency.Valid() {
		return nil, ErrValidation
	}
	if in.StartDate.After(in.EndDate) {
		return nil, ErrValidation
	}
	return &model.Retainer{
		ID:                  model.NewID("ret"),
		ClientID:            in.ClientID,
		Name:                in.Name,
		Description:         in.Description,
		TotalAmount:         in.TotalAmount,
		Currency:            in.Currency,
		UtilizedAmount:      decimal.Zero,
		TotalHoursAllocated: in.TotalHours,
		HoursUtilized:       decimal.Zero,
		StartDate:           in.StartDate,
		EndDate:             in.EndDate,
		AutoRenew:           in.AutoRenew,
		Status:              model.RetainerActive,
		ExpiryAlertSent:     false,
	}, nil
}

// CreateRetainer validates and persists a new retainer.
func (l *Ledger) CreateRetainer(ctx context.Context, in CreateRetainerInput) (*model.Retainer, error) {
	ret, err := NewRetainer(in)
	if err != nil {
		return nil, err
	}
	if err := l.retainers.Create(ctx, ret); err != nil {
		return nil, err
	}
	return ret, nil
}

// AllocateScopeInput carries the fields for a new allocation bucket.
type AllocateScopeInput struct {
	RetainerID    string
	Name          string
	Description   *string
	BillingMethod model.BillingMethod
	Amount        decimal.Decimal
	Hours         *decimal.Decimal
	HourlyRate    *decimal.Decimal
	StartDate     *time.Time
	EndDate       *time.Time
}

// Allocate creates a scope under a retainer with zeroed utilization.
// Negative amounts or hours fail with ErrInvalidAllocation; a missing
// retainer surfaces as sql.ErrNoRows.
func (l *Ledger) Allocate(ctx context.Context, in AllocateScopeInput) (*model.RetainerScope, error) {
	if in.Amount.IsNegative() {
		return nil, ErrInvalidAllocation
	}
	if in.Hours != nil && in.Hours.IsNegative() {
		return nil, ErrInvalidAllocation
	}
	if !in.BillingMethod.Valid() {
		return nil, ErrInvalidAllocation
	}
	if _, err := l.retainers.GetByID(ctx, in.RetainerID); err != nil {
		return nil, err
	}
	sc := &model.RetainerScope{
		ID:              model.NewID("scope"),
		RetainerID:      in.RetainerID,
		Name:            in.Name,
		Description:     in.Description,
		BillingMethod:   in.BillingMethod,
		AllocatedAmount: in.Amount,
		UtilizedAmount:  decimal.Zero,
		AllocatedHours:  in.Hours,
		UtilizedHours:   decimal.Zero,
		HourlyRate:      in.HourlyRate,
		StartDate:       in.StartDate,
		EndDate:         in.EndDate,
		Status:          model.ScopeActive,
	}
	if err := l.scopes.Create(ctx, sc); err != nil {
		return nil, err
	}
	return sc, nil
}

// rejectsOverAllocation decides whether a utilization result is refused.
// Permissive mode never refuses; strict mode refuses any write whose
// resulting balance is negative, and the caller rolls back.
func (l *Ledger) rejectsOverAllocation(res utilizationResult) bool {
	return l.strict && res.Balance.Amount.IsNegative()
}

// RecordUtilization debits a scope directly.  It resolves the owning
// retainer and performs the same double-entry write as BillAgainst.
func (l *Ledger) RecordUtilization(ctx context.Context, scopeID string, amountDelta decimal.Decimal, hoursDelta *decimal.Decimal) (Balance, error) {
	sc, err := l.scopes.GetByID(ctx, scopeID)
	if err != nil {
		return Balance{}, err
	}
	return l.BillAgainst(ctx, sc.RetainerID, &scopeID, amountDelta, hoursDelta)
}

// BillAgainst debits a retainer, optionally through one of its scopes.
// With a scope the write is double-entry: the scope and the parent
// retainer both accumulate the delta in the same transaction, mirroring
// the redundant bookkeeping both tables carry.  The returned balance is
// the scope's when a scope was billed, otherwise the retainer's.
func (l *Ledger) BillAgainst(ctx context.Context, retainerID string, scopeID *string, amountDelta decimal.Decimal, hoursDelta *decimal.Decimal) (Balance, error) {
	if amountDelta.IsNegative() {
		return Balance{}, ErrNegativeDelta
	}
	if hoursDelta != nil && hoursDelta.IsNegative() {
		return Balance{}, ErrNegativeDelta
	}

	tx, err := l.db.BeginTx(ctx, nil)
	if err != nil {
		return Balance{}, err
	}
	defer func() { _ = tx.Rollback() }()

	// Lock ordering is always retainer then scope, so concurrent bills
	// against the same retainer cannot deadlock.
	ret, err := l.retainers.GetForUpdateTx(ctx, tx, retainerID)
	if err != nil {
		return Balance{}, err
	}

	var res utilizationResult
	var ev *queue.RetainerOverAllocatedEvent

	if scopeID != nil {
		sc, err := l.scopes.GetForUpdateTx(ctx, tx, *scopeID)
		if err != nil {
			return Balance{}, err
		}
		if sc.RetainerID != ret.ID {
			return Balance{}, repository.ErrConflict
		}
		res = applyUtilization(sc.AllocatedAmount, sc.UtilizedAmount, sc.AllocatedHours, sc.UtilizedHours, amountDelta, hoursDelta)
		if l.rejectsOverAllocation(res) {
			return Balance{}, ErrOverAllocation
		}
		if err := l.scopes.AddUtilizationTx(ctx, tx, sc.ID, amountDelta, hoursDelta); err != nil {
			return Balance{}, err
		}
		if err := l.retainers.AddUtilizationTx(ctx, tx, ret.ID, amountDelta, hoursDelta); err != nil {
			return Balance{}, err
		}
		if res.CrossedZero {
			ev = &queue.RetainerOverAllocatedEvent{
				RetainerID: ret.ID,
				ScopeID:    sc.ID,
				ClientID:   ret.ClientID,
				Currency:   string(ret.Currency),
				Allocated:  sc.AllocatedAmount.String(),
				Utilized:   res.NewUtilized.String(),
				Balance:    res.Balance.Amount.String(),
				RecordedAt: time.Now().UTC().Format(time.RFC3339),
			}
		}
	} else {
		res = applyUtilization(ret.TotalAmount, ret.UtilizedAmount, ret.TotalHoursAllocated, ret.HoursUtilized, amountDelta, hoursDelta)
		if l.rejectsOverAllocation(res) {
			return Balance{}, ErrOverAllocation
		}
		if err := l.retainers.AddUtilizationTx(ctx, tx, ret.ID, amountDelta, hoursDelta); err != nil {
			return Balance{}, err
		}
		if res.CrossedZero {
			ev = &queue.RetainerOverAllocatedEvent{
				RetainerID: ret.ID,
				ClientID:   ret.ClientID,
				Currency:   string(ret.Currency),
				Allocated:  ret.TotalAmount.String(),
				Utilized:   res.NewUtilized.String(),
				Balance:    res.Balance.Amount.String(),
				RecordedAt: time.Now().UTC().Format(time.RFC3339),
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return Balance{}, err
	}
	if ev != nil && l.publisher != nil {
		_ = l.publisher.PublishOverAllocated(ctx, *ev)
	}
	return res.Balance, nil
}

// GetBalance returns the derived position of a scope.  Pure read.
func (l *Ledger) GetBalance(ctx context.Context, scopeID string) (Balance, error) {
	sc, err := l.scopes.GetByID(ctx, scopeID)
	if err != nil {
		return Balance{}, err
	}
	return Balance{Amount: sc.BalanceAmount(), HoursRemaining: sc.HoursRemaining()}, nil
}

// Retainer returns a retainer by id, sql.ErrNoRows when absent.
func (l *Ledger) Retainer(ctx context.Context, id string) (*model.Retainer, error) {
	return l.retainers.GetByID(ctx, id)
}

// RetainerBalance returns the derived position of a retainer.  Pure read.
func (l *Ledger) RetainerBalance(ctx context.Context, retainerID string) (Balance, error) {
	ret, err := l.retainers.GetByID(ctx, retainerID)
	if err != nil {
		return Balance{}, err
	}
	return Balance{Amount: ret.BalanceAmount(), HoursRemaining: ret.HoursRemaining()}, nil
}

// TransitionStatus moves a scope to a new explicit status.
func (l *Ledger) TransitionStatus(ctx context.Context, scopeID string, status model.ScopeStatus) error {
	if !status.Valid() {
		return ErrValidation
	}
	return l.scopes.UpdateStatus(ctx, scopeID, status)
}

// Renew extends a retainer.  It is allowed when the retainer has
// auto-renew enabled or when force is set (an explicit renewal request).
// Optional additional allocation is added to the totals, status returns to
// Active, the expiry alert flag is cleared, and every active scope has its
// extension_count bumped and end date pushed.
func (l *Ledger) Renew(ctx context.Context, retainerID string, newEnd time.Time, addAmount decimal.Decimal, addHours *decimal.Decimal, force bool) (*model.Retainer, error) {
	ret, err := l.retainers.GetByID(ctx, retainerID)
	if err != nil {
		return nil, err
	}
	if !ret.AutoRenew && !force {
		return nil, ErrRenewNotAllowed
	}
	if addAmount.IsNegative() || (addHours != nil && addHours.IsNegative()) {
		return nil, ErrValidation
	}
	if newEnd.Before(ret.EndDate) {
		return nil, ErrValidation
	}

	tx, err := l.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	if err := l.retainers.RenewTx(ctx, tx, retainerID, newEnd, addAmount, addHours); err != nil {
		return nil, err
	}
	if err := l.scopes.ExtendActiveTx(ctx, tx, retainerID, newEnd); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return l.retainers.GetByID(ctx, retainerID)
}
