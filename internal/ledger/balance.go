package ledger

import "github.com/shopspring/decimal"

// Balance is the derived position of a retainer or scope: allocated minus
// utilized, and hours remaining when hours are tracked.  HoursRemaining is
// nil for allocations that do not track hours.
type Balance struct {
	Amount         decimal.Decimal  `json:"balance_amount"`
	HoursRemaining *decimal.Decimal `json:"hours_remaining,omitempty"`
}

// utilizationResult is the outcome of applying one utilization delta to an
// allocation bucket, computed before anything is written back.
type utilizationResult struct {
	NewUtilized      decimal.Decimal
	NewUtilizedHours decimal.Decimal
	Balance          Balance
	// CrossedZero is true when this delta took the balance from
	// non-negative to negative.  The over-allocation event fires only on
	// that crossing, never again while the balance stays negative.
	CrossedZero bool
}

// applyUtilization adds amountDelta/hoursDelta to the utilized totals of a
// bucket with the given allocation and returns the resulting position.
// allocatedHours is nil when the bucket does not track hours; hoursDelta
// may be nil when the event carries no hours.  The caller has already
// validated that the deltas are non-negative.
func applyUtilization(allocated, utilized decimal.Decimal, allocatedHours *decimal.Decimal, utilizedHours decimal.Decimal, amountDelta decimal.Decimal, hoursDelta *decimal.Decimal) utilizationResult {
	res := utilizationResult{
		NewUtilized:      utilized.Add(amountDelta),
		NewUtilizedHours: utilizedHours,
	}
	if hoursDelta != nil {
		res.NewUtilizedHours = utilizedHours.Add(*hoursDelta)
	}
	res.Balance.Amount = allocated.Sub(res.NewUtilized)
	if allocatedHours != nil {
		rem := allocatedHours.Sub(res.NewUtilizedHours)
		res.Balance.HoursRemaining = &rem
	}
	before := allocated.Sub(utilized)
	res.CrossedZero = !before.IsNegative() && res.Balance.Amount.IsNegative()
	return res
}
