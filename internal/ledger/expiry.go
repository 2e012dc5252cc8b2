package ledger

import (
	"time"

	"github.com/amkessy/law-practice-api/internal/model"
)

// DefaultExpiryWarningDays is the width of the "Expiring Soon" window when
// no override is configured.
const DefaultExpiryWarningDays = 30

// CheckExpiry returns the status a retainer should hold as of the given
// date.  It is a pure comparison against the end date and never mutates
// anything; the expiry scanner applies the returned transition and
// publishes the alert.
//
// Rules: a Suspended retainer is left alone.  Past the end date the status
// is Expired.  Within warningDays of the end date it is Expiring Soon.
// Otherwise the current status is returned unchanged, so a retainer a
// scanner already expired does not flap back to Active.
func CheckExpiry(current model.RetainerStatus, endDate, asOf time.Time, warningDays int) model.RetainerStatus {
	if current == model.RetainerSuspended {
		return current
	}
	if warningDays <= 0 {
		warningDays = DefaultExpiryWarningDays
	}
	// Compare at day granularity; start/end dates are DATE columns.
	end := endDate.Truncate(24 * time.Hour)
	day := asOf.Truncate(24 * time.Hour)
	if day.After(end) {
		return model.RetainerExpired
	}
	warn := end.AddDate(0, 0, -warningDays)
	if !day.Before(warn) {
		return model.RetainerExpiringSoon
	}
	return current
}
