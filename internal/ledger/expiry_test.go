package ledger

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/amkessy/law-practice-api/internal/model"
)

func day(s string) time.Time {
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestCheckExpiry_PastEndDateExpires(t *testing.T) {
	got := CheckExpiry(model.RetainerActive, day("2026-03-31"), day("2026-04-01"), 30)
	assert.Equal(t, model.RetainerExpired, got)
}

func TestCheckExpiry_EndDateItselfIsNotExpired(t *testing.T) {
	got := CheckExpiry(model.RetainerActive, day("2026-03-31"), day("2026-03-31"), 30)
	assert.Equal(t, model.RetainerExpiringSoon, got)
}

func TestCheckExpiry_InsideWarningWindow(t *testing.T) {
	// 10 days before the end of a retainer with a 30-day window.
	got := CheckExpiry(model.RetainerActive, day("2026-03-31"), day("2026-03-21"), 30)
	assert.Equal(t, model.RetainerExpiringSoon, got)
}

func TestCheckExpiry_WindowBoundary(t *testing.T) {
	end := day("2026-03-31")

	// Exactly warningDays out is inside the window.
	assert.Equal(t, model.RetainerExpiringSoon,
		CheckExpiry(model.RetainerActive, end, day("2026-03-01"), 30))
	// One day further out is not.
	assert.Equal(t, model.RetainerActive,
		CheckExpiry(model.RetainerActive, end, day("2026-02-28"), 30))
}

func TestCheckExpiry_SuspendedIsImmune(t *testing.T) {
	got := CheckExpiry(model.RetainerSuspended, day("2026-03-31"), day("2026-06-01"), 30)
	assert.Equal(t, model.RetainerSuspended, got)
}

func TestCheckExpiry_AlreadyExpiredStaysExpired(t *testing.T) {
	// Far from the end date the current status is returned unchanged, so a
	// retainer a previous sweep expired does not flip back.
	got := CheckExpiry(model.RetainerExpired, day("2026-12-31"), day("2026-01-15"), 30)
	assert.Equal(t, model.RetainerExpired, got)
}

func TestCheckExpiry_NonPositiveWarningDaysUsesDefault(t *testing.T) {
	end := day("2026-03-31")
	got := CheckExpiry(model.RetainerActive, end, day("2026-03-10"), 0)
	assert.Equal(t, model.RetainerExpiringSoon, got)
}

func TestCheckExpiry_IgnoresTimeOfDay(t *testing.T) {
	end := day("2026-03-31")
	lateOnEndDate := end.Add(23*time.Hour + 59*time.Minute)
	assert.Equal(t, model.RetainerExpiringSoon,
		CheckExpiry(model.RetainerActive, end, lateOnEndDate, 30))
}
