package service

import (
	"context"
	"log"
	"time"

	"github.com/amkessy/law-practice-api/internal/config"
	"github.com/amkessy/law-practice-api/internal/ledger"
	"github.com/amkessy/law-practice-api/internal/model"
	"github.com/amkessy/law-practice-api/internal/queue"
	"github.com/amkessy/law-practice-api/internal/repository"
)

// ExpiringPublisher is the broker surface the scanner needs.
type ExpiringPublisher interface {
	PublishExpiring(ctx context.Context, ev queue.RetainerExpiringEvent) error
}

// ExpiryScanner periodically sweeps active retainers and moves them to
// Expiring Soon or Expired as their end dates approach.  The first time a
// retainer leaves Active an alert event is published; the
// expiry_alert_sent flag keeps that to at most one alert per retainer
// lifetime, including across restarts and across multiple API nodes.
type ExpiryScanner struct {
	retainers *repository.RetainerRepo
	publisher ExpiringPublisher
	cfg       config.LedgerConfig
}

// NewExpiryScanner wires a scanner; publisher may be nil, in which case
// status transitions still happen but no alerts are sent.
func NewExpiryScanner(retainers *repository.RetainerRepo, publisher ExpiringPublisher, cfg config.LedgerConfig) *ExpiryScanner {
	return &ExpiryScanner{retainers: retainers, publisher: publisher, cfg: cfg}
}

// Run blocks, scanning on the configured interval until ctx is cancelled.
// An initial sweep happens immediately so a restart cannot push alerts a
// full interval into the future.
func (s *ExpiryScanner) Run(ctx context.Context) {
	ticker := time.NewTicker(s.cfg.ExpiryScanInterval)
	defer ticker.Stop()

	s.sweep(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

func (s *ExpiryScanner) sweep(ctx context.Context) {
	due, err := s.retainers.ListDueForExpiryScan(ctx)
	if err != nil {
		log.Printf("expiry-scanner: list failed: %v", err)
		return
	}
	now := time.Now().UTC()
	for i := range due {
		ret := &due[i]
		next := ledger.CheckExpiry(ret.Status, ret.EndDate, now, s.cfg.ExpiryWarningDays)
		if next == ret.Status {
			continue
		}
		if err := s.retainers.UpdateStatus(ctx, ret.ID, next); err != nil {
			log.Printf("expiry-scanner: update %s failed: %v", ret.ID, err)
			continue
		}
		log.Printf("expiry-scanner: retainer %s %s -> %s", ret.ID, ret.Status, next)
		s.alert(ctx, ret, next, now)
	}
}

// alert publishes at most one expiry event per retainer.
func (s *ExpiryScanner) alert(ctx context.Context, ret *model.Retainer, status model.RetainerStatus, now time.Time) {
	if s.publisher == nil {
		return
	}
	first, err := s.retainers.MarkExpiryAlertSent(ctx, ret.ID)
	if err != nil {
		log.Printf("expiry-scanner: mark alert %s failed: %v", ret.ID, err)
		return
	}
	if !first {
		return
	}
	ev := queue.RetainerExpiringEvent{
		RetainerID: ret.ID,
		ClientID:   ret.ClientID,
		Status:     string(status),
		EndDate:    ret.EndDate.Format("2006-01-02"),
		AutoRenew:  ret.AutoRenew,
		NotifiedAt: now.Format(time.RFC3339),
	}
	if err := s.publisher.PublishExpiring(ctx, ev); err != nil {
		log.Printf("expiry-scanner: publish alert %s failed: %v", ret.ID, err)
	}
}
