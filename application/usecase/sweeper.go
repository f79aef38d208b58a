package usecase

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/halfmoon/halfmoon/application/port/outbound"
)

// ExpirySweeper periodically retires issued-token records once either side of
// the pair has expired. It runs independently of request traffic.
type ExpirySweeper struct {
	store    outbound.TokenStore
	interval time.Duration
	log      logrus.FieldLogger
}

func NewExpirySweeper(store outbound.TokenStore, interval time.Duration, log logrus.FieldLogger) *ExpirySweeper {
	return &ExpirySweeper{
		store:    store,
		interval: interval,
		log:      log,
	}
}

// Run ticks until ctx is cancelled. A sweep already in flight runs to
// completion; cancellation only stops future ticks.
func (s *ExpirySweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.log.WithField("interval", s.interval).Info("expiry sweeper started")
	for {
		select {
		case <-ctx.Done():
			s.log.Info("expiry sweeper stopped")
			return
		case <-ticker.C:
			if _, err := s.Sweep(context.Background()); err != nil {
				s.log.WithError(err).Warn("expiry sweep failed")
			}
		}
	}
}

// Sweep enumerates the store and deletes every record whose access or refresh
// expiry has passed. It returns the number of records removed.
func (s *ExpirySweeper) Sweep(ctx context.Context) (int, error) {
	records, err := s.store.FindAll(ctx)
	if err != nil {
		return 0, err
	}

	now := time.Now()
	removed := 0
	for _, record := range records {
		if !record.Expired(now) {
			continue
		}
		if err := s.store.Delete(ctx, record.ID); err != nil {
			s.log.WithError(err).WithField("record", record.ID).Warn("failed to delete expired record")
			continue
		}
		removed++
	}

	if removed > 0 {
		s.log.WithFields(logrus.Fields{
			"removed": removed,
			"scanned": len(records),
		}).Info("expiry sweep complete")
	}
	return removed, nil
}
