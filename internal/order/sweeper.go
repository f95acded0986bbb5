package order

import (
	"context"
	"sort"
	"time"

	"github.com/wichananm65/bookstore-backend/internal/logging"
)

const sweepBatchSize = 100

// Sweeper cancels Pending orders older than a TTL and puts their copies back
// in stock.
type Sweeper struct {
	store    Store
	ttl      time.Duration
	interval time.Duration
	now      func() time.Time
}

func NewSweeper(store Store, ttl, interval time.Duration) *Sweeper {
	return &Sweeper{
		store:    store,
		ttl:      ttl,
		interval: interval,
		now:      time.Now,
	}
}

// Run sweeps every interval until ctx is done.
func (s *Sweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	logging.Log(logging.Fields{Component: "sweeper", Status: "started", Message: "ttl=" + s.ttl.String()})

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			for {
				n, err := s.SweepOnce(ctx)
				if err != nil {
					logging.Error("sweeper", "sweep failed", err)
					break
				}
				if n < sweepBatchSize {
					break
				}
			}
		}
	}
}

// SweepOnce cancels one batch of stale orders in a single unit of work and
// reports how many it cancelled.
func (s *Sweeper) SweepOnce(ctx context.Context) (int, error) {
	cutoff := s.now().Add(-s.ttl)
	cancelled := 0

	err := s.store.WithinTx(ctx, func(tx Tx) error {
		stale, err := tx.StalePending(ctx, cutoff, sweepBatchSize)
		if err != nil {
			return err
		}

		restock := make(map[int]int)
		for _, o := range stale {
			if err := tx.SetStatus(ctx, o.ID, StatusCancelled); err != nil {
				return err
			}
			for _, it := range o.Items {
				restock[it.BookID] += it.Quantity
			}
		}

		// same ascending book order checkout locks in
		ids := make([]int, 0, len(restock))
		for id := range restock {
			ids = append(ids, id)
		}
		sort.Ints(ids)
		for _, id := range ids {
			if err := tx.IncrementStock(ctx, id, restock[id]); err != nil {
				return err
			}
		}
		cancelled = len(stale)
		return nil
	})
	if err != nil {
		return 0, err
	}

	if cancelled > 0 {
		logging.Log(logging.Fields{Component: "sweeper", Status: "cancelled", Message: "stale pending orders cancelled", Count: cancelled})
	}
	return cancelled, nil
}
