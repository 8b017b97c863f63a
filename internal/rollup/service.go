package rollup

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"worktime-rollup-backend/internal/schedule"
	"worktime-rollup-backend/internal/store"
)

// reconcileLookback widens the reconciliation window before the first
// computed span so the output of an immediately-preceding invocation is seen
// and merged instead of left adjacent-but-separate.
const reconcileLookback = 5 * time.Minute

// Service is the rollup engine's single entry point. It is safe to call from
// a queue worker or directly; the engine does not know which path invoked it.
type Service struct {
	store    store.Store
	resolver *schedule.Resolver

	mu    sync.Mutex
	locks map[int64]*sync.Mutex
}

// NewService creates a rollup service.
func NewService(s store.Store, resolver *schedule.Resolver) *Service {
	return &Service{
		store:    s,
		resolver: resolver,
		locks:    make(map[int64]*sync.Mutex),
	}
}

// RollupUserActivity classifies the user's samples in [from, to] and
// reconciles the result into persisted time entries. It returns the number of
// spans processed. The invocation either commits fully or fails with no
// partial writes; re-running it is always safe.
func (s *Service) RollupUserActivity(ctx context.Context, userID int64, from, to time.Time) (int, error) {
	if !from.Before(to) {
		return 0, fmt.Errorf("invalid range [%s, %s] for user %d", from, to, userID)
	}

	// Serialize same-user invocations in-process, on top of the row locks the
	// writer takes. Different users proceed in parallel.
	lock := s.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	user, err := s.store.FetchUser(ctx, userID)
	if err != nil {
		return 0, err
	}

	// Rules are resolved once, before any samples are read; a failed lookup
	// aborts the invocation rather than falling back to defaults.
	rules, err := s.resolver.Resolve(ctx, user.OrgID, userID)
	if err != nil {
		return 0, err
	}

	samples, err := s.store.FetchSamples(ctx, userID, from, to)
	if err != nil {
		return 0, err
	}
	if len(samples) == 0 {
		log.Printf("rollup: user %d has no samples in [%s, %s], nothing to do", userID, from, to)
		return 0, nil
	}

	buckets := Bucketize(samples)
	minutes := Classify(buckets, rules)
	entries := Smooth(minutes, rules.IdleThresholdMinutes())
	spans := MergeRuns(entries)
	if len(spans) == 0 {
		log.Printf("rollup: user %d has no classifiable minutes in [%s, %s]", userID, from, to)
		return 0, nil
	}

	windowStart := spans[0].Start.Add(-reconcileLookback)
	windowEnd := spans[len(spans)-1].End
	if err := s.store.ReconcileSpans(ctx, userID, windowStart, windowEnd, spans); err != nil {
		return 0, fmt.Errorf("rollup for user %d failed: %w", userID, err)
	}

	log.Printf("rollup: user %d processed %d spans over [%s, %s]", userID, len(spans), from, to)
	return len(spans), nil
}

func (s *Service) userLock(userID int64) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.locks[userID]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[userID] = lock
	}
	return lock
}
