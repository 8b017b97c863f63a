package schedule

import (
	"context"
	"fmt"
	"time"

	"github.com/patrickmn/go-cache"

	"worktime-rollup-backend/internal/model"
)

// RulesSource provides the stored schedule configuration. A nil record with a
// nil error means the configuration is genuinely absent; an error means the
// lookup itself failed and must not be papered over with defaults.
type RulesSource interface {
	FetchOrgSchedule(ctx context.Context, orgID int64) (*model.OrgSchedule, error)
	FetchUserOverride(ctx context.Context, userID int64) (*model.UserScheduleOverride, error)
}

// Resolver produces effective Rules for a (org, user) pair, caching resolved
// values briefly since schedules change rarely and every rollup invocation
// consults them exactly once.
type Resolver struct {
	source RulesSource
	cache  *cache.Cache
}

// NewResolver creates a resolver over the given source.
func NewResolver(source RulesSource, cacheTTL time.Duration) *Resolver {
	return &Resolver{
		source: source,
		cache:  cache.New(cacheTTL, 2*cacheTTL),
	}
}

// Resolve returns the effective rules for userID in orgID. A missing
// organization schedule yields DefaultRules; a user-level override replaces
// only the check-in window.
func (r *Resolver) Resolve(ctx context.Context, orgID, userID int64) (Rules, error) {
	key := fmt.Sprintf("%d/%d", orgID, userID)
	if cached, found := r.cache.Get(key); found {
		return cached.(Rules), nil
	}

	sched, err := r.source.FetchOrgSchedule(ctx, orgID)
	if err != nil {
		return Rules{}, fmt.Errorf("failed to fetch schedule for org %d: %w", orgID, err)
	}

	var rules Rules
	if sched == nil {
		rules = DefaultRules()
	} else {
		rules, err = fromSchedule(sched)
		if err != nil {
			return Rules{}, fmt.Errorf("invalid schedule for org %d: %w", orgID, err)
		}
	}

	override, err := r.source.FetchUserOverride(ctx, userID)
	if err != nil {
		return Rules{}, fmt.Errorf("failed to fetch schedule override for user %d: %w", userID, err)
	}
	if override != nil && override.CheckinStart != "" && override.CheckinEnd != "" {
		w, err := NewWindow(override.CheckinStart, override.CheckinEnd)
		if err != nil {
			return Rules{}, fmt.Errorf("invalid check-in override for user %d: %w", userID, err)
		}
		rules.Checkin = &w
	}

	r.cache.SetDefault(key, rules)
	return rules, nil
}

func fromSchedule(sched *model.OrgSchedule) (Rules, error) {
	loc, err := time.LoadLocation(sched.Timezone)
	if err != nil {
		return Rules{}, fmt.Errorf("failed to load timezone %q: %w", sched.Timezone, err)
	}

	rules := Rules{
		Timezone:             sched.Timezone,
		Location:             loc,
		IdleThresholdSeconds: sched.IdleThresholdSeconds,
	}

	if sched.CheckinStart != "" && sched.CheckinEnd != "" {
		w, err := NewWindow(sched.CheckinStart, sched.CheckinEnd)
		if err != nil {
			return Rules{}, fmt.Errorf("check-in window: %w", err)
		}
		rules.Checkin = &w
	}
	if sched.BreakStart != "" && sched.BreakEnd != "" {
		w, err := NewWindow(sched.BreakStart, sched.BreakEnd)
		if err != nil {
			return Rules{}, fmt.Errorf("break window: %w", err)
		}
		rules.Break = &w
	}
	return rules, nil
}
