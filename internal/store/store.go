package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"worktime-rollup-backend/internal/model"
)

// ErrUserNotFound is returned when a rollup is requested for an unknown user.
var ErrUserNotFound = errors.New("user not found")

// Store defines the interface for all database operations the rollup engine
// and the API layer need.
type Store interface {
	DB() *gorm.DB
	FetchUser(ctx context.Context, userID int64) (model.User, error)
	FetchSamples(ctx context.Context, userID int64, from, to time.Time) ([]model.ActivitySample, error)
	InsertSamples(ctx context.Context, samples []model.ActivitySample) error
	FetchOrgSchedule(ctx context.Context, orgID int64) (*model.OrgSchedule, error)
	FetchUserOverride(ctx context.Context, userID int64) (*model.UserScheduleOverride, error)
	UpsertOrgSchedule(ctx context.Context, sched *model.OrgSchedule) error
	FetchEntries(ctx context.Context, userID int64, from, to time.Time) ([]model.TimeEntry, error)
	ReconcileSpans(ctx context.Context, userID int64, windowStart, windowEnd time.Time, spans []Span) error
}

// gormStore implements the Store interface using GORM.
type gormStore struct {
	db *gorm.DB
}

// NewGormStore creates a new GORM-backed store.
func NewGormStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

// DB exposes the underlying connection for read-only handler queries.
func (s *gormStore) DB() *gorm.DB {
	return s.db
}

// FetchUser loads a user by ID.
func (s *gormStore) FetchUser(ctx context.Context, userID int64) (model.User, error) {
	var user model.User
	if err := s.db.WithContext(ctx).First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return model.User{}, ErrUserNotFound
		}
		return model.User{}, fmt.Errorf("failed to fetch user %d: %w", userID, err)
	}
	return user, nil
}

// FetchSamples returns the user's raw samples in [from, to], ascending.
func (s *gormStore) FetchSamples(ctx context.Context, userID int64, from, to time.Time) ([]model.ActivitySample, error) {
	var samples []model.ActivitySample
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND captured_at >= ? AND captured_at <= ?", userID, from, to).
		Order("captured_at ASC").
		Find(&samples).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch samples for user %d: %w", userID, err)
	}
	return samples, nil
}

// InsertSamples appends a batch of raw samples.
func (s *gormStore) InsertSamples(ctx context.Context, samples []model.ActivitySample) error {
	if len(samples) == 0 {
		return nil
	}
	if err := s.db.WithContext(ctx).Create(&samples).Error; err != nil {
		return fmt.Errorf("failed to insert %d samples: %w", len(samples), err)
	}
	return nil
}

// FetchOrgSchedule returns the organization's schedule, or nil when none is
// stored. Lookup failures are reported as errors, never as absence.
func (s *gormStore) FetchOrgSchedule(ctx context.Context, orgID int64) (*model.OrgSchedule, error) {
	var sched model.OrgSchedule
	err := s.db.WithContext(ctx).First(&sched, "org_id = ?", orgID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch schedule for org %d: %w", orgID, err)
	}
	return &sched, nil
}

// FetchUserOverride returns the user's check-in override, or nil when none is
// stored.
func (s *gormStore) FetchUserOverride(ctx context.Context, userID int64) (*model.UserScheduleOverride, error) {
	var override model.UserScheduleOverride
	err := s.db.WithContext(ctx).First(&override, "user_id = ?", userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch override for user %d: %w", userID, err)
	}
	return &override, nil
}

// UpsertOrgSchedule creates or replaces the organization's schedule.
func (s *gormStore) UpsertOrgSchedule(ctx context.Context, sched *model.OrgSchedule) error {
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "org_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"timezone", "checkin_start", "checkin_end",
			"break_start", "break_end", "idle_threshold_seconds", "updated_at",
		}),
	}).Create(sched).Error
	if err != nil {
		return fmt.Errorf("failed to upsert schedule for org %d: %w", sched.OrgID, err)
	}
	return nil
}

// FetchEntries returns all of the user's time entries overlapping [from, to),
// ascending by start.
func (s *gormStore) FetchEntries(ctx context.Context, userID int64, from, to time.Time) ([]model.TimeEntry, error) {
	var entries []model.TimeEntry
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND started_at < ? AND ended_at > ?", userID, to, from).
		Order("started_at ASC").
		Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch entries for user %d: %w", userID, err)
	}
	return entries, nil
}
