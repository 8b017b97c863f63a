package internal

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"worktime-rollup-backend/internal/model"
	"worktime-rollup-backend/internal/rollup"
	"worktime-rollup-backend/internal/schedule"
	"worktime-rollup-backend/internal/store"
)

func setupRollup(t *testing.T, dsn string) (*gorm.DB, store.Store, *rollup.Service) {
	t.Helper()
	testDB, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB, _ := testDB.DB()
		sqlDB.Close()
	})

	require.NoError(t, testDB.AutoMigrate(
		&model.Organization{},
		&model.User{},
		&model.OrgSchedule{},
		&model.UserScheduleOverride{},
		&model.ActivitySample{},
		&model.TimeEntry{},
	))

	appStore := store.NewGormStore(testDB)
	resolver := schedule.NewResolver(appStore, time.Minute)
	return testDB, appStore, rollup.NewService(appStore, resolver)
}

func seedSamples(t *testing.T, db *gorm.DB, userID int64, start time.Time, verdicts []bool) {
	t.Helper()
	for i, active := range verdicts {
		sample := model.ActivitySample{
			UserID:     userID,
			CapturedAt: start.Add(time.Duration(i)*time.Minute + 10*time.Second),
		}
		if active {
			sample.MouseDelta = 12
			sample.KeyCount = 3
		}
		require.NoError(t, db.Create(&sample).Error)
	}
}

func autoEntries(t *testing.T, db *gorm.DB, userID int64) []model.TimeEntry {
	t.Helper()
	var entries []model.TimeEntry
	require.NoError(t, db.
		Where("user_id = ? AND source = ?", userID, model.SourceAuto).
		Order("started_at ASC").
		Find(&entries).Error)
	return entries
}

// TestRollupLifecycle walks a full day slice through the pipeline: samples in,
// classified entries out, idempotent on re-run, correctly extended by a later
// overlapping invocation.
func TestRollupLifecycle(t *testing.T) {
	testDB, _, svc := setupRollup(t, "file:rollup_lifecycle?mode=memory&cache=shared")
	ctx := context.Background()

	org := model.Organization{ID: 1, Name: "Acme"}
	require.NoError(t, testDB.Create(&org).Error)
	user := model.User{ID: 1, OrgID: 1, Name: "Dana", Email: "dana@acme.test"}
	require.NoError(t, testDB.Create(&user).Error)
	sched := model.OrgSchedule{
		OrgID:                1,
		Timezone:             "UTC",
		CheckinStart:         "09:00",
		CheckinEnd:           "18:00",
		BreakStart:           "12:00",
		BreakEnd:             "13:00",
		IdleThresholdSeconds: 300,
	}
	require.NoError(t, testDB.Create(&sched).Error)

	day := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	nine := day.Add(9 * time.Hour)

	// 5 active minutes, 10 idle minutes, 1 active minute.
	verdicts := make([]bool, 0, 16)
	for i := 0; i < 5; i++ {
		verdicts = append(verdicts, true)
	}
	for i := 0; i < 10; i++ {
		verdicts = append(verdicts, false)
	}
	verdicts = append(verdicts, true)
	seedSamples(t, testDB, 1, nine, verdicts)

	// Samples during the break window must never surface anywhere.
	seedSamples(t, testDB, 1, day.Add(12*time.Hour+30*time.Minute), []bool{true, true})

	t.Run("first rollup classifies and persists", func(t *testing.T) {
		processed, err := svc.RollupUserActivity(ctx, 1, nine, day.Add(13*time.Hour))
		require.NoError(t, err)
		assert.Equal(t, 3, processed)

		entries := autoEntries(t, testDB, 1)
		require.Len(t, entries, 3)

		assert.Equal(t, model.KindActive, entries[0].Kind)
		assert.True(t, entries[0].StartedAt.Equal(nine))
		assert.True(t, entries[0].EndedAt.Equal(nine.Add(5*time.Minute)))

		assert.Equal(t, model.KindIdle, entries[1].Kind)
		assert.True(t, entries[1].StartedAt.Equal(nine.Add(5*time.Minute)))
		assert.True(t, entries[1].EndedAt.Equal(nine.Add(15*time.Minute)))

		assert.Equal(t, model.KindActive, entries[2].Kind)
		assert.True(t, entries[2].StartedAt.Equal(nine.Add(15*time.Minute)))
		assert.True(t, entries[2].EndedAt.Equal(nine.Add(16*time.Minute)))

		// Nothing from the break hour.
		for _, e := range entries {
			assert.False(t, e.Overlaps(day.Add(12*time.Hour), day.Add(13*time.Hour)))
		}
	})

	t.Run("re-running the same range changes nothing", func(t *testing.T) {
		before := autoEntries(t, testDB, 1)

		processed, err := svc.RollupUserActivity(ctx, 1, nine, day.Add(13*time.Hour))
		require.NoError(t, err)
		assert.Equal(t, 3, processed)

		after := autoEntries(t, testDB, 1)
		require.Len(t, after, len(before))
		for i := range before {
			assert.Equal(t, before[i].ID, after[i].ID)
			assert.True(t, before[i].StartedAt.Equal(after[i].StartedAt))
			assert.True(t, before[i].EndedAt.Equal(after[i].EndedAt))
			assert.Equal(t, before[i].Kind, after[i].Kind)
		}
	})

	t.Run("a later overlapping invocation extends instead of duplicating", func(t *testing.T) {
		// New active minutes directly after the previous tail.
		seedSamples(t, testDB, 1, nine.Add(16*time.Minute), []bool{true, true, true})

		processed, err := svc.RollupUserActivity(ctx, 1, nine.Add(10*time.Minute), day.Add(13*time.Hour))
		require.NoError(t, err)
		assert.True(t, processed > 0)

		entries := autoEntries(t, testDB, 1)
		require.Len(t, entries, 3, "the trailing ACTIVE entry widens, nothing is duplicated")
		last := entries[2]
		assert.Equal(t, model.KindActive, last.Kind)
		assert.True(t, last.StartedAt.Equal(nine.Add(15*time.Minute)))
		assert.True(t, last.EndedAt.Equal(nine.Add(19*time.Minute)))
	})
}

// TestRollupNightShift covers a check-in window that crosses midnight.
func TestRollupNightShift(t *testing.T) {
	testDB, _, svc := setupRollup(t, "file:rollup_nightshift?mode=memory&cache=shared")
	ctx := context.Background()

	require.NoError(t, testDB.Create(&model.Organization{ID: 1, Name: "NightOwl"}).Error)
	require.NoError(t, testDB.Create(&model.User{ID: 1, OrgID: 1, Name: "Sam"}).Error)
	require.NoError(t, testDB.Create(&model.OrgSchedule{
		OrgID:                1,
		Timezone:             "UTC",
		CheckinStart:         "16:50",
		CheckinEnd:           "02:00",
		IdleThresholdSeconds: 300,
	}).Error)

	day := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

	// 01:30 is inside the window, 02:00 and 15:00 are not.
	seedSamples(t, testDB, 1, day.Add(1*time.Hour+30*time.Minute), []bool{true})
	seedSamples(t, testDB, 1, day.Add(2*time.Hour), []bool{true})
	seedSamples(t, testDB, 1, day.Add(15*time.Hour), []bool{true})

	processed, err := svc.RollupUserActivity(ctx, 1, day, day.Add(16*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 1, processed)

	entries := autoEntries(t, testDB, 1)
	require.Len(t, entries, 1)
	assert.True(t, entries[0].StartedAt.Equal(day.Add(1*time.Hour+30*time.Minute)))
	assert.Equal(t, model.KindActive, entries[0].Kind)
}

// TestRollupDefaultRules exercises the documented fallback when an
// organization has no stored schedule.
func TestRollupDefaultRules(t *testing.T) {
	testDB, _, svc := setupRollup(t, "file:rollup_defaults?mode=memory&cache=shared")
	ctx := context.Background()

	require.NoError(t, testDB.Create(&model.Organization{ID: 1, Name: "Bare"}).Error)
	require.NoError(t, testDB.Create(&model.User{ID: 1, OrgID: 1, Name: "Kim"}).Error)

	day := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

	// 3 idle minutes between active ones smooth out under the default 300
	// second threshold; the always-open check-in accepts a 03:00 sample.
	seedSamples(t, testDB, 1, day.Add(3*time.Hour), []bool{true, false, false, false, true})

	processed, err := svc.RollupUserActivity(ctx, 1, day, day.Add(4*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 1, processed)

	entries := autoEntries(t, testDB, 1)
	require.Len(t, entries, 1)
	assert.Equal(t, model.KindActive, entries[0].Kind)
	assert.True(t, entries[0].StartedAt.Equal(day.Add(3*time.Hour)))
	assert.True(t, entries[0].EndedAt.Equal(day.Add(3*time.Hour+5*time.Minute)))
}
