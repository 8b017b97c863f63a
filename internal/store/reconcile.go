package store

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"worktime-rollup-backend/internal/model"
)

// ReconcileSpans merges newly computed spans into the user's persisted AUTO
// entries inside one transaction. Spans are applied in time order, re-reading
// entry state between each, so later spans see the mutations of earlier ones.
//
// [windowStart, windowEnd) is the processed window; the AUTO entries
// overlapping it are row-locked up front so concurrent invocations for the
// same user serialize instead of double-inserting.
func (s *gormStore) ReconcileSpans(ctx context.Context, userID int64, windowStart, windowEnd time.Time, spans []Span) error {
	if len(spans) == 0 {
		return nil
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		lockTx := tx
		if tx.Dialector.Name() != "sqlite" {
			// SQLite has no FOR UPDATE; its write transactions already
			// serialize against each other.
			lockTx = tx.Clauses(clause.Locking{Strength: "UPDATE"})
		}
		var locked []model.TimeEntry
		if err := lockTx.
			Where("user_id = ? AND source = ? AND started_at < ? AND ended_at > ?",
				userID, model.SourceAuto, windowEnd, windowStart).
			Find(&locked).Error; err != nil {
			return fmt.Errorf("failed to lock entries for user %d: %w", userID, err)
		}

		for _, span := range spans {
			if !span.Start.Before(span.End) {
				return fmt.Errorf("invalid span [%s, %s) for user %d", span.Start, span.End, userID)
			}
			pieces, err := subtractManual(tx, userID, span)
			if err != nil {
				return err
			}
			for _, piece := range pieces {
				if err := applySpan(tx, userID, piece); err != nil {
					return err
				}
			}
		}
		return nil
	})
}

// subtractManual carves the intervals of overlapping MANUAL entries out of the
// span. MANUAL entries are owned elsewhere: the writer may neither delete nor
// split them, so the new AUTO span is truncated around them instead.
func subtractManual(tx *gorm.DB, userID int64, span Span) ([]Span, error) {
	var manual []model.TimeEntry
	err := tx.Where("user_id = ? AND source = ? AND started_at < ? AND ended_at > ?",
		userID, model.SourceManual, span.End, span.Start).
		Order("started_at ASC").
		Find(&manual).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch manual entries for user %d: %w", userID, err)
	}

	pieces := []Span{span}
	for _, obstacle := range manual {
		var next []Span
		for _, p := range pieces {
			if !obstacle.Overlaps(p.Start, p.End) {
				next = append(next, p)
				continue
			}
			if obstacle.StartedAt.After(p.Start) {
				next = append(next, Span{Start: p.Start, End: obstacle.StartedAt, Kind: p.Kind})
			}
			if obstacle.EndedAt.Before(p.End) {
				next = append(next, Span{Start: obstacle.EndedAt, End: p.End, Kind: p.Kind})
			}
		}
		pieces = next
	}
	return pieces, nil
}

// applySpan runs the three-step merge for a single span: exact-duplicate skip,
// cross-kind split, same-kind union merge.
func applySpan(tx *gorm.DB, userID int64, span Span) error {
	// Step 1: identical entry already exists, re-processing is a no-op.
	var dup int64
	err := tx.Model(&model.TimeEntry{}).
		Where("user_id = ? AND source = ? AND kind = ? AND started_at = ? AND ended_at = ?",
			userID, model.SourceAuto, span.Kind, span.Start, span.End).
		Count(&dup).Error
	if err != nil {
		return fmt.Errorf("duplicate check failed for user %d: %w", userID, err)
	}
	if dup > 0 {
		return nil
	}

	// Step 2: entries of a different kind lose the overlapping portion. The
	// old entry is deleted and at most two remainders re-inserted, so the
	// span's interval ends up exclusively owned by its own kind.
	var conflicts []model.TimeEntry
	err = tx.Where("user_id = ? AND source = ? AND kind <> ? AND started_at < ? AND ended_at > ?",
		userID, model.SourceAuto, span.Kind, span.End, span.Start).
		Order("started_at ASC").
		Find(&conflicts).Error
	if err != nil {
		return fmt.Errorf("conflict lookup failed for user %d: %w", userID, err)
	}
	for _, old := range conflicts {
		if err := tx.Delete(&model.TimeEntry{}, old.ID).Error; err != nil {
			return fmt.Errorf("failed to delete conflicting entry %d: %w", old.ID, err)
		}
		if old.StartedAt.Before(span.Start) {
			left := model.TimeEntry{
				UserID: userID, StartedAt: old.StartedAt, EndedAt: span.Start,
				Kind: old.Kind, Source: model.SourceAuto,
			}
			if err := tx.Create(&left).Error; err != nil {
				return fmt.Errorf("failed to insert left remainder of entry %d: %w", old.ID, err)
			}
		}
		if old.EndedAt.After(span.End) {
			right := model.TimeEntry{
				UserID: userID, StartedAt: span.End, EndedAt: old.EndedAt,
				Kind: old.Kind, Source: model.SourceAuto,
			}
			if err := tx.Create(&right).Error; err != nil {
				return fmt.Errorf("failed to insert right remainder of entry %d: %w", old.ID, err)
			}
		}
	}

	// Step 3: entries of the same kind that overlap or touch the span fold
	// into one union interval.
	var mates []model.TimeEntry
	err = tx.Where("user_id = ? AND source = ? AND kind = ? AND started_at <= ? AND ended_at >= ?",
		userID, model.SourceAuto, span.Kind, span.End, span.Start).
		Order("started_at ASC").
		Find(&mates).Error
	if err != nil {
		return fmt.Errorf("merge lookup failed for user %d: %w", userID, err)
	}

	if len(mates) == 0 {
		entry := model.TimeEntry{
			UserID: userID, StartedAt: span.Start, EndedAt: span.End,
			Kind: span.Kind, Source: model.SourceAuto,
		}
		if err := tx.Create(&entry).Error; err != nil {
			return fmt.Errorf("failed to insert entry for user %d: %w", userID, err)
		}
		return nil
	}

	unionStart, unionEnd := span.Start, span.End
	for _, m := range mates {
		if m.StartedAt.Before(unionStart) {
			unionStart = m.StartedAt
		}
		if m.EndedAt.After(unionEnd) {
			unionEnd = m.EndedAt
		}
	}

	first := mates[0]
	err = tx.Model(&model.TimeEntry{}).Where("id = ?", first.ID).
		Updates(map[string]any{"started_at": unionStart, "ended_at": unionEnd}).Error
	if err != nil {
		return fmt.Errorf("failed to widen entry %d: %w", first.ID, err)
	}
	for _, m := range mates[1:] {
		if err := tx.Delete(&model.TimeEntry{}, m.ID).Error; err != nil {
			return fmt.Errorf("failed to delete folded entry %d: %w", m.ID, err)
		}
	}
	return nil
}
