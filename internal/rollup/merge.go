package rollup

import "worktime-rollup-backend/internal/store"

// MergeRuns collapses consecutive same-kind minutes into spans. A span only
// extends while the next minute starts exactly where the current span ends;
// a gap in time always closes the span, even for matching kinds, because gaps
// are dropped buckets that must not be silently bridged.
func MergeRuns(minutes []MinuteEntry) []store.Span {
	var spans []store.Span
	for _, m := range minutes {
		n := len(spans)
		if n > 0 && spans[n-1].Kind == m.Kind && spans[n-1].End.Equal(m.Start) {
			spans[n-1].End = m.End()
			continue
		}
		spans = append(spans, store.Span{Start: m.Start, End: m.End(), Kind: m.Kind})
	}
	return spans
}
