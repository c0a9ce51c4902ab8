package memory

import (
	"log/slog"
	"unicode/utf8"
)

// EventKind labels a memory subsystem outcome.
type EventKind string

const (
	// EventSaved: a creation landed in both tiers.
	EventSaved EventKind = "saved"
	// EventSaveFailed: the long-term write failed, nothing was kept.
	EventSaveFailed EventKind = "save_failed"
	// EventPartialSave: durable copy exists but the short-term write
	// failed; recall within this session is degraded, not broken.
	EventPartialSave EventKind = "partial_save"
	// EventRecall: a tier query completed.
	EventRecall EventKind = "recall"
	// EventQueryFailed: a tier query failed and was absorbed into an
	// empty result set.
	EventQueryFailed EventKind = "query_failed"
	// EventMatchSelected: cross-tier selection picked a candidate.
	EventMatchSelected EventKind = "match_selected"
	// EventNoMatch: cross-tier selection found no usable candidate.
	EventNoMatch EventKind = "no_match"
)

// Event is one structured outcome emitted by the Manager. Callers choose
// the sink and the formatting; the Manager never writes to a global
// logger behind their back.
type Event struct {
	Kind       EventKind
	Tier       string
	CreationID string
	Query      string
	Results    int
	Distance   float32
	Err        error
}

// EventSink receives Manager outcome events. Implementations must not
// block; Emit is called on the request path.
type EventSink interface {
	Emit(Event)
}

type slogSink struct {
	log *slog.Logger
}

// SlogSink returns an EventSink that logs every event through the given
// slog logger. A nil logger falls back to slog.Default.
func SlogSink(log *slog.Logger) EventSink {
	if log == nil {
		log = slog.Default()
	}
	return &slogSink{log: log}
}

func (s *slogSink) Emit(ev Event) {
	attrs := make([]any, 0, 12)
	attrs = append(attrs, "kind", string(ev.Kind))
	if ev.Tier != "" {
		attrs = append(attrs, "tier", ev.Tier)
	}
	if ev.CreationID != "" {
		attrs = append(attrs, "creation_id", ev.CreationID)
	}
	if ev.Query != "" {
		attrs = append(attrs, "query", truncate(ev.Query, 50))
	}
	switch ev.Kind {
	case EventRecall:
		attrs = append(attrs, "results", ev.Results)
	case EventMatchSelected:
		attrs = append(attrs, "distance", ev.Distance)
	}
	if ev.Err != nil {
		attrs = append(attrs, "error", ev.Err)
		s.log.Warn("memory", attrs...)
		return
	}
	s.log.Info("memory", attrs...)
}

// nopSink drops all events. Used when the caller does not configure one.
type nopSink struct{}

func (nopSink) Emit(Event) {}

// truncate shortens text for log output, cutting on a rune boundary so
// multi-byte characters are never split.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	cut := maxLen
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}
