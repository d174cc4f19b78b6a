// Package logs keeps a bounded in-memory journal of recent log records so
// operators can inspect them over the API without shell access.
package logs

import (
	"context"
	"log/slog"
	"maps"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

const (
	// DefaultCapacity is the number of records retained.
	DefaultCapacity = 500
	// maxErrors bounds the recent error list reported in stats.
	maxErrors = 10
)

// Entry is a captured log record.
type Entry struct {
	ID        string         `json:"id"`
	Timestamp time.Time      `json:"timestamp"`
	Level     string         `json:"level"`
	Message   string         `json:"message"`
	Component string         `json:"component,omitempty"`
	RequestID string         `json:"request_id,omitempty"`
	Fields    map[string]any `json:"fields,omitempty"`
}

// Stats summarises the journal.
type Stats struct {
	Total           int64            `json:"total"`
	ByLevel         map[string]int64 `json:"by_level"`
	ByComponent     map[string]int64 `json:"by_component"`
	RecentErrors    []Entry          `json:"recent_errors"`
	RatePerMinute   float64          `json:"rate_per_minute"`
	OldestTimestamp *time.Time       `json:"oldest_timestamp,omitempty"`
	NewestTimestamp *time.Time       `json:"newest_timestamp,omitempty"`
}

// Journal is a ring of recent log entries. Safe for concurrent use.
type Journal struct {
	mu          sync.RWMutex
	entries     []Entry
	capacity    int
	total       int64
	byLevel     map[string]int64
	byComponent map[string]int64
	errors      []Entry
	started     time.Time
}

// New creates a journal holding up to capacity entries. Non-positive values
// use DefaultCapacity.
func New(capacity int) *Journal {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Journal{
		entries:     make([]Entry, 0, capacity),
		capacity:    capacity,
		byLevel:     make(map[string]int64),
		byComponent: make(map[string]int64),
		started:     time.Now(),
	}
}

// WrapHandler returns a handler that records into j and then delegates to
// next. Level filtering stays with next.
func (j *Journal) WrapHandler(next slog.Handler) slog.Handler {
	return &handler{journal: j, next: next}
}

// Add records an entry, evicting the oldest when full.
func (j *Journal) Add(e Entry) {
	if e.ID == "" {
		e.ID = ulid.Make().String()
	}

	j.mu.Lock()
	defer j.mu.Unlock()

	j.total++
	j.byLevel[e.Level]++
	if e.Component != "" {
		j.byComponent[e.Component]++
	}
	if e.Level == "error" {
		j.errors = append(j.errors, e)
		if len(j.errors) > maxErrors {
			j.errors = j.errors[1:]
		}
	}

	if len(j.entries) >= j.capacity {
		j.entries = j.entries[1:]
	}
	j.entries = append(j.entries, e)
}

// Recent returns up to limit of the newest entries, oldest first, keeping
// only those at or above minLevel when it is set.
func (j *Journal) Recent(limit int, minLevel string) []Entry {
	j.mu.RLock()
	defer j.mu.RUnlock()

	threshold, filter := levelRank[minLevel]
	out := make([]Entry, 0, min(max(limit, 0), len(j.entries)))
	for i := len(j.entries) - 1; i >= 0 && len(out) < limit; i-- {
		if filter && levelRank[j.entries[i].Level] < threshold {
			continue
		}
		out = append(out, j.entries[i])
	}
	for l, r := 0, len(out)-1; l < r; l, r = l+1, r-1 {
		out[l], out[r] = out[r], out[l]
	}
	return out
}

// Stats returns a snapshot of the counters.
func (j *Journal) Stats() Stats {
	j.mu.RLock()
	defer j.mu.RUnlock()

	stats := Stats{
		Total:        j.total,
		ByLevel:      maps.Clone(j.byLevel),
		ByComponent:  maps.Clone(j.byComponent),
		RecentErrors: append([]Entry(nil), j.errors...),
	}
	for level := range levelRank {
		if _, ok := stats.ByLevel[level]; !ok {
			stats.ByLevel[level] = 0
		}
	}
	if stats.RecentErrors == nil {
		stats.RecentErrors = []Entry{}
	}
	if elapsed := time.Since(j.started).Minutes(); elapsed > 0 {
		stats.RatePerMinute = float64(j.total) / elapsed
	}
	if n := len(j.entries); n > 0 {
		oldest, newest := j.entries[0].Timestamp, j.entries[n-1].Timestamp
		stats.OldestTimestamp = &oldest
		stats.NewestTimestamp = &newest
	}
	return stats
}

var levelRank = map[string]int{
	"trace": 0,
	"debug": 1,
	"info":  2,
	"warn":  3,
	"error": 4,
}

// handler captures records into a Journal.
type handler struct {
	journal *Journal
	next    slog.Handler
	attrs   []slog.Attr
	group   string
}

func (h *handler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

func (h *handler) Handle(ctx context.Context, r slog.Record) error {
	e := Entry{
		Timestamp: r.Time,
		Level:     levelName(r.Level),
		Message:   r.Message,
	}
	for _, a := range h.attrs {
		e.addAttr(a, "")
	}
	r.Attrs(func(a slog.Attr) bool {
		e.addAttr(a, h.group)
		return true
	})
	h.journal.Add(e)

	return h.next.Handle(ctx, r)
}

func (h *handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	// Attributes added inside a group keep their qualified name.
	qualified := make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	qualified = append(qualified, h.attrs...)
	for _, a := range attrs {
		if h.group != "" {
			a.Key = h.group + "." + a.Key
		}
		qualified = append(qualified, a)
	}
	return &handler{journal: h.journal, next: h.next.WithAttrs(attrs), attrs: qualified, group: h.group}
}

func (h *handler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	group := name
	if h.group != "" {
		group = h.group + "." + name
	}
	return &handler{journal: h.journal, next: h.next.WithGroup(name), attrs: h.attrs, group: group}
}

func (e *Entry) addAttr(a slog.Attr, group string) {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return
	}
	key := a.Key
	if group != "" {
		key = group + "." + key
	}

	switch key {
	case "component":
		e.Component = a.Value.String()
		return
	case "request_id":
		e.RequestID = a.Value.String()
		return
	}

	if e.Fields == nil {
		e.Fields = make(map[string]any)
	}
	if a.Value.Kind() == slog.KindGroup {
		for _, ga := range a.Value.Group() {
			e.addAttr(ga, key)
		}
		return
	}
	e.Fields[key] = a.Value.Any()
}

func levelName(level slog.Level) string {
	switch {
	case level < slog.LevelDebug:
		return "trace"
	case level < slog.LevelInfo:
		return "debug"
	case level < slog.LevelWarn:
		return "info"
	case level < slog.LevelError:
		return "warn"
	default:
		return "error"
	}
}
