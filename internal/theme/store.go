package theme

import (
	"log/slog"
	"strconv"
	"time"
)

// Store holds the active theme for one visitor. It loads the saved
// preference on construction and persists every accepted change.
//
// A Store is owned by a single request and is not safe for concurrent use.
type Store struct {
	storage  Storage
	logger   *slog.Logger
	now      func() time.Time
	fallback ID
	window   time.Duration

	current         ID
	transitionUntil time.Time
	changed         bool
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithLogger sets the logger used for storage failures.
func WithLogger(logger *slog.Logger) StoreOption {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) StoreOption {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// WithDefault sets the theme used when nothing valid is stored.
// Invalid ids are ignored.
func WithDefault(id ID) StoreOption {
	return func(s *Store) {
		if id.Valid() {
			s.fallback = id
		}
	}
}

// WithTransitionWindow overrides how long the transition marker lasts.
func WithTransitionWindow(d time.Duration) StoreOption {
	return func(s *Store) {
		if d >= 0 {
			s.window = d
		}
	}
}

// NewStore creates a Store and loads the saved preference from storage.
// Missing, unknown or unreadable values leave the default theme active.
func NewStore(storage Storage, opts ...StoreOption) *Store {
	s := &Store{
		storage:  storage,
		logger:   slog.Default(),
		now:      time.Now,
		fallback: Default,
		window:   TransitionWindow,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.current = s.fallback
	s.load()
	return s
}

func (s *Store) load() {
	if s.storage == nil {
		return
	}

	saved, ok, err := s.storage.Get(StorageKey)
	switch {
	case err != nil:
		s.logger.Debug("theme preference unreadable", slog.String("error", err.Error()))
	case ok:
		if id, valid := Parse(saved); valid {
			s.current = id
		} else {
			s.logger.Debug("ignoring unknown theme preference", slog.String("value", saved))
		}
	}

	deadline, ok, err := s.storage.Get(TransitionKey)
	if err != nil || !ok {
		return
	}
	ms, err := strconv.ParseInt(deadline, 10, 64)
	if err != nil {
		return
	}
	if until := time.UnixMilli(ms); until.After(s.now()) {
		s.transitionUntil = until
	}
}

// Current returns the active theme.
func (s *Store) Current() ID {
	return s.current
}

// Descriptor returns the registry entry for the active theme.
func (s *Store) Descriptor() Descriptor {
	d, _ := Lookup(s.current)
	return d
}

// Layout returns the active theme's layout.
func (s *Store) Layout() Layout {
	return s.Descriptor().Layout
}

// Set makes id the active theme. It returns false, and changes nothing, when
// id is not registered. Selecting the already active theme is accepted but
// has no side effects.
func (s *Store) Set(id ID) bool {
	if !id.Valid() {
		return false
	}
	if id == s.current {
		return true
	}

	s.current = id
	s.changed = true
	s.transitionUntil = s.now().Add(s.window)
	s.persist(StorageKey, id.String())
	s.persist(TransitionKey, strconv.FormatInt(s.transitionUntil.UnixMilli(), 10))
	return true
}

// SetString parses value and applies it with Set.
func (s *Store) SetString(value string) bool {
	id, ok := Parse(value)
	if !ok {
		return false
	}
	return s.Set(id)
}

// Changed reports whether Set changed the theme during this Store's lifetime.
func (s *Store) Changed() bool {
	return s.changed
}

// Transitioning reports whether the fade-in marker is active.
func (s *Store) Transitioning() bool {
	return !s.transitionUntil.IsZero() && s.now().Before(s.transitionUntil)
}

func (s *Store) persist(key, value string) {
	if s.storage == nil {
		return
	}
	if err := s.storage.Set(key, value); err != nil {
		s.logger.Debug("theme preference not saved",
			slog.String("key", key),
			slog.String("error", err.Error()),
		)
	}
}
