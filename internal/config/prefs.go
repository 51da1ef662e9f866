package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"

	"gitscope/internal/notify"
)

// DiffPrefs control how patches are computed and rendered.
type DiffPrefs struct {
	Whitespace   string `yaml:"whitespace" json:"whitespace"`
	ContextLines int    `yaml:"contextLines" json:"contextLines"`
	TabWidth     int    `yaml:"tabWidth" json:"tabWidth"`
}

// BuildStatusPrefs configure the CI status poller.
type BuildStatusPrefs struct {
	ServerURL           string `yaml:"serverURL" json:"serverURL"`
	User                string `yaml:"user" json:"user"`
	Password            string `yaml:"password" json:"password"`
	PollIntervalSeconds int    `yaml:"pollIntervalSeconds" json:"pollIntervalSeconds"`
}

// Prefs mirrors the on-disk prefs.yaml schema.
type Prefs struct {
	Diff        DiffPrefs        `yaml:"diff" json:"diff"`
	BuildStatus BuildStatusPrefs `yaml:"buildStatus" json:"buildStatus"`
}

// Defaults returns the preferences used when no file exists yet.
func Defaults() Prefs {
	return Prefs{
		Diff: DiffPrefs{
			Whitespace:   "showAll",
			ContextLines: 3,
			TabWidth:     4,
		},
		BuildStatus: BuildStatusPrefs{
			PollIntervalSeconds: 60,
		},
	}
}

// Store loads and persists preferences and notifies observers on change.
type Store struct {
	path string

	mu      sync.Mutex
	current Prefs

	observers *notify.Registry
}

func NewStore(path string) *Store {
	return &Store{
		path:      path,
		current:   Defaults(),
		observers: notify.NewRegistry(),
	}
}

// Load reads prefs.yaml from disk. A missing file leaves the defaults in
// place and is not an error.
func (s *Store) Load() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read prefs: %w", err)
	}
	prefs := Defaults()
	if err := yaml.Unmarshal(data, &prefs); err != nil {
		return fmt.Errorf("parse prefs: %w", err)
	}
	sanitize(&prefs)

	s.mu.Lock()
	s.current = prefs
	s.mu.Unlock()
	return nil
}

// Current returns a copy of the active preferences.
func (s *Store) Current() Prefs {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Update applies fn to the preferences, writes the result to disk, and
// notifies subscribers.
func (s *Store) Update(fn func(*Prefs)) (Prefs, error) {
	s.mu.Lock()
	next := s.current
	fn(&next)
	sanitize(&next)
	if err := s.save(next); err != nil {
		s.mu.Unlock()
		return Prefs{}, err
	}
	s.current = next
	s.mu.Unlock()

	s.observers.Notify()
	return next, nil
}

// Subscribe registers fn to run after every successful Update. The returned
// handle releases the subscription via Unsubscribe.
func (s *Store) Subscribe(fn func()) string {
	return s.observers.Subscribe(fn)
}

func (s *Store) Unsubscribe(handle string) {
	s.observers.Unsubscribe(handle)
}

func (s *Store) save(prefs Prefs) error {
	data, err := yaml.Marshal(prefs)
	if err != nil {
		return fmt.Errorf("encode prefs: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create prefs directory: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("write prefs: %w", err)
	}
	return nil
}

func sanitize(prefs *Prefs) {
	if prefs.Diff.Whitespace == "" {
		prefs.Diff.Whitespace = "showAll"
	}
	if prefs.Diff.ContextLines < 0 {
		prefs.Diff.ContextLines = 0
	}
	if prefs.Diff.TabWidth <= 0 {
		prefs.Diff.TabWidth = 4
	}
	if prefs.BuildStatus.PollIntervalSeconds <= 0 {
		prefs.BuildStatus.PollIntervalSeconds = 60
	}
}
