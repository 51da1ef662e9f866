package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestStoreLoadMissingFileKeepsDefaults(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "prefs.yaml"))
	if err := store.Load(); err != nil {
		t.Fatalf("load: %v", err)
	}
	prefs := store.Current()
	if prefs.Diff.Whitespace != "showAll" {
		t.Fatalf("whitespace = %q, want showAll", prefs.Diff.Whitespace)
	}
	if prefs.Diff.ContextLines != 3 {
		t.Fatalf("context lines = %d, want 3", prefs.Diff.ContextLines)
	}
	if prefs.BuildStatus.PollIntervalSeconds != 60 {
		t.Fatalf("poll interval = %d, want 60", prefs.BuildStatus.PollIntervalSeconds)
	}
}

func TestStoreUpdatePersistsAndReloads(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.yaml")
	store := NewStore(path)

	updated, err := store.Update(func(p *Prefs) {
		p.Diff.Whitespace = "ignoreAll"
		p.Diff.ContextLines = 6
		p.BuildStatus.ServerURL = "https://ci.example.com"
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Diff.Whitespace != "ignoreAll" {
		t.Fatalf("whitespace = %q", updated.Diff.Whitespace)
	}

	reopened := NewStore(path)
	if err := reopened.Load(); err != nil {
		t.Fatalf("reload: %v", err)
	}
	prefs := reopened.Current()
	if prefs.Diff.ContextLines != 6 {
		t.Fatalf("context lines = %d, want 6", prefs.Diff.ContextLines)
	}
	if prefs.BuildStatus.ServerURL != "https://ci.example.com" {
		t.Fatalf("server url = %q", prefs.BuildStatus.ServerURL)
	}
}

func TestStoreUpdateNotifiesSubscribers(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "prefs.yaml"))

	calls := 0
	handle := store.Subscribe(func() { calls++ })

	if _, err := store.Update(func(p *Prefs) { p.Diff.TabWidth = 8 }); err != nil {
		t.Fatalf("update: %v", err)
	}
	if calls != 1 {
		t.Fatalf("calls = %d, want 1", calls)
	}

	store.Unsubscribe(handle)
	if _, err := store.Update(func(p *Prefs) { p.Diff.TabWidth = 2 }); err != nil {
		t.Fatalf("update: %v", err)
	}
	if calls != 1 {
		t.Fatalf("calls after unsubscribe = %d, want 1", calls)
	}
}

func TestStoreLoadSanitizesValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.yaml")
	raw := "diff:\n  whitespace: \"\"\n  contextLines: -4\n  tabWidth: 0\n"
	if err := os.WriteFile(path, []byte(raw), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	store := NewStore(path)
	if err := store.Load(); err != nil {
		t.Fatalf("load: %v", err)
	}
	prefs := store.Current()
	if prefs.Diff.Whitespace != "showAll" || prefs.Diff.ContextLines != 0 || prefs.Diff.TabWidth != 4 {
		t.Fatalf("sanitized prefs = %+v", prefs.Diff)
	}
}
