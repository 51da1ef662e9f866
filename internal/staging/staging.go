// Package staging applies hunk-level stage, unstage, and discard operations
// to a repository's index and worktree.
package staging

import (
	"fmt"

	"gitscope/internal/diff"
	"gitscope/internal/logging"
)

// Store is the subset of the repository the backend mutates.
type Store interface {
	IndexBlob(path string) ([]byte, error)
	WorkspaceBlob(path string) ([]byte, error)
	WriteIndexBlob(path string, content []byte) error
	WriteWorkspaceFile(path string, content []byte) error
}

// Backend implements the diffview Stager over a repository store. Hunks
// arrive from workspace-mode diffs (index vs workspace) for Stage/Discard
// and from index-mode diffs (HEAD vs index) for Unstage.
type Backend struct {
	store Store
	log   logging.Logger
}

func NewBackend(store Store, logger logging.Logger) *Backend {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Backend{store: store, log: logger}
}

// Stage applies a workspace hunk onto the staged content.
func (b *Backend) Stage(path string, h diff.Hunk) error {
	current, err := b.store.IndexBlob(path)
	if err != nil {
		return fmt.Errorf("stage hunk: %w", err)
	}
	updated, err := h.Apply(diff.SplitLines(string(current)))
	if err != nil {
		return fmt.Errorf("stage hunk in %s: %w", path, err)
	}
	if err := b.store.WriteIndexBlob(path, []byte(diff.JoinLines(updated))); err != nil {
		return fmt.Errorf("stage hunk: %w", err)
	}
	b.log.Debug("staged hunk", "path", path, "oldStart", h.OldStart, "newStart", h.NewStart)
	return nil
}

// Unstage reverts an index hunk from the staged content.
func (b *Backend) Unstage(path string, h diff.Hunk) error {
	current, err := b.store.IndexBlob(path)
	if err != nil {
		return fmt.Errorf("unstage hunk: %w", err)
	}
	updated, err := h.Revert(diff.SplitLines(string(current)))
	if err != nil {
		return fmt.Errorf("unstage hunk in %s: %w", path, err)
	}
	if err := b.store.WriteIndexBlob(path, []byte(diff.JoinLines(updated))); err != nil {
		return fmt.Errorf("unstage hunk: %w", err)
	}
	b.log.Debug("unstaged hunk", "path", path, "oldStart", h.OldStart, "newStart", h.NewStart)
	return nil
}

// Discard reverts a workspace hunk from the on-disk file. The change is
// lost; callers confirm with the user before dispatching.
func (b *Backend) Discard(path string, h diff.Hunk) error {
	current, err := b.store.WorkspaceBlob(path)
	if err != nil {
		return fmt.Errorf("discard hunk: %w", err)
	}
	updated, err := h.Revert(diff.SplitLines(string(current)))
	if err != nil {
		return fmt.Errorf("discard hunk in %s: %w", path, err)
	}
	if err := b.store.WriteWorkspaceFile(path, []byte(diff.JoinLines(updated))); err != nil {
		return fmt.Errorf("discard hunk: %w", err)
	}
	b.log.Debug("discarded hunk", "path", path, "oldStart", h.OldStart, "newStart", h.NewStart)
	return nil
}
