// Package client lists changed files for the sidebar. It shells out to the
// git binary, which stays authoritative for rename detection and numstat.
package client

import "context"

// Client provides the read-only change queries the file list needs.
type Client interface {
	// FileChanges aggregates staged + unstaged changes under root.
	FileChanges(ctx context.Context, root string) ([]FileChange, error)
}

// FileChange is one row of the changed-file list.
type FileChange struct {
	Path     string `json:"path"`
	Staged   string `json:"staged"`   // porcelain X column (e.g. M, A, "")
	Unstaged string `json:"unstaged"` // porcelain Y column (e.g. M, ?, "")
	Added    int    `json:"added"`
	Removed  int    `json:"removed"`
}
