// Package repo wraps a go-git repository with the blob, commit, and config
// accessors the application needs.
package repo

import (
	"errors"
	"fmt"
	"io"
	"strings"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"

	"gitscope/internal/logging"
)

// Repo is an open git repository rooted at a worktree.
type Repo struct {
	gitRepo *git.Repository
	root    string
	log     logging.Logger
}

// Open locates and opens the repository containing path.
func Open(path string, logger logging.Logger) (*Repo, error) {
	if logger == nil {
		logger = logging.Nop()
	}
	gitRepo, err := git.PlainOpenWithOptions(path, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, fmt.Errorf("open repository at %s: %w", path, err)
	}
	wt, err := gitRepo.Worktree()
	if err != nil {
		return nil, fmt.Errorf("resolve worktree: %w", err)
	}
	return &Repo{gitRepo: gitRepo, root: wt.Filesystem.Root(), log: logger}, nil
}

// Root returns the worktree root directory.
func (r *Repo) Root() string { return r.root }

// CurrentRef returns the checked-out branch name, or the commit hash on a
// detached HEAD.
func (r *Repo) CurrentRef() (string, error) {
	head, err := r.gitRepo.Head()
	if err != nil {
		return "", fmt.Errorf("resolve HEAD: %w", err)
	}
	if head.Name().IsBranch() {
		return head.Name().Short(), nil
	}
	return head.Hash().String(), nil
}

func (r *Repo) headCommit() (*object.Commit, error) {
	head, err := r.gitRepo.Head()
	if err != nil {
		return nil, fmt.Errorf("resolve HEAD: %w", err)
	}
	commit, err := r.gitRepo.CommitObject(head.Hash())
	if err != nil {
		return nil, fmt.Errorf("resolve HEAD commit: %w", err)
	}
	return commit, nil
}

// Commit is the application-facing view of one commit.
type Commit struct {
	Hash    string   `json:"hash"`
	Summary string   `json:"summary"`
	Author  string   `json:"author"`
	Email   string   `json:"email"`
	When    string   `json:"when"`
	Parents []string `json:"parents"`
}

// Log lists up to limit commits starting at HEAD.
func (r *Repo) Log(limit int) ([]Commit, error) {
	head, err := r.gitRepo.Head()
	if err != nil {
		return nil, fmt.Errorf("resolve HEAD: %w", err)
	}
	iter, err := r.gitRepo.Log(&git.LogOptions{From: head.Hash()})
	if err != nil {
		return nil, fmt.Errorf("walk history: %w", err)
	}
	defer iter.Close()

	var commits []Commit
	for limit <= 0 || len(commits) < limit {
		c, err := iter.Next()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("walk history: %w", err)
		}
		commits = append(commits, mapCommit(c))
	}
	return commits, nil
}

// GetCommit resolves a single commit by hash.
func (r *Repo) GetCommit(hash string) (Commit, error) {
	c, err := r.gitRepo.CommitObject(plumbing.NewHash(hash))
	if err != nil {
		return Commit{}, fmt.Errorf("resolve commit %s: %w", hash, err)
	}
	return mapCommit(c), nil
}

func mapCommit(c *object.Commit) Commit {
	parents := make([]string, 0, c.NumParents())
	for _, p := range c.ParentHashes {
		parents = append(parents, p.String())
	}
	summary := c.Message
	if idx := strings.IndexByte(summary, '\n'); idx >= 0 {
		summary = summary[:idx]
	}
	return Commit{
		Hash:    c.Hash.String(),
		Summary: summary,
		Author:  c.Author.Name,
		Email:   c.Author.Email,
		When:    c.Author.When.UTC().Format("2006-01-02T15:04:05Z07:00"),
		Parents: parents,
	}
}
