package repos

import (
	"context"
	"fmt"
	"sync"

	"gitscope/internal/catalog"
	"gitscope/internal/diff"
	"gitscope/internal/diffview"
	gitclient "gitscope/internal/git/client"
	"gitscope/internal/git/repo"
	"gitscope/internal/logging"
	"gitscope/internal/preview"
	"gitscope/internal/staging"
	"gitscope/internal/watchers"
)

// Service tracks the currently open repository and rewires the diff
// renderer, preview source, and file watcher whenever it changes.
type Service struct {
	catalog  *catalog.Service
	renderer *diffview.Renderer
	preview  *preview.API
	watchers *watchers.Service
	client   gitclient.Client
	log      logging.Logger

	mu        sync.Mutex
	currentID int64
	current   *repo.Repo
}

func NewService(
	cat *catalog.Service,
	renderer *diffview.Renderer,
	previewAPI *preview.API,
	watcherSvc *watchers.Service,
	client gitclient.Client,
	logger logging.Logger,
) *Service {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Service{
		catalog:  cat,
		renderer: renderer,
		preview:  previewAPI,
		watchers: watcherSvc,
		client:   client,
		log:      logger,
	}
}

// OpenedRepo describes the repository that is now active.
type OpenedRepo struct {
	ID          int64  `json:"id"`
	Path        string `json:"path"`
	DisplayName string `json:"displayName"`
	Ref         string `json:"ref"`
}

// Open makes the catalog entry the active repository. The previous
// repository's watcher stays registered so background terminals keep
// working; only the diff and preview backends are swapped.
func (s *Service) Open(ctx context.Context, id int64) (OpenedRepo, error) {
	entry, err := s.catalog.Get(ctx, id)
	if err != nil {
		return OpenedRepo{}, fmt.Errorf("look up repository %d: %w", id, err)
	}

	r, err := repo.Open(entry.Path, s.log)
	if err != nil {
		return OpenedRepo{}, fmt.Errorf("open %s: %w", entry.Path, err)
	}

	s.mu.Lock()
	s.currentID = id
	s.current = r
	s.mu.Unlock()

	provider := diff.NewProvider(r)
	stager := staging.NewBackend(r, s.log)
	s.renderer.SetBackend(provider, r, stager)
	if s.preview != nil {
		s.preview.SetSource(r)
	}
	if s.watchers != nil {
		s.watchers.Ensure(id, r.Root())
	}
	if err := s.catalog.MarkOpened(ctx, id); err != nil {
		s.log.Warn("mark repository opened failed", "id", id, "error", err)
	}

	ref, err := r.CurrentRef()
	if err != nil {
		ref = ""
	}
	s.log.Info("repository opened", "id", id, "path", entry.Path, "ref", ref)
	return OpenedRepo{ID: id, Path: entry.Path, DisplayName: entry.DisplayName, Ref: ref}, nil
}

// Current returns the active repository.
func (s *Service) Current() (*repo.Repo, int64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current, s.currentID, s.current != nil
}

// Root resolves a catalog id to its worktree path. Used by the terminal
// manager, which may target repositories other than the active one.
func (s *Service) Root(id int64) (string, error) {
	s.mu.Lock()
	if s.current != nil && s.currentID == id {
		root := s.current.Root()
		s.mu.Unlock()
		return root, nil
	}
	s.mu.Unlock()
	entry, err := s.catalog.Get(context.Background(), id)
	if err != nil {
		return "", err
	}
	return entry.Path, nil
}

// HandleChange is the watcher callback. Changes in the active repository
// reload the open diff view.
func (s *Service) HandleChange(repoID int64) {
	s.mu.Lock()
	active := s.current != nil && s.currentID == repoID
	s.mu.Unlock()
	if !active {
		return
	}
	s.renderer.Reload()
}

// FileChanges lists changed files in the active repository.
func (s *Service) FileChanges(ctx context.Context) ([]gitclient.FileChange, error) {
	r, _, ok := s.Current()
	if !ok {
		return nil, fmt.Errorf("no repository open")
	}
	return s.client.FileChanges(ctx, r.Root())
}

// Log returns recent commits from the active repository's HEAD.
func (s *Service) Log(limit int) ([]repo.Commit, error) {
	r, _, ok := s.Current()
	if !ok {
		return nil, fmt.Errorf("no repository open")
	}
	return r.Log(limit)
}

func (s *Service) CurrentRef() (string, error) {
	r, _, ok := s.Current()
	if !ok {
		return "", fmt.Errorf("no repository open")
	}
	return r.CurrentRef()
}

func (s *Service) ConfigValue(key string) (string, error) {
	r, _, ok := s.Current()
	if !ok {
		return "", fmt.Errorf("no repository open")
	}
	return r.ConfigValue(key)
}

func (s *Service) SetConfigValue(key, value string) error {
	r, _, ok := s.Current()
	if !ok {
		return fmt.Errorf("no repository open")
	}
	return r.SetConfigValue(key, value)
}
