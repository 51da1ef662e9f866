package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"gitscope/internal/logging"
)

// Service wraps the catalog repository with application-level rules.
type Service struct {
	repo   *Repository
	logger logging.Logger
}

func NewService(repo *Repository, logger logging.Logger) *Service {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Service{repo: repo, logger: logger}
}

// RegisterRequest adds or updates a repository record.
type RegisterRequest struct {
	Path        string `json:"path"`
	DisplayName string `json:"displayName,omitempty"`
}

func (s *Service) List(ctx context.Context) ([]Entry, error) {
	return s.repo.List(ctx)
}

func (s *Service) Register(ctx context.Context, req RegisterRequest) (Entry, error) {
	if req.Path == "" {
		return Entry{}, errors.New("repository path is required")
	}
	display := req.DisplayName
	if display == "" {
		display = filepath.Base(req.Path)
	}
	return s.repo.Upsert(ctx, UpsertParams{Path: req.Path, DisplayName: display})
}

func (s *Service) Get(ctx context.Context, id int64) (Entry, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Remove(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("repository %d not found", id)
		}
		return err
	}
	return nil
}

func (s *Service) MarkOpened(ctx context.Context, id int64) error {
	return s.repo.MarkOpened(ctx, id, time.Now().UTC())
}
