package repos

import (
	"context"

	gitclient "gitscope/internal/git/client"
	"gitscope/internal/git/repo"
)

// API exposes repository operations to the frontend via Wails binding.
type API struct {
	svc *Service
}

func NewAPI(svc *Service) *API { return &API{svc: svc} }

func (a *API) OpenRepository(id int64) (OpenedRepo, error) {
	return a.svc.Open(context.Background(), id)
}

func (a *API) FileChanges() ([]gitclient.FileChange, error) {
	return a.svc.FileChanges(context.Background())
}

func (a *API) Log(limit int) ([]repo.Commit, error) { return a.svc.Log(limit) }

func (a *API) CurrentBranch() (string, error) { return a.svc.CurrentRef() }

func (a *API) ConfigValue(key string) (string, error) { return a.svc.ConfigValue(key) }

func (a *API) SetConfigValue(key, value string) error { return a.svc.SetConfigValue(key, value) }
