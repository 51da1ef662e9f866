package catalog

import (
	"context"

	"gitscope/internal/logging"
)

// API exposes catalog actions to the frontend via Wails binding.
type API struct {
	svc *Service
	log logging.Logger
}

func NewAPI(svc *Service, logger logging.Logger) *API {
	if logger == nil {
		logger = logging.Nop()
	}
	return &API{svc: svc, log: logger}
}

func (a *API) ListRepositories() ([]Entry, error) { return a.svc.List(context.Background()) }

func (a *API) RegisterRepository(req RegisterRequest) (Entry, error) {
	return a.svc.Register(context.Background(), req)
}

func (a *API) DeleteRepository(id int64) error { return a.svc.Remove(context.Background(), id) }
