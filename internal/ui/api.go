package ui

import (
	"context"
	"fmt"

	wailsruntime "github.com/wailsapp/wails/v2/pkg/runtime"

	"gitscope/internal/logging"
)

type API struct {
	ctxFn func() context.Context
	log   logging.Logger
}

func NewAPI(ctxProvider func() context.Context, logger logging.Logger) *API {
	if logger == nil {
		logger = logging.Nop()
	}
	return &API{ctxFn: ctxProvider, log: logger}
}

// SelectRepositoryDirectory opens the native directory picker so the user
// can choose a Git repository to register.
func (a *API) SelectRepositoryDirectory(defaultDirectory string) (string, error) {
	if a.ctxFn == nil {
		return "", fmt.Errorf("application context not initialised")
	}
	ctx := a.ctxFn()
	if ctx == nil {
		return "", fmt.Errorf("application context not initialised")
	}
	options := wailsruntime.OpenDialogOptions{Title: "Select a Git repository"}
	if defaultDirectory != "" {
		options.DefaultDirectory = defaultDirectory
	}
	return wailsruntime.OpenDirectoryDialog(ctx, options)
}
