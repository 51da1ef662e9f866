package main

import (
	"context"
	"database/sql"
	"sync"
)

// App holds the application context handed over by the Wails runtime.
type App struct {
	mu  sync.RWMutex
	ctx context.Context

	db *sql.DB
}

func NewApp() *App {
	return &App{}
}

// startup is called when the app starts. The context is saved so runtime
// methods and event emitters can use it.
func (a *App) startup(ctx context.Context) {
	a.mu.Lock()
	a.ctx = ctx
	a.mu.Unlock()
}

// Context returns the runtime context, or nil before startup.
func (a *App) Context() context.Context {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.ctx
}
