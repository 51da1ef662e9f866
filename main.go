package main

import (
	"context"
	"embed"
	"log"
	"path/filepath"
	"time"

	"github.com/wailsapp/wails/v2"
	"github.com/wailsapp/wails/v2/pkg/options"
	"github.com/wailsapp/wails/v2/pkg/options/assetserver"
	"github.com/wailsapp/wails/v2/pkg/options/linux"

	"gitscope/internal/buildstatus"
	"gitscope/internal/catalog"
	"gitscope/internal/config"
	"gitscope/internal/diff"
	"gitscope/internal/diffview"
	gitclient "gitscope/internal/git/client"
	"gitscope/internal/logging"
	"gitscope/internal/preview"
	"gitscope/internal/repos"
	"gitscope/internal/storage"
	"gitscope/internal/storage/migrate"
	"gitscope/internal/storage/sqlite"
	term "gitscope/internal/terminal"
	"gitscope/internal/ui"
	"gitscope/internal/watchers"
)

//go:embed all:frontend/dist
var assets embed.FS

func main() {
	app := NewApp()
	logger := logging.FromEnv()

	dataDir, err := storage.DataDir()
	if err != nil {
		log.Fatalf("data dir: %v", err)
	}
	db, err := sqlite.Open(filepath.Join(dataDir, "catalog.db"))
	if err != nil {
		log.Fatalf("open sqlite: %v", err)
	}
	if err := migrate.Up(db); err != nil {
		log.Fatalf("migrate: %v", err)
	}
	app.db = db

	prefs := config.NewStore(filepath.Join(dataDir, "prefs.yaml"))
	if err := prefs.Load(); err != nil {
		logger.Warn("load preferences failed", "error", err)
	}
	current := prefs.Current()
	whitespace, err := diff.ParseWhitespace(current.Diff.Whitespace)
	if err != nil {
		whitespace = diff.WhitespaceShowAll
	}

	// Catalog
	catalogSvc := catalog.NewService(catalog.NewRepository(db), logger)
	catalogAPI := catalog.NewAPI(catalogSvc, logger)

	// Diff view
	surface := diffview.NewEventSurface(app.Context)
	renderer := diffview.NewRenderer(diffview.Options{
		Whitespace:   whitespace,
		ContextLines: current.Diff.ContextLines,
		TabWidth:     current.Diff.TabWidth,
	}, surface, logger)
	diffAPI := diffview.NewAPI(renderer, logger)
	bridge := diffview.NewBridge(renderer)

	// Repositories
	watcherSvc := watchers.New(nil)
	watcherSvc.SetLogger(logger)
	previewAPI := preview.NewAPI(preview.NewRenderer())
	reposSvc := repos.NewService(catalogSvc, renderer, previewAPI, watcherSvc, gitclient.NewExecClient("git"), logger)
	reposAPI := repos.NewAPI(reposSvc)
	watcherSvc.SetEmitter(reposSvc.HandleChange)

	// Preferences follow the renderer: updates apply live.
	prefs.Subscribe(func() {
		p := prefs.Current()
		if ws, err := diff.ParseWhitespace(p.Diff.Whitespace); err == nil {
			renderer.SetWhitespace(ws)
		}
		renderer.SetContextLines(p.Diff.ContextLines)
	})
	prefsAPI := config.NewAPI(prefs)

	// Terminal
	termMgr := term.NewManager(reposSvc.Root, app.Context, "")
	termAPI := term.NewAPI(termMgr)

	// Build status
	buildClient := buildstatus.NewClient(current.BuildStatus.ServerURL, buildstatus.Credentials{
		User:     current.BuildStatus.User,
		Password: current.BuildStatus.Password,
	})
	buildSvc := buildstatus.NewService(buildClient, time.Duration(current.BuildStatus.PollIntervalSeconds)*time.Second, logger)
	if current.BuildStatus.ServerURL != "" {
		buildSvc.Start()
	}
	buildAPI := buildstatus.NewAPI(buildSvc)

	uiAPI := ui.NewAPI(app.Context, logger)

	err = wails.Run(&options.App{
		Title:  "gitscope",
		Width:  1600,
		Height: 1000,
		Linux: &linux.Options{
			WebviewGpuPolicy: linux.WebviewGpuPolicyAlways,
		},
		AssetServer: &assetserver.Options{
			Assets: assets,
		},
		BackgroundColour: &options.RGBA{R: 24, G: 26, B: 32, A: 1},
		OnStartup:        app.startup,
		OnShutdown: func(ctx context.Context) {
			buildSvc.Stop()
			watcherSvc.Stop()
			termMgr.CloseAll()
			if app.db != nil {
				_ = app.db.Close()
			}
		},
		Bind: []interface{}{catalogAPI, reposAPI, diffAPI, bridge, prefsAPI, termAPI, previewAPI, buildAPI, uiAPI},
	})

	if err != nil {
		println("Error:", err.Error())
	}
}
