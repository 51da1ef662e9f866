package diffview

import (
	"fmt"

	"gitscope/internal/diff"
	"gitscope/internal/logging"
)

// ContextPresets are the context-line counts offered in the view menu.
var ContextPresets = []int{0, 3, 6, 12, 25}

// API exposes renderer controls to the application chrome via Wails
// binding. Rendered diff content never calls these; it only reaches Bridge.
type API struct {
	renderer *Renderer
	log      logging.Logger
}

func NewAPI(renderer *Renderer, logger logging.Logger) *API {
	if logger == nil {
		logger = logging.Nop()
	}
	return &API{renderer: renderer, log: logger}
}

// LoadFile renders the diff for a repository-relative path. Mode is one of
// "none", "index", "workspace".
func (a *API) LoadFile(path, mode string) error {
	m, err := parseMode(mode)
	if err != nil {
		return err
	}
	a.renderer.Load(path, m)
	return nil
}

// SetWhitespace switches the whitespace setting ("showAll", "ignoreEOL",
// "ignoreAll") and re-renders when it changed.
func (a *API) SetWhitespace(name string) error {
	ws, err := diff.ParseWhitespace(name)
	if err != nil {
		return err
	}
	a.renderer.SetWhitespace(ws)
	return nil
}

// SetContextLines switches the context-line count and re-renders when it
// changed.
func (a *API) SetContextLines(n int) error {
	if n < 0 {
		return fmt.Errorf("context lines must be non-negative, got %d", n)
	}
	a.renderer.SetContextLines(n)
	return nil
}

// ContextLinePresets returns the preset values for the view menu.
func (a *API) ContextLinePresets() []int { return ContextPresets }

func parseMode(mode string) (diff.StagingMode, error) {
	switch mode {
	case "none", "":
		return diff.ModeNone, nil
	case "index":
		return diff.ModeIndex, nil
	case "workspace":
		return diff.ModeWorkspace, nil
	default:
		return diff.ModeNone, fmt.Errorf("unknown staging mode %q", mode)
	}
}
