// Package diffview turns file patches into the HTML diff document shown in
// the webview and routes hunk actions from rendered markup back to the
// staging backend.
package diffview

import (
	"strings"
	"sync"

	"gitscope/internal/diff"
	"gitscope/internal/logging"
)

// HunkAction identifies a user-initiated operation on a rendered hunk.
type HunkAction int

const (
	ActionStage HunkAction = iota
	ActionUnstage
	ActionDiscard
)

// PatchSource resolves a diff request for a file under a staging mode.
type PatchSource interface {
	MakePatch(path string, mode diff.StagingMode, ws diff.Whitespace, contextLines int) (diff.Result, error)
}

// Stager applies hunk-level operations to the repository. Implementations
// are responsible for their own consistency; the renderer only dispatches.
type Stager interface {
	Stage(path string, h diff.Hunk) error
	Unstage(path string, h diff.Hunk) error
	Discard(path string, h diff.Hunk) error
}

// Surface displays a rendered document. Implementations are owned by the UI
// thread; the renderer never calls Load while holding internal locks.
type Surface interface {
	Load(document, base string)
}

// Options carry the renderer's explicit configuration. Defaults come from
// preferences at construction time; nothing is read from ambient state.
type Options struct {
	Whitespace   diff.Whitespace
	ContextLines int
	TabWidth     int
}

// Renderer mediates between a computed patch, a staging mode, and per-hunk
// actions dispatched from rendered markup.
type Renderer struct {
	surface Surface
	log     logging.Logger

	source PatchSource
	blobs  diff.BlobSource
	stager Stager

	whitespace   diff.Whitespace
	contextLines int
	tabWidth     int

	path  string
	mode  diff.StagingMode
	maker *diff.Maker
	patch *diff.Patch

	loadedMu sync.Mutex
	loaded   bool
}

func NewRenderer(opts Options, surface Surface, logger logging.Logger) *Renderer {
	if logger == nil {
		logger = logging.Nop()
	}
	if opts.ContextLines < 0 {
		opts.ContextLines = 0
	}
	if opts.TabWidth <= 0 {
		opts.TabWidth = 4
	}
	return &Renderer{
		surface:      surface,
		log:          logger,
		whitespace:   opts.Whitespace,
		contextLines: opts.ContextLines,
		tabWidth:     opts.TabWidth,
	}
}

// SetBackend swaps the repository collaborators, e.g. when another
// repository is opened. Any loaded diff is dropped.
func (r *Renderer) SetBackend(source PatchSource, blobs diff.BlobSource, stager Stager) {
	r.source = source
	r.blobs = blobs
	r.stager = stager
	r.path = ""
	r.maker = nil
	r.patch = nil
	r.setLoaded(false)
}

// Load resolves the diff for path under the given staging mode and renders
// it, replacing any previously rendered content.
func (r *Renderer) Load(path string, mode diff.StagingMode) {
	if strings.TrimSpace(path) == "" || r.source == nil {
		return
	}
	r.path = path
	r.mode = mode
	r.maker = nil
	r.patch = nil
	r.setLoaded(false)

	res, err := r.source.MakePatch(path, mode, r.whitespace, r.contextLines)
	if err != nil {
		r.log.Warn("diff request failed", "path", path, "mode", mode.String(), "error", err)
		r.deliver(noticeDocument(noChangesNotice(mode)))
		r.setLoaded(true)
		return
	}

	switch res.Kind {
	case diff.NoDifference:
		r.deliver(noticeDocument(noChangesNotice(mode)))
	case diff.Binary:
		r.deliver(noticeDocument(binaryNotice))
	case diff.Changed:
		r.maker = res.Maker
		r.Render()
	}
	r.setLoaded(true)
}

// Reload re-resolves the current selection. Called when the repository
// signals that its state changed underneath the rendered diff.
func (r *Renderer) Reload() {
	if r.path == "" {
		return
	}
	r.Load(r.path, r.mode)
}

// Render builds a fresh patch from the current maker and delivers the
// resulting document to the surface.
func (r *Renderer) Render() {
	if r.maker == nil {
		return
	}
	patch := r.maker.MakePatch()
	r.patch = patch
	if patch.HunkCount() == 0 {
		r.deliver(noticeDocument(noChangesNotice(r.mode)))
		return
	}

	counterpart := r.counterpartLines()
	var blocks strings.Builder
	for i := 0; i < patch.HunkCount(); i++ {
		h, _ := patch.Hunk(i)
		renderHunk(&blocks, i, h, r.mode, r.whitespace, counterpart)
	}
	r.deliver(document(blocks.String(), r.tabWidth))
}

// counterpartLines resolves the content hunk applicability is tested
// against: HEAD for staged diffs, the staged blob for workspace diffs.
func (r *Renderer) counterpartLines() []string {
	if r.blobs == nil {
		return nil
	}
	var (
		content []byte
		err     error
	)
	switch r.mode {
	case diff.ModeIndex:
		content, err = r.blobs.HeadBlob(r.path)
	case diff.ModeWorkspace:
		content, err = r.blobs.IndexBlob(r.path)
	default:
		return nil
	}
	if err != nil {
		r.log.Warn("resolve counterpart blob", "path", r.path, "error", err)
		return nil
	}
	return diff.SplitLines(string(content))
}

// SetWhitespace updates the whitespace setting and re-renders. Re-applying
// the current value is skipped: the same inputs would produce the same patch.
func (r *Renderer) SetWhitespace(ws diff.Whitespace) {
	if ws == r.whitespace {
		return
	}
	r.whitespace = ws
	if r.maker != nil {
		r.maker.SetWhitespace(ws)
		r.Render()
	}
}

// SetContextLines updates the context-line count and re-renders. Identical
// values are skipped, like SetWhitespace.
func (r *Renderer) SetContextLines(n int) {
	if n < 0 || n == r.contextLines {
		return
	}
	r.contextLines = n
	if r.maker != nil {
		r.maker.SetContextLines(n)
		r.Render()
	}
}

// Dispatch forwards a hunk action to the staging backend. Missing patch,
// out-of-range index, or an absent backend are silent no-ops; backend
// failures are logged and never crash the render path. The renderer does
// not reload afterwards; the repository watcher triggers that.
func (r *Renderer) Dispatch(action HunkAction, index int) {
	if r.patch == nil || r.stager == nil {
		return
	}
	h, ok := r.patch.Hunk(index)
	if !ok {
		return
	}

	var err error
	switch action {
	case ActionStage:
		if r.mode != diff.ModeWorkspace {
			return
		}
		err = r.stager.Stage(r.path, h)
	case ActionUnstage:
		if r.mode != diff.ModeIndex {
			return
		}
		err = r.stager.Unstage(r.path, h)
	case ActionDiscard:
		if r.mode != diff.ModeWorkspace {
			return
		}
		err = r.stager.Discard(r.path, h)
	default:
		return
	}
	if err != nil {
		r.log.Warn("hunk action failed", "path", r.path, "hunk", index, "error", err)
	}
}

// Loaded reports whether a load has completed. Safe to call from any
// goroutine.
func (r *Renderer) Loaded() bool {
	r.loadedMu.Lock()
	defer r.loadedMu.Unlock()
	return r.loaded
}

func (r *Renderer) setLoaded(v bool) {
	r.loadedMu.Lock()
	r.loaded = v
	r.loadedMu.Unlock()
}

// deliver hands the document to the surface. The loaded lock is never held
// here: a surface may call back synchronously.
func (r *Renderer) deliver(doc string) {
	if r.surface == nil {
		return
	}
	r.surface.Load(doc, r.path)
}
