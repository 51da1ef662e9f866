package diffview

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"gitscope/internal/diff"
)

type stubBlobs struct {
	head      map[string]string
	index     map[string]string
	workspace map[string]string
}

func (s *stubBlobs) HeadBlob(path string) ([]byte, error)      { return []byte(s.head[path]), nil }
func (s *stubBlobs) IndexBlob(path string) ([]byte, error)     { return []byte(s.index[path]), nil }
func (s *stubBlobs) WorkspaceBlob(path string) ([]byte, error) { return []byte(s.workspace[path]), nil }

type recordingSurface struct {
	docs  []string
	bases []string
}

func (r *recordingSurface) Load(document, base string) {
	r.docs = append(r.docs, document)
	r.bases = append(r.bases, base)
}

func (r *recordingSurface) last() string {
	if len(r.docs) == 0 {
		return ""
	}
	return r.docs[len(r.docs)-1]
}

type recordingStager struct {
	stages, unstages, discards []diff.Hunk
	paths                      []string
}

func (s *recordingStager) Stage(path string, h diff.Hunk) error {
	s.paths = append(s.paths, path)
	s.stages = append(s.stages, h)
	return nil
}

func (s *recordingStager) Unstage(path string, h diff.Hunk) error {
	s.paths = append(s.paths, path)
	s.unstages = append(s.unstages, h)
	return nil
}

func (s *recordingStager) Discard(path string, h diff.Hunk) error {
	s.paths = append(s.paths, path)
	s.discards = append(s.discards, h)
	return nil
}

func newTestRenderer(blobs *stubBlobs) (*Renderer, *recordingSurface, *recordingStager) {
	surface := &recordingSurface{}
	stager := &recordingStager{}
	r := NewRenderer(Options{ContextLines: 3}, surface, nil)
	r.SetBackend(diff.NewProvider(blobs), blobs, stager)
	return r, surface, stager
}

func TestRenderWorkspaceScenario(t *testing.T) {
	blobs := &stubBlobs{
		index:     map[string]string{"a.txt": "a\nb\n"},
		workspace: map[string]string{"a.txt": "a\nc\n"},
	}
	r, surface, _ := newTestRenderer(blobs)

	r.Load("a.txt", diff.ModeWorkspace)
	require.Len(t, surface.docs, 1)
	doc := surface.last()

	require.Contains(t, doc, `>Stage</button>`)
	require.Contains(t, doc, `>Discard</button>`)
	require.NotContains(t, doc, `>Unstage</button>`)

	pln := strings.Index(doc, `class="pln"`)
	del := strings.Index(doc, `class="del"`)
	add := strings.Index(doc, `class="add"`)
	require.True(t, pln >= 0 && del > pln && add > del, "expected pln, del, add blocks in order: %d %d %d", pln, del, add)

	require.Equal(t, "a.txt", surface.bases[0])
	require.True(t, r.Loaded())
}

func TestActionButtonsTargetParentWindowBinding(t *testing.T) {
	// The document is shown in an iframe via srcdoc; window.go only exists
	// on the embedding page, so buttons must go through window.parent.
	blobs := &stubBlobs{
		index:     map[string]string{"a.txt": "a\nb\n"},
		workspace: map[string]string{"a.txt": "a\nc\n"},
	}
	r, surface, _ := newTestRenderer(blobs)

	r.Load("a.txt", diff.ModeWorkspace)
	doc := surface.last()
	require.Contains(t, doc, `onclick="window.parent.go.diffview.Bridge.StageHunk(0)"`)
	require.Contains(t, doc, `onclick="window.parent.go.diffview.Bridge.DiscardHunk(0)"`)
	require.NotContains(t, doc, `onclick="window.go.`)

	blobs.head = map[string]string{"a.txt": "a\n"}
	r.Load("a.txt", diff.ModeIndex)
	require.Contains(t, surface.last(), `onclick="window.parent.go.diffview.Bridge.UnstageHunk(0)"`)
}

func TestRenderIndexModeOffersUnstage(t *testing.T) {
	blobs := &stubBlobs{
		head:  map[string]string{"a.txt": "a\n"},
		index: map[string]string{"a.txt": "a\nb\n"},
	}
	r, surface, _ := newTestRenderer(blobs)

	r.Load("a.txt", diff.ModeIndex)
	doc := surface.last()
	require.Contains(t, doc, `>Unstage</button>`)
	require.NotContains(t, doc, `>Stage</button>`)
	require.NotContains(t, doc, `>Discard</button>`)
}

func TestRenderModeNoneNeverOffersControls(t *testing.T) {
	blobs := &stubBlobs{
		head:      map[string]string{"a.txt": "a\n"},
		workspace: map[string]string{"a.txt": "b\n"},
	}
	r, surface, _ := newTestRenderer(blobs)

	r.Load("a.txt", diff.ModeNone)
	doc := surface.last()
	require.NotContains(t, doc, "<button")
}

func TestRenderEscapesLineText(t *testing.T) {
	blobs := &stubBlobs{
		index:     map[string]string{"a.txt": "safe\n"},
		workspace: map[string]string{"a.txt": "safe\n<script>alert(1)</script>\n"},
	}
	r, surface, _ := newTestRenderer(blobs)

	r.Load("a.txt", diff.ModeWorkspace)
	doc := surface.last()
	require.NotContains(t, doc, "<script>alert(1)</script>")
	require.Contains(t, doc, "&lt;script&gt;alert(1)&lt;/script&gt;")
}

func TestRenderNoticeDocuments(t *testing.T) {
	blobs := &stubBlobs{
		head:      map[string]string{"same.txt": "x\n", "blob.bin": "\x00\x01"},
		index:     map[string]string{"same.txt": "x\n", "blob.bin": "ok\n"},
		workspace: map[string]string{},
	}
	r, surface, _ := newTestRenderer(blobs)

	r.Load("same.txt", diff.ModeIndex)
	require.Contains(t, surface.last(), "No staged changes for this selection")

	r.Load("blob.bin", diff.ModeIndex)
	require.Contains(t, surface.last(), "This is a binary file")
}

func TestRenderInapplicableHunkNotices(t *testing.T) {
	// Index hunk computed against a HEAD counterpart that no longer matches.
	blobs := &stubBlobs{
		head:  map[string]string{"a.txt": "a\nb\n"},
		index: map[string]string{"a.txt": "a\nc\n"},
	}
	r, surface, _ := newTestRenderer(blobs)
	r.Load("a.txt", diff.ModeIndex)
	// Mutate HEAD after the maker captured its contents, then re-render.
	blobs.head["a.txt"] = "z\nz\nz\n"
	r.Render()
	doc := surface.last()
	require.Contains(t, doc, "This hunk cannot be applied")
	require.NotContains(t, doc, "<button")

	// The same mismatch under a whitespace-filtering setting reads as a
	// display artifact instead.
	r.SetWhitespace(diff.WhitespaceIgnoreEOL)
	require.Contains(t, surface.last(), "Whitespace changes are hidden")
}

func TestSettingChangesRerenderOnce(t *testing.T) {
	blobs := &stubBlobs{
		index:     map[string]string{"a.txt": "a\nb\n"},
		workspace: map[string]string{"a.txt": "a\nc\n"},
	}
	r, surface, _ := newTestRenderer(blobs)

	r.Load("a.txt", diff.ModeWorkspace)
	require.Len(t, surface.docs, 1)

	r.SetWhitespace(diff.WhitespaceIgnoreAll)
	require.Len(t, surface.docs, 2)

	// Re-applying the current value is a no-op.
	r.SetWhitespace(diff.WhitespaceIgnoreAll)
	require.Len(t, surface.docs, 2)

	r.SetContextLines(0)
	require.Len(t, surface.docs, 3)
	r.SetContextLines(0)
	require.Len(t, surface.docs, 3)
}

func TestDispatchRoutesToStager(t *testing.T) {
	blobs := &stubBlobs{
		index:     map[string]string{"a.txt": "a\nb\n"},
		workspace: map[string]string{"a.txt": "a\nc\n"},
	}
	r, _, stager := newTestRenderer(blobs)
	r.Load("a.txt", diff.ModeWorkspace)

	r.Dispatch(ActionStage, 0)
	require.Len(t, stager.stages, 1)
	require.Equal(t, []string{"a.txt"}, stager.paths)

	r.Dispatch(ActionDiscard, 0)
	require.Len(t, stager.discards, 1)

	// Unstage is not meaningful in workspace mode.
	r.Dispatch(ActionUnstage, 0)
	require.Empty(t, stager.unstages)
}

func TestDispatchSilentNoOps(t *testing.T) {
	blobs := &stubBlobs{
		index:     map[string]string{"a.txt": "a\nb\n"},
		workspace: map[string]string{"a.txt": "a\nc\n"},
	}
	r, _, stager := newTestRenderer(blobs)

	// No patch loaded yet.
	r.Dispatch(ActionStage, 0)
	require.Empty(t, stager.stages)

	r.Load("a.txt", diff.ModeWorkspace)

	// Out-of-range indices.
	r.Dispatch(ActionStage, -1)
	r.Dispatch(ActionStage, 99)
	require.Empty(t, stager.stages)

	// Absent backend.
	r.SetBackend(diff.NewProvider(blobs), blobs, nil)
	r.Load("a.txt", diff.ModeWorkspace)
	r.Dispatch(ActionStage, 0)
	require.Empty(t, stager.stages)
}

func TestBridgeExposesExactlyThreeActions(t *testing.T) {
	blobs := &stubBlobs{
		index:     map[string]string{"a.txt": "a\nb\n"},
		workspace: map[string]string{"a.txt": "a\nc\n"},
	}
	r, _, stager := newTestRenderer(blobs)
	r.Load("a.txt", diff.ModeWorkspace)

	b := NewBridge(r)
	b.StageHunk(0)
	require.Len(t, stager.stages, 1)
	b.DiscardHunk(0)
	require.Len(t, stager.discards, 1)
	b.UnstageHunk(0) // ignored in workspace mode
	require.Empty(t, stager.unstages)
}

func TestLoadEmptyPathIgnored(t *testing.T) {
	r, surface, _ := newTestRenderer(&stubBlobs{})
	r.Load("  ", diff.ModeWorkspace)
	require.Empty(t, surface.docs)
	require.False(t, r.Loaded())
}
