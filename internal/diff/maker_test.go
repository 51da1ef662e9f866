package diff

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type fakeBlobs struct {
	head      map[string][]byte
	index     map[string][]byte
	workspace map[string][]byte
}

func (f *fakeBlobs) HeadBlob(path string) ([]byte, error)      { return f.head[path], nil }
func (f *fakeBlobs) IndexBlob(path string) ([]byte, error)     { return f.index[path], nil }
func (f *fakeBlobs) WorkspaceBlob(path string) ([]byte, error) { return f.workspace[path], nil }

func TestProviderModeSelection(t *testing.T) {
	blobs := &fakeBlobs{
		head:      map[string][]byte{"a.txt": []byte("head\n")},
		index:     map[string][]byte{"a.txt": []byte("index\n")},
		workspace: map[string][]byte{"a.txt": []byte("workspace\n")},
	}
	p := NewProvider(blobs)

	res, err := p.MakePatch("a.txt", ModeIndex, WhitespaceShowAll, 3)
	require.NoError(t, err)
	require.Equal(t, Changed, res.Kind)
	h, ok := res.Maker.MakePatch().Hunk(0)
	require.True(t, ok)
	require.Equal(t, "head", h.Lines[0].Text)
	require.Equal(t, "index", h.Lines[1].Text)

	res, err = p.MakePatch("a.txt", ModeWorkspace, WhitespaceShowAll, 3)
	require.NoError(t, err)
	require.Equal(t, Changed, res.Kind)
	h, ok = res.Maker.MakePatch().Hunk(0)
	require.True(t, ok)
	require.Equal(t, "index", h.Lines[0].Text)
	require.Equal(t, "workspace", h.Lines[1].Text)
}

func TestProviderNoDifference(t *testing.T) {
	blobs := &fakeBlobs{
		head:  map[string][]byte{"a.txt": []byte("same\n")},
		index: map[string][]byte{"a.txt": []byte("same\n")},
	}
	res, err := NewProvider(blobs).MakePatch("a.txt", ModeIndex, WhitespaceShowAll, 3)
	require.NoError(t, err)
	require.Equal(t, NoDifference, res.Kind)
	require.Nil(t, res.Maker)
}

func TestProviderBinary(t *testing.T) {
	blobs := &fakeBlobs{
		head:  map[string][]byte{"blob.bin": {0x00, 0x01, 0x02}},
		index: map[string][]byte{"blob.bin": []byte("text\n")},
	}
	res, err := NewProvider(blobs).MakePatch("blob.bin", ModeIndex, WhitespaceShowAll, 3)
	require.NoError(t, err)
	require.Equal(t, Binary, res.Kind)
}

func TestProviderEmptyPath(t *testing.T) {
	_, err := NewProvider(&fakeBlobs{}).MakePatch("  ", ModeNone, WhitespaceShowAll, 3)
	require.Error(t, err)
}

func TestMakerSettingsRegeneratePatch(t *testing.T) {
	m := NewMaker("a.txt", []byte("a \nb\n"), []byte("a\nB\n"), WhitespaceShowAll, 3)

	patch := m.MakePatch()
	require.Equal(t, 1, patch.HunkCount())
	h, ok := patch.Hunk(0)
	require.True(t, ok)
	require.Len(t, h.Lines, 4) // both lines differ when trailing whitespace counts

	m.SetWhitespace(WhitespaceIgnoreEOL)
	h, ok = m.MakePatch().Hunk(0)
	require.True(t, ok)
	require.Len(t, h.Lines, 3) // "a " now matches "a" as context
}

func TestParseWhitespace(t *testing.T) {
	for name, want := range map[string]Whitespace{
		"showAll":   WhitespaceShowAll,
		"ignoreEOL": WhitespaceIgnoreEOL,
		"ignoreAll": WhitespaceIgnoreAll,
		"":          WhitespaceShowAll,
	} {
		got, err := ParseWhitespace(name)
		require.NoError(t, err)
		require.Equal(t, want, got)
	}
	_, err := ParseWhitespace("bogus")
	require.Error(t, err)
}
