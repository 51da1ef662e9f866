package diff

import (
	"bytes"
	"fmt"
	"strings"
)

// BlobSource resolves file content for the three comparison points of a
// repository. A missing file yields nil bytes and no error.
type BlobSource interface {
	HeadBlob(path string) ([]byte, error)
	IndexBlob(path string) ([]byte, error)
	WorkspaceBlob(path string) ([]byte, error)
}

// ResultKind classifies the outcome of a diff request.
type ResultKind int

const (
	// NoDifference means the file is unchanged in the compared scope.
	NoDifference ResultKind = iota
	// Binary means the content cannot be diffed as text.
	Binary
	// Changed means a Maker is available to produce patches.
	Changed
)

// Result is the outcome of Provider.MakePatch. Maker is set only for
// Changed results.
type Result struct {
	Kind  ResultKind
	Maker *Maker
}

// Maker identifies one file comparison: the path, the two contents being
// compared, and the current diff settings. It is replaced wholesale when the
// selection or staging mode changes and is not safe for concurrent mutation.
type Maker struct {
	path         string
	oldContent   []byte
	newContent   []byte
	whitespace   Whitespace
	contextLines int
}

// NewMaker builds a Maker over two captured blob contents.
func NewMaker(path string, oldContent, newContent []byte, ws Whitespace, contextLines int) *Maker {
	return &Maker{
		path:         path,
		oldContent:   oldContent,
		newContent:   newContent,
		whitespace:   ws,
		contextLines: contextLines,
	}
}

func (m *Maker) Path() string { return m.path }

func (m *Maker) SetWhitespace(ws Whitespace) { m.whitespace = ws }

func (m *Maker) SetContextLines(n int) { m.contextLines = n }

// MakePatch computes a fresh Patch for the current settings.
func (m *Maker) MakePatch() *Patch {
	return Compute(string(m.oldContent), string(m.newContent), m.whitespace, m.contextLines)
}

// Provider resolves diff requests against a BlobSource.
type Provider struct {
	blobs BlobSource
}

func NewProvider(blobs BlobSource) *Provider {
	return &Provider{blobs: blobs}
}

// MakePatch resolves the blob pair named by the staging mode and reports
// whether the file is unchanged, binary, or carries a textual diff.
func (p *Provider) MakePatch(path string, mode StagingMode, ws Whitespace, contextLines int) (Result, error) {
	if strings.TrimSpace(path) == "" {
		return Result{}, fmt.Errorf("file path is required")
	}

	oldContent, newContent, err := p.resolvePair(path, mode)
	if err != nil {
		return Result{}, err
	}
	if IsBinary(oldContent) || IsBinary(newContent) {
		return Result{Kind: Binary}, nil
	}
	if bytes.Equal(oldContent, newContent) {
		return Result{Kind: NoDifference}, nil
	}
	return Result{Kind: Changed, Maker: NewMaker(path, oldContent, newContent, ws, contextLines)}, nil
}

func (p *Provider) resolvePair(path string, mode StagingMode) (oldContent, newContent []byte, err error) {
	switch mode {
	case ModeIndex:
		if oldContent, err = p.blobs.HeadBlob(path); err != nil {
			return nil, nil, fmt.Errorf("resolve HEAD blob: %w", err)
		}
		if newContent, err = p.blobs.IndexBlob(path); err != nil {
			return nil, nil, fmt.Errorf("resolve index blob: %w", err)
		}
	case ModeWorkspace:
		if oldContent, err = p.blobs.IndexBlob(path); err != nil {
			return nil, nil, fmt.Errorf("resolve index blob: %w", err)
		}
		if newContent, err = p.blobs.WorkspaceBlob(path); err != nil {
			return nil, nil, fmt.Errorf("resolve workspace blob: %w", err)
		}
	default:
		if oldContent, err = p.blobs.HeadBlob(path); err != nil {
			return nil, nil, fmt.Errorf("resolve HEAD blob: %w", err)
		}
		if newContent, err = p.blobs.WorkspaceBlob(path); err != nil {
			return nil, nil, fmt.Errorf("resolve workspace blob: %w", err)
		}
	}
	return oldContent, newContent, nil
}

// IsBinary reports whether content is not diffable as text. Matches git's
// heuristic of looking for a NUL byte in the leading bytes.
func IsBinary(content []byte) bool {
	const window = 8000
	probe := content
	if len(probe) > window {
		probe = probe[:window]
	}
	return bytes.IndexByte(probe, 0) >= 0
}
