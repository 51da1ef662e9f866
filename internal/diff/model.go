// Package diff computes line-level patches between two versions of a file
// and models the hunks the staging pipeline operates on.
package diff

import (
	"fmt"
	"strings"
)

// Whitespace controls how whitespace differences participate in a diff.
type Whitespace int

const (
	// WhitespaceShowAll diffs lines exactly as written.
	WhitespaceShowAll Whitespace = iota
	// WhitespaceIgnoreEOL ignores trailing whitespace on each line.
	WhitespaceIgnoreEOL
	// WhitespaceIgnoreAll ignores all whitespace within lines.
	WhitespaceIgnoreAll
)

func (w Whitespace) String() string {
	switch w {
	case WhitespaceIgnoreEOL:
		return "ignoreEOL"
	case WhitespaceIgnoreAll:
		return "ignoreAll"
	default:
		return "showAll"
	}
}

// ParseWhitespace maps a setting name to a Whitespace value.
func ParseWhitespace(name string) (Whitespace, error) {
	switch strings.TrimSpace(name) {
	case "showAll", "":
		return WhitespaceShowAll, nil
	case "ignoreEOL":
		return WhitespaceIgnoreEOL, nil
	case "ignoreAll":
		return WhitespaceIgnoreAll, nil
	default:
		return WhitespaceShowAll, fmt.Errorf("unknown whitespace setting %q", name)
	}
}

// StagingMode identifies which pair of blob sources a diff compares and
// which hunk actions are offered on the result.
type StagingMode int

const (
	// ModeNone compares HEAD against the workspace; no actions are offered.
	ModeNone StagingMode = iota
	// ModeIndex compares HEAD against the index (staged changes).
	ModeIndex
	// ModeWorkspace compares the index against the workspace (unstaged changes).
	ModeWorkspace
)

func (m StagingMode) String() string {
	switch m {
	case ModeIndex:
		return "index"
	case ModeWorkspace:
		return "workspace"
	default:
		return "none"
	}
}

// LineKind classifies a line within a hunk.
type LineKind int

const (
	LineContext LineKind = iota
	LineAdded
	LineRemoved
)

// NoLine marks a line number that does not exist on one side of the diff.
const NoLine = -1

// Line is a single diff line. OldNo and NewNo are 1-based; a side the line
// does not exist on carries NoLine. A line never has both sides absent.
type Line struct {
	Kind  LineKind
	OldNo int
	NewNo int
	Text  string
}

// Hunk is a contiguous block of changed and context lines.
// OldStart/NewStart are 1-based; when a side's count is zero, its start is
// the number of the line preceding the change on that side (0 at file top).
type Hunk struct {
	OldStart int
	OldCount int
	NewStart int
	NewCount int
	Lines    []Line
}

// Header renders the unified-diff range header for the hunk.
func (h Hunk) Header() string {
	return fmt.Sprintf("@@ -%d,%d +%d,%d @@", h.OldStart, h.OldCount, h.NewStart, h.NewCount)
}

func (h Hunk) oldSide() []string {
	out := make([]string, 0, h.OldCount)
	for _, l := range h.Lines {
		if l.Kind != LineAdded {
			out = append(out, l.Text)
		}
	}
	return out
}

func (h Hunk) newSide() []string {
	out := make([]string, 0, h.NewCount)
	for _, l := range h.Lines {
		if l.Kind != LineRemoved {
			out = append(out, l.Text)
		}
	}
	return out
}

// Patch is the ordered set of hunks for one file comparison. It is immutable
// once produced; settings changes regenerate a new Patch.
type Patch struct {
	hunks []Hunk
}

// HunkCount reports the number of hunks in the patch.
func (p *Patch) HunkCount() int {
	if p == nil {
		return 0
	}
	return len(p.hunks)
}

// Hunk returns the hunk at index, or false when index is out of range.
func (p *Patch) Hunk(index int) (Hunk, bool) {
	if p == nil || index < 0 || index >= len(p.hunks) {
		return Hunk{}, false
	}
	return p.hunks[index], true
}

// SplitLines breaks content into lines without trailing newlines.
// A trailing newline does not produce an empty final line.
func SplitLines(content string) []string {
	if content == "" {
		return nil
	}
	lines := strings.Split(content, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

// JoinLines is the inverse of SplitLines; non-empty content ends with a newline.
func JoinLines(lines []string) string {
	if len(lines) == 0 {
		return ""
	}
	return strings.Join(lines, "\n") + "\n"
}
