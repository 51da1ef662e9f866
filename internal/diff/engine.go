package diff

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// Compute diffs two file contents line by line and groups the result into
// hunks with the requested number of context lines. The output is a pure
// function of its inputs: identical contents and settings produce an
// identical patch.
func Compute(oldContent, newContent string, ws Whitespace, contextLines int) *Patch {
	if contextLines < 0 {
		contextLines = 0
	}
	oldLines := SplitLines(oldContent)
	newLines := SplitLines(newContent)

	ops := lineOps(oldLines, newLines, ws)
	return &Patch{hunks: groupHunks(ops, contextLines)}
}

// lineOps produces the flat edit script between the two line slices.
// Lines are compared through their whitespace-normalized keys; the emitted
// text is always the original line.
func lineOps(oldLines, newLines []string, ws Whitespace) []Line {
	dmp := diffmatchpatch.New()
	oldKeys, newKeys, _ := dmp.DiffLinesToChars(keyText(oldLines, ws), keyText(newLines, ws))
	diffs := dmp.DiffMain(oldKeys, newKeys, false)

	var ops []Line
	oi, ni := 0, 0
	for _, d := range diffs {
		count := utf8.RuneCountInString(d.Text)
		for k := 0; k < count; k++ {
			switch d.Type {
			case diffmatchpatch.DiffEqual:
				ops = append(ops, Line{Kind: LineContext, OldNo: oi + 1, NewNo: ni + 1, Text: oldLines[oi]})
				oi++
				ni++
			case diffmatchpatch.DiffDelete:
				ops = append(ops, Line{Kind: LineRemoved, OldNo: oi + 1, NewNo: NoLine, Text: oldLines[oi]})
				oi++
			case diffmatchpatch.DiffInsert:
				ops = append(ops, Line{Kind: LineAdded, OldNo: NoLine, NewNo: ni + 1, Text: newLines[ni]})
				ni++
			}
		}
	}
	return ops
}

// keyText joins normalized lines into the newline-terminated form
// DiffLinesToChars tokenizes.
func keyText(lines []string, ws Whitespace) string {
	if len(lines) == 0 {
		return ""
	}
	var b strings.Builder
	for _, line := range lines {
		b.WriteString(normalizeLine(line, ws))
		b.WriteByte('\n')
	}
	return b.String()
}

func normalizeLine(line string, ws Whitespace) string {
	switch ws {
	case WhitespaceIgnoreEOL:
		return strings.TrimRightFunc(line, unicode.IsSpace)
	case WhitespaceIgnoreAll:
		return strings.Map(func(r rune) rune {
			if unicode.IsSpace(r) {
				return -1
			}
			return r
		}, line)
	default:
		return line
	}
}

// groupHunks slices the edit script into hunks, surrounding each run of
// changes with up to contextLines context lines and merging runs whose
// separating context fits inside 2*contextLines.
func groupHunks(ops []Line, contextLines int) []Hunk {
	var hunks []Hunk
	i := 0
	for i < len(ops) {
		if ops[i].Kind == LineContext {
			i++
			continue
		}
		// i is the first change of this hunk
		start := i - contextLines
		if start < 0 {
			start = 0
		}
		lastChange := i
		j := i
		for j < len(ops) {
			if ops[j].Kind != LineContext {
				lastChange = j
				j++
				continue
			}
			k := j
			for k < len(ops) && ops[k].Kind == LineContext {
				k++
			}
			if k < len(ops) && k-j <= 2*contextLines {
				j = k
				continue
			}
			break
		}
		end := lastChange + contextLines + 1
		if end > len(ops) {
			end = len(ops)
		}
		hunks = append(hunks, makeHunk(ops, start, end))
		i = end
	}
	return hunks
}

func makeHunk(ops []Line, start, end int) Hunk {
	lines := make([]Line, end-start)
	copy(lines, ops[start:end])

	h := Hunk{Lines: lines}
	for _, l := range lines {
		if l.Kind != LineAdded {
			h.OldCount++
		}
		if l.Kind != LineRemoved {
			h.NewCount++
		}
	}
	h.OldStart = sideStart(ops, start, h.OldCount, func(l Line) int { return l.OldNo })
	h.NewStart = sideStart(ops, start, h.NewCount, func(l Line) int { return l.NewNo })
	return h
}

// sideStart finds the 1-based start of the hunk on one side. When the hunk is
// empty on that side it is the number of the last preceding line there.
func sideStart(ops []Line, start, count int, number func(Line) int) int {
	if count > 0 {
		for _, l := range ops[start:] {
			if n := number(l); n != NoLine {
				return n
			}
		}
	}
	for i := start - 1; i >= 0; i-- {
		if n := number(ops[i]); n != NoLine {
			return n
		}
	}
	return 0
}
