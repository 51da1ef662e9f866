package diffview

import (
	"fmt"
	"html"
	"strconv"
	"strings"

	"gitscope/internal/diff"
)

const binaryNotice = "This is a binary file"

func noChangesNotice(mode diff.StagingMode) string {
	switch mode {
	case diff.ModeIndex:
		return "No staged changes for this selection"
	case diff.ModeWorkspace:
		return "No unstaged changes for this selection"
	default:
		return "No changes for this selection"
	}
}

const cannotApplyNotice = "This hunk cannot be applied"
const whitespaceHiddenNotice = "Whitespace changes are hidden"

// documentTemplate is the rendered page; %d is the tab width, %s the
// concatenated hunk blocks.
const documentTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<style>
body { font-family: -apple-system, "Segoe UI", sans-serif; margin: 0; }
.hunk { border-bottom: 1px solid #d8d8d8; font-family: ui-monospace, monospace; }
.hunkhead { background: #f3f6fa; padding: 2px 8px; display: flex; align-items: center; gap: 8px; }
.hunkhead .range { color: #57606a; }
.hunkhead .notice { color: #9a6700; font-style: italic; }
.add { background: #e6ffec; }
.del { background: #ffebe9; }
.pln, .add, .del { white-space: pre; tab-size: %d; display: flex; }
.old, .new { width: 3em; color: #8c959f; text-align: right; padding-right: 6px; flex: none; user-select: none; }
.notice { padding: 12px; color: #57606a; }
</style>
</head>
<body>%s</body>
</html>`

func document(blocks string, tabWidth int) string {
	return fmt.Sprintf(documentTemplate, tabWidth, blocks)
}

func noticeDocument(text string) string {
	return document(`<div class="notice">`+html.EscapeString(text)+`</div>`, 4)
}

// renderHunk writes one hunk block: a header with the range and, depending
// on staging mode and applicability, action buttons or a notice, followed by
// the hunk's lines.
func renderHunk(b *strings.Builder, index int, h diff.Hunk, mode diff.StagingMode, ws diff.Whitespace, counterpart []string) {
	b.WriteString(fmt.Sprintf(`<div class="hunk" id="hunk%d">`, index))
	b.WriteString(`<div class="hunkhead"><span class="range">`)
	b.WriteString(html.EscapeString(h.Header()))
	b.WriteString(`</span>`)
	b.WriteString(hunkControls(index, h, mode, ws, counterpart))
	b.WriteString(`</div>`)
	for _, line := range h.Lines {
		renderLine(b, line)
	}
	b.WriteString(`</div>`)
}

// hunkControls decides between action buttons and an explanatory notice.
// An inapplicable hunk under showAll is a genuine conflict; under a
// whitespace-filtering setting it is usually a display artifact.
func hunkControls(index int, h diff.Hunk, mode diff.StagingMode, ws diff.Whitespace, counterpart []string) string {
	if mode == diff.ModeNone {
		return ""
	}
	if !h.CanApply(counterpart) {
		notice := whitespaceHiddenNotice
		if ws == diff.WhitespaceShowAll {
			notice = cannotApplyNotice
		}
		return `<span class="notice">` + html.EscapeString(notice) + `</span>`
	}
	switch mode {
	case diff.ModeIndex:
		return actionButton("UnstageHunk", index, "Unstage")
	case diff.ModeWorkspace:
		return actionButton("StageHunk", index, "Stage") + actionButton("DiscardHunk", index, "Discard")
	}
	return ""
}

// actionButton emits the onclick trigger routed through the Bridge binding.
// The bridge's three methods are the only application surface reachable from
// rendered content. The document is shown in an iframe via srcdoc, where the
// Wails runtime never injects window.go, so the call goes through the parent
// window; the frame must stay same-origin for that to resolve.
func actionButton(method string, index int, label string) string {
	return fmt.Sprintf(`<button class="action" onclick="window.parent.go.diffview.Bridge.%s(%d)">%s</button>`,
		method, index, label)
}

func renderLine(b *strings.Builder, l diff.Line) {
	class := "pln"
	switch {
	case l.OldNo == diff.NoLine:
		class = "add"
	case l.NewNo == diff.NoLine:
		class = "del"
	}
	b.WriteString(`<div class="` + class + `">`)
	b.WriteString(`<span class="old">` + lineNumber(l.OldNo) + `</span>`)
	b.WriteString(`<span class="new">` + lineNumber(l.NewNo) + `</span>`)
	b.WriteString(`<span class="text">` + html.EscapeString(l.Text) + `</span>`)
	b.WriteString(`</div>`)
}

func lineNumber(n int) string {
	if n == diff.NoLine {
		return ""
	}
	return strconv.Itoa(n)
}
