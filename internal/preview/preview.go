package preview

import (
	"fmt"
	"strings"

	"github.com/alecthomas/chroma/v2"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"

	"gitscope/internal/diff"
)

// Renderer turns file contents into standalone highlighted HTML documents
// for the preview pane.
type Renderer struct {
	styleName string
}

func NewRenderer() *Renderer {
	return &Renderer{styleName: "github"}
}

// Document highlights content as the file at path and returns a complete
// HTML page. Binary content renders as a short notice instead.
func (r *Renderer) Document(path string, content []byte, tabWidth int) (string, error) {
	if diff.IsBinary(content) {
		return noticeDocument("This is a binary file"), nil
	}
	if tabWidth <= 0 {
		tabWidth = 4
	}

	lexer := lexers.Match(path)
	if lexer == nil {
		lexer = lexers.Analyse(string(content))
	}
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	style := styles.Get(r.styleName)
	if style == nil {
		style = styles.Fallback
	}

	formatter := chromahtml.New(
		chromahtml.Standalone(true),
		chromahtml.WithLineNumbers(true),
		chromahtml.TabWidth(tabWidth),
	)

	iterator, err := lexer.Tokenise(nil, string(content))
	if err != nil {
		return "", fmt.Errorf("tokenise %s: %w", path, err)
	}

	var buf strings.Builder
	if err := formatter.Format(&buf, style, iterator); err != nil {
		return "", fmt.Errorf("format %s: %w", path, err)
	}
	return buf.String(), nil
}

func noticeDocument(text string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html><body><div class="notice">%s</div></body></html>
`, text)
}
