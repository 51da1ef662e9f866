package main

import (
	"flag"
	"fmt"
	"os"

	"gitscope/internal/diff"
	"gitscope/internal/diffview"
)

// diffhtml renders the diff between two files as the same HTML document the
// desktop app shows. Useful for debugging renderer output without the GUI.

type stdoutSurface struct{}

func (stdoutSurface) Load(document, base string) { fmt.Print(document) }

func main() {
	wsName := flag.String("whitespace", "showAll", "whitespace setting: showAll, ignoreEOL, ignoreAll")
	contextLines := flag.Int("context", 3, "context lines around changes")
	tabWidth := flag.Int("tabwidth", 4, "tab width in rendered output")
	flag.Parse()

	if flag.NArg() != 2 {
		fmt.Fprintln(os.Stderr, "usage: diffhtml [flags] <old-file> <new-file>")
		os.Exit(2)
	}

	ws, err := diff.ParseWhitespace(*wsName)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	oldContent, err := os.ReadFile(flag.Arg(0))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	newContent, err := os.ReadFile(flag.Arg(1))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	renderer := diffview.NewRenderer(diffview.Options{
		Whitespace:   ws,
		ContextLines: *contextLines,
		TabWidth:     *tabWidth,
	}, stdoutSurface{}, nil)
	renderer.SetBackend(fileSource{oldContent: oldContent, newContent: newContent}, nil, nil)
	renderer.Load(flag.Arg(1), diff.ModeNone)
}

// fileSource serves a single fixed pair of contents.
type fileSource struct {
	oldContent []byte
	newContent []byte
}

func (s fileSource) MakePatch(path string, mode diff.StagingMode, ws diff.Whitespace, contextLines int) (diff.Result, error) {
	if diff.IsBinary(s.oldContent) || diff.IsBinary(s.newContent) {
		return diff.Result{Kind: diff.Binary}, nil
	}
	if string(s.oldContent) == string(s.newContent) {
		return diff.Result{Kind: diff.NoDifference}, nil
	}
	maker := diff.NewMaker(path, s.oldContent, s.newContent, ws, contextLines)
	return diff.Result{Kind: diff.Changed, Maker: maker}, nil
}
