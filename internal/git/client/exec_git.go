package client

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"gitscope/internal/git/runner"
)

// The well-known empty tree hash; used when HEAD has no commits yet.
const emptyTreeHash = "4b825dc642cb6eb9a060e54bf8d69288fbee4904"

// ExecClient implements Client using the git binary.
type ExecClient struct{ r runner.Runner }

func NewExecClient(bin string) *ExecClient { return &ExecClient{r: runner.NewExecRunner(bin)} }

func (c *ExecClient) FileChanges(ctx context.Context, root string) ([]FileChange, error) {
	if strings.TrimSpace(root) == "" {
		return nil, fmt.Errorf("repository root is required")
	}
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("stat repository root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("repository root %q is not a directory", root)
	}

	statusMap, err := c.parseStatus(ctx, root)
	if err != nil {
		return nil, err
	}

	numstat := make(map[string][2]int)
	if err := c.accumulateNumstat(ctx, root, []string{"diff", "--numstat", "HEAD"}, numstat); err != nil {
		if err := c.accumulateNumstat(ctx, root, []string{"diff", "--numstat", emptyTreeHash}, numstat); err != nil {
			return nil, err
		}
	}
	if err := c.accumulateNumstat(ctx, root, []string{"diff", "--numstat", "--cached"}, numstat); err != nil {
		return nil, err
	}

	result := make([]FileChange, 0, len(statusMap))
	seen := make(map[string]bool)
	appendEntry := func(path string) {
		if seen[path] {
			return
		}
		entry := FileChange{Path: path}
		if code, ok := statusMap[path]; ok {
			entry.Staged = code.staged
			entry.Unstaged = code.unstaged
		}
		if counts, ok := numstat[path]; ok {
			entry.Added = counts[0]
			entry.Removed = counts[1]
		}
		result = append(result, entry)
		seen[path] = true
	}
	for path := range statusMap {
		appendEntry(path)
	}
	for path := range numstat {
		appendEntry(path)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Path < result[j].Path })
	return result, nil
}

type statusCode struct {
	staged   string
	unstaged string
}

func (c *ExecClient) parseStatus(ctx context.Context, root string) (map[string]statusCode, error) {
	output, err := c.r.Run(ctx, root, "status", "--porcelain")
	if err != nil {
		return nil, err
	}
	status := make(map[string]statusCode)
	scanner := bufio.NewScanner(strings.NewReader(output))
	for scanner.Scan() {
		line := scanner.Text()
		if len(line) < 4 {
			continue
		}
		code := statusCode{
			staged:   strings.TrimSpace(line[0:1]),
			unstaged: strings.TrimSpace(line[1:2]),
		}
		path := cleanStatusPath(line[3:])
		if path == "" || (code.staged == "" && code.unstaged == "") {
			continue
		}
		status[path] = code
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan git status: %w", err)
	}
	return status, nil
}

// cleanStatusPath strips rename arrows and porcelain quoting.
func cleanStatusPath(raw string) string {
	path := strings.TrimSpace(raw)
	if strings.Contains(path, " -> ") {
		parts := strings.Split(path, " -> ")
		path = strings.TrimSpace(parts[len(parts)-1])
	}
	if strings.HasPrefix(path, "\"") {
		if decoded, err := strconv.Unquote(path); err == nil {
			path = decoded
		}
	}
	return path
}

func (c *ExecClient) accumulateNumstat(ctx context.Context, root string, args []string, accum map[string][2]int) error {
	output, err := c.r.Run(ctx, root, args...)
	if err != nil {
		return err
	}
	scanner := bufio.NewScanner(strings.NewReader(output))
	for scanner.Scan() {
		parts := strings.Split(scanner.Text(), "\t")
		if len(parts) < 3 {
			continue
		}
		path := cleanStatusPath(parts[2])
		if path == "" {
			continue
		}
		current := accum[path]
		current[0] += parseNumstatValue(parts[0])
		current[1] += parseNumstatValue(parts[1])
		accum[path] = current
	}
	return scanner.Err()
}

func parseNumstatValue(value string) int {
	value = strings.TrimSpace(value)
	if value == "-" {
		return 0
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0
	}
	return n
}
