// Package runner abstracts execution of the git binary.
package runner

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"regexp"
	"strings"
)

// Runner executes git operations. Implementations may call the git binary
// or simulate output in tests.
type Runner interface {
	Run(ctx context.Context, root string, args ...string) (string, error)
}

// ExecRunner executes the configured git binary.
type ExecRunner struct {
	GitBin string
}

func NewExecRunner(gitBin string) *ExecRunner {
	if strings.TrimSpace(gitBin) == "" {
		gitBin = "git"
	}
	return &ExecRunner{GitBin: gitBin}
}

func (e *ExecRunner) Run(ctx context.Context, root string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, e.GitBin, args...)
	if strings.TrimSpace(root) != "" {
		cmd.Dir = root
	}
	var out, errb bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &errb
	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(errb.String())
		if msg == "" {
			msg = strings.TrimSpace(out.String())
		}
		if msg == "" {
			msg = err.Error()
		}
		return "", fmt.Errorf("git %s: %s", summarizeArgs(args), redactCredentials(msg))
	}
	return out.String(), nil
}

var subcommandRe = regexp.MustCompile(`^[a-z][a-z-]*$`)

// summarizeArgs keeps at most the leading subcommand tokens, stopping at the
// first token that could carry a path or URL.
func summarizeArgs(args []string) string {
	safe := make([]string, 0, 2)
	for _, a := range args {
		if !subcommandRe.MatchString(a) {
			break
		}
		safe = append(safe, a)
		if len(safe) == 2 {
			break
		}
	}
	if len(safe) == 0 {
		return "<redacted>"
	}
	return strings.Join(safe, " ")
}

var (
	urlCredRe = regexp.MustCompile(`https?://[^\s@]+@`)
	tokenRe   = regexp.MustCompile(`(?i)(token|secret|password|passwd|bearer)=[^\s]+`)
)

// redactCredentials scrubs obvious secrets from git error output.
func redactCredentials(s string) string {
	s = urlCredRe.ReplaceAllString(s, "https://<redacted>@")
	return tokenRe.ReplaceAllString(s, "$1=<redacted>")
}
