// Package vcs queries version control for tracked files and line-level
// authorship attribution. The queries are narrow by design so that an
// in-process library binding could substitute for the git subprocess
// without touching the aggregation or rewrite logic.
package vcs

import (
	"context"
	"fmt"
	"os/exec"
	"regexp"
	"strings"

	"github.com/waveform80/pemmican/internal/copyright"
)

// IntegrationError indicates a failed or malformed interaction with the
// version control system: a subprocess exiting non-zero, or output that
// violates the expected porcelain format.
type IntegrationError struct {
	Op     string
	Err    error
	Stderr string
}

func (e *IntegrationError) Error() string {
	if e.Stderr != "" {
		return fmt.Sprintf("%s: %v (stderr: %s)", e.Op, e.Err, strings.TrimSpace(e.Stderr))
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *IntegrationError) Unwrap() error { return e.Err }

// Client is the version control query surface the copyright updater
// needs: the set of tracked paths at HEAD, and line-level attribution
// for one of those paths.
type Client interface {
	ListFiles(ctx context.Context) ([]string, error)
	Blame(ctx context.Context, path string) ([]copyright.Contribution, error)
}

// GitClient implements Client by shelling out to git with the working
// directory set to the repository root.
type GitClient struct {
	Dir string
}

// FindRoot returns the root directory of the enclosing git repository.
func FindRoot(ctx context.Context) (string, error) {
	cmd := exec.CommandContext(ctx, "git", "rev-parse", "--show-toplevel")
	output, err := cmd.Output()
	if err != nil {
		return "", wrapExecErr("git rev-parse --show-toplevel", err)
	}
	return strings.TrimSpace(string(output)), nil
}

// ListFiles returns every path tracked at the current revision, in the
// order git reports them.
func (c *GitClient) ListFiles(ctx context.Context) ([]string, error) {
	cmd := exec.CommandContext(ctx, "git", "ls-files", "-z")
	cmd.Dir = c.Dir
	output, err := cmd.Output()
	if err != nil {
		return nil, wrapExecErr("git ls-files", err)
	}

	var files []string
	for _, f := range strings.Split(string(output), "\x00") {
		if f != "" {
			files = append(files, f)
		}
	}
	return files, nil
}

// Blame returns one Contribution per contiguous block of lines in the
// file attributed to the same author, email, and commit year at HEAD.
func (c *GitClient) Blame(ctx context.Context, filePath string) ([]copyright.Contribution, error) {
	cmd := exec.CommandContext(ctx, "git", "blame", "--line-porcelain", "HEAD", "--", filePath)
	cmd.Dir = c.Dir
	output, err := cmd.Output()
	if err != nil {
		return nil, wrapExecErr(fmt.Sprintf("git blame %s", filePath), err)
	}
	return parseBlame(string(output), filePath)
}

func wrapExecErr(op string, err error) error {
	ierr := &IntegrationError{Op: op, Err: err}
	if exitErr, ok := err.(*exec.ExitError); ok {
		ierr.Stderr = string(exitErr.Stderr)
	}
	return ierr
}

// FilterFiles returns the paths matching at least one include pattern
// (an empty include set matches everything) and no exclude pattern.
// Patterns use shell-glob semantics (*, ?, [...]) matched against the
// path as a flat string: unlike path.Match, * crosses path separators.
func FilterFiles(files, include, exclude []string) ([]string, error) {
	includeRes, err := compileGlobs(include)
	if err != nil {
		return nil, err
	}
	excludeRes, err := compileGlobs(exclude)
	if err != nil {
		return nil, err
	}

	var result []string
	for _, f := range files {
		if len(includeRes) > 0 && !matchAny(includeRes, f) {
			continue
		}
		if matchAny(excludeRes, f) {
			continue
		}
		result = append(result, f)
	}
	return result, nil
}

func matchAny(patterns []*regexp.Regexp, name string) bool {
	for _, re := range patterns {
		if re.MatchString(name) {
			return true
		}
	}
	return false
}

func compileGlobs(patterns []string) ([]*regexp.Regexp, error) {
	res := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		re, err := compileGlob(p)
		if err != nil {
			return nil, err
		}
		res = append(res, re)
	}
	return res, nil
}

// compileGlob translates a shell glob into an anchored regexp. Character
// classes pass through with glob's [!...] negation mapped to [^...].
func compileGlob(pattern string) (*regexp.Regexp, error) {
	var b strings.Builder
	b.WriteString(`\A`)
	runes := []rune(pattern)
	for i := 0; i < len(runes); i++ {
		switch c := runes[i]; c {
		case '*':
			b.WriteString(`.*`)
		case '?':
			b.WriteString(`.`)
		case '[':
			j := i + 1
			if j < len(runes) && (runes[j] == '!' || runes[j] == '^') {
				j++
			}
			if j < len(runes) && runes[j] == ']' {
				j++
			}
			for j < len(runes) && runes[j] != ']' {
				j++
			}
			if j >= len(runes) {
				return nil, fmt.Errorf("bad glob pattern %q: missing ]", pattern)
			}
			class := string(runes[i : j+1])
			if strings.HasPrefix(class, "[!") {
				class = "[^" + class[2:]
			}
			b.WriteString(class)
			i = j
		default:
			b.WriteString(regexp.QuoteMeta(string(c)))
		}
	}
	b.WriteString(`\z`)
	re, err := regexp.Compile(b.String())
	if err != nil {
		return nil, fmt.Errorf("bad glob pattern %q: %w", pattern, err)
	}
	return re, nil
}
