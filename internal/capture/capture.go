// Package capture records a memory of each commit made on a feature branch.
package capture

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"go.uber.org/zap"

	"github.com/rcliao/memory-cultivation/internal/aicli"
	"github.com/rcliao/memory-cultivation/internal/store"
	"github.com/rcliao/memory-cultivation/internal/vcs"
)

// Repository is the version control view the hook needs. *vcs.Repo
// implements it.
type Repository interface {
	CurrentBranch() (string, error)
	HeadShort() (string, error)
	StagedFiles() ([]string, error)
	StagedDiff(ctx context.Context, excludes []string) (string, error)
}

// Runner runs a configured AI operation.
type Runner interface {
	Prompt(op string) string
	Run(ctx context.Context, op, request string) (string, error)
}

// Options configures a Capturer.
type Options struct {
	CultivatePatterns []string
	DiffExcludes      []string
	Out               io.Writer
	Now               func() time.Time
	Logger            *zap.Logger
}

// Capturer summarizes the staged change into a new memory record.
type Capturer struct {
	repo   Repository
	store  store.Store
	ai     Runner
	opts   Options
	logger *zap.Logger
}

// New creates a capturer.
func New(repo Repository, s store.Store, ai Runner, opts Options) *Capturer {
	if opts.Out == nil {
		opts.Out = io.Discard
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Capturer{repo: repo, store: s, ai: ai, opts: opts, logger: logger}
}

// Run captures the staged change. It returns the new record identifier, or ""
// when the commit is skipped.
func (c *Capturer) Run(ctx context.Context) (string, error) {
	branch, err := c.repo.CurrentBranch()
	if err != nil {
		return "", err
	}
	if branch == "" {
		c.printf("Detached HEAD, skipping memory generation\n")
		return "", nil
	}
	if vcs.IsMainBranch(branch) {
		c.printf("On main/master branch, skipping memory generation\n")
		return "", nil
	}

	staged, err := c.repo.StagedFiles()
	if err != nil {
		return "", err
	}
	if IsCultivateCommit(staged, c.opts.CultivatePatterns) {
		c.printf("Cultivate commit detected, skipping memory generation\n")
		return "", nil
	}

	diff, err := c.repo.StagedDiff(ctx, c.opts.DiffExcludes)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(diff) == "" {
		c.printf("No staged changes, skipping memory generation\n")
		return "", nil
	}

	c.printf("Generating memory summary...\n")
	summary := SummarizeDiff(ctx, c.ai, diff)

	head, err := c.repo.HeadShort()
	if err != nil {
		return "", err
	}
	base := fmt.Sprintf("%s-%s", head, c.opts.Now().UTC().Format("2006-01-02"))
	id, err := store.FreeID(ctx, c.store, base, ".md")
	if err != nil {
		return "", err
	}
	if err := c.store.Write(ctx, id, summary); err != nil {
		return "", fmt.Errorf("save memory: %w", err)
	}

	c.logger.Info("memory captured", zap.String("id", id), zap.String("branch", branch))
	c.printf("Memory saved to %s\n", id)
	return id, nil
}

func (c *Capturer) printf(format string, args ...any) {
	fmt.Fprintf(c.opts.Out, format, args...)
}

// IsCultivateCommit reports whether every staged path matches one of the
// patterns. A commit with nothing staged is not a cultivation commit.
func IsCultivateCommit(staged, patterns []string) bool {
	if len(staged) == 0 {
		return false
	}
	for _, path := range staged {
		if !matchAny(path, patterns) {
			return false
		}
	}
	return true
}

func matchAny(path string, patterns []string) bool {
	for _, pattern := range patterns {
		if ok, err := doublestar.Match(pattern, path); err == nil && ok {
			return true
		}
	}
	return false
}

// SummarizeDiff asks the AI tool to summarize diff. When the tool fails it
// falls back to a summary built from the diff statistics.
func SummarizeDiff(ctx context.Context, ai Runner, diff string) string {
	if strings.TrimSpace(diff) == "" {
		return "## Summary\n\nNo changes detected."
	}

	request := ai.Prompt(aicli.OpSummarize) + "\n\nDiff content:\n" + diff
	out, err := ai.Run(ctx, aicli.OpSummarize, request)
	if err != nil {
		return FallbackSummary(diff)
	}
	return "## Summary\n\n" + strings.TrimSpace(out)
}

// FallbackSummary describes diff by its changed files and line counts.
func FallbackSummary(diff string) string {
	var added, removed int
	var files []string
	seen := make(map[string]bool)

	for _, line := range strings.Split(diff, "\n") {
		switch {
		case strings.HasPrefix(line, "diff --git "):
			if i := strings.LastIndex(line, " b/"); i >= 0 {
				f := line[i+len(" b/"):]
				if !seen[f] {
					seen[f] = true
					files = append(files, f)
				}
			}
		case strings.HasPrefix(line, "+++"), strings.HasPrefix(line, "---"):
		case strings.HasPrefix(line, "+"):
			added++
		case strings.HasPrefix(line, "-"):
			removed++
		}
	}

	var b strings.Builder
	b.WriteString("## Summary\n\n")
	fmt.Fprintf(&b, "**Files Changed**: %d\n", len(files))
	fmt.Fprintf(&b, "**Lines Added**: %d\n", added)
	fmt.Fprintf(&b, "**Lines Removed**: %d\n", removed)
	b.WriteString("\n**Files**:\n")
	for _, f := range files {
		fmt.Fprintf(&b, "- %s\n", f)
	}
	b.WriteString("\n**Note**: This is a placeholder summary. Install an AI CLI and set ai.command for AI-powered analysis.\n")
	return b.String()
}
