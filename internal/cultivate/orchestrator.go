// Package cultivate runs a cultivation: batch consolidation of memory records
// with operator approval, a final AI analysis against the instruction files,
// and optional cleanup.
package cultivate

import (
	"context"
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"

	"github.com/rcliao/memory-cultivation/internal/approval"
	"github.com/rcliao/memory-cultivation/internal/batch"
	"github.com/rcliao/memory-cultivation/internal/config"
	"github.com/rcliao/memory-cultivation/internal/consolidate"
	"github.com/rcliao/memory-cultivation/internal/model"
	"github.com/rcliao/memory-cultivation/internal/store"
	"github.com/rcliao/memory-cultivation/internal/ui"
)

// CleanupCommitMessage is the commit message recording a cleanup.
const CleanupCommitMessage = "chore: clean up memory files after cultivation"

// Summarizer proposes a consolidated text for a batch.
type Summarizer interface {
	Summarize(ctx context.Context, ids []string) consolidate.Result
}

// Approver classifies the operator's answer to a proposal.
type Approver interface {
	Decide(text string, info approval.BatchInfo) (model.Decision, error)
}

// Persister stores an approved consolidation and returns its identifier.
type Persister interface {
	Persist(ctx context.Context, content string, originals []string, at time.Time) (string, error)
}

// Suggester produces the final instruction suggestions.
type Suggester interface {
	Suggest(ctx context.Context, memories []string, instructions string) string
}

// Committer stages and commits paths. *vcs.Repo implements it.
type Committer interface {
	StageAndCommit(paths []string, message string) (string, error)
}

// Prompter is the interactive session owned by a run. *approval.Session
// implements it.
type Prompter interface {
	Confirm(prompt string) (bool, error)
	Close() error
}

// Deps are the collaborators of an Orchestrator. Committer may be nil when
// the store is not inside a repository; committing then fails.
type Deps struct {
	Store        store.Store
	Instructions func() (string, error)
	BatchSize    int
	Summarizer   Summarizer
	Approver     Approver
	Persister    Persister
	Suggester    Suggester
	Committer    Committer
	Session      Prompter
	Now          func() time.Time
	Out          io.Writer
	ErrOut       io.Writer
	Logger       *zap.Logger
}

// Orchestrator drives one cultivation run.
type Orchestrator struct {
	Deps
	styles    ui.Styles
	partition func(ids []string, size int) []model.Batch
}

// New creates an orchestrator. A batch size below 1 uses the default.
func New(d Deps) *Orchestrator {
	if d.BatchSize < 1 {
		d.BatchSize = config.DefaultBatchSize
	}
	if d.Instructions == nil {
		d.Instructions = func() (string, error) { return "", nil }
	}
	if d.Now == nil {
		d.Now = time.Now
	}
	if d.Out == nil {
		d.Out = io.Discard
	}
	if d.ErrOut == nil {
		d.ErrOut = io.Discard
	}
	if d.Logger == nil {
		d.Logger = zap.NewNop()
	}
	return &Orchestrator{Deps: d, styles: ui.New(d.Out), partition: batch.Partition}
}

// Run performs the cultivation and returns the process exit status. The
// session is closed before Run returns.
func (o *Orchestrator) Run(ctx context.Context) int {
	defer func() {
		if o.Session == nil {
			return
		}
		if err := o.Session.Close(); err != nil {
			o.Logger.Debug("close session", zap.Error(err))
		}
	}()

	if err := o.run(ctx); err != nil {
		o.Logger.Error("cultivation failed", zap.Error(err))
		fmt.Fprintf(o.ErrOut, "Cultivation error: %v\n", err)
		return 1
	}
	return 0
}

func (o *Orchestrator) run(ctx context.Context) error {
	o.println(o.styles.Heading.Render("=== Memory Cultivation ==="))
	o.println("")

	records, err := store.ReadAll(ctx, o.Store)
	if err != nil {
		return err
	}
	instructions, err := o.Instructions()
	if err != nil {
		return fmt.Errorf("read instructions: %w", err)
	}

	if len(records) == 0 {
		o.println("No memory files found. Nothing to cultivate.")
		return nil
	}
	o.printf("Found %d memory file(s)\n", len(records))

	ids := make([]string, len(records))
	for i, r := range records {
		ids[i] = r.ID
	}

	remaining, err := o.Consolidate(ctx, ids)
	if err != nil {
		return err
	}

	if len(remaining) != len(ids) {
		o.Logger.Debug("reloading memories", zap.Int("before", len(ids)), zap.Int("after", len(remaining)))
		if records, err = store.ReadAll(ctx, o.Store); err != nil {
			return err
		}
	}
	memories := make([]string, len(records))
	for i, r := range records {
		memories[i] = r.Content
	}

	o.analyze(ctx, memories, instructions)
	return o.cleanup(ctx)
}

// Consolidate processes ids in batches and returns the surviving identifiers
// in order: skipped batches keep their originals, approved batches are
// replaced by their consolidated record. When ids fit in one batch nothing
// happens.
func (o *Orchestrator) Consolidate(ctx context.Context, ids []string) ([]string, error) {
	if len(ids) <= o.BatchSize {
		return ids, nil
	}

	o.printf("\n%s\n", o.styles.Heading.Render("=== Phase 1: Batch Consolidation ==="))
	o.printf("You have %d memories. Let's consolidate them in batches.\n", len(ids))

	batches := o.partition(ids, o.BatchSize)
	remaining := make([]string, 0, len(ids))
	for _, b := range batches {
		kept, err := o.processBatch(ctx, b, len(batches))
		if err != nil {
			return nil, err
		}
		remaining = append(remaining, kept...)
	}
	return remaining, nil
}

func (o *Orchestrator) processBatch(ctx context.Context, b model.Batch, total int) ([]string, error) {
	info := approval.BatchInfo{BatchNumber: b.BatchNumber, TotalBatches: total, FileCount: len(b.Files)}

	for {
		o.printf("\n%s\n", o.styles.Muted.Render(
			fmt.Sprintf("Processing batch %d/%d (%d memories)...", b.BatchNumber, total, len(b.Files))))

		result := o.Summarizer.Summarize(ctx, b.Files)
		decision, err := o.Approver.Decide(result.Message(), info)
		if err != nil {
			return nil, fmt.Errorf("batch %d: %w", b.BatchNumber, err)
		}

		switch decision.Action {
		case model.ActionRetry:
			continue
		case model.ActionSkip:
			o.println(o.styles.Warn.Render(
				fmt.Sprintf("Skipped batch %d - keeping %d original files", b.BatchNumber, len(b.Files))))
			return b.Files, nil
		case model.ActionApprove:
			if !result.OK() && decision.CustomText == nil {
				o.println(o.styles.Warn.Render(
					fmt.Sprintf("Batch %d has no summary to save - keeping %d original files", b.BatchNumber, len(b.Files))))
				return b.Files, nil
			}
			return o.replace(ctx, b, decision.Text(result.Text))
		default:
			return nil, fmt.Errorf("batch %d: unknown decision %q", b.BatchNumber, decision.Action)
		}
	}
}

// replace persists text for the batch and only then deletes its originals.
func (o *Orchestrator) replace(ctx context.Context, b model.Batch, text string) ([]string, error) {
	id, err := o.Persister.Persist(ctx, text, b.Files, o.Now())
	if err != nil {
		return nil, err
	}
	o.printf("\n%s\n", o.styles.Success.Render(
		fmt.Sprintf("Batch %d consolidated -> %s", b.BatchNumber, id)))

	for _, f := range b.Files {
		if err := o.Store.Delete(ctx, f); err != nil {
			return nil, fmt.Errorf("delete %s: %w", f, err)
		}
	}
	o.printf("   Deleted %d original memory files\n", len(b.Files))
	o.Logger.Info("batch consolidated",
		zap.Int("batch", b.BatchNumber),
		zap.String("id", id),
		zap.Int("originals", len(b.Files)))

	return []string{id}, nil
}

func (o *Orchestrator) analyze(ctx context.Context, memories []string, instructions string) {
	o.printf("\n%s\n", o.styles.Heading.Render("=== Phase 2: Final Analysis ==="))
	o.println("=== Memories ===")
	for i, m := range memories {
		o.printf("\n--- Memory %d ---\n%s\n", i+1, m)
	}

	o.println("\n=== Current Instructions ===")
	if instructions == "" {
		o.println("(No instructions found)")
	} else {
		o.println(instructions)
	}

	o.printf("\n\n%s\n", o.styles.Heading.Render("=== AI-Generated Suggestions ==="))
	o.println("Analyzing memories and generating consolidation suggestions...")
	o.println("")
	o.println(o.Suggester.Suggest(ctx, memories, instructions))

	o.printf("\n\n%s\n", o.styles.Heading.Render("=== Next Steps ==="))
	o.println("Review the suggestions above and manually update your instruction files as needed.")
	o.println("Then clean up the memory files below.")
	o.println("")
}

func (o *Orchestrator) cleanup(ctx context.Context) error {
	if o.Session == nil {
		return nil
	}
	ok, err := o.Session.Confirm("Clean up memory files? (y/n): ")
	if err != nil || !ok {
		return err
	}

	ids, err := o.Store.List(ctx)
	if err != nil {
		return fmt.Errorf("list memories: %w", err)
	}
	for _, id := range ids {
		if err := o.Store.Delete(ctx, id); err != nil {
			return fmt.Errorf("delete %s: %w", id, err)
		}
	}
	o.printf("\nDeleted %d memory file(s)\n", len(ids))

	ok, err = o.Session.Confirm("Commit cleanup? (y/n): ")
	if err != nil || !ok {
		return err
	}
	if o.Committer == nil {
		return fmt.Errorf("commit cleanup: %s is not inside a git repository", o.Store.Location())
	}
	if _, err := o.Committer.StageAndCommit([]string{o.Store.Location()}, CleanupCommitMessage); err != nil {
		return fmt.Errorf("commit cleanup: %w", err)
	}
	o.printf("\n%s\n", o.styles.Success.Render("Cleanup committed successfully"))
	return nil
}

func (o *Orchestrator) printf(format string, args ...any) {
	fmt.Fprintf(o.Out, format, args...)
}

func (o *Orchestrator) println(s string) {
	fmt.Fprintln(o.Out, s)
}
