// Package consolidate turns a batch of memory records into one consolidated
// record: summarizing the batch with the AI tool and persisting the approved
// text.
package consolidate

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/rcliao/memory-cultivation/internal/aicli"
	"github.com/rcliao/memory-cultivation/internal/store"
)

// Runner runs a configured AI operation. *aicli.Client implements it.
type Runner interface {
	Prompt(op string) string
	Run(ctx context.Context, op, request string) (string, error)
}

// Result is the outcome of summarizing a batch: the consolidated text, or the
// error that prevented it.
type Result struct {
	Text string
	Err  error
}

// OK reports whether the summary succeeded.
func (r Result) OK() bool {
	return r.Err == nil
}

// Message is the text shown to the operator for this result.
func (r Result) Message() string {
	if r.Err == nil {
		return r.Text
	}
	var re *ReadError
	if errors.As(r.Err, &re) {
		return fmt.Sprintf("Error reading file %s: %v", re.ID, re.Err)
	}
	return fmt.Sprintf("Error consolidating batch: %v", r.Err)
}

// ReadError reports a record that could not be loaded for a batch.
type ReadError struct {
	ID  string
	Err error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("read %s: %v", e.ID, e.Err)
}

func (e *ReadError) Unwrap() error {
	return e.Err
}

// Summarizer produces one consolidated text per batch.
type Summarizer struct {
	store  store.Store
	ai     Runner
	logger *zap.Logger
}

// NewSummarizer creates a summarizer reading records from s.
func NewSummarizer(s store.Store, ai Runner, logger *zap.Logger) *Summarizer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Summarizer{store: s, ai: ai, logger: logger}
}

// Summarize loads ids in order and asks the AI tool to merge them. It never
// fails: the first unreadable record or an AI failure is returned in the
// Result.
func (s *Summarizer) Summarize(ctx context.Context, ids []string) Result {
	contents := make([]string, 0, len(ids))
	for _, id := range ids {
		content, err := s.store.Read(ctx, id)
		if err != nil {
			s.logger.Warn("batch record unreadable", zap.String("id", id), zap.Error(err))
			return Result{Err: &ReadError{ID: id, Err: err}}
		}
		contents = append(contents, content)
	}

	request := s.ai.Prompt(aicli.OpConsolidateBatch) + "\n\n" + FormatMemories(contents)
	out, err := s.ai.Run(ctx, aicli.OpConsolidateBatch, request)
	if err != nil {
		return Result{Err: err}
	}
	return Result{Text: strings.TrimSpace(out)}
}

// FormatMemories renders contents under numbered "### Memory N" headings.
func FormatMemories(contents []string) string {
	parts := make([]string, len(contents))
	for i, c := range contents {
		parts[i] = fmt.Sprintf("### Memory %d\n%s", i+1, c)
	}
	return strings.Join(parts, "\n\n")
}
