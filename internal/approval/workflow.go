package approval

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/rcliao/memory-cultivation/internal/model"
	"github.com/rcliao/memory-cultivation/internal/ui"
)

// BatchInfo describes the batch being presented.
type BatchInfo struct {
	BatchNumber  int
	TotalBatches int
	FileCount    int
}

// Workflow asks the operator to approve, skip, edit or retry each proposed
// consolidation. It only classifies input and never touches stored records.
type Workflow struct {
	session *Session
	styles  ui.Styles
}

// NewWorkflow returns a workflow prompting on session.
func NewWorkflow(session *Session) *Workflow {
	return &Workflow{session: session, styles: ui.New(session.Out())}
}

// Decide presents text for the batch and blocks until the operator picks an
// option. Unrecognized input re-prompts. "edit" reads a replacement text and
// approves it. End of input before a choice is io.ErrUnexpectedEOF.
func (w *Workflow) Decide(text string, info BatchInfo) (model.Decision, error) {
	s := w.session
	s.Printf("\n%s\n", w.styles.Heading.Render(
		fmt.Sprintf("=== Batch %d/%d Consolidation ===", info.BatchNumber, info.TotalBatches)))
	s.Printf("Files: %d\n", info.FileCount)
	s.Printf("\n%s\n\n", text)
	s.Printf("Options:\n")
	s.Printf("  y - Approve consolidation (delete originals, save consolidated)\n")
	s.Printf("  n - Skip this batch (keep originals)\n")
	s.Printf("  edit - Write your own summary\n")
	s.Printf("  retry - Regenerate with AI\n\n")

	for {
		answer, err := s.Ask("Your choice: ")
		if errors.Is(err, io.EOF) {
			return model.Decision{}, io.ErrUnexpectedEOF
		}
		if err != nil {
			return model.Decision{}, err
		}

		switch strings.ToLower(strings.TrimSpace(answer)) {
		case "y":
			return model.Approve(nil), nil
		case "n":
			return model.Decision{Action: model.ActionSkip}, nil
		case "retry":
			return model.Decision{Action: model.ActionRetry}, nil
		case "edit":
			custom, err := s.ReadText("\nEnter your custom summary (end with a line containing only \".\"):\n")
			if err != nil {
				return model.Decision{}, err
			}
			custom = strings.TrimSpace(custom)
			return model.Approve(&custom), nil
		default:
			s.Printf("%s\n", w.styles.Warn.Render("Invalid choice. Please enter y, n, edit, or retry."))
		}
	}
}
