// Package model defines the core memory data types.
package model

import "regexp"

// MemoryRecord represents one stored memory: a per-commit change summary or a
// consolidated record that replaced a batch of them.
type MemoryRecord struct {
	ID      string `json:"id"`
	Content string `json:"content"`
}

// Date returns the calendar date embedded in the record identifier, if any.
func (m MemoryRecord) Date() (string, bool) {
	return RecordDate(m.ID)
}

var datePattern = regexp.MustCompile(`\d{4}-\d{2}-\d{2}`)

// RecordDate extracts the first YYYY-MM-DD date embedded in an identifier.
func RecordDate(id string) (string, bool) {
	d := datePattern.FindString(id)
	return d, d != ""
}

// Batch is an ordered group of memory identifiers consolidated as one unit.
type Batch struct {
	Files       []string `json:"files"`
	BatchNumber int      `json:"batch_number"`
}

// Action is the kind of an approval decision.
type Action string

const (
	ActionApprove Action = "approve"
	ActionSkip    Action = "skip"
	ActionRetry   Action = "retry"
)

// Decision is the operator's answer to a proposed consolidation.
type Decision struct {
	Action Action `json:"action"`
	// CustomText replaces the generated text when set (approve only).
	CustomText *string `json:"custom_text,omitempty"`
}

// Approve returns an approve decision, optionally carrying operator text.
func Approve(custom *string) Decision {
	return Decision{Action: ActionApprove, CustomText: custom}
}

// Text returns the body to persist for an approve decision.
func (d Decision) Text(generated string) string {
	if d.CustomText != nil {
		return *d.CustomText
	}
	return generated
}
