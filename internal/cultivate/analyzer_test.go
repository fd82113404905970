package cultivate

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rcliao/memory-cultivation/internal/aicli"
)

type fakeRunner struct {
	out      string
	err      error
	ops      []string
	requests []string
}

func (f *fakeRunner) Prompt(op string) string { return "Suggest." }

func (f *fakeRunner) Run(_ context.Context, op, request string) (string, error) {
	f.ops = append(f.ops, op)
	f.requests = append(f.requests, request)
	return f.out, f.err
}

func TestSuggest(t *testing.T) {
	ai := &fakeRunner{out: "\n add a testing section \n"}

	got := NewAnalyzer(ai, nil).Suggest(context.Background(), []string{"one", "two"}, "Be concise.")

	assert.Equal(t, "add a testing section", got)
	assert.Equal(t, []string{aicli.OpConsolidate}, ai.ops)
	assert.Equal(t, "Suggest.\n\n**Current Instructions:**\nBe concise.\n\n**Accumulated Memories:**\n### Memory 1\none\n\n### Memory 2\ntwo", ai.requests[0])
}

func TestSuggest_NoInstructions(t *testing.T) {
	ai := &fakeRunner{out: "ok"}

	NewAnalyzer(ai, nil).Suggest(context.Background(), []string{"one"}, "")

	assert.Contains(t, ai.requests[0], "**Current Instructions:**\n(No existing instructions)\n\n")
}

func TestSuggest_NoMemories(t *testing.T) {
	ai := &fakeRunner{}

	assert.Equal(t, "No memories to consolidate.", NewAnalyzer(ai, nil).Suggest(context.Background(), nil, "x"))
	assert.Empty(t, ai.ops)
}

func TestSuggest_FailureFallback(t *testing.T) {
	ai := &fakeRunner{err: errors.New("exit status 1")}

	got := NewAnalyzer(ai, nil).Suggest(context.Background(), []string{"a", "b", "c"}, "")

	assert.Equal(t, "Unable to generate AI suggestions (AI command failed: exit status 1).\n\n"+
		"Please manually review the 3 memory file(s) and consider:\n"+
		"1. Adding recurring patterns to your instructions\n"+
		"2. Documenting new learnings\n"+
		"3. Updating technical approaches based on changes made", got)
}
