package cultivate

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/rcliao/memory-cultivation/internal/aicli"
	"github.com/rcliao/memory-cultivation/internal/consolidate"
)

// Analyzer asks the AI tool how the instruction files should absorb the
// accumulated memories.
type Analyzer struct {
	ai     consolidate.Runner
	logger *zap.Logger
}

// NewAnalyzer creates an analyzer.
func NewAnalyzer(ai consolidate.Runner, logger *zap.Logger) *Analyzer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Analyzer{ai: ai, logger: logger}
}

// Suggest returns the AI's suggestions, or a manual review checklist when the
// AI command fails.
func (a *Analyzer) Suggest(ctx context.Context, memories []string, instructions string) string {
	if len(memories) == 0 {
		return "No memories to consolidate."
	}
	if instructions == "" {
		instructions = "(No existing instructions)"
	}

	request := a.ai.Prompt(aicli.OpConsolidate) +
		"\n\n**Current Instructions:**\n" + instructions +
		"\n\n**Accumulated Memories:**\n" + consolidate.FormatMemories(memories)

	out, err := a.ai.Run(ctx, aicli.OpConsolidate, request)
	if err != nil {
		a.logger.Warn("suggestions unavailable", zap.Error(err))
		return fmt.Sprintf("Unable to generate AI suggestions (AI command failed: %v).\n\n"+
			"Please manually review the %d memory file(s) and consider:\n"+
			"1. Adding recurring patterns to your instructions\n"+
			"2. Documenting new learnings\n"+
			"3. Updating technical approaches based on changes made", err, len(memories))
	}
	return strings.TrimSpace(out)
}
