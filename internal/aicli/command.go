// Package aicli builds and runs the external AI command-line tool.
package aicli

import (
	"errors"
	"strings"

	"github.com/rcliao/memory-cultivation/internal/config"
)

// AI operations with their own prompt and argument overrides.
const (
	OpSummarize        = "summarize"
	OpConsolidate      = "consolidate"
	OpConsolidateBatch = "consolidate-batch"
)

// ErrEmptyCommand is returned when the configured AI command is blank.
var ErrEmptyCommand = errors.New("AI command cannot be empty")

var defaultPrompts = map[string]string{
	OpSummarize: "Review the attached diff and write a brief summary of the changes, focusing on 2 types of changes: " +
		"behavioral (new functionality) and structural (refactors, style changes, etc.)",
	OpConsolidate: "You are reviewing accumulated memories from code commits to help improve AI assistant instructions. " +
		"Review the memories and suggest specific additions or improvements to the instructions.",
	OpConsolidateBatch: "You are consolidating memories captured from code commits. Merge the memories below into one " +
		"concise memory that keeps every distinct behavioral and structural change and drops repetition.",
}

// Command is an executable and its arguments. It is never run through a shell.
type Command struct {
	Name string
	Args []string
}

func (c Command) String() string {
	return strings.Join(append([]string{c.Name}, c.Args...), " ")
}

// BuildCommand resolves the command for op. Operation-specific arguments
// replace the base arguments; arguments embedded in the command string come
// first.
func BuildCommand(cfg *config.Config, op string) (Command, error) {
	ai := config.DefaultAI()
	if cfg != nil {
		ai = cfg.AI
	}

	if strings.TrimSpace(ai.Command) == "" {
		return Command{}, ErrEmptyCommand
	}

	args := ai.CommandArgs
	if o, ok := cfg.Operation(op); ok && o.CommandArgs != nil {
		args = o.CommandArgs
	}

	parts := strings.Fields(ai.Command)
	cmd := Command{Name: parts[0]}
	cmd.Args = append(cmd.Args, parts[1:]...)
	cmd.Args = append(cmd.Args, args...)
	return cmd, nil
}

// Prompt returns the configured prompt for op, else the built-in one, else
// the built-in summarize prompt.
func Prompt(cfg *config.Config, op string) string {
	if o, ok := cfg.Operation(op); ok && o.Prompt != "" {
		return o.Prompt
	}
	if p, ok := defaultPrompts[op]; ok {
		return p
	}
	return defaultPrompts[OpSummarize]
}

func (c Command) validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return ErrEmptyCommand
	}
	return nil
}
