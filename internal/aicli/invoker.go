package aicli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"

	"github.com/rcliao/memory-cultivation/internal/config"
)

// ErrExecution wraps every failure of the external command: missing
// executable, non-zero exit, or cancellation.
var ErrExecution = errors.New("AI command failed")

// Invoker runs an AI command with a prompt and returns its output.
type Invoker interface {
	Invoke(ctx context.Context, cmd Command, prompt string) (string, error)
}

// ExecInvoker runs commands as child processes. The prompt is written to a
// transient file that becomes the child's stdin, so prompt text never passes
// through argument quoting.
type ExecInvoker struct {
	// TempDir holds transient prompt files; os.TempDir() when empty.
	TempDir string
}

// Invoke runs cmd with prompt on stdin and returns stdout. The prompt file is
// removed before returning on every path.
func (e *ExecInvoker) Invoke(ctx context.Context, cmd Command, prompt string) (string, error) {
	if err := cmd.validate(); err != nil {
		return "", err
	}

	dir := e.TempDir
	if dir == "" {
		dir = os.TempDir()
	}
	promptFile := filepath.Join(dir, fmt.Sprintf("ai-prompt-%s.txt", ulid.Make()))
	if err := os.WriteFile(promptFile, []byte(prompt), 0o600); err != nil {
		return "", fmt.Errorf("write prompt file: %w", err)
	}
	defer os.Remove(promptFile)

	f, err := os.Open(promptFile)
	if err != nil {
		return "", fmt.Errorf("open prompt file: %w", err)
	}
	defer f.Close()

	var stdout, stderr bytes.Buffer
	c := exec.CommandContext(ctx, cmd.Name, cmd.Args...)
	c.Stdin = f
	c.Stdout = &stdout
	c.Stderr = &stderr

	if err := c.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return "", fmt.Errorf("%w: %s: %w (stderr: %s)", ErrExecution, cmd, err, msg)
		}
		return "", fmt.Errorf("%w: %s: %w", ErrExecution, cmd, err)
	}
	return stdout.String(), nil
}

// Client runs configured AI operations.
type Client struct {
	cfg     *config.Config
	invoker Invoker
	logger  *zap.Logger
}

// NewClient creates a client. A nil invoker runs real processes.
func NewClient(cfg *config.Config, invoker Invoker, logger *zap.Logger) *Client {
	if invoker == nil {
		invoker = &ExecInvoker{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{cfg: cfg, invoker: invoker, logger: logger}
}

// Prompt returns the prompt template for op.
func (c *Client) Prompt(op string) string {
	return Prompt(c.cfg, op)
}

// Run builds the command for op and sends it the request text.
func (c *Client) Run(ctx context.Context, op, request string) (string, error) {
	cmd, err := BuildCommand(c.cfg, op)
	if err != nil {
		return "", err
	}

	c.logger.Debug("invoking ai command",
		zap.String("op", op),
		zap.Stringer("command", cmd),
		zap.Int("prompt_bytes", len(request)))

	out, err := c.invoker.Invoke(ctx, cmd, request)
	if err != nil {
		c.logger.Warn("ai command failed", zap.String("op", op), zap.Error(err))
		return "", err
	}
	return out, nil
}
