package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rcliao/memory-cultivation/internal/aicli"
	"github.com/rcliao/memory-cultivation/internal/capture"
	"github.com/rcliao/memory-cultivation/internal/vcs"
)

func init() {
	cmd := &cobra.Command{
		Use:   "capture",
		Short: "Save a memory of the staged change (pre-commit hook)",
		Long: "Summarizes the staged diff with the configured AI command and saves it as a " +
			"memory record. Commits on main/master, cultivation commits and empty diffs are skipped.",
		Args: cobra.NoArgs,
		Run:  runCapture,
	}

	RootCmd.AddCommand(cmd)
}

func runCapture(cmd *cobra.Command, args []string) {
	out := cmd.OutOrStdout()

	cfg, logger, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Pre-commit hook error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	repo, err := vcs.Open(".")
	if errors.Is(err, vcs.ErrNotGitRepo) {
		fmt.Fprintln(out, "Not a git repository, skipping memory generation")
		return
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Pre-commit hook error: %v\n", err)
		os.Exit(1)
	}

	s, err := openStore(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Pre-commit hook error: %v\n", err)
		os.Exit(1)
	}
	defer s.Close()

	c := capture.New(repo, s, aicli.NewClient(cfg, &aicli.ExecInvoker{}, logger), capture.Options{
		CultivatePatterns: cfg.Capture.CultivatePatterns,
		DiffExcludes:      cfg.Capture.DiffExcludes,
		Out:               out,
		Logger:            logger,
	})
	if _, err := c.Run(cmd.Context()); err != nil {
		s.Close()
		fmt.Fprintf(os.Stderr, "Pre-commit hook error: %v\n", err)
		os.Exit(1)
	}
}
