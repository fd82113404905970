package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rcliao/memory-cultivation/internal/aicli"
	"github.com/rcliao/memory-cultivation/internal/approval"
	"github.com/rcliao/memory-cultivation/internal/consolidate"
	"github.com/rcliao/memory-cultivation/internal/cultivate"
	"github.com/rcliao/memory-cultivation/internal/store"
	"github.com/rcliao/memory-cultivation/internal/vcs"
)

func init() {
	cmd := &cobra.Command{
		Use:   "cultivate",
		Short: "Consolidate memories and suggest instruction updates",
		Args:  cobra.NoArgs,
		Run:   runCultivate,
	}

	RootCmd.AddCommand(cmd)
}

func runCultivate(cmd *cobra.Command, args []string) {
	cfg, logger, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cultivation error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	s, err := openStore(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cultivation error: %v\n", err)
		os.Exit(1)
	}
	defer s.Close()

	var committer cultivate.Committer
	repo, err := vcs.Open(".")
	switch {
	case err == nil:
		committer = repo
	case errors.Is(err, vcs.ErrNotGitRepo):
		logger.Debug("not in a git repository, cleanup commits disabled")
	default:
		logger.Warn("open repository", zap.Error(err))
	}

	out := cmd.OutOrStdout()
	session := approval.NewSession(cmd.InOrStdin(), out)
	client := aicli.NewClient(cfg, &aicli.ExecInvoker{}, logger)

	orch := cultivate.New(cultivate.Deps{
		Store:        s,
		Instructions: func() (string, error) { return store.Instructions(cfg.InstructionFiles) },
		BatchSize:    cfg.BatchSize(),
		Summarizer:   consolidate.NewSummarizer(s, client, logger),
		Approver:     approval.NewWorkflow(session),
		Persister:    consolidate.NewPersister(s, logger),
		Suggester:    cultivate.NewAnalyzer(client, logger),
		Committer:    committer,
		Session:      session,
		Out:          out,
		ErrOut:       cmd.ErrOrStderr(),
		Logger:       logger,
	})

	if code := orch.Run(cmd.Context()); code != 0 {
		s.Close()
		os.Exit(code)
	}
}
