package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func init() {
	cmd := &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete a memory record",
		Args:  cobra.ExactArgs(1),
		Run:   runRm,
	}

	RootCmd.AddCommand(cmd)
}

func runRm(cmd *cobra.Command, args []string) {
	cfg, logger, err := loadConfig()
	if err != nil {
		exitErr("load config", err)
	}
	s, err := openStore(cfg)
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	id, err := resolveID(cmd, s, args[0])
	if err != nil {
		exitErr("rm", err)
	}
	if err := s.Delete(cmd.Context(), id); err != nil {
		exitErr("rm", err)
	}
	logger.Debug("memory deleted", zap.String("id", id))

	if formatFlag == "json" {
		fmt.Fprintf(cmd.OutOrStdout(), `{"ok":true,"id":%q}`+"\n", id)
		return
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", id)
}
