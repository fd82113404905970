package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rcliao/memory-cultivation/internal/store"
)

func init() {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show memory store statistics",
		Args:  cobra.NoArgs,
		Run:   runStats,
	}

	RootCmd.AddCommand(cmd)
}

func runStats(cmd *cobra.Command, args []string) {
	cfg, _, err := loadConfig()
	if err != nil {
		exitErr("load config", err)
	}
	s, err := openStore(cfg)
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	stats, err := store.CollectStats(cmd.Context(), s, cfg.BatchSize())
	if err != nil {
		exitErr("stats", err)
	}

	out := cmd.OutOrStdout()
	if formatFlag == "json" {
		b, _ := json.MarshalIndent(stats, "", "  ")
		fmt.Fprintln(out, string(b))
		return
	}
	fmt.Fprintf(out, "Location:        %s\n", stats.Location)
	fmt.Fprintf(out, "Records:         %d (%d consolidated)\n", stats.TotalRecords, stats.Consolidated)
	fmt.Fprintf(out, "Content bytes:   %d\n", stats.ContentBytes)
	if stats.OldestDate != "" {
		fmt.Fprintf(out, "Date range:      %s to %s\n", stats.OldestDate, stats.NewestDate)
	}
	fmt.Fprintf(out, "Pending batches: %d (batch size %d)\n", stats.PendingBatches, cfg.BatchSize())
}
