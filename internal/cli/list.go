package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rcliao/memory-cultivation/internal/store"
)

type listEntry struct {
	ID           string `json:"id"`
	Date         string `json:"date,omitempty"`
	Bytes        int    `json:"bytes"`
	Consolidated bool   `json:"consolidated"`
}

func init() {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List memory records",
		Args:  cobra.NoArgs,
		Run:   runList,
	}

	cmd.Flags().Bool("ids-only", false, "Only output identifiers")

	RootCmd.AddCommand(cmd)
}

func runList(cmd *cobra.Command, args []string) {
	idsOnly, _ := cmd.Flags().GetBool("ids-only")

	cfg, _, err := loadConfig()
	if err != nil {
		exitErr("load config", err)
	}
	s, err := openStore(cfg)
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	records, err := store.ReadAll(cmd.Context(), s)
	if err != nil {
		exitErr("list", err)
	}

	out := cmd.OutOrStdout()
	if idsOnly {
		for _, r := range records {
			fmt.Fprintln(out, r.ID)
		}
		return
	}

	entries := make([]listEntry, len(records))
	for i, r := range records {
		date, _ := r.Date()
		entries[i] = listEntry{
			ID:           r.ID,
			Date:         date,
			Bytes:        len(r.Content),
			Consolidated: store.IsConsolidated(r.ID),
		}
	}

	if formatFlag == "json" {
		b, _ := json.MarshalIndent(entries, "", "  ")
		fmt.Fprintln(out, string(b))
		return
	}
	for _, e := range entries {
		kind := "memory"
		if e.Consolidated {
			kind = "consolidated"
		}
		fmt.Fprintf(out, "%-12s %-10s %6d  %s\n", kind, e.Date, e.Bytes, e.ID)
	}
}
