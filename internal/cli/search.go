package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rcliao/memory-cultivation/internal/store"
)

func init() {
	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search memory records by substring",
		Args:  cobra.ExactArgs(1),
		Run:   runSearch,
	}

	cmd.Flags().IntP("limit", "l", 20, "Max results")

	RootCmd.AddCommand(cmd)
}

func runSearch(cmd *cobra.Command, args []string) {
	limit, _ := cmd.Flags().GetInt("limit")

	cfg, _, err := loadConfig()
	if err != nil {
		exitErr("load config", err)
	}
	s, err := openStore(cfg)
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	results, err := store.Search(cmd.Context(), s, store.SearchParams{Query: args[0], Limit: limit})
	if err != nil {
		exitErr("search", err)
	}

	out := cmd.OutOrStdout()
	if formatFlag == "json" {
		b, _ := json.MarshalIndent(results, "", "  ")
		fmt.Fprintln(out, string(b))
		return
	}
	for _, r := range results {
		if r.Line > 0 {
			fmt.Fprintf(out, "%s:%d: %s\n", r.ID, r.Line, r.MatchLine)
		} else {
			fmt.Fprintln(out, r.ID)
		}
	}
}
