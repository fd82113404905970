package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Print a memory record",
		Args:  cobra.ExactArgs(1),
		Run:   runShow,
	}

	RootCmd.AddCommand(cmd)
}

func runShow(cmd *cobra.Command, args []string) {
	cfg, _, err := loadConfig()
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
		exitErr("show", err)
	}
	content, err := s.Read(cmd.Context(), id)
	if err != nil {
		exitErr("show", err)
	}

	if formatFlag == "json" {
		b, _ := json.MarshalIndent(map[string]string{"id": id, "content": content}, "", "  ")
		fmt.Fprintln(cmd.OutOrStdout(), string(b))
		return
	}
	fmt.Fprintln(cmd.OutOrStdout(), content)
}
