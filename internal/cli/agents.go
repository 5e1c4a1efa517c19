package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var agentsCmd = &cobra.Command{
	Use:   "agents",
	Short: "List registered agents and their availability",
	RunE:  runAgents,
}

func init() {
	rootCmd.AddCommand(agentsCmd)
}

func runAgents(cmd *cobra.Command, args []string) error {
	rt, err := newRuntime(false)
	if err != nil {
		return err
	}
	defer rt.Close()

	fmt.Fprintf(cmd.OutOrStdout(), "%-12s %-16s %-10s %s\n", "AGENT", "ARG MODE", "STATUS", "TARGET")
	for _, d := range rt.registry.List() {
		status := "missing"
		if d.Available {
			status = "installed"
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%-12s %-16s %-10s %s\n", d.ID, d.ArgMode, status, d.Target)
	}

	return nil
}
