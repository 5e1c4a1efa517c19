package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent dispatches",
	RunE:  runHistory,
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "number of entries to show")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	rt, err := newRuntime(false)
	if err != nil {
		return err
	}
	defer rt.Close()

	if rt.store == nil {
		return fmt.Errorf("dispatch history is disabled or unavailable")
	}

	entries, err := rt.store.Recent(cmd.Context(), historyLimit)
	if err != nil {
		return err
	}

	if len(entries) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No dispatches recorded yet.")
		return nil
	}

	for _, e := range entries {
		status := "ok"
		if !e.Succeeded {
			status = fmt.Sprintf("failed (exit %d)", e.ExitCode)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s  %-10s %-16s %s\n",
			e.Timestamp.Format("2006-01-02 15:04:05"), e.AgentID, status, e.Input)
	}

	return nil
}
