package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run [instruction...]",
	Short: "Dispatch a natural-language instruction to an agent",
	Long: `Dispatch a natural-language instruction. All words are joined into a
single instruction before classification, so quoting is optional:

  nativeos run create a simple flask app
  nativeos run "memory: find the auth module"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	input := strings.Join(args, " ")

	rt, err := newRuntime(false)
	if err != nil {
		return err
	}
	defer rt.Close()

	resp := rt.dispatcher.Dispatch(cmd.Context(), input)

	fmt.Fprintln(cmd.OutOrStdout(), resp.Title)
	fmt.Fprintln(cmd.OutOrStdout(), strings.Repeat("-", len(resp.Title)))
	fmt.Fprintln(cmd.OutOrStdout(), resp.Body)
	if !resp.Succeeded {
		fmt.Fprintln(cmd.OutOrStdout())
		fmt.Fprintln(cmd.OutOrStdout(), "(failed)")
	}

	return nil
}
