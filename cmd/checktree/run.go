package main

import (
	"context"

	"github.com/aretw0/checktree/internal/cli"
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run [dir]",
	Short: "Browse the packs interactively",
	Long: `Opens the pack tree in the terminal. Click or press space to toggle a pack,
d to enable or disable its checkbox, / to filter and q to quit.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sigCtx := cli.NewSignalContext(context.Background())
		defer sigCtx.Cancel()

		b, closeStore, _, err := openBrowser(sigCtx, cmd, args, true)
		if err != nil {
			return err
		}
		defer closeStore()

		watch, _ := cmd.Flags().GetBool("watch")
		inline, _ := cmd.Flags().GetBool("inline")
		return cli.Run(sigCtx, b, cli.RunOptions{
			Watch:  watch,
			Inline: inline,
			Input:  cmd.InOrStdin(),
			Output: cmd.OutOrStdout(),
		})
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().BoolP("watch", "w", false, "Reload the packs when the directory changes")
	runCmd.Flags().Bool("inline", false, "Draw in the main screen instead of the alternate screen")

	rootCmd.RunE = runCmd.RunE
	rootCmd.Args = runCmd.Args
	rootCmd.Flags().AddFlagSet(runCmd.Flags())
}
