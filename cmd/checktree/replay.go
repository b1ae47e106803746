package main

import (
	"github.com/aretw0/checktree/internal/cli"
	"github.com/spf13/cobra"
)

var replayCmd = &cobra.Command{
	Use:   "replay <script>",
	Short: "Replay recorded input against the pack tree",
	Long: `Runs a YAML script of input events (clicks, key presses, focus changes)
and expectations against the tree, as if a user had performed them.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sigCtx := cli.NewSignalContext(cmd.Context())
		defer sigCtx.Cancel()

		b, closeStore, _, err := openBrowser(sigCtx, cmd, nil, false)
		if err != nil {
			return err
		}
		defer closeStore()

		_, err = cli.Replay(sigCtx, b, args[0], cmd.OutOrStdout())
		return err
	},
}

func init() {
	rootCmd.AddCommand(replayCmd)
}
