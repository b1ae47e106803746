package main

import (
	"context"
	"fmt"

	"github.com/aretw0/checktree/internal/cli"
	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check <pack-path>...",
	Short: "Enable packs and save the snapshot",
	Long:  `Sets the checkbox of each pack without the click gesture. Use --off to disable them.`,
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		b, closeStore, _, err := openBrowser(ctx, cmd, nil, false)
		if err != nil {
			return err
		}
		defer closeStore()

		off, _ := cmd.Flags().GetBool("off")
		for _, path := range args {
			id, err := b.NodeFor(path)
			if err != nil {
				return err
			}
			if err := b.SetChecked(ctx, id, !off); err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			n, err := b.Node(id)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), cli.Label(n))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)

	checkCmd.Flags().Bool("off", false, "Disable the packs instead")
}
