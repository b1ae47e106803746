package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/aretw0/checktree/internal/cli"
	"github.com/aretw0/checktree/internal/presentation/tui"
	"github.com/spf13/cobra"
)

var showCmd = &cobra.Command{
	Use:   "show <pack-path>",
	Short: "Describe one pack",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		b, closeStore, _, err := openBrowser(ctx, cmd, nil, false)
		if err != nil {
			return err
		}
		defer closeStore()

		id, err := b.NodeFor(args[0])
		if err != nil {
			return err
		}
		n, err := b.Node(id)
		if err != nil {
			return err
		}

		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(n)
		}

		fmt.Fprintln(cmd.OutOrStdout(), cli.Label(n))
		if n.Pack == nil {
			return nil
		}

		render := tui.PlainRenderer
		if cli.IsTerminal(os.Stdout) {
			render = tui.NewRenderer(cli.TerminalWidth(os.Stdout, 80))
		}
		out, err := render(tui.Describe(*n.Pack))
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), out)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(showCmd)

	showCmd.Flags().Bool("json", false, "Print the node as JSON")
}
