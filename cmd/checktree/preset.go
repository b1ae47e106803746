package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var presetCmd = &cobra.Command{
	Use:   "preset <pack-path> [name]",
	Short: "List or choose a pack's presets",
	Long: `Without a name, lists the pack's presets by category with the active one marked.
With a name, chooses that preset in --category and saves the snapshot.`,
	Args: cobra.RangeArgs(1, 2),
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
		if len(args) == 2 {
			category, _ := cmd.Flags().GetString("category")
			if err := b.SetPreset(ctx, id, category, args[1]); err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}
		}
		n, err := b.Node(id)
		if err != nil {
			return err
		}
		if n.Pack == nil || len(n.Pack.Presets) == 0 {
			fmt.Fprintf(cmd.OutOrStdout(), "%s has no presets\n", args[0])
			return nil
		}
		out := cmd.OutOrStdout()
		for _, category := range n.Pack.Categories() {
			active := n.Pack.ActivePreset(category)
			var names []string
			for _, pr := range n.Pack.PresetsIn(category) {
				if pr.Name == active {
					names = append(names, "["+pr.Name+"]")
					continue
				}
				names = append(names, pr.Name)
			}
			label := category
			if label == "" {
				label = "(default)"
			}
			fmt.Fprintf(out, "%s: %s\n", label, strings.Join(names, " "))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(presetCmd)

	presetCmd.Flags().String("category", "", "Preset category; empty for the unnamed one")
}
