package main

import (
	"context"
	"encoding/json"

	"github.com/aretw0/checktree"
	"github.com/aretw0/checktree/internal/cli"
	"github.com/spf13/cobra"
)

var treeCmd = &cobra.Command{
	Use:   "tree [dir]",
	Short: "Print the pack tree",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		b, closeStore, _, err := openBrowser(ctx, cmd, args, false)
		if err != nil {
			return err
		}
		defer closeStore()

		if all, _ := cmd.Flags().GetBool("all"); all {
			if err := expandAll(b); err != nil {
				return err
			}
		}

		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(b.Rows())
		}

		title := b.Name
		if title == "" {
			title = "packs"
		}
		cli.PrintTree(cmd.OutOrStdout(), b, title)
		return nil
	},
}

// expandAll opens every group, one level per pass.
func expandAll(b *checktree.Browser) error {
	for {
		changed := false
		for _, r := range b.Rows() {
			if r.HasChildren && !r.Expanded {
				if err := b.Expand(r.ID, true); err != nil {
					return err
				}
				changed = true
			}
		}
		if !changed {
			return nil
		}
	}
}

func init() {
	rootCmd.AddCommand(treeCmd)

	treeCmd.Flags().BoolP("all", "a", false, "Expand every group")
	treeCmd.Flags().Bool("json", false, "Print the visible rows as JSON")
}
