package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/checktree"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of checktree",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "checktree version %s\n", strings.TrimSpace(checktree.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
