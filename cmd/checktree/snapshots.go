package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/aretw0/checktree/internal/cli"
	"github.com/aretw0/checktree/pkg/ports"
	"github.com/spf13/cobra"
)

var snapshotsCmd = &cobra.Command{
	Use:   "snapshots",
	Short: "Manage saved pack choices",
}

var snapshotsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved snapshots",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		store, closeStore, err := openStore(ctx, cmd)
		if err != nil {
			return err
		}
		defer closeStore()

		lister, ok := store.(ports.Lister)
		if !ok {
			return errors.New("store cannot list snapshots")
		}
		names, err := lister.List(ctx)
		if err != nil {
			return err
		}
		for _, name := range names {
			fmt.Fprintln(cmd.OutOrStdout(), name)
		}
		return nil
	},
}

var snapshotsShowCmd = &cobra.Command{
	Use:   "show [name]",
	Short: "Print a snapshot as JSON",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		store, closeStore, err := openStore(ctx, cmd)
		if err != nil {
			return err
		}
		defer closeStore()

		name, err := snapshotName(cmd, args)
		if err != nil {
			return err
		}
		snap, err := store.Load(ctx, name)
		if err != nil {
			return err
		}
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(snap)
	},
}

var snapshotsDeleteCmd = &cobra.Command{
	Use:   "delete [name]",
	Short: "Delete a snapshot",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		store, closeStore, err := openStore(ctx, cmd)
		if err != nil {
			return err
		}
		defer closeStore()

		name, err := snapshotName(cmd, args)
		if err != nil {
			return err
		}
		if err := store.Delete(ctx, name); err != nil {
			return err
		}
		cli.PrintSystemMessage(cmd.OutOrStdout(), "deleted snapshot %q", name)
		return nil
	},
}

func openStore(ctx context.Context, cmd *cobra.Command) (ports.SnapshotStore, func() error, error) {
	cfg, err := loadConfig(cmd, nil)
	if err != nil {
		return nil, nil, err
	}
	store, closeStore, err := cli.OpenStore(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	if store == nil {
		return nil, nil, fmt.Errorf("no snapshot store configured (store is %q)", cfg.Store)
	}
	return store, closeStore, nil
}

// snapshotName is the positional name, or the configured session.
func snapshotName(cmd *cobra.Command, args []string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	cfg, err := loadConfig(cmd, nil)
	if err != nil {
		return "", err
	}
	return cfg.Session, nil
}

func init() {
	rootCmd.AddCommand(snapshotsCmd)
	snapshotsCmd.AddCommand(snapshotsListCmd, snapshotsShowCmd, snapshotsDeleteCmd)
}
