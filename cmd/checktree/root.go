package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/aretw0/checktree"
	"github.com/aretw0/checktree/internal/cli"
	"github.com/aretw0/checktree/internal/config"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "checktree",
	Short: "Browse and toggle graphic packs in a checkable tree",
	Long: `checktree shows a directory of graphic packs as a tree of checkboxes.
Choices are saved as named snapshots in a file, memory or redis store.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	addConfigFlags(rootCmd)
}

func addConfigFlags(cmd *cobra.Command) {
	pf := cmd.PersistentFlags()
	pf.String("config", config.DefaultFile, "Configuration file (YAML or JSON)")
	pf.String("dir", "", "Directory containing the graphic packs")
	pf.String("store", "", "Snapshot store: none, memory, file or redis")
	pf.String("redis", "", "Redis address (with --store=redis)")
	pf.String("session", "", "Snapshot name")
	pf.String("filter", "", "Show only packs whose path or title id contains this")
	pf.String("log-level", "", "Log level: debug, info, warn or error")
	pf.String("log-format", "", "Log format: text or json")
}

// loadConfig reads the configuration file, then applies the flags that were set.
// A positional argument stands for --dir.
func loadConfig(cmd *cobra.Command, args []string) (config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return cfg, err
	}

	for flag, dst := range map[string]*string{
		"dir":        &cfg.Dir,
		"store":      &cfg.Store,
		"redis":      &cfg.Redis.Addr,
		"session":    &cfg.Session,
		"filter":     &cfg.Filter,
		"log-level":  &cfg.LogLevel,
		"log-format": &cfg.LogFormat,
	} {
		if cmd.Flags().Changed(flag) {
			*dst, _ = cmd.Flags().GetString(flag)
		}
	}
	if !cmd.Flags().Changed("dir") && len(args) > 0 {
		cfg.Dir = args[0]
	}
	return cfg, cfg.Validate()
}

// openBrowser loads the configuration and opens the browser it describes.
// quiet silences logging below the debug level, for commands that own the terminal.
func openBrowser(ctx context.Context, cmd *cobra.Command, args []string, quiet bool, extra ...checktree.Option) (*checktree.Browser, func() error, *slog.Logger, error) {
	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return nil, nil, nil, err
	}
	level, _ := cfg.Level()
	logger := cli.NewLogger(level, cfg.LogFormat, quiet && level > slog.LevelDebug)

	b, closeStore, err := cli.NewBrowser(ctx, cfg, logger, extra...)
	if err != nil {
		return nil, nil, nil, err
	}
	return b, closeStore, logger, nil
}
