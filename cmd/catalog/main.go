package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-catalog-cache/pkg/di"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:           "catalog",
		Short:         "Music catalog backed by a bounded FIFO read cache",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to a YAML config file (default ./catalog.yaml)")

	open := func(ctx context.Context) (*di.Container, error) {
		cfg, err := di.LoadConfig(configPath)
		if err != nil {
			return nil, err
		}
		return di.NewContainer(ctx, cfg)
	}

	root.AddCommand(
		newMigrateCmd(open),
		newSeedCmd(open),
		newShowCmd(open),
	)
	return root
}

type openFunc func(ctx context.Context) (*di.Container, error)
