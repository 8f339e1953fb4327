package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-storefront/pkg/di"
	"github.com/goliatone/go-storefront/storefront"
)

// SeedOptions holds flags for the seed command.
type SeedOptions struct {
	*RootOptions
	File string
}

// NewSeedCommand creates the seed command.
func NewSeedCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SeedOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load a catalogue file into the configured source",
		Long: `Load a JSON catalogue into the sql or firestore source.

Example:
  STOREFRONT_SOURCE=sql SQL_DSN=file:store.db storefront seed --file catalog.json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSeed(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.File, "file", "f", "", "catalogue JSON file (required)")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}

func runSeed(cmd *cobra.Command, opts *SeedOptions) error {
	cfg, err := opts.loadConfig()
	if err != nil {
		return err
	}
	logger := opts.logger(cmd.ErrOrStderr())

	catalog, err := storefront.LoadCatalog(opts.File)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read catalogue", err)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	container, err := di.NewContainer(ctx, cfg, di.WithLogger(logger))
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to build storefront", err)
	}
	defer func() {
		if closeErr := container.Close(); closeErr != nil {
			logger.Error("error closing storefront", "error", closeErr)
		}
	}()

	if err := container.Seed(ctx, catalog); err != nil {
		return WrapExitError(ExitFailure, "failed to seed "+cfg.Source, err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Seeded %d collections, %d products, %d pages into %s.\n",
		len(catalog.Collections), len(catalog.Products), len(catalog.Pages), cfg.Source)
	return nil
}
