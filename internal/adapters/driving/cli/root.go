// Package cli wires the cartrank core behind cobra commands. The command
// layer only parses flags, builds the pipeline and formats output; every
// decision lives in the core services.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	configfile "github.com/smartcart-labs/cartrank-cli/internal/adapters/driven/config/file"
	"github.com/smartcart-labs/cartrank-cli/internal/adapters/driven/distance/googlemaps"
	"github.com/smartcart-labs/cartrank-cli/internal/adapters/driven/lookup/httpjson"
	"github.com/smartcart-labs/cartrank-cli/internal/adapters/driven/storage/sqlite"
	"github.com/smartcart-labs/cartrank-cli/internal/core/ports/driving"
	"github.com/smartcart-labs/cartrank-cli/internal/core/services"
	"github.com/smartcart-labs/cartrank-cli/internal/logger"
)

var (
	verboseFlag bool
	configPath  string

	cfg    configfile.Config
	ranker driving.Ranker
	store  *sqlite.Store
)

var rootCmd = &cobra.Command{
	Use:   "cartrank",
	Short: "Compare cart cost and travel distance across retail branches",
	Long: `cartrank finds the branches that can satisfy a whole shopping cart,
prices the cart at each one, and ranks the top five by a blend of
normalised price and travel distance.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		logger.SetVerbose(verboseFlag)
		if cmd.Name() == "version" {
			return nil
		}
		return setup()
	},
	PersistentPostRun: func(_ *cobra.Command, _ []string) {
		if store != nil {
			store.Close() //nolint:errcheck
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ~/.cartrank/config.toml)")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// setup loads configuration and assembles the ranking pipeline.
func setup() error {
	path := configPath
	if path == "" {
		var err error
		if path, err = configfile.DefaultPath(); err != nil {
			return err
		}
	}

	var err error
	if cfg, err = configfile.Load(path); err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if cfg.LookupURL == "" {
		return fmt.Errorf("lookup_url is not configured (set it in %s)", path)
	}

	if store, err = sqlite.NewStore(cfg.DataDir); err != nil {
		return fmt.Errorf("opening cache: %w", err)
	}

	policy := cfg.Policy()
	clock := services.SystemClock()
	source := httpjson.NewClient(cfg.LookupURL, nil)
	distances := googlemaps.NewClient(cfg.MapsAPIKey, "", nil)

	refresher := services.NewFetchOrchestrator(
		source, store.ListingStore(), store.PriceStore(), clock, policy.FetchConcurrency)
	resolver := services.NewDistanceResolver(store.DistanceStore(), distances)

	ranker = services.NewRankService(
		store.ListingStore(), store.PriceStore(), refresher, resolver, clock, policy)
	return nil
}
