// Package cmd provides the CLI commands for freight.
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"freight-rate/internal/config"
	"freight-rate/internal/logging"
)

// Version is set at build time
var Version = "0.1.0"

var (
	cfgFile     string
	verbose     bool
	driver      string
	catalogPath string
	outputJSON  bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "freight",
	Short: "Price road freight and compare against market history",
	Long: `freight computes regulated floor prices and suggested commercial prices for
road freight, and estimates market rates from historical manifests.

Examples:
  freight seed configs/catalog.hcl
  freight quote --from 11001 --to 05001 --weight 12000
  freight market Bogota Medellin --weight 12000
  freight distance 11001 76001`,
	SilenceUsage: true,
}

// Execute runs the CLI
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	err := rootCmd.ExecuteContext(ctx)
	logging.Sync()
	return err
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (.json or .yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVar(&driver, "driver", "", "storage driver (memory, sqlite, postgres)")
	rootCmd.PersistentFlags().StringVar(&catalogPath, "catalog", "", "HCL parameter catalog")
	rootCmd.PersistentFlags().BoolVar(&outputJSON, "json", false, "print JSON instead of a table")

	rootCmd.AddCommand(quoteCmd)
	rootCmd.AddCommand(marketCmd)
	rootCmd.AddCommand(distanceCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(importManifestsCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(versionCmd)
}

func initConfig() {
	config.LoadEnv()

	cfg := config.Default()
	if cfgFile != "" {
		loaded, err := config.Load(cfgFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
		cfg = loaded
	}
	cfg.ApplyEnv()

	if driver != "" {
		cfg.Storage.Driver = driver
	}
	if catalogPath != "" {
		cfg.Catalog.Path = catalogPath
	}
	if verbose {
		cfg.Logging.Level = "debug"
	}
	config.Set(cfg)

	if err := logging.Initialize(cfg.Logging); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing logging: %v\n", err)
	}
}

// versionCmd prints version information
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "freight version %s\n", Version)
	},
}
