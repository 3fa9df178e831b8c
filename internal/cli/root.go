package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/akozhin/epiboost/internal/model"
)

var (
	cfgFile string
	verbose bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "epiboost",
	Short: "Epiboost - boosted-tree modeling of disease-outbreak records",
	Long: `Epiboost models disease-outbreak reports with gradient-boosted trees.

It reads a CSV of outbreak records, derives a binary label from the presence
of the humansAffected count, engineers a numeric feature matrix (leakage
columns dropped, country and species one-hot encoded, is_domestic flag),
splits train/test by a contiguous fraction, trains a boosted-tree classifier,
and reports the held-out misclassification rate with per-feature importance.

Epiboost measures fit on held-out rows, nothing more: the error rate is not
an epidemiological claim.`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long:  `Display the version number and build information for Epiboost.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("epiboost v0.1.0")
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.epiboost/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	// Bind flags to viper
	_ = viper.BindPFlag("output.verbose", rootCmd.PersistentFlags().Lookup("verbose"))

	// Add subcommands
	rootCmd.AddCommand(versionCmd)
}

// initConfig reads in config file and ENV variables
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error finding home directory: %v\n", err)
			return
		}

		// Search for config in home directory
		viper.AddConfigPath(home + "/.epiboost")
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	// Read in environment variables that match EPIBOOST_*
	viper.SetEnvPrefix("EPIBOOST")
	viper.AutomaticEnv()

	// If a config file is found, read it in
	if err := viper.ReadInConfig(); err == nil && verbose {
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
	}
}

// resolveConfig merges defaults, config file and environment into a Config.
func resolveConfig() (*model.Config, error) {
	cfg := model.DefaultConfig()
	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parse configuration: %w", err)
	}
	if cfg.Cache.Dir == "" {
		home, err := os.UserHomeDir()
		if err == nil {
			cfg.Cache.Dir = filepath.Join(home, ".epiboost", "cache")
		} else {
			// No home directory: fall back to a temp cache.
			cfg.Cache.Dir = filepath.Join(os.TempDir(), "epiboost-cache")
		}
	}
	cfg.Output.Verbose = verbose
	return cfg, nil
}
