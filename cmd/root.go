package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/leocov-dev/helixmeta/config"
	"github.com/leocov-dev/helixmeta/internal/shared"
)

// settings holds helixmeta.toml, loaded before any command runs
var settings = config.Default()

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:          "helixmeta",
	Short:        "Inspect and validate launcher component metadata",
	Long:         `helixmeta reads the component metadata a game launcher consumes: it validates component files, builds the index of a metadata tree, and resolves maven coordinates against repositories.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level := log.InfoLevel
		if viper.GetBool("verbose") {
			level = log.DebugLevel
		}
		logger := shared.NewLogger(os.Stderr, level)
		cmd.SetContext(shared.WithLogger(cmd.Context(), logger))

		return loadSettings(logger, viper.GetString("config"), cmd.Flags().Changed("config"))
	},
}

func loadSettings(logger *log.Logger, path string, explicit bool) error {
	loaded, err := config.Load(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && !explicit {
			logger.Debug("no settings file, using defaults", "path", path)
			settings = config.Default()
			viper.SetDefault("root", settings.Root)
			return nil
		}
		return fmt.Errorf("failed to load settings: %w", err)
	}
	settings = loaded
	logger.Debug("loaded settings", "path", loaded.GetFilePath())

	if err := settings.Apply(viper.GetViper()); err != nil {
		return fmt.Errorf("failed to apply options from %s: %w", path, err)
	}
	viper.SetDefault("root", settings.Root)
	return nil
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	rootCmd.Version = config.Version
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging")
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))

	rootCmd.PersistentFlags().String("config", config.FileName, "The settings file to use")
	_ = viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))

	rootCmd.PersistentFlags().String("root", "", "The metadata tree to work on (default from the settings file, else the current directory)")
	_ = viper.BindPFlag("root", rootCmd.PersistentFlags().Lookup("root"))

	rootCmd.PersistentFlags().Bool("non-interactive", false, "Never prompt; pick the default answer")
	_ = viper.BindPFlag("non-interactive", rootCmd.PersistentFlags().Lookup("non-interactive"))
}
