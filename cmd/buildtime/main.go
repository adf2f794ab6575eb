// Package main is the entry point for the buildtime generator.
// buildtime bakes the build moment into Go programs as string constants, either
// through a go:generate step or through -ldflags -X values.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/verustcode/buildtime/consts"
	"github.com/verustcode/buildtime/internal/config"
	"github.com/verustcode/buildtime/pkg/errors"
	"github.com/verustcode/buildtime/pkg/logger"
)

// Global flags
var (
	configPath string
	logLevel   string
	epochEnv   string
	envFile    string
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "buildtime",
	Short: "buildtime - bake the build timestamp into Go programs",
	Long: `buildtime resolves the build moment once and renders it as string constants.

The instant comes from SOURCE_DATE_EPOCH when it is set (reproducible builds) and
from the system clock otherwise. Every value produced by one invocation derives
from the same instant.

Typical use, next to a package clause:
  //go:generate go run github.com/verustcode/buildtime/cmd/buildtime generate`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%s %s\n", consts.ProjectName, consts.Version)
		fmt.Fprintf(out, "  Build Time: %s\n", consts.BuildTime)
		fmt.Fprintf(out, "  Git Commit: %s\n", consts.GitCommit)
	},
}

// initCmd writes a starter configuration file
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default " + config.DefaultConfigPath,
	RunE: func(cmd *cobra.Command, args []string) error {
		path := configFile()
		force, _ := cmd.Flags().GetBool("force")
		if config.Exists(path) && !force {
			return errors.New(errors.ErrCodeConfigInvalid, path+" already exists (use --force to overwrite)")
		}
		if err := config.Write(path, config.DefaultConfig()); err != nil {
			return errors.ErrInternal("failed to write config", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
		return nil
	},
}

func init() {
	// Disable auto-generated completion command
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file path (default: "+config.DefaultConfigPath+" if present)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&epochEnv, "epoch-env", "", "environment variable pinning the build instant (default: SOURCE_DATE_EPOCH)")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", "", "load variables from this .env file before resolving")

	initCmd.Flags().Bool("force", false, "overwrite an existing config file")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(nowCmd)
	rootCmd.AddCommand(timestampCmd)
	rootCmd.AddCommand(ldflagsCmd)
	rootCmd.AddCommand(showCmd)
}

func main() {
	err := rootCmd.Execute()
	_ = logger.Sync()
	if err != nil {
		fmt.Fprintln(os.Stderr, "buildtime:", err)
		os.Exit(errors.ExitCode(err))
	}
}

func configFile() string {
	if configPath != "" {
		return configPath
	}
	return config.DefaultConfigPath
}

// loadConfig loads the config file (required only when --config was given),
// applies global flags, loads the env file and initializes logging.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configFile(), configPath != "")
	if err != nil {
		return nil, err
	}

	if logLevel != "" {
		cfg.Logging.Level = logLevel
	}
	if epochEnv != "" {
		cfg.EpochEnv = epochEnv
	}
	if envFile != "" {
		cfg.EnvFile = envFile
	}

	if err := logger.Init(cfg.Logging); err != nil {
		return nil, errors.Wrap(errors.ErrCodeConfigInvalid, "failed to initialize logger", err)
	}

	if err := config.LoadEnvFile(cfg.EnvFile); err != nil {
		return nil, errors.Wrap(errors.ErrCodeConfigNotFound, "failed to load env file", err)
	}

	return cfg, nil
}
