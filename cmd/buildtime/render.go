package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/verustcode/buildtime/internal/generator"
	"github.com/verustcode/buildtime/pkg/buildtime"
	"github.com/verustcode/buildtime/pkg/errors"
)

// nowCmd prints the build instant formatted with an optional pattern
var nowCmd = &cobra.Command{
	Use:   "now [pattern]",
	Short: "Print the build instant, optionally formatted with a strftime pattern",
	Long: `Print the build instant. Without a pattern the output is RFC 3339 with a
numeric offset and the shortest exact fractional second (none, or 3, 6 or 9
digits), e.g. 2024-01-01T00:00:00+00:00 or 2021-05-29T06:55:50.418437046+00:00.

Examples:
  buildtime now
  buildtime now '%Y-%m-%d'
  buildtime now --local '%H:%M:%S %Z'`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		provider, err := newProvider()
		if err != nil {
			return err
		}
		local, _ := cmd.Flags().GetBool("local")

		var s string
		if local {
			s, err = provider.Local(args...)
		} else {
			s, err = provider.UTC(args...)
		}
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), s)
		return nil
	},
}

// timestampCmd prints the build instant in the default RFC 3339 form
var timestampCmd = &cobra.Command{
	Use:   "timestamp",
	Short: "Print the build instant as RFC 3339",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		provider, err := newProvider()
		if err != nil {
			return err
		}
		local, _ := cmd.Flags().GetBool("local")

		var s string
		if local {
			s, err = provider.TimestampLocal()
		} else {
			s, err = provider.TimestampUTC()
		}
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), s)
		return nil
	},
}

// ldflagsCmd prints -X flags carrying the rendered constants
var ldflagsCmd = &cobra.Command{
	Use:   "ldflags",
	Short: "Print -X linker flags setting string variables to the build instant",
	Long: `Print -X linker flags that set package-level string variables to the
rendered build instant. Use it when a generated file is not wanted:

  go build -ldflags "$(buildtime ldflags --pkg main --const BuildTime)"`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("const") {
			specs, _ := cmd.Flags().GetStringArray("const")
			if cfg.Constants, err = parseConstants(specs); err != nil {
				return err
			}
		}
		pkgPath, _ := cmd.Flags().GetString("pkg")
		if pkgPath == "" {
			return errors.ErrValidation("--pkg is required")
		}

		provider := buildtime.New(buildtime.WithEpochEnv(cfg.EpochEnv))
		values, err := generator.New(provider).Render(generator.PlanFromConfig(cfg).Constants)
		if err != nil {
			return err
		}

		flags, err := generator.LDFlags(pkgPath, values)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), flags)
		return nil
	},
}

// showCmd prints a report of the resolved instant and configured constants
var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the resolved build instant and the configured constants",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if err := cfg.Validate(); err != nil {
			return err
		}

		provider := buildtime.New(buildtime.WithEpochEnv(cfg.EpochEnv))
		values, err := generator.New(provider).Values(generator.PlanFromConfig(cfg))
		if err != nil {
			return err
		}

		rep, err := newReport(provider)
		if err != nil {
			return err
		}
		rep.Values = values
		rep.Print(cmd.OutOrStdout())
		return nil
	},
}

func init() {
	nowCmd.Flags().BoolP("local", "l", false, "use the build host's local time zone")
	timestampCmd.Flags().BoolP("local", "l", false, "use the build host's local time zone")
	ldflagsCmd.Flags().String("pkg", "", "import path of the package holding the variables (main for the main package)")
	ldflagsCmd.Flags().StringArray("const", nil, "variable as Name[=zone[:format]] (repeatable, replaces configured constants)")
}

// newProvider loads configuration and returns a provider honoring its epoch variable.
func newProvider() (*buildtime.Provider, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	return buildtime.New(buildtime.WithEpochEnv(cfg.EpochEnv)), nil
}
