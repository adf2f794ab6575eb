package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/verustcode/buildtime/internal/config"
	"github.com/verustcode/buildtime/internal/generator"
	"github.com/verustcode/buildtime/internal/report"
	"github.com/verustcode/buildtime/pkg/buildtime"
	"github.com/verustcode/buildtime/pkg/idgen"
	"github.com/verustcode/buildtime/pkg/logger"
)

// generateCmd writes the generated constants file
var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Write build timestamp constants into a generated Go file",
	Long: `Resolve the build instant once and write every configured constant into a
generated Go file.

Constants come from the config file, or from repeated --const flags which replace
them. The form is Name[=zone[:format]], for example:
  --const BuildTime
  --const BuildTimeLocal=local
  --const BuildDate=utc:%Y-%m-%d

Nothing is written when the epoch override or a format pattern is invalid.`,
	Args: cobra.NoArgs,
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().String("package", "", "package name of the generated file")
	generateCmd.Flags().StringP("output", "o", "", "generated file path")
	generateCmd.Flags().StringArray("const", nil, "constant as Name[=zone[:format]] (repeatable, replaces configured constants)")
	generateCmd.Flags().String("tag", "", "//go:build constraint for the generated file")
	generateCmd.Flags().BoolP("quiet", "q", false, "do not print the report")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := applyGenerateFlags(cmd, cfg); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	runID := idgen.NewRunID()
	provider := buildtime.New(buildtime.WithEpochEnv(cfg.EpochEnv))
	gen := generator.New(provider, generator.WithLogger(logger.WithRunID(runID).Named("generator")))

	started, _ := idgen.RunStartedAt(runID)
	logger.Debug("Starting generation",
		zap.String(logger.FieldRunID, runID),
		zap.Time("started_at", started),
		zap.String("output", cfg.Output),
		zap.String("package", cfg.Package))

	res, err := gen.Generate(generator.PlanFromConfig(cfg))
	if err != nil {
		return err
	}

	if quiet, _ := cmd.Flags().GetBool("quiet"); quiet {
		return nil
	}

	rep, err := newReport(provider)
	if err != nil {
		return err
	}
	rep.Values = res.Values
	rep.Output = res.Path
	rep.Changed = res.Changed
	rep.Print(cmd.OutOrStdout())
	return nil
}

// applyGenerateFlags overlays explicitly set flags on the loaded configuration.
func applyGenerateFlags(cmd *cobra.Command, cfg *config.Config) error {
	flags := cmd.Flags()
	if flags.Changed("package") {
		cfg.Package, _ = flags.GetString("package")
	}
	if flags.Changed("output") {
		cfg.Output, _ = flags.GetString("output")
	}
	if flags.Changed("tag") {
		cfg.BuildTag, _ = flags.GetString("tag")
	}
	if flags.Changed("const") {
		specs, _ := flags.GetStringArray("const")
		constants, err := parseConstants(specs)
		if err != nil {
			return err
		}
		cfg.Constants = constants
	}
	return nil
}

func parseConstants(specs []string) ([]config.ConstantConfig, error) {
	constants := make([]config.ConstantConfig, 0, len(specs))
	for _, s := range specs {
		cc, err := config.ParseConstant(s)
		if err != nil {
			return nil, err
		}
		constants = append(constants, cc)
	}
	return constants, nil
}

// newReport resolves the instant through provider and fills in both zones.
func newReport(provider *buildtime.Provider) (*report.Report, error) {
	res, err := provider.Resolve()
	if err != nil {
		return nil, err
	}
	utc, err := provider.TimestampUTC()
	if err != nil {
		return nil, err
	}
	local, err := provider.TimestampLocal()
	if err != nil {
		return nil, err
	}
	return &report.Report{Resolution: res, UTC: utc, Local: local}, nil
}
