package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"github.com/yourusername/planrisk/internal/app"
	"github.com/yourusername/planrisk/internal/logger"
	"github.com/yourusername/planrisk/internal/metrics"
	"github.com/yourusername/planrisk/internal/models"
	"github.com/yourusername/planrisk/internal/report"
)

// ThresholdError is returned when a plan's risk level reaches the --fail-on threshold
type ThresholdError struct {
	Level     models.RiskLevel
	Threshold models.RiskLevel
}

func (e *ThresholdError) Error() string {
	return fmt.Sprintf("plan risk level %s meets the --fail-on threshold %s", e.Level, e.Threshold)
}

// NewClassifyCmd creates a new classify command
func NewClassifyCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "classify",
		Short: "Classify a Terraform plan and report its risk level",
		Long: `Classify a Terraform plan by deployment risk.

The plan is the JSON produced by "terraform show -json tfplan". It is read
from a local file, from stdin ("-", the default) or from S3 (s3://bucket/key).

The report is written to stdout. When --ci-output is set, or $GITHUB_OUTPUT is
present, the verdict is also appended there as key=value step outputs.`,
		Example: `  terraform show -json tfplan | planrisk classify
  planrisk classify --plan tfplan.json --output text --fail-on HIGH
  planrisk classify --plan s3://ci-artifacts/prod/tfplan.json --metrics-file planrisk.prom`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runClassify(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.cfg.PlanRef, "plan", "p", opts.cfg.PlanRef, `Plan JSON: file path, "-" for stdin, or s3://bucket/key`)
	cmd.Flags().StringVarP(&opts.cfg.Output, "output", "o", opts.cfg.Output, "Output format (json, yaml, text)")
	cmd.Flags().StringVar(&opts.cfg.Color, "color", opts.cfg.Color, "Color text output (auto, always, never)")
	cmd.Flags().StringVar(&opts.cfg.FailOn, "fail-on", "", "Exit with code 2 when the risk level is at or above this level (LOW, MEDIUM, HIGH)")
	cmd.Flags().StringVar(&opts.cfg.CIOutput, "ci-output", "", "File to append CI step outputs to (defaults to GITHUB_OUTPUT)")
	cmd.Flags().StringVar(&opts.cfg.MetricsFile, "metrics-file", "", "Write Prometheus textfile metrics to this path")

	return cmd
}

func runClassify(cmd *cobra.Command, opts *rootOptions) error {
	cfg := opts.cfg
	log := opts.log

	container, err := app.NewContainer(cmd.Context(),
		app.WithCatalogFile(cfg.CatalogFile),
		app.WithRegion(cfg.Region),
		app.WithStdin(cmd.InOrStdin()),
		app.WithLogger(log),
	)
	if err != nil {
		return fmt.Errorf("failed to initialize: %w", err)
	}

	result, err := container.Classify(cmd.Context(), cfg.PlanRef)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	formatter, err := report.NewFormatter(report.FormatType(cfg.Output),
		report.WithColor(useColor(cfg.Color, out, opts.getenv)))
	if err != nil {
		return err
	}
	rendered, err := formatter.Format(result.Report)
	if err != nil {
		return err
	}
	if _, err := io.WriteString(out, rendered); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	if cfg.CIOutput != "" {
		if err := report.AppendCIOutputs(cfg.CIOutput, result.Report); err != nil {
			return err
		}
		log.Debug("Wrote CI outputs to %s", cfg.CIOutput)
	}

	warnFindings(log, result.Report)

	if cfg.MetricsFile != "" {
		recorder := metrics.NewRecorder()
		recorder.Observe(result.Report, result.Skipped)
		if err := recorder.WriteTextfile(cfg.MetricsFile); err != nil {
			return err
		}
		log.Debug("Wrote metrics to %s", cfg.MetricsFile)
	}

	return checkThreshold(result.Report.RiskLevel, cfg.FailOn)
}

// warnFindings repeats the findings that need a reviewer's attention on the
// log, after the report itself has been written.
func warnFindings(log *logger.Logger, r *models.RiskReport) {
	if r.RiskLevel == models.RiskHigh {
		log.Warn("HIGH risk changes detected. Manual approval recommended.")
		for _, op := range r.DestructiveOperations {
			log.Warn("Destructive operation: %s: %s", op.Address, op.Reason)
		}
	}
	for _, sc := range r.SecurityChanges {
		log.Warn("Security-relevant change: %s (%s)", sc.Address, sc.Type)
	}
}

func checkThreshold(level models.RiskLevel, failOn string) error {
	if failOn == "" {
		return nil
	}
	threshold, ok := models.ParseRiskLevel(failOn)
	if !ok {
		return fmt.Errorf("invalid --fail-on level: %q", failOn)
	}
	if level.AtLeast(threshold) {
		return &ThresholdError{Level: level, Threshold: threshold}
	}
	return nil
}

// useColor resolves the --color mode. auto colors only terminals and
// honors NO_COLOR.
func useColor(mode string, out io.Writer, getenv func(string) string) bool {
	switch mode {
	case "always":
		return true
	case "never":
		return false
	}

	if getenv != nil && getenv("NO_COLOR") != "" {
		return false
	}
	f, ok := out.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
