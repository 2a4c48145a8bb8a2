package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/yourusername/planrisk/internal/config"
	"github.com/yourusername/planrisk/internal/logger"
)

// Exit codes returned by the planrisk binary
const (
	ExitOK        = 0
	ExitError     = 1
	ExitThreshold = 2
)

// rootOptions is shared by all subcommands. Flags of every command bind
// into the same Config so it is validated once before any command runs.
type rootOptions struct {
	cfg    config.Config
	getenv func(string) string
	runID  string
	log    *logger.Logger
}

// NewRootCmd creates a new root command
func NewRootCmd() *cobra.Command {
	return newRootCmd(os.Getenv)
}

func newRootCmd(getenv func(string) string) *cobra.Command {
	opts := &rootOptions{
		cfg:    config.Default(),
		getenv: getenv,
	}

	rootCmd := &cobra.Command{
		Use:   "planrisk",
		Short: "Classify Terraform plans by deployment risk",
		Long: `planrisk reads the JSON form of a Terraform plan (terraform show -json)
and classifies it as LOW, MEDIUM or HIGH risk.

Destroyed or replaced resources make a plan HIGH risk, in-place changes and
security-sensitive changes make it MEDIUM, and plans that only add resources
are LOW. Anything above LOW requires manual approval, which CI pipelines can
read from the step outputs written to $GITHUB_OUTPUT.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.setup(cmd)
		},
	}

	rootCmd.PersistentFlags().StringVar(&opts.cfg.CatalogFile, "catalog", "", "Catalog file (.hcl, .json, .yaml) extending the built-in resource types (defaults to PLANRISK_CATALOG)")
	rootCmd.PersistentFlags().StringVar(&opts.cfg.LogLevel, "log-level", opts.cfg.LogLevel, "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&opts.cfg.LogFormat, "log-format", opts.cfg.LogFormat, "Log format (console, json)")
	rootCmd.PersistentFlags().StringVarP(&opts.cfg.Region, "region", "r", "", "AWS region for s3:// plans (defaults to AWS_REGION environment variable)")

	rootCmd.AddCommand(NewClassifyCmd(opts))
	rootCmd.AddCommand(NewCatalogCmd(opts))
	rootCmd.AddCommand(NewVersionCmd())

	return rootCmd
}

// setup applies environment fallbacks, validates the configuration and
// installs the run logger on stderr.
func (o *rootOptions) setup(cmd *cobra.Command) error {
	o.cfg.ApplyEnv(o.getenv)
	o.cfg.Normalize()
	if err := o.cfg.Validate(); err != nil {
		return err
	}

	level, err := logger.ParseLevel(o.cfg.LogLevel)
	if err != nil {
		return err
	}

	o.runID = uuid.NewString()
	o.log = logger.NewLogger(logger.Config{
		Level:  level,
		Output: cmd.ErrOrStderr(),
		Format: logger.Format(o.cfg.LogFormat),
	}).WithFields(map[string]interface{}{
		"run_id": o.runID,
	})
	logger.SetDefault(o.log)
	return nil
}

// ExitCode maps an error returned by the root command to a process exit code
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	var thresholdErr *ThresholdError
	if errors.As(err, &thresholdErr) {
		return ExitThreshold
	}
	return ExitError
}

// Execute runs the root command, reports any error on stderr and exits
// with the mapped exit code
func Execute() {
	os.Exit(execute(NewRootCmd(), os.Stderr))
}

func execute(rootCmd *cobra.Command, stderr io.Writer) int {
	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
	}
	return ExitCode(err)
}
