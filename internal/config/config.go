// Package config holds the settings of a planrisk run, assembled from
// command-line flags with environment fallbacks.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Environment variables consulted when the matching flag is empty
const (
	EnvGitHubOutput = "GITHUB_OUTPUT"
	EnvCatalog      = "PLANRISK_CATALOG"
	EnvAWSRegion    = "AWS_REGION"
)

// Config is the validated configuration of a run
type Config struct {
	PlanRef     string `flag:"plan"`
	Output      string `flag:"output" validate:"oneof=json yaml text"`
	Color       string `flag:"color" validate:"oneof=auto always never"`
	FailOn      string `flag:"fail-on" validate:"omitempty,oneof=LOW MEDIUM HIGH"`
	CIOutput    string `flag:"ci-output"`
	MetricsFile string `flag:"metrics-file" validate:"omitempty,excludesall=*?"`
	CatalogFile string `flag:"catalog" validate:"omitempty,catalogfile"`
	LogLevel    string `flag:"log-level" validate:"oneof=debug info warn warning error fatal"`
	LogFormat   string `flag:"log-format" validate:"oneof=console json"`
	Region      string `flag:"region"`
}

// Default returns the configuration used when no flags are set
func Default() Config {
	return Config{
		PlanRef:   "-",
		Output:    "json",
		Color:     "auto",
		LogLevel:  "info",
		LogFormat: "console",
	}
}

var validate *validator.Validate

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		if name := fld.Tag.Get("flag"); name != "" {
			return "--" + name
		}
		return fld.Name
	})
	_ = validate.RegisterValidation("catalogfile", validateCatalogFile)
}

var catalogExtensions = []string{".hcl", ".json", ".yaml", ".yml"}

func validateCatalogFile(fl validator.FieldLevel) bool {
	ext := strings.ToLower(filepath.Ext(fl.Field().String()))
	for _, allowed := range catalogExtensions {
		if ext == allowed {
			return true
		}
	}
	return false
}

// ApplyEnv fills empty settings from the environment. A nil getenv uses os.Getenv.
func (c *Config) ApplyEnv(getenv func(string) string) {
	if getenv == nil {
		getenv = os.Getenv
	}
	if c.CIOutput == "" {
		c.CIOutput = getenv(EnvGitHubOutput)
	}
	if c.CatalogFile == "" {
		c.CatalogFile = getenv(EnvCatalog)
	}
	if c.Region == "" {
		c.Region = getenv(EnvAWSRegion)
	}
}

// Normalize canonicalizes the case of enumerated settings
func (c *Config) Normalize() {
	c.Output = strings.ToLower(strings.TrimSpace(c.Output))
	c.Color = strings.ToLower(strings.TrimSpace(c.Color))
	c.FailOn = strings.ToUpper(strings.TrimSpace(c.FailOn))
	c.LogLevel = strings.ToLower(strings.TrimSpace(c.LogLevel))
	c.LogFormat = strings.ToLower(strings.TrimSpace(c.LogFormat))
}

// Validate checks the configuration and reports every invalid setting
func (c Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("failed to validate configuration: %w", err)
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, describe(fe))
	}
	return fmt.Errorf("invalid configuration: %s", strings.Join(msgs, "; "))
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s], got %q", fe.Field(), fe.Param(), fe.Value())
	case "catalogfile":
		return fmt.Sprintf("%s must have one of the extensions %s, got %q", fe.Field(), strings.Join(catalogExtensions, " "), fe.Value())
	case "excludesall":
		return fmt.Sprintf("%s must not contain any of %q", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("%s failed %s validation", fe.Field(), fe.Tag())
	}
}
