package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	tfjson "github.com/hashicorp/terraform-json"
	"github.com/muesli/termenv"
	"github.com/yourusername/planrisk/internal/models"
	"gopkg.in/yaml.v3"
)

// Formatter defines the interface for formatting risk reports
type Formatter interface {
	Format(report *models.RiskReport) (string, error)
}

// FormatType represents the output format for the report
type FormatType string

const (
	// FormatJSON outputs the report in JSON format
	FormatJSON FormatType = "json"
	// FormatYAML outputs the report in YAML format
	FormatYAML FormatType = "yaml"
	// FormatText outputs the report in human-readable text format
	FormatText FormatType = "text"
)

// FormatTypes lists the supported formats
var FormatTypes = []FormatType{FormatJSON, FormatYAML, FormatText}

// Option configures a formatter
type Option func(*formatOptions)

type formatOptions struct {
	color bool
}

// WithColor enables ANSI styling in the text format. Other formats ignore it.
func WithColor(enabled bool) Option {
	return func(o *formatOptions) {
		o.color = enabled
	}
}

// NewFormatter creates a new formatter based on the specified format
func NewFormatter(format FormatType, opts ...Option) (Formatter, error) {
	var o formatOptions
	for _, opt := range opts {
		opt(&o)
	}

	switch format {
	case FormatJSON:
		return &jsonFormatter{}, nil
	case FormatYAML:
		return &yamlFormatter{}, nil
	case FormatText:
		return newTextFormatter(o.color), nil
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
}

type jsonFormatter struct{}

func (f *jsonFormatter) Format(report *models.RiskReport) (string, error) {
	if report == nil {
		return "", fmt.Errorf("cannot format nil report")
	}

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal report to JSON: %w", err)
	}
	return string(data) + "\n", nil
}

type yamlFormatter struct{}

func (f *yamlFormatter) Format(report *models.RiskReport) (string, error) {
	if report == nil {
		return "", fmt.Errorf("cannot format nil report")
	}

	data, err := yaml.Marshal(report)
	if err != nil {
		return "", fmt.Errorf("failed to marshal report to YAML: %w", err)
	}
	return string(data), nil
}

type textStyles struct {
	title  lipgloss.Style
	label  lipgloss.Style
	muted  lipgloss.Style
	levels map[models.RiskLevel]lipgloss.Style
}

type textFormatter struct {
	styles textStyles
}

func newTextFormatter(color bool) *textFormatter {
	profile := termenv.Ascii
	if color {
		profile = termenv.ANSI256
	}
	r := lipgloss.NewRenderer(io.Discard)
	r.SetColorProfile(profile)

	return &textFormatter{
		styles: textStyles{
			title: r.NewStyle().Bold(true),
			label: r.NewStyle().Bold(true),
			muted: r.NewStyle().Foreground(lipgloss.Color("#7F8C8D")),
			levels: map[models.RiskLevel]lipgloss.Style{
				models.RiskLow:    r.NewStyle().Bold(true).Foreground(lipgloss.Color("#2ECC71")),
				models.RiskMedium: r.NewStyle().Bold(true).Foreground(lipgloss.Color("#F4D03F")),
				models.RiskHigh:   r.NewStyle().Bold(true).Foreground(lipgloss.Color("#E74C3C")),
			},
		},
	}
}

func (f *textFormatter) renderLevel(level models.RiskLevel) string {
	if style, ok := f.styles.levels[level]; ok {
		return style.Render(string(level))
	}
	return string(level)
}

func (f *textFormatter) Format(report *models.RiskReport) (string, error) {
	if report == nil {
		return "No report data available\n", nil
	}

	var sb strings.Builder
	s := f.styles

	sb.WriteString(s.title.Render("Terraform Plan Risk Report") + "\n")
	sb.WriteString(fmt.Sprintf("%s %s\n", s.label.Render("Risk Level:"), f.renderLevel(report.RiskLevel)))
	sb.WriteString(fmt.Sprintf("%s %t\n", s.label.Render("Requires Approval:"), report.RequiresApproval))
	sb.WriteString(fmt.Sprintf("%s %s\n", s.label.Render("Summary:"), report.Summary))

	if len(report.DestructiveOperations) > 0 {
		sb.WriteString(fmt.Sprintf("\nDestructive operations (%d):\n", len(report.DestructiveOperations)))
		for i, op := range report.DestructiveOperations {
			sb.WriteString(fmt.Sprintf("%d. %s (%s) [%s]\n", i+1, op.Address, op.Type, formatActions(op.Actions)))
			sb.WriteString(fmt.Sprintf("   Reason: %s\n", op.Reason))
		}
	}

	if len(report.SecurityChanges) > 0 {
		sb.WriteString(fmt.Sprintf("\nSecurity changes (%d):\n", len(report.SecurityChanges)))
		for i, sc := range report.SecurityChanges {
			sb.WriteString(fmt.Sprintf("%d. %s (%s) [%s]\n", i+1, sc.Address, sc.Type, formatActions(sc.Actions)))
		}
	}

	if report.Counts().Total() == 0 {
		sb.WriteString("\nNo actionable changes in plan.\n")
		return sb.String(), nil
	}

	sb.WriteString("\nChanges:\n")
	for _, c := range models.Categories {
		details := report.Details.For(c)
		if len(details) == 0 {
			continue
		}
		sb.WriteString(fmt.Sprintf("  %s (%d)\n", c, len(details)))
		for _, d := range details {
			sb.WriteString(fmt.Sprintf("    - %s %s\n", d.Address, s.muted.Render(d.Type)))
		}
	}

	return sb.String(), nil
}

func formatActions(actions tfjson.Actions) string {
	if len(actions) == 0 {
		return "<none>"
	}
	parts := make([]string, len(actions))
	for i, a := range actions {
		parts[i] = string(a)
	}
	return strings.Join(parts, ", ")
}
