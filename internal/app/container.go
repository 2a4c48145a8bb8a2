package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/yourusername/planrisk/internal/analyzer"
	"github.com/yourusername/planrisk/internal/aws"
	"github.com/yourusername/planrisk/internal/catalog"
	"github.com/yourusername/planrisk/internal/logger"
	"github.com/yourusername/planrisk/internal/models"
	"github.com/yourusername/planrisk/internal/terraform"
)

// StdinRef is the plan reference that reads from standard input
const StdinRef = "-"

// FetcherFactory creates the S3 plan fetcher on first use
type FetcherFactory func(ctx context.Context, region string) (aws.PlanFetcher, error)

// Container holds all the application dependencies
type Container struct {
	catalogs *catalog.Catalogs
	analyzer *analyzer.Analyzer
	parser   terraform.Parser
	stdin    io.Reader
	region   string
	logger   *logger.Logger

	fetcherMu      sync.Mutex
	fetcher        aws.PlanFetcher
	fetcherFactory FetcherFactory
}

// ContainerOption is a function that configures the container
type ContainerOption func(*Container) error

// WithCatalogs sets the resource-type catalogs
func WithCatalogs(catalogs *catalog.Catalogs) ContainerOption {
	return func(c *Container) error {
		if catalogs == nil {
			return fmt.Errorf("catalogs cannot be nil")
		}
		c.catalogs = catalogs
		return nil
	}
}

// WithCatalogFile loads catalogs from a file on top of the built-ins.
// An empty path keeps the current catalogs.
func WithCatalogFile(path string) ContainerOption {
	return func(c *Container) error {
		if path == "" {
			return nil
		}
		catalogs, err := catalog.Load(path)
		if err != nil {
			return err
		}
		c.catalogs = catalogs
		return nil
	}
}

// WithParser allows setting a custom plan parser
func WithParser(parser terraform.Parser) ContainerOption {
	return func(c *Container) error {
		if parser == nil {
			return fmt.Errorf("plan parser cannot be nil")
		}
		c.parser = parser
		return nil
	}
}

// WithPlanFetcher sets the S3 plan fetcher instead of building one from the AWS config
func WithPlanFetcher(fetcher aws.PlanFetcher) ContainerOption {
	return func(c *Container) error {
		if fetcher == nil {
			return fmt.Errorf("plan fetcher cannot be nil")
		}
		c.fetcher = fetcher
		return nil
	}
}

// WithFetcherFactory overrides how the S3 plan fetcher is built
func WithFetcherFactory(factory FetcherFactory) ContainerOption {
	return func(c *Container) error {
		if factory == nil {
			return fmt.Errorf("fetcher factory cannot be nil")
		}
		c.fetcherFactory = factory
		return nil
	}
}

// WithStdin sets the reader used for the "-" plan reference
func WithStdin(r io.Reader) ContainerOption {
	return func(c *Container) error {
		c.stdin = r
		return nil
	}
}

// WithRegion sets the AWS region used for S3 plan references
func WithRegion(region string) ContainerOption {
	return func(c *Container) error {
		c.region = region
		return nil
	}
}

// WithLogger sets the logger
func WithLogger(l *logger.Logger) ContainerOption {
	return func(c *Container) error {
		if l == nil {
			return fmt.Errorf("logger cannot be nil")
		}
		c.logger = l
		return nil
	}
}

// NewContainer creates a new application container with all dependencies.
// AWS clients are only built when an s3:// plan reference is read.
func NewContainer(ctx context.Context, opts ...ContainerOption) (*Container, error) {
	container := &Container{
		catalogs: catalog.Default(),
		parser:   terraform.NewParser(),
		stdin:    os.Stdin,
		logger:   logger.DefaultLogger,
		fetcherFactory: func(ctx context.Context, region string) (aws.PlanFetcher, error) {
			return aws.NewS3ClientWrapper(ctx, region)
		},
	}

	for _, opt := range opts {
		if err := opt(container); err != nil {
			return nil, fmt.Errorf("applying container option: %w", err)
		}
	}

	container.analyzer = analyzer.New(container.catalogs)
	return container, nil
}

// GetCatalogs returns the catalogs in use
func (c *Container) GetCatalogs() *catalog.Catalogs {
	return c.catalogs
}

// GetAnalyzer returns the plan analyzer
func (c *Container) GetAnalyzer() *analyzer.Analyzer {
	return c.analyzer
}

// GetParser returns the plan parser
func (c *Container) GetParser() terraform.Parser {
	return c.parser
}

func (c *Container) planFetcher(ctx context.Context) (aws.PlanFetcher, error) {
	c.fetcherMu.Lock()
	defer c.fetcherMu.Unlock()

	if c.fetcher == nil {
		fetcher, err := c.fetcherFactory(ctx, c.region)
		if err != nil {
			return nil, fmt.Errorf("creating S3 client: %w", err)
		}
		c.fetcher = fetcher
	}
	return c.fetcher, nil
}

// ReadPlan loads and decodes the plan named by ref: "-" or "" for stdin,
// s3://bucket/key for S3, anything else is a local file path.
func (c *Container) ReadPlan(ctx context.Context, ref string) (*models.Plan, error) {
	switch {
	case ref == "" || ref == StdinRef:
		c.logger.Debug("Reading plan from stdin")
		if c.stdin == nil {
			return nil, fmt.Errorf("no stdin available for plan input")
		}
		return c.parser.Parse(c.stdin)

	case aws.IsS3URI(ref):
		loc, err := aws.ParseS3URI(ref)
		if err != nil {
			return nil, err
		}
		fetcher, err := c.planFetcher(ctx)
		if err != nil {
			return nil, err
		}
		data, err := fetcher.FetchPlan(ctx, loc)
		if err != nil {
			return nil, err
		}
		return c.parser.ParseBytes(data)

	default:
		c.logger.Debug("Reading plan file %s", ref)
		return c.parser.ParseFile(ref)
	}
}

// Classify reads the plan named by ref and analyzes it
func (c *Container) Classify(ctx context.Context, ref string) (analyzer.Result, error) {
	plan, err := c.ReadPlan(ctx, ref)
	if err != nil {
		return analyzer.Result{}, fmt.Errorf("reading plan: %w", err)
	}

	result := c.analyzer.Run(plan)
	c.logger.WithFields(map[string]interface{}{
		"resource_changes": len(plan.ResourceChanges),
		"skipped":          result.Skipped,
		"rule":             result.Rule,
	}).Info("Classified plan: risk_level=%s, %s", result.Report.RiskLevel, result.Report.Summary)

	return result, nil
}
