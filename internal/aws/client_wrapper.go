package aws

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/aws/retry"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	"github.com/yourusername/planrisk/internal/logger"
)

// S3GetObjectAPI defines the interface for the GetObject API
// This interface allows us to mock the S3 client in tests
type S3GetObjectAPI interface {
	GetObject(
		ctx context.Context,
		params *s3.GetObjectInput,
		optFns ...func(*s3.Options),
	) (*s3.GetObjectOutput, error)
}

// S3ClientWrapper wraps the AWS S3 client to make it more testable
type S3ClientWrapper struct {
	Client S3GetObjectAPI
	logger *logger.Logger
}

// NewS3ClientWrapper creates a new S3 client wrapper with the default AWS
// configuration. An empty region defers to the environment and shared config.
func NewS3ClientWrapper(ctx context.Context, region string) (*S3ClientWrapper, error) {
	opts := []func(*config.LoadOptions) error{
		config.WithRetryer(func() aws.Retryer {
			return retry.NewStandard(func(so *retry.StandardOptions) {
				so.MaxAttempts = 5
			})
		}),
	}
	if region != "" {
		opts = append(opts, config.WithRegion(region))
	}

	cfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return NewS3ClientWrapperWithClient(s3.NewFromConfig(cfg), cfg.Region), nil
}

// NewS3ClientWrapperWithClient wraps an existing GetObject implementation
func NewS3ClientWrapperWithClient(client S3GetObjectAPI, region string) *S3ClientWrapper {
	log := logger.WithFields(map[string]interface{}{
		"component": "s3-plan-source",
		"region":    region,
	})
	log.Debug("Initialized AWS S3 client")

	return &S3ClientWrapper{
		Client: client,
		logger: log,
	}
}

// FetchPlan downloads the plan object at loc
func (w *S3ClientWrapper) FetchPlan(ctx context.Context, loc S3Location) ([]byte, error) {
	if loc.Bucket == "" || loc.Key == "" {
		return nil, fmt.Errorf("%w: bucket and key cannot be empty", ErrInvalidS3URI)
	}

	log := w.logger.WithFields(map[string]interface{}{
		"plan": loc.String(),
	})
	log.Debug("Fetching plan object")

	result, err := w.Client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(loc.Bucket),
		Key:    aws.String(loc.Key),
	})
	if err != nil {
		var nsk *s3types.NoSuchKey
		var nsb *s3types.NoSuchBucket
		if errors.As(err, &nsk) || errors.As(err, &nsb) {
			log.Warn("Plan object not found")
			return nil, fmt.Errorf("%w: %s", ErrPlanNotFound, loc)
		}

		var apiErr smithy.APIError
		if errors.As(err, &apiErr) {
			switch apiErr.ErrorCode() {
			case "AccessDenied", "Forbidden":
				log.Error("Access denied when fetching plan object")
				return nil, fmt.Errorf("%w: %s: %v", ErrAccessDenied, loc, err)
			case "NotFound":
				log.Warn("Plan object not found")
				return nil, fmt.Errorf("%w: %s", ErrPlanNotFound, loc)
			}
		}

		log.Error("Failed to fetch plan object: %v", err)
		return nil, fmt.Errorf("failed to fetch %s: %w", loc, err)
	}
	defer result.Body.Close()

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(result.Body); err != nil {
		return nil, fmt.Errorf("failed to read S3 object body: %w", err)
	}

	log.Info("Fetched plan object: bytes=%d", buf.Len())
	return buf.Bytes(), nil
}
