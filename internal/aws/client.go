// Package aws fetches Terraform plan documents stored in Amazon S3.
//
// Plans are referenced as s3://bucket/key URIs, the way CI pipelines commonly
// hand a `terraform show -json` artifact from the plan job to the approval job.
package aws

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// S3Scheme is the URI prefix of plan references stored in S3
const S3Scheme = "s3://"

// Common errors that callers handle specifically
var (
	ErrInvalidS3URI = errors.New("invalid S3 URI")
	ErrPlanNotFound = errors.New("plan object not found")
	ErrAccessDenied = errors.New("access denied to plan object")
)

// PlanFetcher retrieves raw plan documents
type PlanFetcher interface {
	// FetchPlan returns the bytes of the plan object at loc
	FetchPlan(ctx context.Context, loc S3Location) ([]byte, error)
}

// S3Location identifies an object in S3
type S3Location struct {
	Bucket string
	Key    string
}

// String returns the location as an s3:// URI
func (l S3Location) String() string {
	return S3Scheme + l.Bucket + "/" + l.Key
}

// IsS3URI reports whether ref uses the s3:// scheme
func IsS3URI(ref string) bool {
	return strings.HasPrefix(ref, S3Scheme)
}

// ParseS3URI splits an s3://bucket/key URI. Both bucket and key are required.
func ParseS3URI(uri string) (S3Location, error) {
	if !IsS3URI(uri) {
		return S3Location{}, fmt.Errorf("%w: %q must start with %s", ErrInvalidS3URI, uri, S3Scheme)
	}

	bucket, key, _ := strings.Cut(strings.TrimPrefix(uri, S3Scheme), "/")
	if bucket == "" || key == "" || strings.HasSuffix(key, "/") {
		return S3Location{}, fmt.Errorf("%w: %q must name a bucket and an object key", ErrInvalidS3URI, uri)
	}
	return S3Location{Bucket: bucket, Key: key}, nil
}
