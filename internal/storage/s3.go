// Package storage archives finished export artifacts to S3.
package storage

import (
	"bytes"
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	appconfig "github.com/leadforge/leadforge/internal/config"
)

// s3API is the slice of the S3 client the archive uses.
type s3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// ExportArchive stores CSV export bodies in an S3 bucket. It satisfies
// leads.Archiver.
type ExportArchive struct {
	client s3API
	bucket string
	region string
}

// NewExportArchive creates an S3-backed archive from config.
func NewExportArchive(ctx context.Context, cfg appconfig.StorageConfig) (*ExportArchive, error) {
	var awsCfg aws.Config
	var err error

	if profile := cfg.GetAWSProfile(); profile != "" {
		awsCfg, err = awsconfig.LoadDefaultConfig(ctx,
			awsconfig.WithRegion(cfg.AWSRegion),
			awsconfig.WithSharedConfigProfile(profile),
		)
	} else {
		awsCfg, err = awsconfig.LoadDefaultConfig(ctx,
			awsconfig.WithRegion(cfg.AWSRegion),
		)
	}
	if err != nil {
		return nil, fmt.Errorf("loading AWS config: %w", err)
	}

	return &ExportArchive{
		client: s3.NewFromConfig(awsCfg),
		bucket: cfg.S3Bucket,
		region: cfg.AWSRegion,
	}, nil
}

// ArchiveExport stores one CSV body under the given key and returns the
// object's s3:// location.
func (a *ExportArchive) ArchiveExport(ctx context.Context, userID, key string, body []byte) (string, error) {
	_, err := a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("text/csv"),
		Metadata: map[string]string{
			"user-id": userID,
		},
	})
	if err != nil {
		return "", fmt.Errorf("putting export to S3: %w", err)
	}
	return fmt.Sprintf("s3://%s/%s", a.bucket, key), nil
}
