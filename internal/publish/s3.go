// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package publish

import (
	"bytes"
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/pdiddy/sota-extractor/pkg/types"
)

const defaultRegion = "us-east-1"

// putObjectAPI is the subset of the S3 client used for publishing.
type putObjectAPI interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Publisher uploads objects to a bucket under an optional key prefix.
type S3Publisher struct {
	Bucket string
	Prefix string

	client putObjectAPI
}

// NewS3Publisher builds a client from the default AWS configuration chain.
// Static credentials and a custom endpoint (MinIO and other S3-compatible
// stores) come from cfg when set.
func NewS3Publisher(ctx context.Context, bucket, prefix string, cfg types.PublishConfig) (*S3Publisher, error) {
	if bucket == "" {
		return nil, fmt.Errorf("s3 bucket required")
	}
	region := cfg.Region
	if region == "" {
		region = defaultRegion
	}

	loadOpts := []func(*config.LoadOptions) error{config.WithRegion(region)}
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		loadOpts = append(loadOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, "")))
	}
	awsCfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("loading AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.PathStyle
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})
	return &S3Publisher{Bucket: bucket, Prefix: prefix, client: client}, nil
}

func (p *S3Publisher) Publish(ctx context.Context, key string, data []byte, contentType string) error {
	input := &s3.PutObjectInput{
		Bucket: aws.String(p.Bucket),
		Key:    aws.String(joinKey(p.Prefix, key)),
		Body:   bytes.NewReader(data),
	}
	if contentType != "" {
		input.ContentType = aws.String(contentType)
	}
	if _, err := p.client.PutObject(ctx, input); err != nil {
		return fmt.Errorf("uploading s3://%s/%s: %w", p.Bucket, *input.Key, err)
	}
	return nil
}

func (p *S3Publisher) Location(key string) string {
	return "s3://" + p.Bucket + "/" + joinKey(p.Prefix, key)
}
