// storage/invoices.go
package storage

import (
	"context"
	"fmt"
	"io"
	"time"

	aws "github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

// InvoiceStore keeps uploaded purchase invoices in an S3-compatible bucket
// (AWS S3 or MinIO). Single bucket, flat key space.
type InvoiceStore struct {
	client  *s3.Client
	presign *s3.PresignClient
	bucket  string
}

type Config struct {
	Bucket   string
	Region   string
	Endpoint string // optional; enables a custom endpoint (e.g. MinIO)
}

func New(ctx context.Context, cfg Config) (*InvoiceStore, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("s3 bucket required")
	}
	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, err
	}
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	return &InvoiceStore{
		client:  client,
		presign: s3.NewPresignClient(client),
		bucket:  cfg.Bucket,
	}, nil
}

// Put stores an invoice file and returns its object key.
func (s *InvoiceStore) Put(ctx context.Context, assetID, filename, contentType string, body io.Reader) (string, error) {
	key := fmt.Sprintf("invoices/%s/%s-%s", assetID, uuid.NewString(), filename)

	input := &s3.PutObjectInput{
		Bucket: &s.bucket,
		Key:    &key,
		Body:   body,
	}
	if contentType != "" {
		input.ContentType = &contentType
	}
	if _, err := s.client.PutObject(ctx, input); err != nil {
		return "", err
	}
	return key, nil
}

// URL returns a presigned GET link for a stored invoice.
func (s *InvoiceStore) URL(ctx context.Context, key string, expiry time.Duration) (string, error) {
	req, err := s.presign.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: &s.bucket,
		Key:    &key,
	}, s3.WithPresignExpires(expiry))
	if err != nil {
		return "", err
	}
	return req.URL, nil
}
