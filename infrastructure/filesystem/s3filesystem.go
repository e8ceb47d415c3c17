package filesystem

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3API is the part of the S3 client used here.
type S3API interface {
	s3.ListObjectsV2APIClient
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Bucket reads punch files from, and writes reports to, an S3 bucket.
type Bucket struct {
	client     S3API
	Name       string
	Prefix     string
	Extensions []string
}

func NewBucket(client S3API, name, prefix string, extensions []string) *Bucket {
	return &Bucket{client: client, Name: name, Prefix: prefix, Extensions: extensions}
}

// ConnectBucket builds a client from the default AWS configuration.
func ConnectBucket(ctx context.Context, name, prefix string, extensions []string) (*Bucket, error) {
	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return NewBucket(s3.NewFromConfig(cfg), name, prefix, extensions), nil
}

// List returns the punch file keys under the prefix, sorted. Keys whose base
// name starts with an underscore are skipped.
func (b *Bucket) List(ctx context.Context) ([]string, error) {
	input := &s3.ListObjectsV2Input{Bucket: aws.String(b.Name)}
	if b.Prefix != "" {
		input.Prefix = aws.String(b.Prefix)
	}
	paginator := s3.NewListObjectsV2Paginator(b.client, input)

	var keys []string
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list objects in bucket %s: %w", b.Name, err)
		}

		for _, obj := range page.Contents {
			if obj.Key == nil {
				continue
			}
			key := *obj.Key
			if strings.HasPrefix(key, "_") || strings.Contains(key, "/_") {
				continue
			}
			if IsPunchFile(key, b.Extensions) {
				keys = append(keys, key)
			}
		}
	}

	sort.Strings(keys)
	return keys, nil
}

func (b *Bucket) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	resp, err := b.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(b.Name),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get object %s from bucket %s: %w", key, b.Name, err)
	}
	return resp.Body, nil
}

func (b *Bucket) WriteFile(ctx context.Context, key string, data []byte, contentType string) error {
	_, err := b.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(b.Name),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return fmt.Errorf("failed to put object %s to bucket %s: %w", key, b.Name, err)
	}
	return nil
}
