package blob

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
)

// S3Store implements Store against AWS S3.
type S3Store struct {
	client *s3.Client
}

// NewS3 builds an S3Store from the default AWS credential/region chain.
func NewS3(ctx context.Context) (*S3Store, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return &S3Store{client: s3.NewFromConfig(cfg)}, nil
}

// NewS3FromClient wraps an existing client; used when the caller needs
// custom endpoint or credential wiring.
func NewS3FromClient(client *s3.Client) *S3Store {
	return &S3Store{client: client}
}

func (s *S3Store) FetchGzipped(ctx context.Context, bucket, key string) ([]byte, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, classify(err, bucket, key)
	}
	defer out.Body.Close()

	compressed, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("read s3://%s/%s: %w", bucket, key, err)
	}
	return gunzip(compressed)
}

func (s *S3Store) Exists(ctx context.Context, bucket, key string) (bool, error) {
	_, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		if errors.Is(classify(err, bucket, key), ErrNotFound) {
			return false, nil
		}
		return false, classify(err, bucket, key)
	}
	return true, nil
}

func (s *S3Store) Put(ctx context.Context, bucket, key string, body []byte) error {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
		Body:   bytes.NewReader(body),
	})
	if err != nil {
		return classify(err, bucket, key)
	}
	return nil
}

func (s *S3Store) List(ctx context.Context, bucket, prefix string) ([]string, error) {
	var keys []string
	paginator := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(bucket),
		Prefix: aws.String(prefix),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, classify(err, bucket, prefix)
		}
		for _, obj := range page.Contents {
			keys = append(keys, aws.ToString(obj.Key))
		}
	}
	return keys, nil
}

// classify maps SDK failures onto the package's typed errors. Credential
// failures are only distinguishable by message text in aws-sdk-go-v2, so
// the match is on the stable substrings the SDK emits.
func classify(err error, bucket, key string) error {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NoSuchKey", "NotFound", "NoSuchBucket":
			return fmt.Errorf("s3://%s/%s: %w", bucket, key, ErrNotFound)
		}
	}
	msg := err.Error()
	switch {
	case strings.Contains(msg, "partial credentials"):
		return fmt.Errorf("s3://%s/%s: %w", bucket, key, ErrPartialCredentials)
	case strings.Contains(msg, "failed to retrieve credentials"),
		strings.Contains(msg, "no EC2 IMDS role found"),
		strings.Contains(msg, "static credentials are empty"):
		return fmt.Errorf("s3://%s/%s: %w", bucket, key, ErrNoCredentials)
	}
	return fmt.Errorf("s3://%s/%s: %w", bucket, key, err)
}
