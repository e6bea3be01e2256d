package storage

import (
	"context"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// Uploader stores an object and returns its public URL
type Uploader interface {
	Upload(ctx context.Context, key, contentType string, body io.Reader) (string, error)
}

// putObjectAPI is the slice of the S3 client we use
type putObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

type S3Storage struct {
	client  putObjectAPI
	bucket  string
	region  string
	baseURL string
}

func NewS3Storage(ctx context.Context, region, bucket, accessKeyID, secretAccessKey, baseURL string) (*S3Storage, error) {
	var cfg aws.Config

	// static keys when given, otherwise the default credential chain
	// (environment, ~/.aws/credentials, IAM role)
	if accessKeyID != "" && secretAccessKey != "" {
		cfg = aws.Config{
			Region:      region,
			Credentials: credentials.NewStaticCredentialsProvider(accessKeyID, secretAccessKey, ""),
		}
	} else {
		var err error
		cfg, err = config.LoadDefaultConfig(ctx, config.WithRegion(region))
		if err != nil {
			return nil, fmt.Errorf("failed to load AWS config: %w", err)
		}
	}

	return newS3Storage(s3.NewFromConfig(cfg), region, bucket, baseURL), nil
}

func newS3Storage(client putObjectAPI, region, bucket, baseURL string) *S3Storage {
	return &S3Storage{
		client:  client,
		bucket:  bucket,
		region:  region,
		baseURL: baseURL,
	}
}

func (s *S3Storage) Upload(ctx context.Context, key, contentType string, body io.Reader) (string, error) {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
		Body:        body,
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload %s: %w", key, err)
	}
	return s.ObjectURL(key), nil
}

// ObjectURL is the CloudFront/custom URL when configured, else the S3 one
func (s *S3Storage) ObjectURL(key string) string {
	if s.baseURL != "" {
		return fmt.Sprintf("%s/%s", s.baseURL, key)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucket, s.region, key)
}
