package publish

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"

	"gallery-pipeline/internal/logging"
)

// Credentials holds the R2 connection settings. They come from the
// environment, never from the config file.
type Credentials struct {
	AccountID       string
	AccessKeyID     string
	AccessKeySecret string
	Bucket          string
}

// CredentialsFromEnv reads the R2 credentials from the environment.
// defaultBucket applies when R2_BUCKET_NAME is unset, so the bucket can
// live in the config file while the secrets stay in the environment.
func CredentialsFromEnv(defaultBucket string) (Credentials, error) {
	creds := Credentials{
		AccountID:       os.Getenv("R2_ACCOUNT_ID"),
		AccessKeyID:     os.Getenv("R2_ACCESS_KEY_ID"),
		AccessKeySecret: os.Getenv("R2_ACCESS_KEY_SECRET"),
		Bucket:          os.Getenv("R2_BUCKET_NAME"),
	}
	if creds.Bucket == "" {
		creds.Bucket = defaultBucket
	}

	var missing []string
	if creds.AccountID == "" {
		missing = append(missing, "R2_ACCOUNT_ID")
	}
	if creds.AccessKeyID == "" {
		missing = append(missing, "R2_ACCESS_KEY_ID")
	}
	if creds.AccessKeySecret == "" {
		missing = append(missing, "R2_ACCESS_KEY_SECRET")
	}
	if creds.Bucket == "" {
		missing = append(missing, "R2_BUCKET_NAME")
	}
	if len(missing) > 0 {
		return Credentials{}, fmt.Errorf("missing R2 settings: %s", strings.Join(missing, ", "))
	}
	return creds, nil
}

// Client wraps the S3-compatible R2 API for gallery publishing.
type Client struct {
	s3     *s3.Client
	bucket string
}

// NewClient creates an R2 client from the given credentials.
func NewClient(ctx context.Context, creds Credentials) (*Client, error) {
	// R2 endpoint format: https://<account_id>.r2.cloudflarestorage.com
	endpoint := fmt.Sprintf("https://%s.r2.cloudflarestorage.com", creds.AccountID)

	r2Resolver := aws.EndpointResolverWithOptionsFunc(func(service, region string, options ...interface{}) (aws.Endpoint, error) {
		return aws.Endpoint{
			URL: endpoint,
		}, nil
	})

	awsCfg, err := config.LoadDefaultConfig(ctx,
		config.WithEndpointResolverWithOptions(r2Resolver),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			creds.AccessKeyID,
			creds.AccessKeySecret,
			"",
		)),
		config.WithRegion("auto"),
	)
	if err != nil {
		return nil, fmt.Errorf("load R2 config: %w", err)
	}

	return &Client{
		s3:     s3.NewFromConfig(awsCfg),
		bucket: creds.Bucket,
	}, nil
}

// Bucket returns the bucket name the client publishes to.
func (c *Client) Bucket() string {
	return c.bucket
}

// VerifyBucket checks the bucket exists and is reachable with the given
// credentials before any upload starts.
func (c *Client) VerifyBucket(ctx context.Context) error {
	_, err := c.s3.HeadBucket(ctx, &s3.HeadBucketInput{
		Bucket: aws.String(c.bucket),
	})
	if err != nil {
		var apiErr smithy.APIError
		if errors.As(err, &apiErr) {
			switch apiErr.ErrorCode() {
			case "NotFound", "NoSuchBucket":
				return fmt.Errorf("bucket %s does not exist", c.bucket)
			case "AccessDenied", "Forbidden":
				return fmt.Errorf("access to bucket %s denied, check the R2 credentials", c.bucket)
			}
		}
		return fmt.Errorf("verify bucket %s: %w", c.bucket, err)
	}
	logging.Debug("bucket %s verified", c.bucket)
	return nil
}

// putObject uploads one object with its content type and cache policy.
func (c *Client) putObject(ctx context.Context, key string, body io.Reader, contentType, cacheControl string) error {
	_, err := c.s3.PutObject(ctx, &s3.PutObjectInput{
		Bucket:       aws.String(c.bucket),
		Key:          aws.String(key),
		Body:         body,
		ContentType:  aws.String(contentType),
		CacheControl: aws.String(cacheControl),
	})
	if err != nil {
		return fmt.Errorf("upload %s: %w", key, err)
	}
	return nil
}
