package publish

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"gallery-pipeline/internal/logging"
)

// corsMaxAgeSeconds controls how long browsers cache the preflight
// response.
const corsMaxAgeSeconds = 86400

// CORSRules builds the bucket rule set for the given origins. The
// viewer only ever reads, so GET and HEAD are the whole surface; ETag
// and the content headers are exposed for tile cache validation.
func CORSRules(origins []string) []types.CORSRule {
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	return []types.CORSRule{
		{
			AllowedMethods: []string{"GET", "HEAD"},
			AllowedOrigins: origins,
			AllowedHeaders: []string{"*"},
			ExposeHeaders:  []string{"ETag", "Content-Length", "Content-Type"},
			MaxAgeSeconds:  aws.Int32(corsMaxAgeSeconds),
		},
	}
}

// ConfigureCORS applies the read-only CORS policy the gallery viewer
// needs to the bucket, replacing any existing rules.
func (c *Client) ConfigureCORS(ctx context.Context, origins []string) error {
	rules := CORSRules(origins)

	_, err := c.s3.PutBucketCors(ctx, &s3.PutBucketCorsInput{
		Bucket: aws.String(c.bucket),
		CORSConfiguration: &types.CORSConfiguration{
			CORSRules: rules,
		},
	})
	if err != nil {
		return fmt.Errorf("configure CORS on %s: %w", c.bucket, err)
	}

	logging.Info("CORS configured on %s for origins %v", c.bucket, rules[0].AllowedOrigins)
	return nil
}
