// Package storage provides the S3-compatible object store used for PDF and
// image blobs. Single bucket, path-style addressing for self-hosted stores.
package storage

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/habarupress/core/internal/config"
)

// Client wraps an S3 client for blob operations on one bucket.
type Client struct {
	s3           *s3.Client
	bucket       string
	endpoint     string
	customDomain string
	pathStyle    bool
}

// New creates an S3 storage client. Returns (nil, nil) when the config is
// incomplete, so the app can start without object storage; PDF uploads then
// fail with a clear error instead of a crash.
func New(cfg config.S3Config) (*Client, error) {
	if !cfg.Configured() {
		return nil, nil
	}

	endpoint := strings.TrimRight(cfg.Endpoint, "/")

	s3Client := s3.New(s3.Options{
		Region:       cfg.Region,
		BaseEndpoint: aws.String(endpoint),
		Credentials:  credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		UsePathStyle: cfg.PathStyleAccess,
	})

	return &Client{
		s3:           s3Client,
		bucket:       cfg.Bucket,
		endpoint:     endpoint,
		customDomain: strings.TrimRight(cfg.CustomDomain, "/"),
		pathStyle:    cfg.PathStyleAccess,
	}, nil
}

// Upload stores an object and returns its public URL.
func (c *Client) Upload(ctx context.Context, key, contentType string, body io.Reader, size int64) (string, error) {
	_, err := c.s3.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(c.bucket),
		Key:           aws.String(key),
		Body:          body,
		ContentLength: aws.Int64(size),
		ContentType:   aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("s3 upload %s: %w", key, err)
	}
	return c.FileURL(key), nil
}

// Delete removes an object.
func (c *Client) Delete(ctx context.Context, key string) error {
	_, err := c.s3.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("s3 delete %s: %w", key, err)
	}
	return nil
}

// FileURL returns the public URL for an object key. A custom domain, when
// configured, fronts the bucket directly.
func (c *Client) FileURL(key string) string {
	if c.customDomain != "" {
		return c.customDomain + "/" + key
	}
	if c.pathStyle {
		return c.endpoint + "/" + c.bucket + "/" + key
	}
	return virtualHostURL(c.endpoint, c.bucket) + "/" + key
}

// KeyFromURL extracts the object key from one of our public URLs.
// Returns ("", false) for URLs that do not belong to this store.
func (c *Client) KeyFromURL(rawURL string) (string, bool) {
	prefixes := []string{
		c.endpoint + "/" + c.bucket + "/",
		virtualHostURL(c.endpoint, c.bucket) + "/",
	}
	if c.customDomain != "" {
		prefixes = append([]string{c.customDomain + "/"}, prefixes...)
	}
	for _, prefix := range prefixes {
		if strings.HasPrefix(rawURL, prefix) && len(rawURL) > len(prefix) {
			return rawURL[len(prefix):], true
		}
	}
	return "", false
}

// virtualHostURL inserts the bucket as a subdomain of the endpoint host.
func virtualHostURL(endpoint, bucket string) string {
	scheme, host, ok := strings.Cut(endpoint, "://")
	if !ok {
		return endpoint + "/" + bucket
	}
	return scheme + "://" + bucket + "." + host
}
