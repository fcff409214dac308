package upload

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path"
	"strings"
	"sync/atomic"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
	"github.com/aws/aws-sdk-go/service/s3/s3manager/s3manageriface"
	"golang.org/x/sync/errgroup"
)

// s3Concurrency bounds the number of objects uploaded at once.
const s3Concurrency = 4

// S3Uploader stores bundles as objects <prefix>/<name>/<relative path>.
type S3Uploader struct {
	bucket   string
	prefix   string
	uploader s3manageriface.UploaderAPI
}

// NewS3Uploader creates an S3Uploader for an s3://bucket/prefix
// destination. Credentials are resolved by the AWS SDK default chain.
func NewS3Uploader(destination, region string) (*S3Uploader, error) {
	bucket, prefix, err := parseS3Destination(destination)
	if err != nil {
		return nil, err
	}

	cfg := &aws.Config{}
	if region != "" {
		cfg.Region = aws.String(region)
	}
	sess, err := session.NewSession(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS session: %w", err)
	}

	return newS3Uploader(bucket, prefix, s3manager.NewUploader(sess)), nil
}

func newS3Uploader(bucket, prefix string, uploader s3manageriface.UploaderAPI) *S3Uploader {
	return &S3Uploader{bucket: bucket, prefix: prefix, uploader: uploader}
}

func parseS3Destination(destination string) (bucket, prefix string, err error) {
	u, err := url.Parse(destination)
	if err != nil || u.Scheme != "s3" || u.Host == "" {
		return "", "", fmt.Errorf("invalid S3 destination %q", destination)
	}
	return u.Host, strings.Trim(u.Path, "/"), nil
}

// Upload stores each file as one object.
func (u *S3Uploader) Upload(ctx context.Context, name string, files []string, rootDir string) (*Result, error) {
	entries, err := resolveEntries(name, files, rootDir)
	if err != nil {
		return nil, err
	}

	base := path.Join(u.prefix, name)
	var size atomic.Int64

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(s3Concurrency)
	for _, e := range entries {
		eg.Go(func() error {
			n, err := u.put(ctx, path.Join(base, e.rel), e.path)
			if err != nil {
				return fmt.Errorf("failed to upload %s: %w", e.rel, err)
			}
			size.Add(n)
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	return &Result{
		Name:     name,
		Size:     size.Load(),
		Location: "s3://" + u.bucket + "/" + base,
		Files:    len(entries),
	}, nil
}

func (u *S3Uploader) put(ctx context.Context, key, file string) (int64, error) {
	f, err := os.Open(file) //nolint:gosec // path checked against the root directory
	if err != nil {
		return 0, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return 0, err
	}

	_, err = u.uploader.UploadWithContext(ctx, &s3manager.UploadInput{
		Bucket:      aws.String(u.bucket),
		Key:         aws.String(key),
		Body:        f,
		ContentType: aws.String(contentType(key)),
	})
	if err != nil {
		return 0, err
	}
	return info.Size(), nil
}

func contentType(key string) string {
	switch path.Ext(key) {
	case ".html":
		return "text/html; charset=utf-8"
	case ".json":
		return "application/json"
	default:
		return "application/octet-stream"
	}
}
