package storage

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/transfermanager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"golang.org/x/sync/errgroup"

	"github.com/ZaninAndrea/tsfile/internal/format"
)

// Uploader ships sealed segment files to an S3 bucket. Uploads of distinct
// files run concurrently; a single file is uploaded by the transfer manager,
// which splits large segments into multipart uploads on its own.
type Uploader struct {
	manager *transfermanager.Client

	bucket      string
	prefix      string
	compress    bool
	concurrency int

	logger log.Logger
}

type UploaderOptions struct {
	Bucket string
	Prefix string

	// Compress wraps each segment in an LZ4 frame before upload and appends
	// ".lz4" to the object key.
	Compress bool

	// Concurrency bounds the number of files in flight at once. Defaults to 4.
	Concurrency int

	// Region and the static credentials are optional; when empty the default
	// AWS credential chain is used.
	Region          string
	AccessKeyID     string
	SecretAccessKey string
}

func NewUploader(ctx context.Context, opts UploaderOptions, logger log.Logger) (*Uploader, error) {
	if opts.Bucket == "" {
		return nil, fmt.Errorf("bucket is required")
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = 4
	}
	if logger == nil {
		logger = log.NewNopLogger()
	}

	var loadOpts []func(*config.LoadOptions) error
	if opts.Region != "" {
		loadOpts = append(loadOpts, config.WithRegion(opts.Region))
	}
	if opts.AccessKeyID != "" {
		loadOpts = append(loadOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(opts.AccessKeyID, opts.SecretAccessKey, ""),
		))
	}

	cfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, err
	}

	return &Uploader{
		manager:     transfermanager.New(s3.NewFromConfig(cfg)),
		bucket:      opts.Bucket,
		prefix:      opts.Prefix,
		compress:    opts.Compress,
		concurrency: opts.Concurrency,
		logger:      logger,
	}, nil
}

// UploadSegment uploads one segment file.
func (u *Uploader) UploadSegment(ctx context.Context, segmentPath string) error {
	data, err := os.ReadFile(segmentPath)
	if err != nil {
		return err
	}

	key := ObjectKey(u.prefix, segmentPath, u.compress)

	var body bytes.Buffer
	if u.compress {
		sw := format.NewStructuredWriter(&body)
		if err := sw.WriteLZ4(data); err != nil {
			return err
		}
	} else {
		body.Write(data)
	}

	_, err = u.manager.UploadObject(ctx, &transfermanager.UploadObjectInput{
		Bucket: &u.bucket,
		Key:    &key,
		Body:   &body,
	})
	if err != nil {
		return fmt.Errorf("uploading %s: %w", segmentPath, err)
	}

	level.Info(u.logger).Log(
		"msg", "segment uploaded",
		"path", segmentPath,
		"key", key,
		"bytes", body.Len(),
	)
	return nil
}

// UploadSegments uploads the given segment files concurrently. The first
// failure cancels the remaining uploads.
func (u *Uploader) UploadSegments(ctx context.Context, segmentPaths []string) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(u.concurrency)

	for _, segmentPath := range segmentPaths {
		g.Go(func() error {
			return u.UploadSegment(ctx, segmentPath)
		})
	}

	return g.Wait()
}

// ObjectKey derives the bucket key for a segment file.
func ObjectKey(prefix, segmentPath string, compressed bool) string {
	key := path.Join(prefix, filepath.Base(segmentPath))
	if compressed {
		key += ".lz4"
	}
	return key
}
