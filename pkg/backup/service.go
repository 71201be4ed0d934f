// Package backup archives generated reports to S3.
package backup

import (
	"bytes"
	"compress/gzip"
	"context"
	"fmt"
	"path"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/jordanlanch/leadcrm/pkg/logger"
)

// DefaultPrefix is the key prefix for archived reports
const DefaultPrefix = "reports/"

// objectStore is the subset of the S3 API the archive needs
type objectStore interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	ListObjectsV2(ctx context.Context, in *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
	DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// Config holds archive configuration
type Config struct {
	Bucket             string
	Region             string
	AWSAccessKeyID     string
	AWSSecretAccessKey string
	Prefix             string
	RetentionDays      int // archives older than this are deleted; 0 keeps everything
}

// Service uploads reports to S3
type Service struct {
	s3            objectStore
	bucket        string
	prefix        string
	retentionDays int
	logger        logger.Logger
	now           func() time.Time
}

// NewService creates an archive backed by S3. Static credentials are used
// when given, otherwise the default AWS credential chain.
func NewService(ctx context.Context, cfg Config, log logger.Logger) (*Service, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("report archive bucket is required")
	}

	opts := []func(*config.LoadOptions) error{config.WithRegion(cfg.Region)}
	if cfg.AWSAccessKeyID != "" {
		opts = append(opts, config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AWSAccessKeyID,
			cfg.AWSSecretAccessKey,
			"",
		)))
	}
	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return newService(s3.NewFromConfig(awsCfg), cfg, log), nil
}

func newService(store objectStore, cfg Config, log logger.Logger) *Service {
	prefix := cfg.Prefix
	if prefix == "" {
		prefix = DefaultPrefix
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Service{
		s3:            store,
		bucket:        cfg.Bucket,
		prefix:        prefix,
		retentionDays: cfg.RetentionDays,
		logger:        log,
		now:           time.Now,
	}
}

// ArchiveResult describes an uploaded report
type ArchiveResult struct {
	Key            string
	Size           int64
	CompressedSize int64
}

// Archive gzips data and uploads it under the archive prefix, then prunes
// archives past the retention period.
func (s *Service) Archive(ctx context.Context, filename, contentType string, data []byte) (*ArchiveResult, error) {
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if _, err := zw.Write(data); err != nil {
		return nil, fmt.Errorf("failed to compress report: %w", err)
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("failed to compress report: %w", err)
	}

	key := s.prefix + path.Join(s.now().UTC().Format("2006/01/02"), filename) + ".gz"
	result := &ArchiveResult{Key: key, Size: int64(len(data)), CompressedSize: int64(buf.Len())}

	_, err := s.s3.PutObject(ctx, &s3.PutObjectInput{
		Bucket:          aws.String(s.bucket),
		Key:             aws.String(key),
		Body:            bytes.NewReader(buf.Bytes()),
		ContentType:     aws.String(contentType),
		ContentEncoding: aws.String("gzip"),
		StorageClass:    types.StorageClassStandardIa,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upload report to S3: %w", err)
	}
	s.logger.Info("report archived", "bucket", s.bucket, "key", key, "size", result.Size)

	if _, err := s.Cleanup(ctx); err != nil {
		s.logger.Warn("failed to prune archived reports", "error", err)
	}
	return result, nil
}

// ArchiveInfo describes one archived report
type ArchiveInfo struct {
	Key          string
	Size         int64
	LastModified time.Time
}

// List returns every archived report
func (s *Service) List(ctx context.Context) ([]ArchiveInfo, error) {
	var (
		out   []ArchiveInfo
		token *string
	)
	for {
		page, err := s.s3.ListObjectsV2(ctx, &s3.ListObjectsV2Input{
			Bucket:            aws.String(s.bucket),
			Prefix:            aws.String(s.prefix),
			ContinuationToken: token,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to list S3 objects: %w", err)
		}
		for _, obj := range page.Contents {
			info := ArchiveInfo{Key: aws.ToString(obj.Key), Size: aws.ToInt64(obj.Size)}
			if obj.LastModified != nil {
				info.LastModified = *obj.LastModified
			}
			out = append(out, info)
		}
		if !aws.ToBool(page.IsTruncated) {
			return out, nil
		}
		token = page.NextContinuationToken
	}
}

// Cleanup deletes archives older than the retention period and reports how
// many were removed
func (s *Service) Cleanup(ctx context.Context) (int, error) {
	if s.retentionDays <= 0 {
		return 0, nil
	}

	archives, err := s.List(ctx)
	if err != nil {
		return 0, err
	}

	cutoff := s.now().UTC().AddDate(0, 0, -s.retentionDays)
	var deleted int
	for _, a := range archives {
		if !a.LastModified.Before(cutoff) {
			continue
		}
		_, err := s.s3.DeleteObject(ctx, &s3.DeleteObjectInput{
			Bucket: aws.String(s.bucket),
			Key:    aws.String(a.Key),
		})
		if err != nil {
			s.logger.Warn("failed to delete archived report", "key", a.Key, "error", err)
			continue
		}
		deleted++
	}

	if deleted > 0 {
		s.logger.Info("pruned archived reports", "deleted", deleted, "retention_days", s.retentionDays)
	}
	return deleted, nil
}
