// Package objstore uploads files to S3-compatible object storage. The sync
// engine only needs a single capability from it: put a local file under a key
// with a content type and visibility.
package objstore

import (
	"context"
	"fmt"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/openfield/fieldsync/internal/common"
)

// ObjectStore is the storage capability consumed by the uploader.
type ObjectStore interface {
	// Put uploads the file at localPath under key. Public objects get a
	// public-read ACL, everything else stays private.
	Put(ctx context.Context, key, localPath, contentType string, public bool) error
}

// Config holds the object-storage connection settings. BaseEndpoint is
// optional and supports S3-compatible backends such as MinIO.
type Config struct {
	Region         string
	AccessKey      string
	SecretKey      string
	Bucket         string
	BaseEndpoint   string
	ForcePathStyle bool
}

// S3Store implements ObjectStore on top of the AWS SDK v2 S3 client.
type S3Store struct {
	client *s3.Client
	bucket string
}

// NewS3Store builds an S3Store from cfg. Static credentials are used when
// provided; otherwise the default credential chain applies.
func NewS3Store(ctx context.Context, cfg Config) (*S3Store, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.BaseEndpoint != "" {
			o.BaseEndpoint = aws.String(cfg.BaseEndpoint)
		}
		o.UsePathStyle = cfg.ForcePathStyle
	})

	return &S3Store{client: client, bucket: cfg.Bucket}, nil
}

func (s *S3Store) Put(ctx context.Context, key, localPath, contentType string, public bool) error {
	f, err := os.Open(localPath)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", common.ErrorFileMissing, localPath, err)
	}
	defer f.Close()

	acl := types.ObjectCannedACLPrivate
	if public {
		acl = types.ObjectCannedACLPublicRead
	}

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        f,
		ContentType: aws.String(contentType),
		ACL:         acl,
	})
	if err != nil {
		return fmt.Errorf("%w: %s: %v", common.ErrorUploadFailed, key, err)
	}
	return nil
}
