package storage

import (
	"bytes"
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/secmon-lab/riskscope/pkg/domain/interfaces"
	"github.com/secmon-lab/riskscope/pkg/utils/logging"
)

// S3Config addresses an S3-compatible endpoint
type S3Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string `masq:"secret"`
	Region    string
	UseSSL    bool
}

// S3 stores reports in an S3-compatible bucket
type S3 struct {
	mc     *minio.Client
	bucket string
	prefix string
}

var _ interfaces.ReportStorage = &S3{}

func NewS3(cfg S3Config, bucket, prefix string) (*S3, error) {
	if cfg.Endpoint == "" {
		return nil, goerr.New("S3 endpoint is required")
	}
	if bucket == "" {
		return nil, goerr.New("S3 bucket is required")
	}

	mc, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:        credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure:       cfg.UseSSL,
		Region:       cfg.Region,
		BucketLookup: minio.BucketLookupPath,
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create S3 client", goerr.V("endpoint", cfg.Endpoint))
	}

	return &S3{
		mc:     mc,
		bucket: bucket,
		prefix: prefix,
	}, nil
}

// Put uploads data and returns its s3:// URI
func (s *S3) Put(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	name := objectKey(s.prefix, key)

	_, err := s.mc.PutObject(ctx, s.bucket, name, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", goerr.Wrap(err, "failed to put S3 object", goerr.V("bucket", s.bucket), goerr.V("object", name))
	}

	uri := "s3://" + s.bucket + "/" + name
	logging.From(ctx).Info("report stored", "uri", uri, "bytes", len(data))
	return uri, nil
}
