package storage

import (
	"bytes"
	"context"
	"io"

	"cloud.google.com/go/storage"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/riskscope/pkg/domain/interfaces"
	"github.com/secmon-lab/riskscope/pkg/utils/logging"
	"google.golang.org/api/option"
)

// GCS stores reports in a Google Cloud Storage bucket
type GCS struct {
	client *storage.Client
	bucket string
	prefix string
}

var _ interfaces.ReportStorage = &GCS{}

func NewGCS(ctx context.Context, bucket, prefix string, opts ...option.ClientOption) (*GCS, error) {
	if bucket == "" {
		return nil, goerr.New("GCS bucket is required")
	}

	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create GCS client", goerr.V("bucket", bucket))
	}

	return &GCS{
		client: client,
		bucket: bucket,
		prefix: prefix,
	}, nil
}

// Put writes data to the bucket and returns its gs:// URI
func (g *GCS) Put(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	name := objectKey(g.prefix, key)

	w := g.client.Bucket(g.bucket).Object(name).NewWriter(ctx)
	w.ContentType = contentType
	w.CacheControl = "no-cache"

	if _, err := io.Copy(w, bytes.NewReader(data)); err != nil {
		_ = w.Close()
		return "", goerr.Wrap(err, "failed to write GCS object", goerr.V("bucket", g.bucket), goerr.V("object", name))
	}
	if err := w.Close(); err != nil {
		return "", goerr.Wrap(err, "failed to close GCS writer", goerr.V("bucket", g.bucket), goerr.V("object", name))
	}

	uri := "gs://" + g.bucket + "/" + name
	logging.From(ctx).Info("report stored", "uri", uri, "bytes", len(data))
	return uri, nil
}

func (g *GCS) Close() error {
	if err := g.client.Close(); err != nil {
		return goerr.Wrap(err, "failed to close GCS client")
	}
	return nil
}
