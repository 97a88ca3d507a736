package config

import (
	"context"
	"log/slog"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/riskscope/pkg/domain/interfaces"
	"github.com/secmon-lab/riskscope/pkg/service/storage"
	"github.com/secmon-lab/riskscope/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

// Storage holds CLI flags for report export
type Storage struct {
	backend     string
	bucket      string
	prefix      string
	s3Endpoint  string
	s3AccessKey string
	s3SecretKey string
	s3Region    string
	s3UseSSL    bool
}

func (x *Storage) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "storage-backend",
			Usage:       "Report export backend (gcs, s3); export is disabled when empty",
			Category:    "Storage",
			Destination: &x.backend,
			Sources:     cli.EnvVars("RISKSCOPE_STORAGE_BACKEND"),
		},
		&cli.StringFlag{
			Name:        "storage-bucket",
			Usage:       "Bucket receiving exported reports",
			Category:    "Storage",
			Destination: &x.bucket,
			Sources:     cli.EnvVars("RISKSCOPE_STORAGE_BUCKET"),
		},
		&cli.StringFlag{
			Name:        "storage-prefix",
			Usage:       "Object key prefix for exported reports",
			Category:    "Storage",
			Destination: &x.prefix,
			Sources:     cli.EnvVars("RISKSCOPE_STORAGE_PREFIX"),
		},
		&cli.StringFlag{
			Name:        "s3-endpoint",
			Usage:       "S3-compatible endpoint host, e.g. s3.amazonaws.com or localhost:9000",
			Category:    "Storage",
			Value:       "s3.amazonaws.com",
			Destination: &x.s3Endpoint,
			Sources:     cli.EnvVars("RISKSCOPE_S3_ENDPOINT"),
		},
		&cli.StringFlag{
			Name:        "s3-access-key",
			Usage:       "S3 access key",
			Category:    "Storage",
			Destination: &x.s3AccessKey,
			Sources:     cli.EnvVars("RISKSCOPE_S3_ACCESS_KEY", "AWS_ACCESS_KEY_ID"),
		},
		&cli.StringFlag{
			Name:        "s3-secret-key",
			Usage:       "S3 secret key",
			Category:    "Storage",
			Destination: &x.s3SecretKey,
			Sources:     cli.EnvVars("RISKSCOPE_S3_SECRET_KEY", "AWS_SECRET_ACCESS_KEY"),
		},
		&cli.StringFlag{
			Name:        "s3-region",
			Usage:       "S3 region",
			Category:    "Storage",
			Destination: &x.s3Region,
			Sources:     cli.EnvVars("RISKSCOPE_S3_REGION", "AWS_REGION"),
		},
		&cli.BoolFlag{
			Name:        "s3-use-ssl",
			Usage:       "Use TLS for the S3 endpoint",
			Category:    "Storage",
			Value:       true,
			Destination: &x.s3UseSSL,
			Sources:     cli.EnvVars("RISKSCOPE_S3_USE_SSL"),
		},
	}
}

func (x Storage) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("backend", x.backend),
		slog.String("bucket", x.bucket),
		slog.String("prefix", x.prefix),
		slog.String("s3-endpoint", x.s3Endpoint),
		slog.Int("s3-secret-key.len", len(x.s3SecretKey)),
	)
}

// Configure returns the report storage, or nil when export is disabled
func (x *Storage) Configure(ctx context.Context) (interfaces.ReportStorage, error) {
	switch x.backend {
	case "":
		return nil, nil

	case storage.BackendGCS:
		if x.bucket == "" {
			return nil, goerr.Wrap(ErrMissingSetting, "storage-bucket is required", goerr.V(FlagKey, "storage-bucket"))
		}
		gcs, err := storage.NewGCS(ctx, x.bucket, x.prefix)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to configure GCS storage")
		}
		logging.Default().Info("Report export enabled", "backend", x.backend, "bucket", x.bucket)
		return gcs, nil

	case storage.BackendS3:
		if x.bucket == "" {
			return nil, goerr.Wrap(ErrMissingSetting, "storage-bucket is required", goerr.V(FlagKey, "storage-bucket"))
		}
		s3, err := storage.NewS3(storage.S3Config{
			Endpoint:  x.s3Endpoint,
			AccessKey: x.s3AccessKey,
			SecretKey: x.s3SecretKey,
			Region:    x.s3Region,
			UseSSL:    x.s3UseSSL,
		}, x.bucket, x.prefix)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to configure S3 storage")
		}
		logging.Default().Info("Report export enabled", "backend", x.backend, "bucket", x.bucket)
		return s3, nil

	default:
		return nil, goerr.Wrap(ErrInvalidBackend, "invalid storage backend", goerr.V(BackendKey, x.backend))
	}
}
