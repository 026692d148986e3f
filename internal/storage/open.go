// Package storage selects the durable key-value driver backing persistence.
package storage

import (
	"context"
	"fmt"

	"github.com/EO-DataHub/eodhp-staff-directory/db"
	"github.com/EO-DataHub/eodhp-staff-directory/internal/appconfig"
	awsclient "github.com/EO-DataHub/eodhp-staff-directory/internal/aws"
	"github.com/EO-DataHub/eodhp-staff-directory/internal/persistence"
	"github.com/EO-DataHub/eodhp-staff-directory/internal/storage/file"
	"github.com/EO-DataHub/eodhp-staff-directory/internal/storage/memory"
	"github.com/EO-DataHub/eodhp-staff-directory/internal/storage/s3"
	"github.com/EO-DataHub/eodhp-staff-directory/internal/storage/sqlite"
	"github.com/rs/zerolog"
)

// Driver names a storage implementation.
type Driver string

const (
	DriverFile     Driver = "file"
	DriverSQLite   Driver = "sqlite"
	DriverPostgres Driver = "postgres"
	DriverS3       Driver = "s3"
	DriverMemory   Driver = "memory"
)

// Open returns the storage selected by cfg.Driver (default file).
//
// The postgres driver expects its schema to exist; run init-db-migrate first.
func Open(ctx context.Context, cfg appconfig.StorageConfig, aws appconfig.AWSConfig, log *zerolog.Logger) (persistence.Storage, error) {
	driver := Driver(cfg.Driver)
	if driver == "" {
		driver = DriverFile
	}

	log.Debug().Str("driver", string(driver)).Msg("opening state storage")

	switch driver {
	case DriverFile:
		return file.New(cfg.File.Root)
	case DriverSQLite:
		return sqlite.New(ctx, cfg.SQLite.Path)
	case DriverPostgres:
		return OpenPostgres(ctx, cfg.Postgres, aws, log)
	case DriverS3:
		return s3.New(ctx, s3.Config{
			Region:    aws.Region,
			Bucket:    cfg.S3.Bucket,
			Prefix:    cfg.S3.Prefix,
			Endpoint:  cfg.S3.Endpoint,
			PathStyle: cfg.S3.PathStyle,
		})
	case DriverMemory:
		return memory.New(), nil
	default:
		return nil, fmt.Errorf("unknown storage driver %s", driver)
	}
}

// OpenPostgres connects to postgres, reading the connection string from AWS
// Secrets Manager when a secret name is configured.
func OpenPostgres(ctx context.Context, cfg appconfig.PostgresConfig, aws appconfig.AWSConfig, log *zerolog.Logger) (*db.StateDB, error) {
	connStr := cfg.Source
	if cfg.SecretName != "" {
		awsCfg, err := awsclient.LoadAWSConfig(ctx, aws.Region)
		if err != nil {
			return nil, err
		}
		connStr, err = awsclient.SecretString(ctx, awsclient.NewSecretsManagerClient(awsCfg), cfg.SecretName, cfg.SecretField)
		if err != nil {
			log.Error().Err(err).Str("secret", cfg.SecretName).Msg("failed to resolve postgres connection string")
			return nil, err
		}
	}
	return db.NewStateDB(ctx, connStr, log)
}
