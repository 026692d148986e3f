package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/EO-DataHub/eodhp-staff-directory/internal/appconfig"
	"github.com/EO-DataHub/eodhp-staff-directory/internal/storage/file"
	"github.com/EO-DataHub/eodhp-staff-directory/internal/storage/memory"
	"github.com/EO-DataHub/eodhp-staff-directory/internal/storage/sqlite"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenSelectsDriver(t *testing.T) {
	logger := zerolog.Nop()
	ctx := context.Background()
	dir := t.TempDir()

	s, err := Open(ctx, appconfig.StorageConfig{File: appconfig.FileConfig{Root: dir}}, appconfig.AWSConfig{}, &logger)
	require.NoError(t, err)
	assert.IsType(t, &file.Store{}, s)

	s, err = Open(ctx, appconfig.StorageConfig{Driver: "memory"}, appconfig.AWSConfig{}, &logger)
	require.NoError(t, err)
	assert.IsType(t, &memory.Store{}, s)

	s, err = Open(ctx, appconfig.StorageConfig{
		Driver: "sqlite",
		SQLite: appconfig.SQLiteConfig{Path: filepath.Join(dir, "state.db")},
	}, appconfig.AWSConfig{}, &logger)
	require.NoError(t, err)
	assert.IsType(t, &sqlite.Store{}, s)
	assert.NoError(t, s.Close())
}

func TestOpenRejectsUnknownDriver(t *testing.T) {
	logger := zerolog.Nop()
	_, err := Open(context.Background(), appconfig.StorageConfig{Driver: "tape"}, appconfig.AWSConfig{}, &logger)
	assert.ErrorContains(t, err, "unknown storage driver tape")
}

func TestOpenPostgresRequiresSource(t *testing.T) {
	logger := zerolog.Nop()
	_, err := Open(context.Background(), appconfig.StorageConfig{Driver: "postgres"}, appconfig.AWSConfig{}, &logger)
	assert.Error(t, err)
}
