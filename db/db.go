package db

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"time"

	_ "github.com/lib/pq"
	"github.com/pressly/goose/v3"
	"github.com/rs/zerolog"
)

//go:embed migrations/*.sql
var embedMigrations embed.FS

// StateDB stores persisted snapshots in the postgres kv_store table.
type StateDB struct {
	DB  *sql.DB
	Log *zerolog.Logger
}

// NewStateDB opens and pings a postgres connection
func NewStateDB(ctx context.Context, connStr string, log *zerolog.Logger) (*StateDB, error) {
	if connStr == "" {
		log.Error().Msg("postgres connection string is not set")
		return nil, errors.New("postgres connection string is not set")
	}

	// Open the database connection
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		log.Error().Err(err).Msg("Failed to open database connection")
		return nil, err
	}

	// Check we are actually connected
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		log.Error().Err(err).Msg("Database connection failed during ping")
		db.Close()
		return nil, err
	}

	return &StateDB{DB: db, Log: log}, nil
}

// Migrate brings the schema up to date using the embedded goose migrations.
func (s *StateDB) Migrate() error {
	goose.SetBaseFS(embedMigrations)

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	if err := goose.Up(s.DB, "migrations"); err != nil {
		s.Log.Error().Err(err).Msg("goose migration failed")
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	s.Log.Info().Msg("Tables initialized successfully")
	return nil
}

func (s *StateDB) Close() error {
	if s.DB == nil {
		return nil
	}
	if err := s.DB.Close(); err != nil {
		return err
	}
	s.Log.Info().Msg("database connection closed")
	s.DB = nil
	return nil
}
