package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"github.com/tomtap1997/dashbord-tr/internal/config"
	apperrors "github.com/tomtap1997/dashbord-tr/internal/errors"
	"github.com/tomtap1997/dashbord-tr/pkg/contracts/domain"
)

const schema = `CREATE TABLE IF NOT EXISTS transformer_datasets (
	id            UUID PRIMARY KEY,
	source        TEXT NOT NULL,
	name          TEXT NOT NULL DEFAULT '',
	checksum      TEXT NOT NULL,
	record_count  INTEGER NOT NULL,
	rejected_rows INTEGER NOT NULL DEFAULT 0,
	loaded_at     TIMESTAMPTZ NOT NULL,
	records       JSONB NOT NULL,
	diagnostics   JSONB NOT NULL DEFAULT '[]'::jsonb
);
CREATE INDEX IF NOT EXISTS transformer_datasets_loaded_at_idx ON transformer_datasets (loaded_at DESC);`

// datasetRow is the table layout of a dataset.
type datasetRow struct {
	domain.DatasetInfo
	Records     []byte `db:"records"`
	Diagnostics []byte `db:"diagnostics"`
}

// PostgresStore persists every loaded dataset and serves the latest one.
type PostgresStore struct {
	db     *sqlx.DB
	logger *slog.Logger
}

// NewPostgresStore connects, sizes the pool and makes sure the table exists.
func NewPostgresStore(ctx context.Context, cfg config.DatabaseConfig, logger *slog.Logger) (*PostgresStore, error) {
	if logger == nil {
		logger = slog.Default()
	}

	db, err := sqlx.ConnectContext(ctx, "postgres", cfg.URL)
	if err != nil {
		return nil, apperrors.NewStorageError("connect to database", err)
	}
	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
		db.SetMaxIdleConns(cfg.MaxOpenConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	store := NewPostgresStoreFromDB(db, logger)
	if err := store.Migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}

	logger.Info("connected to dataset database", slog.Int("max_open_conns", cfg.MaxOpenConns))
	return store, nil
}

// NewPostgresStoreFromDB wraps an open connection pool.
func NewPostgresStoreFromDB(db *sqlx.DB, logger *slog.Logger) *PostgresStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresStore{db: db, logger: logger.With(slog.String("component", "postgres_store"))}
}

// Migrate creates the dataset table.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return apperrors.NewStorageError("create dataset table", err)
	}
	return nil
}

// Save inserts the dataset. The newest load_at wins on Current.
func (s *PostgresStore) Save(ctx context.Context, ds *Dataset) error {
	if ds == nil {
		return apperrors.NewAppValidationError("dataset is nil")
	}

	records, err := json.Marshal(ds.Records)
	if err != nil {
		return fmt.Errorf("failed to marshal records: %w", err)
	}
	diagnostics := ds.Diagnostics
	if diagnostics == nil {
		diagnostics = []domain.RowDiagnostic{}
	}
	diagJSON, err := json.Marshal(diagnostics)
	if err != nil {
		return fmt.Errorf("failed to marshal diagnostics: %w", err)
	}

	row := datasetRow{DatasetInfo: ds.DatasetInfo, Records: records, Diagnostics: diagJSON}
	query := `INSERT INTO transformer_datasets (
		id, source, name, checksum, record_count, rejected_rows, loaded_at, records, diagnostics
	) VALUES (
		:id, :source, :name, :checksum, :record_count, :rejected_rows, :loaded_at, :records, :diagnostics
	)`

	start := time.Now()
	if _, err := s.db.NamedExecContext(ctx, query, row); err != nil {
		return apperrors.NewStorageError("insert dataset", err).WithContext("dataset_id", ds.ID)
	}

	s.logger.DebugContext(ctx, "dataset saved",
		slog.String("dataset_id", ds.ID),
		slog.Int("records", ds.RecordCount),
		slog.Duration("duration", time.Since(start)))
	return nil
}

// Current loads the most recently loaded dataset.
func (s *PostgresStore) Current(ctx context.Context) (*Dataset, error) {
	query := `SELECT id, source, name, checksum, record_count, rejected_rows, loaded_at, records, diagnostics
	FROM transformer_datasets
	ORDER BY loaded_at DESC
	LIMIT 1`

	var row datasetRow
	if err := s.db.GetContext(ctx, &row, query); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.ErrNoDataset
		}
		return nil, apperrors.NewStorageError("query current dataset", err)
	}

	ds := &Dataset{DatasetInfo: row.DatasetInfo}
	if err := json.Unmarshal(row.Records, &ds.Records); err != nil {
		return nil, fmt.Errorf("failed to unmarshal records: %w", err)
	}
	if len(row.Diagnostics) > 0 {
		if err := json.Unmarshal(row.Diagnostics, &ds.Diagnostics); err != nil {
			return nil, fmt.Errorf("failed to unmarshal diagnostics: %w", err)
		}
	}
	ds.LoadedAt = ds.LoadedAt.UTC()
	return ds, nil
}

// Ping checks the connection.
func (s *PostgresStore) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return apperrors.NewStorageError("ping database", err)
	}
	return nil
}

// Close closes the pool.
func (s *PostgresStore) Close() error {
	return s.db.Close()
}
