package storage

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tomtap1997/dashbord-tr/internal/config"
	apperrors "github.com/tomtap1997/dashbord-tr/internal/errors"
	"github.com/tomtap1997/dashbord-tr/internal/synthetic"
	"github.com/tomtap1997/dashbord-tr/pkg/contracts/domain"
)

// Set DASHBOARD_TEST_DATABASE_URL to run against a real Postgres.
func newTestPostgresStore(t *testing.T) *PostgresStore {
	t.Helper()
	url := os.Getenv("DASHBOARD_TEST_DATABASE_URL")
	if url == "" {
		t.Skip("DASHBOARD_TEST_DATABASE_URL not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	store, err := NewPostgresStore(ctx, config.DatabaseConfig{URL: url, MaxOpenConns: 2}, nil)
	require.NoError(t, err)
	t.Cleanup(func() {
		store.db.Exec("DELETE FROM transformer_datasets")
		store.Close()
	})
	_, err = store.db.Exec("DELETE FROM transformer_datasets")
	require.NoError(t, err)
	return store
}

func TestPostgresStore_SaveAndCurrent(t *testing.T) {
	store := newTestPostgresStore(t)
	ctx := context.Background()

	_, err := store.Current(ctx)
	assert.True(t, errors.Is(err, apperrors.ErrNoDataset))

	older := NewDataset(domain.SourceSynthetic, "demo", synthetic.NewSeededGenerator(1).Generate(3), nil, time.Now().Add(-time.Hour))
	newer := NewDataset(domain.SourceUpload, "survey.xlsx", synthetic.NewSeededGenerator(2).Generate(4),
		[]domain.RowDiagnostic{{Row: 1, Reason: domain.ReasonReservedWord, Identifier: "ลำดับที่"}}, time.Now())

	require.NoError(t, store.Save(ctx, newer))
	require.NoError(t, store.Save(ctx, older))

	got, err := store.Current(ctx)
	require.NoError(t, err)
	assert.Equal(t, newer.ID, got.ID)
	assert.Equal(t, newer.Records, got.Records)
	assert.Equal(t, newer.Diagnostics, got.Diagnostics)
	assert.Equal(t, newer.Checksum, got.Checksum)
	assert.WithinDuration(t, newer.LoadedAt, got.LoadedAt, time.Millisecond)
	assert.NoError(t, store.Ping(ctx))
}
