// Package storage keeps the dataset the dashboard is currently showing.
// Every load replaces the previous dataset as a whole.
package storage

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/blake2b"

	"github.com/tomtap1997/dashbord-tr/internal/config"
	"github.com/tomtap1997/dashbord-tr/pkg/contracts/domain"
)

// Dataset is one loaded set of transformer records. Stored datasets are
// shared between readers and must not be modified.
type Dataset struct {
	domain.DatasetInfo
	Records     []domain.TransformerRecord `json:"records"`
	Diagnostics []domain.RowDiagnostic     `json:"diagnostics,omitempty"`
}

// DatasetStore holds the current dataset.
type DatasetStore interface {
	// Save makes ds the current dataset.
	Save(ctx context.Context, ds *Dataset) error
	// Current returns the latest dataset or errors.ErrNoDataset.
	Current(ctx context.Context) (*Dataset, error)
	// Ping checks the backing store is reachable.
	Ping(ctx context.Context) error
	Close() error
}

// NewDataset stamps records with an id, checksum and load time.
func NewDataset(source domain.DatasetSource, name string, records []domain.TransformerRecord, diagnostics []domain.RowDiagnostic, loadedAt time.Time) *Dataset {
	if records == nil {
		records = []domain.TransformerRecord{}
	}

	rejected := 0
	for _, d := range diagnostics {
		if d.DropsRow() {
			rejected++
		}
	}

	return &Dataset{
		DatasetInfo: domain.DatasetInfo{
			ID:          uuid.NewString(),
			Source:      source,
			Name:        name,
			Checksum:    Checksum(records),
			RecordCount: len(records),
			Rejected:    rejected,
			LoadedAt:    loadedAt.UTC(),
		},
		Records:     records,
		Diagnostics: diagnostics,
	}
}

// Checksum fingerprints a record collection with BLAKE2b-256 over its JSON
// encoding. Equal collections in equal order share a checksum.
func Checksum(records []domain.TransformerRecord) string {
	h, _ := blake2b.New256(nil)
	enc := json.NewEncoder(h)
	for _, r := range records {
		_ = enc.Encode(r)
	}
	return hex.EncodeToString(h.Sum(nil))
}

// New opens the store selected by configuration: Postgres when a database
// URL is set, memory otherwise.
func New(ctx context.Context, cfg config.DatabaseConfig, logger *slog.Logger) (DatasetStore, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.URL == "" {
		logger.Info("using in-memory dataset store")
		return NewMemoryStore(), nil
	}
	return NewPostgresStore(ctx, cfg, logger)
}
