package catalog

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"

	"github.com/m-mizutani/goerr/v2"

	"github.com/barriolab/vecino/pkg/domain/model"
	"github.com/barriolab/vecino/pkg/utils/logging"
	"github.com/barriolab/vecino/pkg/utils/safe"
)

// Store holds the catalog in memory. Records are loaded once at startup
// and treated as immutable afterwards, so reads need no locking.
type Store struct {
	records []*model.Record
	byID    map[model.RecordID]*model.Record
}

// Load reads a catalog JSON file: a flat array of records with Spanish
// field names. Every record is validated and IDs must be unique.
func Load(ctx context.Context, path string) (*Store, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to open catalog file", goerr.V("path", path))
	}
	defer safe.Close(ctx, f)

	var records []*model.Record
	if err := json.NewDecoder(f).Decode(&records); err != nil {
		return nil, goerr.Wrap(err, "failed to decode catalog JSON", goerr.V("path", path))
	}

	store, err := New(records)
	if err != nil {
		return nil, err
	}

	logging.From(ctx).Info("catalog loaded",
		slog.String("path", path),
		slog.Int("records", len(records)),
	)
	return store, nil
}

// New builds a store from already-decoded records.
func New(records []*model.Record) (*Store, error) {
	byID := make(map[model.RecordID]*model.Record, len(records))
	for _, rec := range records {
		rec.Kind = rec.Kind.Normalize()
		if err := rec.Validate(); err != nil {
			return nil, err
		}
		if _, ok := byID[rec.ID]; ok {
			return nil, goerr.New("duplicate record ID", goerr.V("id", rec.ID))
		}
		byID[rec.ID] = rec
	}

	return &Store{records: records, byID: byID}, nil
}

// Records returns all records in file order. Callers must not mutate them.
func (s *Store) Records() []*model.Record {
	return s.records
}

// Get looks up a record by ID.
func (s *Store) Get(id model.RecordID) (*model.Record, bool) {
	rec, ok := s.byID[id]
	return rec, ok
}

// Len returns the number of records.
func (s *Store) Len() int {
	return len(s.records)
}
