package interfaces

import (
	"context"

	"github.com/barriolab/vecino/pkg/domain/model"
	"github.com/barriolab/vecino/pkg/domain/types"
)

// VectorMatch is one hit from the vector index, carrying the catalog record
// ID and a similarity score in [0, 1] where higher is closer.
type VectorMatch struct {
	RecordID   model.RecordID
	Similarity float64
}

// VectorIndex searches the remote embedding index. Implementations return
// matches ordered by descending similarity. An empty result is not an error;
// the engine falls back to lexical scoring.
type VectorIndex interface {
	Search(ctx context.Context, embedding []float64, zone types.Zone, limit int) ([]*VectorMatch, error)
}
