package vector

import (
	"context"
	"database/sql"
	"strconv"
	"strings"
	"time"

	_ "github.com/lib/pq"
	"github.com/m-mizutani/goerr/v2"

	"github.com/barriolab/vecino/pkg/domain/interfaces"
	"github.com/barriolab/vecino/pkg/domain/model"
	"github.com/barriolab/vecino/pkg/domain/types"
	"github.com/barriolab/vecino/pkg/utils/safe"
)

var _ interfaces.VectorIndex = (*PostgresIndex)(nil)

// PostgresIndex searches record embeddings stored in Postgres with the
// pgvector extension. The records table holds one row per catalog
// record with its precomputed embedding.
type PostgresIndex struct {
	db *sql.DB
}

// NewPostgres connects to the database and verifies it is reachable.
func NewPostgres(ctx context.Context, dsn string) (*PostgresIndex, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to open postgres connection")
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		safe.Close(ctx, db)
		return nil, goerr.Wrap(err, "failed to ping postgres")
	}

	return &PostgresIndex{db: db}, nil
}

// Search returns the closest records by cosine distance. Zone narrowing is
// done in SQL so irrelevant rows never leave the database.
func (x *PostgresIndex) Search(ctx context.Context, embedding []float64, zone types.Zone, limit int) ([]*interfaces.VectorMatch, error) {
	if len(embedding) == 0 {
		return nil, goerr.New("empty embedding")
	}
	if limit <= 0 {
		limit = model.MaxCandidates
	}

	query := `
		SELECT record_id, 1 - (embedding <=> $1) AS similarity
		FROM record_embeddings
		WHERE ($2 = '' OR zona = $2)
		ORDER BY embedding <=> $1
		LIMIT $3`

	rows, err := x.db.QueryContext(ctx, query, vectorLiteral(embedding), zone.String(), limit)
	if err != nil {
		return nil, goerr.Wrap(err, "vector search query failed", goerr.V("zone", zone))
	}
	defer safe.Close(ctx, rows)

	var matches []*interfaces.VectorMatch
	for rows.Next() {
		var m interfaces.VectorMatch
		if err := rows.Scan(&m.RecordID, &m.Similarity); err != nil {
			return nil, goerr.Wrap(err, "failed to scan vector match")
		}
		matches = append(matches, &m)
	}
	if err := rows.Err(); err != nil {
		return nil, goerr.Wrap(err, "vector search iteration failed")
	}
	return matches, nil
}

// Close releases the connection pool.
func (x *PostgresIndex) Close() error {
	return x.db.Close()
}

// vectorLiteral renders an embedding as the pgvector text format,
// "[0.1,0.2,...]".
func vectorLiteral(v []float64) string {
	var b strings.Builder
	b.Grow(len(v) * 10)
	b.WriteByte('[')
	for i, f := range v {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.FormatFloat(f, 'f', -1, 64))
	}
	b.WriteByte(']')
	return b.String()
}
