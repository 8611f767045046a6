package config

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/barriolab/vecino/pkg/service/vector"
)

// Vector holds configuration for the pgvector similarity index
type Vector struct {
	dsn string
}

// Flags returns CLI flags for vector index configuration
func (v *Vector) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "vector-dsn",
			Usage:       "PostgreSQL DSN for the pgvector index (lexical-only retrieval without it)",
			Sources:     cli.EnvVars("VECINO_VECTOR_DSN"),
			Destination: &v.dsn,
		},
	}
}

// Configure connects to the pgvector index. Returns nil when no DSN is set.
// The caller is responsible for calling Close() on the returned index.
func (v *Vector) Configure(ctx context.Context) (*vector.PostgresIndex, error) {
	if v.dsn == "" {
		return nil, nil
	}

	idx, err := vector.NewPostgres(ctx, v.dsn)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to connect to vector index")
	}
	return idx, nil
}
