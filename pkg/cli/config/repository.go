package config

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/barriolab/vecino/pkg/domain/interfaces"
	"github.com/barriolab/vecino/pkg/repository/failover"
	"github.com/barriolab/vecino/pkg/repository/memory"
	"github.com/barriolab/vecino/pkg/repository/redis"
	"github.com/barriolab/vecino/pkg/utils/logging"
)

// Repository holds CLI flags for conversation-state backend configuration
type Repository struct {
	backend       string
	redisAddr     string
	redisPassword string
	redisDB       int
}

// Flags returns CLI flags for repository configuration
func (r *Repository) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "repository-backend",
			Usage:       "Conversation state backend (redis or memory)",
			Value:       "memory",
			Sources:     cli.EnvVars("VECINO_REPOSITORY_BACKEND"),
			Destination: &r.backend,
		},
		&cli.StringFlag{
			Name:        "redis-addr",
			Usage:       "Redis address (required when using redis backend)",
			Sources:     cli.EnvVars("VECINO_REDIS_ADDR"),
			Destination: &r.redisAddr,
		},
		&cli.StringFlag{
			Name:        "redis-password",
			Usage:       "Redis password",
			Sources:     cli.EnvVars("VECINO_REDIS_PASSWORD"),
			Destination: &r.redisPassword,
		},
		&cli.IntFlag{
			Name:        "redis-db",
			Usage:       "Redis database number",
			Value:       0,
			Sources:     cli.EnvVars("VECINO_REDIS_DB"),
			Destination: &r.redisDB,
		},
	}
}

// Configure initializes a repository based on the configured backend. The
// redis backend is wrapped in a failover decorator so a Redis outage
// degrades to process-local state instead of dropping conversations.
// The caller is responsible for calling Close() on the returned repository.
func (r *Repository) Configure(ctx context.Context) (interfaces.Repository, error) {
	switch r.backend {
	case "redis":
		if r.redisAddr == "" {
			return nil, goerr.New("redis-addr is required when using redis backend")
		}
		primary, err := redis.New(ctx, r.redisAddr, r.redisPassword, r.redisDB)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to initialize redis repository")
		}
		logging.Default().Info("Using Redis repository with in-memory failover",
			"addr", r.redisAddr,
			"db", r.redisDB,
		)
		return failover.New(primary, memory.New()), nil

	case "memory":
		logging.Default().Info("Using in-memory repository")
		return memory.New(), nil

	default:
		return nil, goerr.New("invalid repository backend", goerr.V("backend", r.backend))
	}
}
