package config

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/barriolab/vecino/pkg/service/catalog"
)

// Catalog holds configuration for the business catalog
type Catalog struct {
	path string
}

// Flags returns CLI flags for catalog configuration
func (c *Catalog) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "catalog-path",
			Usage:       "Path to the catalog JSON file",
			Value:       "comercios.json",
			Sources:     cli.EnvVars("VECINO_CATALOG_PATH"),
			Destination: &c.path,
		},
	}
}

// Configure loads and validates the catalog
func (c *Catalog) Configure(ctx context.Context) (*catalog.Store, error) {
	store, err := catalog.Load(ctx, c.path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to load catalog", goerr.V("path", c.path))
	}
	return store, nil
}
