package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/barriolab/vecino/pkg/cli/config"
	"github.com/barriolab/vecino/pkg/domain/types"
	"github.com/barriolab/vecino/pkg/service/hours"
	"github.com/barriolab/vecino/pkg/utils/logging"
)

func cmdValidate() *cli.Command {
	var catalogCfg config.Catalog

	return &cli.Command{
		Name:    "validate",
		Aliases: []string{"v"},
		Usage:   "Validate the catalog file",
		Flags:   catalogCfg.Flags(),
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := logging.Default()

			store, err := catalogCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "catalog validation failed")
			}

			counts := map[types.RecordKind]int{}
			zones := map[types.Zone]int{}
			var unparsedHours, noCoords int
			now := time.Now()

			for _, rec := range store.Records() {
				counts[rec.Kind.Normalize()]++
				zones[rec.Zone]++

				if rec.HoursSpec != "" {
					if hours.Evaluate(rec.HoursSpec, now) == types.OpenStateUnknown {
						unparsedHours++
						logger.Warn("hours spec is not parseable",
							"id", rec.ID, "hours", rec.HoursSpec)
					}
				}
				if rec.Kind.Normalize() == types.KindBusiness && !rec.HasCoordinates() {
					noCoords++
				}
			}

			logger.Info("Catalog validation passed",
				"records", store.Len(),
				"businesses", counts[types.KindBusiness],
				"services", counts[types.KindService],
				"unparsed_hours", unparsedHours,
				"businesses_without_coords", noCoords,
			)
			for zone, n := range zones {
				logger.Info("Zone coverage", "zone", zone.String(), "records", n)
			}

			if store.Len() == 0 {
				return fmt.Errorf("catalog is empty")
			}
			return nil
		},
	}
}
