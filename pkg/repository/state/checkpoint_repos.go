// Package state persists the two singleton records: the scrape/chart
// checkpoint and the navigation menu cache. Both tables hold exactly one
// row, enforced by a constraint.
package state

import (
	"context"

	"github.com/gpstats/gpstats-go/pkg/model"
	"github.com/gpstats/gpstats-go/pkg/repository"
)

// LoadCheckpoint returns the checkpoint row, creating it with defaults
// on first use.
func LoadCheckpoint(ctx context.Context, conn repository.Querier) (
	*model.Checkpoint, error,
) {
	_, err := conn.Exec(ctx, `
	insert into checkpoint default values on conflict (onerow) do nothing
	`)
	if err != nil {
		return nil, err
	}
	row := conn.QueryRow(ctx, `
	select scraped_season, scraped_event, charted_season, charted_event
	from checkpoint
	`)
	var item model.Checkpoint
	if err := row.Scan(&item.ScrapedSeason, &item.ScrapedEvent,
		&item.ChartedSeason, &item.ChartedEvent); err != nil {
		return nil, err
	}
	return &item, nil
}

func SaveScrapedSeason(ctx context.Context, conn repository.Querier, year int) error {
	_, err := conn.Exec(ctx, `update checkpoint set scraped_season=$1`, year)
	return err
}

func SaveScrapedEvent(ctx context.Context, conn repository.Querier, event string) error {
	_, err := conn.Exec(ctx, `update checkpoint set scraped_event=$1`, event)
	return err
}

func SaveChartedSeason(ctx context.Context, conn repository.Querier, year int) error {
	_, err := conn.Exec(ctx, `update checkpoint set charted_season=$1`, year)
	return err
}

func SaveChartedEvent(ctx context.Context, conn repository.Querier, event string) error {
	_, err := conn.Exec(ctx, `update checkpoint set charted_event=$1`, event)
	return err
}
