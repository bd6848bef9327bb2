package charts

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/gpstats/gpstats-go/log"
	"github.com/gpstats/gpstats-go/pkg/model"
	"github.com/gpstats/gpstats-go/pkg/repository"
	"github.com/gpstats/gpstats-go/pkg/repository/catalog"
	"github.com/gpstats/gpstats-go/pkg/repository/state"
)

// Charter walks seasons and events and writes all chart artifacts.
type Charter struct {
	conn        repository.Querier
	writer      *Writer
	standings   Renderer // cumulative points, high totals on top
	positions   Renderer // finishing positions, low numbers on top
	seasonCount int
	logger      *log.Logger
}

func NewCharter(conn repository.Querier, chartDir string) *Charter {
	return &Charter{
		conn:        conn,
		writer:      NewWriter(chartDir),
		standings:   &LineRenderer{},
		positions:   &LineRenderer{InvertY: true},
		seasonCount: defaultSeasonCount,
		logger:      log.Default().Named("charts"),
	}
}

// Run charts from the given start point through the current calendar
// year. A zero startSeason resumes from the persisted checkpoint.
// Seasons not present in the store end the run.
func (c *Charter) Run(ctx context.Context, startSeason int, startEvent string) error {
	cp, err := state.LoadCheckpoint(ctx, c.conn)
	if err != nil {
		return err
	}
	if startSeason == 0 {
		startSeason = cp.ChartedSeason
		if startEvent == "" {
			startEvent = cp.ChartedEvent
		}
	}

	for year := startSeason; year <= time.Now().Year(); year++ {
		season, err := catalog.LoadSeasonByYear(ctx, c.conn, year)
		if errors.Is(err, pgx.ErrNoRows) {
			return nil
		} else if err != nil {
			return err
		}
		c.logger.Info("charting season", log.Int("year", year))

		events, err := catalog.LoadEventsBySeason(ctx, c.conn, season.ID)
		if err != nil {
			return err
		}
		if year == startSeason && startEvent != "" {
			events = eventsFrom(events, startEvent)
		}
		for _, event := range events {
			if err := c.chartEvent(ctx, event); err != nil {
				return err
			}
			if err := state.SaveChartedEvent(ctx, c.conn, event.Location); err != nil {
				return err
			}
		}

		charts, err := LoadSeasonStandings(ctx, c.conn, season)
		if err != nil {
			return err
		}
		if err := c.writer.Write(strconv.Itoa(year), charts, c.standings); err != nil {
			return err
		}
		if err := state.SaveChartedSeason(ctx, c.conn, year); err != nil {
			return err
		}
	}
	return nil
}

func (c *Charter) chartEvent(ctx context.Context, event *model.EventDetail) error {
	c.logger.Info("charting event",
		log.Int("year", event.SeasonYear), log.String("event", event.Location))

	history, err := LoadEventHistory(ctx, c.conn, event, c.seasonCount)
	if err != nil {
		return err
	}
	if err := c.writer.Write(event.Location, history, c.positions); err != nil {
		return err
	}

	sessions, err := LoadSessionHistory(ctx, c.conn, event)
	if err != nil {
		return err
	}
	key := fmt.Sprintf("%d-%s", event.SeasonYear, event.Location)
	return c.writer.Write(key, sessions, c.positions)
}

// eventsFrom cuts the event list down to the checkpoint event and
// everything after it. A checkpoint event no longer present yields no
// events, matching the stale-cutoff behavior of the scrape side.
func eventsFrom(events []*model.EventDetail, location string) []*model.EventDetail {
	for i, event := range events {
		if event.Location == location {
			return events[i:]
		}
	}
	return nil
}
