// Package ingest maps parsed results tables onto the relational schema
// with get-or-create semantics.
package ingest

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gpstats/gpstats-go/log"
	"github.com/gpstats/gpstats-go/pkg/model"
	"github.com/gpstats/gpstats-go/pkg/repository"
	"github.com/gpstats/gpstats-go/pkg/repository/brand"
	"github.com/gpstats/gpstats-go/pkg/repository/catalog"
	"github.com/gpstats/gpstats-go/pkg/repository/result"
	"github.com/gpstats/gpstats-go/pkg/repository/rider"
	"github.com/gpstats/gpstats-go/pkg/repository/session"
	"github.com/gpstats/gpstats-go/pkg/repository/state"
	"github.com/gpstats/gpstats-go/pkg/repository/team"
	"github.com/gpstats/gpstats-go/pkg/scrape"
)

// columnMap holds the cell indexes of the fields we keep. Point sessions
// carry an extra leading points column, shifting everything by one.
type columnMap struct {
	rider  int
	nation int
	team   int
	bike   int
	speed  int
	time   int
}

var (
	pointColumns    = columnMap{rider: 3, nation: 4, team: 5, bike: 6, speed: 7, time: 8}
	practiceColumns = columnMap{rider: 2, nation: 3, team: 4, bike: 5, speed: 6, time: 7}
)

type Inserter struct {
	pool   *pgxpool.Pool
	logger *log.Logger
}

func NewInserter(pool *pgxpool.Pool) *Inserter {
	return &Inserter{pool: pool, logger: log.Default().Named("ingest")}
}

// Ingest stores one session's parsed table inside a transaction.
//
//nolint:whitespace // editor/linter issue
func (in *Inserter) Ingest(
	ctx context.Context,
	seasonYear int,
	eventCode, categoryCode, sessionCode string,
	table *scrape.ResultsTable,
) error {
	return pgx.BeginFunc(ctx, in.pool, func(tx pgx.Tx) error {
		return in.ingest(ctx, tx, seasonYear, eventCode, categoryCode,
			sessionCode, table)
	})
}

//nolint:funlen,cyclop // mirrors the ingestion steps one by one
func (in *Inserter) ingest(
	ctx context.Context,
	conn repository.Querier,
	seasonYear int,
	eventCode, categoryCode, sessionCode string,
	table *scrape.ResultsTable,
) error {
	season, err := catalog.EnsureSeason(ctx, conn, seasonYear)
	if err != nil {
		return err
	}
	location, err := catalog.EnsureLocation(ctx, conn, eventCode)
	if err != nil {
		return err
	}
	category, err := catalog.EnsureCategory(ctx, conn, categoryCode)
	if err != nil {
		return err
	}
	if err := catalog.AddSeasonCategory(ctx, conn, season.ID, category.ID); err != nil {
		return err
	}
	event, err := catalog.EnsureEvent(ctx, conn, season.ID, location.ID)
	if err != nil {
		return err
	}
	if err := catalog.AddEventCategory(ctx, conn, event.ID, category.ID); err != nil {
		return err
	}

	isPointEvent := sessionCode == "RAC" || sessionCode == "RAC2"

	// RAC2/WUP2 mark restarted sessions: the restart supersedes the
	// original session and takes over its canonical code
	if sessionCode == "RAC2" || sessionCode == "WUP2" {
		predecessor := sessionCode[:3]
		deleted, err := session.DeleteByType(ctx, conn,
			event.ID, category.ID, predecessor)
		if err != nil {
			return err
		}
		if deleted == 0 {
			in.logger.Warn("restarted session without predecessor, skipped",
				log.Int("year", seasonYear),
				log.String("event", eventCode),
				log.String("category", categoryCode),
				log.String("session", sessionCode))
			return nil
		}
		sessionCode = predecessor
	}

	sess, err := session.Ensure(ctx, conn, &model.Session{
		EventID:    event.ID,
		CategoryID: category.ID,
		Type:       sessionCode,
		PointEvent: isPointEvent,
		SourceURL:  table.SourceURL,
	})
	if err != nil {
		return err
	}
	if err := state.MarkMenuDirty(ctx, conn); err != nil {
		return err
	}

	cols := practiceColumns
	if isPointEvent {
		cols = pointColumns
	}

	position := 1
	for _, row := range table.Rows {
		if len(row) <= cols.time {
			// short row, cannot hold all fields
			continue
		}
		fullName := row[cols.rider]
		first, last, ok := scrape.SplitName(fullName)
		if !ok {
			in.logger.Warn("unparseable rider name, row skipped",
				log.Int("year", seasonYear),
				log.String("event", eventCode),
				log.String("category", categoryCode),
				log.String("session", sessionCode),
				log.String("rider", fullName))
			continue
		}
		r, err := rider.Ensure(ctx, conn, &model.Rider{
			FullName:    fullName,
			LastName:    last,
			FirstName:   first,
			Nationality: strings.ToLower(row[cols.nation]),
		})
		if err != nil {
			return err
		}
		t, err := team.Ensure(ctx, conn, row[cols.team])
		if err != nil {
			return err
		}
		b, err := brand.Ensure(ctx, conn, row[cols.bike])
		if err != nil {
			return err
		}

		err = result.Create(ctx, conn, &model.Result{
			SessionID: sess.ID,
			RiderID:   r.ID,
			BrandID:   b.ID,
			TeamID:    t.ID,
			Position:  position,
			TopSpeed:  row[cols.speed],
			LapTime:   row[cols.time],
		})
		if err != nil {
			return err
		}
		position++
	}
	return nil
}
