//nolint:funlen //ok for this test code
package charts

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"gotest.tools/v3/assert"

	"github.com/gpstats/gpstats-go/pkg/ingest"
	"github.com/gpstats/gpstats-go/pkg/model"
	"github.com/gpstats/gpstats-go/pkg/repository/catalog"
	"github.com/gpstats/gpstats-go/testsupport/basedata"
	"github.com/gpstats/gpstats-go/testsupport/testdb"
)

func ingestRace(
	t *testing.T, pool *pgxpool.Pool,
	year int, eventCode, categoryCode string, rows [][]string,
) {
	t.Helper()
	in := ingest.NewInserter(pool)
	table := basedata.SessionTable(year, eventCode, categoryCode, "RAC", rows)
	assert.NilError(t,
		in.Ingest(context.Background(), year, eventCode, categoryCode, "RAC", table))
}

func loadEventDetail(
	t *testing.T, pool *pgxpool.Pool, year int, location string,
) *model.EventDetail {
	t.Helper()
	ctx := context.Background()
	season, err := catalog.LoadSeasonByYear(ctx, pool, year)
	assert.NilError(t, err)
	events, err := catalog.LoadEventsBySeason(ctx, pool, season.ID)
	assert.NilError(t, err)
	for _, event := range events {
		if event.Location == location {
			return event
		}
	}
	t.Fatalf("no event %s in %d", location, year)
	return nil
}

func TestLoadEventHistoryFoldsLegacyClasses(t *testing.T) {
	pool := testdb.InitTestDB()
	ctx := context.Background()

	winner := basedata.RaceRow(1, 25,
		"Dummy RIDERONE", "SPA", "Alpha Racing", "Alpha", "167.0", "42'47.558")
	runnerUp := basedata.RaceRow(2, 20,
		"Dummy RIDERTWO", "ITA", "Beta Racing", "Beta", "166.8", "+0.023")

	// last 500cc year, then the rebranded class at the same location
	ingestRace(t, pool, 2001, "QAT", "500cc", [][]string{winner, runnerUp})
	ingestRace(t, pool, 2002, "QAT", "MotoGP", [][]string{runnerUp, winner})

	event := loadEventDetail(t, pool, 2002, "QAT")
	history, err := LoadEventHistory(ctx, pool, event, 5)
	assert.NilError(t, err)

	// one chart: the 500cc round is folded into the MotoGP lineage
	assert.Equal(t, 1, len(history))
	assert.Equal(t, "MotoGP", history[0].Category)
	chart := history[0].Chart
	assert.Equal(t, "QAT MotoGP Results History", chart.Title)
	assert.DeepEqual(t, []string{"2001", "2002"}, chart.Columns)
	assert.Equal(t, 2, len(chart.Series))
}

func TestLoadSeasonStandings(t *testing.T) {
	pool := testdb.InitTestDB()
	ctx := context.Background()

	winner := basedata.RaceRow(1, 25,
		"Dummy RIDERONE", "SPA", "Alpha Racing", "Alpha", "167.0", "42'47.558")
	runnerUp := basedata.RaceRow(2, 20,
		"Dummy RIDERTWO", "ITA", "Beta Racing", "Beta", "166.8", "+0.023")

	ingestRace(t, pool, 2019, "QAT", "MotoGP", [][]string{winner, runnerUp})
	ingestRace(t, pool, 2019, "ARG", "MotoGP", [][]string{runnerUp, winner})

	season, err := catalog.LoadSeasonByYear(ctx, pool, 2019)
	assert.NilError(t, err)
	standings, err := LoadSeasonStandings(ctx, pool, season)
	assert.NilError(t, err)

	assert.Equal(t, 1, len(standings))
	chart := standings[0].Chart
	assert.Equal(t, "2019 MotoGP Championship", chart.Title)
	assert.DeepEqual(t, []string{"QAT", "ARG"}, chart.Columns)
	// both riders tie on 45, input order is kept by the stable sort
	assert.Equal(t, 2, len(chart.Series))
	assert.Equal(t, 45, *chart.Series[0].Points[1])
	assert.Equal(t, 45, *chart.Series[1].Points[1])
}
