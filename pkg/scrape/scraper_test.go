//nolint:funlen //ok for this test code
package scrape_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"gotest.tools/v3/assert"

	"github.com/gpstats/gpstats-go/pkg/ingest"
	"github.com/gpstats/gpstats-go/pkg/repository/catalog"
	"github.com/gpstats/gpstats-go/pkg/repository/result"
	"github.com/gpstats/gpstats-go/pkg/repository/session"
	"github.com/gpstats/gpstats-go/pkg/repository/state"
	"github.com/gpstats/gpstats-go/pkg/scrape"
	"github.com/gpstats/gpstats-go/testsupport/testdb"
)

func selectPage(id string, values ...string) string {
	var sb strings.Builder
	sb.WriteString("<html><body><select id=\"" + id + "\">")
	for _, v := range values {
		fmt.Fprintf(&sb, "<option value=%q>%s</option>", v, v)
	}
	sb.WriteString("</select></body></html>")
	return sb.String()
}

const practiceResultsPage = `<html><body>
<div class="padbot5">Grand Prix of Qatar</div>
<table>
<thead><tr><th>Pos.</th><th>Num.</th><th>Rider</th><th>Nation</th><th>Team</th><th>Bike</th><th>Km/h</th><th>Time</th><th>Gap 1st/Prev.</th></tr></thead>
<tbody>
<tr><td>1</td><td>11</td><td>Dummy RIDERONE</td><td>SPA</td><td>Alpha Racing</td><td>Alpha</td><td>167.8</td><td>1'55.103</td><td></td></tr>
<tr><td>2</td><td>22</td><td>Dummy RIDERTWO</td><td>ITA</td><td>Beta Racing</td><td>Beta</td><td>167.2</td><td>1'55.551</td><td>0.448 / 0.448</td></tr>
</tbody>
</table>
</body></html>`

const raceResultsPage = `<html><body>
<div class="padbot5">Grand Prix of Qatar</div>
<table>
<thead><tr><th>Pos.</th><th>Points</th><th>Num.</th><th>Rider</th><th>Nation</th><th>Team</th><th>Bike</th><th>Km/h</th><th>Time/Gap</th></tr></thead>
<tbody>
<tr><td>1</td><td>25</td><td>22</td><td>Dummy RIDERTWO</td><td>ITA</td><td>Beta Racing</td><td>Beta</td><td>167.1</td><td>42'47.558</td></tr>
<tr><td>2</td><td>20</td><td>11</td><td>Dummy RIDERONE</td><td>SPA</td><td>Alpha Racing</td><td>Alpha</td><td>167.0</td><td>+0.023</td></tr>
</tbody>
</table>
</body></html>`

func TestScraperRun(t *testing.T) {
	pool := testdb.InitTestDB()
	ctx := context.Background()
	year := time.Now().Year()
	season := strconv.Itoa(year)

	var bannedHits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			if strings.Contains(r.URL.Path, "T22") {
				bannedHits.Add(1)
				http.NotFound(w, r)
				return
			}
			switch r.URL.Path {
			case "/" + season:
				fmt.Fprint(w, selectPage("event", "QAT", "T22"))
			case "/" + season + "/QAT":
				fmt.Fprint(w, selectPage("category", "MotoGP"))
			case "/" + season + "/QAT/MotoGP":
				fmt.Fprint(w, selectPage("session", "FP1", "RAC"))
			case "/" + season + "/QAT/MotoGP/FP1":
				fmt.Fprint(w, practiceResultsPage)
			case "/" + season + "/QAT/MotoGP/RAC":
				fmt.Fprint(w, raceResultsPage)
			default:
				http.NotFound(w, r)
			}
		}))
	defer srv.Close()

	fetcher := scrape.NewFetcher(scrape.WithFetchDelay(0))
	s := scrape.NewScraper(pool, fetcher, ingest.NewInserter(pool), srv.URL+"/")

	assert.NilError(t, s.Run(ctx, year, ""))

	// broken events are never requested
	assert.Equal(t, int32(0), bannedHits.Load())

	stored, err := catalog.LoadSeasonByYear(ctx, pool, year)
	assert.NilError(t, err)
	loc, err := catalog.LoadLocationByName(ctx, pool, "QAT")
	assert.NilError(t, err)
	event, err := catalog.LoadEvent(ctx, pool, stored.ID, loc.ID)
	assert.NilError(t, err)
	cats, err := catalog.LoadEventCategories(ctx, pool, event.ID)
	assert.NilError(t, err)
	assert.Equal(t, 1, len(cats))

	race, err := session.LoadPoint(ctx, pool, event.ID, cats[0].ID)
	assert.NilError(t, err)
	assert.Equal(t, "RAC", race.Type)
	assert.Equal(t, srv.URL+"/"+season+"/QAT/MotoGP/RAC", race.SourceURL)

	results, err := result.LoadBySession(ctx, pool, race.ID)
	assert.NilError(t, err)
	assert.Equal(t, 2, len(results))
	assert.Equal(t, "D. RIDERTWO", results[0].DisplayName())

	// the run checkpoints its progress and leaves a fresh menu behind
	cp, err := state.LoadCheckpoint(ctx, pool)
	assert.NilError(t, err)
	assert.Equal(t, year, cp.ScrapedSeason)
	assert.Equal(t, "QAT", cp.ScrapedEvent)

	dirty, err := state.MenuDirty(ctx, pool)
	assert.NilError(t, err)
	assert.Equal(t, false, dirty)

	menu, err := state.LoadMenu(ctx, pool)
	assert.NilError(t, err)
	assert.Equal(t, true, menu.SeasonData[season]["QAT"]["MotoGP"])
}
