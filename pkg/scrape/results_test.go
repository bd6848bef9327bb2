package scrape

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

const racePage = `<html><body>
<div class="padbot5">Grand Prix of Qatar</div>
<table>
<thead>
<tr><th>Pos.</th><th>Points</th><th>Num.</th><th>Rider</th><th>Nation</th><th>Team</th><th>Bike</th><th>Km/h</th><th>Time/Gap</th></tr>
</thead>
<tbody>
<tr><td>1</td><td>25</td><td>11</td><td>Dummy RIDERONE</td><td>SPA</td><td>Alpha Racing</td><td>Alpha</td><td>167.2</td><td>42'47.558</td></tr>
<tr><td>2</td><td>20</td><td>22</td><td>Dummy RIDERTWO</td><td>ITA</td><td>Beta Racing</td><td>Beta</td><td>167.1</td><td>+0.023</td></tr>
<tr><td colspan="9">Not Classified</td></tr>
<tr><td>3</td><td>0</td><td>33</td><td>Dummy McRIDERTHREE</td><td>FRA</td><td>Alpha Racing</td><td>Alpha</td><td>166.9</td><td>12 Laps</td></tr>
<tr><td colspan="9">Fastest Lap: Lap 12 Dummy RIDERONE 1'54.927 167.2 Km/h</td></tr>
</tbody>
</table>
</body></html>`

func TestParseResults(t *testing.T) {
	got := ParseResults([]byte(racePage), "http://example.com/race")

	assert.Equal(t, "http://example.com/race", got.SourceURL)
	assert.Equal(t, "Grand Prix of Qatar", got.EventInfo)
	assert.Equal(t,
		[]string{"Pos.", "Points", "Num.", "Rider", "Nation", "Team", "Bike", "Km/h", "Time/Gap"},
		got.Header)
	assert.Len(t, got.Rows, 3)
	assert.Equal(t,
		[]string{"1", "25", "11", "Dummy RIDERONE", "SPA", "Alpha Racing", "Alpha", "167.2", "42'47.558"},
		got.Rows[0])
	// the row after the marker still holds a classified entry
	assert.Equal(t, "Dummy McRIDERTHREE", got.Rows[2][3])
}

const paddedPage = `<html><body>
<table>
<thead>
<tr><th>Pos.</th><th>Rider</th><th>Time</th></tr>
</thead>
<tbody>
<tr><td>1</td><td>Dummy RIDERONE</td><td>1'54.977</td></tr>
<tr><td>&nbsp;</td><td>&nbsp;</td><td>&nbsp;</td></tr>
</tbody>
</table>
</body></html>`

func TestParseResultsStopsAtBlankFiller(t *testing.T) {
	got := ParseResults([]byte(paddedPage), "http://example.com/padded")

	assert.Len(t, got.Rows, 1)
	assert.Equal(t, []string{"1", "Dummy RIDERONE", "1'54.977"}, got.Rows[0])
}

const fragmentPage = `<html><body>
<table>
<thead>
<tr><th>Pos.</th><th>Rider</th><th>Time</th></tr>
</thead>
<tbody>
<tr><td>1</td><td>Dummy RIDERONE</td></tr>
</tbody>
</table>
</body></html>`

func TestParseResultsDropsShortFragment(t *testing.T) {
	got := ParseResults([]byte(fragmentPage), "http://example.com/fragment")

	assert.Empty(t, got.Rows)
}

func TestParseResultsWithoutTable(t *testing.T) {
	got := ParseResults([]byte("<html><body><p>no data</p></body></html>"), "u")

	assert.Empty(t, got.Header)
	assert.Empty(t, got.Rows)
}
