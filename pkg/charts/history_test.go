//nolint:funlen //ok for this test code
package charts

import (
	"testing"

	"gotest.tools/v3/assert"

	"github.com/gpstats/gpstats-go/pkg/model"
)

func lap(first, last string, position int, lapTime string) *model.RiderResult {
	return &model.RiderResult{
		FirstName: first, LastName: last,
		Position: position, LapTime: lapTime,
	}
}

func TestBuildEventHistory(t *testing.T) {
	rounds := []historyRound{
		{year: 2017, results: []*model.RiderResult{
			rr("aaron", "one", 1),
			rr("bruno", "two", 2),
		}},
		{year: 2018, results: []*model.RiderResult{
			rr("bruno", "two", 1),
			rr("carlo", "three", 2),
		}},
		{year: 2019, results: []*model.RiderResult{
			rr("aaron", "one", 1),
			rr("bruno", "two", 2),
		}},
	}

	got := buildEventHistory("QAT MotoGP Results History", rounds)

	assert.DeepEqual(t, []string{"2017", "2018", "2019"}, got.Columns)
	want := []RiderSeries{
		// missing years stay nil so every series spans all columns
		{Rider: "A. ONE", Points: []*int{intPtr(1), nil, intPtr(1)}},
		{Rider: "B. TWO", Points: pts(2, 1, 2)},
		{Rider: "C. THREE", Points: []*int{nil, intPtr(2), nil}},
	}
	assert.DeepEqual(t, want, got.Series)
}

func TestEraSessionOrder(t *testing.T) {
	assert.DeepEqual(t, []string{"RAC"}, eraSessionOrder(2004))
	assert.DeepEqual(t,
		[]string{"FP1", "QP1", "FP2", "QP2", "QP", "WUP", "RAC"},
		eraSessionOrder(2007))
	assert.DeepEqual(t,
		[]string{"FP1", "FP2", "FP3", "FP4", "QP", "Q1", "Q2", "WUP", "RAC"},
		eraSessionOrder(2019))
	// the qualifying split started with the 2005 season
	assert.DeepEqual(t, eraSessionOrder(2019), eraSessionOrder(2005))
}

func TestBuildSessionHistory(t *testing.T) {
	rounds := []SessionRound{
		{Type: "FP1", Results: []*model.RiderResult{
			lap("aaron", "one", 1, "1'40.000"),
			lap("bruno", "two", 2, "1'41.000"),
			lap("carlo", "three", 3, "1'42.000"),
			lap("dario", "four", 4, "1'43.000"),
		}},
		{Type: "FP2", Results: []*model.RiderResult{
			lap("carlo", "three", 1, "1'39.000"),
			lap("dario", "four", 2, "1'44.000"),
		}},
		// sessions without stored results contribute no column
		{Type: "FP3", Results: []*model.RiderResult{}},
		{Type: "Q1", Results: []*model.RiderResult{
			lap("dario", "four", 1, "1'41.500"),
			lap("bruno", "two", 2, "1'41.800"),
		}},
		{Type: "Q2", Results: []*model.RiderResult{
			lap("carlo", "three", 1, "1'39.200"),
			lap("aaron", "one", 2, "1'39.400"),
		}},
		{Type: "RAC", Results: []*model.RiderResult{
			rr("aaron", "one", 1),
			rr("carlo", "three", 2),
		}},
	}

	got := BuildSessionHistory("QAT 2019 MotoGP Results", rounds, 2)

	assert.DeepEqual(t, []string{"FP1", "FP2", "Q1", "Q2", "RAC"}, got.Columns)
	want := []RiderSeries{
		// the two fastest practice riders take the leading Q1 slots,
		// actual Q1 runners are pushed down by the slot count; riders
		// missing from Q2 inherit their Q1 position and riders missing
		// from the race are appended at the bottom
		{Rider: "A. ONE", Points: []*int{intPtr(1), nil, intPtr(2), intPtr(2), intPtr(1)}},
		{Rider: "C. THREE", Points: pts(3, 1, 1, 1, 2)},
		{Rider: "B. TWO", Points: []*int{intPtr(2), nil, intPtr(4), intPtr(4), intPtr(3)}},
		{Rider: "D. FOUR", Points: pts(4, 2, 3, 3, 4)},
	}
	assert.DeepEqual(t, want, got.Series)
}

func TestBuildSessionHistoryDropsRidersWithoutFinalColumn(t *testing.T) {
	rounds := []SessionRound{
		{Type: "FP1", Results: []*model.RiderResult{
			lap("aaron", "one", 1, "1'40.000"),
			lap("bruno", "two", 2, "1'41.000"),
		}},
		{Type: "FP2", Results: []*model.RiderResult{
			lap("aaron", "one", 1, "1'39.000"),
		}},
	}

	got := BuildSessionHistory("t", rounds, 2)

	assert.Equal(t, 1, len(got.Series))
	assert.Equal(t, "A. ONE", got.Series[0].Rider)
}

func TestBuildSessionHistoryNoRounds(t *testing.T) {
	got := BuildSessionHistory("t", nil, 2)

	assert.Equal(t, 0, len(got.Columns))
	assert.Equal(t, 0, len(got.Series))
}
