// Package basedata provides canned results tables and seed helpers for
// database related tests.
package basedata

import (
	"context"
	"fmt"
	"log"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gpstats/gpstats-go/pkg/ingest"
	"github.com/gpstats/gpstats-go/pkg/scrape"
)

const (
	SampleSeason   = 2019
	SampleEvent    = "QAT"
	SampleCategory = "MotoGP"
)

// the column labels as they appear on the source tables; point sessions
// carry a leading points column and fold time and gap into one
var (
	raceHeader = []string{
		"Pos.", "Points", "Num.", "Rider", "Nation", "Team", "Bike", "Km/h", "Time/Gap",
	}
	practiceHeader = []string{
		"Pos.", "Num.", "Rider", "Nation", "Team", "Bike", "Km/h", "Time", "Gap 1st/Prev.",
	}
)

// SampleRaceTable mimics a parsed race classification.
func SampleRaceTable() *scrape.ResultsTable {
	return &scrape.ResultsTable{
		SourceURL: sourceURL(SampleSeason, SampleEvent, SampleCategory, "RAC"),
		EventInfo: "Grand Prix of Qatar",
		Header:    raceHeader,
		Rows: [][]string{
			RaceRow(1, 25, "Dummy RIDERONE", "SPA", "Alpha Racing", "Alpha", "167.2", "42'47.558"),
			RaceRow(2, 20, "Dummy RIDERTWO", "ITA", "Beta Racing", "Beta", "167.1", "+0.023"),
			RaceRow(3, 16, "Dummy McRIDERTHREE", "FRA", "Alpha Racing", "Alpha", "166.9", "+1.542"),
		},
	}
}

// SamplePracticeTable mimics a parsed practice classification without the
// points column.
func SamplePracticeTable() *scrape.ResultsTable {
	return &scrape.ResultsTable{
		SourceURL: sourceURL(SampleSeason, SampleEvent, SampleCategory, "FP1"),
		EventInfo: "Grand Prix of Qatar",
		Header:    practiceHeader,
		Rows: [][]string{
			PracticeRow(1, "Dummy RIDERTWO", "ITA", "Beta Racing", "Beta", "168.0", "1'54.977"),
			PracticeRow(2, "Dummy RIDERONE", "SPA", "Alpha Racing", "Alpha", "167.8", "1'55.103"),
		},
	}
}

// SessionTable builds a small classification for the given session code,
// ordered as riders finished.
func SessionTable(
	seasonYear int, eventCode, categoryCode, sessionCode string,
	rows [][]string,
) *scrape.ResultsTable {
	header := practiceHeader
	if sessionCode == "RAC" || sessionCode == "RAC2" {
		header = raceHeader
	}
	return &scrape.ResultsTable{
		SourceURL: sourceURL(seasonYear, eventCode, categoryCode, sessionCode),
		EventInfo: fmt.Sprintf("Grand Prix of %s", eventCode),
		Header:    header,
		Rows:      rows,
	}
}

// RaceRow builds one race classification row for SessionTable with the
// points column filled in. The rider number is derived from the position.
func RaceRow(pos, points int, rider, nation, team, bike, speed, lapTime string) []string {
	return []string{
		fmt.Sprintf("%d", pos), fmt.Sprintf("%d", points), riderNumber(pos),
		rider, nation, team, bike, speed, lapTime,
	}
}

// PracticeRow builds one practice classification row for SessionTable.
func PracticeRow(pos int, rider, nation, team, bike, speed, lapTime string) []string {
	return []string{
		fmt.Sprintf("%d", pos), riderNumber(pos),
		rider, nation, team, bike, speed, lapTime, "",
	}
}

func riderNumber(pos int) string {
	return fmt.Sprintf("%d", pos*11)
}

// IngestSample stores the sample race and practice tables via the regular
// ingestion path.
func IngestSample(pool *pgxpool.Pool) {
	in := ingest.NewInserter(pool)
	ctx := context.Background()
	if err := in.Ingest(ctx, SampleSeason, SampleEvent, SampleCategory,
		"FP1", SamplePracticeTable()); err != nil {
		log.Fatalf("ingestSample: %v\n", err)
	}
	if err := in.Ingest(ctx, SampleSeason, SampleEvent, SampleCategory,
		"RAC", SampleRaceTable()); err != nil {
		log.Fatalf("ingestSample: %v\n", err)
	}
}

func sourceURL(seasonYear int, eventCode, categoryCode, sessionCode string) string {
	return fmt.Sprintf("http://www.motogp.com/en/Results+Statistics/%d/%s/%s/%s",
		seasonYear, eventCode, categoryCode, sessionCode)
}
