package scrape

import (
	"context"
	"strconv"
	"time"

	"github.com/samber/lo"

	"github.com/gpstats/gpstats-go/log"
	"github.com/gpstats/gpstats-go/pkg/repository"
	"github.com/gpstats/gpstats-go/pkg/repository/state"
)

// event codes known to be broken upstream
var bannedEvents = []string{"T22"}

// ResultsSink ingests one parsed session table into the store.
type ResultsSink interface {
	Ingest(ctx context.Context, seasonYear int,
		eventCode, categoryCode, sessionCode string, table *ResultsTable) error
}

// Scraper drives the season -> event -> category -> session traversal.
type Scraper struct {
	conn    repository.Querier
	fetcher *Fetcher
	sink    ResultsSink
	baseURL string
	logger  *log.Logger
}

func NewScraper(
	conn repository.Querier,
	fetcher *Fetcher,
	sink ResultsSink,
	baseURL string,
) *Scraper {
	return &Scraper{
		conn:    conn,
		fetcher: fetcher,
		sink:    sink,
		baseURL: baseURL,
		logger:  log.Default().Named("scrape"),
	}
}

// Run scrapes from the given start point through the current calendar
// year. A zero startSeason resumes from the persisted checkpoint; an
// explicit startSeason begins there with no event cutoff unless
// startEvent is set too.
func (s *Scraper) Run(ctx context.Context, startSeason int, startEvent string) error {
	cp, err := state.LoadCheckpoint(ctx, s.conn)
	if err != nil {
		return err
	}
	if startSeason == 0 {
		startSeason = cp.ScrapedSeason
		if startEvent == "" {
			startEvent = cp.ScrapedEvent
		}
	}

	for year := startSeason; year <= time.Now().Year(); year++ {
		// the event cutoff only applies to the resumed season,
		// later seasons are traversed from their first event
		cutoff := ""
		if year == startSeason {
			cutoff = startEvent
		}
		if err := s.scrapeSeason(ctx, year, cutoff); err != nil {
			return err
		}
		if err := state.SaveScrapedSeason(ctx, s.conn, year); err != nil {
			return err
		}
	}

	dirty, err := state.MenuDirty(ctx, s.conn)
	if err != nil {
		return err
	}
	if dirty {
		s.logger.Info("rebuilding menu cache")
		if _, err := state.RebuildMenu(ctx, s.conn); err != nil {
			return err
		}
	}
	return nil
}

func (s *Scraper) scrapeSeason(ctx context.Context, year int, cutoff string) error {
	s.logger.Info("scraping season", log.Int("year", year))
	season := strconv.Itoa(year)

	page, err := s.fetcher.Get(ctx, s.baseURL+season)
	if err != nil {
		return err
	}
	events := ParseOptions(page, "event", cutoff)

	for _, event := range events {
		if lo.Contains(bannedEvents, event) {
			continue
		}
		s.logger.Info("scraping event",
			log.Int("year", year), log.String("event", event))

		page, err := s.fetcher.Get(ctx, s.baseURL+season+"/"+event)
		if err != nil {
			return err
		}
		categories := ParseOptions(page, "category", "")
		if len(categories) > 0 {
			// checkpoint the event right away so an interrupted run
			// resumes mid-season
			if err := state.SaveScrapedEvent(ctx, s.conn, event); err != nil {
				return err
			}
		}

		for _, category := range categories {
			if err := s.scrapeCategory(ctx, year, event, category); err != nil {
				return err
			}
		}
	}
	return nil
}

//nolint:whitespace // editor/linter issue
func (s *Scraper) scrapeCategory(
	ctx context.Context,
	year int,
	event, category string,
) error {
	season := strconv.Itoa(year)
	page, err := s.fetcher.Get(ctx, s.baseURL+season+"/"+event+"/"+category)
	if err != nil {
		return err
	}
	sessions := ParseOptions(page, "session", "")

	for _, sess := range sessions {
		url := s.baseURL + season + "/" + event + "/" + category + "/" + sess
		page, err := s.fetcher.Get(ctx, url)
		if err != nil {
			return err
		}
		table := ParseResults(page, url)
		if err := s.sink.Ingest(ctx, year, event, category, sess, table); err != nil {
			return err
		}
	}
	return nil
}
