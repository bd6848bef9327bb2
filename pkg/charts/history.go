package charts

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/samber/lo"

	"github.com/gpstats/gpstats-go/pkg/model"
	"github.com/gpstats/gpstats-go/pkg/repository"
	"github.com/gpstats/gpstats-go/pkg/repository/catalog"
	"github.com/gpstats/gpstats-go/pkg/repository/result"
	"github.com/gpstats/gpstats-go/pkg/repository/session"
)

const (
	// how many seasons before the event's own one feed the history chart
	defaultSeasonCount = 5
	// riders whose practice laps are fast enough skip Q1 and take the
	// first slots of its column
	defaultQ2Slots = 10
)

// the modern class a legacy class folds into for charting continuity
var classLineage = map[string]string{
	"500cc": "MotoGP",
	"250cc": "Moto2",
	"125cc": "Moto3",
}

var modernClasses = []string{"MotoGP", "Moto2", "Moto3"}

type historyRound struct {
	year    int
	results []*model.RiderResult
}

// LoadEventHistory builds per-category finishing-position history charts
// for the event's location across the preceding seasonCount seasons plus
// the event's own. Years are walked newest first so that a legacy class
// is folded into its modern label once that label has been observed at
// the location.
//
//nolint:whitespace // editor/linter issue
func LoadEventHistory(
	ctx context.Context,
	conn repository.Querier,
	event *model.EventDetail,
	seasonCount int,
) ([]CategoryChart, error) {
	seen := map[string]bool{}
	rounds := map[string][]historyRound{}
	labelOrder := []string{}

	for year := event.SeasonYear; year >= event.SeasonYear-seasonCount; year-- {
		season, err := catalog.LoadSeasonByYear(ctx, conn, year)
		if errors.Is(err, pgx.ErrNoRows) {
			continue
		} else if err != nil {
			return nil, err
		}
		ev, err := catalog.LoadEvent(ctx, conn, season.ID, event.LocationID)
		if errors.Is(err, pgx.ErrNoRows) {
			continue
		} else if err != nil {
			return nil, err
		}
		categories, err := catalog.LoadSeasonCategories(ctx, conn, season.ID)
		if err != nil {
			return nil, err
		}
		for _, category := range categories {
			sess, err := session.LoadPoint(ctx, conn, ev.ID, category.ID)
			if errors.Is(err, pgx.ErrNoRows) {
				continue
			} else if err != nil {
				return nil, err
			}
			label := category.Name
			if lo.Contains(modernClasses, label) {
				seen[label] = true
			} else if modern, ok := classLineage[label]; ok && seen[modern] {
				label = modern
			}
			results, err := result.LoadBySession(ctx, conn, sess.ID)
			if err != nil {
				return nil, err
			}
			if len(results) == 0 {
				continue
			}
			if _, ok := rounds[label]; !ok {
				labelOrder = append(labelOrder, label)
			}
			rounds[label] = append(rounds[label], historyRound{year, results})
		}
	}

	ret := []CategoryChart{}
	for _, label := range labelOrder {
		ordered := lo.Reverse(rounds[label]) // oldest first
		title := fmt.Sprintf("%s %s Results History", event.Location, label)
		ret = append(ret, CategoryChart{
			Category: label,
			Chart:    buildEventHistory(title, ordered),
		})
	}
	return ret, nil
}

func buildEventHistory(title string, rounds []historyRound) *Chart {
	b := newSeriesBuilder()
	for i, round := range rounds {
		for _, res := range round.results {
			name := res.DisplayName()
			if b.get(name) == nil {
				// missing years stay nil so all series share column count
				b.set(name, make([]*int, len(rounds)))
			}
			b.setAt(name, i, res.Position)
		}
	}

	ret := &Chart{Title: title}
	for _, round := range rounds {
		ret.Columns = append(ret.Columns, strconv.Itoa(round.year))
	}
	for _, name := range b.riders() {
		ret.Series = append(ret.Series, RiderSeries{Rider: name, Points: b.get(name)})
	}
	return ret
}

// SessionRound is one session's ordered results within a single event.
type SessionRound struct {
	Type    string
	Results []*model.RiderResult
}

// eraSessionOrder lists the session codes run at an event of the given
// season, in chronological order.
func eraSessionOrder(year int) []string {
	switch {
	case year < 2005:
		return []string{"RAC"}
	case year >= 2006 && year <= 2008:
		return []string{"FP1", "QP1", "FP2", "QP2", "QP", "WUP", "RAC"}
	default:
		return []string{"FP1", "FP2", "FP3", "FP4", "QP", "Q1", "Q2", "WUP", "RAC"}
	}
}

func isPractice(sessionType string) bool {
	return sessionType == "FP1" || sessionType == "FP2" || sessionType == "FP3"
}

// BuildSessionHistory builds the per-session position chart of one
// event. Lap times of FP1-FP3 are tracked as a per-rider running best to
// seed the Q1 repechage: the q2Slots fastest practice riders take the
// leading Q1 column slots by lap time, everyone actually in Q1 is pushed
// down by q2Slots. Riders missing from Q2 inherit their previous column,
// riders missing from the race are appended at the bottom. The output is
// ordered by last-column position; riders without one are dropped.
//
//nolint:funlen,gocognit,cyclop // the session rules don't split well
func BuildSessionHistory(title string, rounds []SessionRound, q2Slots int) *Chart {
	b := newSeriesBuilder()
	bestLaps := map[string]string{}
	lapOrder := []string{}
	columns := []string{}

	for _, round := range rounds {
		if len(round.Results) == 0 {
			continue
		}
		colIdx := len(columns)
		columns = append(columns, round.Type)
		for _, name := range b.riders() {
			b.set(name, append(b.get(name), nil))
		}

		lastPosition := 0
		for _, res := range round.Results {
			name := res.DisplayName()
			if b.get(name) == nil {
				b.set(name, make([]*int, colIdx+1))
			}
			if isPractice(round.Type) {
				current, ok := bestLaps[name]
				if !ok {
					bestLaps[name] = res.LapTime
					lapOrder = append(lapOrder, name)
				} else if res.LapTime < current {
					bestLaps[name] = res.LapTime
				}
			}
			pos := res.Position
			if round.Type == "Q1" {
				pos += q2Slots
			}
			b.setAt(name, colIdx, pos)
			if pos > lastPosition {
				lastPosition = pos
			}
		}

		switch round.Type {
		case "Q1":
			// repechage: the fastest practice riders skip Q1, ranked
			// purely by their best lap
			ranked := append([]string{}, lapOrder...)
			sort.SliceStable(ranked, func(i, j int) bool {
				return bestLaps[ranked[i]] < bestLaps[ranked[j]]
			})
			for i, name := range ranked {
				if i >= q2Slots {
					break
				}
				b.setAt(name, colIdx, i+1)
			}
		case "Q2":
			for _, name := range b.riders() {
				points := b.get(name)
				if points[colIdx] == nil && colIdx > 0 && points[colIdx-1] != nil {
					b.setAt(name, colIdx, *points[colIdx-1])
				}
			}
		case "RAC":
			for _, name := range b.riders() {
				if b.get(name)[colIdx] == nil {
					lastPosition++
					b.setAt(name, colIdx, lastPosition)
				}
			}
		}
	}

	ret := &Chart{Title: title, Columns: columns}
	for _, name := range b.riders() {
		points := b.get(name)
		if len(points) == 0 || points[len(points)-1] == nil {
			continue
		}
		ret.Series = append(ret.Series, RiderSeries{Rider: name, Points: points})
	}
	sort.SliceStable(ret.Series, func(i, j int) bool {
		return finalValue(ret.Series[i]) < finalValue(ret.Series[j])
	})
	return ret
}

// LoadSessionHistory builds the session-by-session chart of each
// category run at the event.
//
//nolint:whitespace // editor/linter issue
func LoadSessionHistory(
	ctx context.Context,
	conn repository.Querier,
	event *model.EventDetail,
) ([]CategoryChart, error) {
	categories, err := catalog.LoadEventCategories(ctx, conn, event.ID)
	if err != nil {
		return nil, err
	}

	ret := []CategoryChart{}
	for _, category := range categories {
		rounds := []SessionRound{}
		for _, sessionType := range eraSessionOrder(event.SeasonYear) {
			sess, err := session.LoadByType(ctx, conn,
				event.ID, category.ID, sessionType)
			if errors.Is(err, pgx.ErrNoRows) {
				continue
			} else if err != nil {
				return nil, err
			}
			results, err := result.LoadBySession(ctx, conn, sess.ID)
			if err != nil {
				return nil, err
			}
			rounds = append(rounds, SessionRound{Type: sessionType, Results: results})
		}
		title := fmt.Sprintf("%s %d %s Results",
			event.Location, event.SeasonYear, category.Name)
		ret = append(ret, CategoryChart{
			Category: category.Name,
			Chart:    BuildSessionHistory(title, rounds, defaultQ2Slots),
		})
	}
	return ret, nil
}
