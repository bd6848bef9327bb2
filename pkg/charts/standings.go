package charts

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/jackc/pgx/v5"

	"github.com/gpstats/gpstats-go/pkg/model"
	"github.com/gpstats/gpstats-go/pkg/repository"
	"github.com/gpstats/gpstats-go/pkg/repository/catalog"
	"github.com/gpstats/gpstats-go/pkg/repository/result"
	"github.com/gpstats/gpstats-go/pkg/repository/session"
)

// championship points by finishing position, 1992 system
var pointsTable = map[int]int{
	1: 25, 2: 20, 3: 16, 4: 13, 5: 11,
	6: 10, 7: 9, 8: 8, 9: 7, 10: 6,
	11: 5, 12: 4, 13: 3, 14: 2, 15: 1,
}

// Round is the point-session outcome of one event.
type Round struct {
	Column  string
	Results []*model.RiderResult
}

// AccumulateStandings builds the cumulative championship points chart
// over the given rounds. Riders absent from a round carry their previous
// total forward; riders appearing late are backfilled with zeros for the
// rounds they missed. The output is sorted by final total, best first.
func AccumulateStandings(title string, rounds []Round) *Chart {
	b := newSeriesBuilder()

	for i, round := range rounds {
		for _, name := range b.riders() {
			points := b.get(name)
			b.set(name, append(points, intPtr(*points[len(points)-1])))
		}
		for _, res := range round.Results {
			name := res.DisplayName()
			if b.get(name) == nil {
				backfill := make([]*int, 0, i+1)
				for range i + 1 {
					backfill = append(backfill, intPtr(0))
				}
				b.set(name, backfill)
			}
			points := b.get(name)
			previous := 0
			if i > 0 {
				previous = *points[i-1]
			}
			b.setAt(name, i, previous+pointsTable[res.Position])
		}
	}

	ret := &Chart{Title: title}
	for _, round := range rounds {
		ret.Columns = append(ret.Columns, round.Column)
	}
	for _, name := range b.riders() {
		ret.Series = append(ret.Series, RiderSeries{Rider: name, Points: b.get(name)})
	}
	sort.SliceStable(ret.Series, func(i, j int) bool {
		return finalValue(ret.Series[i]) > finalValue(ret.Series[j])
	})
	return ret
}

func finalValue(s RiderSeries) int {
	if len(s.Points) == 0 || s.Points[len(s.Points)-1] == nil {
		return 0
	}
	return *s.Points[len(s.Points)-1]
}

// LoadSeasonStandings builds the cumulative standings chart for every
// category contested in the season. Events without a point session for a
// category contribute no round.
//nolint:whitespace // editor/linter issue
func LoadSeasonStandings(
	ctx context.Context,
	conn repository.Querier,
	season *model.Season,
) ([]CategoryChart, error) {
	categories, err := catalog.LoadSeasonCategories(ctx, conn, season.ID)
	if err != nil {
		return nil, err
	}
	events, err := catalog.LoadEventsBySeason(ctx, conn, season.ID)
	if err != nil {
		return nil, err
	}

	ret := []CategoryChart{}
	for _, category := range categories {
		rounds := []Round{}
		for _, event := range events {
			sess, err := session.LoadPoint(ctx, conn, event.ID, category.ID)
			if errors.Is(err, pgx.ErrNoRows) {
				// no data this round
				continue
			} else if err != nil {
				return nil, err
			}
			results, err := result.LoadBySession(ctx, conn, sess.ID)
			if err != nil {
				return nil, err
			}
			rounds = append(rounds, Round{Column: event.Location, Results: results})
		}
		title := fmt.Sprintf("%d %s Championship", season.Year, category.Name)
		ret = append(ret, CategoryChart{
			Category: category.Name,
			Chart:    AccumulateStandings(title, rounds),
		})
	}
	return ret, nil
}
