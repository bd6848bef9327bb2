// Package catalog persists the structural entities of the results schema:
// seasons, categories, event locations, events and their join tables.
// All writes have get-or-create semantics keyed by the natural key.
package catalog

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/gpstats/gpstats-go/pkg/model"
	"github.com/gpstats/gpstats-go/pkg/repository"
)

func EnsureSeason(ctx context.Context, conn repository.Querier, year int) (
	*model.Season, error,
) {
	_, err := conn.Exec(ctx, `
	insert into season (year) values ($1) on conflict (year) do nothing
	`, year)
	if err != nil {
		return nil, err
	}
	return LoadSeasonByYear(ctx, conn, year)
}

func LoadSeasonByYear(ctx context.Context, conn repository.Querier, year int) (
	*model.Season, error,
) {
	row := conn.QueryRow(ctx, `
	select id, year from season where year=$1
	`, year)
	var item model.Season
	if err := row.Scan(&item.ID, &item.Year); err != nil {
		return nil, err
	}
	return &item, nil
}

func LoadSeasons(ctx context.Context, conn repository.Querier) (
	[]*model.Season, error,
) {
	rows, err := conn.Query(ctx, `select id, year from season order by year`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	ret := []*model.Season{}
	for rows.Next() {
		var item model.Season
		if err := rows.Scan(&item.ID, &item.Year); err != nil {
			return nil, err
		}
		ret = append(ret, &item)
	}
	return ret, rows.Err()
}

func EnsureCategory(ctx context.Context, conn repository.Querier, name string) (
	*model.Category, error,
) {
	_, err := conn.Exec(ctx, `
	insert into category (name) values ($1) on conflict (name) do nothing
	`, name)
	if err != nil {
		return nil, err
	}
	row := conn.QueryRow(ctx, `select id, name from category where name=$1`, name)
	var item model.Category
	if err := row.Scan(&item.ID, &item.Name); err != nil {
		return nil, err
	}
	return &item, nil
}

func EnsureLocation(ctx context.Context, conn repository.Querier, name string) (
	*model.EventLocation, error,
) {
	_, err := conn.Exec(ctx, `
	insert into event_location (name) values ($1) on conflict (name) do nothing
	`, name)
	if err != nil {
		return nil, err
	}
	return LoadLocationByName(ctx, conn, name)
}

func LoadLocationByName(ctx context.Context, conn repository.Querier, name string) (
	*model.EventLocation, error,
) {
	row := conn.QueryRow(ctx, `select id, name from event_location where name=$1`, name)
	var item model.EventLocation
	if err := row.Scan(&item.ID, &item.Name); err != nil {
		return nil, err
	}
	return &item, nil
}

func LoadLocations(ctx context.Context, conn repository.Querier) (
	[]*model.EventLocation, error,
) {
	rows, err := conn.Query(ctx, `select id, name from event_location order by id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	ret := []*model.EventLocation{}
	for rows.Next() {
		var item model.EventLocation
		if err := rows.Scan(&item.ID, &item.Name); err != nil {
			return nil, err
		}
		ret = append(ret, &item)
	}
	return ret, rows.Err()
}

//nolint:whitespace // editor/linter issue
func EnsureEvent(
	ctx context.Context,
	conn repository.Querier,
	seasonID, locationID int,
) (*model.Event, error) {
	_, err := conn.Exec(ctx, `
	insert into event (season_id, location_id) values ($1,$2)
	on conflict (season_id, location_id) do nothing
	`, seasonID, locationID)
	if err != nil {
		return nil, err
	}
	return LoadEvent(ctx, conn, seasonID, locationID)
}

//nolint:whitespace // editor/linter issue
func LoadEvent(
	ctx context.Context,
	conn repository.Querier,
	seasonID, locationID int,
) (*model.Event, error) {
	row := conn.QueryRow(ctx, `
	select id, season_id, location_id from event
	where season_id=$1 and location_id=$2
	`, seasonID, locationID)
	var item model.Event
	if err := row.Scan(&item.ID, &item.SeasonID, &item.LocationID); err != nil {
		return nil, err
	}
	return &item, nil
}

// LoadEventsBySeason returns the season's events in creation order, which is
// the order they were scraped in (the source lists events in calendar order).
func LoadEventsBySeason(ctx context.Context, conn repository.Querier, seasonID int) (
	[]*model.EventDetail, error,
) {
	rows, err := conn.Query(ctx, `
	select e.id, e.season_id, s.year, e.location_id, l.name
	from event e
	join season s on s.id = e.season_id
	join event_location l on l.id = e.location_id
	where e.season_id=$1
	order by e.id
	`, seasonID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectEventDetails(rows)
}

func LoadEventsByLocation(ctx context.Context, conn repository.Querier, locationID int) (
	[]*model.EventDetail, error,
) {
	rows, err := conn.Query(ctx, `
	select e.id, e.season_id, s.year, e.location_id, l.name
	from event e
	join season s on s.id = e.season_id
	join event_location l on l.id = e.location_id
	where e.location_id=$1
	order by s.year
	`, locationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectEventDetails(rows)
}

func collectEventDetails(rows pgx.Rows) ([]*model.EventDetail, error) {
	ret := []*model.EventDetail{}
	for rows.Next() {
		var item model.EventDetail
		if err := rows.Scan(&item.ID, &item.SeasonID, &item.SeasonYear,
			&item.LocationID, &item.Location); err != nil {
			return nil, err
		}
		ret = append(ret, &item)
	}
	return ret, rows.Err()
}

func AddSeasonCategory(
	ctx context.Context, conn repository.Querier, seasonID, categoryID int,
) error {
	_, err := conn.Exec(ctx, `
	insert into season_category (season_id, category_id) values ($1,$2)
	on conflict do nothing
	`, seasonID, categoryID)
	return err
}

func AddEventCategory(
	ctx context.Context, conn repository.Querier, eventID, categoryID int,
) error {
	_, err := conn.Exec(ctx, `
	insert into event_category (event_id, category_id) values ($1,$2)
	on conflict do nothing
	`, eventID, categoryID)
	return err
}

func LoadSeasonCategories(ctx context.Context, conn repository.Querier, seasonID int) (
	[]*model.Category, error,
) {
	return loadCategories(ctx, conn, `
	select c.id, c.name from category c
	join season_category sc on sc.category_id = c.id
	where sc.season_id=$1
	order by c.id
	`, seasonID)
}

func LoadEventCategories(ctx context.Context, conn repository.Querier, eventID int) (
	[]*model.Category, error,
) {
	return loadCategories(ctx, conn, `
	select c.id, c.name from category c
	join event_category ec on ec.category_id = c.id
	where ec.event_id=$1
	order by c.id
	`, eventID)
}

//nolint:whitespace // editor/linter issue
func loadCategories(
	ctx context.Context,
	conn repository.Querier,
	sql string,
	args ...interface{},
) ([]*model.Category, error) {
	rows, err := conn.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	ret := []*model.Category{}
	for rows.Next() {
		var item model.Category
		if err := rows.Scan(&item.ID, &item.Name); err != nil {
			return nil, err
		}
		ret = append(ret, &item)
	}
	return ret, rows.Err()
}
