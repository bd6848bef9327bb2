package state

import (
	"context"
	"encoding/json"
	"strconv"

	"github.com/gpstats/gpstats-go/pkg/repository"
	"github.com/gpstats/gpstats-go/pkg/repository/catalog"
)

// Menu is the navigation tree served to the read-only views:
// season -> location -> categories and location -> season -> categories.
type Menu struct {
	SeasonData map[string]map[string]map[string]bool `json:"season_data"`
	EventData  map[string]map[string]map[string]bool `json:"event_data"`
}

// MarkMenuDirty flags the menu cache for rebuild. Ingestion calls this on
// every session save instead of recomputing the tree inline.
func MarkMenuDirty(ctx context.Context, conn repository.Querier) error {
	_, err := conn.Exec(ctx, `
	insert into menu (dirty) values (true)
	on conflict (onerow) do update set dirty=true
	`)
	return err
}

func MenuDirty(ctx context.Context, conn repository.Querier) (bool, error) {
	row := conn.QueryRow(ctx, `select coalesce(
		(select dirty from menu), false)`)
	var dirty bool
	if err := row.Scan(&dirty); err != nil {
		return false, err
	}
	return dirty, nil
}

func LoadMenu(ctx context.Context, conn repository.Querier) (*Menu, error) {
	row := conn.QueryRow(ctx, `select options from menu`)
	var raw []byte
	if err := row.Scan(&raw); err != nil {
		return nil, err
	}
	var menu Menu
	if err := json.Unmarshal(raw, &menu); err != nil {
		return nil, err
	}
	return &menu, nil
}

// RebuildMenu recomputes the whole navigation tree from the catalog and
// clears the dirty flag.
func RebuildMenu(ctx context.Context, conn repository.Querier) (*Menu, error) {
	menu, err := buildMenu(ctx, conn)
	if err != nil {
		return nil, err
	}
	raw, err := json.Marshal(menu)
	if err != nil {
		return nil, err
	}
	_, err = conn.Exec(ctx, `
	insert into menu (options, dirty) values ($1, false)
	on conflict (onerow) do update set options=$1, dirty=false
	`, raw)
	if err != nil {
		return nil, err
	}
	return menu, nil
}

func buildMenu(ctx context.Context, conn repository.Querier) (*Menu, error) {
	menu := &Menu{
		SeasonData: map[string]map[string]map[string]bool{},
		EventData:  map[string]map[string]map[string]bool{},
	}

	seasons, err := catalog.LoadSeasons(ctx, conn)
	if err != nil {
		return nil, err
	}
	for _, season := range seasons {
		year := strconv.Itoa(season.Year)
		menu.SeasonData[year] = map[string]map[string]bool{}
		events, err := catalog.LoadEventsBySeason(ctx, conn, season.ID)
		if err != nil {
			return nil, err
		}
		for _, event := range events {
			cats, err := catalog.LoadEventCategories(ctx, conn, event.ID)
			if err != nil {
				return nil, err
			}
			entry := map[string]bool{}
			for _, cat := range cats {
				entry[cat.Name] = true
			}
			menu.SeasonData[year][event.Location] = entry
		}
	}

	locations, err := catalog.LoadLocations(ctx, conn)
	if err != nil {
		return nil, err
	}
	for _, loc := range locations {
		menu.EventData[loc.Name] = map[string]map[string]bool{}
		events, err := catalog.LoadEventsByLocation(ctx, conn, loc.ID)
		if err != nil {
			return nil, err
		}
		for _, event := range events {
			cats, err := catalog.LoadEventCategories(ctx, conn, event.ID)
			if err != nil {
				return nil, err
			}
			entry := map[string]bool{}
			for _, cat := range cats {
				entry[cat.Name] = true
			}
			menu.EventData[loc.Name][strconv.Itoa(event.SeasonYear)] = entry
		}
	}

	return menu, nil
}
