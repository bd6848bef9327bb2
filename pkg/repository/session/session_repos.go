package session

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/gpstats/gpstats-go/pkg/model"
	"github.com/gpstats/gpstats-go/pkg/repository"
)

// Ensure creates the session unless one exists for the natural key
// (event, category, session type) and returns the stored row.
func Ensure(ctx context.Context, conn repository.Querier, arg *model.Session) (
	*model.Session, error,
) {
	_, err := conn.Exec(ctx, `
	insert into session (event_id, category_id, session_type, point_event, source_url)
	values ($1,$2,$3,$4,$5)
	on conflict (event_id, category_id, session_type) do nothing
	`, arg.EventID, arg.CategoryID, arg.Type, arg.PointEvent, arg.SourceURL)
	if err != nil {
		return nil, err
	}
	return LoadByType(ctx, conn, arg.EventID, arg.CategoryID, arg.Type)
}

//nolint:whitespace // editor/linter issue
func LoadByType(
	ctx context.Context,
	conn repository.Querier,
	eventID, categoryID int,
	sessionType string,
) (*model.Session, error) {
	row := conn.QueryRow(ctx, `
	select id, event_id, category_id, session_type, point_event, source_url
	from session
	where event_id=$1 and category_id=$2 and session_type=$3
	`, eventID, categoryID, sessionType)
	return scanSession(row)
}

// LoadPoint returns the championship-scoring session of the event/category.
//
//nolint:whitespace // editor/linter issue
func LoadPoint(
	ctx context.Context,
	conn repository.Querier,
	eventID, categoryID int,
) (*model.Session, error) {
	row := conn.QueryRow(ctx, `
	select id, event_id, category_id, session_type, point_event, source_url
	from session
	where event_id=$1 and category_id=$2 and point_event
	`, eventID, categoryID)
	return scanSession(row)
}

// DeleteByType deletes the matching session (results cascade) and
// returns the number of rows deleted.
//
//nolint:whitespace // editor/linter issue
func DeleteByType(
	ctx context.Context,
	conn repository.Querier,
	eventID, categoryID int,
	sessionType string,
) (int, error) {
	cmdTag, err := conn.Exec(ctx, `
	delete from session
	where event_id=$1 and category_id=$2 and session_type=$3
	`, eventID, categoryID, sessionType)
	if err != nil {
		return 0, err
	}
	return int(cmdTag.RowsAffected()), nil
}

func scanSession(row pgx.Row) (*model.Session, error) {
	var item model.Session
	if err := row.Scan(&item.ID, &item.EventID, &item.CategoryID,
		&item.Type, &item.PointEvent, &item.SourceURL); err != nil {
		return nil, err
	}
	return &item, nil
}
