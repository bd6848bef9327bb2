package team

import (
	"context"

	"github.com/gpstats/gpstats-go/pkg/model"
	"github.com/gpstats/gpstats-go/pkg/repository"
)

func Ensure(ctx context.Context, conn repository.Querier, name string) (
	*model.Team, error,
) {
	_, err := conn.Exec(ctx, `
	insert into team (name) values ($1) on conflict (name) do nothing
	`, name)
	if err != nil {
		return nil, err
	}
	row := conn.QueryRow(ctx, `select id, name from team where name=$1`, name)
	var item model.Team
	if err := row.Scan(&item.ID, &item.Name); err != nil {
		return nil, err
	}
	return &item, nil
}

func Count(ctx context.Context, conn repository.Querier) (int, error) {
	row := conn.QueryRow(ctx, `select count(*) from team`)
	var count int
	if err := row.Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}
