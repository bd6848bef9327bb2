package rider

import (
	"context"

	"github.com/gpstats/gpstats-go/pkg/model"
	"github.com/gpstats/gpstats-go/pkg/repository"
)

// Ensure creates the rider unless a row with the same natural key
// (full name, split names, nationality) exists, and returns the stored row.
func Ensure(ctx context.Context, conn repository.Querier, arg *model.Rider) (
	*model.Rider, error,
) {
	_, err := conn.Exec(ctx, `
	insert into rider (full_name, last_name, first_name, nationality)
	values ($1,$2,$3,$4)
	on conflict (full_name, last_name, first_name, nationality) do nothing
	`, arg.FullName, arg.LastName, arg.FirstName, arg.Nationality)
	if err != nil {
		return nil, err
	}
	row := conn.QueryRow(ctx, `
	select id, full_name, last_name, first_name, nationality from rider
	where full_name=$1 and last_name=$2 and first_name=$3 and nationality=$4
	`, arg.FullName, arg.LastName, arg.FirstName, arg.Nationality)
	var item model.Rider
	if err := row.Scan(&item.ID, &item.FullName, &item.LastName,
		&item.FirstName, &item.Nationality); err != nil {
		return nil, err
	}
	return &item, nil
}

func Count(ctx context.Context, conn repository.Querier) (int, error) {
	row := conn.QueryRow(ctx, `select count(*) from rider`)
	var count int
	if err := row.Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}
