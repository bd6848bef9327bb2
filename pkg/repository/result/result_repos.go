package result

import (
	"context"

	"github.com/gpstats/gpstats-go/pkg/model"
	"github.com/gpstats/gpstats-go/pkg/repository"
)

func Create(ctx context.Context, conn repository.Querier, arg *model.Result) error {
	_, err := conn.Exec(ctx, `
	insert into result (session_id, rider_id, brand_id, team_id, position,
		top_speed, lap_time)
	values ($1,$2,$3,$4,$5,$6,$7)
	`, arg.SessionID, arg.RiderID, arg.BrandID, arg.TeamID, arg.Position,
		arg.TopSpeed, arg.LapTime)
	return err
}

// LoadBySession returns the session's results joined with their riders,
// ordered by finishing position.
func LoadBySession(ctx context.Context, conn repository.Querier, sessionID int) (
	[]*model.RiderResult, error,
) {
	rows, err := conn.Query(ctx, `
	select rd.first_name, rd.last_name, r.position, r.lap_time
	from result r
	join rider rd on rd.id = r.rider_id
	where r.session_id=$1
	order by r.position
	`, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	ret := []*model.RiderResult{}
	for rows.Next() {
		var item model.RiderResult
		if err := rows.Scan(&item.FirstName, &item.LastName,
			&item.Position, &item.LapTime); err != nil {
			return nil, err
		}
		ret = append(ret, &item)
	}
	return ret, rows.Err()
}

func CountBySession(ctx context.Context, conn repository.Querier, sessionID int) (
	int, error,
) {
	row := conn.QueryRow(ctx, `select count(*) from result where session_id=$1`,
		sessionID)
	var count int
	if err := row.Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}
