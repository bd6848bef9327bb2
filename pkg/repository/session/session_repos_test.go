//nolint:funlen //ok for this test code
package session

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"gotest.tools/v3/assert"

	"github.com/gpstats/gpstats-go/pkg/model"
	"github.com/gpstats/gpstats-go/pkg/repository/catalog"
	"github.com/gpstats/gpstats-go/testsupport/testdb"
)

func setupEventAndCategory(t *testing.T, pool *pgxpool.Pool) (eventID, categoryID int) {
	t.Helper()
	ctx := context.Background()
	season, err := catalog.EnsureSeason(ctx, pool, 2019)
	assert.NilError(t, err)
	loc, err := catalog.EnsureLocation(ctx, pool, "QAT")
	assert.NilError(t, err)
	event, err := catalog.EnsureEvent(ctx, pool, season.ID, loc.ID)
	assert.NilError(t, err)
	cat, err := catalog.EnsureCategory(ctx, pool, "MotoGP")
	assert.NilError(t, err)
	return event.ID, cat.ID
}

func TestEnsureAndLoad(t *testing.T) {
	pool := testdb.InitTestDB()
	ctx := context.Background()
	eventID, categoryID := setupEventAndCategory(t, pool)

	arg := &model.Session{
		EventID:    eventID,
		CategoryID: categoryID,
		Type:       "RAC",
		PointEvent: true,
		SourceURL:  "http://example.com/rac",
	}
	created, err := Ensure(ctx, pool, arg)
	assert.NilError(t, err)
	assert.Assert(t, created.ID > 0)

	again, err := Ensure(ctx, pool, arg)
	assert.NilError(t, err)
	assert.Equal(t, created.ID, again.ID)

	loaded, err := LoadByType(ctx, pool, eventID, categoryID, "RAC")
	assert.NilError(t, err)
	assert.Equal(t, created.ID, loaded.ID)
	assert.Equal(t, true, loaded.PointEvent)

	_, err = Ensure(ctx, pool, &model.Session{
		EventID: eventID, CategoryID: categoryID,
		Type: "FP1", SourceURL: "http://example.com/fp1",
	})
	assert.NilError(t, err)

	// only the race scores points
	point, err := LoadPoint(ctx, pool, eventID, categoryID)
	assert.NilError(t, err)
	assert.Equal(t, "RAC", point.Type)

	_, err = LoadByType(ctx, pool, eventID, categoryID, "WUP")
	assert.Assert(t, errors.Is(err, pgx.ErrNoRows))
}

func TestDeleteByType(t *testing.T) {
	pool := testdb.InitTestDB()
	ctx := context.Background()
	eventID, categoryID := setupEventAndCategory(t, pool)

	_, err := Ensure(ctx, pool, &model.Session{
		EventID: eventID, CategoryID: categoryID,
		Type: "RAC", PointEvent: true, SourceURL: "u",
	})
	assert.NilError(t, err)

	deleted, err := DeleteByType(ctx, pool, eventID, categoryID, "RAC")
	assert.NilError(t, err)
	assert.Equal(t, 1, deleted)

	deleted, err = DeleteByType(ctx, pool, eventID, categoryID, "RAC")
	assert.NilError(t, err)
	assert.Equal(t, 0, deleted)
}
