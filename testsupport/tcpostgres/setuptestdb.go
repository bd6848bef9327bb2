//nolint:errcheck // testsetup
package tcpostgres

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/docker/go-connections/nat"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/gpstats/gpstats-go/pkg/db/migrate"
	database "github.com/gpstats/gpstats-go/pkg/db/postgres"
)

// create a pg connection pool for the gpstats testdatabase
func SetupTestDB() *pgxpool.Pool {
	ctx := context.Background()
	port, err := nat.NewPort("tcp", "5432")
	if err != nil {
		log.Fatal(err)
	}
	container, err := SetupPostgres(ctx,
		WithPort(port.Port()),
		WithInitialDatabase("postgres", "password", "postgres"),
		WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(5*time.Second)),
		WithName("gpstats-test"),
	)
	if err != nil {
		log.Fatal(err)
	}
	containerPort, _ := container.MappedPort(ctx, port)
	host, _ := container.Host(ctx)
	dbURL := fmt.Sprintf("postgresql://postgres:password@%s:%s/postgres",
		host, containerPort.Port())

	if err = migrate.MigrateDB(dbURL); err != nil {
		log.Fatal(err)
	}

	pool := database.InitWithURL(dbURL)
	return pool
}

// use an already running database referenced by TESTDB_URL instead of a container
func SetupExternalTestDB() *pgxpool.Pool {
	dbURL := os.Getenv("TESTDB_URL")
	if err := migrate.MigrateDB(dbURL); err != nil {
		log.Fatal(err)
	}
	return database.InitWithURL(dbURL)
}

func ClearResultTable(pool *pgxpool.Pool) {
	pool.Exec(context.Background(), "delete from result")
}

func ClearSessionTable(pool *pgxpool.Pool) {
	pool.Exec(context.Background(), "delete from session")
}

func ClearRiderTable(pool *pgxpool.Pool) {
	pool.Exec(context.Background(), "delete from rider")
}

func ClearTeamTable(pool *pgxpool.Pool) {
	pool.Exec(context.Background(), "delete from team")
}

func ClearBrandTable(pool *pgxpool.Pool) {
	pool.Exec(context.Background(), "delete from brand")
}

func ClearCatalogTables(pool *pgxpool.Pool) {
	pool.Exec(context.Background(), "delete from event_category")
	pool.Exec(context.Background(), "delete from season_category")
	pool.Exec(context.Background(), "delete from event")
	pool.Exec(context.Background(), "delete from event_location")
	pool.Exec(context.Background(), "delete from category")
	pool.Exec(context.Background(), "delete from season")
}

func ClearStateTables(pool *pgxpool.Pool) {
	pool.Exec(context.Background(), "delete from checkpoint")
	pool.Exec(context.Background(), "delete from menu")
}

func ClearAllTables(pool *pgxpool.Pool) {
	ClearResultTable(pool)
	ClearSessionTable(pool)
	ClearRiderTable(pool)
	ClearTeamTable(pool)
	ClearBrandTable(pool)
	ClearCatalogTables(pool)
	ClearStateTables(pool)
}
