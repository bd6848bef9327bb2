package menu

import (
	"context"
	"encoding/json"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github.com/gpstats/gpstats-go/log"
	"github.com/gpstats/gpstats-go/pkg/config"
	"github.com/gpstats/gpstats-go/pkg/db/postgres"
	"github.com/gpstats/gpstats-go/pkg/repository/state"
	"github.com/gpstats/gpstats-go/pkg/utils"
)

func NewMenuCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "menu",
		Short: "commands for the navigation menu cache",
	}
	cmd.AddCommand(newRebuildCmd())
	cmd.AddCommand(newShowCmd())
	return cmd
}

func newRebuildCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rebuild",
		Short: "rebuilds the menu cache from stored catalog data",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withPool(func(ctx context.Context, pool *pgxpool.Pool) error {
				menu, err := state.RebuildMenu(ctx, pool)
				if err != nil {
					return err
				}
				log.Info("Menu rebuilt",
					log.Int("seasons", len(menu.SeasonData)))
				return nil
			})
		},
	}
}

func newShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "prints the cached menu as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withPool(func(ctx context.Context, pool *pgxpool.Pool) error {
				menu, err := state.LoadMenu(ctx, pool)
				if err != nil {
					return err
				}
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(menu)
			})
		},
	}
}

func withPool(work func(ctx context.Context, pool *pgxpool.Pool) error) error {
	timeout, err := time.ParseDuration(config.WaitForServices)
	if err != nil {
		log.Warn("Invalid duration value. Setting default 60s", log.ErrorField(err))
		timeout = 60 * time.Second
	}
	if postgresAddr := utils.ExtractFromDBURL(config.DB); postgresAddr != "" {
		if err = utils.WaitForTCP(postgresAddr, timeout); err != nil {
			log.Fatal("database not ready", log.ErrorField(err))
		}
	}
	pool := postgres.InitWithURL(config.DB)
	defer pool.Close()
	return work(context.Background(), pool)
}
