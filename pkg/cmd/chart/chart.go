package chart

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/gpstats/gpstats-go/log"
	"github.com/gpstats/gpstats-go/pkg/charts"
	"github.com/gpstats/gpstats-go/pkg/config"
	"github.com/gpstats/gpstats-go/pkg/db/postgres"
	"github.com/gpstats/gpstats-go/pkg/utils"
)

var (
	startSeason int
	startEvent  string
)

func NewChartCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chart",
		Short: "renders standings and history charts from stored results",
		RunE: func(cmd *cobra.Command, args []string) error {
			return startCharting()
		},
	}
	cmd.Flags().IntVarP(&startSeason,
		"season",
		"s",
		0,
		"season to start charting at (default: resume from checkpoint)")
	cmd.Flags().StringVarP(&startEvent,
		"event",
		"e",
		"",
		"event location to start charting at (requires --season)")
	cmd.Flags().StringVar(&config.LogLevel,
		"log-level",
		"info",
		"controls the log level (debug, info, warn, error, fatal)")
	cmd.Flags().StringVar(&config.SQLLogLevel,
		"sql-log-level",
		"debug",
		"controls the log level for sql methods")
	cmd.Flags().StringVar(&config.LogFormat,
		"log-format",
		"json",
		"controls the log output format")
	cmd.Flags().StringVar(&config.LogFilter,
		"log-filter",
		"",
		"zapfilter rules for named loggers (e.g. 'debug:charts* info:*')")
	return cmd
}

func parseLogLevel(l string, defaultVal log.Level) log.Level {
	level, err := log.ParseLevel(l)
	if err != nil {
		return defaultVal
	}
	return level
}

func setupLoggers() (logger, sqlLogger *log.Logger) {
	if config.LogFilter != "" {
		var err error
		logger, err = log.NewWithFilterRules(
			os.Stderr,
			parseLogLevel(config.LogLevel, log.InfoLevel),
			config.LogFilter,
			log.WithCaller(true),
			log.AddCallerSkip(1))
		if err != nil {
			log.Fatal("invalid log filter rules", log.ErrorField(err))
		}
		return logger, logger
	}
	switch config.LogFormat {
	case "json":
		logger = log.New(
			os.Stderr,
			parseLogLevel(config.LogLevel, log.InfoLevel),
			log.WithCaller(true),
			log.AddCallerSkip(1))
		sqlLogger = log.New(
			os.Stderr,
			parseLogLevel(config.SQLLogLevel, log.InfoLevel),
			log.WithCaller(true),
			log.AddCallerSkip(1))
	default:
		logger = log.DevLogger(
			os.Stderr,
			parseLogLevel(config.LogLevel, log.DebugLevel),
			log.WithCaller(true),
			log.AddCallerSkip(1))
		sqlLogger = log.DevLogger(
			os.Stderr,
			parseLogLevel(config.SQLLogLevel, log.InfoLevel),
			log.WithCaller(true),
			log.AddCallerSkip(1))
	}
	return logger, sqlLogger
}

func waitForDatabase() {
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
}

func startCharting() error {
	logger, sqlLogger := setupLoggers()
	log.ResetDefault(logger)

	log.Debug("Config:",
		log.String("db", config.DB),
		log.String("chartDir", config.ChartDir),
	)

	waitForDatabase()

	pool := postgres.InitWithURL(
		config.DB,
		postgres.WithTracer(sqlLogger, parseLogLevel(config.SQLLogLevel, log.DebugLevel)))
	defer pool.Close()

	ctx, stop := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGTERM)
	defer stop()

	charter := charts.NewCharter(pool, config.ChartDir)

	log.Info("Starting chart run",
		log.Int("season", startSeason),
		log.String("event", startEvent))
	if err := charter.Run(ctx, startSeason, startEvent); err != nil {
		log.Error("chart run aborted", log.ErrorField(err))
		return err
	}
	log.Info("Chart run finished")
	return nil
}
