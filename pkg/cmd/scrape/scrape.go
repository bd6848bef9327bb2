package scrape

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/gpstats/gpstats-go/log"
	"github.com/gpstats/gpstats-go/pkg/config"
	"github.com/gpstats/gpstats-go/pkg/db/postgres"
	"github.com/gpstats/gpstats-go/pkg/ingest"
	scraper "github.com/gpstats/gpstats-go/pkg/scrape"
	"github.com/gpstats/gpstats-go/pkg/utils"
)

var (
	startSeason int
	startEvent  string
	fetchDelay  string
)

func NewScrapeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scrape",
		Short: "collects results from the web and stores them in the database",
		RunE: func(cmd *cobra.Command, args []string) error {
			return startScrape()
		},
	}
	cmd.Flags().IntVarP(&startSeason,
		"season",
		"s",
		0,
		"season to start scraping at (default: resume from checkpoint)")
	cmd.Flags().StringVarP(&startEvent,
		"event",
		"e",
		"",
		"event code to start scraping at (requires --season)")
	cmd.Flags().StringVar(&fetchDelay,
		"fetch-delay",
		"1s",
		"minimum delay between requests to the results site")
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
		"zapfilter rules for named loggers (e.g. 'debug:scrape* info:*')")
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

func waitForRequiredServices() {
	timeout, err := time.ParseDuration(config.WaitForServices)
	if err != nil {
		log.Warn("Invalid duration value. Setting default 60s", log.ErrorField(err))
		timeout = 60 * time.Second
	}

	wg := sync.WaitGroup{}
	checkTCP := func(addr string) {
		if err = utils.WaitForTCP(addr, timeout); err != nil {
			log.Fatal("required services not ready", log.ErrorField(err))
		}
		wg.Done()
	}

	if postgresAddr := utils.ExtractFromDBURL(config.DB); postgresAddr != "" {
		wg.Add(1)
		go checkTCP(postgresAddr)
	}
	log.Debug("Waiting for connection checks to return")
	wg.Wait()
	log.Debug("Required services are available")
}

func startScrape() error {
	logger, sqlLogger := setupLoggers()
	log.ResetDefault(logger)

	log.Debug("Config:",
		log.String("db", config.DB),
		log.String("baseUrl", config.BaseURL),
	)

	waitForRequiredServices()

	pool := postgres.InitWithURL(
		config.DB,
		postgres.WithTracer(sqlLogger, parseLogLevel(config.SQLLogLevel, log.DebugLevel)))
	defer pool.Close()

	delay, err := time.ParseDuration(fetchDelay)
	if err != nil {
		log.Warn("Invalid fetch delay. Setting default 1s", log.ErrorField(err))
		delay = time.Second
	}

	ctx, stop := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGTERM)
	defer stop()

	fetcher := scraper.NewFetcher(scraper.WithFetchDelay(delay))
	inserter := ingest.NewInserter(pool)
	s := scraper.NewScraper(pool, fetcher, inserter, config.BaseURL)

	log.Info("Starting scrape",
		log.Int("season", startSeason),
		log.String("event", startEvent))
	if err := s.Run(ctx, startSeason, startEvent); err != nil {
		log.Error("scrape aborted", log.ErrorField(err))
		return err
	}
	log.Info("Scrape finished")
	return nil
}
