package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"iter"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"harvester/internal/config"
	"harvester/internal/journal"
	"harvester/internal/logging"
	"harvester/internal/publisher"
	"harvester/internal/scheduler"
	"harvester/internal/service"
	"harvester/internal/sink/sru"
	"harvester/internal/source/oaipmh"
	"harvester/internal/state"
	"harvester/internal/storage/postgres"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	once := flag.Bool("once", false, "run a single harvest invocation and exit")
	deleteAll := flag.Bool("delete-all", false, "delete every harvested record from the sink and exit")
	reset := flag.Bool("reset", false, "forget all harvest state so the next run is a full resync")
	check := flag.Bool("check", false, "report journaled records missing from the sink and exit")
	flag.Parse()

	logger := logging.NewWithWriter(os.Stdout, "info")

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if *deleteAll {
		cfg.Harvest.DeleteAll = true
	}

	logger, logCloser := logging.New(cfg.Log)
	defer logCloser.Close()

	if err := run(cfg, logger, *once || cfg.Harvest.DeleteAll, *reset, *check); err != nil {
		logger.Error("harvester stopped", "error", err)
		logCloser.Close()
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger, once, reset, check bool) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	sink, err := newSink(cfg.Sink, logger)
	if err != nil {
		return err
	}
	defer sink.Close()

	jrnl, err := journal.Open(cfg.StateDir)
	if err != nil {
		return err
	}

	source := oaipmh.New(sourceConfig(cfg.Source.OAIPMH), logger)

	harvester := service.NewHarvester(
		source,
		oaipmh.MetadataConverter{},
		sink,
		jrnl,
		state.NewFileStore(cfg.StateDir),
		service.SystemClock{},
		logger,
		cfg.Harvest,
	)

	if reset {
		return harvester.Reset()
	}
	if check {
		return checkSink(ctx, sink, jrnl, logger)
	}

	logger.Info("starting harvester",
		"source", source.Name(),
		"repositories", len(cfg.Source.OAIPMH.Repositories),
		"sink", cfg.Sink.Type,
		"state_dir", cfg.StateDir,
		"interval", cfg.Harvest.Interval,
	)

	if once {
		runCtx, cancelRun := context.WithTimeout(ctx, cfg.Harvest.RunTimeout)
		defer cancelRun()

		stats, err := harvester.Harvest(runCtx)
		if err != nil {
			return err
		}
		logger.Info("harvest finished",
			"run_id", stats.RunID,
			"outcome", stats.Outcome,
			"added", stats.Added,
			"deleted", stats.Deleted,
			"swept", stats.Swept,
		)
		return nil
	}

	sched := scheduler.NewScheduler(harvester, cfg.Harvest.Interval, cfg.Harvest.RunTimeout, logger)
	if err := sched.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

type closableSink interface {
	service.Sink
	io.Closer
}

func newSink(cfg config.SinkConfig, logger *slog.Logger) (closableSink, error) {
	switch cfg.Type {
	case config.SinkPostgres:
		db, err := sqlx.Connect("postgres", cfg.Database.DSN())
		if err != nil {
			return nil, err
		}
		store := postgres.NewRecordStore(db, cfg.Database.Table)
		count, err := store.Count(context.Background())
		if err != nil {
			db.Close()
			return nil, err
		}
		logger.Info("connected to database", "table", cfg.Database.Table, "records", count)
		return &recordStoreSink{RecordStore: store, db: db}, nil
	case config.SinkRabbitMQ:
		return publisher.NewRabbitMQ(publisher.Config{
			URL:        cfg.RabbitMQ.URL,
			Exchange:   cfg.RabbitMQ.Exchange,
			RoutingKey: cfg.RabbitMQ.RoutingKey,
			QueueName:  cfg.RabbitMQ.QueueName,
		}, logger)
	case config.SinkNone:
		return sinkCloser{Sink: sru.New(sru.Config{}, logger)}, nil
	default:
		return sinkCloser{Sink: sru.New(sru.Config{
			BaseURL:   cfg.SRU.BaseURL,
			UserAgent: cfg.SRU.UserAgent,
			Timeout:   cfg.SRU.Timeout,
		}, logger)}, nil
	}
}

type recordStoreSink struct {
	*postgres.RecordStore
	db *sqlx.DB
}

func (s *recordStoreSink) Close() error {
	return s.db.Close()
}

type missingChecker interface {
	Missing(ctx context.Context, ids iter.Seq[string]) ([]string, error)
}

// checkSink compares the records the journal holds as added with what the sink stores.
func checkSink(ctx context.Context, sink closableSink, jrnl *journal.Journal, logger *slog.Logger) error {
	checker, ok := sink.(missingChecker)
	if !ok {
		return fmt.Errorf("sink %T does not support checking", sink)
	}
	ids, err := jrnl.RemainingAdds()
	if err != nil {
		return err
	}
	missing, err := checker.Missing(ctx, ids)
	if err != nil {
		return fmt.Errorf("check sink: %w", err)
	}
	for _, id := range missing {
		logger.Warn("journaled record missing from sink", "identifier", id)
	}
	logger.Info("sink check finished", "missing", len(missing))
	return nil
}

type sinkCloser struct {
	service.Sink
	closer io.Closer
}

func (s sinkCloser) Close() error {
	if s.closer == nil {
		return nil
	}
	return s.closer.Close()
}

func sourceConfig(cfg config.OAIPMHConfig) oaipmh.Config {
	repos := make([]oaipmh.Repository, 0, len(cfg.Repositories))
	for _, r := range cfg.Repositories {
		repos = append(repos, oaipmh.Repository{
			BaseURL:           r.BaseURL,
			MetadataPrefix:    r.MetadataPrefix,
			Set:               r.Set,
			RepositoryGroupID: r.RepositoryGroupID,
			RepositoryID:      r.RepositoryID,
		})
	}
	var filter func(*oaipmh.Record) bool
	if len(cfg.ExcludeSets) > 0 {
		filter = oaipmh.ExcludeSets(cfg.ExcludeSets...)
	}
	return oaipmh.Config{
		Filter:            filter,
		Repositories:      repos,
		Timeout:           cfg.Timeout,
		RequestsPerSecond: cfg.RequestsPerSecond,
		UserAgent:         cfg.UserAgent,
		MaxAttempts:       cfg.Retry.MaxAttempts,
		InitialBackoff:    cfg.Retry.InitialBackoff,
		MaxBackoff:        cfg.Retry.MaxBackoff,
	}
}
