package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/lordthorzonus/oura-api-exporter/internal/common/database"
	mqttcommon "github.com/lordthorzonus/oura-api-exporter/internal/common/mqtt"
	rediscommon "github.com/lordthorzonus/oura-api-exporter/internal/common/redis"
	"github.com/lordthorzonus/oura-api-exporter/internal/config"
	"github.com/lordthorzonus/oura-api-exporter/internal/exporter"
	"github.com/lordthorzonus/oura-api-exporter/internal/metrics"
	"github.com/lordthorzonus/oura-api-exporter/internal/models"
	"github.com/lordthorzonus/oura-api-exporter/internal/oura"
	"github.com/lordthorzonus/oura-api-exporter/internal/poller"
	"github.com/lordthorzonus/oura-api-exporter/internal/queue"
	"github.com/lordthorzonus/oura-api-exporter/internal/repository"
	"github.com/lordthorzonus/oura-api-exporter/internal/sink"
)

// ExporterService polls the Oura API on an interval and exports the
// resulting records through an in-memory queue.
type ExporterService struct {
	config   *config.Config
	logger   *zap.Logger
	poller   *poller.Poller
	exporter *exporter.Exporter
	cursors  repository.CursorStore
	queue    *queue.Unbounded[[]models.Record]
	metrics  *metrics.Metrics
	now      func() time.Time

	metricsServer *http.Server
	db            *sql.DB
	redis         *rediscommon.Client
	mqttClient    *mqttcommon.Client
	influx        *sink.InfluxWriter

	exportCtx    context.Context
	exportCancel context.CancelFunc
	wg           sync.WaitGroup
}

// NewExporterService connects to every configured sink and builds the
// poll/export pipeline.
func NewExporterService(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*ExporterService, error) {
	registry := prometheus.NewRegistry()
	m, err := metrics.New("oura_exporter", registry)
	if err != nil {
		return nil, fmt.Errorf("failed to register metrics: %w", err)
	}

	s := &ExporterService{}
	ok := false
	defer func() {
		if !ok {
			s.closeConnections()
		}
	}()

	var writer exporter.TimeSeriesWriter
	switch {
	case cfg.InfluxDB.Enabled():
		s.influx = sink.NewInfluxWriter(&cfg.InfluxDB, logger)
		if err := s.influx.Ping(ctx); err != nil {
			logger.Warn("InfluxDB is not reachable yet", zap.Error(err))
		}
		writer = s.influx
	case cfg.Timescale.Enabled():
		s.db, err = database.NewPostgresDB(ctx, &cfg.Timescale)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		pgWriter := sink.NewPostgresWriter(s.db, cfg.Timescale.Table, logger)
		if err := pgWriter.EnsureSchema(ctx); err != nil {
			return nil, err
		}
		writer = pgWriter
	default:
		logger.Warn("No time-series sink configured, points will be dropped")
	}

	var publishers []exporter.Publisher
	if cfg.MQTT.Enabled() {
		s.mqttClient, err = mqttcommon.NewClient(&cfg.MQTT, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to MQTT: %w", err)
		}
		publishers = append(publishers, sink.NewMQTTPublisher(s.mqttClient, cfg.MQTT.TopicPrefix, cfg.MQTT.QoS, logger))
	}

	var cursors repository.CursorStore = repository.NewMemoryCursorStore()
	if cfg.Redis.Enabled() {
		s.redis = rediscommon.NewRedisClient(&cfg.Redis)
		if err := rediscommon.Ping(ctx, s.redis); err != nil {
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		cursors = repository.NewRedisCursorStore(s.redis, cfg.CursorKeyPrefix)
		if cfg.Streams.Enabled {
			publishers = append(publishers, sink.NewStreamPublisher(s.redis, cfg.Streams.Prefix, cfg.Streams.MaxLen, logger))
		}
	}

	fetcher := oura.NewClient(oura.ClientOptions{
		BaseURL:    cfg.Oura.BaseURL,
		Timeout:    cfg.Oura.RequestTimeout,
		RetryCount: cfg.Oura.RetryCount,
	}, logger)

	s.init(cfg, logger, fetcher, writer, publishers, cursors, m)

	if cfg.Metrics.Addr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", metrics.Handler(registry))
		s.metricsServer = &http.Server{
			Addr:              cfg.Metrics.Addr,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		}
	}

	ok = true
	return s, nil
}

func (s *ExporterService) init(
	cfg *config.Config,
	logger *zap.Logger,
	fetcher poller.Fetcher,
	writer exporter.TimeSeriesWriter,
	publishers []exporter.Publisher,
	cursors repository.CursorStore,
	m *metrics.Metrics,
) {
	s.config = cfg
	s.logger = logger
	s.poller = poller.NewPoller(cfg.Persons, fetcher, cfg.Poller.MaxConcurrency, m, logger)
	s.exporter = exporter.NewExporter(writer, publishers, cfg.Exporter.BatchSize, m, logger)
	s.cursors = cursors
	s.queue = queue.NewUnbounded[[]models.Record]()
	s.metrics = m
	s.now = time.Now
	s.exportCtx, s.exportCancel = context.WithCancel(context.Background())
}

// Start runs the export loop in the background and the poll loop until ctx
// is cancelled.
func (s *ExporterService) Start(ctx context.Context) error {
	s.logger.Info("Starting exporter service",
		zap.Int("persons", len(s.config.Persons)),
		zap.Duration("interval", s.config.Poller.Interval),
	)

	if s.metricsServer != nil {
		go func() {
			if err := s.metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				s.logger.Error("Metrics server failed", zap.Error(err))
			}
		}()
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.exportLoop()
	}()

	s.pollLoop(ctx)
	return nil
}

func (s *ExporterService) pollLoop(ctx context.Context) {
	timer := time.NewTimer(0)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
		}

		s.PollOnce(ctx)
		timer.Reset(s.config.Poller.Interval)
	}
}

// PollOnce runs one poll cycle, advances the cursors and queues the records
// for export. It returns the number of records queued.
func (s *ExporterService) PollOnce(ctx context.Context) int {
	cycleID := uuid.NewString()
	started := s.now()
	end := started.UTC()

	windows := make(map[string]poller.Window, len(s.config.Persons))
	for _, person := range s.config.Persons {
		windows[person.Name] = poller.Window{Start: s.windowStart(ctx, person.Name, end), End: end}
	}

	records := s.poller.PollWindows(ctx, func(p models.Person) poller.Window {
		return windows[p.Name]
	})
	if ctx.Err() != nil {
		s.logger.Info("Poll cycle cancelled", zap.String("cycle_id", cycleID))
		return 0
	}

	s.advanceCursors(ctx, records, windows)

	chunkSize := s.config.Poller.ChunkSize
	for i := 0; i < len(records); i += chunkSize {
		j := i + chunkSize
		if j > len(records) {
			j = len(records)
		}
		s.queue.Push(records[i:j])
	}
	s.metrics.SetQueueLength(s.queue.Len())
	s.metrics.ObservePoll(s.now().Sub(started))

	s.logger.Info("Poll cycle finished",
		zap.String("cycle_id", cycleID),
		zap.Int("records", len(records)),
		zap.Int("queued_chunks", s.queue.Len()),
	)
	return len(records)
}

func (s *ExporterService) windowStart(ctx context.Context, person string, end time.Time) time.Time {
	fallback := end.Add(-s.config.Poller.Lookback - s.config.Poller.Interval)

	cursor, err := s.cursors.Get(ctx, person)
	if err != nil {
		if !errors.Is(err, repository.ErrNoCursor) {
			s.logger.Warn("Failed to read cursor, using lookback window",
				zap.String("person", person),
				zap.Error(err),
			)
		}
		return fallback
	}
	return cursor
}

// advanceCursors moves each person's cursor one second past the newest
// record, never beyond the window end. Readiness is stamped at midnight UTC
// of its day, which can lie after the window end. Persons with a failed
// fetch keep their cursor so the gap is polled again.
func (s *ExporterService) advanceCursors(ctx context.Context, records []models.Record, windows map[string]poller.Window) {
	failed := make(map[string]bool)
	for _, r := range records {
		if r.Kind == models.KindError && r.Error.Category == models.CategoryFetch {
			failed[r.Person()] = true
		}
	}

	for person, latest := range poller.LatestTimestamps(records) {
		if failed[person] {
			continue
		}
		window := windows[person]
		next := latest.Add(time.Second)
		if next.After(window.End) {
			next = window.End
		}
		if !next.After(window.Start) {
			continue
		}
		if err := s.cursors.Set(ctx, person, next); err != nil {
			s.logger.Warn("Failed to store cursor",
				zap.String("person", person),
				zap.Error(err),
			)
		}
	}
}

func (s *ExporterService) exportLoop() {
	for {
		chunk, ok := s.queue.Pop(s.exportCtx)
		if !ok {
			return
		}
		s.metrics.SetQueueLength(s.queue.Len())
		s.exporter.Export(s.exportCtx, chunk)
	}
}

// Stop drains the queued records until ctx ends, then closes every
// connection.
func (s *ExporterService) Stop(ctx context.Context) error {
	s.logger.Info("Stopping exporter service")

	s.queue.Close()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
		s.logger.Warn("Export queue not drained before shutdown", zap.Int("remaining_chunks", s.queue.Len()))
	}
	s.exportCancel()

	if s.metricsServer != nil {
		if err := s.metricsServer.Shutdown(ctx); err != nil {
			s.logger.Error("Error stopping metrics server", zap.Error(err))
		}
	}

	s.closeConnections()

	s.logger.Info("Exporter service stopped")
	return nil
}

func (s *ExporterService) closeConnections() {
	if s.mqttClient != nil {
		s.mqttClient.Disconnect()
	}
	if s.influx != nil {
		s.influx.Close()
	}
	if s.redis != nil {
		rediscommon.Close(s.redis)
	}
	if s.db != nil {
		database.Close(s.db)
	}
}
