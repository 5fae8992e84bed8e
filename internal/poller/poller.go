package poller

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/lordthorzonus/oura-api-exporter/internal/metrics"
	"github.com/lordthorzonus/oura-api-exporter/internal/models"
	"github.com/lordthorzonus/oura-api-exporter/internal/oura"
	"github.com/lordthorzonus/oura-api-exporter/internal/transformer"
)

// Fetcher retrieves raw vendor documents for one access token.
type Fetcher interface {
	FetchHeartRate(ctx context.Context, accessToken string, start, end time.Time) (*oura.Response[oura.HeartRateSample], error)
	FetchSleepDocuments(ctx context.Context, accessToken string, start, end time.Time) (*oura.Response[oura.SleepDocument], error)
}

// Window is the time range polled for one person.
type Window struct {
	Start time.Time
	End   time.Time
}

// Poller fetches every person's data and derives records from it.
type Poller struct {
	persons        []models.Person
	fetcher        Fetcher
	maxConcurrency int
	metrics        *metrics.Metrics
	logger         *zap.Logger
	sleeps         *sleepTracker
}

// NewPoller creates a Poller. maxConcurrency <= 0 polls all persons at once.
// A Poller derives records from a sleep document only once per content
// version, so repeated polls of the same day do not re-emit them.
func NewPoller(persons []models.Person, fetcher Fetcher, maxConcurrency int, m *metrics.Metrics, logger *zap.Logger) *Poller {
	return &Poller{
		persons:        persons,
		fetcher:        fetcher,
		maxConcurrency: maxConcurrency,
		metrics:        m,
		logger:         logger,
		sleeps:         newSleepTracker(sleepTrackerSize),
	}
}

// Poll polls every person over the same window.
func (p *Poller) Poll(ctx context.Context, start, end time.Time) []models.Record {
	return p.PollWindows(ctx, func(models.Person) Window {
		return Window{Start: start, End: end}
	})
}

// PollWindows polls every person over the window returned by windowFor.
// Fetch failures become Error records; records of one person keep the order
// heart rate samples, then sleep derived records.
func (p *Poller) PollWindows(ctx context.Context, windowFor func(models.Person) Window) []models.Record {
	results := make([][]models.Record, len(p.persons))

	g, gctx := errgroup.WithContext(ctx)
	if p.maxConcurrency > 0 {
		g.SetLimit(p.maxConcurrency)
	}
	for i, person := range p.persons {
		i, person := i, person
		g.Go(func() error {
			results[i] = p.pollPerson(gctx, person, windowFor(person))
			return nil
		})
	}
	_ = g.Wait()

	var records []models.Record
	for _, r := range results {
		records = append(records, r...)
	}
	p.metrics.ObserveRecords(records)
	return records
}

func (p *Poller) pollPerson(ctx context.Context, person models.Person, window Window) []models.Record {
	var heartRate, sleep []models.Record

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		heartRate = p.pollHeartRate(gctx, person, window)
		return nil
	})
	g.Go(func() error {
		sleep = p.pollSleep(gctx, person, window)
		return nil
	})
	_ = g.Wait()

	p.logger.Debug("Polled person",
		zap.String("person", person.Name),
		zap.Time("start", window.Start),
		zap.Time("end", window.End),
		zap.Int("heart_rate_records", len(heartRate)),
		zap.Int("sleep_records", len(sleep)),
	)

	return append(heartRate, sleep...)
}

func (p *Poller) pollHeartRate(ctx context.Context, person models.Person, window Window) []models.Record {
	resp, err := p.fetcher.FetchHeartRate(ctx, person.AccessToken, window.Start, window.End)
	if err != nil {
		p.logger.Warn("Failed to fetch heart rate",
			zap.String("person", person.Name),
			zap.Error(err),
		)
		return []models.Record{models.ErrorRecord(person.Name, err)}
	}
	return transformer.RecordsFromHeartRateSamples(resp.Data, person.Name)
}

func (p *Poller) pollSleep(ctx context.Context, person models.Person, window Window) []models.Record {
	resp, err := p.fetcher.FetchSleepDocuments(ctx, person.AccessToken, window.Start, window.End)
	if err != nil {
		p.logger.Warn("Failed to fetch sleep documents",
			zap.String("person", person.Name),
			zap.Error(err),
		)
		return []models.Record{models.ErrorRecord(person.Name, err)}
	}
	docs := p.sleeps.unseen(person.Name, resp.Data)
	if skipped := len(resp.Data) - len(docs); skipped > 0 {
		p.logger.Debug("Skipped already exported sleep documents",
			zap.String("person", person.Name),
			zap.Int("skipped", skipped),
		)
	}
	return transformer.RecordsFromSleepDocuments(docs, person.Name)
}

// LatestTimestamps returns, per person, the latest instant carried by the
// records. Error records are ignored.
func LatestTimestamps(records []models.Record) map[string]time.Time {
	latest := make(map[string]time.Time)
	for _, r := range records {
		ts, ok := r.Timestamp()
		if !ok {
			continue
		}
		person := r.Person()
		if cur, seen := latest[person]; !seen || ts.After(cur) {
			latest[person] = ts
		}
	}
	return latest
}
