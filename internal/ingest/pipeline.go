// Package ingest runs every platform adapter (or its sample fixture) and
// builds a normalized snapshot from the combined records.
package ingest

import (
	"context"
	"crypto/rand"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/gauthierbraillon/socialdash/internal/logging"
	"github.com/gauthierbraillon/socialdash/internal/metrics"
	"github.com/gauthierbraillon/socialdash/internal/normalize"
	"github.com/gauthierbraillon/socialdash/internal/sample"
	"github.com/gauthierbraillon/socialdash/internal/social"
)

// Adapter fetches recent content for a list of identifiers. Implementations
// log and skip failures; an empty result means nothing was retrieved.
type Adapter interface {
	Fetch(ctx context.Context, identifiers []string, credential string, limit int) []social.Record
}

// Source describes where the records of one platform come from.
type Source struct {
	UseSample   bool
	Identifiers []string
	Credential  string
	Limit       int
}

// Sources maps each platform to ingest onto its source.
// Platforms without an entry contribute nothing.
type Sources map[social.Platform]Source

// Snapshot is the result of one ingestion run.
type Snapshot struct {
	RunID     string
	FetchedAt time.Time
	Records   []social.Record
	Table     normalize.Table
}

// Option configures the Pipeline.
type Option func(*Pipeline)

// WithAdapter registers the live adapter of a platform.
func WithAdapter(p social.Platform, a Adapter) Option {
	return func(pl *Pipeline) {
		pl.adapters[p] = a
	}
}

// WithSampleLoader sets the fixture loader used for sample sources.
func WithSampleLoader(l *sample.Loader) Option {
	return func(pl *Pipeline) {
		pl.samples = l
	}
}

// WithLogger sets the pipeline logger.
func WithLogger(logger logrus.FieldLogger) Option {
	return func(pl *Pipeline) {
		pl.logger = logger
	}
}

// WithMetrics records fetch counts and run timings on m.
func WithMetrics(m *metrics.Collector) Option {
	return func(pl *Pipeline) {
		pl.metrics = m
	}
}

// WithClock overrides the time source (useful for testing).
func WithClock(now func() time.Time) Option {
	return func(pl *Pipeline) {
		pl.now = now
	}
}

// Pipeline ingests all configured platforms concurrently.
type Pipeline struct {
	adapters map[social.Platform]Adapter
	samples  *sample.Loader
	logger   logrus.FieldLogger
	metrics  *metrics.Collector
	now      func() time.Time
}

// NewPipeline creates a pipeline.
func NewPipeline(opts ...Option) *Pipeline {
	p := &Pipeline{
		adapters: make(map[social.Platform]Adapter),
		logger:   logging.Discard(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run fetches every platform in sources and normalizes the combined records.
// Records are concatenated in youtube, facebook, instagram order whatever
// order the fetches complete in. A platform that fails contributes nothing;
// the only error is the context ending before the run completed.
func (p *Pipeline) Run(ctx context.Context, sources Sources) (Snapshot, error) {
	started := p.now()
	runID := ulid.MustNew(ulid.Timestamp(started), ulid.Monotonic(rand.Reader, 0)).String()
	log := p.logger.WithField("run_id", runID)

	results := make([][]social.Record, len(social.Platforms))
	g, gctx := errgroup.WithContext(ctx)
	for i, platform := range social.Platforms {
		i, platform := i, platform
		source, ok := sources[platform]
		if !ok {
			log.WithField("platform", platform).Info("No identifiers or sample source configured, skipping platform")
			continue
		}
		g.Go(func() error {
			records := p.fetch(gctx, log.WithField("platform", platform), platform, source)
			p.metrics.RecordsFetched(platform, len(records))
			results[i] = records
			return gctx.Err()
		})
	}
	if err := g.Wait(); err != nil {
		return Snapshot{}, err
	}

	all := make([]social.Record, 0)
	for _, records := range results {
		all = append(all, records...)
	}
	table := normalize.ToTable(all)
	p.metrics.IngestFinished(started, table.Len())
	log.WithField("rows", table.Len()).Info("Ingestion finished")

	return Snapshot{
		RunID:     runID,
		FetchedAt: started.UTC(),
		Records:   all,
		Table:     table,
	}, nil
}

func (p *Pipeline) fetch(ctx context.Context, log logrus.FieldLogger, platform social.Platform, source Source) []social.Record {
	if source.UseSample {
		if p.samples == nil {
			log.Warn("No sample directory configured, returning no records")
			return nil
		}
		records, err := p.samples.Load(ctx, platform)
		if err != nil {
			log.WithError(err).Error("Failed to load sample records")
			return nil
		}
		log.WithField("records", len(records)).Debug("Loaded sample records")
		return records
	}

	adapter, ok := p.adapters[platform]
	if !ok {
		log.Warn("No adapter registered, returning no records")
		return nil
	}
	records := adapter.Fetch(ctx, source.Identifiers, source.Credential, source.Limit)
	log.WithField("records", len(records)).Debug("Fetched live records")
	return records
}
