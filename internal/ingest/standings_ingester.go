package ingest

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/fortuna/standings/internal/metrics"
	"github.com/fortuna/standings/internal/standings"
)

// Fetcher returns the raw standings document for a league
type Fetcher interface {
	FetchStandings(ctx context.Context, leagueKey string) (string, error)
}

// Publisher delivers single standings messages (Redis streams, AMQP)
type Publisher interface {
	PublishStandings(ctx context.Context, leagueKey string, msg standings.Message) error
}

// Cache keeps the latest rendered standings per league
type Cache interface {
	SetStandings(ctx context.Context, leagueKey string, messages []standings.Message, ttl time.Duration) error
}

// History persists rendered snapshots
type History interface {
	SaveRun(ctx context.Context, leagueKey string, style standings.Style, messages []standings.Message) (int64, error)
}

// Broadcaster pushes a full snapshot to live listeners
type Broadcaster interface {
	BroadcastStandings(leagueKey string, messages []standings.Message)
}

// Options wires the optional sinks of an Ingester. Nil sinks are skipped.
type Options struct {
	Style       standings.Style
	CacheTTL    time.Duration
	Publishers  []Publisher
	Cache       Cache
	History     History
	Broadcaster Broadcaster
	Metrics     *metrics.Recorder
}

// StandingsIngester fetches a league feed, renders one message per team and
// hands the messages to every configured sink.
type StandingsIngester struct {
	fetcher   Fetcher
	formatter *standings.Formatter
	opts      Options
}

// NewStandingsIngester creates an ingester around a feed fetcher
func NewStandingsIngester(fetcher Fetcher, opts Options) *StandingsIngester {
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = 24 * time.Hour
	}
	return &StandingsIngester{
		fetcher:   fetcher,
		formatter: standings.NewFormatter(opts.Style),
		opts:      opts,
	}
}

// Style returns the markup style messages are rendered with
func (si *StandingsIngester) Style() standings.Style {
	return si.opts.Style
}

// Render parses a raw standings document and renders it without touching any sink
func (si *StandingsIngester) Render(content string, style standings.Style) ([]standings.Message, error) {
	doc, err := standings.ParseDocument(strings.NewReader(content))
	if err != nil {
		return nil, err
	}
	return standings.NewFormatter(style).RenderDocument(doc), nil
}

// IngestLeague runs one fetch-render-deliver cycle for a league. Only fetch
// and parse failures are returned; sink failures are logged.
func (si *StandingsIngester) IngestLeague(ctx context.Context, leagueKey string) ([]standings.Message, error) {
	start := time.Now()
	defer func() { si.opts.Metrics.ObserveIngest(leagueKey, time.Since(start)) }()

	log.Printf("[ingest] Fetching standings for %s", leagueKey)

	content, err := si.fetcher.FetchStandings(ctx, leagueKey)
	si.opts.Metrics.RecordFetch(leagueKey, err)
	if err != nil {
		return nil, fmt.Errorf("fetch standings for %s: %w", leagueKey, err)
	}

	doc, err := standings.ParseDocument(strings.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("parse standings for %s: %w", leagueKey, err)
	}

	messages := []standings.Message{}
	for msg := range si.formatter.FormatStandings(standings.Teams(doc)) {
		si.publish(ctx, leagueKey, msg)
		messages = append(messages, msg)
	}
	si.opts.Metrics.RecordMessages(leagueKey, len(messages))

	if len(messages) == 0 {
		log.Printf("[ingest] ⚠️  No teams found in standings for %s", leagueKey)
	}

	si.store(ctx, leagueKey, messages)

	log.Printf("[ingest] ✓ %s: rendered %d standings messages in %v", leagueKey, len(messages), time.Since(start).Round(time.Millisecond))
	return messages, nil
}

func (si *StandingsIngester) publish(ctx context.Context, leagueKey string, msg standings.Message) {
	for _, p := range si.opts.Publishers {
		if err := p.PublishStandings(ctx, leagueKey, msg); err != nil {
			log.Printf("[ingest] ⚠️  Failed to publish standings for %s: %v", leagueKey, err)
		}
	}
}

func (si *StandingsIngester) store(ctx context.Context, leagueKey string, messages []standings.Message) {
	if si.opts.Cache != nil {
		if err := si.opts.Cache.SetStandings(ctx, leagueKey, messages, si.opts.CacheTTL); err != nil {
			log.Printf("[ingest] ⚠️  Failed to cache standings for %s: %v", leagueKey, err)
		}
	}

	if si.opts.History != nil {
		if runID, err := si.opts.History.SaveRun(ctx, leagueKey, si.opts.Style, messages); err != nil {
			log.Printf("[ingest] ⚠️  Failed to save standings run for %s: %v", leagueKey, err)
		} else {
			log.Printf("[ingest] Saved standings run %d for %s", runID, leagueKey)
		}
	}

	if si.opts.Broadcaster != nil {
		si.opts.Broadcaster.BroadcastStandings(leagueKey, messages)
	}
}
