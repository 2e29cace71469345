package ingest

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/bits-and-blooms/bloom/v3"
	"github.com/panjf2000/ants/v2"
	"go.uber.org/zap"

	"roster-tracker/internal/riot"
	"roster-tracker/internal/store"
)

// DefaultWorkers bounds the concurrent match-detail fetches.
const DefaultWorkers = 10

// MatchFetcher is the slice of the Riot client the orchestrator needs.
// Separate from the concrete client so tests can stub it.
type MatchFetcher interface {
	ListMatchIDs(ctx context.Context, puuid string, start, count int) ([]string, error)
	GetMatch(ctx context.Context, matchID string) (*riot.MatchResponse, error)
}

// Config configures an Orchestrator.
type Config struct {
	Workers     int
	PageSize    int
	FullHistory bool // page through the entire history instead of one page
	Logger      *zap.SugaredLogger

	// Known pre-filters match ids already present in the store so re-runs
	// skip refetching them. Optional; bloom false positives only cost a
	// skipped match, never a duplicate row.
	Known *bloom.BloomFilter
}

// Orchestrator unions match ids across a roster, deduplicates them and
// fetches each unique match once through a bounded worker pool, flattening
// results in completion order.
type Orchestrator struct {
	client      MatchFetcher
	workers     int
	pageSize    int
	fullHistory bool
	known       *bloom.BloomFilter
	log         *zap.SugaredLogger
}

// New creates an Orchestrator around client.
func New(client MatchFetcher, cfg Config) *Orchestrator {
	workers := cfg.Workers
	if workers <= 0 {
		workers = DefaultWorkers
	}
	pageSize := cfg.PageSize
	if pageSize <= 0 {
		pageSize = riot.DefaultPageSize
	}
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Orchestrator{
		client:      client,
		workers:     workers,
		pageSize:    pageSize,
		fullHistory: cfg.FullHistory,
		known:       cfg.Known,
		log:         log,
	}
}

// FetchAll runs discovery for every puuid, then fetches and flattens each
// unique match. Individual failures (listing, fetch, parse) are logged and
// skipped; the returned row set is whatever accumulated. Row order follows
// fetch completion and is not deterministic.
func (o *Orchestrator) FetchAll(ctx context.Context, puuids []string) ([]store.ParticipantRow, error) {
	var collected []string
	for _, puuid := range puuids {
		ids, err := o.listFor(ctx, puuid)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			// Failed listing means no matches for this player, the rest
			// of the roster still proceeds.
			o.log.Warnw("match listing failed, skipping player",
				"puuid", short(puuid), "err", err)
			continue
		}
		collected = append(collected, ids...)
	}

	unique := dedupe(collected)
	o.log.Infow("match ids discovered",
		"total", len(collected), "unique", len(unique))

	if o.known != nil {
		fresh := unique[:0]
		for _, id := range unique {
			if o.known.TestString(id) {
				continue
			}
			fresh = append(fresh, id)
		}
		if skipped := len(unique) - len(fresh); skipped > 0 {
			o.log.Infow("already stored, skipping", "matches", skipped)
		}
		unique = fresh
	}

	if len(unique) == 0 {
		o.log.Info("no new matches")
		return []store.ParticipantRow{}, nil
	}

	pool, err := ants.NewPool(o.workers)
	if err != nil {
		return nil, err
	}
	defer pool.Release()

	var (
		mu      sync.Mutex
		rows    []store.ParticipantRow
		skipped atomic.Int64
		wg      sync.WaitGroup
	)
	for _, id := range unique {
		matchID := id
		wg.Add(1)
		if err := pool.Submit(func() {
			defer wg.Done()

			match, err := o.client.GetMatch(ctx, matchID)
			if err != nil {
				o.log.Warnw("match fetch failed, skipping",
					"match", matchID, "err", err)
				skipped.Add(1)
				return
			}

			matchRows, err := Flatten(match)
			if err != nil {
				o.log.Warnw("match payload not flattenable, skipping",
					"match", matchID, "err", err)
				skipped.Add(1)
				return
			}

			mu.Lock()
			rows = append(rows, matchRows...)
			mu.Unlock()
		}); err != nil {
			wg.Done()
			o.log.Warnw("worker submit failed", "match", matchID, "err", err)
			skipped.Add(1)
		}
	}
	wg.Wait()

	normalizeRows(rows)

	o.log.Infow("fetch complete",
		"matches", len(unique)-int(skipped.Load()),
		"skipped", skipped.Load(),
		"rows", len(rows))
	return rows, nil
}

// listFor runs discovery for one player, paging when configured.
func (o *Orchestrator) listFor(ctx context.Context, puuid string) ([]string, error) {
	if !o.fullHistory {
		return o.client.ListMatchIDs(ctx, puuid, 0, o.pageSize)
	}

	var all []string
	for start := 0; ; start += o.pageSize {
		page, err := o.client.ListMatchIDs(ctx, puuid, start, o.pageSize)
		if err != nil {
			return all, err
		}
		all = append(all, page...)
		if len(page) < o.pageSize {
			return all, nil
		}
	}
}

// normalizeRows converts the time-played column from milliseconds to
// minutes. The three timestamp columns stay epoch-ms until the upserter
// renders them as ISO-8601 text.
func normalizeRows(rows []store.ParticipantRow) {
	for i := range rows {
		rows[i].TimePlayed /= 60000
	}
}

// dedupe keeps the first occurrence of each id, preserving order.
func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func short(puuid string) string {
	if len(puuid) > 16 {
		return puuid[:16]
	}
	return puuid
}
