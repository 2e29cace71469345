package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/bits-and-blooms/bloom/v3"
	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"roster-tracker/internal/config"
	"roster-tracker/internal/ingest"
	"roster-tracker/internal/riot"
	"roster-tracker/internal/store"
)

func main() {
	fullHistory := flag.Bool("full-history", false, "Page through the entire match history instead of the latest page")
	team := flag.String("team", "", "Roster team to ingest (overrides ROSTER_TEAM)")
	flag.Parse()

	logger, err := zap.NewProduction()
	if err != nil {
		os.Exit(1)
	}
	defer logger.Sync()
	log := logger.Sugar()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalw("configuration invalid", "err", err)
	}
	if *fullHistory {
		cfg.FullHistory = true
	}
	if *team != "" {
		cfg.Team = *team
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, cfg, log); err != nil {
		log.Fatalw("ingest failed", "err", err)
	}
}

// run is the whole pipeline: check the key, resolve the roster, fetch and
// flatten every new match, write the rows. It runs to completion and exits.
func run(ctx context.Context, cfg *config.Config, log *zap.SugaredLogger) error {
	ok, err := riot.NewKeyCheck().Check(ctx, cfg.RiotAPIKey)
	if err != nil {
		log.Warnw("key probe inconclusive, continuing", "err", err)
	} else if !ok {
		return errors.New("api key rejected, renew it before running")
	}

	client, err := riot.NewClient(riot.ClientConfig{
		APIKey:      cfg.RiotAPIKey,
		Region:      cfg.Region,
		Logger:      log,
		MaxAttempts: cfg.MaxAttempts,
	})
	if err != nil {
		return err
	}

	db, err := store.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer db.Close()

	puuids, err := resolveRoster(ctx, cfg, client, db, log)
	if err != nil {
		return err
	}
	if len(puuids) == 0 {
		log.Warn("empty roster, nothing to do")
		return nil
	}

	known, err := knownMatches(ctx, db, log)
	if err != nil {
		return err
	}

	orch := ingest.New(client, ingest.Config{
		Workers:     cfg.Workers,
		PageSize:    cfg.PageSize,
		FullHistory: cfg.FullHistory,
		Logger:      log,
		Known:       known,
	})
	rows, err := orch.FetchAll(ctx, puuids)
	if err != nil {
		return err
	}

	outcomes, err := ingest.NewUpserter(db, store.DefaultTable, log).Upsert(ctx, rows)
	if err != nil {
		return err
	}

	failed := 0
	for _, o := range outcomes {
		if o.Err != nil {
			failed++
		}
	}
	log.Infow("ingest complete", "rows", len(outcomes), "failed", failed)
	return nil
}

// resolveRoster produces the puuid set to ingest. A ROSTER override of
// name#tag handles is resolved through the account API; otherwise the
// players table supplies stored puuids directly. A handle that no longer
// resolves is logged and skipped, the rest of the roster proceeds.
func resolveRoster(ctx context.Context, cfg *config.Config, client *riot.Client, db *store.Store, log *zap.SugaredLogger) ([]string, error) {
	if len(cfg.Roster) > 0 {
		var puuids []string
		for _, nickname := range cfg.Roster {
			handle, err := riot.ParseHandle(nickname)
			if err != nil {
				log.Warnw("bad roster entry, skipping", "nickname", nickname, "err", err)
				continue
			}
			puuid, err := client.ResolveHandle(ctx, handle)
			if err != nil {
				if riot.IsNotFound(err) {
					log.Warnw("handle no longer resolves, skipping",
						"handle", handle.String())
					continue
				}
				return nil, err
			}
			puuids = append(puuids, puuid)
		}
		return puuids, nil
	}

	players, err := db.RosterPlayers(ctx, cfg.Team)
	if err != nil {
		return nil, err
	}
	puuids := make([]string, 0, len(players))
	for _, p := range players {
		puuids = append(puuids, p.PUUID)
	}
	log.Infow("roster loaded", "team", cfg.Team, "players", len(puuids))
	return puuids, nil
}

// knownMatches seeds a bloom filter with every stored match id so re-runs
// skip refetching them.
func knownMatches(ctx context.Context, db *store.Store, log *zap.SugaredLogger) (*bloom.BloomFilter, error) {
	ids, err := db.ExistingMatchIDs(ctx, store.DefaultTable)
	if err != nil {
		return nil, err
	}

	filter := bloom.NewWithEstimates(500000, 0.001)
	for _, id := range ids {
		filter.AddString(id)
	}
	log.Infow("seeded stored-match filter", "matches", len(ids))
	return filter, nil
}
