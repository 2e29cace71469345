package store

import (
	"context"
	"encoding/json"

	"github.com/cockroachdb/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DefaultTable is the match-participant table.
const DefaultTable = "game_player"

// indexLockKey serializes index assignment across concurrent pipeline runs.
const indexLockKey = 824467001

// Store wraps the Postgres connection pool for the two logical tables:
// players (roster) and game_player (flattened match rows).
type Store struct {
	pool *pgxpool.Pool
}

// New connects to the database at databaseURL and verifies the connection.
func New(ctx context.Context, databaseURL string) (*Store, error) {
	if databaseURL == "" {
		return nil, errors.New("store: database url is required")
	}

	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, errors.Wrap(err, "store: create pool")
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, errors.Wrap(err, "store: ping")
	}

	return &Store{pool: pool}, nil
}

// Close closes the connection pool.
func (s *Store) Close() {
	s.pool.Close()
}

// MaxRowIndex returns the highest assigned row index in table, or 0 when
// the table is empty.
func (s *Store) MaxRowIndex(ctx context.Context, table string) (int64, error) {
	var max int64
	query := `SELECT COALESCE(MAX("index"), 0) FROM ` + pgx.Identifier{table}.Sanitize()
	if err := s.pool.QueryRow(ctx, query).Scan(&max); err != nil {
		return 0, errors.Wrap(err, "store: max row index")
	}
	return max, nil
}

// WithIndexLock runs fn while holding the advisory lock that guards index
// assignment. The lock is session-scoped, so it is taken and released on a
// single pooled connection. Per-row inserts inside fn stay non-transactional.
func (s *Store) WithIndexLock(ctx context.Context, fn func() error) error {
	conn, err := s.pool.Acquire(ctx)
	if err != nil {
		return errors.Wrap(err, "store: acquire conn for index lock")
	}
	defer conn.Release()

	if _, err := conn.Exec(ctx, `SELECT pg_advisory_lock($1)`, indexLockKey); err != nil {
		return errors.Wrap(err, "store: take index lock")
	}
	defer conn.Exec(ctx, `SELECT pg_advisory_unlock($1)`, indexLockKey)

	return fn()
}

// InsertRow inserts one flattened participant row. No conflict handling:
// the pipeline is insert-only and dedup happens before fetch.
func (s *Store) InsertRow(ctx context.Context, table string, row StoreRow) error {
	participantsJSON, err := json.Marshal(row.Participants)
	if err != nil {
		return errors.Wrap(err, "store: encode participants")
	}

	query := `INSERT INTO ` + pgx.Identifier{table}.Sanitize() + ` (
		"index", match_id, participants,
		game_creation, game_start_timestamp, game_end_timestamp,
		game_version, queue_id, game_mode, platform_id,
		puuid, riot_id, riot_tag, time_played, side, win,
		team_position, lane, champion, kills, deaths, assists,
		summoner1_id, summoner2_id, gold_earned,
		total_minions_killed, total_neutral_minions_killed,
		total_ally_jungle_minions_killed, total_enemy_jungle_minions_killed,
		early_surrender, surrender, first_blood, first_blood_assist,
		first_tower, first_tower_assist,
		damage_dealt_to_buildings, turret_kills, turrets_lost,
		damage_dealt_to_objectives, dragon_kills, objectives_stolen,
		longest_time_spent_living, largest_killing_spree,
		total_damage_dealt_champions, total_damage_taken,
		total_damage_self_mitigated, total_damage_shielded_teammates,
		total_heals_teammates, total_time_crowd_controlled,
		total_time_spent_dead, vision_score, wards_killed, wards_placed,
		control_wards_placed,
		item0, item1, item2, item3, item4, item5, item6,
		perk_keystone, perk_primary_row_1, perk_primary_row_2,
		perk_primary_row_3, perk_secondary_row_1, perk_secondary_row_2,
		perk_primary_style, perk_secondary_style,
		perk_shard_defense, perk_shard_flex, perk_shard_offense,
		opp_champion
	) VALUES (
		$1, $2, $3, $4, $5, $6, $7, $8, $9, $10,
		$11, $12, $13, $14, $15, $16, $17, $18, $19, $20,
		$21, $22, $23, $24, $25, $26, $27, $28, $29, $30,
		$31, $32, $33, $34, $35, $36, $37, $38, $39, $40,
		$41, $42, $43, $44, $45, $46, $47, $48, $49, $50,
		$51, $52, $53, $54, $55, $56, $57, $58, $59, $60,
		$61, $62, $63, $64, $65, $66, $67, $68, $69, $70,
		$71, $72, $73
	)`

	_, err = s.pool.Exec(ctx, query,
		row.Index, row.MatchID, participantsJSON,
		row.GameCreationISO, row.GameStartISO, row.GameEndISO,
		row.GameVersion, row.QueueID, row.GameMode, row.PlatformID,
		row.PUUID, row.RiotID, row.RiotTag, row.TimePlayed, row.Side, row.Win,
		row.TeamPosition, row.Lane, row.Champion, row.Kills, row.Deaths, row.Assists,
		row.Summoner1ID, row.Summoner2ID, row.GoldEarned,
		row.TotalMinionsKilled, row.TotalNeutralMinionsKilled,
		row.TotalAllyJungleMinionsKilled, row.TotalEnemyJungleMinionsKilled,
		row.EarlySurrender, row.Surrender, row.FirstBlood, row.FirstBloodAssist,
		row.FirstTower, row.FirstTowerAssist,
		row.DamageDealtToBuildings, row.TurretKills, row.TurretsLost,
		row.DamageDealtToObjectives, row.DragonKills, row.ObjectivesStolen,
		row.LongestTimeSpentLiving, row.LargestKillingSpree,
		row.TotalDamageDealtChampions, row.TotalDamageTaken,
		row.TotalDamageSelfMitigated, row.TotalDamageShieldedTeammates,
		row.TotalHealsTeammates, row.TotalTimeCrowdControlled,
		row.TotalTimeSpentDead, row.VisionScore, row.WardsKilled, row.WardsPlaced,
		row.ControlWardsPlaced,
		row.Item0, row.Item1, row.Item2, row.Item3, row.Item4, row.Item5, row.Item6,
		row.PerkKeystone, row.PerkPrimaryRow1, row.PerkPrimaryRow2,
		row.PerkPrimaryRow3, row.PerkSecondaryRow1, row.PerkSecondaryRow2,
		row.PerkPrimaryStyle, row.PerkSecondaryStyle,
		row.PerkShardDefense, row.PerkShardFlex, row.PerkShardOffense,
		nullIfEmpty(row.OppChampion),
	)
	if err != nil {
		return errors.Wrapf(err, "store: insert row index=%d match=%s", row.Index, row.MatchID)
	}
	return nil
}

// ExistingMatchIDs returns the distinct match ids already stored in table.
// Seeds the orchestrator's already-fetched filter so re-runs skip them.
func (s *Store) ExistingMatchIDs(ctx context.Context, table string) ([]string, error) {
	query := `SELECT DISTINCT match_id FROM ` + pgx.Identifier{table}.Sanitize()
	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, errors.Wrap(err, "store: existing match ids")
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, errors.Wrap(err, "store: scan match id")
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}
