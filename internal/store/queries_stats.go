package store

import (
	"context"

	"github.com/cockroachdb/errors"
)

// RosterPlayers returns the active players of a team from the players table.
func (s *Store) RosterPlayers(ctx context.Context, team string) ([]RosterPlayer, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT player_nickname, main_puuid, current_team
		FROM players
		WHERE current_team = $1
	`, team)
	if err != nil {
		return nil, errors.Wrap(err, "store: roster players")
	}
	defer rows.Close()

	var players []RosterPlayer
	for rows.Next() {
		var p RosterPlayer
		if err := rows.Scan(&p.Nickname, &p.PUUID, &p.CurrentTeam); err != nil {
			return nil, errors.Wrap(err, "store: scan roster player")
		}
		players = append(players, p)
	}
	return players, rows.Err()
}

// ChampionWinRates returns per-champion win rate and games played for one
// player in one role, most played first. This backs the dashboard's pick
// history tables.
func (s *Store) ChampionWinRates(ctx context.Context, puuid, role string) ([]ChampionWinRate, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT champion,
		       COUNT(*) AS games,
		       SUM(CASE WHEN win THEN 1 ELSE 0 END) AS wins
		FROM `+DefaultTable+`
		WHERE puuid = $1 AND ($2 = '' OR team_position = $2)
		GROUP BY champion
		ORDER BY games DESC
	`, puuid, role)
	if err != nil {
		return nil, errors.Wrap(err, "store: champion win rates")
	}
	defer rows.Close()

	var stats []ChampionWinRate
	for rows.Next() {
		var s ChampionWinRate
		var wins int
		if err := rows.Scan(&s.Champion, &s.Games, &wins); err != nil {
			return nil, errors.Wrap(err, "store: scan win rate")
		}
		if s.Games > 0 {
			s.WinRate = float64(wins) / float64(s.Games) * 100
		}
		stats = append(stats, s)
	}
	return stats, rows.Err()
}

// RowCount returns the total number of stored participant rows.
func (s *Store) RowCount(ctx context.Context) (int, error) {
	var count int
	if err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM `+DefaultTable).Scan(&count); err != nil {
		return 0, errors.Wrap(err, "store: row count")
	}
	return count, nil
}

// MatchCount returns how many distinct matches are stored.
func (s *Store) MatchCount(ctx context.Context) (int, error) {
	var count int
	if err := s.pool.QueryRow(ctx, `SELECT COUNT(DISTINCT match_id) FROM `+DefaultTable).Scan(&count); err != nil {
		return 0, errors.Wrap(err, "store: match count")
	}
	return count, nil
}
