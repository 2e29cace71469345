package ingest

import (
	"strconv"

	"github.com/cockroachdb/errors"

	"roster-tracker/internal/riot"
	"roster-tracker/internal/store"
)

var (
	// ErrMalformedPayload marks match payloads whose shape cannot be
	// flattened. The orchestrator logs the raw body and skips the match.
	ErrMalformedPayload = errors.New("malformed match payload")

	// ErrUnmappedTeam marks a team id outside the fixed 100/200 mapping.
	ErrUnmappedTeam = errors.New("unmapped team id")
)

// sideNames is the fixed team-id to side mapping. Any other id is a schema
// violation and fails the match.
var sideNames = map[int]string{
	100: "blue",
	200: "red",
}

// perkFieldNames is the completeness report entry list when the rune block
// is absent or truncated.
var perkFieldNames = []string{
	"perk_keystone", "perk_primary_row_1", "perk_primary_row_2",
	"perk_primary_row_3", "perk_primary_style", "perk_secondary_row_1",
	"perk_secondary_row_2", "perk_secondary_style", "perk_shard_defense",
	"perk_shard_flex", "perk_shard_offense",
}

// Flatten turns one match payload into one row per metadata participant, in
// metadata order. metadata.participants[i] is the puuid of
// info.participants[i]; a mismatch between the two arrays fails the whole
// match as malformed.
func Flatten(match *riot.MatchResponse) ([]store.ParticipantRow, error) {
	meta := match.Metadata
	info := match.Info

	if len(meta.Participants) != len(info.Participants) {
		return nil, errors.Wrapf(ErrMalformedPayload,
			"match %s: %d metadata participants vs %d info participants",
			meta.MatchID, len(meta.Participants), len(info.Participants))
	}

	timePlayed := info.GameEndTimestamp - info.GameStartTimestamp

	rows := make([]store.ParticipantRow, 0, len(meta.Participants))
	for i, puuid := range meta.Participants {
		p := info.Participants[i]
		if p.PUUID != "" && p.PUUID != puuid {
			return nil, errors.Wrapf(ErrMalformedPayload,
				"match %s: participant %d puuid mismatch", meta.MatchID, i)
		}

		side, ok := sideNames[p.TeamID]
		if !ok {
			return nil, errors.Wrapf(ErrUnmappedTeam,
				"match %s: participant %d has team id %d", meta.MatchID, i, p.TeamID)
		}

		row := store.ParticipantRow{
			MatchID:      meta.MatchID,
			Participants: meta.Participants,

			GameCreation:       info.GameCreation,
			GameStartTimestamp: info.GameStartTimestamp,
			GameEndTimestamp:   info.GameEndTimestamp,
			GameVersion:        info.GameVersion,
			QueueID:            info.QueueID,
			GameMode:           info.GameMode,
			PlatformID:         info.PlatformID,

			PUUID:      puuid,
			RiotID:     riotID(p),
			RiotTag:    p.RiotIdTagline,
			TimePlayed: float64(timePlayed),
			Side:       side,
			Win:        p.Win,

			TeamPosition: p.TeamPosition,
			Lane:         p.Lane,
			Champion:     p.ChampionName,
			Kills:        p.Kills,
			Deaths:       p.Deaths,
			Assists:      p.Assists,
			Summoner1ID:  p.Summoner1ID,
			Summoner2ID:  p.Summoner2ID,

			GoldEarned:                    p.GoldEarned,
			TotalMinionsKilled:            p.TotalMinionsKilled,
			TotalNeutralMinionsKilled:     p.TotalAllyJungleMinionsKilled + p.TotalEnemyJungleMinionsKilled,
			TotalAllyJungleMinionsKilled:  p.TotalAllyJungleMinionsKilled,
			TotalEnemyJungleMinionsKilled: p.TotalEnemyJungleMinionsKilled,

			EarlySurrender:   p.GameEndedInEarlySurrender,
			Surrender:        p.GameEndedInSurrender,
			FirstBlood:       p.FirstBloodKill,
			FirstBloodAssist: p.FirstBloodAssist,
			FirstTower:       p.FirstTowerKill,
			FirstTowerAssist: p.FirstTowerAssist,

			DamageDealtToBuildings:  p.DamageDealtToBuildings,
			TurretKills:             p.TurretKills,
			TurretsLost:             p.TurretsLost,
			DamageDealtToObjectives: p.DamageDealtToObjectives,
			DragonKills:             p.DragonKills,
			ObjectivesStolen:        p.ObjectivesStolen,

			LongestTimeSpentLiving:       p.LongestTimeSpentLiving,
			LargestKillingSpree:          p.LargestKillingSpree,
			TotalDamageDealtChampions:    p.TotalDamageDealtToChampions,
			TotalDamageTaken:             p.TotalDamageTaken,
			TotalDamageSelfMitigated:     p.DamageSelfMitigated,
			TotalDamageShieldedTeammates: p.TotalDamageShieldedOnTeammates,
			TotalHealsTeammates:          p.TotalHealsOnTeammates,
			TotalTimeCrowdControlled:     p.TotalTimeCCDealt,
			TotalTimeSpentDead:           p.TotalTimeSpentDead,

			VisionScore:        p.VisionScore,
			WardsKilled:        p.WardsKilled,
			WardsPlaced:        p.WardsPlaced,
			ControlWardsPlaced: p.DetectorWardsPlaced,

			Item0: p.Item0,
			Item1: p.Item1,
			Item2: p.Item2,
			Item3: p.Item3,
			Item4: p.Item4,
			Item5: p.Item5,
			Item6: p.Item6,

			OppChampion: opponentChampion(info.Participants, p),
		}

		if p.RiotIdTagline == "" {
			row.Defaulted = append(row.Defaulted, "riot_tag")
		}
		fillPerks(&row, p.Perks)

		rows = append(rows, row)
	}
	return rows, nil
}

// riotID prefers the modern riot id game name, keeping the legacy summoner
// name for payloads that predate it.
func riotID(p riot.MatchParticipant) string {
	if p.RiotIdGameName != "" {
		return p.RiotIdGameName
	}
	return p.SummonerName
}

// opponentChampion finds the laner facing p: first participant on the
// opposing team with the same teamPosition and a different champion. The
// first hit wins; later non-matching participants never reset it.
func opponentChampion(participants []riot.MatchParticipant, p riot.MatchParticipant) string {
	for _, other := range participants {
		if other.TeamID == p.TeamID {
			continue
		}
		if other.TeamPosition == p.TeamPosition && other.ChampionName != p.ChampionName {
			return other.ChampionName
		}
	}
	return ""
}

// fillPerks extracts the 11 perk fields from the nested rune block. A
// missing or truncated block defaults every perk field to the empty-string
// sentinel and records them in the completeness report.
func fillPerks(row *store.ParticipantRow, perks *riot.ParticipantPerks) {
	if perks == nil || len(perks.Styles) < 2 ||
		len(perks.Styles[0].Selections) < 4 || len(perks.Styles[1].Selections) < 2 {
		row.Defaulted = append(row.Defaulted, perkFieldNames...)
		return
	}

	primary, secondary := perks.Styles[0], perks.Styles[1]
	row.PerkKeystone = strconv.Itoa(primary.Selections[0].Perk)
	row.PerkPrimaryRow1 = strconv.Itoa(primary.Selections[1].Perk)
	row.PerkPrimaryRow2 = strconv.Itoa(primary.Selections[2].Perk)
	row.PerkPrimaryRow3 = strconv.Itoa(primary.Selections[3].Perk)
	row.PerkPrimaryStyle = strconv.Itoa(primary.Style)
	row.PerkSecondaryRow1 = strconv.Itoa(secondary.Selections[0].Perk)
	row.PerkSecondaryRow2 = strconv.Itoa(secondary.Selections[1].Perk)
	row.PerkSecondaryStyle = strconv.Itoa(secondary.Style)
	row.PerkShardDefense = strconv.Itoa(perks.StatPerks.Defense)
	row.PerkShardFlex = strconv.Itoa(perks.StatPerks.Flex)
	row.PerkShardOffense = strconv.Itoa(perks.StatPerks.Offense)
}
