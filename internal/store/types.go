package store

// ParticipantRow is one flattened (match, participant) record. Derived once
// from a fetched match payload and never mutated afterwards; the three
// timestamp fields stay in epoch milliseconds until persistence, TimePlayed
// is milliseconds until batch normalization converts it to minutes.
type ParticipantRow struct {
	MatchID      string   `json:"match_id"`
	Participants []string `json:"participants"`

	GameCreation       int64  `json:"game_creation"`
	GameStartTimestamp int64  `json:"game_start_timestamp"`
	GameEndTimestamp   int64  `json:"game_end_timestamp"`
	GameVersion        string `json:"game_version"`
	QueueID            int    `json:"queue_id"`
	GameMode           string `json:"game_mode"`
	PlatformID         string `json:"platform_id"`

	PUUID      string  `json:"puuid"`
	RiotID     string  `json:"riot_id"`
	RiotTag    string  `json:"riot_tag"`
	TimePlayed float64 `json:"time_played"`
	Side       string  `json:"side"`
	Win        bool    `json:"win"`

	TeamPosition string `json:"team_position"`
	Lane         string `json:"lane"`
	Champion     string `json:"champion"`
	Kills        int    `json:"kills"`
	Deaths       int    `json:"deaths"`
	Assists      int    `json:"assists"`
	Summoner1ID  int    `json:"summoner1_id"`
	Summoner2ID  int    `json:"summoner2_id"`

	GoldEarned                    int `json:"gold_earned"`
	TotalMinionsKilled            int `json:"total_minions_killed"`
	TotalNeutralMinionsKilled     int `json:"total_neutral_minions_killed"`
	TotalAllyJungleMinionsKilled  int `json:"total_ally_jungle_minions_killed"`
	TotalEnemyJungleMinionsKilled int `json:"total_enemy_jungle_minions_killed"`

	EarlySurrender   bool `json:"early_surrender"`
	Surrender        bool `json:"surrender"`
	FirstBlood       bool `json:"first_blood"`
	FirstBloodAssist bool `json:"first_blood_assist"`
	FirstTower       bool `json:"first_tower"`
	FirstTowerAssist bool `json:"first_tower_assist"`

	DamageDealtToBuildings  int `json:"damage_dealt_to_buildings"`
	TurretKills             int `json:"turret_kills"`
	TurretsLost             int `json:"turrets_lost"`
	DamageDealtToObjectives int `json:"damage_dealt_to_objectives"`
	DragonKills             int `json:"dragon_kills"`
	ObjectivesStolen        int `json:"objectives_stolen"`

	LongestTimeSpentLiving       int `json:"longest_time_spent_living"`
	LargestKillingSpree          int `json:"largest_killing_spree"`
	TotalDamageDealtChampions    int `json:"total_damage_dealt_champions"`
	TotalDamageTaken             int `json:"total_damage_taken"`
	TotalDamageSelfMitigated     int `json:"total_damage_self_mitigated"`
	TotalDamageShieldedTeammates int `json:"total_damage_shielded_teammates"`
	TotalHealsTeammates          int `json:"total_heals_teammates"`
	TotalTimeCrowdControlled     int `json:"total_time_crowd_controlled"`
	TotalTimeSpentDead           int `json:"total_time_spent_dead"`

	VisionScore        int `json:"vision_score"`
	WardsKilled        int `json:"wards_killed"`
	WardsPlaced        int `json:"wards_placed"`
	ControlWardsPlaced int `json:"control_wards_placed"`

	Item0 int `json:"item0"`
	Item1 int `json:"item1"`
	Item2 int `json:"item2"`
	Item3 int `json:"item3"`
	Item4 int `json:"item4"`
	Item5 int `json:"item5"`
	Item6 int `json:"item6"`

	// Perk selections carry numeric ids as text so an absent rune block can
	// default to the empty-string sentinel the schema expects.
	PerkKeystone       string `json:"perk_keystone"`
	PerkPrimaryRow1    string `json:"perk_primary_row_1"`
	PerkPrimaryRow2    string `json:"perk_primary_row_2"`
	PerkPrimaryRow3    string `json:"perk_primary_row_3"`
	PerkSecondaryRow1  string `json:"perk_secondary_row_1"`
	PerkSecondaryRow2  string `json:"perk_secondary_row_2"`
	PerkPrimaryStyle   string `json:"perk_primary_style"`
	PerkSecondaryStyle string `json:"perk_secondary_style"`
	PerkShardDefense   string `json:"perk_shard_defense"`
	PerkShardFlex      string `json:"perk_shard_flex"`
	PerkShardOffense   string `json:"perk_shard_offense"`

	// OppChampion is empty when no laner on the opposing team shares this
	// row's teamPosition; the store writes NULL for it.
	OppChampion string `json:"opp_champion"`

	// Defaulted lists fields filled with sentinel values because the
	// payload omitted them. Diagnostic only, never persisted.
	Defaulted []string `json:"-"`
}

// StoreRow is a ParticipantRow bound to its assigned monotonic index, with
// timestamps rendered as ISO-8601 UTC text. Built by the upserter just
// before insertion.
type StoreRow struct {
	ParticipantRow

	Index           int64
	GameCreationISO string
	GameStartISO    string
	GameEndISO      string
}

// RosterPlayer is one row of the players table the dashboard selects from.
type RosterPlayer struct {
	Nickname    string `json:"player_nickname"`
	PUUID       string `json:"main_puuid"`
	CurrentTeam string `json:"current_team"`
}

// ChampionWinRate is one line of the per-player win-rate table.
type ChampionWinRate struct {
	Champion string  `json:"champion"`
	Games    int     `json:"games"`
	WinRate  float64 `json:"winRate"`
}
