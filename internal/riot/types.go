package riot

// AccountResponse represents the response from /riot/account/v1/accounts/by-riot-id
type AccountResponse struct {
	PUUID    string `json:"puuid"`
	GameName string `json:"gameName"`
	TagLine  string `json:"tagLine"`
}

// SummonerResponse represents the response from /lol/summoner/v4/summoners/{id}
type SummonerResponse struct {
	ID    string `json:"id"`
	PUUID string `json:"puuid"`
	Name  string `json:"name"`
}

// MatchResponse represents the response from /lol/match/v5/matches/{matchId}
type MatchResponse struct {
	Metadata MatchMetadata `json:"metadata"`
	Info     MatchInfo     `json:"info"`
}

// MatchMetadata carries the match id and the participant PUUIDs, ordered
// parallel to Info.Participants.
type MatchMetadata struct {
	MatchID      string   `json:"matchId"`
	Participants []string `json:"participants"` // PUUIDs
}

type MatchInfo struct {
	GameCreation       int64              `json:"gameCreation"`
	GameStartTimestamp int64              `json:"gameStartTimestamp"`
	GameEndTimestamp   int64              `json:"gameEndTimestamp"`
	GameDuration       int                `json:"gameDuration"`
	GameMode           string             `json:"gameMode"`
	GameVersion        string             `json:"gameVersion"`
	PlatformID         string             `json:"platformId"`
	QueueID            int                `json:"queueId"`
	Participants       []MatchParticipant `json:"participants"`
}

type MatchParticipant struct {
	ParticipantID  int    `json:"participantId"`
	PUUID          string `json:"puuid"`
	SummonerName   string `json:"summonerName"`
	RiotIdGameName string `json:"riotIdGameName"`
	RiotIdTagline  string `json:"riotIdTagline"`
	TeamID         int    `json:"teamId"`
	ChampionID     int    `json:"championId"`
	ChampionName   string `json:"championName"`
	TeamPosition   string `json:"teamPosition"` // TOP, JUNGLE, MIDDLE, BOTTOM, UTILITY
	Lane           string `json:"lane"`
	Win            bool   `json:"win"`

	Kills       int `json:"kills"`
	Deaths      int `json:"deaths"`
	Assists     int `json:"assists"`
	Summoner1ID int `json:"summoner1Id"`
	Summoner2ID int `json:"summoner2Id"`

	GameEndedInEarlySurrender bool `json:"gameEndedInEarlySurrender"`
	GameEndedInSurrender      bool `json:"gameEndedInSurrender"`
	FirstBloodKill            bool `json:"firstBloodKill"`
	FirstBloodAssist          bool `json:"firstBloodAssist"`
	FirstTowerKill            bool `json:"firstTowerKill"`
	FirstTowerAssist          bool `json:"firstTowerAssist"`

	GoldEarned                    int `json:"goldEarned"`
	TotalMinionsKilled            int `json:"totalMinionsKilled"`
	TotalAllyJungleMinionsKilled  int `json:"totalAllyJungleMinionsKilled"`
	TotalEnemyJungleMinionsKilled int `json:"totalEnemyJungleMinionsKilled"`

	DamageDealtToBuildings         int `json:"damageDealtToBuildings"`
	DamageDealtToObjectives        int `json:"damageDealtToObjectives"`
	DamageSelfMitigated            int `json:"damageSelfMitigated"`
	DragonKills                    int `json:"dragonKills"`
	ObjectivesStolen               int `json:"objectivesStolen"`
	TurretKills                    int `json:"turretKills"`
	TurretsLost                    int `json:"turretsLost"`
	LargestKillingSpree            int `json:"largestKillingSpree"`
	LongestTimeSpentLiving         int `json:"longestTimeSpentLiving"`
	TotalDamageDealtToChampions    int `json:"totalDamageDealtToChampions"`
	TotalDamageShieldedOnTeammates int `json:"totalDamageShieldedOnTeammates"`
	TotalHealsOnTeammates          int `json:"totalHealsOnTeammates"`
	TotalDamageTaken               int `json:"totalDamageTaken"`
	TotalTimeCCDealt               int `json:"totalTimeCCDealt"`
	TotalTimeSpentDead             int `json:"totalTimeSpentDead"`

	VisionScore         int `json:"visionScore"`
	DetectorWardsPlaced int `json:"detectorWardsPlaced"`
	WardsKilled         int `json:"wardsKilled"`
	WardsPlaced         int `json:"wardsPlaced"`

	Item0 int `json:"item0"`
	Item1 int `json:"item1"`
	Item2 int `json:"item2"`
	Item3 int `json:"item3"`
	Item4 int `json:"item4"`
	Item5 int `json:"item5"`
	Item6 int `json:"item6"` // Trinket

	// Perks is nil when the API omits the rune block (older queues,
	// partial payloads). Flattening defaults all perk fields in that case.
	Perks *ParticipantPerks `json:"perks,omitempty"`
}

// ParticipantPerks is the nested rune/shard selection block.
type ParticipantPerks struct {
	StatPerks PerkStats   `json:"statPerks"`
	Styles    []PerkStyle `json:"styles"`
}

type PerkStats struct {
	Defense int `json:"defense"`
	Flex    int `json:"flex"`
	Offense int `json:"offense"`
}

type PerkStyle struct {
	Description string          `json:"description"`
	Style       int             `json:"style"`
	Selections  []PerkSelection `json:"selections"`
}

type PerkSelection struct {
	Perk int `json:"perk"`
	Var1 int `json:"var1"`
	Var2 int `json:"var2"`
	Var3 int `json:"var3"`
}
