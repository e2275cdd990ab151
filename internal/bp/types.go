package bp

// Wire types for the JSON payloads breakingpoint.gg embeds in its pages.
// Field names are an external contract we do not control; pointers mark the
// fields the source is known to omit or null out.

type TeamRef struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type EventRef struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	SeasonID int    `json:"season_id"`
}

type RoundRef struct {
	Name string `json:"name"`
}

type NameRef struct {
	Name string `json:"name"`
}

// MatchSummary is one entry of the matches page's allMatches array.
type MatchSummary struct {
	ID         int64     `json:"id"`
	Datetime   string    `json:"datetime"`
	Status     string    `json:"status"`
	BestOf     int       `json:"best_of"`
	Team1ID    int64     `json:"team_1_id"`
	Team2ID    int64     `json:"team_2_id"`
	Team1Score *int      `json:"team_1_score"`
	Team2Score *int      `json:"team_2_score"`
	Team1      *TeamRef  `json:"team1"`
	Team2      *TeamRef  `json:"team2"`
	Event      *EventRef `json:"event"`
	Round      *RoundRef `json:"round"`
}

// Game is one map within a match detail page's initialMatchState.games.
type Game struct {
	GameNum     int          `json:"game_num"`
	Team1ID     int64        `json:"team_1_id"`
	Team2ID     int64        `json:"team_2_id"`
	Team1Score  *int         `json:"team_1_score"`
	Team2Score  *int         `json:"team_2_score"`
	Modes       *NameRef     `json:"modes"`
	Maps        *NameRef     `json:"maps"`
	PlayerStats []PlayerStat `json:"player_stats"`
}

// PlayerStat is one player's raw line for one game.
type PlayerStat struct {
	PlayerID    int64    `json:"player_id"`
	PlayerTag   string   `json:"player_tag"`
	TeamID      int64    `json:"team_id"`
	Kills       int      `json:"kills"`
	Deaths      int      `json:"deaths"`
	Assists     int      `json:"assists"`
	Damage      float64  `json:"damage"`
	HillTime    int      `json:"hill_time"`
	PlantCount  *int     `json:"plant_count"`
	DefuseCount *int     `json:"defuse_count"`
	BPRating    *float64 `json:"bp_rating"`
}

type matchState struct {
	Games []Game `json:"games"`
}

// pageEnvelope is the outer shape of every embedded payload. Decoding
// validates against this shape and fails closed when it does not match.
type pageEnvelope struct {
	Props *struct {
		PageProps *struct {
			AllMatches        []MatchSummary `json:"allMatches"`
			InitialMatchState *matchState    `json:"initialMatchState"`
		} `json:"pageProps"`
	} `json:"props"`
}
