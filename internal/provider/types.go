package provider

// RankingSnapshot is one ranking row as published by the provider.
type RankingSnapshot struct {
	Tour       string
	PlayerName string
	Country    string
	Rank       int
	Points     int
	AsOfDate   string
}

// PlayerRef identifies a player inside a match.
type PlayerRef struct {
	Name    string `json:"name"`
	Country string `json:"country"`
}

// ServeStats are the serve totals for one side of a match.
type ServeStats struct {
	Aces             int `json:"aces"`
	DoubleFaults     int `json:"double_faults"`
	ServePoints      int `json:"serve_points"`
	FirstServeIn     int `json:"first_serve_in"`
	FirstServeWon    int `json:"first_serve_won"`
	SecondServeWon   int `json:"second_serve_won"`
	BreakPointsSaved int `json:"break_points_saved"`
	BreakPointsFaced int `json:"break_points_faced"`
}

// MatchSnapshot is a completed match as published by the provider.
type MatchSnapshot struct {
	ID          string
	Round       string
	Date        string
	Winner      PlayerRef
	Loser       PlayerRef
	Score       string
	WinnerStats ServeStats
	LoserStats  ServeStats
}

// TournamentSnapshot is one tournament edition with its completed matches.
type TournamentSnapshot struct {
	ID        string
	Name      string
	Tour      string
	Season    int
	Level     string
	Surface   string
	StartDate string
	Matches   []MatchSnapshot
}

// rankingsResponse is the body of GET /v1/rankings.
type rankingsResponse struct {
	Tour     string `json:"tour"`
	AsOfDate string `json:"as_of_date"`
	Rankings []struct {
		Rank   int       `json:"rank"`
		Points int       `json:"points"`
		Player PlayerRef `json:"player"`
	} `json:"rankings"`
}

// tournamentsResponse is the body of GET /v1/tournaments.
type tournamentsResponse struct {
	Tournaments []struct {
		ID        string `json:"id"`
		Name      string `json:"name"`
		Tour      string `json:"tour"`
		Season    int    `json:"season"`
		Level     string `json:"level"`
		Surface   string `json:"surface"`
		StartDate string `json:"start_date"`
		Matches   []struct {
			ID     string    `json:"id"`
			Round  string    `json:"round"`
			Date   string    `json:"date"`
			Winner PlayerRef `json:"winner"`
			Loser  PlayerRef `json:"loser"`
			Score  string    `json:"score"`
			Stats  struct {
				Winner ServeStats `json:"winner"`
				Loser  ServeStats `json:"loser"`
			} `json:"stats"`
		} `json:"matches"`
	} `json:"tournaments"`
}
