package domain

import (
	"time"
)

// Discipline is the game type of a leg.
type Discipline string

const (
	Discipline501     Discipline = "501"
	DisciplineCricket Discipline = "Cricket"
)

// Format distinguishes singles from doubles play.
type Format string

const (
	FormatSingles Format = "Singles"
	FormatDoubles Format = "Doubles"
)

// Outcome is the per-leg result for one player.
type Outcome string

const (
	OutcomeWin  Outcome = "WIN"
	OutcomeLoss Outcome = "LOSS"
)

// ResultBucket identifies a wins/losses column on the season report:
// discipline crossed with format.
type ResultBucket string

const (
	BucketSingles501     ResultBucket = "S01"
	BucketSinglesCricket ResultBucket = "SC"
	BucketDoubles501     ResultBucket = "D01"
	BucketDoublesCricket ResultBucket = "DC"
)

// Bucket returns the report column for a discipline/format pair.
func Bucket(d Discipline, f Format) ResultBucket {
	if f == FormatDoubles {
		if d == DisciplineCricket {
			return BucketDoublesCricket
		}
		return BucketDoubles501
	}
	if d == DisciplineCricket {
		return BucketSinglesCricket
	}
	return BucketSingles501
}

// LegRecord is one row of the by-leg export: one player's result for one
// leg. (MatchID, SetNumber, PlayerName) uniquely identifies a row.
type LegRecord struct {
	PlayerName    string
	Team          string
	Division      string
	Discipline    Discipline
	Format        Format
	MatchID       string
	SetNumber     int
	Outcome       Outcome
	HighTurnScore int
	CheckoutScore *int
	RecapURL      string
	Date          time.Time
}

// Turn is the parsed form of one cricket turn notation.
type Turn struct {
	Marks int
	Bulls int
}

// TurnDetail is a single recorded turn inside a match detail payload.
type TurnDetail struct {
	PlayerName string `json:"name"`
	Notation   string `json:"turn_score"`
}

// GameDetail is one game of a fetched match recap.
type GameDetail struct {
	Name      string       `json:"game_name"`
	SetNumber int          `json:"set_number"`
	Turns     []TurnDetail `json:"turns"`
}

// MatchDetail is the turn-by-turn payload for one match, immutable once
// fetched.
type MatchDetail struct {
	MatchID string       `json:"match_id"`
	Games   []GameDetail `json:"games"`
}

// CricketTurns returns every cricket turn recorded for a player, limited
// to the given set when setNumber > 0 and that set exists in the payload.
func (d *MatchDetail) CricketTurns(playerName string, setNumber int) []TurnDetail {
	var scoped, all []TurnDetail
	for _, g := range d.Games {
		if g.Name != string(DisciplineCricket) {
			continue
		}
		for _, t := range g.Turns {
			if t.PlayerName != playerName {
				continue
			}
			all = append(all, t)
			if setNumber > 0 && g.SetNumber == setNumber {
				scoped = append(scoped, t)
			}
		}
	}
	if len(scoped) > 0 {
		return scoped
	}
	return all
}

// CacheEntry wraps a stored match detail with its provenance.
type CacheEntry struct {
	MatchID       string
	SourceLocator string
	FetchedAt     time.Time
	RawDetail     []byte
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// CacheStats are monotonic per-session cache counters.
type CacheStats struct {
	Hits       int64 `json:"hits"`
	Misses     int64 `json:"misses"`
	Expired    int64 `json:"expired"`
	NewFetches int64 `json:"new_fetches"`
}

// PlayerStatLine is the aggregated season record for one player.
type PlayerStatLine struct {
	PlayerName         string               `json:"player_name"`
	Team               string               `json:"team"`
	Division           string               `json:"division"`
	LegsPlayed         int                  `json:"legs_played"`
	GamesPlayed        int                  `json:"games_played"`
	QualifyingGames    int                  `json:"qualifying_games"`
	RemainingToQualify int                  `json:"remaining_to_qualify"`
	Eligible           bool                 `json:"eligible"`
	Wins               map[ResultBucket]int `json:"wins"`
	Losses             map[ResultBucket]int `json:"losses"`
	TotalWins          int                  `json:"total_wins"`
	TotalLosses        int                  `json:"total_losses"`
	TotalQP            int                  `json:"total_qp"`
	Rating             float64              `json:"rating"`
}

// NewPlayerStatLine returns a zeroed stat line with both result maps
// allocated, so a player with no legs still serializes fully.
func NewPlayerStatLine(name string) *PlayerStatLine {
	return &PlayerStatLine{
		PlayerName: name,
		Wins: map[ResultBucket]int{
			BucketSingles501: 0, BucketSinglesCricket: 0,
			BucketDoubles501: 0, BucketDoublesCricket: 0,
		},
		Losses: map[ResultBucket]int{
			BucketSingles501: 0, BucketSinglesCricket: 0,
			BucketDoubles501: 0, BucketDoublesCricket: 0,
		},
	}
}
