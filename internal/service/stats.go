package service

import (
	"math"
	"sort"

	"dartleague-tracker/internal/domain"
	"dartleague-tracker/internal/notation"
	"dartleague-tracker/internal/scoring"

	"github.com/rs/zerolog"
)

// StatsService turns raw leg records plus whatever match detail could be
// fetched into per-player season stat lines.
type StatsService struct {
	logger zerolog.Logger
}

func NewStatsService(logger zerolog.Logger) *StatsService {
	return &StatsService{logger: logger}
}

// AggregateOptions carries the league inputs the legs themselves cannot
// provide.
type AggregateOptions struct {
	// DivisionTeamCounts feeds the eligibility threshold per division.
	DivisionTeamCounts map[string]int
	// Roster lists players who must appear in the output even with no
	// recorded legs; they get zeroed stat lines.
	Roster []string
}

// gameKey groups a player's legs into one game (set) within a match.
type gameKey struct {
	matchID   string
	setNumber int
}

type gameTally struct {
	discipline domain.Discipline
	format     domain.Format
	won        int
	lost       int
}

// Aggregate computes the full stat line map. Missing match detail only
// zeroes the affected Cricket legs' QP; it never blocks the run.
// Malformed leg records are skipped with a warning.
func (s *StatsService) Aggregate(legs []domain.LegRecord, details map[string]*domain.MatchDetail, opts AggregateOptions) map[string]*domain.PlayerStatLine {
	lines := make(map[string]*domain.PlayerStatLine)
	games := make(map[string]map[gameKey]*gameTally)
	ungrouped := make(map[string]int)

	for _, name := range opts.Roster {
		if name == "" {
			continue
		}
		lines[name] = domain.NewPlayerStatLine(name)
	}

	for i, leg := range legs {
		if !validLeg(leg) {
			s.logger.Warn().
				Int("row", i).
				Str("player", leg.PlayerName).
				Str("match_id", leg.MatchID).
				Msg("skipping malformed leg record")
			continue
		}

		line, ok := lines[leg.PlayerName]
		if !ok {
			line = domain.NewPlayerStatLine(leg.PlayerName)
			lines[leg.PlayerName] = line
		}
		if line.Team == "" {
			line.Team = leg.Team
		}
		if line.Division == "" {
			line.Division = leg.Division
		}

		line.LegsPlayed++
		line.TotalQP += s.legQP(leg, details)

		if leg.MatchID == "" || leg.SetNumber == 0 {
			ungrouped[leg.PlayerName]++
			continue
		}

		byKey, ok := games[leg.PlayerName]
		if !ok {
			byKey = make(map[gameKey]*gameTally)
			games[leg.PlayerName] = byKey
		}
		key := gameKey{matchID: leg.MatchID, setNumber: leg.SetNumber}
		tally, ok := byKey[key]
		if !ok {
			tally = &gameTally{discipline: leg.Discipline, format: leg.Format}
			byKey[key] = tally
		}
		if leg.Outcome == domain.OutcomeWin {
			tally.won++
		} else {
			tally.lost++
		}
	}

	for name, line := range lines {
		s.settle(line, games[name], ungrouped[name], opts)
	}

	return lines
}

// settle folds a player's game tallies into wins, losses, eligibility
// and the composite rating.
func (s *StatsService) settle(line *domain.PlayerStatLine, byKey map[gameKey]*gameTally, ungroupedLegs int, opts AggregateOptions) {
	for _, tally := range byKey {
		line.GamesPlayed++
		bucket := domain.Bucket(tally.discipline, tally.format)
		switch {
		case tally.won > tally.lost:
			line.Wins[bucket]++
			line.TotalWins++
		case tally.won < tally.lost:
			line.Losses[bucket]++
			line.TotalLosses++
		}
		// an even split counts as neither a win nor a loss
	}

	if ungroupedLegs > 0 {
		// Fallback heuristic for exports without match/set identifiers:
		// assume best-of-three sets. Never the primary path.
		estimated := ungroupedLegs / 3
		if estimated < 1 {
			estimated = 1
		}
		line.GamesPlayed += estimated
		s.logger.Warn().
			Str("player", line.PlayerName).
			Int("legs", ungroupedLegs).
			Int("estimated_games", estimated).
			Msg("legs missing match/set ids, estimating games played")
	}

	line.QualifyingGames = qualifyingThreshold(opts.DivisionTeamCounts[line.Division])
	line.RemainingToQualify = line.QualifyingGames - line.GamesPlayed
	if line.RemainingToQualify < 0 {
		line.RemainingToQualify = 0
	}
	line.Eligible = line.GamesPlayed >= line.QualifyingGames

	line.Rating = rating(line.TotalWins, line.GamesPlayed, line.TotalQP, line.LegsPlayed)
}

// legQP scores one leg. 501 legs use the recorded high turn and checkout;
// Cricket legs need the fetched turn notation and contribute nothing
// when the match detail is absent.
func (s *StatsService) legQP(leg domain.LegRecord, details map[string]*domain.MatchDetail) int {
	if leg.Discipline == domain.Discipline501 {
		return scoring.Leg501QP(leg.HighTurnScore, leg.CheckoutScore)
	}

	detail, ok := details[leg.MatchID]
	if !ok || detail == nil {
		return 0
	}

	turnDetails := detail.CricketTurns(leg.PlayerName, leg.SetNumber)
	turns := make([]domain.Turn, 0, len(turnDetails))
	for _, td := range turnDetails {
		turns = append(turns, notation.Parse(td.Notation))
	}
	return scoring.CricketLegQP(turns)
}

// qualifyingThreshold is round(1.5 legs x 2 games x (teams-1) weeks of
// divisional play).
func qualifyingThreshold(teamCount int) int {
	if teamCount <= 1 {
		return 0
	}
	return int(math.Round(1.5 * 2 * float64(teamCount-1)))
}

// rating is wins weighted double per game plus QP per leg; either term
// drops out when its denominator is zero.
func rating(totalWins, gamesPlayed, totalQP, legsPlayed int) float64 {
	var r float64
	if gamesPlayed > 0 {
		r += float64(totalWins*2) / float64(gamesPlayed)
	}
	if legsPlayed > 0 {
		r += float64(totalQP) / float64(legsPlayed)
	}
	return r
}

func validLeg(leg domain.LegRecord) bool {
	if leg.PlayerName == "" {
		return false
	}
	if leg.Discipline != domain.Discipline501 && leg.Discipline != domain.DisciplineCricket {
		return false
	}
	if leg.Outcome != domain.OutcomeWin && leg.Outcome != domain.OutcomeLoss {
		return false
	}
	return true
}

// SortedNames returns the players of a stat line map in stable order,
// for deterministic report output.
func SortedNames(lines map[string]*domain.PlayerStatLine) []string {
	names := make([]string, 0, len(lines))
	for name := range lines {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
