// Package scoring implements the league's Quality Point rule ladders.
//
// QP levels reward exceptional legs. Cricket turns earn a level from a
// marks/bulls ladder and a leg keeps the best turn; 501 legs earn
// additive points from two independent brackets, one on the highest
// single-turn score and one on the checkout.
package scoring

import "dartleague-tracker/internal/domain"

// CricketTurnQP maps one turn's marks and bulls to a QP level 0-5.
// Ladders are evaluated highest level first; the first match wins.
func CricketTurnQP(marks, bulls int) int {
	switch {
	case marks >= 9 || bulls >= 6 ||
		(marks >= 3 && bulls >= 4) ||
		(marks >= 6 && bulls >= 2):
		return 5
	case marks >= 8 || bulls >= 5 ||
		(marks >= 2 && bulls >= 4) ||
		(marks >= 3 && bulls >= 3) ||
		(marks >= 5 && bulls >= 2) ||
		(marks >= 6 && bulls >= 1):
		return 4
	case marks >= 7 || bulls >= 4 ||
		(marks >= 2 && bulls >= 3) ||
		(marks >= 4 && bulls >= 2) ||
		(marks >= 5 && bulls >= 1):
		return 3
	case marks >= 6 || bulls >= 3 ||
		(marks >= 3 && bulls >= 2) ||
		(marks >= 4 && bulls >= 1):
		return 2
	case marks >= 5 ||
		(marks >= 3 && bulls >= 1) ||
		(marks >= 2 && bulls >= 2):
		return 1
	default:
		return 0
	}
}

// CricketLegQP is the best turn level of the leg, not a sum.
func CricketLegQP(turns []domain.Turn) int {
	best := 0
	for _, t := range turns {
		if qp := CricketTurnQP(t.Marks, t.Bulls); qp > best {
			best = qp
		}
	}
	return best
}

type bracket struct {
	lo, hi, points int
}

var totalScoreBrackets = []bracket{
	{164, 180, 5},
	{148, 163, 4},
	{132, 147, 3},
	{116, 131, 2},
	{95, 115, 1},
}

var checkoutBrackets = []bracket{
	{151, 170, 5},
	{129, 150, 4},
	{107, 128, 3},
	{85, 106, 2},
	{61, 84, 1},
}

func bracketPoints(brackets []bracket, score int) int {
	for _, b := range brackets {
		if score >= b.lo && score <= b.hi {
			return b.points
		}
	}
	return 0
}

// Leg501QP sums the two 501 ladders for one leg: the highest single-turn
// score bracket plus the checkout bracket. A player earns from both
// columns when both qualify (132 high turn + 132 out = 3 + 4 = 7).
// A nil checkout contributes nothing.
func Leg501QP(highTurn int, checkout *int) int {
	qp := bracketPoints(totalScoreBrackets, highTurn)
	if checkout != nil {
		qp += bracketPoints(checkoutBrackets, *checkout)
	}
	return qp
}
