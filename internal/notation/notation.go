// Package notation parses DartConnect's compact per-turn score strings
// into cricket mark and bull counts.
package notation

import (
	"regexp"
	"strconv"
	"strings"

	"dartleague-tracker/internal/domain"
)

var (
	bullRe    = regexp.MustCompile(`^(SB|DB|B)(?:x(\S+))?$`)
	scoringRe = regexp.MustCompile(`^([SDT]?)(1[5-9]|20)(?:x(\S+))?$`)
)

var ringMarks = map[string]int{"": 1, "S": 1, "D": 2, "T": 3}

// Parse converts a comma-separated turn notation such as "T20,S19,DB"
// into mark and bull counts. Bull forms (SB/DB/B) are checked before
// generic number matching. Tokens that match neither form contribute
// nothing; a blank notation parses to a zero turn.
func Parse(notation string) domain.Turn {
	var turn domain.Turn
	if strings.TrimSpace(notation) == "" {
		return turn
	}

	for _, token := range strings.Split(notation, ",") {
		token = strings.TrimSpace(token)
		if token == "" {
			continue
		}

		if m := bullRe.FindStringSubmatch(token); m != nil {
			bulls := 1
			if m[1] == "DB" {
				bulls = 2
			}
			turn.Bulls += bulls * multiplier(m[2])
			continue
		}

		if m := scoringRe.FindStringSubmatch(token); m != nil {
			turn.Marks += ringMarks[m[1]] * multiplier(m[3])
		}
	}

	return turn
}

// multiplier parses an xN suffix; anything non-integer falls back to 1.
func multiplier(raw string) int {
	if raw == "" {
		return 1
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 1
	}
	return n
}
