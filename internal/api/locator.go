package api

import (
	"fmt"
	"hash/fnv"
	"net/url"
	"strings"

	"dartleague-tracker/internal/domain"
)

// Recap locators come in two shapes:
//
//	canonical:  .../games/{matchId}
//	alternate:  .../history/report/match/{matchId}
//
// The alternate shape is rewritten to canonical before any cache lookup
// or fetch, so both shapes land on the same cache slot.
type Locator struct {
	MatchID      string
	CanonicalURL string
}

// ParseLocator validates a recap URL and derives its cache key. URLs
// matching neither shape fail with ErrInvalidLocator and must cause no
// cache or network interaction.
func ParseLocator(rawURL, baseURL string) (*Locator, error) {
	parsed, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil || parsed.Host == "" {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidLocator, rawURL)
	}

	segments := splitPath(parsed.Path)

	var matchID string
	switch {
	case len(segments) >= 2 && segments[0] == "games":
		matchID = segments[1]
	case len(segments) >= 4 && segments[0] == "history" && segments[1] == "report" && segments[2] == "match":
		matchID = segments[3]
	default:
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidLocator, rawURL)
	}

	if matchID == "" {
		matchID = hashLocator(rawURL)
	}

	return &Locator{
		MatchID:      matchID,
		CanonicalURL: fmt.Sprintf("%s/games/%s", strings.TrimRight(baseURL, "/"), matchID),
	}, nil
}

func splitPath(path string) []string {
	var segments []string
	for _, s := range strings.Split(path, "/") {
		if s != "" {
			segments = append(segments, s)
		}
	}
	return segments
}

// hashLocator is the key fallback when no id segment is present.
func hashLocator(rawURL string) string {
	h := fnv.New64a()
	h.Write([]byte(rawURL))
	return fmt.Sprintf("loc-%x", h.Sum64())
}
