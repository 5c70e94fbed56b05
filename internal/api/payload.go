package api

import (
	"encoding/json"
	"fmt"

	"dartleague-tracker/internal/domain"
)

// Wire shapes of the embedded page data. The interesting part lives
// under props: match info plus segments, a map whose values are groups
// of games each carrying alternating home/away turns.
type pageData struct {
	Props json.RawMessage `json:"props"`
}

type propsPayload struct {
	MatchInfo struct {
		ID string `json:"id"`
	} `json:"matchInfo"`
	Segments map[string][][]rawGame `json:"segments"`
}

type rawGame struct {
	GameName string    `json:"game_name"`
	Turns    []rawTurn `json:"turns"`
}

type rawTurn struct {
	Home rawSide `json:"home"`
	Away rawSide `json:"away"`
}

type rawSide struct {
	Name      string `json:"name"`
	TurnScore string `json:"turn_score"`
}

// PropsFromPage takes the unescaped data-page JSON and returns its props
// field, the raw MatchDetail payload that gets cached.
func PropsFromPage(raw []byte) ([]byte, error) {
	var page pageData
	if err := json.Unmarshal(raw, &page); err != nil {
		return nil, fmt.Errorf("%w: malformed page data: %v", domain.ErrDetailUnavailable, err)
	}
	if len(page.Props) == 0 {
		return nil, fmt.Errorf("%w: no props in page data", domain.ErrDetailUnavailable)
	}
	return page.Props, nil
}

// DecodeDetail parses a raw props payload into a MatchDetail. Games are
// numbered by their order of play; that ordinal matches the export's
// set numbers.
func DecodeDetail(raw []byte, matchID string) (*domain.MatchDetail, error) {
	var props propsPayload
	if err := json.Unmarshal(raw, &props); err != nil {
		return nil, fmt.Errorf("%w: malformed props payload: %v", domain.ErrDetailUnavailable, err)
	}

	detail := &domain.MatchDetail{MatchID: matchID}
	if props.MatchInfo.ID != "" {
		detail.MatchID = props.MatchInfo.ID
	}

	setNumber := 0
	for _, groups := range props.Segments {
		for _, group := range groups {
			for _, game := range group {
				setNumber++
				gd := domain.GameDetail{
					Name:      game.GameName,
					SetNumber: setNumber,
				}
				for _, turn := range game.Turns {
					for _, side := range []rawSide{turn.Home, turn.Away} {
						if side.Name == "" {
							continue
						}
						gd.Turns = append(gd.Turns, domain.TurnDetail{
							PlayerName: side.Name,
							Notation:   side.TurnScore,
						})
					}
				}
				detail.Games = append(detail.Games, gd)
			}
		}
	}

	return detail, nil
}
