package api

import (
	"testing"

	"dartleague-tracker/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// samplePage carries the props JSON HTML-entity-escaped inside a
// data-page attribute, the way recap pages embed it.
const samplePage = `<!DOCTYPE html>
<html>
<body>
<div id="app" data-page="{&quot;props&quot;:{&quot;matchInfo&quot;:{&quot;id&quot;:&quot;match-1&quot;},&quot;segments&quot;:{&quot;&quot;:[[{&quot;game_name&quot;:&quot;Cricket&quot;,&quot;turns&quot;:[{&quot;home&quot;:{&quot;name&quot;:&quot;Danny&quot;,&quot;turn_score&quot;:&quot;T20,DB&quot;},&quot;away&quot;:{&quot;name&quot;:&quot;Ellen&quot;,&quot;turn_score&quot;:&quot;S19&quot;}}]},{&quot;game_name&quot;:&quot;501&quot;,&quot;turns&quot;:[{&quot;home&quot;:{&quot;name&quot;:&quot;Danny&quot;,&quot;turn_score&quot;:&quot;&quot;}}]}]]}}}"></div>
</body>
</html>`

func TestExtractPageData(t *testing.T) {
	raw, err := ExtractPageData(samplePage)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"matchInfo"`)
}

func TestExtractPageDataMissingAttribute(t *testing.T) {
	_, err := ExtractPageData("<html><body><div>nothing here</div></body></html>")
	assert.ErrorIs(t, err, domain.ErrDetailUnavailable)
}

func TestPropsFromPage(t *testing.T) {
	raw, err := ExtractPageData(samplePage)
	require.NoError(t, err)

	props, err := PropsFromPage(raw)
	require.NoError(t, err)
	assert.Contains(t, string(props), `"segments"`)
}

func TestPropsFromPageMalformed(t *testing.T) {
	_, err := PropsFromPage([]byte(`{"props":`))
	assert.ErrorIs(t, err, domain.ErrDetailUnavailable)

	_, err = PropsFromPage([]byte(`{"other":{}}`))
	assert.ErrorIs(t, err, domain.ErrDetailUnavailable)
}

func TestDecodeDetail(t *testing.T) {
	raw, err := ExtractPageData(samplePage)
	require.NoError(t, err)
	props, err := PropsFromPage(raw)
	require.NoError(t, err)

	detail, err := DecodeDetail(props, "fallback-id")
	require.NoError(t, err)

	assert.Equal(t, "match-1", detail.MatchID)
	require.Len(t, detail.Games, 2)

	cricket := detail.Games[0]
	assert.Equal(t, "Cricket", cricket.Name)
	assert.Equal(t, 1, cricket.SetNumber)
	require.Len(t, cricket.Turns, 2)
	assert.Equal(t, "Danny", cricket.Turns[0].PlayerName)
	assert.Equal(t, "T20,DB", cricket.Turns[0].Notation)
}

func TestDecodeDetailFallbackID(t *testing.T) {
	detail, err := DecodeDetail([]byte(`{"segments":{}}`), "fallback-id")
	require.NoError(t, err)
	assert.Equal(t, "fallback-id", detail.MatchID)
}

func TestDecodeDetailMalformed(t *testing.T) {
	_, err := DecodeDetail([]byte(`not json`), "x")
	assert.ErrorIs(t, err, domain.ErrDetailUnavailable)
}

func TestCricketTurnsScopedToSet(t *testing.T) {
	detail := &domain.MatchDetail{
		MatchID: "m",
		Games: []domain.GameDetail{
			{Name: "Cricket", SetNumber: 1, Turns: []domain.TurnDetail{
				{PlayerName: "Danny", Notation: "T20"},
			}},
			{Name: "Cricket", SetNumber: 2, Turns: []domain.TurnDetail{
				{PlayerName: "Danny", Notation: "T19,DB"},
			}},
			{Name: "501", SetNumber: 3, Turns: []domain.TurnDetail{
				{PlayerName: "Danny", Notation: ""},
			}},
		},
	}

	scoped := detail.CricketTurns("Danny", 2)
	require.Len(t, scoped, 1)
	assert.Equal(t, "T19,DB", scoped[0].Notation)

	// unknown set falls back to every cricket turn
	all := detail.CricketTurns("Danny", 9)
	assert.Len(t, all, 2)

	assert.Empty(t, detail.CricketTurns("Nobody", 1))
}
