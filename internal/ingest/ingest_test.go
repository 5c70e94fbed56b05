package ingest

import (
	"os"
	"path/filepath"
	"testing"

	"dartleague-tracker/internal/domain"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeCSV(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadCSVWithAliasedHeaders(t *testing.T) {
	dir := t.TempDir()
	path := writeCSV(t, dir, "spring_by_leg_export.csv", `Player,Team,Division,Game,Event,Match_ID,Set,Result,High_Score,Checkout,URL,Date
Danny Roark,DARK HORSE,Winston,501,Singles,m1,1,W,140,121,https://recap.dartconnect.com/games/m1,2025-03-09
Ellen Lee,KBTN,Winston,Cricket,Doubles,m1,2,L,0,,https://recap.dartconnect.com/games/m1,03/09/2025
`)

	loader := NewLoader(zerolog.Nop())
	legs, err := loader.LoadFile(path)
	require.NoError(t, err)
	require.Len(t, legs, 2)

	first := legs[0]
	assert.Equal(t, "Danny Roark", first.PlayerName)
	assert.Equal(t, "DARK HORSE", first.Team)
	assert.Equal(t, domain.Discipline501, first.Discipline)
	assert.Equal(t, domain.FormatSingles, first.Format)
	assert.Equal(t, "m1", first.MatchID)
	assert.Equal(t, 1, first.SetNumber)
	assert.Equal(t, domain.OutcomeWin, first.Outcome)
	assert.Equal(t, 140, first.HighTurnScore)
	require.NotNil(t, first.CheckoutScore)
	assert.Equal(t, 121, *first.CheckoutScore)

	second := legs[1]
	assert.Equal(t, domain.DisciplineCricket, second.Discipline)
	assert.Equal(t, domain.FormatDoubles, second.Format)
	assert.Equal(t, domain.OutcomeLoss, second.Outcome)
	assert.Nil(t, second.CheckoutScore)
	assert.Equal(t, 2025, second.Date.Year())
}

func TestLoadCSVDropsRowsMissingPlayerOrDate(t *testing.T) {
	dir := t.TempDir()
	path := writeCSV(t, dir, "by_leg.csv", `player_name,game_date,game,result
Danny,2025-03-09,501,W
,2025-03-09,501,W
Ellen,not-a-date,501,L
`)

	loader := NewLoader(zerolog.Nop())
	legs, err := loader.LoadFile(path)
	require.NoError(t, err)
	require.Len(t, legs, 1)
	assert.Equal(t, "Danny", legs[0].PlayerName)
}

func TestLoadCSVMissingRequiredColumn(t *testing.T) {
	dir := t.TempDir()
	path := writeCSV(t, dir, "bad.csv", `team,game,result
DARK HORSE,501,W
`)

	loader := NewLoader(zerolog.Nop())
	_, err := loader.LoadFile(path)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "player_name")
}

func TestLoadFileUnsupportedFormat(t *testing.T) {
	loader := NewLoader(zerolog.Nop())
	_, err := loader.LoadFile("export.pdf")
	assert.Error(t, err)
}

func TestFindExportPrefersByLeg(t *testing.T) {
	dir := t.TempDir()
	writeCSV(t, dir, "cricket_leaderboard.csv", "player_name,game_date\n")
	expected := writeCSV(t, dir, "spring_by_leg_export.csv", "player_name,game_date\n")

	loader := NewLoader(zerolog.Nop())
	path, err := loader.FindExport(dir)
	require.NoError(t, err)
	assert.Equal(t, expected, path)
}

func TestFindExportFallsBackToAnyDataFile(t *testing.T) {
	dir := t.TempDir()
	expected := writeCSV(t, dir, "cricket_leaderboard.csv", "player_name,game_date\n")

	loader := NewLoader(zerolog.Nop())
	path, err := loader.FindExport(dir)
	require.NoError(t, err)
	assert.Equal(t, expected, path)
}

func TestFindExportEmptyDir(t *testing.T) {
	loader := NewLoader(zerolog.Nop())
	_, err := loader.FindExport(t.TempDir())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
