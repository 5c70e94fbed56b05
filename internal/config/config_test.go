package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadLeague(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "league.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
name: Sunday Night Dart League
divisions:
  - name: Winston
    team_count: 8
    roster: [Danny Roark, Ellen Lee]
  - name: Salem
    team_count: 6
    roster: [Chris Sabolcik]
`), 0o644))

	league, err := loadLeague(path, zerolog.Nop())
	require.NoError(t, err)

	assert.Equal(t, "Sunday Night Dart League", league.Name)
	assert.Equal(t, map[string]int{"Winston": 8, "Salem": 6}, league.TeamCounts())
	assert.ElementsMatch(t, []string{"Danny Roark", "Ellen Lee", "Chris Sabolcik"}, league.Roster())
}

func TestLoadLeagueMissingFileIsNotFatal(t *testing.T) {
	league, err := loadLeague(filepath.Join(t.TempDir(), "absent.yaml"), zerolog.Nop())
	require.NoError(t, err)
	assert.Empty(t, league.TeamCounts())
	assert.Empty(t, league.Roster())
}

func TestLoadLeagueMalformed(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "league.yaml")
	require.NoError(t, os.WriteFile(path, []byte("divisions: {nope"), 0o644))

	_, err := loadLeague(path, zerolog.Nop())
	assert.Error(t, err)
}

func TestLeagueHelpersNilSafe(t *testing.T) {
	var league *League
	assert.Empty(t, league.TeamCounts())
	assert.Empty(t, league.Roster())
}
