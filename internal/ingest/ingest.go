// Package ingest is the boundary adapter that turns DartConnect by-leg
// exports into typed LegRecords. Exports vary in header spelling across
// seasons, so resolution goes through an explicit alias table; the core
// engine never sees a raw column name.
package ingest

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"dartleague-tracker/internal/domain"

	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"
)

// columnAliases maps each canonical field to the header spellings seen
// in real exports. Matching is case-insensitive on the trimmed header.
var columnAliases = map[string][]string{
	"player_name": {"player", "name", "player_name", "playername"},
	"team":        {"team", "team_name"},
	"division":    {"division", "div"},
	"discipline":  {"game", "game_name", "discipline", "game_type"},
	"format":      {"format", "event", "event_type"},
	"match_id":    {"match_id", "matchid", "match"},
	"set_number":  {"set", "set_number", "setnumber", "game_number"},
	"outcome":     {"outcome", "result", "win_loss", "w_l"},
	"high_turn":   {"high_turn", "high_score", "best_turn", "hi_turn"},
	"checkout":    {"checkout", "checkout_score", "out", "double_out"},
	"recap_url":   {"url", "recap_url", "game_url", "link"},
	"date":        {"date", "game_date", "gamedate", "match_date"},
}

var dateLayouts = []string{"2006-01-02", "01/02/2006", "1/2/2006", "2006-01-02 15:04:05"}

type Loader struct {
	logger zerolog.Logger
}

func NewLoader(logger zerolog.Logger) *Loader {
	return &Loader{logger: logger}
}

// LoadFile reads a by-leg export, CSV or XLSX by extension.
func (l *Loader) LoadFile(path string) ([]domain.LegRecord, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return l.loadCSV(path)
	case ".xlsx", ".xls":
		return l.loadXLSX(path)
	default:
		return nil, fmt.Errorf("unsupported export format: %s", filepath.Ext(path))
	}
}

// FindExport locates the preferred by-leg export inside a data
// directory. Files with "by_leg" in the name win over anything else.
func (l *Loader) FindExport(dataDir string) (string, error) {
	entries, err := os.ReadDir(dataDir)
	if err != nil {
		return "", fmt.Errorf("failed to read data dir %s: %w", dataDir, err)
	}

	var fallback string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := strings.ToLower(entry.Name())
		ext := filepath.Ext(name)
		if ext != ".csv" && ext != ".xlsx" {
			continue
		}
		if strings.Contains(name, "by_leg") || strings.Contains(name, "by leg") {
			return filepath.Join(dataDir, entry.Name()), nil
		}
		if fallback == "" {
			fallback = filepath.Join(dataDir, entry.Name())
		}
	}

	if fallback != "" {
		l.logger.Warn().Str("file", fallback).Msg("no by_leg export found, falling back to first data file")
		return fallback, nil
	}
	return "", fmt.Errorf("no usable export found in %s: %w", dataDir, domain.ErrNotFound)
}

func (l *Loader) loadCSV(path string) ([]domain.LegRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open export: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read csv export: %w", err)
	}
	return l.rowsToLegs(path, rows)
}

func (l *Loader) loadXLSX(path string) ([]domain.LegRecord, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open export: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("export has no sheets: %s", path)
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheets[0], err)
	}
	return l.rowsToLegs(path, rows)
}

func (l *Loader) rowsToLegs(path string, rows [][]string) ([]domain.LegRecord, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("export %s is empty", path)
	}

	columns, err := resolveColumns(rows[0])
	if err != nil {
		return nil, fmt.Errorf("export %s: %w", path, err)
	}

	var legs []domain.LegRecord
	dropped := 0
	for i, row := range rows[1:] {
		leg, ok := buildLeg(row, columns)
		if !ok {
			dropped++
			l.logger.Debug().Int("row", i+2).Msg("dropping row with missing player or date")
			continue
		}
		legs = append(legs, leg)
	}

	l.logger.Info().
		Str("file", filepath.Base(path)).
		Int("legs", len(legs)).
		Int("dropped", dropped).
		Msg("export loaded")

	return legs, nil
}

// resolveColumns maps canonical field names to column indexes.
// player_name and date are required; everything else is best-effort.
func resolveColumns(header []string) (map[string]int, error) {
	columns := make(map[string]int)
	for field, aliases := range columnAliases {
		for idx, col := range header {
			if matchesAlias(col, aliases) {
				columns[field] = idx
				break
			}
		}
	}

	for _, required := range []string{"player_name", "date"} {
		if _, ok := columns[required]; !ok {
			return nil, fmt.Errorf("export missing required column %q", required)
		}
	}
	return columns, nil
}

func matchesAlias(header string, aliases []string) bool {
	h := strings.ToLower(strings.TrimSpace(header))
	for _, a := range aliases {
		if h == a {
			return true
		}
	}
	return false
}

func buildLeg(row []string, columns map[string]int) (domain.LegRecord, bool) {
	cell := func(field string) string {
		idx, ok := columns[field]
		if !ok || idx >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[idx])
	}

	name := cell("player_name")
	date, dateOK := parseDate(cell("date"))
	if name == "" || !dateOK {
		return domain.LegRecord{}, false
	}

	leg := domain.LegRecord{
		PlayerName:    name,
		Team:          cell("team"),
		Division:      cell("division"),
		Discipline:    parseDiscipline(cell("discipline")),
		Format:        parseFormat(cell("format")),
		MatchID:       cell("match_id"),
		SetNumber:     parseInt(cell("set_number")),
		Outcome:       parseOutcome(cell("outcome")),
		HighTurnScore: parseInt(cell("high_turn")),
		RecapURL:      cell("recap_url"),
		Date:          date,
	}

	if raw := cell("checkout"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil {
			leg.CheckoutScore = &v
		}
	}

	return leg, true
}

func parseDate(raw string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func parseInt(raw string) int {
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0
	}
	return n
}

func parseDiscipline(raw string) domain.Discipline {
	if strings.EqualFold(raw, "cricket") {
		return domain.DisciplineCricket
	}
	if strings.Contains(raw, "501") {
		return domain.Discipline501
	}
	return domain.Discipline(raw)
}

func parseFormat(raw string) domain.Format {
	if strings.HasPrefix(strings.ToLower(raw), "d") {
		return domain.FormatDoubles
	}
	return domain.FormatSingles
}

func parseOutcome(raw string) domain.Outcome {
	switch strings.ToUpper(raw) {
	case "W", "WIN", "WON":
		return domain.OutcomeWin
	case "L", "LOSS", "LOST":
		return domain.OutcomeLoss
	default:
		return domain.Outcome(strings.ToUpper(raw))
	}
}
