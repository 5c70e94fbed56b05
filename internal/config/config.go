package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"dartleague-tracker/internal/constants"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"go.uber.org/fx"
	"gopkg.in/yaml.v3"
)

type Config struct {
	DBPath       string
	ServerPort   string
	LogLevel     string
	DataDir      string
	LeagueFile   string
	RecapBaseURL string
	CacheTTL     time.Duration
	FetchTimeout time.Duration
	FetchWorkers int

	League *League
}

// League describes the season structure the engine cannot derive from
// leg exports: divisions with their team counts (eligibility thresholds
// are a function of team count) and optional rosters so players without
// recorded legs still appear in the output.
type League struct {
	Name      string     `yaml:"name"`
	Divisions []Division `yaml:"divisions"`
}

type Division struct {
	Name      string   `yaml:"name"`
	TeamCount int      `yaml:"team_count"`
	Roster    []string `yaml:"roster"`
}

// TeamCounts returns the per-division team counts keyed by division name.
func (l *League) TeamCounts() map[string]int {
	counts := make(map[string]int)
	if l == nil {
		return counts
	}
	for _, d := range l.Divisions {
		counts[d.Name] = d.TeamCount
	}
	return counts
}

// Roster returns every rostered player across divisions.
func (l *League) Roster() []string {
	var names []string
	if l == nil {
		return names
	}
	for _, d := range l.Divisions {
		names = append(names, d.Roster...)
	}
	return names
}

func Load(logger zerolog.Logger) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		logger.Debug().Msg(".env file not found, using environment variables or defaults")
	}

	cfg := &Config{
		DBPath:       getEnv("DB_PATH", "dartleague.db"),
		ServerPort:   getEnv("SERVER_PORT", "8080"),
		LogLevel:     getEnv("LOG_LEVEL", "info"),
		DataDir:      getEnv("DATA_DIR", "data"),
		LeagueFile:   getEnv("LEAGUE_FILE", "league.yaml"),
		RecapBaseURL: getEnv("RECAP_BASE_URL", "https://recap.dartconnect.com"),
		CacheTTL:     getEnvDuration("CACHE_TTL_DAYS", constants.DetailCacheTTL),
		FetchTimeout: constants.FetchTimeout,
		FetchWorkers: getEnvInt("FETCH_WORKERS", constants.FetchWorkers),
	}

	league, err := loadLeague(cfg.LeagueFile, logger)
	if err != nil {
		return nil, err
	}
	cfg.League = league

	logger.Info().
		Str("db_path", cfg.DBPath).
		Str("server_port", cfg.ServerPort).
		Str("data_dir", cfg.DataDir).
		Str("recap_base_url", cfg.RecapBaseURL).
		Dur("cache_ttl", cfg.CacheTTL).
		Int("fetch_workers", cfg.FetchWorkers).
		Msg("configuration loaded")

	return cfg, nil
}

func loadLeague(path string, logger zerolog.Logger) (*League, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			logger.Warn().Str("path", path).Msg("league file not found, eligibility thresholds default to zero")
			return &League{}, nil
		}
		return nil, fmt.Errorf("failed to read league file: %w", err)
	}

	var league League
	if err := yaml.Unmarshal(raw, &league); err != nil {
		return nil, fmt.Errorf("failed to parse league file %s: %w", path, err)
	}

	logger.Info().
		Str("league", league.Name).
		Int("divisions", len(league.Divisions)).
		Msg("league structure loaded")

	return &league, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if days, err := strconv.Atoi(v); err == nil && days > 0 {
			return time.Duration(days) * 24 * time.Hour
		}
	}
	return fallback
}

var Module = fx.Provide(Load)
