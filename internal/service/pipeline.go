package service

import (
	"context"
	"errors"
	"sync"

	"dartleague-tracker/internal/config"
	"dartleague-tracker/internal/domain"
	"dartleague-tracker/internal/ingest"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// PipelineService runs the full season computation: load the by-leg
// export, enhance it with whatever recap detail can be fetched, then
// aggregate.
type PipelineService struct {
	loader *ingest.Loader
	detail *DetailService
	stats  *StatsService
	cfg    *config.Config
	logger zerolog.Logger
}

func NewPipelineService(loader *ingest.Loader, detail *DetailService, stats *StatsService, cfg *config.Config, logger zerolog.Logger) *PipelineService {
	return &PipelineService{loader: loader, detail: detail, stats: stats, cfg: cfg, logger: logger}
}

// RunResult is the pipeline output plus the enhancement and cache
// bookkeeping surfaced to the caller ("N of M matches enhanced").
type RunResult struct {
	RunID           string                            `json:"run_id"`
	Lines           map[string]*domain.PlayerStatLine `json:"lines"`
	LegsProcessed   int                               `json:"legs_processed"`
	MatchesTotal    int                               `json:"matches_total"`
	MatchesEnhanced int                               `json:"matches_enhanced"`
	CacheStats      domain.CacheStats                 `json:"cache_stats"`
}

// Run processes a single export file end to end. Fetch failures reduce
// QP coverage but never abort the run.
func (s *PipelineService) Run(ctx context.Context, exportPath string) (*RunResult, error) {
	runID, err := gonanoid.New()
	if err != nil {
		return nil, err
	}
	logger := s.logger.With().Str("run_id", runID).Logger()

	legs, err := s.loader.LoadFile(exportPath)
	if err != nil {
		return nil, err
	}

	details, total := s.fetchDetails(ctx, legs, logger)

	opts := AggregateOptions{
		DivisionTeamCounts: s.cfg.League.TeamCounts(),
		Roster:             s.cfg.League.Roster(),
	}
	lines := s.stats.Aggregate(legs, details, opts)

	result := &RunResult{
		RunID:           runID,
		Lines:           lines,
		LegsProcessed:   len(legs),
		MatchesTotal:    total,
		MatchesEnhanced: len(details),
		CacheStats:      s.detail.CacheStats(),
	}

	logger.Info().
		Int("legs", result.LegsProcessed).
		Int("matches_enhanced", result.MatchesEnhanced).
		Int("matches_total", result.MatchesTotal).
		Int("players", len(lines)).
		Msg("pipeline run complete")

	return result, nil
}

// RunDataDir locates the preferred export in the configured data
// directory and runs it.
func (s *PipelineService) RunDataDir(ctx context.Context) (*RunResult, error) {
	exportPath, err := s.loader.FindExport(s.cfg.DataDir)
	if err != nil {
		return nil, err
	}
	return s.Run(ctx, exportPath)
}

// fetchDetails resolves each distinct recap URL through the cache-backed
// fetcher with a bounded worker pool. Matches are independent, so
// cancellation mid-run leaves the cache valid for a resume.
func (s *PipelineService) fetchDetails(ctx context.Context, legs []domain.LegRecord, logger zerolog.Logger) (map[string]*domain.MatchDetail, int) {
	urlByMatch := make(map[string]string)
	for _, leg := range legs {
		if leg.RecapURL == "" || leg.MatchID == "" {
			continue
		}
		if _, seen := urlByMatch[leg.MatchID]; !seen {
			urlByMatch[leg.MatchID] = leg.RecapURL
		}
	}

	details := make(map[string]*domain.MatchDetail)
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.FetchWorkers)

	for matchID, url := range urlByMatch {
		matchID, url := matchID, url
		g.Go(func() error {
			detail, err := s.detail.Fetch(gctx, url)
			if err != nil {
				if errors.Is(err, domain.ErrInvalidLocator) {
					logger.Warn().Str("match_id", matchID).Str("url", url).Msg("skipping invalid recap locator")
				} else {
					logger.Warn().Err(err).Str("match_id", matchID).Msg("match detail unavailable")
				}
				return nil
			}
			mu.Lock()
			details[matchID] = detail
			mu.Unlock()
			return nil
		})
	}

	// workers never return errors; Wait only observes ctx cancellation
	_ = g.Wait()

	return details, len(urlByMatch)
}
