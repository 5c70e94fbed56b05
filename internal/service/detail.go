package service

import (
	"context"
	"time"

	"dartleague-tracker/internal/api"
	"dartleague-tracker/internal/config"
	"dartleague-tracker/internal/domain"
	"dartleague-tracker/internal/repository"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"
)

// DetailService resolves recap locators to turn-by-turn match detail,
// going to the network only when the cache has no fresh entry.
type DetailService struct {
	recap  *api.RecapClient
	cache  *repository.CacheRepository
	cfg    *config.Config
	logger zerolog.Logger

	// collapses concurrent fetches for one match id into a single
	// network call; a rare duplicate is tolerated (last write wins).
	inflight singleflight.Group
}

func NewDetailService(recap *api.RecapClient, cache *repository.CacheRepository, cfg *config.Config, logger zerolog.Logger) *DetailService {
	return &DetailService{recap: recap, cache: cache, cfg: cfg, logger: logger}
}

// Fetch returns the match detail behind a recap URL. Invalid locators
// fail before any cache interaction. Transport and extraction failures
// degrade to ErrDetailUnavailable and are never cached, so a later call
// may still succeed.
func (s *DetailService) Fetch(ctx context.Context, rawURL string) (*domain.MatchDetail, error) {
	loc, err := api.ParseLocator(rawURL, s.cfg.RecapBaseURL)
	if err != nil {
		return nil, err
	}

	if entry, err := s.cache.Get(ctx, loc.MatchID); err == nil {
		s.logger.Debug().Str("match_id", loc.MatchID).Msg("match detail found in cache")
		return api.DecodeDetail(entry.RawDetail, loc.MatchID)
	}

	raw, err, _ := s.inflight.Do(loc.MatchID, func() (interface{}, error) {
		return s.fetchAndStore(ctx, loc)
	})
	if err != nil {
		return nil, err
	}

	return api.DecodeDetail(raw.([]byte), loc.MatchID)
}

func (s *DetailService) fetchAndStore(ctx context.Context, loc *api.Locator) ([]byte, error) {
	fetchCtx, cancel := context.WithTimeout(ctx, s.cfg.FetchTimeout)
	defer cancel()

	s.logger.Info().
		Str("match_id", loc.MatchID).
		Str("url", loc.CanonicalURL).
		Msg("fetching match detail")

	pageJSON, err := s.recap.FetchRawDetail(fetchCtx, loc.CanonicalURL)
	if err != nil {
		s.logger.Warn().Err(err).Str("match_id", loc.MatchID).Msg("match detail fetch failed")
		return nil, err
	}

	props, err := api.PropsFromPage(pageJSON)
	if err != nil {
		s.logger.Warn().Err(err).Str("match_id", loc.MatchID).Msg("match detail extraction failed")
		return nil, err
	}

	// Validate before caching so a malformed payload is re-fetchable.
	if _, err := api.DecodeDetail(props, loc.MatchID); err != nil {
		s.logger.Warn().Err(err).Str("match_id", loc.MatchID).Msg("match detail payload malformed")
		return nil, err
	}

	if err := s.cache.Put(ctx, loc.MatchID, loc.CanonicalURL, props, time.Now()); err != nil {
		// A failed write only costs a refetch next run.
		s.logger.Warn().Err(err).Str("match_id", loc.MatchID).Msg("failed to cache match detail")
	}

	return props, nil
}

// CacheStats exposes the session counters for run summaries.
func (s *DetailService) CacheStats() domain.CacheStats {
	return s.cache.Stats()
}
