// Package server exposes the engine over a small JSON API: run the
// season aggregation, inspect the detail cache, clear it.
package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"dartleague-tracker/internal/domain"
	"dartleague-tracker/internal/repository"
	"dartleague-tracker/internal/service"

	"github.com/rs/zerolog"
)

type StatsServer struct {
	pipeline *service.PipelineService
	cache    *repository.CacheRepository
	logger   zerolog.Logger
}

func NewStatsServer(pipeline *service.PipelineService, cache *repository.CacheRepository, logger zerolog.Logger) *StatsServer {
	return &StatsServer{pipeline: pipeline, cache: cache, logger: logger}
}

func (s *StatsServer) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /stats", s.handleStats)
	mux.HandleFunc("GET /cache/stats", s.handleCacheStats)
	mux.HandleFunc("POST /cache/clear", s.handleCacheClear)
}

func (s *StatsServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *StatsServer) handleStats(w http.ResponseWriter, r *http.Request) {
	result, err := s.pipeline.RunDataDir(r.Context())
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeError(w, http.StatusNotFound, err)
			return
		}
		s.logger.Error().Err(err).Msg("stats run failed")
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *StatsServer) handleCacheStats(w http.ResponseWriter, r *http.Request) {
	count, err := s.cache.Count(r.Context())
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to count cache entries")
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	writeJSON(w, http.StatusOK, struct {
		Entries  int64             `json:"entries"`
		Counters domain.CacheStats `json:"counters"`
	}{
		Entries:  count,
		Counters: s.cache.Stats(),
	})
}

func (s *StatsServer) handleCacheClear(w http.ResponseWriter, r *http.Request) {
	var olderThan *time.Duration
	if raw := r.URL.Query().Get("older_than_days"); raw != "" {
		days, err := strconv.Atoi(raw)
		if err != nil || days < 0 {
			writeError(w, http.StatusBadRequest, errors.New("older_than_days must be a non-negative integer"))
			return
		}
		d := time.Duration(days) * 24 * time.Hour
		olderThan = &d
	}

	deleted, err := s.cache.Clear(r.Context(), olderThan)
	if err != nil {
		s.logger.Error().Err(err).Msg("cache clear failed")
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{"deleted": deleted})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
