package server

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"dartleague-tracker/internal/api"
	"dartleague-tracker/internal/config"
	"dartleague-tracker/internal/ingest"
	"dartleague-tracker/internal/repository"
	"dartleague-tracker/internal/service"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, dataDir string) (*http.ServeMux, *repository.CacheRepository) {
	t.Helper()

	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	_, err = db.Exec(`
		CREATE TABLE match_detail_cache (
			match_id       TEXT PRIMARY KEY,
			source_locator TEXT NOT NULL,
			fetched_at     TIMESTAMP NOT NULL,
			raw_detail     BLOB NOT NULL,
			created_at     TIMESTAMP NOT NULL,
			updated_at     TIMESTAMP NOT NULL
		)`)
	require.NoError(t, err)

	cache := repository.NewCacheRepository(db, time.Hour, zerolog.Nop())
	cfg := &config.Config{
		DataDir:      dataDir,
		RecapBaseURL: "https://recap.dartconnect.com",
		FetchTimeout: time.Second,
		FetchWorkers: 2,
		League:       &config.League{},
	}

	detail := service.NewDetailService(api.NewRecapClient(), cache, cfg, zerolog.Nop())
	stats := service.NewStatsService(zerolog.Nop())
	pipeline := service.NewPipelineService(ingest.NewLoader(zerolog.Nop()), detail, stats, cfg, zerolog.Nop())

	mux := http.NewServeMux()
	NewStatsServer(pipeline, cache, zerolog.Nop()).Register(mux)
	return mux, cache
}

func TestHealthz(t *testing.T) {
	mux, _ := newTestServer(t, t.TempDir())

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestStatsEndpoint(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "by_leg_export.csv"), []byte(`player_name,game_date,game,result,high_turn
Danny,2025-03-09,501,W,140
`), 0o644))

	mux, _ := newTestServer(t, dir)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/stats", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var result service.RunResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, 1, result.LegsProcessed)
	require.Contains(t, result.Lines, "Danny")
	assert.Equal(t, 3, result.Lines["Danny"].TotalQP)
}

func TestStatsEndpointNoExport(t *testing.T) {
	mux, _ := newTestServer(t, t.TempDir())

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/stats", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCacheStatsAndClear(t *testing.T) {
	mux, cache := newTestServer(t, t.TempDir())
	ctx := context.Background()

	require.NoError(t, cache.Put(ctx, "m1", "https://recap.dartconnect.com/games/m1", []byte(`{}`), time.Now()))
	require.NoError(t, cache.Put(ctx, "m2", "https://recap.dartconnect.com/games/m2", []byte(`{}`), time.Now()))

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/cache/stats", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var statsResp struct {
		Entries int64 `json:"entries"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &statsResp))
	assert.Equal(t, int64(2), statsResp.Entries)

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/cache/clear", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"deleted":2}`, rec.Body.String())

	count, err := cache.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestCacheClearRejectsBadParam(t *testing.T) {
	mux, _ := newTestServer(t, t.TempDir())

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/cache/clear?older_than_days=soon", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
