// Package repository holds the persistence layer. The only table the
// engine owns is the match-detail cache: recap payloads are expensive to
// fetch and immutable, so they are stored once and reused until the TTL
// lapses.
package repository

import (
	"context"
	"database/sql"
	"fmt"
	"sync/atomic"
	"time"

	"dartleague-tracker/internal/domain"

	"github.com/rs/zerolog"
)

type CacheRepository struct {
	db     *sql.DB
	ttl    time.Duration
	logger zerolog.Logger

	hits       atomic.Int64
	misses     atomic.Int64
	expired    atomic.Int64
	newFetches atomic.Int64
}

func NewCacheRepository(sqlDB *sql.DB, ttl time.Duration, logger zerolog.Logger) *CacheRepository {
	return &CacheRepository{
		db:     sqlDB,
		ttl:    ttl,
		logger: logger,
	}
}

// Get returns the cached entry for matchID if it is still fresh.
// A stale entry is deleted, counted as expired and reported as a miss.
// Storage errors degrade to a miss; the cache is never fatal.
func (r *CacheRepository) Get(ctx context.Context, matchID string) (*domain.CacheEntry, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT match_id, source_locator, fetched_at, raw_detail, created_at, updated_at
		FROM match_detail_cache WHERE match_id = ?`, matchID)

	var entry domain.CacheEntry
	err := row.Scan(&entry.MatchID, &entry.SourceLocator, &entry.FetchedAt,
		&entry.RawDetail, &entry.CreatedAt, &entry.UpdatedAt)
	if err == sql.ErrNoRows {
		r.misses.Add(1)
		return nil, domain.ErrCacheMiss
	}
	if err != nil {
		r.logger.Warn().Err(err).Str("match_id", matchID).Msg("cache read failed, treating as miss")
		r.misses.Add(1)
		return nil, domain.ErrCacheMiss
	}

	if time.Since(entry.FetchedAt) > r.ttl {
		if _, err := r.db.ExecContext(ctx,
			`DELETE FROM match_detail_cache WHERE match_id = ?`, matchID); err != nil {
			r.logger.Warn().Err(err).Str("match_id", matchID).Msg("failed to evict expired cache entry")
		}
		r.expired.Add(1)
		r.misses.Add(1)
		r.logger.Debug().
			Str("match_id", matchID).
			Time("fetched_at", entry.FetchedAt).
			Dur("ttl", r.ttl).
			Msg("cache entry expired")
		return nil, domain.ErrCacheMiss
	}

	r.hits.Add(1)
	return &entry, nil
}

// Put stores or overwrites the raw detail payload for matchID.
// Last write wins when two fetchers race on the same key.
func (r *CacheRepository) Put(ctx context.Context, matchID, sourceLocator string, rawDetail []byte, now time.Time) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO match_detail_cache (match_id, source_locator, fetched_at, raw_detail, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (match_id) DO UPDATE SET
			source_locator = excluded.source_locator,
			fetched_at = excluded.fetched_at,
			raw_detail = excluded.raw_detail,
			updated_at = excluded.updated_at`,
		matchID, sourceLocator, now, rawDetail, now, now)
	if err != nil {
		return fmt.Errorf("failed to store cache entry %s: %w", matchID, err)
	}
	r.newFetches.Add(1)
	return nil
}

// Stats returns the session counters accumulated since construction.
func (r *CacheRepository) Stats() domain.CacheStats {
	return domain.CacheStats{
		Hits:       r.hits.Load(),
		Misses:     r.misses.Load(),
		Expired:    r.expired.Load(),
		NewFetches: r.newFetches.Load(),
	}
}

// Clear deletes every cache entry, or only entries fetched before
// now-olderThan when olderThan is non-nil. Returns the rows removed.
func (r *CacheRepository) Clear(ctx context.Context, olderThan *time.Duration) (int64, error) {
	var res sql.Result
	var err error
	if olderThan != nil {
		cutoff := time.Now().Add(-*olderThan)
		res, err = r.db.ExecContext(ctx,
			`DELETE FROM match_detail_cache WHERE fetched_at < ?`, cutoff)
	} else {
		res, err = r.db.ExecContext(ctx, `DELETE FROM match_detail_cache`)
	}
	if err != nil {
		return 0, fmt.Errorf("failed to clear cache: %w", err)
	}

	count, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}

	r.logger.Info().Int64("deleted", count).Msg("cache cleared")
	return count, nil
}

// Count reports how many entries the cache currently holds.
func (r *CacheRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM match_detail_cache`).Scan(&count)
	if err != nil {
		return 0, err
	}
	return count, nil
}
