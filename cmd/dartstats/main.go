// dartstats is the batch entry point: process a by-leg export into
// player stat lines, or manage the match-detail cache.
//
//	dartstats run [-file export.csv] [-out results.json]
//	dartstats cache-info
//	dartstats cache-clear [-older-than-days N]
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"dartleague-tracker/internal/api"
	"dartleague-tracker/internal/config"
	"dartleague-tracker/internal/database"
	"dartleague-tracker/internal/ingest"
	"dartleague-tracker/internal/logger"
	"dartleague-tracker/internal/repository"
	"dartleague-tracker/internal/service"

	"github.com/rs/zerolog"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	log := logger.New()

	cfg, err := config.Load(log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	db, err := database.New(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open database")
	}
	defer db.Close()

	cache := repository.NewCacheRepository(db, cfg.CacheTTL, log)

	ctx := context.Background()

	switch os.Args[1] {
	case "run":
		runPipeline(ctx, cfg, cache, log, os.Args[2:])
	case "cache-info":
		cacheInfo(ctx, cache, log)
	case "cache-clear":
		cacheClear(ctx, cache, log, os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: dartstats <run|cache-info|cache-clear> [flags]")
}

func runPipeline(ctx context.Context, cfg *config.Config, cache *repository.CacheRepository, log zerolog.Logger, args []string) {
	fs := flag.NewFlagSet("run", flag.ExitOnError)
	file := fs.String("file", "", "export file to process (default: auto-detect in data dir)")
	out := fs.String("out", "", "write results JSON to this file instead of stdout")
	_ = fs.Parse(args)

	loader := ingest.NewLoader(log)
	detail := service.NewDetailService(api.NewRecapClient(), cache, cfg, log)
	stats := service.NewStatsService(log)
	pipeline := service.NewPipelineService(loader, detail, stats, cfg, log)

	var result *service.RunResult
	var err error
	if *file != "" {
		result, err = pipeline.Run(ctx, *file)
	} else {
		result, err = pipeline.RunDataDir(ctx)
	}
	if err != nil {
		log.Fatal().Err(err).Msg("pipeline run failed")
	}

	printed, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		log.Fatal().Err(err).Msg("failed to encode results")
	}

	if *out != "" {
		if err := os.WriteFile(*out, printed, 0o644); err != nil {
			log.Fatal().Err(err).Str("path", *out).Msg("failed to write results")
		}
		log.Info().Str("path", *out).Msg("results written")
	} else {
		fmt.Println(string(printed))
	}

	cs := result.CacheStats
	fmt.Fprintf(os.Stderr, "%d of %d matches enhanced (cache: %d hits, %d misses, %d expired, %d fetched)\n",
		result.MatchesEnhanced, result.MatchesTotal, cs.Hits, cs.Misses, cs.Expired, cs.NewFetches)
}

func cacheInfo(ctx context.Context, cache *repository.CacheRepository, log zerolog.Logger) {
	count, err := cache.Count(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to inspect cache")
	}
	fmt.Printf("cached match details: %d\n", count)
}

func cacheClear(ctx context.Context, cache *repository.CacheRepository, log zerolog.Logger, args []string) {
	fs := flag.NewFlagSet("cache-clear", flag.ExitOnError)
	olderThanDays := fs.Int("older-than-days", 0, "only delete entries fetched more than N days ago")
	_ = fs.Parse(args)

	var olderThan *time.Duration
	if *olderThanDays > 0 {
		d := time.Duration(*olderThanDays) * 24 * time.Hour
		olderThan = &d
	}

	deleted, err := cache.Clear(ctx, olderThan)
	if err != nil {
		log.Fatal().Err(err).Msg("cache clear failed")
	}
	fmt.Printf("deleted %d cache entries\n", deleted)
}
