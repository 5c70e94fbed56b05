package constants

import "time"

const (
	// DetailCacheTTL is how long a fetched match recap stays valid.
	// Recaps are immutable once a match ends, so this is generous.
	DetailCacheTTL = 150 * 24 * time.Hour

	FetchTimeout    = 30 * time.Second
	DatabaseTimeout = 5 * time.Second
	RequestTimeout  = 30 * time.Second
)

const (
	DBMaxOpenConns    = 100
	DBMaxIdleConns    = 10
	DBConnMaxLifetime = 1 * time.Hour
	DBMaxIdleTime     = 10 * time.Minute
)

const (
	// FetchWorkers bounds concurrent recap fetches; matches are
	// independent so distinct ids may be fetched in parallel.
	FetchWorkers = 4
)

const (
	ShutdownTimeout = 5 * time.Second
)
