package domain

import "errors"

var (
	// ErrInvalidLocator is returned for recap URLs that match neither
	// accepted shape. Nothing is fetched or cached.
	ErrInvalidLocator = errors.New("invalid recap locator")

	// ErrDetailUnavailable covers transport failures and malformed
	// embedded payloads. The failed result is never cached.
	ErrDetailUnavailable = errors.New("match detail unavailable")

	// ErrCacheMiss is returned by the cache store when no fresh entry
	// exists for a key.
	ErrCacheMiss = errors.New("cache miss")

	// ErrNotFound is returned when a requested record does not exist.
	ErrNotFound = errors.New("not found")
)
