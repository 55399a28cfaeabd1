// Package common provides shared utilities for the portfolio analyzer.
package common

import "time"

// Freshness TTLs for cached data components
const (
	FreshnessMarketContext = 10 * time.Minute // AI narrative cache window
)

// IsFresh returns true if the given timestamp is within the TTL
func IsFresh(updated time.Time, ttl time.Duration) bool {
	if updated.IsZero() {
		return false
	}
	return time.Since(updated) < ttl
}
