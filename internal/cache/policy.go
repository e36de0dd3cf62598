package cache

import "time"

// maxCacheAgeInDays bounds how long a snapshot is served after it was saved.
const maxCacheAgeInDays = 7

// IsExpired reports whether a snapshot saved at timestamp is stale at now.
// A snapshot is still fresh at exactly timestamp + maxCacheAgeInDays.
func IsExpired(timestamp, now time.Time) bool {
	maxAge := timestamp.AddDate(0, 0, maxCacheAgeInDays)
	return now.After(maxAge)
}
