package constants

import "time"

// Redis key layout. Pattern: eventure:{module}:{identifier}.

const CachePrefix = "eventure"

const (
	CacheKeyEventDetail = CachePrefix + ":events:detail:" // + event-id
)

// Invalidation patterns, for use with DeletePattern.
const (
	PatternInvalidateEvents = CachePrefix + ":events:*"
)

// Default TTLs for cached reads. Event details sit behind a short TTL on
// top of explicit invalidation, so a missed invalidation heals itself.
const (
	TTLEventDetail = 5 * time.Minute
)

func BuildEventDetailKey(eventID string) string {
	return CacheKeyEventDetail + eventID
}
