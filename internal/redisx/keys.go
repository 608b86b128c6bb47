package redisx

import "time"

const (
	// Dedup for event processing: dedup:{service}:{event_id}
	KeyDedup = "dedup:%s:%s"
)

var TTLDedup = 48 * time.Hour
