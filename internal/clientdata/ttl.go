package clientdata

import "time"

// DefaultTTL applies when no CACHE_TTL is configured. Daily bars and
// fundamentals change slowly enough that a short window saves repeat calls
// without showing noticeably stale data.
const DefaultTTL = 15 * time.Minute
