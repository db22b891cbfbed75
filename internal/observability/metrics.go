package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// FeedCacheEvents counts page cache lookups by result (hit, miss, error).
	FeedCacheEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "yatube_feed_cache_events_total",
		Help: "Global feed page cache lookups by result",
	}, []string{"result"})

	// FeedCompositions counts composed feed pages by listing kind.
	FeedCompositions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "yatube_feed_compositions_total",
		Help: "Feed pages composed from the database by listing kind",
	}, []string{"kind"})

	// FollowOperations counts follow graph writes by operation and outcome.
	FollowOperations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "yatube_follow_operations_total",
		Help: "Follow and unfollow requests by outcome",
	}, []string{"operation", "outcome"})

	// RedisErrors counts Redis command failures by command name.
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "yatube_redis_errors_total",
		Help: "Total number of Redis errors by command",
	}, []string{"command"})
)

// Cache lookup results.
const (
	CacheHit   = "hit"
	CacheMiss  = "miss"
	CacheError = "error"
)
