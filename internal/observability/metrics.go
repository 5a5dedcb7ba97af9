package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// PostsCreated counts posts created through the site.
	PostsCreated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "yatube_posts_created_total",
		Help: "Total number of posts created",
	}, []string{"grouped"})

	// PostEdits counts edit attempts by outcome (saved, denied, invalid).
	PostEdits = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "yatube_post_edits_total",
		Help: "Total number of post edit attempts by outcome",
	}, []string{"outcome"})

	// AuthAttempts counts signup and login attempts by outcome.
	AuthAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "yatube_auth_attempts_total",
		Help: "Total number of authentication attempts",
	}, []string{"action", "outcome"})

	// CacheLookups counts cache-aside lookups by keyspace and result (hit, miss, error).
	CacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "yatube_cache_lookups_total",
		Help: "Total number of cache lookups",
	}, []string{"keyspace", "result"})

	// PageRenderLatency records template render latency by template name.
	PageRenderLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "yatube_page_render_seconds",
		Help:    "Template render latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"template"})
)
