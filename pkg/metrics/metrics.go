package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// HTTPRequests counts served requests by route, method and status
var HTTPRequests = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "foodgram_http_requests_total",
		Help: "Total number of HTTP requests served",
	},
	[]string{"route", "method", "status"},
)

// HTTPLatency records request latency by route
var HTTPLatency = prometheus.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "foodgram_http_request_duration_seconds",
		Help:    "Latency in seconds to serve HTTP requests",
		Buckets: prometheus.DefBuckets,
	},
	[]string{"route", "method"},
)

// RecipeRelations counts favorite and shopping cart changes
var RecipeRelations = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "foodgram_recipe_relation_changes_total",
		Help: "Favorite and shopping cart additions and removals",
	},
	[]string{"relation", "action"},
)

// ShoppingListDownloads counts rendered shopping lists by format
var ShoppingListDownloads = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "foodgram_shopping_list_downloads_total",
		Help: "Number of shopping lists downloaded",
	},
	[]string{"format"},
)

// Database connection pool metrics
var (
	DBOpenConns = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "foodgram_db_open_connections",
			Help: "Number of open connections in the DB pool",
		},
		[]string{"db"},
	)

	DBIdleConns = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "foodgram_db_idle_connections",
			Help: "Number of idle connections in the DB pool",
		},
		[]string{"db"},
	)

	DBInUseConns = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "foodgram_db_in_use_connections",
			Help: "Number of in-use connections in the DB pool",
		},
		[]string{"db"},
	)
)

func init() {
	prometheus.MustRegister(HTTPRequests, HTTPLatency)
	prometheus.MustRegister(RecipeRelations, ShoppingListDownloads)
	prometheus.MustRegister(DBOpenConns, DBIdleConns, DBInUseConns)
}
