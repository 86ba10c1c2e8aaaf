package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus metrics for the crypto price bot
var (
	// HTTP Metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cpb_http_requests_total",
			Help: "Total number of HTTP requests processed",
		},
		[]string{"method", "path", "status_code"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "cpb_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	HTTPResponseSizeBytes = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "cpb_http_response_size_bytes",
			Help:    "HTTP response size in bytes",
			Buckets: []float64{100, 1000, 10000, 100000, 1000000},
		},
		[]string{"method", "path"},
	)

	// Cache Metrics
	CacheOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cpb_cache_operations_total",
			Help: "Total number of durable cache operations",
		},
		[]string{"blob", "result"}, // result: hit/miss/corrupt/saved/error
	)

	MetadataEntries = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "cpb_metadata_entries",
			Help: "Number of assets with cached metadata",
		},
	)

	// External API Metrics
	ExternalAPIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cpb_external_api_requests_total",
			Help: "Total number of market data provider requests",
		},
		[]string{"service", "endpoint", "status_code"},
	)

	ExternalAPIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "cpb_external_api_request_duration_seconds",
			Help:    "Market data provider request duration in seconds",
			Buckets: []float64{0.1, 0.5, 1.0, 2.0, 5.0, 10.0},
		},
		[]string{"service", "endpoint"},
	)

	ExternalAPIRetries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cpb_external_api_retries_total",
			Help: "Total number of provider retry attempts",
		},
		[]string{"operation"},
	)

	// Quota Metrics
	QuotaShortCircuitsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cpb_quota_short_circuits_total",
			Help: "Provider calls rejected locally because every key is over quota",
		},
		[]string{"operation"},
	)

	QuotaExhausted = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "cpb_quota_exhausted",
			Help: "Quota state (1=all keys exhausted, 0=available)",
		},
	)

	ActiveKeyIndex = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "cpb_active_key_index",
			Help: "Index of the API key currently in use",
		},
	)

	KeyFailoversTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "cpb_key_failovers_total",
			Help: "Total number of API key failovers",
		},
	)

	HealthChecksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cpb_health_checks_total",
			Help: "Total number of key health checks",
		},
		[]string{"result"}, // result: healthy/failover/exhausted/unknown
	)

	// Business Metrics
	PriceQueriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cpb_price_queries_total",
			Help: "Total number of price queries by outcome",
		},
		[]string{"result"}, // result: served/unknown_symbol/provider_error/out_of_quota
	)

	CurrencySubstitutionsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "cpb_currency_substitutions_total",
			Help: "Queries answered in the default currency because the requested one is unknown",
		},
	)

	// Backup Metrics
	BackupSyncsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cpb_backup_syncs_total",
			Help: "Total number of metadata backup pushes",
		},
		[]string{"result"}, // result: success/error
	)

	BackupBaseline = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "cpb_backup_baseline_entries",
			Help: "Metadata entry count at the last successful backup",
		},
	)

	// Scheduler Metrics
	SchedulerJobRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cpb_scheduler_job_runs_total",
			Help: "Total number of maintenance job runs",
		},
		[]string{"job"},
	)

	// Rate Limiting Metrics
	RateLimitRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cpb_rate_limit_requests_total",
			Help: "Total number of requests processed by rate limiter",
		},
		[]string{"result"}, // result: allowed/blocked
	)

	// Application Metrics
	ApplicationInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "cpb_application_info",
			Help: "Application information",
		},
		[]string{"version", "go_version"},
	)

	UptimeSeconds = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "cpb_uptime_seconds",
			Help: "Application uptime in seconds",
		},
	)
)

// RecordHTTPRequest records HTTP request metrics
func RecordHTTPRequest(method, path string, statusCode int, duration float64, responseSize int64) {
	HTTPRequestsTotal.WithLabelValues(method, path, strconv.Itoa(statusCode)).Inc()
	HTTPRequestDuration.WithLabelValues(method, path).Observe(duration)

	if responseSize > 0 {
		HTTPResponseSizeBytes.WithLabelValues(method, path).Observe(float64(responseSize))
	}
}

// RecordCacheOperation records durable cache results per blob
func RecordCacheOperation(blob, result string) {
	CacheOperationsTotal.WithLabelValues(blob, result).Inc()
}

// UpdateMetadataEntries updates the metadata size gauge
func UpdateMetadataEntries(count int) {
	MetadataEntries.Set(float64(count))
}

// RecordExternalAPICall records external API call metrics
func RecordExternalAPICall(service, endpoint string, statusCode int, duration float64) {
	ExternalAPIRequestsTotal.WithLabelValues(service, endpoint, strconv.Itoa(statusCode)).Inc()
	ExternalAPIRequestDuration.WithLabelValues(service, endpoint).Observe(duration)
}

// RecordExternalAPIRetry records a retry of a provider operation
func RecordExternalAPIRetry(operation string) {
	ExternalAPIRetries.WithLabelValues(operation).Inc()
}

// RecordQuotaShortCircuit records a call rejected before any I/O
func RecordQuotaShortCircuit(operation string) {
	QuotaShortCircuitsTotal.WithLabelValues(operation).Inc()
}

// UpdateQuotaState updates quota gauges
func UpdateQuotaState(exhausted bool, activeKey int) {
	value := 0.0
	if exhausted {
		value = 1.0
	}
	QuotaExhausted.Set(value)
	ActiveKeyIndex.Set(float64(activeKey))
}

// RecordKeyFailover records an API key failover
func RecordKeyFailover() {
	KeyFailoversTotal.Inc()
}

// RecordHealthCheck records the outcome of a key health check
func RecordHealthCheck(result string) {
	HealthChecksTotal.WithLabelValues(result).Inc()
}

// RecordPriceQuery records a price query outcome
func RecordPriceQuery(result string) {
	PriceQueriesTotal.WithLabelValues(result).Inc()
}

// RecordCurrencySubstitution records a fallback to the default currency
func RecordCurrencySubstitution() {
	CurrencySubstitutionsTotal.Inc()
}

// RecordBackupSync records a backup push and, on success, the new baseline
func RecordBackupSync(success bool, baseline int) {
	if !success {
		BackupSyncsTotal.WithLabelValues("error").Inc()
		return
	}
	BackupSyncsTotal.WithLabelValues("success").Inc()
	BackupBaseline.Set(float64(baseline))
}

// RecordSchedulerJobRun records a maintenance job execution
func RecordSchedulerJobRun(job string) {
	SchedulerJobRunsTotal.WithLabelValues(job).Inc()
}

// RecordRateLimitResult records rate limiting results
func RecordRateLimitResult(allowed bool) {
	result := "blocked"
	if allowed {
		result = "allowed"
	}
	RateLimitRequestsTotal.WithLabelValues(result).Inc()
}

// SetApplicationInfo sets application information
func SetApplicationInfo(version, goVersion string) {
	ApplicationInfo.WithLabelValues(version, goVersion).Set(1)
}

// UpdateUptime updates application uptime
func UpdateUptime(seconds float64) {
	UptimeSeconds.Set(seconds)
}
