package models

import "time"

// SystemMetrics represents process level counters captured from instrumentation.
type SystemMetrics struct {
	CacheHitRatio            float64   `json:"cache_hit_ratio"`
	CacheHits                uint64    `json:"cache_hits"`
	CacheMisses              uint64    `json:"cache_misses"`
	RequestsTotal            uint64    `json:"requests_total"`
	AverageRequestDurationMs float64   `json:"average_request_duration_ms"`
	DBQueryCount             uint64    `json:"db_query_count"`
	AverageDBQueryDurationMs float64   `json:"average_db_query_duration_ms"`
	Calculations             uint64    `json:"calculations"`
	DaysComputed             uint64    `json:"days_computed"`
	TimelineDivergences      uint64    `json:"timeline_divergences"`
	UnplacedItems            uint64    `json:"unplaced_items"`
	UnadjustableItems        uint64    `json:"unadjustable_items"`
	Goroutines               int       `json:"goroutines"`
	GeneratedAt              time.Time `json:"generated_at"`
}
