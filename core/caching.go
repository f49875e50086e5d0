package core

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/huangsam/crewcast/internal/contract"
	"github.com/huangsam/crewcast/schema"
)

// currentCacheVersion defines the version of the cache schema
const currentCacheVersion = 1

// cacheTTL bounds how long a cached forecast is trusted
const cacheTTL = 7 * 24 * time.Hour

// cachedForecast returns the forecast for events, reusing a stored result when possible.
func cachedForecast(events []schema.Event, studyEnd time.Time, mgr contract.CacheManager) schema.ForecastResult {
	var store contract.CacheStore
	if mgr != nil {
		store = mgr.GetForecastStore()
	}
	if store == nil {
		// Fallback to direct computation
		return BuildForecast(events, studyEnd)
	}

	key := generateCacheKey(events, studyEnd)

	// Check for cache hit
	if result := checkCacheHit(store, key); result != nil {
		return *result
	}

	// Cache miss: compute and store
	result := BuildForecast(events, studyEnd)
	if data, err := json.Marshal(result); err == nil {
		if err := store.Set(key, data, currentCacheVersion, time.Now().Unix()); err != nil {
			contract.LogWarn("Failed to cache forecast", err)
		}
	}
	return result
}

// checkCacheHit attempts to retrieve and validate a cached result
func checkCacheHit(store contract.CacheStore, key string) *schema.ForecastResult {
	data, version, ts, err := store.Get(key)
	if err != nil {
		return nil // Cache miss
	}

	// Validate version and staleness
	if version != currentCacheVersion || time.Since(time.Unix(ts, 0)) > cacheTTL {
		return nil
	}

	var result schema.ForecastResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil
	}
	return &result
}

// generateCacheKey hashes the study end and the events in a canonical order,
// so that the same log read in a different row order maps to the same entry.
func generateCacheKey(events []schema.Event, studyEnd time.Time) string {
	lines := make([]string, 0, len(events)+1)
	for _, e := range events {
		lines = append(lines, fmt.Sprintf("%s|%s|%q", schema.FormatDay(e.Date), e.Kind, e.Worker))
	}
	slices.Sort(lines)
	lines = append(lines, "end="+schema.FormatDay(studyEnd))
	return fmt.Sprintf("%x", sha256.Sum256([]byte(strings.Join(lines, "\n"))))
}
