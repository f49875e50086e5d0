package core

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/huangsam/crewcast/internal/iocache"
	"github.com/huangsam/crewcast/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func sampleEvents() []schema.Event {
	return []schema.Event{entry("2025-01-02", "A"), entry("2025-01-02", "B"), exit("2025-01-05", "A")}
}

func TestCachedForecastWithoutStore(t *testing.T) {
	mgr := &iocache.MockCacheManager{}
	mgr.On("GetForecastStore").Return(nil)

	result := cachedForecast(sampleEvents(), day("2025-01-07"), mgr)
	assert.Len(t, result.Daily, 6)
	mgr.AssertExpectations(t)

	assert.Len(t, cachedForecast(sampleEvents(), day("2025-01-07"), nil).Intervals, 2)
}

func TestCachedForecastMissStoresResult(t *testing.T) {
	events := sampleEvents()
	key := generateCacheKey(events, day("2025-01-07"))

	store := &iocache.MockCacheStore{}
	store.On("Get", key).Return(nil, 0, int64(0), errors.New("not found"))
	store.On("Set", key, mock.Anything, currentCacheVersion, mock.AnythingOfType("int64")).Return(nil)
	mgr := &iocache.MockCacheManager{}
	mgr.On("GetForecastStore").Return(store)

	result := cachedForecast(events, day("2025-01-07"), mgr)
	assert.Equal(t, BuildForecast(events, day("2025-01-07")), result)
	store.AssertExpectations(t)
}

func TestCachedForecastHit(t *testing.T) {
	events := sampleEvents()
	key := generateCacheKey(events, day("2025-01-07"))
	cached := schema.ForecastResult{
		StudyEnd:  day("2025-01-07"),
		Intervals: []schema.Interval{{Start: day("2025-01-02"), End: day("2025-01-07"), ActiveCount: 5}},
		Daily:     []schema.DailyRecord{{Date: day("2025-01-02"), ActiveCount: 5, Cumulative: 5}},
	}
	data, err := json.Marshal(cached)
	require.NoError(t, err)

	store := &iocache.MockCacheStore{}
	store.On("Get", key).Return(data, currentCacheVersion, time.Now().Unix(), nil)
	mgr := &iocache.MockCacheManager{}
	mgr.On("GetForecastStore").Return(store)

	assert.Equal(t, cached, cachedForecast(events, day("2025-01-07"), mgr))
	store.AssertNotCalled(t, "Set", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestCheckCacheHitRejects(t *testing.T) {
	data, _ := json.Marshal(schema.ForecastResult{})
	tests := []struct {
		name    string
		data    []byte
		version int
		ts      int64
	}{
		{"old version", data, currentCacheVersion + 1, time.Now().Unix()},
		{"stale entry", data, currentCacheVersion, time.Now().Add(-cacheTTL - time.Hour).Unix()},
		{"corrupt payload", []byte("{"), currentCacheVersion, time.Now().Unix()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &iocache.MockCacheStore{}
			store.On("Get", "k").Return(tt.data, tt.version, tt.ts, nil)
			assert.Nil(t, checkCacheHit(store, "k"))
		})
	}
}

func TestGenerateCacheKey(t *testing.T) {
	events := sampleEvents()
	shuffled := []schema.Event{events[2], events[0], events[1]}

	key := generateCacheKey(events, day("2025-01-07"))
	assert.Len(t, key, 64)
	assert.Equal(t, key, generateCacheKey(shuffled, day("2025-01-07")))
	assert.NotEqual(t, key, generateCacheKey(events, day("2025-01-08")))
	assert.NotEqual(t, key, generateCacheKey(events[:2], day("2025-01-07")))
}
