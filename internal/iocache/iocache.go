// Package iocache persists forecast results and run history.
package iocache

import (
	"sync"

	"github.com/huangsam/crewcast/internal/contract"
)

// CacheStoreManager manages the forecast cache and the history store.
type CacheStoreManager struct {
	sync.RWMutex // Protects the store pointers during initialization
	forecast     contract.CacheStore
	history      contract.HistoryStore
}

var _ contract.CacheManager = &CacheStoreManager{} // Compile-time check

// GetForecastStore returns the forecast CacheStore.
func (mgr *CacheStoreManager) GetForecastStore() contract.CacheStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.forecast
}

// GetHistoryStore returns the HistoryStore.
func (mgr *CacheStoreManager) GetHistoryStore() contract.HistoryStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.history
}
