// Package iocache is for caching I/O calls and tracking dashboard runs.
package iocache

import (
	"sync"

	"github.com/huangsam/genviz/internal/contract"
)

// CacheStoreManager manages the source cache and run history stores.
type CacheStoreManager struct {
	sync.RWMutex // Protects the store pointers during initialization
	source       contract.CacheStore
	runs         contract.RunStore
}

var _ contract.CacheManager = &CacheStoreManager{} // Compile-time check

// GetSourceStore returns the source CacheStore, or nil when caching is disabled.
func (mgr *CacheStoreManager) GetSourceStore() contract.CacheStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.source
}

// GetRunStore returns the RunStore, or nil when run tracking is disabled.
func (mgr *CacheStoreManager) GetRunStore() contract.RunStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.runs
}
