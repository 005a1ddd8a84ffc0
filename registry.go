package boomerang

import (
	"reflect"
	"sync"
)

var (
	registry   = make(map[reflect.Type]*typePlan)
	registryMu sync.RWMutex
)

// cachedPlan returns the plan cached for rt.
func cachedPlan(rt reflect.Type) (*typePlan, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	plan, ok := registry[rt]
	return plan, ok
}

// cachePlan stores plan for rt. The first stored plan wins so concurrent
// scans of the same type agree.
func cachePlan(rt reflect.Type, plan *typePlan) *typePlan {
	registryMu.Lock()
	defer registryMu.Unlock()
	if cached, ok := registry[rt]; ok {
		return cached
	}
	registry[rt] = plan
	return plan
}

// Reset clears the field plan registry.
// This is primarily useful for test isolation.
func Reset() {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry = make(map[reflect.Type]*typePlan)
}
