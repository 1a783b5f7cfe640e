package tracker

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/router-for-me/TrackerSync/internal/config"
)

var (
	registryMu sync.RWMutex
	factories  = make(map[string]Factory)
)

// Register makes a tracker factory available under name. A later registration
// with the same name replaces the earlier one.
func Register(name string, factory Factory) {
	key := normalizeName(name)
	if key == "" || factory == nil {
		return
	}
	registryMu.Lock()
	factories[key] = factory
	registryMu.Unlock()
}

// New builds the named tracker.
func New(name string, cfg config.TrackerConfig, deps Dependencies) (Tracker, error) {
	registryMu.RLock()
	factory, ok := factories[normalizeName(name)]
	registryMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("tracker: %q is not registered", name)
	}
	return factory(cfg, deps)
}

// Names lists the registered trackers in sorted order.
func Names() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	names := make([]string, 0, len(factories))
	for name := range factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func normalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
