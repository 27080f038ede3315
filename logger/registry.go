package logger

import (
	"sort"
	"sync"
)

// Component names the toolkit's own packages log under.
const (
	ComponentProvider      = "provider"
	ComponentSession       = "session"
	ComponentLocator       = "di"
	ComponentConfig        = "config"
	ComponentObservability = "observability"
)

// Components are seeded by RegisterDefaults when it is called without names.
var Components = []string{
	ComponentProvider,
	ComponentSession,
	ComponentLocator,
	ComponentConfig,
	ComponentObservability,
}

var named = struct {
	sync.RWMutex
	loggers map[string]*Logger
}{loggers: make(map[string]*Logger)}

// Register binds a logger to a component name, replacing any earlier one.
func Register(name string, l *Logger) {
	named.Lock()
	defer named.Unlock()
	named.loggers[name] = l
}

// Get returns the logger registered for name. Unregistered names get the
// global logger tagged with the component, resolved at call time so a later
// Init is still picked up.
func Get(name string) *Logger {
	named.RLock()
	l, ok := named.loggers[name]
	named.RUnlock()
	if ok {
		return l
	}
	return GetGlobalLogger().WithComponent(name)
}

// RegisterDefaults pins component loggers derived from the current global
// logger. Call it after Init.
func RegisterDefaults(names ...string) {
	if len(names) == 0 {
		names = Components
	}
	global := GetGlobalLogger()
	named.Lock()
	defer named.Unlock()
	for _, name := range names {
		named.loggers[name] = global.WithComponent(name)
	}
}

// Registered lists the registered component names in order.
func Registered() []string {
	named.RLock()
	defer named.RUnlock()
	out := make([]string, 0, len(named.loggers))
	for name := range named.loggers {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
