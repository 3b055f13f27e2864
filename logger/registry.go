package logger

import "sync"

// named resolves component loggers. Registered loggers are pinned; others
// are derived from the global logger on first use and dropped when the
// global logger changes.
var named = struct {
	mu      sync.RWMutex
	pinned  map[string]*Logger
	derived map[string]*Logger
}{
	pinned:  map[string]*Logger{},
	derived: map[string]*Logger{},
}

// Register pins l under name, replacing any logger Get returned before.
func Register(name string, l *Logger) {
	named.mu.Lock()
	defer named.mu.Unlock()
	named.pinned[name] = l
	delete(named.derived, name)
}

// Get returns the logger registered under name, or the global logger
// tagged with name as its component.
func Get(name string) *Logger {
	named.mu.RLock()
	l, ok := named.pinned[name]
	if !ok {
		l, ok = named.derived[name]
	}
	named.mu.RUnlock()
	if ok {
		return l
	}

	named.mu.Lock()
	defer named.mu.Unlock()
	if l, ok := named.pinned[name]; ok {
		return l
	}
	if l, ok := named.derived[name]; ok {
		return l
	}
	l = GetGlobalLogger().WithComponent(name)
	named.derived[name] = l
	return l
}

func dropDerived() {
	named.mu.Lock()
	defer named.mu.Unlock()
	clear(named.derived)
}
