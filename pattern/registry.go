package pattern

import (
	"fmt"
	"sync"
)

// Factory creates a fresh pattern instance. Each socket gets its own
// instance; factories must not share mutable state between the patterns they
// produce.
type Factory func() Pattern

var (
	_registryLock sync.RWMutex
	_registry     = make(map[string]Factory)
)

// Register makes a pattern constructible by name. Pattern packages call this
// from their init function. Registering the same name twice panics: it means
// two packages claim one pattern and the process configuration is broken.
func Register(name string, f Factory) {
	_registryLock.Lock()
	defer _registryLock.Unlock()

	if f == nil {
		panic("pattern: Register with nil factory")
	}
	if _, ok := _registry[name]; ok {
		panic(fmt.Sprintf("pattern: %q registered twice", name))
	}
	_registry[name] = f
}

// New instantiates the pattern registered under name.
func New(name string) (Pattern, error) {
	_registryLock.RLock()
	f, ok := _registry[name]
	_registryLock.RUnlock()

	if !ok {
		return nil, fmt.Errorf("pattern: unknown pattern %q", name)
	}
	return f(), nil
}

// Names lists the registered pattern names, in no particular order.
func Names() []string {
	_registryLock.RLock()
	defer _registryLock.RUnlock()

	names := make([]string, 0, len(_registry))
	for name := range _registry {
		names = append(names, name)
	}
	return names
}
