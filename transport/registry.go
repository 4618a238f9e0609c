package transport

import (
	"fmt"
	"sync"
)

// Factory creates a transport instance for one address. Transport packages
// register a factory per scheme from their init function.
type Factory func(addr string) (Transport, error)

var (
	_registryLock sync.RWMutex
	_registry     = make(map[string]Factory)
)

// Register makes a transport constructible by scheme (e.g. "tcp", "ipc").
// Registering the same scheme twice panics: two packages claiming one
// scheme means the process configuration is broken.
func Register(scheme string, f Factory) {
	_registryLock.Lock()
	defer _registryLock.Unlock()

	if f == nil {
		panic("transport: Register with nil factory")
	}
	if _, ok := _registry[scheme]; ok {
		panic(fmt.Sprintf("transport: scheme %q registered twice", scheme))
	}
	_registry[scheme] = f
}

// New instantiates a transport for addr, which must be of the form
// "scheme://rest".
func New(addr string) (Transport, error) {
	scheme, rest, err := splitAddr(addr)
	if err != nil {
		return nil, err
	}

	_registryLock.RLock()
	f, ok := _registry[scheme]
	_registryLock.RUnlock()

	if !ok {
		return nil, fmt.Errorf("transport: unknown scheme %q", scheme)
	}
	return f(rest)
}

// Schemes lists the registered transport schemes, in no particular order.
func Schemes() []string {
	_registryLock.RLock()
	defer _registryLock.RUnlock()

	schemes := make([]string, 0, len(_registry))
	for scheme := range _registry {
		schemes = append(schemes, scheme)
	}
	return schemes
}

func splitAddr(addr string) (scheme, rest string, err error) {
	for i := 0; i+2 < len(addr); i++ {
		if addr[i] == ':' {
			if addr[i+1] != '/' || addr[i+2] != '/' {
				break
			}
			if i == 0 {
				break
			}
			return addr[:i], addr[i+3:], nil
		}
	}
	return "", "", fmt.Errorf("transport: malformed address %q", addr)
}
