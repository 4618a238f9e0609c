package config

import "sync"

var (
	_instance     ConfigManager
	_instanceOnce sync.Once
	_instanceLock sync.RWMutex
)

// GetInstance returns the process-wide configuration manager, creating it on
// first use.
func GetInstance() ConfigManager {
	_instanceOnce.Do(func() {
		_instanceLock.Lock()
		if _instance == nil {
			_instance = NewConfigManager()
		}
		_instanceLock.Unlock()
	})
	_instanceLock.RLock()
	defer _instanceLock.RUnlock()
	return _instance
}

// SetInstance replaces the process-wide configuration manager. Intended for
// tests and for applications that build their own manager during startup.
func SetInstance(cm ConfigManager) {
	_instanceLock.Lock()
	defer _instanceLock.Unlock()
	_instance = cm
}
