package docker

import "sync"

// MapMutex hands out one RWMutex per key, so pulls of the same image serialize
// while pulls of different images proceed independently.
type MapMutex struct {
	innerMap map[string]*sync.RWMutex
	mutex    *sync.RWMutex
}

func NewMapMutex() *MapMutex {
	return &MapMutex{
		innerMap: make(map[string]*sync.RWMutex),
		mutex:    &sync.RWMutex{},
	}
}

func (m *MapMutex) getKeyLock(key string) *sync.RWMutex {
	// fast path, key already has a lock
	m.mutex.RLock()
	if lock, ok := m.innerMap[key]; ok {
		m.mutex.RUnlock()
		return lock
	}
	m.mutex.RUnlock()

	m.mutex.Lock()
	defer m.mutex.Unlock()

	// another goroutine may have created it in between
	if lock, ok := m.innerMap[key]; ok {
		return lock
	}

	lock := &sync.RWMutex{}
	m.innerMap[key] = lock

	return lock
}

func (m *MapMutex) RLock(key string) {
	m.getKeyLock(key).RLock()
}

func (m *MapMutex) RUnlock(key string) {
	m.getKeyLock(key).RUnlock()
}

func (m *MapMutex) Lock(key string) {
	m.getKeyLock(key).Lock()
}

func (m *MapMutex) Unlock(key string) {
	m.getKeyLock(key).Unlock()
}
