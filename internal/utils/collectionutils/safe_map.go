package collectionutils

import "sync"

type SafeMap[K comparable, V any] struct {
	data   map[K]V
	mutext sync.RWMutex
}

func (safeMap *SafeMap[K, V]) Store(newKey K, newValue V) {
	safeMap.mutext.Lock()
	defer safeMap.mutext.Unlock()
	safeMap.data[newKey] = newValue
}

func (safeMap *SafeMap[K, V]) Get(key K) (V, bool) {
	safeMap.mutext.RLock()
	defer safeMap.mutext.RUnlock()
	value, exists := safeMap.data[key]

	return value, exists
}

// Delete reports whether the key was present.
func (safeMap *SafeMap[K, V]) Delete(key K) bool {
	safeMap.mutext.Lock()
	defer safeMap.mutext.Unlock()
	_, exists := safeMap.data[key]
	delete(safeMap.data, key)
	return exists
}

// Update applies fn to the stored value under the write lock.
func (safeMap *SafeMap[K, V]) Update(key K, fn func(V) V) (V, bool) {
	safeMap.mutext.Lock()
	defer safeMap.mutext.Unlock()
	value, exists := safeMap.data[key]
	if !exists {
		return value, false
	}
	value = fn(value)
	safeMap.data[key] = value
	return value, true
}

// Values returns a snapshot in unspecified order.
func (safeMap *SafeMap[K, V]) Values() []V {
	safeMap.mutext.RLock()
	defer safeMap.mutext.RUnlock()
	values := make([]V, 0, len(safeMap.data))
	for _, v := range safeMap.data {
		values = append(values, v)
	}
	return values
}

func (safeMap *SafeMap[K, V]) Len() int {
	safeMap.mutext.RLock()
	defer safeMap.mutext.RUnlock()
	return len(safeMap.data)
}

func New[K comparable, V any]() *SafeMap[K, V] {
	return &SafeMap[K, V]{
		data: make(map[K]V),
	}
}
