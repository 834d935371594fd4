package collectionutils

// IndexBy maps every item to the key returned by key. Later items win on duplicate keys.
func IndexBy[T any, K comparable](items []T, key func(T) K) map[K]T {
	m := make(map[K]T, len(items))
	for _, item := range items {
		m[key(item)] = item
	}
	return m
}

// CountBy counts the items sharing each key.
func CountBy[T any, K comparable](items []T, key func(T) K) map[K]int64 {
	counts := make(map[K]int64)
	for _, item := range items {
		counts[key(item)]++
	}
	return counts
}

func GetOrDefault[K comparable, V any](m map[K]V, key K, defaultValue V) V {
	if v, ok := m[key]; ok {
		return v
	}
	return defaultValue
}
