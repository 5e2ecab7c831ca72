// Package ordered provides a map that remembers first-insertion order.
package ordered

// Map is not safe for concurrent use.
type Map[K comparable, V any] struct {
	keys  []K
	items map[K]V
}

func NewMap[K comparable, V any]() *Map[K, V] {
	return &Map[K, V]{items: make(map[K]V)}
}

func (m *Map[K, V]) Get(key K) (V, bool) {
	v, ok := m.items[key]
	return v, ok
}

// Set stores value under key. Overwriting keeps the original position.
func (m *Map[K, V]) Set(key K, value V) {
	if _, exists := m.items[key]; !exists {
		m.keys = append(m.keys, key)
	}
	m.items[key] = value
}

// GetOrCreate returns the stored value, creating it with build on first use.
// The boolean reports whether the value was created.
func (m *Map[K, V]) GetOrCreate(key K, build func() V) (V, bool) {
	if v, ok := m.items[key]; ok {
		return v, false
	}
	v := build()
	m.keys = append(m.keys, key)
	m.items[key] = v
	return v, true
}

func (m *Map[K, V]) Len() int {
	return len(m.keys)
}

// Keys returns keys in insertion order.
func (m *Map[K, V]) Keys() []K {
	out := make([]K, len(m.keys))
	copy(out, m.keys)
	return out
}

// Values returns values in insertion order.
func (m *Map[K, V]) Values() []V {
	out := make([]V, 0, len(m.keys))
	for _, k := range m.keys {
		out = append(out, m.items[k])
	}
	return out
}

// Each walks entries in insertion order until fn returns false.
func (m *Map[K, V]) Each(fn func(K, V) bool) {
	for _, k := range m.keys {
		if !fn(k, m.items[k]) {
			return
		}
	}
}
