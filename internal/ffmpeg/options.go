package ffmpeg

// OptionMap is an insertion-ordered set of ffmpeg flag/value pairs. Setting
// an existing flag replaces its value in place, so the flag keeps its
// original position in the output. The zero value is ready to use.
type OptionMap struct {
	keys   []string
	values map[string]string
}

// NewOptionMap returns an empty map.
func NewOptionMap() *OptionMap {
	return &OptionMap{values: make(map[string]string)}
}

// Set stores value under name.
func (m *OptionMap) Set(name, value string) {
	if m.values == nil {
		m.values = make(map[string]string)
	}
	if _, ok := m.values[name]; !ok {
		m.keys = append(m.keys, name)
	}
	m.values[name] = value
}

// Get returns the value stored under name.
func (m *OptionMap) Get(name string) (string, bool) {
	v, ok := m.values[name]
	return v, ok
}

// Delete removes name. Deleting a missing flag is a no-op.
func (m *OptionMap) Delete(name string) {
	if _, ok := m.values[name]; !ok {
		return
	}
	delete(m.values, name)
	for i, k := range m.keys {
		if k == name {
			m.keys = append(m.keys[:i], m.keys[i+1:]...)
			break
		}
	}
}

// Len reports the number of flags.
func (m *OptionMap) Len() int { return len(m.keys) }

// Keys returns the flags in insertion order.
func (m *OptionMap) Keys() []string {
	out := make([]string, len(m.keys))
	copy(out, m.keys)
	return out
}

// Each calls fn for every pair in insertion order.
func (m *OptionMap) Each(fn func(name, value string)) {
	for _, k := range m.keys {
		fn(k, m.values[k])
	}
}

// Pairs flattens the map into "name, value, name, value, ..." order.
func (m *OptionMap) Pairs() []string {
	out := make([]string, 0, 2*len(m.keys))
	m.Each(func(name, value string) {
		out = append(out, name, value)
	})
	return out
}

// Clone returns an independent copy.
func (m *OptionMap) Clone() *OptionMap {
	c := &OptionMap{
		keys:   make([]string, len(m.keys)),
		values: make(map[string]string, len(m.values)),
	}
	copy(c.keys, m.keys)
	for k, v := range m.values {
		c.values[k] = v
	}
	return c
}
