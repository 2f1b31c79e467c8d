package domain

// Metadata is the provider's key/value description of a company, keyed by provider field name
type Metadata map[string]Value

// MetadataFromMap converts a loosely typed provider map. Keys whose values are
// unsupported (nil, bools, nested objects) are dropped.
func MetadataFromMap(raw map[string]interface{}) Metadata {
	m := make(Metadata, len(raw))
	for k, rv := range raw {
		v := ValueOf(rv)
		if v.IsAbsent() {
			continue
		}
		m[k] = v
	}
	return m
}

// Map returns a plain map suitable for generic encoders. Absent values are omitted.
func (m Metadata) Map() map[string]interface{} {
	out := make(map[string]interface{}, len(m))
	for k, v := range m {
		if v.IsAbsent() {
			continue
		}
		out[k] = v.Interface()
	}
	return out
}

// Get returns the value for key, or absent.
func (m Metadata) Get(key string) Value {
	if m == nil {
		return Value{}
	}
	return m[key]
}

// Set stores v under key unless it is absent.
func (m Metadata) Set(key string, v Value) {
	if v.IsAbsent() {
		return
	}
	m[key] = v
}

// First returns the first truthy value among keys, trying them in order.
// When none is truthy it returns the value of the last key (possibly absent).
func (m Metadata) First(keys ...string) Value {
	var last Value
	for _, k := range keys {
		last = m.Get(k)
		if last.Truthy() {
			return last
		}
	}
	return last
}

// Float returns the numeric value for key.
func (m Metadata) Float(key string) (float64, bool) {
	return m.Get(key).Float()
}

// Text returns the string value for key, or fallback when absent or empty.
// Numbers are rendered in their shortest form.
func (m Metadata) Text(key, fallback string) string {
	v := m.Get(key)
	switch v.Kind() {
	case KindString:
		if s, _ := v.Str(); s != "" {
			return s
		}
		return fallback
	case KindNumber:
		return v.String()
	default:
		return fallback
	}
}
