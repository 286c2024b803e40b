package serde

import "reflect"

// --------------------------------------------------------------------------
// Type Resolution (dispatch)
// --------------------------------------------------------------------------

// resolve maps a value's runtime type to the most specific registered entry.
// The resolution order is:
//
//  1. exact type match
//  2. for pointer types, the pointed-to type
//  3. for named slice/array/map types, the equivalent unnamed structural
//     type (a generic codec for []float64 also catches `type Scores []float64`)
//  4. registered interface types the type implements, in registration order
//     (the deterministic tie-break when a type implements several)
//  5. the fallback entry
//
// Results are cached per concrete type; the cache is cleared on every
// registration since new entries can change dispatch results.
func (c *contextImpl) resolve(v any) *Entry {
	t := reflect.TypeOf(v)
	if t == nil {
		// untyped nil has no type identity to dispatch on
		return c.fb
	}

	if e, ok := c.cache.Load(t); ok {
		return e
	}

	e := c.resolveSlow(t)
	c.cache.Store(t, e)
	return e
}

func (c *contextImpl) resolveSlow(t reflect.Type) *Entry {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	// 1. exact match
	if e, ok := c.entries[t]; ok {
		return e
	}

	// 2. pointer deref
	if t.Kind() == reflect.Pointer {
		if e, ok := c.entries[t.Elem()]; ok {
			return e
		}
	}

	// 3. structural underlying type for named composites
	if t.Name() != "" {
		switch t.Kind() {
		case reflect.Slice:
			if e, ok := c.entries[reflect.SliceOf(t.Elem())]; ok {
				return e
			}
		case reflect.Array:
			if e, ok := c.entries[reflect.ArrayOf(t.Len(), t.Elem())]; ok {
				return e
			}
		case reflect.Map:
			if e, ok := c.entries[reflect.MapOf(t.Key(), t.Elem())]; ok {
				return e
			}
		}
	}

	// 4. interface walk in registration order
	for _, rt := range c.order {
		if rt.Kind() != reflect.Interface {
			continue
		}
		e, ok := c.entries[rt]
		if !ok {
			// evicted by a later tag rebinding
			continue
		}
		if t.Implements(rt) {
			return e
		}
	}

	// 5. catch-all
	return c.fb
}
