package ledger

// collection is an id-indexed set that remembers insertion order, which is
// the order collections are persisted and listed in. Items go in and come
// out through copyOf, so nothing outside the collection aliases stored data.
type collection[T any] struct {
	idOf   func(T) string
	copyOf func(T) T
	order  []string
	items  map[string]T
}

func newCollection[T any](idOf func(T) string, copyOf func(T) T, items []T) *collection[T] {
	if copyOf == nil {
		copyOf = func(v T) T { return v }
	}
	c := &collection[T]{
		idOf:   idOf,
		copyOf: copyOf,
		order:  make([]string, 0, len(items)),
		items:  make(map[string]T, len(items)),
	}
	for _, item := range items {
		c.put(item)
	}
	return c
}

func (c *collection[T]) clone() *collection[T] {
	out := &collection[T]{
		idOf:   c.idOf,
		copyOf: c.copyOf,
		order:  append([]string(nil), c.order...),
		items:  make(map[string]T, len(c.items)),
	}
	for k, v := range c.items {
		out.items[k] = v
	}
	return out
}

func (c *collection[T]) get(id string) (T, bool) {
	v, ok := c.items[id]
	if !ok {
		return v, false
	}
	return c.copyOf(v), true
}

// put inserts a new item at the end or replaces an existing one in place.
func (c *collection[T]) put(item T) {
	id := c.idOf(item)
	if _, ok := c.items[id]; !ok {
		c.order = append(c.order, id)
	}
	c.items[id] = c.copyOf(item)
}

func (c *collection[T]) remove(id string) bool {
	if _, ok := c.items[id]; !ok {
		return false
	}
	delete(c.items, id)
	for i, existing := range c.order {
		if existing == id {
			c.order = append(c.order[:i:i], c.order[i+1:]...)
			break
		}
	}
	return true
}

// find returns the first item, in order, matching pred.
func (c *collection[T]) find(pred func(T) bool) (T, bool) {
	for _, id := range c.order {
		if item := c.items[id]; pred(item) {
			return c.copyOf(item), true
		}
	}
	var zero T
	return zero, false
}

// values returns the items in order as a fresh slice.
func (c *collection[T]) values() []T {
	out := make([]T, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.copyOf(c.items[id]))
	}
	return out
}

func (c *collection[T]) len() int {
	return len(c.order)
}

// reset replaces the contents with items, keeping their order.
func (c *collection[T]) reset(items []T) {
	c.order = make([]string, 0, len(items))
	c.items = make(map[string]T, len(items))
	for _, item := range items {
		c.put(item)
	}
}
