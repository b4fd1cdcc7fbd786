package rtbtest

import (
	"encoding/json"
	"fmt"
	"strings"
)

// table keeps resources by name in insertion order
type table[T any] struct {
	items map[string]*T
	order []string
}

func newTable[T any]() *table[T] {
	return &table[T]{items: make(map[string]*T)}
}

func (t *table[T]) put(name string, v T) {
	if _, exists := t.items[name]; !exists {
		t.order = append(t.order, name)
	}
	t.items[name] = &v
}

// get returns a copy of the named item
func (t *table[T]) get(name string) (*T, bool) {
	v, ok := t.items[name]
	if !ok {
		return nil, false
	}
	c := *v
	return &c, true
}

func (t *table[T]) del(name string) bool {
	if _, ok := t.items[name]; !ok {
		return false
	}
	delete(t.items, name)
	for i, n := range t.order {
		if n == name {
			t.order = append(t.order[:i], t.order[i+1:]...)
			break
		}
	}
	return true
}

// list returns copies of the items whose names start with prefix
func (t *table[T]) list(prefix string) []*T {
	out := make([]*T, 0, len(t.order))
	for _, name := range t.order {
		if strings.HasPrefix(name, prefix) {
			c := *t.items[name]
			out = append(out, &c)
		}
	}
	return out
}

// applyMask copies the dotted JSON paths in mask from patch onto dst. A path
// that is absent from patch clears the field on dst.
func applyMask[T any](dst, patch *T, mask []string) error {
	dstMap, err := toMap(dst)
	if err != nil {
		return err
	}
	patchMap, err := toMap(patch)
	if err != nil {
		return err
	}

	for _, path := range mask {
		path = strings.TrimSpace(path)
		if path == "" {
			continue
		}
		keys := strings.Split(path, ".")
		value, found := lookup(patchMap, keys)
		if err := assign(dstMap, keys, value, found); err != nil {
			return fmt.Errorf("update mask %q: %w", path, err)
		}
	}

	b, err := json.Marshal(dstMap)
	if err != nil {
		return err
	}
	var out T
	if err := json.Unmarshal(b, &out); err != nil {
		return err
	}
	*dst = out
	return nil
}

func toMap(v interface{}) (map[string]interface{}, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	m := map[string]interface{}{}
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, err
	}
	return m, nil
}

func lookup(m map[string]interface{}, keys []string) (interface{}, bool) {
	var cur interface{} = m
	for _, k := range keys {
		obj, ok := cur.(map[string]interface{})
		if !ok {
			return nil, false
		}
		cur, ok = obj[k]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}

func assign(m map[string]interface{}, keys []string, value interface{}, set bool) error {
	for _, k := range keys[:len(keys)-1] {
		next, ok := m[k]
		if !ok {
			if !set {
				return nil
			}
			child := map[string]interface{}{}
			m[k] = child
			m = child
			continue
		}
		child, ok := next.(map[string]interface{})
		if !ok {
			return fmt.Errorf("%s is not a message", k)
		}
		m = child
	}

	last := keys[len(keys)-1]
	if set {
		m[last] = value
	} else {
		delete(m, last)
	}
	return nil
}
