package storage

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"sync"
)

type collection struct {
	docs  map[string]Document
	order []string
}

// Memory is an in-process Store. Query returns documents in insertion order.
type Memory struct {
	mu          sync.RWMutex
	collections map[string]*collection
}

func NewMemory() *Memory {
	return &Memory{collections: make(map[string]*collection)}
}

func (m *Memory) Get(ctx context.Context, coll, id string) (Document, error) {
	if err := validKey(coll, id); err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	c, ok := m.collections[coll]
	if !ok {
		return nil, fmt.Errorf("%s/%s: %w", coll, id, ErrNotFound)
	}

	doc, ok := c.docs[id]
	if !ok {
		return nil, fmt.Errorf("%s/%s: %w", coll, id, ErrNotFound)
	}

	return clone(doc), nil
}

func (m *Memory) Set(ctx context.Context, coll, id string, doc Document, merge bool) error {
	if err := validKey(coll, id); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	c, ok := m.collections[coll]
	if !ok {
		c = &collection{docs: make(map[string]Document)}
		m.collections[coll] = c
	}

	existing, exists := c.docs[id]
	if !exists {
		c.order = append(c.order, id)
	}

	if merge && exists {
		merged := clone(existing)
		maps.Copy(merged, doc)
		c.docs[id] = merged
		return nil
	}

	c.docs[id] = clone(doc)
	return nil
}

func (m *Memory) Query(ctx context.Context, coll string, match Predicate) ([]Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	c, ok := m.collections[coll]
	if !ok {
		return []Record{}, nil
	}

	records := make([]Record, 0, len(c.order))
	for _, id := range c.order {
		doc := clone(c.docs[id])
		if match != nil && !match(id, doc) {
			continue
		}
		records = append(records, Record{ID: id, Doc: doc})
	}

	return records, nil
}

func (m *Memory) Delete(ctx context.Context, coll, id string) error {
	if err := validKey(coll, id); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	c, ok := m.collections[coll]
	if !ok {
		return fmt.Errorf("%s/%s: %w", coll, id, ErrNotFound)
	}

	if _, ok := c.docs[id]; !ok {
		return fmt.Errorf("%s/%s: %w", coll, id, ErrNotFound)
	}

	delete(c.docs, id)
	c.order = slices.DeleteFunc(c.order, func(existing string) bool { return existing == id })
	return nil
}

func (m *Memory) Close() error { return nil }
