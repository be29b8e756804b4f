// Package storage provides the key-value document store used for jobs,
// résumés and profiles.
package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"maps"
	"strings"
)

const (
	DriverMemory   = "memory"
	DriverPostgres = "postgres"
)

var ErrNotFound = errors.New("document not found")

// Document is a JSON-shaped record.
type Document map[string]any

// Predicate selects documents in Query. A nil predicate selects everything.
type Predicate func(id string, doc Document) bool

// Store is a collection-scoped document store. Set with merge=false replaces
// the whole document; merge=true overlays the given top-level fields.
type Store interface {
	Get(ctx context.Context, collection, id string) (Document, error)
	Set(ctx context.Context, collection, id string, doc Document, merge bool) error
	Query(ctx context.Context, collection string, match Predicate) ([]Record, error)
	Delete(ctx context.Context, collection, id string) error
	Close() error
}

// Record pairs a document with its id.
type Record struct {
	ID  string
	Doc Document
}

// Open builds a store for the configured driver.
func Open(ctx context.Context, driver, dsn string) (Store, error) {
	switch strings.ToLower(strings.TrimSpace(driver)) {
	case "", DriverMemory:
		return NewMemory(), nil
	case DriverPostgres:
		return NewPostgres(ctx, dsn)
	default:
		return nil, fmt.Errorf("unsupported storage driver: %s", driver)
	}
}

// Seed loads a JSON fixture of the form {"collection": {"id": {...}}} into store.
func Seed(ctx context.Context, store Store, r io.Reader) (int, error) {
	var fixture map[string]map[string]Document
	if err := json.NewDecoder(r).Decode(&fixture); err != nil {
		return 0, fmt.Errorf("decode seed fixture: %w", err)
	}

	count := 0
	for collection, docs := range fixture {
		for id, doc := range docs {
			if err := store.Set(ctx, collection, id, doc, false); err != nil {
				return count, fmt.Errorf("seed %s/%s: %w", collection, id, err)
			}
			count++
		}
	}

	return count, nil
}

func validKey(collection, id string) error {
	if strings.TrimSpace(collection) == "" {
		return errors.New("collection is required")
	}
	if strings.TrimSpace(id) == "" {
		return errors.New("document id is required")
	}
	return nil
}

func clone(doc Document) Document {
	if doc == nil {
		return Document{}
	}
	return maps.Clone(doc)
}
