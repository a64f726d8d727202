package database

import (
	"context"
	"fmt"
	"reflect"
	"slices"
	"sync"
)

// memoryStore keeps documents in their JSON object form so reads and
// filters behave like the networked backends.
type memoryStore struct {
	mu    sync.RWMutex
	docs  map[string]map[string]any
	order map[string][]string
}

func NewMemory() Store {
	return &memoryStore{
		docs:  make(map[string]map[string]any),
		order: make(map[string][]string),
	}
}

func (s *memoryStore) Insert(ctx context.Context, collection string, doc any) (string, error) {
	if err := checkCollection(collection); err != nil {
		return "", err
	}
	body, err := toDocument(doc)
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	id, err := newID(collection)
	for err == nil && s.docs[id] != nil {
		id, err = newID(collection)
	}
	if err != nil {
		return "", err
	}
	body["id"] = id

	s.docs[id] = body
	s.order[collection] = append(s.order[collection], id)

	return id, nil
}

func (s *memoryStore) Get(ctx context.Context, id string, out any) (bool, error) {
	s.mu.RLock()
	body, ok := s.docs[id]
	s.mu.RUnlock()

	if !ok {
		return false, nil
	}
	return true, decode(body, out)
}

func (s *memoryStore) Patch(ctx context.Context, id string, fields map[string]any) error {
	merge, err := toDocument(fields)
	if err != nil {
		return err
	}
	delete(merge, "id")

	s.mu.Lock()
	defer s.mu.Unlock()

	body, ok := s.docs[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	patched := make(map[string]any, len(body)+len(merge))
	for k, v := range body {
		patched[k] = v
	}
	for k, v := range merge {
		patched[k] = v
	}
	s.docs[id] = patched

	return nil
}

func (s *memoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.docs[id]; !ok {
		return nil
	}
	delete(s.docs, id)

	collection := CollectionOf(id)
	s.order[collection] = slices.DeleteFunc(s.order[collection], func(other string) bool {
		return other == id
	})

	return nil
}

func (s *memoryStore) First(ctx context.Context, collection string, filter Filter, out any) (bool, error) {
	matches, err := s.match(collection, filter, 1)
	if err != nil {
		return false, err
	}
	if len(matches) == 0 {
		return false, nil
	}
	return true, decode(matches[0], out)
}

func (s *memoryStore) Collect(ctx context.Context, collection string, filter Filter, out any) error {
	matches, err := s.match(collection, filter, 0)
	if err != nil {
		return err
	}
	return decode(matches, out)
}

func (s *memoryStore) Ping(ctx context.Context) error {
	return nil
}

func (s *memoryStore) Close() error {
	return nil
}

func (s *memoryStore) match(collection string, filter Filter, limit int) ([]map[string]any, error) {
	if err := checkCollection(collection); err != nil {
		return nil, err
	}
	want, err := toDocument(map[string]any(filter))
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	matches := []map[string]any{}
	for _, id := range s.order[collection] {
		body := s.docs[id]
		if !contains(body, want) {
			continue
		}
		matches = append(matches, body)
		if limit > 0 && len(matches) == limit {
			break
		}
	}

	return matches, nil
}

func contains(body, want map[string]any) bool {
	for k, v := range want {
		if !reflect.DeepEqual(body[k], v) {
			return false
		}
	}
	return true
}
