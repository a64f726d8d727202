package database

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"hudori/internal/config"
	"hudori/internal/utils"
	"strings"
)

// Collection names. Ids handed out by every store are "<collection>:<key>".
const (
	Profiles       = "profiles"
	Servers        = "servers"
	Members        = "members"
	Channels       = "channels"
	Messages       = "messages"
	DirectMessages = "direct_messages"
	Friends        = "friends"
	Reports        = "reports"
	SystemMessages = "system_messages"
)

var Collections = []string{
	Profiles,
	Servers,
	Members,
	Channels,
	Messages,
	DirectMessages,
	Friends,
	Reports,
	SystemMessages,
}

var (
	ErrNotFound          = errors.New("document not found")
	ErrUnknownCollection = errors.New("unknown collection")
)

// Filter is a set of field = value predicates joined with AND. Keys are the
// JSON field names of the stored document.
type Filter map[string]any

// Store is the document store every domain operation goes through. There are
// no multi-document transactions.
type Store interface {
	// Insert stores doc in collection and returns the assigned id.
	Insert(ctx context.Context, collection string, doc any) (string, error)
	// Get decodes the document with the given id into out. It reports false
	// when no such document exists.
	Get(ctx context.Context, id string, out any) (bool, error)
	// Patch merges fields into an existing document, ErrNotFound if absent.
	Patch(ctx context.Context, id string, fields map[string]any) error
	// Delete removes a document. Deleting an absent id is not an error.
	Delete(ctx context.Context, id string) error
	// First decodes the first document matching filter into out.
	First(ctx context.Context, collection string, filter Filter, out any) (bool, error)
	// Collect decodes every document matching filter into out, a pointer to
	// a slice, in insertion order.
	Collect(ctx context.Context, collection string, filter Filter, out any) error
	Ping(ctx context.Context) error
	Close() error
}

// New opens the store selected by cfg.Driver.
func New(ctx context.Context, cfg config.Database) (Store, error) {
	switch cfg.Driver {
	case config.DriverSurreal:
		return NewSurreal(cfg)
	case config.DriverPostgres:
		return NewPostgres(ctx, cfg.PostgresDsn)
	case config.DriverMemory:
		return NewMemory(), nil
	}
	return nil, fmt.Errorf("unknown database driver %q", cfg.Driver)
}

// CollectionOf returns the collection part of a document id.
func CollectionOf(id string) string {
	collection, _, found := strings.Cut(id, ":")
	if !found {
		return ""
	}
	return collection
}

func checkCollection(collection string) error {
	for _, c := range Collections {
		if c == collection {
			return nil
		}
	}
	return fmt.Errorf("%w: %q", ErrUnknownCollection, collection)
}

// toDocument turns a struct or map into its stored JSON object form.
func toDocument(doc any) (map[string]any, error) {
	data, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}

	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("document is not an object: %w", err)
	}
	if m == nil {
		m = map[string]any{}
	}
	return m, nil
}

func decode(src, out any) error {
	data, err := json.Marshal(src)
	if err != nil {
		return fmt.Errorf("encode result: %w", err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode result: %w", err)
	}
	return nil
}

func newID(collection string) (string, error) {
	key, err := utils.GenerateRandomId()
	if err != nil {
		return "", fmt.Errorf("generate id: %w", err)
	}
	return collection + ":" + key, nil
}
