package database

import (
	"context"
	"fmt"
	"hudori/internal/config"
	"sort"
	"strings"

	"github.com/surrealdb/surrealdb.go"
)

type surrealStore struct {
	db *surrealdb.DB
}

type createdRecord struct {
	ID string `json:"id"`
}

func NewSurreal(cfg config.Database) (Store, error) {
	db, err := surrealdb.New(cfg.Url)
	if err != nil {
		return nil, fmt.Errorf("connect to surrealdb: %w", err)
	}

	if cfg.Username != "" {
		if _, err := db.Signin(map[string]interface{}{
			"user": cfg.Username,
			"pass": cfg.Password,
		}); err != nil {
			db.Close()
			return nil, fmt.Errorf("signin to surrealdb: %w", err)
		}
	}

	if _, err := db.Use(cfg.Namespace, cfg.Name); err != nil {
		db.Close()
		return nil, fmt.Errorf("use namespace %s: %w", cfg.Namespace, err)
	}

	return &surrealStore{db: db}, nil
}

func (s *surrealStore) Insert(ctx context.Context, collection string, doc any) (string, error) {
	if err := checkCollection(collection); err != nil {
		return "", err
	}
	content, err := toDocument(doc)
	if err != nil {
		return "", err
	}
	delete(content, "id")

	res, err := s.db.Query(fmt.Sprintf("CREATE ONLY %s CONTENT $doc RETURN id;", collection), map[string]interface{}{
		"doc": content,
	})
	created, err := surrealdb.SmartUnmarshal[createdRecord](res, err)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", collection, err)
	}

	return created.ID, nil
}

func (s *surrealStore) Get(ctx context.Context, id string, out any) (bool, error) {
	rows, err := s.rows("SELECT * FROM type::thing($id);", map[string]interface{}{
		"id": id,
	})
	if err != nil {
		return false, fmt.Errorf("select %s: %w", id, err)
	}
	if len(rows) == 0 {
		return false, nil
	}

	return true, decode(rows[0], out)
}

func (s *surrealStore) Patch(ctx context.Context, id string, fields map[string]any) error {
	// UPDATE on a missing record id creates it, so check first.
	found, err := s.Get(ctx, id, &map[string]any{})
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	merge, err := toDocument(fields)
	if err != nil {
		return err
	}
	delete(merge, "id")

	if _, err := s.db.Query("UPDATE type::thing($id) MERGE $fields;", map[string]interface{}{
		"id":     id,
		"fields": merge,
	}); err != nil {
		return fmt.Errorf("update %s: %w", id, err)
	}

	return nil
}

func (s *surrealStore) Delete(ctx context.Context, id string) error {
	if _, err := s.db.Query("DELETE type::thing($id);", map[string]interface{}{
		"id": id,
	}); err != nil {
		return fmt.Errorf("delete %s: %w", id, err)
	}
	return nil
}

func (s *surrealStore) First(ctx context.Context, collection string, filter Filter, out any) (bool, error) {
	if err := checkCollection(collection); err != nil {
		return false, err
	}

	query, vars := surrealSelect(collection, filter, 1)
	rows, err := s.rows(query, vars)
	if err != nil {
		return false, fmt.Errorf("select %s: %w", collection, err)
	}
	if len(rows) == 0 {
		return false, nil
	}

	return true, decode(rows[0], out)
}

func (s *surrealStore) Collect(ctx context.Context, collection string, filter Filter, out any) error {
	if err := checkCollection(collection); err != nil {
		return err
	}

	query, vars := surrealSelect(collection, filter, 0)
	rows, err := s.rows(query, vars)
	if err != nil {
		return fmt.Errorf("select %s: %w", collection, err)
	}

	return decode(rows, out)
}

func (s *surrealStore) Ping(ctx context.Context) error {
	if _, err := s.db.Query("RETURN true;", map[string]interface{}{}); err != nil {
		return fmt.Errorf("ping surrealdb: %w", err)
	}
	return nil
}

func (s *surrealStore) Close() error {
	s.db.Close()
	return nil
}

func (s *surrealStore) rows(query string, vars map[string]interface{}) ([]map[string]any, error) {
	res, err := s.db.Query(query, vars)
	if err != nil {
		return nil, err
	}

	rows := []map[string]any{}
	if ok, err := surrealdb.UnmarshalRaw(res, &rows); !ok {
		if err != nil {
			return nil, err
		}
		return []map[string]any{}, nil
	}

	return rows, nil
}

// surrealSelect builds a SELECT over collection with one bound parameter per
// filter field. Fields are emitted in sorted order so queries are stable.
func surrealSelect(collection string, filter Filter, limit int) (string, map[string]interface{}) {
	keys := make([]string, 0, len(filter))
	for k := range filter {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	vars := make(map[string]interface{}, len(keys))
	conditions := make([]string, 0, len(keys))
	for i, k := range keys {
		param := fmt.Sprintf("f%d", i)
		conditions = append(conditions, fmt.Sprintf("%s = $%s", k, param))
		vars[param] = filter[k]
	}

	var b strings.Builder
	b.WriteString("SELECT * FROM ")
	b.WriteString(collection)
	if len(conditions) > 0 {
		b.WriteString(" WHERE ")
		b.WriteString(strings.Join(conditions, " AND "))
	}
	b.WriteString(" ORDER BY created_at ASC")
	if limit > 0 {
		fmt.Fprintf(&b, " LIMIT %d", limit)
	}
	b.WriteString(";")

	return b.String(), vars
}
