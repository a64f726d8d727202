package database

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const postgresSchema = `
CREATE TABLE IF NOT EXISTS documents (
	id          TEXT PRIMARY KEY,
	collection  TEXT NOT NULL,
	body        JSONB NOT NULL,
	inserted_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS documents_collection_idx ON documents (collection, inserted_at);
CREATE INDEX IF NOT EXISTS documents_body_idx ON documents USING GIN (body jsonb_path_ops);
`

// postgresStore keeps every collection in one JSONB table. Filters use
// containment so the GIN index serves them.
type postgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgres(ctx context.Context, dsn string) (Store, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}

	if _, err := pool.Exec(ctx, postgresSchema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("create documents table: %w", err)
	}

	return &postgresStore{pool: pool}, nil
}

func (s *postgresStore) Insert(ctx context.Context, collection string, doc any) (string, error) {
	if err := checkCollection(collection); err != nil {
		return "", err
	}
	body, err := toDocument(doc)
	if err != nil {
		return "", err
	}

	id, err := newID(collection)
	if err != nil {
		return "", err
	}
	body["id"] = id

	data, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("encode document: %w", err)
	}

	if _, err := s.pool.Exec(ctx,
		"INSERT INTO documents (id, collection, body) VALUES ($1, $2, $3::jsonb)",
		id, collection, data,
	); err != nil {
		return "", fmt.Errorf("insert into %s: %w", collection, err)
	}

	return id, nil
}

func (s *postgresStore) Get(ctx context.Context, id string, out any) (bool, error) {
	var body []byte
	err := s.pool.QueryRow(ctx, "SELECT body FROM documents WHERE id = $1", id).Scan(&body)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("select %s: %w", id, err)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return false, fmt.Errorf("decode %s: %w", id, err)
	}
	return true, nil
}

func (s *postgresStore) Patch(ctx context.Context, id string, fields map[string]any) error {
	merge, err := toDocument(fields)
	if err != nil {
		return err
	}
	delete(merge, "id")

	data, err := json.Marshal(merge)
	if err != nil {
		return fmt.Errorf("encode patch: %w", err)
	}

	tag, err := s.pool.Exec(ctx, "UPDATE documents SET body = body || $2::jsonb WHERE id = $1", id, data)
	if err != nil {
		return fmt.Errorf("update %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	return nil
}

func (s *postgresStore) Delete(ctx context.Context, id string) error {
	if _, err := s.pool.Exec(ctx, "DELETE FROM documents WHERE id = $1", id); err != nil {
		return fmt.Errorf("delete %s: %w", id, err)
	}
	return nil
}

func (s *postgresStore) First(ctx context.Context, collection string, filter Filter, out any) (bool, error) {
	bodies, err := s.query(ctx, collection, filter, 1)
	if err != nil {
		return false, err
	}
	if len(bodies) == 0 {
		return false, nil
	}

	if err := json.Unmarshal(bodies[0], out); err != nil {
		return false, fmt.Errorf("decode %s: %w", collection, err)
	}
	return true, nil
}

func (s *postgresStore) Collect(ctx context.Context, collection string, filter Filter, out any) error {
	bodies, err := s.query(ctx, collection, filter, 0)
	if err != nil {
		return err
	}

	list := make([]json.RawMessage, 0, len(bodies))
	for _, body := range bodies {
		list = append(list, json.RawMessage(body))
	}

	return decode(list, out)
}

func (s *postgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

func (s *postgresStore) Close() error {
	s.pool.Close()
	return nil
}

func (s *postgresStore) query(ctx context.Context, collection string, filter Filter, limit int) ([][]byte, error) {
	if err := checkCollection(collection); err != nil {
		return nil, err
	}

	query, args, err := postgresSelect(collection, filter, limit)
	if err != nil {
		return nil, err
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("select %s: %w", collection, err)
	}

	bodies, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) ([]byte, error) {
		var body []byte
		err := row.Scan(&body)
		return body, err
	})
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", collection, err)
	}

	return bodies, nil
}

func postgresSelect(collection string, filter Filter, limit int) (string, []any, error) {
	containment, err := json.Marshal(map[string]any(filter))
	if err != nil {
		return "", nil, fmt.Errorf("encode filter: %w", err)
	}
	if filter == nil {
		containment = []byte("{}")
	}

	query := "SELECT body FROM documents WHERE collection = $1 AND body @> $2::jsonb ORDER BY inserted_at, id"
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", limit)
	}

	return query, []any{collection, containment}, nil
}
