package chat

import (
	"context"
	"fmt"
	"hudori/internal/database"
	"slices"
	"time"

	"github.com/rs/zerolog"
)

// Service is the domain-consistency and authorization layer. It owns every
// write to the denormalized id lists on servers and profiles.
type Service struct {
	store       database.Store
	logger      zerolog.Logger
	now         func() time.Time
	adminSecret string
}

type Option func(*Service)

func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

func WithLogger(logger zerolog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithAdminSecret sets the credential DeleteAllProfiles requires. An empty
// secret disables the operation.
func WithAdminSecret(secret string) Option {
	return func(s *Service) {
		s.adminSecret = secret
	}
}

func New(store database.Store, opts ...Option) *Service {
	s := &Service{
		store:  store,
		logger: zerolog.Nop(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Ping checks that the store is reachable.
func (s *Service) Ping(ctx context.Context) error {
	return s.store.Ping(ctx)
}

func (s *Service) timestamp() time.Time {
	return s.now().UTC()
}

// fault logs a store failure and wraps it with the operation name.
func (s *Service) fault(op string, err error) error {
	s.logger.Error().Err(err).Str("op", op).Msg("store operation failed")
	return fmt.Errorf("%s: %w", op, err)
}

// load fetches one document of collection by id, nil when it does not exist.
// An id from another collection never resolves.
func load[T any](ctx context.Context, s *Service, collection, id string) (*T, error) {
	if id == "" || database.CollectionOf(id) != collection {
		return nil, nil
	}

	var v T
	found, err := s.store.Get(ctx, id, &v)
	if err != nil {
		return nil, s.fault("get "+collection, err)
	}
	if !found {
		return nil, nil
	}
	return &v, nil
}

func findFirst[T any](ctx context.Context, s *Service, collection string, filter database.Filter) (*T, error) {
	var v T
	found, err := s.store.First(ctx, collection, filter, &v)
	if err != nil {
		return nil, s.fault("query "+collection, err)
	}
	if !found {
		return nil, nil
	}
	return &v, nil
}

func findAll[T any](ctx context.Context, s *Service, collection string, filter database.Filter) ([]T, error) {
	list := []T{}
	if err := s.store.Collect(ctx, collection, filter, &list); err != nil {
		return nil, s.fault("query "+collection, err)
	}
	if list == nil {
		list = []T{}
	}
	return list, nil
}

// loadAll resolves ids in order, dropping the ones that no longer exist.
func loadAll[T any](ctx context.Context, s *Service, collection string, ids []string) ([]T, error) {
	list := make([]T, 0, len(ids))
	for _, id := range ids {
		v, err := load[T](ctx, s, collection, id)
		if err != nil {
			return nil, err
		}
		if v != nil {
			list = append(list, *v)
		}
	}
	return list, nil
}

func (s *Service) insert(ctx context.Context, collection string, doc any) (string, error) {
	id, err := s.store.Insert(ctx, collection, doc)
	if err != nil {
		return "", s.fault("insert "+collection, err)
	}
	return id, nil
}

func (s *Service) patch(ctx context.Context, id string, fields map[string]any) error {
	if err := s.store.Patch(ctx, id, fields); err != nil {
		return s.fault("patch "+database.CollectionOf(id), err)
	}
	return nil
}

func (s *Service) remove(ctx context.Context, id string) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return s.fault("delete "+database.CollectionOf(id), err)
	}
	return nil
}

func withoutID(ids []string, id string) []string {
	out := make([]string, 0, len(ids))
	for _, other := range ids {
		if other != id {
			out = append(out, other)
		}
	}
	return out
}

func sortByCreated[T any](list []T, createdAt func(T) time.Time) {
	slices.SortStableFunc(list, func(a, b T) int {
		return createdAt(a).Compare(createdAt(b))
	})
}
