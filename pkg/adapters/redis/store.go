package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	backend "github.com/redis/go-redis/v9"

	"github.com/aretw0/intake/pkg/domain"
)

const defaultPrefix = "intake:"

// Store implements ports.Store using Redis.
//
// Drafts and snapshots are JSON strings under their own keys, so a publish is
// a single SET. Submissions are appended to a list per intake. A sorted set
// with a constant score indexes intake ids in lexicographic order.
type Store struct {
	client *backend.Client
	prefix string
}

type Option func(*Store)

// WithPrefix sets the key prefix.
func WithPrefix(prefix string) Option {
	return func(s *Store) {
		s.prefix = prefix
	}
}

// New creates a new Redis store with options.
func New(address, password string, db int, opts ...Option) *Store {
	rdb := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	return NewFromClient(rdb, opts...)
}

// NewFromClient creates a new Redis store from an existing client.
func NewFromClient(client *backend.Client, opts ...Option) *Store {
	store := &Store{
		client: client,
		prefix: defaultPrefix,
	}

	for _, opt := range opts {
		opt(store)
	}

	return store
}

// Client exposes the underlying client, e.g. to share it with a Locker.
func (s *Store) Client() *backend.Client {
	return s.client
}

func (s *Store) draftKey(id string) string { return s.prefix + "draft:" + id }
func (s *Store) publishedKey(id string) string { return s.prefix + "published:" + id }
func (s *Store) submissionsKey(id string) string { return s.prefix + "submissions:" + id }
func (s *Store) indexKey() string { return s.prefix + "index" }

func (s *Store) LoadDraft(ctx context.Context, intakeID string) (domain.Draft, error) {
	var draft domain.Draft
	if err := s.get(ctx, s.draftKey(intakeID), &draft); err != nil {
		if errors.Is(err, backend.Nil) {
			return domain.Draft{}, domain.ErrIntakeNotFound
		}
		return domain.Draft{}, err
	}
	return draft, nil
}

func (s *Store) SaveDraft(ctx context.Context, draft domain.Draft) error {
	return s.put(ctx, draft.IntakeID, s.draftKey(draft.IntakeID), draft)
}

func (s *Store) LoadPublished(ctx context.Context, intakeID string) (domain.Snapshot, error) {
	var snap domain.Snapshot
	if err := s.get(ctx, s.publishedKey(intakeID), &snap); err != nil {
		if errors.Is(err, backend.Nil) {
			return domain.Snapshot{}, domain.ErrNotPublished
		}
		return domain.Snapshot{}, err
	}
	return snap, nil
}

func (s *Store) SavePublished(ctx context.Context, snapshot domain.Snapshot) error {
	return s.put(ctx, snapshot.IntakeID, s.publishedKey(snapshot.IntakeID), snapshot)
}

// List returns the indexed intake ids. Equal scores keep them sorted.
func (s *Store) List(ctx context.Context) ([]string, error) {
	ids, err := s.client.ZRange(ctx, s.indexKey(), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list intakes: %w", err)
	}
	return ids, nil
}

func (s *Store) SaveSubmission(ctx context.Context, sub domain.Submission) error {
	data, err := json.Marshal(sub)
	if err != nil {
		return fmt.Errorf("failed to marshal submission: %w", err)
	}
	if err := s.client.RPush(ctx, s.submissionsKey(sub.IntakeID), data).Err(); err != nil {
		return fmt.Errorf("failed to save submission to redis: %w", err)
	}
	return nil
}

func (s *Store) ListSubmissions(ctx context.Context, intakeID string) ([]domain.Submission, error) {
	raw, err := s.client.LRange(ctx, s.submissionsKey(intakeID), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list submissions: %w", err)
	}

	out := make([]domain.Submission, 0, len(raw))
	for _, item := range raw {
		var sub domain.Submission
		if err := json.Unmarshal([]byte(item), &sub); err != nil {
			return nil, fmt.Errorf("failed to unmarshal submission: %w", err)
		}
		out = append(out, sub)
	}
	return out, nil
}

// Close closes the redis client.
func (s *Store) Close() error {
	return s.client.Close()
}

func (s *Store) get(ctx context.Context, key string, v any) error {
	val, err := s.client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, backend.Nil) {
			return err
		}
		return fmt.Errorf("failed to get from redis: %w", err)
	}
	if err := json.Unmarshal([]byte(val), v); err != nil {
		return fmt.Errorf("failed to unmarshal %s: %w", key, err)
	}
	return nil
}

// put writes the value and indexes the intake in one MULTI/EXEC.
func (s *Store) put(ctx context.Context, intakeID, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", key, err)
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, key, data, 0)
	pipe.ZAdd(ctx, s.indexKey(), backend.Z{Score: 0, Member: intakeID})

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save to redis: %w", err)
	}
	return nil
}
