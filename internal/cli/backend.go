// Package cli wires configuration into the engine for the intake binary.
package cli

import (
	"context"
	"encoding/base64"
	"fmt"

	goredis "github.com/redis/go-redis/v9"

	"github.com/aretw0/intake/internal/config"
	"github.com/aretw0/intake/pkg/adapters/memory"
	"github.com/aretw0/intake/pkg/adapters/mongo"
	"github.com/aretw0/intake/pkg/adapters/redis"
	"github.com/aretw0/intake/pkg/persistence/middleware"
	"github.com/aretw0/intake/pkg/ports"
)

// Backend is an opened store and, when the backend can coordinate replicas,
// its distributed locker.
type Backend struct {
	Store  ports.Store
	Locker ports.DistributedLocker
	Name   string

	close func(context.Context) error
}

// Close releases the backend connections.
func (b *Backend) Close(ctx context.Context) error {
	if b.close == nil {
		return nil
	}
	return b.close(ctx)
}

// OpenBackend connects the store selected by cfg and wraps it with the
// configured submission privacy middleware.
func OpenBackend(ctx context.Context, cfg config.StoreConfig) (*Backend, error) {
	mws, err := privacy(cfg.Privacy)
	if err != nil {
		return nil, err
	}

	b, err := open(ctx, cfg)
	if err != nil {
		return nil, err
	}
	b.Store = middleware.Chain(b.Store, mws...)
	return b, nil
}

func privacy(cfg config.PrivacyConfig) ([]middleware.Middleware, error) {
	var mws []middleware.Middleware
	if len(cfg.MaskAnswers) > 0 {
		mask, err := middleware.NewMaskingMiddleware(cfg.MaskAnswers)
		if err != nil {
			return nil, err
		}
		mws = append(mws, mask)
	}

	if cfg.EncryptionKey == "" {
		return mws, nil
	}
	active, err := base64.StdEncoding.DecodeString(cfg.EncryptionKey)
	if err != nil {
		return nil, fmt.Errorf("invalid encryption key: %w", err)
	}
	enc := middleware.EncryptionConfig{ActiveKey: active}
	for _, k := range cfg.FallbackKeys {
		key, err := base64.StdEncoding.DecodeString(k)
		if err != nil {
			return nil, fmt.Errorf("invalid fallback key: %w", err)
		}
		enc.FallbackKeys = append(enc.FallbackKeys, key)
	}
	encrypt, err := middleware.NewEncryptionMiddleware(enc)
	if err != nil {
		return nil, err
	}
	return append(mws, encrypt), nil
}

func open(ctx context.Context, cfg config.StoreConfig) (*Backend, error) {
	switch cfg.Backend {
	case config.BackendMemory, "":
		return &Backend{Store: memory.NewStore(), Name: config.BackendMemory}, nil

	case config.BackendRedis:
		opts, err := goredis.ParseURL(cfg.Redis.URL)
		if err != nil {
			return nil, fmt.Errorf("invalid redis url: %w", err)
		}
		client := goredis.NewClient(opts)
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, fmt.Errorf("failed to reach redis: %w", err)
		}
		store := redis.NewFromClient(client, redis.WithPrefix(cfg.Redis.Prefix))
		return &Backend{
			Store:  store,
			Locker: redis.NewLocker(client, cfg.Redis.Prefix),
			Name:   config.BackendRedis,
			close:  func(context.Context) error { return store.Close() },
		}, nil

	case config.BackendMongo:
		store, err := mongo.Connect(ctx, cfg.Mongo.URI, cfg.Mongo.Database)
		if err != nil {
			return nil, err
		}
		return &Backend{Store: store, Name: config.BackendMongo, close: store.Close}, nil
	}
	return nil, fmt.Errorf("unknown store backend %q", cfg.Backend)
}
