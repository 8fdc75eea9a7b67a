package main

import (
	"context"
	"fmt"

	"go.uber.org/multierr"

	"github.com/angelmondragon/packfinderz-storefront/internal/identity"
	"github.com/angelmondragon/packfinderz-storefront/pkg/config"
	"github.com/angelmondragon/packfinderz-storefront/pkg/db"
	"github.com/angelmondragon/packfinderz-storefront/pkg/logger"
	"github.com/angelmondragon/packfinderz-storefront/pkg/redis"
)

type closableStore interface {
	identity.Store
	Ping(ctx context.Context) error
	Close() error
}

type memoryState struct {
	*identity.MemoryStore
}

func (memoryState) Ping(context.Context) error { return nil }

func (memoryState) Close() error { return nil }

// multiState writes through to every backend and reads from the first.
type multiState []closableStore

func (m multiState) Lookup(ctx context.Context, key string) (string, bool, error) {
	return m[0].Lookup(ctx, key)
}

func (m multiState) Put(ctx context.Context, key, value string) error {
	var err error
	for _, s := range m {
		err = multierr.Append(err, s.Put(ctx, key, value))
	}
	return err
}

func (m multiState) Delete(ctx context.Context, key string) error {
	var err error
	for _, s := range m {
		err = multierr.Append(err, s.Delete(ctx, key))
	}
	return err
}

func (m multiState) Ping(ctx context.Context) error {
	var err error
	for _, s := range m {
		err = multierr.Append(err, s.Ping(ctx))
	}
	return err
}

func (m multiState) Close() error {
	var err error
	for _, s := range m {
		err = multierr.Append(err, s.Close())
	}
	return err
}

// openState picks the identity store for cfg.State.Driver. The redis driver also mirrors
// into sqlite when a path is configured so a local profile survives a flushed cache.
func openState(ctx context.Context, cfg *config.Config, profile string, logg *logger.Logger) (closableStore, error) {
	switch cfg.State.Driver {
	case config.StateDriverMemory:
		return memoryState{identity.NewMemoryStore()}, nil
	case config.StateDriverSQLite:
		return db.Open(ctx, cfg.State.SQLitePath, profile, logg)
	case config.StateDriverRedis:
		rdb, err := redis.New(ctx, cfg.Redis, profile)
		if err != nil {
			return nil, err
		}
		if cfg.State.SQLitePath == "" {
			return rdb, nil
		}
		local, err := db.Open(ctx, cfg.State.SQLitePath, profile, logg)
		if err != nil {
			return nil, multierr.Append(err, rdb.Close())
		}
		return multiState{rdb, local}, nil
	default:
		return nil, fmt.Errorf("unknown state driver %q", cfg.State.Driver)
	}
}
