package storage

import (
	"context"
	"fmt"
)

const (
	KindMemory   = "memory"
	KindFile     = "file"
	KindSQLite   = "sqlite"
	KindRedis    = "redis"
	KindPostgres = "postgres"
)

type Options struct {
	Kind        string
	DataDir     string
	SQLitePath  string
	Redis       RedisOptions
	DatabaseURL string
}

// Open builds the backend named by opts.Kind.
func Open(ctx context.Context, opts Options) (Backend, error) {
	switch opts.Kind {
	case KindMemory:
		return NewMemoryBackend(), nil
	case KindFile, "":
		return NewFileBackend(opts.DataDir)
	case KindSQLite:
		return NewSQLiteBackend(opts.SQLitePath)
	case KindRedis:
		return NewRedisBackend(ctx, opts.Redis)
	case KindPostgres:
		return NewPostgresBackend(ctx, opts.DatabaseURL)
	default:
		return nil, fmt.Errorf("unknown storage backend: %s", opts.Kind)
	}
}
