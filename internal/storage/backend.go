// Package storage provides the key/value backends the ledger persists its records in.
package storage

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("storage: key not found")

// Entry is a single key/value write.
type Entry struct {
	Key   string
	Value []byte
}

// Backend is a durable key/value store. Values are opaque bytes; callers own the encoding.
type Backend interface {
	// Get returns ErrNotFound when the key has never been written or was deleted.
	Get(ctx context.Context, key string) ([]byte, error)
	// Commit writes every entry as one unit, in order. Either all writes land or none do.
	Commit(ctx context.Context, entries ...Entry) error
	Delete(ctx context.Context, keys ...string) error
	Close() error
}

func cloneBytes(b []byte) []byte {
	if b == nil {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
