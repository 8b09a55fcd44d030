// Package kv abstracts the key-value scoped storage backing the mock data
// providers. Stores receive their read/write functions by injection so tests
// can swap in the in-memory implementation.
package kv

import (
	"context"
	"errors"
)

// ErrNoKey indicates the key holds no value.
var ErrNoKey = errors.New("kv: key not found")

// Store is the minimal key-value contract the providers depend on. Append
// and Elements treat the key as a list; appends are atomic, so concurrent
// writers never lose elements to each other.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Append(ctx context.Context, key string, value []byte) error
	Elements(ctx context.Context, key string) ([][]byte, error)
}
