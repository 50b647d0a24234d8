// Package store defines the persistence collaborator contract the draft
// engine's callers use: a minimal key-value surface over serialized draft
// documents. The engine itself never touches a store; saving is a
// fire-and-forget side effect at the lobby boundary.
package store

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Load for unknown draft ids.
var ErrNotFound = errors.New("draft not found")

// Store persists serialized draft documents by draft id.
type Store interface {
	Save(ctx context.Context, id string, data []byte) error
	Load(ctx context.Context, id string) ([]byte, error)
	List(ctx context.Context) ([]string, error)
	Delete(ctx context.Context, id string) error
}
