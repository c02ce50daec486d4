// Package session keeps per-client state on the server and issues the signed
// tokens that address it.
package session

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned when a session id has no stored state.
var ErrNotFound = errors.New("session not found")

// ErrExists is returned by Create when the id is already taken.
var ErrExists = errors.New("session already exists")

// Store holds one state value of type S per session id.
type Store[S any] interface {
	Create(ctx context.Context, id string, state S) error
	Get(ctx context.Context, id string) (S, error)
	// Update atomically replaces the state of id with fn(state) and returns
	// the new value.
	Update(ctx context.Context, id string, fn func(S) S) (S, error)
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int, error)
	// Prune deletes every session last written before cutoff and reports how
	// many were removed.
	Prune(ctx context.Context, cutoff time.Time) (int, error)
	Close() error
}

// NewID returns a fresh random session id.
func NewID() string {
	return uuid.New().String()
}
