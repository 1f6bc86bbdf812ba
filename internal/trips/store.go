// Package trips persists named trip snapshots and mediates the
// save/load/search lifecycle around them.
package trips

import (
	"context"
	"errors"
	"fmt"

	"github.com/stellartravel/itinerary-service/internal/types"
)

var (
	// ErrNotFound means no saved trip exists with the given id.
	ErrNotFound = errors.New("trips: not found")
	// ErrEmptyName rejects saving under a blank name.
	ErrEmptyName = errors.New("trips: name must not be empty")
	// ErrAborted is returned when a name conflict is resolved by
	// cancelling the save.
	ErrAborted = errors.New("trips: save aborted")
	// ErrUnknownScope rejects scope values other than private/public.
	ErrUnknownScope = errors.New("trips: unknown scope")
)

// Scope names the collection a saved trip lives in. A trip belongs to
// exactly one scope at a time; sharing it copies it into the other
// scope under a fresh id.
type Scope string

const (
	ScopePrivate Scope = "private"
	ScopePublic  Scope = "public"
)

// ParseScope maps a request value to a Scope. Empty means private.
func ParseScope(s string) (Scope, error) {
	switch Scope(s) {
	case "":
		return ScopePrivate, nil
	case ScopePrivate, ScopePublic:
		return Scope(s), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownScope, s)
	}
}

// Other returns the opposite scope.
func (s Scope) Other() Scope {
	if s == ScopePublic {
		return ScopePrivate
	}
	return ScopePublic
}

// Store is the persistence port for saved trips.
type Store interface {
	List(ctx context.Context) ([]types.SavedTrip, error)
	Get(ctx context.Context, id string) (types.SavedTrip, error)
	FindByName(ctx context.Context, name string) (types.SavedTrip, bool, error)
	Put(ctx context.Context, trip types.SavedTrip) error
	Delete(ctx context.Context, id string) error
}
