package trips

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/stellartravel/itinerary-service/internal/place"
	"github.com/stellartravel/itinerary-service/internal/types"
)

// ConflictDecision says how to proceed when saving under a name that is
// already taken.
type ConflictDecision int

const (
	DecisionAbort ConflictDecision = iota
	DecisionOverwrite
	DecisionSaveAsCopy
)

// ConflictFunc is consulted with the existing trip when a save hits a
// name collision. A nil func aborts. A save never silently overwrites.
type ConflictFunc func(existing types.SavedTrip) ConflictDecision

// Service implements the saved-trip operations. Each visibility scope
// has its own backing Store; name uniqueness holds per scope.
type Service struct {
	logger zerolog.Logger
	stores map[Scope]Store
	now    func() time.Time
	newID  func() string
}

func NewService(private, public Store) *Service {
	return &Service{
		logger: log.With().Str("component", "trips_service").Logger(),
		stores: map[Scope]Store{ScopePrivate: private, ScopePublic: public},
		now:    time.Now,
		newID:  uuid.NewString,
	}
}

func (s *Service) storeFor(scope Scope) (Store, error) {
	st, ok := s.stores[scope]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownScope, string(scope))
	}
	return st, nil
}

// SaveRequest is everything needed to persist the current session.
type SaveRequest struct {
	Name          string
	Settings      types.TripSettings
	Rows          []types.DayRow
	CustomColumns []types.CustomColumn
	User          string
}

// Save persists a trip snapshot under a name. On a name collision the
// onConflict callback decides: overwrite keeps the existing id and
// creator, save-as-copy creates a fresh trip under a derived "(copy)"
// name, and abort (or a nil callback) returns ErrAborted with nothing
// written.
func (s *Service) Save(ctx context.Context, scope Scope, req SaveRequest, onConflict ConflictFunc) (types.SavedTrip, error) {
	store, err := s.storeFor(scope)
	if err != nil {
		return types.SavedTrip{}, err
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return types.SavedTrip{}, ErrEmptyName
	}

	trip := types.SavedTrip{
		ID:             s.newID(),
		Name:           name,
		SavedAt:        s.now(),
		Settings:       req.Settings.Clone(),
		Rows:           types.CloneRows(req.Rows),
		CustomColumns:  append([]types.CustomColumn(nil), req.CustomColumns...),
		CreatedBy:      req.User,
		LastModifiedBy: req.User,
	}

	existing, found, err := store.FindByName(ctx, name)
	if err != nil {
		return types.SavedTrip{}, err
	}
	if found {
		decision := DecisionAbort
		if onConflict != nil {
			decision = onConflict(existing)
		}
		switch decision {
		case DecisionOverwrite:
			trip.ID = existing.ID
			trip.CreatedBy = existing.CreatedBy
		case DecisionSaveAsCopy:
			// Fresh id already assigned; names are unique per scope,
			// so the copy needs a free one too.
			trip.Name, err = copyName(ctx, store, name)
			if err != nil {
				return types.SavedTrip{}, err
			}
		default:
			return types.SavedTrip{}, ErrAborted
		}
	}

	if err := store.Put(ctx, trip); err != nil {
		return types.SavedTrip{}, err
	}
	s.logger.Info().Str("trip_id", trip.ID).Str("name", trip.Name).
		Str("scope", string(scope)).Msg("Trip saved")
	return trip, nil
}

// copyName derives a free variant of a taken name: "X (copy)", then
// "X (copy 2)" and so on.
func copyName(ctx context.Context, store Store, name string) (string, error) {
	candidate := name + " (copy)"
	for n := 2; ; n++ {
		_, taken, err := store.FindByName(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s (copy %d)", name, n)
	}
}

// CopyToScope shares a trip by copying it into the other visibility
// scope under a fresh id. The source trip stays where it is. A name
// collision in the target scope goes through the same confirmation as
// Save.
func (s *Service) CopyToScope(ctx context.Context, scope Scope, id string, onConflict ConflictFunc) (types.SavedTrip, error) {
	source, err := s.storeFor(scope)
	if err != nil {
		return types.SavedTrip{}, err
	}
	target, err := s.storeFor(scope.Other())
	if err != nil {
		return types.SavedTrip{}, err
	}

	trip, err := source.Get(ctx, id)
	if err != nil {
		return types.SavedTrip{}, err
	}
	cp := trip.Clone()
	cp.ID = s.newID()
	cp.SavedAt = s.now()

	existing, found, err := target.FindByName(ctx, cp.Name)
	if err != nil {
		return types.SavedTrip{}, err
	}
	if found {
		decision := DecisionAbort
		if onConflict != nil {
			decision = onConflict(existing)
		}
		switch decision {
		case DecisionOverwrite:
			cp.ID = existing.ID
		case DecisionSaveAsCopy:
			cp.Name, err = copyName(ctx, target, cp.Name)
			if err != nil {
				return types.SavedTrip{}, err
			}
		default:
			return types.SavedTrip{}, ErrAborted
		}
	}

	if err := target.Put(ctx, cp); err != nil {
		return types.SavedTrip{}, err
	}
	s.logger.Info().Str("trip_id", cp.ID).
		Str("from", string(scope)).Str("to", string(scope.Other())).
		Msg("Trip copied across scopes")
	return cp, nil
}

// Load returns a saved trip by id.
func (s *Service) Load(ctx context.Context, scope Scope, id string) (types.SavedTrip, error) {
	store, err := s.storeFor(scope)
	if err != nil {
		return types.SavedTrip{}, err
	}
	return store.Get(ctx, id)
}

// Delete removes a saved trip by id.
func (s *Service) Delete(ctx context.Context, scope Scope, id string) error {
	store, err := s.storeFor(scope)
	if err != nil {
		return err
	}
	if err := store.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Str("trip_id", id).Str("scope", string(scope)).Msg("Trip deleted")
	return nil
}

// List returns a scope's saved trips, most recently saved first.
func (s *Service) List(ctx context.Context, scope Scope) ([]types.SavedTrip, error) {
	store, err := s.storeFor(scope)
	if err != nil {
		return nil, err
	}
	out, err := store.List(ctx)
	if err != nil {
		return nil, err
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].SavedAt.Equal(out[j].SavedAt) {
			return out[i].SavedAt.After(out[j].SavedAt)
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

// Search filters the trip list by a case- and accent-insensitive
// substring over trip name, customer name and planner name. An empty
// query returns everything.
func (s *Service) Search(ctx context.Context, scope Scope, query string) ([]types.SavedTrip, error) {
	all, err := s.List(ctx, scope)
	if err != nil {
		return nil, err
	}
	q := place.Fold(query)
	if q == "" {
		return all, nil
	}
	var out []types.SavedTrip
	for _, t := range all {
		if strings.Contains(place.Fold(t.Name), q) ||
			strings.Contains(place.Fold(t.Settings.CustomerName), q) ||
			strings.Contains(place.Fold(t.Settings.PlannerName), q) {
			out = append(out, t)
		}
	}
	return out, nil
}
