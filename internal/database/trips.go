package database

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/stellartravel/itinerary-service/internal/trips"
	"github.com/stellartravel/itinerary-service/internal/types"
)

// TripStore is the Postgres-backed trips.Store implementation for one
// visibility scope. The settings, rows and custom columns travel as one
// JSONB payload; only the fields the service filters or sorts on are
// real columns.
type TripStore struct {
	db    *pgxpool.Pool
	scope trips.Scope
}

func NewTripStore(db *pgxpool.Pool, scope trips.Scope) *TripStore {
	return &TripStore{db: db, scope: scope}
}

var _ trips.Store = (*TripStore)(nil)

type tripPayload struct {
	Settings      types.TripSettings   `json:"settings"`
	Rows          []types.DayRow       `json:"rows"`
	CustomColumns []types.CustomColumn `json:"customColumns,omitempty"`
}

func (s *TripStore) List(ctx context.Context) ([]types.SavedTrip, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, name, saved_at, payload, created_by, last_modified_by
		FROM saved_trips WHERE scope = $1
		ORDER BY saved_at DESC
	`, string(s.scope))
	if err != nil {
		return nil, fmt.Errorf("list trips: %w", err)
	}
	defer rows.Close()

	var out []types.SavedTrip
	for rows.Next() {
		trip, err := scanTrip(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, trip)
	}
	return out, rows.Err()
}

func (s *TripStore) Get(ctx context.Context, id string) (types.SavedTrip, error) {
	row := s.db.QueryRow(ctx, `
		SELECT id, name, saved_at, payload, created_by, last_modified_by
		FROM saved_trips WHERE scope = $1 AND id = $2
	`, string(s.scope), id)
	trip, err := scanTrip(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return types.SavedTrip{}, fmt.Errorf("%w: %s", trips.ErrNotFound, id)
	}
	return trip, err
}

func (s *TripStore) FindByName(ctx context.Context, name string) (types.SavedTrip, bool, error) {
	row := s.db.QueryRow(ctx, `
		SELECT id, name, saved_at, payload, created_by, last_modified_by
		FROM saved_trips WHERE scope = $1 AND name = $2
	`, string(s.scope), name)
	trip, err := scanTrip(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return types.SavedTrip{}, false, nil
	}
	if err != nil {
		return types.SavedTrip{}, false, err
	}
	return trip, true, nil
}

func (s *TripStore) Put(ctx context.Context, trip types.SavedTrip) error {
	payload, err := json.Marshal(tripPayload{
		Settings:      trip.Settings,
		Rows:          trip.Rows,
		CustomColumns: trip.CustomColumns,
	})
	if err != nil {
		return fmt.Errorf("marshal trip payload: %w", err)
	}

	_, err = s.db.Exec(ctx, `
		INSERT INTO saved_trips (id, scope, name, saved_at, payload, created_by, last_modified_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE SET
			scope = EXCLUDED.scope,
			name = EXCLUDED.name,
			saved_at = EXCLUDED.saved_at,
			payload = EXCLUDED.payload,
			last_modified_by = EXCLUDED.last_modified_by
	`, trip.ID, string(s.scope), trip.Name, trip.SavedAt, payload, trip.CreatedBy, trip.LastModifiedBy)
	if err != nil {
		return fmt.Errorf("put trip: %w", err)
	}
	return nil
}

func (s *TripStore) Delete(ctx context.Context, id string) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM saved_trips WHERE scope = $1 AND id = $2`, string(s.scope), id)
	if err != nil {
		return fmt.Errorf("delete trip: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", trips.ErrNotFound, id)
	}
	return nil
}

func scanTrip(row pgx.Row) (types.SavedTrip, error) {
	var trip types.SavedTrip
	var payload []byte
	if err := row.Scan(&trip.ID, &trip.Name, &trip.SavedAt, &payload, &trip.CreatedBy, &trip.LastModifiedBy); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return types.SavedTrip{}, err
		}
		return types.SavedTrip{}, fmt.Errorf("scan trip: %w", err)
	}

	var p tripPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return types.SavedTrip{}, fmt.Errorf("decode trip payload: %w", err)
	}
	trip.Settings = p.Settings
	trip.Rows = p.Rows
	trip.CustomColumns = p.CustomColumns
	return trip, nil
}
