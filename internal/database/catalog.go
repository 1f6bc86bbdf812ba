package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/stellartravel/itinerary-service/internal/catalog"
	"github.com/stellartravel/itinerary-service/internal/pkg/entid"
	"github.com/stellartravel/itinerary-service/internal/types"
)

// CatalogStore is the Postgres-backed catalog.Store implementation.
type CatalogStore struct {
	db *pgxpool.Pool
}

func NewCatalogStore(db *pgxpool.Pool) *CatalogStore {
	return &CatalogStore{db: db}
}

var _ catalog.Store = (*CatalogStore)(nil)

func (s *CatalogStore) ListCities(ctx context.Context, country string) ([]types.City, error) {
	query := `SELECT id, country, name, is_public FROM cities`
	args := []any{}
	if country != "" {
		query += ` WHERE country = $1`
		args = append(args, country)
	}
	query += ` ORDER BY country, name`

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list cities: %w", err)
	}
	defer rows.Close()

	var out []types.City
	for rows.Next() {
		var c types.City
		if err := rows.Scan(&c.ID, &c.Country, &c.Name, &c.IsPublic); err != nil {
			return nil, fmt.Errorf("scan city: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *CatalogStore) ListSpots(ctx context.Context, cityID string) ([]types.Spot, error) {
	query := `SELECT id, city_id, name, price, is_public FROM spots`
	args := []any{}
	if cityID != "" {
		query += ` WHERE city_id = $1`
		args = append(args, cityID)
	}
	query += ` ORDER BY name`

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list spots: %w", err)
	}
	defer rows.Close()

	var out []types.Spot
	for rows.Next() {
		var sp types.Spot
		if err := rows.Scan(&sp.ID, &sp.CityID, &sp.Name, &sp.Price, &sp.IsPublic); err != nil {
			return nil, fmt.Errorf("scan spot: %w", err)
		}
		out = append(out, sp)
	}
	return out, rows.Err()
}

func (s *CatalogStore) ListHotels(ctx context.Context, cityID string) ([]types.Hotel, error) {
	query := `SELECT id, city_id, name, room_type, price, is_public FROM hotels`
	args := []any{}
	if cityID != "" {
		query += ` WHERE city_id = $1`
		args = append(args, cityID)
	}
	query += ` ORDER BY name, room_type`

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list hotels: %w", err)
	}
	defer rows.Close()

	var out []types.Hotel
	for rows.Next() {
		var h types.Hotel
		if err := rows.Scan(&h.ID, &h.CityID, &h.Name, &h.RoomType, &h.Price, &h.IsPublic); err != nil {
			return nil, fmt.Errorf("scan hotel: %w", err)
		}
		out = append(out, h)
	}
	return out, rows.Err()
}

func (s *CatalogStore) ListActivities(ctx context.Context, cityID string) ([]types.Activity, error) {
	query := `SELECT id, city_id, name, price, is_public FROM activities`
	args := []any{}
	if cityID != "" {
		query += ` WHERE city_id = $1`
		args = append(args, cityID)
	}
	query += ` ORDER BY name`

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list activities: %w", err)
	}
	defer rows.Close()

	var out []types.Activity
	for rows.Next() {
		var a types.Activity
		if err := rows.Scan(&a.ID, &a.CityID, &a.Name, &a.Price, &a.IsPublic); err != nil {
			return nil, fmt.Errorf("scan activity: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (s *CatalogStore) ListTransports(ctx context.Context, region string) ([]types.TransportRate, error) {
	query := `SELECT id, region, car_model, service_type, passengers, price_low, price_high, is_public FROM transport_rates`
	args := []any{}
	if region != "" {
		query += ` WHERE region = $1`
		args = append(args, region)
	}
	query += ` ORDER BY region, car_model`

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list transport rates: %w", err)
	}
	defer rows.Close()

	var out []types.TransportRate
	for rows.Next() {
		var t types.TransportRate
		if err := rows.Scan(&t.ID, &t.Region, &t.CarModel, &t.ServiceType, &t.Passengers, &t.PriceLow, &t.PriceHigh, &t.IsPublic); err != nil {
			return nil, fmt.Errorf("scan transport rate: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (s *CatalogStore) CreateCity(ctx context.Context, c types.City) (types.City, error) {
	if c.ID == "" {
		c.ID = entid.New(entid.PrefixCity)
	}
	_, err := s.db.Exec(ctx, `
		INSERT INTO cities (id, country, name, is_public)
		VALUES ($1, $2, $3, $4)
	`, c.ID, c.Country, c.Name, c.IsPublic)
	if err != nil {
		return types.City{}, fmt.Errorf("create city: %w", err)
	}
	return c, nil
}

func (s *CatalogStore) UpdateCityName(ctx context.Context, id, name string) (types.City, error) {
	var c types.City
	err := s.db.QueryRow(ctx, `
		UPDATE cities SET name = $2 WHERE id = $1
		RETURNING id, country, name, is_public
	`, id, name).Scan(&c.ID, &c.Country, &c.Name, &c.IsPublic)
	if errors.Is(err, pgx.ErrNoRows) {
		return types.City{}, fmt.Errorf("%w: city %s", catalog.ErrNotFound, id)
	}
	if err != nil {
		return types.City{}, fmt.Errorf("update city name: %w", err)
	}
	return c, nil
}

func (s *CatalogStore) cityExists(ctx context.Context, id string) error {
	var exists bool
	err := s.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM cities WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return fmt.Errorf("check city: %w", err)
	}
	if !exists {
		return fmt.Errorf("%w: city %s", catalog.ErrMissingCity, id)
	}
	return nil
}

func (s *CatalogStore) CreateSpot(ctx context.Context, sp types.Spot) (types.Spot, error) {
	if err := s.cityExists(ctx, sp.CityID); err != nil {
		return types.Spot{}, err
	}
	if sp.ID == "" {
		sp.ID = entid.New(entid.PrefixSpot)
	}
	_, err := s.db.Exec(ctx, `
		INSERT INTO spots (id, city_id, name, price, is_public)
		VALUES ($1, $2, $3, $4, $5)
	`, sp.ID, sp.CityID, sp.Name, sp.Price, sp.IsPublic)
	if err != nil {
		return types.Spot{}, fmt.Errorf("create spot: %w", err)
	}
	return sp, nil
}

func (s *CatalogStore) CreateHotel(ctx context.Context, h types.Hotel) (types.Hotel, error) {
	if err := s.cityExists(ctx, h.CityID); err != nil {
		return types.Hotel{}, err
	}
	if h.ID == "" {
		h.ID = entid.New(entid.PrefixHotel)
	}
	_, err := s.db.Exec(ctx, `
		INSERT INTO hotels (id, city_id, name, room_type, price, is_public)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, h.ID, h.CityID, h.Name, h.RoomType, h.Price, h.IsPublic)
	if err != nil {
		return types.Hotel{}, fmt.Errorf("create hotel: %w", err)
	}
	return h, nil
}

func (s *CatalogStore) CreateActivity(ctx context.Context, a types.Activity) (types.Activity, error) {
	if err := s.cityExists(ctx, a.CityID); err != nil {
		return types.Activity{}, err
	}
	if a.ID == "" {
		a.ID = entid.New(entid.PrefixActivity)
	}
	_, err := s.db.Exec(ctx, `
		INSERT INTO activities (id, city_id, name, price, is_public)
		VALUES ($1, $2, $3, $4, $5)
	`, a.ID, a.CityID, a.Name, a.Price, a.IsPublic)
	if err != nil {
		return types.Activity{}, fmt.Errorf("create activity: %w", err)
	}
	return a, nil
}

func (s *CatalogStore) CreateTransport(ctx context.Context, t types.TransportRate) (types.TransportRate, error) {
	if t.ID == "" {
		t.ID = entid.New(entid.PrefixTransport)
	}
	_, err := s.db.Exec(ctx, `
		INSERT INTO transport_rates (id, region, car_model, service_type, passengers, price_low, price_high, is_public)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, t.ID, t.Region, t.CarModel, t.ServiceType, t.Passengers, t.PriceLow, t.PriceHigh, t.IsPublic)
	if err != nil {
		return types.TransportRate{}, fmt.Errorf("create transport rate: %w", err)
	}
	return t, nil
}

func (s *CatalogStore) Snapshot(ctx context.Context) (catalog.Snapshot, error) {
	var snap catalog.Snapshot
	var err error

	if snap.Cities, err = s.ListCities(ctx, ""); err != nil {
		return catalog.Snapshot{}, err
	}
	if snap.Spots, err = s.ListSpots(ctx, ""); err != nil {
		return catalog.Snapshot{}, err
	}
	if snap.Hotels, err = s.ListHotels(ctx, ""); err != nil {
		return catalog.Snapshot{}, err
	}
	if snap.Activities, err = s.ListActivities(ctx, ""); err != nil {
		return catalog.Snapshot{}, err
	}
	if snap.Transport, err = s.ListTransports(ctx, ""); err != nil {
		return catalog.Snapshot{}, err
	}
	return snap, nil
}
