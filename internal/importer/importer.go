// Package importer loads catalog entries from an Excel workbook with
// one sheet per resource type.
package importer

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/xuri/excelize/v2"
	"golang.org/x/sync/errgroup"

	"github.com/stellartravel/itinerary-service/internal/catalog"
	"github.com/stellartravel/itinerary-service/internal/types"
)

// Sheet names the importer looks for. Missing sheets are skipped.
const (
	SheetCities     = "Cities"
	SheetHotels     = "Hotels"
	SheetSpots      = "Spots"
	SheetActivities = "Activities"
	SheetTransport  = "Transport"
)

// RowError records a data problem on one workbook row. The import keeps
// going; the caller decides what to do with the report.
type RowError struct {
	Sheet   string `json:"sheet"`
	Row     int    `json:"row"`
	Message string `json:"message"`
}

// Result summarizes an import run.
type Result struct {
	Cities     int        `json:"cities"`
	Hotels     int        `json:"hotels"`
	Spots      int        `json:"spots"`
	Activities int        `json:"activities"`
	Transport  int        `json:"transport"`
	Errors     []RowError `json:"errors,omitempty"`
}

// Importer writes workbook contents through the catalog store.
type Importer struct {
	logger zerolog.Logger
	store  catalog.Store
}

func New(store catalog.Store) *Importer {
	return &Importer{
		logger: log.With().Str("component", "catalog_importer").Logger(),
		store:  store,
	}
}

// ImportWorkbook reads an xlsx workbook and creates catalog entries.
// The Cities sheet is imported first so the other sheets can reference
// cities by name; already-known cities are reused, not duplicated.
// Rows with unparsable data are reported in the result and skipped.
func (im *Importer) ImportWorkbook(ctx context.Context, content []byte, defaultCountry string) (*Result, error) {
	f, err := excelize.OpenReader(bytes.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	result := &Result{}
	var mu sync.Mutex

	addError := func(sheet string, row int, msg string) {
		mu.Lock()
		result.Errors = append(result.Errors, RowError{Sheet: sheet, Row: row, Message: msg})
		mu.Unlock()
	}

	cityIDs, err := im.importCities(ctx, f, defaultCountry, result, addError)
	if err != nil {
		return nil, err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		n, err := im.importHotels(gctx, f, cityIDs, addError)
		mu.Lock()
		result.Hotels = n
		mu.Unlock()
		return err
	})
	g.Go(func() error {
		n, err := im.importSpots(gctx, f, cityIDs, addError)
		mu.Lock()
		result.Spots = n
		mu.Unlock()
		return err
	})
	g.Go(func() error {
		n, err := im.importActivities(gctx, f, cityIDs, addError)
		mu.Lock()
		result.Activities = n
		mu.Unlock()
		return err
	})
	g.Go(func() error {
		n, err := im.importTransport(gctx, f, addError)
		mu.Lock()
		result.Transport = n
		mu.Unlock()
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	im.logger.Info().
		Int("cities", result.Cities).
		Int("hotels", result.Hotels).
		Int("spots", result.Spots).
		Int("activities", result.Activities).
		Int("transport", result.Transport).
		Int("errors", len(result.Errors)).
		Msg("Workbook import complete")
	return result, nil
}

// importCities returns a "country|name" keyed map of city ids covering
// both pre-existing and newly created cities.
func (im *Importer) importCities(ctx context.Context, f *excelize.File, defaultCountry string, result *Result, addError func(string, int, string)) (map[string]string, error) {
	existing, err := im.store.ListCities(ctx, "")
	if err != nil {
		return nil, err
	}
	cityIDs := make(map[string]string, len(existing))
	for _, c := range existing {
		cityIDs[cityKey(c.Country, c.Name)] = c.ID
	}

	rows, ok := sheetRows(f, SheetCities)
	if !ok {
		return cityIDs, nil
	}
	for i, row := range rows {
		if i == 0 || isEmptyRow(row) {
			continue
		}
		rowNum := i + 1
		country := cell(row, 0)
		name := cell(row, 1)
		if country == "" {
			country = defaultCountry
		}
		if country == "" || name == "" {
			addError(SheetCities, rowNum, "country and city name are required")
			continue
		}
		if _, exists := cityIDs[cityKey(country, name)]; exists {
			continue
		}
		created, err := im.store.CreateCity(ctx, types.City{Country: country, Name: name})
		if err != nil {
			addError(SheetCities, rowNum, err.Error())
			continue
		}
		cityIDs[cityKey(country, name)] = created.ID
		result.Cities++
	}
	return cityIDs, nil
}

func (im *Importer) importHotels(ctx context.Context, f *excelize.File, cityIDs map[string]string, addError func(string, int, string)) (int, error) {
	rows, ok := sheetRows(f, SheetHotels)
	if !ok {
		return 0, nil
	}
	count := 0
	for i, row := range rows {
		if i == 0 || isEmptyRow(row) {
			continue
		}
		rowNum := i + 1
		cityID, ok := lookupCity(cityIDs, cell(row, 0), cell(row, 1))
		if !ok {
			addError(SheetHotels, rowNum, fmt.Sprintf("unknown city %q", cell(row, 1)))
			continue
		}
		price, err := parsePrice(cell(row, 4))
		if err != nil {
			addError(SheetHotels, rowNum, "invalid price value")
			continue
		}
		_, err = im.store.CreateHotel(ctx, types.Hotel{
			CityID:   cityID,
			Name:     cell(row, 2),
			RoomType: cell(row, 3),
			Price:    price,
		})
		if err != nil {
			addError(SheetHotels, rowNum, err.Error())
			continue
		}
		count++
	}
	return count, nil
}

func (im *Importer) importSpots(ctx context.Context, f *excelize.File, cityIDs map[string]string, addError func(string, int, string)) (int, error) {
	rows, ok := sheetRows(f, SheetSpots)
	if !ok {
		return 0, nil
	}
	count := 0
	for i, row := range rows {
		if i == 0 || isEmptyRow(row) {
			continue
		}
		rowNum := i + 1
		cityID, ok := lookupCity(cityIDs, cell(row, 0), cell(row, 1))
		if !ok {
			addError(SheetSpots, rowNum, fmt.Sprintf("unknown city %q", cell(row, 1)))
			continue
		}
		price, err := parsePrice(cell(row, 3))
		if err != nil {
			addError(SheetSpots, rowNum, "invalid price value")
			continue
		}
		_, err = im.store.CreateSpot(ctx, types.Spot{CityID: cityID, Name: cell(row, 2), Price: price})
		if err != nil {
			addError(SheetSpots, rowNum, err.Error())
			continue
		}
		count++
	}
	return count, nil
}

func (im *Importer) importActivities(ctx context.Context, f *excelize.File, cityIDs map[string]string, addError func(string, int, string)) (int, error) {
	rows, ok := sheetRows(f, SheetActivities)
	if !ok {
		return 0, nil
	}
	count := 0
	for i, row := range rows {
		if i == 0 || isEmptyRow(row) {
			continue
		}
		rowNum := i + 1
		cityID, ok := lookupCity(cityIDs, cell(row, 0), cell(row, 1))
		if !ok {
			addError(SheetActivities, rowNum, fmt.Sprintf("unknown city %q", cell(row, 1)))
			continue
		}
		price, err := parsePrice(cell(row, 3))
		if err != nil {
			addError(SheetActivities, rowNum, "invalid price value")
			continue
		}
		_, err = im.store.CreateActivity(ctx, types.Activity{CityID: cityID, Name: cell(row, 2), Price: price})
		if err != nil {
			addError(SheetActivities, rowNum, err.Error())
			continue
		}
		count++
	}
	return count, nil
}

func (im *Importer) importTransport(ctx context.Context, f *excelize.File, addError func(string, int, string)) (int, error) {
	rows, ok := sheetRows(f, SheetTransport)
	if !ok {
		return 0, nil
	}
	count := 0
	for i, row := range rows {
		if i == 0 || isEmptyRow(row) {
			continue
		}
		rowNum := i + 1
		region := cell(row, 0)
		carModel := cell(row, 1)
		if region == "" || carModel == "" {
			addError(SheetTransport, rowNum, "region and car model are required")
			continue
		}
		passengers, _ := strconv.Atoi(cell(row, 3))
		priceLow, err := parsePrice(cell(row, 4))
		if err != nil {
			addError(SheetTransport, rowNum, "invalid low price value")
			continue
		}
		priceHigh, err := parsePrice(cell(row, 5))
		if err != nil {
			priceHigh = priceLow
		}
		_, err = im.store.CreateTransport(ctx, types.TransportRate{
			Region:      region,
			CarModel:    carModel,
			ServiceType: cell(row, 2),
			Passengers:  passengers,
			PriceLow:    priceLow,
			PriceHigh:   priceHigh,
		})
		if err != nil {
			addError(SheetTransport, rowNum, err.Error())
			continue
		}
		count++
	}
	return count, nil
}

func sheetRows(f *excelize.File, name string) ([][]string, bool) {
	for _, s := range f.GetSheetList() {
		if strings.EqualFold(s, name) {
			rows, err := f.GetRows(s)
			if err != nil {
				return nil, false
			}
			return rows, true
		}
	}
	return nil, false
}

func lookupCity(cityIDs map[string]string, country, name string) (string, bool) {
	if name == "" {
		return "", false
	}
	if country != "" {
		id, ok := cityIDs[cityKey(country, name)]
		return id, ok
	}
	// No country column value: match on name across all countries.
	for key, id := range cityIDs {
		if strings.HasSuffix(key, "|"+name) {
			return id, true
		}
	}
	return "", false
}

func cityKey(country, name string) string {
	return country + "|" + name
}

func cell(row []string, idx int) string {
	if idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func isEmptyRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// parsePrice accepts "12.99", "12,99" and "1.299,00" style values.
func parsePrice(value string) (float64, error) {
	if value == "" {
		return 0, fmt.Errorf("empty price value")
	}

	cleaned := strings.Map(func(r rune) rune {
		switch r {
		case '€', '$', '£', ' ':
			return -1
		}
		return r
	}, value)

	lastDot := strings.LastIndex(cleaned, ".")
	lastComma := strings.LastIndex(cleaned, ",")
	if lastComma > lastDot {
		cleaned = strings.ReplaceAll(cleaned, ".", "")
		cleaned = strings.Replace(cleaned, ",", ".", 1)
	} else if lastDot > lastComma {
		cleaned = strings.ReplaceAll(cleaned, ",", "")
	}

	return strconv.ParseFloat(cleaned, 64)
}
