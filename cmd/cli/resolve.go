package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/stellartravel/itinerary-service/internal/database"
	"github.com/stellartravel/itinerary-service/internal/resolver"
	"github.com/stellartravel/itinerary-service/internal/types"
)

var (
	resolveRoute        string
	resolveHotel        string
	resolveRoomType     string
	resolveCarModel     string
	resolveTickets      []string
	resolveActivities   []string
	resolvePeople       int
	resolveRooms        int
	resolveDestinations []string
)

var resolveCmd = &cobra.Command{
	Use:   "resolve",
	Short: "Resolve one day row's costs against the catalog",
	Long: `Builds a single day row from the flags, resolves its hotel, ticket,
activity and transport costs against the catalog and prints the
resolved row plus the match report as JSON.`,
	RunE: runResolve,
}

func init() {
	resolveCmd.Flags().StringVar(&resolveRoute, "route", "", "day route, e.g. \"Tokyo-Hakone\"")
	resolveCmd.Flags().StringVar(&resolveHotel, "hotel", "", "hotel name")
	resolveCmd.Flags().StringVar(&resolveRoomType, "room-type", "", "preferred room type")
	resolveCmd.Flags().StringVar(&resolveCarModel, "car-model", "", "transport car model")
	resolveCmd.Flags().StringSliceVar(&resolveTickets, "ticket", nil, "ticket name (repeatable)")
	resolveCmd.Flags().StringSliceVar(&resolveActivities, "activity", nil, "activity name (repeatable)")
	resolveCmd.Flags().IntVar(&resolvePeople, "people", 1, "traveller count")
	resolveCmd.Flags().IntVar(&resolveRooms, "rooms", 1, "room count")
	resolveCmd.Flags().StringSliceVar(&resolveDestinations, "destination", nil, "destination country (repeatable)")
	rootCmd.AddCommand(resolveCmd)
}

func runResolve(cmd *cobra.Command, args []string) error {
	store := database.NewCatalogStore(database.Pool())
	snap, err := store.Snapshot(context.Background())
	if err != nil {
		return fmt.Errorf("load catalog: %w", err)
	}

	row := types.DayRow{
		DayIndex:      1,
		Route:         resolveRoute,
		HotelName:     resolveHotel,
		HotelRoomType: resolveRoomType,
		CarModel:      resolveCarModel,
		TicketNames:   resolveTickets,
		ActivityNames: resolveActivities,
		Rooms:         resolveRooms,
	}
	settings := types.TripSettings{
		PeopleCount:  resolvePeople,
		RoomCount:    resolveRooms,
		Destinations: resolveDestinations,
	}

	resolved, match := resolver.New().ResolveRow(row, settings, snap)

	out := struct {
		Row   types.DayRow      `json:"row"`
		Match resolver.RowMatch `json:"match"`
		Total float64           `json:"total"`
	}{resolved, match, resolved.Total()}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
