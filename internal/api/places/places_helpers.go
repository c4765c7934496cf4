package places

import (
	"math"
	"strconv"
	"strings"

	"googlemaps.github.io/maps"

	"github.com/FACorreiaa/go-date-ideas/internal/types"
)

const (
	metersPerMile = 1609.34
	// Nearby Search rejects radii above 50 km.
	maxRadiusMeters = 50000
)

// PriceTierForBudget maps a budget upper bound onto the 1..4 price scale.
// A zero budget means "no price filter" and returns 0.
func PriceTierForBudget(budget float64) int {
	switch {
	case budget <= 0:
		return 0
	case budget < 30:
		return 1
	case budget < 60:
		return 2
	case budget < 100:
		return 3
	default:
		return 4
	}
}

func MilesToMeters(miles float64) uint {
	if miles <= 0 {
		return 0
	}
	m := math.Round(miles * metersPerMile)
	switch {
	case m < 1:
		// Nearby Search treats a zero radius as missing.
		return 1
	case m > maxRadiusMeters:
		return maxRadiusMeters
	}
	return uint(m)
}

func priceLevel(tier int) maps.PriceLevel {
	return maps.PriceLevel(strconv.Itoa(tier))
}

func normaliseAddress(address string) string {
	return strings.Join(strings.Fields(strings.ToLower(address)), " ")
}

func toVenue(place maps.PlacesSearchResult, details *maps.PlaceDetailsResult) types.Venue {
	v := types.Venue{
		ID:      place.PlaceID,
		Name:    place.Name,
		Address: place.Vicinity,
		Types:   append([]string(nil), place.Types...),
		Location: types.Coordinates{
			Lat: place.Geometry.Location.Lat,
			Lng: place.Geometry.Location.Lng,
		},
		OpeningHours: toOpeningHours(place.OpeningHours),
	}
	if v.Address == "" {
		v.Address = place.FormattedAddress
	}
	if place.Rating > 0 {
		r := math.Round(float64(place.Rating)*10) / 10
		v.Rating = &r
	}
	if place.PriceLevel > 0 {
		p := place.PriceLevel
		v.PriceLevel = &p
	}
	if details != nil {
		v.Website = details.Website
		if details.UTCOffset != nil {
			offset := *details.UTCOffset
			v.UTCOffsetMinutes = &offset
		}
		if v.Address == "" {
			v.Address = details.FormattedAddress
		}
		if hours := toOpeningHours(details.OpeningHours); hours != nil && len(hours.Periods) > 0 {
			v.OpeningHours = hours
		}
	}
	return v
}

func toOpeningHours(h *maps.OpeningHours) *types.OpeningHours {
	if h == nil {
		return nil
	}
	out := &types.OpeningHours{OpenNow: h.OpenNow}
	for _, p := range h.Periods {
		out.Periods = append(out.Periods, types.OpeningPeriod{
			Open:  toDayTime(p.Open),
			Close: toDayTime(p.Close),
		})
	}
	return out
}

// A period without a close time (open 24h) comes back as a zero value.
func toDayTime(oc maps.OpeningHoursOpenClose) *types.DayTime {
	if oc.Time == "" {
		return nil
	}
	return &types.DayTime{Day: oc.Day, Time: oc.Time}
}
