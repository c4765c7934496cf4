package types

import "time"

type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type GeocodeResult struct {
	Coordinates
	FormattedAddress string `json:"formatted_address"`
}

// DayTime is one end of an opening period; Time is "HHMM" in venue local time.
type DayTime struct {
	Day  time.Weekday `json:"day"`
	Time string       `json:"time"`
}

type OpeningPeriod struct {
	Open  *DayTime `json:"open,omitempty"`
	Close *DayTime `json:"close,omitempty"`
}

type OpeningHours struct {
	OpenNow *bool           `json:"open_now,omitempty"`
	Periods []OpeningPeriod `json:"periods,omitempty"`
}

// Venue is a point of interest returned by the nearby search. Read-only inside the pipeline.
type Venue struct {
	ID           string        `json:"id"`
	Name         string        `json:"name"`
	Address      string        `json:"address"`
	Types        []string      `json:"types"`
	Location     Coordinates   `json:"location"`
	Rating       *float64      `json:"rating,omitempty"`
	PriceLevel   *int          `json:"price_level,omitempty"`
	OpeningHours *OpeningHours `json:"opening_hours,omitempty"`
	Website      string        `json:"website,omitempty"`
	// UTCOffsetMinutes is the venue's current offset from UTC, when place details supplied it.
	UTCOffsetMinutes *int `json:"utc_offset_minutes,omitempty"`
}

// LocalTime converts t to the venue's wall clock. Without a known offset t is returned as is.
func (v Venue) LocalTime(t time.Time) time.Time {
	if v.UTCOffsetMinutes == nil {
		return t
	}
	return t.In(time.FixedZone("", *v.UTCOffsetMinutes*60))
}

// HasAnyType reports whether the venue carries at least one of the given category tags.
func (v Venue) HasAnyType(tags ...string) bool {
	for _, t := range v.Types {
		for _, want := range tags {
			if t == want {
				return true
			}
		}
	}
	return false
}

type NearbySearchRequest struct {
	Location     Coordinates `json:"location"`
	RadiusMeters uint        `json:"radius_meters"`
	Type         string      `json:"type"`
	MaxPrice     int         `json:"max_price,omitempty"`
}

type PlaceSuggestion struct {
	Description string `json:"description"`
	PlaceID     string `json:"place_id"`
}
