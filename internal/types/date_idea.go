package types

import (
	"time"

	"github.com/google/uuid"
)

type VenueLink struct {
	Name string `json:"name"`
	URL  string `json:"url"`
	Type string `json:"type"`
}

type MapLocation struct {
	Name string  `json:"name"`
	Lat  float64 `json:"lat"`
	Lng  float64 `json:"lng"`
}

// DateIdea is produced once per successful generation and never mutated afterwards.
type DateIdea struct {
	ID           string        `json:"id"`
	Title        string        `json:"title"`
	Description  string        `json:"description"`
	Budget       string        `json:"budget"`
	Duration     string        `json:"duration"`
	DressCode    string        `json:"dress_code"`
	Location     string        `json:"location"`
	Activities   []string      `json:"activities"`
	FoodSpots    []string      `json:"food_spots,omitempty"`
	VenueLinks   []VenueLink   `json:"venue_links,omitempty"`
	MapLocations []MapLocation `json:"map_locations,omitempty"`
}

type GenerationResult struct {
	Ideas    []DateIdea  `json:"ideas"`
	Origin   Coordinates `json:"origin"`
	Warnings []string    `json:"warnings,omitempty"`
}

// SavedDateIdea is the persisted copy of a DateIdea plus the owner's review fields.
type SavedDateIdea struct {
	ID           uuid.UUID     `json:"id"`
	UserID       uuid.UUID     `json:"user_id"`
	Title        string        `json:"title"`
	Description  string        `json:"description"`
	Budget       string        `json:"budget"`
	Duration     string        `json:"duration"`
	Location     string        `json:"location"`
	DressCode    string        `json:"dress_code"`
	Activities   []string      `json:"activities"`
	FoodSpots    []string      `json:"food_spots,omitempty"`
	VenueLinks   []VenueLink   `json:"venue_links,omitempty"`
	MapLocations []MapLocation `json:"map_locations,omitempty"`
	DateWent     *time.Time    `json:"date_went,omitempty"`
	Rating       *int          `json:"rating,omitempty"`
	JournalEntry *string       `json:"journal_entry,omitempty"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
}

type SaveDateIdeaRequest struct {
	Title        string        `json:"title"`
	Description  string        `json:"description"`
	Budget       string        `json:"budget"`
	Duration     string        `json:"duration"`
	Location     string        `json:"location"`
	DressCode    string        `json:"dress_code"`
	Activities   []string      `json:"activities"`
	FoodSpots    []string      `json:"food_spots,omitempty"`
	VenueLinks   []VenueLink   `json:"venue_links,omitempty"`
	MapLocations []MapLocation `json:"map_locations,omitempty"`
}

// UpdateReviewParams uses pointers for partial updates; nil leaves the column untouched.
type UpdateReviewParams struct {
	DateWent     *time.Time `json:"date_went,omitempty"`
	Rating       *int       `json:"rating,omitempty"`
	JournalEntry *string    `json:"journal_entry,omitempty"`
}

func (p UpdateReviewParams) Empty() bool {
	return p.DateWent == nil && p.Rating == nil && p.JournalEntry == nil
}

type CalendarLinkResponse struct {
	URL string `json:"url"`
}
