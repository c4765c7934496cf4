package dateGeneration

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/FACorreiaa/go-date-ideas/internal/types"
)

const maxIdeasPerRun = 4

var ErrUnparseableSelection = errors.New("selection response is not valid JSON")

// IdeaSelection is one validated group of venue indices into the filtered venue list.
type IdeaSelection struct {
	VenueIndices []int  `json:"venueIndices"`
	Theme        string `json:"theme"`
}

type rawIdea struct {
	VenueIndices json.RawMessage `json:"venueIndices"`
	Theme        string          `json:"theme"`
}

type selectionResponse struct {
	DateIdeas []rawIdea `json:"dateIdeas"`
}

// SelectionSource says where the final selection came from.
type SelectionSource string

const (
	SelectionFromModel    SelectionSource = "model"
	SelectionFromFallback SelectionSource = "fallback"
)

// RequiredActivities is the number of venues per idea for a duration. Full-day ideas
// accept one extra venue.
func RequiredActivities(d types.Duration) (minCount, maxCount int) {
	switch d {
	case types.DurationQuick:
		return 1, 1
	case types.DurationEvening:
		return 2, 2
	case types.DurationHalfDay:
		return 3, 3
	case types.DurationFullDay:
		return 4, 5
	}
	return 2, 2
}

// DesiredIdeaCount is min(4, n/required), never below 1 when there are venues.
func DesiredIdeaCount(venueCount, required int) int {
	if venueCount <= 0 {
		return 0
	}
	if required <= 0 {
		required = 1
	}
	n := venueCount / required
	if n > maxIdeasPerRun {
		n = maxIdeasPerRun
	}
	if n < 1 {
		n = 1
	}
	return n
}

// ParseSelection decodes the model output. A call error and an unparseable body are both
// reported as errors so the caller can fall back; it never panics on model output.
func ParseSelection(raw string, callErr error) ([]rawIdea, error) {
	if callErr != nil {
		return nil, callErr
	}
	var resp selectionResponse
	if err := json.Unmarshal([]byte(cleanJSONResponse(raw)), &resp); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnparseableSelection, err)
	}
	return resp.DateIdeas, nil
}

// ValidateSelection keeps, in the model's order, only ideas whose index list is a non-empty
// array of in-range, distinct indices of the required size that no earlier accepted idea
// has claimed. At most limit ideas are kept.
func ValidateSelection(ideas []rawIdea, venueCount int, duration types.Duration, limit int) []IdeaSelection {
	minCount, maxCount := RequiredActivities(duration)
	used := make(map[int]struct{})
	accepted := make([]IdeaSelection, 0, len(ideas))

	for _, idea := range ideas {
		if limit > 0 && len(accepted) >= limit {
			break
		}
		indices, ok := decodeIndices(idea.VenueIndices)
		if !ok || len(indices) == 0 {
			continue
		}
		if len(indices) < minCount || len(indices) > maxCount {
			continue
		}
		if !indicesValid(indices, venueCount, used) {
			continue
		}
		for _, idx := range indices {
			used[idx] = struct{}{}
		}
		accepted = append(accepted, IdeaSelection{VenueIndices: indices, Theme: idea.Theme})
	}
	return accepted
}

func decodeIndices(raw json.RawMessage) ([]int, bool) {
	if len(raw) == 0 {
		return nil, false
	}
	var indices []int
	if err := json.Unmarshal(raw, &indices); err != nil {
		return nil, false
	}
	return indices, indices != nil
}

func indicesValid(indices []int, venueCount int, used map[int]struct{}) bool {
	seen := make(map[int]struct{}, len(indices))
	for _, idx := range indices {
		if idx < 0 || idx >= venueCount {
			return false
		}
		if _, dup := seen[idx]; dup {
			return false
		}
		if _, taken := used[idx]; taken {
			return false
		}
		seen[idx] = struct{}{}
	}
	return true
}

// FallbackSelection is the static two-idea selection over venues 0-1 and 2-3, trimmed to
// the venues that exist.
func FallbackSelection(venueCount int) []IdeaSelection {
	groups := [][]int{{0, 1}, {2, 3}}
	themes := []string{"Classic Date", "Something Different"}
	out := make([]IdeaSelection, 0, len(groups))
	for i, g := range groups {
		var indices []int
		for _, idx := range g {
			if idx < venueCount {
				indices = append(indices, idx)
			}
		}
		if len(indices) > 0 {
			out = append(out, IdeaSelection{VenueIndices: indices, Theme: themes[i]})
		}
	}
	return out
}

// ResolveSelection turns one model outcome (valid, invalid, or failed call) into the
// selection the pipeline uses.
func ResolveSelection(raw string, callErr error, venueCount int, duration types.Duration) ([]IdeaSelection, SelectionSource, error) {
	ideas, err := ParseSelection(raw, callErr)
	if err != nil {
		return FallbackSelection(venueCount), SelectionFromFallback, err
	}
	required, _ := RequiredActivities(duration)
	limit := DesiredIdeaCount(venueCount, required)
	return ValidateSelection(ideas, venueCount, duration, limit), SelectionFromModel, nil
}

// venuesFor maps a selection back onto venues, preserving index order.
func venuesFor(sel IdeaSelection, venues []types.Venue) []types.Venue {
	out := make([]types.Venue, 0, len(sel.VenueIndices))
	for _, idx := range sel.VenueIndices {
		if idx >= 0 && idx < len(venues) {
			out = append(out, venues[idx])
		}
	}
	return out
}
