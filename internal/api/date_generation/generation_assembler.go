package dateGeneration

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/FACorreiaa/go-date-ideas/internal/types"
)

var foodTypes = []string{"restaurant", "cafe", "bar"}

const explorationVenueCount = 3

func formatBudget(budget float64) string {
	if budget <= 0 {
		return "Free"
	}
	return "$" + strconv.FormatFloat(budget, 'f', -1, 64)
}

func activityLine(v types.Venue) string {
	return fmt.Sprintf("%s - %s", v.Name, v.Address)
}

// AssembleIdea merges a selection, its content and the venues into the display record.
// Title falls back to the selection theme, then to the template.
func AssembleIdea(index int, sel IdeaSelection, content IdeaContent, venues []types.Venue, prefs types.DatePreferences) types.DateIdea {
	title := content.Title
	if title == "" {
		title = strings.TrimSpace(sel.Theme)
	}
	if title == "" {
		title = FallbackContent(venues).Title
	}
	description := content.Description
	if description == "" {
		description = "Visit " + strings.Join(venueNames(venues), ", ")
	}

	idea := types.DateIdea{
		ID:          fmt.Sprintf("idea-%d", index),
		Title:       title,
		Description: description,
		Budget:      formatBudget(prefs.Budget),
		Duration:    string(prefs.Duration),
		DressCode:   string(prefs.DressCode),
		Location:    string(prefs.Setting),
		Activities:  make([]string, 0, len(venues)),
	}

	for _, v := range venues {
		idea.Activities = append(idea.Activities, activityLine(v))
		if v.HasAnyType(foodTypes...) {
			idea.FoodSpots = append(idea.FoodSpots, v.Name)
		}
		if v.Website != "" {
			idea.VenueLinks = append(idea.VenueLinks, types.VenueLink{Name: v.Name, URL: v.Website, Type: "website"})
		}
		idea.MapLocations = append(idea.MapLocations, types.MapLocation{Name: v.Name, Lat: v.Location.Lat, Lng: v.Location.Lng})
	}
	return idea
}

// ExplorationFallback is the single idea returned when nothing else survived, built
// straight from the first filtered venues.
func ExplorationFallback(venues []types.Venue, prefs types.DatePreferences) (types.DateIdea, bool) {
	if len(venues) == 0 {
		return types.DateIdea{}, false
	}
	top := venues
	if len(top) > explorationVenueCount {
		top = top[:explorationVenueCount]
	}

	idea := types.DateIdea{
		ID:          "fallback-1",
		Title:       "Explore Your City",
		Description: "Visit some of the great venues we found near you!",
		Budget:      formatBudget(prefs.Budget),
		Duration:    string(prefs.Duration),
		DressCode:   string(prefs.DressCode),
		Location:    string(prefs.Setting),
		Activities:  make([]string, 0, len(top)),
	}
	for _, v := range top {
		idea.Activities = append(idea.Activities, activityLine(v))
		idea.MapLocations = append(idea.MapLocations, types.MapLocation{Name: v.Name, Lat: v.Location.Lat, Lng: v.Location.Lng})
	}
	return idea, true
}
