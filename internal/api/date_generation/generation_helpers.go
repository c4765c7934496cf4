package dateGeneration

import (
	"math"
	"strings"

	"github.com/FACorreiaa/go-date-ideas/internal/types"
)

const earthRadiusMiles = 3959

// distanceMiles is the great-circle (haversine) distance between two coordinates in miles.
func distanceMiles(a, b types.Coordinates) float64 {
	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	dlat := (b.Lat - a.Lat) * math.Pi / 180
	dlng := (b.Lng - a.Lng) * math.Pi / 180

	h := math.Sin(dlat/2)*math.Sin(dlat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dlng/2)*math.Sin(dlng/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
	return earthRadiusMiles * c
}

// cleanJSONResponse strips markdown code fences and any prose around the outermost
// JSON object or array.
func cleanJSONResponse(response string) string {
	response = strings.TrimSpace(response)

	if strings.HasPrefix(response, "```json") {
		response = strings.TrimPrefix(response, "```json")
	} else if strings.HasPrefix(response, "```") {
		response = strings.TrimPrefix(response, "```")
	}
	response = strings.TrimSuffix(strings.TrimSpace(response), "```")
	response = strings.TrimSpace(response)

	start := strings.IndexAny(response, "{[")
	if start == -1 {
		return response
	}
	closing := "}"
	if response[start] == '[' {
		closing = "]"
	}
	end := strings.LastIndex(response, closing)
	if end <= start {
		return response
	}
	return strings.TrimSpace(response[start : end+1])
}

var categoryLabels = map[string]string{
	"restaurant":    "Restaurant",
	"cafe":          "Cafe",
	"bar":           "Bar",
	"museum":        "Museum",
	"art_gallery":   "Art Gallery",
	"park":          "Park",
	"movie_theater": "Movie Theater",
	"bowling_alley": "Bowling Alley",
	"night_club":    "Night Club",
	"bakery":        "Bakery",
}

// categoryLabel picks a human label from the first recognised tag.
func categoryLabel(v types.Venue) string {
	for _, t := range v.Types {
		if label, ok := categoryLabels[t]; ok {
			return label
		}
	}
	if len(v.Types) == 0 {
		return "Venue"
	}
	words := strings.Split(v.Types[0], "_")
	for i, w := range words {
		if w != "" {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}

func venueNames(venues []types.Venue) []string {
	names := make([]string, len(venues))
	for i, v := range venues {
		names[i] = v.Name
	}
	return names
}
