package dateGeneration

import (
	"fmt"
	"strings"

	"github.com/FACorreiaa/go-date-ideas/internal/types"
)

const (
	selectionSystemInstruction = "You are a date planning assistant. Always respond with valid JSON only."
	contentSystemInstruction   = "You are a creative date planning assistant. Always respond with valid JSON only."
)

var durationGuidance = map[types.Duration]string{
	types.DurationQuick:   "Quick date (1-2 hours): one relaxed stop such as a cafe, park or museum. No bars or nightclubs.",
	types.DurationHalfDay: "Half-day date (3-4 hours): mix a lunch or coffee spot with daytime activities like museums, galleries or parks.",
	types.DurationEvening: "Evening date (2-3 hours): dinner and drinks or entertainment. Restaurants, bars, theaters. Never coffee shops.",
	types.DurationFullDay: "Full-day date (5+ hours): a varied itinerary from daytime activities through a meal to an evening venue.",
}

var dressCodeGuidance = map[types.DressCode]string{
	types.DressCodeCasual:      "Casual dress: parks, bowling, casual restaurants, cafes and relaxed bars fit well.",
	types.DressCodeSmartCasual: "Smart casual: good restaurants, wine bars, galleries and museums fit well.",
	types.DressCodeDressy:      "Dressy: upscale restaurants, cocktail bars and theaters fit well. Avoid bowling alleys and parks.",
	types.DressCodeFormal:      "Formal: fine dining, elegant cocktail lounges and cultural venues only.",
}

func buildSelectionPrompt(venues []types.Venue, prefs types.DatePreferences, origin types.Coordinates, required, maxCount, ideaCount int) string {
	var b strings.Builder

	fmt.Fprintf(&b, "You are planning %d unique date ideas from the venues below.\n\n", ideaCount)
	b.WriteString("Preferences:\n")
	fmt.Fprintf(&b, "- Duration: %s\n", prefs.Duration)
	fmt.Fprintf(&b, "- Budget: %s\n", formatBudget(prefs.Budget))
	fmt.Fprintf(&b, "- Dress code: %s\n", prefs.DressCode)
	if prefs.Setting != "" {
		fmt.Fprintf(&b, "- Setting: %s\n", prefs.Setting)
	}
	b.WriteString("\nGuidance:\n")
	b.WriteString("- " + durationGuidance[prefs.Duration] + "\n")
	b.WriteString("- " + dressCodeGuidance[prefs.DressCode] + "\n")

	b.WriteString("\nVenues (index. name - distance - category - rating - tags):\n")
	for i, v := range venues {
		tags := v.Types
		if len(tags) > 3 {
			tags = tags[:3]
		}
		rating := "n/a"
		if v.Rating != nil {
			rating = fmt.Sprintf("%.1f", *v.Rating)
		}
		fmt.Fprintf(&b, "%d. %s - %.1f mi - %s - rating %s - %s\n",
			i, v.Name, distanceMiles(origin, v.Location), categoryLabel(v), rating, strings.Join(tags, ", "))
	}

	b.WriteString("\nRules:\n")
	if maxCount > required {
		fmt.Fprintf(&b, "- Each date idea uses %d or %d venues.\n", required, maxCount)
	} else {
		fmt.Fprintf(&b, "- Each date idea uses exactly %d venue(s).\n", required)
	}
	b.WriteString("- Use 0-based indices from the list above.\n")
	b.WriteString("- Never use the same venue in more than one date idea.\n")
	b.WriteString("- Prefer closer venues and a natural flow between stops.\n")
	b.WriteString(`
Return ONLY a JSON object with this exact structure:
{
  "dateIdeas": [
    { "venueIndices": [0, 3], "theme": "short theme label" }
  ]
}`)
	return b.String()
}

func buildContentPrompt(venues []types.Venue) string {
	seen := make(map[string]struct{})
	var tags []string
	for _, v := range venues {
		for _, t := range v.Types {
			if _, ok := seen[t]; !ok {
				seen[t] = struct{}{}
				tags = append(tags, t)
			}
		}
	}

	return fmt.Sprintf(`Generate a creative, romantic date title and description for a date that includes these venues: %s.

Venue types: %s

Requirements:
- Title: short and catchy, at most 6 words. Examples: "Artistic Evening Adventure", "Garden & Gastronomy"
- Description: one engaging sentence (25-40 words) describing the flow between the venues, naming them.

Return ONLY a JSON object with this exact structure:
{
  "title": "your creative title",
  "description": "your engaging description"
}`, strings.Join(venueNames(venues), ", "), strings.Join(tags, ", "))
}
