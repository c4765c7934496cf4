package dateGeneration

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/FACorreiaa/go-date-ideas/internal/types"
)

var ErrInvalidContent = errors.New("content response missing title or description")

// IdeaContent is the generated (or templated) copy for one date idea.
type IdeaContent struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// ParseContent decodes a content response; any failure means the caller uses FallbackContent.
func ParseContent(raw string, callErr error) (IdeaContent, error) {
	if callErr != nil {
		return IdeaContent{}, callErr
	}
	var c IdeaContent
	if err := json.Unmarshal([]byte(cleanJSONResponse(raw)), &c); err != nil {
		return IdeaContent{}, fmt.Errorf("%w: %v", ErrInvalidContent, err)
	}
	c.Title = strings.TrimSpace(c.Title)
	c.Description = strings.TrimSpace(c.Description)
	if c.Title == "" || c.Description == "" {
		return IdeaContent{}, ErrInvalidContent
	}
	return c, nil
}

// FallbackContent is the deterministic template used when generation fails.
func FallbackContent(venues []types.Venue) IdeaContent {
	if len(venues) == 0 {
		return IdeaContent{}
	}
	names := venueNames(venues)
	c := IdeaContent{Title: names[0] + " & More"}

	switch len(names) {
	case 1:
		c.Description = fmt.Sprintf("Enjoy your time at %s", names[0])
	case 2:
		c.Description = fmt.Sprintf("Begin your evening at %s followed by %s", names[0], names[1])
	default:
		middle := strings.Join(names[1:len(names)-1], ", then ")
		c.Description = fmt.Sprintf("Start at %s, then %s, and finish at %s", names[0], middle, names[len(names)-1])
	}
	return c
}
