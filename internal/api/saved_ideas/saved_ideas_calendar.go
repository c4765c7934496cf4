package savedIdeas

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/FACorreiaa/go-date-ideas/internal/types"
)

const (
	calendarBaseURL    = "https://calendar.google.com/calendar/render"
	calendarTimeLayout = "20060102T150405Z"
	defaultStartHour   = 19
)

// CalendarEvent is the input to a Google Calendar template link.
type CalendarEvent struct {
	Title       string
	Description string
	Location    string
	Duration    string
	Start       *time.Time
	End         *time.Time
}

// EventFromIdea builds the calendar event for a saved idea, listing its stops in the details.
func EventFromIdea(idea types.SavedDateIdea) CalendarEvent {
	var b strings.Builder
	b.WriteString(idea.Description)
	b.WriteString("\n\nActivities:\n")
	for _, a := range idea.Activities {
		b.WriteString("• " + a + "\n")
	}
	if len(idea.FoodSpots) > 0 {
		b.WriteString("\nFood & Drinks:\n")
		for _, f := range idea.FoodSpots {
			b.WriteString("• " + f + "\n")
		}
	}
	if len(idea.VenueLinks) > 0 {
		b.WriteString("\nVenue Links:\n")
		for _, v := range idea.VenueLinks {
			fmt.Fprintf(&b, "• %s: %s\n", v.Name, v.URL)
		}
	}
	fmt.Fprintf(&b, "\nBudget: %s\nDress Code: %s", idea.Budget, idea.DressCode)

	event := CalendarEvent{
		Title:       idea.Title,
		Description: b.String(),
		Duration:    idea.Duration,
	}
	if len(idea.FoodSpots) > 0 {
		event.Location = idea.FoodSpots[0]
	}
	return event
}

func eventLength(duration string) time.Duration {
	switch types.Duration(duration) {
	case types.DurationEvening:
		return 3 * time.Hour
	case types.DurationHalfDay, "afternoon":
		return 4 * time.Hour
	}
	return 2 * time.Hour
}

// CalendarURL renders the event as a Google Calendar template link. Without a start it
// defaults to tomorrow at 19:00 in now's location.
func CalendarURL(event CalendarEvent, now time.Time) string {
	var start time.Time
	if event.Start != nil {
		start = *event.Start
	} else {
		tomorrow := now.AddDate(0, 0, 1)
		start = time.Date(tomorrow.Year(), tomorrow.Month(), tomorrow.Day(), defaultStartHour, 0, 0, 0, now.Location())
	}
	end := start.Add(eventLength(event.Duration))
	if event.End != nil {
		end = *event.End
	}

	q := url.Values{}
	q.Set("action", "TEMPLATE")
	q.Set("text", event.Title)
	q.Set("dates", start.UTC().Format(calendarTimeLayout)+"/"+end.UTC().Format(calendarTimeLayout))
	q.Set("details", event.Description)
	if event.Location != "" {
		q.Set("location", event.Location)
	}
	return calendarBaseURL + "?" + q.Encode()
}
