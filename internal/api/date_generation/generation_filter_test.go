package dateGeneration

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/go-date-ideas/config"
	"github.com/FACorreiaa/go-date-ideas/internal/types"
)

func venue(id, name string, tags ...string) types.Venue {
	return types.Venue{ID: id, Name: name, Address: name + " address", Types: tags}
}

func withHours(v types.Venue, day time.Weekday, open, close string, closeDay time.Weekday) types.Venue {
	v.OpeningHours = &types.OpeningHours{Periods: []types.OpeningPeriod{{
		Open:  &types.DayTime{Day: day, Time: open},
		Close: &types.DayTime{Day: closeDay, Time: close},
	}}}
	return v
}

// at returns 18:00 UTC on the given weekday of the week starting Sunday 2025-06-01.
func at(day time.Weekday) time.Time {
	return time.Date(2025, 6, 1+int(day), 18, 0, 0, 0, time.UTC)
}

func ids(venues []types.Venue) []string {
	out := make([]string, len(venues))
	for i, v := range venues {
		out[i] = v.ID
	}
	return out
}

func TestFilterByDuration_Evening(t *testing.T) {
	policy := DefaultFilterPolicy()
	day := time.Friday

	venues := []types.Venue{
		withHours(venue("a", "Corner Bistro", "cafe", "restaurant"), day, "0700", "1800", day),
		withHours(venue("b", "Luigi's Trattoria", "restaurant"), day, "1100", "2200", day),
		venue("c", "Starbucks Reserve", "restaurant"),
		venue("d", "Green Park", "park"),
		withHours(venue("e", "Early Diner", "restaurant"), day, "0600", "1500", day),
		withHours(venue("f", "Late Lounge", "bar"), day, "1800", "0200", time.Saturday),
		venue("g", "Modern Art Museum", "museum"),
	}

	got := FilterByDuration(venues, types.DurationEvening, policy, at(day))

	assert.Equal(t, []string{"b", "f", "g"}, ids(got))
}

func TestFilterByDuration_EveningClosingHoursOtherDayIgnored(t *testing.T) {
	policy := DefaultFilterPolicy()
	v := withHours(venue("a", "Lunch Spot", "restaurant"), time.Monday, "1100", "1500", time.Monday)

	assert.Len(t, FilterByDuration([]types.Venue{v}, types.DurationEvening, policy, at(time.Tuesday)), 1)
	assert.Empty(t, FilterByDuration([]types.Venue{v}, types.DurationEvening, policy, at(time.Monday)))
}

func TestFilterByDuration_EveningUsesVenueLocalWeekday(t *testing.T) {
	policy := DefaultFilterPolicy()
	// Saturday 00:30 UTC is Friday 17:30 in Los Angeles (UTC-7 in June).
	now := time.Date(2025, 6, 7, 0, 30, 0, 0, time.UTC)
	offset := -7 * 60

	early := withHours(venue("a", "Lunch Counter", "restaurant"), time.Friday, "1100", "1800", time.Friday)
	early.UTCOffsetMinutes = &offset
	late := withHours(venue("b", "Luigi's Trattoria", "restaurant"), time.Friday, "1100", "2200", time.Friday)
	late.UTCOffsetMinutes = &offset

	got := FilterByDuration([]types.Venue{early, late}, types.DurationEvening, policy, now)

	assert.Equal(t, []string{"b"}, ids(got))
}

func TestFilterByDuration_EveningFallsBackToNowLocation(t *testing.T) {
	policy := DefaultFilterPolicy()
	la, err := time.LoadLocation("America/Los_Angeles")
	require.NoError(t, err)
	now := time.Date(2025, 6, 7, 0, 30, 0, 0, time.UTC).In(la)

	v := withHours(venue("a", "Lunch Counter", "restaurant"), time.Friday, "1100", "1800", time.Friday)

	assert.Empty(t, FilterByDuration([]types.Venue{v}, types.DurationEvening, policy, now))
}

func TestFilterByDuration_EveningSplitHoursUseLatestClose(t *testing.T) {
	policy := DefaultFilterPolicy()
	split := venue("a", "Osteria Due", "restaurant")
	split.OpeningHours = &types.OpeningHours{Periods: []types.OpeningPeriod{
		{Open: &types.DayTime{Day: time.Friday, Time: "1100"}, Close: &types.DayTime{Day: time.Friday, Time: "1430"}},
		{Open: &types.DayTime{Day: time.Friday, Time: "1700"}, Close: &types.DayTime{Day: time.Friday, Time: "2200"}},
	}}
	lunchOnly := venue("b", "Noon Deli", "restaurant")
	lunchOnly.OpeningHours = &types.OpeningHours{Periods: []types.OpeningPeriod{
		{Open: &types.DayTime{Day: time.Friday, Time: "0800"}, Close: &types.DayTime{Day: time.Friday, Time: "1100"}},
		{Open: &types.DayTime{Day: time.Friday, Time: "1200"}, Close: &types.DayTime{Day: time.Friday, Time: "1600"}},
	}}

	got := FilterByDuration([]types.Venue{split, lunchOnly}, types.DurationEvening, policy, at(time.Friday))

	assert.Equal(t, []string{"a"}, ids(got))
}

func TestFilterByDuration_QuickAndHalfDay(t *testing.T) {
	policy := DefaultFilterPolicy()
	venues := []types.Venue{
		venue("a", "Cafe Uno", "cafe"),
		venue("b", "The Pub", "bar"),
		venue("c", "Club 9", "night_club"),
		venue("d", "City Museum", "museum"),
	}

	assert.Equal(t, []string{"a", "d"}, ids(FilterByDuration(venues, types.DurationQuick, policy, at(time.Monday))))
	assert.Equal(t, []string{"a", "b", "d"}, ids(FilterByDuration(venues, types.DurationHalfDay, policy, at(time.Monday))))
	assert.Equal(t, []string{"a", "b", "c", "d"}, ids(FilterByDuration(venues, types.DurationFullDay, policy, at(time.Monday))))
}

func TestFilterByDuration_Idempotent(t *testing.T) {
	policy := DefaultFilterPolicy()
	day := time.Saturday
	venues := []types.Venue{
		withHours(venue("a", "Corner Bistro", "cafe"), day, "0700", "1800", day),
		withHours(venue("b", "Luigi's", "restaurant"), day, "1100", "2200", day),
		venue("c", "Blue Bar", "bar"),
		venue("d", "Dunkin", "restaurant"),
	}

	for _, d := range []types.Duration{types.DurationQuick, types.DurationHalfDay, types.DurationEvening, types.DurationFullDay} {
		once := FilterByDuration(venues, d, policy, at(day))
		twice := FilterByDuration(once, d, policy, at(day))
		assert.Equal(t, once, twice, "duration %s", d)
	}
}

func TestFilterByDuration_Empty(t *testing.T) {
	got := FilterByDuration(nil, types.DurationEvening, DefaultFilterPolicy(), at(time.Monday))
	require.NotNil(t, got)
	assert.Empty(t, got)
}

func TestNewFilterPolicy(t *testing.T) {
	p := NewFilterPolicy(config.FilterConfig{
		EveningNameDenylist: []string{"Tim Hortons"},
		EveningCloseHour:    20,
	})

	assert.Equal(t, []string{"tim hortons"}, p.EveningNameDenylist)
	assert.Equal(t, 20, p.EveningCloseHour)
	assert.Equal(t, DefaultFilterPolicy().QuickExcludedTypes, p.QuickExcludedTypes)

	v := venue("x", "TIM HORTONS downtown", "restaurant")
	assert.Empty(t, FilterByDuration([]types.Venue{v}, types.DurationEvening, p, at(time.Monday)))
}

func TestDedupeVenues(t *testing.T) {
	venues := []types.Venue{
		venue("a", "First", "restaurant"),
		venue("b", "Second", "bar"),
		venue("a", "First again", "bar"),
		venue("", "No ID", "park"),
		venue("", "No ID two", "park"),
	}

	got := DedupeVenues(venues)

	require.Len(t, got, 4)
	assert.Equal(t, "First", got[0].Name)
	assert.Equal(t, "Second", got[1].Name)
}
