package dateGeneration

import (
	"strconv"
	"strings"
	"time"

	"github.com/FACorreiaa/go-date-ideas/config"
	"github.com/FACorreiaa/go-date-ideas/internal/types"
)

// FilterPolicy is the data behind the duration filter. It is loaded from configuration so
// the denylists can be extended without touching the filter itself.
type FilterPolicy struct {
	EveningExcludedTypes []string
	EveningNameDenylist  []string
	EveningRequiredTypes []string
	EveningCloseHour     int
	HalfDayExcludedTypes []string
	QuickExcludedTypes   []string
}

// DefaultFilterPolicy mirrors config.yml and is used when the config section is empty.
func DefaultFilterPolicy() FilterPolicy {
	return FilterPolicy{
		EveningExcludedTypes: []string{"cafe", "coffee_shop", "bakery", "breakfast_restaurant"},
		EveningNameDenylist:  []string{"starbucks", "coffee", "cafe", "dunkin", "peet", "caribou", "dutch bros"},
		EveningRequiredTypes: []string{"restaurant", "bar", "night_club", "movie_theater", "bowling_alley", "museum", "art_gallery"},
		EveningCloseHour:     19,
		HalfDayExcludedTypes: []string{"night_club"},
		QuickExcludedTypes:   []string{"bar", "night_club"},
	}
}

func NewFilterPolicy(cfg config.FilterConfig) FilterPolicy {
	p := DefaultFilterPolicy()
	if len(cfg.EveningExcludedTypes) > 0 {
		p.EveningExcludedTypes = cfg.EveningExcludedTypes
	}
	if len(cfg.EveningNameDenylist) > 0 {
		p.EveningNameDenylist = lowerAll(cfg.EveningNameDenylist)
	}
	if len(cfg.EveningRequiredTypes) > 0 {
		p.EveningRequiredTypes = cfg.EveningRequiredTypes
	}
	if cfg.EveningCloseHour > 0 {
		p.EveningCloseHour = cfg.EveningCloseHour
	}
	if len(cfg.HalfDayExcludedTypes) > 0 {
		p.HalfDayExcludedTypes = cfg.HalfDayExcludedTypes
	}
	if len(cfg.QuickExcludedTypes) > 0 {
		p.QuickExcludedTypes = cfg.QuickExcludedTypes
	}
	return p
}

// FilterByDuration drops venues unsuited to the requested duration. It is a per-venue
// predicate, so applying it to its own output removes nothing further. Opening hours are
// checked against now on each venue's own clock; venues without a known offset use now's
// location.
func FilterByDuration(venues []types.Venue, duration types.Duration, policy FilterPolicy, now time.Time) []types.Venue {
	filtered := make([]types.Venue, 0, len(venues))
	for _, v := range venues {
		if policy.allows(v, duration, v.LocalTime(now).Weekday()) {
			filtered = append(filtered, v)
		}
	}
	return filtered
}

func (p FilterPolicy) allows(v types.Venue, duration types.Duration, weekday time.Weekday) bool {
	switch duration {
	case types.DurationEvening:
		if v.HasAnyType(p.EveningExcludedTypes...) {
			return false
		}
		name := strings.ToLower(v.Name)
		for _, term := range p.EveningNameDenylist {
			if term != "" && strings.Contains(name, term) {
				return false
			}
		}
		if closesBefore(v.OpeningHours, weekday, p.EveningCloseHour) {
			return false
		}
		return v.HasAnyType(p.EveningRequiredTypes...)
	case types.DurationHalfDay:
		return !v.HasAnyType(p.HalfDayExcludedTypes...)
	case types.DurationQuick:
		return !v.HasAnyType(p.QuickExcludedTypes...)
	}
	return true
}

// closesBefore reports whether every period opening on weekday closes the same day before
// hour, so split hours are judged by their latest close. Periods running past midnight and
// venues without hours for that day are kept.
func closesBefore(hours *types.OpeningHours, weekday time.Weekday, hour int) bool {
	if hours == nil {
		return false
	}
	found := false
	for _, period := range hours.Periods {
		if period.Open == nil || period.Open.Day != weekday {
			continue
		}
		if period.Close == nil || period.Close.Day != period.Open.Day || len(period.Close.Time) < 2 {
			return false
		}
		closeHour, err := strconv.Atoi(period.Close.Time[:2])
		if err != nil || closeHour >= hour {
			return false
		}
		found = true
	}
	return found
}

// DedupeVenues keeps the first occurrence of each place ID. The same venue is returned
// once per matching category by the fan-out.
func DedupeVenues(venues []types.Venue) []types.Venue {
	seen := make(map[string]struct{}, len(venues))
	out := make([]types.Venue, 0, len(venues))
	for _, v := range venues {
		if v.ID != "" {
			if _, dup := seen[v.ID]; dup {
				continue
			}
			seen[v.ID] = struct{}{}
		}
		out = append(out, v)
	}
	return out
}

func lowerAll(in []string) []string {
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = strings.ToLower(s)
	}
	return out
}
