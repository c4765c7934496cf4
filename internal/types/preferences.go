package types

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Duration is the user-selected length / time of day of a date.
type Duration string

const (
	DurationQuick   Duration = "quick"
	DurationHalfDay Duration = "half"
	DurationEvening Duration = "evening"
	DurationFullDay Duration = "full"
)

// ParseDuration accepts the canonical values plus the spelled-out aliases the web client sends.
func ParseDuration(s string) (Duration, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "quick":
		return DurationQuick, nil
	case "half", "half-day", "half_day", "afternoon":
		return DurationHalfDay, nil
	case "evening":
		return DurationEvening, nil
	case "full", "full-day", "full_day":
		return DurationFullDay, nil
	}
	return "", fmt.Errorf("%w: unknown duration %q", ErrInvalidPreferences, s)
}

type DressCode string

const (
	DressCodeCasual      DressCode = "casual"
	DressCodeSmartCasual DressCode = "smart-casual"
	DressCodeDressy      DressCode = "dressy"
	DressCodeFormal      DressCode = "formal"
)

func (d DressCode) Valid() bool {
	switch d {
	case DressCodeCasual, DressCodeSmartCasual, DressCodeDressy, DressCodeFormal:
		return true
	}
	return false
}

// Setting is the indoor/outdoor preference, echoed as the idea "location".
type Setting string

const (
	SettingIndoor  Setting = "indoor"
	SettingOutdoor Setting = "outdoor"
	SettingMixed   Setting = "mixed"
)

var ErrInvalidPreferences = errors.New("invalid preferences")

// DatePreferences is immutable for the lifetime of one generation request.
type DatePreferences struct {
	Budget       float64   `json:"budget"`
	Duration     Duration  `json:"duration"`
	DressCode    DressCode `json:"dress_code"`
	Setting      Setting   `json:"location,omitempty"`
	RadiusMiles  float64   `json:"radius_miles"`
	UserLocation string    `json:"user_location,omitempty"`
	// Timezone is the client's IANA zone, used for venues whose UTC offset is unknown.
	Timezone string `json:"timezone,omitempty"`
}

// Validate normalises the duration alias and checks numeric bounds.
func (p *DatePreferences) Validate() error {
	if p.Budget < 0 {
		return fmt.Errorf("%w: budget must not be negative", ErrInvalidPreferences)
	}
	if p.RadiusMiles <= 0 {
		return fmt.Errorf("%w: radius must be positive", ErrInvalidPreferences)
	}
	d, err := ParseDuration(string(p.Duration))
	if err != nil {
		return err
	}
	p.Duration = d
	if p.DressCode == "" {
		p.DressCode = DressCodeCasual
	}
	if !p.DressCode.Valid() {
		return fmt.Errorf("%w: unknown dress code %q", ErrInvalidPreferences, p.DressCode)
	}
	if p.Setting == "" {
		p.Setting = SettingMixed
	}
	if p.Timezone != "" {
		if _, err := time.LoadLocation(p.Timezone); err != nil {
			return fmt.Errorf("%w: unknown timezone %q", ErrInvalidPreferences, p.Timezone)
		}
	}
	return nil
}

// Location returns the client's zone, or nil when none was sent or it does not load.
func (p DatePreferences) Location() *time.Location {
	if p.Timezone == "" {
		return nil
	}
	loc, err := time.LoadLocation(p.Timezone)
	if err != nil {
		return nil
	}
	return loc
}
