package weather

import (
	"math"
	"strings"
	"time"

	"github.com/FACorreiaa/go-date-ideas/internal/types"
)

type forecastResponse struct {
	ForecastDays []forecastDay `json:"forecastDays"`
}

type displayDate struct {
	Year  int `json:"year"`
	Month int `json:"month"`
	Day   int `json:"day"`
}

type temperature struct {
	Degrees *float64 `json:"degrees"`
}

type weatherCondition struct {
	IconBaseURI string `json:"iconBaseUri"`
	Description struct {
		Text string `json:"text"`
	} `json:"description"`
	Type string `json:"type"`
}

type dayPart struct {
	WeatherCondition *weatherCondition `json:"weatherCondition"`
	RelativeHumidity *int              `json:"relativeHumidity"`
	Wind             *struct {
		Speed struct {
			Value *float64 `json:"value"`
		} `json:"speed"`
	} `json:"wind"`
}

type forecastDay struct {
	DisplayDate     displayDate  `json:"displayDate"`
	MaxTemperature  *temperature `json:"maxTemperature"`
	DaytimeForecast *dayPart     `json:"daytimeForecast"`
}

// forDate picks the entry for date, falling back to the offset position when the API
// omits display dates. Returns nil when no entry covers the date.
func (r *forecastResponse) forDate(date time.Time, offset int) *types.WeatherForecast {
	if r == nil || len(r.ForecastDays) == 0 {
		return nil
	}
	y, m, d := date.Date()
	for _, day := range r.ForecastDays {
		if day.DisplayDate.Year == y && day.DisplayDate.Month == int(m) && day.DisplayDate.Day == d {
			return day.toForecast()
		}
	}
	if offset >= 0 && offset < len(r.ForecastDays) && r.ForecastDays[offset].DisplayDate.Year == 0 {
		return r.ForecastDays[offset].toForecast()
	}
	return nil
}

func (d forecastDay) toForecast() *types.WeatherForecast {
	f := &types.WeatherForecast{
		Temperature:    72,
		Condition:      "Clear",
		Description:    "Pleasant weather expected",
		Icon:           "01d",
		Humidity:       50,
		WindSpeed:      5,
		HourlyForecast: []types.HourlyForecast{},
	}
	if d.MaxTemperature != nil && d.MaxTemperature.Degrees != nil {
		f.Temperature = int(math.Round(*d.MaxTemperature.Degrees))
	}
	part := d.DaytimeForecast
	if part == nil {
		return f
	}
	if c := part.WeatherCondition; c != nil {
		if c.Type != "" {
			f.Condition = conditionLabel(c.Type)
		}
		if c.Description.Text != "" {
			f.Description = c.Description.Text
		}
		if c.IconBaseURI != "" {
			f.Icon = c.IconBaseURI
		}
	}
	if part.RelativeHumidity != nil {
		f.Humidity = *part.RelativeHumidity
	}
	if part.Wind != nil && part.Wind.Speed.Value != nil {
		f.WindSpeed = int(math.Round(*part.Wind.Speed.Value))
	}
	return f
}

// conditionLabel turns "PARTLY_CLOUDY" into "Partly Cloudy".
func conditionLabel(kind string) string {
	words := strings.Split(strings.ToLower(kind), "_")
	for i, w := range words {
		if w != "" {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}
