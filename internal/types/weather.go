package types

type HourlyForecast struct {
	Time        string `json:"time"`
	Temperature int    `json:"temperature"`
	Condition   string `json:"condition"`
	Icon        string `json:"icon"`
}

type WeatherForecast struct {
	Temperature    int              `json:"temperature"`
	Condition      string           `json:"condition"`
	Description    string           `json:"description"`
	Icon           string           `json:"icon"`
	Humidity       int              `json:"humidity"`
	WindSpeed      int              `json:"wind_speed"`
	HourlyForecast []HourlyForecast `json:"hourly_forecast"`
}
