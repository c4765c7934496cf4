package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

//go:embed config.yml
var embeddedConfig []byte

type Config struct {
	Mode     string `mapstructure:"mode"`
	Handlers struct {
		Prometheus struct {
			Port string `mapstructure:"port"`
		} `mapstructure:"prometheus"`
	} `mapstructure:"handlers"`
	Repositories struct {
		Postgres struct {
			Host              string `mapstructure:"host"`
			Password          string `mapstructure:"password"`
			Port              string `mapstructure:"port"`
			Username          string `mapstructure:"username"`
			DB                string `mapstructure:"db"`
			SSLMODE           string `mapstructure:"SSLMODE"`
			MAXCONWAITINGTIME int    `mapstructure:"MAXCONWAITINGTIME"`
		} `mapstructure:"postgres"`
	} `mapstructure:"repositories"`
	Server struct {
		HTTPPort       string        `mapstructure:"HTTPPort"`
		Timeout        time.Duration `mapstructure:"HTTPTimeout"`
		AllowedOrigins []string      `mapstructure:"allowedOrigins"`
	} `mapstructure:"server"`
	JWT        JWTConfig        `mapstructure:"jwt"`
	AI         AIConfig         `mapstructure:"ai"`
	Maps       MapsConfig       `mapstructure:"maps"`
	Generation GenerationConfig `mapstructure:"generation"`
}

// JWTConfig describes how access tokens from the hosted auth provider are verified.
type JWTConfig struct {
	SecretKey string `mapstructure:"secretKey"`
	Issuer    string `mapstructure:"issuer"`
	Audience  string `mapstructure:"audience"`
}

type AIConfig struct {
	APIKey             string  `mapstructure:"apiKey"`
	Model              string  `mapstructure:"model"`
	SelectTemperature  float32 `mapstructure:"selectTemperature"`
	ContentTemperature float32 `mapstructure:"contentTemperature"`
}

type MapsConfig struct {
	APIKey         string        `mapstructure:"apiKey"`
	WeatherBaseURL string        `mapstructure:"weatherBaseURL"`
	DetailsPerType int           `mapstructure:"detailsPerType"`
	GeocodeTTL     time.Duration `mapstructure:"geocodeTTL"`
	WeatherTTL     time.Duration `mapstructure:"weatherTTL"`
}

// GenerationConfig carries the tunables of the date idea pipeline.
type GenerationConfig struct {
	DefaultLatitude  float64      `mapstructure:"defaultLatitude"`
	DefaultLongitude float64      `mapstructure:"defaultLongitude"`
	VenueTypes       []string     `mapstructure:"venueTypes"`
	RateLimit        int          `mapstructure:"rateLimitPerMinute"`
	Filter           FilterConfig `mapstructure:"filter"`
}

// FilterConfig is the externally maintained data behind the duration filter.
type FilterConfig struct {
	EveningExcludedTypes []string `mapstructure:"eveningExcludedTypes"`
	EveningNameDenylist  []string `mapstructure:"eveningNameDenylist"`
	EveningRequiredTypes []string `mapstructure:"eveningRequiredTypes"`
	EveningCloseHour     int      `mapstructure:"eveningCloseHour"`
	HalfDayExcludedTypes []string `mapstructure:"halfDayExcludedTypes"`
	QuickExcludedTypes   []string `mapstructure:"quickExcludedTypes"`
}

func InitConfig() (Config, error) {
	var config Config
	v := viper.New()

	v.AddConfigPath(".")
	v.AddConfigPath("config")
	v.AddConfigPath("/app/config")
	v.AddConfigPath("/usr/local/bin")

	v.SetConfigName("config")
	v.SetConfigType("yml")

	// Secrets come from the environment, e.g. JWT_SECRETKEY or MAPS_APIKEY.
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	bindSecrets(v)

	err := v.ReadInConfig()
	if err != nil {
		fmt.Printf("Warning: Failed to find file-based config: %s. Falling back to embedded config.\n", err)
		if err = v.ReadConfig(bytes.NewReader(embeddedConfig)); err != nil {
			return Config{}, fmt.Errorf("failed to read embedded config: %s", err)
		}
	}

	if err = v.Unmarshal(&config); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %s", err)
	}
	fmt.Println("Successfully loaded app configs...")
	return config, nil
}

func bindSecrets(v *viper.Viper) {
	_ = v.BindEnv("jwt.secretKey", "JWT_SECRET")
	_ = v.BindEnv("ai.apiKey", "GOOGLE_GEMINI_API_KEY")
	_ = v.BindEnv("maps.apiKey", "GOOGLE_MAPS_API_KEY")
	_ = v.BindEnv("repositories.postgres.password", "POSTGRES_PASSWORD")
	_ = v.BindEnv("repositories.postgres.host", "POSTGRES_HOST")
}
