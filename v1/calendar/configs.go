package calendar

import (
	"fmt"
	"os"
	"time"
)

// Config holds the settings for the scheduling client.
type Config struct {
	// AccessToken is the OAuth2 bearer token for the Calendar API
	AccessToken string `yaml:"access_token" env:"GOOGLE_CALENDAR_TOKEN"`

	// BaseURL is the API root, overridable for tests
	BaseURL string `yaml:"base_url" env:"GOOGLE_CALENDAR_BASE_URL"`

	// CalendarID selects the calendar operated on
	CalendarID string `yaml:"calendar_id" env:"GOOGLE_CALENDAR_ID"`

	// HTTPTimeout bounds each API call
	HTTPTimeout time.Duration `yaml:"http_timeout"`

	// WorkdayStartHour / WorkdayEndHour bound free slot suggestions to
	// working hours (local time, half-open interval)
	WorkdayStartHour int `yaml:"workday_start_hour"`
	WorkdayEndHour   int `yaml:"workday_end_hour"`

	// MaxSlots caps the number of free slots returned per search
	MaxSlots int `yaml:"max_slots"`
}

// DefaultConfig provides the production API endpoint and the primary
// calendar.
func DefaultConfig() *Config {
	return &Config{
		BaseURL:          "https://www.googleapis.com/calendar/v3",
		CalendarID:       "primary",
		HTTPTimeout:      15 * time.Second,
		WorkdayStartHour: 9,
		WorkdayEndHour:   17,
		MaxSlots:         10,
	}
}

// NewConfig reads from environment variables, falling back to defaults.
func NewConfig() *Config {
	cfg := DefaultConfig()

	cfg.AccessToken = os.Getenv("GOOGLE_CALENDAR_TOKEN")
	if base := os.Getenv("GOOGLE_CALENDAR_BASE_URL"); base != "" {
		cfg.BaseURL = base
	}
	if id := os.Getenv("GOOGLE_CALENDAR_ID"); id != "" {
		cfg.CalendarID = id
	}

	return cfg
}

// Validate ensures required fields are present.
func (c *Config) Validate() error {
	if c.AccessToken == "" {
		return fmt.Errorf("calendar: missing GOOGLE_CALENDAR_TOKEN")
	}
	if c.BaseURL == "" {
		return fmt.Errorf("calendar: missing base URL")
	}
	if c.CalendarID == "" {
		return fmt.Errorf("calendar: missing calendar ID")
	}
	if c.WorkdayStartHour < 0 || c.WorkdayEndHour > 24 || c.WorkdayStartHour >= c.WorkdayEndHour {
		return fmt.Errorf("calendar: invalid workday hours %d-%d", c.WorkdayStartHour, c.WorkdayEndHour)
	}
	return nil
}
