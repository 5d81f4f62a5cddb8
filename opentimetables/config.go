package opentimetables

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"ottcal/util"
)

// Default institution parameters. These work for all Swansea University
// courses; other institutions override them via a config file.
const (
	defaultBaseURL        = "https://opentimetables.swan.ac.uk/"
	defaultCategoryTypeID = "525fe79b-73c3-4b5c-8186-83c652b3adcc"
	defaultAuthorization  = "basic kR1n1RXYhF"
	defaultTimezone       = "Europe/London"
	defaultCacheFile      = "modules.json"
	defaultViewerURL      = "https://larrybolt.github.io/online-ics-feed-viewer/"
	defaultTimeoutSeconds = 15
)

// SemesterDates bounds a teaching period. Both fields use the 2006-01-02
// date layout and are interpreted in the configured timezone.
type SemesterDates struct {
	Start string `yaml:"start"`
	End   string `yaml:"end"`
}

// Config holds the institution-specific parameters of an Open Timetables
// deployment. It is passed into the pipeline at construction time instead of
// living in package-level variables.
type Config struct {
	BaseURL        string        `yaml:"base_url"`
	CategoryTypeID string        `yaml:"category_type_id"`
	Authorization  string        `yaml:"authorization"`
	Timezone       string        `yaml:"timezone"`
	CacheFile      string        `yaml:"cache_file"`
	ViewerURL      string        `yaml:"viewer_url"`
	TimeoutSeconds int           `yaml:"timeout_seconds"`
	Year           SemesterDates `yaml:"year"`
	Semester1      SemesterDates `yaml:"semester1"`
	Semester2      SemesterDates `yaml:"semester2"`
}

// DefaultConfig returns the built-in institution parameters.
func DefaultConfig() *Config {
	cfg := &Config{}
	cfg.Normalize()
	return cfg
}

// LoadConfig reads a YAML config from path. An empty path or a missing file
// yields the defaults; an unreadable or malformed file is an error.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return DefaultConfig(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("could not read config %q: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("could not parse config %q: %w", path, err)
	}
	cfg.Normalize()
	return &cfg, nil
}

// Normalize fills in missing values so that partially-filled configs still
// behave correctly.
func (c *Config) Normalize() {
	if c.BaseURL == "" {
		c.BaseURL = defaultBaseURL
	}
	if !strings.HasSuffix(c.BaseURL, "/") {
		c.BaseURL += "/"
	}
	if c.CategoryTypeID == "" {
		c.CategoryTypeID = defaultCategoryTypeID
	}
	if c.Authorization == "" {
		c.Authorization = defaultAuthorization
	}
	if c.Timezone == "" {
		c.Timezone = defaultTimezone
	}
	if c.CacheFile == "" {
		c.CacheFile = defaultCacheFile
	}
	if c.ViewerURL == "" {
		c.ViewerURL = defaultViewerURL
	}
	if c.TimeoutSeconds <= 0 {
		c.TimeoutSeconds = defaultTimeoutSeconds
	}
}

// Location returns the institution timezone.
func (c *Config) Location() (*time.Location, error) {
	return time.LoadLocation(c.Timezone)
}

func (c *Config) requestTimeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// PeriodBounds resolves the configured year and semester dates relative to
// now. Unset dates fall back to a generic academic year: September through
// August, with Semester 1 ending late January and Semester 2 starting
// mid-January.
func (c *Config) PeriodBounds(now time.Time) (util.PeriodBounds, error) {
	loc, err := c.Location()
	if err != nil {
		return util.PeriodBounds{}, fmt.Errorf("unknown timezone %q: %w", c.Timezone, err)
	}

	year := now.In(loc).Year()
	if now.In(loc).Month() < time.August {
		year--
	}

	var b util.PeriodBounds
	b.YearStart, err = parseBoundDate(c.Year.Start, time.Date(year, time.September, 1, 0, 0, 0, 0, loc), loc)
	if err == nil {
		b.YearEnd, err = parseBoundDate(c.Year.End, time.Date(year+1, time.August, 31, 0, 0, 0, 0, loc), loc)
	}
	if err == nil {
		b.Sem1Start, err = parseBoundDate(c.Semester1.Start, time.Date(year, time.September, 1, 0, 0, 0, 0, loc), loc)
	}
	if err == nil {
		b.Sem1End, err = parseBoundDate(c.Semester1.End, time.Date(year+1, time.January, 31, 0, 0, 0, 0, loc), loc)
	}
	if err == nil {
		b.Sem2Start, err = parseBoundDate(c.Semester2.Start, time.Date(year+1, time.January, 15, 0, 0, 0, 0, loc), loc)
	}
	if err == nil {
		b.Sem2End, err = parseBoundDate(c.Semester2.End, time.Date(year+1, time.June, 30, 0, 0, 0, 0, loc), loc)
	}
	if err != nil {
		return util.PeriodBounds{}, err
	}
	return b, nil
}

func parseBoundDate(s string, fallback time.Time, loc *time.Location) (time.Time, error) {
	if s == "" {
		return fallback, nil
	}
	t, err := time.ParseInLocation("2006-01-02", s, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q in config: %w", s, err)
	}
	return t, nil
}
