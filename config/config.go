// Package config loads libcalseries settings from YAML.
//
//	candidates: [Y, Q, M, W, D]
//	holidays: ["2020-12-25", "2021-01-01"]
//	holiday_calendar: holidays.ics
//	log_level: debug
package config

import (
	"bytes"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"

	"github.com/cyp0633/libcalseries/calendar"
	"github.com/cyp0633/libcalseries/errs"
	"github.com/cyp0633/libcalseries/granularity"
	"github.com/cyp0633/libcalseries/timeseries"
	"gopkg.in/yaml.v3"
)

// Config holds the settings shared by the series a program builds.
type Config struct {
	// Candidates lists granularity codes tried during inference.
	Candidates []string `yaml:"candidates"`
	// Holidays lists extra non-business days as YYYY-MM-DD.
	Holidays []string `yaml:"holidays"`
	// HolidayCalendar is an iCalendar file whose events are holidays.
	// Relative paths are resolved against the config file directory.
	HolidayCalendar string `yaml:"holiday_calendar"`
	LogLevel        string `yaml:"log_level"`
}

// Default returns the settings used when no file is given.
func Default() Config {
	return Config{
		Candidates: []string{"Y", "Q", "M", "W", "D"},
		LogLevel:   "info",
	}
}

// Load reads a YAML document from r. Keys missing from the document keep
// their default value.
func Load(r io.Reader) (*Config, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errs.Wrap(errs.Validation, err, "config: reading")
	}
	c := Default()
	if len(bytes.TrimSpace(data)) > 0 {
		if err := yaml.Unmarshal(data, &c); err != nil {
			return nil, errs.Wrap(errs.Validation, err, "config: invalid YAML")
		}
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// LoadFile reads the YAML file at path.
func LoadFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errs.Wrap(errs.NotFound, err, "config: opening %s", path)
	}
	defer f.Close()

	c, err := Load(f)
	if err != nil {
		return nil, err
	}
	if c.HolidayCalendar != "" && !filepath.IsAbs(c.HolidayCalendar) {
		c.HolidayCalendar = filepath.Join(filepath.Dir(path), c.HolidayCalendar)
	}
	return c, nil
}

// Validate checks every field without touching the file system.
func (c *Config) Validate() error {
	if _, err := c.Granularities(); err != nil {
		return err
	}
	if _, err := c.holidayList(); err != nil {
		return err
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

// Granularities parses the candidate codes. An empty list means the
// built-in defaults.
func (c *Config) Granularities() ([]granularity.Granularity, error) {
	if len(c.Candidates) == 0 {
		return granularity.Defaults(), nil
	}
	gs, err := granularity.ParseList(c.Candidates...)
	if err != nil {
		return nil, errs.Wrap(errs.Validation, err, "config: candidates")
	}
	return gs, nil
}

func (c *Config) holidayList() ([]calendar.Date, error) {
	out := make([]calendar.Date, 0, len(c.Holidays))
	for _, s := range c.Holidays {
		d, err := calendar.ParseDate(s)
		if err != nil {
			return nil, errs.Wrap(errs.Validation, err, "config: holidays")
		}
		out = append(out, d)
	}
	return out, nil
}

// HolidayDates returns the listed holidays merged with the days covered by
// HolidayCalendar, sorted and without duplicates.
func (c *Config) HolidayDates() ([]calendar.Date, error) {
	days, err := c.holidayList()
	if err != nil {
		return nil, err
	}
	if c.HolidayCalendar != "" {
		f, err := os.Open(c.HolidayCalendar)
		if err != nil {
			return nil, errs.Wrap(errs.NotFound, err, "config: holiday calendar %s", c.HolidayCalendar)
		}
		defer f.Close()

		fromFile, err := calendar.ParseHolidays(f)
		if err != nil {
			return nil, errs.Wrap(errs.Validation, err, "config: holiday calendar %s", c.HolidayCalendar)
		}
		days = append(days, fromFile...)
	}
	slices.SortFunc(days, calendar.Date.Compare)
	return slices.Compact(days), nil
}

// Level parses LogLevel. An empty value means info.
func (c *Config) Level() (slog.Level, error) {
	var lvl slog.Level
	if c.LogLevel == "" {
		return slog.LevelInfo, nil
	}
	if err := lvl.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, errs.Wrap(errs.Validation, err, "config: log level %q", c.LogLevel)
	}
	return lvl, nil
}

// Logger builds a text logger writing to w at the configured level.
func (c *Config) Logger(w io.Writer) *slog.Logger {
	lvl, err := c.Level()
	if err != nil {
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl}))
}

// SeriesOptions returns the timeseries options matching the config. A nil
// logger leaves the series default in place.
func (c *Config) SeriesOptions(logger *slog.Logger) ([]timeseries.Option, error) {
	gs, err := c.Granularities()
	if err != nil {
		return nil, err
	}
	return []timeseries.Option{
		timeseries.WithCandidates(gs...),
		timeseries.WithLogger(logger),
	}, nil
}
