package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/warp/latefee/schedule"
	"gopkg.in/yaml.v3"
)

// =============================================================================
// WIRE SCHEMA
// =============================================================================

// ConfigurationJSON is the wire shape of a Configuration:
//
//	{
//	  "rate": "5",
//	  "currency": "USD",
//	  "timezone": "America/New_York",
//	  "schedule": [null, {"openHour": 12, "openMinute": 0, "closeHour": 22, "closeMinute": 0}, ...]
//	}
//
// The schedule has exactly seven entries starting on Sunday; null means closed.
type ConfigurationJSON struct {
	Rate     decimal.Decimal `json:"rate"`
	Currency string          `json:"currency,omitempty"`
	Timezone string          `json:"timezone,omitempty"`
	Schedule []*DayJSON      `json:"schedule"`
}

// DayJSON is an open day. Closed days are encoded as null.
type DayJSON struct {
	OpenHour    int `json:"openHour"`
	OpenMinute  int `json:"openMinute"`
	CloseHour   int `json:"closeHour"`
	CloseMinute int `json:"closeMinute"`
}

// =============================================================================
// DECODING
// =============================================================================

// Parse decodes and validates a JSON configuration.
func Parse(data []byte) (Configuration, error) {
	var cj ConfigurationJSON
	if err := json.Unmarshal(data, &cj); err != nil {
		return Configuration{}, fmt.Errorf("failed to parse configuration JSON: %w", err)
	}
	return FromJSON(cj)
}

// LoadFile reads a configuration from a .yaml/.yml or .json file.
// YAML uses the same keys as JSON.
func LoadFile(path string) (Configuration, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Configuration{}, fmt.Errorf("failed to read configuration file: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		data, err = yamlToJSON(data)
		if err != nil {
			return Configuration{}, fmt.Errorf("failed to parse configuration YAML %s: %w", path, err)
		}
	case ".json":
	default:
		return Configuration{}, fmt.Errorf("unsupported configuration file extension: %s", path)
	}

	return Parse(data)
}

// yamlToJSON re-encodes a YAML document as JSON so both formats share the
// JSON decoding rules (rates as numbers or strings, null days).
func yamlToJSON(data []byte) ([]byte, error) {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return json.Marshal(doc)
}

// FromJSON converts the wire shape into a validated Configuration.
func FromJSON(cj ConfigurationJSON) (Configuration, error) {
	if len(cj.Schedule) != schedule.DaysPerWeek {
		return Configuration{}, &ValidationError{
			Field:   "schedule",
			Message: fmt.Sprintf("must have %d entries (Sunday first), got %d", schedule.DaysPerWeek, len(cj.Schedule)),
		}
	}

	cfg := Configuration{
		Rate:     cj.Rate,
		Currency: cj.Currency,
		Timezone: cj.Timezone,
	}
	if cfg.Currency == "" {
		cfg.Currency = "USD"
	}
	if cfg.Timezone == "" {
		cfg.Timezone = "UTC"
	}

	for i, dj := range cj.Schedule {
		if dj == nil {
			cfg.Schedule[i] = schedule.Closed()
			continue
		}
		cfg.Schedule[i] = schedule.Open(dj.OpenHour, dj.OpenMinute, dj.CloseHour, dj.CloseMinute)
	}

	if err := cfg.Validate(); err != nil {
		return Configuration{}, err
	}
	return cfg, nil
}

// =============================================================================
// ENCODING
// =============================================================================

// ToJSON converts a Configuration into its wire shape.
func ToJSON(c Configuration) ConfigurationJSON {
	cj := ConfigurationJSON{
		Rate:     c.Rate,
		Currency: c.Currency,
		Timezone: c.Timezone,
		Schedule: make([]*DayJSON, schedule.DaysPerWeek),
	}
	for i, d := range c.Schedule {
		if !d.IsOpen {
			continue
		}
		cj.Schedule[i] = &DayJSON{
			OpenHour:    d.Open.Hour,
			OpenMinute:  d.Open.Minute,
			CloseHour:   d.Close.Hour,
			CloseMinute: d.Close.Minute,
		}
	}
	return cj
}

// Marshal encodes a Configuration as JSON.
func Marshal(c Configuration) ([]byte, error) {
	return json.Marshal(ToJSON(c))
}
