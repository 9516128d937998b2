package retry

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Profile is a named retry configuration as it appears in a YAML file.
// Delays are duration strings ("200ms", "5s"). RetryOn selects a built-in
// condition: "always" (or empty), "network", "rate-limit" or "transient".
type Profile struct {
	MaxRetries      int     `yaml:"max_retries"`
	BaseDelay       string  `yaml:"base_delay"`
	MaxDelay        string  `yaml:"max_delay"`
	BackoffMultiple float64 `yaml:"backoff_multiple"`
	Jitter          bool    `yaml:"jitter"`
	RetryOn         string  `yaml:"retry_on"`
}

// Profiles maps profile names to their configuration.
type Profiles map[string]Profile

// LoadProfiles reads named retry profiles from a YAML file.
func LoadProfiles(path string) (Profiles, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("retry: reading profiles: %w", err)
	}
	return ParseProfiles(data)
}

// ParseProfiles parses named retry profiles from YAML data and validates
// each profile eagerly so a bad file fails at load time, not mid-retry.
func ParseProfiles(data []byte) (Profiles, error) {
	var profiles Profiles
	if err := yaml.Unmarshal(data, &profiles); err != nil {
		return nil, fmt.Errorf("retry: parsing profiles: %w", err)
	}
	for name, profile := range profiles {
		if _, err := profile.config(); err != nil {
			return nil, fmt.Errorf("retry: profile %q: %w", name, err)
		}
		if _, err := conditionByName(profile.RetryOn); err != nil {
			return nil, fmt.Errorf("retry: profile %q: %w", name, err)
		}
	}
	return profiles, nil
}

// Options materializes the named profile into executor options.
func (p Profiles) Options(name string) (Options, error) {
	profile, ok := p[name]
	if !ok {
		return Options{}, fmt.Errorf("retry: unknown profile %q", name)
	}
	cfg, err := profile.config()
	if err != nil {
		return Options{}, fmt.Errorf("retry: profile %q: %w", name, err)
	}
	condition, err := conditionByName(profile.RetryOn)
	if err != nil {
		return Options{}, fmt.Errorf("retry: profile %q: %w", name, err)
	}
	return Options{Config: cfg, Condition: condition, Name: name}, nil
}

func (p Profile) config() (Config, error) {
	cfg := Config{
		MaxRetries:      p.MaxRetries,
		BackoffMultiple: p.BackoffMultiple,
		Jitter:          p.Jitter,
	}
	var err error
	if p.BaseDelay != "" {
		if cfg.BaseDelay, err = time.ParseDuration(p.BaseDelay); err != nil {
			return Config{}, fmt.Errorf("base_delay: %w", err)
		}
	}
	if p.MaxDelay != "" {
		if cfg.MaxDelay, err = time.ParseDuration(p.MaxDelay); err != nil {
			return Config{}, fmt.Errorf("max_delay: %w", err)
		}
	}
	return cfg, nil
}

func conditionByName(name string) (Condition, error) {
	switch name {
	case "", "always":
		return nil, nil
	case "network":
		return NetworkErrors(), nil
	case "rate-limit", "rate_limit":
		return RateLimitErrors(), nil
	case "transient":
		return Transient(), nil
	default:
		return nil, fmt.Errorf("unknown retry_on value %q", name)
	}
}
