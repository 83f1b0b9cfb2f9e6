// Package config loads cropsignal configuration.
//
// Configuration comes from two places:
//
//   - A TOML file defining the monitored zones, alert thresholds, and
//     history location. When no file is given, built-in defaults cover
//     the 20 top corn-producing US counties.
//   - The environment (optionally seeded from a .env file) for secrets
//     and deployment wiring: Sentinel Hub credentials, the Telegram bot
//     token and chat ID, webhook URL, Redis/Mongo addresses.
//
// Secrets never live in the TOML file; everything else never lives in
// the environment.
package config

import (
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/cropsignal/cropsignal/pkg/errors"
)

// Env variable names read by Load.
const (
	EnvClientID     = "SENTINELHUB_CLIENT_ID"
	EnvClientSecret = "SENTINELHUB_CLIENT_SECRET"
	EnvTelegramTok  = "TELEGRAM_TOKEN"
	EnvTelegramChat = "TELEGRAM_CHAT_ID"
	EnvWebhookURL   = "WEBHOOK_URL"
	EnvRedisURL     = "REDIS_URL"
	EnvMongoURI     = "MONGO_URI"
	EnvListen       = "CROPSIGNAL_LISTEN"
)

// Zone is a monitored area: a point with a weight reflecting its share of
// total production. The fetcher samples a small box around the point.
type Zone struct {
	Name   string  `toml:"name"`
	Lat    float64 `toml:"lat"`
	Lon    float64 `toml:"lon"`
	Weight float64 `toml:"weight"`
}

// Tier classifies a zone by production weight.
type Tier string

const (
	TierLarge  Tier = "large producer"
	TierMedium Tier = "medium producer"
	TierSmall  Tier = "small producer"
)

// Tier returns the zone's production tier.
func (z Zone) Tier() Tier {
	switch {
	case z.Weight >= 0.05:
		return TierLarge
	case z.Weight >= 0.035:
		return TierMedium
	default:
		return TierSmall
	}
}

// Thresholds control when an observation becomes an alert.
type Thresholds struct {
	// AnomalyPct is the relative drop vs the historical mean that marks a
	// zone as stressed (negative, percent).
	AnomalyPct float64 `toml:"anomaly_pct"`
	// ZScore is the standard-score floor below which a zone alerts.
	ZScore float64 `toml:"zscore"`
	// Delta7d is the week-over-week NDVI drop that alerts regardless of
	// the z-score.
	Delta7d float64 `toml:"delta_7d"`
	// CooldownDays suppresses repeated alerts for the same zone.
	CooldownDays int `toml:"cooldown_days"`
	// StressIndex is the weighted-index floor for the global summary to
	// flag a potential opportunity.
	StressIndex float64 `toml:"stress_index"`
}

// Secrets holds environment-sourced credentials and endpoints.
type Secrets struct {
	ClientID     string
	ClientSecret string
	TelegramTok  string
	TelegramChat string
	WebhookURL   string
	RedisURL     string
	MongoURI     string
}

// Config is the full runtime configuration.
type Config struct {
	Zones       []Zone     `toml:"zones"`
	Thresholds  Thresholds `toml:"thresholds"`
	HistoryFile string     `toml:"history_file"`
	CacheTTL    duration   `toml:"cache_ttl"`
	Listen      string     `toml:"listen"`

	Secrets Secrets `toml:"-"`
}

// duration allows "24h" style values in TOML.
type duration struct{ time.Duration }

func (d *duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// Load builds the configuration.
//
// envFile, when non-empty, is loaded into the process environment first
// (missing file is an error; pass "" to rely on an already-populated
// environment or an optional ./.env). path, when non-empty, points at a
// TOML config file; otherwise defaults are used.
func Load(path, envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "load env file %s", envFile)
		}
	} else {
		// Best-effort: a local .env is common in development.
		_ = godotenv.Load()
	}

	cfg := Default()
	if path != "" {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse config %s", path)
		}
	}

	cfg.Secrets = Secrets{
		ClientID:     os.Getenv(EnvClientID),
		ClientSecret: os.Getenv(EnvClientSecret),
		TelegramTok:  os.Getenv(EnvTelegramTok),
		TelegramChat: os.Getenv(EnvTelegramChat),
		WebhookURL:   os.Getenv(EnvWebhookURL),
		RedisURL:     os.Getenv(EnvRedisURL),
		MongoURI:     os.Getenv(EnvMongoURI),
	}
	if listen := os.Getenv(EnvListen); listen != "" {
		cfg.Listen = listen
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks zone and threshold sanity.
func (c *Config) Validate() error {
	if len(c.Zones) == 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "no zones configured")
	}
	seen := make(map[string]bool, len(c.Zones))
	for _, z := range c.Zones {
		if z.Name == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "zone with empty name")
		}
		if seen[z.Name] {
			return errors.New(errors.ErrCodeInvalidConfig, "duplicate zone %q", z.Name)
		}
		seen[z.Name] = true
		if z.Lat < -90 || z.Lat > 90 {
			return errors.New(errors.ErrCodeInvalidConfig, "zone %q: latitude %g out of range", z.Name, z.Lat)
		}
		if z.Lon < -180 || z.Lon > 180 {
			return errors.New(errors.ErrCodeInvalidConfig, "zone %q: longitude %g out of range", z.Name, z.Lon)
		}
		if z.Weight <= 0 || z.Weight > 1 {
			return errors.New(errors.ErrCodeInvalidConfig, "zone %q: weight %g must be in (0, 1]", z.Name, z.Weight)
		}
	}
	if c.Thresholds.CooldownDays < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "cooldown_days must not be negative")
	}
	return nil
}

// Zone looks up a configured zone by name.
func (c *Config) Zone(name string) (Zone, bool) {
	for _, z := range c.Zones {
		if z.Name == name {
			return z, true
		}
	}
	return Zone{}, false
}

// CacheTTLOrDefault returns the configured cache TTL, defaulting to 24h.
func (c *Config) CacheTTLOrDefault() time.Duration {
	if c.CacheTTL.Duration > 0 {
		return c.CacheTTL.Duration
	}
	return 24 * time.Hour
}
