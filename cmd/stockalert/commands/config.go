package commands

import (
	"fmt"
	"stockalert/internal/notifier"
	"stockalert/internal/product"
	"stockalert/internal/resolver"
	"stockalert/lib/configutil"
	"time"
)

const (
	defaultSchedule = "0 * * * *"
	defaultDatabase = "stockalert.db"
)

type DatabaseConfig struct {
	// Location is a sqlite file path or a libsql:// url.
	Location  string `json:"location"`
	AuthToken string `json:"auth_token"`
}

type StoreConfig struct {
	TimeoutSeconds    int     `json:"timeout_seconds"`
	RequestsPerSecond float64 `json:"requests_per_second"`
	UserAgent         string  `json:"user_agent"`
}

type Config struct {
	Targets  []product.Target `json:"targets"`
	Database DatabaseConfig   `json:"database"`
	Notifier notifier.Config  `json:"notifier"`
	// Stores is keyed by store name, ex. "AMAZON".
	Stores      map[string]StoreConfig `json:"stores"`
	Concurrency int                    `json:"concurrency"`
	// Schedule is a standard 5 field cron spec used by serve.
	Schedule string `json:"schedule"`
	Timezone string `json:"timezone"`
}

// LoadConfig reads the configuration at path, applies environment
// overrides and defaults, then validates it.
func LoadConfig(path string) (Config, error) {
	config, err := configutil.ReadConfig[Config](path)
	if err != nil {
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}
	config.applyEnv()
	config.applyDefaults()
	err = config.Validate()
	if err != nil {
		return Config{}, err
	}
	return config, nil
}

func (c *Config) applyEnv() {
	configutil.Env(&c.Notifier.Discord.WebhookURL, "DISCORD_WEBHOOK_URL")
	configutil.Env(&c.Database.Location, "STOCKALERT_DATABASE")
	configutil.Env(&c.Database.AuthToken, "STOCKALERT_DATABASE_AUTH_TOKEN")
}

func (c *Config) applyDefaults() {
	if c.Database.Location == "" {
		c.Database.Location = defaultDatabase
	}
	if c.Schedule == "" {
		c.Schedule = defaultSchedule
	}
}

// Validate checks that every target can be resolved and that no pair is
// tracked twice.
func (c Config) Validate() error {
	seen := map[product.Key]bool{}
	for i, t := range c.Targets {
		if t.ProductID == "" {
			return fmt.Errorf("targets[%d]: id is required", i)
		}
		if !t.Store.Valid() {
			return fmt.Errorf("targets[%d]: %w", i, product.ErrUnknownStore)
		}
		if t.URL == "" {
			return fmt.Errorf("targets[%d]: url is required", i)
		}
		if seen[t.Key()] {
			return fmt.Errorf("targets[%d]: %s is tracked more than once", i, t.Key())
		}
		seen[t.Key()] = true
	}
	_, err := c.ResolverOptions()
	return err
}

// ResolverOptions converts the per store configuration into client options.
func (c Config) ResolverOptions() (map[product.StoreID]resolver.ClientOptions, error) {
	out := map[product.StoreID]resolver.ClientOptions{}
	for name, store := range c.Stores {
		id, err := product.ParseStoreID(name)
		if err != nil {
			return nil, fmt.Errorf("stores.%s: %w", name, err)
		}
		out[id] = resolver.ClientOptions{
			Timeout:           time.Duration(store.TimeoutSeconds) * time.Second,
			RequestsPerSecond: store.RequestsPerSecond,
			UserAgent:         store.UserAgent,
		}
	}
	return out, nil
}
