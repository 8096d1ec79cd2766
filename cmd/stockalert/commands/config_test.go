package commands

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"stockalert/internal/product"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

const baseConfig = `{
	// tracked pairs
	targets: [
		{
			id: "NVIDIA-RTX-3090TI-FE",
			store: "AMAZON",
			url: "https://www.amazon.ca/dp/B09VT6DYB5",
			title: "NVIDIA GeForce RTX 3090 Ti Founders Edition",
		},
		{
			id: "NVIDIA-RTX-3090TI-FE",
			store: "canada-computers",
			url: "https://www.canadacomputers.com/product_info.php?item_id=211287",
			title: "NVIDIA GeForce RTX 3090 Ti Founders Edition",
		},
	],
	database: {location: "data/stock.db"},
	notifier: {
		discord: {webhook_url: "https://discord.com/api/webhooks/1/from-file"},
	},
	stores: {
		AMAZON: {timeout_seconds: 20, requests_per_second: 0.5},
	},
	concurrency: 4,
}`

func writeConfig(t testing.TB, dir, name, contents string) string {
	path := filepath.Join(dir, name)
	err := os.WriteFile(path, []byte(contents), 0600)
	if err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadConfig(t *testing.T) {
	t.Setenv("DISCORD_WEBHOOK_URL", "")
	t.Setenv("STOCKALERT_DATABASE", "")
	t.Setenv("STOCKALERT_DATABASE_AUTH_TOKEN", "")

	dir := t.TempDir()
	path := writeConfig(t, dir, "config.json5", baseConfig)

	config, err := LoadConfig(path)
	if err != nil {
		t.Fatal(err)
	}

	require.Len(t, config.Targets, 2)
	require.Equal(t, product.AMAZON, config.Targets[0].Store)
	require.Equal(t, product.CANADA_COMPUTERS, config.Targets[1].Store)
	require.Equal(t, "data/stock.db", config.Database.Location)
	require.Equal(t, "https://discord.com/api/webhooks/1/from-file", config.Notifier.Discord.WebhookURL)
	require.Equal(t, 4, config.Concurrency)
	require.Equal(t, "0 * * * *", config.Schedule)

	opts, err := config.ResolverOptions()
	if err != nil {
		t.Fatal(err)
	}
	require.Equal(t, time.Second*20, opts[product.AMAZON].Timeout)
	require.Equal(t, 0.5, opts[product.AMAZON].RequestsPerSecond)
	_, ok := opts[product.NEWEGG]
	require.False(t, ok)
}

func TestLoadConfigLocalOverride(t *testing.T) {
	t.Setenv("DISCORD_WEBHOOK_URL", "")
	t.Setenv("STOCKALERT_DATABASE", "")

	dir := t.TempDir()
	path := writeConfig(t, dir, "config.json5", baseConfig)
	writeConfig(t, dir, "config.local.json5", `{
		notifier: {discord: {webhook_url: "https://discord.com/api/webhooks/1/local"}},
		schedule: "*/15 * * * *",
	}`)

	config, err := LoadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	require.Equal(t, "https://discord.com/api/webhooks/1/local", config.Notifier.Discord.WebhookURL)
	require.Equal(t, "*/15 * * * *", config.Schedule)
	require.Len(t, config.Targets, 2)
}

func TestLoadConfigEnvOverride(t *testing.T) {
	t.Setenv("DISCORD_WEBHOOK_URL", "https://discord.com/api/webhooks/1/env")
	t.Setenv("STOCKALERT_DATABASE", "libsql://stock.turso.io")

	dir := t.TempDir()
	path := writeConfig(t, dir, "config.json5", baseConfig)

	config, err := LoadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	require.Equal(t, "https://discord.com/api/webhooks/1/env", config.Notifier.Discord.WebhookURL)
	require.Equal(t, "libsql://stock.turso.io", config.Database.Location)
}

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("STOCKALERT_DATABASE", "")

	dir := t.TempDir()
	path := writeConfig(t, dir, "config.json5", `{targets: []}`)

	config, err := LoadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	require.Equal(t, "stockalert.db", config.Database.Location)
	require.Equal(t, "0 * * * *", config.Schedule)
}

func TestLoadConfigMissing(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "config.json5"))
	require.True(t, errors.Is(err, os.ErrNotExist))
}

func TestLoadConfigInvalid(t *testing.T) {
	cases := []struct {
		name     string
		contents string
	}{
		{
			name:     "unknown target store",
			contents: `{targets: [{id: "a", store: "BESTBUY", url: "https://example.com"}]}`,
		},
		{
			name:     "missing url",
			contents: `{targets: [{id: "a", store: "NEWEGG"}]}`,
		},
		{
			name:     "missing id",
			contents: `{targets: [{store: "NEWEGG", url: "https://example.com"}]}`,
		},
		{
			name: "duplicate pair",
			contents: `{targets: [
				{id: "a", store: "NEWEGG", url: "https://example.com/1"},
				{id: "a", store: "NEWEGG", url: "https://example.com/2"},
			]}`,
		},
		{
			name:     "unknown store options",
			contents: `{stores: {BESTBUY: {timeout_seconds: 5}}}`,
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			path := writeConfig(t, t.TempDir(), "config.json5", c.contents)
			_, err := LoadConfig(path)
			require.Error(t, err)
			require.False(t, errors.Is(err, os.ErrNotExist))
		})
	}
}

func TestRenderSnapshots(t *testing.T) {
	var out bytes.Buffer
	renderSnapshots(&out, []product.Snapshot{
		product.New(
			product.Key{ProductID: "RTX-3090", Store: product.NEWEGG},
			"RTX 3090",
			"https://newegg.com/p/rtx-3090",
			decimal.NewNullDecimal(decimal.RequireFromString("1649.99")),
			true,
		),
		product.New(
			product.Key{ProductID: "RTX-3090", Store: product.CANADA_COMPUTERS},
			"RTX 3090",
			"https://canadacomputers.com/rtx-3090",
			decimal.NullDecimal{},
			false,
		),
	})

	rendered := out.String()
	require.Contains(t, rendered, "Newegg")
	require.Contains(t, rendered, "$1649.99")
	require.Contains(t, rendered, "Canada Computers")
	require.Contains(t, rendered, "price unavailable")
}
