package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestIsUsableCredential(t *testing.T) {
	cases := map[string]bool{
		"":                  false,
		"   ":               false,
		"changeme":          false,
		"YOUR_API_KEY_HERE": false,
		"<api key>":         false,
		"xxxxxxxx":          false,
		"sk_live_8f2a91c4":  true,
		"abc123":            true,
	}
	for key, want := range cases {
		assert.Equal(t, want, IsUsableCredential(key), "key %q", key)
	}
}

func TestLoad(t *testing.T) {
	t.Run("defaults without provider key", func(t *testing.T) {
		t.Setenv("PROVIDER_API_KEY", "")
		t.Setenv("SYNC_TOURS", "")
		t.Setenv("SYNC_SEASONS", "")

		cfg := Load()

		assert.False(t, cfg.Provider.Available)
		assert.Equal(t, []string{"ATP", "WTA"}, cfg.Sync.Tours)
		assert.Equal(t, []int{time.Now().Year()}, cfg.Sync.Seasons)
		assert.Equal(t, 500, cfg.Cache.MaxEntries)
		assert.Equal(t, 3600, cfg.Cache.TTLSeconds)
		assert.Equal(t, 15*time.Second, cfg.Provider.Timeout)
	})

	t.Run("reads overrides", func(t *testing.T) {
		t.Setenv("PROVIDER_API_KEY", "real-key-123")
		t.Setenv("PROVIDER_BASE_URL", "http://provider.local/")
		t.Setenv("SYNC_TOURS", "wta, atp")
		t.Setenv("SYNC_SEASONS", "2019, nope, 2020")
		t.Setenv("CACHE_MAX_ENTRIES", "42")
		t.Setenv("CACHE_TTL_SECONDS", "-5")
		t.Setenv("SYNC_ON_STARTUP", "true")

		cfg := Load()

		assert.True(t, cfg.Provider.Available)
		assert.Equal(t, "http://provider.local", cfg.Provider.BaseURL)
		assert.Equal(t, []string{"WTA", "ATP"}, cfg.Sync.Tours)
		assert.Equal(t, []int{2019, 2020}, cfg.Sync.Seasons)
		assert.Equal(t, 42, cfg.Cache.MaxEntries)
		assert.Equal(t, 3600, cfg.Cache.TTLSeconds, "negative values fall back to the default")
		assert.True(t, cfg.Sync.OnStartup)
	})
}
