package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	for _, k := range []string{
		"CATALOG_PATH", "STORE_DRIVER", "STORE_PATH", "DAILY_BASE_COUNT",
		"EXTRA_WRONG_MAX", "EXTRA_RANDOM_OPTIONS", "WRITE_QUEUE_SIZE",
	} {
		t.Setenv(k, "")
	}
}

func TestFromEnv_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, "data/hanja4_cards.json", cfg.CatalogPath)
	assert.Equal(t, "sqlite", cfg.StoreDriver)
	assert.Equal(t, "hanja.db", cfg.StorePath)
	assert.Equal(t, 50, cfg.DailyBaseCount)
	assert.Equal(t, 30, cfg.ExtraWrongMax)
	assert.Equal(t, []int{10, 20, 30}, cfg.ExtraRandomOptions)
	assert.Equal(t, 64, cfg.WriteQueueSize)
}

func TestFromEnv_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("STORE_DRIVER", "badger")
	t.Setenv("STORE_PATH", "/var/lib/hanja")
	t.Setenv("DAILY_BASE_COUNT", "20")
	t.Setenv("EXTRA_RANDOM_OPTIONS", " 5, 15 ")

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, "badger", cfg.StoreDriver)
	assert.Equal(t, "/var/lib/hanja", cfg.StorePath)

	session := cfg.Session()
	assert.Equal(t, 20, session.DailyBaseCount)
	assert.Equal(t, []int{5, 15}, session.ExtraRandomOptions)
	assert.Equal(t, 30, session.ExtraWrongMax)
}

func TestFromEnv_Invalid(t *testing.T) {
	cases := map[string]string{
		"DAILY_BASE_COUNT":     "fifty",
		"EXTRA_WRONG_MAX":      "-1",
		"EXTRA_RANDOM_OPTIONS": "10,,30",
		"WRITE_QUEUE_SIZE":     "0",
		"STORE_DRIVER":         "postgres",
	}
	for k, v := range cases {
		t.Run(k, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(k, v)

			_, err := FromEnv()
			require.Error(t, err)
			assert.Contains(t, err.Error(), k)
		})
	}
}
