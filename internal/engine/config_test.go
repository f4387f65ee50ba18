package engine

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	t.Run("empty path keeps defaults", func(t *testing.T) {
		cfg, err := LoadConfig("")
		require.NoError(t, err)
		assert.Equal(t, "8080", cfg.Port)
		assert.Equal(t, 0.5, cfg.QueryRadiusKm)
		assert.Equal(t, 14, cfg.ZoomThreshold)
		assert.Equal(t, []string{"en"}, cfg.PreferredLanguages())
		assert.IsType(t, RealClock{}, cfg.Clock())
	})

	t.Run("yaml overrides", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "living.yaml")
		data := `
seed: 7
locale: ja
languages: [ja, en]
center: {lat: 35.68, lng: 139.69}
time_scale: 0
snapshot_interval: 250ms
roster: people.csv
`
		require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

		cfg, err := LoadConfig(path)
		require.NoError(t, err)
		assert.Equal(t, int64(7), cfg.Seed)
		assert.Equal(t, "ja", cfg.Locale)
		assert.Equal(t, []string{"ja", "en"}, cfg.PreferredLanguages())
		require.NotNil(t, cfg.Center)
		assert.Equal(t, 35.68, cfg.Center.Lat)
		assert.Equal(t, 250*time.Millisecond, cfg.SnapshotInterval)
		assert.Equal(t, "people.csv", cfg.RosterSource)
		assert.Equal(t, "8080", cfg.Port, "unset keys keep defaults")
		assert.IsType(t, VirtualClock{}, cfg.Clock())
	})

	t.Run("invalid values", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad.yaml")
		require.NoError(t, os.WriteFile(path, []byte("query_radius_km: -1\n"), 0o644))
		_, err := LoadConfig(path)
		assert.Error(t, err)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.Error(t, err)
	})
}
