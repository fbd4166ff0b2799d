package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validYAML = `
service:
  admin_port: 9090
api:
  key: file-key
  secret: file-secret
trade:
  symbol: FILUSDC
  usdt_qty: 10
  leverage: 10
  asset_precision: 0
  stop_price: 5.8
`

func writeConfig(t *testing.T, body string) {
	t.Helper()

	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "configs"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "configs", "values_local.yaml"), []byte(body), 0o644))
	t.Chdir(dir)
}

func TestNewConfigDefaults(t *testing.T) {
	writeConfig(t, validYAML)

	cfg, err := NewConfig()
	require.NoError(t, err)

	assert.Equal(t, "file-key", cfg.API.Key)
	assert.Equal(t, "file-secret", cfg.API.Secret)
	assert.Equal(t, "FILUSDC", cfg.Trade.Symbol)
	assert.Equal(t, 9090, cfg.Service.AdminPort)

	// незаполненное берётся из дефолтов
	assert.Equal(t, "https://fapi.binance.com", cfg.API.BaseURL)
	assert.Equal(t, "wss://ws-fapi.binance.com/ws-fapi/v1", cfg.API.WSURL)
	assert.Equal(t, 0.05, cfg.Strategy.TakeProfit)
	assert.Equal(t, 0.005, cfg.Strategy.StopLoss)
	assert.Equal(t, 0.0001, cfg.Strategy.Delta)
	assert.Equal(t, 10, cfg.Strategy.MaxPullback)
}

func TestNewConfigEnvOverridesFile(t *testing.T) {
	writeConfig(t, validYAML)
	t.Setenv("BOT_API_KEY", "env-key")
	t.Setenv("BOT_API_SECRET", "env-secret")
	t.Setenv("BOT_DATABASE_DSN", "postgres://bot@localhost/journal")

	cfg, err := NewConfig()
	require.NoError(t, err)

	assert.Equal(t, "env-key", cfg.API.Key)
	assert.Equal(t, "env-secret", cfg.API.Secret)
	assert.Equal(t, "postgres://bot@localhost/journal", cfg.DB)
}

func TestNewConfigValidation(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{
			name: "missing credentials",
			yaml: `
trade:
  symbol: FILUSDC
  usdt_qty: 10
  leverage: 10
  stop_price: 5.8
`,
		},
		{
			name: "missing symbol",
			yaml: `
api:
  key: k
  secret: s
trade:
  usdt_qty: 10
  leverage: 10
  stop_price: 5.8
`,
		},
		{
			name: "non-positive stop price",
			yaml: `
api:
  key: k
  secret: s
trade:
  symbol: FILUSDC
  usdt_qty: 10
  leverage: 10
  stop_price: 0
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("BOT_API_KEY", "")
			t.Setenv("BOT_API_SECRET", "")
			writeConfig(t, tt.yaml)
			_, err := NewConfig()
			require.Error(t, err)
		})
	}
}

func TestNewConfigMissingFile(t *testing.T) {
	t.Chdir(t.TempDir())
	_, err := NewConfig()
	require.Error(t, err)
}
