package config

import (
	"os"

	perrors "github.com/pkg/errors"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v2"
)

const configFilePathENV = "CONFIG_FILE"

// Config ...
type Config struct {
	Service struct {
		AdminPort int `yaml:"admin_port"`
	} `yaml:"service"`

	Telegram struct {
		Token  string `yaml:"token"`
		ChatID int64  `yaml:"chat_id"`
	} `yaml:"telegram"`

	// DSN журнала сделок; пусто — журнал выключен
	DB string `yaml:"db_dsn"`

	Jaeger struct {
		Host string `yaml:"host"`
		Port int    `yaml:"port"`
	} `yaml:"jaeger"`

	API struct {
		Key             string `yaml:"key"`
		Secret          string `yaml:"secret"`
		BaseURL         string `yaml:"base_url"`
		WSURL           string `yaml:"ws_url"`
		WSUserStreamURL string `yaml:"ws_user_stream_url"`
	} `yaml:"api"`

	// Стартовые параметры трейда: задаются один раз, на лету не перечитываются
	Trade struct {
		Symbol         string  `yaml:"symbol"`
		UsdtQty        float64 `yaml:"usdt_qty"`
		Leverage       int     `yaml:"leverage"`
		AssetPrecision int     `yaml:"asset_precision"`
		StopPrice      float64 `yaml:"stop_price"`
	} `yaml:"trade"`

	Strategy struct {
		TakeProfit  float64 `yaml:"take_profit"`  // доля от stop_price, 0.05 => 5%
		StopLoss    float64 `yaml:"stop_loss"`    // 0.005 => 0.5%
		Delta       float64 `yaml:"delta"`        // сдвиг против мгновенного ре-триггера
		MaxPullback int     `yaml:"max_pullback"` // потолок суммы long+short pullback
	} `yaml:"strategy"`
}

func NewConfig() (*Config, error) {
	configFileName := os.Getenv(configFilePathENV)
	if configFileName == "" {
		configFileName = "values_local.yaml"
	}

	file, err := os.Open("configs/" + configFileName)
	if err != nil {
		return nil, perrors.Wrap(err, "open config file")
	}
	defer func() {
		_ = file.Close()
	}()

	config := Config{}
	config.API.BaseURL = "https://fapi.binance.com"
	config.API.WSURL = "wss://ws-fapi.binance.com/ws-fapi/v1"
	config.API.WSUserStreamURL = "wss://fstream.binance.com/ws/"
	config.Strategy.TakeProfit = 0.05
	config.Strategy.StopLoss = 0.005
	config.Strategy.Delta = 0.0001
	config.Strategy.MaxPullback = 10

	if err := yaml.NewDecoder(file).Decode(&config); err != nil {
		return nil, perrors.Wrap(err, "decode config file")
	}

	// секреты из окружения перекрывают файл: BOT_API_KEY, BOT_API_SECRET и т.д.
	env := viper.New()
	env.SetEnvPrefix("BOT")
	env.AutomaticEnv()

	if v := env.GetString("API_KEY"); v != "" {
		config.API.Key = v
	}
	if v := env.GetString("API_SECRET"); v != "" {
		config.API.Secret = v
	}
	if v := env.GetString("TELEGRAM_TOKEN"); v != "" {
		config.Telegram.Token = v
	}
	if v := env.GetInt64("TELEGRAM_CHAT_ID"); v != 0 {
		config.Telegram.ChatID = v
	}
	if v := env.GetString("DATABASE_DSN"); v != "" {
		config.DB = v
	}

	if err := config.validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

func (c *Config) validate() error {
	switch {
	case c.API.Key == "" || c.API.Secret == "":
		return perrors.New("api key/secret are required")
	case c.Trade.Symbol == "":
		return perrors.New("trade.symbol is required")
	case c.Trade.UsdtQty <= 0:
		return perrors.New("trade.usdt_qty must be > 0")
	case c.Trade.StopPrice <= 0:
		return perrors.New("trade.stop_price must be > 0")
	case c.Trade.Leverage <= 0:
		return perrors.New("trade.leverage must be > 0")
	case c.Trade.AssetPrecision < 0:
		return perrors.New("trade.asset_precision must be >= 0")
	case c.Strategy.MaxPullback <= 0:
		return perrors.New("strategy.max_pullback must be > 0")
	}
	return nil
}
