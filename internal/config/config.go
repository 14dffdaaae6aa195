package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	// Common
	Env      string `yaml:"env"`
	LogLevel string `yaml:"log_level"`
	LogFile  string `yaml:"log_file"`
	// API
	Port        string `yaml:"port"`
	Storage     string `yaml:"storage"`
	DatabaseURL string `yaml:"database_url"`
	// Market data
	Provider       string        `yaml:"provider"`
	MarketAPIBase  string        `yaml:"market_api_base"`
	MarketAPIKey   string        `yaml:"market_api_key"`
	Coins          []string      `yaml:"coins"`
	Currency       string        `yaml:"currency"`
	RequestTimeout time.Duration `yaml:"request_timeout"`
	// Pipeline input/output
	HistoricalPath  string `yaml:"historical_path"`
	DefaultCoin     string `yaml:"default_coin"`
	ChartCoin       string `yaml:"chart_coin"`
	OutputDir       string `yaml:"output_dir"`
	ReportFile      string `yaml:"report_file"`
	PriceChartFile  string `yaml:"price_chart_file"`
	ChangeChartFile string `yaml:"change_chart_file"`
	// Worker
	WorkerType      string        `yaml:"worker_type"`
	WorkerPoll      time.Duration `yaml:"worker_poll"`
	WorkerBatchSize int           `yaml:"worker_batch_size"`
	ReportSchedule  string        `yaml:"report_schedule"`
	// Redis (idempotency)
	IdempotencyBackend string        `yaml:"idempotency_backend"`
	RedisAddr          string        `yaml:"redis_addr"`
	RedisPassword      string        `yaml:"redis_password"`
	RedisDB            int           `yaml:"redis_db"`
	RedisTTL           time.Duration `yaml:"redis_ttl"`
}

func defaults() Config {
	return Config{
		Env:                "local",
		LogLevel:           "info",
		LogFile:            "pipeline.log",
		Port:               "8080",
		Storage:            "memory",
		Provider:           "coingecko",
		MarketAPIBase:      "https://api.coingecko.com/api/v3",
		Coins:              []string{"bitcoin", "ethereum", "solana"},
		Currency:           "usd",
		RequestTimeout:     10 * time.Second,
		HistoricalPath:     "historical_prices.csv",
		DefaultCoin:        "bitcoin",
		ChartCoin:          "bitcoin",
		OutputDir:          ".",
		ReportFile:         "crypto_report.xlsx",
		PriceChartFile:     "bitcoin_price_chart.png",
		ChangeChartFile:    "price_change_comparison.png",
		WorkerType:         "db",
		WorkerPoll:         250 * time.Millisecond,
		WorkerBatchSize:    10,
		IdempotencyBackend: "none",
		RedisAddr:          "localhost:6379",
		RedisTTL:           24 * time.Hour,
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func atoiDef(s string, def int) int {
	i, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return i
}

func msDef(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return time.Duration(atoiDef(v, int(def/time.Millisecond))) * time.Millisecond
}

// Load applies defaults, then the YAML file named by CONFIG_FILE (if any),
// then environment variables.
func Load() (Config, error) {
	cfg := defaults()
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.mergeFile(path); err != nil {
			return Config{}, err
		}
	}
	cfg.applyEnv()
	return cfg, nil
}

func (c *Config) mergeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}
	return nil
}

func (c *Config) applyEnv() {
	c.Env = getEnv("ENV", c.Env)
	c.LogLevel = getEnv("LOG_LEVEL", c.LogLevel)
	c.LogFile = getEnv("LOG_FILE", c.LogFile)
	c.Port = getEnv("PORT", c.Port)
	c.Storage = getEnv("STORAGE", c.Storage)
	c.DatabaseURL = getEnv("DATABASE_URL", c.DatabaseURL)
	c.Provider = getEnv("PROVIDER", c.Provider)
	c.MarketAPIBase = getEnv("MARKET_API_BASE", c.MarketAPIBase)
	c.MarketAPIKey = getEnv("MARKET_API_KEY", c.MarketAPIKey)
	if v := os.Getenv("COINS"); v != "" {
		c.Coins = strings.Split(v, ",")
	}
	c.Currency = getEnv("CURRENCY", c.Currency)
	c.RequestTimeout = msDef("REQUEST_TIMEOUT_MS", c.RequestTimeout)
	c.HistoricalPath = getEnv("HISTORICAL_PATH", c.HistoricalPath)
	c.DefaultCoin = getEnv("DEFAULT_COIN", c.DefaultCoin)
	c.ChartCoin = getEnv("CHART_COIN", c.ChartCoin)
	c.OutputDir = getEnv("OUTPUT_DIR", c.OutputDir)
	c.ReportFile = getEnv("REPORT_FILE", c.ReportFile)
	c.PriceChartFile = getEnv("PRICE_CHART_FILE", c.PriceChartFile)
	c.ChangeChartFile = getEnv("CHANGE_CHART_FILE", c.ChangeChartFile)
	c.WorkerType = getEnv("WORKER_TYPE", c.WorkerType)
	c.WorkerPoll = msDef("WORKER_POLL_MS", c.WorkerPoll)
	c.WorkerBatchSize = atoiDef(getEnv("WORKER_BATCH_LIMIT", ""), c.WorkerBatchSize)
	c.ReportSchedule = getEnv("REPORT_SCHEDULE", c.ReportSchedule)
	c.IdempotencyBackend = getEnv("IDEMPOTENCY_BACKEND", c.IdempotencyBackend)
	c.RedisAddr = getEnv("REDIS_ADDR", c.RedisAddr)
	c.RedisPassword = getEnv("REDIS_PASSWORD", c.RedisPassword)
	c.RedisDB = atoiDef(getEnv("REDIS_DB", ""), c.RedisDB)
	c.RedisTTL = msDef("IDEMPOTENCY_TTL_MS", c.RedisTTL)
}
