// Package config loads per-service configuration from flags with
// environment-variable fallbacks, mirroring the teacher's
// internal/config/config.go flag.*Var + env* helper pattern.
package config

import (
	"flag"
	"os"
	"strconv"
	"time"
)

// MarketDataConfig configures cmd/marketdatad.
type MarketDataConfig struct {
	Host string
	Port int

	MongoURI string

	InstrumentsFile string
	PumpInterval    time.Duration
	TickRetentionDays int

	RetryAttempts  int
	RetryBaseDelay time.Duration

	DashboardEnabled    bool
	DashboardBufferSize int
}

// LoadMarketDataConfig parses flags (with env fallbacks) for the
// market-data service.
func LoadMarketDataConfig() *MarketDataConfig {
	c := &MarketDataConfig{}

	flag.StringVar(&c.Host, "host", envStr("MARKETDATA_HOST", "0.0.0.0"), "listen host")
	flag.IntVar(&c.Port, "port", envInt("MARKETDATA_PORT", 8200), "HTTP/WebSocket port")

	flag.StringVar(&c.MongoURI, "mongo-uri", envStr("MONGO_URI", "mongodb://localhost:27017/tradingboard"), "MongoDB connection URI")

	flag.StringVar(&c.InstrumentsFile, "instruments", envStr("INSTRUMENTS_FILE", "instruments.json"), "path to the instrument catalog JSON file")
	flag.DurationVar(&c.PumpInterval, "pump-interval", envDuration("PUMP_INTERVAL", time.Second), "interval between pipeline pumps")
	flag.IntVar(&c.TickRetentionDays, "tick-retention", envInt("TICK_RETENTION_DAYS", 7), "tick/book retention in days (0 = keep forever)")

	flag.IntVar(&c.RetryAttempts, "retry-attempts", envInt("RETRY_ATTEMPTS", 3), "persist/publish retry attempts per step")
	flag.DurationVar(&c.RetryBaseDelay, "retry-base-delay", envDuration("RETRY_BASE_DELAY", 50*time.Millisecond), "retry base delay, scaled by attempt number")

	flag.BoolVar(&c.DashboardEnabled, "dashboard", envBool("DASHBOARD_ENABLED", true), "enable the live dashboard WebSocket fanout")
	flag.IntVar(&c.DashboardBufferSize, "dashboard-buffer", envInt("DASHBOARD_BUFFER", 256), "per-viewer send buffer size")

	flag.Parse()
	return c
}

// AuthConfig configures cmd/authd.
type AuthConfig struct {
	Host string
	Port int

	MongoURI string

	StartingBalance string // parsed with decimal.NewFromString by the caller
	BaseCurrency    string
	SessionTTL      time.Duration

	CookieName   string
	CookieDomain string
	CookieSecure bool

	CORSOrigins []string
}

// LoadAuthConfig parses flags (with env fallbacks) for the auth service.
func LoadAuthConfig() *AuthConfig {
	c := &AuthConfig{}

	flag.StringVar(&c.Host, "host", envStr("AUTH_HOST", "0.0.0.0"), "listen host")
	flag.IntVar(&c.Port, "port", envInt("AUTH_PORT", 8300), "HTTP port")

	flag.StringVar(&c.MongoURI, "mongo-uri", envStr("MONGO_URI", "mongodb://localhost:27017/tradingboard"), "MongoDB connection URI")

	flag.StringVar(&c.StartingBalance, "starting-balance", envStr("STARTING_BALANCE", "100000"), "starting cash balance for new accounts")
	flag.StringVar(&c.BaseCurrency, "base-currency", envStr("BASE_CURRENCY", "USD"), "ISO-3 base currency for new accounts")
	flag.DurationVar(&c.SessionTTL, "session-ttl", envDuration("SESSION_TTL", 30*time.Minute), "session token time-to-live")

	flag.StringVar(&c.CookieName, "cookie-name", envStr("COOKIE_NAME", "tb_session"), "session cookie name")
	flag.StringVar(&c.CookieDomain, "cookie-domain", envStr("COOKIE_DOMAIN", ""), "session cookie domain")
	flag.BoolVar(&c.CookieSecure, "cookie-secure", envBool("COOKIE_SECURE", true), "set the Secure flag on the session cookie")

	origins := flag.String("cors-origins", envStr("CORS_ORIGINS", "*"), "comma-separated list of allowed CORS origins")

	flag.Parse()
	c.CORSOrigins = splitCSV(*origins)
	return c
}

// TradingConfig configures cmd/tradingd.
type TradingConfig struct {
	Host string
	Port int

	MongoURI string

	CookieName   string
	CookieDomain string
	CookieSecure bool

	CORSOrigins []string
}

// LoadTradingConfig parses flags (with env fallbacks) for the trading
// service.
func LoadTradingConfig() *TradingConfig {
	c := &TradingConfig{}

	flag.StringVar(&c.Host, "host", envStr("TRADING_HOST", "0.0.0.0"), "listen host")
	flag.IntVar(&c.Port, "port", envInt("TRADING_PORT", 8400), "HTTP port")

	flag.StringVar(&c.MongoURI, "mongo-uri", envStr("MONGO_URI", "mongodb://localhost:27017/tradingboard"), "MongoDB connection URI")

	flag.StringVar(&c.CookieName, "cookie-name", envStr("COOKIE_NAME", "tb_session"), "session cookie name")
	flag.StringVar(&c.CookieDomain, "cookie-domain", envStr("COOKIE_DOMAIN", ""), "session cookie domain")
	flag.BoolVar(&c.CookieSecure, "cookie-secure", envBool("COOKIE_SECURE", true), "set the Secure flag on the session cookie")

	origins := flag.String("cors-origins", envStr("CORS_ORIGINS", "*"), "comma-separated list of allowed CORS origins")

	flag.Parse()
	c.CORSOrigins = splitCSV(*origins)
	return c
}

func envStr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func envBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}

func envDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func splitCSV(s string) []string {
	var out []string
	start := 0
	for i := 0; i <= len(s); i++ {
		if i == len(s) || s[i] == ',' {
			if i > start {
				out = append(out, s[start:i])
			}
			start = i + 1
		}
	}
	return out
}
