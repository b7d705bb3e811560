package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	defaultEnv             = "local"
	defaultPort            = "8080"
	defaultDatabaseURL     = "travel.db"
	defaultJWTSecret       = "change-me-jwt-secret"
	defaultJWTTTL          = "24h"
	defaultSnapURL         = "https://app.sandbox.midtrans.com/snap/v1"
	defaultAPIURL          = "https://api.sandbox.midtrans.com/v2"
	defaultProdSnapURL     = "https://app.midtrans.com/snap/v1"
	defaultProdAPIURL      = "https://api.midtrans.com/v2"
	defaultOrderPrefix     = "TRX"
	defaultLoginAttempts   = 5
	defaultLoginWindow     = "15m"
	defaultKafkaTopic      = "booking-events"
	defaultUploadDir       = "./uploads"
	defaultFrontendBaseURL = "http://localhost:5173"
	defaultBackendBaseURL  = "http://localhost:8080"
)

type Config struct {
	App       AppConfig       `yaml:"app"`
	Database  DatabaseConfig  `yaml:"database"`
	Auth      AuthConfig      `yaml:"auth"`
	Gateway   GatewayConfig   `yaml:"gateway"`
	Redis     RedisConfig     `yaml:"redis"`
	Kafka     KafkaConfig     `yaml:"kafka"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	Upload    UploadConfig    `yaml:"upload"`
}

type AppConfig struct {
	Env             string `yaml:"env"`
	Port            string `yaml:"port"`
	LogLevel        string `yaml:"log_level"`
	LogFormat       string `yaml:"log_format"`
	FrontendBaseURL string `yaml:"frontend_base_url"`
	BackendBaseURL  string `yaml:"backend_base_url"`
	// TrustedProxies lists proxy IPs or CIDRs allowed to set X-Forwarded-For.
	// Empty means the socket peer is the client.
	TrustedProxies []string `yaml:"trusted_proxies"`
	CORSOrigins    []string `yaml:"cors_origins"`
}

type DatabaseConfig struct {
	URL string `yaml:"url"`
}

type AuthConfig struct {
	JWTSecret string        `yaml:"jwt_secret"`
	JWTTTL    time.Duration `yaml:"jwt_ttl"`
}

// GatewayConfig holds the hosted payment gateway credentials.
// IsProduction also switches webhook signature verification on; it is off otherwise.
type GatewayConfig struct {
	ServerKey    string        `yaml:"server_key"`
	ClientKey    string        `yaml:"client_key"`
	IsProduction bool          `yaml:"is_production"`
	SnapURL      string        `yaml:"snap_url"`
	APIURL       string        `yaml:"api_url"`
	OrderPrefix  string        `yaml:"order_prefix"`
	Timeout      time.Duration `yaml:"timeout"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type KafkaConfig struct {
	Brokers []string `yaml:"brokers"`
	Topic   string   `yaml:"topic"`
}

type RateLimitConfig struct {
	LoginAttempts int           `yaml:"login_attempts"`
	LoginWindow   time.Duration `yaml:"login_window"`
}

type UploadConfig struct {
	Dir string `yaml:"dir"`
}

// WebhookURL is the notification endpoint the gateway dashboard should point at.
func (c *Config) WebhookURL() string {
	return strings.TrimRight(c.App.BackendBaseURL, "/") + "/api/payment/notification"
}

// FinishURL is where the hosted payment page sends the customer back to.
func (c *Config) FinishURL() string {
	return strings.TrimRight(c.App.FrontendBaseURL, "/") + "/payment/finish"
}

// localFrontends are the dev servers of the storefront and back office.
var localFrontends = []string{
	"http://localhost:3000",
	"http://localhost:5173",
	"http://127.0.0.1:3000",
	"http://127.0.0.1:5173",
}

// AllowedOrigins is the CORS allow list: the frontend, CORS_ALLOWED_ORIGINS and, outside
// production, the local dev servers.
func (c *Config) AllowedOrigins() []string {
	out := append([]string{c.App.FrontendBaseURL}, c.App.CORSOrigins...)
	if !c.IsProdLike() {
		out = append(out, localFrontends...)
	}
	return out
}

func (c *Config) IsDevelopment() bool {
	return c.App.Env == "development" || c.App.Env == "dev"
}

// DevEndpointsEnabled reports whether the payment simulation routes may be mounted.
// They need an explicit development env and a sandbox gateway.
func (c *Config) DevEndpointsEnabled() bool {
	return c.IsDevelopment() && !c.Gateway.IsProduction
}

func (c *Config) IsProdLike() bool {
	return isProdLike(c.App.Env)
}

// Load reads an optional .env file, then an optional YAML file (CONFIG_PATH), then
// applies environment variables on top.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cfg := &Config{}
	if path := strings.TrimSpace(os.Getenv("CONFIG_PATH")); path != "" {
		if err := loadYAML(path, cfg); err != nil {
			return nil, err
		}
	}

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}
	applyDefaults(cfg)

	if err := validateConfig(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadYAML(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	expanded := os.ExpandEnv(string(data))
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

func applyEnv(cfg *Config) error {
	setString(&cfg.App.Env, "APP_ENV", "NODE_ENV")
	setString(&cfg.App.Port, "PORT")
	setString(&cfg.App.LogLevel, "LOG_LEVEL")
	setString(&cfg.App.LogFormat, "LOG_FORMAT")
	setString(&cfg.App.FrontendBaseURL, "FRONTEND_URL")
	setString(&cfg.App.BackendBaseURL, "BACKEND_URL")
	setString(&cfg.Database.URL, "DATABASE_URL")
	setString(&cfg.Auth.JWTSecret, "JWT_SECRET")
	setString(&cfg.Gateway.ServerKey, "GATEWAY_SERVER_KEY", "MIDTRANS_SERVER_KEY")
	setString(&cfg.Gateway.ClientKey, "GATEWAY_CLIENT_KEY", "MIDTRANS_CLIENT_KEY")
	setString(&cfg.Gateway.SnapURL, "GATEWAY_SNAP_URL")
	setString(&cfg.Gateway.APIURL, "GATEWAY_API_URL")
	setString(&cfg.Gateway.OrderPrefix, "GATEWAY_ORDER_PREFIX")
	setString(&cfg.Redis.Addr, "REDIS_ADDR")
	setString(&cfg.Redis.Password, "REDIS_PASSWORD")
	setString(&cfg.Kafka.Topic, "KAFKA_TOPIC")
	setString(&cfg.Upload.Dir, "UPLOAD_DIR")

	if v, ok := lookup("GATEWAY_IS_PRODUCTION", "MIDTRANS_IS_PRODUCTION"); ok {
		cfg.Gateway.IsProduction = parseBool(v)
	}
	if v, ok := lookup("TRUSTED_PROXIES"); ok {
		cfg.App.TrustedProxies = splitList(v)
	}
	if v, ok := lookup("CORS_ALLOWED_ORIGINS"); ok {
		cfg.App.CORSOrigins = splitList(v)
	}
	if v, ok := lookup("KAFKA_BROKERS"); ok {
		cfg.Kafka.Brokers = splitList(v)
	}

	var err error
	if cfg.Auth.JWTTTL, err = durationEnv("JWT_TTL", cfg.Auth.JWTTTL); err != nil {
		return err
	}
	if cfg.Gateway.Timeout, err = durationEnv("GATEWAY_TIMEOUT", cfg.Gateway.Timeout); err != nil {
		return err
	}
	if cfg.RateLimit.LoginWindow, err = durationEnv("LOGIN_RATE_WINDOW", cfg.RateLimit.LoginWindow); err != nil {
		return err
	}
	if cfg.RateLimit.LoginAttempts, err = intEnv("LOGIN_RATE_ATTEMPTS", cfg.RateLimit.LoginAttempts); err != nil {
		return err
	}
	if cfg.Redis.DB, err = intEnv("REDIS_DB", cfg.Redis.DB); err != nil {
		return err
	}
	return nil
}

func applyDefaults(cfg *Config) {
	cfg.App.Env = strings.ToLower(strings.TrimSpace(cfg.App.Env))
	if cfg.App.Env == "" {
		cfg.App.Env = defaultEnv
	}
	if cfg.App.Port == "" {
		cfg.App.Port = defaultPort
	}
	if cfg.App.LogLevel == "" {
		cfg.App.LogLevel = "info"
	}
	if cfg.App.LogFormat == "" {
		cfg.App.LogFormat = "text"
		if isProdLike(cfg.App.Env) {
			cfg.App.LogFormat = "json"
		}
	}
	if cfg.App.FrontendBaseURL == "" {
		cfg.App.FrontendBaseURL = defaultFrontendBaseURL
	}
	if cfg.App.BackendBaseURL == "" {
		cfg.App.BackendBaseURL = defaultBackendBaseURL
	}
	if cfg.Database.URL == "" {
		cfg.Database.URL = defaultDatabaseURL
	}
	if cfg.Auth.JWTSecret == "" {
		cfg.Auth.JWTSecret = defaultJWTSecret
	}
	if cfg.Auth.JWTTTL == 0 {
		cfg.Auth.JWTTTL, _ = time.ParseDuration(defaultJWTTTL)
	}
	if cfg.Gateway.SnapURL == "" {
		cfg.Gateway.SnapURL = defaultSnapURL
		if cfg.Gateway.IsProduction {
			cfg.Gateway.SnapURL = defaultProdSnapURL
		}
	}
	if cfg.Gateway.APIURL == "" {
		cfg.Gateway.APIURL = defaultAPIURL
		if cfg.Gateway.IsProduction {
			cfg.Gateway.APIURL = defaultProdAPIURL
		}
	}
	if cfg.Gateway.OrderPrefix == "" {
		cfg.Gateway.OrderPrefix = defaultOrderPrefix
	}
	if cfg.Kafka.Topic == "" {
		cfg.Kafka.Topic = defaultKafkaTopic
	}
	if cfg.RateLimit.LoginAttempts == 0 {
		cfg.RateLimit.LoginAttempts = defaultLoginAttempts
	}
	if cfg.RateLimit.LoginWindow == 0 {
		cfg.RateLimit.LoginWindow, _ = time.ParseDuration(defaultLoginWindow)
	}
	if cfg.Upload.Dir == "" {
		cfg.Upload.Dir = defaultUploadDir
	}
}

func validateConfig(cfg *Config) error {
	if cfg.Auth.JWTTTL <= 0 {
		return fmt.Errorf("JWT_TTL must be > 0")
	}
	if cfg.Gateway.Timeout < 0 {
		return fmt.Errorf("GATEWAY_TIMEOUT must be >= 0")
	}
	if cfg.RateLimit.LoginAttempts < 1 {
		return fmt.Errorf("LOGIN_RATE_ATTEMPTS must be >= 1")
	}
	if cfg.RateLimit.LoginWindow <= 0 {
		return fmt.Errorf("LOGIN_RATE_WINDOW must be > 0")
	}
	if strings.Contains(cfg.Gateway.OrderPrefix, "-") {
		return fmt.Errorf("GATEWAY_ORDER_PREFIX must not contain '-'")
	}

	if isProdLike(cfg.App.Env) {
		if isEmptyOrDefault(cfg.Auth.JWTSecret, defaultJWTSecret) {
			return fmt.Errorf("in prod/release JWT_SECRET must be set and not default")
		}
		if strings.TrimSpace(cfg.Gateway.ServerKey) == "" {
			return fmt.Errorf("in prod/release GATEWAY_SERVER_KEY must be set")
		}
	}
	return nil
}

func isProdLike(env string) bool {
	env = strings.ToLower(strings.TrimSpace(env))
	return env == "prod" || env == "production" || env == "release"
}

func isEmptyOrDefault(v, def string) bool {
	trimmed := strings.TrimSpace(v)
	return trimmed == "" || trimmed == def
}

func lookup(names ...string) (string, bool) {
	for _, name := range names {
		if v := strings.TrimSpace(os.Getenv(name)); v != "" {
			return v, true
		}
	}
	return "", false
}

func setString(dst *string, names ...string) {
	if v, ok := lookup(names...); ok {
		*dst = v
	}
}

func durationEnv(name string, current time.Duration) (time.Duration, error) {
	v, ok := lookup(name)
	if !ok {
		return current, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", name, v, err)
	}
	return d, nil
}

func intEnv(name string, current int) (int, error) {
	v, ok := lookup(name)
	if !ok {
		return current, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", name, v, err)
	}
	return n, nil
}

func parseBool(v string) bool {
	v = strings.ToLower(strings.TrimSpace(v))
	return v == "1" || v == "true" || v == "yes" || v == "on"
}

func splitList(v string) []string {
	var out []string
	for _, p := range strings.Split(v, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
