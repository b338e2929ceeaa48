package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
)

type Config struct {
	Env      string   `toml:"env"`
	Port     string   `toml:"port"`
	Origins  []string `toml:"cors_origins"`
	Database Database `toml:"database"`
	Redis    Redis    `toml:"redis"`
	Kafka    Kafka    `toml:"kafka"`
	Auth     Auth     `toml:"auth"`
	Razorpay Razorpay `toml:"razorpay"`
	Shipping Shipping `toml:"shipping"`
	Orders   Orders   `toml:"orders"`
	Session  Session  `toml:"session"`
}

type Database struct {
	Driver   string `toml:"driver"` // postgres | memory
	URL      string `toml:"url"`
	Host     string `toml:"host"`
	Port     string `toml:"port"`
	User     string `toml:"user"`
	Password string `toml:"password"`
	Name     string `toml:"name"`
}

// DSN returns URL when set, otherwise a key/value DSN built from the parts.
func (d Database) DSN() string {
	if d.URL != "" {
		return d.URL
	}
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=UTC",
		d.Host, d.User, d.Password, d.Name, d.Port,
	)
}

type Redis struct {
	Addr     string `toml:"addr"` // empty keeps caches in process
	Password string `toml:"password"`
	DB       int    `toml:"db"`
}

type Kafka struct {
	Brokers []string `toml:"brokers"` // empty disables publishing
	Topic   string   `toml:"topic"`
}

// Duration reads "45m" style values from TOML.
type Duration time.Duration

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

func (d Duration) Std() time.Duration { return time.Duration(d) }

type Auth struct {
	JWTSecret   string   `toml:"jwt_secret"`
	TokenTTL    Duration `toml:"token_ttl"`
	AdminAPIKey string   `toml:"admin_api_key"`
}

type Razorpay struct {
	KeyID       string   `toml:"key_id"`
	KeySecret   string   `toml:"key_secret"`
	PublicKeyID string   `toml:"public_key_id"`
	BaseURL     string   `toml:"base_url"`
	Currency    string   `toml:"currency"`
	Timeout     Duration `toml:"timeout"`
}

// Shipping amounts are whole major currency units.
type Shipping struct {
	FlatFee       int64 `toml:"flat_fee"`
	FreeThreshold int64 `toml:"free_threshold"`
}

type Orders struct {
	StrictTransitions bool     `toml:"strict_transitions"`
	IdempotencyTTL    Duration `toml:"idempotency_ttl"`
	IntentLockTTL     Duration `toml:"intent_lock_ttl"`
}

type Session struct {
	TTL Duration `toml:"ttl"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Env:     "development",
		Port:    "8080",
		Origins: []string{"*"},
		Database: Database{
			Driver: "postgres",
			Host:   "localhost",
			Port:   "5432",
			User:   "postgres",
			Name:   "storefront",
		},
		Kafka: Kafka{Topic: "storefront.orders"},
		Auth:  Auth{TokenTTL: Duration(24 * time.Hour)},
		Razorpay: Razorpay{
			BaseURL:  "https://api.razorpay.com",
			Currency: "INR",
			Timeout:  Duration(15 * time.Second),
		},
		Shipping: Shipping{FlatFee: 99, FreeThreshold: 2500},
		Orders: Orders{
			IdempotencyTTL: Duration(24 * time.Hour),
			IntentLockTTL:  Duration(30 * time.Second),
		},
		Session: Session{TTL: Duration(30 * 24 * time.Hour)},
	}
}

// Load layers defaults, an optional TOML file, a .env file and the process
// environment, in that order, then validates the result.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	_ = godotenv.Load()

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) error {
	setString(&cfg.Env, "ENV")
	setString(&cfg.Port, "PORT")
	setList(&cfg.Origins, "CORS_ORIGINS")

	setString(&cfg.Database.Driver, "DB_DRIVER")
	setString(&cfg.Database.URL, "DATABASE_URL")
	setString(&cfg.Database.Host, "DB_HOST")
	setString(&cfg.Database.Port, "DB_PORT")
	setString(&cfg.Database.User, "DB_USER")
	setString(&cfg.Database.Password, "DB_PASSWORD")
	setString(&cfg.Database.Name, "DB_NAME")

	setString(&cfg.Redis.Addr, "REDIS_ADDR")
	setString(&cfg.Redis.Password, "REDIS_PASSWORD")
	if err := setInt(&cfg.Redis.DB, "REDIS_DB"); err != nil {
		return err
	}

	setList(&cfg.Kafka.Brokers, "KAFKA_BROKERS")
	setString(&cfg.Kafka.Topic, "KAFKA_TOPIC")

	setString(&cfg.Auth.JWTSecret, "JWT_SECRET")
	setString(&cfg.Auth.AdminAPIKey, "ADMIN_API_KEY")
	if err := setDuration(&cfg.Auth.TokenTTL, "JWT_TTL"); err != nil {
		return err
	}

	setString(&cfg.Razorpay.KeyID, "RAZORPAY_KEY_ID")
	setString(&cfg.Razorpay.KeySecret, "RAZORPAY_KEY_SECRET")
	setString(&cfg.Razorpay.PublicKeyID, "RAZORPAY_PUBLIC_KEY_ID")
	setString(&cfg.Razorpay.BaseURL, "RAZORPAY_BASE_URL")
	setString(&cfg.Razorpay.Currency, "RAZORPAY_CURRENCY")
	if err := setDuration(&cfg.Razorpay.Timeout, "RAZORPAY_TIMEOUT"); err != nil {
		return err
	}

	if err := setInt64(&cfg.Shipping.FlatFee, "SHIPPING_FLAT_FEE"); err != nil {
		return err
	}
	if err := setInt64(&cfg.Shipping.FreeThreshold, "SHIPPING_FREE_THRESHOLD"); err != nil {
		return err
	}

	if v := os.Getenv("ORDERS_STRICT_TRANSITIONS"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("ORDERS_STRICT_TRANSITIONS: %w", err)
		}
		cfg.Orders.StrictTransitions = b
	}
	if err := setDuration(&cfg.Orders.IdempotencyTTL, "IDEMPOTENCY_TTL"); err != nil {
		return err
	}
	if err := setDuration(&cfg.Orders.IntentLockTTL, "PAYMENT_INTENT_LOCK_TTL"); err != nil {
		return err
	}
	return setDuration(&cfg.Session.TTL, "SESSION_TTL")
}

// Validate rejects settings the server cannot start with.
func (c *Config) Validate() error {
	var errs []error
	if c.Port == "" {
		errs = append(errs, errors.New("port is required"))
	}
	switch c.Database.Driver {
	case "postgres", "memory":
	default:
		errs = append(errs, fmt.Errorf("database.driver %q must be postgres or memory", c.Database.Driver))
	}
	if c.Auth.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET is required"))
	}
	if c.Razorpay.KeyID == "" || c.Razorpay.KeySecret == "" {
		errs = append(errs, errors.New("RAZORPAY_KEY_ID and RAZORPAY_KEY_SECRET are required"))
	}
	if c.Razorpay.PublicKeyID == "" {
		c.Razorpay.PublicKeyID = c.Razorpay.KeyID
	}
	if c.Shipping.FlatFee < 0 || c.Shipping.FreeThreshold < 0 {
		errs = append(errs, errors.New("shipping amounts must not be negative"))
	}
	if c.Orders.IdempotencyTTL <= 0 || c.Orders.IntentLockTTL <= 0 || c.Session.TTL <= 0 {
		errs = append(errs, errors.New("ttl settings must be positive"))
	}
	return errors.Join(errs...)
}

// Production reports whether gin should run in release mode.
func (c *Config) Production() bool {
	return c.Env == "production"
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setList(dst *[]string, key string) {
	v := os.Getenv(key)
	if v == "" {
		return
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	*dst = out
}

func setInt(dst *int, key string) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = n
	return nil
}

func setInt64(dst *int64, key string) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = n
	return nil
}

func setDuration(dst *Duration, key string) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = Duration(d)
	return nil
}
