package configs

import (
	"fmt"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

type Config struct {
	App struct {
		Name     string `koanf:"name"`
		HTTPAddr string `koanf:"http_addr"`
		// BaseURL is the public origin of this deployment; the payment
		// callback URL is BaseURL + the fixed callback path.
		BaseURL  string `koanf:"base_url"`
		LogLevel string `koanf:"log_level"`
		LogFile  string `koanf:"log_file"`
	} `koanf:"app"`

	HTTP struct {
		ReadTimeout  time.Duration `koanf:"read_timeout"`
		WriteTimeout time.Duration `koanf:"write_timeout"`
		IdleTimeout  time.Duration `koanf:"idle_timeout"`
	} `koanf:"http"`

	MySQL struct {
		DSN             string        `koanf:"dsn"`
		MaxOpenConns    int           `koanf:"max_open_conns"`
		MaxIdleConns    int           `koanf:"max_idle_conns"`
		ConnMaxLifetime time.Duration `koanf:"conn_max_lifetime"`
	} `koanf:"mysql"`

	Redis struct {
		Addr     string `koanf:"addr"`
		Password string `koanf:"password"`
	} `koanf:"redis"`

	Cache struct {
		StatusTTL time.Duration `koanf:"status_ttl"`
		StatsTTL  time.Duration `koanf:"stats_ttl"`
	} `koanf:"cache"`

	Idempotency struct {
		TTL time.Duration `koanf:"ttl"`
	} `koanf:"idempotency"`

	Paystack struct {
		BaseURL   string `koanf:"base_url"`
		SecretKey string `koanf:"secret_key"`
		Currency  string `koanf:"currency"`
	} `koanf:"paystack"`

	Rabbit struct {
		URL      string `koanf:"url"`
		Exchange string `koanf:"exchange"`
	} `koanf:"rabbitmq"`

	Kafka struct {
		Brokers []string `koanf:"brokers"`
		GroupID string   `koanf:"group_id"`
		Topic   string   `koanf:"topic"`
	} `koanf:"kafka"`

	Security struct {
		JWTSecret string        `koanf:"jwt_secret"`
		Issuer    string        `koanf:"issuer"`
		Audience  string        `koanf:"audience"`
		TokenTTL  time.Duration `koanf:"token_ttl"`
		// WebhookSecret signs gateway webhook bodies (HMAC-SHA512). Paystack
		// uses the API secret key; kept separate so it can be rotated alone.
		WebhookSecret string `koanf:"webhook_secret"`
	} `koanf:"security"`
}

// Load reads <pathDir>/base.yaml, overlays <pathDir>/<envName>.yaml when it
// exists, then overlays GAB_* environment variables (nested keys with __,
// e.g. GAB_MYSQL__DSN, GAB_PAYSTACK__SECRET_KEY).
func Load(pathDir, envName string) (Config, error) {
	k := koanf.New(".")

	if err := k.Load(file.Provider(fmt.Sprintf("%s/base.yaml", pathDir)), yaml.Parser()); err != nil {
		return Config{}, fmt.Errorf("load base: %w", err)
	}

	// Env overlay (dev/staging/prod) is optional for local runs.
	_ = k.Load(file.Provider(fmt.Sprintf("%s/%s.yaml", pathDir, envName)), yaml.Parser())

	if err := k.Load(env.Provider("GAB_", ".", func(s string) string {
		s = strings.TrimPrefix(s, "GAB_")
		s = strings.ReplaceAll(s, "__", ".")
		return strings.ToLower(s)
	}), nil); err != nil {
		return Config{}, fmt.Errorf("env overlay: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.App.HTTPAddr == "" {
		return fmt.Errorf("app.http_addr required")
	}
	if c.App.BaseURL == "" {
		return fmt.Errorf("app.base_url required (payment callback URL is derived from it)")
	}
	if c.MySQL.DSN == "" {
		return fmt.Errorf("mysql.dsn required")
	}
	if c.Paystack.SecretKey == "" {
		return fmt.Errorf("paystack.secret_key required")
	}
	if c.Paystack.Currency == "" {
		return fmt.Errorf("paystack.currency required")
	}
	if c.Security.JWTSecret == "" {
		return fmt.Errorf("security.jwt_secret required")
	}
	if len(c.Kafka.Brokers) == 0 {
		return fmt.Errorf("kafka.brokers required")
	}
	return nil
}

// WebhookKey returns the secret used to verify gateway webhook signatures,
// defaulting to the API secret key when no dedicated secret is configured.
func (c Config) WebhookKey() string {
	if c.Security.WebhookSecret != "" {
		return c.Security.WebhookSecret
	}
	return c.Paystack.SecretKey
}
