package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App      AppConfig
	API      APIConfig
	State    StateConfig
	Redis    RedisConfig
	Discount DiscountConfig
	Mock     MockConfig
	Password PasswordConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.API.validate(); err != nil {
		return nil, err
	}
	if err := cfg.State.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"STOREFRONT_APP_ENV" required:"true"`
	LogLevel     string `envconfig:"STOREFRONT_LOG_LEVEL" default:"info"`
	LogFormat    string `envconfig:"STOREFRONT_LOG_FORMAT" default:"json"`
	LogWarnStack bool   `envconfig:"STOREFRONT_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

// APIConfig points the client at the storefront backend.
type APIConfig struct {
	BaseURL string        `envconfig:"STOREFRONT_API_BASE_URL" default:"http://localhost:8088/api"`
	Timeout time.Duration `envconfig:"STOREFRONT_API_TIMEOUT" default:"5s"`
	Tracing bool          `envconfig:"STOREFRONT_API_TRACING" default:"false"`
}

type StateConfig struct {
	Driver     string `envconfig:"STOREFRONT_STATE_DRIVER" default:"sqlite"`
	SQLitePath string `envconfig:"STOREFRONT_STATE_SQLITE_PATH" default:"storefront.db"`
}

type RedisConfig struct {
	URL          string        `envconfig:"STOREFRONT_REDIS_URL"`
	Address      string        `envconfig:"STOREFRONT_REDIS_ADDR"`
	Password     string        `envconfig:"STOREFRONT_REDIS_PASSWORD"`
	DB           int           `envconfig:"STOREFRONT_REDIS_DB" default:"0"`
	Namespace    string        `envconfig:"STOREFRONT_REDIS_NAMESPACE" default:"sf"`
	DialTimeout  time.Duration `envconfig:"STOREFRONT_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"STOREFRONT_REDIS_READ_TIMEOUT" default:"3s"`
	WriteTimeout time.Duration `envconfig:"STOREFRONT_REDIS_WRITE_TIMEOUT" default:"3s"`
}

// DiscountConfig holds the rate applied when the backend accepts a code without stating one.
type DiscountConfig struct {
	DefaultPercent int `envconfig:"STOREFRONT_DISCOUNT_DEFAULT_PERCENT" default:"10"`
}

type MockConfig struct {
	Port      string        `envconfig:"STOREFRONT_MOCK_PORT" default:"8088"`
	JWTSecret string        `envconfig:"STOREFRONT_MOCK_JWT_SECRET" default:"mock-secret"`
	TokenTTL  time.Duration `envconfig:"STOREFRONT_MOCK_TOKEN_TTL" default:"24h"`
	Seed      bool          `envconfig:"STOREFRONT_MOCK_SEED" default:"true"`
}

// PasswordConfig tunes the Argon2id hashing the mock backend applies to account passwords.
type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"STOREFRONT_MOCK_ARGON_MEMORY_KB" default:"8192"`
	ArgonTime        int `envconfig:"STOREFRONT_MOCK_ARGON_TIME" default:"1"`
	ArgonParallelism int `envconfig:"STOREFRONT_MOCK_ARGON_PARALLELISM" default:"1"`
	ArgonSaltLen     int `envconfig:"STOREFRONT_MOCK_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"STOREFRONT_MOCK_ARGON_KEY_LEN" default:"32"`
}

func (a *APIConfig) validate() error {
	trimmed := strings.TrimRight(strings.TrimSpace(a.BaseURL), "/")
	u, err := url.Parse(trimmed)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("%s must be an absolute url, got %q", EnvAPIBaseURL, a.BaseURL)
	}
	if a.Timeout <= 0 {
		return fmt.Errorf("%s must be positive", EnvAPITimeout)
	}
	a.BaseURL = trimmed
	return nil
}

func (s *StateConfig) validate() error {
	driver := strings.ToLower(strings.TrimSpace(s.Driver))
	switch driver {
	case StateDriverSQLite:
		if strings.TrimSpace(s.SQLitePath) == "" {
			return fmt.Errorf("%s is required for the sqlite driver", EnvStateSQLitePath)
		}
	case StateDriverRedis, StateDriverMemory:
	default:
		return fmt.Errorf("unknown %s %q", EnvStateDriver, s.Driver)
	}
	s.Driver = driver
	return nil
}
