package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"go.uber.org/multierr"
)

type Config struct {
	App          AppConfig
	Store        StoreConfig
	DB           DBConfig
	Redis        RedisConfig
	Ledger       LedgerConfig
	Report       ReportConfig
	FeatureFlags FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.Store.Driver == StoreDriverSQL {
		if err := cfg.DB.ensureDSN(); err != nil {
			return nil, err
		}
	}
	return &cfg, nil
}

// Validate checks cross-field constraints envconfig cannot express.
func (c *Config) Validate() error {
	var errs error
	switch c.Store.Driver {
	case StoreDriverMemory, StoreDriverSQL, StoreDriverRedis:
	default:
		errs = multierr.Append(errs, fmt.Errorf("%s must be one of memory, sql, redis (got %q)", EnvStoreDriver, c.Store.Driver))
	}
	if c.Store.Driver == StoreDriverSQL {
		switch c.DB.Driver {
		case DBDriverSQLite, DBDriverPostgres:
		default:
			errs = multierr.Append(errs, fmt.Errorf("%s must be sqlite or postgres (got %q)", EnvDBDriver, c.DB.Driver))
		}
	}
	if c.Store.Driver == StoreDriverRedis && c.Redis.URL == "" && c.Redis.Address == "" {
		errs = multierr.Append(errs, fmt.Errorf("either %s or %s is required for the redis store", EnvRedisURL, EnvRedisAddr))
	}
	if c.Ledger.LowStockThreshold < 0 {
		errs = multierr.Append(errs, fmt.Errorf("%s cannot be negative", EnvLowStockThreshold))
	}
	return errs
}

type AppConfig struct {
	Env          string `envconfig:"CELLAR_APP_ENV" required:"true"`
	LogLevel     string `envconfig:"CELLAR_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"CELLAR_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

// StoreConfig selects the blob store backing the ledger collections.
type StoreConfig struct {
	Driver string `envconfig:"CELLAR_STORE_DRIVER" default:"sql"`
}

type DBConfig struct {
	Driver string `envconfig:"CELLAR_DB_DRIVER" default:"sqlite"`
	DSN    string `envconfig:"CELLAR_DB_DSN"`

	LegacyHost     string `envconfig:"CELLAR_DB_HOST"`
	LegacyPort     int    `envconfig:"CELLAR_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"CELLAR_DB_USER"`
	LegacyPassword string `envconfig:"CELLAR_DB_PASSWORD"`
	LegacyName     string `envconfig:"CELLAR_DB_NAME"`
	LegacySSLMode  string `envconfig:"CELLAR_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"CELLAR_DB_MAX_OPEN_CONNS" default:"5"`
	MaxIdleConns    int           `envconfig:"CELLAR_DB_MAX_IDLE_CONNS" default:"2"`
	ConnMaxLifetime time.Duration `envconfig:"CELLAR_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"CELLAR_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"CELLAR_REDIS_URL"`
	Address      string        `envconfig:"CELLAR_REDIS_ADDR"`
	Password     string        `envconfig:"CELLAR_REDIS_PASSWORD"`
	DB           int           `envconfig:"CELLAR_REDIS_DB" default:"0"`
	Namespace    string        `envconfig:"CELLAR_REDIS_NAMESPACE" default:"cellar"`
	PoolSize     int           `envconfig:"CELLAR_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"CELLAR_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"CELLAR_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"CELLAR_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"CELLAR_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// LedgerConfig tunes business-rule thresholds.
type LedgerConfig struct {
	LowStockThreshold  int  `envconfig:"CELLAR_LOW_STOCK_THRESHOLD" default:"10"`
	StrictProductMatch bool `envconfig:"CELLAR_STRICT_PRODUCT_MATCH" default:"false"`
}

type ReportConfig struct {
	OutputPath string `envconfig:"CELLAR_REPORT_OUTPUT_PATH" default:"product-status-report.xlsx"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"CELLAR_AUTO_MIGRATE" default:"false"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}
	if db.Driver == DBDriverSQLite {
		db.DSN = "cellar.db"
		return nil
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: db.LegacyHost,
		EnvDBUser: db.LegacyUser,
		EnvDBName: db.LegacyName,
	}
	for _, env := range legacyDBEnvVars {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.LegacyUser)
	if db.LegacyPassword != "" {
		userInfo = url.UserPassword(db.LegacyUser, db.LegacyPassword)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.LegacyHost, db.LegacyPort),
		Path:   db.LegacyName,
	}

	if db.LegacySSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.LegacySSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
