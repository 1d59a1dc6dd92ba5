package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App        AppConfig
	DB         DBConfig
	Redis      RedisConfig
	JWT        JWTConfig
	Chain      ChainConfig
	Dashboard  DashboardConfig
	Operations OperationsConfig
	Features   FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"STOCKMASTER_APP_ENV" required:"true"`
	Port         string `envconfig:"STOCKMASTER_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"STOCKMASTER_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"STOCKMASTER_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"STOCKMASTER_DB_DSN"`
	Driver string `envconfig:"STOCKMASTER_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"STOCKMASTER_DB_HOST"`
	LegacyPort     int    `envconfig:"STOCKMASTER_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"STOCKMASTER_DB_USER"`
	LegacyPassword string `envconfig:"STOCKMASTER_DB_PASSWORD"`
	LegacyName     string `envconfig:"STOCKMASTER_DB_NAME"`
	LegacySSLMode  string `envconfig:"STOCKMASTER_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"STOCKMASTER_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"STOCKMASTER_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"STOCKMASTER_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"STOCKMASTER_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"STOCKMASTER_REDIS_URL"`
	Address      string        `envconfig:"STOCKMASTER_REDIS_ADDR"`
	Password     string        `envconfig:"STOCKMASTER_REDIS_PASSWORD"`
	DB           int           `envconfig:"STOCKMASTER_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"STOCKMASTER_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"STOCKMASTER_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"STOCKMASTER_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"STOCKMASTER_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"STOCKMASTER_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// Enabled reports whether a redis endpoint was configured at all. The snapshot
// cache is an optional optimization and the API runs fine without it.
func (r RedisConfig) Enabled() bool {
	return r.URL != "" || r.Address != ""
}

type JWTConfig struct {
	Secret            string `envconfig:"STOCKMASTER_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"STOCKMASTER_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"STOCKMASTER_JWT_EXPIRATION_MINUTES" default:"60"`
}

// ChainConfig wires the external append-only ledger gateway.
type ChainConfig struct {
	RPCURL          string        `envconfig:"STOCKMASTER_CHAIN_RPC_URL"`
	ContractAddress string        `envconfig:"STOCKMASTER_CHAIN_CONTRACT_ADDRESS"`
	SigningKey      string        `envconfig:"STOCKMASTER_CHAIN_SIGNING_KEY"`
	CallTimeout     time.Duration `envconfig:"STOCKMASTER_CHAIN_CALL_TIMEOUT" default:"30s"`
}

type DashboardConfig struct {
	CacheTTL time.Duration `envconfig:"STOCKMASTER_DASHBOARD_CACHE_TTL" default:"15s"`
}

type OperationsConfig struct {
	MaxConflictRetries int `envconfig:"STOCKMASTER_OPERATIONS_MAX_CONFLICT_RETRIES" default:"3"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"STOCKMASTER_AUTO_MIGRATE" default:"false"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
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
