package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	Password     PasswordConfig
	FeatureFlags FeatureFlagsConfig
	GCP          GCPConfig
	PubSub       PubSubConfig
	Outbox       OutboxConfig
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
	Env          string `envconfig:"FISHMARKET_APP_ENV" required:"true"`
	Port         string `envconfig:"FISHMARKET_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"FISHMARKET_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"FISHMARKET_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"FISHMARKET_DB_DSN"`
	Driver string `envconfig:"FISHMARKET_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"FISHMARKET_DB_HOST"`
	LegacyPort     int    `envconfig:"FISHMARKET_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"FISHMARKET_DB_USER"`
	LegacyPassword string `envconfig:"FISHMARKET_DB_PASSWORD"`
	LegacyName     string `envconfig:"FISHMARKET_DB_NAME"`
	LegacySSLMode  string `envconfig:"FISHMARKET_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"FISHMARKET_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"FISHMARKET_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"FISHMARKET_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"FISHMARKET_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"FISHMARKET_REDIS_URL"`
	Address      string        `envconfig:"FISHMARKET_REDIS_ADDR"`
	Password     string        `envconfig:"FISHMARKET_REDIS_PASSWORD"`
	DB           int           `envconfig:"FISHMARKET_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"FISHMARKET_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"FISHMARKET_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"FISHMARKET_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"FISHMARKET_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"FISHMARKET_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"FISHMARKET_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"FISHMARKET_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"FISHMARKET_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"FISHMARKET_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"FISHMARKET_ARGON_KEY_LEN" default:"32"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"FISHMARKET_AUTO_MIGRATE" default:"false"`
}

type GCPConfig struct {
	ProjectID              string `envconfig:"FISHMARKET_GCP_PROJECT_ID"`
	CredentialsJSON        string `envconfig:"FISHMARKET_GCP_CREDENTIALS_JSON"`
	ApplicationCredentials string `envconfig:"FISHMARKET_GOOGLE_APPLICATION_CREDENTIALS"`
}

type PubSubConfig struct {
	DomainTopic        string `envconfig:"FISHMARKET_PUBSUB_DOMAIN_TOPIC" default:"fm-domain-events"`
	DomainSubscription string `envconfig:"FISHMARKET_PUBSUB_DOMAIN_SUBSCRIPTION"`
}

type OutboxConfig struct {
	BatchSize      int `envconfig:"FISHMARKET_OUTBOX_PUBLISH_BATCH_SIZE" default:"50"`
	PollIntervalMS int `envconfig:"FISHMARKET_OUTBOX_PUBLISH_POLL_MS" default:"500"`
	MaxAttempts    int `envconfig:"FISHMARKET_OUTBOX_MAX_ATTEMPTS" default:"10"`
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
