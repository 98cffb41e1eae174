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
	FeatureFlags FeatureFlagsConfig
	Payments     PaymentsConfig
	Razorpay     RazorpayConfig
	FarmSetup    FarmSetupConfig
	GCP          GCPConfig
	Cron         CronConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(cfg.FeatureFlags.UseSQLite); err != nil {
		return nil, err
	}
	if err := cfg.FarmSetup.validate(cfg.GCP); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"FARMSIP_APP_ENV" required:"true"`
	Port         string `envconfig:"FARMSIP_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"FARMSIP_LOG_LEVEL" default:"info"`
	LogFormat    string `envconfig:"FARMSIP_LOG_FORMAT" default:"json"`
	LogWarnStack bool   `envconfig:"FARMSIP_LOG_WARN_STACK" default:"false"`
	// CORSAllowedOrigins is a comma-separated list of browser origins.
	CORSAllowedOrigins []string `envconfig:"FARMSIP_CORS_ALLOWED_ORIGINS"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd) || strings.EqualFold(a.Env, "production")
}

type DBConfig struct {
	DSN        string `envconfig:"FARMSIP_DB_DSN"`
	SQLitePath string `envconfig:"FARMSIP_SQLITE_PATH" default:"farmsip.db"`

	LegacyHost     string `envconfig:"FARMSIP_DB_HOST"`
	LegacyPort     int    `envconfig:"FARMSIP_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"FARMSIP_DB_USER"`
	LegacyPassword string `envconfig:"FARMSIP_DB_PASSWORD"`
	LegacyName     string `envconfig:"FARMSIP_DB_NAME"`
	LegacySSLMode  string `envconfig:"FARMSIP_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"FARMSIP_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"FARMSIP_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"FARMSIP_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"FARMSIP_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"FARMSIP_REDIS_URL" required:"true"`
	Address      string        `envconfig:"FARMSIP_REDIS_ADDR"`
	Password     string        `envconfig:"FARMSIP_REDIS_PASSWORD"`
	DB           int           `envconfig:"FARMSIP_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"FARMSIP_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"FARMSIP_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"FARMSIP_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"FARMSIP_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"FARMSIP_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"FARMSIP_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"FARMSIP_AUTO_MIGRATE" default:"false"`
}

type PaymentsConfig struct {
	Currency           string        `envconfig:"FARMSIP_PAYMENTS_CURRENCY" default:"INR"`
	WebhookDedupeTTL   time.Duration `envconfig:"FARMSIP_PAYMENTS_WEBHOOK_DEDUPE_TTL" default:"72h"`
	RequireWebhookSign bool          `envconfig:"FARMSIP_PAYMENTS_REQUIRE_WEBHOOK_SIGNATURE" default:"true"`
}

type RazorpayConfig struct {
	KeyID         string        `envconfig:"FARMSIP_RAZORPAY_KEY_ID" required:"true"`
	KeySecret     string        `envconfig:"FARMSIP_RAZORPAY_KEY_SECRET" required:"true"`
	WebhookSecret string        `envconfig:"FARMSIP_RAZORPAY_WEBHOOK_SECRET"`
	BaseURL       string        `envconfig:"FARMSIP_RAZORPAY_BASE_URL" default:"https://api.razorpay.com/v1"`
	CallbackURL   string        `envconfig:"FARMSIP_RAZORPAY_CALLBACK_URL"`
	Timeout       time.Duration `envconfig:"FARMSIP_RAZORPAY_TIMEOUT" default:"10s"`
}

type FarmSetupConfig struct {
	// Driver selects the farm-setup collaborator: pubsub or log.
	Driver string `envconfig:"FARMSIP_FARM_SETUP_DRIVER" default:"pubsub"`
	Topic  string `envconfig:"FARMSIP_FARM_SETUP_TOPIC" default:"farm-setup-commands"`
}

type GCPConfig struct {
	ProjectID string `envconfig:"FARMSIP_GCP_PROJECT_ID"`
}

type CronConfig struct {
	Interval time.Duration `envconfig:"FARMSIP_CRON_INTERVAL" default:"15m"`
	LockKey  string        `envconfig:"FARMSIP_CRON_LOCK_KEY" default:"farmsip:cron:lock"`
	LockTTL  time.Duration `envconfig:"FARMSIP_CRON_LOCK_TTL" default:"14m"`
	// ExpiryBatchSize bounds how many overdue links one sweep expires.
	ExpiryBatchSize int `envconfig:"FARMSIP_CRON_EXPIRY_BATCH_SIZE" default:"200"`
	// WebhookEventRetention purges older webhook deliveries; zero keeps them forever.
	WebhookEventRetention time.Duration `envconfig:"FARMSIP_CRON_WEBHOOK_EVENT_RETENTION"`
}

// UsesPubSub reports whether farm setup commands go to Pub/Sub.
func (f FarmSetupConfig) UsesPubSub() bool {
	return strings.EqualFold(strings.TrimSpace(f.Driver), FarmSetupDriverPubSub)
}

func (f FarmSetupConfig) validate(gcp GCPConfig) error {
	switch strings.ToLower(strings.TrimSpace(f.Driver)) {
	case FarmSetupDriverPubSub:
		if strings.TrimSpace(gcp.ProjectID) == "" {
			return fmt.Errorf("%s is required when %s=%s", EnvGCPProjectID, EnvFarmSetupDriver, FarmSetupDriverPubSub)
		}
		if strings.TrimSpace(f.Topic) == "" {
			return fmt.Errorf("%s is required", EnvFarmSetupTopic)
		}
		return nil
	case FarmSetupDriverLog:
		return nil
	default:
		return fmt.Errorf("unsupported %s %q", EnvFarmSetupDriver, f.Driver)
	}
}

func (db *DBConfig) ensureDSN(useSQLite bool) error {
	if db.DSN != "" || useSQLite {
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
