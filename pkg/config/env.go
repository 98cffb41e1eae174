package config

const (
	EnvPrefix = "FARMSIP"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	FarmSetupDriverPubSub = "pubsub"
	FarmSetupDriverLog    = "log"
)

const (
	EnvAppEnv            = "FARMSIP_APP_ENV"
	EnvPort              = "FARMSIP_APP_PORT"
	EnvDBDSN             = "FARMSIP_DB_DSN"
	EnvDBHost            = "FARMSIP_DB_HOST"
	EnvDBUser            = "FARMSIP_DB_USER"
	EnvDBName            = "FARMSIP_DB_NAME"
	EnvUseSQLite         = "FARMSIP_USE_SQLITE"
	EnvRedisURL          = "FARMSIP_REDIS_URL"
	EnvRazorpayKeyID     = "FARMSIP_RAZORPAY_KEY_ID"
	EnvRazorpayKeySecret = "FARMSIP_RAZORPAY_KEY_SECRET"
	EnvRazorpayWebhook   = "FARMSIP_RAZORPAY_WEBHOOK_SECRET"
	EnvFarmSetupDriver   = "FARMSIP_FARM_SETUP_DRIVER"
	EnvFarmSetupTopic    = "FARMSIP_FARM_SETUP_TOPIC"
	EnvGCPProjectID      = "FARMSIP_GCP_PROJECT_ID"
	EnvCronInterval      = "FARMSIP_CRON_INTERVAL"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
