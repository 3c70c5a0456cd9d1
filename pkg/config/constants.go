package config

const (
	EnvPrefix = "PRISTENEO"

	AppEnvDev  = "dev"
	AppEnvProd = "production"

	CartBackendMemory = "memory"
	CartBackendRedis  = "redis"
	CartBackendSQL    = "sql"

	DBDriverPostgres = "postgres"
	DBDriverSQLite   = "sqlite"
)

const (
	EnvAppEnv          = "PRISTENEO_APP_ENV"
	EnvPort            = "PRISTENEO_APP_PORT"
	EnvSanityProjectID = "PRISTENEO_SANITY_PROJECT_ID"
	EnvSanityDataset   = "PRISTENEO_SANITY_DATASET"
	EnvResendAPIKey    = "PRISTENEO_RESEND_API_KEY"
	EnvCartBackend     = "PRISTENEO_CART_BACKEND"
	EnvRedisURL        = "PRISTENEO_REDIS_URL"
	EnvDBDSN           = "PRISTENEO_DB_DSN"
	EnvDBDriver        = "PRISTENEO_DB_DRIVER"
	EnvCORSOrigins     = "PRISTENEO_CORS_ORIGINS"
)
