package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	// EnvPrefix scopes every environment variable read by Load.
	EnvPrefix = "URBANSWAP"

	AppEnvDev  = "development"
	AppEnvProd = "production"

	EnvAppEnv = "URBANSWAP_APP_ENV"
	EnvDBDSN  = "URBANSWAP_DB_DSN"
	EnvDBHost = "URBANSWAP_DB_HOST"
	EnvDBUser = "URBANSWAP_DB_USER"
	EnvDBName = "URBANSWAP_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	Points        PointsConfig
	Uploads       UploadsConfig
	FeatureFlags  FeatureFlagsConfig
	Client        ClientConfig
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
	Env          string `envconfig:"URBANSWAP_APP_ENV" required:"true"`
	Port         string `envconfig:"URBANSWAP_APP_PORT" default:"3000"`
	LogLevel     string `envconfig:"URBANSWAP_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"URBANSWAP_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"URBANSWAP_DB_DSN"`
	Driver string `envconfig:"URBANSWAP_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"URBANSWAP_DB_HOST"`
	LegacyPort     int    `envconfig:"URBANSWAP_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"URBANSWAP_DB_USER"`
	LegacyPassword string `envconfig:"URBANSWAP_DB_PASSWORD"`
	LegacyName     string `envconfig:"URBANSWAP_DB_NAME"`
	LegacySSLMode  string `envconfig:"URBANSWAP_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"URBANSWAP_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"URBANSWAP_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"URBANSWAP_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"URBANSWAP_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"URBANSWAP_REDIS_URL" required:"true"`
	Address      string        `envconfig:"URBANSWAP_REDIS_ADDR"`
	Password     string        `envconfig:"URBANSWAP_REDIS_PASSWORD"`
	DB           int           `envconfig:"URBANSWAP_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"URBANSWAP_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"URBANSWAP_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"URBANSWAP_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"URBANSWAP_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"URBANSWAP_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"URBANSWAP_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"URBANSWAP_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"URBANSWAP_JWT_EXPIRATION_MINUTES" default:"10080"`
}

// AccessTokenTTL returns the configured token lifetime.
func (j JWTConfig) AccessTokenTTL() time.Duration {
	if j.ExpirationMinutes <= 0 {
		return 0
	}
	return time.Duration(j.ExpirationMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"URBANSWAP_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"URBANSWAP_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"URBANSWAP_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"URBANSWAP_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"URBANSWAP_ARGON_KEY_LEN" default:"32"`
	MinLength        int `envconfig:"URBANSWAP_PASSWORD_MIN_LENGTH" default:"6"`
}

type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"URBANSWAP_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit    int           `envconfig:"URBANSWAP_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit       int           `envconfig:"URBANSWAP_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	RegisterWindow     time.Duration `envconfig:"URBANSWAP_AUTH_RATE_LIMIT_REGISTER_WINDOW" default:"5m"`
	RegisterEmailLimit int           `envconfig:"URBANSWAP_AUTH_RATE_LIMIT_REGISTER_EMAIL_LIMIT" default:"3"`
	RegisterIPLimit    int           `envconfig:"URBANSWAP_AUTH_RATE_LIMIT_REGISTER_IP_LIMIT" default:"20"`
}

// PointsConfig holds the fixed incentive awards granted by the marketplace.
type PointsConfig struct {
	ListingCreated int `envconfig:"URBANSWAP_POINTS_LISTING_CREATED" default:"20"`
	SwapCompleted  int `envconfig:"URBANSWAP_POINTS_SWAP_COMPLETED" default:"50"`
}

type UploadsConfig struct {
	Dir         string        `envconfig:"URBANSWAP_UPLOADS_DIR" default:"public/images/uploads"`
	PublicPath  string        `envconfig:"URBANSWAP_UPLOADS_PUBLIC_PATH" default:"/images/uploads"`
	MaxUploadMB int           `envconfig:"URBANSWAP_MAX_UPLOAD_MB" default:"5"`
	FeaturedTTL time.Duration `envconfig:"URBANSWAP_FEATURED_CACHE_TTL" default:"30s"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"URBANSWAP_AUTO_MIGRATE" default:"false"`
}

type ClientConfig struct {
	URL string `envconfig:"URBANSWAP_CLIENT_URL" default:"http://localhost:3001"`
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
