package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/joeshaw/envdecode"
	"github.com/joho/godotenv"
)

// Store drivers understood by main.
const (
	DriverMongo    = "mongo"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// Config is read once at start-up from the environment (and an optional .env file).
type Config struct {
	Port    string `env:"PORT,default=5000"`
	GinMode string `env:"GIN_MODE,default=release"`

	StoreDriver string `env:"STORE_DRIVER,default=mongo"`

	// MongoDB. MongoURI wins over the Atlas credentials when both are set.
	MongoURI  string `env:"MONGODB_URI"`
	DBUser    string `env:"DB_USER"`
	DBPass    string `env:"DB_PASS"`
	DBCluster string `env:"DB_CLUSTER,default=cluster0.bjkyc58.mongodb.net"`
	DBName    string `env:"DB_NAME,default=bistroDB"`

	// PostgreSQL DSN, used when StoreDriver is postgres.
	DatabaseURL string `env:"DATABASE_URL"`

	AccessTokenSecret string        `env:"ACCESS_TOKEN_SECRET,required"`
	TokenTTL          time.Duration `env:"TOKEN_TTL,default=1h"`

	StripeSecretKey string `env:"STRIPE_SECRET_KEY"`
	Currency        string `env:"PAYMENT_CURRENCY,default=usd"`

	CORSOrigins []string `env:"CORS_ORIGINS,default=*"`
}

// Load reads envFile when present and decodes the environment into a Config.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		// a missing .env is normal outside local development
		_ = godotenv.Load(envFile)
	}

	var cfg Config
	if err := envdecode.Decode(&cfg); err != nil && !errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
		return nil, fmt.Errorf("decode environment: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.StoreDriver {
	case DriverMongo:
		if c.MongoURI == "" && (c.DBUser == "" || c.DBPass == "") {
			return errors.New("mongo store needs MONGODB_URI or DB_USER and DB_PASS")
		}
	case DriverPostgres:
		if c.DatabaseURL == "" {
			return errors.New("postgres store needs DATABASE_URL")
		}
	case DriverMemory:
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q", c.StoreDriver)
	}

	if c.TokenTTL <= 0 {
		return errors.New("TOKEN_TTL must be positive")
	}

	return nil
}

// MongoConnectionURI returns MongoURI or builds the Atlas SRV URI from the credentials.
func (c *Config) MongoConnectionURI() string {
	if c.MongoURI != "" {
		return c.MongoURI
	}

	return fmt.Sprintf("mongodb+srv://%s:%s@%s/?retryWrites=true&w=majority",
		url.QueryEscape(c.DBUser), url.QueryEscape(c.DBPass), c.DBCluster)
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	if strings.HasPrefix(c.Port, ":") {
		return c.Port
	}

	return ":" + c.Port
}
