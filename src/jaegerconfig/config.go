// Package jaegerconfig reads server settings from the environment, optionally
// seeded from a .env file.
package jaegerconfig

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joeshaw/envdecode"
	"github.com/joho/godotenv"
	"go.uber.org/zap/zapcore"
	"golang.org/x/crypto/bcrypt"

	"github.com/MGavranovic/jaeger-tracker/src/jaegerjwt"
)

type Config struct {
	HTTPAddr        string        `env:"HTTP_ADDR,default=:8080"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT,default=10s"`

	// DBURL selects PostgreSQL; empty runs on the in-memory store.
	DBURL       string        `env:"DB_URL"`
	DBMaxConns  int32         `env:"DB_MAX_CONNS,default=10"`
	DBOpTimeout time.Duration `env:"DB_OP_TIMEOUT,default=5s"`

	LogFile  string `env:"LOG_FILE"`
	LogLevel string `env:"LOG_LEVEL,default=info"`

	JWTKey      string        `env:"JWT_KEY"`
	JWTIssuer   string        `env:"JWT_ISSUER,default=jaeger"`
	JWTAudience string        `env:"JWT_AUDIENCE,default=jaeger-clients"`
	JWTExpiry   time.Duration `env:"JWT_EXPIRY,default=60m"`

	// CORSAllowedOrigins is comma separated. Listed origins may send
	// credentials; "*" admits any other origin without them.
	CORSAllowedOrigins string  `env:"CORS_ALLOWED_ORIGINS,default=*"`
	AuthRateLimit      float64 `env:"AUTH_RATE_LIMIT,default=5"`
	AuthRateBurst      int     `env:"AUTH_RATE_BURST,default=10"`

	BcryptCost int `env:"BCRYPT_COST,default=10"`
}

// Load reads the first of envFiles that exists, without overriding variables
// already set, and decodes the environment.
func Load(envFiles ...string) (Config, error) {
	for _, f := range envFiles {
		err := godotenv.Load(f)
		if err == nil {
			break
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("failed loading the environment file %s: %w", f, err)
		}
	}

	var cfg Config
	if err := envdecode.Decode(&cfg); err != nil && !errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
		return Config{}, fmt.Errorf("decoding environment: %w", err)
	}
	return cfg, nil
}

// Validate checks the settings needed to serve requests and issue tokens.
func (c Config) Validate() error {
	var errs []error
	if len(c.JWTKey) < jaegerjwt.MinKeyLength {
		errs = append(errs, fmt.Errorf("JWT_KEY must be at least %d bytes", jaegerjwt.MinKeyLength))
	}
	if c.JWTExpiry <= 0 {
		errs = append(errs, errors.New("JWT_EXPIRY must be positive"))
	}
	if c.DBOpTimeout <= 0 {
		errs = append(errs, errors.New("DB_OP_TIMEOUT must be positive"))
	}
	if c.BcryptCost < bcrypt.MinCost || c.BcryptCost > bcrypt.MaxCost {
		errs = append(errs, fmt.Errorf("BCRYPT_COST must be between %d and %d", bcrypt.MinCost, bcrypt.MaxCost))
	}
	if c.AuthRateLimit <= 0 || c.AuthRateBurst <= 0 {
		errs = append(errs, errors.New("AUTH_RATE_LIMIT and AUTH_RATE_BURST must be positive"))
	}
	if _, err := zapcore.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, fmt.Errorf("LOG_LEVEL %q is not a known level", c.LogLevel))
	}
	return errors.Join(errs...)
}

// AllowedOrigins splits CORSAllowedOrigins, dropping blanks.
func (c Config) AllowedOrigins() []string {
	var out []string
	for _, o := range strings.Split(c.CORSAllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}

func (c Config) JWT() jaegerjwt.Config {
	return jaegerjwt.Config{
		Key:      []byte(c.JWTKey),
		Issuer:   c.JWTIssuer,
		Audience: c.JWTAudience,
		Expiry:   c.JWTExpiry,
	}
}
