package identity

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	validation "github.com/go-ozzo/ozzo-validation"
)

// Store backends understood by Config.Store.
const (
	StoreSQLite = "sqlite"
	StoreMongo  = "mongo"
)

// Config holds the runtime settings for credential resolution, account
// management and the HTTP surface. Values are read from the environment.
type Config struct {
	DevMode                   bool   `env:"IDENTITY_DEV_MODE" envDefault:"false"`
	TestSentinel              string `env:"IDENTITY_TEST_SENTINEL" envDefault:"test-token"`
	EmulatorIssuerMarker      string `env:"IDENTITY_EMULATOR_ISSUER_MARKER" envDefault:"firebase-auth-emulator"`
	CustomTokenAudienceMarker string `env:"IDENTITY_CUSTOM_TOKEN_AUDIENCE_MARKER" envDefault:"identitytoolkit"`

	ProjectID             string        `env:"FB_PROJECT_ID"`
	ServiceAccountEmail   string        `env:"FB_CLIENT_EMAIL"`
	CustomTokenSigningKey string        `env:"IDENTITY_CUSTOM_TOKEN_SIGNING_KEY"`
	CustomTokenTTL        time.Duration `env:"IDENTITY_CUSTOM_TOKEN_TTL" envDefault:"1h"`
	PasswordCost          int           `env:"IDENTITY_PASSWORD_COST" envDefault:"10"`

	HTTPAddr      string `env:"IDENTITY_HTTP_ADDR" envDefault:":8080"`
	Store         string `env:"IDENTITY_STORE" envDefault:"sqlite"`
	SQLiteDSN     string `env:"IDENTITY_SQLITE_DSN" envDefault:":memory:"`
	MongoURI      string `env:"IDENTITY_MONGO_URI" envDefault:"mongodb://localhost:27017"`
	MongoDatabase string `env:"IDENTITY_MONGO_DATABASE" envDefault:"identity"`

	LogLevel string `env:"IDENTITY_LOG_LEVEL" envDefault:"info"`
}

// ConfigFromEnv parses Config from the process environment and validates it.
func ConfigFromEnv() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the settings that cannot be defaulted.
func (c Config) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.ProjectID, requiredUnless(c.DevMode)),
		validation.Field(&c.CustomTokenTTL, validation.Min(time.Second)),
		validation.Field(&c.PasswordCost, validation.Min(4), validation.Max(31)),
		validation.Field(&c.Store, validation.In(StoreSQLite, StoreMongo)),
		validation.Field(&c.MongoURI, requiredUnless(!strings.EqualFold(c.Store, StoreMongo))),
		validation.Field(&c.LogLevel, validation.In("debug", "info", "warn", "error", "disabled")),
	)
}

func requiredUnless(skip bool) validation.Rule {
	if skip {
		return validation.By(func(interface{}) error { return nil })
	}
	return validation.Required
}
