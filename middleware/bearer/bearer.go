// Package bearer resolves the Authorization header of Fiber requests into an
// identity.IdentityContext.
package bearer

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-identity"
)

// DefaultContextKey is the fiber.Ctx locals key holding the IdentityContext.
const DefaultContextKey = "identity"

// Resolver is the subset of identity.CredentialResolver the middleware needs.
type Resolver interface {
	ResolveHeader(ctx context.Context, header string, opts identity.ResolveOptions) (identity.IdentityContext, error)
}

// Config configures the middleware.
type Config struct {
	// Filter skips the middleware when it returns true.
	Filter func(*fiber.Ctx) bool
	// SuccessHandler runs after the identity is stored. Default: c.Next().
	SuccessHandler fiber.Handler
	// ErrorHandler writes the failure response. Default: JSON error body with
	// a generic message.
	ErrorHandler fiber.ErrorHandler
	// ContextKey is the locals key. Default: "identity".
	ContextKey string
	// Options is the per route resolution policy.
	Options identity.ResolveOptions
	// Logger receives resolution failures.
	Logger identity.Logger
}

// New returns a handler that requires a resolvable bearer credential.
func New(resolver Resolver, config ...Config) fiber.Handler {
	if resolver == nil {
		panic("IDENTITY: bearer middleware configuration: resolver is required.")
	}
	cfg := GetDefaultConfig(config...)

	return func(c *fiber.Ctx) error {
		if cfg.Filter != nil && cfg.Filter(c) {
			return c.Next()
		}

		ic, err := resolver.ResolveHeader(c.UserContext(), c.Get(fiber.HeaderAuthorization), cfg.Options)
		if err != nil {
			if cfg.Logger != nil {
				cfg.Logger.Debug("request %s %s rejected: %v", c.Method(), c.Path(), err)
			}
			return cfg.ErrorHandler(c, err)
		}

		c.Locals(cfg.ContextKey, ic)
		c.SetUserContext(identity.WithIdentity(c.UserContext(), ic))

		return cfg.SuccessHandler(c)
	}
}

// GetDefaultConfig fills unset fields.
func GetDefaultConfig(config ...Config) (cfg Config) {
	if len(config) > 0 {
		cfg = config[0]
	}

	if cfg.SuccessHandler == nil {
		cfg.SuccessHandler = func(c *fiber.Ctx) error {
			return c.Next()
		}
	}

	if cfg.ErrorHandler == nil {
		cfg.ErrorHandler = WriteError
	}

	if cfg.ContextKey == "" {
		cfg.ContextKey = DefaultContextKey
	}

	return cfg
}

// ErrorBody is the JSON shape of error responses.
type ErrorBody struct {
	StatusCode int    `json:"statusCode"`
	Code       string `json:"code,omitempty"`
	Message    string `json:"message"`
}

// WriteError writes err as a JSON error body with its mapped status.
func WriteError(c *fiber.Ctx, err error) error {
	status := identity.StatusCode(err)
	return c.Status(status).JSON(ErrorBody{
		StatusCode: status,
		Code:       identity.TextCode(err),
		Message:    identity.PublicMessage(err),
	})
}

// Identity returns the IdentityContext stored by the middleware.
func Identity(c *fiber.Ctx, key ...string) (identity.IdentityContext, bool) {
	k := DefaultContextKey
	if len(key) > 0 && key[0] != "" {
		k = key[0]
	}
	if ic, ok := c.Locals(k).(identity.IdentityContext); ok {
		return ic, true
	}
	return identity.IdentityFromContext(c.UserContext())
}
