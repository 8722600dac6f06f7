package api

import (
	"context"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-identity"
	"github.com/goliatone/go-identity/middleware/bearer"
)

// AuthFlows is the sign-in surface of identity.AuthService.
type AuthFlows interface {
	GoogleAuth(ctx context.Context, idToken string) (*identity.GoogleAuthResult, error)
	EmailSignup(ctx context.Context, input identity.EmailSignup) (*identity.CustomTokenResult, error)
	EmailLogin(ctx context.Context, input identity.EmailLogin) (*identity.CustomTokenResult, error)
}

// AuthController handles the /auth routes.
type AuthController struct {
	Flows  AuthFlows
	Logger identity.Logger
}

// GoogleAuthPayload holds the Google sign-in ID token.
type GoogleAuthPayload struct {
	IDToken string `json:"idToken" form:"idToken"`
}

// Validate will validate the payload
func (p GoogleAuthPayload) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.IDToken, validation.Required),
	)
}

// GoogleAuth handles POST /auth/google. Every failure is a 401 except store
// outages.
func (a *AuthController) GoogleAuth(c *fiber.Ctx) error {
	payload := new(GoogleAuthPayload)
	if err := c.BodyParser(payload); err != nil {
		return bearer.WriteError(c, identity.ErrInvalidCredential)
	}
	payload.IDToken = strings.TrimSpace(payload.IDToken)
	if err := payload.Validate(); err != nil {
		return bearer.WriteError(c, identity.ErrInvalidCredential)
	}

	res, err := a.Flows.GoogleAuth(c.UserContext(), payload.IDToken)
	if err != nil {
		a.logError("google auth failed: %v", err)
		return bearer.WriteError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(res)
}

// EmailSignup handles POST /auth/signup.
func (a *AuthController) EmailSignup(c *fiber.Ctx) error {
	payload := new(identity.EmailSignup)
	if err := c.BodyParser(payload); err != nil {
		return bearer.WriteError(c, identity.ErrInvalidPayload)
	}

	res, err := a.Flows.EmailSignup(c.UserContext(), *payload)
	if err != nil {
		a.logError("email signup failed: %v", err)
		return bearer.WriteError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(res)
}

// EmailLogin handles POST /auth/login.
func (a *AuthController) EmailLogin(c *fiber.Ctx) error {
	payload := new(identity.EmailLogin)
	if err := c.BodyParser(payload); err != nil {
		return bearer.WriteError(c, identity.ErrInvalidLogin)
	}

	res, err := a.Flows.EmailLogin(c.UserContext(), *payload)
	if err != nil {
		return bearer.WriteError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(res)
}

func (a *AuthController) logError(format string, args ...any) {
	if a.Logger != nil {
		a.Logger.Error(format, args...)
	}
}
