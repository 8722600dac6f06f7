package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-identity"
	"github.com/goliatone/go-identity/middleware/bearer"
)

// Dependencies are the collaborators the routes need.
type Dependencies struct {
	Resolver   bearer.Resolver
	Flows      AuthFlows
	Profiles   identity.ProfileStore
	Reconciler ProfileReconciler
	Logger     identity.Logger
}

// RegisterRoutes mounts the auth and profile routes on r.
func RegisterRoutes(r fiber.Router, deps Dependencies) {
	auth := &AuthController{Flows: deps.Flows, Logger: deps.Logger}
	profiles := &ProfileController{
		Store:      deps.Profiles,
		Reconciler: deps.Reconciler,
		Logger:     deps.Logger,
	}

	authGroup := r.Group("/auth")
	authGroup.Post("/google", auth.GoogleAuth)
	authGroup.Post("/signup", auth.EmailSignup)
	authGroup.Post("/login", auth.EmailLogin)

	requireIdentity := bearer.New(deps.Resolver, bearer.Config{Logger: deps.Logger})

	users := r.Group("/users", requireIdentity)
	users.Get("/me", profiles.GetMe)
	users.Post("/me", profiles.CreateMe)
	users.Patch("/me", profiles.UpdateMe)
	users.Patch("/:id", profiles.Update)
}
