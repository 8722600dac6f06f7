package api

import (
	"context"
	stderrors "errors"

	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-identity"
	"github.com/goliatone/go-identity/middleware/bearer"
)

// ProfileReconciler creates or merges profiles.
type ProfileReconciler interface {
	Reconcile(ctx context.Context, ic identity.IdentityContext, fields *identity.ProfileFields) (*identity.Profile, error)
}

// ProfileController handles the caller's profile routes.
type ProfileController struct {
	Store      identity.ProfileStore
	Reconciler ProfileReconciler
	Logger     identity.Logger
}

// UpdateProfilePayload holds the editable profile fields.
type UpdateProfilePayload struct {
	Name  *string `json:"name"`
	Image *string `json:"image"`
	Phone *string `json:"phone"`
}

// GetMe handles GET /users/me.
func (p *ProfileController) GetMe(c *fiber.Ctx) error {
	ic, ok := bearer.Identity(c)
	if !ok {
		return bearer.WriteError(c, identity.ErrMalformedAuthorizationHeader)
	}

	profile, err := p.Store.Get(c.UserContext(), ic.SubjectID)
	if err != nil {
		return bearer.WriteError(c, storeError(err))
	}
	return c.JSON(profile)
}

// CreateMe handles POST /users/me. The supplied fields are used only when the
// profile does not exist yet; otherwise they are merged like a login.
func (p *ProfileController) CreateMe(c *fiber.Ctx) error {
	ic, ok := bearer.Identity(c)
	if !ok {
		return bearer.WriteError(c, identity.ErrMalformedAuthorizationHeader)
	}

	fields := new(identity.ProfileFields)
	if err := c.BodyParser(fields); err != nil {
		return bearer.WriteError(c, identity.ErrInvalidPayload)
	}

	profile, err := p.Reconciler.Reconcile(c.UserContext(), ic, fields)
	if err != nil {
		p.logError("reconcile %s failed: %v", ic.SubjectID, err)
		return bearer.WriteError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(profile)
}

// UpdateMe handles PATCH /users/me.
func (p *ProfileController) UpdateMe(c *fiber.Ctx) error {
	ic, ok := bearer.Identity(c)
	if !ok {
		return bearer.WriteError(c, identity.ErrMalformedAuthorizationHeader)
	}
	return p.update(c, ic.SubjectID)
}

// Update handles PATCH /users/:id for the owner only.
func (p *ProfileController) Update(c *fiber.Ctx) error {
	ic, ok := bearer.Identity(c)
	if !ok {
		return bearer.WriteError(c, identity.ErrMalformedAuthorizationHeader)
	}

	id := c.Params("id")
	if !ic.Owns(id) {
		return bearer.WriteError(c, identity.ErrNotOwner)
	}
	return p.update(c, id)
}

func (p *ProfileController) update(c *fiber.Ctx, id string) error {
	payload := new(UpdateProfilePayload)
	if err := c.BodyParser(payload); err != nil {
		return bearer.WriteError(c, identity.ErrInvalidPayload)
	}

	update, err := identity.NewProfileUpdate(payload.Name, payload.Image, payload.Phone)
	if err != nil {
		return bearer.WriteError(c, err)
	}

	ctx := c.UserContext()
	if !update.IsEmpty() {
		if err := p.Store.Update(ctx, id, update); err != nil {
			return bearer.WriteError(c, storeError(err))
		}
	}

	profile, err := p.Store.Get(ctx, id)
	if err != nil {
		return bearer.WriteError(c, storeError(err))
	}
	return c.JSON(profile)
}

func (p *ProfileController) logError(format string, args ...any) {
	if p.Logger != nil {
		p.Logger.Error(format, args...)
	}
}

func storeError(err error) error {
	if stderrors.Is(err, identity.ErrProfileNotFound) {
		return identity.ErrProfileNotFound
	}
	return identity.ErrProfileStoreUnavailable
}
