package identity

import (
	"context"
	stderrors "errors"
	"strings"
)

// ProfileReconciler creates or merges the stored profile for an identity.
type ProfileReconciler struct {
	store  ProfileStore
	logger Logger
}

// ReconcilerOption configures a ProfileReconciler.
type ReconcilerOption func(*ProfileReconciler)

// WithReconcilerLogger sets the reconciler logger.
func WithReconcilerLogger(logger Logger) ReconcilerOption {
	return func(r *ProfileReconciler) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// NewProfileReconciler builds a reconciler over store.
func NewProfileReconciler(store ProfileStore, opts ...ReconcilerOption) *ProfileReconciler {
	r := &ProfileReconciler{
		store:  store,
		logger: defLogger{},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

// Reconcile returns the profile for identity, creating it when absent or
// merging name, image and phone when they changed. Age and tags are never
// touched on an existing profile. A call that changes nothing writes nothing.
func (r *ProfileReconciler) Reconcile(ctx context.Context, identity IdentityContext, fields *ProfileFields) (*Profile, error) {
	if strings.TrimSpace(identity.SubjectID) == "" {
		return nil, ErrInvalidCredential
	}
	if r.store == nil {
		return nil, storeUnavailable(stderrors.New("no profile store configured"))
	}
	if fields != nil {
		if err := fields.Validate(); err != nil {
			return nil, invalidProfile(err)
		}
	}

	existing, err := r.store.Get(ctx, identity.SubjectID)
	switch {
	case err == nil && existing != nil:
		return r.merge(ctx, existing, identity, fields)
	case err == nil, stderrors.Is(err, ErrProfileNotFound):
	default:
		return nil, storeUnavailable(err)
	}

	profile := NewProfile(identity, fields)
	err = r.store.Create(ctx, profile)
	switch {
	case err == nil:
		r.logger.Info("created profile %s", profile.ID)
		return profile, nil
	case stderrors.Is(err, ErrProfileExists):
		r.logger.Debug("profile %s created concurrently, merging", profile.ID)
	default:
		return nil, storeUnavailable(err)
	}

	existing, err = r.store.Get(ctx, identity.SubjectID)
	if err != nil {
		return nil, storeUnavailable(err)
	}
	if existing == nil {
		return nil, storeUnavailable(ErrProfileNotFound)
	}
	return r.merge(ctx, existing, identity, fields)
}

func (r *ProfileReconciler) merge(ctx context.Context, existing *Profile, identity IdentityContext, fields *ProfileFields) (*Profile, error) {
	update := DiffProfile(existing, identity, fields)
	if update.IsEmpty() {
		return existing, nil
	}

	if err := r.store.Update(ctx, existing.ID, update); err != nil {
		return nil, storeUnavailable(err)
	}

	r.logger.Debug("updated profile %s fields %v", existing.ID, update.Fields())

	merged := existing.Clone()
	update.ApplyTo(merged)
	return merged, nil
}

// NewProfile builds the initial profile for identity. Supplied fields win over
// identity derived values. Phone is only set when supplied.
func NewProfile(identity IdentityContext, fields *ProfileFields) *Profile {
	p := &Profile{
		ID:    identity.SubjectID,
		Name:  identity.DisplayName,
		Email: identity.Email,
		Image: clonePtr(identity.AvatarURL),
		Tags:  []string{},
	}
	if fields == nil {
		return p
	}

	if v := nonEmpty(fields.Name); v != nil {
		p.Name = *v
	}
	if fields.Age != nil && *fields.Age >= 0 {
		p.Age = *fields.Age
	}
	if v := nonEmpty(fields.Email); v != nil {
		p.Email = *v
	}
	if v := nonEmpty(fields.Image); v != nil {
		p.Image = v
	}
	if v := nonEmpty(fields.Phone); v != nil {
		p.Phone = v
	}
	if len(fields.Tags) > 0 {
		p.Tags = dedupe(fields.Tags)
	}
	return p
}

// DiffProfile returns the fields whose observed value is defined and differs
// from the stored one. Observed values come from fields when supplied, else
// from the identity. A placeholder display name is never observed.
func DiffProfile(stored *Profile, identity IdentityContext, fields *ProfileFields) ProfileUpdate {
	var update ProfileUpdate
	if stored == nil {
		return update
	}

	var name, image, phone *string
	if !identity.DisplayNameDefaulted {
		name = nonEmpty(&identity.DisplayName)
	}
	image = nonEmpty(identity.AvatarURL)

	if fields != nil {
		if v := nonEmpty(fields.Name); v != nil {
			name = v
		}
		if v := nonEmpty(fields.Image); v != nil {
			image = v
		}
		phone = nonEmpty(fields.Phone)
	}

	if name != nil && *name != stored.Name {
		update.Name = name
	}
	if image != nil && (stored.Image == nil || *image != *stored.Image) {
		update.Image = image
	}
	if phone != nil && (stored.Phone == nil || *phone != *stored.Phone) {
		update.Phone = phone
	}
	return update
}

func nonEmpty(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

func dedupe(tags []string) []string {
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}
