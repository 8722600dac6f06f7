package identity

import (
	"encoding/json"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

// Profile is the persisted user record keyed by the identity subject id.
type Profile struct {
	ID    string   `json:"id" bson:"_id"`
	Name  string   `json:"name" bson:"name"`
	Age   int      `json:"age" bson:"age"`
	Email string   `json:"email" bson:"email"`
	Phone *string  `json:"phone,omitempty" bson:"phone,omitempty"`
	Image *string  `json:"image" bson:"image"`
	Tags  []string `json:"tags" bson:"tags"`
}

// MarshalJSON keeps tags as an array even when unset.
func (p Profile) MarshalJSON() ([]byte, error) {
	type profileJSON Profile
	out := profileJSON(p)
	if out.Tags == nil {
		out.Tags = []string{}
	}
	return json.Marshal(out)
}

// Clone returns a deep copy of p.
func (p *Profile) Clone() *Profile {
	if p == nil {
		return nil
	}
	out := *p
	out.Phone = clonePtr(p.Phone)
	out.Image = clonePtr(p.Image)
	out.Tags = append([]string{}, p.Tags...)
	return &out
}

// Validate checks the stored profile invariants.
func (p Profile) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.ID, validation.Required, validation.Length(1, 128)),
		validation.Field(&p.Age, validation.Min(0)),
		validation.Field(&p.Email, is.Email),
		validation.Field(&p.Phone, validation.By(phoneRule)),
	)
}

// ProfileFields are caller supplied values used when a profile is first
// created. Nil fields fall back to identity derived defaults.
type ProfileFields struct {
	Name  *string  `json:"name,omitempty"`
	Age   *int     `json:"age,omitempty"`
	Email *string  `json:"email,omitempty"`
	Phone *string  `json:"phone,omitempty"`
	Image *string  `json:"image,omitempty"`
	Tags  []string `json:"tags,omitempty"`
}

// Validate checks the supplied fields.
func (f ProfileFields) Validate() error {
	return validation.ValidateStruct(&f,
		validation.Field(&f.Name, validation.NilOrNotEmpty, validation.Length(1, 120)),
		validation.Field(&f.Age, validation.Min(0)),
		validation.Field(&f.Email, validation.NilOrNotEmpty, is.Email),
		validation.Field(&f.Phone, validation.By(phoneRule)),
	)
}

// ProfileUpdate is a whitelisted partial update. Nil fields are left as stored.
type ProfileUpdate struct {
	Name  *string `json:"name,omitempty" bson:"name,omitempty"`
	Image *string `json:"image,omitempty" bson:"image,omitempty"`
	Phone *string `json:"phone,omitempty" bson:"phone,omitempty"`
}

// NewProfileUpdate validates and trims the supplied values. Phone is only set
// when explicitly given.
func NewProfileUpdate(name, image, phone *string) (ProfileUpdate, error) {
	u := ProfileUpdate{
		Name:  trimmedPtr(name),
		Image: trimmedPtr(image),
		Phone: trimmedPtr(phone),
	}

	err := validation.ValidateStruct(&u,
		validation.Field(&u.Name, validation.NilOrNotEmpty, validation.Length(1, 120)),
		validation.Field(&u.Image, validation.NilOrNotEmpty),
		validation.Field(&u.Phone, validation.NilOrNotEmpty, validation.By(phoneRule)),
	)
	if err != nil {
		return ProfileUpdate{}, invalidProfile(err)
	}
	return u, nil
}

// IsEmpty reports whether the update would change nothing.
func (u ProfileUpdate) IsEmpty() bool {
	return u.Name == nil && u.Image == nil && u.Phone == nil
}

// ApplyTo merges the set fields into p.
func (u ProfileUpdate) ApplyTo(p *Profile) {
	if p == nil {
		return
	}
	if u.Name != nil {
		p.Name = *u.Name
	}
	if u.Image != nil {
		p.Image = clonePtr(u.Image)
	}
	if u.Phone != nil {
		p.Phone = clonePtr(u.Phone)
	}
}

// Fields lists the names of the set fields in storage order.
func (u ProfileUpdate) Fields() []string {
	var out []string
	if u.Name != nil {
		out = append(out, "name")
	}
	if u.Image != nil {
		out = append(out, "image")
	}
	if u.Phone != nil {
		out = append(out, "phone")
	}
	return out
}

func trimmedPtr(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	return &v
}

func clonePtr(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
