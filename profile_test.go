package identity_test

import (
	"encoding/json"
	"testing"

	"github.com/goliatone/go-identity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProfileJSONShape(t *testing.T) {
	raw, err := json.Marshal(identity.Profile{ID: "u1", Name: "Ana", Email: "a@b.com"})
	require.NoError(t, err)

	var out map[string]any
	require.NoError(t, json.Unmarshal(raw, &out))

	assert.Equal(t, "u1", out["id"])
	assert.NotContains(t, out, "phone")
	assert.Contains(t, out, "image")
	assert.Nil(t, out["image"])
	assert.Equal(t, []any{}, out["tags"])
	assert.EqualValues(t, 0, out["age"])
}

func TestProfileJSONWithPhone(t *testing.T) {
	raw, err := json.Marshal(&identity.Profile{ID: "u1", Phone: strPtr("(11) 98765-4321"), Tags: []string{"a"}})
	require.NoError(t, err)

	assert.Contains(t, string(raw), `"phone":"(11) 98765-4321"`)
	assert.Contains(t, string(raw), `"tags":["a"]`)
}

func TestProfileCloneIsDeep(t *testing.T) {
	p := &identity.Profile{ID: "u1", Image: strPtr("a.png"), Tags: []string{"x"}}
	c := p.Clone()

	*c.Image = "b.png"
	c.Tags[0] = "y"

	assert.Equal(t, "a.png", *p.Image)
	assert.Equal(t, "x", p.Tags[0])

	var nilProfile *identity.Profile
	assert.Nil(t, nilProfile.Clone())
}

func TestProfileValidate(t *testing.T) {
	assert.NoError(t, identity.Profile{ID: "u1", Email: "a@b.com"}.Validate())
	assert.Error(t, identity.Profile{ID: ""}.Validate())
	assert.Error(t, identity.Profile{ID: "u1", Age: -1}.Validate())
	assert.Error(t, identity.Profile{ID: "u1", Phone: strPtr("123")}.Validate())
}

func TestNewProfileUpdate(t *testing.T) {
	u, err := identity.NewProfileUpdate(strPtr("  Ana "), nil, strPtr("(11) 98765-4321"))
	require.NoError(t, err)

	require.NotNil(t, u.Name)
	assert.Equal(t, "Ana", *u.Name)
	assert.Nil(t, u.Image)
	assert.Equal(t, []string{"name", "phone"}, u.Fields())
	assert.False(t, u.IsEmpty())
}

func TestNewProfileUpdateRejectsInvalidValues(t *testing.T) {
	_, err := identity.NewProfileUpdate(strPtr("   "), nil, nil)
	assert.ErrorIs(t, err, identity.ErrInvalidProfile)

	_, err = identity.NewProfileUpdate(nil, nil, strPtr("11 98765-4321"))
	assert.ErrorIs(t, err, identity.ErrInvalidProfile)
	assert.Equal(t, 400, identity.StatusCode(err))

	u, err := identity.NewProfileUpdate(nil, nil, nil)
	require.NoError(t, err)
	assert.True(t, u.IsEmpty())
}

func TestProfileUpdateApplyTo(t *testing.T) {
	p := &identity.Profile{ID: "u1", Name: "Old", Age: 30, Tags: []string{"vip"}}
	identity.ProfileUpdate{Name: strPtr("New"), Image: strPtr("i.png")}.ApplyTo(p)

	assert.Equal(t, "New", p.Name)
	assert.Equal(t, "i.png", *p.Image)
	assert.Nil(t, p.Phone)
	assert.Equal(t, 30, p.Age)
	assert.Equal(t, []string{"vip"}, p.Tags)
}
