package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strptr(s string) *string { return &s }

func TestItemPatchValidateAggregates(t *testing.T) {
	err := ItemPatch{Name: strptr("  "), URL: strptr("javascript:alert(1)")}.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "name must not be blank")
	assert.Contains(t, err.Error(), "url must be an absolute http or https URL")

	assert.NoError(t, ItemPatch{URL: strptr("")}.Validate())
	assert.NoError(t, ItemPatch{}.Validate())
}

func TestItemPatchApply(t *testing.T) {
	item := &Item{Name: "Bike", Description: strptr("Red"), URL: strptr("https://a.example"), Active: true}
	inactive := false

	ItemPatch{Name: strptr(" Blue bike "), Description: strptr(""), Active: &inactive}.Apply(item)

	assert.Equal(t, "Blue bike", item.Name)
	assert.Nil(t, item.Description)
	require.NotNil(t, item.URL)
	assert.Equal(t, "https://a.example", *item.URL)
	assert.False(t, item.Active)
}

func TestItemPatchEmpty(t *testing.T) {
	assert.True(t, ItemPatch{}.Empty())
	assert.False(t, ItemPatch{URL: strptr("")}.Empty())
}

func TestUserPatch(t *testing.T) {
	assert.Error(t, UserPatch{Email: strptr("nobody")}.Validate())
	assert.NoError(t, UserPatch{Name: strptr("")}.Validate())

	u := &User{Email: "a@example.com", Name: strptr("Ann")}
	UserPatch{Name: strptr(" ")}.Apply(u)
	assert.Nil(t, u.Name)
	assert.Equal(t, "a@example.com", u.Email)

	UserPatch{Email: strptr(" b@example.com ")}.Apply(u)
	assert.Equal(t, "b@example.com", u.Email)
}

func TestValidateURL(t *testing.T) {
	tests := map[string]bool{
		"":                         true,
		"https://shop.example/x?y": true,
		"http://localhost:8080":    true,
		"ftp://files.example":      false,
		"shop.example/bike":        false,
		"https://":                 false,
	}
	for raw, valid := range tests {
		err := ValidateURL(raw)
		if valid {
			assert.NoError(t, err, raw)
		} else {
			assert.Error(t, err, raw)
		}
	}
}

func TestRoleValid(t *testing.T) {
	assert.True(t, RoleOwner.Valid())
	assert.True(t, RoleContributor.Valid())
	assert.False(t, Role("admin").Valid())
}

func TestUserDisplayName(t *testing.T) {
	assert.Equal(t, "a@example.com", (&User{Email: "a@example.com"}).DisplayName())
	assert.Equal(t, "Ann", (&User{Email: "a@example.com", Name: strptr("Ann")}).DisplayName())
}
