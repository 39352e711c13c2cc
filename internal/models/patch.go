package models

import (
	"errors"
	"net/url"
	"strings"

	"github.com/hashicorp/go-multierror"
)

// UserPatch is a partial profile update. Nil fields are left unchanged.
type UserPatch struct {
	Name  *string `json:"name"`
	Email *string `json:"email"`
}

// Validate reports every problem with the patch at once
func (p UserPatch) Validate() error {
	var result *multierror.Error
	if p.Email != nil && !strings.Contains(strings.TrimSpace(*p.Email), "@") {
		result = multierror.Append(result, errors.New("email must be a valid address"))
	}
	return result.ErrorOrNil()
}

// Apply copies the present fields onto u. An empty name clears it.
func (p UserPatch) Apply(u *User) {
	if p.Name != nil {
		u.Name = optional(*p.Name)
	}
	if p.Email != nil {
		u.Email = strings.TrimSpace(*p.Email)
	}
}

// ItemPatch is a partial item edit. Nil fields are left unchanged.
type ItemPatch struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	URL         *string `json:"url"`
	Active      *bool   `json:"active"`
}

// Empty reports whether the patch carries no fields
func (p ItemPatch) Empty() bool {
	return p.Name == nil && p.Description == nil && p.URL == nil && p.Active == nil
}

// Validate reports every problem with the patch at once
func (p ItemPatch) Validate() error {
	var result *multierror.Error
	if p.Name != nil && strings.TrimSpace(*p.Name) == "" {
		result = multierror.Append(result, errors.New("name must not be blank"))
	}
	if p.URL != nil {
		if err := ValidateURL(*p.URL); err != nil {
			result = multierror.Append(result, err)
		}
	}
	return result.ErrorOrNil()
}

// Apply copies the present fields onto item. Empty description or url clears them.
func (p ItemPatch) Apply(item *Item) {
	if p.Name != nil {
		item.Name = strings.TrimSpace(*p.Name)
	}
	if p.Description != nil {
		item.Description = optional(*p.Description)
	}
	if p.URL != nil {
		item.URL = optional(*p.URL)
	}
	if p.Active != nil {
		item.Active = *p.Active
	}
}

// ValidateURL accepts an empty string or an absolute http(s) URL
func ValidateURL(raw string) error {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return errors.New("url must be an absolute http or https URL")
	}
	return nil
}

// Optional trims s and returns nil when nothing is left
func Optional(s string) *string {
	return optional(s)
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
