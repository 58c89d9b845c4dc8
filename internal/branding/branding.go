package branding

import (
	"errors"
	"strings"
)

var ErrIncomplete = errors.New("branding profile incomplete")

// Backend defaults for accounts that never customised their colors.
const (
	DefaultPrimary   = "#3B82F6"
	DefaultSecondary = "#EF4444"
	DefaultAccent    = "#10B981"
)

// Profile is the account's visual identity and contact block printed on documents.
type Profile struct {
	CompanyName    string
	PrimaryColor   string
	SecondaryColor string
	AccentColor    string
	LogoURL        string
	BusinessEmail  string
	BusinessPhone  string
	Website        string
	PaymentTerms   string
	EmailSignature string
}

// Validate reports ErrIncomplete when the profile cannot head a document.
func (p *Profile) Validate() error {
	if p == nil || strings.TrimSpace(p.CompanyName) == "" {
		return ErrIncomplete
	}

	return nil
}

func (p *Profile) Primary() RGB   { return colorOr(p.PrimaryColor, DefaultPrimary) }
func (p *Profile) Secondary() RGB { return colorOr(p.SecondaryColor, DefaultSecondary) }
func (p *Profile) Accent() RGB    { return colorOr(p.AccentColor, DefaultAccent) }

func colorOr(hex, fallback string) RGB {
	if c, ok := ParseHex(hex); ok {
		return c
	}

	c, _ := ParseHex(fallback)

	return c
}
