package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/MrJamesThe3rd/payflow/internal/branding"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// GetBranding returns nil without error when the account has no settings row.
func (s *Store) GetBranding(ctx context.Context, userID string) (*branding.Profile, error) {
	query := `
		SELECT b.company_name, b.primary_color, b.secondary_color, b.accent_color,
		       b.logo_url, b.business_email, b.business_phone
		FROM branding_settings b
		WHERE b.account_id = (SELECT ua.account_id FROM user_accounts ua WHERE ua.user_id = $1 LIMIT 1)
	`

	var company, primary, secondary, accent, logo, email, phone sql.NullString

	err := s.db.QueryRowContext(ctx, query, userID).Scan(
		&company, &primary, &secondary, &accent, &logo, &email, &phone,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}

		return nil, fmt.Errorf("getting branding settings: %w", err)
	}

	return &branding.Profile{
		CompanyName:    company.String,
		PrimaryColor:   primary.String,
		SecondaryColor: secondary.String,
		AccentColor:    accent.String,
		LogoURL:        logo.String,
		BusinessEmail:  email.String,
		BusinessPhone:  phone.String,
	}, nil
}
