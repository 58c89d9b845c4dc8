package branding

import (
	"context"
	"fmt"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=branding
type Repository interface {
	GetBranding(ctx context.Context, userID string) (*Profile, error)
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Get returns the caller's branding profile, or nil when the account has none.
func (s *Service) Get(ctx context.Context, userID string) (*Profile, error) {
	p, err := s.repo.GetBranding(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("getting branding: %w", err)
	}

	return p, nil
}
