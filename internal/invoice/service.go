package invoice

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=invoice
type Repository interface {
	GetInvoice(ctx context.Context, userID string, id uuid.UUID) (*Invoice, error)
	ListInvoices(ctx context.Context, userID string, filter ListFilter) ([]*Invoice, error)
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

type ListFilter struct {
	Status *Status
	Limit  int
}

const defaultListLimit = 100

func (s *Service) Get(ctx context.Context, userID string, id uuid.UUID) (*Invoice, error) {
	inv, err := s.repo.GetInvoice(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if inv.DueDate.IsZero() && inv.IssueDate != nil {
		inv.DueDate = DefaultDueDate(*inv.IssueDate)
	}

	return inv, nil
}

func (s *Service) List(ctx context.Context, userID string, filter ListFilter) ([]*Invoice, error) {
	if filter.Limit <= 0 {
		filter.Limit = defaultListLimit
	}

	invs, err := s.repo.ListInvoices(ctx, userID, filter)
	if err != nil {
		return nil, fmt.Errorf("listing invoices: %w", err)
	}

	return invs, nil
}
