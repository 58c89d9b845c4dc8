package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/payflow/internal/invoice"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// scanInvoice reads an invoice row joined with its customer.
// Expected column order matches selectInvoiceColumns.
func scanInvoice(s scanner) (*invoice.Invoice, error) {
	var inv invoice.Invoice

	var (
		number, description, terms, lineItems, paymentLink sql.NullString
		customerName, customerEmail, customerPhone         sql.NullString
		discountType                                       sql.NullString
		issueDate, dueDate                                 sql.NullTime
		taxRate, discountValue                             decimal.NullDecimal
		status                                             string
	)

	if err := s.Scan(
		&inv.ID, &number, &inv.Amount, &inv.Currency, &issueDate, &dueDate,
		&description, &terms, &lineItems, &taxRate, &discountType, &discountValue,
		&status, &paymentLink,
		&customerName, &customerEmail, &customerPhone,
	); err != nil {
		return nil, err
	}

	inv.Number = number.String
	inv.Description = description.String
	inv.Terms = terms.String
	inv.PaymentLinkURL = paymentLink.String
	inv.Status = invoice.Status(status)
	inv.CustomerName = customerName.String
	inv.CustomerEmail = customerEmail.String
	inv.CustomerPhone = customerPhone.String

	if issueDate.Valid {
		inv.IssueDate = new(dateOnly(issueDate.Time))
	}

	if dueDate.Valid {
		inv.DueDate = dateOnly(dueDate.Time)
	}

	if taxRate.Valid {
		inv.TaxRate = new(taxRate.Decimal)
	}

	if discountType.Valid && discountValue.Valid {
		inv.Discount = &invoice.Discount{
			Type:  invoice.DiscountType(discountType.String),
			Value: discountValue.Decimal,
		}
	}

	items, err := invoice.ParseLineItems(lineItems.String)
	if err != nil {
		return nil, fmt.Errorf("invoice %s: %w", inv.ID, err)
	}

	inv.LineItems = items

	return &inv, nil
}

const selectInvoiceColumns = `
	i.id, i.invoice_number, i.amount, i.currency, i.issue_date, i.due_date,
	i.description, i.terms, i.line_items, i.invoice_wide_tax_rate, i.discount_type, i.discount_value,
	i.status, i.stripe_payment_link_url,
	c.name, c.email, c.phone
`

// accountScope restricts rows to the account the user belongs to.
const accountScope = `i.account_id = (SELECT ua.account_id FROM user_accounts ua WHERE ua.user_id = $1 LIMIT 1)`

func (s *Store) GetInvoice(ctx context.Context, userID string, id uuid.UUID) (*invoice.Invoice, error) {
	query := `SELECT ` + selectInvoiceColumns + `
		FROM invoices i
		LEFT JOIN customers c ON i.customer_id = c.id AND c.account_id = i.account_id
		WHERE ` + accountScope + ` AND i.id = $2`

	inv, err := scanInvoice(s.db.QueryRowContext(ctx, query, userID, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, invoice.ErrNotFound
		}

		return nil, fmt.Errorf("getting invoice: %w", err)
	}

	return inv, nil
}

func (s *Store) ListInvoices(ctx context.Context, userID string, filter invoice.ListFilter) ([]*invoice.Invoice, error) {
	query := `SELECT ` + selectInvoiceColumns + `
		FROM invoices i
		LEFT JOIN customers c ON i.customer_id = c.id AND c.account_id = i.account_id
		WHERE ` + accountScope

	args := []any{userID}

	argIdx := 2

	if filter.Status != nil {
		query += fmt.Sprintf(" AND i.status = $%d", argIdx)

		args = append(args, *filter.Status)
		argIdx++
	}

	query += fmt.Sprintf(" ORDER BY i.created_at DESC LIMIT $%d", argIdx)

	args = append(args, filter.Limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing invoices: %w", err)
	}
	defer rows.Close()

	var invs []*invoice.Invoice

	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning invoice: %w", err)
		}

		invs = append(invs, inv)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating invoice rows: %w", err)
	}

	return invs, nil
}

// dateOnly strips the clock part the driver attaches to DATE columns.
func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
