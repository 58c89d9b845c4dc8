package document

import (
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/payflow/internal/invoice"
)

type invoiceResponse struct {
	ID           uuid.UUID      `json:"id"`
	Number       string         `json:"number"`
	CustomerName string         `json:"customer_name"`
	Amount       string         `json:"amount"`
	Total        string         `json:"total"`
	Currency     string         `json:"currency"`
	Status       invoice.Status `json:"status"`
	IssueDate    *string        `json:"issue_date,omitempty"`
	DueDate      *string        `json:"due_date,omitempty"`
	FileName     string         `json:"file_name"`
}

func (h *Handler) toResponse(inv *invoice.Invoice) invoiceResponse {
	totals := invoice.ComputeTotals(inv)

	resp := invoiceResponse{
		ID:           inv.ID,
		Number:       inv.DisplayNumber(),
		CustomerName: inv.CustomerName,
		Amount:       invoice.Round(inv.Amount).StringFixed(invoice.MoneyPlaces),
		Total:        h.money.Format(totals.Total, inv.Currency),
		Currency:     inv.Currency,
		Status:       inv.Status,
		FileName:     inv.FileName(),
	}

	if inv.IssueDate != nil {
		resp.IssueDate = new(inv.IssueDate.Format(time.DateOnly))
	}

	if !inv.DueDate.IsZero() {
		resp.DueDate = new(inv.DueDate.Format(time.DateOnly))
	}

	return resp
}

func (h *Handler) toResponseList(invs []*invoice.Invoice) []invoiceResponse {
	resp := make([]invoiceResponse, len(invs))
	for i, inv := range invs {
		resp[i] = h.toResponse(inv)
	}

	return resp
}
