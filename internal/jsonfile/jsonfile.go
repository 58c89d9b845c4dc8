// Package jsonfile reads invoice and branding payloads exported from the
// backend, so documents can be rendered without network access.
package jsonfile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/payflow/internal/backend"
	"github.com/MrJamesThe3rd/payflow/internal/branding"
	"github.com/MrJamesThe3rd/payflow/internal/encoding"
	"github.com/MrJamesThe3rd/payflow/internal/invoice"
)

// DecodeInvoices reads one invoice payload, or a list payload
// ({"invoices": [...]}) from which every invoice is returned.
func DecodeInvoices(r io.Reader) ([]*invoice.Invoice, error) {
	data, charset, err := encoding.ReadAll(r)
	if err != nil {
		return nil, err
	}

	if charset != encoding.UTF8 {
		slog.Debug("decoded legacy payload", "charset", charset)
	}

	var probe struct {
		Invoices json.RawMessage `json:"invoices"`
	}

	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, fmt.Errorf("decoding invoice payload: %w", err)
	}

	var payloads []backend.InvoiceResponse

	if probe.Invoices != nil {
		var list backend.InvoicesListResponse
		if err := json.Unmarshal(data, &list); err != nil {
			return nil, fmt.Errorf("decoding invoice list: %w", err)
		}

		payloads = list.Invoices
	} else {
		var one backend.InvoiceResponse
		if err := json.Unmarshal(data, &one); err != nil {
			return nil, fmt.Errorf("decoding invoice: %w", err)
		}

		payloads = []backend.InvoiceResponse{one}
	}

	invs := make([]*invoice.Invoice, 0, len(payloads))

	for i := range payloads {
		inv, err := payloads[i].ToInvoice()
		if err != nil {
			return nil, fmt.Errorf("invoice %s: %w", payloads[i].ID, err)
		}

		invs = append(invs, inv)
	}

	return invs, nil
}

// DecodeBranding reads a branding settings payload.
func DecodeBranding(r io.Reader) (*branding.Profile, error) {
	data, _, err := encoding.ReadAll(r)
	if err != nil {
		return nil, err
	}

	var resp backend.BrandingSettingsResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("decoding branding payload: %w", err)
	}

	return resp.ToProfile(), nil
}

// Source serves invoices and branding loaded from files. It implements
// invoice.Repository and branding.Repository; the user ID is ignored since
// an export belongs to a single account.
type Source struct {
	invoices []*invoice.Invoice
	profile  *branding.Profile
}

// Load reads the invoice and branding files. An empty brandingPath yields a
// source without branding, which renders fail as incomplete input.
func Load(invoicePath, brandingPath string) (*Source, error) {
	invs, err := readFile(invoicePath, DecodeInvoices)
	if err != nil {
		return nil, err
	}

	s := &Source{invoices: invs}

	if brandingPath == "" {
		return s, nil
	}

	s.profile, err = readFile(brandingPath, DecodeBranding)
	if err != nil {
		return nil, err
	}

	return s, nil
}

func readFile[T any](path string, decode func(io.Reader) (T, error)) (T, error) {
	var zero T

	f, err := os.Open(path)
	if err != nil {
		return zero, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	v, err := decode(f)
	if err != nil {
		return zero, fmt.Errorf("reading %s: %w", path, err)
	}

	return v, nil
}

func (s *Source) GetInvoice(_ context.Context, _ string, id uuid.UUID) (*invoice.Invoice, error) {
	for _, inv := range s.invoices {
		if inv.ID == id {
			cp := *inv
			return &cp, nil
		}
	}

	return nil, invoice.ErrNotFound
}

func (s *Source) ListInvoices(_ context.Context, _ string, filter invoice.ListFilter) ([]*invoice.Invoice, error) {
	var out []*invoice.Invoice

	for _, inv := range s.invoices {
		if filter.Status != nil && inv.Status != *filter.Status {
			continue
		}

		if filter.Limit > 0 && len(out) == filter.Limit {
			break
		}

		cp := *inv
		out = append(out, &cp)
	}

	return out, nil
}

func (s *Source) GetBranding(context.Context, string) (*branding.Profile, error) {
	if s.profile == nil {
		return nil, nil
	}

	cp := *s.profile

	return &cp, nil
}

var ErrEmpty = errors.New("file contains no invoices")

// First returns the first invoice of the file.
func (s *Source) First() (*invoice.Invoice, error) {
	if len(s.invoices) == 0 {
		return nil, ErrEmpty
	}

	cp := *s.invoices[0]

	return &cp, nil
}
