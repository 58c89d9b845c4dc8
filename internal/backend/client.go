// Package backend reads invoices and branding from the invoicing backend API.
package backend

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/payflow/internal/auth"
	"github.com/MrJamesThe3rd/payflow/internal/branding"
	"github.com/MrJamesThe3rd/payflow/internal/invoice"
)

var (
	errStatus   = errors.New("unexpected status")
	errNotFound = fmt.Errorf("%w 404", errStatus)
)

// Client implements invoice.Repository and branding.Repository over HTTP.
// The caller's bearer token is forwarded; the backend scopes data by it.
type Client struct {
	baseURL  string
	client   *http.Client
	apiToken string
}

// NewClient builds a client for baseURL. apiToken is used when the request
// context carries no authenticated principal.
func NewClient(baseURL, apiToken string, timeout time.Duration) *Client {
	return &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		client:   &http.Client{Timeout: timeout},
		apiToken: apiToken,
	}
}

func (c *Client) GetInvoice(ctx context.Context, _ string, id uuid.UUID) (*invoice.Invoice, error) {
	var resp InvoiceResponse
	if err := c.get(ctx, "/invoices/"+id.String(), nil, &resp); err != nil {
		if errors.Is(err, errNotFound) {
			return nil, invoice.ErrNotFound
		}

		return nil, fmt.Errorf("fetching invoice %s: %w", id, err)
	}

	inv, err := resp.ToInvoice()
	if err != nil {
		return nil, fmt.Errorf("decoding invoice %s: %w", id, err)
	}

	return inv, nil
}

func (c *Client) ListInvoices(ctx context.Context, _ string, filter invoice.ListFilter) ([]*invoice.Invoice, error) {
	q := url.Values{}
	q.Set("limit", strconv.Itoa(filter.Limit))

	if filter.Status != nil {
		q.Set("status", string(*filter.Status))
	}

	var resp InvoicesListResponse
	if err := c.get(ctx, "/invoices/", q, &resp); err != nil {
		return nil, fmt.Errorf("fetching invoices: %w", err)
	}

	invs := make([]*invoice.Invoice, 0, len(resp.Invoices))

	for i := range resp.Invoices {
		inv, err := resp.Invoices[i].ToInvoice()
		if err != nil {
			return nil, fmt.Errorf("decoding invoice %s: %w", resp.Invoices[i].ID, err)
		}

		invs = append(invs, inv)
	}

	return invs, nil
}

// GetBranding returns nil without error when the account has no settings.
func (c *Client) GetBranding(ctx context.Context, _ string) (*branding.Profile, error) {
	var resp *BrandingSettingsResponse
	if err := c.get(ctx, "/branding-settings", nil, &resp); err != nil {
		if errors.Is(err, errNotFound) {
			return nil, nil
		}

		return nil, fmt.Errorf("fetching branding settings: %w", err)
	}

	if resp == nil {
		return nil, nil
	}

	return resp.ToProfile(), nil
}

func (c *Client) token(ctx context.Context) string {
	if p, ok := auth.FromContext(ctx); ok && p.Token != "" {
		return p.Token
	}

	return c.apiToken
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Accept", "application/json")

	if t := c.token(ctx); t != "" {
		req.Header.Set("Authorization", "Bearer "+t)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return errNotFound
	case resp.StatusCode != http.StatusOK:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%w %d for %s: %s", errStatus, resp.StatusCode, path, strings.TrimSpace(string(body)))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}

	return nil
}
