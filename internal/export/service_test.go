package export_test

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/payflow/internal/branding"
	"github.com/MrJamesThe3rd/payflow/internal/export"
	"github.com/MrJamesThe3rd/payflow/internal/invoice"
	"github.com/MrJamesThe3rd/payflow/internal/money"
	"github.com/MrJamesThe3rd/payflow/internal/render"
)

const userID = "user-1"

var errRender = errors.New("rasterizer crashed")

func fixtures() []*invoice.Invoice {
	issued := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

	return []*invoice.Invoice{
		{ID: uuid.New(), Number: "INV-001", IssueDate: &issued, Amount: decimal.NewFromInt(100), Currency: "USD", CustomerName: "Jane"},
		{ID: uuid.New(), Number: "INV-002", Amount: decimal.NewFromInt(50), Currency: "USD"},
		{ID: uuid.New(), Number: "INV-001", Amount: decimal.NewFromInt(10), Currency: "USD"},
	}
}

type setup struct {
	svc     *export.Service
	invRepo *invoice.MockRepository
	brRepo  *branding.MockRepository
}

// newSetup wires real services over mocked repositories. The draw renderer is
// replaced by fn so tests control the output per invoice.
func newSetup(t *testing.T, fn render.RendererFunc) setup {
	t.Helper()

	ctrl := gomock.NewController(t)
	invRepo := invoice.NewMockRepository(ctrl)
	brRepo := branding.NewMockRepository(ctrl)

	invoices := invoice.NewService(invRepo)
	brand := branding.NewService(brRepo)
	renderer := render.NewService(invoices, brand, map[render.Strategy]render.Renderer{render.StrategyDraw: fn})

	return setup{
		svc:     export.NewService(invoices, brand, renderer, money.MustFormatter("en-US")),
		invRepo: invRepo,
		brRepo:  brRepo,
	}
}

func okRenderer(_ context.Context, inv *invoice.Invoice, _ *branding.Profile) (*render.Document, error) {
	return &render.Document{Data: []byte("%PDF " + inv.Number)}, nil
}

func TestService_Export(t *testing.T) {
	s := newSetup(t, okRenderer)
	dir := t.TempDir()

	s.invRepo.EXPECT().ListInvoices(gomock.Any(), userID, invoice.ListFilter{Limit: 100}).Return(fixtures(), nil)
	s.brRepo.EXPECT().GetBranding(gomock.Any(), userID).Return(&branding.Profile{CompanyName: "Acme"}, nil)

	items, err := s.svc.Export(context.Background(), userID, invoice.ListFilter{}, render.StrategyDraw, dir)
	require.NoError(t, err)
	require.Len(t, items, 3)
	require.NoError(t, export.Err(items))

	assert.Equal(t, filepath.Join(dir, "invoice-INV-001.pdf"), items[0].FilePath)
	assert.Equal(t, filepath.Join(dir, "invoice-INV-002.pdf"), items[1].FilePath)
	assert.Equal(t, filepath.Join(dir, "invoice-INV-001_1.pdf"), items[2].FilePath)

	data, err := os.ReadFile(items[2].FilePath)
	require.NoError(t, err)
	assert.Equal(t, "%PDF INV-001", string(data))
}

func TestService_Export_PartialFailure(t *testing.T) {
	s := newSetup(t, func(ctx context.Context, inv *invoice.Invoice, p *branding.Profile) (*render.Document, error) {
		if inv.Number == "INV-002" {
			return nil, render.Fail(render.StrategyDraw, render.StageLayout, errRender)
		}

		return okRenderer(ctx, inv, p)
	})

	s.invRepo.EXPECT().ListInvoices(gomock.Any(), userID, gomock.Any()).Return(fixtures(), nil)
	s.brRepo.EXPECT().GetBranding(gomock.Any(), userID).Return(&branding.Profile{CompanyName: "Acme"}, nil)

	items, err := s.svc.Export(context.Background(), userID, invoice.ListFilter{}, render.StrategyDraw, t.TempDir())
	require.NoError(t, err)
	require.Len(t, items, 3)

	assert.NotEmpty(t, items[0].FilePath)
	assert.Empty(t, items[1].FilePath)
	assert.ErrorIs(t, items[1].Err, errRender)
	assert.NotEmpty(t, items[2].FilePath)

	batchErr := export.Err(items)
	assert.ErrorIs(t, batchErr, export.ErrBatchFailed)
	assert.ErrorIs(t, batchErr, errRender)
	assert.Contains(t, batchErr.Error(), "INV-002")
}

func TestService_Export_Errors(t *testing.T) {
	errDB := errors.New("db down")

	type testCase struct {
		name    string
		setup   func(s setup)
		wantErr error
	}

	testCases := []testCase{
		{
			name: "ListFails",
			setup: func(s setup) {
				s.invRepo.EXPECT().ListInvoices(gomock.Any(), userID, gomock.Any()).Return(nil, errDB)
			},
			wantErr: errDB,
		},
		{
			name: "BrandingMissing",
			setup: func(s setup) {
				s.invRepo.EXPECT().ListInvoices(gomock.Any(), userID, gomock.Any()).Return(fixtures(), nil)
				s.brRepo.EXPECT().GetBranding(gomock.Any(), userID).Return(nil, nil)
			},
			wantErr: render.ErrInputIncomplete,
		},
		{
			name: "BrandingFails",
			setup: func(s setup) {
				s.invRepo.EXPECT().ListInvoices(gomock.Any(), userID, gomock.Any()).Return(fixtures(), nil)
				s.brRepo.EXPECT().GetBranding(gomock.Any(), userID).Return(nil, errDB)
			},
			wantErr: errDB,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			s := newSetup(t, okRenderer)
			tc.setup(s)

			items, err := s.svc.Export(context.Background(), userID, invoice.ListFilter{}, render.StrategyDraw, t.TempDir())
			require.ErrorIs(t, err, tc.wantErr)
			assert.Nil(t, items)
		})
	}
}

func TestService_WriteArchive(t *testing.T) {
	s := newSetup(t, okRenderer)

	s.invRepo.EXPECT().ListInvoices(gomock.Any(), userID, gomock.Any()).Return(fixtures(), nil)
	s.brRepo.EXPECT().GetBranding(gomock.Any(), userID).Return(&branding.Profile{CompanyName: "Acme"}, nil)

	var buf bytes.Buffer

	items, err := s.svc.WriteArchive(context.Background(), &buf, userID, invoice.ListFilter{}, render.StrategyDraw)
	require.NoError(t, err)
	require.Len(t, items, 3)

	zr, err := zip.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	require.NoError(t, err)

	var names []string
	for _, f := range zr.File {
		names = append(names, f.Name)
	}

	assert.Equal(t, []string{"invoice-INV-001.pdf", "invoice-INV-002.pdf", "invoice-INV-001_1.pdf"}, names)
}

func TestService_GenerateSummary(t *testing.T) {
	s := newSetup(t, okRenderer)
	invs := fixtures()

	items := []export.Item{
		{Invoice: invs[0], FilePath: "/tmp/out/invoice-INV-001.pdf"},
		{Invoice: invs[1], Err: render.Fail(render.StrategyDraw, render.StageLayout, errRender)},
	}

	summary := s.svc.GenerateSummary(items)

	assert.Contains(t, summary, "* INV-001 | 2024-05-01 | Jane | $100.00 | invoice-INV-001.pdf\n")
	assert.Contains(t, summary, "* INV-002 | - | - | $50.00 | FAILED: "+render.MessageFailed+"\n")
}

func TestService_WriteArchive_NameCollisions(t *testing.T) {
	s := newSetup(t, okRenderer)

	invs := []*invoice.Invoice{
		{ID: uuid.New(), Number: "A", Amount: decimal.NewFromInt(1), Currency: "USD"},
		{ID: uuid.New(), Number: "A", Amount: decimal.NewFromInt(2), Currency: "USD"},
		{ID: uuid.New(), Number: "A_1", Amount: decimal.NewFromInt(3), Currency: "USD"},
		{ID: uuid.New(), Number: "A", Amount: decimal.NewFromInt(4), Currency: "USD"},
	}

	s.invRepo.EXPECT().ListInvoices(gomock.Any(), userID, gomock.Any()).Return(invs, nil)
	s.brRepo.EXPECT().GetBranding(gomock.Any(), userID).Return(&branding.Profile{CompanyName: "Acme"}, nil)

	var buf bytes.Buffer

	_, err := s.svc.WriteArchive(context.Background(), &buf, userID, invoice.ListFilter{}, render.StrategyDraw)
	require.NoError(t, err)

	zr, err := zip.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	require.NoError(t, err)

	var names []string
	for _, f := range zr.File {
		names = append(names, f.Name)
	}

	assert.Equal(t, []string{"invoice-A.pdf", "invoice-A_1.pdf", "invoice-A_1_1.pdf", "invoice-A_2.pdf"}, names)
}

func TestService_Export_NoOverwrite(t *testing.T) {
	s := newSetup(t, okRenderer)

	invs := []*invoice.Invoice{
		{ID: uuid.New(), Number: "A", Amount: decimal.NewFromInt(1), Currency: "USD"},
		{ID: uuid.New(), Number: "A", Amount: decimal.NewFromInt(2), Currency: "USD"},
		{ID: uuid.New(), Number: "A_1", Amount: decimal.NewFromInt(3), Currency: "USD"},
	}

	s.invRepo.EXPECT().ListInvoices(gomock.Any(), userID, gomock.Any()).Return(invs, nil)
	s.brRepo.EXPECT().GetBranding(gomock.Any(), userID).Return(&branding.Profile{CompanyName: "Acme"}, nil)

	dir := t.TempDir()

	items, err := s.svc.Export(context.Background(), userID, invoice.ListFilter{}, render.StrategyDraw, dir)
	require.NoError(t, err)
	require.Len(t, items, 3)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 3)

	for i, item := range items {
		data, err := os.ReadFile(item.FilePath)
		require.NoError(t, err)
		assert.Equal(t, "%PDF "+invs[i].Number, string(data))
	}
}
