package export

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/payflow/internal/auth"
	"github.com/MrJamesThe3rd/payflow/internal/export"
	"github.com/MrJamesThe3rd/payflow/internal/http/respond"
	"github.com/MrJamesThe3rd/payflow/internal/invoice"
	"github.com/MrJamesThe3rd/payflow/internal/render"
)

type Handler struct {
	svc *export.Service
}

func NewHandler(svc *export.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.metadata)
	r.Post("/download", h.download)
}

type exportRequest struct {
	Status   *invoice.Status `json:"status,omitempty"`
	Limit    int             `json:"limit,omitempty"`
	Strategy string          `json:"strategy,omitempty"`
}

type itemResponse struct {
	InvoiceID uuid.UUID `json:"invoice_id"`
	Number    string    `json:"number"`
	FileName  string    `json:"file_name,omitempty"`
	Error     string    `json:"error,omitempty"`
}

type exportMetadataResponse struct {
	Items   []itemResponse `json:"items"`
	Summary string         `json:"summary"`
}

func decode(r *http.Request) (exportRequest, render.Strategy, error) {
	var req exportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return req, "", fmt.Errorf("decoding request: %w", err)
	}

	strategy, err := render.ParseStrategy(req.Strategy)
	if err != nil {
		return req, "", err
	}

	return req, strategy, nil
}

func (req exportRequest) filter() invoice.ListFilter {
	return invoice.ListFilter{Status: req.Status, Limit: req.Limit}
}

// metadata renders the batch into a scratch directory and reports per-invoice results.
func (h *Handler) metadata(w http.ResponseWriter, r *http.Request) {
	req, strategy, err := decode(r)
	if err != nil {
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	tmpDir, err := os.MkdirTemp("", "payflow-export-*")
	if err != nil {
		respond.Error(w, http.StatusInternalServerError, "internal error")
		return
	}
	defer os.RemoveAll(tmpDir)

	p, _ := auth.FromContext(r.Context())

	items, err := h.svc.Export(r.Context(), p.UserID, req.filter(), strategy, tmpDir)
	if err != nil {
		exportError(w, err)
		return
	}

	resp := exportMetadataResponse{
		Items:   make([]itemResponse, 0, len(items)),
		Summary: h.svc.GenerateSummary(items),
	}

	for _, item := range items {
		ir := itemResponse{InvoiceID: item.Invoice.ID, Number: item.Invoice.DisplayNumber()}

		if item.Err != nil {
			ir.Error = render.UserMessage(item.Err)
		} else {
			ir.FileName = filepath.Base(item.FilePath)
		}

		resp.Items = append(resp.Items, ir)
	}

	respond.JSON(w, http.StatusOK, resp)
}

// download returns the batch as a zip archive. Failed invoices are left out
// and logged.
func (h *Handler) download(w http.ResponseWriter, r *http.Request) {
	req, strategy, err := decode(r)
	if err != nil {
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	p, _ := auth.FromContext(r.Context())

	var buf bytes.Buffer

	items, err := h.svc.WriteArchive(r.Context(), &buf, p.UserID, req.filter(), strategy)
	if err != nil {
		exportError(w, err)
		return
	}

	if err := export.Err(items); err != nil {
		slog.Warn("export archive incomplete", "error", err)
	}

	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=\"invoices_%s.zip\"", time.Now().Format("20060102")))

	if _, err := buf.WriteTo(w); err != nil {
		slog.Error("failed to write zip", "error", err)
	}
}

func exportError(w http.ResponseWriter, err error) {
	if errors.Is(err, render.ErrInputIncomplete) {
		respond.Error(w, http.StatusUnprocessableEntity, render.UserMessage(err))
		return
	}

	slog.Error("failed to export invoices", "error", err)
	respond.Error(w, http.StatusInternalServerError, render.MessageFailed)
}
