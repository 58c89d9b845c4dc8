package document

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/payflow/internal/auth"
	"github.com/MrJamesThe3rd/payflow/internal/branding"
	"github.com/MrJamesThe3rd/payflow/internal/http/respond"
	"github.com/MrJamesThe3rd/payflow/internal/invoice"
	"github.com/MrJamesThe3rd/payflow/internal/money"
	"github.com/MrJamesThe3rd/payflow/internal/render"
	"github.com/MrJamesThe3rd/payflow/internal/render/snapshot"
)

const (
	dispositionAttachment = "attachment"
	dispositionInline     = "inline"
)

type Handler struct {
	renderer *render.Service
	invoices *invoice.Service
	branding *branding.Service
	money    *money.Formatter
	clock    func() time.Time
}

func NewHandler(renderer *render.Service, invoices *invoice.Service, brand *branding.Service, f *money.Formatter) *Handler {
	return &Handler{
		renderer: renderer,
		invoices: invoices,
		branding: brand,
		money:    f,
		clock:    time.Now,
	}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.list)
	r.Get("/{id}/pdf", h.pdf)
	r.Get("/{id}/preview", h.preview)
}

func userID(r *http.Request) string {
	p, _ := auth.FromContext(r.Context())
	return p.UserID
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	filter := invoice.ListFilter{}

	if s := r.URL.Query().Get("status"); s != "" {
		filter.Status = new(invoice.Status(s))
	}

	if s := r.URL.Query().Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 {
			respond.Error(w, http.StatusBadRequest, "invalid limit")
			return
		}

		filter.Limit = n
	}

	invs, err := h.invoices.List(r.Context(), userID(r), filter)
	if err != nil {
		slog.Error("failed to list invoices", "error", err)
		respond.Error(w, http.StatusInternalServerError, "internal error")

		return
	}

	respond.JSON(w, http.StatusOK, h.toResponseList(invs))
}

func (h *Handler) pdf(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid id")
		return
	}

	strategy, err := render.ParseStrategy(r.URL.Query().Get("strategy"))
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "unknown strategy")
		return
	}

	disposition := dispositionAttachment
	switch d := r.URL.Query().Get("disposition"); d {
	case "", dispositionAttachment:
	case dispositionInline:
		disposition = dispositionInline
	default:
		respond.Error(w, http.StatusBadRequest, "invalid disposition")
		return
	}

	doc, err := h.renderer.RenderByID(r.Context(), userID(r), id, strategy)
	if err != nil {
		h.renderError(w, err, id)
		return
	}

	w.Header().Set("Content-Type", doc.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf("%s; filename=%q", disposition, doc.Name))
	w.Header().Set("Content-Length", strconv.Itoa(len(doc.Data)))
	w.Header().Set("Cache-Control", "no-store")

	if _, err := w.Write(doc.Data); err != nil {
		slog.Error("failed to write document", "invoice_id", id, "error", err)
	}
}

// preview serves the HTML presentation the snapshot strategy captures.
func (h *Handler) preview(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid id")
		return
	}

	inv, err := h.invoices.Get(r.Context(), userID(r), id)
	if err != nil {
		h.renderError(w, err, id)
		return
	}

	profile, err := h.branding.Get(r.Context(), userID(r))
	if err != nil {
		h.renderError(w, err, id)
		return
	}

	if err := profile.Validate(); err != nil {
		h.renderError(w, fmt.Errorf("%w: %w", render.ErrInputIncomplete, err), id)
		return
	}

	html, err := snapshot.HTML(snapshot.NewPresentation(inv, profile, h.money, h.clock()))
	if err != nil {
		h.renderError(w, render.Fail(render.StrategySnapshot, render.StageLayout, err), id)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")

	if _, err := w.Write([]byte(html)); err != nil {
		slog.Error("failed to write preview", "invoice_id", id, "error", err)
	}
}

// renderError maps a failure to its status and user message. Render failure
// detail is only logged.
func (h *Handler) renderError(w http.ResponseWriter, err error, id uuid.UUID) {
	switch {
	case errors.Is(err, invoice.ErrNotFound):
		respond.Error(w, http.StatusNotFound, "invoice not found")
	case errors.Is(err, render.ErrUnknownStrategy):
		respond.Error(w, http.StatusBadRequest, "unknown strategy")
	case errors.Is(err, render.ErrInputIncomplete):
		respond.Error(w, http.StatusUnprocessableEntity, render.UserMessage(err))
	default:
		slog.Error("failed to generate document", "invoice_id", id, "error", err)
		respond.Error(w, http.StatusInternalServerError, render.UserMessage(err))
	}
}
