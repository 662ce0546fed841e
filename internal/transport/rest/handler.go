package rest

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/heartmarshall/words/internal/domain"
	"github.com/heartmarshall/words/internal/service/lookup"
	"github.com/heartmarshall/words/internal/view"
	"github.com/heartmarshall/words/pkg/ctxutil"
)

const formReadError = "The search form could not be read. Please try again."

// sessionRegistry hands out the lookup controller owned by a session.
type sessionRegistry interface {
	Get(sessionID string) *lookup.Controller
	Len() int
}

type pageRenderer interface {
	Render(w io.Writer, p view.Page) error
}

// LookupHandler serves the search page and the JSON lookup API.
type LookupHandler struct {
	sessions sessionRegistry
	renderer pageRenderer
	policy   view.Policy
	log      *slog.Logger
}

// NewLookupHandler creates a LookupHandler.
func NewLookupHandler(sessions sessionRegistry, renderer pageRenderer, policy view.Policy, logger *slog.Logger) *LookupHandler {
	return &LookupHandler{
		sessions: sessions,
		renderer: renderer,
		policy:   policy,
		log:      logger.With("handler", "lookup"),
	}
}

// errorResponse is the JSON error envelope.
type errorResponse struct {
	Error  string              `json:"error"`
	Code   string              `json:"code"`
	Fields []domain.FieldError `json:"fields,omitempty"`
}

// Page handles GET /. A q query parameter submits a lookup first.
func (h *LookupHandler) Page(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Has("q") {
		h.submitAndRender(w, r, r.URL.Query().Get("q"))
		return
	}

	h.render(w, r, http.StatusOK, view.Build(h.controller(r).State(), h.policy))
}

// Search handles POST /search (form field searchTerm). On success it
// redirects to the page so a reload does not resubmit the form.
func (h *LookupHandler) Search(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		page := view.Build(h.controller(r).State(), h.policy)
		page.FormError = formReadError
		h.render(w, r, http.StatusBadRequest, page)
		return
	}

	raw := r.PostFormValue("searchTerm")
	c, _, err := h.submit(r, raw)
	if err != nil {
		h.renderFormError(w, r, c, raw, err)
		return
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// APILookup handles GET /api/lookup?term=. The body is the view model; a
// lookup that found nothing answers 404 with the not-found panel filled in.
func (h *LookupHandler) APILookup(w http.ResponseWriter, r *http.Request) {
	_, state, err := h.submit(r, r.URL.Query().Get("term"))
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	page := view.Build(state, h.policy)
	status := http.StatusOK
	if state.Result.Kind() == domain.ResultNotFound {
		status = http.StatusNotFound
	}
	writeJSON(w, status, page)
}

// APIState handles GET /api/state.
func (h *LookupHandler) APIState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, view.Build(h.controller(r).State(), h.policy))
}

// NotFound answers unknown routes.
func (h *LookupHandler) NotFound(w http.ResponseWriter, _ *http.Request) {
	writeError(w, http.StatusNotFound, "NOT_FOUND", "not found")
}

func (h *LookupHandler) submitAndRender(w http.ResponseWriter, r *http.Request, raw string) {
	c, state, err := h.submit(r, raw)
	if err != nil {
		h.renderFormError(w, r, c, raw, err)
		return
	}
	h.render(w, r, http.StatusOK, view.Build(state, h.policy))
}

func (h *LookupHandler) renderFormError(w http.ResponseWriter, r *http.Request, c *lookup.Controller, raw string, err error) {
	var ve *domain.ValidationError
	if !errors.As(err, &ve) || len(ve.Errors) == 0 {
		h.log.ErrorContext(r.Context(), "submit failed", slog.String("error", err.Error()))
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	page := view.Build(c.State(), h.policy)
	page.Term = raw
	page.FormError = ve.Errors[0].Message
	h.render(w, r, http.StatusUnprocessableEntity, page)
}

func (h *LookupHandler) render(w http.ResponseWriter, r *http.Request, status int, page view.Page) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	if err := h.renderer.Render(w, page); err != nil {
		h.log.ErrorContext(r.Context(), "render page", slog.String("error", err.Error()))
	}
}

func (h *LookupHandler) handleError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		resp := errorResponse{Error: err.Error(), Code: "VALIDATION"}
		var ve *domain.ValidationError
		if errors.As(err, &ve) {
			resp.Fields = ve.Errors
		}
		writeJSON(w, http.StatusUnprocessableEntity, resp)
	default:
		h.log.ErrorContext(r.Context(), "internal error",
			slog.String("error", err.Error()),
			slog.String("request_id", ctxutil.RequestIDFromCtx(r.Context())),
		)
		writeError(w, http.StatusInternalServerError, "INTERNAL", "internal error")
	}
}

func (h *LookupHandler) controller(r *http.Request) *lookup.Controller {
	return sessionController(h.sessions, r)
}

// submit runs raw through the session controller. A controller evicted
// between Get and Submit is replaced once.
func (h *LookupHandler) submit(r *http.Request, raw string) (*lookup.Controller, lookup.State, error) {
	c := h.controller(r)
	state, err := c.Submit(r.Context(), raw)
	if errors.Is(err, lookup.ErrClosed) {
		c = h.controller(r)
		state, err = c.Submit(r.Context(), raw)
	}
	return c, state, err
}

// sessionController returns the caller's session controller. Requests that
// bypass the session middleware share the anonymous session.
func sessionController(sessions sessionRegistry, r *http.Request) *lookup.Controller {
	id, _ := ctxutil.SessionIDFromCtx(r.Context())
	return sessions.Get(id.String())
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{Error: message, Code: code})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}
