package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"mime"
	"net/http"
	"net/url"
	"strings"

	"github.com/gorilla/mux"

	"venue-finder/logging"
	"venue-finder/models"
	services "venue-finder/service"
	"venue-finder/store"
	"venue-finder/util"
)

const (
	SESSION_HEADER      = "X-Session-ID"
	SESSION_COOKIE      = "session"
	NAME_QUERY_ARG      = "name"
	VENUE_NAME_PATH_VAR = "name"
)

// errBadRequest marks request decoding failures.
var errBadRequest = errors.New("bad request")

// VenueFinder is the session-scoped API of services.VenueService.
type VenueFinder interface {
	NewSession() string
	CloseSession(sessionID string) error
	Visible(sessionID string) (models.VenueFilterResponse, error)
	SetCriteria(sessionID string, patch models.CriteriaPatch) (models.VenueFilterResponse, error)
	Criteria(sessionID string) (models.FilterCriteria, error)
	Select(sessionID, name string) (store.Selection, error)
	Deselect(sessionID string) error
	Selection(sessionID string) (store.Selection, error)
	Status(name string) (models.VenueStatus, error)
}

type SessionResponse struct {
	SessionID string `json:"session_id"`
}

type SelectionRequest struct {
	Name string `json:"name"`
}

type SelectionResponse struct {
	Selected *string `json:"selected"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

type VenueHandler struct {
	venueService VenueFinder
	logger       *slog.Logger
}

func NewVenueHandler(venueService VenueFinder, logger *slog.Logger) *VenueHandler {
	if logger == nil {
		logger = logging.Discard()
	}
	return &VenueHandler{venueService: venueService, logger: logger.With("component", "VenueHandler")}
}

func (h *VenueHandler) Ping(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte("pong"))
}

func (h *VenueHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	id := h.venueService.NewSession()
	http.SetCookie(w, &http.Cookie{
		Name:     SESSION_COOKIE,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	h.writeJSON(w, http.StatusCreated, SessionResponse{SessionID: id})
}

func (h *VenueHandler) CloseSession(w http.ResponseWriter, r *http.Request) {
	if err := h.venueService.CloseSession(sessionID(r)); err != nil {
		h.writeError(w, r, err)
		return
	}
	http.SetCookie(w, &http.Cookie{Name: SESSION_COOKIE, Value: "", Path: "/", MaxAge: -1})
	w.WriteHeader(http.StatusNoContent)
}

func (h *VenueHandler) GetVenues(w http.ResponseWriter, r *http.Request) {
	resp, err := h.venueService.Visible(sessionID(r))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, resp)
}

// PatchFilters merges a criteria patch sent as JSON, or as form or query values.
func (h *VenueHandler) PatchFilters(w http.ResponseWriter, r *http.Request) {
	patch, err := parsePatch(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	resp, err := h.venueService.SetCriteria(sessionID(r), patch)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, resp)
}

func (h *VenueHandler) GetFilters(w http.ResponseWriter, r *http.Request) {
	criteria, err := h.venueService.Criteria(sessionID(r))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, criteria)
}

func (h *VenueHandler) PutSelection(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get(NAME_QUERY_ARG)
	if name == "" {
		var req SelectionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.writeError(w, r, fmt.Errorf("%w: %v", errBadRequest, err))
			return
		}
		name = req.Name
	}
	if strings.TrimSpace(name) == "" {
		h.writeError(w, r, fmt.Errorf("%w: venue name is required", errBadRequest))
		return
	}

	sel, err := h.venueService.Select(sessionID(r), name)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, SelectionResponse{Selected: sel.NamePtr()})
}

func (h *VenueHandler) DeleteSelection(w http.ResponseWriter, r *http.Request) {
	if err := h.venueService.Deselect(sessionID(r)); err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, SelectionResponse{})
}

func (h *VenueHandler) GetSelection(w http.ResponseWriter, r *http.Request) {
	sel, err := h.venueService.Selection(sessionID(r))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, SelectionResponse{Selected: sel.NamePtr()})
}

// GetVenueStatus expects the router to match escaped paths, so the name
// variable arrives percent-encoded.
func (h *VenueHandler) GetVenueStatus(w http.ResponseWriter, r *http.Request) {
	name, err := url.PathUnescape(mux.Vars(r)[VENUE_NAME_PATH_VAR])
	if err != nil {
		h.writeError(w, r, fmt.Errorf("%w: venue name: %v", errBadRequest, err))
		return
	}
	status, err := h.venueService.Status(name)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, status)
}

// GetVenuesMap renders the session's visible venues as an HTML map.
func (h *VenueHandler) GetVenuesMap(w http.ResponseWriter, r *http.Request) {
	resp, err := h.venueService.Visible(sessionID(r))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := util.PlotVenues(w, resp.VisibleSet, resp.Selected); err != nil {
		h.logger.Error("rendering venue map", "error", err)
	}
}

func sessionID(r *http.Request) string {
	if id := strings.TrimSpace(r.Header.Get(SESSION_HEADER)); id != "" {
		return id
	}
	if c, err := r.Cookie(SESSION_COOKIE); err == nil {
		return c.Value
	}
	return ""
}

func parsePatch(r *http.Request) (models.CriteriaPatch, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "application/json" {
		var patch models.CriteriaPatch
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&patch); err != nil {
			return models.CriteriaPatch{}, fmt.Errorf("%w: %v", errBadRequest, err)
		}
		return patch, nil
	}

	if err := r.ParseForm(); err != nil {
		return models.CriteriaPatch{}, fmt.Errorf("%w: %v", errBadRequest, err)
	}
	patch, err := models.CriteriaPatchFromValues(r.Form)
	if err != nil {
		return models.CriteriaPatch{}, fmt.Errorf("%w: %v", errBadRequest, err)
	}
	return patch, nil
}

func (h *VenueHandler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, errBadRequest):
		status = http.StatusBadRequest
	case errors.Is(err, services.ErrSessionNotFound), errors.Is(err, store.ErrVenueNotFound):
		status = http.StatusNotFound
	}

	msg := err.Error()
	if status == http.StatusInternalServerError {
		h.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		msg = "internal server error"
	}
	h.writeJSON(w, status, ErrorResponse{Error: msg})
}

func (h *VenueHandler) writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.logger.Error("encoding response", "error", err)
	}
}
