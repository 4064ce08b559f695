// Package api exposes the HTTP surface of the activity tracker.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"example.com/tracker/internal/auth"
	"example.com/tracker/internal/domain"
)

// LoginPath is the static page unauthenticated users are sent to.
const LoginPath = "/splash.html"

// ProtectedPaths lists every route that requires a logged-in identity.
func ProtectedPaths() []string {
	return []string{
		"/week",
		"/reminder",
		"/store",
		"/delete",
		"/name",
		"/history",
		"/query",
		"/auth/accepted",
	}
}

// StaticDirs points at the browser assets: public is always served, user only
// after login.
type StaticDirs struct {
	Public string
	User   string
}

// Handler coordinates HTTP requests with the domain service.
type Handler struct {
	service *domain.Service
	logger  *zap.Logger
	dirs    StaticDirs
	now     func() time.Time
}

// NewHandler builds a Handler.
func NewHandler(service *domain.Service, logger *zap.Logger, dirs StaticDirs) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		service: service,
		logger:  logger,
		dirs:    dirs,
		now:     time.Now,
	}
}

// RegisterRoutes wires endpoints to the mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/week", h.week)
	mux.HandleFunc("/reminder", h.reminder)
	mux.HandleFunc("/store", h.store)
	mux.HandleFunc("/delete", h.deleteRecord)
	mux.HandleFunc("/name", h.name)
	mux.HandleFunc("/history", h.history)
	mux.HandleFunc("/query", h.query)
	mux.HandleFunc("/auth/accepted", h.authAccepted)
	mux.HandleFunc("/logout", h.logout)
	mux.HandleFunc("/healthz", healthz)
	mux.HandleFunc("/", h.static)
}

// healthz reports a simple OK status for container health checks.
func healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (h *Handler) week(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
		return
	}
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		http.Redirect(w, r, LoginPath, http.StatusFound)
		return
	}

	endDate, err := strconv.ParseInt(r.URL.Query().Get("date"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "date must be epoch milliseconds")
		return
	}
	activity := r.URL.Query().Get("activity")

	buckets := h.service.AggregateWeek(r.Context(), activity, endDate, identity.UserID)
	writeJSON(w, http.StatusOK, buckets)
}

func (h *Handler) reminder(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
		return
	}
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		http.Redirect(w, r, LoginPath, http.StatusFound)
		return
	}

	reminder, err := h.service.ResolveReminder(r.Context(), identity.UserID, h.now().UnixMilli())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server_error", err.Error())
		return
	}

	// A null body stands in for "no reminder pending".
	writeJSON(w, http.StatusOK, reminder)
}

// StoreRequest is the payload for POST /store. An absent amount marks the
// entry as a plan rather than a completed activity.
type StoreRequest struct {
	Activity string   `json:"activity"`
	Date     string   `json:"date"`
	Amount   *float64 `json:"amount,omitempty"`
}

func (h *Handler) store(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
		return
	}
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		http.Redirect(w, r, LoginPath, http.StatusFound)
		return
	}

	var req StoreRequest
	decodeErr := json.NewDecoder(r.Body).Decode(&req)

	// Acknowledge before persisting; the insert is fire-and-forget relative
	// to the response.
	writeJSON(w, http.StatusOK, "I got your POST request")

	if decodeErr != nil || strings.TrimSpace(req.Activity) == "" {
		h.logger.Warn("malformed store request dropped", zap.Error(decodeErr))
		return
	}
	dateMs, err := parseDateMillis(req.Date)
	if err != nil {
		h.logger.Warn("store request with unparsable date dropped",
			zap.String("date", req.Date))
		return
	}

	if req.Amount != nil {
		_, err = h.service.LogActivity(r.Context(), identity.UserID, req.Activity, dateMs, *req.Amount)
	} else {
		_, err = h.service.PlanActivity(r.Context(), identity.UserID, req.Activity, dateMs)
	}
	if err != nil {
		h.logger.Error("store failed",
			zap.String("activity", req.Activity),
			zap.Error(err))
	}
}

func (h *Handler) deleteRecord(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
		return
	}
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		http.Redirect(w, r, LoginPath, http.StatusFound)
		return
	}

	raw := r.URL.Query().Get("rowIdNum")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "rowIdNum must be an integer")
		return
	}

	if err := h.service.DeleteRecord(r.Context(), id, identity.UserID); err != nil {
		writeError(w, http.StatusInternalServerError, "server_error", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, "deleted row "+raw)
}

func (h *Handler) name(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
		return
	}
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		http.Redirect(w, r, LoginPath, http.StatusFound)
		return
	}

	firstName, err := h.service.FirstName(r.Context(), identity.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrProfileNotFound) {
			writeError(w, http.StatusNotFound, "not_found", "no profile for user")
			return
		}
		writeError(w, http.StatusInternalServerError, "server_error", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, firstName)
}

func (h *Handler) history(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
		return
	}
	if _, ok := auth.IdentityFromContext(r.Context()); !ok {
		http.Redirect(w, r, LoginPath, http.StatusFound)
		return
	}

	activity := r.URL.Query().Get("activity")
	if strings.TrimSpace(activity) == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "missing activity parameter")
		return
	}

	records, err := h.service.History(r.Context(), activity)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server_error", err.Error())
		return
	}
	if records == nil {
		records = []domain.ActivityRecord{}
	}
	writeJSON(w, http.StatusOK, records)
}

// query is a trivial authenticated echo kept from the original pipeline.
func (h *Handler) query(w http.ResponseWriter, r *http.Request) {
	if _, ok := auth.IdentityFromContext(r.Context()); !ok {
		http.Redirect(w, r, LoginPath, http.StatusFound)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("HTTP query!"))
}

// authAccepted completes a login: the identity provider already validated
// the user and the collaborator set the session cookie, so all that is left
// is making sure a profile row exists.
func (h *Handler) authAccepted(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		http.Redirect(w, r, LoginPath, http.StatusFound)
		return
	}

	if err := h.service.EnsureProfile(r.Context(), identity.UserID, identity.FirstName); err != nil {
		h.logger.Error("profile creation failed",
			zap.String("user_id", identity.UserID),
			zap.Error(err))
	}
	http.Redirect(w, r, "/index.html", http.StatusFound)
}

func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:   auth.SessionCookie,
		Value:  "",
		Path:   "/",
		MaxAge: -1,
	})
	http.Redirect(w, r, "/", http.StatusFound)
}

// static serves public assets for everyone and user assets after login.
// Anything else falls through to the plain-text 404.
func (h *Handler) static(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path == "/" {
		http.ServeFile(w, r, filepath.Join(h.dirs.Public, "splash.html"))
		return
	}

	name := filepath.Clean(strings.TrimPrefix(r.URL.Path, "/"))
	if name == ".." || strings.HasPrefix(name, "../") {
		h.notFound(w, r)
		return
	}

	if path := filepath.Join(h.dirs.Public, name); fileExists(path) {
		http.ServeFile(w, r, path)
		return
	}

	if _, ok := auth.IdentityFromContext(r.Context()); ok {
		if path := filepath.Join(h.dirs.User, name); fileExists(path) {
			http.ServeFile(w, r, path)
			return
		}
	}

	h.notFound(w, r)
}

func (h *Handler) notFound(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusNotFound)
	_, _ = w.Write([]byte("Cannot find " + r.URL.String()))
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// parseDateMillis accepts the formats browsers submit: epoch milliseconds,
// a bare calendar date, or a full timestamp.
func parseDateMillis(raw string) (int64, error) {
	raw = strings.TrimSpace(raw)
	if ms, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return ms, nil
	}
	for _, layout := range []string{"2006-01-02", time.RFC3339} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UnixMilli(), nil
		}
	}
	return 0, errors.New("unrecognized date format: " + raw)
}

func writeError(w http.ResponseWriter, status int, code, detail string) {
	payload := map[string]string{
		"type":   code,
		"detail": detail,
	}
	writeJSON(w, status, payload)
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
