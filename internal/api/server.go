package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/sirupsen/logrus"

	"github.com/Kerhoff/giftlist/internal/auth"
	"github.com/Kerhoff/giftlist/internal/metrics"
	"github.com/Kerhoff/giftlist/internal/service"
)

const maxBodyBytes = 1 << 20

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Options configures the optional parts of the HTTP surface.
type Options struct {
	CORSAllowedOrigins []string
	Store              Pinger
}

// Server provides the HTTP API.
type Server struct {
	svc      *service.Service
	verifier auth.Verifier
	logger   *logrus.Logger
	opts     Options
	mux      *http.ServeMux
}

// NewServer creates a Server, registers all routes, and returns it.
func NewServer(svc *service.Service, verifier auth.Verifier, logger *logrus.Logger, opts Options) *Server {
	s := &Server{svc: svc, verifier: verifier, logger: logger, opts: opts, mux: http.NewServeMux()}
	s.routes()
	return s
}

// Handler returns the routes wrapped in the middleware chain, ready to be
// passed to http.Server.
func (s *Server) Handler() http.Handler {
	var h http.Handler = s.mux
	h = s.cors(h)
	h = metrics.InstrumentHandler(h)
	h = s.logRequests(h)
	h = s.recoverPanics(h)
	return h
}

// ---------------------------------------------------------------------------
// Routes
// ---------------------------------------------------------------------------

func (s *Server) routes() {
	// API – Users
	s.mux.HandleFunc("GET /user", s.handleGetCurrentUser)
	s.mux.HandleFunc("PUT /user", s.handleUpdateCurrentUser)
	s.mux.HandleFunc("POST /users", s.handleCreateUser)
	s.mux.HandleFunc("GET /users/external-id/{external_id}", s.handleGetUserByExternalID)

	// API – Wishlists
	s.mux.HandleFunc("POST /wishlists", s.handleCreateWishlist)
	s.mux.HandleFunc("GET /wishlists/{id}", s.handleGetWishlist)
	s.mux.HandleFunc("GET /user/wishlists", s.handleGetUserWishlists)
	s.mux.HandleFunc("GET /wishlists/{id}/users", s.handleGetWishlistUsers)
	s.mux.HandleFunc("POST /wishlists/{id}/users", s.handleJoinWishlist)
	s.mux.HandleFunc("DELETE /wishlists/{id}/user", s.handleLeaveWishlist)
	s.mux.HandleFunc("GET /validate-invitation-id", s.handleValidateInvitation)

	// API – Items
	s.mux.HandleFunc("GET /wishlists/{id}/items", s.handleGetWishlistItems)
	s.mux.HandleFunc("POST /wishlists/{id}/item", s.handleAddItem)
	s.mux.HandleFunc("GET /items/{id}", s.handleGetItem)
	s.mux.HandleFunc("PUT /items/{id}", s.handleEditItem)
	s.mux.HandleFunc("PUT /items/{id}/claim", s.handleClaimItem)
	s.mux.HandleFunc("PUT /items/{id}/unclaim", s.handleUnclaimItem)
	s.mux.HandleFunc("PUT /items/{id}/acquire", s.handleAcquireItem)
	s.mux.HandleFunc("PUT /items/{id}/unacquire", s.handleUnacquireItem)

	s.mux.HandleFunc("GET /healthz", s.handleHealth)
}

// ---------------------------------------------------------------------------
// JSON helpers
// ---------------------------------------------------------------------------

func (s *Server) respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			s.logger.WithError(err).Error("failed to encode JSON response")
		}
	}
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]string{"error": message})
}

// respondServiceError maps a service failure to its status code. Internal
// failures are logged and reported without their cause.
func (s *Server) respondServiceError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		s.logger.WithError(err).WithFields(logrus.Fields{
			"method": r.Method,
			"path":   r.URL.Path,
		}).Error("request failed")
		s.respondError(w, status, "internal server error")
		return
	}
	s.respondError(w, status, err.Error())
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, service.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, service.ErrBadRequest):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrUnauthenticated):
		return http.StatusUnauthorized
	}
	return http.StatusInternalServerError
}

// decodeJSON reads the request body into dst. Unknown fields are rejected.
// On failure it writes a 400, or a 413 when the body exceeds maxBodyBytes,
// and returns false.
func (s *Server) decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if r.Body == nil {
		s.respondError(w, http.StatusBadRequest, "request body is empty")
		return false
	}
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.Is(err, io.EOF):
			s.respondError(w, http.StatusBadRequest, "request body is empty")
		case errors.As(err, &tooLarge):
			s.respondError(w, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("request body exceeds %d bytes", tooLarge.Limit))
		default:
			s.respondError(w, http.StatusBadRequest, fmt.Sprintf("invalid JSON: %v", err))
		}
		return false
	}
	if dec.More() {
		s.respondError(w, http.StatusBadRequest, "invalid JSON: unexpected data after object")
		return false
	}
	return true
}

// pathID extracts the {id} path value and converts it to int64.
func pathID(r *http.Request) (int64, error) {
	raw := r.PathValue("id")
	if raw == "" {
		return 0, fmt.Errorf("missing id in path")
	}
	return strconv.ParseInt(raw, 10, 64)
}

// requirePathID writes a 400 and returns false when {id} is not an integer.
func (s *Server) requirePathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := pathID(r)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "id must be an integer")
		return 0, false
	}
	return id, true
}

// ---------------------------------------------------------------------------
// Health
// ---------------------------------------------------------------------------

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.opts.Store != nil {
		if err := s.opts.Store.PingContext(r.Context()); err != nil {
			s.logger.WithError(err).Warn("health check failed")
			s.respondJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
	}
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
