package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/Kerhoff/giftlist/internal/auth"
	"github.com/Kerhoff/giftlist/internal/models"
	"github.com/Kerhoff/giftlist/internal/service"
)

// authenticate verifies the bearer token and returns the caller's external id.
// It writes a 401 and returns false when the token is missing or invalid.
func (s *Server) authenticate(w http.ResponseWriter, r *http.Request) (string, bool) {
	token, err := auth.BearerToken(r.Header.Get("Authorization"))
	if err == nil {
		var externalID string
		if externalID, err = s.verifier.Verify(r.Context(), token); err == nil {
			return externalID, true
		}
	}
	s.logger.WithError(err).WithField("path", r.URL.Path).Debug("rejected credentials")
	reason := auth.ErrInvalidToken
	if errors.Is(err, auth.ErrMissingToken) {
		reason = auth.ErrMissingToken
	}
	s.respondServiceError(w, r, fmt.Errorf("%w: %w", service.ErrUnauthenticated, reason))
	return "", false
}

// currentUser authenticates the request and loads the provisioned user bound
// to the token. An unprovisioned identity yields a 404.
func (s *Server) currentUser(w http.ResponseWriter, r *http.Request) (*models.User, bool) {
	externalID, ok := s.authenticate(w, r)
	if !ok {
		return nil, false
	}
	user, err := s.svc.GetByExternalID(r.Context(), externalID)
	if err != nil {
		s.respondServiceError(w, r, err)
		return nil, false
	}
	return user, true
}

// viewerIsMember reports whether the request carries a valid token whose user
// belongs to the wishlist. Missing or unknown credentials count as anonymous.
func (s *Server) viewerIsMember(r *http.Request, wishlistID int64) (bool, error) {
	token, err := auth.BearerToken(r.Header.Get("Authorization"))
	if err != nil {
		return false, nil
	}
	externalID, err := s.verifier.Verify(r.Context(), token)
	if err != nil {
		return false, nil
	}
	user, err := s.svc.GetByExternalID(r.Context(), externalID)
	if errors.Is(err, service.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return s.svc.IsMember(r.Context(), wishlistID, user.ID)
}
