package api

import (
	"net/http"

	"github.com/Kerhoff/giftlist/internal/models"
)

type createUserRequest struct {
	Email      string  `json:"email"`
	ExternalID string  `json:"external_id"`
	Name       *string `json:"name"`
}

func (s *Server) handleGetCurrentUser(w http.ResponseWriter, r *http.Request) {
	user, ok := s.currentUser(w, r)
	if !ok {
		return
	}
	s.respondJSON(w, http.StatusOK, user)
}

func (s *Server) handleUpdateCurrentUser(w http.ResponseWriter, r *http.Request) {
	user, ok := s.currentUser(w, r)
	if !ok {
		return
	}

	var patch models.UserPatch
	if !s.decodeJSON(w, r, &patch) {
		return
	}

	updated, err := s.svc.UpdateProfile(r.Context(), user.ID, patch)
	if err != nil {
		s.respondServiceError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusOK, updated)
}

func (s *Server) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}

	user, err := s.svc.UpsertUserByExternalID(r.Context(), req.ExternalID, req.Email, req.Name)
	if err != nil {
		s.respondServiceError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusOK, user)
}

func (s *Server) handleGetUserByExternalID(w http.ResponseWriter, r *http.Request) {
	user, err := s.svc.GetByExternalID(r.Context(), r.PathValue("external_id"))
	if err != nil {
		s.respondServiceError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusOK, user)
}
