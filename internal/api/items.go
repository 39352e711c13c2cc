package api

import (
	"context"
	"net/http"

	"github.com/Kerhoff/giftlist/internal/metrics"
	"github.com/Kerhoff/giftlist/internal/models"
	"github.com/Kerhoff/giftlist/internal/service"
)

type addItemRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
	URL         *string `json:"url"`
}

func (s *Server) handleGetWishlistItems(w http.ResponseWriter, r *http.Request) {
	id, ok := s.requirePathID(w, r)
	if !ok {
		return
	}

	items, err := s.svc.ListActiveItems(r.Context(), id)
	if err != nil {
		s.respondServiceError(w, r, err)
		return
	}
	if items == nil {
		items = []*models.Item{}
	}
	s.respondJSON(w, http.StatusOK, items)
}

func (s *Server) handleAddItem(w http.ResponseWriter, r *http.Request) {
	id, ok := s.requirePathID(w, r)
	if !ok {
		return
	}
	user, ok := s.currentUser(w, r)
	if !ok {
		return
	}

	var req addItemRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}

	item, err := s.svc.AddItem(r.Context(), id, user.ID, req.Name, req.Description, req.URL)
	if err != nil {
		s.respondServiceError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusCreated, item)
}

func (s *Server) handleGetItem(w http.ResponseWriter, r *http.Request) {
	id, ok := s.requirePathID(w, r)
	if !ok {
		return
	}
	user, ok := s.currentUser(w, r)
	if !ok {
		return
	}

	item, err := s.svc.GetItem(r.Context(), id, user.ID)
	if err != nil {
		s.respondServiceError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusOK, item)
}

func (s *Server) handleEditItem(w http.ResponseWriter, r *http.Request) {
	id, ok := s.requirePathID(w, r)
	if !ok {
		return
	}

	var patch models.ItemPatch
	if !s.decodeJSON(w, r, &patch) {
		return
	}

	item, err := s.svc.EditItem(r.Context(), id, patch)
	if err != nil {
		s.respondServiceError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusOK, item)
}

func (s *Server) handleClaimItem(w http.ResponseWriter, r *http.Request) {
	s.transitionAsCaller(w, r, service.TransitionClaim, s.svc.Claim)
}

func (s *Server) handleAcquireItem(w http.ResponseWriter, r *http.Request) {
	s.transitionAsCaller(w, r, service.TransitionAcquire, s.svc.Acquire)
}

func (s *Server) handleUnclaimItem(w http.ResponseWriter, r *http.Request) {
	s.clearTransition(w, r, service.TransitionUnclaim, s.svc.Unclaim)
}

func (s *Server) handleUnacquireItem(w http.ResponseWriter, r *http.Request) {
	s.clearTransition(w, r, service.TransitionUnacquire, s.svc.Unacquire)
}

// transitionAsCaller records the authenticated caller as claimant or acquirer.
func (s *Server) transitionAsCaller(w http.ResponseWriter, r *http.Request, t service.Transition,
	apply func(ctx context.Context, itemID, userID int64) (*models.Item, error)) {
	id, ok := s.requirePathID(w, r)
	if !ok {
		return
	}
	user, ok := s.currentUser(w, r)
	if !ok {
		return
	}

	item, err := apply(r.Context(), id, user.ID)
	if err != nil {
		s.respondServiceError(w, r, err)
		return
	}
	metrics.RecordItemTransition(string(t))
	s.respondJSON(w, http.StatusOK, item)
}

func (s *Server) clearTransition(w http.ResponseWriter, r *http.Request, t service.Transition,
	apply func(ctx context.Context, itemID int64) (*models.Item, error)) {
	id, ok := s.requirePathID(w, r)
	if !ok {
		return
	}

	item, err := apply(r.Context(), id)
	if err != nil {
		s.respondServiceError(w, r, err)
		return
	}
	metrics.RecordItemTransition(string(t))
	s.respondJSON(w, http.StatusOK, item)
}
