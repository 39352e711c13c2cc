package api

import (
	"net/http"

	"github.com/Kerhoff/giftlist/internal/models"
)

type createWishlistRequest struct {
	Title         string  `json:"title"`
	RecipientName *string `json:"recipient_name"`
}

type joinWishlistRequest struct {
	InvitationID string `json:"invitation_id"`
}

func (s *Server) handleCreateWishlist(w http.ResponseWriter, r *http.Request) {
	user, ok := s.currentUser(w, r)
	if !ok {
		return
	}

	var req createWishlistRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}

	list, err := s.svc.CreateWishlist(r.Context(), user.ID, req.Title, req.RecipientName)
	if err != nil {
		s.respondServiceError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusCreated, list)
}

func (s *Server) handleGetWishlist(w http.ResponseWriter, r *http.Request) {
	id, ok := s.requirePathID(w, r)
	if !ok {
		return
	}

	list, err := s.svc.GetWishlist(r.Context(), id)
	if err != nil {
		s.respondServiceError(w, r, err)
		return
	}
	member, err := s.viewerIsMember(r, list.ID)
	if err != nil {
		s.respondServiceError(w, r, err)
		return
	}
	if !member {
		list.InvitationID = ""
	}
	s.respondJSON(w, http.StatusOK, list)
}

func (s *Server) handleGetUserWishlists(w http.ResponseWriter, r *http.Request) {
	user, ok := s.currentUser(w, r)
	if !ok {
		return
	}

	lists, err := s.svc.ListWishlistsForUser(r.Context(), user.ID)
	if err != nil {
		s.respondServiceError(w, r, err)
		return
	}
	if lists == nil {
		lists = []*models.Wishlist{}
	}
	s.respondJSON(w, http.StatusOK, lists)
}

func (s *Server) handleGetWishlistUsers(w http.ResponseWriter, r *http.Request) {
	id, ok := s.requirePathID(w, r)
	if !ok {
		return
	}

	members, err := s.svc.ListMembers(r.Context(), id)
	if err != nil {
		s.respondServiceError(w, r, err)
		return
	}
	if members == nil {
		members = []models.Member{}
	}
	s.respondJSON(w, http.StatusOK, members)
}

// handleJoinWishlist adds the caller as a contributor. The invitation id in
// the body must belong to the wishlist named in the path.
func (s *Server) handleJoinWishlist(w http.ResponseWriter, r *http.Request) {
	id, ok := s.requirePathID(w, r)
	if !ok {
		return
	}
	user, ok := s.currentUser(w, r)
	if !ok {
		return
	}

	var req joinWishlistRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}

	wishlistID, err := s.svc.JoinByInvitationToken(r.Context(), req.InvitationID, user.ID)
	if err != nil {
		s.respondServiceError(w, r, err)
		return
	}
	if wishlistID != id {
		s.respondError(w, http.StatusNotFound, "invitation does not belong to this wishlist")
		return
	}

	if err := s.svc.AddMember(r.Context(), wishlistID, user.ID, models.RoleContributor); err != nil {
		s.respondServiceError(w, r, err)
		return
	}

	members, err := s.svc.ListMembers(r.Context(), wishlistID)
	if err != nil {
		s.respondServiceError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusCreated, members)
}

func (s *Server) handleLeaveWishlist(w http.ResponseWriter, r *http.Request) {
	id, ok := s.requirePathID(w, r)
	if !ok {
		return
	}
	user, ok := s.currentUser(w, r)
	if !ok {
		return
	}

	if err := s.svc.RemoveMember(r.Context(), id, user.ID); err != nil {
		s.respondServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleValidateInvitation answers with the wishlist id, or false when the
// token is well formed but unknown.
func (s *Server) handleValidateInvitation(w http.ResponseWriter, r *http.Request) {
	wishlistID, found, err := s.svc.ValidateInvitationToken(r.Context(), r.URL.Query().Get("uuid"))
	if err != nil {
		s.respondServiceError(w, r, err)
		return
	}
	if !found {
		s.respondJSON(w, http.StatusOK, false)
		return
	}
	s.respondJSON(w, http.StatusOK, wishlistID)
}
