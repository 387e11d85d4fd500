package web

import (
	"net/http"

	"github.com/JonMunkholm/BloodBank/internal/core"
)

// handleRegisterUser handles POST /api/v1/users.
func (s *Server) handleRegisterUser(w http.ResponseWriter, r *http.Request) {
	const fallback = "Error In Register API"

	var req core.RegisterRequest
	if err := decodeJSON(w, r, &req, lenient); err != nil {
		s.respondError(w, r, err, fallback)
		return
	}

	u, err := s.service.RegisterUser(r.Context(), req)
	if err != nil {
		s.respondError(w, r, err, fallback)
		return
	}
	writeJSON(w, http.StatusCreated, success("User Registered Successfully").with("user", u))
}

// handleCurrentUser handles GET /api/v1/users/current-user.
func (s *Server) handleCurrentUser(w http.ResponseWriter, r *http.Request) {
	u, err := s.service.CurrentUser(r.Context(), actorID(r, ""))
	if err != nil {
		s.respondError(w, r, err, "Unable To Get Current User")
		return
	}
	writeJSON(w, http.StatusOK, success("User Fetched Successfully").with("user", u))
}

// handleListUsers serves the admin listings. AdminOnly has already run.
func (s *Server) handleListUsers(role core.Role, key, message string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		users, err := s.service.ListUsersByRole(r.Context(), role)
		if err != nil {
			s.respondError(w, r, err, "Error In "+string(role)+" List API")
			return
		}
		writeJSON(w, http.StatusOK, success(message).with(key, users))
	}
}
