package httpapi

import (
	"net/http"

	"github.com/dkarklins/jobfolio/internal/restapi"
	"github.com/dkarklins/jobfolio/internal/server/services"
)

func tokenPairResponse(pair *services.TokenPair) restapi.TokenPair {
	return restapi.TokenPair{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		ExpiresAt:    pair.ExpiresAt,
		User:         restapi.User{ID: pair.User.ID, Email: pair.User.Email},
	}
}

func (s *Server) handleSignUp(w http.ResponseWriter, r *http.Request) {
	var creds restapi.Credentials
	if !decodeBody(w, r, &creds) {
		return
	}

	pair, err := s.users.Register(r.Context(), creds.Email, creds.Password)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tokenPairResponse(pair))
}

func (s *Server) handleSignIn(w http.ResponseWriter, r *http.Request) {
	var creds restapi.Credentials
	if !decodeBody(w, r, &creds) {
		return
	}

	pair, err := s.users.Login(r.Context(), creds.Email, creds.Password)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tokenPairResponse(pair))
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	var req restapi.RefreshRequest
	if !decodeBody(w, r, &req) {
		return
	}

	pair, err := s.users.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tokenPairResponse(pair))
}

func (s *Server) handleSignOut(w http.ResponseWriter, r *http.Request) {
	var req restapi.RefreshRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if err := s.users.Logout(r.Context(), req.RefreshToken); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleResetRequest(w http.ResponseWriter, r *http.Request) {
	var req restapi.ResetRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if err := s.users.RequestPasswordReset(r.Context(), req.Email, req.RedirectTarget); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleResetConfirm redeems an emailed reset token. It is the landing
// endpoint of the redirect target in the reset mail.
func (s *Server) handleResetConfirm(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Token       string `json:"token"`
		NewPassword string `json:"new_password"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	if err := s.users.ResetPassword(r.Context(), req.Token, req.NewPassword); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handlePasswordUpdate(w http.ResponseWriter, r *http.Request) {
	var req restapi.PasswordUpdate
	if !decodeBody(w, r, &req) {
		return
	}

	if err := s.users.UpdatePassword(r.Context(), requestUserID(r), req.NewPassword); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
