package httpapi

import (
	"context"
	"net/http"
	"strings"

	"github.com/dkarklins/jobfolio/internal/common"
	"github.com/dkarklins/jobfolio/internal/restapi"
)

type contextKey string

const userIDKey contextKey = "user_id"

// authenticated verifies the Bearer access token and places the subject's
// user id on the request context.
func (s *Server) authenticated(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get(common.AccessTokenHeaderName)
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			writeJSON(w, http.StatusUnauthorized, restapi.ErrorResponse{Error: "missing access token"})
			return
		}

		userID, err := s.users.VerifyAccessToken(token)
		if err != nil {
			writeError(w, err)
			return
		}

		ctx := context.WithValue(r.Context(), userIDKey, userID)
		next(w, r.WithContext(ctx))
	}
}

func requestUserID(r *http.Request) string {
	id, _ := r.Context().Value(userIDKey).(string)
	return id
}
