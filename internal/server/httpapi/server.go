// Package httpapi exposes the REST surface: authentication, the row
// store, and blob upload/download, on a gorilla/mux router.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/dkarklins/jobfolio/internal/common"
	"github.com/dkarklins/jobfolio/internal/logging"
	"github.com/dkarklins/jobfolio/internal/restapi"
	"github.com/dkarklins/jobfolio/internal/server/services"
)

// BlobStore is the object-storage surface the handlers need.
type BlobStore interface {
	Upload(ctx context.Context, bucket, key string, body io.Reader) error
	GetPresignedGetURL(ctx context.Context, bucket, key string) (string, error)
}

type Server struct {
	addr   string
	logger logging.Logger
	users  *services.UserService
	store  *services.StoreService
	blobs  BlobStore

	http *http.Server
}

func NewServer(addr string, logger logging.Logger, users *services.UserService,
	store *services.StoreService, blobs BlobStore) *Server {
	s := &Server{addr: addr, logger: logger, users: users, store: store, blobs: blobs}
	s.http = &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Router builds the route table. Exposed separately so tests can drive
// the handlers through httptest without binding a port.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/api/auth/signup", s.handleSignUp).Methods(http.MethodPost)
	r.HandleFunc("/api/auth/signin", s.handleSignIn).Methods(http.MethodPost)
	r.HandleFunc("/api/auth/refresh", s.handleRefresh).Methods(http.MethodPost)
	r.HandleFunc("/api/auth/signout", s.handleSignOut).Methods(http.MethodPost)
	r.HandleFunc("/api/auth/reset", s.handleResetRequest).Methods(http.MethodPost)
	r.HandleFunc("/api/auth/reset/confirm", s.handleResetConfirm).Methods(http.MethodPost)
	r.HandleFunc("/api/auth/password", s.authenticated(s.handlePasswordUpdate)).Methods(http.MethodPost)

	r.HandleFunc("/api/store/{table}/select", s.authenticated(s.handleSelect)).Methods(http.MethodPost)
	r.HandleFunc("/api/store/{table}/insert", s.authenticated(s.handleInsert)).Methods(http.MethodPost)
	r.HandleFunc("/api/store/{table}/update", s.authenticated(s.handleUpdate)).Methods(http.MethodPost)
	r.HandleFunc("/api/store/{table}/upsert", s.authenticated(s.handleUpsert)).Methods(http.MethodPost)
	r.HandleFunc("/api/store/{table}/delete", s.authenticated(s.handleDelete)).Methods(http.MethodPost)

	r.HandleFunc("/api/blob/{bucket}/{key:.+}", s.authenticated(s.handleBlobUpload)).Methods(http.MethodPut)
	r.HandleFunc("/public/{bucket}/{key:.+}", s.handleBlobRedirect).Methods(http.MethodGet)

	return r
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info(ctx, "http server listening", "addr", s.addr)
		if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.http.Shutdown(shutdownCtx)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, common.ErrValidation):
		status = http.StatusBadRequest
	case errors.Is(err, common.ErrUnauthorized),
		errors.Is(err, common.ErrTokenExpired),
		errors.Is(err, common.ErrInvalidToken):
		status = http.StatusUnauthorized
	case errors.Is(err, common.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, common.ErrAlreadyExists):
		status = http.StatusConflict
	}
	writeJSON(w, status, restapi.ErrorResponse{Error: err.Error()})
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, restapi.ErrorResponse{Error: "malformed request body"})
		return false
	}
	return true
}
