package httpapi

import (
	"net/http"

	"github.com/gorilla/mux"
)

func (s *Server) handleBlobUpload(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	if err := s.blobs.Upload(r.Context(), vars["bucket"], vars["key"], r.Body); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleBlobRedirect turns the stable public URL into a temporary
// presigned one. The object store stays private; only this endpoint
// hands out access.
func (s *Server) handleBlobRedirect(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	url, err := s.blobs.GetPresignedGetURL(r.Context(), vars["bucket"], vars["key"])
	if err != nil {
		writeError(w, err)
		return
	}
	http.Redirect(w, r, url, http.StatusTemporaryRedirect)
}
