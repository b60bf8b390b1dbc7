package httpapi

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/dkarklins/jobfolio/internal/backend"
	"github.com/dkarklins/jobfolio/internal/restapi"
)

func (s *Server) handleSelect(w http.ResponseWriter, r *http.Request) {
	var req restapi.SelectRequest
	if !decodeBody(w, r, &req) {
		return
	}

	var order *backend.Order
	if req.Order != nil {
		order = &backend.Order{Column: req.Order.Column, Descending: req.Order.Descending}
	}

	rows, err := s.store.Select(r.Context(), requestUserID(r), mux.Vars(r)["table"], req.Filter, order)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, restapi.RowsResponse{Rows: rows})
}

func (s *Server) handleInsert(w http.ResponseWriter, r *http.Request) {
	var req restapi.InsertRequest
	if !decodeBody(w, r, &req) {
		return
	}

	row, err := s.store.Insert(r.Context(), requestUserID(r), mux.Vars(r)["table"], req.Row)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, restapi.RowResponse{Row: row})
}

func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	var req restapi.UpdateRequest
	if !decodeBody(w, r, &req) {
		return
	}

	rows, err := s.store.Update(r.Context(), requestUserID(r), mux.Vars(r)["table"], req.Patch, req.Filter)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, restapi.RowsResponse{Rows: rows})
}

func (s *Server) handleUpsert(w http.ResponseWriter, r *http.Request) {
	var req restapi.UpsertRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if err := s.store.Upsert(r.Context(), requestUserID(r), mux.Vars(r)["table"], req.Row, req.ConflictKey); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	var req restapi.DeleteRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if err := s.store.Delete(r.Context(), requestUserID(r), mux.Vars(r)["table"], req.Filter); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
