package http

import (
	"net/http"

	"freela/internal/services"
)

func (s *Server) handleAddTransaction(w http.ResponseWriter, r *http.Request) {
	var in services.AddTransactionInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	writeResult(w, r, s.svc.AddTransaction.Execute(r.Context(), in), http.StatusCreated)
}

func (s *Server) handleUpdateTransaction(w http.ResponseWriter, r *http.Request) {
	var in services.UpdateTransactionInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	in.ID = r.PathValue("id")
	writeResult(w, r, s.svc.UpdateTransaction.Execute(r.Context(), in), http.StatusOK)
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	in := services.IDInput{ID: r.PathValue("id")}
	writeResult(w, r, s.svc.DeleteTransaction.Execute(r.Context(), in), http.StatusOK)
}
