package http

import (
	"net/http"

	"chorebucks/internal/core"
)

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	transactions, err := s.repo.ListTransactions(r.Context())
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	if transactions == nil {
		transactions = []core.TransactionWithRefs{}
	}
	writeJSON(w, http.StatusOK, transactions)
}

func (s *Server) handleListPersonTransactions(w http.ResponseWriter, r *http.Request) {
	personID, err := idParam(r, "personId")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	// 404 for an unknown person rather than an empty list.
	if _, err := s.repo.GetPerson(r.Context(), personID); err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	transactions, err := s.repo.ListTransactionsByPerson(r.Context(), personID)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	if transactions == nil {
		transactions = []core.TransactionWithRefs{}
	}
	writeJSON(w, http.StatusOK, transactions)
}
