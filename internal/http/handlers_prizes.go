package http

import (
	"net/http"

	"chorebucks/internal/core"
	"chorebucks/internal/log"
)

type createPrizeRequest struct {
	Name  string `json:"name"`
	Cost  int64  `json:"cost"`
	Emoji string `json:"emoji"`
}

type redeemPrizeRequest struct {
	PersonID int64 `json:"person_id"`
}

func (s *Server) handleCreatePrize(w http.ResponseWriter, r *http.Request) {
	var req createPrizeRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	prize := core.Prize{
		Name:  req.Name,
		Cost:  req.Cost,
		Emoji: req.Emoji,
	}
	if err := prize.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	created, err := s.repo.CreatePrize(r.Context(), prize)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	s.logger.InfoContext(r.Context(), "prize created",
		log.FieldPrizeID, created.ID, "cost", created.Cost)
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleListPrizes(w http.ResponseWriter, r *http.Request) {
	prizes, err := s.repo.ListPrizes(r.Context())
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	if prizes == nil {
		prizes = []core.Prize{}
	}
	writeJSON(w, http.StatusOK, prizes)
}

func (s *Server) handleGetPrize(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	prize, err := s.repo.GetPrize(r.Context(), id)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, prize)
}

func (s *Server) handleUpdatePrize(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var patch core.PrizePatch
	if err := decodeJSON(r, &patch); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := patch.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	updated, err := s.repo.UpdatePrize(r.Context(), id, patch)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeletePrize(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.repo.DeletePrize(r.Context(), id); err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	s.logger.InfoContext(r.Context(), "prize deleted", log.FieldPrizeID, id)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleRedeemPrize(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req redeemPrizeRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.PersonID < 1 {
		writeError(w, http.StatusBadRequest, "person_id is required")
		return
	}

	result, err := s.ledger.RedeemPrize(r.Context(), id, req.PersonID)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}
