package http

import (
	"net/http"

	"chorebucks/internal/core"
	"chorebucks/internal/log"
)

type createChoreRequest struct {
	Title      string         `json:"title"`
	AssignedTo int64          `json:"assigned_to"`
	Reward     int64          `json:"reward"`
	Frequency  core.Frequency `json:"frequency"`
}

func (s *Server) handleCreateChore(w http.ResponseWriter, r *http.Request) {
	var req createChoreRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	chore := core.Chore{
		Title:      req.Title,
		AssignedTo: req.AssignedTo,
		Reward:     req.Reward,
		Frequency:  req.Frequency,
	}
	if err := chore.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	created, err := s.repo.CreateChore(r.Context(), chore)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	s.logger.InfoContext(r.Context(), "chore created",
		log.FieldChoreID, created.ID,
		log.FieldPersonID, created.AssignedTo,
		log.FieldFrequency, string(created.Frequency))
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleListChores(w http.ResponseWriter, r *http.Request) {
	chores, err := s.repo.ListChores(r.Context())
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	if chores == nil {
		chores = []core.ChoreWithAssignee{}
	}
	writeJSON(w, http.StatusOK, chores)
}

func (s *Server) handleGetChore(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	chore, err := s.repo.GetChoreWithAssignee(r.Context(), id)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, chore)
}

func (s *Server) handleUpdateChore(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var patch core.ChorePatch
	if err := decodeJSON(r, &patch); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := patch.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	updated, err := s.repo.UpdateChore(r.Context(), id, patch)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteChore(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.repo.DeleteChore(r.Context(), id); err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	s.logger.InfoContext(r.Context(), "chore deleted", log.FieldChoreID, id)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleCompleteChore(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	chore, err := s.ledger.CompleteChore(r.Context(), id)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, chore)
}

func (s *Server) handleUncompleteChore(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	chore, err := s.ledger.UncompleteChore(r.Context(), id)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, chore)
}
