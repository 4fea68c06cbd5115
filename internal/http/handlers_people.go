package http

import (
	"net/http"

	"chorebucks/internal/core"
	"chorebucks/internal/log"
)

type createPersonRequest struct {
	Name   string    `json:"name"`
	Role   core.Role `json:"role"`
	Avatar string    `json:"avatar"`
	Color  string    `json:"color"`
}

func (s *Server) handleCreatePerson(w http.ResponseWriter, r *http.Request) {
	var req createPersonRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	person := core.Person{
		Name:   req.Name,
		Role:   req.Role,
		Avatar: req.Avatar,
		Color:  req.Color,
	}
	if err := person.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	created, err := s.repo.CreatePerson(r.Context(), person)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	s.logger.InfoContext(r.Context(), "person created",
		log.FieldPersonID, created.ID, "role", string(created.Role))
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleListPeople(w http.ResponseWriter, r *http.Request) {
	people, err := s.repo.ListPeople(r.Context())
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	if people == nil {
		people = []core.Person{}
	}
	writeJSON(w, http.StatusOK, people)
}

func (s *Server) handleGetPerson(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	person, err := s.repo.GetPerson(r.Context(), id)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, person)
}

func (s *Server) handleUpdatePerson(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var patch core.PersonPatch
	if err := decodeJSON(r, &patch); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := patch.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	updated, err := s.repo.UpdatePerson(r.Context(), id, patch)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeletePerson(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.repo.DeletePerson(r.Context(), id); err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	s.logger.InfoContext(r.Context(), "person deleted", log.FieldPersonID, id)
	w.WriteHeader(http.StatusNoContent)
}
