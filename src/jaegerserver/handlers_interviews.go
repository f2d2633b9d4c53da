package jaegerserver

import (
	"fmt"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/MGavranovic/jaeger-tracker/src/jaegermodel"
	"github.com/MGavranovic/jaeger-tracker/src/urlparser"
)

// roundPath reads {applicationId} and, when withRound is set, {id}.
func roundPath(r *http.Request, withRound bool) (applicationID, id int64, err error) {
	vars := mux.Vars(r)
	if applicationID, err = urlparser.ParseID(vars, "applicationId"); err != nil {
		return 0, 0, err
	}
	if withRound {
		if id, err = urlparser.ParseID(vars, "id"); err != nil {
			return 0, 0, err
		}
	}
	return applicationID, id, nil
}

func (s *Server) handleListRounds(w http.ResponseWriter, r *http.Request) {
	appID, _, err := roundPath(r, false)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	rounds, err := s.svc.Interviews.List(r.Context(), currentUserID(r), appID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.respond(w, r, http.StatusOK, rounds)
}

func (s *Server) handleGetRound(w http.ResponseWriter, r *http.Request) {
	appID, id, err := roundPath(r, true)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	round, err := s.svc.Interviews.Get(r.Context(), currentUserID(r), appID, id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.respond(w, r, http.StatusOK, round)
}

// A result sent on create is ignored; new rounds always start Pending.
func (s *Server) handleCreateRound(w http.ResponseWriter, r *http.Request) {
	appID, _, err := roundPath(r, false)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var in jaegermodel.InterviewRoundCreate
	if err := decodeJSON(w, r, &in); err != nil {
		s.writeError(w, r, err)
		return
	}
	round, err := s.svc.Interviews.Create(r.Context(), currentUserID(r), appID, in)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Location", fmt.Sprintf("/api/jobapplications/%d/interviews/%d", appID, round.ID))
	s.respond(w, r, http.StatusCreated, round)
}

func (s *Server) handleUpdateRound(w http.ResponseWriter, r *http.Request) {
	appID, id, err := roundPath(r, true)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var patch jaegermodel.InterviewRoundPatch
	if err := decodeJSON(w, r, &patch); err != nil {
		s.writeError(w, r, err)
		return
	}
	round, err := s.svc.Interviews.Update(r.Context(), currentUserID(r), appID, id, patch)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.respond(w, r, http.StatusOK, round)
}

func (s *Server) handleDeleteRound(w http.ResponseWriter, r *http.Request) {
	appID, id, err := roundPath(r, true)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.svc.Interviews.Delete(r.Context(), currentUserID(r), appID, id); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
