package jaegerserver

import (
	"fmt"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/MGavranovic/jaeger-tracker/src/jaegermodel"
	"github.com/MGavranovic/jaeger-tracker/src/urlparser"
)

func (s *Server) handleListApplications(w http.ResponseWriter, r *http.Request) {
	q, err := urlparser.ParseApplicationQuery(r.URL.Query())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	page, err := s.svc.Applications.List(r.Context(), currentUserID(r), q)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.respond(w, r, http.StatusOK, page)
}

func (s *Server) handleGetApplication(w http.ResponseWriter, r *http.Request) {
	id, err := urlparser.ParseID(mux.Vars(r), "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	app, err := s.svc.Applications.Get(r.Context(), currentUserID(r), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.respond(w, r, http.StatusOK, app)
}

func (s *Server) handleCreateApplication(w http.ResponseWriter, r *http.Request) {
	var in jaegermodel.ApplicationCreate
	if err := decodeJSON(w, r, &in); err != nil {
		s.writeError(w, r, err)
		return
	}
	app, err := s.svc.Applications.Create(r.Context(), currentUserID(r), in)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Location", fmt.Sprintf("/api/jobapplications/%d", app.ID))
	s.respond(w, r, http.StatusCreated, app)
}

func (s *Server) handleUpdateApplication(w http.ResponseWriter, r *http.Request) {
	id, err := urlparser.ParseID(mux.Vars(r), "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var patch jaegermodel.ApplicationPatch
	if err := decodeJSON(w, r, &patch); err != nil {
		s.writeError(w, r, err)
		return
	}
	app, err := s.svc.Applications.Update(r.Context(), currentUserID(r), id, patch)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.respond(w, r, http.StatusOK, app)
}

func (s *Server) handleDeleteApplication(w http.ResponseWriter, r *http.Request) {
	id, err := urlparser.ParseID(mux.Vars(r), "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.svc.Applications.Delete(r.Context(), currentUserID(r), id); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
