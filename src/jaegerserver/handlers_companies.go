package jaegerserver

import (
	"fmt"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/MGavranovic/jaeger-tracker/src/jaegermodel"
	"github.com/MGavranovic/jaeger-tracker/src/urlparser"
)

func (s *Server) handleListCompanies(w http.ResponseWriter, r *http.Request) {
	companies, err := s.svc.Companies.List(r.Context(), r.URL.Query().Get("searchTerm"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.respond(w, r, http.StatusOK, companies)
}

func (s *Server) handleGetCompany(w http.ResponseWriter, r *http.Request) {
	id, err := urlparser.ParseID(mux.Vars(r), "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	company, err := s.svc.Companies.Get(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.respond(w, r, http.StatusOK, company)
}

func (s *Server) handleCreateCompany(w http.ResponseWriter, r *http.Request) {
	var in jaegermodel.CompanyCreate
	if err := decodeJSON(w, r, &in); err != nil {
		s.writeError(w, r, err)
		return
	}
	company, err := s.svc.Companies.Create(r.Context(), in)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Location", fmt.Sprintf("/api/companies/%d", company.ID))
	s.respond(w, r, http.StatusCreated, company)
}

func (s *Server) handleUpdateCompany(w http.ResponseWriter, r *http.Request) {
	id, err := urlparser.ParseID(mux.Vars(r), "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var patch jaegermodel.CompanyPatch
	if err := decodeJSON(w, r, &patch); err != nil {
		s.writeError(w, r, err)
		return
	}
	company, err := s.svc.Companies.Update(r.Context(), id, patch)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.respond(w, r, http.StatusOK, company)
}

func (s *Server) handleDeleteCompany(w http.ResponseWriter, r *http.Request) {
	id, err := urlparser.ParseID(mux.Vars(r), "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.svc.Companies.Delete(r.Context(), id); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
