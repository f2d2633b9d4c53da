package jaegerservice

import (
	"context"
	"strings"
	"time"

	"github.com/MGavranovic/jaeger-tracker/src/jaegerdb"
	"github.com/MGavranovic/jaeger-tracker/src/jaegermodel"
)

// CompanyService manages the shared directory. Callers enforce the admin
// role on mutations.
type CompanyService struct {
	gw  jaegerdb.Gateway
	now func() time.Time
}

func (s *CompanyService) List(ctx context.Context, searchTerm string) ([]CompanyResponse, error) {
	companies, err := s.gw.Companies().Search(ctx, searchTerm)
	if err != nil {
		return nil, err
	}
	out := make([]CompanyResponse, 0, len(companies))
	for _, c := range companies {
		out = append(out, newCompanyResponse(c))
	}
	return out, nil
}

func (s *CompanyService) Get(ctx context.Context, id int64) (CompanyResponse, error) {
	c, err := s.gw.Companies().Get(ctx, id)
	if err != nil {
		return CompanyResponse{}, err
	}
	return newCompanyResponse(c), nil
}

func (s *CompanyService) Create(ctx context.Context, in jaegermodel.CompanyCreate) (CompanyResponse, error) {
	in.Name = strings.TrimSpace(in.Name)
	if err := Validate(in); err != nil {
		return CompanyResponse{}, err
	}
	c, err := s.gw.Companies().Add(ctx, in.NewCompany(s.now()))
	if err != nil {
		return CompanyResponse{}, err
	}
	return newCompanyResponse(c), nil
}

func (s *CompanyService) Update(ctx context.Context, id int64, patch jaegermodel.CompanyPatch) (CompanyResponse, error) {
	trimPtr(patch.Name)
	if err := Validate(patch); err != nil {
		return CompanyResponse{}, err
	}
	c, err := s.gw.Companies().Get(ctx, id)
	if err != nil {
		return CompanyResponse{}, err
	}
	patch.Apply(&c, s.now())
	c, err = s.gw.Companies().Update(ctx, c)
	if err != nil {
		return CompanyResponse{}, err
	}
	return newCompanyResponse(c), nil
}

// Delete leaves applications in place with their company reference cleared.
func (s *CompanyService) Delete(ctx context.Context, id int64) error {
	return s.gw.Companies().Delete(ctx, jaegermodel.Company{ID: id})
}
