package jaegerservice

import (
	"context"
	"strings"
	"time"

	"github.com/MGavranovic/jaeger-tracker/src/jaegerdb"
	"github.com/MGavranovic/jaeger-tracker/src/jaegererr"
	"github.com/MGavranovic/jaeger-tracker/src/jaegermodel"
)

// ApplicationService is scoped to the calling user on every operation; other
// users' applications are indistinguishable from missing ones.
type ApplicationService struct {
	gw  jaegerdb.Gateway
	rec Recorder
	now func() time.Time
}

func (s *ApplicationService) List(ctx context.Context, userID int64, q jaegermodel.ApplicationQuery) (jaegermodel.Page[ApplicationResponse], error) {
	if err := q.Validate(); err != nil {
		return jaegermodel.Page[ApplicationResponse]{}, err
	}
	page, err := s.gw.Applications().ListForOwner(ctx, userID, q)
	if err != nil {
		return jaegermodel.Page[ApplicationResponse]{}, err
	}
	return jaegermodel.MapPage(page, newApplicationResponse), nil
}

func (s *ApplicationService) Get(ctx context.Context, userID, id int64) (ApplicationDetailResponse, error) {
	app, err := s.gw.Applications().GetForOwner(ctx, id, userID)
	if err != nil {
		return ApplicationDetailResponse{}, err
	}
	return newApplicationDetail(app), nil
}

func (s *ApplicationService) Create(ctx context.Context, userID int64, in jaegermodel.ApplicationCreate) (ApplicationDetailResponse, error) {
	in.JobTitle = strings.TrimSpace(in.JobTitle)
	in.CompanyName = strings.TrimSpace(in.CompanyName)
	if err := Validate(in); err != nil {
		return ApplicationDetailResponse{}, err
	}
	if err := s.checkCompany(ctx, in.CompanyID); err != nil {
		return ApplicationDetailResponse{}, err
	}
	app, err := s.gw.Applications().Add(ctx, in.NewApplication(userID, s.now()))
	if err != nil {
		return ApplicationDetailResponse{}, err
	}
	return newApplicationDetail(app), nil
}

// Update applies only the fields present in patch. Concurrent updates to the
// same application are last-writer-wins.
func (s *ApplicationService) Update(ctx context.Context, userID, id int64, patch jaegermodel.ApplicationPatch) (ApplicationDetailResponse, error) {
	trimPtr(patch.JobTitle)
	trimPtr(patch.CompanyName)
	if err := Validate(patch); err != nil {
		return ApplicationDetailResponse{}, err
	}
	app, err := s.gw.Applications().GetForOwner(ctx, id, userID)
	if err != nil {
		return ApplicationDetailResponse{}, err
	}
	if err := s.checkCompany(ctx, patch.CompanyID); err != nil {
		return ApplicationDetailResponse{}, err
	}

	before := app.Status
	patch.Apply(&app, s.now())
	app, err = s.gw.Applications().Update(ctx, app)
	if err != nil {
		return ApplicationDetailResponse{}, err
	}
	if app.Status != before {
		s.rec.StatusChanged(before, app.Status)
	}
	return newApplicationDetail(app), nil
}

func (s *ApplicationService) Delete(ctx context.Context, userID, id int64) error {
	return s.gw.Applications().Delete(ctx, jaegermodel.JobApplication{ID: id, UserID: userID})
}

func (s *ApplicationService) checkCompany(ctx context.Context, companyID *int64) error {
	if companyID == nil {
		return nil
	}
	ok, err := s.gw.Companies().Exists(ctx, *companyID)
	if err != nil {
		return err
	}
	if !ok {
		return jaegererr.Invalid("Company with ID %d does not exist.", *companyID)
	}
	return nil
}
