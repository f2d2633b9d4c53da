package jaegerservice

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/MGavranovic/jaeger-tracker/src/jaegerdb"
	"github.com/MGavranovic/jaeger-tracker/src/jaegermodel"
)

// InterviewService reaches every round through its parent application, which
// must belong to the caller.
type InterviewService struct {
	gw  jaegerdb.Gateway
	rec Recorder
	now func() time.Time
	log *zap.Logger
}

// resolveApplicationForUser returns the application only if userID owns it.
// A foreign application fails exactly like a missing one.
func resolveApplicationForUser(ctx context.Context, gw jaegerdb.Gateway, applicationID, userID int64) (jaegermodel.JobApplication, error) {
	return gw.Applications().GetForOwner(ctx, applicationID, userID)
}

func (s *InterviewService) List(ctx context.Context, userID, applicationID int64) ([]RoundResponse, error) {
	app, err := resolveApplicationForUser(ctx, s.gw, applicationID, userID)
	if err != nil {
		return nil, err
	}
	return newApplicationDetail(app).InterviewRounds, nil
}

func (s *InterviewService) Get(ctx context.Context, userID, applicationID, id int64) (RoundResponse, error) {
	app, err := resolveApplicationForUser(ctx, s.gw, applicationID, userID)
	if err != nil {
		return RoundResponse{}, err
	}
	r, err := s.gw.Rounds().GetForApplication(ctx, id, app.ID)
	if err != nil {
		return RoundResponse{}, err
	}
	return newRoundResponse(r, app.JobTitle), nil
}

// Create adds a Pending round. An application still in Applied moves to
// Interviewing in the same transaction, so readers see both changes or
// neither.
func (s *InterviewService) Create(ctx context.Context, userID, applicationID int64, in jaegermodel.InterviewRoundCreate) (RoundResponse, error) {
	if err := Validate(in); err != nil {
		return RoundResponse{}, err
	}

	var (
		app     jaegermodel.JobApplication
		round   jaegermodel.InterviewRound
		before  jaegermodel.ApplicationStatus
		changed bool
	)
	err := s.gw.InTx(ctx, func(tx jaegerdb.Gateway) error {
		var err error
		app, err = resolveApplicationForUser(ctx, tx, applicationID, userID)
		if err != nil {
			return err
		}
		now := s.now()

		before = app.Status
		var next jaegermodel.ApplicationStatus
		if next, changed = jaegermodel.StatusAfterRoundCreated(app.Status); changed {
			app.Status = next
			app.UpdatedAt = now
			if app, err = tx.Applications().Update(ctx, app); err != nil {
				return err
			}
		}

		round, err = tx.Rounds().Add(ctx, in.NewRound(app.ID, now))
		return err
	})
	if err != nil {
		return RoundResponse{}, err
	}

	if changed {
		s.rec.StatusChanged(before, app.Status)
		s.log.Info("Application moved to interviewing",
			zap.Int64("application_id", app.ID),
			zap.String("from", string(before)),
			zap.String("to", string(app.Status)))
	}
	return newRoundResponse(round, app.JobTitle), nil
}

// Update never changes the parent's status.
func (s *InterviewService) Update(ctx context.Context, userID, applicationID, id int64, patch jaegermodel.InterviewRoundPatch) (RoundResponse, error) {
	if err := Validate(patch); err != nil {
		return RoundResponse{}, err
	}
	app, err := resolveApplicationForUser(ctx, s.gw, applicationID, userID)
	if err != nil {
		return RoundResponse{}, err
	}
	r, err := s.gw.Rounds().GetForApplication(ctx, id, app.ID)
	if err != nil {
		return RoundResponse{}, err
	}
	patch.Apply(&r, s.now())
	r, err = s.gw.Rounds().Update(ctx, r)
	if err != nil {
		return RoundResponse{}, err
	}
	return newRoundResponse(r, app.JobTitle), nil
}

func (s *InterviewService) Delete(ctx context.Context, userID, applicationID, id int64) error {
	app, err := resolveApplicationForUser(ctx, s.gw, applicationID, userID)
	if err != nil {
		return err
	}
	return s.gw.Rounds().Delete(ctx, jaegermodel.InterviewRound{ID: id, JobApplicationID: app.ID})
}
