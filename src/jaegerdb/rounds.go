package jaegerdb

import (
	"context"

	sq "github.com/Masterminds/squirrel"

	"github.com/MGavranovic/jaeger-tracker/src/jaegermodel"
)

const roundEntity = "Interview round"

type roundStore struct {
	db *DB
}

func (s *roundStore) Get(ctx context.Context, id int64) (jaegermodel.InterviewRound, error) {
	r, err := queryOne[jaegermodel.InterviewRound](ctx, s.db, "jaegerdb.GetRound",
		psql.Select(roundColumns...).From("interview_rounds").Where(sq.Eq{"id": id}))
	return r, notFoundAs(err, roundEntity, id)
}

func (s *roundStore) GetForApplication(ctx context.Context, id, applicationID int64) (jaegermodel.InterviewRound, error) {
	r, err := queryOne[jaegermodel.InterviewRound](ctx, s.db, "jaegerdb.GetRoundForApplication",
		psql.Select(roundColumns...).From("interview_rounds").
			Where(sq.Eq{"id": id, "job_application_id": applicationID}))
	return r, notFoundAs(err, roundEntity, id)
}

func (s *roundStore) List(ctx context.Context) ([]jaegermodel.InterviewRound, error) {
	return queryAll[jaegermodel.InterviewRound](ctx, s.db, "jaegerdb.ListRounds",
		psql.Select(roundColumns...).From("interview_rounds").OrderBy("id ASC"))
}

func (s *roundStore) ListByApplication(ctx context.Context, applicationID int64) ([]jaegermodel.InterviewRound, error) {
	return queryAll[jaegermodel.InterviewRound](ctx, s.db, "jaegerdb.ListRoundsByApplication",
		roundsForApplicationsQuery([]int64{applicationID}))
}

func (s *roundStore) Add(ctx context.Context, r jaegermodel.InterviewRound) (jaegermodel.InterviewRound, error) {
	return queryOne[jaegermodel.InterviewRound](ctx, s.db, "jaegerdb.AddRound",
		psql.Insert("interview_rounds").
			Columns("job_application_id", "interview_date", "interview_type", "result",
				"interviewer", "feedback", "notes", "created_at", "updated_at").
			Values(r.JobApplicationID, r.InterviewDate, string(r.InterviewType), string(r.Result),
				r.Interviewer, r.Feedback, r.Notes, r.CreatedAt, r.UpdatedAt).
			Suffix(returning(roundColumns)))
}

func (s *roundStore) Update(ctx context.Context, r jaegermodel.InterviewRound) (jaegermodel.InterviewRound, error) {
	out, err := queryOne[jaegermodel.InterviewRound](ctx, s.db, "jaegerdb.UpdateRound",
		psql.Update("interview_rounds").
			Set("interview_date", r.InterviewDate).
			Set("interview_type", string(r.InterviewType)).
			Set("result", string(r.Result)).
			Set("interviewer", r.Interviewer).
			Set("feedback", r.Feedback).
			Set("notes", r.Notes).
			Set("updated_at", r.UpdatedAt).
			Where(sq.Eq{"id": r.ID, "job_application_id": r.JobApplicationID}).
			Suffix(returning(roundColumns)))
	return out, notFoundAs(err, roundEntity, r.ID)
}

func (s *roundStore) Delete(ctx context.Context, r jaegermodel.InterviewRound) error {
	n, err := exec(ctx, s.db, "jaegerdb.DeleteRound",
		psql.Delete("interview_rounds").Where(sq.Eq{"id": r.ID, "job_application_id": r.JobApplicationID}))
	if err != nil {
		return err
	}
	if n == 0 {
		return NotFound(roundEntity, r.ID)
	}
	return nil
}

func (s *roundStore) Exists(ctx context.Context, id int64) (bool, error) {
	return exists(ctx, s.db, "jaegerdb.RoundExists",
		psql.Select("1").From("interview_rounds").Where(sq.Eq{"id": id}))
}
