package jaegerdb

import (
	"context"

	sq "github.com/Masterminds/squirrel"

	"github.com/MGavranovic/jaeger-tracker/src/jaegermodel"
)

const applicationEntity = "Job application"

type applicationStore struct {
	db *DB
}

func (s *applicationStore) Get(ctx context.Context, id int64) (jaegermodel.JobApplication, error) {
	return s.getWhere(ctx, "jaegerdb.GetApplication", id, sq.Eq{"id": id})
}

// GetForOwner locks the row when called inside a transaction so concurrent
// round creation cannot interleave its status change.
func (s *applicationStore) GetForOwner(ctx context.Context, id, ownerID int64) (jaegermodel.JobApplication, error) {
	return s.getWhere(ctx, "jaegerdb.GetApplicationForOwner", id, sq.Eq{"id": id, "user_id": ownerID})
}

func (s *applicationStore) getWhere(ctx context.Context, op string, id int64, where sq.Eq) (jaegermodel.JobApplication, error) {
	b := psql.Select(applicationColumns...).From("job_applications").Where(where)
	if s.db.inTx {
		b = b.Suffix("FOR UPDATE")
	}
	app, err := queryOne[jaegermodel.JobApplication](ctx, s.db, op, b)
	if err != nil {
		return app, notFoundAs(err, applicationEntity, id)
	}
	apps := []jaegermodel.JobApplication{app}
	if err := s.attachRounds(ctx, apps); err != nil {
		return jaegermodel.JobApplication{}, err
	}
	return apps[0], nil
}

func (s *applicationStore) List(ctx context.Context) ([]jaegermodel.JobApplication, error) {
	apps, err := queryAll[jaegermodel.JobApplication](ctx, s.db, "jaegerdb.ListApplications",
		psql.Select(applicationColumns...).From("job_applications").OrderBy("id ASC"))
	if err != nil {
		return nil, err
	}
	return apps, s.attachRounds(ctx, apps)
}

// ListForOwner runs a count over the whole filtered set and a second query for
// the requested page.
func (s *applicationStore) ListForOwner(ctx context.Context, ownerID int64, q jaegermodel.ApplicationQuery) (jaegermodel.Page[jaegermodel.JobApplication], error) {
	page := jaegermodel.Page[jaegermodel.JobApplication]{Page: q.Page, PageSize: q.PageSize}

	var total int64
	if err := queryScalar(ctx, s.db, "jaegerdb.CountApplications", countApplicationsQuery(ownerID, q), &total); err != nil {
		return page, err
	}
	page.TotalCount = int(total)
	if total == 0 || q.Offset() >= page.TotalCount {
		page.Items = []jaegermodel.JobApplication{}
		return page, nil
	}

	apps, err := queryAll[jaegermodel.JobApplication](ctx, s.db, "jaegerdb.PageApplications", pageApplicationsQuery(ownerID, q))
	if err != nil {
		return page, err
	}
	if err := s.attachRounds(ctx, apps); err != nil {
		return page, err
	}
	page.Items = apps
	return page, nil
}

// attachRounds loads the rounds of every application in one query.
func (s *applicationStore) attachRounds(ctx context.Context, apps []jaegermodel.JobApplication) error {
	if len(apps) == 0 {
		return nil
	}
	ids := make([]int64, len(apps))
	for i, a := range apps {
		ids[i] = a.ID
	}
	rounds, err := queryAll[jaegermodel.InterviewRound](ctx, s.db, "jaegerdb.ListRoundsForApplications", roundsForApplicationsQuery(ids))
	if err != nil {
		return err
	}
	byApp := make(map[int64][]jaegermodel.InterviewRound, len(apps))
	for _, r := range rounds {
		byApp[r.JobApplicationID] = append(byApp[r.JobApplicationID], r)
	}
	for i := range apps {
		apps[i].Rounds = byApp[apps[i].ID]
		if apps[i].Rounds == nil {
			apps[i].Rounds = []jaegermodel.InterviewRound{}
		}
	}
	return nil
}

func (s *applicationStore) Add(ctx context.Context, a jaegermodel.JobApplication) (jaegermodel.JobApplication, error) {
	out, err := queryOne[jaegermodel.JobApplication](ctx, s.db, "jaegerdb.AddApplication",
		psql.Insert("job_applications").
			Columns("user_id", "company_id", "job_title", "company_name", "job_location", "job_url",
				"application_date", "status", "notes", "created_at", "updated_at").
			Values(a.UserID, a.CompanyID, a.JobTitle, a.CompanyName, a.JobLocation, a.JobURL,
				a.ApplicationDate, string(a.Status), a.Notes, a.CreatedAt, a.UpdatedAt).
			Suffix(returning(applicationColumns)))
	if err != nil {
		return out, err
	}
	out.Rounds = []jaegermodel.InterviewRound{}
	return out, nil
}

// Update writes every mutable column. Rounds on a are not touched.
func (s *applicationStore) Update(ctx context.Context, a jaegermodel.JobApplication) (jaegermodel.JobApplication, error) {
	out, err := queryOne[jaegermodel.JobApplication](ctx, s.db, "jaegerdb.UpdateApplication",
		psql.Update("job_applications").
			Set("company_id", a.CompanyID).
			Set("job_title", a.JobTitle).
			Set("company_name", a.CompanyName).
			Set("job_location", a.JobLocation).
			Set("job_url", a.JobURL).
			Set("application_date", a.ApplicationDate).
			Set("status", string(a.Status)).
			Set("notes", a.Notes).
			Set("updated_at", a.UpdatedAt).
			Where(sq.Eq{"id": a.ID, "user_id": a.UserID}).
			Suffix(returning(applicationColumns)))
	if err != nil {
		return out, notFoundAs(err, applicationEntity, a.ID)
	}
	out.Rounds = a.Rounds
	return out, nil
}

// Delete cascades to the application's interview rounds.
func (s *applicationStore) Delete(ctx context.Context, a jaegermodel.JobApplication) error {
	n, err := exec(ctx, s.db, "jaegerdb.DeleteApplication",
		psql.Delete("job_applications").Where(sq.Eq{"id": a.ID, "user_id": a.UserID}))
	if err != nil {
		return err
	}
	if n == 0 {
		return NotFound(applicationEntity, a.ID)
	}
	return nil
}

func (s *applicationStore) Exists(ctx context.Context, id int64) (bool, error) {
	return exists(ctx, s.db, "jaegerdb.ApplicationExists",
		psql.Select("1").From("job_applications").Where(sq.Eq{"id": id}))
}
