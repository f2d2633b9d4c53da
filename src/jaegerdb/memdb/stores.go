package memdb

import (
	"cmp"
	"context"
	"slices"
	"strings"

	"github.com/MGavranovic/jaeger-tracker/src/jaegerdb"
	"github.com/MGavranovic/jaeger-tracker/src/jaegererr"
	"github.com/MGavranovic/jaeger-tracker/src/jaegermodel"
)

var errMissingReference = jaegererr.Invalid("referenced record does not exist")

type userStore struct{ v view }

func (r *userStore) Get(ctx context.Context, id int64) (u jaegermodel.User, err error) {
	err = r.v.do(ctx, func(st *state) error {
		var ok bool
		if u, ok = st.users[id]; !ok {
			return jaegerdb.NotFound("User", id)
		}
		return nil
	})
	return u, err
}

func (r *userStore) GetByEmail(ctx context.Context, email string) (u jaegermodel.User, err error) {
	email = jaegermodel.NormalizeEmail(email)
	err = r.v.do(ctx, func(st *state) error {
		for _, candidate := range st.users {
			if candidate.Email == email {
				u = candidate
				return nil
			}
		}
		return jaegererr.NotFound("user not found")
	})
	return u, err
}

func (r *userStore) List(ctx context.Context) (out []jaegermodel.User, err error) {
	err = r.v.do(ctx, func(st *state) error {
		out = sortedValues(st.users, func(a, b jaegermodel.User) int { return cmp.Compare(a.ID, b.ID) })
		return nil
	})
	return out, err
}

func (r *userStore) Add(ctx context.Context, u jaegermodel.User) (jaegermodel.User, error) {
	u.Email = jaegermodel.NormalizeEmail(u.Email)
	err := r.v.do(ctx, func(st *state) error {
		if emailTaken(st, u.Email, 0) {
			return jaegererr.Conflict("record already exists")
		}
		u.ID = st.nextID("users")
		st.users[u.ID] = u
		return nil
	})
	return u, err
}

func (r *userStore) Update(ctx context.Context, u jaegermodel.User) (jaegermodel.User, error) {
	u.Email = jaegermodel.NormalizeEmail(u.Email)
	err := r.v.do(ctx, func(st *state) error {
		if _, ok := st.users[u.ID]; !ok {
			return jaegerdb.NotFound("User", u.ID)
		}
		if emailTaken(st, u.Email, u.ID) {
			return jaegererr.Conflict("record already exists")
		}
		st.users[u.ID] = u
		return nil
	})
	return u, err
}

// Delete cascades to the user's applications and their rounds.
func (r *userStore) Delete(ctx context.Context, u jaegermodel.User) error {
	return r.v.do(ctx, func(st *state) error {
		if _, ok := st.users[u.ID]; !ok {
			return jaegerdb.NotFound("User", u.ID)
		}
		delete(st.users, u.ID)
		for id, app := range st.apps {
			if app.UserID == u.ID {
				deleteApplication(st, id)
			}
		}
		return nil
	})
}

func (r *userStore) Exists(ctx context.Context, id int64) (ok bool, err error) {
	err = r.v.do(ctx, func(st *state) error {
		_, ok = st.users[id]
		return nil
	})
	return ok, err
}

func (r *userStore) EmailExists(ctx context.Context, email string) (ok bool, err error) {
	email = jaegermodel.NormalizeEmail(email)
	err = r.v.do(ctx, func(st *state) error {
		ok = emailTaken(st, email, 0)
		return nil
	})
	return ok, err
}

func emailTaken(st *state, email string, except int64) bool {
	for id, u := range st.users {
		if id != except && u.Email == email {
			return true
		}
	}
	return false
}

type companyStore struct{ v view }

func (r *companyStore) Get(ctx context.Context, id int64) (c jaegermodel.Company, err error) {
	err = r.v.do(ctx, func(st *state) error {
		var ok bool
		if c, ok = st.companies[id]; !ok {
			return jaegerdb.NotFound("Company", id)
		}
		c.ApplicationCount = applicationCount(st, id)
		return nil
	})
	return c, err
}

func (r *companyStore) List(ctx context.Context) ([]jaegermodel.Company, error) {
	return r.Search(ctx, "")
}

func (r *companyStore) Search(ctx context.Context, term string) (out []jaegermodel.Company, err error) {
	term = strings.ToLower(strings.TrimSpace(term))
	err = r.v.do(ctx, func(st *state) error {
		out = []jaegermodel.Company{}
		for id, c := range st.companies {
			if term != "" && !companyMatches(c, term) {
				continue
			}
			c.ApplicationCount = applicationCount(st, id)
			out = append(out, c)
		}
		slices.SortFunc(out, func(a, b jaegermodel.Company) int {
			return cmp.Or(strings.Compare(a.Name, b.Name), cmp.Compare(a.ID, b.ID))
		})
		return nil
	})
	return out, err
}

func companyMatches(c jaegermodel.Company, term string) bool {
	if strings.Contains(strings.ToLower(c.Name), term) {
		return true
	}
	for _, f := range []*string{c.Industry, c.Location} {
		if f != nil && strings.Contains(strings.ToLower(*f), term) {
			return true
		}
	}
	return false
}

func (r *companyStore) Add(ctx context.Context, c jaegermodel.Company) (jaegermodel.Company, error) {
	err := r.v.do(ctx, func(st *state) error {
		c.ID = st.nextID("companies")
		c.ApplicationCount = 0
		st.companies[c.ID] = c
		return nil
	})
	return c, err
}

func (r *companyStore) Update(ctx context.Context, c jaegermodel.Company) (jaegermodel.Company, error) {
	err := r.v.do(ctx, func(st *state) error {
		if _, ok := st.companies[c.ID]; !ok {
			return jaegerdb.NotFound("Company", c.ID)
		}
		st.companies[c.ID] = c
		c.ApplicationCount = applicationCount(st, c.ID)
		return nil
	})
	return c, err
}

// Delete detaches the company's applications rather than removing them.
func (r *companyStore) Delete(ctx context.Context, c jaegermodel.Company) error {
	return r.v.do(ctx, func(st *state) error {
		if _, ok := st.companies[c.ID]; !ok {
			return jaegerdb.NotFound("Company", c.ID)
		}
		delete(st.companies, c.ID)
		for id, app := range st.apps {
			if app.CompanyID != nil && *app.CompanyID == c.ID {
				app.CompanyID = nil
				st.apps[id] = app
			}
		}
		return nil
	})
}

func (r *companyStore) Exists(ctx context.Context, id int64) (ok bool, err error) {
	err = r.v.do(ctx, func(st *state) error {
		_, ok = st.companies[id]
		return nil
	})
	return ok, err
}

func applicationCount(st *state, companyID int64) int {
	n := 0
	for _, app := range st.apps {
		if app.CompanyID != nil && *app.CompanyID == companyID {
			n++
		}
	}
	return n
}

type applicationStore struct{ v view }

const applicationEntity = "Job application"

func (r *applicationStore) Get(ctx context.Context, id int64) (app jaegermodel.JobApplication, err error) {
	err = r.v.do(ctx, func(st *state) error {
		var ok bool
		if app, ok = st.apps[id]; !ok {
			return jaegerdb.NotFound(applicationEntity, id)
		}
		app.Rounds = roundsOf(st, id)
		return nil
	})
	return app, err
}

func (r *applicationStore) GetForOwner(ctx context.Context, id, ownerID int64) (app jaegermodel.JobApplication, err error) {
	err = r.v.do(ctx, func(st *state) error {
		var ok bool
		if app, ok = st.apps[id]; !ok || app.UserID != ownerID {
			return jaegerdb.NotFound(applicationEntity, id)
		}
		app.Rounds = roundsOf(st, id)
		return nil
	})
	return app, err
}

func (r *applicationStore) List(ctx context.Context) (out []jaegermodel.JobApplication, err error) {
	err = r.v.do(ctx, func(st *state) error {
		out = sortedValues(st.apps, func(a, b jaegermodel.JobApplication) int { return cmp.Compare(a.ID, b.ID) })
		for i := range out {
			out[i].Rounds = roundsOf(st, out[i].ID)
		}
		return nil
	})
	return out, err
}

func (r *applicationStore) ListForOwner(ctx context.Context, ownerID int64, q jaegermodel.ApplicationQuery) (page jaegermodel.Page[jaegermodel.JobApplication], err error) {
	page = jaegermodel.Page[jaegermodel.JobApplication]{Items: []jaegermodel.JobApplication{}, Page: q.Page, PageSize: q.PageSize}
	err = r.v.do(ctx, func(st *state) error {
		var matched []jaegermodel.JobApplication
		for _, app := range st.apps {
			if app.UserID == ownerID && q.Matches(app) {
				matched = append(matched, app)
			}
		}
		slices.SortFunc(matched, func(a, b jaegermodel.JobApplication) int {
			if q.Less(a, b) {
				return -1
			}
			if q.Less(b, a) {
				return 1
			}
			return 0
		})
		page.TotalCount = len(matched)

		start := min(q.Offset(), len(matched))
		end := min(start+q.PageSize, len(matched))
		for _, app := range matched[start:end] {
			app.Rounds = roundsOf(st, app.ID)
			page.Items = append(page.Items, app)
		}
		return nil
	})
	return page, err
}

func (r *applicationStore) Add(ctx context.Context, app jaegermodel.JobApplication) (jaegermodel.JobApplication, error) {
	err := r.v.do(ctx, func(st *state) error {
		if err := checkApplicationRefs(st, app); err != nil {
			return err
		}
		app.ID = st.nextID("job_applications")
		app.Rounds = nil
		st.apps[app.ID] = app
		return nil
	})
	app.Rounds = []jaegermodel.InterviewRound{}
	return app, err
}

func (r *applicationStore) Update(ctx context.Context, app jaegermodel.JobApplication) (jaegermodel.JobApplication, error) {
	rounds := app.Rounds
	err := r.v.do(ctx, func(st *state) error {
		current, ok := st.apps[app.ID]
		if !ok || current.UserID != app.UserID {
			return jaegerdb.NotFound(applicationEntity, app.ID)
		}
		if err := checkApplicationRefs(st, app); err != nil {
			return err
		}
		app.CreatedAt = current.CreatedAt
		app.Rounds = nil
		st.apps[app.ID] = app
		return nil
	})
	app.Rounds = rounds
	return app, err
}

func (r *applicationStore) Delete(ctx context.Context, app jaegermodel.JobApplication) error {
	return r.v.do(ctx, func(st *state) error {
		current, ok := st.apps[app.ID]
		if !ok || current.UserID != app.UserID {
			return jaegerdb.NotFound(applicationEntity, app.ID)
		}
		deleteApplication(st, app.ID)
		return nil
	})
}

func (r *applicationStore) Exists(ctx context.Context, id int64) (ok bool, err error) {
	err = r.v.do(ctx, func(st *state) error {
		_, ok = st.apps[id]
		return nil
	})
	return ok, err
}

func checkApplicationRefs(st *state, app jaegermodel.JobApplication) error {
	if _, ok := st.users[app.UserID]; !ok {
		return errMissingReference
	}
	if app.CompanyID != nil {
		if _, ok := st.companies[*app.CompanyID]; !ok {
			return errMissingReference
		}
	}
	return nil
}

func deleteApplication(st *state, id int64) {
	delete(st.apps, id)
	for rid, round := range st.rounds {
		if round.JobApplicationID == id {
			delete(st.rounds, rid)
		}
	}
}

// roundsOf orders by interview date, then id.
func roundsOf(st *state, applicationID int64) []jaegermodel.InterviewRound {
	out := []jaegermodel.InterviewRound{}
	for _, round := range st.rounds {
		if round.JobApplicationID == applicationID {
			out = append(out, round)
		}
	}
	slices.SortFunc(out, func(a, b jaegermodel.InterviewRound) int {
		return cmp.Or(a.InterviewDate.Compare(b.InterviewDate), cmp.Compare(a.ID, b.ID))
	})
	return out
}

type roundStore struct{ v view }

const roundEntity = "Interview round"

func (r *roundStore) Get(ctx context.Context, id int64) (round jaegermodel.InterviewRound, err error) {
	err = r.v.do(ctx, func(st *state) error {
		var ok bool
		if round, ok = st.rounds[id]; !ok {
			return jaegerdb.NotFound(roundEntity, id)
		}
		return nil
	})
	return round, err
}

func (r *roundStore) GetForApplication(ctx context.Context, id, applicationID int64) (round jaegermodel.InterviewRound, err error) {
	err = r.v.do(ctx, func(st *state) error {
		var ok bool
		if round, ok = st.rounds[id]; !ok || round.JobApplicationID != applicationID {
			return jaegerdb.NotFound(roundEntity, id)
		}
		return nil
	})
	return round, err
}

func (r *roundStore) List(ctx context.Context) (out []jaegermodel.InterviewRound, err error) {
	err = r.v.do(ctx, func(st *state) error {
		out = sortedValues(st.rounds, func(a, b jaegermodel.InterviewRound) int { return cmp.Compare(a.ID, b.ID) })
		return nil
	})
	return out, err
}

func (r *roundStore) ListByApplication(ctx context.Context, applicationID int64) (out []jaegermodel.InterviewRound, err error) {
	err = r.v.do(ctx, func(st *state) error {
		out = roundsOf(st, applicationID)
		return nil
	})
	return out, err
}

func (r *roundStore) Add(ctx context.Context, round jaegermodel.InterviewRound) (jaegermodel.InterviewRound, error) {
	err := r.v.do(ctx, func(st *state) error {
		if _, ok := st.apps[round.JobApplicationID]; !ok {
			return errMissingReference
		}
		round.ID = st.nextID("interview_rounds")
		st.rounds[round.ID] = round
		return nil
	})
	return round, err
}

func (r *roundStore) Update(ctx context.Context, round jaegermodel.InterviewRound) (jaegermodel.InterviewRound, error) {
	err := r.v.do(ctx, func(st *state) error {
		current, ok := st.rounds[round.ID]
		if !ok || current.JobApplicationID != round.JobApplicationID {
			return jaegerdb.NotFound(roundEntity, round.ID)
		}
		round.CreatedAt = current.CreatedAt
		st.rounds[round.ID] = round
		return nil
	})
	return round, err
}

func (r *roundStore) Delete(ctx context.Context, round jaegermodel.InterviewRound) error {
	return r.v.do(ctx, func(st *state) error {
		current, ok := st.rounds[round.ID]
		if !ok || current.JobApplicationID != round.JobApplicationID {
			return jaegerdb.NotFound(roundEntity, round.ID)
		}
		delete(st.rounds, round.ID)
		return nil
	})
}

func (r *roundStore) Exists(ctx context.Context, id int64) (ok bool, err error) {
	err = r.v.do(ctx, func(st *state) error {
		_, ok = st.rounds[id]
		return nil
	})
	return ok, err
}

func sortedValues[T any](m map[int64]T, cmpFn func(a, b T) int) []T {
	out := make([]T, 0, len(m))
	for _, v := range m {
		out = append(out, v)
	}
	slices.SortFunc(out, cmpFn)
	return out
}
