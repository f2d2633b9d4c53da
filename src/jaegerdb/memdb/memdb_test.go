package memdb

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MGavranovic/jaeger-tracker/src/jaegerdb"
	"github.com/MGavranovic/jaeger-tracker/src/jaegererr"
	"github.com/MGavranovic/jaeger-tracker/src/jaegermodel"
)

var now = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func addUser(t *testing.T, s *Store, email string) jaegermodel.User {
	t.Helper()
	u, err := s.Users().Add(context.Background(), jaegermodel.User{Email: email, FirstName: "A", LastName: "B", Role: jaegermodel.RoleUser})
	require.NoError(t, err)
	return u
}

func addApp(t *testing.T, s *Store, owner int64, title string, day int) jaegermodel.JobApplication {
	t.Helper()
	app := jaegermodel.ApplicationCreate{JobTitle: title, CompanyName: "Acme"}.NewApplication(owner, now)
	app.ApplicationDate = now.AddDate(0, 0, day)
	out, err := s.Applications().Add(context.Background(), app)
	require.NoError(t, err)
	return out
}

func TestUsersEmailIsCaseInsensitive(t *testing.T) {
	s := New()
	ctx := context.Background()
	u := addUser(t, s, "Ana@Example.com")
	assert.Equal(t, "ana@example.com", u.Email)

	got, err := s.Users().GetByEmail(ctx, "ANA@example.COM")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	_, err = s.Users().Add(ctx, jaegermodel.User{Email: "ana@EXAMPLE.com"})
	assert.True(t, jaegererr.Is(err, jaegererr.EConflict))

	_, err = s.Users().GetByEmail(ctx, "nobody@example.com")
	assert.True(t, jaegererr.Is(err, jaegererr.ENotFound))
}

func TestApplicationsAreOwnerScoped(t *testing.T) {
	s := New()
	ctx := context.Background()
	alice := addUser(t, s, "alice@example.com")
	bob := addUser(t, s, "bob@example.com")
	app := addApp(t, s, alice.ID, "Engineer", 0)

	_, err := s.Applications().GetForOwner(ctx, app.ID, bob.ID)
	require.True(t, jaegererr.Is(err, jaegererr.ENotFound))
	assert.Equal(t, fmt.Sprintf("Job application with ID %d was not found.", app.ID), jaegererr.ErrorMessage(err))

	stolen := app
	stolen.UserID = bob.ID
	_, err = s.Applications().Update(ctx, stolen)
	assert.True(t, jaegererr.Is(err, jaegererr.ENotFound))
	assert.True(t, jaegererr.Is(s.Applications().Delete(ctx, stolen), jaegererr.ENotFound))

	page, err := s.Applications().ListForOwner(ctx, bob.ID, jaegermodel.DefaultApplicationQuery())
	require.NoError(t, err)
	assert.Equal(t, 0, page.TotalCount)
	assert.Empty(t, page.Items)
}

func TestListForOwnerFiltersSortsAndPages(t *testing.T) {
	s := New()
	ctx := context.Background()
	u := addUser(t, s, "u@example.com")
	addApp(t, s, u.ID, "Backend Engineer", 1)
	addApp(t, s, u.ID, "Frontend Engineer", 3)
	addApp(t, s, u.ID, "Data Analyst", 2)

	q := jaegermodel.DefaultApplicationQuery()
	page, err := s.Applications().ListForOwner(ctx, u.ID, q)
	require.NoError(t, err)
	require.Len(t, page.Items, 3)
	assert.Equal(t, "Frontend Engineer", page.Items[0].JobTitle, "newest first")

	q = q.WithSort("jobTitle", false)
	q.SearchTerm = "ENGINEER"
	q.PageSize = 1
	q.Page = 2
	page, err = s.Applications().ListForOwner(ctx, u.ID, q)
	require.NoError(t, err)
	assert.Equal(t, 2, page.TotalCount)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "Frontend Engineer", page.Items[0].JobTitle)
	assert.False(t, page.HasNextPage())

	q.Page = 5
	page, err = s.Applications().ListForOwner(ctx, u.ID, q)
	require.NoError(t, err)
	assert.Equal(t, 2, page.TotalCount)
	assert.Empty(t, page.Items)
}

func TestCompanyDeleteDetachesApplications(t *testing.T) {
	s := New()
	ctx := context.Background()
	u := addUser(t, s, "u@example.com")
	c, err := s.Companies().Add(ctx, jaegermodel.CompanyCreate{Name: "Globex"}.NewCompany(now))
	require.NoError(t, err)

	app := jaegermodel.ApplicationCreate{JobTitle: "X", CompanyName: "Globex", CompanyID: &c.ID}.NewApplication(u.ID, now)
	app, err = s.Applications().Add(ctx, app)
	require.NoError(t, err)

	got, err := s.Companies().Get(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.ApplicationCount)

	require.NoError(t, s.Companies().Delete(ctx, c))
	app, err = s.Applications().Get(ctx, app.ID)
	require.NoError(t, err)
	assert.Nil(t, app.CompanyID)

	missing := int64(99)
	_, err = s.Applications().Add(ctx, jaegermodel.ApplicationCreate{JobTitle: "Y", CompanyName: "Z", CompanyID: &missing}.NewApplication(u.ID, now))
	assert.True(t, jaegererr.Is(err, jaegererr.EInvalid))
}

func TestCompanySearch(t *testing.T) {
	s := New()
	ctx := context.Background()
	require.NoError(t, s.Seed(ctx))

	all, err := s.Companies().List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Acme Corp", all[0].Name)

	found, err := s.Companies().Search(ctx, "new york")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "Tech Solutions Inc.", found[0].Name)
}

func TestApplicationDeleteCascadesRounds(t *testing.T) {
	s := New()
	ctx := context.Background()
	u := addUser(t, s, "u@example.com")
	app := addApp(t, s, u.ID, "X", 0)

	later := jaegermodel.InterviewRoundCreate{InterviewDate: ptrTime(now.Add(48 * time.Hour))}.NewRound(app.ID, now)
	earlier := jaegermodel.InterviewRoundCreate{InterviewDate: ptrTime(now.Add(24 * time.Hour))}.NewRound(app.ID, now)
	_, err := s.Rounds().Add(ctx, later)
	require.NoError(t, err)
	_, err = s.Rounds().Add(ctx, earlier)
	require.NoError(t, err)

	got, err := s.Applications().Get(ctx, app.ID)
	require.NoError(t, err)
	require.Len(t, got.Rounds, 2)
	assert.True(t, got.Rounds[0].InterviewDate.Before(got.Rounds[1].InterviewDate))

	require.NoError(t, s.Applications().Delete(ctx, app))
	rounds, err := s.Rounds().List(ctx)
	require.NoError(t, err)
	assert.Empty(t, rounds)
}

func TestInTxRollsBack(t *testing.T) {
	s := New()
	ctx := context.Background()
	u := addUser(t, s, "u@example.com")
	app := addApp(t, s, u.ID, "X", 0)

	boom := errors.New("boom")
	err := s.InTx(ctx, func(tx jaegerdb.Gateway) error {
		a, err := tx.Applications().GetForOwner(ctx, app.ID, u.ID)
		require.NoError(t, err)
		a.Status = jaegermodel.StatusInterviewing
		_, err = tx.Applications().Update(ctx, a)
		require.NoError(t, err)
		_, err = tx.Rounds().Add(ctx, jaegermodel.InterviewRoundCreate{InterviewDate: &now}.NewRound(a.ID, now))
		require.NoError(t, err)
		return boom
	})
	require.ErrorIs(t, err, boom)

	got, err := s.Applications().Get(ctx, app.ID)
	require.NoError(t, err)
	assert.Equal(t, jaegermodel.StatusApplied, got.Status)
	assert.Empty(t, got.Rounds)
}

func TestRoundsScopedToApplication(t *testing.T) {
	s := New()
	ctx := context.Background()
	u := addUser(t, s, "u@example.com")
	a1 := addApp(t, s, u.ID, "A", 0)
	a2 := addApp(t, s, u.ID, "B", 0)
	r, err := s.Rounds().Add(ctx, jaegermodel.InterviewRoundCreate{InterviewDate: &now}.NewRound(a1.ID, now))
	require.NoError(t, err)

	_, err = s.Rounds().GetForApplication(ctx, r.ID, a2.ID)
	assert.True(t, jaegererr.Is(err, jaegererr.ENotFound))

	moved := r
	moved.JobApplicationID = a2.ID
	_, err = s.Rounds().Update(ctx, moved)
	assert.True(t, jaegererr.Is(err, jaegererr.ENotFound))
}

func ptrTime(t time.Time) *time.Time { return &t }
