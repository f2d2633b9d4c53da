package jaegermodel

import (
	"encoding/json"
	"slices"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MGavranovic/jaeger-tracker/src/jaegererr"
)

func strPtr(s string) *string { return &s }

func TestParseApplicationStatus(t *testing.T) {
	tests := []struct {
		in      string
		want    ApplicationStatus
		wantErr bool
	}{
		{"Applied", StatusApplied, false},
		{"interviewing", StatusInterviewing, false},
		{"  GHOSTED ", StatusGhosted, false},
		{"2", StatusOffer, false},
		{"6", "", true},
		{"hired", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseApplicationStatus(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				require.True(t, jaegererr.Is(err, jaegererr.EInvalid))
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestEnumJSON(t *testing.T) {
	var in struct {
		Status ApplicationStatus `json:"status"`
		Type   InterviewType     `json:"type"`
		Result InterviewResult   `json:"result"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"status":"offer","type":1,"result":"CANCELLED"}`), &in))
	assert.Equal(t, StatusOffer, in.Status)
	assert.Equal(t, InterviewTechnical, in.Type)
	assert.Equal(t, ResultCancelled, in.Result)

	require.Error(t, json.Unmarshal([]byte(`{"status":"Hired"}`), &in))

	out, err := json.Marshal(in)
	require.NoError(t, err)
	assert.JSONEq(t, `{"status":"Offer","type":"Technical","result":"Cancelled"}`, string(out))
}

func TestApplicationPatchLeavesAbsentFields(t *testing.T) {
	created := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	app := JobApplication{
		ID:          1,
		JobTitle:    "X",
		CompanyName: "Acme",
		JobLocation: strPtr("Berlin"),
		Status:      StatusApplied,
		UpdatedAt:   created,
	}
	now := created.Add(time.Hour)
	ApplicationPatch{Notes: strPtr("y")}.Apply(&app, now)

	assert.Equal(t, "X", app.JobTitle)
	assert.Equal(t, "Acme", app.CompanyName)
	assert.Equal(t, "Berlin", *app.JobLocation)
	assert.Equal(t, StatusApplied, app.Status)
	require.NotNil(t, app.Notes)
	assert.Equal(t, "y", *app.Notes)
	assert.Equal(t, now, app.UpdatedAt)

	// an explicit empty string clears, nil leaves alone
	ApplicationPatch{JobLocation: strPtr("")}.Apply(&app, now)
	assert.Equal(t, "", *app.JobLocation)
	assert.Equal(t, "y", *app.Notes)
}

func TestCompanyAndRoundPatch(t *testing.T) {
	now := time.Now().UTC()
	c := Company{Name: "Acme", Industry: strPtr("Tech")}
	CompanyPatch{Location: strPtr("Paris")}.Apply(&c, now)
	assert.Equal(t, "Acme", c.Name)
	assert.Equal(t, "Tech", *c.Industry)
	assert.Equal(t, "Paris", *c.Location)

	r := InterviewRound{InterviewType: InterviewHR, Result: ResultPending, Interviewer: strPtr("Ann")}
	passed := ResultPassed
	InterviewRoundPatch{Result: &passed}.Apply(&r, now)
	assert.Equal(t, ResultPassed, r.Result)
	assert.Equal(t, InterviewHR, r.InterviewType)
	assert.Equal(t, "Ann", *r.Interviewer)
}

func TestNewRoundIsAlwaysPending(t *testing.T) {
	when := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	final := InterviewFinal
	r := InterviewRoundCreate{InterviewDate: &when, InterviewType: &final}.NewRound(9, time.Now())
	assert.Equal(t, ResultPending, r.Result)
	assert.Equal(t, InterviewFinal, r.InterviewType)
	assert.Equal(t, int64(9), r.JobApplicationID)

	r = InterviewRoundCreate{InterviewDate: &when}.NewRound(9, time.Now())
	assert.Equal(t, InterviewHR, r.InterviewType)
}

func TestNewApplicationDefaults(t *testing.T) {
	now := time.Date(2024, 5, 5, 0, 0, 0, 0, time.UTC)
	app := ApplicationCreate{JobTitle: "Engineer", CompanyName: "Acme"}.NewApplication(3, now)
	assert.Equal(t, StatusApplied, app.Status)
	assert.Equal(t, now, app.ApplicationDate)
	assert.Equal(t, int64(3), app.UserID)
}

func TestStatusAfterRoundCreated(t *testing.T) {
	next, changed := StatusAfterRoundCreated(StatusApplied)
	assert.True(t, changed)
	assert.Equal(t, StatusInterviewing, next)

	for _, s := range ApplicationStatuses[1:] {
		next, changed := StatusAfterRoundCreated(s)
		assert.False(t, changed, s)
		assert.Equal(t, s, next)
	}
}

func TestPageDerivedFields(t *testing.T) {
	tests := []struct {
		total, page, size int
		pages             int
		prev, next        bool
	}{
		{total: 0, page: 1, size: 10, pages: 0, prev: false, next: false},
		{total: 25, page: 1, size: 10, pages: 3, prev: false, next: true},
		{total: 25, page: 3, size: 10, pages: 3, prev: true, next: false},
		{total: 20, page: 2, size: 10, pages: 2, prev: true, next: false},
		{total: 1, page: 1, size: 1, pages: 1, prev: false, next: false},
	}
	for _, tt := range tests {
		p := Page[int]{TotalCount: tt.total, Page: tt.page, PageSize: tt.size}
		assert.Equal(t, tt.pages, p.TotalPages())
		assert.Equal(t, tt.prev, p.HasPreviousPage())
		assert.Equal(t, tt.next, p.HasNextPage())
	}
}

func TestPageJSON(t *testing.T) {
	b, err := json.Marshal(Page[string]{TotalCount: 11, Page: 2, PageSize: 5})
	require.NoError(t, err)
	assert.JSONEq(t, `{"items":[],"totalCount":11,"page":2,"pageSize":5,"totalPages":3,"hasPreviousPage":true,"hasNextPage":true}`, string(b))

	mapped := MapPage(Page[int]{Items: []int{1, 2}, TotalCount: 2, Page: 1, PageSize: 10}, func(i int) string { return string(rune('a' + i)) })
	assert.Equal(t, []string{"b", "c"}, mapped.Items)
	assert.Equal(t, 2, mapped.TotalCount)
}

func TestApplicationQuerySort(t *testing.T) {
	q := DefaultApplicationQuery().WithSort("JOBTITLE", false)
	assert.Equal(t, SortByJobTitle, q.SortBy)
	assert.False(t, q.SortDescending)

	q = DefaultApplicationQuery().WithSort("salary", false)
	assert.Equal(t, SortByApplicationDate, q.SortBy)
	assert.True(t, q.SortDescending)

	q = DefaultApplicationQuery().WithSort("", false)
	assert.Equal(t, SortByApplicationDate, q.SortBy)
	assert.False(t, q.SortDescending)
}

func TestApplicationQueryValidate(t *testing.T) {
	q := DefaultApplicationQuery()
	require.NoError(t, q.Validate())

	q.Page = 0
	require.True(t, jaegererr.Is(q.Validate(), jaegererr.EInvalid))

	q = DefaultApplicationQuery()
	q.PageSize = 101
	require.Error(t, q.Validate())
	q.PageSize = 100
	require.NoError(t, q.Validate())

	q.Page = 3
	assert.Equal(t, 200, q.Offset())
}

func TestApplicationQueryMatches(t *testing.T) {
	app := JobApplication{JobTitle: "Backend Engineer", CompanyName: "Acme Corp", JobLocation: strPtr("Remote"), Status: StatusApplied}

	q := DefaultApplicationQuery()
	q.SearchTerm = "acme"
	assert.True(t, q.Matches(app))

	q.SearchTerm = "  REMOTE "
	assert.True(t, q.Matches(app))

	q.SearchTerm = "frontend"
	assert.False(t, q.Matches(app))

	offer := StatusOffer
	q = DefaultApplicationQuery()
	q.Status = &offer
	assert.False(t, q.Matches(app))

	app.JobLocation = nil
	q = DefaultApplicationQuery()
	q.SearchTerm = "remote"
	assert.False(t, q.Matches(app))
}

func TestApplicationQueryLess(t *testing.T) {
	day := func(d int) time.Time { return time.Date(2024, 1, d, 0, 0, 0, 0, time.UTC) }
	a := JobApplication{ID: 1, JobTitle: "B", Status: StatusOffer, ApplicationDate: day(1)}
	b := JobApplication{ID: 2, JobTitle: "A", Status: StatusApplied, ApplicationDate: day(2)}

	q := DefaultApplicationQuery()
	assert.True(t, q.Less(b, a), "newest first by default")

	q = q.WithSort("jobTitle", false)
	assert.True(t, q.Less(b, a))

	q = q.WithSort("status", false)
	assert.True(t, q.Less(b, a), "Applied sorts before Offer")

	same := JobApplication{ID: 3, JobTitle: "B", ApplicationDate: day(1)}
	q = q.WithSort("jobTitle", true)
	assert.True(t, q.Less(same, a), "ties break on id in the sort direction")
}

func TestApplicationQueryLessIgnoresCase(t *testing.T) {
	apps := []JobApplication{
		{ID: 1, JobTitle: "zebra", CompanyName: "beta"},
		{ID: 2, JobTitle: "Apple", CompanyName: "Alpha"},
		{ID: 3, JobTitle: "apple", CompanyName: "Gamma"},
		{ID: 4, JobTitle: "Mango", CompanyName: "alpha"},
	}
	ids := func(q ApplicationQuery) []int64 {
		sorted := slices.Clone(apps)
		slices.SortFunc(sorted, func(a, b JobApplication) int {
			if q.Less(a, b) {
				return -1
			}
			if q.Less(b, a) {
				return 1
			}
			return 0
		})
		out := make([]int64, len(sorted))
		for i, a := range sorted {
			out[i] = a.ID
		}
		return out
	}

	assert.Equal(t, []int64{2, 3, 4, 1}, ids(DefaultApplicationQuery().WithSort("jobTitle", false)))
	assert.Equal(t, []int64{1, 4, 3, 2}, ids(DefaultApplicationQuery().WithSort("jobTitle", true)))
	assert.Equal(t, []int64{2, 4, 1, 3}, ids(DefaultApplicationQuery().WithSort("companyName", false)))
}
