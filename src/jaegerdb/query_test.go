package jaegerdb

import (
	"context"
	"fmt"
	"io/fs"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MGavranovic/jaeger-tracker/src/jaegererr"
	"github.com/MGavranovic/jaeger-tracker/src/jaegermodel"
)

func TestLikePattern(t *testing.T) {
	assert.Equal(t, "%acme%", likePattern("acme"))
	assert.Equal(t, `%50\%\_off\\%`, likePattern(`50%_off\`))
}

func TestApplicationFilterScopesOwnerFirst(t *testing.T) {
	sql, args, err := countApplicationsQuery(7, jaegermodel.DefaultApplicationQuery()).ToSql()
	require.NoError(t, err)
	assert.Equal(t, "SELECT COUNT(*) FROM job_applications WHERE (user_id = $1)", sql)
	assert.Equal(t, []any{int64(7)}, args)

	offer := jaegermodel.StatusOffer
	q := jaegermodel.DefaultApplicationQuery()
	q.Status = &offer
	q.SearchTerm = "  eng "
	sql, args, err = countApplicationsQuery(7, q).ToSql()
	require.NoError(t, err)
	assert.Contains(t, sql, "user_id = $1 AND status = $2")
	assert.Contains(t, sql, "(job_title ILIKE $3 OR company_name ILIKE $4 OR job_location ILIKE $5)")
	assert.Equal(t, []any{int64(7), "Offer", "%eng%", "%eng%", "%eng%"}, args)
}

func TestPageApplicationsOrdering(t *testing.T) {
	tests := []struct {
		sortBy string
		desc   bool
		order  string
	}{
		{"", true, "ORDER BY application_date DESC, id DESC"},
		{"jobTitle", false, `ORDER BY lower(job_title) COLLATE "C" ASC, id ASC`},
		{"companyName", true, `ORDER BY lower(company_name) COLLATE "C" DESC, id DESC`},
		{"status", false, "ORDER BY array_position(ARRAY['Applied','Interviewing','Offer','Rejected','Withdrawn','Ghosted']::text[], status::text) ASC, id ASC"},
		{"salary", false, "ORDER BY application_date DESC, id DESC"},
	}
	for _, tt := range tests {
		t.Run(tt.sortBy, func(t *testing.T) {
			q := jaegermodel.DefaultApplicationQuery().WithSort(tt.sortBy, tt.desc)
			sql, _, err := pageApplicationsQuery(1, q).ToSql()
			require.NoError(t, err)
			assert.Contains(t, sql, tt.order)
		})
	}
}

func TestPageApplicationsLimitOffset(t *testing.T) {
	q := jaegermodel.DefaultApplicationQuery()
	q.Page = 3
	sql, _, err := pageApplicationsQuery(1, q).ToSql()
	require.NoError(t, err)
	assert.Contains(t, sql, "LIMIT 10 OFFSET 20")
}

func TestRoundsForApplicationsIsBatched(t *testing.T) {
	sql, args, err := roundsForApplicationsQuery([]int64{4, 9}).ToSql()
	require.NoError(t, err)
	assert.Contains(t, sql, "WHERE job_application_id IN ($1,$2)")
	assert.Contains(t, sql, "ORDER BY interview_date ASC, id ASC")
	assert.Equal(t, []any{int64(4), int64(9)}, args)
}

func TestCompanySearchQuery(t *testing.T) {
	sql, args, err := companySearchQuery("").ToSql()
	require.NoError(t, err)
	assert.Contains(t, sql, "COUNT(j.id) AS application_count")
	assert.Contains(t, sql, "LEFT JOIN job_applications j ON j.company_id = c.id")
	assert.NotContains(t, sql, "WHERE")
	assert.Empty(t, args)

	sql, args, err = companySearchQuery("tech").ToSql()
	require.NoError(t, err)
	assert.Contains(t, sql, "c.name ILIKE $1 OR c.industry ILIKE $2 OR c.location ILIKE $3")
	assert.Contains(t, sql, "ORDER BY c.name ASC, c.id ASC")
	assert.Len(t, args, 3)
}

func TestMapError(t *testing.T) {
	require.NoError(t, mapError("op", nil))

	tests := []struct {
		name string
		err  error
		code string
	}{
		{"no rows", pgx.ErrNoRows, jaegererr.ENotFound},
		{"unique", &pgconn.PgError{Code: codeUniqueViolation}, jaegererr.EConflict},
		{"foreign key", fmt.Errorf("wrapped: %w", &pgconn.PgError{Code: codeForeignKeyViolation}), jaegererr.EInvalid},
		{"check", &pgconn.PgError{Code: codeCheckViolation}, jaegererr.EInvalid},
		{"timeout", context.DeadlineExceeded, jaegererr.EInternal},
		{"other", fmt.Errorf("connection reset"), jaegererr.EInternal},
		{"already classified", jaegererr.Invalid("abort"), jaegererr.EInvalid},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.code, jaegererr.ErrorCode(mapError("op", tt.err)))
		})
	}
}

func TestNotFoundAs(t *testing.T) {
	err := notFoundAs(mapError("op", pgx.ErrNoRows), applicationEntity, 42)
	require.True(t, jaegererr.Is(err, jaegererr.ENotFound))
	assert.Equal(t, "Job application with ID 42 was not found.", jaegererr.ErrorMessage(err))

	other := jaegererr.Internal("op", fmt.Errorf("boom"))
	assert.Same(t, other, notFoundAs(other, applicationEntity, 42))
}

func TestScriptVersion(t *testing.T) {
	v, err := scriptVersion("0002_seed_companies.sql")
	require.NoError(t, err)
	assert.Equal(t, 2, v)

	_, err = scriptVersion("seed.sql")
	require.Error(t, err)
}

func TestEmbeddedMigrations(t *testing.T) {
	entries, err := fs.ReadDir(Migrations(), ".")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "0001_init.sql", entries[0].Name())

	script, err := fs.ReadFile(Migrations(), "0001_init.sql")
	require.NoError(t, err)
	assert.Contains(t, string(script), "ON DELETE SET NULL")
}
