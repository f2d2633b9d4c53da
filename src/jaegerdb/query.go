package jaegerdb

import (
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"

	"github.com/MGavranovic/jaeger-tracker/src/jaegermodel"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

var (
	userColumns = []string{
		"id", "email", "first_name", "last_name", "password_hash", "role", "created_at", "updated_at",
	}
	companyColumns = []string{
		"id", "name", "website", "industry", "location", "notes", "created_at", "updated_at",
	}
	applicationColumns = []string{
		"id", "user_id", "company_id", "job_title", "company_name", "job_location", "job_url",
		"application_date", "status", "notes", "created_at", "updated_at",
	}
	roundColumns = []string{
		"id", "job_application_id", "interview_date", "interview_type", "result",
		"interviewer", "feedback", "notes", "created_at", "updated_at",
	}
)

func returning(cols []string) string {
	return "RETURNING " + strings.Join(cols, ", ")
}

func prefixed(alias string, cols []string) []string {
	out := make([]string, len(cols))
	for i, c := range cols {
		out[i] = alias + "." + c
	}
	return out
}

func existsQuery(b sq.SelectBuilder) sq.SelectBuilder {
	return b.Prefix("SELECT EXISTS (").Suffix(")")
}

// likePattern escapes LIKE wildcards in term and wraps it for a substring
// match.
func likePattern(term string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(term) + "%"
}

// selectCompanies carries the live application_count for each company.
func selectCompanies() sq.SelectBuilder {
	cols := append(prefixed("c", companyColumns), "COUNT(j.id) AS application_count")
	return psql.Select(cols...).
		From("companies c").
		LeftJoin("job_applications j ON j.company_id = c.id").
		GroupBy("c.id")
}

func companySearchQuery(term string) sq.SelectBuilder {
	b := selectCompanies()
	if term = strings.TrimSpace(term); term != "" {
		p := likePattern(term)
		b = b.Where(sq.Or{
			sq.Expr("c.name ILIKE ?", p),
			sq.Expr("c.industry ILIKE ?", p),
			sq.Expr("c.location ILIKE ?", p),
		})
	}
	return b.OrderBy("c.name ASC", "c.id ASC")
}

// applicationFilter scopes to the owner before any other predicate.
func applicationFilter(ownerID int64, q jaegermodel.ApplicationQuery) sq.And {
	where := sq.And{sq.Eq{"user_id": ownerID}}
	if q.Status != nil {
		where = append(where, sq.Eq{"status": string(*q.Status)})
	}
	if term := q.Term(); term != "" {
		p := likePattern(term)
		where = append(where, sq.Or{
			sq.Expr("job_title ILIKE ?", p),
			sq.Expr("company_name ILIKE ?", p),
			sq.Expr("job_location ILIKE ?", p),
		})
	}
	return where
}

func countApplicationsQuery(ownerID int64, q jaegermodel.ApplicationQuery) sq.SelectBuilder {
	return psql.Select("COUNT(*)").From("job_applications").Where(applicationFilter(ownerID, q))
}

func pageApplicationsQuery(ownerID int64, q jaegermodel.ApplicationQuery) sq.SelectBuilder {
	return psql.Select(applicationColumns...).
		From("job_applications").
		Where(applicationFilter(ownerID, q)).
		OrderBy(applicationOrder(q)...).
		Limit(uint64(q.PageSize)).
		Offset(uint64(q.Offset()))
}

// statusOrder sorts statuses by their declared position instead of by name.
var statusOrder = func() string {
	quoted := make([]string, len(jaegermodel.ApplicationStatuses))
	for i, s := range jaegermodel.ApplicationStatuses {
		quoted[i] = "'" + string(s) + "'"
	}
	return fmt.Sprintf("array_position(ARRAY[%s]::text[], status::text)", strings.Join(quoted, ","))
}()

// caseFolded orders text case-insensitively by code point, the same order
// memdb produces.
func caseFolded(col string) string {
	return "lower(" + col + ") COLLATE \"C\""
}

func applicationOrder(q jaegermodel.ApplicationQuery) []string {
	dir := "ASC"
	if q.SortDescending {
		dir = "DESC"
	}
	var col string
	switch q.SortBy {
	case jaegermodel.SortByJobTitle:
		col = caseFolded("job_title")
	case jaegermodel.SortByCompanyName:
		col = caseFolded("company_name")
	case jaegermodel.SortByStatus:
		col = statusOrder
	default:
		col = "application_date"
	}
	return []string{col + " " + dir, "id " + dir}
}

func roundsForApplicationsQuery(applicationIDs []int64) sq.SelectBuilder {
	return psql.Select(roundColumns...).
		From("interview_rounds").
		Where(sq.Eq{"job_application_id": applicationIDs}).
		OrderBy("interview_date ASC", "id ASC")
}
