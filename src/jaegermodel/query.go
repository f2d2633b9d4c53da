package jaegermodel

import (
	"cmp"
	"strings"

	"github.com/MGavranovic/jaeger-tracker/src/jaegererr"
)

// SortField is a column job applications can be ordered by.
type SortField string

const (
	SortByApplicationDate SortField = "applicationDate"
	SortByJobTitle        SortField = "jobTitle"
	SortByCompanyName     SortField = "companyName"
	SortByStatus          SortField = "status"
)

const (
	DefaultPage     = 1
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// ParseSortField matches name case-insensitively. The second return value is
// false when name is not a known field, in which case applicationDate is
// returned.
func ParseSortField(name string) (SortField, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "applicationdate":
		return SortByApplicationDate, true
	case "jobtitle":
		return SortByJobTitle, true
	case "companyname":
		return SortByCompanyName, true
	case "status":
		return SortByStatus, true
	}
	return SortByApplicationDate, false
}

// ApplicationQuery filters, orders and pages one owner's applications.
type ApplicationQuery struct {
	Status         *ApplicationStatus
	SearchTerm     string
	SortBy         SortField
	SortDescending bool
	Page           int
	PageSize       int
}

func DefaultApplicationQuery() ApplicationQuery {
	return ApplicationQuery{
		SortBy:         SortByApplicationDate,
		SortDescending: true,
		Page:           DefaultPage,
		PageSize:       DefaultPageSize,
	}
}

// WithSort sets the ordering from raw input. Unknown field names fall back to
// applicationDate descending whatever direction was asked for.
func (q ApplicationQuery) WithSort(name string, descending bool) ApplicationQuery {
	if strings.TrimSpace(name) == "" {
		q.SortBy, q.SortDescending = SortByApplicationDate, descending
		return q
	}
	field, ok := ParseSortField(name)
	if !ok {
		q.SortBy, q.SortDescending = SortByApplicationDate, true
		return q
	}
	q.SortBy, q.SortDescending = field, descending
	return q
}

func (q ApplicationQuery) Validate() error {
	if q.Page < 1 {
		return jaegererr.Invalid("page must be 1 or greater")
	}
	if q.PageSize < 1 || q.PageSize > MaxPageSize {
		return jaegererr.Invalid("pageSize must be between 1 and %d", MaxPageSize)
	}
	return nil
}

// Term is the trimmed search term; empty means no search.
func (q ApplicationQuery) Term() string { return strings.TrimSpace(q.SearchTerm) }

func (q ApplicationQuery) Offset() int { return (q.Page - 1) * q.PageSize }

// Matches reports whether a passes the status filter and the search term.
// Ownership is not checked here.
func (q ApplicationQuery) Matches(a JobApplication) bool {
	if q.Status != nil && a.Status != *q.Status {
		return false
	}
	term := strings.ToLower(q.Term())
	if term == "" {
		return true
	}
	if strings.Contains(strings.ToLower(a.JobTitle), term) ||
		strings.Contains(strings.ToLower(a.CompanyName), term) {
		return true
	}
	return a.JobLocation != nil && strings.Contains(strings.ToLower(*a.JobLocation), term)
}

// Less orders a before b under the query's sort. Ties break on id in the same
// direction so pages are stable.
func (q ApplicationQuery) Less(a, b JobApplication) bool {
	c := q.compare(a, b)
	if c == 0 {
		c = cmp.Compare(a.ID, b.ID)
	}
	if q.SortDescending {
		return c > 0
	}
	return c < 0
}

func (q ApplicationQuery) compare(a, b JobApplication) int {
	switch q.SortBy {
	case SortByJobTitle:
		return strings.Compare(strings.ToLower(a.JobTitle), strings.ToLower(b.JobTitle))
	case SortByCompanyName:
		return strings.Compare(strings.ToLower(a.CompanyName), strings.ToLower(b.CompanyName))
	case SortByStatus:
		return cmp.Compare(a.Status.Ordinal(), b.Status.Ordinal())
	default:
		return a.ApplicationDate.Compare(b.ApplicationDate)
	}
}
