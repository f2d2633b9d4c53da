package urlparser

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/MGavranovic/jaeger-tracker/src/jaegererr"
	"github.com/MGavranovic/jaeger-tracker/src/jaegermodel"
)

// ParseID reads a positive numeric path variable such as {id}.
func ParseID(vars map[string]string, name string) (int64, error) {
	raw, ok := vars[name]
	if !ok || raw == "" {
		return 0, jaegererr.Invalid("%s is required", name)
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, jaegererr.Invalid("%s must be a positive integer", name)
	}
	return id, nil
}

// ParseApplicationQuery builds the list query from status, searchTerm, sortBy,
// sortDescending, page and pageSize. Absent parameters keep their defaults;
// malformed ones are invalid input. An unknown sortBy is not an error.
func ParseApplicationQuery(values url.Values) (jaegermodel.ApplicationQuery, error) {
	q := jaegermodel.DefaultApplicationQuery()

	if raw := strings.TrimSpace(values.Get("status")); raw != "" {
		status, err := jaegermodel.ParseApplicationStatus(raw)
		if err != nil {
			return q, err
		}
		q.Status = &status
	}
	q.SearchTerm = values.Get("searchTerm")

	descending := q.SortDescending
	if raw := strings.TrimSpace(values.Get("sortDescending")); raw != "" {
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return q, jaegererr.Invalid("sortDescending must be true or false")
		}
		descending = b
	}
	q = q.WithSort(values.Get("sortBy"), descending)

	var err error
	if q.Page, err = intParam(values, "page", q.Page); err != nil {
		return q, err
	}
	if q.PageSize, err = intParam(values, "pageSize", q.PageSize); err != nil {
		return q, err
	}
	return q, q.Validate()
}

func intParam(values url.Values, name string, def int) (int, error) {
	raw := strings.TrimSpace(values.Get(name))
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, jaegererr.Invalid("%s must be an integer", name)
	}
	return n, nil
}
