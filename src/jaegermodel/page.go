package jaegermodel

import "encoding/json"

// Page is one slice of a filtered list. TotalCount counts the whole filtered
// set; the page flags are derived, never stored.
type Page[T any] struct {
	Items      []T
	TotalCount int
	Page       int
	PageSize   int
}

func (p Page[T]) TotalPages() int {
	if p.PageSize <= 0 {
		return 0
	}
	return (p.TotalCount + p.PageSize - 1) / p.PageSize
}

func (p Page[T]) HasPreviousPage() bool { return p.Page > 1 }

func (p Page[T]) HasNextPage() bool { return p.Page < p.TotalPages() }

func (p Page[T]) MarshalJSON() ([]byte, error) {
	items := p.Items
	if items == nil {
		items = []T{}
	}
	return json.Marshal(struct {
		Items           []T  `json:"items"`
		TotalCount      int  `json:"totalCount"`
		Page            int  `json:"page"`
		PageSize        int  `json:"pageSize"`
		TotalPages      int  `json:"totalPages"`
		HasPreviousPage bool `json:"hasPreviousPage"`
		HasNextPage     bool `json:"hasNextPage"`
	}{
		Items:           items,
		TotalCount:      p.TotalCount,
		Page:            p.Page,
		PageSize:        p.PageSize,
		TotalPages:      p.TotalPages(),
		HasPreviousPage: p.HasPreviousPage(),
		HasNextPage:     p.HasNextPage(),
	})
}

// MapPage converts the items of a page, keeping its counters.
func MapPage[T, U any](p Page[T], fn func(T) U) Page[U] {
	out := Page[U]{
		Items:      make([]U, 0, len(p.Items)),
		TotalCount: p.TotalCount,
		Page:       p.Page,
		PageSize:   p.PageSize,
	}
	for _, item := range p.Items {
		out.Items = append(out.Items, fn(item))
	}
	return out
}
