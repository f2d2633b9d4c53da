package urlparser

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MGavranovic/jaeger-tracker/src/jaegererr"
	"github.com/MGavranovic/jaeger-tracker/src/jaegermodel"
)

func TestParseID(t *testing.T) {
	id, err := ParseID(map[string]string{"id": "17"}, "id")
	require.NoError(t, err)
	assert.Equal(t, int64(17), id)

	for _, raw := range []string{"", "0", "-3", "abc", "9999999999999999999999"} {
		_, err := ParseID(map[string]string{"id": raw}, "id")
		assert.True(t, jaegererr.Is(err, jaegererr.EInvalid), raw)
	}
	_, err = ParseID(map[string]string{}, "applicationId")
	assert.True(t, jaegererr.Is(err, jaegererr.EInvalid))
}

func TestParseApplicationQueryDefaults(t *testing.T) {
	q, err := ParseApplicationQuery(url.Values{})
	require.NoError(t, err)
	assert.Equal(t, jaegermodel.DefaultApplicationQuery(), q)
}

func TestParseApplicationQuery(t *testing.T) {
	v, err := url.ParseQuery("status=offer&searchTerm=acme&sortBy=companyName&sortDescending=false&page=2&pageSize=25")
	require.NoError(t, err)
	q, err := ParseApplicationQuery(v)
	require.NoError(t, err)

	require.NotNil(t, q.Status)
	assert.Equal(t, jaegermodel.StatusOffer, *q.Status)
	assert.Equal(t, "acme", q.SearchTerm)
	assert.Equal(t, jaegermodel.SortByCompanyName, q.SortBy)
	assert.False(t, q.SortDescending)
	assert.Equal(t, 2, q.Page)
	assert.Equal(t, 25, q.PageSize)
}

func TestParseApplicationQueryUnknownSortFallsBack(t *testing.T) {
	v := url.Values{"sortBy": {"salary"}, "sortDescending": {"false"}}
	q, err := ParseApplicationQuery(v)
	require.NoError(t, err)
	assert.Equal(t, jaegermodel.SortByApplicationDate, q.SortBy)
	assert.True(t, q.SortDescending)
}

func TestParseApplicationQueryRejects(t *testing.T) {
	tests := map[string]string{
		"unknown status": "status=hired",
		"zero page":      "page=0",
		"text page":      "page=two",
		"page size high": "pageSize=101",
		"page size zero": "pageSize=0",
		"bad bool":       "sortDescending=maybe",
	}
	for name, raw := range tests {
		t.Run(name, func(t *testing.T) {
			v, err := url.ParseQuery(raw)
			require.NoError(t, err)
			_, err = ParseApplicationQuery(v)
			assert.True(t, jaegererr.Is(err, jaegererr.EInvalid))
		})
	}
}
