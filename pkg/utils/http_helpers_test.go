package utils

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseFilterFromQuery_Defaults(t *testing.T) {
	f := ParseFilterFromQuery(url.Values{})

	assert.Equal(t, DefaultLimit, f.Limit)
	assert.Equal(t, 1, f.Page)
	assert.Equal(t, 0, f.Offset)
	assert.True(t, f.WithPagination)
	assert.Empty(t, f.Search)
	assert.Empty(t, f.Sort)
	assert.Empty(t, f.Filter)
}

func TestParseFilterFromQuery(t *testing.T) {
	values, err := url.ParseQuery("search=oven&sort[created_at]=DESC&filter[status]=scheduled,in_progress&page=3&limit=25")
	assert.NoError(t, err)

	f := ParseFilterFromQuery(values)

	assert.Equal(t, "oven", f.Search)
	assert.Equal(t, "desc", f.Sort["created_at"])
	assert.Equal(t, "scheduled,in_progress", f.Filter["status"])
	assert.Equal(t, 3, f.Page)
	assert.Equal(t, 25, f.Limit)
	assert.Equal(t, 50, f.Offset, "offset derives from page and limit")
}

func TestParseFilterFromQuery_Bounds(t *testing.T) {
	t.Run("limit capped", func(t *testing.T) {
		f := ParseFilterFromQuery(url.Values{"limit": {"9999"}})
		assert.Equal(t, MaxLimit, f.Limit)
	})

	t.Run("garbage numbers ignored", func(t *testing.T) {
		f := ParseFilterFromQuery(url.Values{"limit": {"lots"}, "page": {"-2"}})
		assert.Equal(t, DefaultLimit, f.Limit)
		assert.Equal(t, 1, f.Page)
	})

	t.Run("explicit offset wins over page", func(t *testing.T) {
		f := ParseFilterFromQuery(url.Values{"page": {"5"}, "limit": {"10"}, "offset": {"7"}})
		assert.Equal(t, 7, f.Offset)
	})

	t.Run("invalid sort direction dropped", func(t *testing.T) {
		f := ParseFilterFromQuery(url.Values{"sort[name]": {"sideways"}})
		assert.Empty(t, f.Sort)
	})

	t.Run("pagination opt-out", func(t *testing.T) {
		f := ParseFilterFromQuery(url.Values{"withPagination": {"false"}})
		assert.False(t, f.WithPagination)
	})
}
