package pagination

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromRequest(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  Params
	}{
		{"defaults", "", Params{Page: 1, Limit: 20, Offset: 0}},
		{"explicit", "?page=3&limit=10", Params{Page: 3, Limit: 10, Offset: 20}},
		{"limit capped", "?limit=500", Params{Page: 1, Limit: MaxLimit, Offset: 0}},
		{"garbage ignored", "?page=abc&limit=-4", Params{Page: 1, Limit: 20, Offset: 0}},
		{"zero page ignored", "?page=0", Params{Page: 1, Limit: 20, Offset: 0}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/api/v1/requirements"+tc.query, nil)
			assert.Equal(t, tc.want, FromRequest(r))
		})
	}
}

func TestNewPage(t *testing.T) {
	p := NewPage([]string{"a", "b"}, 5, Params{Page: 1, Limit: 2})
	assert.Equal(t, 3, p.TotalPages)
	assert.True(t, p.HasNext)

	last := NewPage([]string{"e"}, 5, Params{Page: 3, Limit: 2})
	assert.False(t, last.HasNext)
}

func TestNewPage_Empty(t *testing.T) {
	p := NewPage[int](nil, 0, DefaultParams())
	assert.NotNil(t, p.Items)
	assert.Equal(t, 0, p.TotalPages)
	assert.False(t, p.HasNext)
}
