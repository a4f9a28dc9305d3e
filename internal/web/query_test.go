package web

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParsePage(t *testing.T) {
	tests := []struct {
		name      string
		query     string
		wantPage  int
		wantLimit int
	}{
		{"defaults", "", 1, 10},
		{"explicit", "page=3&limit=25", 3, 25},
		{"non-numeric", "page=abc&limit=xyz", 1, 10},
		{"zero and negative", "page=0&limit=-5", 1, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := url.ParseQuery(tt.query)
			assert.NoError(t, err)

			p := ParsePage(q)
			assert.Equal(t, tt.wantPage, p.Page)
			assert.Equal(t, tt.wantLimit, p.Limit)
		})
	}
}

func TestPageQuery_Skip(t *testing.T) {
	assert.Equal(t, 0, PageQuery{Page: 1, Limit: 10}.Skip())
	assert.Equal(t, 40, PageQuery{Page: 5, Limit: 10}.Skip())
}

func TestNewPagination_CeilTotalPages(t *testing.T) {
	tests := []struct {
		total     int64
		limit     int
		wantPages int
	}{
		{0, 10, 0},
		{1, 10, 1},
		{10, 10, 1},
		{11, 10, 2},
		{95, 10, 10},
	}

	for _, tt := range tests {
		p := NewPagination(PageQuery{Page: 1, Limit: tt.limit}, tt.total)
		assert.Equal(t, tt.wantPages, p.TotalPages, "total=%d limit=%d", tt.total, tt.limit)
		assert.Equal(t, tt.total, p.TotalItems)
	}
}
