package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPageRequest_Normalize(t *testing.T) {
	tests := []struct {
		name string
		in   PageRequest
		want PageRequest
	}{
		{"zero values", PageRequest{}, PageRequest{Page: 1, PageSize: 10}},
		{"negative", PageRequest{Page: -3, PageSize: -1}, PageRequest{Page: 1, PageSize: 10}},
		{"kept", PageRequest{Page: 4, PageSize: 25}, PageRequest{Page: 4, PageSize: 25}},
		{"capped", PageRequest{Page: 2, PageSize: 1000}, PageRequest{Page: 2, PageSize: MaxPageSize}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.in.Normalize())
		})
	}
}

func TestPageRequest_Offset(t *testing.T) {
	assert.Equal(t, 0, PageRequest{Page: 1, PageSize: 10}.Offset())
	assert.Equal(t, 20, PageRequest{Page: 3, PageSize: 10}.Offset())
}

func TestNewPagination(t *testing.T) {
	tests := []struct {
		name      string
		page      PageRequest
		total     int64
		wantPages int
	}{
		{"empty", PageRequest{Page: 1, PageSize: 10}, 0, 0},
		{"under one page", PageRequest{Page: 1, PageSize: 10}, 5, 1},
		{"exact", PageRequest{Page: 1, PageSize: 5}, 10, 2},
		{"remainder", PageRequest{Page: 2, PageSize: 3}, 10, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPagination(tt.page, tt.total)
			assert.Equal(t, tt.wantPages, p.TotalPages)
			assert.Equal(t, tt.total, p.TotalRecords)
			assert.Equal(t, tt.page.Page, p.CurrentPage)
			assert.Equal(t, tt.page.PageSize, p.PerPage)
		})
	}
}
