package model

const (
	DefaultPage     = 1
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// PageRequest is a 1-based page window
type PageRequest struct {
	Page     int
	PageSize int
}

// Normalize replaces out-of-range values with the defaults and caps the page size
func (p PageRequest) Normalize() PageRequest {
	if p.Page < 1 {
		p.Page = DefaultPage
	}
	if p.PageSize < 1 {
		p.PageSize = DefaultPageSize
	}
	if p.PageSize > MaxPageSize {
		p.PageSize = MaxPageSize
	}
	return p
}

func (p PageRequest) Offset() int {
	return (p.Page - 1) * p.PageSize
}

type Pagination struct {
	CurrentPage  int   `json:"current_page"`
	TotalPages   int   `json:"total_pages"`
	TotalRecords int64 `json:"total_records"`
	PerPage      int   `json:"per_page"`
}

// NewPagination builds the metadata for a normalized page and a total match count
func NewPagination(p PageRequest, total int64) Pagination {
	totalPages := 0
	if p.PageSize > 0 {
		totalPages = int((total + int64(p.PageSize) - 1) / int64(p.PageSize))
	}
	return Pagination{
		CurrentPage:  p.Page,
		TotalPages:   totalPages,
		TotalRecords: total,
		PerPage:      p.PageSize,
	}
}
