package services

// Page is one zero-based page of a listing.
type Page[T any] struct {
	Items []T
	Total int64
	Page  int
	Size  int
}

// PageRequest selects a page. Page is clamped to [0, MaxPage] and Size to
// [1, MaxPageSize], which keeps Page*Size well inside an int32 OFFSET.
type PageRequest struct {
	Page   int
	Size   int
	Search string
}

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
	MaxPage         = 1_000_000
)

func (r PageRequest) normalize() PageRequest {
	switch {
	case r.Page < 0:
		r.Page = 0
	case r.Page > MaxPage:
		r.Page = MaxPage
	}
	switch {
	case r.Size <= 0:
		r.Size = DefaultPageSize
	case r.Size > MaxPageSize:
		r.Size = MaxPageSize
	}
	return r
}

func (r PageRequest) offset() int { return r.Page * r.Size }
