// internal/app/store/storeutil/storeutil.go
package storeutil

import "go.mongodb.org/mongo-driver/mongo/options"

// Paginate returns *options.FindOptions with skip/limit given a 1-based page.
func Paginate(limit, page int64) *options.FindOptions {
	if limit <= 0 {
		limit = 10
	}
	if page <= 0 {
		page = 1
	}
	sk := (page - 1) * limit
	return options.Find().SetLimit(limit).SetSkip(sk)
}

// PageInfo describes one page of a paginated result set.
type PageInfo struct {
	Total       int64 `json:"total"`
	CurrentPage int64 `json:"currentPage"`
	TotalPages  int64 `json:"totalPages"`
	HasNextPage bool  `json:"hasNextPage"`
	HasPrevPage bool  `json:"hasPrevPage"`
}

// NewPageInfo computes pagination metadata for a 1-based page.
func NewPageInfo(total, page, limit int64) PageInfo {
	if limit <= 0 {
		limit = 10
	}
	if page <= 0 {
		page = 1
	}
	pages := total / limit
	if total%limit != 0 {
		pages++
	}
	return PageInfo{
		Total:       total,
		CurrentPage: page,
		TotalPages:  pages,
		HasNextPage: page < pages,
		HasPrevPage: page > 1 && total > 0,
	}
}
