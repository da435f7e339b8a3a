package response

import "reuniteme/pkg/utils"

// PaginatedResponse is one page of an admin listing.
type PaginatedResponse[T any] struct {
	Items []T      `json:"items"`
	Page  PageInfo `json:"page"`
}

type PageInfo struct {
	Number     int   `json:"number"`
	Size       int   `json:"size"`
	TotalItems int64 `json:"totalItems"`
	TotalPages int   `json:"totalPages"`
	HasNext    bool  `json:"hasNext"`
}

// NewPaginatedResponse never returns a nil Items slice, so an empty page encodes as [].
func NewPaginatedResponse[T any](items []T, page, size int, total int64) *PaginatedResponse[T] {
	if items == nil {
		items = []T{}
	}

	pages := utils.CalculateTotalPages(total, size)
	return &PaginatedResponse[T]{
		Items: items,
		Page: PageInfo{
			Number:     page,
			Size:       size,
			TotalItems: total,
			TotalPages: pages,
			HasNext:    page < pages,
		},
	}
}
