package domain

import "context"

// Repository defines the contract for todo persistence
type Repository interface {
	// List returns one page of items, newest first
	List(ctx context.Context, filter ListFilter) (*PageResult, error)

	// Add persists a new item and returns it as stored
	Add(ctx context.Context, value string, isCompleted bool) (*TodoItem, error)

	// ToggleComplete flips isCompleted and returns the updated item
	ToggleComplete(ctx context.Context, id int64) (*TodoItem, error)

	// Delete hard-deletes an item
	Delete(ctx context.Context, id int64) error

	// AddBatch creates multiple items in a transaction
	AddBatch(ctx context.Context, items []*TodoItem) error

	// Ping checks that the store is reachable
	Ping(ctx context.Context) error
}

// PageResult contains paginated results
type PageResult struct {
	Items      []*TodoItem `json:"items"`
	Total      int64       `json:"total"`
	Page       int         `json:"page"`
	TotalPages int         `json:"totalPages"`
	PageSize   int         `json:"pageSize"`
}

func NewPageResult(items []*TodoItem, total int64, filter ListFilter) *PageResult {
	if items == nil {
		items = make([]*TodoItem, 0)
	}
	return &PageResult{
		Items:      items,
		Total:      total,
		Page:       filter.Page,
		TotalPages: TotalPages(total, filter.PageSize),
		PageSize:   filter.PageSize,
	}
}

// TotalPages is ceil(total/pageSize) in integer arithmetic.
func TotalPages(total int64, pageSize int) int {
	if pageSize < 1 {
		return 0
	}
	size := int64(pageSize)
	return int((total + size - 1) / size)
}
