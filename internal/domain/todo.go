package domain

import (
	"math"
	"strings"
	"time"
	"unicode/utf8"
)

const MaxValueLength = 255

type TodoItem struct {
	ID          int64     `json:"id"`
	Value       string    `json:"value"`
	IsCompleted bool      `json:"isCompleted"`
	CreatedAt   time.Time `json:"created_at"`
}

// NewTodoItem validates the fields a caller may set on a new item.
// ID and CreatedAt are assigned by the store.
func NewTodoItem(value string, isCompleted bool) (*TodoItem, error) {
	if err := ValidateValue(value); err != nil {
		return nil, err
	}

	return &TodoItem{
		Value:       value,
		IsCompleted: isCompleted,
	}, nil
}

func ValidateValue(value string) error {
	if strings.TrimSpace(value) == "" {
		return ErrEmptyValue
	}
	if utf8.RuneCountInString(value) > MaxValueLength {
		return ErrValueTooLong
	}
	return nil
}

type ListFilter struct {
	Page     int
	PageSize int
}

// Normalize clamps the filter into a usable range. Out-of-range pages are
// left alone; they simply produce an empty page.
func (f *ListFilter) Normalize(defaultPageSize, maxPageSize int) {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.PageSize < 1 || f.PageSize > maxPageSize {
		f.PageSize = defaultPageSize
	}
}

// Offset is the number of rows skipped in the newest-first ordering. ok is
// false when the offset does not fit in an int; such a page is always empty.
func (f ListFilter) Offset() (offset int, ok bool) {
	if f.Page < 1 || f.PageSize < 1 {
		return 0, true
	}
	if f.Page-1 > math.MaxInt/f.PageSize {
		return 0, false
	}
	return (f.Page - 1) * f.PageSize, true
}
