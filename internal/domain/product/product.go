package product

import (
	"errors"
	"time"
)

var ErrNotFound = errors.New("product not found")

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
)

type Product struct {
	ID          int64      `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Price       float64    `json:"price"`
	Category    string     `json:"category"`
	Stock       int        `json:"stock"`
	CreatedAt   *time.Time `json:"created_at,omitempty"`
}

// with pointers if optional, it will be nil
type ListFilter struct {
	Category *string
	Page     int
	Limit    int
}

// Normalize applies the defaults used by the list endpoint: page and limit
// fall back to 1 and 10 when missing or non-positive, and limit is capped.
func (f ListFilter) Normalize() ListFilter {
	if f.Page < 1 {
		f.Page = DefaultPage
	}
	if f.Limit < 1 {
		f.Limit = DefaultLimit
	}
	if f.Limit > MaxLimit {
		f.Limit = MaxLimit
	}
	if f.Category != nil && *f.Category == "" {
		f.Category = nil
	}
	return f
}

func (f ListFilter) Offset() int {
	return (f.Page - 1) * f.Limit
}

// Page is the list response body. Total is the number of rows on this
// page, not across all pages; existing clients read it that way.
type Page struct {
	Products []Product `json:"products"`
	Page     int       `json:"page"`
	Limit    int       `json:"limit"`
	Total    int       `json:"total"`
}
