// Package catalog serves product reads through the cache-aside layer.
package catalog

import (
	"context"
	"strconv"
	"time"

	"github.com/storefront/platform/internal/cache"
	"github.com/storefront/platform/internal/domain/product"
)

const (
	ListTTL   = 300 * time.Second
	DetailTTL = 600 * time.Second
)

type ProductRepository interface {
	List(ctx context.Context, filter product.ListFilter) ([]product.Product, error)
	GetByID(ctx context.Context, id int64) (product.Product, error)
}

// Reader never writes products; updates made elsewhere show up once the
// relevant entry expires.
type Reader struct {
	repo   ProductRepository
	lists  *cache.Aside[product.Page]
	detail *cache.Aside[product.Product]
}

func NewReader(repo ProductRepository, store cache.Store, opts ...cache.Option) *Reader {
	return &Reader{
		repo:   repo,
		lists:  cache.NewAside[product.Page](store, "products", ListTTL, opts...),
		detail: cache.NewAside[product.Product](store, "product", DetailTTL, opts...),
	}
}

func ListKey(f product.ListFilter) string {
	category := "all"
	if f.Category != nil {
		category = *f.Category
	}
	return "products:" + strconv.Itoa(f.Page) + ":" + strconv.Itoa(f.Limit) + ":" + category
}

func DetailKey(id int64) string {
	return "product:" + strconv.FormatInt(id, 10)
}

// List normalizes the filter before building the key, so "?limit=0" and
// "?limit=10" share one entry.
func (r *Reader) List(ctx context.Context, filter product.ListFilter) (product.Page, error) {
	f := filter.Normalize()

	return r.lists.Get(ctx, ListKey(f), func(ctx context.Context) (product.Page, error) {
		rows, err := r.repo.List(ctx, f)
		if err != nil {
			return product.Page{}, err
		}
		if rows == nil {
			rows = []product.Product{}
		}

		return product.Page{
			Products: rows,
			Page:     f.Page,
			Limit:    f.Limit,
			Total:    len(rows),
		}, nil
	})
}

// GetByID returns product.ErrNotFound for unknown ids; that outcome is not
// cached.
func (r *Reader) GetByID(ctx context.Context, id int64) (product.Product, error) {
	if id <= 0 {
		return product.Product{}, product.ErrNotFound
	}

	return r.detail.Get(ctx, DetailKey(id), func(ctx context.Context) (product.Product, error) {
		return r.repo.GetByID(ctx, id)
	})
}
