package handlers

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/storefront/platform/internal/config"
	"github.com/storefront/platform/internal/domain/product"
)

type ProductReader interface {
	List(ctx context.Context, filter product.ListFilter) (product.Page, error)
	GetByID(ctx context.Context, id int64) (product.Product, error)
}

type ProductsHandler struct {
	catalog ProductReader
}

func NewProductsHandler(catalog ProductReader) *ProductsHandler {
	return &ProductsHandler{catalog: catalog}
}

// ListProducts accepts ?page, ?limit and ?category. Unparseable paging
// values fall back to the defaults instead of failing the request.
func (h *ProductsHandler) ListProducts(ctx *gin.Context) {
	filter := product.ListFilter{
		Page:  queryInt(ctx, "page"),
		Limit: queryInt(ctx, "limit"),
	}
	if c := ctx.Query("category"); c != "" {
		filter.Category = &c
	}

	cctx, cancel := config.WithTimeout(ctx.Request.Context(), 3*time.Second)
	defer cancel()

	page, err := h.catalog.List(cctx, filter)
	if err != nil {
		RespondInternal(ctx, "Internal server error")
		return
	}

	respondCatalog(ctx, page)
}

func (h *ProductsHandler) GetProductByID(ctx *gin.Context) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		RespondNotFound(ctx, "Product not found")
		return
	}

	cctx, cancel := config.WithTimeout(ctx.Request.Context(), 3*time.Second)
	defer cancel()

	p, err := h.catalog.GetByID(cctx, id)
	if err != nil {
		if errors.Is(err, product.ErrNotFound) {
			RespondNotFound(ctx, "Product not found")
			return
		}
		RespondInternal(ctx, "Internal server error")
		return
	}

	respondCatalog(ctx, p)
}

func queryInt(ctx *gin.Context, key string) int {
	n, err := strconv.Atoi(ctx.Query(key))
	if err != nil {
		return 0
	}
	return n
}

// respondCatalog writes a catalog read with a validator over its encoded
// body, so clients polling an unchanged listing get 304 until the cached
// entry is refreshed.
func respondCatalog(ctx *gin.Context, payload any) {
	body, err := json.Marshal(payload)
	if err != nil {
		RespondInternal(ctx, "Internal server error")
		return
	}

	tag := catalogTag(body)
	ctx.Header("ETag", tag)
	if notModified(ctx.GetHeader("If-None-Match"), tag) {
		ctx.Status(http.StatusNotModified)
		return
	}

	ctx.Data(http.StatusOK, "application/json; charset=utf-8", body)
}

func catalogTag(body []byte) string {
	sum := sha256.Sum256(body)
	return `"` + hex.EncodeToString(sum[:16]) + `"`
}

// notModified applies the weak comparison If-None-Match calls for.
func notModified(header, tag string) bool {
	header = strings.TrimSpace(header)
	if header == "" {
		return false
	}
	if header == "*" {
		return true
	}

	for _, candidate := range strings.Split(header, ",") {
		candidate = strings.TrimPrefix(strings.TrimSpace(candidate), "W/")
		if candidate == tag {
			return true
		}
	}
	return false
}
