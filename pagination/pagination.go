// Package pagination provides the two pagination flavors used across the
// downstream applications (page-number and limit/offset), the response
// metadata shape, and GORM scopes for applying them to queries.
package pagination

import (
	"math"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Default and maximum sizes shared by both flavors.
const (
	DefaultPage    = 1
	DefaultPerPage = 10
	MaxPerPage     = 100
	DefaultLimit   = 10
	MaxLimit       = 100
)

// validFieldName matches only identifiers safe to interpolate into ORDER BY
// and WHERE clauses.
var validFieldName = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// PageRequest holds page-number pagination parameters plus optional sorting
// and filtering extracted from the query string.
type PageRequest struct {
	Page    int
	PerPage int
	Sort    string
	Filter  map[string]string
}

// LimitOffsetRequest holds limit/offset pagination parameters.
type LimitOffsetRequest struct {
	Limit  int
	Offset int
}

// Meta is the pagination block attached to list response envelopes.
type Meta struct {
	Total       int64 `json:"total"`
	LastPage    int   `json:"last_page"`
	CurrentPage int   `json:"current_page"`
	PerPage     int   `json:"per_page"`
}

// Page pairs a page of items with its metadata.
type Page[T any] struct {
	Items []T  `json:"items"`
	Meta  Meta `json:"meta"`
}

// reservedParams lists query parameter names consumed by pagination itself,
// never treated as filters.
var reservedParams = map[string]bool{
	"page":     true,
	"per_page": true,
	"limit":    true,
	"offset":   true,
	"sort":     true,
}

// ParsePageRequest extracts page, per_page, sort, and filter parameters from
// the request query string. Out-of-range values are clamped to the defaults
// and MaxPerPage.
func ParsePageRequest(c *gin.Context) PageRequest {
	page, _ := strconv.Atoi(c.DefaultQuery("page", strconv.Itoa(DefaultPage)))
	if page < 1 {
		page = DefaultPage
	}

	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", strconv.Itoa(DefaultPerPage)))
	if perPage < 1 {
		perPage = DefaultPerPage
	}
	if perPage > MaxPerPage {
		perPage = MaxPerPage
	}

	filter := make(map[string]string)
	for key, values := range c.Request.URL.Query() {
		if reservedParams[key] {
			continue
		}
		if len(values) > 0 && values[0] != "" {
			filter[key] = values[0]
		}
	}

	return PageRequest{
		Page:    page,
		PerPage: perPage,
		Sort:    c.Query("sort"),
		Filter:  filter,
	}
}

// ParseLimitOffset extracts limit and offset parameters from the request
// query string, clamping to the defaults and MaxLimit.
func ParseLimitOffset(c *gin.Context) LimitOffsetRequest {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(DefaultLimit)))
	if limit < 1 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if offset < 0 {
		offset = 0
	}

	return LimitOffsetRequest{Limit: limit, Offset: offset}
}

// Paginate returns a GORM scope applying LIMIT and OFFSET for the page request.
func Paginate(req PageRequest) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		offset := (req.Page - 1) * req.PerPage
		return db.Offset(offset).Limit(req.PerPage)
	}
}

// LimitOffset returns a GORM scope applying the limit/offset request directly.
func LimitOffset(req LimitOffsetRequest) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Offset(req.Offset).Limit(req.Limit)
	}
}

// Sort returns a GORM scope applying ORDER BY from a "field:direction" sort
// value. Only field names present in the allowed list are accepted; anything
// else is silently ignored.
func Sort(req PageRequest, allowed []string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		parts := strings.SplitN(req.Sort, ":", 2)
		if len(parts) != 2 {
			return db
		}

		field := strings.TrimSpace(parts[0])
		direction := strings.TrimSpace(strings.ToLower(parts[1]))

		if direction != "asc" && direction != "desc" {
			return db
		}
		if !validFieldName.MatchString(field) {
			return db
		}
		if !slices.Contains(allowed, field) {
			return db
		}

		return db.Order(field + " " + direction)
	}
}

// Filter returns a GORM scope applying WHERE conditions from the request
// filters. Keys ending with "__like" produce a LIKE '%value%' condition;
// others use exact match. Only allowed field names are applied.
func Filter(req PageRequest, allowed []string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		for key, value := range req.Filter {
			if strings.HasSuffix(key, "__like") {
				field := strings.TrimSuffix(key, "__like")
				if !validFieldName.MatchString(field) {
					continue
				}
				if !slices.Contains(allowed, field) {
					continue
				}
				db = db.Where(field+" LIKE ?", "%"+value+"%")
			} else {
				if !validFieldName.MatchString(key) {
					continue
				}
				if !slices.Contains(allowed, key) {
					continue
				}
				db = db.Where(key+" = ?", value)
			}
		}
		return db
	}
}

// NewMeta computes pagination metadata for a total row count.
func NewMeta(total int64, req PageRequest) Meta {
	lastPage := 0
	if req.PerPage > 0 {
		lastPage = int(math.Ceil(float64(total) / float64(req.PerPage)))
	}
	return Meta{
		Total:       total,
		LastPage:    lastPage,
		CurrentPage: req.Page,
		PerPage:     req.PerPage,
	}
}

// NewPage assembles a Page from items and the total row count.
func NewPage[T any](items []T, total int64, req PageRequest) *Page[T] {
	if items == nil {
		items = []T{}
	}
	return &Page[T]{
		Items: items,
		Meta:  NewMeta(total, req),
	}
}
