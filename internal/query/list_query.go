// Package query turns untrusted list parameters into a bounded descriptor
// shared by every collection endpoint.
package query

import (
	"errors"
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"
)

const (
	DefaultPage     = 1
	DefaultPageSize = 10
	MaxPageSize     = 100

	// MaxPage keeps (page-1)*MaxPageSize inside an int.
	MaxPage = math.MaxInt/MaxPageSize + 1
)

type Order string

const (
	Asc  Order = "asc"
	Desc Order = "desc"
)

// ErrInvalid is wrapped by every error returned from Parse.
var ErrInvalid = errors.New("invalid list query")

// Error describes a rejected parameter.
type Error struct {
	Field  string
	Reason string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func (e *Error) Unwrap() error {
	return ErrInvalid
}

// ListQuery is a validated search/sort/pagination descriptor.
// Empty Search, Sort and Order mean "not provided".
type ListQuery struct {
	Search   string
	Sort     string
	Order    Order
	Page     int
	PageSize int
}

type Pagination struct {
	Skip int
	Take int
}

// Parse validates q, sort, order, page and pageSize. Out-of-range values are
// rejected, not clamped.
func Parse(values url.Values) (ListQuery, error) {
	q := ListQuery{
		Search:   strings.TrimSpace(values.Get("q")),
		Sort:     strings.TrimSpace(values.Get("sort")),
		Page:     DefaultPage,
		PageSize: DefaultPageSize,
	}

	if raw := values.Get("order"); raw != "" {
		switch Order(raw) {
		case Asc, Desc:
			q.Order = Order(raw)
		default:
			return ListQuery{}, &Error{Field: "order", Reason: "must be asc or desc"}
		}
	}

	if raw := strings.TrimSpace(values.Get("page")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return ListQuery{}, &Error{Field: "page", Reason: "must be an integer"}
		}
		if n < 1 {
			return ListQuery{}, &Error{Field: "page", Reason: "must be >= 1"}
		}
		if n > MaxPage {
			return ListQuery{}, &Error{Field: "page", Reason: "is too large"}
		}
		q.Page = n
	}

	if raw := strings.TrimSpace(values.Get("pageSize")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return ListQuery{}, &Error{Field: "pageSize", Reason: "must be an integer"}
		}
		if n < 1 || n > MaxPageSize {
			return ListQuery{}, &Error{Field: "pageSize", Reason: fmt.Sprintf("must be between 1 and %d", MaxPageSize)}
		}
		q.PageSize = n
	}

	return q, nil
}

// Paginate converts a 1-based page into an offset window.
func Paginate(page, pageSize int) Pagination {
	return Pagination{
		Skip: (page - 1) * pageSize,
		Take: pageSize,
	}
}

func (q ListQuery) Pagination() Pagination {
	return Paginate(q.Page, q.PageSize)
}

// OptionalBool reads a "true"/"false" filter parameter. Absent yields nil.
func OptionalBool(values url.Values, key string) (*bool, error) {
	switch values.Get(key) {
	case "":
		return nil, nil
	case "true":
		v := true
		return &v, nil
	case "false":
		v := false
		return &v, nil
	default:
		return nil, &Error{Field: key, Reason: "must be true or false"}
	}
}
