package catalog

import (
	"net/url"
	"reflect"
	"strconv"

	"github.com/mmcdole/gamedeck/internal/domain"
)

// Params maps query parameter names to scalar values.
// nil, empty strings and nil pointers are omitted from the query string.
type Params map[string]any

// Values encodes p, dropping empty values
func (p Params) Values() url.Values {
	values := url.Values{}
	for name, v := range p {
		if s, ok := formatParam(v); ok {
			values.Set(name, s)
		}
	}
	return values
}

// Encode returns the sorted query string
func (p Params) Encode() string {
	return p.Values().Encode()
}

func formatParam(v any) (string, bool) {
	if v == nil {
		return "", false
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return "", false
		}
		return formatParam(rv.Elem().Interface())
	case reflect.String:
		s := rv.String()
		return s, s != ""
	case reflect.Bool:
		return strconv.FormatBool(rv.Bool()), true
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(rv.Int(), 10), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.FormatUint(rv.Uint(), 10), true
	case reflect.Float32, reflect.Float64:
		return strconv.FormatFloat(rv.Float(), 'f', -1, 64), true
	default:
		return "", false
	}
}

// GameParams builds the games list query, applying the server defaults
// for page, page size and ordering when they are unset.
func GameParams(q domain.GameQuery) Params {
	page := q.Page
	if page < 1 {
		page = 1
	}
	pageSize := q.PageSize
	if pageSize <= 0 {
		pageSize = domain.DefaultPageSize
	}
	ordering := q.Ordering
	if ordering == "" {
		ordering = domain.DefaultOrdering
	}
	return Params{
		"search":    q.Search,
		"genres":    q.Genre,
		"platforms": q.Platform,
		"ordering":  ordering,
		"page":      page,
		"page_size": pageSize,
	}
}
