// Package query turns list-endpoint query strings (select, sort, page, limit,
// search and field[op] filters) into gorm scopes restricted to a column
// whitelist.
package query

import (
	"context"
	"fmt"
	"math"
	"net/url"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"gorm.io/gorm"

	"github.com/gardenpro/landscape-api/internal/httperr"
)

const (
	DefaultPage  = 1
	DefaultLimit = 25
	MaxLimit     = 100
)

var reserved = map[string]bool{
	"select": true,
	"sort":   true,
	"page":   true,
	"limit":  true,
	"search": true,
}

var operators = map[string]string{
	"":    "=",
	"gt":  ">",
	"gte": ">=",
	"lt":  "<",
	"lte": "<=",
	"in":  "IN",
}

var filterKey = regexp.MustCompile(`^([A-Za-z0-9_]+)(?:\[([a-z]+)\])?$`)

// Options describes what a list endpoint exposes. Columns maps the public
// field name to its column.
type Options struct {
	Columns     map[string]string
	Searchable  []string
	DefaultSort string
}

type Filter struct {
	Column string
	Op     string
	Values []string
}

type Params struct {
	Select  []string
	Sort    []string
	Page    int
	Limit   int
	Search  string
	Filters []Filter

	searchable []string
}

type PageRef struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

type Pagination struct {
	Next        *PageRef `json:"next,omitempty"`
	Prev        *PageRef `json:"prev,omitempty"`
	TotalPages  int      `json:"totalPages"`
	CurrentPage int      `json:"currentPage"`
	TotalItems  int64    `json:"totalItems"`
}

func Parse(values url.Values, opts Options) (Params, error) {
	p := Params{
		Page:       DefaultPage,
		Limit:      DefaultLimit,
		Search:     strings.TrimSpace(values.Get("search")),
		searchable: opts.Searchable,
	}

	if v := values.Get("page"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return Params{}, httperr.ErrValidation("page must be a positive integer")
		}
		p.Page = n
	}

	if v := values.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return Params{}, httperr.ErrValidation("limit must be a positive integer")
		}
		p.Limit = min(n, MaxLimit)
	}

	if v := values.Get("select"); v != "" {
		cols, err := columns(v, opts)
		if err != nil {
			return Params{}, err
		}
		if !contains(cols, "id") {
			cols = append([]string{"id"}, cols...)
		}
		p.Select = cols
	}

	sortExpr := values.Get("sort")
	if sortExpr == "" {
		sortExpr = opts.DefaultSort
	}
	for _, field := range splitList(sortExpr) {
		dir := "ASC"
		if strings.HasPrefix(field, "-") {
			dir = "DESC"
			field = field[1:]
		}
		col, ok := opts.Columns[field]
		if !ok {
			return Params{}, httperr.ErrValidation(fmt.Sprintf("Cannot sort by %s", field))
		}
		p.Sort = append(p.Sort, col+" "+dir)
	}

	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		if reserved[key] {
			continue
		}
		m := filterKey.FindStringSubmatch(key)
		if m == nil {
			return Params{}, httperr.ErrValidation(fmt.Sprintf("Invalid filter %s", key))
		}
		col, ok := opts.Columns[m[1]]
		if !ok {
			return Params{}, httperr.ErrValidation(fmt.Sprintf("Unknown filter field %s", m[1]))
		}
		op, ok := operators[m[2]]
		if !ok {
			return Params{}, httperr.ErrValidation(fmt.Sprintf("Unknown filter operator %s", m[2]))
		}

		raw := values.Get(key)
		vals := []string{raw}
		if op == "IN" {
			vals = splitList(raw)
			if len(vals) == 0 {
				return Params{}, httperr.ErrValidation(fmt.Sprintf("Filter %s needs at least one value", key))
			}
		}
		p.Filters = append(p.Filters, Filter{Column: col, Op: op, Values: vals})
	}

	return p, nil
}

// Apply adds filters and search to db. Select, order and paging are left to
// Find so the same scope can be counted.
func (p Params) Apply(db *gorm.DB) *gorm.DB {
	for _, f := range p.Filters {
		if f.Op == "IN" {
			db = db.Where(fmt.Sprintf("%s IN ?", f.Column), f.Values)
			continue
		}
		db = db.Where(fmt.Sprintf("%s %s ?", f.Column, f.Op), f.Values[0])
	}

	if p.Search != "" && len(p.searchable) > 0 {
		like := "%" + strings.ToLower(p.Search) + "%"
		parts := make([]string, len(p.searchable))
		args := make([]any, len(p.searchable))
		for i, col := range p.searchable {
			parts[i] = fmt.Sprintf("LOWER(%s) LIKE ?", col)
			args[i] = like
		}
		db = db.Where("("+strings.Join(parts, " OR ")+")", args...)
	}

	return db
}

func (p Params) Offset() int {
	return (p.Page - 1) * p.Limit
}

func (p Params) Paginate(total int64) Pagination {
	pages := int(math.Ceil(float64(total) / float64(p.Limit)))
	pg := Pagination{
		TotalPages:  pages,
		CurrentPage: p.Page,
		TotalItems:  total,
	}
	if p.Page < pages {
		pg.Next = &PageRef{Page: p.Page + 1, Limit: p.Limit}
	}
	if p.Page > 1 {
		pg.Prev = &PageRef{Page: p.Page - 1, Limit: p.Limit}
	}
	return pg
}

// Find runs the list query for T on db, which may already carry scoping
// conditions (ownership, role). Preloads are applied after counting.
func Find[T any](ctx context.Context, db *gorm.DB, p Params, preloads ...string) ([]T, Pagination, error) {
	base := p.Apply(db.WithContext(ctx).Model(new(T))).Session(&gorm.Session{})

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, Pagination{}, err
	}

	q := base
	for _, pl := range preloads {
		q = q.Preload(pl)
	}
	if len(p.Select) > 0 {
		q = q.Select(p.Select)
	}
	for _, s := range p.Sort {
		q = q.Order(s)
	}

	var items []T
	if err := q.Offset(p.Offset()).Limit(p.Limit).Find(&items).Error; err != nil {
		return nil, Pagination{}, err
	}

	return items, p.Paginate(total), nil
}

func columns(list string, opts Options) ([]string, error) {
	var cols []string
	for _, field := range splitList(list) {
		col, ok := opts.Columns[field]
		if !ok {
			return nil, httperr.ErrValidation(fmt.Sprintf("Cannot select %s", field))
		}
		cols = append(cols, col)
	}
	return cols, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
