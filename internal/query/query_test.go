package query

import (
	"net/url"
	"testing"

	"github.com/gardenpro/landscape-api/internal/httperr"
)

var serviceOpts = Options{
	Columns: map[string]string{
		"id":        "id",
		"name":      "name",
		"category":  "category",
		"basePrice": "base_price",
		"duration":  "duration",
		"createdAt": "created_at",
	},
	Searchable:  []string{"name", "description"},
	DefaultSort: "-createdAt",
}

func TestParseDefaults(t *testing.T) {
	p, err := Parse(url.Values{}, serviceOpts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Page != 1 || p.Limit != 25 {
		t.Fatalf("expected page 1 limit 25, got %d/%d", p.Page, p.Limit)
	}
	if len(p.Sort) != 1 || p.Sort[0] != "created_at DESC" {
		t.Fatalf("expected default sort, got %v", p.Sort)
	}
	if len(p.Filters) != 0 {
		t.Fatalf("expected no filters, got %v", p.Filters)
	}
}

func TestParseFiltersAndSelect(t *testing.T) {
	v, _ := url.ParseQuery("select=name,basePrice&sort=name,-basePrice&page=2&limit=500&basePrice[gte]=50&category[in]=Gardening,Irrigation&duration=60&search=Lawn")

	p, err := Parse(v, serviceOpts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := p.Select; len(got) != 3 || got[0] != "id" || got[1] != "name" || got[2] != "base_price" {
		t.Fatalf("unexpected select: %v", got)
	}
	if len(p.Sort) != 2 || p.Sort[0] != "name ASC" || p.Sort[1] != "base_price DESC" {
		t.Fatalf("unexpected sort: %v", p.Sort)
	}
	if p.Page != 2 || p.Limit != MaxLimit {
		t.Fatalf("expected page 2 limit %d, got %d/%d", MaxLimit, p.Page, p.Limit)
	}
	if p.Offset() != MaxLimit {
		t.Fatalf("expected offset %d, got %d", MaxLimit, p.Offset())
	}
	if p.Search != "Lawn" {
		t.Fatalf("expected search Lawn, got %q", p.Search)
	}

	// keys are processed in sorted order
	want := []Filter{
		{Column: "base_price", Op: ">=", Values: []string{"50"}},
		{Column: "category", Op: "IN", Values: []string{"Gardening", "Irrigation"}},
		{Column: "duration", Op: "=", Values: []string{"60"}},
	}
	if len(p.Filters) != len(want) {
		t.Fatalf("expected %d filters, got %v", len(want), p.Filters)
	}
	for i, f := range want {
		got := p.Filters[i]
		if got.Column != f.Column || got.Op != f.Op || len(got.Values) != len(f.Values) {
			t.Fatalf("filter %d: expected %+v, got %+v", i, f, got)
		}
		for j := range f.Values {
			if got.Values[j] != f.Values[j] {
				t.Fatalf("filter %d: expected %+v, got %+v", i, f, got)
			}
		}
	}
}

func TestParseRejectsUnknownFields(t *testing.T) {
	cases := map[string]string{
		"unknown filter":   "password=x",
		"unknown operator": "duration[ne]=5",
		"unknown sort":     "sort=password",
		"unknown select":   "select=password",
		"bad page":         "page=0",
		"bad limit":        "limit=abc",
		"injection":        "name%20or%201=1",
	}

	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			v, _ := url.ParseQuery(raw)
			_, err := Parse(v, serviceOpts)
			if !httperr.IsBusiness(err, httperr.KindValidation) {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}

func TestPaginate(t *testing.T) {
	p := Params{Page: 2, Limit: 10}
	pg := p.Paginate(35)

	if pg.TotalPages != 4 || pg.CurrentPage != 2 || pg.TotalItems != 35 {
		t.Fatalf("unexpected pagination: %+v", pg)
	}
	if pg.Next == nil || pg.Next.Page != 3 {
		t.Fatalf("expected next page 3, got %+v", pg.Next)
	}
	if pg.Prev == nil || pg.Prev.Page != 1 {
		t.Fatalf("expected prev page 1, got %+v", pg.Prev)
	}

	last := Params{Page: 4, Limit: 10}.Paginate(35)
	if last.Next != nil {
		t.Fatalf("expected no next page, got %+v", last.Next)
	}

	empty := Params{Page: 1, Limit: 25}.Paginate(0)
	if empty.TotalPages != 0 || empty.Next != nil || empty.Prev != nil {
		t.Fatalf("unexpected empty pagination: %+v", empty)
	}
}
