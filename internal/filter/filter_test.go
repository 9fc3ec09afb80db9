package filter_test

import (
	"net/url"
	"testing"

	commonerrors "github.com/zibbid/postboard/internal/common/errors"
	"github.com/zibbid/postboard/internal/filter"
)

func TestParseRequest_Defaults(t *testing.T) {
	req, err := filter.ParseRequest(url.Values{})

	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if req.Page != 1 {
		t.Errorf("expected default page 1, got %d", req.Page)
	}

	if req.Limit != 10 {
		t.Errorf("expected default limit 10, got %d", req.Limit)
	}
}

func TestParseRequest_ExplicitValues(t *testing.T) {
	values := url.Values{}
	values.Set("page", "3")
	values.Set("limit", "25")
	values.Set("search", "hello")
	values.Set("description", "true")
	values.Set("sort", "title")
	values.Set("order", "desc")

	req, err := filter.ParseRequest(values)

	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if req.Page != 3 || req.Limit != 25 {
		t.Errorf("expected page=3 limit=25, got page=%d limit=%d", req.Page, req.Limit)
	}

	if req.Search != "hello" {
		t.Errorf("expected search hello, got %s", req.Search)
	}

	if !req.Description {
		t.Error("expected description flag to be set")
	}

	if req.Sort != "title" || req.Order != "desc" {
		t.Errorf("expected sort=title order=desc, got sort=%s order=%s", req.Sort, req.Order)
	}
}

func TestParseRequest_InvalidValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"non-numeric page", "page", "abc"},
		{"zero page", "page", "0"},
		{"negative page", "page", "-1"},
		{"non-numeric limit", "limit", "ten"},
		{"zero limit", "limit", "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			values := url.Values{}
			values.Set(tt.key, tt.value)

			_, err := filter.ParseRequest(values)

			if err == nil {
				t.Fatal("expected validation error")
			}

			domainErr, ok := commonerrors.AsDomainError(err)
			if !ok || domainErr.Code() != "VALIDATION_FAILED" {
				t.Errorf("expected VALIDATION_FAILED, got %v", err)
			}
		})
	}
}

func TestParseRequest_LimitCapped(t *testing.T) {
	values := url.Values{}
	values.Set("limit", "1000")

	req, err := filter.ParseRequest(values)

	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if req.Limit != 100 {
		t.Errorf("expected limit capped at 100, got %d", req.Limit)
	}
}

func TestBuild_Offset(t *testing.T) {
	q, err := filter.Build(filter.Request{Page: 3, Limit: 10}, filter.EntityPosts)

	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if q.Offset != 20 {
		t.Errorf("expected offset 20, got %d", q.Offset)
	}

	if q.Limit != 10 {
		t.Errorf("expected limit 10, got %d", q.Limit)
	}
}

func TestBuild_PostSearch(t *testing.T) {
	q, err := filter.Build(filter.Request{Page: 1, Limit: 10, Search: "go"}, filter.EntityPosts)

	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if q.Where != "(title ILIKE $1 OR content ILIKE $1)" {
		t.Errorf("unexpected where clause: %s", q.Where)
	}

	if len(q.Args) != 1 || q.Args[0] != "%go%" {
		t.Errorf("expected single arg %%go%%, got %v", q.Args)
	}
}

func TestBuild_UserSearch(t *testing.T) {
	q, err := filter.Build(filter.Request{Page: 1, Limit: 10, Search: "alice"}, filter.EntityUsers)

	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if q.Where != "email ILIKE $1" {
		t.Errorf("unexpected where clause: %s", q.Where)
	}
}

func TestBuild_SearchEscapesLikeMetacharacters(t *testing.T) {
	tests := []struct {
		name   string
		search string
		want   string
	}{
		{"percent", "100%", `%100\%%`},
		{"underscore", "a_b", `%a\_b%`},
		{"backslash", `a\b`, `%a\\b%`},
		{"all three", `50%_off\now`, `%50\%\_off\\now%`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := filter.Build(filter.Request{Page: 1, Limit: 10, Search: tt.search}, filter.EntityPosts)

			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			if len(q.Args) != 1 || q.Args[0] != tt.want {
				t.Errorf("expected arg %q, got %v", tt.want, q.Args)
			}
		})
	}
}

func TestBuild_DescriptionFilter(t *testing.T) {
	q, err := filter.Build(filter.Request{Page: 1, Limit: 10, Search: "go", Description: true}, filter.EntityPosts)

	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	want := "(title ILIKE $1 OR content ILIKE $1) AND content <> ''"
	if q.Where != want {
		t.Errorf("expected %q, got %q", want, q.Where)
	}
}

func TestBuild_DescriptionIgnoredForUsers(t *testing.T) {
	q, err := filter.Build(filter.Request{Page: 1, Limit: 10, Description: true}, filter.EntityUsers)

	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if q.Where != "" {
		t.Errorf("expected empty where clause, got %q", q.Where)
	}
}

func TestBuild_Sort(t *testing.T) {
	tests := []struct {
		name   string
		entity filter.Entity
		sort   string
		order  string
		want   string
	}{
		{"posts camelCase column", filter.EntityPosts, "createdAt", "desc", "created_at DESC"},
		{"posts author column", filter.EntityPosts, "userId", "asc", "user_id ASC"},
		{"users email", filter.EntityUsers, "email", "ASC", "email ASC"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := filter.Build(filter.Request{Page: 1, Limit: 10, Sort: tt.sort, Order: tt.order}, tt.entity)

			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			if q.OrderBy != tt.want {
				t.Errorf("expected order by %q, got %q", tt.want, q.OrderBy)
			}
		})
	}
}

func TestBuild_SortRequiresBothHalves(t *testing.T) {
	q, err := filter.Build(filter.Request{Page: 1, Limit: 10, Sort: "title"}, filter.EntityPosts)

	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if q.OrderBy != "" {
		t.Errorf("expected no order by without order param, got %q", q.OrderBy)
	}
}

func TestBuild_UnknownSortField(t *testing.T) {
	_, err := filter.Build(filter.Request{Page: 1, Limit: 10, Sort: "password_hash", Order: "asc"}, filter.EntityUsers)

	if err == nil {
		t.Fatal("expected error for unknown sort field")
	}

	domainErr, ok := commonerrors.AsDomainError(err)
	if !ok || domainErr.Code() != "VALIDATION_FAILED" {
		t.Errorf("expected VALIDATION_FAILED, got %v", err)
	}
}

func TestBuild_InvalidOrder(t *testing.T) {
	_, err := filter.Build(filter.Request{Page: 1, Limit: 10, Sort: "title", Order: "sideways"}, filter.EntityPosts)

	if err == nil {
		t.Fatal("expected error for invalid order")
	}
}
