package pagination

import (
	"net/http/httptest"
	"testing"
)

func TestParseParams(t *testing.T) {
	cases := []struct {
		name      string
		query     string
		wantPage  int
		wantLimit int
	}{
		{"defaults", "", DefaultPage, DefaultLimit},
		{"explicit", "?page=3&limit=50", 3, 50},
		{"limit capped", "?limit=500", DefaultPage, MaxLimit},
		{"garbage ignored", "?page=abc&limit=-2", DefaultPage, DefaultLimit},
		{"zero page ignored", "?page=0", DefaultPage, DefaultLimit},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/patients"+tc.query, nil)
			p := ParseParams(req)
			if p.Page != tc.wantPage || p.Limit != tc.wantLimit {
				t.Errorf("Got page=%d limit=%d, want page=%d limit=%d",
					p.Page, p.Limit, tc.wantPage, tc.wantLimit)
			}
		})
	}
}

func TestCalculateOffset(t *testing.T) {
	p := Params{Page: 3, Limit: 20}
	if got := p.CalculateOffset(); got != 40 {
		t.Errorf("Expected offset 40, got %d", got)
	}
}

func TestCalculateMeta(t *testing.T) {
	p := Params{Page: 2, Limit: 10}
	meta := p.CalculateMeta(35)

	if meta.TotalPages != 4 {
		t.Errorf("Expected 4 total pages, got %d", meta.TotalPages)
	}
	if meta.TotalRecords != 35 {
		t.Errorf("Expected 35 total records, got %d", meta.TotalRecords)
	}
	if !meta.HasNext || !meta.HasPrevious {
		t.Errorf("Expected both neighbors on page 2 of 4: %+v", meta)
	}

	meta = p.CalculateMeta(0)
	if meta.TotalPages != 1 {
		t.Errorf("Expected 1 page for empty result, got %d", meta.TotalPages)
	}
	if meta.HasNext {
		t.Error("Expected no next page for empty result")
	}
}

func TestValidate_Defaults(t *testing.T) {
	p := Params{Page: -1, Limit: 0}
	p.Validate()
	if p.Page != DefaultPage || p.Limit != DefaultLimit {
		t.Errorf("Expected defaults, got %+v", p)
	}

	p = Params{Page: 1, Limit: MaxLimit + 1}
	p.Validate()
	if p.Limit != MaxLimit {
		t.Errorf("Expected limit capped at %d, got %d", MaxLimit, p.Limit)
	}
}
