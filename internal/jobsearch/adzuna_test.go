package jobsearch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"syscall"
	"testing"
	"time"
)

const samplePage = `{
  "count": 23,
  "results": [
    {
      "id": "4123456789",
      "title": "Software Engineer",
      "description": "Build things.",
      "company": {"display_name": "Acme Ltd"},
      "location": {"display_name": "London, UK"},
      "category": {"label": "IT Jobs", "tag": "it-jobs"},
      "salary_min": 50000,
      "salary_max": 65000,
      "salary_is_predicted": "1",
      "contract_type": "permanent",
      "contract_time": "full_time",
      "created": "2024-05-01T10:00:00Z",
      "redirect_url": "https://example.com/job/1"
    },
    {
      "id": 77,
      "company": "Plain String Co",
      "location": "Leeds"
    }
  ]
}`

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewClient("id", "key", srv.URL, "gb", 2*time.Second)
}

func TestSearch_NormalizesResults(t *testing.T) {
	var gotPath, gotQuery string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		fmt.Fprint(w, samplePage)
	})

	page, err := c.Search(context.Background(), Query{What: "  Software Engineer ", Where: "London", Page: 1, PageSize: 10})
	if err != nil {
		t.Fatalf("Search() unexpected error: %v", err)
	}

	if gotPath != "/gb/search/1" {
		t.Errorf("path = %q, want %q", gotPath, "/gb/search/1")
	}
	for _, want := range []string{"what=Software+Engineer", "where=London", "results_per_page=10", "app_id=id", "app_key=key", "sort_by=relevance"} {
		if !strings.Contains(gotQuery, want) {
			t.Errorf("query %q missing %q", gotQuery, want)
		}
	}

	if page.TotalCount != 23 || page.TotalPages != 3 || page.Page != 1 {
		t.Errorf("pagination = (count %d, pages %d, page %d), want (23, 3, 1)", page.TotalCount, page.TotalPages, page.Page)
	}
	if len(page.Jobs) != 2 {
		t.Fatalf("len(Jobs) = %d, want 2", len(page.Jobs))
	}

	first := page.Jobs[0]
	if first.Company != "Acme Ltd" || first.Location != "London, UK" || first.Category != "IT Jobs" {
		t.Errorf("first job = %+v", first)
	}
	if !first.SalaryIsPredicted {
		t.Error("SalaryIsPredicted = false, want true")
	}
	if first.SalaryText != "£50,000 - £65,000 (estimated)" {
		t.Errorf("SalaryText = %q", first.SalaryText)
	}

	second := page.Jobs[1]
	if second.ID != "77" {
		t.Errorf("ID = %q, want %q", second.ID, "77")
	}
	if second.Company != "Plain String Co" || second.Location != "Leeds" {
		t.Errorf("second job = %+v", second)
	}
	if second.Title != "No title available" || second.Category != "Other" || second.ContractType != "Not specified" {
		t.Errorf("defaults not applied: %+v", second)
	}
	if second.SalaryMin != nil || second.SalaryText != "Salary not specified" {
		t.Errorf("salary = %v / %q", second.SalaryMin, second.SalaryText)
	}
}

func TestSearch_OmitsEmptyLocation(t *testing.T) {
	var gotQuery string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"count":0,"results":[]}`)
	})

	page, err := c.Search(context.Background(), Query{What: "Nurse", Page: 2, PageSize: 20})
	if err != nil {
		t.Fatalf("Search() unexpected error: %v", err)
	}
	if strings.Contains(gotQuery, "where=") {
		t.Errorf("query %q should not carry where", gotQuery)
	}
	if page.TotalPages != 0 || len(page.Jobs) != 0 {
		t.Errorf("page = %+v, want empty", page)
	}
}

func TestSearch_Failures(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "server error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "boom", http.StatusInternalServerError)
			},
		},
		{
			name: "unauthorized",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "bad key", http.StatusUnauthorized)
			},
		},
		{
			name: "html body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "text/html")
				fmt.Fprint(w, "<html></html>")
			},
		},
		{
			name: "malformed json",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				fmt.Fprint(w, `{"count": "many"`)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, tt.handler)
			_, err := c.Search(context.Background(), Query{What: "x", Page: 1, PageSize: 10})
			if !errors.Is(err, ErrSearchUnavailable) {
				t.Errorf("Search() error = %v, want ErrSearchUnavailable", err)
			}
		})
	}
}

func TestSearch_MissingCredentials(t *testing.T) {
	c := NewClient("", "", "http://unused.invalid", "gb", time.Second)
	if c.Configured() {
		t.Fatal("Configured() = true without credentials")
	}
	_, err := c.Search(context.Background(), Query{What: "x", Page: 1, PageSize: 10})
	if !errors.Is(err, ErrSearchUnavailable) {
		t.Errorf("Search() error = %v, want ErrSearchUnavailable", err)
	}
}

func TestSearch_RetriesOnceOnGatewayError(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			http.Error(w, "upstream", http.StatusBadGateway)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"count":1,"results":[{"id":"a","title":"Chef"}]}`)
	})

	page, err := c.Search(context.Background(), Query{What: "Chef", Page: 1, PageSize: 10})
	if err != nil {
		t.Fatalf("Search() unexpected error: %v", err)
	}
	if calls.Load() != 2 {
		t.Errorf("calls = %d, want 2", calls.Load())
	}
	if len(page.Jobs) != 1 {
		t.Errorf("len(Jobs) = %d, want 1", len(page.Jobs))
	}
}

func TestSearch_RetriesAtMostOnce(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "down", http.StatusServiceUnavailable)
	})

	_, err := c.Search(context.Background(), Query{What: "Chef", Page: 1, PageSize: 10})
	if !errors.Is(err, ErrSearchUnavailable) {
		t.Fatalf("Search() error = %v, want ErrSearchUnavailable", err)
	}
	if calls.Load() != 2 {
		t.Errorf("calls = %d, want 2", calls.Load())
	}
}

func TestSearch_NoRetryOnClientError(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "bad request", http.StatusBadRequest)
	})

	if _, err := c.Search(context.Background(), Query{What: "Chef", Page: 1, PageSize: 10}); err == nil {
		t.Fatal("Search() expected error")
	}
	if calls.Load() != 1 {
		t.Errorf("calls = %d, want 1", calls.Load())
	}
}

func TestCategories(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/gb/categories" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"results":[{"tag":"it-jobs","label":"IT Jobs"},{"tag":"teaching-jobs","label":"Teaching Jobs"}]}`)
	})

	cats, err := c.Categories(context.Background())
	if err != nil {
		t.Fatalf("Categories() unexpected error: %v", err)
	}
	if len(cats) != 2 || cats[0].Tag != "it-jobs" || cats[1].Label != "Teaching Jobs" {
		t.Errorf("Categories() = %+v", cats)
	}
}

func TestTotalPages(t *testing.T) {
	tests := []struct {
		count, size, want int
	}{
		{23, 10, 3},
		{20, 10, 2},
		{1, 20, 1},
		{0, 20, 0},
		{5, 0, 0},
	}
	for _, tt := range tests {
		if got := TotalPages(tt.count, tt.size); got != tt.want {
			t.Errorf("TotalPages(%d, %d) = %d, want %d", tt.count, tt.size, got, tt.want)
		}
	}
}

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }

func TestSearch_TimeoutNotRetried(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		select {
		case <-time.After(600 * time.Millisecond):
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()

	const timeout = 300 * time.Millisecond
	c := NewClient("id", "key", srv.URL, "gb", timeout)

	start := time.Now()
	_, err := c.Search(context.Background(), Query{What: "Chef", Page: 1, PageSize: 10})
	elapsed := time.Since(start)

	if !errors.Is(err, ErrSearchUnavailable) {
		t.Fatalf("Search() error = %v, want ErrSearchUnavailable", err)
	}
	if calls.Load() != 1 {
		t.Errorf("calls = %d, want 1", calls.Load())
	}
	if elapsed > timeout+200*time.Millisecond {
		t.Errorf("elapsed = %v, want about %v", elapsed, timeout)
	}
}

func TestSearch_TransportErrors(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		wantCalls int32
	}{
		{"connection refused", &net.OpError{Op: "dial", Net: "tcp", Err: syscall.ECONNREFUSED}, 2},
		{"connection reset", &net.OpError{Op: "read", Net: "tcp", Err: syscall.ECONNRESET}, 2},
		{"unexpected eof", io.ErrUnexpectedEOF, 2},
		{"certificate", errors.New("x509: certificate signed by unknown authority"), 1},
		{"unsupported scheme", errors.New(`unsupported protocol scheme "ftp"`), 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls atomic.Int32
			c := NewClient("id", "SUPERSECRETKEY", "http://jobs.test", "gb", time.Second)
			c.client.Transport = roundTripFunc(func(*http.Request) (*http.Response, error) {
				calls.Add(1)
				return nil, tt.err
			})

			_, err := c.Search(context.Background(), Query{What: "Chef", Page: 1, PageSize: 10})
			if !errors.Is(err, ErrSearchUnavailable) {
				t.Fatalf("Search() error = %v, want ErrSearchUnavailable", err)
			}
			if calls.Load() != tt.wantCalls {
				t.Errorf("calls = %d, want %d", calls.Load(), tt.wantCalls)
			}
			if strings.Contains(err.Error(), "SUPERSECRETKEY") {
				t.Errorf("error leaks the API key: %v", err)
			}
		})
	}
}

func TestSearch_ErrorsHideAPIKey(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	addr := srv.URL
	srv.Close()

	c := NewClient("id", "SUPERSECRETKEY", addr, "gb", time.Second)
	_, err := c.Search(context.Background(), Query{What: "Chef", Page: 1, PageSize: 10})
	if err == nil {
		t.Fatal("Search() expected error against a closed server")
	}
	if strings.Contains(err.Error(), "SUPERSECRETKEY") || strings.Contains(err.Error(), "app_key") {
		t.Errorf("error leaks the API key: %v", err)
	}

	if _, err := c.Categories(context.Background()); err == nil || strings.Contains(err.Error(), "SUPERSECRETKEY") {
		t.Errorf("Categories() error = %v", err)
	}
}
