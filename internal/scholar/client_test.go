package scholar

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

// newTestClient points a client at a test server.
func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return NewClient(WithAPIKey("test-key"), WithBaseURL(srv.URL))
}

// profilePage builds one response page. citedBy is included so the
// first page always carries the aggregate metrics, as the real engine
// does.
func profilePage(articles []map[string]any, next string) map[string]any {
	return map[string]any{
		"search_metadata": map[string]any{"status": "Success"},
		"author": map[string]any{
			"name":         "Jane Doe",
			"affiliations": "Example University",
		},
		"cited_by": map[string]any{
			"table": []map[string]any{
				{"citations": map[string]any{"all": 321}},
				{"h_index": map[string]any{"all": 9}},
				{"i10_index": map[string]any{"all": 7}},
			},
		},
		"articles":           articles,
		"serpapi_pagination": map[string]any{"next": next},
	}
}

func article(title string, citations int) map[string]any {
	return map[string]any{
		"title":    title,
		"year":     "2024",
		"cited_by": map[string]any{"value": citations},
	}
}

func TestFetchAuthor(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("engine"); got != Engine {
			t.Errorf("engine = %q, want %q", got, Engine)
		}
		if got := r.URL.Query().Get("author_id"); got != "ABC123" {
			t.Errorf("author_id = %q, want ABC123", got)
		}
		json.NewEncoder(w).Encode(profilePage([]map[string]any{
			article("First Paper", 200),
			article("Second Paper", 121),
		}, ""))
	})

	profile, err := client.FetchAuthor(context.Background(), "ABC123")
	if err != nil {
		t.Fatalf("FetchAuthor() error = %v", err)
	}

	if profile.Name != "Jane Doe" {
		t.Errorf("Name = %q, want %q", profile.Name, "Jane Doe")
	}
	if profile.TotalCitations != 321 || profile.HIndex != 9 || profile.I10Index != 7 {
		t.Errorf("metrics = %d/%d/%d, want 321/9/7",
			profile.TotalCitations, profile.HIndex, profile.I10Index)
	}
	if len(profile.Articles) != 2 {
		t.Fatalf("Articles length = %d, want 2", len(profile.Articles))
	}
	if profile.Articles[1].Title != "Second Paper" || profile.Articles[1].Citations != 121 {
		t.Errorf("second article = %+v", profile.Articles[1])
	}
}

func TestFetchAuthor_Pagination(t *testing.T) {
	var requests int
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		requests++
		start := r.URL.Query().Get("start")
		if start == "" {
			// Full first page with a next link
			articles := make([]map[string]any, PageSize)
			for i := range articles {
				articles[i] = article(fmt.Sprintf("Paper %d", i), i)
			}
			json.NewEncoder(w).Encode(profilePage(articles, "https://example.test/next"))
			return
		}
		if start != fmt.Sprint(PageSize) {
			t.Errorf("start = %q, want %d", start, PageSize)
		}
		json.NewEncoder(w).Encode(profilePage([]map[string]any{
			article("Tail Paper", 1),
		}, ""))
	})

	profile, err := client.FetchAuthor(context.Background(), "ABC123")
	if err != nil {
		t.Fatalf("FetchAuthor() error = %v", err)
	}
	if requests != 2 {
		t.Errorf("requests = %d, want 2", requests)
	}
	if len(profile.Articles) != PageSize+1 {
		t.Errorf("Articles length = %d, want %d", len(profile.Articles), PageSize+1)
	}
	if last := profile.Articles[PageSize]; last.Title != "Tail Paper" {
		t.Errorf("last article = %+v, want Tail Paper", last)
	}
}

func TestFetchAuthor_MissingAPIKey(t *testing.T) {
	t.Setenv("SERPAPI_API_KEY", "")
	client := NewClient(WithBaseURL("http://127.0.0.1:0"))

	_, err := client.FetchAuthor(context.Background(), "ABC123")
	if !IsAuthError(err) {
		t.Fatalf("FetchAuthor() error = %v, want auth error", err)
	}
}

func TestFetchAuthor_HTTPErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		check  func(error) bool
	}{
		{"unauthorized", http.StatusUnauthorized, IsAuthError},
		{"forbidden", http.StatusForbidden, IsAuthError},
		{"rate limited", http.StatusTooManyRequests, IsRateLimited},
		{"not found", http.StatusNotFound, IsNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			})

			_, err := client.FetchAuthor(context.Background(), "ABC123")
			if err == nil || !tt.check(err) {
				t.Fatalf("FetchAuthor() error = %v, want %s", err, tt.name)
			}
		})
	}
}

func TestFetchAuthor_InBandError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"error": "Google Scholar Author ID not found.",
		})
	})

	_, err := client.FetchAuthor(context.Background(), "NOPE")
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("FetchAuthor() error = %v, want *APIError", err)
	}
	if apiErr.AuthorID != "NOPE" {
		t.Errorf("AuthorID = %q, want NOPE", apiErr.AuthorID)
	}
}
