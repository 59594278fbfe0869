package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestPage_Success(t *testing.T) {
	body := "Nome do Projeto,Prazo\nAlpha,10/05/2025\n"
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/csv")
		w.Write([]byte(body))
	}))
	defer srv.Close()

	f := New(Config{})
	result, err := f.Page(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if result.StatusCode != 200 {
		t.Errorf("status: got %d", result.StatusCode)
	}
	if string(result.Body) != body {
		t.Errorf("body: got %q", string(result.Body))
	}
	if !strings.HasPrefix(result.ContentType, "text/csv") {
		t.Errorf("content type: got %q", result.ContentType)
	}
}

func TestPage_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	f := New(Config{})
	result, err := f.Page(context.Background(), srv.URL)
	if err == nil {
		t.Fatal("expected error for 404")
	}
	if result.StatusCode != 404 {
		t.Errorf("status: got %d", result.StatusCode)
	}
}

func TestPage_Timeout(t *testing.T) {
	// WHAT: a slow source fails instead of blocking the pipeline.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(2 * time.Second)
		w.Write([]byte("late"))
	}))
	defer srv.Close()

	f := New(Config{TextTimeout: 100 * time.Millisecond})
	if _, err := f.Page(context.Background(), srv.URL); err == nil {
		t.Fatal("expected timeout error")
	}
}

func TestPage_MaxBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		for i := 0; i < 1000; i++ {
			w.Write([]byte("x"))
		}
	}))
	defer srv.Close()

	f := New(Config{MaxBytes: 100})
	result, err := f.Page(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(result.Body) > 100 {
		t.Errorf("body too large: %d bytes, max 100", len(result.Body))
	}
}

func TestGet_UnsupportedScheme(t *testing.T) {
	f := New(Config{})
	if _, err := f.Page(context.Background(), "file:///etc/passwd"); err == nil {
		t.Fatal("expected error for file scheme")
	}
}

func TestGet_TooManyRedirects(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, r.URL.String()+"x", http.StatusFound)
	}))
	defer srv.Close()

	f := New(Config{})
	_, err := f.Document(context.Background(), srv.URL+"/start")
	if err == nil {
		t.Fatal("expected error for too many redirects")
	}
	if !strings.Contains(err.Error(), "redirect") {
		t.Errorf("expected redirect error, got: %v", err)
	}
}

func TestPage_FollowsRedirect(t *testing.T) {
	// WHAT: a bounded redirect chain resolves and reports the final URL.
	// WHY: Sheets share links redirect to the export endpoint.
	var final string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/start" {
			http.Redirect(w, r, "/export", http.StatusFound)
			return
		}
		w.Write([]byte("dados"))
	}))
	defer srv.Close()
	final = srv.URL + "/export"

	f := New(Config{})
	result, err := f.Page(context.Background(), srv.URL+"/start")
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if result.FinalURL != final {
		t.Errorf("final url = %q, want %q", result.FinalURL, final)
	}
}
