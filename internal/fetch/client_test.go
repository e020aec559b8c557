package fetch

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestClient_FetchOK(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/pdf; qs=1")
		w.Write([]byte("%PDF-1.4 body"))
	}))
	defer srv.Close()

	c := NewClient(5*time.Second, 1024, 0)
	res, err := c.Fetch(context.Background(), srv.URL+"/papers/report.pdf")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Filename != "report.pdf" {
		t.Errorf("expected filename %q, got %q", "report.pdf", res.Filename)
	}
	if res.ContentType != "application/pdf" {
		t.Errorf("expected content type application/pdf, got %q", res.ContentType)
	}
	if string(res.Data) != "%PDF-1.4 body" {
		t.Errorf("unexpected body %q", res.Data)
	}
}

func TestClient_FetchNotFound(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	c := NewClient(5*time.Second, 1024, 0)
	_, err := c.Fetch(context.Background(), srv.URL+"/missing.pdf")
	var se *StatusError
	if !errors.As(err, &se) {
		t.Fatalf("expected StatusError, got %v", err)
	}
	if se.StatusCode != http.StatusNotFound {
		t.Errorf("expected 404, got %d", se.StatusCode)
	}
	if !strings.Contains(se.Error(), "404") {
		t.Errorf("expected status in message, got %q", se.Error())
	}
}

func TestClient_FetchTooLarge(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(strings.Repeat("x", 100)))
	}))
	defer srv.Close()

	c := NewClient(5*time.Second, 10, 0)
	if _, err := c.Fetch(context.Background(), srv.URL); !errors.Is(err, ErrTooLarge) {
		t.Errorf("expected ErrTooLarge, got %v", err)
	}
}

func TestClient_SniffsMissingContentType(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header()["Content-Type"] = nil
		w.Write([]byte("<html><body><p>hi</p></body></html>"))
	}))
	defer srv.Close()

	res, err := NewClient(5*time.Second, 0, 0).Fetch(context.Background(), srv.URL+"/page")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.ContentType != "text/html" {
		t.Errorf("expected sniffed text/html, got %q", res.ContentType)
	}
}

func TestClient_RejectsNonHTTPSchemes(t *testing.T) {
	c := NewClient(time.Second, 0, 0)
	for _, u := range []string{"file:///etc/passwd", "ftp://example.com/a.pdf", "http://"} {
		if _, err := c.Fetch(context.Background(), u); err == nil {
			t.Errorf("expected error for %q", u)
		}
	}
}
