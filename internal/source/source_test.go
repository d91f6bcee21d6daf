package source

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

func TestReadFile(t *testing.T) {
	p := filepath.Join(t.TempDir(), "c.json")
	if err := os.WriteFile(p, []byte(`{"a":1}`), 0o644); err != nil {
		t.Fatal(err)
	}
	b, err := Read(context.Background(), nil, p)
	if err != nil || string(b) != `{"a":1}` {
		t.Fatalf("Read = %q, %v", b, err)
	}
	if _, err := Read(context.Background(), nil, filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Error("missing file accepted")
	}
	if _, err := Read(context.Background(), nil, ""); err == nil {
		t.Error("empty location accepted")
	}
}

func TestReadURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte("payload"))
	}))
	defer srv.Close()

	b, err := Read(context.Background(), srv.Client(), srv.URL+"/data")
	if err != nil || string(b) != "payload" {
		t.Fatalf("Read = %q, %v", b, err)
	}
	if _, err := Read(context.Background(), srv.Client(), srv.URL+"/missing"); err == nil {
		t.Error("404 accepted")
	}
}

func TestReadURLTooLarge(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("0123456789"))
	}))
	defer srv.Close()

	old := MaxBytes
	defer func() { MaxBytes = old }()

	MaxBytes = 10
	if b, err := Read(context.Background(), srv.Client(), srv.URL); err != nil || len(b) != 10 {
		t.Fatalf("exact limit: %d bytes, %v", len(b), err)
	}
	MaxBytes = 9
	if _, err := Read(context.Background(), srv.Client(), srv.URL); !errors.Is(err, ErrTooLarge) {
		t.Fatalf("got %v, want ErrTooLarge", err)
	}
}

func TestIsURL(t *testing.T) {
	for loc, want := range map[string]bool{
		"https://example.org/a.json": true,
		"HTTP://x":                   true,
		"./data/landkreise.json":     false,
		"ftp://x":                    false,
	} {
		if IsURL(loc) != want {
			t.Errorf("IsURL(%q) = %v", loc, !want)
		}
	}
}
