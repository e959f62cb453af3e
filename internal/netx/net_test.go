package netx

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestGetJSON(t *testing.T) {
	type payload struct {
		Name string `json:"name"`
	}

	t.Run("success decodes body", func(t *testing.T) {
		var gotMethod, gotAccept string
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotMethod = r.Method
			gotAccept = r.Header.Get("Accept")
			_, _ = w.Write([]byte(`{"name":"gabe"}`))
		}))
		defer ts.Close()

		var p payload
		if err := GetJSON(context.Background(), ts.Client(), ts.URL, &p); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if gotMethod != http.MethodGet {
			t.Fatalf("method = %q, want GET", gotMethod)
		}
		if gotAccept != "application/json" {
			t.Fatalf("accept = %q", gotAccept)
		}
		if p.Name != "gabe" {
			t.Fatalf("name = %q", p.Name)
		}
	})

	t.Run("non-2xx returns StatusError with body", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusForbidden)
			_, _ = w.Write([]byte("bad key"))
		}))
		defer ts.Close()

		err := GetJSON(context.Background(), ts.Client(), ts.URL, &payload{})
		var se *StatusError
		if !errors.As(err, &se) {
			t.Fatalf("expected StatusError, got %v", err)
		}
		if se.StatusCode != http.StatusForbidden || se.Temporary() {
			t.Fatalf("unexpected status error: %+v", se)
		}
		if !strings.Contains(err.Error(), "bad key") {
			t.Fatalf("error should include body, got %q", err.Error())
		}
	})

	t.Run("5xx and 429 are temporary", func(t *testing.T) {
		for _, code := range []int{http.StatusTooManyRequests, http.StatusBadGateway} {
			if !(&StatusError{StatusCode: code}).Temporary() {
				t.Fatalf("%d should be temporary", code)
			}
		}
	})

	t.Run("invalid json", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("<html>"))
		}))
		defer ts.Close()

		err := GetJSON(context.Background(), nil, ts.URL, &payload{})
		if err == nil || !strings.Contains(err.Error(), "decode response") {
			t.Fatalf("expected decode error, got %v", err)
		}
	})

	t.Run("transport error", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		url := ts.URL
		ts.Close()

		if err := GetJSON(context.Background(), ts.Client(), url, &payload{}); err == nil {
			t.Fatalf("expected error for closed server")
		}
	})

	t.Run("bad url", func(t *testing.T) {
		if err := GetJSON(context.Background(), nil, "://nope", &payload{}); err == nil {
			t.Fatalf("expected error for malformed url")
		}
	})
}
