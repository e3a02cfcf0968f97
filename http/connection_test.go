package http

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestClient_Do_EndToEnd(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "GET" {
			t.Errorf("Expected method GET, got %s", r.Method)
		}
		if r.Header.Get("X-Test-Header") != "test-value" {
			t.Errorf("Expected header X-Test-Header: test-value, got %s", r.Header.Get("X-Test-Header"))
		}
		if r.Header.Get("Cookie") != "session=abc123" {
			t.Errorf("Expected Cookie: session=abc123, got %s", r.Header.Get("Cookie"))
		}

		w.Header().Set("Content-Type", "text/plain")
		w.Header().Set("Set-Cookie", "token=xyz; Path=/")
		w.WriteHeader(http.StatusOK)
		io.WriteString(w, "line one\nline two\n")
	}))
	defer server.Close()

	client := NewClient(WithUserAgent("riposte-test"))
	req := NewRequest("GET", server.URL).
		WithHeader("X-Test-Header", "test-value").
		WithCookie("session", "abc123")

	resp, err := client.Do(context.Background(), req)
	if err != nil {
		t.Fatalf("Do() error: %v", err)
	}

	if resp.StatusCode != http.StatusOK {
		t.Errorf("Expected status code %d, got %d", http.StatusOK, resp.StatusCode)
	}
	if resp.Status != "OK" {
		t.Errorf("Expected status message OK, got %q", resp.Status)
	}
	if resp.Headers["Content-Type"] != "text/plain" {
		t.Errorf("Expected Content-Type: text/plain, got %q", resp.Headers["Content-Type"])
	}
	if resp.Cookies["token"] != "xyz" || resp.Cookies["Path"] != "/" {
		t.Errorf("Expected parsed cookies, got %v", resp.Cookies)
	}
	if _, present := resp.Headers["Set-Cookie"]; present {
		t.Errorf("Expected Set-Cookie stripped from Headers map")
	}
	if resp.Header("content-type") != "text/plain" {
		t.Errorf("Expected case-insensitive header lookup, got %q", resp.Header("content-type"))
	}

	var lines []string
	for resp.Lines().Scan() {
		lines = append(lines, resp.Lines().Text())
	}
	if len(lines) != 2 || lines[0] != "line one" || lines[1] != "line two" {
		t.Errorf("Expected two body lines, got %v", lines)
	}
}

func TestClient_Do_EndToEndFormPost(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "POST" {
			t.Errorf("Expected method POST, got %s", r.Method)
		}
		if r.Header.Get("Content-Type") != "application/x-www-form-urlencoded" {
			t.Errorf("Expected form content type, got %s", r.Header.Get("Content-Type"))
		}
		if err := r.ParseForm(); err != nil {
			t.Errorf("ParseForm() error: %v", err)
		}
		if r.PostForm.Get("name") != "John Doe" {
			t.Errorf("Expected form field name=John Doe, got %q", r.PostForm.Get("name"))
		}
		w.WriteHeader(http.StatusCreated)
	}))
	defer server.Close()

	client := NewClient()
	req := NewRequest("post", server.URL).WithBody(Form(map[string]any{"name": "John Doe"}))

	resp, err := client.Do(context.Background(), req)
	if err != nil {
		t.Fatalf("Do() error: %v", err)
	}
	defer resp.Close()

	if resp.StatusCode != http.StatusCreated {
		t.Errorf("Expected status 201, got %d", resp.StatusCode)
	}
	if resp.Method != "POST" {
		t.Errorf("Expected normalized method POST, got %s", resp.Method)
	}
}

func TestClient_Do_EndToEndNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nothing here", http.StatusNotFound)
	}))
	defer server.Close()

	client := NewClient()
	resp, err := client.Do(context.Background(), NewRequest("GET", server.URL+"/missing"))
	if err != nil {
		t.Fatalf("Do() error: %v", err)
	}

	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", resp.StatusCode)
	}
	if resp.Status != "Not Found" {
		t.Errorf("Expected status message Not Found, got %q", resp.Status)
	}

	// The 404 body comes through the error stream.
	body, err := resp.Text()
	if err != nil {
		t.Fatalf("Text() error: %v", err)
	}
	if body != "nothing here" {
		t.Errorf("Expected error body %q, got %q", "nothing here", body)
	}
}

func TestClient_Do_EndToEndRedirectURL(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/old" {
			http.Redirect(w, r, "/new", http.StatusFound)
			return
		}
		io.WriteString(w, "moved")
	}))
	defer server.Close()

	client := NewClient()
	resp, err := client.Do(context.Background(), NewRequest("GET", server.URL+"/old"))
	if err != nil {
		t.Fatalf("Do() error: %v", err)
	}
	defer resp.Close()

	// The transport followed the redirect; the response reports the final
	// URL, not the requested one.
	if resp.URL != server.URL+"/new" {
		t.Errorf("Expected final URL %q, got %q", server.URL+"/new", resp.URL)
	}
}

func TestClient_Do_EndToEndUnreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	target := server.URL
	server.Close()

	client := NewClient()
	resp, err := client.Do(context.Background(), NewRequest("GET", target))
	if err == nil {
		resp.Close()
		t.Fatalf("Expected error for unreachable host, got response")
	}
	if resp != nil {
		t.Errorf("Expected no partial response, got %+v", resp)
	}

	var transportErr *TransportError
	if !errors.As(err, &transportErr) {
		t.Errorf("Expected *TransportError, got %T", err)
	}
}

func TestNetConn_StatusMessage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	defer server.Close()

	client := NewClient()
	resp, err := client.Do(context.Background(), NewRequest("GET", server.URL))
	if err != nil {
		t.Fatalf("Do() error: %v", err)
	}
	defer resp.Close()

	if resp.Status != "I'm a teapot" {
		t.Errorf("Expected status message %q, got %q", "I'm a teapot", resp.Status)
	}
}
