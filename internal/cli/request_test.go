package cli

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestBuildTarget(t *testing.T) {
	tests := []struct {
		name     string
		rawURL   string
		query    []string
		fragment string
		expected string
	}{
		{
			name:     "Plain URL",
			rawURL:   "http://x.test/path",
			expected: "http://x.test/path",
		},
		{
			name:     "Query parameter",
			rawURL:   "http://x.test/",
			query:    []string{"q=a b"},
			expected: "http://x.test/?q=a+b",
		},
		{
			name:     "Query and fragment",
			rawURL:   "http://x.test/",
			query:    []string{"q=1"},
			fragment: "top",
			expected: "http://x.test/?q=1#top",
		},
		{
			name:     "Fragment only",
			rawURL:   "http://x.test/",
			fragment: "section",
			expected: "http://x.test/#section",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := buildTarget(tt.rawURL, tt.query, tt.fragment)
			if err != nil {
				t.Fatalf("buildTarget() error: %v", err)
			}
			if got != tt.expected {
				t.Errorf("buildTarget() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestBuildTarget_Invalid(t *testing.T) {
	if _, err := buildTarget("://bad", nil, ""); err == nil {
		t.Errorf("Expected error for malformed URL, got nil")
	}
}

func executeCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	RootCmd.SetOut(&buf)
	RootCmd.SetErr(&buf)
	RootCmd.SetArgs(args)
	err := RootCmd.Execute()
	return buf.String(), err
}

func TestGetCommand(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-Test") != "yes" {
			t.Errorf("Expected header X-Test: yes, got %q", r.Header.Get("X-Test"))
		}
		w.Header().Set("Content-Type", "text/plain")
		w.Write([]byte("hello"))
	}))
	defer server.Close()

	out, err := executeCommand(t, "get", server.URL, "-H", "X-Test: yes", "--no-color")
	if err != nil {
		t.Fatalf("get command error: %v", err)
	}

	if !strings.Contains(out, "200 OK") {
		t.Errorf("Expected status in output, got:\n%s", out)
	}
	if !strings.Contains(out, "hello") {
		t.Errorf("Expected body in output, got:\n%s", out)
	}
}

func TestPostCommand_Form(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			t.Errorf("ParseForm() error: %v", err)
		}
		if r.PostForm.Get("name") != "John" {
			t.Errorf("Expected form field name=John, got %q", r.PostForm.Get("name"))
		}
		w.WriteHeader(http.StatusCreated)
	}))
	defer server.Close()

	out, err := executeCommand(t, "post", server.URL, "--form", "name=John", "--no-color")
	if err != nil {
		t.Fatalf("post command error: %v", err)
	}
	if !strings.Contains(out, "201") {
		t.Errorf("Expected status 201 in output, got:\n%s", out)
	}
}

func TestGetCommand_Extract(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"user":{"name":"Ada"}}`))
	}))
	defer server.Close()

	out, err := executeCommand(t, "get", server.URL, "--extract", "user.name", "--no-color")
	if err != nil {
		t.Fatalf("get command error: %v", err)
	}
	if strings.TrimSpace(out) != "Ada" {
		t.Errorf("Expected extracted value Ada, got %q", out)
	}
}
