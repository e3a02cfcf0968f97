package output

import (
	"strings"
	"testing"

	http "github.com/riposte-http/riposte/http"
)

func TestFormatRequest(t *testing.T) {
	req := http.NewRequest("get", "http://x.test/users").
		WithHeader("Accept", "application/json").
		WithCookie("session", "abc")

	formatter := NewFormatter(false, true)
	out := formatter.FormatRequest(req, "http://x.test/users")

	if !strings.Contains(out, "GET http://x.test/users") {
		t.Errorf("Expected normalized method and target in output, got:\n%s", out)
	}
	if !strings.Contains(out, "Accept: application/json") {
		t.Errorf("Expected header in output, got:\n%s", out)
	}
	if !strings.Contains(out, "session=abc") {
		t.Errorf("Expected cookie in output, got:\n%s", out)
	}
}

func TestFormatRequest_Bodies(t *testing.T) {
	tests := []struct {
		name     string
		body     http.Body
		expected string
	}{
		{
			name:     "Text body",
			body:     http.Text(`{"a":1}`),
			expected: `{"a":1}`,
		},
		{
			name:     "Form body",
			body:     http.Form(map[string]any{"q": "a b"}),
			expected: "q=a+b",
		},
		{
			name:     "Stream body",
			body:     http.Stream(strings.NewReader("data")),
			expected: "(stream)",
		},
	}

	formatter := NewFormatter(false, true)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := http.NewRequest("POST", "http://x.test/").WithBody(tt.body)
			out := formatter.FormatRequest(req, "http://x.test/")
			if !strings.Contains(out, "Body: "+tt.expected) {
				t.Errorf("Expected body %q in output, got:\n%s", tt.expected, out)
			}
		})
	}
}

func TestFormatResponse(t *testing.T) {
	resp := &http.Response{
		StatusCode: 200,
		Status:     "OK",
		Method:     "GET",
		URL:        "http://x.test/users",
		Headers:    map[string]string{"Content-Type": "application/json"},
		Cookies:    map[string]string{"token": "xyz"},
	}

	formatter := NewFormatter(true, true)
	out := formatter.FormatResponse(resp, `{"ok":true}`)

	if !strings.Contains(out, "200 OK") {
		t.Errorf("Expected status line in output, got:\n%s", out)
	}
	if !strings.Contains(out, "Content-Type: application/json") {
		t.Errorf("Expected header in output, got:\n%s", out)
	}
	if !strings.Contains(out, "token=xyz") {
		t.Errorf("Expected cookie in output, got:\n%s", out)
	}
	if !strings.Contains(out, `{"ok":true}`) {
		t.Errorf("Expected body in output, got:\n%s", out)
	}
	if !strings.Contains(out, "URL: http://x.test/users") {
		t.Errorf("Expected URL in verbose output, got:\n%s", out)
	}
}
