package output

import (
	"fmt"
	"sort"
	"strings"

	"github.com/fatih/color"

	http "github.com/riposte-http/riposte/http"
	"github.com/riposte-http/riposte/pkg/formenc"
)

// Formatter renders requests and responses for the terminal in text format
type Formatter struct {
	Verbose bool
	NoColor bool
}

// NewFormatter creates a new formatter with the given options
func NewFormatter(verbose, noColor bool) *Formatter {
	return &Formatter{
		Verbose: verbose,
		NoColor: noColor,
	}
}

// FormatRequest formats an HTTP request for display
func (f *Formatter) FormatRequest(req *http.Request, target string) string {
	var buf strings.Builder

	methodColor := color.New(color.FgBlue, color.Bold)
	if f.NoColor {
		methodColor.DisableColor()
	}

	method := strings.ToUpper(req.Method)
	if method == "" {
		method = "GET"
	}

	buf.WriteString(fmt.Sprintf("▶ REQUEST: %s %s\n", methodColor.Sprint(method), target))

	if f.Verbose || len(req.Headers) > 0 {
		buf.WriteString("  Headers:\n")
		for _, key := range sortedKeys(req.Headers) {
			buf.WriteString(fmt.Sprintf("    %s: %s\n", key, req.Headers[key]))
		}
	}

	if len(req.Cookies) > 0 {
		buf.WriteString("  Cookies:\n")
		for _, c := range req.Cookies {
			buf.WriteString(fmt.Sprintf("    %s=%s\n", c.Name, c.Value))
		}
	}

	if req.Body != nil {
		buf.WriteString("  Body: ")
		switch body := req.Body.(type) {
		case http.TextBody:
			buf.WriteString(string(body))
		case http.FormBody:
			buf.WriteString(formenc.Encode(map[string]any(body)))
		case http.StreamBody:
			buf.WriteString("(stream)")
		}
		buf.WriteString("\n")
	}

	return buf.String()
}

// FormatResponse formats an HTTP response for display. The body is passed
// in separately because reading it consumes the response's line sequence.
func (f *Formatter) FormatResponse(resp *http.Response, body string) string {
	var buf strings.Builder

	statusColor := color.New(color.Bold)
	if resp.IsSuccess() {
		statusColor.Add(color.FgGreen)
	} else if resp.IsRedirect() {
		statusColor.Add(color.FgYellow)
	} else {
		statusColor.Add(color.FgRed)
	}

	if f.NoColor {
		statusColor.DisableColor()
	}

	status := fmt.Sprintf("%d %s", resp.StatusCode, resp.Status)
	buf.WriteString(fmt.Sprintf("◀ RESPONSE: %s\n", statusColor.Sprint(status)))

	if f.Verbose {
		buf.WriteString(fmt.Sprintf("  URL: %s\n", resp.URL))
	}

	if f.Verbose || len(resp.Headers) > 0 {
		buf.WriteString("  Headers:\n")
		for _, key := range sortedKeys(resp.Headers) {
			buf.WriteString(fmt.Sprintf("    %s: %s\n", key, resp.Headers[key]))
		}
	}

	if len(resp.Cookies) > 0 {
		buf.WriteString("  Cookies:\n")
		for _, key := range sortedKeys(resp.Cookies) {
			buf.WriteString(fmt.Sprintf("    %s=%s\n", key, resp.Cookies[key]))
		}
	}

	if body != "" {
		buf.WriteString("  Body:\n")
		for _, line := range strings.Split(body, "\n") {
			buf.WriteString("    " + line + "\n")
		}
	}

	return buf.String()
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
