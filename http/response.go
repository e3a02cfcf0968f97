package http

import (
	"bufio"
	"io"
	"strings"
)

// Response is the parsed result of one executed request. Headers holds the
// first value per key as returned by the transport, with Set-Cookie parsed
// into Cookies and removed. The body is exposed as a lazy line sequence
// tied to the live connection: drain it or call Close to release the
// connection.
type Response struct {
	StatusCode int
	Status     string
	Method     string
	URL        string
	Headers    map[string]string
	Cookies    map[string]string

	conn  Conn
	lines *LineReader
}

func newResponse(conn Conn, method string, status int) *Response {
	headers := make(map[string]string)
	for key, values := range conn.HeaderFields() {
		if key == "" || len(values) == 0 {
			continue
		}
		headers[key] = values[0]
	}

	cookies := parseSetCookie(headers["Set-Cookie"])
	delete(headers, "Set-Cookie")

	var stream io.ReadCloser
	if status >= 400 {
		stream = conn.ErrorStream()
	} else {
		stream = conn.InputStream()
	}

	return &Response{
		StatusCode: status,
		Status:     conn.StatusMessage(),
		Method:     method,
		URL:        conn.URL().String(),
		Headers:    headers,
		Cookies:    cookies,
		conn:       conn,
		lines:      newLineReader(stream, conn),
	}
}

// parseSetCookie parses a Set-Cookie header value into name/value pairs.
// The value is split on ";", each segment on its first "="; segments
// without an "=" are skipped rather than treated as errors, and a repeated
// name keeps the last value.
func parseSetCookie(raw string) map[string]string {
	cookies := make(map[string]string)
	if raw == "" {
		return cookies
	}

	for _, segment := range strings.Split(raw, ";") {
		name, value, ok := strings.Cut(segment, "=")
		if !ok {
			continue
		}
		cookies[strings.TrimSpace(name)] = strings.TrimSpace(value)
	}
	return cookies
}

// Lines returns the response body as a forward-only, single-pass sequence
// of text lines. The sequence is not restartable.
func (r *Response) Lines() *LineReader { return r.lines }

// Header looks up a response header case-insensitively against the live
// connection. Unlike the Headers map it sees every header the transport
// recorded, including Set-Cookie.
func (r *Response) Header(name string) string {
	return r.conn.HeaderField(name)
}

// Text drains the remaining body lines and returns them joined with
// newlines. The connection is released afterwards.
func (r *Response) Text() (string, error) {
	var sb strings.Builder
	first := true
	for r.lines.Scan() {
		if !first {
			sb.WriteByte('\n')
		}
		sb.WriteString(r.lines.Text())
		first = false
	}
	if err := r.lines.Err(); err != nil {
		return "", err
	}
	return sb.String(), nil
}

// Close releases the connection without reading the rest of the body.
func (r *Response) Close() error { return r.lines.Close() }

// IsSuccess returns true if the response status code is in the 2xx range.
func (r *Response) IsSuccess() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// IsRedirect returns true if the response status code is in the 3xx range.
func (r *Response) IsRedirect() bool {
	return r.StatusCode >= 300 && r.StatusCode < 400
}

// IsClientError returns true if the response status code is in the 4xx range.
func (r *Response) IsClientError() bool {
	return r.StatusCode >= 400 && r.StatusCode < 500
}

// IsServerError returns true if the response status code is in the 5xx range.
func (r *Response) IsServerError() bool {
	return r.StatusCode >= 500 && r.StatusCode < 600
}

// LineReader iterates over response body lines in the manner of
// bufio.Scanner. It is single-pass: once Scan returns false the body is
// exhausted and the connection has been released. A reader abandoned
// before exhaustion must be closed; the connection is not released by
// garbage collection.
type LineReader struct {
	scanner *bufio.Scanner
	closer  io.Closer
	closed  bool
}

func newLineReader(stream io.ReadCloser, conn Conn) *LineReader {
	l := &LineReader{closer: conn}
	if stream != nil {
		l.scanner = bufio.NewScanner(stream)
	}
	return l
}

// Scan advances to the next line, returning false at end of body. The
// connection is closed when the end is reached.
func (l *LineReader) Scan() bool {
	if l.closed {
		return false
	}
	if l.scanner == nil || !l.scanner.Scan() {
		l.Close()
		return false
	}
	return true
}

// Text returns the current line.
func (l *LineReader) Text() string {
	if l.scanner == nil {
		return ""
	}
	return l.scanner.Text()
}

// Err returns the first non-EOF error encountered while reading.
func (l *LineReader) Err() error {
	if l.scanner == nil {
		return nil
	}
	return l.scanner.Err()
}

// Close releases the underlying connection. It is safe to call more than
// once.
func (l *LineReader) Close() error {
	if l.closed {
		return nil
	}
	l.closed = true
	return l.closer.Close()
}
