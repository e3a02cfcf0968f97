package http

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// Transport opens connections to URLs. It is the only boundary between this
// package and the network; tests substitute their own implementation.
type Transport interface {
	Open(u *url.URL) (Conn, error)
}

// Conn is a single-use connection handle: configure it, optionally write a
// request body, then read the response. Methods on the response side are
// only meaningful after the request has been performed.
type Conn interface {
	SetMethod(method string)

	// SetHeader sets a request header verbatim. Keys are not
	// canonicalized, so differently-cased keys are distinct.
	SetHeader(key, value string)

	// EnableOutput marks the connection as carrying a request body.
	EnableOutput()

	// Connect performs the request, unless output is enabled, in which
	// case the round trip is deferred until the output stream is closed.
	Connect(ctx context.Context) error

	// OutputStream returns the request body writer. Closing it sends the
	// request.
	OutputStream() (io.WriteCloser, error)

	// InputStream returns the response body for statuses below 400, nil
	// otherwise.
	InputStream() io.ReadCloser

	// ErrorStream returns the response body for statuses of 400 and
	// above, nil otherwise.
	ErrorStream() io.ReadCloser

	StatusCode() (int, error)
	StatusMessage() string

	// HeaderFields returns all response headers as recorded by the
	// transport.
	HeaderFields() map[string][]string

	// HeaderField returns the first value for name, matched
	// case-insensitively.
	HeaderField(name string) string

	// URL reports the final URL, which may differ from the opened one
	// when the transport followed redirects.
	URL() *url.URL

	Close() error
}

// NewTransport returns the default transport, backed by net/http.
func NewTransport() Transport {
	return &netTransport{client: &http.Client{}}
}

type netTransport struct {
	client *http.Client
}

func (t *netTransport) Open(u *url.URL) (Conn, error) {
	return &netConn{
		client: t.client,
		url:    u,
		method: "GET",
		header: make(http.Header),
	}, nil
}

// netConn adapts net/http to the Conn shape. Because net/http needs the
// whole request up front, output is buffered and the round trip runs when
// the output stream is closed (or on Connect for bodyless requests).
type netConn struct {
	client   *http.Client
	url      *url.URL
	method   string
	header   http.Header
	doOutput bool
	body     bytes.Buffer
	ctx      context.Context
	resp     *http.Response
	done     bool
}

func (c *netConn) SetMethod(method string) { c.method = method }

func (c *netConn) SetHeader(key, value string) {
	// Assigned directly so the key keeps its exact spelling on the wire.
	c.header[key] = []string{value}
}

func (c *netConn) EnableOutput() { c.doOutput = true }

func (c *netConn) Connect(ctx context.Context) error {
	c.ctx = ctx
	if c.doOutput {
		return nil
	}
	return c.roundTrip(nil)
}

func (c *netConn) OutputStream() (io.WriteCloser, error) {
	return &outputStream{conn: c}, nil
}

func (c *netConn) roundTrip(body io.Reader) error {
	if c.done {
		return nil
	}

	ctx := c.ctx
	if ctx == nil {
		ctx = context.Background()
	}

	req, err := http.NewRequestWithContext(ctx, c.method, c.url.String(), body)
	if err != nil {
		return err
	}
	for key, values := range c.header {
		req.Header[key] = values
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}

	c.resp = resp
	c.done = true
	return nil
}

func (c *netConn) StatusCode() (int, error) {
	if !c.done {
		if err := c.roundTrip(nil); err != nil {
			return 0, err
		}
	}
	return c.resp.StatusCode, nil
}

func (c *netConn) StatusMessage() string {
	if c.resp == nil {
		return ""
	}
	// resp.Status is "200 OK"; the message is everything after the code.
	if i := strings.IndexByte(c.resp.Status, ' '); i >= 0 {
		return c.resp.Status[i+1:]
	}
	return c.resp.Status
}

func (c *netConn) InputStream() io.ReadCloser {
	if c.resp == nil || c.resp.StatusCode >= 400 {
		return nil
	}
	return c.resp.Body
}

func (c *netConn) ErrorStream() io.ReadCloser {
	if c.resp == nil || c.resp.StatusCode < 400 {
		return nil
	}
	return c.resp.Body
}

func (c *netConn) HeaderFields() map[string][]string {
	if c.resp == nil {
		return nil
	}
	return c.resp.Header
}

func (c *netConn) HeaderField(name string) string {
	if c.resp == nil {
		return ""
	}
	return c.resp.Header.Get(name)
}

func (c *netConn) URL() *url.URL {
	if c.resp != nil && c.resp.Request != nil {
		return c.resp.Request.URL
	}
	return c.url
}

func (c *netConn) Close() error {
	if c.resp != nil {
		return c.resp.Body.Close()
	}
	return nil
}

// outputStream buffers the request body; Close performs the round trip.
type outputStream struct {
	conn *netConn
}

func (o *outputStream) Write(p []byte) (int, error) {
	return o.conn.body.Write(p)
}

func (o *outputStream) Close() error {
	return o.conn.roundTrip(bytes.NewReader(o.conn.body.Bytes()))
}
