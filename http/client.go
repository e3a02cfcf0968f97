package http

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/riposte-http/riposte/pkg/formenc"
)

const defaultUserAgent = "riposte-http-client"

// streamBufSize is the copy buffer used for stream bodies.
const streamBufSize = 1000

// Client executes HTTP requests. A Client holds no per-request state and is
// safe for concurrent use; every Do call owns exactly one connection.
type Client struct {
	transport Transport
	userAgent string
	headers   map[string]string
}

// ClientOption is a function that configures a Client.
type ClientOption func(*Client)

// NewClient creates a new client with the given options.
func NewClient(options ...ClientOption) *Client {
	client := &Client{
		transport: NewTransport(),
		userAgent: defaultUserAgent,
		headers:   make(map[string]string),
	}

	for _, option := range options {
		option(client)
	}

	return client
}

// WithTransport sets the transport used to open connections.
func WithTransport(t Transport) ClientOption {
	return func(c *Client) { c.transport = t }
}

// WithUserAgent sets the default User-Agent header value.
func WithUserAgent(ua string) ClientOption {
	return func(c *Client) { c.userAgent = ua }
}

// WithHeader adds a header sent with every request.
func WithHeader(key, value string) ClientOption {
	return func(c *Client) { c.headers[key] = value }
}

// Do executes a single request: one linear pass from URL build through
// configuration and body send to response parse, with no retry and no
// branch back to an earlier step. Any transport failure returns a
// *TransportError and no Response.
//
// The returned Response's body lines are tied to the live connection;
// drain them or close the response to release it.
func (c *Client) Do(ctx context.Context, req *Request) (*Response, error) {
	u, err := BuildURL(req.URL)
	if err != nil {
		return nil, err
	}

	conn, err := c.transport.Open(u)
	if err != nil {
		return nil, &TransportError{Op: "open", URL: u.String(), Err: err}
	}

	method := strings.ToUpper(req.Method)
	if method == "" {
		method = "GET"
	}
	conn.SetMethod(method)

	// Defaults first, then client headers, then request headers. The merge
	// is a plain key overwrite with no case folding: a request header
	// "user-agent" is a distinct key from the default "User-Agent".
	merged := map[string]string{
		"User-Agent": c.userAgent,
		"Connection": "close",
	}
	for key, value := range c.headers {
		merged[key] = value
	}
	for key, value := range req.Headers {
		merged[key] = value
	}
	for key, value := range merged {
		conn.SetHeader(key, value)
	}

	// A single Cookie header in insertion order, overwriting any Cookie
	// entry applied above.
	if len(req.Cookies) > 0 {
		conn.SetHeader("Cookie", req.cookieHeader())
	}

	if req.Body != nil {
		err = sendBody(ctx, conn, req.Body, merged)
	} else {
		err = conn.Connect(ctx)
	}
	if err != nil {
		conn.Close()
		return nil, &TransportError{Op: method, URL: u.String(), Err: err}
	}

	status, err := conn.StatusCode()
	if err != nil {
		conn.Close()
		return nil, &TransportError{Op: method, URL: u.String(), Err: err}
	}

	return newResponse(conn, method, status), nil
}

// sendBody dispatches on the body variant: enable output, default the
// Content-Type for form bodies, connect, write, and close the output
// stream regardless of which branch ran.
func sendBody(ctx context.Context, conn Conn, body Body, headers map[string]string) error {
	conn.EnableOutput()

	if _, isForm := body.(FormBody); isForm {
		if _, set := headers["Content-Type"]; !set {
			conn.SetHeader("Content-Type", "application/x-www-form-urlencoded")
		}
	}

	if err := conn.Connect(ctx); err != nil {
		return err
	}

	out, err := conn.OutputStream()
	if err != nil {
		return err
	}

	var werr error
	switch b := body.(type) {
	case TextBody:
		_, werr = io.WriteString(out, string(b))
	case FormBody:
		_, werr = io.WriteString(out, formenc.Encode(map[string]any(b)))
	case StreamBody:
		buf := make([]byte, streamBufSize)
		_, werr = io.CopyBuffer(out, onlyReader{b.R}, buf)
	default:
		werr = fmt.Errorf("unsupported body type %T", body)
	}

	if cerr := out.Close(); werr == nil {
		werr = cerr
	}
	return werr
}

// onlyReader hides WriteTo so io.CopyBuffer always copies through the
// fixed-size buffer.
type onlyReader struct {
	io.Reader
}
