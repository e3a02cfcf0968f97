package http

import "strings"

// Cookie is a single request cookie. Cookies are kept in insertion order so
// the serialized Cookie header is deterministic.
type Cookie struct {
	Name  string
	Value string
}

// Request represents an HTTP request before execution. A Request is built
// by the caller and consumed by exactly one Client.Do call.
type Request struct {
	// URL is the full target, a string or *url.URL. Callers attach query
	// and fragment components with BuildURL before constructing the
	// request; Do does not re-encode the query.
	URL     any
	Method  string
	Headers map[string]string
	Cookies []Cookie
	Body    Body
}

// NewRequest creates a request for the given method and URL. An empty
// method defaults to GET at execution time.
func NewRequest(method string, url any) *Request {
	return &Request{
		URL:     url,
		Method:  method,
		Headers: make(map[string]string),
	}
}

// WithHeader sets a header on the request. Keys are not case-folded: a
// caller-supplied "user-agent" coexists with the default "User-Agent"
// rather than replacing it.
func (r *Request) WithHeader(key, value string) *Request {
	r.Headers[key] = value
	return r
}

// WithCookie appends a cookie to the request.
func (r *Request) WithCookie(name, value string) *Request {
	r.Cookies = append(r.Cookies, Cookie{Name: name, Value: value})
	return r
}

// WithBody sets the request body.
func (r *Request) WithBody(body Body) *Request {
	r.Body = body
	return r
}

// cookieHeader serializes the cookies as "k1=v1; k2=v2" in insertion
// order.
func (r *Request) cookieHeader() string {
	parts := make([]string, len(r.Cookies))
	for i, c := range r.Cookies {
		parts[i] = c.Name + "=" + c.Value
	}
	return strings.Join(parts, "; ")
}
