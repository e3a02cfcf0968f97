// Package http provides a minimal, synchronous HTTP client: URL building
// with form-urlencoded query and fragment components, a request builder
// with string, form, and stream bodies, and a structured response whose
// body is read lazily, line by line.
//
// The package holds no connection pool and implements no retry, timeout,
// or redirect logic of its own; each executed request owns exactly one
// connection, released once the response body lines are drained or the
// response is closed. Callers needing timeouts or retries wrap Client.Do
// at a higher layer.
package http
