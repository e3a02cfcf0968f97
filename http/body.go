package http

import "io"

// Body is a request body. Exactly three variants exist: TextBody, FormBody,
// and StreamBody; the executor dispatches on the concrete variant when
// sending.
type Body interface {
	isBody()
}

// TextBody is a literal string body, written as raw UTF-8 bytes.
type TextBody string

// FormBody is a parameter map body, written as its form-urlencoded
// encoding. A request with a FormBody and no explicit Content-Type header
// is sent as application/x-www-form-urlencoded.
type FormBody map[string]any

// StreamBody copies all bytes from R to the connection's output stream.
type StreamBody struct {
	R io.Reader
}

func (TextBody) isBody()   {}
func (FormBody) isBody()   {}
func (StreamBody) isBody() {}

// Text returns a string body.
func Text(s string) Body { return TextBody(s) }

// Form returns a form-parameter body.
func Form(m map[string]any) Body { return FormBody(m) }

// Stream returns a body that copies from r until end of stream.
func Stream(r io.Reader) Body { return StreamBody{R: r} }
