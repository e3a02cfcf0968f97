package http

import (
	"fmt"
	"net/url"

	"github.com/riposte-http/riposte/pkg/formenc"
)

// BuildOption configures BuildURL.
type BuildOption func(*buildOptions)

type buildOptions struct {
	query    any
	fragment any
}

// WithQuery appends "?" followed by the form encoding of q to the built
// URL. q may be a scalar or a parameter map.
func WithQuery(q any) BuildOption {
	return func(o *buildOptions) { o.query = q }
}

// WithFragment appends "#" followed by the form encoding of f to the built
// URL.
func WithFragment(f any) BuildOption {
	return func(o *buildOptions) { o.fragment = f }
}

// BuildURL parses base into a URL and appends the encoded query and
// fragment components when the corresponding options are given. base is
// either a string or a *url.URL; a *url.URL with no options is returned
// unchanged. The query component always precedes the fragment, regardless
// of option order.
//
// A base string that cannot be parsed returns an *InvalidURLError.
func BuildURL(base any, opts ...BuildOption) (*url.URL, error) {
	var o buildOptions
	for _, opt := range opts {
		opt(&o)
	}

	u, err := parseBase(base)
	if err != nil {
		return nil, err
	}

	if o.query == nil && o.fragment == nil {
		return u, nil
	}

	raw := u.String()
	if o.query != nil {
		raw += "?" + formenc.Encode(o.query)
	}
	if o.fragment != nil {
		raw += "#" + formenc.Encode(o.fragment)
	}

	built, err := url.Parse(raw)
	if err != nil {
		return nil, &InvalidURLError{URL: raw, Err: err}
	}
	return built, nil
}

func parseBase(base any) (*url.URL, error) {
	switch b := base.(type) {
	case *url.URL:
		return b, nil
	case url.URL:
		return &b, nil
	case string:
		u, err := url.Parse(b)
		if err != nil {
			return nil, &InvalidURLError{URL: b, Err: err}
		}
		return u, nil
	default:
		return nil, &InvalidURLError{
			URL: fmt.Sprint(base),
			Err: fmt.Errorf("unsupported base type %T", base),
		}
	}
}
