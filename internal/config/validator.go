package config

import (
	"fmt"
	"strings"
)

var knownMethods = []string{"GET", "POST", "PUT", "DELETE", "PATCH", "HEAD", "OPTIONS"}

// Validate checks a loaded collection for internal consistency: every
// request needs a URL and a known method, requests cannot carry both a raw
// body and a form, and suites may only reference requests that exist.
func Validate(config *Config) error {
	for name, req := range config.Requests {
		if req.URL == "" {
			return fmt.Errorf("request %q: url is required", name)
		}
		if req.Method != "" && !isKnownMethod(req.Method) {
			return fmt.Errorf("request %q: unknown method %q", name, req.Method)
		}
		if req.Body != "" && len(req.Form) > 0 {
			return fmt.Errorf("request %q: body and form are mutually exclusive", name)
		}
	}

	for name, suite := range config.Suites {
		if len(suite.Requests) == 0 {
			return fmt.Errorf("suite %q: at least one request is required", name)
		}
		for _, ref := range suite.Requests {
			if _, ok := config.Requests[ref]; !ok {
				return fmt.Errorf("suite %q: unknown request %q", name, ref)
			}
		}
	}

	return nil
}

func isKnownMethod(method string) bool {
	upper := strings.ToUpper(method)
	for _, m := range knownMethods {
		if upper == m {
			return true
		}
	}
	return false
}
