package cli

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/tidwall/gjson"

	http "github.com/riposte-http/riposte/http"
	"github.com/riposte-http/riposte/internal/output"
)

// addRequestFlags registers the flags shared by the request commands.
// Commands that can carry a body additionally get -d/--data and --form.
func addRequestFlags(cmd *cobra.Command, withBody bool) {
	cmd.Flags().StringArrayP("header", "H", []string{}, "HTTP headers as \"Name: value\" (can be used multiple times)")
	cmd.Flags().StringArrayP("cookie", "c", []string{}, "request cookies as \"name=value\" (can be used multiple times)")
	cmd.Flags().StringArrayP("query", "q", []string{}, "query parameters as \"name=value\" (can be used multiple times)")
	cmd.Flags().String("fragment", "", "URL fragment to append")
	cmd.Flags().String("extract", "", "print only the JSON value at this gjson path")
	cmd.Flags().BoolP("verbose", "v", false, "Enable verbose output")
	cmd.Flags().DurationP("timeout", "t", 30*time.Second, "Request timeout")
	cmd.Flags().Bool("no-color", false, "Disable colored output")
	if withBody {
		cmd.Flags().StringP("data", "d", "", "raw request body")
		cmd.Flags().StringArray("form", []string{}, "form fields as \"name=value\"; sent form-urlencoded")
	}
}

// buildTarget attaches query parameters and a fragment to the base URL.
func buildTarget(rawURL string, query []string, fragment string) (string, error) {
	var opts []http.BuildOption
	if len(query) > 0 {
		params := make(map[string]string, len(query))
		for _, q := range query {
			name, value, _ := strings.Cut(q, "=")
			params[name] = value
		}
		opts = append(opts, http.WithQuery(params))
	}
	if fragment != "" {
		opts = append(opts, http.WithFragment(fragment))
	}

	u, err := http.BuildURL(rawURL, opts...)
	if err != nil {
		return "", err
	}
	return u.String(), nil
}

// runRequest executes one request described by the command's flags and
// prints the formatted result.
func runRequest(cmd *cobra.Command, method, rawURL string) error {
	headers, _ := cmd.Flags().GetStringArray("header")
	cookies, _ := cmd.Flags().GetStringArray("cookie")
	query, _ := cmd.Flags().GetStringArray("query")
	fragment, _ := cmd.Flags().GetString("fragment")
	extract, _ := cmd.Flags().GetString("extract")
	verbose, _ := cmd.Flags().GetBool("verbose")
	timeout, _ := cmd.Flags().GetDuration("timeout")
	noColor, _ := cmd.Flags().GetBool("no-color")

	target, err := buildTarget(rawURL, query, fragment)
	if err != nil {
		return err
	}

	req := http.NewRequest(method, target)
	for _, header := range headers {
		name, value, ok := strings.Cut(header, ":")
		if ok {
			req.WithHeader(strings.TrimSpace(name), strings.TrimSpace(value))
		}
	}
	for _, cookie := range cookies {
		name, value, ok := strings.Cut(cookie, "=")
		if ok {
			req.WithCookie(strings.TrimSpace(name), strings.TrimSpace(value))
		}
	}

	if cmd.Flags().Lookup("data") != nil {
		data, _ := cmd.Flags().GetString("data")
		form, _ := cmd.Flags().GetStringArray("form")
		switch {
		case len(form) > 0:
			fields := make(map[string]any, len(form))
			for _, f := range form {
				name, value, _ := strings.Cut(f, "=")
				fields[name] = value
			}
			req.WithBody(http.Form(fields))
		case data != "":
			req.WithBody(http.Text(data))
		}
	}

	if !output.IsTerminal(os.Stdout) {
		noColor = true
	}
	formatter := output.NewFormatter(verbose, noColor)

	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	if extract == "" {
		fmt.Fprint(cmd.OutOrStdout(), formatter.FormatRequest(req, target))
	}

	client := http.NewClient(http.WithUserAgent(userAgent))
	resp, err := client.Do(ctx, req)
	if err != nil {
		return err
	}

	body, err := resp.Text()
	if err != nil {
		return err
	}

	if extract != "" {
		fmt.Fprintln(cmd.OutOrStdout(), gjson.Get(body, extract).String())
		return nil
	}

	fmt.Fprint(cmd.OutOrStdout(), formatter.FormatResponse(resp, body))
	return nil
}
