package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/spf13/cobra"
	"github.com/tidwall/gjson"

	http "github.com/riposte-http/riposte/http"
	"github.com/riposte-http/riposte/internal/config"
	"github.com/riposte-http/riposte/internal/output"
	"github.com/riposte-http/riposte/pkg/jsonschema"
)

var runCmd = &cobra.Command{
	Use:   "run FILE",
	Short: "Execute requests from a collection file",
	Long: `Run executes named requests from a JSON or YAML collection file, either a
whole suite (--suite) or a single request (--request). Values extracted from
one response are available as {{variables}} in later requests of the same
suite.`,
	Args: cobra.ExactArgs(1),
	RunE: runCollection,
}

func init() {
	runCmd.Flags().StringP("env", "e", "", "environment name from the collection")
	runCmd.Flags().StringP("suite", "s", "", "suite to run")
	runCmd.Flags().StringP("request", "r", "", "single request to run")
	runCmd.Flags().BoolP("verbose", "v", false, "Enable verbose output")
	runCmd.Flags().DurationP("timeout", "t", 30*time.Second, "Per-request timeout")
	runCmd.Flags().Bool("no-color", false, "Disable colored output")
}

func runCollection(cmd *cobra.Command, args []string) error {
	envName, _ := cmd.Flags().GetString("env")
	suiteName, _ := cmd.Flags().GetString("suite")
	requestName, _ := cmd.Flags().GetString("request")
	verbose, _ := cmd.Flags().GetBool("verbose")
	timeout, _ := cmd.Flags().GetDuration("timeout")
	noColor, _ := cmd.Flags().GetBool("no-color")

	cfg, err := config.Load(args[0])
	if err != nil {
		return err
	}

	var env config.Environment
	if envName != "" {
		var ok bool
		env, ok = cfg.Environments[envName]
		if !ok {
			return fmt.Errorf("unknown environment %q", envName)
		}
	}

	vars := config.MergeVars(env.Vars, map[string]string{"baseUrl": env.BaseURL})

	var names []string
	switch {
	case suiteName != "":
		suite, ok := cfg.Suites[suiteName]
		if !ok {
			return fmt.Errorf("unknown suite %q", suiteName)
		}
		names = suite.Requests
		vars = config.MergeVars(vars, suite.Vars)
	case requestName != "":
		if _, ok := cfg.Requests[requestName]; !ok {
			return fmt.Errorf("unknown request %q", requestName)
		}
		names = []string{requestName}
	default:
		return fmt.Errorf("either --suite or --request is required")
	}

	if !output.IsTerminal(os.Stdout) {
		noColor = true
	}
	formatter := output.NewFormatter(verbose, noColor)
	client := http.NewClient(http.WithUserAgent(userAgent))
	baseDir := filepath.Dir(args[0])

	failed := 0
	for _, name := range names {
		spec := cfg.Requests[name]
		if err := executeCollectionRequest(cmd, client, formatter, baseDir, name, spec, env, vars, timeout, noColor); err != nil {
			failed++
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s: %v\n", output.ErrorIcon(noColor), name, err)
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d requests failed", failed, len(names))
	}
	return nil
}

// executeCollectionRequest runs one named request, checks its expectations,
// and feeds extracted values back into vars for later requests.
func executeCollectionRequest(cmd *cobra.Command, client *http.Client, formatter *output.Formatter, baseDir, name string, spec config.Request, env config.Environment, vars map[string]string, timeout time.Duration, noColor bool) error {
	target, err := buildCollectionTarget(spec, vars)
	if err != nil {
		return err
	}

	method := spec.Method
	if method == "" {
		method = "GET"
	}

	req := http.NewRequest(method, target)
	for key, value := range config.ExpandVarsInMap(env.Headers, vars) {
		req.WithHeader(key, value)
	}
	for key, value := range config.ExpandVarsInMap(spec.Headers, vars) {
		req.WithHeader(key, value)
	}
	for _, key := range sortedKeys(spec.Cookies) {
		req.WithCookie(key, config.ExpandVars(spec.Cookies[key], vars))
	}

	switch {
	case len(spec.Form) > 0:
		fields := make(map[string]any, len(spec.Form))
		for key, value := range config.ExpandVarsInMap(spec.Form, vars) {
			fields[key] = value
		}
		req.WithBody(http.Form(fields))
	case spec.Body != "":
		req.WithBody(http.Text(config.ExpandVars(spec.Body, vars)))
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	resp, err := client.Do(ctx, req)
	if err != nil {
		return err
	}

	body, err := resp.Text()
	if err != nil {
		return err
	}

	if spec.ExpectStatus != 0 && resp.StatusCode != spec.ExpectStatus {
		return fmt.Errorf("expected status %d, got %d", spec.ExpectStatus, resp.StatusCode)
	}

	if spec.Schema != "" {
		schema, err := os.ReadFile(filepath.Join(baseDir, spec.Schema))
		if err != nil {
			return fmt.Errorf("reading schema: %w", err)
		}
		if err := jsonschema.Validate(body, string(schema)); err != nil {
			return fmt.Errorf("schema validation: %w", err)
		}
	}

	for varName, path := range spec.Extract {
		vars[varName] = gjson.Get(body, path).String()
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s %s: %d %s\n", output.SuccessIcon(noColor), name, resp.StatusCode, resp.Status)
	if formatter.Verbose {
		fmt.Fprint(cmd.OutOrStdout(), formatter.FormatResponse(resp, body))
	}
	return nil
}

func buildCollectionTarget(spec config.Request, vars map[string]string) (string, error) {
	rawURL := config.ExpandVars(spec.URL, vars)

	var opts []http.BuildOption
	if len(spec.Query) > 0 {
		params := make(map[string]string, len(spec.Query))
		for key, value := range config.ExpandVarsInMap(spec.Query, vars) {
			params[key] = value
		}
		opts = append(opts, http.WithQuery(params))
	}
	if spec.Fragment != "" {
		opts = append(opts, http.WithFragment(spec.Fragment))
	}

	u, err := http.BuildURL(rawURL, opts...)
	if err != nil {
		return "", err
	}
	return u.String(), nil
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
