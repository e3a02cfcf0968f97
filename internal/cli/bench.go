package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"golang.org/x/time/rate"

	http "github.com/riposte-http/riposte/http"
)

var benchCmd = &cobra.Command{
	Use:   "bench URL",
	Short: "Measure request latency against the specified URL",
	Long: `Bench issues a number of sequential GET requests to the URL and reports
latency percentiles. Requests are sequential on purpose: each one owns a
single connection, so the numbers reflect full connect-to-drain time. Use
--rps to cap the request rate.`,
	Args: cobra.ExactArgs(1),
	RunE: runBench,
}

func init() {
	benchCmd.Flags().IntP("requests", "n", 50, "number of requests to send")
	benchCmd.Flags().Float64("rps", 0, "maximum requests per second (0 = unlimited)")
	benchCmd.Flags().StringArrayP("header", "H", []string{}, "HTTP headers as \"Name: value\" (can be used multiple times)")
	benchCmd.Flags().DurationP("timeout", "t", 30*time.Second, "Per-request timeout")
}

func runBench(cmd *cobra.Command, args []string) error {
	count, _ := cmd.Flags().GetInt("requests")
	rps, _ := cmd.Flags().GetFloat64("rps")
	headers, _ := cmd.Flags().GetStringArray("header")
	timeout, _ := cmd.Flags().GetDuration("timeout")

	if count < 1 {
		return fmt.Errorf("requests must be at least 1")
	}

	target, err := http.BuildURL(args[0])
	if err != nil {
		return err
	}

	var limiter *rate.Limiter
	if rps > 0 {
		limiter = rate.NewLimiter(rate.Limit(rps), 1)
	}

	// Latencies in microseconds, up to one minute per request.
	hist := hdrhistogram.New(1, 60_000_000, 3)
	client := http.NewClient(http.WithUserAgent(userAgent))
	runID := uuid.NewString()

	errors := 0
	for i := 0; i < count; i++ {
		if limiter != nil {
			if err := limiter.Wait(cmd.Context()); err != nil {
				return err
			}
		}

		if err := benchOnce(cmd.Context(), client, target.String(), headers, timeout, hist); err != nil {
			errors++
		}
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Run %s: %d requests to %s\n", runID, count, target)
	fmt.Fprintf(out, "  Errors: %d\n", errors)
	if hist.TotalCount() > 0 {
		fmt.Fprintf(out, "  Min:    %s\n", formatMicros(hist.Min()))
		fmt.Fprintf(out, "  Mean:   %s\n", formatMicros(int64(hist.Mean())))
		fmt.Fprintf(out, "  p50:    %s\n", formatMicros(hist.ValueAtQuantile(50)))
		fmt.Fprintf(out, "  p90:    %s\n", formatMicros(hist.ValueAtQuantile(90)))
		fmt.Fprintf(out, "  p99:    %s\n", formatMicros(hist.ValueAtQuantile(99)))
		fmt.Fprintf(out, "  Max:    %s\n", formatMicros(hist.Max()))
	}

	if errors > 0 {
		return fmt.Errorf("%d of %d requests failed", errors, count)
	}
	return nil
}

// benchOnce sends one request and records its connect-to-drain latency.
func benchOnce(ctx context.Context, client *http.Client, target string, headers []string, timeout time.Duration, hist *hdrhistogram.Histogram) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req := http.NewRequest("GET", target)
	for _, header := range headers {
		name, value, ok := strings.Cut(header, ":")
		if ok {
			req.WithHeader(strings.TrimSpace(name), strings.TrimSpace(value))
		}
	}

	start := time.Now()
	resp, err := client.Do(ctx, req)
	if err != nil {
		return err
	}
	if _, err := resp.Text(); err != nil {
		return err
	}

	hist.RecordValue(time.Since(start).Microseconds())
	if resp.IsClientError() || resp.IsServerError() {
		return fmt.Errorf("status %d", resp.StatusCode)
	}
	return nil
}

func formatMicros(us int64) string {
	return fmt.Sprintf("%.2fms", float64(us)/1000)
}
