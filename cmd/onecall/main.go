// Command onecall fetches the weather for one location from the OpenWeather
// One Call API and prints it as JSON or as a one-line summary.
//
// Configuration comes from the environment (or a .env file):
//
//	OWM_KEY          API key (required)
//	OWM_ONECALL_URL  endpoint, defaults to the 3.0 One Call API
//	REDIS_URL        when set, successful results are also stored in Redis
//	REDIS_KEY        key used with REDIS_URL, defaults to owonecall:latest
//	PROJECT_ID       Google Cloud project receiving metrics with -metrics
//	DEV_MODE         text logs at debug level instead of JSON
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/cor0nius/owonecall"
	"github.com/cor0nius/owonecall/internal/metricsexport"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

type cliFlags struct {
	lat, lon float64
	mode     string
	options  string
	units    string
	lang     string
	days     float64
	raw      bool
	summary  bool
	metrics  bool
}

func parseFlags(args []string, stderr io.Writer) (*cliFlags, error) {
	f := &cliFlags{}
	fs := flag.NewFlagSet("onecall", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Float64Var(&f.lat, "lat", 0, "latitude in degrees")
	fs.Float64Var(&f.lon, "lon", 0, "longitude in degrees")
	fs.StringVar(&f.mode, "mode", "current", "current, daily, hourly, alerts, all or history")
	fs.StringVar(&f.options, "options", "", "raw query options, e.g. \"units=imperial&exclude=minutely\"; overrides -mode")
	fs.StringVar(&f.units, "units", "", "metric, imperial or standard")
	fs.StringVar(&f.lang, "lang", "en", "language code")
	fs.Float64Var(&f.days, "days", 1, "days in the past for -mode history")
	fs.BoolVar(&f.raw, "raw", false, "print the undecoded response body")
	fs.BoolVar(&f.summary, "summary", false, "print a one-line summary of the current weather")
	fs.BoolVar(&f.metrics, "metrics", false, "print request metrics to stderr and push them when PROJECT_ID is set")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return f, nil
}

// queryOptions turns the mode flags into request options.
func (f *cliFlags) queryOptions() (owonecall.QueryOptions, error) {
	if f.options != "" {
		return owonecall.ParseOptions(f.options)
	}

	units := owonecall.Units(f.units)
	var opts owonecall.ForecastOptions
	switch f.mode {
	case "current":
		opts = owonecall.CurrentOptions(f.lang)
	case "daily":
		opts = owonecall.DailyForecastOptions(f.lang)
	case "hourly":
		opts = owonecall.HourlyForecastOptions(f.lang)
	case "alerts":
		opts = owonecall.AlertsOptions(f.lang)
	case "all":
		opts = owonecall.ForecastOptions{Units: owonecall.UnitsMetric, Lang: f.lang}
	case "history":
		if f.days < 0 {
			return nil, fmt.Errorf("-days must not be negative, got %v", f.days)
		}
		return owonecall.DaysAgo(f.days, f.lang), nil
	default:
		return nil, fmt.Errorf("unknown mode %q", f.mode)
	}
	if units != owonecall.UnitsUnset {
		opts.Units = units
	}
	// Round-trip through the parser so that a bad -units value is rejected.
	return owonecall.ParseOptions(opts.Encode())
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	flags, err := parseFlags(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}
	opts, err := flags.queryOptions()
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 2
	}

	cfg, err := config(ctx, stderr)
	if err != nil {
		fmt.Fprintln(stderr, "failed to load configuration:", err)
		return 1
	}
	if cfg.redisClient != nil {
		defer cfg.redisClient.Close()
	}
	cfg.logger.Debug("configuration loaded", "mode", flags.mode, "endpoint", cfg.owmOneCallURL)

	client, err := owonecall.NewClient(owonecall.Config{
		APIKey:  cfg.owmKey,
		BaseURL: cfg.owmOneCallURL,
		Logger:  cfg.logger,
	})
	if err != nil {
		fmt.Fprintln(stderr, "failed to create client:", err)
		return 1
	}

	code := cfg.fetchAndPrint(ctx, client, flags, opts, stdout, stderr)

	if flags.metrics {
		if err := cfg.exportMetrics(ctx, stderr); err != nil {
			cfg.logger.Error("failed to export metrics", "error", err)
			if code == 0 {
				code = 1
			}
		}
	}
	return code
}

func (cfg *apiConfig) fetchAndPrint(ctx context.Context, client *owonecall.Client, flags *cliFlags, opts owonecall.QueryOptions, stdout, stderr io.Writer) int {
	if flags.raw {
		body, err := client.FetchRaw(ctx, flags.lat, flags.lon, opts)
		if err != nil {
			fmt.Fprintf(stderr, "request failed (%s): %v\n", owonecall.KindOf(err), err)
			return 1
		}
		_, _ = stdout.Write(body)
		fmt.Fprintln(stdout)
		return 0
	}

	response, err := client.Fetch(ctx, flags.lat, flags.lon, opts)
	if err != nil {
		fmt.Fprintf(stderr, "request failed (%s): %v\n", owonecall.KindOf(err), err)
		return 1
	}

	if cfg.redisClient != nil {
		slot := owonecall.NewRedisSlot(cfg.redisClient, cfg.redisKey, 0)
		if err := slot.Store(ctx, response); err != nil {
			cfg.logger.Warn("failed to store response in Redis", "key", cfg.redisKey, "error", err)
		}
	}

	if flags.summary {
		fmt.Fprintln(stdout, response.WeatherInfo())
		return 0
	}

	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(response); err != nil {
		cfg.logger.Error("error marshalling JSON", "error", err)
		return 1
	}
	return 0
}

func (cfg *apiConfig) exportMetrics(ctx context.Context, stderr io.Writer) error {
	families, err := metricsexport.Gather(prometheus.DefaultGatherer, "owonecall_")
	if err != nil {
		return err
	}
	if err := metricsexport.WriteText(stderr, families); err != nil {
		return err
	}
	if cfg.projectID == "" {
		return nil
	}

	hostname, _ := os.Hostname()
	series := metricsexport.ToTimeSeries(families, metricsexport.Resource{
		ProjectID: cfg.projectID,
		Location:  "global",
		Namespace: "owonecall",
		Job:       "onecall",
		Instance:  hostname,
	}, time.Now(), cfg.logger)

	pushCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	return metricsexport.Push(pushCtx, cfg.projectID, series)
}
