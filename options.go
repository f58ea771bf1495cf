package owonecall

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// This file contains the query options accepted by the One Call API.
// Options come in two mutually exclusive variants: ForecastOptions for the
// current/forecast endpoint and HistoricalOptions for the timemachine endpoint.
// The dispatcher only looks at Kind() to pick the endpoint path.

// Section is one of the top-level groups of a One Call response that can be excluded.
type Section string

const (
	SectionCurrent  Section = "current"
	SectionMinutely Section = "minutely"
	SectionHourly   Section = "hourly"
	SectionDaily    Section = "daily"
	SectionAlerts   Section = "alerts"
)

// AllSections lists every excludable section in wire order.
var AllSections = []Section{SectionCurrent, SectionMinutely, SectionHourly, SectionDaily, SectionAlerts}

func (s Section) valid() bool {
	switch s {
	case SectionCurrent, SectionMinutely, SectionHourly, SectionDaily, SectionAlerts:
		return true
	}
	return false
}

// Units selects the measurement system. The zero value leaves the parameter out,
// in which case the provider answers in standard units (Kelvin).
type Units string

const (
	UnitsUnset    Units = ""
	UnitsMetric   Units = "metric"
	UnitsImperial Units = "imperial"
	UnitsStandard Units = "standard"
)

func (u Units) valid() bool {
	switch u {
	case UnitsUnset, UnitsMetric, UnitsImperial, UnitsStandard:
		return true
	}
	return false
}

// OptionsKind tags the active QueryOptions variant.
type OptionsKind int

const (
	KindForecast OptionsKind = iota
	KindHistorical
)

func (k OptionsKind) String() string {
	switch k {
	case KindForecast:
		return "forecast"
	case KindHistorical:
		return "historical"
	default:
		return "unknown"
	}
}

// QueryOptions is implemented only by ForecastOptions and HistoricalOptions.
type QueryOptions interface {
	Kind() OptionsKind
	// Encode returns the query fragment for these options, starting with "&".
	Encode() string
	sealed()
}

// ForecastOptions are the parameters of a current/forecast request.
type ForecastOptions struct {
	Units   Units
	Lang    string
	Exclude []Section
}

func (ForecastOptions) Kind() OptionsKind { return KindForecast }
func (ForecastOptions) sealed()           {}

func (o ForecastOptions) Encode() string {
	var sb strings.Builder
	if o.Units != UnitsUnset {
		sb.WriteString("&units=")
		sb.WriteString(string(o.Units))
	}
	if excluded := o.excluded(); len(excluded) > 0 {
		sb.WriteString("&exclude=")
		sb.WriteString(strings.Join(excluded, ","))
	}
	if o.Lang != "" {
		sb.WriteString("&lang=")
		sb.WriteString(url.QueryEscape(o.Lang))
	}
	return sb.String()
}

// excluded returns the excluded section names without duplicates, in input order.
func (o ForecastOptions) excluded() []string {
	seen := make(map[Section]bool, len(o.Exclude))
	names := make([]string, 0, len(o.Exclude))
	for _, s := range o.Exclude {
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		names = append(names, string(s))
	}
	return names
}

// Excludes reports whether the section is excluded from the response.
func (o ForecastOptions) Excludes(s Section) bool {
	for _, e := range o.Exclude {
		if e == s {
			return true
		}
	}
	return false
}

// HistoricalOptions are the parameters of a timemachine request.
type HistoricalOptions struct {
	Dt   int64
	Lang string
}

func (HistoricalOptions) Kind() OptionsKind { return KindHistorical }
func (HistoricalOptions) sealed()           {}

func (o HistoricalOptions) Encode() string {
	s := "&dt=" + strconv.FormatInt(o.Dt, 10)
	if o.Lang != "" {
		s += "&lang=" + url.QueryEscape(o.Lang)
	}
	return s
}

// Time returns the requested instant.
func (o HistoricalOptions) Time() time.Time {
	return time.Unix(o.Dt, 0)
}

// ExcludeOptions builds forecast options excluding any combination of sections.
func ExcludeOptions(units Units, lang string, sections ...Section) ForecastOptions {
	return ForecastOptions{Units: units, Lang: lang, Exclude: sections}
}

// CurrentOptions requests just the current weather.
func CurrentOptions(lang string) ForecastOptions {
	return ExcludeOptions(UnitsMetric, lang, SectionDaily, SectionHourly, SectionMinutely, SectionAlerts)
}

// DailyForecastOptions requests the daily forecast and the current weather.
func DailyForecastOptions(lang string) ForecastOptions {
	return ExcludeOptions(UnitsMetric, lang, SectionHourly, SectionMinutely, SectionAlerts)
}

// HourlyForecastOptions requests the hourly forecast and the current weather.
func HourlyForecastOptions(lang string) ForecastOptions {
	return ExcludeOptions(UnitsMetric, lang, SectionDaily, SectionMinutely, SectionAlerts)
}

// AlertsOptions requests just the weather alerts.
func AlertsOptions(lang string) ForecastOptions {
	return ExcludeOptions(UnitsMetric, lang, SectionCurrent, SectionDaily, SectionHourly, SectionMinutely)
}

// HistoricalAt requests the weather at the given instant.
func HistoricalAt(t time.Time, lang string) HistoricalOptions {
	return HistoricalOptions{Dt: t.Unix(), Lang: lang}
}

// DaysAgoFrom requests the weather n days before now. Fractional days are allowed.
func DaysAgoFrom(now time.Time, days float64, lang string) HistoricalOptions {
	offset := time.Duration(days * 24 * float64(time.Hour))
	return HistoricalAt(now.Add(-offset), lang)
}

// DaysAgo requests the weather n days in the past.
func DaysAgo(days float64, lang string) HistoricalOptions {
	return DaysAgoFrom(time.Now(), days, lang)
}

// Yesterday requests the weather 24 hours ago.
func Yesterday(lang string) HistoricalOptions {
	return DaysAgo(1, lang)
}

// ParseOptions reverses Encode. It accepts a fragment with or without the
// leading "&" or "?"; unrelated keys such as lat, lon and appid are ignored.
// A dt key selects HistoricalOptions.
func ParseOptions(query string) (QueryOptions, error) {
	values, err := url.ParseQuery(strings.TrimLeft(query, "?&"))
	if err != nil {
		return nil, fmt.Errorf("invalid query %q: %w", query, err)
	}

	if values.Has("dt") {
		dt, err := strconv.ParseInt(values.Get("dt"), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid dt %q: %w", values.Get("dt"), err)
		}
		return HistoricalOptions{Dt: dt, Lang: values.Get("lang")}, nil
	}

	opts := ForecastOptions{
		Units: Units(values.Get("units")),
		Lang:  values.Get("lang"),
	}
	if !opts.Units.valid() {
		return nil, fmt.Errorf("unknown units %q", values.Get("units"))
	}
	if raw := values.Get("exclude"); raw != "" {
		for _, name := range strings.Split(raw, ",") {
			s := Section(name)
			if !s.valid() {
				return nil, fmt.Errorf("unknown section %q", name)
			}
			opts.Exclude = append(opts.Exclude, s)
		}
	}
	return opts, nil
}
