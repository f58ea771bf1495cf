package owonecall

import (
	"fmt"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// This file contains the summary strings shown next to a forecast.

// titleCase capitalizes every word of s using the casing rules of lang.
// An empty or unparseable lang falls back to language-neutral rules.
func titleCase(s, lang string) string {
	tag := language.Und
	if lang != "" {
		if parsed, err := language.Parse(lang); err == nil {
			tag = parsed
		}
	}
	return cases.Title(tag).String(s)
}

// WeatherInfo returns a one-line summary such as "Clear Sky 21.6°",
// or "" when there is no weather condition.
func (c Current) WeatherInfo() string {
	return c.WeatherInfoLang("")
}

// WeatherInfoLang is WeatherInfo with the description cased for lang.
func (c Current) WeatherInfoLang(lang string) string {
	if len(c.Weather) == 0 {
		return ""
	}
	return fmt.Sprintf("%s %.1f°", titleCase(c.Weather[0].Description, lang), c.Temp)
}

// WeatherInfo summarizes the current conditions, or returns "" when the
// response carries none.
func (r *Response) WeatherInfo() string {
	if r == nil || r.Current == nil {
		return ""
	}
	return r.Current.WeatherInfo()
}
