package owonecall

import "time"

// Response is the decoded body of a One Call request.
// Absent sections decode to nil slices, which callers treat like empty ones.
type Response struct {
	Lat            float64    `json:"lat"`
	Lon            float64    `json:"lon"`
	Timezone       string     `json:"timezone"`
	TimezoneOffset int        `json:"timezone_offset"`
	Current        *Current   `json:"current,omitempty"`
	Minutely       []Minutely `json:"minutely,omitempty"`
	Hourly         []Hourly   `json:"hourly,omitempty"`
	Daily          []Daily    `json:"daily,omitempty"`
	Alerts         []Alert    `json:"alerts,omitempty"`
	// Data holds the snapshots returned by the 3.0 timemachine endpoint.
	Data []Current `json:"data,omitempty"`
}

// NewResponse returns an empty placeholder response, for use before the first fetch completes.
func NewResponse() *Response {
	return &Response{
		Current:  &Current{Weather: []WeatherCondition{}},
		Minutely: []Minutely{},
		Hourly:   []Hourly{},
		Daily:    []Daily{},
		Alerts:   []Alert{},
		Data:     []Current{},
	}
}

type Current struct {
	Dt         UnixTime           `json:"dt"`
	Sunrise    UnixTime           `json:"sunrise"`
	Sunset     UnixTime           `json:"sunset"`
	Temp       float64            `json:"temp"`
	FeelsLike  float64            `json:"feels_like"`
	Pressure   int                `json:"pressure"`
	Humidity   int                `json:"humidity"`
	DewPoint   float64            `json:"dew_point"`
	UVI        float64            `json:"uvi"`
	Clouds     int                `json:"clouds"`
	Visibility int                `json:"visibility"`
	WindSpeed  float64            `json:"wind_speed"`
	WindDeg    int                `json:"wind_deg"`
	WindGust   *float64           `json:"wind_gust,omitempty"`
	Weather    []WeatherCondition `json:"weather"`
	Rain       *Precipitation     `json:"rain,omitempty"`
	Snow       *Precipitation     `json:"snow,omitempty"`
}

// Precipitation is the rain or snow volume in mm. Either field may be unset.
type Precipitation struct {
	OneHour   *float64 `json:"1h,omitempty"`
	ThreeHour *float64 `json:"3h,omitempty"`
}

type Minutely struct {
	Dt            UnixTime `json:"dt"`
	Precipitation float64  `json:"precipitation"`
}

type Hourly struct {
	Dt         UnixTime           `json:"dt"`
	Temp       float64            `json:"temp"`
	FeelsLike  float64            `json:"feels_like"`
	Pressure   int                `json:"pressure"`
	Humidity   int                `json:"humidity"`
	DewPoint   float64            `json:"dew_point"`
	UVI        *float64           `json:"uvi,omitempty"`
	Clouds     int                `json:"clouds"`
	Visibility *int               `json:"visibility,omitempty"`
	WindSpeed  float64            `json:"wind_speed"`
	WindDeg    int                `json:"wind_deg"`
	WindGust   *float64           `json:"wind_gust,omitempty"`
	Pop        *float64           `json:"pop,omitempty"`
	Weather    []WeatherCondition `json:"weather"`
	Rain       *Precipitation     `json:"rain,omitempty"`
	Snow       *Precipitation     `json:"snow,omitempty"`
}

type Daily struct {
	Dt         UnixTime           `json:"dt"`
	Sunrise    UnixTime           `json:"sunrise"`
	Sunset     UnixTime           `json:"sunset"`
	Moonrise   UnixTime           `json:"moonrise,omitempty"`
	Moonset    UnixTime           `json:"moonset,omitempty"`
	MoonPhase  float64            `json:"moon_phase,omitempty"`
	Summary    string             `json:"summary,omitempty"`
	Temp       DailyTemp          `json:"temp"`
	FeelsLike  FeelsLike          `json:"feels_like"`
	Pressure   int                `json:"pressure"`
	Humidity   int                `json:"humidity"`
	DewPoint   float64            `json:"dew_point"`
	WindSpeed  float64            `json:"wind_speed"`
	WindDeg    int                `json:"wind_deg"`
	WindGust   *float64           `json:"wind_gust,omitempty"`
	Weather    []WeatherCondition `json:"weather"`
	Clouds     int                `json:"clouds"`
	Pop        *float64           `json:"pop,omitempty"`
	Rain       *float64           `json:"rain,omitempty"`
	Snow       *float64           `json:"snow,omitempty"`
	UVI        float64            `json:"uvi"`
	Visibility *int               `json:"visibility,omitempty"`
}

type DailyTemp struct {
	Day   float64 `json:"day"`
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
	Night float64 `json:"night"`
	Eve   float64 `json:"eve"`
	Morn  float64 `json:"morn"`
}

type FeelsLike struct {
	Day   float64 `json:"day"`
	Night float64 `json:"night"`
	Eve   float64 `json:"eve"`
	Morn  float64 `json:"morn"`
}

// WeatherCondition is a coded weather phenomenon, see
// https://openweathermap.org/weather-conditions
type WeatherCondition struct {
	ID          int    `json:"id"`
	Main        string `json:"main"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

type Alert struct {
	SenderName  string   `json:"sender_name"`
	Event       string   `json:"event"`
	Start       UnixTime `json:"start"`
	End         UnixTime `json:"end"`
	Description string   `json:"description"`
	Tags        []string `json:"tags,omitempty"`
}

// Active reports whether the alert covers the instant t.
func (a Alert) Active(t time.Time) bool {
	return !t.Before(a.Start.Time()) && t.Before(a.End.Time())
}
