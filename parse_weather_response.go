package owonecall

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
)

// This file contains the decoding rules for One Call responses.
// Every record checks that its required keys are present before decoding, since
// encoding/json silently zero-fills missing fields. Type mismatches are reported
// by encoding/json itself. The rain and snow sub-objects are the exception: they
// never fail, whatever shape the provider sends.

// ParseResponse decodes a One Call response body.
func ParseResponse(body io.Reader) (*Response, error) {
	var response Response
	if err := json.NewDecoder(body).Decode(&response); err != nil {
		return nil, err
	}
	return &response, nil
}

// MissingFieldError reports a required key absent from (or null in) a record.
type MissingFieldError struct {
	Record string
	Field  string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("%s: missing required field %q", e.Record, e.Field)
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

func requireFields(data []byte, record string, keys ...string) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return fmt.Errorf("%s: %w", record, err)
	}
	for _, key := range keys {
		raw, ok := fields[key]
		if !ok || isNull(raw) {
			return &MissingFieldError{Record: record, Field: key}
		}
	}
	return nil
}

func (r *Response) UnmarshalJSON(data []byte) error {
	if err := requireFields(data, "response", "lat", "lon", "timezone", "timezone_offset"); err != nil {
		return err
	}
	type plain Response
	return json.Unmarshal(data, (*plain)(r))
}

func (c *Current) UnmarshalJSON(data []byte) error {
	if err := requireFields(data, "current",
		"dt", "sunrise", "sunset", "temp", "feels_like", "pressure", "humidity",
		"dew_point", "uvi", "clouds", "visibility", "wind_speed", "wind_deg", "weather",
	); err != nil {
		return err
	}
	type plain Current
	return json.Unmarshal(data, (*plain)(c))
}

func (m *Minutely) UnmarshalJSON(data []byte) error {
	if err := requireFields(data, "minutely", "dt", "precipitation"); err != nil {
		return err
	}
	type plain Minutely
	return json.Unmarshal(data, (*plain)(m))
}

func (h *Hourly) UnmarshalJSON(data []byte) error {
	if err := requireFields(data, "hourly",
		"dt", "temp", "feels_like", "pressure", "humidity", "dew_point",
		"clouds", "wind_speed", "wind_deg", "weather",
	); err != nil {
		return err
	}
	type plain Hourly
	return json.Unmarshal(data, (*plain)(h))
}

func (d *Daily) UnmarshalJSON(data []byte) error {
	if err := requireFields(data, "daily",
		"dt", "sunrise", "sunset", "temp", "feels_like", "pressure", "humidity",
		"dew_point", "wind_speed", "wind_deg", "weather", "clouds", "uvi",
	); err != nil {
		return err
	}
	type plain Daily
	return json.Unmarshal(data, (*plain)(d))
}

func (t *DailyTemp) UnmarshalJSON(data []byte) error {
	if err := requireFields(data, "daily.temp", "day", "min", "max", "night", "eve", "morn"); err != nil {
		return err
	}
	type plain DailyTemp
	return json.Unmarshal(data, (*plain)(t))
}

func (f *FeelsLike) UnmarshalJSON(data []byte) error {
	if err := requireFields(data, "daily.feels_like", "day", "night", "eve", "morn"); err != nil {
		return err
	}
	type plain FeelsLike
	return json.Unmarshal(data, (*plain)(f))
}

func (w *WeatherCondition) UnmarshalJSON(data []byte) error {
	if err := requireFields(data, "weather", "id", "main", "description", "icon"); err != nil {
		return err
	}
	type plain WeatherCondition
	return json.Unmarshal(data, (*plain)(w))
}

func (a *Alert) UnmarshalJSON(data []byte) error {
	if err := requireFields(data, "alert", "sender_name", "event", "start", "end", "description"); err != nil {
		return err
	}
	type plain Alert
	return json.Unmarshal(data, (*plain)(a))
}

// UnmarshalJSON accepts {}, {"1h": x}, {"1h": x, "3h": y} or anything else.
// A key that is missing or not a number leaves the matching field unset.
func (p *Precipitation) UnmarshalJSON(data []byte) error {
	*p = Precipitation{}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil
	}
	p.OneHour = lenientFloat(fields["1h"])
	p.ThreeHour = lenientFloat(fields["3h"])
	return nil
}

func lenientFloat(raw json.RawMessage) *float64 {
	if len(raw) == 0 || isNull(raw) {
		return nil
	}
	var v float64
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil
	}
	return &v
}

// LastHour returns the 1h volume. Safe on a nil receiver.
func (p *Precipitation) LastHour() (float64, bool) {
	if p == nil || p.OneHour == nil {
		return 0, false
	}
	return *p.OneHour, true
}

// LastThreeHours returns the 3h volume. Safe on a nil receiver.
func (p *Precipitation) LastThreeHours() (float64, bool) {
	if p == nil || p.ThreeHour == nil {
		return 0, false
	}
	return *p.ThreeHour, true
}
