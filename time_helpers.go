package owonecall

import "time"

// UnixTime is a timestamp in seconds since the Unix epoch, as sent by the provider.
type UnixTime int64

// Time converts the timestamp to a time.Time in UTC.
func (u UnixTime) Time() time.Time {
	return time.Unix(int64(u), 0).UTC()
}

// In converts the timestamp to a time.Time in loc. A nil loc means UTC.
func (u UnixTime) In(loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	return time.Unix(int64(u), 0).In(loc)
}

// Format formats the timestamp in loc with a time.Format layout.
func (u UnixTime) Format(layout string, loc *time.Location) string {
	return u.In(loc).Format(layout)
}

// DayName returns the weekday, e.g. "Monday".
func (u UnixTime) DayName(loc *time.Location) string {
	return u.In(loc).Weekday().String()
}

// MonthDay returns e.g. "Monday, July 06".
func (u UnixTime) MonthDay(loc *time.Location) string {
	return u.Format("Monday, January 02", loc)
}

// Hour returns the two-digit hour, e.g. "15".
func (u UnixTime) Hour(loc *time.Location) string {
	return u.Format("15", loc)
}

// HourMinute returns e.g. "15.04".
func (u UnixTime) HourMinute(loc *time.Location) string {
	return u.Format("15.04", loc)
}

// Location returns the response's time zone. It prefers the IANA name and
// falls back to a fixed zone built from the offset when the name is unknown
// to the local tz database.
func (r *Response) Location() *time.Location {
	if r == nil {
		return time.UTC
	}
	if r.Timezone != "" {
		if loc, err := time.LoadLocation(r.Timezone); err == nil {
			return loc
		}
	}
	return time.FixedZone(r.Timezone, r.TimezoneOffset)
}
