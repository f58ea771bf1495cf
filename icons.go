package owonecall

// DefaultIcon is returned by IconFromID and IconFromCode when nothing matches.
const DefaultIcon = "questionmark"

// IconFromID maps the condition code to a symbol name. Prefer it over IconFromCode.
func (w WeatherCondition) IconFromID() string {
	return w.IconFromIDOr(DefaultIcon)
}

// IconFromIDOr is IconFromID with a caller-chosen placeholder.
func (w WeatherCondition) IconFromIDOr(fallback string) string {
	switch id := w.ID; {
	case id >= 200 && id <= 232: // thunderstorm
		return "cloud.bolt.rain"
	case id >= 300 && id <= 321: // drizzle
		return "cloud.drizzle"
	case id >= 500 && id <= 531: // rain
		return "cloud.rain"
	case id >= 600 && id <= 622: // snow
		return "cloud.snow"
	case id >= 701 && id <= 781: // mist, smoke, haze, dust, fog, squalls, tornado
		return "cloud.fog"
	case id == 800:
		return "sun.max"
	case id >= 801 && id <= 804:
		return "cloud.sun"
	default:
		return fallback
	}
}

// IconFromCode maps the provider icon token (e.g. "10d") to a symbol name.
func (w WeatherCondition) IconFromCode() string {
	return w.IconFromCodeOr(DefaultIcon)
}

// IconFromCodeOr is IconFromCode with a caller-chosen placeholder.
func (w WeatherCondition) IconFromCodeOr(fallback string) string {
	switch w.Icon {
	case "01d":
		return "sun.max"
	case "01n":
		return "moon"
	case "02d":
		return "cloud.sun"
	case "02n":
		return "cloud.moon"
	case "03d", "03n":
		return "cloud"
	case "04d", "04n":
		return "smoke"
	case "09d", "09n":
		return "cloud.drizzle"
	case "10d":
		return "cloud.sun.rain"
	case "10n":
		return "cloud.moon.rain"
	case "11d", "11n":
		return "cloud.bolt.rain"
	case "13d", "13n":
		return "snow"
	case "50d", "50n":
		return "cloud.fog"
	default:
		return fallback
	}
}

// IconName returns the icon for the first weather condition, or DefaultIcon when there is none.
func (c Current) IconName() string {
	if len(c.Weather) == 0 {
		return DefaultIcon
	}
	return c.Weather[0].IconFromID()
}
