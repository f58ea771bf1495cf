package owonecall

import (
	"fmt"
	"net/url"
	"strconv"
)

// This file builds the request URLs. The options' kind alone decides between
// the forecast endpoint and the timemachine endpoint.

// endpointLabel names the endpoint selected by opts.
func endpointLabel(opts QueryOptions) string {
	if opts.Kind() == KindHistorical {
		return "timemachine"
	}
	return "onecall"
}

func formatCoordinate(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// requestURL builds <base>[/timemachine]?lat=..&lon=..<options>&appid=<key>.
func (c *Client) requestURL(lat, lon float64, opts QueryOptions) string {
	base := c.baseURL
	if opts.Kind() == KindHistorical {
		base += timemachinePath
	}
	return fmt.Sprintf("%s?lat=%s&lon=%s%s&appid=%s",
		base,
		formatCoordinate(lat),
		formatCoordinate(lon),
		opts.Encode(),
		url.QueryEscape(c.apiKey),
	)
}
