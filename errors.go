package owonecall

import (
	"errors"
)

// ErrorKind classifies a failed request.
type ErrorKind int

const (
	// ErrUnknown is an unclassified failure.
	ErrUnknown ErrorKind = iota
	// ErrAPI is a 4xx/5xx answer from the provider.
	ErrAPI
	// ErrParser is a body that does not match the response schema.
	ErrParser
	// ErrNetwork is a transport failure or an unexpected status code.
	ErrNetwork
)

func (k ErrorKind) String() string {
	switch k {
	case ErrAPI:
		return "api"
	case ErrParser:
		return "parser"
	case ErrNetwork:
		return "network"
	default:
		return "unknown"
	}
}

// ErrBadServerResponse is wrapped by network errors for status codes that are
// neither 200 nor a 4xx/5xx.
var ErrBadServerResponse = errors.New("bad server response")

// WeatherError is returned by every failed fetch.
type WeatherError struct {
	Kind   ErrorKind
	Reason string
	Err    error
}

func (e *WeatherError) Error() string {
	switch {
	case e.Reason != "" && e.Err != nil:
		return e.Reason + ": " + e.Err.Error()
	case e.Reason != "":
		return e.Reason
	case e.Err != nil:
		return e.Err.Error()
	default:
		return "unknown error"
	}
}

func (e *WeatherError) Unwrap() error {
	return e.Err
}

func apiError(reason string) *WeatherError {
	return &WeatherError{Kind: ErrAPI, Reason: reason}
}

func parserError(err error) *WeatherError {
	return &WeatherError{Kind: ErrParser, Reason: "json error", Err: err}
}

func networkError(err error) *WeatherError {
	return &WeatherError{Kind: ErrNetwork, Err: err}
}

// KindOf returns the kind of a *WeatherError anywhere in err's chain,
// or ErrUnknown if there is none.
func KindOf(err error) ErrorKind {
	var werr *WeatherError
	if errors.As(err, &werr) {
		return werr.Kind
	}
	return ErrUnknown
}
