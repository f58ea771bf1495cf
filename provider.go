package owonecall

import (
	"context"
	"log/slog"
	"sync"
)

// This file contains the Provider, the high-level entry point of the package.
// A Provider offers one operation, Client.Fetch, through three calling conventions:
//   - Weather blocks until the response is decoded and returns nil on failure;
//   - WeatherAsync runs in the background and invokes a completion exactly once;
//   - WeatherInto runs in the background and stores successful results in a Slot.
// Callers that need the classified error use Client directly.

// Dispatcher runs completions on the execution context the caller expects results on,
// for instance by posting them to a UI event loop.
type Dispatcher func(func())

func inline(f func()) { f() }

type Provider struct {
	client   *Client
	logger   *slog.Logger
	dispatch Dispatcher
}

// NewProvider returns a Provider backed by a default Client for apiKey.
func NewProvider(apiKey string) (*Provider, error) {
	client, err := NewClient(Config{APIKey: apiKey})
	if err != nil {
		return nil, err
	}
	return NewProviderWithClient(client, nil), nil
}

// NewProviderWithClient returns a Provider backed by client. A nil logger reuses the client's.
func NewProviderWithClient(client *Client, logger *slog.Logger) *Provider {
	if logger == nil {
		logger = client.logger
	}
	return &Provider{
		client:   client,
		logger:   logger.With("component", "onecall-provider"),
		dispatch: inline,
	}
}

// WithDispatcher returns a copy of p delivering background results through d.
// The default runs them on the background goroutine.
func (p *Provider) WithDispatcher(d Dispatcher) *Provider {
	cp := *p
	if d == nil {
		d = inline
	}
	cp.dispatch = d
	return &cp
}

// Client returns the underlying client.
func (p *Provider) Client() *Client {
	return p.client
}

// Weather fetches the weather at the given location, or returns nil if anything went wrong.
func (p *Provider) Weather(ctx context.Context, lat, lon float64, opts QueryOptions) *Response {
	response, err := p.client.Fetch(ctx, lat, lon, opts)
	if err != nil {
		p.logger.Warn("failed to fetch weather", "lat", lat, "lon", lon, "error", err)
		return nil
	}
	return response
}

// WeatherInfo fetches the current weather and returns its one-line summary,
// or "" when the fetch failed or carried no current conditions.
func (p *Provider) WeatherInfo(ctx context.Context, lat, lon float64, opts QueryOptions) string {
	return p.Weather(ctx, lat, lon, opts).WeatherInfo()
}

// WeatherAsync fetches in the background and calls completion exactly once with
// the result, unless the returned Call is cancelled first, in which case it is never called.
func (p *Provider) WeatherAsync(ctx context.Context, lat, lon float64, opts QueryOptions, completion func(*Response, error)) *Call {
	return p.start(ctx, lat, lon, opts, completion)
}

// WeatherInto fetches in the background and stores a successful response in slot.
// Failures are logged and otherwise ignored.
func (p *Provider) WeatherInto(ctx context.Context, lat, lon float64, opts QueryOptions, slot Slot) *Call {
	return p.start(ctx, lat, lon, opts, func(response *Response, err error) {
		if err != nil {
			p.logger.Warn("failed to fetch weather", "lat", lat, "lon", lon, "error", err)
			return
		}
		if err := slot.Store(context.WithoutCancel(ctx), response); err != nil {
			p.logger.Warn("failed to store weather", "lat", lat, "lon", lon, "error", err)
		}
	})
}

func (p *Provider) start(ctx context.Context, lat, lon float64, opts QueryOptions, deliver func(*Response, error)) *Call {
	callCtx, cancel := context.WithCancel(ctx)
	call := &Call{
		cancel: cancel,
		done:   make(chan struct{}),
	}

	go func() {
		defer cancel()

		response, err := p.client.Fetch(callCtx, lat, lon, opts)
		// Claim where the completion runs: a Cancel issued while it sits in
		// the dispatcher's queue must still drop it.
		p.dispatch(func() {
			defer close(call.done)
			if !call.claim() {
				p.logger.Debug("call abandoned, dropping result", "lat", lat, "lon", lon)
				return
			}
			deliver(response, err)
		})
	}()

	return call
}

// Call is a background fetch started by WeatherAsync or WeatherInto.
type Call struct {
	cancel context.CancelFunc
	done   chan struct{}

	mu        sync.Mutex
	abandoned bool
	delivered bool
}

// Cancel abandons the call: the request is cancelled and its completion
// will not run, even if it is already queued on the Dispatcher. It has no
// effect once the completion has started.
func (c *Call) Cancel() {
	c.mu.Lock()
	if !c.delivered {
		c.abandoned = true
	}
	c.mu.Unlock()
	c.cancel()
}

// Done is closed after the completion has run or been dropped, on whatever
// goroutine the Dispatcher runs it.
func (c *Call) Done() <-chan struct{} {
	return c.done
}

// claim reports whether the completion may run, and if so forbids later abandonment.
func (c *Call) claim() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.abandoned {
		return false
	}
	c.delivered = true
	return true
}
