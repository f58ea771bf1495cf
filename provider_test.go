package owonecall

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestProvider(t *testing.T, handler http.HandlerFunc) *Provider {
	t.Helper()
	server := newTestServer(t, handler)
	return NewProviderWithClient(newTestClient(t, server.URL), nil)
}

// newBlockingProvider returns a provider whose server holds every request
// until the client goes away or the test ends.
func newBlockingProvider(t *testing.T) *Provider {
	t.Helper()
	release := make(chan struct{})
	provider := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-release:
		}
	})
	// Registered after the server, so it runs before the server is closed.
	t.Cleanup(func() { close(release) })
	return provider
}

func waitDone(t *testing.T, call *Call) {
	t.Helper()
	select {
	case <-call.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("call did not finish in time")
	}
}

func TestNewProvider(t *testing.T) {
	_, err := NewProvider("")
	assert.ErrorIs(t, err, ErrMissingAPIKey)

	provider, err := NewProvider("key")
	require.NoError(t, err)
	assert.Equal(t, BaseURL, provider.Client().BaseURL())
}

func TestProvider_Weather(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		provider := newTestProvider(t, echoHandler)

		response := provider.Weather(context.Background(), 12.5, 4, CurrentOptions("en"))
		require.NotNil(t, response)
		assert.Equal(t, 12.5, response.Lat)
		assert.Equal(t, 4.0, response.Lon)
		assert.Equal(t, "Clear Sky 12.5°", provider.WeatherInfo(context.Background(), 12.5, 4, nil))
	})

	t.Run("Failure yields nil", func(t *testing.T) {
		provider := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		})

		assert.Nil(t, provider.Weather(context.Background(), 1, 2, nil))
		assert.Equal(t, "", provider.WeatherInfo(context.Background(), 1, 2, nil))
	})
}

func TestProvider_WeatherAsync(t *testing.T) {
	t.Run("Completion runs exactly once", func(t *testing.T) {
		provider := newTestProvider(t, echoHandler)

		var calls atomic.Int32
		var got *Response
		var gotErr error
		call := provider.WeatherAsync(context.Background(), 3, 4, nil, func(response *Response, err error) {
			calls.Add(1)
			got, gotErr = response, err
		})
		waitDone(t, call)

		assert.Equal(t, int32(1), calls.Load())
		require.NoError(t, gotErr)
		require.NotNil(t, got)
		assert.Equal(t, 3.0, got.Lat)

		// Cancelling after delivery changes nothing.
		call.Cancel()
		assert.Equal(t, int32(1), calls.Load())
	})

	t.Run("Errors are delivered with their kind", func(t *testing.T) {
		provider := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		})

		var got *Response
		var gotErr error
		call := provider.WeatherAsync(context.Background(), 1, 2, nil, func(response *Response, err error) {
			got, gotErr = response, err
		})
		waitDone(t, call)

		assert.Nil(t, got)
		var werr *WeatherError
		require.True(t, errors.As(gotErr, &werr))
		assert.Equal(t, ErrAPI, werr.Kind)
		assert.Equal(t, "server error", werr.Reason)
	})

	t.Run("Cancelled call never completes", func(t *testing.T) {
		provider := newBlockingProvider(t)

		var calls atomic.Int32
		call := provider.WeatherAsync(context.Background(), 1, 2, nil, func(*Response, error) {
			calls.Add(1)
		})
		call.Cancel()
		waitDone(t, call)

		assert.Equal(t, int32(0), calls.Load())
	})

	t.Run("Cancel drops a completion queued on the dispatcher", func(t *testing.T) {
		queue := make(chan func(), 1)
		provider := newTestProvider(t, echoHandler).WithDispatcher(func(f func()) {
			queue <- f
		})

		var calls atomic.Int32
		call := provider.WeatherAsync(context.Background(), 1, 2, nil, func(*Response, error) {
			calls.Add(1)
		})

		var queued func()
		select {
		case queued = <-queue:
		case <-time.After(5 * time.Second):
			t.Fatal("completion was never dispatched")
		}
		select {
		case <-call.Done():
			t.Fatal("Done closed before the queued completion ran")
		default:
		}

		call.Cancel()
		queued()
		waitDone(t, call)

		assert.Equal(t, int32(0), calls.Load())
	})

	t.Run("Queued completion runs when not cancelled", func(t *testing.T) {
		queue := make(chan func(), 1)
		provider := newTestProvider(t, echoHandler).WithDispatcher(func(f func()) {
			queue <- f
		})

		var calls atomic.Int32
		call := provider.WeatherAsync(context.Background(), 1, 2, nil, func(*Response, error) {
			calls.Add(1)
		})
		(<-queue)()
		waitDone(t, call)

		assert.Equal(t, int32(1), calls.Load())
		call.Cancel()
		assert.Equal(t, int32(1), calls.Load())
	})

	t.Run("Parent context cancellation is delivered as a network error", func(t *testing.T) {
		provider := newBlockingProvider(t)
		ctx, cancel := context.WithCancel(context.Background())

		errs := make(chan error, 1)
		call := provider.WeatherAsync(ctx, 1, 2, nil, func(_ *Response, err error) {
			errs <- err
		})
		cancel()
		waitDone(t, call)

		require.Len(t, errs, 1)
		assert.Equal(t, ErrNetwork, KindOf(<-errs))
	})
}

func TestProvider_WeatherInto(t *testing.T) {
	t.Run("Stores successful responses", func(t *testing.T) {
		provider := newTestProvider(t, echoHandler)
		binding := NewBinding(NewResponse())

		call := provider.WeatherInto(context.Background(), 7, 8, HourlyForecastOptions("en"), binding)
		waitDone(t, call)

		require.NotNil(t, binding.Load())
		assert.Equal(t, 7.0, binding.Load().Lat)
		assert.False(t, binding.UpdatedAt().IsZero())
	})

	t.Run("Failures leave the slot untouched", func(t *testing.T) {
		provider := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"lat": 1}`))
		})
		var stores atomic.Int32
		slot := SlotFunc(func(context.Context, *Response) error {
			stores.Add(1)
			return nil
		})

		call := provider.WeatherInto(context.Background(), 1, 2, nil, slot)
		waitDone(t, call)

		assert.Equal(t, int32(0), stores.Load())
	})

	t.Run("Slot errors are dropped", func(t *testing.T) {
		provider := newTestProvider(t, echoHandler)
		var ctxErr error
		slot := SlotFunc(func(ctx context.Context, _ *Response) error {
			ctxErr = ctx.Err()
			return errors.New("slot full")
		})

		call := provider.WeatherInto(context.Background(), 1, 2, nil, slot)
		waitDone(t, call)

		assert.NoError(t, ctxErr)
	})
}

func TestProvider_WithDispatcher(t *testing.T) {
	base := newTestProvider(t, echoHandler)

	var dispatched atomic.Int32
	provider := base.WithDispatcher(func(f func()) {
		dispatched.Add(1)
		f()
	})
	binding := NewBinding(nil)

	waitDone(t, provider.WeatherInto(context.Background(), 5, 6, nil, binding))
	assert.Equal(t, int32(1), dispatched.Load())
	assert.NotNil(t, binding.Load())

	// base still runs completions inline.
	waitDone(t, base.WeatherInto(context.Background(), 5, 6, nil, binding))
	assert.Equal(t, int32(1), dispatched.Load())

	// A nil dispatcher restores the default.
	assert.NotNil(t, base.WithDispatcher(nil).dispatch)
}

func TestProvider_ConcurrentCalls(t *testing.T) {
	provider := newTestProvider(t, echoHandler)

	const n = 20
	var wg sync.WaitGroup
	results := make([]*Response, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = provider.Weather(context.Background(), float64(i), float64(-i), nil)
		}(i)
	}
	wg.Wait()

	for i, response := range results {
		require.NotNil(t, response, "call %d", i)
		assert.Equal(t, float64(i), response.Lat)
		assert.Equal(t, float64(-i), response.Lon)
	}
}
