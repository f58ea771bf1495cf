package owonecall

import (
	"embed"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

//go:embed testdata/*.json
var testData embed.FS

// --- Fixtures ---

func loadFixture(t *testing.T, name string) []byte {
	t.Helper()
	data, err := testData.ReadFile("testdata/" + name)
	require.NoError(t, err, "failed to read test data %s", name)
	return data
}

// currentJSON is a complete current record; extra is spliced in before the closing brace.
func currentJSON(extra string) string {
	return `{
		"dt": 1754300688, "sunrise": 1754277125, "sunset": 1754332200,
		"temp": 18.2, "feels_like": 17.9, "pressure": 1014, "humidity": 74,
		"dew_point": 13.4, "uvi": 2.1, "clouds": 75, "visibility": 10000,
		"wind_speed": 6.0, "wind_deg": 250,
		"weather": [{"id": 500, "main": "Rain", "description": "light rain", "icon": "10d"}]` + extra + `}`
}

func responseJSON(current string) string {
	return `{"lat": 51.1, "lon": 17.03, "timezone": "Europe/Warsaw", "timezone_offset": 7200, "current": ` + current + `}`
}

// --- Servers and clients ---

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return server
}

func newTestClient(t *testing.T, baseURL string) *Client {
	t.Helper()
	client, err := NewClient(Config{
		APIKey:     "test-key",
		BaseURL:    baseURL,
		HTTPClient: http.DefaultClient,
		Logger:     discardLogger(),
	})
	require.NoError(t, err)
	return client
}

// fixtureHandler answers every request with the named fixture.
func fixtureHandler(t *testing.T, name string) http.HandlerFunc {
	body := loadFixture(t, name)
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(body)
	}
}

// echoHandler answers with a response located at the requested coordinates,
// whose current temperature equals the latitude.
func echoHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	fmt.Fprintf(w, `{"lat": %s, "lon": %s, "timezone": "UTC", "timezone_offset": 0, "current": {
		"dt": 1754300688, "sunrise": 1754277125, "sunset": 1754332200,
		"temp": %s, "feels_like": 0, "pressure": 1000, "humidity": 50,
		"dew_point": 0, "uvi": 0, "clouds": 0, "visibility": 10000,
		"wind_speed": 0, "wind_deg": 0,
		"weather": [{"id": 800, "main": "Clear", "description": "clear sky", "icon": "01d"}]}}`,
		q.Get("lat"), q.Get("lon"), q.Get("lat"))
}
