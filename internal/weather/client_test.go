package weather_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/indradhanu/indradhanu/internal/model"
	"github.com/indradhanu/indradhanu/internal/weather"
)

const geocodeBody = `{"results":[{"name":"Pune","latitude":18.52,"longitude":73.86,"country":"India"}]}`

const forecastBody = `{"hourly":{
  "temperature_2m":[27.4,28.1,29.0],
  "relative_humidity_2m":[64,62,60],
  "precipitation":[1.2,0,0]
}}`

func newServers(t *testing.T, geoHandler, fcHandler http.HandlerFunc) *weather.Client {
	t.Helper()
	geo := httptest.NewServer(geoHandler)
	t.Cleanup(geo.Close)
	fc := httptest.NewServer(fcHandler)
	t.Cleanup(fc.Close)
	return weather.NewClient(geo.URL, fc.URL, 5*time.Second, false)
}

func TestResolveWeather(t *testing.T) {
	var geoQuery, fcQuery string
	c := newServers(t,
		func(w http.ResponseWriter, r *http.Request) {
			geoQuery = r.URL.RawQuery
			w.Write([]byte(geocodeBody))
		},
		func(w http.ResponseWriter, r *http.Request) {
			fcQuery = r.URL.RawQuery
			w.Write([]byte(forecastBody))
		},
	)

	snap, err := c.ResolveWeather(context.Background(), " Pune ")
	if err != nil {
		t.Fatalf("ResolveWeather: %v", err)
	}
	if snap.City != "Pune" || snap.Country != "India" {
		t.Errorf("location: got %q, %q", snap.City, snap.Country)
	}
	if snap.Temperature != 27.4 || snap.Humidity != 64 || snap.Rainfall != 1.2 {
		t.Errorf("expected first hourly samples, got %+v", snap)
	}
	if snap.Latitude != 18.52 || snap.Longitude != 73.86 {
		t.Errorf("coordinates: got %v, %v", snap.Latitude, snap.Longitude)
	}

	for _, want := range []string{"name=Pune", "count=1", "language=en", "format=json"} {
		if !strings.Contains(geoQuery, want) {
			t.Errorf("geocode query missing %q: %s", want, geoQuery)
		}
	}
	if !strings.Contains(fcQuery, "hourly=temperature_2m%2Crelative_humidity_2m%2Cprecipitation") {
		t.Errorf("forecast query missing hourly params: %s", fcQuery)
	}
}

func TestResolveWeatherEmptyCity(t *testing.T) {
	c := weather.NewClient("", "", time.Second, false)
	for _, city := range []string{"", "   "} {
		_, err := c.ResolveWeather(context.Background(), city)
		if !errors.Is(err, model.ErrInvalidInput) {
			t.Errorf("ResolveWeather(%q): expected ErrInvalidInput, got %v", city, err)
		}
	}
}

func TestResolveWeatherCityNotFound(t *testing.T) {
	c := newServers(t,
		func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"results":[]}`))
		},
		func(w http.ResponseWriter, r *http.Request) {
			t.Error("forecast must not be called when geocoding finds nothing")
		},
	)
	_, err := c.ResolveWeather(context.Background(), "atlantis")
	if !errors.Is(err, model.ErrCityNotFound) {
		t.Errorf("expected ErrCityNotFound, got %v", err)
	}
}

func TestResolveWeatherGeocodeServerError(t *testing.T) {
	c := newServers(t,
		func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "boom", http.StatusInternalServerError)
		},
		func(w http.ResponseWriter, r *http.Request) {},
	)
	_, err := c.ResolveWeather(context.Background(), "pune")
	if !errors.Is(err, model.ErrNetwork) {
		t.Errorf("expected ErrNetwork, got %v", err)
	}
	if errors.Is(err, model.ErrCityNotFound) {
		t.Error("server failure must not be reported as city-not-found")
	}
}

func TestResolveWeatherForecastTransportError(t *testing.T) {
	fc := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	fc.Close() // connection refused
	geo := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(geocodeBody))
	}))
	defer geo.Close()

	c := weather.NewClient(geo.URL, fc.URL, time.Second, false)
	_, err := c.ResolveWeather(context.Background(), "pune")
	if !errors.Is(err, model.ErrNetwork) {
		t.Errorf("expected ErrNetwork, got %v", err)
	}
}

func TestResolveWeatherTimeout(t *testing.T) {
	c := newServers(t,
		func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(200 * time.Millisecond)
			w.Write([]byte(geocodeBody))
		},
		func(w http.ResponseWriter, r *http.Request) {},
	)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := c.ResolveWeather(ctx, "pune")
	if !errors.Is(err, model.ErrTimeout) {
		t.Errorf("expected ErrTimeout, got %v", err)
	}
}

func TestResolveWeatherMissingHourlySeries(t *testing.T) {
	c := newServers(t,
		func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(geocodeBody))
		},
		func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"hourly":{"temperature_2m":[],"relative_humidity_2m":[],"precipitation":[]}}`))
		},
	)
	_, err := c.ResolveWeather(context.Background(), "pune")
	if !errors.Is(err, model.ErrNetwork) {
		t.Errorf("expected ErrNetwork for empty series, got %v", err)
	}
}
