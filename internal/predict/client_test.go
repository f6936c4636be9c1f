package predict_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/indradhanu/indradhanu/internal/model"
	"github.com/indradhanu/indradhanu/internal/predict"
)

var testConditions = model.FarmConditions{
	Nitrogen: 100, Phosphorus: 20, Potassium: 30,
	Temperature: 25.5, Humidity: 90, PHValue: 6.2, Rainfall: 300,
}

func TestPredict(t *testing.T) {
	var gotBody map[string]float64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method: expected POST, got %s", r.Method)
		}
		if r.URL.Path != "/predict" {
			t.Errorf("path: expected /predict, got %s", r.URL.Path)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("content type: got %q", ct)
		}
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decoding request body: %v", err)
		}
		w.Write([]byte(`{"success":true,"crop":"rice","confidence":92.4,"yield_kg_per_hectare":3600,"price_per_quintal":2000,"estimated_revenue":720000}`))
	}))
	defer srv.Close()

	c := predict.NewClient(srv.URL, 5*time.Second, 5.0, false)
	pred, err := c.Predict(context.Background(), testConditions)
	if err != nil {
		t.Fatalf("Predict: %v", err)
	}
	if pred.Crop != "rice" || pred.Confidence != 92.4 {
		t.Errorf("unexpected prediction: %+v", pred)
	}
	if pred.YieldKgPerHa != 3600 || pred.PricePerQuintal != 2000 || pred.EstimatedRevenue != 720000 {
		t.Errorf("unexpected economics: %+v", pred)
	}

	want := map[string]float64{
		"nitrogen": 100, "phosphorus": 20, "potassium": 30,
		"temperature": 25.5, "humidity": 90, "ph_value": 6.2, "rainfall": 300,
	}
	for k, v := range want {
		if gotBody[k] != v {
			t.Errorf("request body %s: expected %v, got %v", k, v, gotBody[k])
		}
	}
}

func TestPredictSuccessFalse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":false}`))
	}))
	defer srv.Close()

	c := predict.NewClient(srv.URL, time.Second, 5.0, false)
	_, err := c.Predict(context.Background(), testConditions)
	if !errors.Is(err, model.ErrPredictionFailed) {
		t.Errorf("expected ErrPredictionFailed, got %v", err)
	}
}

func TestPredictNon2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model unavailable", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := predict.NewClient(srv.URL, time.Second, 5.0, false)
	_, err := c.Predict(context.Background(), testConditions)
	if !errors.Is(err, model.ErrPredictionFailed) {
		t.Errorf("expected ErrPredictionFailed, got %v", err)
	}
}

func TestPredictTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused

	c := predict.NewClient(srv.URL, time.Second, 5.0, false)
	_, err := c.Predict(context.Background(), testConditions)
	if !errors.Is(err, model.ErrNetwork) {
		t.Errorf("expected ErrNetwork, got %v", err)
	}
}

func TestPredictTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.Write([]byte(`{"success":true,"crop":"rice"}`))
	}))
	defer srv.Close()

	c := predict.NewClient(srv.URL, time.Second, 5.0, false)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := c.Predict(ctx, testConditions)
	if !errors.Is(err, model.ErrTimeout) {
		t.Errorf("expected ErrTimeout, got %v", err)
	}
}

func TestPredictGarbageBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html>not json</html>`))
	}))
	defer srv.Close()

	c := predict.NewClient(srv.URL, time.Second, 5.0, false)
	_, err := c.Predict(context.Background(), testConditions)
	if !errors.Is(err, model.ErrPredictionFailed) {
		t.Errorf("expected ErrPredictionFailed, got %v", err)
	}
}
