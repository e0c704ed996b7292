package classify

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"

	"github.com/spec-kit/civic-report/internal/config"
	"github.com/spec-kit/civic-report/internal/domain"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(config.ClassifierConfig{URL: server.URL, TimeoutSeconds: 5}, zap.NewNop())
}

func predictionsHandler(t *testing.T, resp Response) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(10 << 20); err != nil {
			t.Errorf("expected multipart form: %v", err)
		}
		if _, _, err := r.FormFile("image"); err != nil {
			t.Errorf("expected image field: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}
}

func TestRoutePotholesToBBMP(t *testing.T) {
	client := newTestClient(t, predictionsHandler(t, Response{
		Predictions: []Prediction{{Class: "potholes", Confidence: 0.91}},
		TopClass:    "potholes",
	}))

	department, err := client.Route(context.Background(), "road.jpg", []byte("img"))
	if err != nil {
		t.Fatalf("route: %v", err)
	}
	if department != domain.DepartmentBBMP {
		t.Fatalf("expected BBMP, got %s", department)
	}
}

func TestRouteDogToAnimalWelfare(t *testing.T) {
	client := newTestClient(t, predictionsHandler(t, Response{
		Predictions: []Prediction{{Class: "dog", Confidence: 0.77}},
		TopClass:    "dog",
	}))

	department, err := client.Route(context.Background(), "dog.jpg", []byte("img"))
	if err != nil {
		t.Fatalf("route: %v", err)
	}
	if department != domain.DepartmentAnimalWelfare {
		t.Fatalf("expected ANIMAL_WELFARE, got %s", department)
	}
}

func TestRouteEmptyPredictions(t *testing.T) {
	client := newTestClient(t, predictionsHandler(t, Response{Predictions: []Prediction{}}))

	_, err := client.Route(context.Background(), "blank.jpg", []byte("img"))
	if !errors.Is(err, ErrNoPrediction) {
		t.Fatalf("expected ErrNoPrediction, got %v", err)
	}
}

func TestRouteUnknownCategory(t *testing.T) {
	client := newTestClient(t, predictionsHandler(t, Response{
		Predictions: []Prediction{{Class: "cat", Confidence: 0.99}},
	}))

	_, err := client.Route(context.Background(), "cat.jpg", []byte("img"))
	if !errors.Is(err, ErrUnknownCategory) {
		t.Fatalf("expected ErrUnknownCategory, got %v", err)
	}
}

func TestPredictNonOKStatus(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"No image uploaded"}`, http.StatusBadRequest)
	})

	if _, err := client.Predict(context.Background(), "x.jpg", []byte("img")); err == nil {
		t.Fatal("expected error for non-200 response")
	}
}
