// Package classify calls the external image-classification endpoint used to
// auto-route complaints to a department.
package classify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/civic-report/internal/config"
	"github.com/spec-kit/civic-report/internal/domain"
)

var (
	// ErrNoPrediction indicates the classifier returned no predictions.
	ErrNoPrediction = errors.New("no class found in image")
	// ErrUnknownCategory indicates the predicted class maps to no department.
	ErrUnknownCategory = errors.New("unknown category")
)

// Prediction is one (category, confidence) pair from the classifier.
type Prediction struct {
	Class      string  `json:"class"`
	Confidence float64 `json:"confidence"`
}

// Response mirrors the classifier endpoint's JSON body.
type Response struct {
	Predictions    []Prediction `json:"predictions"`
	TopClass       string       `json:"top_class"`
	AnnotatedImage string       `json:"annotated_image"`
}

// categoryRouting maps predicted classes to the departments that handle them.
var categoryRouting = map[string]domain.DepartmentCode{
	"potholes": domain.DepartmentBBMP,
	"dog":      domain.DepartmentAnimalWelfare,
}

// Client uploads images to the prediction endpoint and maps the result to a
// department code.
type Client struct {
	url    string
	http   *http.Client
	logger *zap.Logger
}

// NewClient builds a classifier client from configuration.
func NewClient(cfg config.ClassifierConfig, logger *zap.Logger) *Client {
	return &Client{
		url:    cfg.URL,
		http:   &http.Client{Timeout: cfg.Timeout()},
		logger: logger,
	}
}

// Predict uploads image bytes as a multipart form and returns the raw
// predictions.
func (c *Client) Predict(ctx context.Context, filename string, image []byte) (*Response, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("image", filename)
	if err != nil {
		return nil, err
	}
	if _, err := part.Write(image); err != nil {
		return nil, err
	}
	if err := writer.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, &body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("classifier returned %d: %s", resp.StatusCode, raw)
	}

	var result Response
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, err
	}

	c.logger.Debug("classifier responded",
		zap.Int("predictions", len(result.Predictions)),
		zap.String("top_class", result.TopClass),
		zap.Duration("duration", time.Since(start)),
	)
	return &result, nil
}

// Route classifies the image and maps the first prediction to a department.
// It fails with ErrNoPrediction or ErrUnknownCategory when no department can
// be assigned, which aborts complaint creation.
func (c *Client) Route(ctx context.Context, filename string, image []byte) (domain.DepartmentCode, error) {
	result, err := c.Predict(ctx, filename, image)
	if err != nil {
		return "", err
	}
	if len(result.Predictions) == 0 {
		return "", ErrNoPrediction
	}
	department, ok := categoryRouting[result.Predictions[0].Class]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownCategory, result.Predictions[0].Class)
	}
	return department, nil
}
