package predictor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"attrition-relay/internal/mapping"
	"attrition-relay/internal/models"

	"go.uber.org/zap"
)

// PredictRequest is the body sent to a prediction service
type PredictRequest struct {
	Features []string `json:"features"`
}

// PredictResponse is the prediction service reply
type PredictResponse struct {
	Prediction string `json:"prediction"`
}

// HTTPClient is a client for a prediction service exposing POST /predict.
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewHTTPClient creates a new prediction service client. A zero timeout
// waits indefinitely.
func NewHTTPClient(baseURL string, timeout time.Duration, logger *zap.Logger) *HTTPClient {
	logger.Info("HTTP predictor initialized", zap.String("url", baseURL))

	return &HTTPClient{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// Predict posts the features and returns the trimmed label.
func (c *HTTPClient) Predict(ctx context.Context, features mapping.FeatureVector) (models.PredictionLabel, error) {
	jsonData, err := json.Marshal(PredictRequest{Features: features.Args()})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/predict", bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", &Error{Err: fmt.Errorf("failed to send request: %w", err), Diagnostic: err.Error()}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &Error{Err: fmt.Errorf("failed to read response: %w", err), Diagnostic: err.Error()}
	}

	if resp.StatusCode != http.StatusOK {
		c.logger.Error("Prediction service returned error",
			zap.Int("status", resp.StatusCode),
			zap.ByteString("body", body))
		return "", &Error{
			Err:        fmt.Errorf("prediction service returned status %d", resp.StatusCode),
			Diagnostic: string(body),
		}
	}

	var result PredictResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return "", &Error{Err: fmt.Errorf("failed to decode response: %w", err), Diagnostic: string(body)}
	}

	return models.PredictionLabel(strings.TrimSpace(result.Prediction)), nil
}

// GetModelInfo returns predictor information
func (c *HTTPClient) GetModelInfo() map[string]interface{} {
	return map[string]interface{}{
		"mode": "http",
		"url":  c.baseURL,
	}
}
