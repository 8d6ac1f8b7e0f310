package predictor_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"attrition-relay/internal/mapping"
	"attrition-relay/internal/models"
	"attrition-relay/internal/predictor"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// TestHelperProcess is not a real test. It stands in for the predictor
// process when re-executed by helperClient.
func TestHelperProcess(t *testing.T) {
	if os.Getenv("GO_WANT_HELPER_PROCESS") != "1" {
		return
	}

	args := os.Args
	for i, arg := range args {
		if arg == "--" {
			args = args[i+1:]
			break
		}
	}

	mode, features := args[0], args[1:]
	switch mode {
	case "label":
		if len(features) != mapping.FeatureCount {
			fmt.Fprintf(os.Stderr, "Error: Expected %d features, got %d\n", mapping.FeatureCount, len(features))
			os.Exit(1)
		}
		if features[1] == "1" {
			fmt.Println("  Yes  ")
		} else {
			fmt.Println("No")
		}
		os.Exit(0)
	case "fail":
		fmt.Fprint(os.Stderr, "model file not found")
		os.Exit(2)
	}
	os.Exit(3)
}

func helperClient(t *testing.T, mode string) *predictor.ExecClient {
	t.Helper()
	t.Setenv("GO_WANT_HELPER_PROCESS", "1")

	client, err := predictor.NewExecClient(predictor.ExecConfig{
		Command: os.Args[0],
		Args:    []string{"-test.run=TestHelperProcess", "--", mode},
	}, zap.NewNop())
	require.NoError(t, err)
	return client
}

func TestExecClientReturnsTrimmedLabel(t *testing.T) {
	client := helperClient(t, "label")

	label, err := client.Predict(context.Background(), mapping.Features(models.EmployeeRecord{
		models.FieldOverTime: "Yes",
	}))
	require.NoError(t, err)
	assert.Equal(t, models.PredictionLabel("Yes"), label)

	label, err = client.Predict(context.Background(), mapping.Features(models.EmployeeRecord{}))
	require.NoError(t, err)
	assert.Equal(t, models.PredictionLabel("No"), label)
}

func TestExecClientNonZeroExit(t *testing.T) {
	client := helperClient(t, "fail")

	_, err := client.Predict(context.Background(), mapping.Features(models.SampleEmployee()))
	require.Error(t, err)

	var predErr *predictor.Error
	require.True(t, errors.As(err, &predErr))
	assert.Equal(t, "model file not found", predErr.Diagnostic)
	assert.Contains(t, err.Error(), "exit status 2")
}

func TestExecClientMissingBinary(t *testing.T) {
	client, err := predictor.NewExecClient(predictor.ExecConfig{
		Command: "definitely-not-a-predictor-binary",
	}, zap.NewNop())
	require.NoError(t, err)

	_, err = client.Predict(context.Background(), mapping.Features(nil))
	require.Error(t, err)

	var predErr *predictor.Error
	require.True(t, errors.As(err, &predErr))
	assert.NotEmpty(t, predErr.Diagnostic)
}

func TestNewExecClientRequiresCommand(t *testing.T) {
	_, err := predictor.NewExecClient(predictor.ExecConfig{}, zap.NewNop())
	assert.Error(t, err)
}

func TestHTTPClientPredict(t *testing.T) {
	var got predictor.PredictRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/predict", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"prediction":" Yes\n"}`))
	}))
	defer srv.Close()

	client := predictor.NewHTTPClient(srv.URL+"/", 0, zap.NewNop())
	label, err := client.Predict(context.Background(), mapping.Features(models.SampleEmployee()))
	require.NoError(t, err)

	assert.Equal(t, models.PredictionLabel("Yes"), label)
	require.Len(t, got.Features, mapping.FeatureCount)
	assert.Equal(t, "2863", got.Features[0])
	assert.Equal(t, "0", got.Features[1])
}

func TestHTTPClientErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte("bad features"))
	}))
	defer srv.Close()

	client := predictor.NewHTTPClient(srv.URL, 0, zap.NewNop())
	_, err := client.Predict(context.Background(), mapping.Features(nil))
	require.Error(t, err)

	var predErr *predictor.Error
	require.True(t, errors.As(err, &predErr))
	assert.Equal(t, "bad features", predErr.Diagnostic)
	assert.True(t, strings.Contains(err.Error(), "422"))
}
