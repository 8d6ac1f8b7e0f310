package predictor

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"attrition-relay/internal/mapping"
	"attrition-relay/internal/models"

	"go.uber.org/zap"
)

// Error reports a failed prediction together with the predictor's own output.
type Error struct {
	Err        error
	Diagnostic string
}

func (e *Error) Error() string {
	return e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// ExecConfig describes how to launch the predictor process.
type ExecConfig struct {
	Command string
	Args    []string // placed before the feature arguments
	Dir     string
	Timeout time.Duration // zero waits indefinitely
}

// ExecClient runs an external process per prediction. The process receives
// the features as positional arguments and prints a single label line.
type ExecClient struct {
	cfg    ExecConfig
	logger *zap.Logger
}

// NewExecClient creates a new subprocess predictor
func NewExecClient(cfg ExecConfig, logger *zap.Logger) (*ExecClient, error) {
	if cfg.Command == "" {
		return nil, fmt.Errorf("predictor command is required")
	}

	logger.Info("Exec predictor initialized",
		zap.String("command", cfg.Command),
		zap.Strings("args", cfg.Args),
		zap.String("dir", cfg.Dir))

	return &ExecClient{
		cfg:    cfg,
		logger: logger,
	}, nil
}

// Predict runs the predictor once and returns its trimmed stdout.
func (c *ExecClient) Predict(ctx context.Context, features mapping.FeatureVector) (models.PredictionLabel, error) {
	if c.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.cfg.Timeout)
		defer cancel()
	}

	args := make([]string, 0, len(c.cfg.Args)+mapping.FeatureCount)
	args = append(args, c.cfg.Args...)
	args = append(args, features.Args()...)

	cmd := exec.CommandContext(ctx, c.cfg.Command, args...)
	cmd.Dir = c.cfg.Dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	err := cmd.Run()
	if err != nil {
		diagnostic := stderr.String()
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) && diagnostic == "" {
			diagnostic = err.Error()
		}
		c.logger.Error("Predictor process failed",
			zap.Error(err),
			zap.String("stderr", diagnostic))
		return "", &Error{Err: err, Diagnostic: diagnostic}
	}

	label := models.PredictionLabel(strings.TrimSpace(stdout.String()))
	c.logger.Debug("Predictor finished",
		zap.String("prediction", string(label)),
		zap.Duration("elapsed", time.Since(start)))

	return label, nil
}

// GetModelInfo returns predictor information
func (c *ExecClient) GetModelInfo() map[string]interface{} {
	return map[string]interface{}{
		"mode":    "exec",
		"command": c.cfg.Command,
		"args":    c.cfg.Args,
	}
}
