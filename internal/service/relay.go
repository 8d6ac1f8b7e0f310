package service

import (
	"context"
	"fmt"
	"time"

	"attrition-relay/internal/mapping"
	"attrition-relay/internal/metrics"
	"attrition-relay/internal/models"
	"attrition-relay/internal/sheets"

	"go.uber.org/zap"
)

// Predictor interface for any attrition predictor
type Predictor interface {
	Predict(ctx context.Context, features mapping.FeatureVector) (models.PredictionLabel, error)
	GetModelInfo() map[string]interface{}
}

// SheetClient interface for the tabular store rows are appended to
type SheetClient interface {
	AppendRow(ctx context.Context, row models.SheetRow) (*sheets.AppendResult, error)
	SpreadsheetTitle(ctx context.Context) (string, error)
}

// EmployeeResult is the outcome of a successful predict-and-append run.
type EmployeeResult struct {
	Prediction models.PredictionLabel
	Append     *sheets.AppendResult
}

// Relay runs employee records through the predictor and into the sheet.
// It holds no per-request state.
type Relay struct {
	predictor Predictor
	sheet     SheetClient
	rows      *mapping.RowBuilder
	metrics   *metrics.Manager
	logger    *zap.Logger
}

// NewRelay creates a new relay service
func NewRelay(
	predictor Predictor,
	sheet SheetClient,
	rows *mapping.RowBuilder,
	metricsManager *metrics.Manager,
	logger *zap.Logger,
) *Relay {
	return &Relay{
		predictor: predictor,
		sheet:     sheet,
		rows:      rows,
		metrics:   metricsManager,
		logger:    logger,
	}
}

// AddEmployee predicts attrition for rec and appends the resulting row.
// A predictor failure stops the run before anything is written; an append
// failure discards the prediction.
func (r *Relay) AddEmployee(ctx context.Context, rec models.EmployeeRecord) (*EmployeeResult, error) {
	features := mapping.Features(rec)

	start := time.Now()
	prediction, err := r.predictor.Predict(ctx, features)
	r.metrics.RecordPrediction(string(prediction), time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("predictor: %w", err)
	}

	row := r.rows.Build(rec, prediction)

	result, err := r.sheet.AppendRow(ctx, row)
	r.metrics.RecordSheetAppend(err)
	if err != nil {
		return nil, fmt.Errorf("sheets: %w", err)
	}

	r.logger.Info("Employee line added",
		zap.String("prediction", string(prediction)),
		zap.String("updated_range", result.UpdatedRange))

	return &EmployeeResult{
		Prediction: prediction,
		Append:     result,
	}, nil
}

// AppendRaw appends the record's values as-is, in insertion order.
func (r *Relay) AppendRaw(ctx context.Context, rec models.OrderedRecord) (*sheets.AppendResult, error) {
	result, err := r.sheet.AppendRow(ctx, rec.Row())
	r.metrics.RecordSheetAppend(err)
	if err != nil {
		return nil, fmt.Errorf("sheets: %w", err)
	}

	r.logger.Info("Raw row appended",
		zap.Int("cells", len(rec.Values)),
		zap.String("updated_range", result.UpdatedRange))

	return result, nil
}

// SheetTitle checks connectivity by reading the spreadsheet title.
func (r *Relay) SheetTitle(ctx context.Context) (string, error) {
	title, err := r.sheet.SpreadsheetTitle(ctx)
	if err != nil {
		return "", fmt.Errorf("sheets: %w", err)
	}
	return title, nil
}

// GetModelInfo returns predictor information
func (r *Relay) GetModelInfo() map[string]interface{} {
	return r.predictor.GetModelInfo()
}
