package service_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"attrition-relay/internal/mapping"
	"attrition-relay/internal/metrics"
	"attrition-relay/internal/models"
	"attrition-relay/internal/predictor"
	"attrition-relay/internal/service"
	"attrition-relay/internal/sheets"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubPredictor struct {
	label    models.PredictionLabel
	err      error
	calls    int
	features []mapping.FeatureVector
}

func (s *stubPredictor) Predict(ctx context.Context, features mapping.FeatureVector) (models.PredictionLabel, error) {
	s.calls++
	s.features = append(s.features, features)
	if s.err != nil {
		return "", s.err
	}
	return s.label, nil
}

func (s *stubPredictor) GetModelInfo() map[string]interface{} {
	return map[string]interface{}{"mode": "stub"}
}

type stubSheet struct {
	err   error
	rows  []models.SheetRow
	title string
}

func (s *stubSheet) AppendRow(ctx context.Context, row models.SheetRow) (*sheets.AppendResult, error) {
	s.rows = append(s.rows, row)
	if s.err != nil {
		return nil, s.err
	}
	return &sheets.AppendResult{SpreadsheetID: "sheet-123", UpdatedRows: 1, UpdatedCells: int64(len(row))}, nil
}

func (s *stubSheet) SpreadsheetTitle(ctx context.Context) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	return s.title, nil
}

func newRelay(p *stubPredictor, s *stubSheet) (*service.Relay, *metrics.Manager) {
	m := metrics.NewManager()
	return service.NewRelay(p, s, mapping.NewRowBuilder(mapping.RowConfig{}), m, zap.NewNop()), m
}

func TestAddEmployee(t *testing.T) {
	p := &stubPredictor{label: "No"}
	s := &stubSheet{}
	relay, m := newRelay(p, s)

	rec := models.SampleEmployee()
	rec[models.FieldOverTime] = "Yes"

	result, err := relay.AddEmployee(context.Background(), rec)
	require.NoError(t, err)

	assert.Equal(t, models.PredictionLabel("No"), result.Prediction)
	assert.Equal(t, int64(mapping.RowWidth), result.Append.UpdatedCells)

	require.Equal(t, 1, p.calls)
	assert.Equal(t, 1, p.features[0][1])
	assert.Equal(t, json.Number("2863"), p.features[0][0])

	require.Len(t, s.rows, 1)
	assert.Equal(t, "No", s.rows[0][mapping.ColumnPrediction])
	assert.Equal(t, "Yes", s.rows[0][mapping.ColumnRecord+20], "the sheet keeps the raw overTime value")

	count, err := testutil.GatherAndCount(m.Registry(), "attrition_relay_predictions_total", "attrition_relay_sheet_appends_total")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestAddEmployeePredictorFailureSkipsAppend(t *testing.T) {
	p := &stubPredictor{err: &predictor.Error{Err: errors.New("exit status 1"), Diagnostic: "Traceback"}}
	s := &stubSheet{}
	relay, _ := newRelay(p, s)

	_, err := relay.AddEmployee(context.Background(), models.SampleEmployee())
	require.Error(t, err)

	var predErr *predictor.Error
	assert.True(t, errors.As(err, &predErr))
	assert.Contains(t, err.Error(), "predictor:")
	assert.Empty(t, s.rows)
}

func TestAddEmployeeAppendFailure(t *testing.T) {
	p := &stubPredictor{label: "Yes"}
	s := &stubSheet{err: &sheets.Error{Op: "append", Err: errors.New("forbidden"), Details: "denied"}}
	relay, _ := newRelay(p, s)

	_, err := relay.AddEmployee(context.Background(), models.SampleEmployee())
	require.Error(t, err)

	var sheetErr *sheets.Error
	assert.True(t, errors.As(err, &sheetErr))
	assert.Contains(t, err.Error(), "sheets:")
	assert.Equal(t, 1, p.calls)
}

func TestAppendRaw(t *testing.T) {
	s := &stubSheet{}
	relay, _ := newRelay(&stubPredictor{}, s)

	_, err := relay.AppendRaw(context.Background(), models.OrderedRecord{
		Keys:   []string{"a", "b"},
		Values: []any{json.Number("1"), json.Number("2")},
	})
	require.NoError(t, err)

	require.Len(t, s.rows, 1)
	assert.Equal(t, models.SheetRow{json.Number("1"), json.Number("2")}, s.rows[0])
}

func TestSheetTitle(t *testing.T) {
	relay, _ := newRelay(&stubPredictor{}, &stubSheet{title: "Attrition"})

	title, err := relay.SheetTitle(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Attrition", title)
}
