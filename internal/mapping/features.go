package mapping

import (
	"attrition-relay/internal/models"
)

// FeatureCount is the number of positional features the predictor expects.
const FeatureCount = 19

// FeatureOrder is the positional contract with the predictor. Changing it
// requires retraining or updating the predictor at the same time.
var FeatureOrder = [FeatureCount]string{
	models.FieldMonthlyIncome,
	models.FieldOverTime,
	models.FieldAge,
	models.FieldTotalWorkingYears,
	models.FieldDailyRate,
	models.FieldYearsAtCompany,
	models.FieldMonthlyRate,
	models.FieldHourlyRate,
	models.FieldDistanceFromHome,
	models.FieldStockOptionLevel,
	models.FieldYearsWithCurrManager,
	models.FieldPercentSalaryHike,
	models.FieldYearsInCurrentRole,
	models.FieldNumCompaniesWorked,
	models.FieldJobSatisfaction,
	models.FieldWorkLifeBalance,
	models.FieldEnvironmentSatisfaction,
	models.FieldJobInvolvement,
	models.FieldJobRole,
}

// overTimeIndex is the position of the normalized overTime flag.
const overTimeIndex = 1

// FeatureVector holds the predictor inputs in FeatureOrder.
type FeatureVector [FeatureCount]any

// Args renders every position as a command-line argument. Absent values
// become empty strings so the vector always yields FeatureCount arguments.
func (v FeatureVector) Args() []string {
	args := make([]string, FeatureCount)
	for i, val := range v {
		args[i] = models.FormatScalar(val)
	}
	return args
}

// Features maps an employee record to the predictor's feature vector.
// overTime is 1 only when it is exactly "Yes"; every other value, including
// an absent one, becomes 0. Other fields pass through untouched.
func Features(rec models.EmployeeRecord) FeatureVector {
	var v FeatureVector
	for i, field := range FeatureOrder {
		v[i] = rec.Get(field)
	}
	v[overTimeIndex] = normalizeOverTime(rec.Get(models.FieldOverTime))
	return v
}

func normalizeOverTime(v any) int {
	if s, ok := v.(string); ok && s == "Yes" {
		return 1
	}
	return 0
}
