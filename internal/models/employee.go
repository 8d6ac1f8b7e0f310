package models

import (
	"encoding/json"
	"strconv"
)

// Employee record field names, as submitted by the frontend.
const (
	FieldAge                      = "age"
	FieldBusinessTravel           = "businessTravel"
	FieldDailyRate                = "dailyRate"
	FieldDepartment               = "department"
	FieldDistanceFromHome         = "distanceFromHome"
	FieldEducation                = "education"
	FieldEducationField           = "educationField"
	FieldEmployeeCount            = "employeeCount"
	FieldEmployeeNumber           = "employeeNumber"
	FieldEnvironmentSatisfaction  = "environmentSatisfaction"
	FieldGender                   = "gender"
	FieldHourlyRate               = "hourlyRate"
	FieldJobInvolvement           = "jobInvolvement"
	FieldJobLevel                 = "jobLevel"
	FieldJobRole                  = "jobRole"
	FieldJobSatisfaction          = "jobSatisfaction"
	FieldMaritalStatus            = "maritalStatus"
	FieldMonthlyIncome            = "monthlyIncome"
	FieldMonthlyRate              = "monthlyRate"
	FieldNumCompaniesWorked       = "numCompaniesWorked"
	FieldOver18                   = "over18"
	FieldOverTime                 = "overTime"
	FieldPercentSalaryHike        = "percentSalaryHike"
	FieldPerformanceRating        = "performanceRating"
	FieldRelationshipSatisfaction = "relationshipSatisfaction"
	FieldStandardHours            = "standardHours"
	FieldStockOptionLevel         = "stockOptionLevel"
	FieldTotalWorkingYears        = "totalWorkingYears"
	FieldTrainingTimesLastYear    = "trainingTimesLastYear"
	FieldWorkLifeBalance          = "workLifeBalance"
	FieldYearsAtCompany           = "yearsAtCompany"
	FieldYearsInCurrentRole       = "yearsInCurrentRole"
	FieldYearsSinceLastPromotion  = "yearsSinceLastPromotion"
	FieldYearsWithCurrManager     = "yearsWithCurrManager"
)

// EmployeeRecord is a loosely typed employee submission. Numbers decoded from
// JSON are kept as json.Number so they reach the sheet and the predictor verbatim.
// No field is required.
type EmployeeRecord map[string]any

// Get returns the raw value of a field, or nil when it is absent.
func (r EmployeeRecord) Get(field string) any {
	if r == nil {
		return nil
	}
	return r[field]
}

// String returns the field rendered as text; absent fields yield "".
func (r EmployeeRecord) String(field string) string {
	return FormatScalar(r.Get(field))
}

// PredictionLabel is the predictor's verdict, conventionally "Yes" or "No".
type PredictionLabel string

// SheetRow is one row of cells in the spreadsheet's column order.
type SheetRow []any

// FormatScalar renders a scalar value the way it should appear on a command line.
func FormatScalar(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case json.Number:
		return val.String()
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(val), 'f', -1, 32)
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case bool:
		return strconv.FormatBool(val)
	default:
		b, err := json.Marshal(val)
		if err != nil {
			return ""
		}
		return string(b)
	}
}

// SampleEmployee returns the fixed record used by the test-line endpoint.
func SampleEmployee() EmployeeRecord {
	return EmployeeRecord{
		FieldAge:                      json.Number("27"),
		FieldBusinessTravel:           "Travel_Frequently",
		FieldDailyRate:                json.Number("1337"),
		FieldDepartment:               "Human Resources",
		FieldDistanceFromHome:         json.Number("22"),
		FieldEducation:                json.Number("3"),
		FieldEducationField:           "Life Human Resources",
		FieldEmployeeCount:            json.Number("1"),
		FieldEmployeeNumber:           json.Number("1944"),
		FieldEnvironmentSatisfaction:  json.Number("1"),
		FieldGender:                   "Female",
		FieldHourlyRate:               json.Number("58"),
		FieldJobInvolvement:           json.Number("2"),
		FieldJobLevel:                 json.Number("1"),
		FieldJobRole:                  "Human Resources",
		FieldJobSatisfaction:          json.Number("2"),
		FieldMaritalStatus:            "Married",
		FieldMonthlyIncome:            json.Number("2863"),
		FieldMonthlyRate:              json.Number("19555"),
		FieldNumCompaniesWorked:       json.Number("1"),
		FieldOver18:                   "Y",
		FieldOverTime:                 "No",
		FieldPercentSalaryHike:        json.Number("12"),
		FieldPerformanceRating:        json.Number("3"),
		FieldRelationshipSatisfaction: json.Number("1"),
		FieldStandardHours:            json.Number("80"),
		FieldStockOptionLevel:         json.Number("0"),
		FieldTotalWorkingYears:        json.Number("1"),
		FieldTrainingTimesLastYear:    json.Number("2"),
		FieldWorkLifeBalance:          json.Number("3"),
		FieldYearsAtCompany:           json.Number("1"),
		FieldYearsInCurrentRole:       json.Number("0"),
		FieldYearsSinceLastPromotion:  json.Number("0"),
		FieldYearsWithCurrManager:     json.Number("0"),
	}
}
