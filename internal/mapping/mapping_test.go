package mapping_test

import (
	"encoding/json"
	"strings"
	"testing"

	"attrition-relay/internal/mapping"
	"attrition-relay/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFeaturesEmptyRecord(t *testing.T) {
	v := mapping.Features(models.EmployeeRecord{})

	require.Len(t, v, mapping.FeatureCount)
	require.Len(t, v.Args(), 19)
	assert.Equal(t, 0, v[1], "absent overTime becomes 0")
	for i, val := range v {
		if i == 1 {
			continue
		}
		assert.Nil(t, val, "position %d", i)
	}

	nilVec := mapping.Features(nil)
	assert.Len(t, nilVec.Args(), 19)
}

func TestFeaturesOrder(t *testing.T) {
	rec := models.EmployeeRecord{}
	for _, field := range mapping.FeatureOrder {
		rec[field] = field
	}

	args := mapping.Features(rec).Args()

	want := []string{
		"monthlyIncome", "0", "age", "totalWorkingYears", "dailyRate",
		"yearsAtCompany", "monthlyRate", "hourlyRate", "distanceFromHome",
		"stockOptionLevel", "yearsWithCurrManager", "percentSalaryHike",
		"yearsInCurrentRole", "numCompaniesWorked", "jobSatisfaction",
		"workLifeBalance", "environmentSatisfaction", "jobInvolvement", "jobRole",
	}
	assert.Equal(t, want, args)
}

func TestFeaturesOverTime(t *testing.T) {
	cases := []struct {
		name  string
		value any
		want  int
	}{
		{"yes", "Yes", 1},
		{"no", "No", 0},
		{"lowercase yes", "yes", 0},
		{"numeric", json.Number("1"), 0},
		{"absent", nil, 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := models.EmployeeRecord{}
			if tc.value != nil {
				rec[models.FieldOverTime] = tc.value
			}
			v := mapping.Features(rec)
			assert.Equal(t, tc.want, v[1])
		})
	}
}

func TestFeaturesArgsFormatting(t *testing.T) {
	rec := models.EmployeeRecord{
		models.FieldMonthlyIncome: json.Number("6500"),
		models.FieldAge:           float64(42),
		models.FieldDailyRate:     12.5,
		models.FieldJobRole:       "Sales Executive",
		models.FieldOverTime:      "Yes",
	}

	args := mapping.Features(rec).Args()

	assert.Equal(t, "6500", args[0])
	assert.Equal(t, "1", args[1])
	assert.Equal(t, "42", args[2])
	assert.Equal(t, "", args[3])
	assert.Equal(t, "12.5", args[4])
	assert.Equal(t, "Sales Executive", args[18])
}

func TestRowBuilderWidth(t *testing.T) {
	b := mapping.NewRowBuilder(mapping.RowConfig{})

	assert.Equal(t, 39, mapping.RowWidth)
	assert.Len(t, b.Build(models.EmployeeRecord{}, "No"), mapping.RowWidth)
	assert.Len(t, b.Build(models.SampleEmployee(), "Yes"), mapping.RowWidth)
	assert.Len(t, b.Build(models.EmployeeRecord{"unknown": "x"}, ""), mapping.RowWidth)
}

func TestRowBuilderLayout(t *testing.T) {
	b := mapping.NewRowBuilder(mapping.RowConfig{})
	rec := models.SampleEmployee()

	row := b.Build(rec, "Yes")

	assert.Contains(t, row[mapping.ColumnAvatar], "/portraits/women/")
	assert.True(t, strings.HasPrefix(row[mapping.ColumnAvatar].(string), "=IMAGE("))
	assert.Equal(t, json.Number("27"), row[mapping.ColumnAge])
	assert.Equal(t, json.Number("27"), row[mapping.ColumnAgeRepeat])
	assert.Equal(t, "Yes", row[mapping.ColumnPrediction])
	assert.Equal(t, "Travel_Frequently", row[mapping.ColumnRecord])
	assert.Equal(t, json.Number("1337"), row[mapping.ColumnRecord+1])
	assert.Equal(t, "Female", row[mapping.ColumnRecord+9])
	assert.Equal(t, "No", row[mapping.ColumnRecord+20])
	assert.Equal(t, json.Number("0"), row[mapping.ColumnRecord+32])
	assert.Equal(t, mapping.PlaceholderName, row[mapping.RowWidth-2])

	deleteCell := row[mapping.RowWidth-1].(string)
	assert.True(t, strings.HasPrefix(deleteCell, "=HYPERLINK("))
	assert.Contains(t, deleteCell, mapping.DefaultDeleteScript+"?row=3")
}

func TestRowBuilderAvatarByGender(t *testing.T) {
	b := mapping.NewRowBuilder(mapping.RowConfig{})

	male := b.Build(models.EmployeeRecord{models.FieldGender: "Male"}, "No")
	assert.Equal(t,
		`=IMAGE("https://randomuser.me/api/portraits/men/"&MOD(ROW(),100)&".jpg")`,
		male[mapping.ColumnAvatar])

	unknown := b.Build(models.EmployeeRecord{}, "No")
	assert.Contains(t, unknown[mapping.ColumnAvatar], "/portraits/women/")
}

func TestRowBuilderMissingFieldsAreEmptyCells(t *testing.T) {
	b := mapping.NewRowBuilder(mapping.RowConfig{})

	row := b.Build(models.EmployeeRecord{}, "No")

	for i := mapping.ColumnAge; i < mapping.RowWidth-2; i++ {
		if i == mapping.ColumnPrediction {
			continue
		}
		assert.Equal(t, "", row[i], "column %d", i)
	}
}

func TestRowBuilderCustomTemplates(t *testing.T) {
	b := mapping.NewRowBuilder(mapping.RowConfig{
		AvatarTemplate: "avatar:{folder}",
		DeleteTemplate: "delete:{script_url}#{row}",
		DeleteScript:   "https://example.com/exec",
		DeleteRow:      7,
	})

	row := b.Build(models.EmployeeRecord{models.FieldGender: "Male"}, "No")

	assert.Equal(t, "avatar:men", row[mapping.ColumnAvatar])
	assert.Equal(t, "delete:https://example.com/exec#7", row[mapping.RowWidth-1])
}
