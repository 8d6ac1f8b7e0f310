package mapping

import (
	"strconv"
	"strings"

	"attrition-relay/internal/models"
)

// Default formula templates. Placeholders are substituted verbatim; the
// spreadsheet evaluates the result.
const (
	DefaultAvatarTemplate = `=IMAGE("https://randomuser.me/api/portraits/{folder}/"&MOD(ROW(),100)&".jpg")`
	DefaultDeleteTemplate = `=HYPERLINK("{script_url}?row={row}","❌ Delete")`
	DefaultDeleteScript   = "https://script.google.com/macros/s/AKfycby6Tv6jmcXP3elLe3EhTewkROpagETpSOck94TjFEzWdoo88ClSCLr1KPCWQK2IzMLQ/exec"
	DefaultDeleteRow      = 3
	PlaceholderName       = "FullName"
)

// recordColumns are the record fields copied between the prediction label and
// the trailing display columns.
var recordColumns = []string{
	models.FieldBusinessTravel,
	models.FieldDailyRate,
	models.FieldDepartment,
	models.FieldDistanceFromHome,
	models.FieldEducation,
	models.FieldEducationField,
	models.FieldEmployeeCount,
	models.FieldEmployeeNumber,
	models.FieldEnvironmentSatisfaction,
	models.FieldGender,
	models.FieldHourlyRate,
	models.FieldJobInvolvement,
	models.FieldJobLevel,
	models.FieldJobRole,
	models.FieldJobSatisfaction,
	models.FieldMaritalStatus,
	models.FieldMonthlyIncome,
	models.FieldMonthlyRate,
	models.FieldNumCompaniesWorked,
	models.FieldOver18,
	models.FieldOverTime,
	models.FieldPercentSalaryHike,
	models.FieldPerformanceRating,
	models.FieldRelationshipSatisfaction,
	models.FieldStandardHours,
	models.FieldStockOptionLevel,
	models.FieldTotalWorkingYears,
	models.FieldTrainingTimesLastYear,
	models.FieldWorkLifeBalance,
	models.FieldYearsAtCompany,
	models.FieldYearsInCurrentRole,
	models.FieldYearsSinceLastPromotion,
	models.FieldYearsWithCurrManager,
}

// Column positions of the synthesized cells.
const (
	ColumnAvatar     = 0
	ColumnAge        = 1
	ColumnAgeRepeat  = 2
	ColumnPrediction = 3
	ColumnRecord     = 4
)

// RowWidth is the number of cells in every row produced by RowBuilder.
var RowWidth = ColumnRecord + len(recordColumns) + 2

// RowConfig controls the display formulas.
type RowConfig struct {
	AvatarTemplate string
	DeleteTemplate string
	DeleteScript   string
	DeleteRow      int
}

// RowBuilder lays an employee record out in the spreadsheet's column order.
type RowBuilder struct {
	avatarTemplate string
	deleteCell     string
}

// NewRowBuilder creates a RowBuilder, filling in defaults for empty fields.
func NewRowBuilder(cfg RowConfig) *RowBuilder {
	if cfg.AvatarTemplate == "" {
		cfg.AvatarTemplate = DefaultAvatarTemplate
	}
	if cfg.DeleteTemplate == "" {
		cfg.DeleteTemplate = DefaultDeleteTemplate
	}
	if cfg.DeleteScript == "" {
		cfg.DeleteScript = DefaultDeleteScript
	}
	if cfg.DeleteRow == 0 {
		cfg.DeleteRow = DefaultDeleteRow
	}

	deleteCell := strings.NewReplacer(
		"{script_url}", cfg.DeleteScript,
		"{row}", strconv.Itoa(cfg.DeleteRow),
	).Replace(cfg.DeleteTemplate)

	return &RowBuilder{
		avatarTemplate: cfg.AvatarTemplate,
		deleteCell:     deleteCell,
	}
}

// Build returns the row for rec with the given prediction. Absent fields are
// written as empty cells.
func (b *RowBuilder) Build(rec models.EmployeeRecord, prediction models.PredictionLabel) models.SheetRow {
	row := make(models.SheetRow, 0, RowWidth)

	row = append(row,
		b.avatar(rec.Get(models.FieldGender)),
		cell(rec.Get(models.FieldAge)),
		cell(rec.Get(models.FieldAge)),
		string(prediction),
	)
	for _, field := range recordColumns {
		row = append(row, cell(rec.Get(field)))
	}
	row = append(row, PlaceholderName, b.deleteCell)

	return row
}

func (b *RowBuilder) avatar(gender any) string {
	folder := "women"
	if s, ok := gender.(string); ok && s == "Male" {
		folder = "men"
	}
	return strings.ReplaceAll(b.avatarTemplate, "{folder}", folder)
}

func cell(v any) any {
	if v == nil {
		return ""
	}
	return v
}
