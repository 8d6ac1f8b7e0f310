package handler

import (
	"errors"
	"net/http"

	"attrition-relay/internal/middleware"
	"attrition-relay/internal/models"
	"attrition-relay/internal/predictor"
	"attrition-relay/internal/service"
	"attrition-relay/internal/sheets"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// NoDetails is reported when a failure carries no backend diagnostic.
const NoDetails = "No additional details available"

// Handler handles HTTP requests
type Handler struct {
	relay  *service.Relay
	logger *zap.Logger
}

// NewHandler creates a new API handler
func NewHandler(relay *service.Relay, logger *zap.Logger) *Handler {
	return &Handler{
		relay:  relay,
		logger: logger,
	}
}

// RegisterRoutes registers all API routes
func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/", h.Greeting)
	r.POST("/", h.PostGreeting)

	r.GET("/test-connection", h.TestConnection)
	r.GET("/add-test-line", h.AddTestLine)
	r.POST("/update-employee", h.UpdateEmployee)
	r.POST("/add-employee-line", h.AddEmployeeLine)

	// Health check
	r.GET("/health", h.HealthCheck)
}

// Greeting answers plain GET probes
func (h *Handler) Greeting(c *gin.Context) {
	c.String(http.StatusOK, "Hello World")
}

// PostGreeting answers plain POST probes
func (h *Handler) PostGreeting(c *gin.Context) {
	c.String(http.StatusOK, "Hello there")
}

// TestConnection reads the spreadsheet title to verify access
func (h *Handler) TestConnection(c *gin.Context) {
	title, err := h.relay.SheetTitle(c.Request.Context())
	if err != nil {
		h.respondError(c, "Error testing connection", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"message":    "Successfully connected to Google Sheets",
		"sheetTitle": title,
	})
}

// AddTestLine runs the fixed sample employee through the full pipeline
func (h *Handler) AddTestLine(c *gin.Context) {
	result, err := h.relay.AddEmployee(c.Request.Context(), models.SampleEmployee())
	if err != nil {
		h.respondError(c, "Error adding test line", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Test line successfully added to sheet",
		"data":    result.Append,
	})
}

// UpdateEmployee appends the body's values as one row, without mapping
func (h *Handler) UpdateEmployee(c *gin.Context) {
	rec, err := models.DecodeOrderedRecord(c.Request.Body)
	if err != nil {
		h.respondError(c, "Error decoding employee data", err)
		return
	}

	result, err := h.relay.AppendRaw(c.Request.Context(), rec)
	if err != nil {
		h.respondError(c, "Error updating sheet", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Data successfully added to sheet",
		"data":    result,
	})
}

// AddEmployeeLine predicts attrition for the submitted employee and appends the row
func (h *Handler) AddEmployeeLine(c *gin.Context) {
	rec, err := models.DecodeEmployeeRecord(c.Request.Body)
	if err != nil {
		h.respondError(c, "Error decoding employee data", err)
		return
	}

	result, err := h.relay.AddEmployee(c.Request.Context(), rec)
	if err != nil {
		h.respondError(c, "Error adding employee line", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"message":    "Employee data successfully added to sheet",
		"data":       result.Append,
		"prediction": result.Prediction,
	})
}

// HealthCheck returns service health. Only the predictor mode is exposed.
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":         "healthy",
		"service":        "attrition-relay",
		"predictor_mode": h.relay.GetModelInfo()["mode"],
	})
}

// respondError logs err and writes the uniform 500 envelope.
func (h *Handler) respondError(c *gin.Context, logMsg string, err error) {
	h.logger.Error(logMsg,
		zap.String("request_id", middleware.GetRequestID(c)),
		zap.Error(err))

	c.JSON(http.StatusInternalServerError, gin.H{
		"success": false,
		"error":   err.Error(),
		"details": errorDetails(err),
	})
}

// errorDetails pulls the backend diagnostic out of err. A predictor failure
// always reports its stderr, even when that is empty.
func errorDetails(err error) any {
	var predErr *predictor.Error
	if errors.As(err, &predErr) {
		return predErr.Diagnostic
	}

	var sheetErr *sheets.Error
	if errors.As(err, &sheetErr) && sheetErr.Details != nil {
		return sheetErr.Details
	}

	return NoDetails
}
