package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"bitbucket.org/darshanedu/insight_backend/config"
	"bitbucket.org/darshanedu/insight_backend/middlewares"
	"bitbucket.org/darshanedu/insight_backend/models"
	"bitbucket.org/darshanedu/insight_backend/models/reports"
	"bitbucket.org/darshanedu/insight_backend/utils"
	"bitbucket.org/darshanedu/insight_backend/workflow"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const defaultPort = "8080"

func main() {
	port := os.Getenv("API_PORT")
	if port == "" {
		// Cloud Run standard env var.
		port = os.Getenv("PORT")
	}
	if port == "" {
		port = defaultPort
	}

	logger := config.GetLogger()

	// Cloud Run sends SIGTERM on revision shutdown; handle it for graceful drain.
	sigCtx, stopSignals := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stopSignals()

	// Start the HTTP server ASAP so the startup probe passes.
	// Until the DB is ready, app endpoints return 503.
	r := gin.New()
	r.Use(middlewares.CorrelationIdMiddleware())
	r.Use(func(c *gin.Context) {
		if c.Request.URL.Path == "/healthz" {
			c.Status(http.StatusNoContent)
			c.Abort()
			return
		}
		if config.GetDB() == nil {
			c.AbortWithStatus(http.StatusServiceUnavailable)
			return
		}
		c.Next()
	})

	r.GET("/healthz", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	corsConfig := cors.DefaultConfig()
	// In production, require an explicit allowlist via CORS_ALLOWED_ORIGINS.
	allowedOrigins := strings.TrimSpace(os.Getenv("CORS_ALLOWED_ORIGINS"))
	if strings.EqualFold(strings.TrimSpace(os.Getenv("GO_ENV")), "production") {
		if allowedOrigins == "" {
			corsConfig.AllowOrigins = []string{}
		} else {
			corsConfig.AllowOrigins = splitAndTrim(allowedOrigins)
		}
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AddAllowMethods("GET", "POST", "DELETE", "OPTIONS")
	corsConfig.AddAllowHeaders("Origin", "Content-Type", "Authorization", "X-Correlation-Id")
	corsConfig.AddExposeHeaders("Content-Length", "Content-Disposition")
	corsConfig.AllowCredentials = true
	r.Use(cors.New(corsConfig))

	r.Use(customErrorLogger(logger))
	r.Use(gin.Recovery())

	r.POST("/auth/login", loginHandler)

	authed := r.Group("/", middlewares.AuthMiddleware())
	{
		authed.GET("/catalog/branches", branchCatalogHandler)
		authed.GET("/records", listRecordsHandler)
		authed.GET("/reports/dashboard", dashboardHandler)
		authed.POST("/ai/insight", insightHandler)
		authed.POST("/ai/report", detailedReportHandler)

		downloads := authed.Group("/", middlewares.RequireDownload())
		{
			downloads.GET("/reports/export.csv", exportDelimitedHandler)
			downloads.GET("/reports/ledger.xlsx", exportWorkbookHandler)
		}

		ingest := authed.Group("/", middlewares.RequireIngest())
		{
			ingest.DELETE("/records/:id", deleteRecordHandler)
			ingest.POST("/ingest/upload", uploadHandler)
			ingest.POST("/ingest/structured", structuredIngestHandler)
			ingest.POST("/ingest/admission", admissionIngestHandler)
			ingest.POST("/ingest/parse-text", parseTextHandler)
			ingest.GET("/ingest/worksheet", loadWorksheetHandler)
			ingest.POST("/ingest/worksheet", saveWorksheetHandler)
		}

		authed.POST("/settings/reload", middlewares.RequireRole("admin"), reloadSettingsHandler)
	}

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: r,
	}
	serverErrCh := make(chan error, 1)
	go func() {
		// ListenAndServe returns http.ErrServerClosed on graceful shutdown.
		serverErrCh <- srv.ListenAndServe()
	}()

	// Connect dependencies after the port is open.
	config.ConnectDatabaseWithRetry()
	config.ConnectRedis()
	config.ReloadAuthConfig()

	db := config.GetDB()
	sqlDB, _ := db.DB()
	defer func() {
		if sqlDB != nil {
			_ = sqlDB.Close()
		}
	}()
	// AutoMigrate runs DDL; allow running it as a separate job instead.
	if !strings.EqualFold(strings.TrimSpace(os.Getenv("SKIP_MIGRATIONS")), "true") {
		models.MigrateTable()
	} else {
		logger.WithFields(logrus.Fields{"field": "migrations"}).Warn("SKIP_MIGRATIONS=true; skipping AutoMigrate on startup")
	}

	logger.WithFields(logrus.Fields{
		"info": "Connection Established",
	}).Info("listening on port ", port)

	select {
	case <-sigCtx.Done():
		// graceful shutdown below
	case err := <-serverErrCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithFields(logrus.Fields{"field": "http"}).Error("server stopped unexpectedly: " + err.Error())
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.WithFields(logrus.Fields{"field": "http"}).Error("graceful shutdown failed: " + err.Error())
	}

	if rdb := config.GetRedisDB(); rdb != nil {
		_ = rdb.Close()
	}
}

func loginHandler(c *gin.Context) {
	var body struct {
		AccessCode string `json:"accessCode" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "accessCode is required"})
		return
	}
	role, ok := config.GetAuthConfig().RoleForAccessCode(body.AccessCode)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid access code"})
		return
	}
	token, err := utils.JwtGenerate(role)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not issue token"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token, "role": role})
}

func branchCatalogHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"branches": models.BranchNames(),
		"wings":    models.SchoolWings,
		"years":    models.AvailableYears,
	})
}

func listRecordsHandler(c *gin.Context) {
	records, err := models.FetchAllRecords(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not fetch records"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"records": records})
}

func deleteRecordHandler(c *gin.Context) {
	err := models.DeleteRecord(c.Request.Context(), c.Param("id"))
	if errors.Is(err, utils.ErrorRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "record not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not delete record"})
		return
	}
	reports.InvalidateReportCache()
	c.Status(http.StatusNoContent)
}

func scopeFromForm(c *gin.Context) (models.UploadScope, bool) {
	scope := models.UploadScope{
		BranchName: c.PostForm("branch"),
		Wing:       c.PostForm("wing"),
		FiscalYear: c.PostForm("year"),
	}
	recordType, err := models.ParseRecordType(c.PostForm("type"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "type must be Finance or Admission"})
		return scope, false
	}
	scope.RecordType = recordType
	if !models.IsKnownBranch(scope.BranchName) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown branch"})
		return scope, false
	}
	if scope.Wing == "" || scope.FiscalYear == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "wing and year are required"})
		return scope, false
	}
	return scope, true
}

func uploadHandler(c *gin.Context) {
	scope, ok := scopeFromForm(c)
	if !ok {
		return
	}
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "a spreadsheet file is required"})
		return
	}
	scope.FileName = fileHeader.Filename

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "could not read the uploaded file"})
		return
	}
	defer file.Close()

	record, err := models.ImportPerformanceXlsx(c.Request.Context(), file, scope)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	if err := models.UpsertRecords(c.Request.Context(), []models.PerformanceRecord{record}); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not save the record"})
		return
	}
	reports.InvalidateReportCache()
	c.JSON(http.StatusCreated, gin.H{"record": record})
}

type structuredIngestRequest struct {
	Branch string                  `json:"branch" binding:"required"`
	Wing   string                  `json:"wing" binding:"required"`
	Year   string                  `json:"year" binding:"required"`
	Tables models.StructuredTables `json:"tables"`
}

func structuredIngestHandler(c *gin.Context) {
	var body structuredIngestRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": utils.ProcessValidationErrors(err)})
		return
	}
	if !models.IsKnownBranch(body.Branch) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown branch"})
		return
	}
	record := models.ImportStructuredFinance(body.Tables, models.UploadScope{
		BranchName: body.Branch,
		Wing:       body.Wing,
		FiscalYear: body.Year,
		RecordType: models.RecordTypeFinance,
	})
	if err := models.UpsertRecords(c.Request.Context(), []models.PerformanceRecord{record}); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not save the record"})
		return
	}
	reports.InvalidateReportCache()
	c.JSON(http.StatusCreated, gin.H{"record": record})
}

type admissionIngestRequest struct {
	Branch string     `json:"branch" binding:"required"`
	Wing   string     `json:"wing" binding:"required"`
	Year   string     `json:"year" binding:"required"`
	Rows   [][]string `json:"rows" binding:"required"`
}

func admissionIngestHandler(c *gin.Context) {
	var body admissionIngestRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": utils.ProcessValidationErrors(err)})
		return
	}
	if !models.IsKnownBranch(body.Branch) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown branch"})
		return
	}
	metrics := models.ExtractAdmissionRows(body.Rows)
	record := models.BuildAdmissionRecord(metrics, models.UploadScope{
		BranchName: body.Branch,
		Wing:       body.Wing,
		FiscalYear: body.Year,
		RecordType: models.RecordTypeAdmission,
	})
	if err := models.UpsertRecords(c.Request.Context(), []models.PerformanceRecord{record}); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not save the record"})
		return
	}
	reports.InvalidateReportCache()
	c.JSON(http.StatusCreated, gin.H{"record": record})
}

func parseTextHandler(c *gin.Context) {
	var body struct {
		Text     string `json:"text" binding:"required"`
		Category string `json:"category" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": utils.ProcessValidationErrors(err)})
		return
	}
	items := models.ParseWorksheetText(body.Text, models.LedgerCategory(body.Category))
	c.JSON(http.StatusOK, gin.H{"items": items})
}

func loadWorksheetHandler(c *gin.Context) {
	scope := models.UploadScope{
		BranchName: c.Query("branch"),
		Wing:       c.Query("wing"),
		FiscalYear: c.Query("year"),
	}
	if !models.IsKnownBranch(scope.BranchName) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown branch"})
		return
	}
	items, err := models.LoadWorksheet(c.Request.Context(), scope)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load the worksheet"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

type saveWorksheetRequest struct {
	Branch string              `json:"branch" binding:"required"`
	Wing   string              `json:"wing" binding:"required"`
	Year   string              `json:"year" binding:"required"`
	Items  []models.StagedItem `json:"items" binding:"required"`
}

func saveWorksheetHandler(c *gin.Context) {
	var body saveWorksheetRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": utils.ProcessValidationErrors(err)})
		return
	}
	if !models.IsKnownBranch(body.Branch) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown branch"})
		return
	}
	record, err := models.SaveManualWorksheet(c.Request.Context(), models.UploadScope{
		BranchName: body.Branch,
		Wing:       body.Wing,
		FiscalYear: body.Year,
	}, body.Items)
	if err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}
	reports.InvalidateReportCache()
	c.JSON(http.StatusCreated, gin.H{"record": record})
}

func reportScopeFromQuery(c *gin.Context) (reports.ReportScope, bool) {
	var scope reports.ReportScope
	if err := c.ShouldBindQuery(&scope); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return scope, false
	}
	return scope, true
}

func dashboardHandler(c *gin.Context) {
	scope, ok := reportScopeFromQuery(c)
	if !ok {
		return
	}
	report, err := reports.BuildDashboardReport(c.Request.Context(), scope)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not build the report"})
		return
	}
	c.JSON(http.StatusOK, report)
}

func exportDelimitedHandler(c *gin.Context) {
	scope, ok := reportScopeFromQuery(c)
	if !ok {
		return
	}
	report, err := reports.BuildDashboardReport(c.Request.Context(), scope)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not build the export"})
		return
	}
	headers, rows := reports.LedgerExportRows(report.Records)
	out, err := utils.WriteDelimited(headers, rows)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not render the export"})
		return
	}
	c.Header("Content-Disposition", `attachment; filename="ledger.csv"`)
	c.Data(http.StatusOK, "text/csv", []byte(out))
}

func exportWorkbookHandler(c *gin.Context) {
	scope, ok := reportScopeFromQuery(c)
	if !ok {
		return
	}
	report, err := reports.BuildDashboardReport(c.Request.Context(), scope)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not build the export"})
		return
	}
	workbook, err := reports.BuildLedgerWorkbook(report.Records)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not render the workbook"})
		return
	}
	defer workbook.Close()

	c.Header("Content-Disposition", `attachment; filename="`+reports.LedgerExportFileName(scope)+`"`)
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	if err := workbook.Write(c.Writer); err != nil {
		config.LogError(config.GetLogger(), "server.go", "exportWorkbookHandler", "Error streaming workbook", nil, err)
	}
}

func insightHandler(c *gin.Context) {
	var body struct {
		Prompt string              `json:"prompt" binding:"required"`
		Scope  reports.ReportScope `json:"scope"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": utils.ProcessValidationErrors(err)})
		return
	}
	report, err := reports.BuildDashboardReport(c.Request.Context(), body.Scope)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not build the data context"})
		return
	}
	text, err := workflow.GenerateInsight(c.Request.Context(), body.Prompt, report.Branches)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "the insight service is unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"text": text})
}

func detailedReportHandler(c *gin.Context) {
	var body struct {
		Scope reports.ReportScope `json:"scope"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": utils.ProcessValidationErrors(err)})
		return
	}
	report, err := reports.BuildDashboardReport(c.Request.Context(), body.Scope)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not build the data context"})
		return
	}
	text, err := workflow.GenerateDetailedReport(c.Request.Context(), report.Branches)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "the insight service is unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"text": text})
}

func reloadSettingsHandler(c *gin.Context) {
	config.ReloadAuthConfig()
	c.JSON(http.StatusOK, gin.H{"guestDownload": config.GetAuthConfig().GuestDownload})
}

// customErrorLogger logs only requests that recorded errors.
func customErrorLogger(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) > 0 {
			logger.Error(c.Errors.String())
		}
	}
}

func splitAndTrim(csv string) []string {
	parts := strings.Split(csv, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}
