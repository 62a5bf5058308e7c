package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/ldelai/rapportino/internal/http/middleware"
	"github.com/ldelai/rapportino/internal/model"
	"github.com/ldelai/rapportino/internal/service"
)

type ReportExporter interface {
	Generate(report model.DailyReport) ([]byte, error)
}

type Handler struct {
	reports   *service.ReportService
	dashboard *service.Dashboard
	excel     ReportExporter
	pdf       ReportExporter
	latest    int
	log       zerolog.Logger
}

func NewHandler(reports *service.ReportService, dashboard *service.Dashboard, excel, pdf ReportExporter, latest int, log zerolog.Logger) *Handler {
	return &Handler{
		reports:   reports,
		dashboard: dashboard,
		excel:     excel,
		pdf:       pdf,
		latest:    latest,
		log:       log,
	}
}

func (h *Handler) Register(router *gin.Engine, authMiddleware gin.HandlerFunc) {
	protected := router.Group("/")
	protected.Use(authMiddleware)

	protected.POST("/reports/draft", h.getOrCreateDraft)
	protected.GET("/reports/draft", h.currentDraft)
	protected.GET("/reports/finalized", h.finalizedReports)
	protected.GET("/reports/:id", h.getReport)
	protected.DELETE("/reports/:id", h.deleteReport)
	protected.POST("/reports/:id/finalize", h.finalizeReport)
	protected.POST("/reports/:id/reopen", h.reopenReport)
	protected.PUT("/reports/:id/trasferta", h.updateTrasferta)

	protected.GET("/reports/:id/clients", h.listClientSections)
	protected.POST("/reports/:id/clients", h.addClientSection)
	protected.DELETE("/clients/:id", h.removeClientSection)

	protected.GET("/clients/:id/activities", h.listActivities)
	protected.POST("/clients/:id/activities/machine", h.addMachineActivity)
	protected.POST("/clients/:id/activities/material", h.addMaterialActivity)
	protected.DELETE("/activities/:id", h.removeActivity)

	protected.GET("/dashboard", h.dashboardSummary)
	protected.GET("/reports/:id/export", h.exportReport)
	protected.GET("/reports/:id/export/pdf", h.exportReportPDF)
}

func (h *Handler) getOrCreateDraft(c *gin.Context) {
	report, err := h.reports.GetOrCreateTodaysDraft(c.Request.Context())
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

func (h *Handler) currentDraft(c *gin.Context) {
	report, err := h.reports.CurrentDraft(c.Request.Context())
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

func (h *Handler) getReport(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	report, err := h.reports.GetReport(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

func (h *Handler) deleteReport(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.reports.DeleteReport(c.Request.Context(), id); err != nil {
		h.handleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) finalizedReports(c *gin.Context) {
	reports, err := h.reports.FinalizedReports(c.Request.Context())
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, reports)
}

func (h *Handler) finalizeReport(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	report, err := h.reports.Finalize(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	event := h.log.Info().Str("report_id", report.ID.String()).Float64("total_hours", report.TotalHours)
	if principal, ok := middleware.MustPrincipal(c); ok {
		event = event.Str("user", principal.UserID)
	}
	event.Msg("report finalized")
	c.JSON(http.StatusOK, report)
}

func (h *Handler) reopenReport(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	report, err := h.reports.Reopen(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

type trasfertaRequest struct {
	Trasferta *bool `json:"trasferta" binding:"required"`
}

func (h *Handler) updateTrasferta(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req trasfertaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.reports.UpdateTrasferta(c.Request.Context(), id, *req.Trasferta); err != nil {
		h.handleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) listClientSections(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	sections, err := h.reports.ClientSections(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, sections)
}

type addClientSectionRequest struct {
	ClientName string `json:"client_name" binding:"required"`
	JobSite    string `json:"job_site" binding:"required"`
}

func (h *Handler) addClientSection(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req addClientSectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	section, err := h.reports.AddClientSection(c.Request.Context(), id, req.ClientName, req.JobSite)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, section)
}

func (h *Handler) removeClientSection(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.reports.RemoveClientSection(c.Request.Context(), id); err != nil {
		h.handleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) listActivities(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	activities, err := h.reports.Activities(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, activities)
}

type addMachineActivityRequest struct {
	MachineName string  `json:"machine_name" binding:"required"`
	Hours       float64 `json:"hours" binding:"required"`
	Description string  `json:"description"`
}

func (h *Handler) addMachineActivity(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req addMachineActivityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	activity, err := h.reports.AddMachineActivity(c.Request.Context(), id, req.MachineName, req.Hours, req.Description)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, activity)
}

type addMaterialActivityRequest struct {
	MaterialName string  `json:"material_name" binding:"required"`
	Quantity     float64 `json:"quantity" binding:"required"`
	Unit         string  `json:"unit" binding:"required"`
	Notes        string  `json:"notes"`
}

func (h *Handler) addMaterialActivity(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req addMaterialActivityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	unit, err := model.ParseMaterialUnit(req.Unit)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid unit"})
		return
	}
	activity, err := h.reports.AddMaterialActivity(c.Request.Context(), id, req.MaterialName, req.Quantity, unit, req.Notes)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, activity)
}

func (h *Handler) removeActivity(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.reports.RemoveActivity(c.Request.Context(), id); err != nil {
		h.handleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) dashboardSummary(c *gin.Context) {
	summary, err := h.dashboard.Summarize(c.Request.Context(), h.latest)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (h *Handler) exportReport(c *gin.Context) {
	h.export(c, h.excel, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", "xlsx")
}

func (h *Handler) exportReportPDF(c *gin.Context) {
	h.export(c, h.pdf, "application/pdf", "pdf")
}

func (h *Handler) export(c *gin.Context, exporter ReportExporter, contentType, extension string) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	report, err := h.reports.GetReport(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	content, err := exporter.Generate(*report)
	if err != nil {
		h.handleError(c, err)
		return
	}
	fileName := "rapportino-" + report.Date.Format("20060102") + "." + extension
	c.Header("Content-Disposition", "attachment; filename=\""+fileName+"\"")
	c.Data(http.StatusOK, contentType, content)
}

func (h *Handler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrReportFinalized),
		errors.Is(err, service.ErrNotFinalized),
		errors.Is(err, service.ErrEmptyReport),
		errors.Is(err, service.ErrDraftExists):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		h.log.Error().Err(err).Msg("request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func pathID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(strings.TrimSpace(c.Param("id")))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return uuid.Nil, false
	}
	return id, true
}
