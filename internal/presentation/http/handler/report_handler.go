package handler

import (
	"time"

	"github.com/frogshopping/PharmaCare-POS-sub000/internal/application/service"
	"github.com/frogshopping/PharmaCare-POS-sub000/internal/presentation/http/dto/request"
	"github.com/frogshopping/PharmaCare-POS-sub000/internal/presentation/http/dto/response"
	"github.com/gin-gonic/gin"
)

// ReportHandler handles dashboard and report requests
type ReportHandler struct {
	reportService *service.ReportService
}

// NewReportHandler creates a new report handler
func NewReportHandler(reportService *service.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// Dashboard handles getting dashboard statistics
func (h *ReportHandler) Dashboard(c *gin.Context) {
	stats, err := h.reportService.GetDashboardStats(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Dashboard stats retrieved successfully", stats)
}

// Sales handles the sales report for a day range
func (h *ReportHandler) Sales(c *gin.Context) {
	from, to, ok := h.reportRange(c)
	if !ok {
		return
	}

	report, err := h.reportService.GetSalesReport(c.Request.Context(), from, to)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Sales report retrieved successfully", report)
}

// Purchases handles the purchase report for a day range
func (h *ReportHandler) Purchases(c *gin.Context) {
	from, to, ok := h.reportRange(c)
	if !ok {
		return
	}

	report, err := h.reportService.GetPurchaseReport(c.Request.Context(), from, to)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Purchase report retrieved successfully", report)
}

// Stock handles the stock valuation report
func (h *ReportHandler) Stock(c *gin.Context) {
	report, err := h.reportService.GetStockReport(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Stock report retrieved successfully", report)
}

func (h *ReportHandler) reportRange(c *gin.Context) (from, to time.Time, ok bool) {
	var req request.ReportRangeRequest
	if !bindQuery(c, &req) {
		return from, to, false
	}
	start, end, err := dayRange(req.StartDate, req.EndDate)
	if err != nil {
		response.Error(c, err)
		return from, to, false
	}
	from, to, err = h.reportService.ResolveRange(start, end)
	if err != nil {
		response.Error(c, err)
		return from, to, false
	}
	return from, to, true
}
