package handler

import (
	"github.com/frogshopping/PharmaCare-POS-sub000/internal/application/service"
	"github.com/frogshopping/PharmaCare-POS-sub000/internal/presentation/http/dto/response"
	"github.com/gin-gonic/gin"
)

// ReceiptHandler handles printer and receipt requests.
type ReceiptHandler struct {
	receiptService *service.ReceiptService
}

// NewReceiptHandler creates a new receipt handler.
func NewReceiptHandler(receiptService *service.ReceiptService) *ReceiptHandler {
	return &ReceiptHandler{receiptService: receiptService}
}

// GetStatus returns the current printer connection status.
func (h *ReceiptHandler) GetStatus(c *gin.Context) {
	status := h.receiptService.GetStatus(c.Request.Context())
	response.OK(c, "Printer status retrieved", status)
}

// TestPrint sends a test page to the printer.
func (h *ReceiptHandler) TestPrint(c *gin.Context) {
	result, err := h.receiptService.TestPrint(c.Request.Context())
	if err != nil {
		// The rendered page is still useful when no printer is attached
		response.OKWithWarning(c, "Test page rendered", result, err.Error())
		return
	}

	response.OK(c, "Test page sent to printer", result)
}

// Preview renders a sale's receipt as text.
func (h *ReceiptHandler) Preview(c *gin.Context) {
	id, err := parseID(c, "id", "sale")
	if err != nil {
		response.Error(c, err)
		return
	}

	result, err := h.receiptService.PreviewSaleReceipt(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Receipt rendered", result)
}

// Print prints a sale's receipt.
func (h *ReceiptHandler) Print(c *gin.Context) {
	id, err := parseID(c, "id", "sale")
	if err != nil {
		response.Error(c, err)
		return
	}

	result, err := h.receiptService.PrintSaleReceipt(c.Request.Context(), id)
	if err != nil {
		if result != nil {
			response.OKWithWarning(c, "Receipt generated but printing failed", result, err.Error())
			return
		}
		response.Error(c, err)
		return
	}

	response.OK(c, "Receipt printed successfully", result)
}
