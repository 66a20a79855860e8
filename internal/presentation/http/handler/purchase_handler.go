package handler

import (
	"time"

	"github.com/frogshopping/PharmaCare-POS-sub000/internal/application/service"
	"github.com/frogshopping/PharmaCare-POS-sub000/internal/domain/enum"
	"github.com/frogshopping/PharmaCare-POS-sub000/internal/domain/repository"
	"github.com/frogshopping/PharmaCare-POS-sub000/internal/presentation/http/dto/request"
	"github.com/frogshopping/PharmaCare-POS-sub000/internal/presentation/http/dto/response"
	"github.com/frogshopping/PharmaCare-POS-sub000/pkg/apperror"
	"github.com/gin-gonic/gin"
)

// PurchaseHandler handles purchase-related HTTP requests
type PurchaseHandler struct {
	purchaseService *service.PurchaseService
}

// NewPurchaseHandler creates a new purchase handler
func NewPurchaseHandler(purchaseService *service.PurchaseService) *PurchaseHandler {
	return &PurchaseHandler{purchaseService: purchaseService}
}

// List handles listing purchases
func (h *PurchaseHandler) List(c *gin.Context) {
	var req request.PurchaseFilterRequest
	if !bindQuery(c, &req) {
		return
	}

	params := &repository.PurchaseFilterParams{
		Pagination: pageParams(req.Page, req.PerPage),
		Search:     req.Search,
		SortBy:     req.SortBy,
		SortOrder:  req.SortOrder,
	}

	if req.Status != "" {
		status, err := enum.ParsePurchaseStatus(req.Status)
		if err != nil {
			response.Error(c, apperror.NewValidationError(apperror.FieldError{Field: "status", Message: "is not a known purchase status"}))
			return
		}
		params.Status = &status
	}

	var err error
	if params.SupplierID, err = optionalUUID(req.SupplierID, "supplier_id"); err != nil {
		response.Error(c, err)
		return
	}
	if params.StartDate, params.EndDate, err = dayRange(req.StartDate, req.EndDate); err != nil {
		response.Error(c, err)
		return
	}

	result, err := h.purchaseService.ListPurchases(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Page(c, "Purchases retrieved successfully", result)
}

// Create handles creating a purchase
func (h *PurchaseHandler) Create(c *gin.Context) {
	var req request.CreatePurchaseRequest
	if !bindJSON(c, &req) {
		return
	}

	items := make([]service.PurchaseItemInput, len(req.Items))
	for i, item := range req.Items {
		items[i] = service.PurchaseItemInput{
			MedicineID: item.MedicineID,
			Quantity:   item.Quantity,
			UnitCost:   amount(item.UnitCost),
			BatchNo:    item.BatchNo,
			ExpiryDate: item.ExpiryDate,
		}
	}

	var date time.Time
	if req.Date != nil {
		date = *req.Date
	}

	purchase, err := h.purchaseService.CreatePurchase(c.Request.Context(), &service.CreatePurchaseInput{
		SupplierID:     req.SupplierID,
		Date:           date,
		DiscountAmount: amount(req.DiscountAmount),
		TaxPercent:     amount(req.TaxPercent),
		PaidAmount:     amount(req.PaidAmount),
		Notes:          req.Notes,
		Items:          items,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Purchase created successfully", purchase)
}

// Get handles getting a single purchase
func (h *PurchaseHandler) Get(c *gin.Context) {
	id, err := parseID(c, "id", "purchase")
	if err != nil {
		response.Error(c, err)
		return
	}

	purchase, err := h.purchaseService.GetPurchase(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Purchase retrieved successfully", purchase)
}

// Receive books a pending purchase into stock
func (h *PurchaseHandler) Receive(c *gin.Context) {
	id, err := parseID(c, "id", "purchase")
	if err != nil {
		response.Error(c, err)
		return
	}

	purchase, err := h.purchaseService.ReceivePurchase(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Purchase received successfully", purchase)
}

// Cancel handles cancelling a pending purchase
func (h *PurchaseHandler) Cancel(c *gin.Context) {
	id, err := parseID(c, "id", "purchase")
	if err != nil {
		response.Error(c, err)
		return
	}

	purchase, err := h.purchaseService.CancelPurchase(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Purchase cancelled successfully", purchase)
}

// Delete handles deleting a purchase
func (h *PurchaseHandler) Delete(c *gin.Context) {
	id, err := parseID(c, "id", "purchase")
	if err != nil {
		response.Error(c, err)
		return
	}

	if err := h.purchaseService.DeletePurchase(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}
