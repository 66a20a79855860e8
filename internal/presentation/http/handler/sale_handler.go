package handler

import (
	"github.com/frogshopping/PharmaCare-POS-sub000/internal/application/service"
	"github.com/frogshopping/PharmaCare-POS-sub000/internal/domain/billing"
	"github.com/frogshopping/PharmaCare-POS-sub000/internal/domain/enum"
	"github.com/frogshopping/PharmaCare-POS-sub000/internal/domain/repository"
	"github.com/frogshopping/PharmaCare-POS-sub000/internal/presentation/http/dto/request"
	"github.com/frogshopping/PharmaCare-POS-sub000/internal/presentation/http/dto/response"
	"github.com/frogshopping/PharmaCare-POS-sub000/pkg/apperror"
	"github.com/gin-gonic/gin"
)

// SaleHandler serves the POS session and the sales ledger.
type SaleHandler struct {
	saleService *service.SaleService
}

func NewSaleHandler(saleService *service.SaleService) *SaleHandler {
	return &SaleHandler{saleService: saleService}
}

func detailsInput(req *request.SaleDetailsRequest) *service.SaleDetailsInput {
	return &service.SaleDetailsInput{
		CustomerName:  req.CustomerName,
		CustomerPhone: req.CustomerPhone,
		PaymentType:   req.PaymentType,
		Notes:         req.Notes,
	}
}

// StartDraft opens a POS session. The body is optional.
func (h *SaleHandler) StartDraft(c *gin.Context) {
	var req request.SaleDetailsRequest
	if c.Request.ContentLength != 0 && !bindJSON(c, &req) {
		return
	}

	draft, err := h.saleService.StartSale(detailsInput(&req))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "Sale session started", draft)
}

func (h *SaleHandler) GetDraft(c *gin.Context) {
	id, err := parseID(c, "id", "sale session")
	if err != nil {
		response.Error(c, err)
		return
	}
	draft, err := h.saleService.GetDraft(id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Sale session retrieved", draft)
}

func (h *SaleHandler) UpdateDetails(c *gin.Context) {
	id, err := parseID(c, "id", "sale session")
	if err != nil {
		response.Error(c, err)
		return
	}
	var req request.SaleDetailsRequest
	if !bindJSON(c, &req) {
		return
	}
	draft, err := h.saleService.UpdateDetails(id, detailsInput(&req))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Sale session updated", draft)
}

// AddLine puts a medicine in the cart, merging with an existing line.
func (h *SaleHandler) AddLine(c *gin.Context) {
	id, err := parseID(c, "id", "sale session")
	if err != nil {
		response.Error(c, err)
		return
	}
	var req request.AddLineRequest
	if !bindJSON(c, &req) {
		return
	}
	draft, err := h.saleService.AddLine(c.Request.Context(), id, &service.AddLineInput{
		MedicineID: req.MedicineID,
		Quantity:   req.Quantity,
		UnitPrice:  optionalAmount(req.UnitPrice),
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Item added", draft)
}

func (h *SaleHandler) UpdateLine(c *gin.Context) {
	id, err := parseID(c, "id", "sale session")
	if err != nil {
		response.Error(c, err)
		return
	}
	itemID, err := parseID(c, "item_id", "item")
	if err != nil {
		response.Error(c, err)
		return
	}
	var req request.UpdateLineRequest
	if !bindJSON(c, &req) {
		return
	}
	draft, err := h.saleService.UpdateLine(id, itemID, &service.UpdateLineInput{
		Quantity:  req.Quantity,
		UnitPrice: optionalAmount(req.UnitPrice),
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Item updated", draft)
}

func (h *SaleHandler) RemoveLine(c *gin.Context) {
	id, err := parseID(c, "id", "sale session")
	if err != nil {
		response.Error(c, err)
		return
	}
	itemID, err := parseID(c, "item_id", "item")
	if err != nil {
		response.Error(c, err)
		return
	}
	draft, err := h.saleService.RemoveLine(id, itemID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Item removed", draft)
}

// SetPayment applies one edit of a payment field and returns the
// reconciled session.
func (h *SaleHandler) SetPayment(c *gin.Context) {
	id, err := parseID(c, "id", "sale session")
	if err != nil {
		response.Error(c, err)
		return
	}
	var req request.PaymentFieldRequest
	if !bindJSON(c, &req) {
		return
	}
	draft, err := h.saleService.SetPaymentField(id, req.Field, amount(req.Value))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Payment updated", draft)
}

// Submit turns the session into a sale.
func (h *SaleHandler) Submit(c *gin.Context) {
	id, err := parseID(c, "id", "sale session")
	if err != nil {
		response.Error(c, err)
		return
	}
	sale, err := h.saleService.SubmitSale(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "Sale completed successfully", sale)
}

func (h *SaleHandler) Abandon(c *gin.Context) {
	id, err := parseID(c, "id", "sale session")
	if err != nil {
		response.Error(c, err)
		return
	}
	if err := h.saleService.AbandonSale(id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Quote reconciles a client-held cart without a session.
func (h *SaleHandler) Quote(c *gin.Context) {
	var req request.QuoteRequest
	if !bindJSON(c, &req) {
		return
	}

	lines := make([]service.QuoteLine, len(req.Lines))
	for i, l := range req.Lines {
		lines[i] = service.QuoteLine{
			ItemID:    l.ItemID,
			Name:      l.Name,
			UnitPrice: amount(l.UnitPrice),
			Quantity:  l.Quantity,
		}
	}
	state := billing.NewPaymentState()
	state.DiscountPercent = amount(req.State.DiscountPercent)
	state.DiscountAmount = amount(req.State.DiscountAmount)
	state.VATPercent = amount(req.State.VATPercent)
	state.ShippingFee = amount(req.State.ShippingFee)
	state.ReceivedAmount = amount(req.State.ReceivedAmount)

	quote, err := h.saleService.Quote(&service.QuoteInput{
		Lines:   lines,
		State:   state,
		Changed: req.Changed,
		Value:   optionalAmount(req.Value),
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Quote calculated", quote)
}

func (h *SaleHandler) List(c *gin.Context) {
	var req request.SaleFilterRequest
	if !bindQuery(c, &req) {
		return
	}

	params := &repository.SaleFilterParams{
		Pagination: pageParams(req.Page, req.PerPage),
		Search:     req.Search,
		SortBy:     req.SortBy,
		SortOrder:  req.SortOrder,
	}
	if req.Status != "" {
		status, err := enum.ParseSaleStatus(req.Status)
		if err != nil {
			response.Error(c, apperror.NewValidationError(apperror.FieldError{Field: "status", Message: "is not a known sale status"}))
			return
		}
		params.Status = &status
	}
	var err error
	if params.StartDate, params.EndDate, err = dayRange(req.StartDate, req.EndDate); err != nil {
		response.Error(c, err)
		return
	}

	result, err := h.saleService.ListSales(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Page(c, "Sales retrieved successfully", result)
}

func (h *SaleHandler) Get(c *gin.Context) {
	id, err := parseID(c, "id", "sale")
	if err != nil {
		response.Error(c, err)
		return
	}
	sale, err := h.saleService.GetSale(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Sale retrieved successfully", sale)
}

// ListDue lists sales with an outstanding balance.
func (h *SaleHandler) ListDue(c *gin.Context) {
	var req request.ListRequest
	if !bindQuery(c, &req) {
		return
	}
	result, err := h.saleService.ListDueSales(c.Request.Context(), pageParams(req.Page, req.PerPage))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Page(c, "Due sales retrieved successfully", result)
}

func (h *SaleHandler) PayDue(c *gin.Context) {
	id, err := parseID(c, "id", "sale")
	if err != nil {
		response.Error(c, err)
		return
	}
	var req request.PayDueRequest
	if !bindJSON(c, &req) {
		return
	}
	sale, err := h.saleService.PayDue(c.Request.Context(), id, amount(req.Amount))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Payment recorded", sale)
}

// Cancel voids a sale and returns its items to stock.
func (h *SaleHandler) Cancel(c *gin.Context) {
	id, err := parseID(c, "id", "sale")
	if err != nil {
		response.Error(c, err)
		return
	}
	sale, err := h.saleService.CancelSale(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Sale cancelled successfully", sale)
}
