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

// MedicineHandler handles medicine-related HTTP requests
type MedicineHandler struct {
	medicineService *service.MedicineService
	rackService     *service.RackService
}

// NewMedicineHandler creates a new medicine handler
func NewMedicineHandler(medicineService *service.MedicineService, rackService *service.RackService) *MedicineHandler {
	return &MedicineHandler{
		medicineService: medicineService,
		rackService:     rackService,
	}
}

// List handles listing medicines
func (h *MedicineHandler) List(c *gin.Context) {
	var req request.MedicineFilterRequest
	if !bindQuery(c, &req) {
		return
	}

	params, err := medicineFilter(&req)
	if err != nil {
		response.Error(c, err)
		return
	}

	result, err := h.medicineService.ListMedicines(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Page(c, "Medicines retrieved successfully", result)
}

func medicineFilter(req *request.MedicineFilterRequest) (*repository.MedicineFilterParams, error) {
	params := &repository.MedicineFilterParams{
		Pagination: pageParams(req.Page, req.PerPage),
		Search:     req.Search,
		LowStock:   req.LowStock,
		SortBy:     req.SortBy,
		SortOrder:  req.SortOrder,
	}

	var err error
	if params.CategoryID, err = optionalUUID(req.CategoryID, "category_id"); err != nil {
		return nil, err
	}
	if params.RackID, err = optionalUUID(req.RackID, "rack_id"); err != nil {
		return nil, err
	}
	if params.SupplierID, err = optionalUUID(req.SupplierID, "supplier_id"); err != nil {
		return nil, err
	}
	if req.ExpiringDays != nil {
		before := time.Now().AddDate(0, 0, *req.ExpiringDays)
		params.ExpiringBefore = &before
	}
	if req.Type != "" {
		t, err := enum.ParseMedicineType(req.Type)
		if err != nil {
			return nil, apperror.NewValidationError(apperror.FieldError{Field: "type", Message: "is not a known medicine type"})
		}
		params.Type = &t
	}
	return params, nil
}

// LowStock handles listing medicines at or below their alert quantity
func (h *MedicineHandler) LowStock(c *gin.Context) {
	var req request.ListRequest
	if !bindQuery(c, &req) {
		return
	}

	result, err := h.medicineService.ListLowStock(c.Request.Context(), pageParams(req.Page, req.PerPage))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Page(c, "Low stock medicines retrieved successfully", result)
}

// Expiring handles listing medicines close to expiry
func (h *MedicineHandler) Expiring(c *gin.Context) {
	var req struct {
		Days    int `form:"days" binding:"min=0"`
		Page    int `form:"page"`
		PerPage int `form:"per_page"`
	}
	if !bindQuery(c, &req) {
		return
	}

	result, err := h.medicineService.ListExpiring(c.Request.Context(), req.Days, pageParams(req.Page, req.PerPage))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Page(c, "Expiring medicines retrieved successfully", result)
}

// Get handles getting a medicine by ID
func (h *MedicineHandler) Get(c *gin.Context) {
	id, err := parseID(c, "id", "medicine")
	if err != nil {
		response.Error(c, err)
		return
	}

	medicine, err := h.medicineService.GetMedicine(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Medicine retrieved successfully", medicine)
}

// Create handles creating a medicine
func (h *MedicineHandler) Create(c *gin.Context) {
	var req request.CreateMedicineRequest
	if !bindJSON(c, &req) {
		return
	}
	if req.Type == "" {
		req.Type = enum.MedicineTypeOther
	}

	medicine, err := h.medicineService.CreateMedicine(c.Request.Context(), &service.CreateMedicineInput{
		CategoryID:    req.CategoryID,
		RackID:        req.RackID,
		SupplierID:    req.SupplierID,
		Name:          req.Name,
		GenericName:   req.GenericName,
		Code:          req.Code,
		Type:          req.Type,
		Strength:      req.Strength,
		Manufacturer:  req.Manufacturer,
		Quantity:      req.Quantity,
		QuantityAlert: req.QuantityAlert,
		BatchNo:       req.BatchNo,
		ExpiryDate:    req.ExpiryDate,
		StripSize:     req.StripSize,
		BoxSize:       req.BoxSize,
		TPUnit:        amount(req.TPUnit),
		MRPUnit:       amount(req.MRPUnit),
		Notes:         req.Notes,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Medicine created successfully", medicine)
}

// Update handles updating a medicine
func (h *MedicineHandler) Update(c *gin.Context) {
	id, err := parseID(c, "id", "medicine")
	if err != nil {
		response.Error(c, err)
		return
	}

	var req request.UpdateMedicineRequest
	if !bindJSON(c, &req) {
		return
	}

	medicine, err := h.medicineService.UpdateMedicine(c.Request.Context(), &service.UpdateMedicineInput{
		ID:            id,
		CategoryID:    req.CategoryID,
		RackID:        req.RackID,
		SupplierID:    req.SupplierID,
		Name:          req.Name,
		GenericName:   req.GenericName,
		Code:          req.Code,
		Type:          req.Type,
		Strength:      req.Strength,
		Manufacturer:  req.Manufacturer,
		Quantity:      req.Quantity,
		QuantityAlert: req.QuantityAlert,
		BatchNo:       req.BatchNo,
		ExpiryDate:    req.ExpiryDate,
		StripSize:     req.StripSize,
		BoxSize:       req.BoxSize,
		TPUnit:        optionalAmount(req.TPUnit),
		MRPUnit:       optionalAmount(req.MRPUnit),
		Notes:         req.Notes,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Medicine updated successfully", medicine)
}

// Delete handles deleting a medicine
func (h *MedicineHandler) Delete(c *gin.Context) {
	id, err := parseID(c, "id", "medicine")
	if err != nil {
		response.Error(c, err)
		return
	}

	if err := h.medicineService.DeleteMedicine(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Medicine deleted successfully", nil)
}

// PricingPreview derives pack prices and margin for a medicine form
func (h *MedicineHandler) PricingPreview(c *gin.Context) {
	var req request.PricingPreviewRequest
	if !bindJSON(c, &req) {
		return
	}

	preview, err := h.medicineService.PreviewPricing(&service.PricingPreviewInput{
		Type:      req.Type,
		StripSize: req.StripSize,
		BoxSize:   req.BoxSize,
		TPUnit:    amount(req.TPUnit),
		MRPUnit:   amount(req.MRPUnit),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Pricing calculated", preview)
}

// Import handles bulk import of catalog records
func (h *MedicineHandler) Import(c *gin.Context) {
	var req request.ImportMedicinesRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.medicineService.ImportMedicines(c.Request.Context(), req.Records)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Import finished", result)
}

// AssignRack moves a medicine onto a rack, or off it when rack_id is null
func (h *MedicineHandler) AssignRack(c *gin.Context) {
	id, err := parseID(c, "id", "medicine")
	if err != nil {
		response.Error(c, err)
		return
	}

	var req request.AssignRackRequest
	if !bindJSON(c, &req) {
		return
	}

	medicine, err := h.rackService.AssignMedicine(c.Request.Context(), id, req.RackID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Rack assignment updated", medicine)
}
