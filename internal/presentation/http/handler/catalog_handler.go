package handler

import (
	"github.com/frogshopping/PharmaCare-POS-sub000/internal/application/service"
	"github.com/frogshopping/PharmaCare-POS-sub000/internal/domain/enum"
	"github.com/frogshopping/PharmaCare-POS-sub000/internal/domain/repository"
	"github.com/frogshopping/PharmaCare-POS-sub000/internal/presentation/http/dto/request"
	"github.com/frogshopping/PharmaCare-POS-sub000/internal/presentation/http/dto/response"
	"github.com/frogshopping/PharmaCare-POS-sub000/pkg/apperror"
	"github.com/gin-gonic/gin"
)

// CategoryHandler handles medicine category requests
type CategoryHandler struct {
	categoryService *service.CategoryService
}

func NewCategoryHandler(categoryService *service.CategoryService) *CategoryHandler {
	return &CategoryHandler{categoryService: categoryService}
}

func (h *CategoryHandler) List(c *gin.Context) {
	categories, err := h.categoryService.ListCategories(c.Request.Context(), c.Query("search"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Categories retrieved successfully", categories)
}

func (h *CategoryHandler) Get(c *gin.Context) {
	id, err := parseID(c, "id", "category")
	if err != nil {
		response.Error(c, err)
		return
	}
	category, err := h.categoryService.GetCategory(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Category retrieved successfully", category)
}

func (h *CategoryHandler) Create(c *gin.Context) {
	var req request.CategoryRequest
	if !bindJSON(c, &req) {
		return
	}
	category, err := h.categoryService.CreateCategory(c.Request.Context(), &service.CategoryInput{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "Category created successfully", category)
}

func (h *CategoryHandler) Update(c *gin.Context) {
	id, err := parseID(c, "id", "category")
	if err != nil {
		response.Error(c, err)
		return
	}
	var req request.CategoryRequest
	if !bindJSON(c, &req) {
		return
	}
	category, err := h.categoryService.UpdateCategory(c.Request.Context(), id, &service.CategoryInput{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Category updated successfully", category)
}

func (h *CategoryHandler) Delete(c *gin.Context) {
	id, err := parseID(c, "id", "category")
	if err != nil {
		response.Error(c, err)
		return
	}
	if err := h.categoryService.DeleteCategory(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Category deleted successfully", nil)
}

// RackHandler handles storage rack requests
type RackHandler struct {
	rackService *service.RackService
}

func NewRackHandler(rackService *service.RackService) *RackHandler {
	return &RackHandler{rackService: rackService}
}

func (h *RackHandler) List(c *gin.Context) {
	var req request.ListRequest
	if !bindQuery(c, &req) {
		return
	}
	result, err := h.rackService.ListRacks(c.Request.Context(), &repository.RackFilterParams{
		Pagination: pageParams(req.Page, req.PerPage),
		Search:     req.Search,
		SortBy:     req.SortBy,
		SortOrder:  req.SortOrder,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Page(c, "Racks retrieved successfully", result)
}

func (h *RackHandler) Get(c *gin.Context) {
	id, err := parseID(c, "id", "rack")
	if err != nil {
		response.Error(c, err)
		return
	}
	rack, err := h.rackService.GetRack(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Rack retrieved successfully", rack)
}

func (h *RackHandler) Create(c *gin.Context) {
	var req request.RackRequest
	if !bindJSON(c, &req) {
		return
	}
	rack, err := h.rackService.CreateRack(c.Request.Context(), rackInput(&req))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "Rack created successfully", rack)
}

func (h *RackHandler) Update(c *gin.Context) {
	id, err := parseID(c, "id", "rack")
	if err != nil {
		response.Error(c, err)
		return
	}
	var req request.RackRequest
	if !bindJSON(c, &req) {
		return
	}
	rack, err := h.rackService.UpdateRack(c.Request.Context(), id, rackInput(&req))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Rack updated successfully", rack)
}

func (h *RackHandler) Delete(c *gin.Context) {
	id, err := parseID(c, "id", "rack")
	if err != nil {
		response.Error(c, err)
		return
	}
	if err := h.rackService.DeleteRack(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Rack deleted successfully", nil)
}

// Medicines lists what is stored on a rack
func (h *RackHandler) Medicines(c *gin.Context) {
	id, err := parseID(c, "id", "rack")
	if err != nil {
		response.Error(c, err)
		return
	}
	var req request.ListRequest
	if !bindQuery(c, &req) {
		return
	}
	result, err := h.rackService.ListRackMedicines(c.Request.Context(), id, &repository.MedicineFilterParams{
		Pagination: pageParams(req.Page, req.PerPage),
		Search:     req.Search,
		SortBy:     req.SortBy,
		SortOrder:  req.SortOrder,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Page(c, "Rack medicines retrieved successfully", result)
}

func rackInput(req *request.RackRequest) *service.RackInput {
	return &service.RackInput{
		Name:        req.Name,
		Code:        req.Code,
		Location:    req.Location,
		Description: req.Description,
		Capacity:    req.Capacity,
	}
}

// SupplierHandler handles supplier requests
type SupplierHandler struct {
	supplierService *service.SupplierService
}

func NewSupplierHandler(supplierService *service.SupplierService) *SupplierHandler {
	return &SupplierHandler{supplierService: supplierService}
}

func (h *SupplierHandler) List(c *gin.Context) {
	var req struct {
		request.ListRequest
		Type   string `form:"type"`
		Active *bool  `form:"active"`
	}
	if !bindQuery(c, &req) {
		return
	}

	params := &repository.SupplierFilterParams{
		Pagination: pageParams(req.Page, req.PerPage),
		Search:     req.Search,
		Active:     req.Active,
		SortBy:     req.SortBy,
		SortOrder:  req.SortOrder,
	}
	if req.Type != "" {
		t, err := enum.ParseSupplierType(req.Type)
		if err != nil {
			response.Error(c, apperror.NewValidationError(apperror.FieldError{Field: "type", Message: "is not a known supplier type"}))
			return
		}
		params.Type = &t
	}

	result, err := h.supplierService.ListSuppliers(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Page(c, "Suppliers retrieved successfully", result)
}

func (h *SupplierHandler) Get(c *gin.Context) {
	id, err := parseID(c, "id", "supplier")
	if err != nil {
		response.Error(c, err)
		return
	}
	supplier, err := h.supplierService.GetSupplier(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Supplier retrieved successfully", supplier)
}

func (h *SupplierHandler) Create(c *gin.Context) {
	var req request.SupplierRequest
	if !bindJSON(c, &req) {
		return
	}
	supplier, err := h.supplierService.CreateSupplier(c.Request.Context(), supplierInput(&req))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "Supplier created successfully", supplier)
}

func (h *SupplierHandler) Update(c *gin.Context) {
	id, err := parseID(c, "id", "supplier")
	if err != nil {
		response.Error(c, err)
		return
	}
	var req request.SupplierRequest
	if !bindJSON(c, &req) {
		return
	}
	supplier, err := h.supplierService.UpdateSupplier(c.Request.Context(), id, supplierInput(&req))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Supplier updated successfully", supplier)
}

func (h *SupplierHandler) Delete(c *gin.Context) {
	id, err := parseID(c, "id", "supplier")
	if err != nil {
		response.Error(c, err)
		return
	}
	if err := h.supplierService.DeleteSupplier(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Supplier deleted successfully", nil)
}

func supplierInput(req *request.SupplierRequest) *service.SupplierInput {
	return &service.SupplierInput{
		Name:          req.Name,
		ContactPerson: req.ContactPerson,
		Email:         req.Email,
		Phone:         req.Phone,
		Address:       req.Address,
		LicenseNo:     req.LicenseNo,
		Type:          req.Type,
		Active:        req.Active,
	}
}
