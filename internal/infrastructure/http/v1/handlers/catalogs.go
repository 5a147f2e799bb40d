package handlers

import (
	"github.com/gin-gonic/gin"

	"freshstock/internal/domain/catalogs/buyer"
	"freshstock/internal/domain/catalogs/manager"
	"freshstock/internal/domain/catalogs/product"
	"freshstock/internal/domain/catalogs/section"
	"freshstock/internal/domain/catalogs/warehouse"
	"freshstock/internal/infrastructure/http/v1/dto"
)

// ProductHandler serves the product catalog.
type ProductHandler struct {
	BaseHandler
	svc *product.Service
}

func NewProductHandler(svc *product.Service) *ProductHandler {
	return &ProductHandler{svc: svc}
}

func (h *ProductHandler) Create(c *gin.Context) {
	var req dto.CreateProductRequest
	if !h.BindJSON(c, &req) {
		return
	}

	p, err := req.ToEntity()
	if err != nil {
		h.Error(c, err)
		return
	}

	if err := h.svc.Create(c.Request.Context(), p); err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, p.ID.String())
}

func (h *ProductHandler) Get(c *gin.Context) {
	productID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	p, err := h.svc.GetByID(c.Request.Context(), productID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.NewProductResponse(p))
}

func (h *ProductHandler) List(c *gin.Context) {
	var category *product.Category
	if code := c.Query("category"); code != "" {
		parsed, err := product.ParseCategoryCode(code)
		if err != nil {
			h.Error(c, err)
			return
		}
		category = &parsed
	}

	products, err := h.svc.List(c.Request.Context(), category)
	if err != nil {
		h.Error(c, err)
		return
	}

	items := make([]dto.ProductResponse, 0, len(products))
	for _, p := range products {
		items = append(items, dto.NewProductResponse(p))
	}
	h.OK(c, dto.NewListResponse(items))
}

// BuyerHandler serves the buyer catalog.
type BuyerHandler struct {
	BaseHandler
	svc *buyer.Service
}

func NewBuyerHandler(svc *buyer.Service) *BuyerHandler {
	return &BuyerHandler{svc: svc}
}

func (h *BuyerHandler) Create(c *gin.Context) {
	var req dto.CreateBuyerRequest
	if !h.BindJSON(c, &req) {
		return
	}

	b := req.ToEntity()
	if err := h.svc.Create(c.Request.Context(), b); err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, b.ID.String())
}

func (h *BuyerHandler) Get(c *gin.Context) {
	buyerID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	b, err := h.svc.GetByID(c.Request.Context(), buyerID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.NewBuyerResponse(b))
}

func (h *BuyerHandler) List(c *gin.Context) {
	buyers, err := h.svc.List(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}

	items := make([]dto.BuyerResponse, 0, len(buyers))
	for _, b := range buyers {
		items = append(items, dto.NewBuyerResponse(b))
	}
	h.OK(c, dto.NewListResponse(items))
}

// ManagerHandler serves the manager catalog.
type ManagerHandler struct {
	BaseHandler
	svc *manager.Service
}

func NewManagerHandler(svc *manager.Service) *ManagerHandler {
	return &ManagerHandler{svc: svc}
}

func (h *ManagerHandler) Create(c *gin.Context) {
	var req dto.CreateManagerRequest
	if !h.BindJSON(c, &req) {
		return
	}

	m := req.ToEntity()
	if err := h.svc.Create(c.Request.Context(), m); err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, m.ID.String())
}

func (h *ManagerHandler) Get(c *gin.Context) {
	managerID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	m, err := h.svc.GetByID(c.Request.Context(), managerID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.NewManagerResponse(m))
}

// WarehouseHandler serves the warehouse catalog.
type WarehouseHandler struct {
	BaseHandler
	svc *warehouse.Service
}

func NewWarehouseHandler(svc *warehouse.Service) *WarehouseHandler {
	return &WarehouseHandler{svc: svc}
}

func (h *WarehouseHandler) Create(c *gin.Context) {
	var req dto.CreateWarehouseRequest
	if !h.BindJSON(c, &req) {
		return
	}

	w := req.ToEntity()
	if err := h.svc.Create(c.Request.Context(), w); err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, w.ID.String())
}

func (h *WarehouseHandler) List(c *gin.Context) {
	warehouses, err := h.svc.List(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}

	items := make([]dto.WarehouseResponse, 0, len(warehouses))
	for _, w := range warehouses {
		items = append(items, dto.NewWarehouseResponse(w))
	}
	h.OK(c, dto.NewListResponse(items))
}

// SectionHandler serves the section catalog.
type SectionHandler struct {
	BaseHandler
	svc *section.Service
}

func NewSectionHandler(svc *section.Service) *SectionHandler {
	return &SectionHandler{svc: svc}
}

func (h *SectionHandler) Create(c *gin.Context) {
	var req dto.CreateSectionRequest
	if !h.BindJSON(c, &req) {
		return
	}

	sec, err := req.ToEntity()
	if err != nil {
		h.Error(c, err)
		return
	}

	if err := h.svc.Create(c.Request.Context(), sec); err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, sec.ID.String())
}

func (h *SectionHandler) ListByWarehouse(c *gin.Context) {
	warehouseID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	sections, err := h.svc.ListByWarehouse(c.Request.Context(), warehouseID)
	if err != nil {
		h.Error(c, err)
		return
	}

	items := make([]dto.SectionResponse, 0, len(sections))
	for _, s := range sections {
		items = append(items, dto.NewSectionResponse(s))
	}
	h.OK(c, dto.NewListResponse(items))
}
