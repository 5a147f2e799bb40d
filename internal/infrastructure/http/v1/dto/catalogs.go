package dto

import (
	"freshstock/internal/domain/catalogs/buyer"
	"freshstock/internal/domain/catalogs/manager"
	"freshstock/internal/domain/catalogs/product"
	"freshstock/internal/domain/catalogs/section"
	"freshstock/internal/domain/catalogs/warehouse"
	"freshstock/internal/core/id"
)

// --- Product ---

type CreateProductRequest struct {
	Code     string `json:"code,omitempty"`
	Name     string `json:"name" binding:"required"`
	Brand    string `json:"brand,omitempty"`
	Category string `json:"category" binding:"required"`
}

func (r *CreateProductRequest) ToEntity() (*product.Product, error) {
	category, err := product.ParseCategoryCode(r.Category)
	if err != nil {
		return nil, err
	}
	return product.NewProduct(r.Code, r.Name, r.Brand, category), nil
}

type ProductResponse struct {
	ID       string `json:"id"`
	Code     string `json:"code"`
	Name     string `json:"name"`
	Brand    string `json:"brand,omitempty"`
	Category string `json:"category"`
}

func NewProductResponse(p *product.Product) ProductResponse {
	return ProductResponse{
		ID:       p.ID.String(),
		Code:     p.Code,
		Name:     p.Name,
		Brand:    p.Brand,
		Category: string(p.Category),
	}
}

// --- Buyer ---

type CreateBuyerRequest struct {
	Code     string `json:"code,omitempty"`
	Name     string `json:"name" binding:"required"`
	Username string `json:"username" binding:"required"`
}

func (r *CreateBuyerRequest) ToEntity() *buyer.Buyer {
	return buyer.NewBuyer(r.Code, r.Name, r.Username)
}

type BuyerResponse struct {
	ID       string `json:"id"`
	Code     string `json:"code"`
	Name     string `json:"name"`
	Username string `json:"username"`
}

func NewBuyerResponse(b *buyer.Buyer) BuyerResponse {
	return BuyerResponse{
		ID:       b.ID.String(),
		Code:     b.Code,
		Name:     b.Name,
		Username: b.Username,
	}
}

// --- Manager ---

type CreateManagerRequest struct {
	Code     string `json:"code,omitempty"`
	Name     string `json:"name" binding:"required"`
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required"`
}

func (r *CreateManagerRequest) ToEntity() *manager.Manager {
	return manager.NewManager(r.Code, r.Name, r.Username, r.Email)
}

type ManagerResponse struct {
	ID       string `json:"id"`
	Code     string `json:"code"`
	Name     string `json:"name"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

func NewManagerResponse(m *manager.Manager) ManagerResponse {
	return ManagerResponse{
		ID:       m.ID.String(),
		Code:     m.Code,
		Name:     m.Name,
		Username: m.Username,
		Email:    m.Email,
	}
}

// --- Warehouse ---

type CreateWarehouseRequest struct {
	Code     string `json:"code,omitempty"`
	Name     string `json:"name" binding:"required"`
	Location string `json:"location,omitempty"`
}

func (r *CreateWarehouseRequest) ToEntity() *warehouse.Warehouse {
	return warehouse.NewWarehouse(r.Code, r.Name, r.Location)
}

type WarehouseResponse struct {
	ID       string `json:"id"`
	Code     string `json:"code"`
	Name     string `json:"name"`
	Location string `json:"location,omitempty"`
}

func NewWarehouseResponse(w *warehouse.Warehouse) WarehouseResponse {
	return WarehouseResponse{
		ID:       w.ID.String(),
		Code:     w.Code,
		Name:     w.Name,
		Location: w.Location,
	}
}

// --- Section ---

type CreateSectionRequest struct {
	Code        string `json:"code,omitempty"`
	Name        string `json:"name" binding:"required"`
	WarehouseID string `json:"warehouseId" binding:"required"`
	ManagerID   string `json:"managerId" binding:"required"`
	Category    string `json:"category" binding:"required"`
	MaxBatches  int    `json:"maxBatches" binding:"required,gt=0"`
}

func (r *CreateSectionRequest) ToEntity() (*section.Section, error) {
	category, err := product.ParseCategoryCode(r.Category)
	if err != nil {
		return nil, err
	}
	warehouseID, _ := id.Parse(r.WarehouseID)
	managerID, _ := id.Parse(r.ManagerID)
	return section.NewSection(r.Code, r.Name, warehouseID, managerID, category, r.MaxBatches), nil
}

type SectionResponse struct {
	ID          string `json:"id"`
	Code        string `json:"code"`
	Name        string `json:"name"`
	WarehouseID string `json:"warehouseId"`
	ManagerID   string `json:"managerId"`
	Category    string `json:"category"`
	MaxBatches  int    `json:"maxBatches"`
}

func NewSectionResponse(s *section.Section) SectionResponse {
	return SectionResponse{
		ID:          s.ID.String(),
		Code:        s.Code,
		Name:        s.Name,
		WarehouseID: s.WarehouseID.String(),
		ManagerID:   s.ManagerID.String(),
		Category:    string(s.Category),
		MaxBatches:  s.MaxBatches,
	}
}
