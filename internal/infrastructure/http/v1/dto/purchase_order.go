package dto

import (
	"time"

	"freshstock/internal/core/id"
	"freshstock/internal/core/types"
	"freshstock/internal/domain/orders/purchase"
)

type PurchaseItemRequest struct {
	ProductID string `json:"productId" binding:"required"`
	Quantity  int    `json:"quantity" binding:"gte=0"`
}

type CreatePurchaseOrderRequest struct {
	Date     time.Time             `json:"date"`
	Products []PurchaseItemRequest `json:"products" binding:"required,min=1,dive"`
}

func (r *CreatePurchaseOrderRequest) Items() []purchase.LineItem {
	items := make([]purchase.LineItem, 0, len(r.Products))
	for _, p := range r.Products {
		productID, _ := id.Parse(p.ProductID)
		items = append(items, purchase.LineItem{ProductID: productID, Quantity: p.Quantity})
	}
	return items
}

// TotalResponse carries the order total after a submission or close.
type TotalResponse struct {
	TotalPrice types.Money `json:"totalPrice"`
}

type PurchaseLineResponse struct {
	ID        string      `json:"id"`
	BatchID   string      `json:"batchId"`
	ProductID string      `json:"productId"`
	Quantity  int         `json:"quantity"`
	UnitPrice types.Money `json:"unitPrice"`
	Subtotal  types.Money `json:"subtotal"`
}

type PurchaseOrderResponse struct {
	ID     string                 `json:"id"`
	Number string                 `json:"number"`
	Date   time.Time              `json:"date"`
	Status string                 `json:"status"`
	Lines  []PurchaseLineResponse `json:"lines"`
	Total  types.Money            `json:"total"`
}

func NewPurchaseOrderResponse(view *purchase.OrderView) PurchaseOrderResponse {
	resp := PurchaseOrderResponse{
		ID:     view.Order.ID.String(),
		Number: view.Order.Number,
		Date:   view.Order.Date,
		Status: string(view.Order.Status),
		Total:  view.Total,
	}
	for _, l := range view.Lines {
		resp.Lines = append(resp.Lines, PurchaseLineResponse{
			ID:        l.ID.String(),
			BatchID:   l.BatchID.String(),
			ProductID: l.ProductID.String(),
			Quantity:  l.Quantity,
			UnitPrice: l.UnitPrice,
			Subtotal:  l.Subtotal(),
		})
	}
	return resp
}
