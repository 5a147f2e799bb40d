package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"freshstock/internal/domain/orders/purchase"
	"freshstock/internal/infrastructure/http/v1/dto"
)

// PurchaseOrderHandler serves the buyer cart operations. The calling
// buyer is identified by the Buyer-Id header.
type PurchaseOrderHandler struct {
	BaseHandler
	svc *purchase.Service
}

func NewPurchaseOrderHandler(svc *purchase.Service) *PurchaseOrderHandler {
	return &PurchaseOrderHandler{svc: svc}
}

// Create submits a cart. Repeated submissions merge into the buyer's
// open order.
func (h *PurchaseOrderHandler) Create(c *gin.Context) {
	buyerID, ok := h.BuyerID(c)
	if !ok {
		return
	}

	var req dto.CreatePurchaseOrderRequest
	if !h.BindJSON(c, &req) {
		return
	}

	total, err := h.svc.Create(c.Request.Context(), buyerID, req.Date, req.Items())
	if err != nil {
		h.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.TotalResponse{TotalPrice: total})
}

// Get returns the order with its lines and running total.
func (h *PurchaseOrderHandler) Get(c *gin.Context) {
	buyerID, ok := h.BuyerID(c)
	if !ok {
		return
	}
	orderID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	view, err := h.svc.Get(c.Request.Context(), orderID, buyerID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.NewPurchaseOrderResponse(view))
}

// Close settles the order and returns its total.
func (h *PurchaseOrderHandler) Close(c *gin.Context) {
	buyerID, ok := h.BuyerID(c)
	if !ok {
		return
	}
	orderID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	total, err := h.svc.Close(c.Request.Context(), orderID, buyerID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.TotalResponse{TotalPrice: total})
}

// DropProduct removes one product from the open order.
func (h *PurchaseOrderHandler) DropProduct(c *gin.Context) {
	buyerID, ok := h.BuyerID(c)
	if !ok {
		return
	}
	orderID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}
	productID, ok := h.ParseID(c, "productId")
	if !ok {
		return
	}

	if err := h.svc.DropProduct(c.Request.Context(), orderID, productID, buyerID); err != nil {
		h.Error(c, err)
		return
	}
	h.NoContent(c)
}
