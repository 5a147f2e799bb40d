package handlers

import (
	"github.com/gin-gonic/gin"

	"freshstock/internal/core/id"
	"freshstock/internal/domain/documents/inbound"
	"freshstock/internal/infrastructure/http/v1/dto"
)

// InboundOrderHandler serves the receiving endpoints. All of them act
// on behalf of the manager identified by the Manager-Id header.
type InboundOrderHandler struct {
	BaseHandler
	svc *inbound.Service
}

func NewInboundOrderHandler(svc *inbound.Service) *InboundOrderHandler {
	return &InboundOrderHandler{svc: svc}
}

// Create registers a new inbound order with its batches.
func (h *InboundOrderHandler) Create(c *gin.Context) {
	managerID, ok := h.ManagerID(c)
	if !ok {
		return
	}

	var req dto.CreateInboundOrderRequest
	if !h.BindJSON(c, &req) {
		return
	}

	order := req.ToEntity()
	if err := h.svc.Create(c.Request.Context(), order, managerID); err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, order.ID.String())
}

// Update amends an existing inbound order. Batches carrying an id are
// corrected in place, batches without one are received as new stock.
func (h *InboundOrderHandler) Update(c *gin.Context) {
	managerID, ok := h.ManagerID(c)
	if !ok {
		return
	}
	orderID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	var req dto.UpdateInboundOrderRequest
	if !h.BindJSON(c, &req) {
		return
	}

	// The section is taken from the stored order, never from the body.
	order := req.ToEntity(orderID, id.Nil())
	if err := h.svc.Update(c.Request.Context(), order, managerID); err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.IDResponse{ID: order.ID.String()})
}

// Get returns an inbound order with its batches.
func (h *InboundOrderHandler) Get(c *gin.Context) {
	orderID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	order, err := h.svc.GetByID(c.Request.Context(), orderID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.NewInboundOrderResponse(order))
}
