package dto

import (
	"time"

	"freshstock/internal/core/id"
	"freshstock/internal/core/types"
	"freshstock/internal/domain/batch"
	"freshstock/internal/domain/documents/inbound"
)

type BatchRequest struct {
	// ID is set when correcting an already received batch
	ID                 string      `json:"id,omitempty"`
	Number             string      `json:"number,omitempty"`
	ProductID          string      `json:"productId" binding:"required"`
	CurrentTemperature float64     `json:"currentTemperature"`
	MinimumTemperature float64     `json:"minimumTemperature"`
	InitialQuantity    int         `json:"initialQuantity" binding:"required,gt=0"`
	ManufacturingDate  time.Time   `json:"manufacturingDate" binding:"required"`
	ManufacturingTime  time.Time   `json:"manufacturingTime" binding:"required"`
	DueDate            time.Time   `json:"dueDate" binding:"required"`
	UnitPrice          types.Money `json:"unitPrice"`
}

func (r *BatchRequest) ToEntity() *batch.Batch {
	productID, _ := id.Parse(r.ProductID)

	b := batch.NewBatch(productID, r.InitialQuantity, r.DueDate, r.UnitPrice)
	if r.ID != "" {
		if batchID, err := id.Parse(r.ID); err == nil {
			b.ID = batchID
		}
	} else {
		b.ID = id.Nil() // assigned on receipt
	}
	b.Number = r.Number
	b.CurrentTemperature = r.CurrentTemperature
	b.MinimumTemperature = r.MinimumTemperature
	b.ManufacturingDate = r.ManufacturingDate
	b.ManufacturingTime = r.ManufacturingTime
	return b
}

type CreateInboundOrderRequest struct {
	Number    string         `json:"number,omitempty"`
	Date      time.Time      `json:"date" binding:"required"`
	SectionID string         `json:"sectionId" binding:"required"`
	Batches   []BatchRequest `json:"batches" binding:"required,min=1,dive"`
}

func (r *CreateInboundOrderRequest) ToEntity() *inbound.InboundOrder {
	sectionID, _ := id.Parse(r.SectionID)

	order := inbound.NewInboundOrder(sectionID)
	order.Number = r.Number
	order.Date = r.Date
	for _, br := range r.Batches {
		order.Batches = append(order.Batches, br.ToEntity())
	}
	return order
}

type UpdateInboundOrderRequest struct {
	Date    time.Time      `json:"date" binding:"required"`
	Batches []BatchRequest `json:"batches" binding:"required,min=1,dive"`
}

func (r *UpdateInboundOrderRequest) ToEntity(orderID id.ID, sectionID id.ID) *inbound.InboundOrder {
	order := inbound.NewInboundOrder(sectionID)
	order.ID = orderID
	order.Date = r.Date
	for _, br := range r.Batches {
		order.Batches = append(order.Batches, br.ToEntity())
	}
	return order
}

type InboundOrderResponse struct {
	ID        string               `json:"id"`
	Number    string               `json:"number"`
	Date      time.Time            `json:"date"`
	SectionID string               `json:"sectionId"`
	Batches   []BatchStockResponse `json:"batches"`
}

func NewInboundOrderResponse(o *inbound.InboundOrder) InboundOrderResponse {
	return InboundOrderResponse{
		ID:        o.ID.String(),
		Number:    o.Number,
		Date:      o.Date,
		SectionID: o.SectionID.String(),
		Batches:   NewBatchStockResponses(o.Batches),
	}
}
