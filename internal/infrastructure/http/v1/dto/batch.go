package dto

import (
	"time"

	"freshstock/internal/core/types"
	"freshstock/internal/domain/batch"
)

// BatchStockResponse is one row of a stock report.
type BatchStockResponse struct {
	ID              string      `json:"id"`
	Number          string      `json:"number"`
	ProductID       string      `json:"productId"`
	InboundOrderID  string      `json:"inboundOrderId"`
	InitialQuantity int         `json:"initialQuantity"`
	CurrentQuantity int         `json:"currentQuantity"`
	DueDate         time.Time   `json:"dueDate"`
	UnitPrice       types.Money `json:"unitPrice"`
}

func NewBatchStockResponse(b *batch.Batch) BatchStockResponse {
	return BatchStockResponse{
		ID:              b.ID.String(),
		Number:          b.Number,
		ProductID:       b.ProductID.String(),
		InboundOrderID:  b.InboundOrderID.String(),
		InitialQuantity: b.InitialQuantity,
		CurrentQuantity: b.CurrentQuantity,
		DueDate:         b.DueDate,
		UnitPrice:       b.UnitPrice,
	}
}

func NewBatchStockResponses(batches []*batch.Batch) []BatchStockResponse {
	out := make([]BatchStockResponse, 0, len(batches))
	for _, b := range batches {
		out = append(out, NewBatchStockResponse(b))
	}
	return out
}
