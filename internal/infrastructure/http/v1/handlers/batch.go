package handlers

import (
	"github.com/gin-gonic/gin"

	"freshstock/internal/domain/batch"
	"freshstock/internal/infrastructure/http/v1/dto"
)

// BatchReportHandler serves the stock reports.
type BatchReportHandler struct {
	BaseHandler
	svc *batch.Service
}

func NewBatchReportHandler(svc *batch.Service) *BatchReportHandler {
	return &BatchReportHandler{svc: svc}
}

// ListFresh returns all batches still comfortably ahead of their due
// date. With ?category= the listing is restricted to one category.
func (h *BatchReportHandler) ListFresh(c *gin.Context) {
	var (
		batches []*batch.Batch
		err     error
	)
	if category := c.Query("category"); category != "" {
		batches, err = h.svc.ListFreshByCategory(c.Request.Context(), category)
	} else {
		batches, err = h.svc.ListFresh(c.Request.Context())
	}
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.NewListResponse(dto.NewBatchStockResponses(batches)))
}

// ListBySection returns a section's batches ordered by due date. The
// caller must be the manager supervising that section.
func (h *BatchReportHandler) ListBySection(c *gin.Context) {
	managerID, ok := h.ManagerID(c)
	if !ok {
		return
	}
	sectionID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	batches, err := h.svc.ListBySection(c.Request.Context(), sectionID, managerID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.NewListResponse(dto.NewBatchStockResponses(batches)))
}

// ListExpiring returns the caller's batches of one category due within
// the next ?days= days, soonest first.
func (h *BatchReportHandler) ListExpiring(c *gin.Context) {
	managerID, ok := h.ManagerID(c)
	if !ok {
		return
	}
	days := h.ParseIntQuery(c, "days", 0)

	batches, err := h.svc.ListExpiring(c.Request.Context(), c.Query("category"), days, managerID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.NewListResponse(dto.NewBatchStockResponses(batches)))
}
