// Package handlers provides the HTTP handlers for API v1.
package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"freshstock/internal/core/apperror"
	appctx "freshstock/internal/core/context"
	"freshstock/internal/core/id"
	"freshstock/internal/infrastructure/http/v1/dto"
)

// BaseHandler provides common handler utilities.
type BaseHandler struct{}

// BindJSON binds and validates a JSON request body.
func (h *BaseHandler) BindJSON(c *gin.Context, obj any) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		h.Error(c, apperror.NewValidation("invalid request body").WithDetail("error", err.Error()))
		return false
	}
	return true
}

// Error registers the error on the gin context and aborts. The JSON
// response is produced by middleware.ErrorHandler.
func (h *BaseHandler) Error(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}

// ParseID parses a path parameter as an id, reporting a validation
// error on failure.
func (h *BaseHandler) ParseID(c *gin.Context, param string) (id.ID, bool) {
	parsed, err := id.Parse(c.Param(param))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id").
			WithDetail("param", param).
			WithDetail("value", c.Param(param)))
		return id.Nil(), false
	}
	return parsed, true
}

// ParseIntQuery parses an integer query parameter with a default.
func (h *BaseHandler) ParseIntQuery(c *gin.Context, key string, defaultVal int) int {
	val := c.Query(key)
	if val == "" {
		return defaultVal
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return parsed
}

// BuyerID returns the calling buyer's id, failing the request when the
// Buyer-Id header is missing.
func (h *BaseHandler) BuyerID(c *gin.Context) (id.ID, bool) {
	buyerID := appctx.GetBuyerID(c.Request.Context())
	if id.IsNil(buyerID) {
		h.Error(c, apperror.NewUnauthorized("", "Buyer-Id header is required"))
		return id.Nil(), false
	}
	return buyerID, true
}

// ManagerID returns the calling manager's id, failing the request when
// the Manager-Id header is missing.
func (h *BaseHandler) ManagerID(c *gin.Context) (id.ID, bool) {
	managerID := appctx.GetManagerID(c.Request.Context())
	if id.IsNil(managerID) {
		h.Error(c, apperror.NewUnauthorized("", "Manager-Id header is required"))
		return id.Nil(), false
	}
	return managerID, true
}

// Created sends a 201 response with the new resource id.
func (h *BaseHandler) Created(c *gin.Context, newID string) {
	c.JSON(http.StatusCreated, dto.IDResponse{ID: newID})
}

// OK sends a 200 response with data.
func (h *BaseHandler) OK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, data)
}

// NoContent sends a 204 response.
func (h *BaseHandler) NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}
