package middleware

import (
	"github.com/gin-gonic/gin"

	appctx "freshstock/internal/core/context"
	"freshstock/internal/core/id"
)

const (
	HeaderBuyerID   = "Buyer-Id"
	HeaderManagerID = "Manager-Id"
)

// Actor reads the caller's identity from the Buyer-Id or Manager-Id
// header and attaches it to the request context. Whether the actor
// actually exists is checked by the domain services; requests without
// either header stay anonymous and fail later where an actor is
// required.
func Actor() gin.HandlerFunc {
	return func(c *gin.Context) {
		var actor *appctx.ActorContext

		if raw := c.GetHeader(HeaderBuyerID); raw != "" {
			if buyerID, err := id.Parse(raw); err == nil {
				actor = &appctx.ActorContext{Kind: appctx.ActorBuyer, ID: buyerID}
			}
		} else if raw := c.GetHeader(HeaderManagerID); raw != "" {
			if managerID, err := id.Parse(raw); err == nil {
				actor = &appctx.ActorContext{Kind: appctx.ActorManager, ID: managerID}
			}
		}

		if actor != nil {
			ctx := appctx.WithActor(c.Request.Context(), actor)
			c.Request = c.Request.WithContext(ctx)
		}

		c.Next()
	}
}
