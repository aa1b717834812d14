package transfer

import "github.com/gin-gonic/gin"

func Routes(r gin.IRouter, authenticator gin.HandlerFunc, handler Handler) {
	r.GET("/api/transfers", handler.FindAll)

	tokenAuthenticationRouter := r.Group("")
	tokenAuthenticationRouter.Use(authenticator)
	tokenAuthenticationRouter.POST("/api/transfers", handler.Create)
	tokenAuthenticationRouter.PUT("/api/transfers/:id/approve", handler.Approve)
}
