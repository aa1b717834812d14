package marketplace

import "github.com/gin-gonic/gin"

func Routes(r gin.IRouter, authenticator gin.HandlerFunc, handler Handler) {
	r.GET("/api/marketplace", handler.FindAll)

	tokenAuthenticationRouter := r.Group("")
	tokenAuthenticationRouter.Use(authenticator)
	tokenAuthenticationRouter.POST("/api/marketplace", handler.Create)
}
