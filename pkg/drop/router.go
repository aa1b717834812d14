package drop

import "github.com/gin-gonic/gin"

func Routes(r gin.IRouter, authenticator gin.HandlerFunc, handler Handler) {
	r.GET("/api/item-drops", handler.FindAll)

	tokenAuthenticationRouter := r.Group("")
	tokenAuthenticationRouter.Use(authenticator)
	tokenAuthenticationRouter.POST("/api/item-drops", handler.Create)
}
