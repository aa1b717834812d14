package member

import "github.com/gin-gonic/gin"

func Routes(r gin.IRouter, authenticator gin.HandlerFunc, handler Handler) {
	r.GET("/api/members", handler.FindAll)
	r.GET("/api/members/:id", handler.Find)
	r.GET("/api/rankings", handler.Rankings)

	tokenAuthenticationRouter := r.Group("")
	tokenAuthenticationRouter.Use(authenticator)
	tokenAuthenticationRouter.POST("/api/members", handler.Create)
}
