package user

import "github.com/gin-gonic/gin"

func Routes(r gin.IRouter, authenticator gin.HandlerFunc, handler Handler) {
	r.GET("/auth/discord", handler.SignIn)
	r.GET("/auth/discord/callback", handler.Callback)

	tokenAuthenticationRouter := r.Group("")
	tokenAuthenticationRouter.Use(authenticator)
	tokenAuthenticationRouter.POST("/auth/logout", handler.SignOut)
	tokenAuthenticationRouter.GET("/api/auth/me", handler.Me)
}
