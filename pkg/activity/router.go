package activity

import "github.com/gin-gonic/gin"

func Routes(r gin.IRouter, handler Handler) {
	r.GET("/api/activities", handler.List)
	r.GET("/api/activities/stream", handler.Stream)
}
