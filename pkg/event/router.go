package event

import "github.com/gin-gonic/gin"

func Routes(r gin.IRouter, handler Handler) {
	r.GET("/api/events", handler.FindAll)
	r.GET("/api/events/active", handler.FindActive)
	r.GET("/api/events/:id", handler.Find)
	r.GET("/api/events/:id/participants", handler.Participants)
}
