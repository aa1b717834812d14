package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/talitamaia0609-debug/siter/internal/errdef"
)

// DataBinder binds the JSON body of the request to req and validates it. The error satisfies
// errdef.IsUnsupportedMediaType or errdef.IsBadRequest.
func DataBinder(c *gin.Context, req any) error {
	if c.ContentType() != "application/json" {
		return errdef.NewUnsupportedMediaType("%s only accepts content of type application/json", c.FullPath())
	}

	if err := c.ShouldBindJSON(req); err != nil {
		return errdef.NewBadRequest("error binding data: %v", err)
	}

	return nil
}

// QueryBinder binds and validates the query string of the request.
func QueryBinder(c *gin.Context, req any) error {
	if err := c.ShouldBindQuery(req); err != nil {
		return errdef.NewBadRequest("error binding query: %v", err)
	}
	return nil
}
