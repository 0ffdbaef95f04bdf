package controllers

import (
	"github.com/gin-gonic/gin"

	"github.com/o-vuong/doggo-hotel/middleware"
	"github.com/o-vuong/doggo-hotel/response"
	"github.com/o-vuong/doggo-hotel/types"
	"github.com/o-vuong/doggo-hotel/validator"
)

// currentPrincipal lấy principal, tự trả 401 nếu thiếu
func currentPrincipal(c *gin.Context) (types.Principal, bool) {
	p, ok := middleware.CurrentPrincipal(c)
	if !ok || p.UserID == "" {
		response.Unauthorized(c)
		return types.Principal{}, false
	}
	return p, true
}

func bindJSON(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		response.FromError(c, validator.BindingError(err))
		return false
	}
	return true
}

func bindQuery(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindQuery(req); err != nil {
		response.FromError(c, validator.BindingError(err))
		return false
	}
	return true
}
