package controllers

import (
	"github.com/gin-gonic/gin"

	"github.com/o-vuong/doggo-hotel/models"
	"github.com/o-vuong/doggo-hotel/response"
	"github.com/o-vuong/doggo-hotel/services"
)

type DashboardController struct {
	Dashboard *services.DashboardService
}

func NewDashboardController(dashboard *services.DashboardService) DashboardController {
	return DashboardController{Dashboard: dashboard}
}

// GetDashboardMetrics godoc
// @Summary  Số liệu tổng quan cho nhân viên
// @Tags     dashboard
// @Success  200 {object} response.Response{data=models.DashboardMetrics}
// @Router   /dashboard/metrics [get]
func (dc DashboardController) GetDashboardMetrics(c *gin.Context) {
	principal, ok := currentPrincipal(c)
	if !ok {
		return
	}
	if !principal.Can(models.ActionViewDashboard, "") {
		response.Forbidden(c)
		return
	}
	metrics, err := dc.Dashboard.GetMetrics(c.Request.Context())
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, metrics)
}
