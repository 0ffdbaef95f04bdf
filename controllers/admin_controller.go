package controllers

import (
	"context"
	stderrors "errors"

	"github.com/gin-gonic/gin"

	"github.com/o-vuong/doggo-hotel/errors"
	"github.com/o-vuong/doggo-hotel/models"
	"github.com/o-vuong/doggo-hotel/response"
	"github.com/o-vuong/doggo-hotel/services"
)

// AdminController chạy tay các job nền
type AdminController struct {
	Overstay  *services.OverstayService
	Payments  *services.PaymentService
	Reminders *services.ReminderService
}

func NewAdminController(overstay *services.OverstayService, payments *services.PaymentService, reminders *services.ReminderService) AdminController {
	return AdminController{
		Overstay:  overstay,
		Payments:  payments,
		Reminders: reminders,
	}
}

// RunOverstaySweep godoc
// @Summary  Chạy ngay một lượt quét overstay
// @Tags     admin
// @Success  200 {object} response.Response{data=services.SweepResult}
// @Failure  409 {object} response.Response "đang có lượt quét khác"
// @Router   /admin/sweeps/overstay [post]
func (ac AdminController) RunOverstaySweep(c *gin.Context) {
	ac.runSweep(c, func(ctx context.Context) (interface{}, error) {
		return ac.Overstay.RunSweep(ctx)
	})
}

func (ac AdminController) RunPaymentRetry(c *gin.Context) {
	ac.runSweep(c, func(ctx context.Context) (interface{}, error) {
		return ac.Payments.RetryDuePayments(ctx)
	})
}

func (ac AdminController) RunPaymentReminders(c *gin.Context) {
	ac.runSweep(c, func(ctx context.Context) (interface{}, error) {
		return ac.Reminders.SendPaymentReminders(ctx)
	})
}

func (ac AdminController) runSweep(c *gin.Context, run func(ctx context.Context) (interface{}, error)) {
	principal, ok := currentPrincipal(c)
	if !ok {
		return
	}
	if !principal.Can(models.ActionRunSweeps, "") {
		response.Forbidden(c)
		return
	}
	result, err := run(c.Request.Context())
	if stderrors.Is(err, errors.ErrSweepInProgress) {
		response.FromError(c, errors.Conflict("a sweep is already running", nil))
		return
	}
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, result)
}
