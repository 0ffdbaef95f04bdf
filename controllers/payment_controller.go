package controllers

import (
	"github.com/gin-gonic/gin"

	"github.com/o-vuong/doggo-hotel/dto"
	"github.com/o-vuong/doggo-hotel/models"
	"github.com/o-vuong/doggo-hotel/response"
	"github.com/o-vuong/doggo-hotel/services"
)

type PaymentController struct {
	Payments     *services.PaymentService
	Reservations *services.ReservationService
}

func NewPaymentController(payments *services.PaymentService, reservations *services.ReservationService) PaymentController {
	return PaymentController{
		Payments:     payments,
		Reservations: reservations,
	}
}

// CreatePayment godoc
// @Summary  Tạo payment cho reservation, thu ngay nếu không trả sau
// @Tags     payments
// @Param    body body dto.CreatePaymentRequest true "payment"
// @Success  201 {object} response.Response{data=models.Payment}
// @Success  202 {object} response.Response{data=models.Payment} "đã tạo, chưa thu được"
// @Router   /payments [post]
func (pc PaymentController) CreatePayment(c *gin.Context) {
	principal, ok := currentPrincipal(c)
	if !ok {
		return
	}
	var req dto.CreatePaymentRequest
	if !bindJSON(c, &req) {
		return
	}

	reservation, err := pc.Reservations.Get(c.Request.Context(), principal, req.ReservationID)
	if err != nil {
		response.FromError(c, err)
		return
	}
	if !principal.Can(models.ActionCreatePayment, reservation.UserID) {
		response.Forbidden(c)
		return
	}

	payment, err := pc.Payments.CreatePayment(c.Request.Context(), services.CreatePaymentInput{
		Amount:        req.Amount,
		ReservationID: reservation.ID,
		UserID:        reservation.UserID,
		Deferred:      req.Deferred,
		MethodRef:     req.MethodRef,
	})
	switch {
	case err != nil && payment == nil:
		response.FromError(c, err)
	case err != nil:
		response.Accepted(c, payment, err)
	default:
		response.Created(c, payment)
	}
}

func (pc PaymentController) GetPayment(c *gin.Context) {
	principal, ok := currentPrincipal(c)
	if !ok {
		return
	}
	payment, err := pc.Payments.GetPayment(c.Request.Context(), principal, c.Param("id"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, payment)
}

// ProcessPayment godoc
// @Summary  Thu tiền payment PENDING; gọi lặp lại không thu hai lần
// @Tags     payments
// @Param    id path string true "payment id"
// @Success  200 {object} response.Response{data=models.Payment}
// @Failure  422 {object} response.Response "hết lượt thử lại"
// @Failure  502 {object} response.Response "cổng thanh toán lỗi, sẽ thử lại"
// @Router   /payments/{id}/process [post]
func (pc PaymentController) ProcessPayment(c *gin.Context) {
	principal, ok := currentPrincipal(c)
	if !ok {
		return
	}
	payment, err := pc.Payments.GetPayment(c.Request.Context(), principal, c.Param("id"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	if !principal.Can(models.ActionProcessPayment, payment.UserID) {
		response.Forbidden(c)
		return
	}
	payment, err = pc.Payments.ProcessPayment(c.Request.Context(), payment.ID)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, payment)
}

func (pc PaymentController) RequestRefund(c *gin.Context) {
	principal, ok := currentPrincipal(c)
	if !ok {
		return
	}
	var req dto.RefundRequest
	if !bindJSON(c, &req) {
		return
	}
	payment, err := pc.Payments.RequestRefund(c.Request.Context(), principal, c.Param("id"), req.Reason)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, payment)
}

// ApproveRefund godoc
// @Summary  Duyệt hoàn tiền (manager, admin)
// @Tags     payments
// @Param    id path string true "payment id"
// @Success  200 {object} response.Response{data=models.Payment}
// @Router   /payments/{id}/refund-approve [post]
func (pc PaymentController) ApproveRefund(c *gin.Context) {
	principal, ok := currentPrincipal(c)
	if !ok {
		return
	}
	payment, err := pc.Payments.ApproveRefund(c.Request.Context(), principal, c.Param("id"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, payment)
}
