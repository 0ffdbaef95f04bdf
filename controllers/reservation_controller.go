package controllers

import (
	"github.com/gin-gonic/gin"

	"github.com/o-vuong/doggo-hotel/dto"
	"github.com/o-vuong/doggo-hotel/models"
	"github.com/o-vuong/doggo-hotel/repository"
	"github.com/o-vuong/doggo-hotel/response"
	"github.com/o-vuong/doggo-hotel/services"
)

type ReservationController struct {
	Reservations *services.ReservationService
	Overstay     *services.OverstayService
}

func NewReservationController(reservations *services.ReservationService, overstay *services.OverstayService) ReservationController {
	return ReservationController{
		Reservations: reservations,
		Overstay:     overstay,
	}
}

// CreateReservation godoc
// @Summary  Đặt kennel cho thú cưng
// @Tags     reservations
// @Accept   json
// @Produce  json
// @Param    body body dto.CreateReservationRequest true "reservation"
// @Success  201 {object} response.Response{data=models.Reservation}
// @Success  202 {object} response.Response{data=models.Reservation} "đã giữ chỗ, payment chưa thu được"
// @Failure  409 {object} response.Response{details=[]models.ReservationConflict}
// @Router   /reservations [post]
func (rc ReservationController) CreateReservation(c *gin.Context) {
	principal, ok := currentPrincipal(c)
	if !ok {
		return
	}
	var req dto.CreateReservationRequest
	if !bindJSON(c, &req) {
		return
	}

	reservation, err := rc.Reservations.Create(c.Request.Context(), principal, services.CreateReservationInput{
		PetID:           req.PetID,
		KennelID:        req.KennelID,
		StartDate:       req.StartDate.UTC(),
		EndDate:         req.EndDate.UTC(),
		AddOnServiceIDs: req.AddOnServiceIDs,
		SpecialRequests: req.SpecialRequests,
		DeferPayment:    req.DeferPayment,
		PaymentMethod:   req.PaymentMethod,
	})
	switch {
	case err != nil && reservation == nil:
		response.FromError(c, err)
	case err != nil:
		// reservation đã tạo, payment sẽ được thu lại ở lượt retry
		response.Accepted(c, reservation, err)
	default:
		response.Created(c, reservation)
	}
}

// GetReservation godoc
// @Summary  Chi tiết reservation
// @Tags     reservations
// @Param    id path string true "reservation id"
// @Success  200 {object} response.Response{data=models.Reservation}
// @Router   /reservations/{id} [get]
func (rc ReservationController) GetReservation(c *gin.Context) {
	principal, ok := currentPrincipal(c)
	if !ok {
		return
	}
	reservation, err := rc.Reservations.Get(c.Request.Context(), principal, c.Param("id"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, reservation)
}

// ListReservations godoc
// @Summary  Danh sách reservation; pet owner chỉ thấy của mình
// @Tags     reservations
// @Param    status query []string false "trạng thái"
// @Param    page   query int false "trang, bắt đầu từ 0"
// @Param    limit  query int false "số dòng mỗi trang"
// @Success  200 {object} response.Response{data=[]models.Reservation}
// @Router   /reservations [get]
func (rc ReservationController) ListReservations(c *gin.Context) {
	principal, ok := currentPrincipal(c)
	if !ok {
		return
	}
	var q dto.ReservationListQuery
	if !bindQuery(c, &q) {
		return
	}

	filter := repository.ReservationFilter{
		UserID:     q.UserID,
		KennelID:   q.KennelID,
		FacilityID: q.FacilityID,
	}
	for _, s := range q.Status {
		filter.Statuses = append(filter.Statuses, models.ReservationStatus(s))
	}

	reservations, err := rc.Reservations.List(c.Request.Context(), principal, filter)
	if err != nil {
		response.FromError(c, err)
		return
	}
	from, to := q.Bounds(len(reservations))
	response.SuccessWithPagination(c, reservations[from:to], q.Page, q.PageSize(), len(reservations))
}

// UpdateReservationStatus godoc
// @Summary  Chuyển trạng thái reservation (confirm, check-in, check-out, cancel)
// @Tags     reservations
// @Param    id   path string true "reservation id"
// @Param    body body dto.UpdateReservationStatusRequest true "trạng thái mới"
// @Success  200 {object} response.Response{data=models.Reservation}
// @Router   /reservations/{id}/status [put]
func (rc ReservationController) UpdateReservationStatus(c *gin.Context) {
	principal, ok := currentPrincipal(c)
	if !ok {
		return
	}
	var req dto.UpdateReservationStatusRequest
	if !bindJSON(c, &req) {
		return
	}
	reservation, err := rc.Reservations.UpdateStatus(c.Request.Context(), principal, c.Param("id"), models.ReservationStatus(req.Status))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, reservation)
}

// CancelReservation godoc
// @Summary  Hủy reservation
// @Tags     reservations
// @Param    id path string true "reservation id"
// @Success  200 {object} response.Response{data=models.Reservation}
// @Router   /reservations/{id} [delete]
func (rc ReservationController) CancelReservation(c *gin.Context) {
	principal, ok := currentPrincipal(c)
	if !ok {
		return
	}
	reservation, err := rc.Reservations.Cancel(c.Request.Context(), principal, c.Param("id"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, reservation)
}

// ProcessOverstayPayment godoc
// @Summary  Tạo khoản phí overstay cho reservation
// @Tags     overstay
// @Param    id path string true "reservation id"
// @Success  200 {object} response.Response{data=models.Payment}
// @Router   /reservations/{id}/overstay-payment [post]
func (rc ReservationController) ProcessOverstayPayment(c *gin.Context) {
	principal, ok := currentPrincipal(c)
	if !ok {
		return
	}
	payment, err := rc.Overstay.ProcessOverstayPayment(c.Request.Context(), principal, c.Param("id"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, payment)
}
