package controllers

import (
	"github.com/gin-gonic/gin"

	"github.com/o-vuong/doggo-hotel/dto"
	"github.com/o-vuong/doggo-hotel/errors"
	"github.com/o-vuong/doggo-hotel/models"
	"github.com/o-vuong/doggo-hotel/repository"
	"github.com/o-vuong/doggo-hotel/response"
	"github.com/o-vuong/doggo-hotel/services"
	"github.com/o-vuong/doggo-hotel/validator"
)

type KennelController struct {
	Kennels      *services.KennelService
	Availability *services.AvailabilityService
}

func NewKennelController(kennels *services.KennelService, availability *services.AvailabilityService) KennelController {
	return KennelController{
		Kennels:      kennels,
		Availability: availability,
	}
}

// CreateKennel godoc
// @Summary  Thêm kennel vào facility
// @Tags     kennels
// @Param    body body dto.CreateKennelRequest true "kennel"
// @Success  201 {object} response.Response{data=models.Kennel}
// @Router   /kennels [post]
func (kc KennelController) CreateKennel(c *gin.Context) {
	principal, ok := currentPrincipal(c)
	if !ok {
		return
	}
	var req dto.CreateKennelRequest
	if !bindJSON(c, &req) {
		return
	}
	kennel, err := kc.Kennels.Create(c.Request.Context(), principal, services.CreateKennelInput{
		FacilityID: req.FacilityID,
		Name:       req.Name,
		Size:       models.KennelSize(req.Size),
		DailyRate:  req.DailyRate,
		Features:   req.Features,
		Location:   req.Location,
		MaxWeight:  req.MaxWeight,
	})
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Created(c, kennel)
}

// GetKennels godoc
// @Summary  Danh sách kennel
// @Tags     kennels
// @Param    facilityId query string   false "facility"
// @Param    size       query string   false "SMALL | MEDIUM | LARGE | EXTRA_LARGE"
// @Param    status     query []string false "trạng thái"
// @Success  200 {object} response.Response{data=[]models.Kennel}
// @Router   /kennels [get]
func (kc KennelController) GetKennels(c *gin.Context) {
	var q dto.KennelListQuery
	if !bindQuery(c, &q) {
		return
	}
	filter := repository.KennelFilter{FacilityID: q.FacilityID, Size: models.KennelSize(q.Size)}
	for _, s := range q.Status {
		filter.Statuses = append(filter.Statuses, models.KennelStatus(s))
	}
	kennels, err := kc.Kennels.List(c.Request.Context(), filter)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, kennels)
}

func (kc KennelController) GetKennelDetail(c *gin.Context) {
	kennel, err := kc.Kennels.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, kennel)
}

// ChangeKennelStatus godoc
// @Summary  Đổi trạng thái kennel (ví dụ đưa vào bảo trì)
// @Tags     kennels
// @Param    id   path string true "kennel id"
// @Param    body body dto.UpdateKennelStatusRequest true "trạng thái"
// @Success  200 {object} response.Response{data=models.Kennel}
// @Router   /kennels/{id}/status [put]
func (kc KennelController) ChangeKennelStatus(c *gin.Context) {
	principal, ok := currentPrincipal(c)
	if !ok {
		return
	}
	var req dto.UpdateKennelStatusRequest
	if !bindJSON(c, &req) {
		return
	}
	kennel, err := kc.Kennels.UpdateStatus(c.Request.Context(), principal, c.Param("id"), models.KennelStatus(req.Status))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, kennel)
}

func (kc KennelController) DeleteKennel(c *gin.Context) {
	principal, ok := currentPrincipal(c)
	if !ok {
		return
	}
	if err := kc.Kennels.Delete(c.Request.Context(), principal, c.Param("id")); err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, gin.H{"id": c.Param("id")})
}

// CheckAvailability godoc
// @Summary  Kiểm tra kennel còn trống trong [start, end)
// @Tags     availability
// @Param    id                   path  string true  "kennel id"
// @Param    start                query string true  "RFC3339 hoặc YYYY-MM-DD"
// @Param    end                  query string true  "RFC3339 hoặc YYYY-MM-DD"
// @Param    excludeReservationId query string false "bỏ qua reservation khi đổi lịch"
// @Success  200 {object} response.Response{data=dto.AvailabilityResponse}
// @Router   /kennels/{id}/availability [get]
func (kc KennelController) CheckAvailability(c *gin.Context) {
	var q dto.AvailabilityQuery
	if !bindQuery(c, &q) {
		return
	}
	start, end, err := validator.ParseRange(q.Start, q.End)
	if err != nil {
		response.FromError(c, err)
		return
	}

	kennelID := c.Param("id")
	if _, err := kc.Kennels.Get(c.Request.Context(), kennelID); err != nil {
		response.FromError(c, err)
		return
	}

	err = kc.Availability.CheckAvailability(c.Request.Context(), kennelID, start, end, q.ExcludeReservationID)
	if err == nil {
		response.Success(c, dto.AvailabilityResponse{KennelID: kennelID, Available: true})
		return
	}
	appErr := errors.GetAppError(err)
	if appErr == nil || appErr.Code != errors.ErrCodeConflict {
		response.FromError(c, err)
		return
	}
	conflicts, _ := appErr.Details.([]models.ReservationConflict)
	response.Success(c, dto.AvailabilityResponse{KennelID: kennelID, Available: false, Conflicts: conflicts})
}

// GetAvailableKennels godoc
// @Summary  Kennel còn trống của facility
// @Tags     availability
// @Param    id    path  string true  "facility id"
// @Param    start query string true  "RFC3339 hoặc YYYY-MM-DD"
// @Param    end   query string true  "RFC3339 hoặc YYYY-MM-DD"
// @Param    size  query string false "kích thước"
// @Success  200 {object} response.Response{data=[]models.Kennel}
// @Router   /facilities/{id}/available-kennels [get]
func (kc KennelController) GetAvailableKennels(c *gin.Context) {
	var q dto.AvailableKennelsQuery
	if !bindQuery(c, &q) {
		return
	}
	start, end, err := validator.ParseRange(q.Start, q.End)
	if err != nil {
		response.FromError(c, err)
		return
	}
	kennels, err := kc.Availability.ListAvailableKennels(c.Request.Context(), c.Param("id"), start, end, models.KennelSize(q.Size))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, kennels)
}
