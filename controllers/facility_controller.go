package controllers

import (
	"github.com/gin-gonic/gin"

	"github.com/o-vuong/doggo-hotel/dto"
	"github.com/o-vuong/doggo-hotel/response"
	"github.com/o-vuong/doggo-hotel/services"
)

type FacilityController struct {
	Facilities *services.FacilityService
}

func NewFacilityController(facilities *services.FacilityService) FacilityController {
	return FacilityController{Facilities: facilities}
}

// CreateFacility godoc
// @Summary  Thêm cơ sở lưu trú
// @Tags     facilities
// @Param    body body dto.CreateFacilityRequest true "facility"
// @Success  201 {object} response.Response{data=models.Facility}
// @Router   /facilities [post]
func (fc FacilityController) CreateFacility(c *gin.Context) {
	principal, ok := currentPrincipal(c)
	if !ok {
		return
	}
	var req dto.CreateFacilityRequest
	if !bindJSON(c, &req) {
		return
	}
	facility, err := fc.Facilities.Create(c.Request.Context(), principal, req.Name, req.Location)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Created(c, facility)
}

func (fc FacilityController) ListFacilities(c *gin.Context) {
	facilities, err := fc.Facilities.List(c.Request.Context())
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, facilities)
}

func (fc FacilityController) GetFacility(c *gin.Context) {
	facility, err := fc.Facilities.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, facility)
}
