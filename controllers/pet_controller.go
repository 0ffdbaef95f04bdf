package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/o-vuong/doggo-hotel/constants"
	"github.com/o-vuong/doggo-hotel/dto"
	"github.com/o-vuong/doggo-hotel/response"
	"github.com/o-vuong/doggo-hotel/services"
)

type PetController struct {
	Pets *services.PetService
}

func NewPetController(pets *services.PetService) PetController {
	return PetController{Pets: pets}
}

// CreatePet godoc
// @Summary  Đăng ký thú cưng
// @Tags     pets
// @Param    body body dto.CreatePetRequest true "pet"
// @Success  201 {object} response.Response{data=models.Pet}
// @Router   /pets [post]
func (pc PetController) CreatePet(c *gin.Context) {
	principal, ok := currentPrincipal(c)
	if !ok {
		return
	}
	var req dto.CreatePetRequest
	if !bindJSON(c, &req) {
		return
	}
	pet, err := pc.Pets.Create(c.Request.Context(), principal, services.CreatePetInput{
		OwnerID:          req.OwnerID,
		Name:             req.Name,
		Species:          req.Species,
		Breed:            req.Breed,
		Weight:           req.Weight,
		EmergencyContact: req.EmergencyContact,
	})
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Created(c, pet)
}

// ListPets godoc
// @Summary  Danh sách thú cưng (chủ chỉ thấy pet của mình)
// @Tags     pets
// @Param    ownerId query string false "lọc theo chủ, chỉ nhân viên"
// @Param    page    query int    false "trang, bắt đầu từ 0"
// @Param    limit   query int    false "số dòng mỗi trang"
// @Success  200 {object} response.Response{data=[]models.Pet}
// @Router   /pets [get]
func (pc PetController) ListPets(c *gin.Context) {
	principal, ok := currentPrincipal(c)
	if !ok {
		return
	}
	var q dto.PetListQuery
	if !bindQuery(c, &q) {
		return
	}
	pets, err := pc.Pets.List(c.Request.Context(), principal, q.OwnerID)
	if err != nil {
		response.FromError(c, err)
		return
	}
	from, to := q.Bounds(len(pets))
	response.SuccessWithPagination(c, pets[from:to], q.Page, q.PageSize(), len(pets))
}

func (pc PetController) GetPet(c *gin.Context) {
	principal, ok := currentPrincipal(c)
	if !ok {
		return
	}
	pet, err := pc.Pets.Get(c.Request.Context(), principal, c.Param("id"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, pet)
}

// UpdatePet godoc
// @Summary  Sửa hồ sơ thú cưng, trường bỏ trống giữ nguyên
// @Tags     pets
// @Param    id   path string true "pet id"
// @Param    body body dto.UpdatePetRequest true "pet"
// @Success  200 {object} response.Response{data=models.Pet}
// @Router   /pets/{id} [put]
func (pc PetController) UpdatePet(c *gin.Context) {
	principal, ok := currentPrincipal(c)
	if !ok {
		return
	}
	var req dto.UpdatePetRequest
	if !bindJSON(c, &req) {
		return
	}
	pet, err := pc.Pets.Update(c.Request.Context(), principal, c.Param("id"), services.UpdatePetInput{
		Name:             req.Name,
		Species:          req.Species,
		Breed:            req.Breed,
		Weight:           req.Weight,
		EmergencyContact: req.EmergencyContact,
	})
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, pet)
}

func (pc PetController) DeletePet(c *gin.Context) {
	principal, ok := currentPrincipal(c)
	if !ok {
		return
	}
	if err := pc.Pets.Delete(c.Request.Context(), principal, c.Param("id")); err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, gin.H{"id": c.Param("id")})
}

// UploadPetPhoto godoc
// @Summary  Upload ảnh thú cưng lên Cloudinary
// @Tags     pets
// @Accept   multipart/form-data
// @Param    id   path     string true "pet id"
// @Param    file formData file   true "ảnh, tối đa 5MB"
// @Success  200 {object} response.Response{data=models.Pet}
// @Router   /pets/{id}/photo [post]
func (pc PetController) UploadPetPhoto(c *gin.Context) {
	principal, ok := currentPrincipal(c)
	if !ok {
		return
	}
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, constants.MaxPetPhotoSize+1<<20)
	file, err := c.FormFile("file")
	if err != nil {
		response.BadRequest(c, "file is required")
		return
	}
	if file.Size > constants.MaxPetPhotoSize {
		response.BadRequest(c, "photo must be at most 5MB")
		return
	}

	src, err := file.Open()
	if err != nil {
		response.BadRequest(c, "could not read uploaded file")
		return
	}
	defer src.Close()

	pet, err := pc.Pets.UploadPhoto(c.Request.Context(), principal, c.Param("id"), src)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, pet)
}
