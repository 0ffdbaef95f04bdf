package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/o-vuong/doggo-hotel/errors"
)

// Response định nghĩa cấu trúc response
type Response struct {
	Code       int         `json:"code"`
	Mess       string      `json:"mess"`
	Data       interface{} `json:"data,omitempty"`
	Error      string      `json:"error,omitempty"`
	Details    interface{} `json:"details,omitempty"`
	Pagination *Pagination `json:"pagination,omitempty"`
}

// Pagination định nghĩa cấu trúc phân trang
type Pagination struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
}

// Success trả về response thành công
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code: 1,
		Mess: "Success",
		Data: data,
	})
}

// Created trả về 201 cho tài nguyên mới
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Response{
		Code: 1,
		Mess: "Created",
		Data: data,
	})
}

// SuccessWithPagination trả về response thành công có phân trang
func SuccessWithPagination(c *gin.Context, data interface{}, page, limit, total int) {
	c.JSON(http.StatusOK, Response{
		Code: 1,
		Mess: "Success",
		Data: data,
		Pagination: &Pagination{
			Page:  page,
			Limit: limit,
			Total: total,
		},
	})
}

// Accepted dùng khi thao tác thành công một phần, ví dụ reservation đã tạo nhưng payment chưa thu được
func Accepted(c *gin.Context, data interface{}, err error) {
	resp := Response{Code: 1, Mess: "Accepted", Data: data}
	if appErr := errors.GetAppError(err); appErr != nil {
		resp.Mess = appErr.Message
		resp.Error = string(appErr.Code)
	}
	c.JSON(http.StatusAccepted, resp)
}

// StatusFor ánh xạ mã lỗi sang HTTP status
func StatusFor(code errors.ErrorCode) int {
	switch code {
	case errors.ErrCodeValidation:
		return http.StatusBadRequest
	case errors.ErrCodeNotFound:
		return http.StatusNotFound
	case errors.ErrCodeUnauthorized, errors.ErrCodeInvalidToken:
		return http.StatusUnauthorized
	case errors.ErrCodeForbidden:
		return http.StatusForbidden
	case errors.ErrCodeConflict:
		return http.StatusConflict
	case errors.ErrCodeExternalService:
		return http.StatusBadGateway
	case errors.ErrCodeTerminalFailure:
		return http.StatusUnprocessableEntity
	case errors.ErrCodeRateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// FromError ghi response lỗi theo taxonomy; lỗi lạ trả về 500 không lộ chi tiết
func FromError(c *gin.Context, err error) {
	appErr := errors.GetAppError(err)
	if appErr == nil {
		ServerError(c)
		return
	}
	status := StatusFor(appErr.Code)
	resp := Response{Code: 0, Mess: appErr.Message, Error: string(appErr.Code)}
	if appErr.Code == errors.ErrCodeConflict {
		resp.Details = appErr.Details
	}
	if status == http.StatusInternalServerError {
		resp.Mess = "Internal server error"
	}
	c.AbortWithStatusJSON(status, resp)
}

// ServerError trả về response lỗi server
func ServerError(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusInternalServerError, Response{
		Code:  0,
		Mess:  "Internal server error",
		Error: string(errors.ErrCodeDBError),
	})
}

// Unauthorized trả về response chưa xác thực
func Unauthorized(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, Response{
		Code:  0,
		Mess:  "Authentication required",
		Error: string(errors.ErrCodeUnauthorized),
	})
}

// Forbidden trả về response không có quyền
func Forbidden(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusForbidden, Response{
		Code:  0,
		Mess:  "Access denied",
		Error: string(errors.ErrCodeForbidden),
	})
}

// BadRequest trả về response lỗi bad request
func BadRequest(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, Response{
		Code:  0,
		Mess:  message,
		Error: string(errors.ErrCodeValidation),
	})
}

// TooManyRequests trả về 429
func TooManyRequests(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusTooManyRequests, Response{
		Code:  0,
		Mess:  "Too many requests",
		Error: string(errors.ErrCodeRateLimited),
	})
}
