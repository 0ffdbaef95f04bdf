package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/o-vuong/doggo-hotel/errors"
	"github.com/o-vuong/doggo-hotel/models"
	"github.com/o-vuong/doggo-hotel/response"
	"github.com/o-vuong/doggo-hotel/types"
)

const principalKey = "principal"

// PrincipalVerifier lấy principal từ bearer token
type PrincipalVerifier interface {
	GetPrincipalFromToken(tokenString string) (types.Principal, error)
}

// AuthMiddleware xử lý authentication, phân quyền để CapabilityMiddleware lo
func AuthMiddleware(verifier PrincipalVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			response.Unauthorized(c)
			return
		}

		tokenString := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
		principal, err := verifier.GetPrincipalFromToken(tokenString)
		if err != nil {
			response.FromError(c, err)
			return
		}

		// Lưu thông tin principal vào context
		c.Set(principalKey, principal)
		c.Next()
	}
}

// CapabilityMiddleware chặn request khi principal không được phép làm action.
// Chỉ dùng cho action không phụ thuộc chủ sở hữu tài nguyên, phần còn lại service tự kiểm tra.
func CapabilityMiddleware(action models.Action) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, ok := CurrentPrincipal(c)
		if !ok {
			response.Unauthorized(c)
			return
		}
		if !principal.Can(action, "") {
			response.Forbidden(c)
			return
		}
		c.Next()
	}
}

// CurrentPrincipal đọc principal do AuthMiddleware gắn vào
func CurrentPrincipal(c *gin.Context) (types.Principal, bool) {
	v, exists := c.Get(principalKey)
	if !exists {
		return types.Principal{}, false
	}
	p, ok := v.(types.Principal)
	return p, ok
}

// ErrorHandler chuyển lỗi gắn qua c.Error thành response
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}
		err := c.Errors.Last().Err
		if errors.IsAppError(err) {
			response.FromError(c, err)
			return
		}
		response.ServerError(c)
	}
}
