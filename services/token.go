package services

import (
	"fmt"
	"time"

	"github.com/dgrijalva/jwt-go"

	"github.com/o-vuong/doggo-hotel/errors"
	"github.com/o-vuong/doggo-hotel/models"
	"github.com/o-vuong/doggo-hotel/types"
)

// TokenVerifier kiểm tra chữ ký HS256 và lấy principal từ claim "userinfo"
type TokenVerifier struct {
	secret []byte
}

func NewTokenVerifier(secret string) *TokenVerifier {
	return &TokenVerifier{secret: []byte(secret)}
}

// GetPrincipalFromToken lấy userID và role từ token
func (v *TokenVerifier) GetPrincipalFromToken(tokenString string) (types.Principal, error) {
	claims := jwt.MapClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return v.secret, nil
	})
	if err != nil || !token.Valid {
		return types.Principal{}, errors.NewAppError(errors.ErrCodeInvalidToken, "invalid token", err)
	}

	userInfo, ok := claims["userinfo"].(map[string]interface{})
	if !ok {
		return types.Principal{}, errors.NewAppError(errors.ErrCodeInvalidToken, "token has no userinfo claim", nil)
	}
	userID, ok := userInfo["userid"].(string)
	if !ok || userID == "" {
		return types.Principal{}, errors.NewAppError(errors.ErrCodeInvalidToken, "token has no user id", nil)
	}
	rawRole, _ := userInfo["role"].(string)
	role, err := models.ParseRole(rawRole)
	if err != nil {
		return types.Principal{}, errors.NewAppError(errors.ErrCodeInvalidToken, "token has an unknown role", err)
	}
	return types.Principal{UserID: userID, Role: role}, nil
}

// IssueToken ký token cho principal, dùng cho CLI seed và test
func (v *TokenVerifier) IssueToken(p types.Principal, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"userinfo": map[string]interface{}{
			"userid": p.UserID,
			"role":   string(p.Role),
		},
		"exp": time.Now().Add(ttl).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(v.secret)
}
