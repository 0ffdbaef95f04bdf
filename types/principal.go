package types

import "github.com/o-vuong/doggo-hotel/models"

// Principal là người gọi hiện tại do auth provider cung cấp
type Principal struct {
	UserID string      `json:"userId"`
	Role   models.Role `json:"role"`
}

// Can kiểm tra quyền của principal với tài nguyên thuộc ownerID
func (p Principal) Can(action models.Action, ownerID string) bool {
	return models.Can(p.Role, action, ownerID != "" && p.UserID == ownerID)
}

// System là principal dùng cho cron job và CLI
var System = Principal{UserID: "system", Role: models.RoleAdmin}
