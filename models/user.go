package models

import (
	"fmt"
	"time"
)

// Role là tập vai trò đóng của hệ thống
type Role string

const (
	RolePetOwner Role = "PET_OWNER"
	RoleStaff    Role = "STAFF"
	RoleManager  Role = "MANAGER"
	RoleAdmin    Role = "ADMIN"
)

// ParseRole chuyển chuỗi thành Role, trả lỗi nếu không thuộc tập hợp
func ParseRole(s string) (Role, error) {
	switch r := Role(s); r {
	case RolePetOwner, RoleStaff, RoleManager, RoleAdmin:
		return r, nil
	}
	return "", fmt.Errorf("unknown role %q", s)
}

// Action là các thao tác cần phân quyền
type Action string

const (
	ActionViewReservation         Action = "reservation:view"
	ActionListAllReservations     Action = "reservation:list_all"
	ActionCreateReservation       Action = "reservation:create"
	ActionBookForOthers           Action = "reservation:book_for_others"
	ActionUpdateReservationStatus Action = "reservation:update_status"
	ActionCancelReservation       Action = "reservation:cancel"
	ActionChargeOverstay          Action = "reservation:charge_overstay"
	ActionManageKennels           Action = "kennel:manage"
	ActionManageFacilities        Action = "facility:manage"
	ActionCreatePet               Action = "pet:create"
	ActionViewPet                 Action = "pet:view"
	ActionListAllPets             Action = "pet:list_all"
	ActionUpdatePet               Action = "pet:update"
	ActionDeletePet               Action = "pet:delete"
	ActionCreatePayment           Action = "payment:create"
	ActionProcessPayment          Action = "payment:process"
	ActionRequestRefund           Action = "payment:request_refund"
	ActionApproveRefund           Action = "payment:approve_refund"
	ActionViewDashboard           Action = "dashboard:view"
	ActionNotifyUsers             Action = "notification:send"
	ActionSubscribeOperations     Action = "operations:subscribe"
	ActionRunSweeps               Action = "sweep:run"
)

type policy struct {
	roles []Role
	owner bool
}

var (
	allRoles     = []Role{RolePetOwner, RoleStaff, RoleManager, RoleAdmin}
	staffRoles   = []Role{RoleStaff, RoleManager, RoleAdmin}
	managerRoles = []Role{RoleManager, RoleAdmin}
)

var policies = map[Action]policy{
	ActionViewReservation:         {roles: staffRoles, owner: true},
	ActionListAllReservations:     {roles: staffRoles},
	ActionCreateReservation:       {roles: allRoles},
	ActionBookForOthers:           {roles: staffRoles},
	ActionUpdateReservationStatus: {roles: staffRoles, owner: true},
	ActionCancelReservation:       {roles: staffRoles, owner: true},
	ActionChargeOverstay:          {roles: staffRoles},
	ActionManageKennels:           {roles: staffRoles},
	ActionManageFacilities:        {roles: managerRoles},
	ActionCreatePet:               {roles: allRoles},
	ActionViewPet:                 {roles: staffRoles, owner: true},
	ActionListAllPets:             {roles: staffRoles},
	ActionUpdatePet:               {roles: staffRoles, owner: true},
	ActionDeletePet:               {roles: managerRoles, owner: true},
	ActionCreatePayment:           {roles: staffRoles, owner: true},
	ActionProcessPayment:          {roles: staffRoles, owner: true},
	ActionRequestRefund:           {roles: staffRoles, owner: true},
	ActionApproveRefund:           {roles: managerRoles},
	ActionViewDashboard:           {roles: staffRoles},
	ActionNotifyUsers:             {roles: staffRoles},
	ActionSubscribeOperations:     {roles: staffRoles},
	ActionRunSweeps:               {roles: managerRoles},
}

// Can là điểm phân quyền duy nhất: role được phép làm action không,
// isOwner cho biết người gọi có sở hữu tài nguyên hay không
func Can(role Role, action Action, isOwner bool) bool {
	p, ok := policies[action]
	if !ok {
		return false
	}
	if p.owner && isOwner {
		return true
	}
	for _, r := range p.roles {
		if r == role {
			return true
		}
	}
	return false
}

type User struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
	Name      string    `json:"name"`
	Email     string    `gorm:"unique" json:"email"`
	Phone     string    `gorm:"type:varchar(20)" json:"phone"`
	Role      Role      `gorm:"type:varchar(20);default:PET_OWNER" json:"role"`
}

// ContactAddress trả về kênh liên lạc ưu tiên của user
func (u *User) ContactAddress() string {
	if u.Email != "" {
		return u.Email
	}
	return u.Phone
}
