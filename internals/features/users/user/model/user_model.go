package model

import (
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"

	"intikhab_backend/internals/constants"
)

type UserModel struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	UserName string `gorm:"size:100;not null;column:user_name" json:"userName"`
	Email    string `gorm:"size:255;uniqueIndex;not null" json:"email"`
	Password string `gorm:"size:255;not null" json:"-"`
	Role     string `gorm:"size:20;not null;default:'USER'" json:"role"`

	// Only USER/SUPERVISOR rows may carry a supervisor.
	SupervisorID *uint `gorm:"column:supervisor_id" json:"supervisorId,omitempty"`

	Committees pq.StringArray `gorm:"type:text[];column:committees" json:"committees"`
	Teams      pq.StringArray `gorm:"type:text[];column:teams" json:"teams"`

	IsActive  bool           `gorm:"not null;default:true;column:is_active" json:"isActive"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (UserModel) TableName() string { return "users" }

func (u *UserModel) RoleRank() int            { return constants.RoleRank(u.Role) }
func (u *UserModel) IsAdminOrAbove() bool     { return constants.IsAdminOrAbove(u.Role) }
func (u *UserModel) IsSupervisorOrAbove() bool { return constants.IsSupervisorOrAbove(u.Role) }

// CanAccessCommittee is the per-committee scope rule used by every read and
// mutation: admins are unrestricted, others need the code assigned.
func (u *UserModel) CanAccessCommittee(code string) bool {
	if u.IsAdminOrAbove() {
		return true
	}
	for _, c := range u.Committees {
		if c == code {
			return true
		}
	}
	return false
}
