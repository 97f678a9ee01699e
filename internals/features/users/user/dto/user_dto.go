package dto

import (
	"github.com/lib/pq"

	"intikhab_backend/internals/features/users/user/model"
)

type CreateUserRequest struct {
	UserName        string   `json:"userName" validate:"required,min=3,max=100"`
	Email           string   `json:"email" validate:"required,email"`
	Password        string   `json:"password" validate:"required,min=8"`
	PasswordConfirm string   `json:"passwordConfirm" validate:"omitempty,eqfield=Password"`
	Role            string   `json:"role" validate:"omitempty,oneof=SUPER_ADMIN ADMIN SUPERVISOR USER"`
	SupervisorID    *uint    `json:"supervisorId"`
	Committees      []string `json:"committees"`
	Teams           []string `json:"teams"`
}

func (r CreateUserRequest) ToModel(hashedPassword string) model.UserModel {
	role := r.Role
	if role == "" {
		role = "USER"
	}
	return model.UserModel{
		UserName:     r.UserName,
		Email:        r.Email,
		Password:     hashedPassword,
		Role:         role,
		SupervisorID: r.SupervisorID,
		Committees:   pq.StringArray(r.Committees),
		Teams:        pq.StringArray(r.Teams),
		IsActive:     true,
	}
}

type UpdateUserRequest struct {
	UserName *string `json:"userName" validate:"omitempty,min=3,max=100"`
	Email    *string `json:"email" validate:"omitempty,email"`
	Role     *string `json:"role" validate:"omitempty,oneof=SUPER_ADMIN ADMIN SUPERVISOR USER"`
	IsActive *bool   `json:"isActive"`
}

// ToUpdates builds the column map for a partial update.
func (r UpdateUserRequest) ToUpdates() map[string]interface{} {
	updates := map[string]interface{}{}
	if r.UserName != nil {
		updates["user_name"] = *r.UserName
	}
	if r.Email != nil {
		updates["email"] = *r.Email
	}
	if r.Role != nil {
		updates["role"] = *r.Role
	}
	if r.IsActive != nil {
		updates["is_active"] = *r.IsActive
	}
	return updates
}

type AssignSupervisorRequest struct {
	UserIDs      []uint `json:"userIds" validate:"required,min=1"`
	SupervisorID *uint  `json:"supervisorId"`
}

type AssignTeamsRequest struct {
	UserID uint     `json:"userId" validate:"required"`
	Teams  []string `json:"teams" validate:"required"`
}

type AssignCommitteesRequest struct {
	UserID     uint     `json:"userId" validate:"required"`
	Committees []string `json:"committees" validate:"required"`
}
