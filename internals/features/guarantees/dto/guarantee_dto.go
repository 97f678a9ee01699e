package dto

import (
	"intikhab_backend/internals/features/guarantees/model"
)

/* ===================== Requests ===================== */

type CreateGuaranteeRequest struct {
	Elector         string  `json:"elector" validate:"required"`
	GuaranteeStatus string  `json:"guaranteeStatus" validate:"omitempty,oneof=PENDING GUARANTEED"`
	GroupID         *uint   `json:"groupId"`
	Mobile          *string `json:"mobile"`
	QuickNote       *string `json:"quickNote" validate:"omitempty,max=500"`
}

type UpdateGuaranteeRequest struct {
	GuaranteeStatus    *string `json:"guaranteeStatus" validate:"omitempty,oneof=PENDING GUARANTEED"`
	ConfirmationStatus *string `json:"confirmationStatus" validate:"omitempty,oneof=PENDING CONFIRMED NOT_AVAILABLE"`
	GroupID            *uint   `json:"groupId"`
	ClearGroup         bool    `json:"clearGroup"`
	Mobile             *string `json:"mobile"`
	QuickNote          *string `json:"quickNote" validate:"omitempty,max=500"`
}

type QuickUpdateRequest struct {
	GuaranteeStatus string `json:"guaranteeStatus" validate:"required,oneof=PENDING GUARANTEED"`
}

type BulkUpdateRequest struct {
	IDs             []uint  `json:"ids" validate:"required,min=1"`
	GuaranteeStatus *string `json:"guaranteeStatus" validate:"omitempty,oneof=PENDING GUARANTEED"`
	GroupID         *uint   `json:"groupId"`
	ClearGroup      bool    `json:"clearGroup"`
}

type ConfirmRequest struct {
	ConfirmationStatus string `json:"confirmationStatus" validate:"required,oneof=PENDING CONFIRMED NOT_AVAILABLE"`
}

type BulkConfirmRequest struct {
	IDs                []uint `json:"ids" validate:"required,min=1"`
	ConfirmationStatus string `json:"confirmationStatus" validate:"required,oneof=PENDING CONFIRMED NOT_AVAILABLE"`
}

type AddNoteRequest struct {
	Content     string `json:"content" validate:"required,max=1000"`
	IsImportant bool   `json:"isImportant"`
}

/* ===================== Group requests ===================== */

type CreateGroupRequest struct {
	Name        string  `json:"name" validate:"required,max=100"`
	Color       string  `json:"color" validate:"omitempty,max=7"`
	Description *string `json:"description" validate:"omitempty,max=500"`
	SortOrder   *int    `json:"sortOrder"`
}

type UpdateGroupRequest struct {
	Name        *string `json:"name" validate:"omitempty,max=100"`
	Color       *string `json:"color" validate:"omitempty,max=7"`
	Description *string `json:"description" validate:"omitempty,max=500"`
	SortOrder   *int    `json:"sortOrder"`
}

type ReorderGroupsRequest struct {
	// Group IDs in the desired display order.
	IDs []uint `json:"ids" validate:"required,min=1"`
}

/* ===================== Responses ===================== */

// GuaranteeResponse decorates a guarantee with elector and group context.
type GuaranteeResponse struct {
	model.GuaranteeModel
	ElectorName   string  `json:"electorName"`
	CommitteeCode *string `json:"committeeCode"`
	GroupName     *string `json:"groupName"`
	GroupColor    *string `json:"groupColor"`
}

type GroupResponse struct {
	model.GuaranteeGroupModel
	GuaranteeCount int64 `json:"guaranteeCount"`
}
