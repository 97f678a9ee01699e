package dto

import (
	"intikhab_backend/internals/features/electorate/model"
	helper "intikhab_backend/internals/helpers"
)

type CreateElectorRequest struct {
	KocID       string `json:"kocId" validate:"required,max=20"`
	FullName    string `json:"fullName" validate:"required,min=2"`
	Designation string `json:"designation" validate:"omitempty,max=100"`
	Section     string `json:"section" validate:"omitempty,max=100"`
	Mobile      string `json:"mobile" validate:"omitempty,max=20"`
	Area        string `json:"area" validate:"omitempty,max=100"`
	Department  string `json:"department" validate:"omitempty,max=100"`
	Team        string `json:"team" validate:"omitempty,max=100"`
	CommitteeID *uint  `json:"committeeId"`
	Gender      string `json:"gender" validate:"omitempty,oneof=MALE FEMALE"`
}

func (r CreateElectorRequest) ToModel(createdBy uint, approved bool) model.ElectorModel {
	e := model.ElectorModel{
		KocID:       r.KocID,
		Designation: r.Designation,
		Section:     r.Section,
		Mobile:      r.Mobile,
		Area:        r.Area,
		Department:  r.Department,
		Team:        r.Team,
		CommitteeID: r.CommitteeID,
		Gender:      r.Gender,
		IsActive:    true,
		IsApproved:  approved,
		CreatedBy:   &createdBy,
	}
	e.ApplyNameParts(helper.ParseFullName(r.FullName))
	return e
}

type UpdateElectorRequest struct {
	FullName    *string `json:"fullName" validate:"omitempty,min=2"`
	Designation *string `json:"designation" validate:"omitempty,max=100"`
	Section     *string `json:"section" validate:"omitempty,max=100"`
	Mobile      *string `json:"mobile" validate:"omitempty,max=20"`
	Area        *string `json:"area" validate:"omitempty,max=100"`
	Department  *string `json:"department" validate:"omitempty,max=100"`
	Team        *string `json:"team" validate:"omitempty,max=100"`
	CommitteeID *uint   `json:"committeeId"`
	Gender      *string `json:"gender" validate:"omitempty,oneof=MALE FEMALE"`
	IsActive    *bool   `json:"isActive"`
}

func (r UpdateElectorRequest) ToUpdates() map[string]interface{} {
	updates := map[string]interface{}{}
	if r.FullName != nil {
		p := helper.ParseFullName(*r.FullName)
		updates["name_first"] = p.First
		updates["name_second"] = p.Second
		updates["name_third"] = p.Third
		updates["name_fourth"] = p.Fourth
		updates["name_fifth"] = p.Fifth
		updates["name_sixth"] = p.Sixth
		updates["sub_family"] = p.SubFamily
		updates["family_name"] = p.Family
	}
	if r.Designation != nil {
		updates["designation"] = *r.Designation
	}
	if r.Section != nil {
		updates["section"] = *r.Section
	}
	if r.Mobile != nil {
		updates["mobile"] = *r.Mobile
	}
	if r.Area != nil {
		updates["area"] = *r.Area
	}
	if r.Department != nil {
		updates["department"] = *r.Department
	}
	if r.Team != nil {
		updates["team"] = *r.Team
	}
	if r.CommitteeID != nil {
		updates["committee_id"] = *r.CommitteeID
	}
	if r.Gender != nil {
		updates["gender"] = *r.Gender
	}
	if r.IsActive != nil {
		updates["is_active"] = *r.IsActive
	}
	return updates
}

type BulkApproveRequest struct {
	KocIDs []string `json:"kocIds" validate:"required,min=1"`
}

// ElectorResponse decorates an elector with its derived name and guarantee
// flag for list/relationship payloads.
type ElectorResponse struct {
	model.ElectorModel
	FullName        string `json:"fullName"`
	GuaranteeStatus bool   `json:"guaranteeStatus"`
}

func NewElectorResponse(e model.ElectorModel, guaranteed bool) ElectorResponse {
	return ElectorResponse{
		ElectorModel:    e,
		FullName:        e.FullName(),
		GuaranteeStatus: guaranteed,
	}
}

// CommitteeInfo is attached to list items when ?include=committees.
type CommitteeInfo struct {
	ID   uint   `json:"id"`
	Code string `json:"code"`
	Name string `json:"name"`
}

// GuaranteeInfo is attached when ?include=groups and a guarantee
// covers the elector.
type GuaranteeInfo struct {
	GuaranteeID     uint   `json:"guaranteeId"`
	GuaranteeStatus string `json:"guaranteeStatus"`
	GroupID         *uint  `json:"groupId"`
	GroupName       string `json:"groupName,omitempty"`
	GroupColor      string `json:"groupColor,omitempty"`
}

type ElectorListItem struct {
	ElectorResponse
	Committee *CommitteeInfo `json:"committee,omitempty"`
	Guarantee *GuaranteeInfo `json:"guarantee,omitempty"`
}
