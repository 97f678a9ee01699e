package dto

import (
	"time"

	"intikhab_backend/internals/features/elections/model"
)

type CreateElectionRequest struct {
	Name         string     `json:"name" validate:"required,min=2,max=255"`
	Status       string     `json:"status" validate:"omitempty,oneof=SETUP GUARANTEE_PHASE VOTING_DAY COUNTING CLOSED"`
	VotingMode   string     `json:"votingMode" validate:"omitempty,max=50"`
	ElectionDate *time.Time `json:"electionDate"`
}

func (r CreateElectionRequest) ToModel() model.ElectionModel {
	status := r.Status
	if status == "" {
		status = model.ElectionStatusSetup
	}
	return model.ElectionModel{
		Name:         r.Name,
		Status:       status,
		VotingMode:   r.VotingMode,
		ElectionDate: r.ElectionDate,
	}
}

type UpdateElectionRequest struct {
	Name         *string    `json:"name" validate:"omitempty,min=2,max=255"`
	Status       *string    `json:"status" validate:"omitempty,oneof=SETUP GUARANTEE_PHASE VOTING_DAY COUNTING CLOSED"`
	VotingMode   *string    `json:"votingMode" validate:"omitempty,max=50"`
	ElectionDate *time.Time `json:"electionDate"`
}

func (r UpdateElectionRequest) ToUpdates() map[string]interface{} {
	updates := map[string]interface{}{}
	if r.Name != nil {
		updates["name"] = *r.Name
	}
	if r.Status != nil {
		updates["status"] = *r.Status
	}
	if r.VotingMode != nil {
		updates["voting_mode"] = *r.VotingMode
	}
	if r.ElectionDate != nil {
		updates["election_date"] = *r.ElectionDate
	}
	return updates
}

type CreateCommitteeRequest struct {
	ElectionID   uint    `json:"electionId" validate:"required"`
	Code         string  `json:"code" validate:"required,max=50"`
	Name         string  `json:"name" validate:"required,max=255"`
	Gender       string  `json:"gender" validate:"omitempty,oneof=MALE FEMALE MIXED"`
	Location     string  `json:"location" validate:"omitempty,max=255"`
	ElectorsFrom *string `json:"electorsFrom"`
	ElectorsTo   *string `json:"electorsTo"`
}

func (r CreateCommitteeRequest) ToModel() model.CommitteeModel {
	gender := r.Gender
	if gender == "" {
		gender = model.GenderMixed
	}
	return model.CommitteeModel{
		ElectionID:   r.ElectionID,
		Code:         r.Code,
		Name:         r.Name,
		Gender:       gender,
		Location:     r.Location,
		ElectorsFrom: r.ElectorsFrom,
		ElectorsTo:   r.ElectorsTo,
	}
}

type UpdateCommitteeRequest struct {
	Name         *string `json:"name" validate:"omitempty,max=255"`
	Gender       *string `json:"gender" validate:"omitempty,oneof=MALE FEMALE MIXED"`
	Location     *string `json:"location" validate:"omitempty,max=255"`
	ElectorsFrom *string `json:"electorsFrom"`
	ElectorsTo   *string `json:"electorsTo"`
}

func (r UpdateCommitteeRequest) ToUpdates() map[string]interface{} {
	updates := map[string]interface{}{}
	if r.Name != nil {
		updates["name"] = *r.Name
	}
	if r.Gender != nil {
		updates["gender"] = *r.Gender
	}
	if r.Location != nil {
		updates["location"] = *r.Location
	}
	if r.ElectorsFrom != nil {
		updates["electors_from"] = *r.ElectorsFrom
	}
	if r.ElectorsTo != nil {
		updates["electors_to"] = *r.ElectorsTo
	}
	return updates
}

type AssignCommitteeUsersRequest struct {
	UserIDs []uint `json:"userIds" validate:"required,min=1"`
}

type RemoveCommitteeMemberRequest struct {
	UserID uint `json:"userId" validate:"required"`
}
