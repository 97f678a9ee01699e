package dto

import (
	"intikhab_backend/internals/features/attendance/model"
)

/* ===================== Requests ===================== */

type MarkAttendanceRequest struct {
	KocID         string  `json:"kocId" validate:"required"`
	CommitteeCode string  `json:"committeeCode" validate:"required"`
	Notes         *string `json:"notes"`
}

type AddPendingElectorRequest struct {
	KocID         string  `json:"kocId" validate:"required"`
	FullName      string  `json:"fullName" validate:"required"`
	CommitteeCode string  `json:"committeeCode" validate:"required"`
	Notes         *string `json:"notes"`
}

/* ===================== Responses ===================== */

// AttendanceResponse decorates a row with elector and committee context.
type AttendanceResponse struct {
	model.AttendanceModel
	ElectorName   string `json:"electorName"`
	CommitteeCode string `json:"committeeCode"`
	MarkedByName  string `json:"markedByName"`
}
