package controller

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"intikhab_backend/internals/constants"
	"intikhab_backend/internals/features/candidates/model"
	helper "intikhab_backend/internals/helpers"
)

type CandidateController struct {
	DB *gorm.DB
}

func NewCandidateController(db *gorm.DB) *CandidateController {
	return &CandidateController{DB: db}
}

// GET /api/candidates/
func (ctrl *CandidateController) List(c *fiber.Ctx) error {
	q := ctrl.DB.Model(&model.CandidateModel{}).Where("is_active = true")
	if eid := c.QueryInt("election_id"); eid > 0 {
		q = q.Where("election_id = ?", eid)
	}
	var candidates []model.CandidateModel
	if err := q.Order("candidate_number").Find(&candidates).Error; err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Failed to list candidates")
	}
	return helper.JsonOK(c, "OK", candidates)
}

// GET /api/candidates/:id
func (ctrl *CandidateController) GetByID(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid ID")
	}
	var candidate model.CandidateModel
	if err := ctrl.DB.First(&candidate, "id = ?", id).Error; err != nil {
		return helper.Error(c, fiber.StatusNotFound, "Candidate not found")
	}
	return helper.JsonOK(c, "OK", candidate)
}

// POST /api/candidates/ (admin only, multipart or JSON)
func (ctrl *CandidateController) Create(c *fiber.Ctx) error {
	if !helper.IsAdminOrAbove(c) {
		return helper.Error(c, fiber.StatusForbidden, constants.RoleErrorAdmin("candidate management"))
	}

	electionID, _ := strconv.Atoi(c.FormValue("electionId"))
	number, _ := strconv.Atoi(c.FormValue("candidateNumber"))
	name := c.FormValue("name")
	if electionID <= 0 || name == "" {
		return helper.Error(c, fiber.StatusBadRequest, "electionId and name are required")
	}
	if number <= 0 {
		return helper.Error(c, fiber.StatusBadRequest, "candidateNumber must be a positive integer")
	}

	var count int64
	ctrl.DB.Model(&model.CandidateModel{}).
		Where("election_id = ? AND candidate_number = ?", electionID, number).
		Count(&count)
	if count > 0 {
		return helper.Error(c, fiber.StatusConflict, "Candidate number already taken for this election")
	}

	candidate := model.CandidateModel{
		ElectionID:      uint(electionID),
		Name:            name,
		CandidateNumber: number,
		IsActive:        true,
	}
	if pid, _ := strconv.Atoi(c.FormValue("partyId")); pid > 0 {
		var party model.PartyModel
		if err := ctrl.DB.First(&party, "id = ?", pid).Error; err != nil {
			return helper.Error(c, fiber.StatusNotFound, "Party not found")
		}
		id := uint(pid)
		candidate.PartyID = &id
	}

	if fh, err := c.FormFile("photo"); err == nil {
		url, err := helper.SaveImageWebp("candidates", fh)
		if err != nil {
			return helper.Error(c, fiber.StatusBadRequest, "Photo upload failed: "+err.Error())
		}
		candidate.Photo = &url
	}

	if err := ctrl.DB.Create(&candidate).Error; err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Failed to create candidate")
	}
	return helper.JsonCreated(c, "Candidate created", candidate)
}

// PATCH /api/candidates/:id (admin only)
// removePhoto=true drops the stored image.
func (ctrl *CandidateController) Update(c *fiber.Ctx) error {
	if !helper.IsAdminOrAbove(c) {
		return helper.Error(c, fiber.StatusForbidden, constants.RoleErrorAdmin("candidate management"))
	}
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid ID")
	}

	var candidate model.CandidateModel
	if err := ctrl.DB.First(&candidate, "id = ?", id).Error; err != nil {
		return helper.Error(c, fiber.StatusNotFound, "Candidate not found")
	}

	updates := map[string]interface{}{}
	if name := c.FormValue("name"); name != "" {
		updates["name"] = name
	}
	if v := c.FormValue("candidateNumber"); v != "" {
		number, err := strconv.Atoi(v)
		if err != nil || number <= 0 {
			return helper.Error(c, fiber.StatusBadRequest, "candidateNumber must be a positive integer")
		}
		var count int64
		ctrl.DB.Model(&model.CandidateModel{}).
			Where("election_id = ? AND candidate_number = ? AND id <> ?", candidate.ElectionID, number, candidate.ID).
			Count(&count)
		if count > 0 {
			return helper.Error(c, fiber.StatusConflict, "Candidate number already taken for this election")
		}
		updates["candidate_number"] = number
	}
	if v := c.FormValue("partyId"); v != "" {
		pid, _ := strconv.Atoi(v)
		if pid > 0 {
			updates["party_id"] = pid
		} else {
			updates["party_id"] = nil
		}
	}
	if v := c.FormValue("isActive"); v != "" {
		updates["is_active"] = v == "true"
	}

	if c.FormValue("removePhoto") == "true" {
		if candidate.Photo != nil {
			_ = helper.RemoveUpload(*candidate.Photo)
		}
		updates["photo"] = nil
	} else if fh, err := c.FormFile("photo"); err == nil {
		url, err := helper.SaveImageWebp("candidates", fh)
		if err != nil {
			return helper.Error(c, fiber.StatusBadRequest, "Photo upload failed: "+err.Error())
		}
		if candidate.Photo != nil {
			_ = helper.RemoveUpload(*candidate.Photo)
		}
		updates["photo"] = url
	}

	if len(updates) == 0 {
		return helper.JsonOK(c, "No changes", candidate)
	}
	if err := ctrl.DB.Model(&candidate).Updates(updates).Error; err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Failed to update candidate")
	}

	_ = ctrl.DB.First(&candidate, "id = ?", id).Error
	return helper.JsonOK(c, "Candidate updated", candidate)
}

// DELETE /api/candidates/:id (admin only)
func (ctrl *CandidateController) Delete(c *fiber.Ctx) error {
	if !helper.IsAdminOrAbove(c) {
		return helper.Error(c, fiber.StatusForbidden, constants.RoleErrorAdmin("candidate management"))
	}
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid ID")
	}

	res := ctrl.DB.Delete(&model.CandidateModel{}, "id = ?", id)
	if res.Error != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Failed to delete candidate")
	}
	if res.RowsAffected == 0 {
		return helper.Error(c, fiber.StatusNotFound, "Candidate not found")
	}
	return helper.JsonOK(c, "Candidate deleted", nil)
}

// GET /api/candidates/:id/vote_counts/
func (ctrl *CandidateController) VoteCounts(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid ID")
	}

	type row struct {
		CommitteeID uint   `json:"committeeId"`
		Code        string `json:"committeeCode"`
		VoteCount   int    `json:"voteCount"`
		Status      string `json:"status"`
	}
	var rows []row
	if err := ctrl.DB.Table("vote_counts").
		Select("vote_counts.committee_id, committees.code, vote_counts.vote_count, vote_counts.status").
		Joins("JOIN committees ON committees.id = vote_counts.committee_id").
		Where("vote_counts.candidate_id = ?", id).
		Order("committees.code").
		Scan(&rows).Error; err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Failed to load vote counts")
	}
	return helper.JsonOK(c, "OK", rows)
}

// GET /api/candidates/statistics/
func (ctrl *CandidateController) Statistics(c *fiber.Ctx) error {
	var totalCandidates, totalParties int64
	ctrl.DB.Model(&model.CandidateModel{}).Where("is_active = true").Count(&totalCandidates)
	ctrl.DB.Model(&model.PartyModel{}).Where("is_active = true").Count(&totalParties)

	type partyRow struct {
		PartyID *uint `json:"partyId"`
		Count   int64 `json:"count"`
	}
	var perParty []partyRow
	ctrl.DB.Model(&model.CandidateModel{}).
		Select("party_id, COUNT(*) as count").
		Where("is_active = true").
		Group("party_id").
		Scan(&perParty)

	return helper.JsonOK(c, "OK", fiber.Map{
		"totalCandidates": totalCandidates,
		"totalParties":    totalParties,
		"perParty":        perParty,
	})
}
