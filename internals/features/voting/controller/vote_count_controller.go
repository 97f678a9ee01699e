package controller

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"intikhab_backend/internals/constants"
	electionmodel "intikhab_backend/internals/features/elections/model"
	reportcache "intikhab_backend/internals/features/reports/cache"
	"intikhab_backend/internals/features/voting/dto"
	"intikhab_backend/internals/features/voting/model"
	"intikhab_backend/internals/features/voting/service"
	helper "intikhab_backend/internals/helpers"
)

var validate = validator.New()

type VoteCountController struct {
	DB *gorm.DB
}

func NewVoteCountController(db *gorm.DB) *VoteCountController {
	return &VoteCountController{DB: db}
}

/* ===================== Listing ===================== */

// GET /api/voting/vote-counts/
func (ctrl *VoteCountController) List(c *fiber.Ctx) error {
	q := ctrl.DB.Model(&model.VoteCountModel{})
	if cid := c.QueryInt("committee_id"); cid > 0 {
		q = q.Where("committee_id = ?", cid)
	}
	if candID := c.QueryInt("candidate_id"); candID > 0 {
		q = q.Where("candidate_id = ?", candID)
	}
	if status := c.Query("status"); status != "" {
		q = q.Where("status = ?", status)
	}

	var counts []model.VoteCountModel
	if err := q.Order("committee_id, candidate_id").Find(&counts).Error; err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Failed to list vote counts")
	}
	return helper.JsonOK(c, "OK", counts)
}

// GET /api/voting/vote-counts/:id
func (ctrl *VoteCountController) GetByID(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid ID")
	}
	var vc model.VoteCountModel
	if err := ctrl.DB.First(&vc, "id = ?", id).Error; err != nil {
		return helper.Error(c, fiber.StatusNotFound, "Vote count not found")
	}
	return helper.JsonOK(c, "OK", vc)
}

/* ===================== Mutations ===================== */

// POST /api/voting/vote-counts/ (supervisor and above)
func (ctrl *VoteCountController) Create(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.Error(c, fiber.StatusUnauthorized, "Unauthorized")
	}
	if !helper.IsSupervisorOrAbove(c) {
		return helper.Error(c, fiber.StatusForbidden, constants.RoleErrorSupervisor("vote counting"))
	}

	var req dto.CreateVoteCountRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	var committee electionmodel.CommitteeModel
	if err := ctrl.DB.First(&committee, "id = ?", req.CommitteeID).Error; err != nil {
		return helper.Error(c, fiber.StatusNotFound, "Committee not found")
	}
	if err := ctrl.validateBounds(req.VoteCount, &committee); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, err.Error())
	}

	var existing int64
	ctrl.DB.Model(&model.VoteCountModel{}).
		Where("committee_id = ? AND candidate_id = ?", req.CommitteeID, req.CandidateID).
		Count(&existing)
	if existing > 0 {
		return helper.Error(c, fiber.StatusConflict, "A vote count for this committee and candidate already exists")
	}

	vc := model.VoteCountModel{
		ElectionID:  committee.ElectionID,
		CommitteeID: req.CommitteeID,
		CandidateID: req.CandidateID,
		VoteCount:   req.VoteCount,
		Status:      model.VoteCountDraft,
		EnteredBy:   userID,
	}
	err = ctrl.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&vc).Error; err != nil {
			return err
		}
		return service.AppendAudit(tx, vc.ID, userID, model.AuditCreated,
			nil, service.VoteCountSnapshot(&vc), c.IP())
	})
	if err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Failed to create vote count")
	}
	reportcache.InvalidateDashboards()
	return helper.JsonCreated(c, "Vote count created", vc)
}

// PATCH /api/voting/vote-counts/:id (supervisor and above)
// Updating a count moves it back to SUBMITTED for re-verification.
func (ctrl *VoteCountController) Update(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.Error(c, fiber.StatusUnauthorized, "Unauthorized")
	}
	if !helper.IsSupervisorOrAbove(c) {
		return helper.Error(c, fiber.StatusForbidden, constants.RoleErrorSupervisor("vote counting"))
	}
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid ID")
	}

	var vc model.VoteCountModel
	if err := ctrl.DB.First(&vc, "id = ?", id).Error; err != nil {
		return helper.Error(c, fiber.StatusNotFound, "Vote count not found")
	}

	var req dto.UpdateVoteCountRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}
	if req.VoteCount == nil {
		return helper.JsonOK(c, "No changes", vc)
	}

	var committee electionmodel.CommitteeModel
	if err := ctrl.DB.First(&committee, "id = ?", vc.CommitteeID).Error; err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Failed to load committee")
	}
	if err := ctrl.validateBounds(*req.VoteCount, &committee); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, err.Error())
	}

	before := service.VoteCountSnapshot(&vc)
	err = ctrl.DB.Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{
			"vote_count":  *req.VoteCount,
			"status":      model.VoteCountSubmitted,
			"is_verified": false,
			"entered_by":  userID,
		}
		if err := tx.Model(&vc).Updates(updates).Error; err != nil {
			return err
		}
		vc.VoteCount = *req.VoteCount
		vc.Status = model.VoteCountSubmitted
		vc.IsVerified = false
		return service.AppendAudit(tx, vc.ID, userID, model.AuditUpdated,
			before, service.VoteCountSnapshot(&vc), c.IP())
	})
	if err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Failed to update vote count")
	}
	reportcache.InvalidateDashboards()
	return helper.JsonOK(c, "Vote count updated", vc)
}

// POST /api/voting/vote-counts/:id/verify (admin only)
func (ctrl *VoteCountController) Verify(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.Error(c, fiber.StatusUnauthorized, "Unauthorized")
	}
	if !helper.IsAdminOrAbove(c) {
		return helper.Error(c, fiber.StatusForbidden, constants.RoleErrorAdmin("vote verification"))
	}
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid ID")
	}

	var vc model.VoteCountModel
	if err := ctrl.DB.First(&vc, "id = ?", id).Error; err != nil {
		return helper.Error(c, fiber.StatusNotFound, "Vote count not found")
	}
	if vc.Status == model.VoteCountVerified {
		return helper.JsonOK(c, "Already verified", vc)
	}

	before := service.VoteCountSnapshot(&vc)
	now := time.Now()
	err = ctrl.DB.Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{
			"status":      model.VoteCountVerified,
			"is_verified": true,
			"verified_by": userID,
			"verified_at": now,
		}
		if err := tx.Model(&vc).Updates(updates).Error; err != nil {
			return err
		}
		vc.Status = model.VoteCountVerified
		vc.IsVerified = true
		vc.VerifiedBy = &userID
		vc.VerifiedAt = &now
		return service.AppendAudit(tx, vc.ID, userID, model.AuditVerified,
			before, service.VoteCountSnapshot(&vc), c.IP())
	})
	if err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Failed to verify vote count")
	}
	reportcache.InvalidateDashboards()
	return helper.JsonOK(c, "Vote count verified", vc)
}

// POST /api/voting/vote-counts/:id/reject (admin only)
// Rejection sends the count back to its supervisor for correction.
func (ctrl *VoteCountController) Reject(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.Error(c, fiber.StatusUnauthorized, "Unauthorized")
	}
	if !helper.IsAdminOrAbove(c) {
		return helper.Error(c, fiber.StatusForbidden, constants.RoleErrorAdmin("vote verification"))
	}
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid ID")
	}

	var vc model.VoteCountModel
	if err := ctrl.DB.First(&vc, "id = ?", id).Error; err != nil {
		return helper.Error(c, fiber.StatusNotFound, "Vote count not found")
	}
	if vc.Status == model.VoteCountRejected {
		return helper.JsonOK(c, "Already rejected", vc)
	}

	before := service.VoteCountSnapshot(&vc)
	err = ctrl.DB.Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{
			"status":      model.VoteCountRejected,
			"is_verified": false,
			"verified_by": nil,
			"verified_at": nil,
		}
		if err := tx.Model(&vc).Updates(updates).Error; err != nil {
			return err
		}
		vc.Status = model.VoteCountRejected
		vc.IsVerified = false
		vc.VerifiedBy = nil
		vc.VerifiedAt = nil
		return service.AppendAudit(tx, vc.ID, userID, model.AuditRejected,
			before, service.VoteCountSnapshot(&vc), c.IP())
	})
	if err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Failed to reject vote count")
	}
	reportcache.InvalidateDashboards()
	return helper.JsonOK(c, "Vote count rejected", vc)
}

// GET /api/voting/vote-counts/:id/audit
func (ctrl *VoteCountController) Audit(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid ID")
	}
	var rows []model.VoteCountAuditModel
	if err := ctrl.DB.
		Where("vote_count_id = ?", id).
		Order("created_at DESC").
		Find(&rows).Error; err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Failed to load audit trail")
	}
	return helper.JsonOK(c, "OK", rows)
}

/* ===================== Bulk entry ===================== */

// POST /api/voting/vote-counts/bulk_entry (supervisor and above)
// One transaction: the committee entry and every count land together
// or not at all.
func (ctrl *VoteCountController) BulkEntry(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.Error(c, fiber.StatusUnauthorized, "Unauthorized")
	}
	if !helper.IsSupervisorOrAbove(c) {
		return helper.Error(c, fiber.StatusForbidden, constants.RoleErrorSupervisor("vote counting"))
	}

	var req dto.BulkEntryRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}
	if req.InvalidBallots > req.TotalBallotsCast {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid ballots cannot exceed total ballots cast")
	}

	var committee electionmodel.CommitteeModel
	if err := ctrl.DB.First(&committee, "id = ?", req.CommitteeID).Error; err != nil {
		return helper.Error(c, fiber.StatusNotFound, "Committee not found")
	}
	for _, item := range req.VoteCounts {
		if err := ctrl.validateBounds(item.VoteCount, &committee); err != nil {
			return helper.Error(c, fiber.StatusBadRequest, err.Error())
		}
	}

	var entry model.CommitteeVoteEntryModel
	var counts []model.VoteCountModel
	err = ctrl.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&entry, "election_id = ? AND committee_id = ?",
			committee.ElectionID, committee.ID).Error; err != nil {
			if err != gorm.ErrRecordNotFound {
				return err
			}
			entry = model.CommitteeVoteEntryModel{
				ElectionID:  committee.ElectionID,
				CommitteeID: committee.ID,
			}
		}
		entry.Status = model.EntryCompleted
		entry.TotalBallotsCast = req.TotalBallotsCast
		entry.InvalidBallots = req.InvalidBallots
		entry.ValidBallots = req.TotalBallotsCast - req.InvalidBallots
		entry.Notes = req.Notes
		entry.EnteredBy = userID
		if err := tx.Save(&entry).Error; err != nil {
			return err
		}

		for _, item := range req.VoteCounts {
			var vc model.VoteCountModel
			err := tx.First(&vc, "committee_id = ? AND candidate_id = ?",
				committee.ID, item.CandidateID).Error
			if err != nil && err != gorm.ErrRecordNotFound {
				return err
			}

			if err == gorm.ErrRecordNotFound {
				vc = model.VoteCountModel{
					ElectionID:  committee.ElectionID,
					CommitteeID: committee.ID,
					CandidateID: item.CandidateID,
					VoteCount:   item.VoteCount,
					Status:      model.VoteCountSubmitted,
					EnteredBy:   userID,
				}
				if err := tx.Create(&vc).Error; err != nil {
					return err
				}
				if err := service.AppendAudit(tx, vc.ID, userID, model.AuditCreated,
					nil, service.VoteCountSnapshot(&vc), c.IP()); err != nil {
					return err
				}
			} else {
				before := service.VoteCountSnapshot(&vc)
				updates := map[string]interface{}{
					"vote_count":  item.VoteCount,
					"status":      model.VoteCountSubmitted,
					"is_verified": false,
					"entered_by":  userID,
				}
				if err := tx.Model(&vc).Updates(updates).Error; err != nil {
					return err
				}
				vc.VoteCount = item.VoteCount
				vc.Status = model.VoteCountSubmitted
				vc.IsVerified = false
				if err := service.AppendAudit(tx, vc.ID, userID, model.AuditUpdated,
					before, service.VoteCountSnapshot(&vc), c.IP()); err != nil {
					return err
				}
			}
			counts = append(counts, vc)
		}
		return nil
	})
	if err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Failed to record vote counts")
	}
	reportcache.InvalidateDashboards()
	return helper.JsonCreated(c, "Vote counts recorded", fiber.Map{
		"entry":      entry,
		"voteCounts": counts,
	})
}

/* ===================== Validation ===================== */

// validateBounds enforces 0 <= count <= active electors in committee.
func (ctrl *VoteCountController) validateBounds(count int, committee *electionmodel.CommitteeModel) error {
	if count < 0 {
		return fmt.Errorf("vote count cannot be negative")
	}
	var activeElectors int64
	ctrl.DB.Table("electors").
		Where("committee_id = ? AND is_active = true", committee.ID).
		Count(&activeElectors)
	if int64(count) > activeElectors {
		return fmt.Errorf("vote count %d exceeds the %d active electors of committee %s",
			count, activeElectors, committee.Code)
	}
	return nil
}
