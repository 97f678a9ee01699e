package controller

import (
	"math"
	"time"

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

type CommitteeEntryController struct {
	DB *gorm.DB
}

func NewCommitteeEntryController(db *gorm.DB) *CommitteeEntryController {
	return &CommitteeEntryController{DB: db}
}

// GET /api/voting/committee-entries/
func (ctrl *CommitteeEntryController) List(c *fiber.Ctx) error {
	q := ctrl.DB.Model(&model.CommitteeVoteEntryModel{})
	if status := c.Query("status"); status != "" {
		q = q.Where("status = ?", status)
	}
	var entries []model.CommitteeVoteEntryModel
	if err := q.Order("committee_id").Find(&entries).Error; err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Failed to list vote entries")
	}
	return helper.JsonOK(c, "OK", entries)
}

// GET /api/voting/committee-entries/:id
func (ctrl *CommitteeEntryController) GetByID(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid ID")
	}
	var entry model.CommitteeVoteEntryModel
	if err := ctrl.DB.First(&entry, "id = ?", id).Error; err != nil {
		return helper.Error(c, fiber.StatusNotFound, "Vote entry not found")
	}
	return helper.JsonOK(c, "OK", entry)
}

// POST /api/voting/committee-entries/:id/verify (admin only)
// Cascades: all non-verified counts for the committee are verified in
// the same transaction.
func (ctrl *CommitteeEntryController) Verify(c *fiber.Ctx) error {
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

	var entry model.CommitteeVoteEntryModel
	if err := ctrl.DB.First(&entry, "id = ?", id).Error; err != nil {
		return helper.Error(c, fiber.StatusNotFound, "Vote entry not found")
	}
	if entry.Status == model.EntryVerified {
		return helper.JsonOK(c, "Already verified", entry)
	}
	if entry.Status != model.EntryCompleted {
		return helper.Error(c, fiber.StatusBadRequest, "Only completed entries can be verified")
	}

	now := time.Now()
	err = ctrl.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&entry).Updates(map[string]interface{}{
			"status":      model.EntryVerified,
			"verified_by": userID,
			"verified_at": now,
		}).Error; err != nil {
			return err
		}
		entry.Status = model.EntryVerified
		entry.VerifiedBy = &userID
		entry.VerifiedAt = &now

		var pending []model.VoteCountModel
		if err := tx.Where("election_id = ? AND committee_id = ? AND status <> ?",
			entry.ElectionID, entry.CommitteeID, model.VoteCountVerified).
			Find(&pending).Error; err != nil {
			return err
		}
		for i := range pending {
			before := service.VoteCountSnapshot(&pending[i])
			if err := tx.Model(&pending[i]).Updates(map[string]interface{}{
				"status":      model.VoteCountVerified,
				"is_verified": true,
				"verified_by": userID,
				"verified_at": now,
			}).Error; err != nil {
				return err
			}
			pending[i].Status = model.VoteCountVerified
			pending[i].IsVerified = true
			if err := service.AppendAudit(tx, pending[i].ID, userID, model.AuditVerified,
				before, service.VoteCountSnapshot(&pending[i]), c.IP()); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Failed to verify vote entry")
	}
	reportcache.InvalidateDashboards()
	return helper.JsonOK(c, "Vote entry verified", entry)
}

// GET /api/voting/committee-entries/progress
// Completion % = counted candidates / active candidates.
func (ctrl *CommitteeEntryController) Progress(c *fiber.Ctx) error {
	election, err := electionmodel.CurrentElection(ctrl.DB)
	if err != nil {
		return helper.Error(c, fiber.StatusNotFound, "No election configured")
	}

	var committees []electionmodel.CommitteeModel
	if err := ctrl.DB.
		Where("election_id = ?", election.ID).
		Order("code").
		Find(&committees).Error; err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Failed to list committees")
	}

	var totalCandidates int64
	ctrl.DB.Table("candidates").
		Where("election_id = ? AND is_active = true AND deleted_at IS NULL", election.ID).
		Count(&totalCandidates)

	var entries []model.CommitteeVoteEntryModel
	ctrl.DB.Where("election_id = ?", election.ID).Find(&entries)
	entryByCommittee := make(map[uint]model.CommitteeVoteEntryModel, len(entries))
	for _, e := range entries {
		entryByCommittee[e.CommitteeID] = e
	}

	type countRow struct {
		CommitteeID uint
		Count       int64
	}
	var counted []countRow
	ctrl.DB.Model(&model.VoteCountModel{}).
		Select("committee_id, COUNT(*) as count").
		Where("election_id = ?", election.ID).
		Group("committee_id").
		Scan(&counted)
	countedByCommittee := make(map[uint]int64, len(counted))
	for _, row := range counted {
		countedByCommittee[row.CommitteeID] = row.Count
	}

	out := make([]dto.CommitteeProgress, 0, len(committees))
	for _, cm := range committees {
		progress := dto.CommitteeProgress{
			CommitteeID:   cm.ID,
			CommitteeCode: cm.Code,
			CommitteeName: cm.Name,
			Status:        "NOT_STARTED",
		}
		if entry, ok := entryByCommittee[cm.ID]; ok {
			progress.Status = entry.Status
		}
		if totalCandidates > 0 {
			pct := float64(countedByCommittee[cm.ID]) / float64(totalCandidates) * 100
			progress.CompletionPercentage = math.Round(pct*100) / 100
		}
		out = append(out, progress)
	}
	return helper.JsonOK(c, "OK", out)
}
