package controller

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"intikhab_backend/internals/constants"
	electoratemodel "intikhab_backend/internals/features/electorate/model"
	electorateservice "intikhab_backend/internals/features/electorate/service"
	"intikhab_backend/internals/features/guarantees/dto"
	"intikhab_backend/internals/features/guarantees/model"
	"intikhab_backend/internals/features/guarantees/service"
	reportcache "intikhab_backend/internals/features/reports/cache"
	helper "intikhab_backend/internals/helpers"
)

/* ===================== Notes & history ===================== */

// POST /api/guarantees/:id/add-note
func (ctrl *GuaranteeController) AddNote(c *fiber.Ctx) error {
	guarantee, errResp := ctrl.ownedGuarantee(c)
	if errResp != nil {
		return errResp(c)
	}
	userID, _ := helper.GetUserIDFromToken(c)

	var req dto.AddNoteRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	note := model.GuaranteeNoteModel{
		GuaranteeID: guarantee.ID,
		AuthorID:    userID,
		Content:     helper.SanitizeText(req.Content, 1000),
		IsImportant: req.IsImportant,
	}
	err := ctrl.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&note).Error; err != nil {
			return err
		}
		return service.AppendHistory(tx, guarantee.ID, userID, model.HistoryNoteAdded,
			nil, fiber.Map{"note_id": note.ID, "is_important": note.IsImportant}, "Note added")
	})
	if err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Failed to add note")
	}
	reportcache.InvalidateDashboards()
	return helper.JsonCreated(c, "Note added", note)
}

// GET /api/guarantees/:id/notes
func (ctrl *GuaranteeController) Notes(c *fiber.Ctx) error {
	guarantee, errResp := ctrl.ownedGuarantee(c)
	if errResp != nil {
		return errResp(c)
	}
	var notes []model.GuaranteeNoteModel
	if err := ctrl.DB.
		Where("guarantee_id = ?", guarantee.ID).
		Order("created_at DESC").
		Find(&notes).Error; err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Failed to list notes")
	}
	return helper.JsonOK(c, "OK", notes)
}

// GET /api/guarantees/:id/history
func (ctrl *GuaranteeController) History(c *fiber.Ctx) error {
	guarantee, errResp := ctrl.ownedGuarantee(c)
	if errResp != nil {
		return errResp(c)
	}
	var history []model.GuaranteeHistoryModel
	if err := ctrl.DB.
		Where("guarantee_id = ?", guarantee.ID).
		Order("created_at DESC").
		Find(&history).Error; err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Failed to load history")
	}
	return helper.JsonOK(c, "OK", history)
}

/* ===================== Elector lookups ===================== */

// GET /api/guarantees/search-elector?q=
// Excludes electors the caller already has a guarantee for.
func (ctrl *GuaranteeController) SearchElector(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.Error(c, fiber.StatusUnauthorized, "Unauthorized")
	}
	q := strings.TrimSpace(c.Query("q"))
	if q == "" {
		return helper.Error(c, fiber.StatusBadRequest, "Query parameter q is required")
	}

	like := "%" + strings.ToLower(q) + "%"
	var electors []electoratemodel.ElectorModel
	err = ctrl.DB.Model(&electoratemodel.ElectorModel{}).
		Where("is_active = true").
		Where("koc_id NOT IN (?)", ctrl.DB.Table("guarantees").
			Select("elector_koc_id").
			Where("user_id = ? AND deleted_at IS NULL", userID)).
		Where(
			"LOWER(koc_id) LIKE ? OR LOWER(name_first) LIKE ? OR LOWER(family_name) LIKE ? OR LOWER(sub_family) LIKE ? OR LOWER(mobile) LIKE ? OR LOWER(section) LIKE ?",
			like, like, like, like, like, like,
		).
		Limit(20).
		Find(&electors).Error
	if err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Search failed")
	}
	return helper.JsonOK(c, "OK", electors)
}

// GET /api/guarantees/relatives?koc_id=
// Relationship lists for an elector, from the caller's canvassing view.
func (ctrl *GuaranteeController) Relatives(c *fiber.Ctx) error {
	kocID := strings.TrimSpace(c.Query("koc_id"))
	if kocID == "" {
		return helper.Error(c, fiber.StatusBadRequest, "Query parameter koc_id is required")
	}
	var elector electoratemodel.ElectorModel
	if err := ctrl.DB.First(&elector, "koc_id = ? AND is_active = true", kocID).Error; err != nil {
		return helper.Error(c, fiber.StatusNotFound, "Elector not found")
	}
	rel, err := electorateservice.FindRelationships(ctrl.DB, &elector)
	if err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Failed to compute relationships")
	}
	return helper.JsonOK(c, "OK", rel)
}

/* ===================== By-elector access ===================== */

// findByElector loads the caller's guarantee for a KOC ID.
func (ctrl *GuaranteeController) findByElector(c *fiber.Ctx) (*model.GuaranteeModel, error) {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return nil, helper.Error(c, fiber.StatusUnauthorized, "Unauthorized")
	}
	kocID := c.Params("kocId")
	var guarantee model.GuaranteeModel
	if err := ctrl.DB.First(&guarantee, "user_id = ? AND elector_koc_id = ?", userID, kocID).Error; err != nil {
		return nil, helper.Error(c, fiber.StatusNotFound, "No guarantee for this elector")
	}
	return &guarantee, nil
}

// GET /api/guarantees/by-elector/:kocId
func (ctrl *GuaranteeController) ByElectorGet(c *fiber.Ctx) error {
	guarantee, errResp := ctrl.findByElector(c)
	if guarantee == nil {
		return errResp
	}
	items := ctrl.decorate([]model.GuaranteeModel{*guarantee})
	return helper.JsonOK(c, "OK", items[0])
}

// PATCH /api/guarantees/by-elector/:kocId
func (ctrl *GuaranteeController) ByElectorPatch(c *fiber.Ctx) error {
	guarantee, errResp := ctrl.findByElector(c)
	if guarantee == nil {
		return errResp
	}
	return ctrl.applyUpdate(c, guarantee)
}

// DELETE /api/guarantees/by-elector/:kocId
func (ctrl *GuaranteeController) ByElectorDelete(c *fiber.Ctx) error {
	guarantee, errResp := ctrl.findByElector(c)
	if guarantee == nil {
		return errResp
	}
	return ctrl.performDelete(c, guarantee)
}

/* ===================== Statistics ===================== */

// GET /api/guarantees/statistics
func (ctrl *GuaranteeController) Statistics(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.Error(c, fiber.StatusUnauthorized, "Unauthorized")
	}
	stats, err := service.ComputePersonalStatistics(ctrl.DB, userID)
	if err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Failed to compute statistics")
	}
	return helper.JsonOK(c, "OK", stats)
}

// GET /api/guarantees/team/ (supervisor and above)
func (ctrl *GuaranteeController) TeamStatistics(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.Error(c, fiber.StatusUnauthorized, "Unauthorized")
	}
	if !helper.IsSupervisorOrAbove(c) {
		return helper.Error(c, fiber.StatusForbidden, constants.RoleErrorSupervisor("team statistics"))
	}

	memberIDs := []uint{userID}
	if helper.IsAdminOrAbove(c) {
		// Admins see the whole field team.
		var ids []uint
		ctrl.DB.Table("users").
			Where("is_active = true AND deleted_at IS NULL").
			Pluck("id", &ids)
		memberIDs = ids
	} else {
		var ids []uint
		ctrl.DB.Table("users").
			Where("supervisor_id = ? AND is_active = true AND deleted_at IS NULL", userID).
			Pluck("id", &ids)
		memberIDs = append(memberIDs, ids...)
	}

	stats, err := service.ComputeTeamStatistics(ctrl.DB, memberIDs)
	if err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Failed to compute team statistics")
	}
	return helper.JsonOK(c, "OK", stats)
}

/* ===================== Export ===================== */

// GET /api/guarantees/export/csv
func (ctrl *GuaranteeController) ExportCSV(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.Error(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	var guarantees []model.GuaranteeModel
	if err := ctrl.DB.
		Where("user_id = ?", userID).
		Order("created_at").
		Find(&guarantees).Error; err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Failed to load guarantees")
	}
	items := ctrl.decorate(guarantees)

	var buf bytes.Buffer
	buf.WriteString("\xEF\xBB\xBF")
	w := csv.NewWriter(&buf)
	_ = w.Write([]string{"KOC ID", "Full Name", "Committee", "Status", "Confirmation", "Group", "Mobile", "Quick Note", "Created At"})
	for _, item := range items {
		committee := ""
		if item.CommitteeCode != nil {
			committee = *item.CommitteeCode
		}
		group := ""
		if item.GroupName != nil {
			group = *item.GroupName
		}
		mobile := ""
		if item.Mobile != nil {
			mobile = *item.Mobile
		}
		note := ""
		if item.QuickNote != nil {
			note = *item.QuickNote
		}
		_ = w.Write([]string{
			item.ElectorKocID,
			item.ElectorName,
			committee,
			item.GuaranteeStatus,
			item.ConfirmationStatus,
			group,
			mobile,
			note,
			item.CreatedAt.Format("2006-01-02 15:04:05"),
		})
	}
	w.Flush()

	filename := fmt.Sprintf("guarantees-%s.csv", time.Now().Format("20060102-150405"))
	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(buf.Bytes())
}
