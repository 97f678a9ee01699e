package controller

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"intikhab_backend/internals/features/guarantees/dto"
	"intikhab_backend/internals/features/guarantees/model"
	"intikhab_backend/internals/features/guarantees/service"
	reportcache "intikhab_backend/internals/features/reports/cache"
	helper "intikhab_backend/internals/helpers"
)

type GuaranteeController struct {
	DB *gorm.DB
}

func NewGuaranteeController(db *gorm.DB) *GuaranteeController {
	return &GuaranteeController{DB: db}
}

/* ===================== Listing ===================== */

// GET /api/guarantees/
// Returns the caller's guarantees plus their personal statistics.
func (ctrl *GuaranteeController) List(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.Error(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	pg := helper.ResolvePaging(c, 50, 200)
	q := ctrl.DB.Model(&model.GuaranteeModel{}).Where("user_id = ?", userID)
	if status := c.Query("status"); status != "" {
		q = q.Where("guarantee_status = ?", status)
	}
	if confirmation := c.Query("confirmation"); confirmation != "" {
		q = q.Where("confirmation_status = ?", confirmation)
	}
	if gid := c.QueryInt("group_id"); gid > 0 {
		q = q.Where("group_id = ?", gid)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Failed to count guarantees")
	}

	var guarantees []model.GuaranteeModel
	if err := q.Order("created_at DESC").
		Offset(pg.Offset).
		Limit(pg.Limit).
		Find(&guarantees).Error; err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Failed to list guarantees")
	}

	items := ctrl.decorate(guarantees)
	stats, err := service.ComputePersonalStatistics(ctrl.DB, userID)
	if err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Failed to compute statistics")
	}

	return helper.JsonOK(c, "OK", fiber.Map{
		"items":      items,
		"statistics": stats,
		"pagination": helper.BuildPagination(total, pg.Page, pg.PerPage),
	})
}

// decorate joins elector and group context onto guarantee rows.
func (ctrl *GuaranteeController) decorate(guarantees []model.GuaranteeModel) []dto.GuaranteeResponse {
	out := make([]dto.GuaranteeResponse, 0, len(guarantees))
	if len(guarantees) == 0 {
		return out
	}

	kocIDs := make([]string, 0, len(guarantees))
	groupIDs := make([]uint, 0, len(guarantees))
	for _, g := range guarantees {
		kocIDs = append(kocIDs, g.ElectorKocID)
		if g.GroupID != nil {
			groupIDs = append(groupIDs, *g.GroupID)
		}
	}

	type electorRow struct {
		KocID         string
		NameFirst     string
		NameSecond    string
		NameThird     string
		NameFourth    string
		NameFifth     string
		NameSixth     string
		CommitteeCode *string
	}
	var electorRows []electorRow
	ctrl.DB.Table("electors").
		Select("electors.koc_id, electors.name_first, electors.name_second, electors.name_third, electors.name_fourth, electors.name_fifth, electors.name_sixth, committees.code as committee_code").
		Joins("LEFT JOIN committees ON committees.id = electors.committee_id").
		Where("electors.koc_id IN ?", kocIDs).
		Scan(&electorRows)
	electorByKoc := make(map[string]electorRow, len(electorRows))
	for _, row := range electorRows {
		electorByKoc[row.KocID] = row
	}

	groupByID := map[uint]model.GuaranteeGroupModel{}
	if len(groupIDs) > 0 {
		var groups []model.GuaranteeGroupModel
		ctrl.DB.Where("id IN ?", groupIDs).Find(&groups)
		for _, g := range groups {
			groupByID[g.ID] = g
		}
	}

	for _, g := range guarantees {
		resp := dto.GuaranteeResponse{GuaranteeModel: g}
		if row, ok := electorByKoc[g.ElectorKocID]; ok {
			resp.ElectorName = helper.NameParts{
				First: row.NameFirst, Second: row.NameSecond, Third: row.NameThird,
				Fourth: row.NameFourth, Fifth: row.NameFifth, Sixth: row.NameSixth,
			}.JoinName()
			resp.CommitteeCode = row.CommitteeCode
		}
		if g.GroupID != nil {
			if grp, ok := groupByID[*g.GroupID]; ok {
				resp.GroupName = &grp.Name
				resp.GroupColor = &grp.Color
			}
		}
		out = append(out, resp)
	}
	return out
}

/* ===================== Create / read / update / delete ===================== */

// POST /api/guarantees/
func (ctrl *GuaranteeController) Create(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.Error(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	var req dto.CreateGuaranteeRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	var electorCount int64
	ctrl.DB.Table("electors").
		Where("koc_id = ? AND is_active = true", req.Elector).
		Count(&electorCount)
	if electorCount == 0 {
		return helper.Error(c, fiber.StatusNotFound, "Elector not found")
	}

	var existing int64
	ctrl.DB.Model(&model.GuaranteeModel{}).
		Where("user_id = ? AND elector_koc_id = ?", userID, req.Elector).
		Count(&existing)
	if existing > 0 {
		return helper.ErrorWithDetails(c, fiber.StatusConflict,
			"You already have a guarantee for this elector", fiber.Map{"code": "DUPLICATE"})
	}

	guarantee := model.GuaranteeModel{
		UserID:             userID,
		ElectorKocID:       req.Elector,
		GuaranteeStatus:    model.GuaranteeStatusPending,
		ConfirmationStatus: model.ConfirmationPending,
		QuickNote:          req.QuickNote,
	}
	if req.GuaranteeStatus != "" {
		guarantee.GuaranteeStatus = req.GuaranteeStatus
	}
	if req.GroupID != nil {
		var group model.GuaranteeGroupModel
		if err := ctrl.DB.First(&group, "id = ?", *req.GroupID).Error; err != nil {
			return helper.Error(c, fiber.StatusNotFound, "Group not found")
		}
		if group.UserID != userID {
			return helper.ErrorWithDetails(c, fiber.StatusForbidden,
				"Group belongs to another user", fiber.Map{"code": "FOREIGN_GROUP"})
		}
		guarantee.GroupID = req.GroupID
	}
	if req.Mobile != nil && *req.Mobile != "" {
		normalized, err := helper.NormalizeKuwaitPhone(*req.Mobile)
		if err != nil {
			return helper.ErrorWithDetails(c, fiber.StatusBadRequest,
				"Invalid Kuwait phone number", fiber.Map{"code": "INVALID_PHONE"})
		}
		guarantee.Mobile = &normalized
	}

	err = ctrl.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&guarantee).Error; err != nil {
			return err
		}
		return service.AppendHistory(tx, guarantee.ID, userID, model.HistoryCreated,
			nil, service.Snapshot(&guarantee), "Guarantee created")
	})
	if err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Failed to create guarantee")
	}
	reportcache.InvalidateDashboards()
	return helper.JsonCreated(c, "Guarantee created", guarantee)
}

// GET /api/guarantees/:id
func (ctrl *GuaranteeController) GetByID(c *fiber.Ctx) error {
	guarantee, errResp := ctrl.ownedGuarantee(c)
	if errResp != nil {
		return errResp(c)
	}
	items := ctrl.decorate([]model.GuaranteeModel{*guarantee})
	return helper.JsonOK(c, "OK", items[0])
}

// PATCH /api/guarantees/:id
// Writes one history row per changed aspect.
func (ctrl *GuaranteeController) Update(c *fiber.Ctx) error {
	guarantee, errResp := ctrl.ownedGuarantee(c)
	if errResp != nil {
		return errResp(c)
	}
	return ctrl.applyUpdate(c, guarantee)
}

func (ctrl *GuaranteeController) applyUpdate(c *fiber.Ctx, guarantee *model.GuaranteeModel) error {
	userID, _ := helper.GetUserIDFromToken(c)

	var req dto.UpdateGuaranteeRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	before := service.Snapshot(guarantee)
	updates := map[string]interface{}{}
	historyActions := []string{}

	if req.GuaranteeStatus != nil && *req.GuaranteeStatus != guarantee.GuaranteeStatus {
		updates["guarantee_status"] = *req.GuaranteeStatus
		historyActions = append(historyActions, model.HistoryStatusChanged)
	}
	if req.ConfirmationStatus != nil && *req.ConfirmationStatus != guarantee.ConfirmationStatus {
		updates["confirmation_status"] = *req.ConfirmationStatus
		historyActions = append(historyActions, model.HistoryConfirmationChanged)
	}
	if req.ClearGroup {
		if guarantee.GroupID != nil {
			updates["group_id"] = nil
			historyActions = append(historyActions, model.HistoryGroupChanged)
		}
	} else if req.GroupID != nil && (guarantee.GroupID == nil || *guarantee.GroupID != *req.GroupID) {
		var group model.GuaranteeGroupModel
		if err := ctrl.DB.First(&group, "id = ?", *req.GroupID).Error; err != nil {
			return helper.Error(c, fiber.StatusNotFound, "Group not found")
		}
		if group.UserID != userID {
			return helper.ErrorWithDetails(c, fiber.StatusForbidden,
				"Group belongs to another user", fiber.Map{"code": "FOREIGN_GROUP"})
		}
		updates["group_id"] = *req.GroupID
		historyActions = append(historyActions, model.HistoryGroupChanged)
	}
	if req.Mobile != nil && *req.Mobile != "" {
		normalized, err := helper.NormalizeKuwaitPhone(*req.Mobile)
		if err != nil {
			return helper.ErrorWithDetails(c, fiber.StatusBadRequest,
				"Invalid Kuwait phone number", fiber.Map{"code": "INVALID_PHONE"})
		}
		if guarantee.Mobile == nil || *guarantee.Mobile != normalized {
			updates["mobile"] = normalized
			historyActions = append(historyActions, model.HistoryContactUpdated)
		}
	}
	if req.QuickNote != nil {
		updates["quick_note"] = *req.QuickNote
	}

	if len(updates) == 0 {
		return helper.JsonOK(c, "No changes", guarantee)
	}

	err := ctrl.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(guarantee).Updates(updates).Error; err != nil {
			return err
		}
		if err := tx.First(guarantee, "id = ?", guarantee.ID).Error; err != nil {
			return err
		}
		after := service.Snapshot(guarantee)
		for _, action := range historyActions {
			if err := service.AppendHistory(tx, guarantee.ID, userID, action, before, after, ""); err != nil {
				return err
			}
		}
		if len(historyActions) == 0 {
			return service.AppendHistory(tx, guarantee.ID, userID, model.HistoryUpdated, before, after, "")
		}
		return nil
	})
	if err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Failed to update guarantee")
	}
	reportcache.InvalidateDashboards()
	return helper.JsonOK(c, "Guarantee updated", guarantee)
}

// POST /api/guarantees/:id/quick-update
func (ctrl *GuaranteeController) QuickUpdate(c *fiber.Ctx) error {
	guarantee, errResp := ctrl.ownedGuarantee(c)
	if errResp != nil {
		return errResp(c)
	}
	userID, _ := helper.GetUserIDFromToken(c)

	var req dto.QuickUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	if req.GuaranteeStatus == guarantee.GuaranteeStatus {
		return helper.JsonOK(c, "No changes", guarantee)
	}

	before := service.Snapshot(guarantee)
	err := ctrl.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(guarantee).Update("guarantee_status", req.GuaranteeStatus).Error; err != nil {
			return err
		}
		guarantee.GuaranteeStatus = req.GuaranteeStatus
		return service.AppendHistory(tx, guarantee.ID, userID, model.HistoryStatusChanged,
			before, service.Snapshot(guarantee), "")
	})
	if err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Failed to update guarantee")
	}
	reportcache.InvalidateDashboards()
	return helper.JsonOK(c, "Guarantee updated", guarantee)
}

// POST /api/guarantees/bulk-update
// All ids must belong to the caller or the whole request is rejected.
func (ctrl *GuaranteeController) BulkUpdate(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.Error(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	var req dto.BulkUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}
	if req.GuaranteeStatus == nil && req.GroupID == nil && !req.ClearGroup {
		return helper.Error(c, fiber.StatusBadRequest, "Nothing to update")
	}

	var guarantees []model.GuaranteeModel
	if err := ctrl.DB.Where("id IN ? AND user_id = ?", req.IDs, userID).Find(&guarantees).Error; err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Failed to load guarantees")
	}
	if len(guarantees) != len(req.IDs) {
		return helper.ErrorWithDetails(c, fiber.StatusForbidden,
			"One or more guarantees do not belong to you", fiber.Map{"code": "NOT_OWNED"})
	}

	updates := map[string]interface{}{}
	if req.GuaranteeStatus != nil {
		updates["guarantee_status"] = *req.GuaranteeStatus
	}
	if req.ClearGroup {
		updates["group_id"] = nil
	} else if req.GroupID != nil {
		var group model.GuaranteeGroupModel
		if err := ctrl.DB.First(&group, "id = ?", *req.GroupID).Error; err != nil {
			return helper.Error(c, fiber.StatusNotFound, "Group not found")
		}
		if group.UserID != userID {
			return helper.ErrorWithDetails(c, fiber.StatusForbidden,
				"Group belongs to another user", fiber.Map{"code": "FOREIGN_GROUP"})
		}
		updates["group_id"] = *req.GroupID
	}

	err = ctrl.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.GuaranteeModel{}).
			Where("id IN ?", req.IDs).
			Updates(updates).Error; err != nil {
			return err
		}
		action := model.HistoryUpdated
		if req.GuaranteeStatus != nil {
			action = model.HistoryStatusChanged
		} else if req.GroupID != nil || req.ClearGroup {
			action = model.HistoryGroupChanged
		}
		for i := range guarantees {
			before := service.Snapshot(&guarantees[i])
			after := map[string]interface{}{}
			for k, v := range before {
				after[k] = v
			}
			for k, v := range updates {
				after[k] = v
			}
			if err := service.AppendHistory(tx, guarantees[i].ID, userID, action, before, after, "Bulk update"); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Failed to apply bulk update")
	}
	reportcache.InvalidateDashboards()
	return helper.JsonOK(c, "Guarantees updated", fiber.Map{"updated": len(req.IDs)})
}

// POST /api/guarantees/:id/confirm
func (ctrl *GuaranteeController) Confirm(c *fiber.Ctx) error {
	guarantee, errResp := ctrl.ownedGuarantee(c)
	if errResp != nil {
		return errResp(c)
	}
	userID, _ := helper.GetUserIDFromToken(c)

	var req dto.ConfirmRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	if req.ConfirmationStatus == guarantee.ConfirmationStatus {
		return helper.JsonOK(c, "No changes", guarantee)
	}

	before := service.Snapshot(guarantee)
	err := ctrl.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(guarantee).Update("confirmation_status", req.ConfirmationStatus).Error; err != nil {
			return err
		}
		guarantee.ConfirmationStatus = req.ConfirmationStatus
		return service.AppendHistory(tx, guarantee.ID, userID, model.HistoryConfirmationChanged,
			before, service.Snapshot(guarantee), "")
	})
	if err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Failed to confirm guarantee")
	}
	reportcache.InvalidateDashboards()
	return helper.JsonOK(c, "Confirmation updated", guarantee)
}

// POST /api/guarantees/bulk-confirm
func (ctrl *GuaranteeController) BulkConfirm(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.Error(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	var req dto.BulkConfirmRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	var guarantees []model.GuaranteeModel
	if err := ctrl.DB.Where("id IN ? AND user_id = ?", req.IDs, userID).Find(&guarantees).Error; err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Failed to load guarantees")
	}
	if len(guarantees) != len(req.IDs) {
		return helper.ErrorWithDetails(c, fiber.StatusForbidden,
			"One or more guarantees do not belong to you", fiber.Map{"code": "NOT_OWNED"})
	}

	err = ctrl.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.GuaranteeModel{}).
			Where("id IN ?", req.IDs).
			Update("confirmation_status", req.ConfirmationStatus).Error; err != nil {
			return err
		}
		for i := range guarantees {
			before := service.Snapshot(&guarantees[i])
			after := map[string]interface{}{}
			for k, v := range before {
				after[k] = v
			}
			after["confirmation_status"] = req.ConfirmationStatus
			if err := service.AppendHistory(tx, guarantees[i].ID, userID,
				model.HistoryConfirmationChanged, before, after, "Bulk confirm"); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Failed to apply bulk confirm")
	}
	reportcache.InvalidateDashboards()
	return helper.JsonOK(c, "Confirmations updated", fiber.Map{"updated": len(req.IDs)})
}

// DELETE /api/guarantees/:id
// History records the delete before the row goes away; notes and
// history rows are removed with the guarantee.
func (ctrl *GuaranteeController) Delete(c *fiber.Ctx) error {
	guarantee, errResp := ctrl.ownedGuarantee(c)
	if errResp != nil {
		return errResp(c)
	}
	return ctrl.performDelete(c, guarantee)
}

func (ctrl *GuaranteeController) performDelete(c *fiber.Ctx, guarantee *model.GuaranteeModel) error {
	userID, _ := helper.GetUserIDFromToken(c)

	err := ctrl.DB.Transaction(func(tx *gorm.DB) error {
		if err := service.AppendHistory(tx, guarantee.ID, userID, model.HistoryDeleted,
			service.Snapshot(guarantee), nil, "Guarantee deleted"); err != nil {
			return err
		}
		if err := tx.Unscoped().Delete(&model.GuaranteeModel{}, "id = ?", guarantee.ID).Error; err != nil {
			return err
		}
		if err := tx.Delete(&model.GuaranteeNoteModel{}, "guarantee_id = ?", guarantee.ID).Error; err != nil {
			return err
		}
		return tx.Delete(&model.GuaranteeHistoryModel{}, "guarantee_id = ?", guarantee.ID).Error
	})
	if err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Failed to delete guarantee")
	}
	reportcache.InvalidateDashboards()
	return helper.JsonOK(c, "Guarantee deleted", nil)
}

/* ===================== Helpers ===================== */

// ownedGuarantee loads :id and checks the caller owns it.
func (ctrl *GuaranteeController) ownedGuarantee(c *fiber.Ctx) (*model.GuaranteeModel, func(*fiber.Ctx) error) {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return nil, func(c *fiber.Ctx) error {
			return helper.Error(c, fiber.StatusUnauthorized, "Unauthorized")
		}
	}
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return nil, func(c *fiber.Ctx) error {
			return helper.Error(c, fiber.StatusBadRequest, "Invalid ID")
		}
	}

	var guarantee model.GuaranteeModel
	if err := ctrl.DB.First(&guarantee, "id = ?", id).Error; err != nil {
		return nil, func(c *fiber.Ctx) error {
			return helper.Error(c, fiber.StatusNotFound, "Guarantee not found")
		}
	}
	if guarantee.UserID != userID {
		msg := fmt.Sprintf("Guarantee %d does not belong to you", guarantee.ID)
		return nil, func(c *fiber.Ctx) error {
			return helper.ErrorWithDetails(c, fiber.StatusForbidden, msg, fiber.Map{"code": "NOT_OWNED"})
		}
	}
	return &guarantee, nil
}
