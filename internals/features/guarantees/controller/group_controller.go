package controller

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"intikhab_backend/internals/features/guarantees/dto"
	"intikhab_backend/internals/features/guarantees/model"
	helper "intikhab_backend/internals/helpers"
)

var validate = validator.New()

type GroupController struct {
	DB *gorm.DB
}

func NewGroupController(db *gorm.DB) *GroupController {
	return &GroupController{DB: db}
}

// GET /api/guarantees/groups/
func (ctrl *GroupController) List(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.Error(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	var groups []model.GuaranteeGroupModel
	if err := ctrl.DB.
		Where("user_id = ?", userID).
		Order("sort_order, name").
		Find(&groups).Error; err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Failed to list groups")
	}

	type countRow struct {
		GroupID uint
		Count   int64
	}
	var counts []countRow
	ctrl.DB.Table("guarantees").
		Select("group_id, COUNT(*) as count").
		Where("user_id = ? AND group_id IS NOT NULL AND deleted_at IS NULL", userID).
		Group("group_id").
		Scan(&counts)
	countByGroup := make(map[uint]int64, len(counts))
	for _, row := range counts {
		countByGroup[row.GroupID] = row.Count
	}

	out := make([]dto.GroupResponse, 0, len(groups))
	for _, g := range groups {
		out = append(out, dto.GroupResponse{GuaranteeGroupModel: g, GuaranteeCount: countByGroup[g.ID]})
	}
	return helper.JsonOK(c, "OK", out)
}

// POST /api/guarantees/groups/
func (ctrl *GroupController) Create(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.Error(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	var req dto.CreateGroupRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}
	if req.Color != "" && !helper.ValidHexColor(req.Color) {
		return helper.Error(c, fiber.StatusBadRequest, "Color must be #RGB or #RRGGBB")
	}

	var count int64
	ctrl.DB.Model(&model.GuaranteeGroupModel{}).
		Where("user_id = ? AND name = ?", userID, req.Name).
		Count(&count)
	if count > 0 {
		return helper.Error(c, fiber.StatusConflict, "A group with this name already exists")
	}

	group := model.GuaranteeGroupModel{
		UserID:      userID,
		Name:        req.Name,
		Description: req.Description,
	}
	if req.Color != "" {
		group.Color = req.Color
	}
	if req.SortOrder != nil {
		group.SortOrder = *req.SortOrder
	} else {
		var max int
		ctrl.DB.Model(&model.GuaranteeGroupModel{}).
			Where("user_id = ?", userID).
			Select("COALESCE(MAX(sort_order), -1)").
			Scan(&max)
		group.SortOrder = max + 1
	}

	if err := ctrl.DB.Create(&group).Error; err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Failed to create group")
	}
	return helper.JsonCreated(c, "Group created", group)
}

// PATCH /api/guarantees/groups/:id
func (ctrl *GroupController) Update(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.Error(c, fiber.StatusUnauthorized, "Unauthorized")
	}
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid ID")
	}

	var group model.GuaranteeGroupModel
	if err := ctrl.DB.First(&group, "id = ? AND user_id = ?", id, userID).Error; err != nil {
		return helper.Error(c, fiber.StatusNotFound, "Group not found")
	}

	var req dto.UpdateGroupRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	updates := map[string]interface{}{}
	if req.Name != nil && *req.Name != group.Name {
		var count int64
		ctrl.DB.Model(&model.GuaranteeGroupModel{}).
			Where("user_id = ? AND name = ? AND id <> ?", userID, *req.Name, group.ID).
			Count(&count)
		if count > 0 {
			return helper.Error(c, fiber.StatusConflict, "A group with this name already exists")
		}
		updates["name"] = *req.Name
	}
	if req.Color != nil {
		if !helper.ValidHexColor(*req.Color) {
			return helper.Error(c, fiber.StatusBadRequest, "Color must be #RGB or #RRGGBB")
		}
		updates["color"] = *req.Color
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.SortOrder != nil {
		updates["sort_order"] = *req.SortOrder
	}

	if len(updates) == 0 {
		return helper.JsonOK(c, "No changes", group)
	}
	if err := ctrl.DB.Model(&group).Updates(updates).Error; err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Failed to update group")
	}
	_ = ctrl.DB.First(&group, "id = ?", group.ID).Error
	return helper.JsonOK(c, "Group updated", group)
}

// DELETE /api/guarantees/groups/:id
// Member guarantees stay and fall back to ungrouped.
func (ctrl *GroupController) Delete(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.Error(c, fiber.StatusUnauthorized, "Unauthorized")
	}
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid ID")
	}

	var group model.GuaranteeGroupModel
	if err := ctrl.DB.First(&group, "id = ? AND user_id = ?", id, userID).Error; err != nil {
		return helper.Error(c, fiber.StatusNotFound, "Group not found")
	}

	err = ctrl.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Table("guarantees").
			Where("group_id = ?", group.ID).
			Update("group_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(&group).Error
	})
	if err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Failed to delete group")
	}
	return helper.JsonOK(c, "Group deleted", nil)
}

// POST /api/guarantees/groups/reorder
func (ctrl *GroupController) Reorder(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.Error(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	var req dto.ReorderGroupsRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	var owned int64
	ctrl.DB.Model(&model.GuaranteeGroupModel{}).
		Where("user_id = ? AND id IN ?", userID, req.IDs).
		Count(&owned)
	if owned != int64(len(req.IDs)) {
		return helper.Error(c, fiber.StatusForbidden, "One or more groups do not belong to you")
	}

	err = ctrl.DB.Transaction(func(tx *gorm.DB) error {
		for i, id := range req.IDs {
			if err := tx.Model(&model.GuaranteeGroupModel{}).
				Where("id = ?", id).
				Update("sort_order", i).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Failed to reorder groups")
	}
	return helper.JsonOK(c, "Groups reordered", nil)
}
