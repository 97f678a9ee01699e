package controller

import (
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"intikhab_backend/internals/constants"
	"intikhab_backend/internals/features/candidates/model"
	helper "intikhab_backend/internals/helpers"
)

type PartyController struct {
	DB *gorm.DB
}

func NewPartyController(db *gorm.DB) *PartyController {
	return &PartyController{DB: db}
}

var validate = validator.New()

// GET /api/candidates/parties/
func (ctrl *PartyController) List(c *fiber.Ctx) error {
	q := ctrl.DB.Model(&model.PartyModel{}).Where("is_active = true")
	if eid := c.QueryInt("election_id"); eid > 0 {
		q = q.Where("election_id = ?", eid)
	}
	var parties []model.PartyModel
	if err := q.Order("name").Find(&parties).Error; err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Failed to list parties")
	}
	return helper.JsonOK(c, "OK", parties)
}

// POST /api/candidates/parties/ (admin only, multipart or JSON)
func (ctrl *PartyController) Create(c *fiber.Ctx) error {
	if !helper.IsAdminOrAbove(c) {
		return helper.Error(c, fiber.StatusForbidden, constants.RoleErrorAdmin("party management"))
	}

	electionID, _ := strconv.Atoi(c.FormValue("electionId"))
	name := c.FormValue("name")
	color := c.FormValue("color")
	if electionID <= 0 || name == "" {
		return helper.Error(c, fiber.StatusBadRequest, "electionId and name are required")
	}
	if color != "" && !helper.ValidHexColor(color) {
		return helper.Error(c, fiber.StatusBadRequest, "Color must be #RGB or #RRGGBB")
	}

	var count int64
	ctrl.DB.Model(&model.PartyModel{}).
		Where("election_id = ? AND name = ?", electionID, name).
		Count(&count)
	if count > 0 {
		return helper.Error(c, fiber.StatusConflict, "Party name already exists for this election")
	}

	party := model.PartyModel{
		ElectionID: uint(electionID),
		Name:       name,
		Color:      color,
		IsActive:   true,
	}

	if fh, err := c.FormFile("logo"); err == nil {
		url, err := helper.SaveImageWebp("parties", fh)
		if err != nil {
			return helper.Error(c, fiber.StatusBadRequest, "Logo upload failed: "+err.Error())
		}
		party.Logo = &url
	}

	if err := ctrl.DB.Create(&party).Error; err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Failed to create party")
	}
	return helper.JsonCreated(c, "Party created", party)
}

// PATCH /api/candidates/parties/:id (admin only)
// removeLogo=true drops the stored image.
func (ctrl *PartyController) Update(c *fiber.Ctx) error {
	if !helper.IsAdminOrAbove(c) {
		return helper.Error(c, fiber.StatusForbidden, constants.RoleErrorAdmin("party management"))
	}
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid ID")
	}

	var party model.PartyModel
	if err := ctrl.DB.First(&party, "id = ?", id).Error; err != nil {
		return helper.Error(c, fiber.StatusNotFound, "Party not found")
	}

	updates := map[string]interface{}{}
	if name := c.FormValue("name"); name != "" {
		updates["name"] = name
	}
	if color := c.FormValue("color"); color != "" {
		if !helper.ValidHexColor(color) {
			return helper.Error(c, fiber.StatusBadRequest, "Color must be #RGB or #RRGGBB")
		}
		updates["color"] = color
	}
	if v := c.FormValue("isActive"); v != "" {
		updates["is_active"] = v == "true"
	}

	if c.FormValue("removeLogo") == "true" {
		if party.Logo != nil {
			_ = helper.RemoveUpload(*party.Logo)
		}
		updates["logo"] = nil
	} else if fh, err := c.FormFile("logo"); err == nil {
		url, err := helper.SaveImageWebp("parties", fh)
		if err != nil {
			return helper.Error(c, fiber.StatusBadRequest, "Logo upload failed: "+err.Error())
		}
		if party.Logo != nil {
			_ = helper.RemoveUpload(*party.Logo)
		}
		updates["logo"] = url
	}

	if len(updates) == 0 {
		return helper.JsonOK(c, "No changes", party)
	}
	if err := ctrl.DB.Model(&party).Updates(updates).Error; err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Failed to update party")
	}

	_ = ctrl.DB.First(&party, "id = ?", id).Error
	return helper.JsonOK(c, "Party updated", party)
}

// DELETE /api/candidates/parties/:id (admin only)
func (ctrl *PartyController) Delete(c *fiber.Ctx) error {
	if !helper.IsAdminOrAbove(c) {
		return helper.Error(c, fiber.StatusForbidden, constants.RoleErrorAdmin("party management"))
	}
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid ID")
	}

	res := ctrl.DB.Delete(&model.PartyModel{}, "id = ?", id)
	if res.Error != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Failed to delete party")
	}
	if res.RowsAffected == 0 {
		return helper.Error(c, fiber.StatusNotFound, "Party not found")
	}
	return helper.JsonOK(c, "Party deleted", nil)
}

// GET /api/candidates/parties/:id/candidates/
func (ctrl *PartyController) Candidates(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid ID")
	}
	var candidates []model.CandidateModel
	if err := ctrl.DB.
		Where("party_id = ? AND is_active = true", id).
		Order("candidate_number").
		Find(&candidates).Error; err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Failed to list candidates")
	}
	return helper.JsonOK(c, "OK", candidates)
}
