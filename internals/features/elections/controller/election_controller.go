package controller

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"intikhab_backend/internals/constants"
	"intikhab_backend/internals/features/elections/dto"
	"intikhab_backend/internals/features/elections/model"
	helper "intikhab_backend/internals/helpers"
)

type ElectionController struct {
	DB *gorm.DB
}

func NewElectionController(db *gorm.DB) *ElectionController {
	return &ElectionController{DB: db}
}

var validate = validator.New()

// GET /api/elections/
func (ctrl *ElectionController) List(c *fiber.Ctx) error {
	var elections []model.ElectionModel
	if err := ctrl.DB.Order("id").Find(&elections).Error; err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Failed to list elections")
	}
	return helper.JsonOK(c, "OK", elections)
}

// GET /api/elections/current/
func (ctrl *ElectionController) Current(c *fiber.Ctx) error {
	e, err := model.CurrentElection(ctrl.DB)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.Error(c, fiber.StatusNotFound, "No election configured")
		}
		return helper.Error(c, fiber.StatusInternalServerError, "Internal Server Error")
	}
	return helper.JsonOK(c, "OK", e)
}

// GET /api/elections/:id
func (ctrl *ElectionController) GetByID(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid ID")
	}
	var e model.ElectionModel
	if err := ctrl.DB.First(&e, "id = ?", id).Error; err != nil {
		return helper.Error(c, fiber.StatusNotFound, "Election not found")
	}
	return helper.JsonOK(c, "OK", e)
}

// POST /api/elections/ (admin only)
func (ctrl *ElectionController) Create(c *fiber.Ctx) error {
	if !helper.IsAdminOrAbove(c) {
		return helper.Error(c, fiber.StatusForbidden, constants.RoleErrorAdmin("election management"))
	}

	var req dto.CreateElectionRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	e := req.ToModel()
	if err := ctrl.DB.Create(&e).Error; err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Failed to create election")
	}
	return helper.JsonCreated(c, "Election created", e)
}

// PATCH /api/elections/:id (admin only)
func (ctrl *ElectionController) Update(c *fiber.Ctx) error {
	if !helper.IsAdminOrAbove(c) {
		return helper.Error(c, fiber.StatusForbidden, constants.RoleErrorAdmin("election management"))
	}
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid ID")
	}

	var req dto.UpdateElectionRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}
	updates := req.ToUpdates()
	if len(updates) == 0 {
		return helper.JsonOK(c, "No changes", fiber.Map{"id": id})
	}

	res := ctrl.DB.Model(&model.ElectionModel{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Failed to update election")
	}
	if res.RowsAffected == 0 {
		return helper.Error(c, fiber.StatusNotFound, "Election not found")
	}

	var e model.ElectionModel
	_ = ctrl.DB.First(&e, "id = ?", id).Error
	return helper.JsonOK(c, "Election updated", e)
}

// DELETE /api/elections/:id (admin only)
func (ctrl *ElectionController) Delete(c *fiber.Ctx) error {
	if !helper.IsAdminOrAbove(c) {
		return helper.Error(c, fiber.StatusForbidden, constants.RoleErrorAdmin("election management"))
	}
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid ID")
	}

	res := ctrl.DB.Delete(&model.ElectionModel{}, "id = ?", id)
	if res.Error != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Failed to delete election")
	}
	if res.RowsAffected == 0 {
		return helper.Error(c, fiber.StatusNotFound, "Election not found")
	}
	return helper.JsonOK(c, "Election deleted", nil)
}
