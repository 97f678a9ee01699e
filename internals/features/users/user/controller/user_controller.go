package controller

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"intikhab_backend/internals/constants"
	authService "intikhab_backend/internals/features/users/auth/service"
	"intikhab_backend/internals/features/users/user/dto"
	"intikhab_backend/internals/features/users/user/model"
	helper "intikhab_backend/internals/helpers"
)

type UserController struct {
	DB *gorm.DB
}

func NewUserController(db *gorm.DB) *UserController {
	return &UserController{DB: db}
}

var validate = validator.New()

/* ===================== LIST ===================== */
// GET /api/users/
// Regular users see only themselves; supervisors self + supervised; admins all.
func (ctrl *UserController) List(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	q := ctrl.DB.Model(&model.UserModel{})
	switch {
	case helper.IsAdminOrAbove(c):
		// no filter
	case helper.IsSupervisorOrAbove(c):
		q = q.Where("id = ? OR (supervisor_id = ? AND is_active = true)", userID, userID)
	default:
		q = q.Where("id = ?", userID)
	}

	p := helper.ResolvePaging(c, 20, 100)
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Failed to count users")
	}

	var users []model.UserModel
	if err := q.Order("id").Offset(p.Offset).Limit(p.Limit).Find(&users).Error; err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Failed to list users")
	}

	return helper.SuccessList(c, "OK", users, helper.BuildPagination(total, p.Page, p.PerPage))
}

/* ===================== CREATE ===================== */
// POST /api/users/
// Admins create any role; supervisors may only create USER accounts under
// themselves.
func (ctrl *UserController) Create(c *fiber.Ctx) error {
	creatorID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	if !helper.IsSupervisorOrAbove(c) {
		return helper.Error(c, fiber.StatusForbidden, constants.RoleErrorSupervisor("user management"))
	}

	var req dto.CreateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	if !helper.IsAdminOrAbove(c) {
		// Supervisor path: force USER role under the creator.
		req.Role = constants.RoleUser
		req.SupervisorID = &creatorID
	}
	if req.Role == constants.RoleAdmin || req.Role == constants.RoleSuperAdmin {
		// Admins never carry a supervisor.
		req.SupervisorID = nil
	}

	var existing model.UserModel
	if err := ctrl.DB.Where("email = ?", req.Email).First(&existing).Error; err == nil {
		return helper.Error(c, fiber.StatusConflict, "Email already registered")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return helper.Error(c, fiber.StatusInternalServerError, "Internal Server Error")
	}

	hashed, err := authService.HashPassword(req.Password)
	if err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Failed to hash password")
	}

	user := req.ToModel(hashed)
	if err := ctrl.DB.Create(&user).Error; err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Failed to create user")
	}

	return helper.JsonCreated(c, "User created", user)
}

/* ===================== DETAIL ===================== */
// GET /api/users/:id
func (ctrl *UserController) GetByID(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid ID")
	}

	var user model.UserModel
	if err := ctrl.DB.First(&user, "id = ?", id).Error; err != nil {
		return helper.Error(c, fiber.StatusNotFound, "User not found")
	}

	if !ctrl.canSee(c, &user) {
		return helper.Error(c, fiber.StatusForbidden, "Not allowed to view this user")
	}
	return helper.JsonOK(c, "OK", user)
}

/* ===================== UPDATE (partial) ===================== */
// PATCH /api/users/:id (admin only)
func (ctrl *UserController) Update(c *fiber.Ctx) error {
	if !helper.IsAdminOrAbove(c) {
		return helper.Error(c, fiber.StatusForbidden, constants.RoleErrorAdmin("user management"))
	}
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid ID")
	}

	var req dto.UpdateUserRequest
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
	if role, ok := updates["role"].(string); ok && constants.IsAdminOrAbove(role) {
		updates["supervisor_id"] = nil
	}

	res := ctrl.DB.Model(&model.UserModel{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Failed to update user")
	}
	if res.RowsAffected == 0 {
		return helper.Error(c, fiber.StatusNotFound, "User not found")
	}

	var user model.UserModel
	_ = ctrl.DB.First(&user, "id = ?", id).Error
	return helper.JsonOK(c, "User updated", user)
}

/* ===================== DELETE ===================== */
// DELETE /api/users/:id (admin only, soft delete)
func (ctrl *UserController) Delete(c *fiber.Ctx) error {
	if !helper.IsAdminOrAbove(c) {
		return helper.Error(c, fiber.StatusForbidden, constants.RoleErrorAdmin("user management"))
	}
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid ID")
	}

	res := ctrl.DB.Delete(&model.UserModel{}, "id = ?", id)
	if res.Error != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Failed to delete user")
	}
	if res.RowsAffected == 0 {
		return helper.Error(c, fiber.StatusNotFound, "User not found")
	}
	return helper.JsonOK(c, "User deleted", nil)
}

/* ===================== SUPERVISED ===================== */
// GET /api/users/supervised/
// Supervisors get their active team; admins get all active principals.
func (ctrl *UserController) Supervised(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	if !helper.IsSupervisorOrAbove(c) {
		return helper.Error(c, fiber.StatusForbidden, constants.RoleErrorSupervisor("team view"))
	}

	q := ctrl.DB.Where("is_active = true")
	if !helper.IsAdminOrAbove(c) {
		q = q.Where("supervisor_id = ?", userID)
	}

	var users []model.UserModel
	if err := q.Order("user_name").Find(&users).Error; err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Failed to list supervised users")
	}
	return helper.JsonOK(c, "OK", users)
}

/* ===================== ASSIGNMENTS ===================== */
// POST /api/users/assign-supervisor/ (admin only)
func (ctrl *UserController) AssignSupervisor(c *fiber.Ctx) error {
	if !helper.IsAdminOrAbove(c) {
		return helper.Error(c, fiber.StatusForbidden, constants.RoleErrorAdmin("supervisor assignment"))
	}

	var req dto.AssignSupervisorRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	if req.SupervisorID != nil {
		var sup model.UserModel
		if err := ctrl.DB.First(&sup, "id = ?", *req.SupervisorID).Error; err != nil {
			return helper.Error(c, fiber.StatusNotFound, "Supervisor not found")
		}
		if !sup.IsSupervisorOrAbove() {
			return helper.Error(c, fiber.StatusBadRequest, "Target is not a supervisor")
		}
	}

	res := ctrl.DB.Model(&model.UserModel{}).
		Where("id IN ? AND role IN ?", req.UserIDs, []string{constants.RoleUser, constants.RoleSupervisor}).
		Update("supervisor_id", req.SupervisorID)
	if res.Error != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Failed to assign supervisor")
	}

	return helper.JsonOK(c, "Supervisor assigned", fiber.Map{"updated": res.RowsAffected})
}

// POST /api/users/assign-teams/ (admin only)
func (ctrl *UserController) AssignTeams(c *fiber.Ctx) error {
	if !helper.IsAdminOrAbove(c) {
		return helper.Error(c, fiber.StatusForbidden, constants.RoleErrorAdmin("team assignment"))
	}

	var req dto.AssignTeamsRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	res := ctrl.DB.Model(&model.UserModel{}).
		Where("id = ?", req.UserID).
		Update("teams", pq.StringArray(req.Teams))
	if res.Error != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Failed to assign teams")
	}
	if res.RowsAffected == 0 {
		return helper.Error(c, fiber.StatusNotFound, "User not found")
	}
	return helper.JsonOK(c, "Teams assigned", nil)
}

// POST /api/users/assign-committees/ (admin only)
func (ctrl *UserController) AssignCommittees(c *fiber.Ctx) error {
	if !helper.IsAdminOrAbove(c) {
		return helper.Error(c, fiber.StatusForbidden, constants.RoleErrorAdmin("committee assignment"))
	}

	var req dto.AssignCommitteesRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	res := ctrl.DB.Model(&model.UserModel{}).
		Where("id = ?", req.UserID).
		Update("committees", pq.StringArray(req.Committees))
	if res.Error != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Failed to assign committees")
	}
	if res.RowsAffected == 0 {
		return helper.Error(c, fiber.StatusNotFound, "User not found")
	}
	return helper.JsonOK(c, "Committees assigned", nil)
}

func (ctrl *UserController) canSee(c *fiber.Ctx, target *model.UserModel) bool {
	if helper.IsAdminOrAbove(c) {
		return true
	}
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return false
	}
	if target.ID == userID {
		return true
	}
	if helper.IsSupervisorOrAbove(c) && target.SupervisorID != nil && *target.SupervisorID == userID {
		return true
	}
	return false
}
