package controller

import (
	"github.com/gofiber/fiber/v2"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"intikhab_backend/internals/constants"
	"intikhab_backend/internals/features/elections/dto"
	"intikhab_backend/internals/features/elections/model"
	electorModel "intikhab_backend/internals/features/electorate/model"
	userModel "intikhab_backend/internals/features/users/user/model"
	helper "intikhab_backend/internals/helpers"
)

type CommitteeController struct {
	DB *gorm.DB
}

func NewCommitteeController(db *gorm.DB) *CommitteeController {
	return &CommitteeController{DB: db}
}

// GET /api/elections/committees/
func (ctrl *CommitteeController) List(c *fiber.Ctx) error {
	q := ctrl.DB.Model(&model.CommitteeModel{})
	if eid := c.QueryInt("election_id"); eid > 0 {
		q = q.Where("election_id = ?", eid)
	}

	var committees []model.CommitteeModel
	if err := q.Order("code").Find(&committees).Error; err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Failed to list committees")
	}
	return helper.JsonOK(c, "OK", committees)
}

// GET /api/elections/committees/:id
func (ctrl *CommitteeController) GetByID(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid ID")
	}
	var committee model.CommitteeModel
	if err := ctrl.DB.First(&committee, "id = ?", id).Error; err != nil {
		return helper.Error(c, fiber.StatusNotFound, "Committee not found")
	}
	return helper.JsonOK(c, "OK", committee)
}

// POST /api/elections/committees/ (admin only)
func (ctrl *CommitteeController) Create(c *fiber.Ctx) error {
	if !helper.IsAdminOrAbove(c) {
		return helper.Error(c, fiber.StatusForbidden, constants.RoleErrorAdmin("committee management"))
	}

	var req dto.CreateCommitteeRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	var count int64
	ctrl.DB.Model(&model.CommitteeModel{}).
		Where("election_id = ? AND code = ?", req.ElectionID, req.Code).
		Count(&count)
	if count > 0 {
		return helper.Error(c, fiber.StatusConflict, "Committee code already exists for this election")
	}

	committee := req.ToModel()
	if err := ctrl.DB.Create(&committee).Error; err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Failed to create committee")
	}
	return helper.JsonCreated(c, "Committee created", committee)
}

// PATCH /api/elections/committees/:id (admin only)
func (ctrl *CommitteeController) Update(c *fiber.Ctx) error {
	if !helper.IsAdminOrAbove(c) {
		return helper.Error(c, fiber.StatusForbidden, constants.RoleErrorAdmin("committee management"))
	}
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid ID")
	}

	var req dto.UpdateCommitteeRequest
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

	res := ctrl.DB.Model(&model.CommitteeModel{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Failed to update committee")
	}
	if res.RowsAffected == 0 {
		return helper.Error(c, fiber.StatusNotFound, "Committee not found")
	}

	var committee model.CommitteeModel
	_ = ctrl.DB.First(&committee, "id = ?", id).Error
	return helper.JsonOK(c, "Committee updated", committee)
}

// DELETE /api/elections/committees/:id (admin only)
func (ctrl *CommitteeController) Delete(c *fiber.Ctx) error {
	if !helper.IsAdminOrAbove(c) {
		return helper.Error(c, fiber.StatusForbidden, constants.RoleErrorAdmin("committee management"))
	}
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid ID")
	}

	res := ctrl.DB.Delete(&model.CommitteeModel{}, "id = ?", id)
	if res.Error != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Failed to delete committee")
	}
	if res.RowsAffected == 0 {
		return helper.Error(c, fiber.StatusNotFound, "Committee not found")
	}
	return helper.JsonOK(c, "Committee deleted", nil)
}

/* ===================== MEMBERSHIP ===================== */

// POST /api/elections/committees/:id/assign-users/ (admin only)
// Appends the committee code to each user's scope array.
func (ctrl *CommitteeController) AssignUsers(c *fiber.Ctx) error {
	if !helper.IsAdminOrAbove(c) {
		return helper.Error(c, fiber.StatusForbidden, constants.RoleErrorAdmin("committee assignment"))
	}
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid ID")
	}

	var req dto.AssignCommitteeUsersRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	var committee model.CommitteeModel
	if err := ctrl.DB.First(&committee, "id = ?", id).Error; err != nil {
		return helper.Error(c, fiber.StatusNotFound, "Committee not found")
	}

	var users []userModel.UserModel
	if err := ctrl.DB.Where("id IN ?", req.UserIDs).Find(&users).Error; err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Failed to load users")
	}

	updated := 0
	err = ctrl.DB.Transaction(func(tx *gorm.DB) error {
		for _, u := range users {
			if u.CanAccessCommittee(committee.Code) && !u.IsAdminOrAbove() {
				continue // already assigned
			}
			has := false
			for _, code := range u.Committees {
				if code == committee.Code {
					has = true
					break
				}
			}
			if has {
				continue
			}
			codes := append([]string(u.Committees), committee.Code)
			if err := tx.Model(&userModel.UserModel{}).
				Where("id = ?", u.ID).
				Update("committees", pq.StringArray(codes)).Error; err != nil {
				return err
			}
			updated++
		}
		return nil
	})
	if err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Failed to assign users")
	}

	return helper.JsonOK(c, "Users assigned", fiber.Map{"updated": updated})
}

// POST /api/elections/committees/:id/remove-member/ (admin only)
func (ctrl *CommitteeController) RemoveMember(c *fiber.Ctx) error {
	if !helper.IsAdminOrAbove(c) {
		return helper.Error(c, fiber.StatusForbidden, constants.RoleErrorAdmin("committee assignment"))
	}
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid ID")
	}

	var req dto.RemoveCommitteeMemberRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	var committee model.CommitteeModel
	if err := ctrl.DB.First(&committee, "id = ?", id).Error; err != nil {
		return helper.Error(c, fiber.StatusNotFound, "Committee not found")
	}

	var user userModel.UserModel
	if err := ctrl.DB.First(&user, "id = ?", req.UserID).Error; err != nil {
		return helper.Error(c, fiber.StatusNotFound, "User not found")
	}

	codes := make([]string, 0, len(user.Committees))
	for _, code := range user.Committees {
		if code != committee.Code {
			codes = append(codes, code)
		}
	}
	if err := ctrl.DB.Model(&userModel.UserModel{}).
		Where("id = ?", user.ID).
		Update("committees", pq.StringArray(codes)).Error; err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Failed to remove member")
	}

	return helper.JsonOK(c, "Member removed", nil)
}

// POST /api/elections/committees/:id/auto-assign-electors/ (admin only)
// Assigns every active elector whose KOC ID falls inside the committee's
// configured range.
func (ctrl *CommitteeController) AutoAssignElectors(c *fiber.Ctx) error {
	if !helper.IsAdminOrAbove(c) {
		return helper.Error(c, fiber.StatusForbidden, constants.RoleErrorAdmin("elector assignment"))
	}
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid ID")
	}

	var committee model.CommitteeModel
	if err := ctrl.DB.First(&committee, "id = ?", id).Error; err != nil {
		return helper.Error(c, fiber.StatusNotFound, "Committee not found")
	}
	if committee.ElectorsFrom == nil || committee.ElectorsTo == nil {
		return helper.Error(c, fiber.StatusBadRequest, "Committee has no elector range configured")
	}

	res := ctrl.DB.Model(&electorModel.ElectorModel{}).
		Where("is_active = true AND koc_id >= ? AND koc_id <= ?", *committee.ElectorsFrom, *committee.ElectorsTo).
		Update("committee_id", committee.ID)
	if res.Error != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Failed to assign electors")
	}

	return helper.JsonOK(c, "Electors assigned", fiber.Map{"assigned": res.RowsAffected})
}
