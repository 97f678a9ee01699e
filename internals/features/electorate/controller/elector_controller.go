package controller

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"intikhab_backend/internals/constants"
	electionModel "intikhab_backend/internals/features/elections/model"
	"intikhab_backend/internals/features/electorate/dto"
	"intikhab_backend/internals/features/electorate/model"
	"intikhab_backend/internals/features/electorate/service"
	helper "intikhab_backend/internals/helpers"
)

type ElectorController struct {
	DB *gorm.DB
}

func NewElectorController(db *gorm.DB) *ElectorController {
	return &ElectorController{DB: db}
}

var validate = validator.New()

/* ===================== LIST ===================== */
// GET /api/electors/
// Active electors only, with optional filters and pagination.
// ?include=groups,committees enriches items with guarantee-group and
// committee context.
func (ctrl *ElectorController) List(c *fiber.Ctx) error {
	include := map[string]bool{}
	for _, part := range strings.Split(c.Query("include"), ",") {
		if part = strings.TrimSpace(part); part != "" {
			include[part] = true
		}
	}

	q := ctrl.DB.Model(&model.ElectorModel{}).Where("is_active = true")

	if cid := c.QueryInt("committee_id"); cid > 0 {
		q = q.Where("committee_id = ?", cid)
	}
	if area := c.Query("area"); area != "" {
		q = q.Where("area = ?", area)
	}
	if dept := c.Query("department"); dept != "" {
		q = q.Where("department = ?", dept)
	}
	if team := c.Query("team"); team != "" {
		q = q.Where("team = ?", team)
	}
	if gender := c.Query("gender"); gender != "" {
		q = q.Where("gender = ?", gender)
	}

	p := helper.ResolvePaging(c, 20, 100)
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Failed to count electors")
	}

	var electors []model.ElectorModel
	if err := q.Order("koc_id").Offset(p.Offset).Limit(p.Limit).Find(&electors).Error; err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Failed to list electors")
	}

	items := make([]dto.ElectorListItem, 0, len(electors))
	for _, e := range electors {
		items = append(items, dto.ElectorListItem{ElectorResponse: dto.NewElectorResponse(e, false)})
	}
	if include["committees"] {
		if err := ctrl.attachCommittees(items); err != nil {
			return helper.Error(c, fiber.StatusInternalServerError, "Failed to load committees")
		}
	}
	if include["groups"] {
		if err := ctrl.attachGuaranteeGroups(items); err != nil {
			return helper.Error(c, fiber.StatusInternalServerError, "Failed to load guarantee groups")
		}
	}
	return helper.SuccessList(c, "OK", items, helper.BuildPagination(total, p.Page, p.PerPage))
}

// attachCommittees batch-loads the committees referenced by the page.
func (ctrl *ElectorController) attachCommittees(items []dto.ElectorListItem) error {
	seen := map[uint]bool{}
	ids := make([]uint, 0, len(items))
	for _, it := range items {
		if it.CommitteeID != nil && !seen[*it.CommitteeID] {
			seen[*it.CommitteeID] = true
			ids = append(ids, *it.CommitteeID)
		}
	}
	if len(ids) == 0 {
		return nil
	}

	var committees []electionModel.CommitteeModel
	if err := ctrl.DB.Find(&committees, "id IN ?", ids).Error; err != nil {
		return err
	}
	byID := make(map[uint]electionModel.CommitteeModel, len(committees))
	for _, cm := range committees {
		byID[cm.ID] = cm
	}
	for i := range items {
		if cid := items[i].CommitteeID; cid != nil {
			if cm, ok := byID[*cid]; ok {
				items[i].Committee = &dto.CommitteeInfo{ID: cm.ID, Code: cm.Code, Name: cm.Name}
			}
		}
	}
	return nil
}

// attachGuaranteeGroups joins guarantee and group context onto the page.
func (ctrl *ElectorController) attachGuaranteeGroups(items []dto.ElectorListItem) error {
	kocIDs := make([]string, 0, len(items))
	for _, it := range items {
		kocIDs = append(kocIDs, it.KocID)
	}
	if len(kocIDs) == 0 {
		return nil
	}

	type guaranteeRow struct {
		ID              uint
		ElectorKocID    string
		GuaranteeStatus string
		GroupID         *uint
		GroupName       *string
		GroupColor      *string
	}
	var rows []guaranteeRow
	if err := ctrl.DB.Table("guarantees").
		Select(`guarantees.id, guarantees.elector_koc_id, guarantees.guarantee_status,
			guarantees.group_id, guarantee_groups.name AS group_name, guarantee_groups.color AS group_color`).
		Joins("LEFT JOIN guarantee_groups ON guarantee_groups.id = guarantees.group_id").
		Where("guarantees.elector_koc_id IN ? AND guarantees.deleted_at IS NULL", kocIDs).
		Scan(&rows).Error; err != nil {
		return err
	}

	byKocID := make(map[string]guaranteeRow, len(rows))
	for _, r := range rows {
		if _, ok := byKocID[r.ElectorKocID]; !ok {
			byKocID[r.ElectorKocID] = r
		}
	}
	for i := range items {
		r, ok := byKocID[items[i].KocID]
		if !ok {
			continue
		}
		info := &dto.GuaranteeInfo{
			GuaranteeID:     r.ID,
			GuaranteeStatus: r.GuaranteeStatus,
			GroupID:         r.GroupID,
		}
		if r.GroupName != nil {
			info.GroupName = *r.GroupName
		}
		if r.GroupColor != nil {
			info.GroupColor = *r.GroupColor
		}
		items[i].Guarantee = info
		items[i].GuaranteeStatus = true
	}
	return nil
}

/* ===================== SEARCH ===================== */
// GET /api/electors/search/?q=
func (ctrl *ElectorController) Search(c *fiber.Ctx) error {
	query := strings.TrimSpace(c.Query("q"))
	if query == "" {
		return helper.Error(c, fiber.StatusBadRequest, "Query parameter q is required")
	}
	like := "%" + strings.ToLower(query) + "%"

	var electors []model.ElectorModel
	if err := ctrl.DB.Where("is_active = true").
		Where(`koc_id LIKE ? OR LOWER(name_first) LIKE ? OR LOWER(family_name) LIKE ?
			OR LOWER(sub_family) LIKE ? OR mobile LIKE ? OR LOWER(section) LIKE ?`,
			like, like, like, like, like, like).
		Limit(20).
		Find(&electors).Error; err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Search failed")
	}

	items := make([]dto.ElectorResponse, 0, len(electors))
	for _, e := range electors {
		items = append(items, dto.NewElectorResponse(e, false))
	}
	return helper.JsonOK(c, "OK", items)
}

/* ===================== DETAIL ===================== */
// GET /api/electors/:kocId
func (ctrl *ElectorController) GetByKocID(c *fiber.Ctx) error {
	kocID := c.Params("kocId")
	var e model.ElectorModel
	if err := ctrl.DB.First(&e, "koc_id = ?", kocID).Error; err != nil {
		return helper.Error(c, fiber.StatusNotFound, "Elector not found")
	}
	return helper.JsonOK(c, "OK", dto.NewElectorResponse(e, false))
}

/* ===================== CREATE ===================== */
// POST /api/electors/
// Non-admin creations are flagged unapproved until an admin approves.
func (ctrl *ElectorController) Create(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	var req dto.CreateElectorRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	var existing model.ElectorModel
	if err := ctrl.DB.First(&existing, "koc_id = ?", req.KocID).Error; err == nil {
		return helper.Error(c, fiber.StatusConflict, "Elector with this KOC ID already exists")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return helper.Error(c, fiber.StatusInternalServerError, "Internal Server Error")
	}

	e := req.ToModel(userID, helper.IsAdminOrAbove(c))
	if err := ctrl.DB.Create(&e).Error; err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Failed to create elector")
	}
	return helper.JsonCreated(c, "Elector created", dto.NewElectorResponse(e, false))
}

/* ===================== UPDATE ===================== */
// PATCH /api/electors/:kocId (admin only)
func (ctrl *ElectorController) Update(c *fiber.Ctx) error {
	if !helper.IsAdminOrAbove(c) {
		return helper.Error(c, fiber.StatusForbidden, constants.RoleErrorAdmin("elector management"))
	}
	kocID := c.Params("kocId")

	var req dto.UpdateElectorRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}
	updates := req.ToUpdates()
	if len(updates) == 0 {
		return helper.JsonOK(c, "No changes", fiber.Map{"kocId": kocID})
	}

	res := ctrl.DB.Model(&model.ElectorModel{}).Where("koc_id = ?", kocID).Updates(updates)
	if res.Error != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Failed to update elector")
	}
	if res.RowsAffected == 0 {
		return helper.Error(c, fiber.StatusNotFound, "Elector not found")
	}

	var e model.ElectorModel
	_ = ctrl.DB.First(&e, "koc_id = ?", kocID).Error
	return helper.JsonOK(c, "Elector updated", dto.NewElectorResponse(e, false))
}

/* ===================== DELETE ===================== */
// DELETE /api/electors/:kocId (admin only, soft delete)
func (ctrl *ElectorController) Delete(c *fiber.Ctx) error {
	if !helper.IsAdminOrAbove(c) {
		return helper.Error(c, fiber.StatusForbidden, constants.RoleErrorAdmin("elector management"))
	}
	kocID := c.Params("kocId")

	res := ctrl.DB.Delete(&model.ElectorModel{}, "koc_id = ?", kocID)
	if res.Error != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Failed to delete elector")
	}
	if res.RowsAffected == 0 {
		return helper.Error(c, fiber.StatusNotFound, "Elector not found")
	}
	return helper.JsonOK(c, "Elector deleted", nil)
}

/* ===================== APPROVAL ===================== */
// POST /api/electors/:kocId/approve/ (admin only)
func (ctrl *ElectorController) Approve(c *fiber.Ctx) error {
	if !helper.IsAdminOrAbove(c) {
		return helper.Error(c, fiber.StatusForbidden, constants.RoleErrorAdmin("elector approval"))
	}
	kocID := c.Params("kocId")

	res := ctrl.DB.Model(&model.ElectorModel{}).
		Where("koc_id = ?", kocID).
		Update("is_approved", true)
	if res.Error != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Failed to approve elector")
	}
	if res.RowsAffected == 0 {
		return helper.Error(c, fiber.StatusNotFound, "Elector not found")
	}
	return helper.JsonOK(c, "Elector approved", nil)
}

// POST /api/electors/bulk-approve/ (admin only)
func (ctrl *ElectorController) BulkApprove(c *fiber.Ctx) error {
	if !helper.IsAdminOrAbove(c) {
		return helper.Error(c, fiber.StatusForbidden, constants.RoleErrorAdmin("elector approval"))
	}

	var req dto.BulkApproveRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	res := ctrl.DB.Model(&model.ElectorModel{}).
		Where("koc_id IN ?", req.KocIDs).
		Update("is_approved", true)
	if res.Error != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Failed to approve electors")
	}
	return helper.JsonOK(c, "Electors approved", fiber.Map{"approved": res.RowsAffected})
}

// GET /api/electors/pending/
func (ctrl *ElectorController) Pending(c *fiber.Ctx) error {
	var electors []model.ElectorModel
	if err := ctrl.DB.
		Where("is_active = true AND is_approved = false").
		Order("created_at DESC").
		Find(&electors).Error; err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Failed to list pending electors")
	}

	items := make([]dto.ElectorResponse, 0, len(electors))
	for _, e := range electors {
		items = append(items, dto.NewElectorResponse(e, false))
	}
	return helper.JsonOK(c, "OK", items)
}

/* ===================== STATISTICS ===================== */
// GET /api/electors/statistics/
func (ctrl *ElectorController) Statistics(c *fiber.Ctx) error {
	var total, active, approved, pending int64
	base := ctrl.DB.Model(&model.ElectorModel{})
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Failed to compute statistics")
	}
	base.Session(&gorm.Session{}).Where("is_active = true").Count(&active)
	base.Session(&gorm.Session{}).Where("is_active = true AND is_approved = true").Count(&approved)
	base.Session(&gorm.Session{}).Where("is_active = true AND is_approved = false").Count(&pending)

	type genderRow struct {
		Gender string
		Count  int64
	}
	var genders []genderRow
	ctrl.DB.Model(&model.ElectorModel{}).
		Select("gender, COUNT(*) as count").
		Where("is_active = true").
		Group("gender").
		Scan(&genders)

	byGender := fiber.Map{}
	for _, g := range genders {
		key := g.Gender
		if key == "" {
			key = "UNSPECIFIED"
		}
		byGender[key] = g.Count
	}

	return helper.JsonOK(c, "OK", fiber.Map{
		"total":    total,
		"active":   active,
		"approved": approved,
		"pending":  pending,
		"byGender": byGender,
	})
}

// GET /api/electors/filter_options/
func (ctrl *ElectorController) FilterOptions(c *fiber.Ctx) error {
	options := fiber.Map{}
	for _, col := range []string{"area", "department", "team", "section"} {
		var values []string
		if err := ctrl.DB.Model(&model.ElectorModel{}).
			Where("is_active = true AND "+col+" <> ''").
			Distinct(col).
			Order(col).
			Pluck(col, &values).Error; err != nil {
			return helper.Error(c, fiber.StatusInternalServerError, "Failed to load filter options")
		}
		options[col+"s"] = values
	}
	return helper.JsonOK(c, "OK", options)
}

/* ===================== RELATIONSHIPS ===================== */
// GET /api/electors/:kocId/relationships/
func (ctrl *ElectorController) Relationships(c *fiber.Ctx) error {
	kocID := c.Params("kocId")
	var e model.ElectorModel
	if err := ctrl.DB.First(&e, "koc_id = ? AND is_active = true", kocID).Error; err != nil {
		return helper.Error(c, fiber.StatusNotFound, "Elector not found")
	}

	rel, err := service.FindRelationships(ctrl.DB, &e)
	if err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Failed to compute relationships")
	}
	return helper.JsonOK(c, "OK", rel)
}

// GET /api/electors/:kocId/relatives/
// Family lists only.
func (ctrl *ElectorController) Relatives(c *fiber.Ctx) error {
	kocID := c.Params("kocId")
	var e model.ElectorModel
	if err := ctrl.DB.First(&e, "koc_id = ? AND is_active = true", kocID).Error; err != nil {
		return helper.Error(c, fiber.StatusNotFound, "Elector not found")
	}

	rel, err := service.FindRelationships(ctrl.DB, &e)
	if err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Failed to compute relatives")
	}
	return helper.JsonOK(c, "OK", fiber.Map{
		"brothers": rel.Brothers,
		"fathers":  rel.Fathers,
		"sons":     rel.Sons,
		"cousins":  rel.Cousins,
	})
}

// GET /api/electors/:kocId/work_colleagues/
// Workplace lists only.
func (ctrl *ElectorController) WorkColleagues(c *fiber.Ctx) error {
	kocID := c.Params("kocId")
	var e model.ElectorModel
	if err := ctrl.DB.First(&e, "koc_id = ? AND is_active = true", kocID).Error; err != nil {
		return helper.Error(c, fiber.StatusNotFound, "Elector not found")
	}

	rel, err := service.FindRelationships(ctrl.DB, &e)
	if err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Failed to compute colleagues")
	}
	return helper.JsonOK(c, "OK", fiber.Map{
		"sameDepartment": rel.SameDepartment,
		"sameTeam":       rel.SameTeam,
		"sameArea":       rel.SameArea,
	})
}
