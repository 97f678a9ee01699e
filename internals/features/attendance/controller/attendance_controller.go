package controller

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"intikhab_backend/internals/constants"
	"intikhab_backend/internals/features/attendance/dto"
	"intikhab_backend/internals/features/attendance/model"
	"intikhab_backend/internals/features/attendance/service"
	electionmodel "intikhab_backend/internals/features/elections/model"
	electoratemodel "intikhab_backend/internals/features/electorate/model"
	reportcache "intikhab_backend/internals/features/reports/cache"
	helper "intikhab_backend/internals/helpers"
)

var validate = validator.New()

type AttendanceController struct {
	DB *gorm.DB
}

func NewAttendanceController(db *gorm.DB) *AttendanceController {
	return &AttendanceController{DB: db}
}

/* ===================== Mark ===================== */

// POST /api/attendees/mark
func (ctrl *AttendanceController) Mark(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.Error(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	var req dto.MarkAttendanceRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	if !helper.CanAccessCommittee(c, req.CommitteeCode) {
		return helper.Error(c, fiber.StatusForbidden,
			fmt.Sprintf("You are not assigned to committee %s", req.CommitteeCode))
	}

	var committee electionmodel.CommitteeModel
	if err := ctrl.DB.First(&committee, "code = ?", req.CommitteeCode).Error; err != nil {
		return helper.Error(c, fiber.StatusNotFound, "Committee not found")
	}

	return ctrl.insertAttendance(c, userID, req.KocID, &committee, req.Notes, false)
}

// insertAttendance runs the serialized check-then-insert. The elector
// row is locked so a concurrent mark for the same elector cannot slip
// between the check and the insert.
func (ctrl *AttendanceController) insertAttendance(c *fiber.Ctx, userID uint, kocID string, committee *electionmodel.CommitteeModel, notes *string, skipCommitteeValidation bool) error {
	var created model.AttendanceModel
	var conflict error

	err := ctrl.DB.Transaction(func(tx *gorm.DB) error {
		q := tx
		if tx.Dialector.Name() == "postgres" {
			q = tx.Clauses(clause.Locking{Strength: "UPDATE"})
		}
		var elector electoratemodel.ElectorModel
		if err := q.First(&elector, "koc_id = ? AND is_active = true", kocID).Error; err != nil {
			conflict = helper.Error(c, fiber.StatusNotFound, "Elector not found")
			return gorm.ErrRecordNotFound
		}

		var prior model.AttendanceModel
		err := tx.Where("elector_koc_id = ? AND status = ?", kocID, model.AttendanceAttended).
			Order("attended_at").
			First(&prior).Error
		if err == nil {
			conflict = helper.ErrorWithDetails(c, fiber.StatusConflict,
				fmt.Sprintf("Elector already marked as attended at %s", prior.AttendedAt.Format("15:04:05")),
				fiber.Map{"code": "ALREADY_ATTENDED"})
			return gorm.ErrInvalidData
		}
		if err != gorm.ErrRecordNotFound {
			return err
		}

		if !skipCommitteeValidation {
			if elector.CommitteeID == nil || *elector.CommitteeID != committee.ID {
				conflict = helper.ErrorWithDetails(c, fiber.StatusBadRequest,
					fmt.Sprintf("Elector %s is not registered in committee %s", kocID, committee.Code),
					fiber.Map{"code": "COMMITTEE_MISMATCH"})
				return gorm.ErrInvalidData
			}
		}

		created = model.AttendanceModel{
			ElectorKocID: kocID,
			CommitteeID:  committee.ID,
			Status:       model.AttendanceAttended,
			AttendedAt:   tx.NowFunc(),
			MarkedBy:     userID,
			DeviceInfo:   ctrl.deviceInfo(c),
		}
		if notes != nil {
			clean := helper.SanitizeText(*notes, 1000)
			created.Notes = &clean
		}
		return tx.Create(&created).Error
	})
	if conflict != nil {
		return conflict
	}
	if err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Failed to mark attendance")
	}

	service.Invalidate(ctrl.DB, committee.ID)
	reportcache.InvalidateDashboards()
	return helper.JsonCreated(c, "Attendance marked", created)
}

// deviceInfo captures the request origin. A malformed IP is dropped
// rather than rejected.
func (ctrl *AttendanceController) deviceInfo(c *fiber.Ctx) datatypes.JSON {
	info := map[string]string{}
	if ip := c.IP(); helper.ValidIP(ip) {
		info["ip"] = ip
	}
	if ua := helper.SanitizeText(c.Get(fiber.HeaderUserAgent), 255); ua != "" {
		info["user_agent"] = ua
	}
	b, _ := json.Marshal(info)
	return datatypes.JSON(b)
}

/* ===================== Pending electors ===================== */

// POST /api/attendees/add-pending-elector
// Two branches: a known elector gets a PENDING attendance row; an
// unknown one gets an unapproved elector record and no attendance.
func (ctrl *AttendanceController) AddPendingElector(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.Error(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	var req dto.AddPendingElectorRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	if !helper.CanAccessCommittee(c, req.CommitteeCode) {
		return helper.Error(c, fiber.StatusForbidden,
			fmt.Sprintf("You are not assigned to committee %s", req.CommitteeCode))
	}

	var committee electionmodel.CommitteeModel
	if err := ctrl.DB.First(&committee, "code = ?", req.CommitteeCode).Error; err != nil {
		return helper.Error(c, fiber.StatusNotFound, "Committee not found")
	}

	var existing electoratemodel.ElectorModel
	err = ctrl.DB.First(&existing, "koc_id = ?", req.KocID).Error
	if err == nil {
		// Known elector: record a pending attendance, bypassing the
		// committee-mismatch check. The elector record is untouched.
		attendance := model.AttendanceModel{
			ElectorKocID: req.KocID,
			CommitteeID:  committee.ID,
			Status:       model.AttendancePending,
			AttendedAt:   ctrl.DB.NowFunc(),
			MarkedBy:     userID,
			DeviceInfo:   ctrl.deviceInfo(c),
		}
		if req.Notes != nil {
			clean := helper.SanitizeText(*req.Notes, 1000)
			attendance.Notes = &clean
		}
		if err := ctrl.DB.Create(&attendance).Error; err != nil {
			return helper.Error(c, fiber.StatusInternalServerError, "Failed to record pending attendance")
		}
		service.Invalidate(ctrl.DB, committee.ID)
		reportcache.InvalidateDashboards()
		return helper.JsonCreated(c, "Pending attendance recorded", attendance)
	}
	if err != gorm.ErrRecordNotFound {
		return helper.Error(c, fiber.StatusInternalServerError, "Failed to look up elector")
	}

	parts := helper.ParseFullName(req.FullName)
	if len([]rune(parts.First)) < 2 || len([]rune(parts.Family)) < 2 {
		return helper.Error(c, fiber.StatusBadRequest, "Full name must contain at least first and family name, 2+ characters each")
	}

	elector := electoratemodel.ElectorModel{
		KocID:       req.KocID,
		CommitteeID: &committee.ID,
		Gender:      committeeGender(committee.Gender),
		IsActive:    true,
		IsApproved:  false,
		CreatedBy:   &userID,
	}
	elector.ApplyNameParts(parts)
	if err := ctrl.DB.Create(&elector).Error; err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Failed to create elector")
	}
	return helper.JsonCreated(c, "Elector created pending approval", elector)
}

// committeeGender maps a committee's gender to an elector gender.
// Mixed committees leave the elector's gender unset.
func committeeGender(g string) string {
	if g == electionmodel.GenderMale || g == electionmodel.GenderFemale {
		return g
	}
	return ""
}

/* ===================== Listing ===================== */

// GET /api/attendees/
func (ctrl *AttendanceController) List(c *fiber.Ctx) error {
	pg := helper.ResolvePaging(c, 50, 200)

	q := ctrl.DB.Model(&model.AttendanceModel{})
	if status := c.Query("status"); status != "" {
		q = q.Where("status = ?", status)
	}
	if cid := c.QueryInt("committee_id"); cid > 0 {
		q = q.Where("committee_id = ?", cid)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Failed to count attendance")
	}
	var rows []model.AttendanceModel
	if err := q.Order("attended_at DESC").
		Offset(pg.Offset).
		Limit(pg.Limit).
		Find(&rows).Error; err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Failed to list attendance")
	}
	return helper.SuccessList(c, "OK", ctrl.decorate(rows), helper.BuildPagination(total, pg.Page, pg.PerPage))
}

// GET /api/attendees/committee/:code
func (ctrl *AttendanceController) ByCommittee(c *fiber.Ctx) error {
	code := c.Params("code")
	if !helper.CanAccessCommittee(c, code) {
		return helper.Error(c, fiber.StatusForbidden,
			fmt.Sprintf("You are not assigned to committee %s", code))
	}
	var committee electionmodel.CommitteeModel
	if err := ctrl.DB.First(&committee, "code = ?", code).Error; err != nil {
		return helper.Error(c, fiber.StatusNotFound, "Committee not found")
	}

	var rows []model.AttendanceModel
	if err := ctrl.DB.
		Where("committee_id = ?", committee.ID).
		Order("attended_at DESC").
		Find(&rows).Error; err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Failed to list attendance")
	}
	return helper.JsonOK(c, "OK", ctrl.decorate(rows))
}

// GET /api/attendees/search-elector?q=
// Each hit carries its attendance state so the UI can disable
// already-marked electors.
func (ctrl *AttendanceController) SearchElector(c *fiber.Ctx) error {
	q := strings.TrimSpace(c.Query("q"))
	if q == "" {
		return helper.Error(c, fiber.StatusBadRequest, "Query parameter q is required")
	}

	like := "%" + strings.ToLower(q) + "%"
	var electors []electoratemodel.ElectorModel
	if err := ctrl.DB.Model(&electoratemodel.ElectorModel{}).
		Where("is_active = true").
		Where(
			"LOWER(koc_id) LIKE ? OR LOWER(name_first) LIKE ? OR LOWER(family_name) LIKE ? OR LOWER(sub_family) LIKE ? OR LOWER(mobile) LIKE ?",
			like, like, like, like, like,
		).
		Limit(20).
		Find(&electors).Error; err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Search failed")
	}

	kocIDs := make([]string, 0, len(electors))
	for _, e := range electors {
		kocIDs = append(kocIDs, e.KocID)
	}
	attended := map[string]bool{}
	if len(kocIDs) > 0 {
		var marked []string
		ctrl.DB.Model(&model.AttendanceModel{}).
			Where("elector_koc_id IN ? AND status = ?", kocIDs, model.AttendanceAttended).
			Distinct("elector_koc_id").
			Pluck("elector_koc_id", &marked)
		for _, id := range marked {
			attended[id] = true
		}
	}

	type hit struct {
		electoratemodel.ElectorModel
		FullName string `json:"fullName"`
		Attended bool   `json:"attended"`
	}
	out := make([]hit, 0, len(electors))
	for _, e := range electors {
		out = append(out, hit{ElectorModel: e, FullName: e.FullName(), Attended: attended[e.KocID]})
	}
	return helper.JsonOK(c, "OK", out)
}

// DELETE /api/attendees/:id (admin only)
func (ctrl *AttendanceController) Delete(c *fiber.Ctx) error {
	if !helper.IsAdminOrAbove(c) {
		return helper.Error(c, fiber.StatusForbidden, constants.RoleErrorAdmin("attendance management"))
	}
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid ID")
	}

	var row model.AttendanceModel
	if err := ctrl.DB.First(&row, "id = ?", id).Error; err != nil {
		return helper.Error(c, fiber.StatusNotFound, "Attendance record not found")
	}
	if err := ctrl.DB.Delete(&row).Error; err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Failed to delete attendance record")
	}
	service.Invalidate(ctrl.DB, row.CommitteeID)
	reportcache.InvalidateDashboards()
	return helper.JsonOK(c, "Attendance record deleted", nil)
}

/* ===================== Statistics ===================== */

// GET /api/attendees/statistics/:code
func (ctrl *AttendanceController) Statistics(c *fiber.Ctx) error {
	code := c.Params("code")
	var committee electionmodel.CommitteeModel
	if err := ctrl.DB.First(&committee, "code = ?", code).Error; err != nil {
		return helper.Error(c, fiber.StatusNotFound, "Committee not found")
	}
	stats, err := service.GetStatistics(ctrl.DB, committee.ID, false)
	if err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Failed to compute statistics")
	}
	return helper.JsonOK(c, "OK", stats)
}

// POST /api/attendees/statistics/:code/refresh (admin only)
func (ctrl *AttendanceController) RefreshStatistics(c *fiber.Ctx) error {
	if !helper.IsAdminOrAbove(c) {
		return helper.Error(c, fiber.StatusForbidden, constants.RoleErrorAdmin("statistics refresh"))
	}
	code := c.Params("code")
	var committee electionmodel.CommitteeModel
	if err := ctrl.DB.First(&committee, "code = ?", code).Error; err != nil {
		return helper.Error(c, fiber.StatusNotFound, "Committee not found")
	}
	stats, err := service.GetStatistics(ctrl.DB, committee.ID, true)
	if err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Failed to refresh statistics")
	}
	return helper.JsonOK(c, "Statistics refreshed", stats)
}

/* ===================== Decoration ===================== */

func (ctrl *AttendanceController) decorate(rows []model.AttendanceModel) []dto.AttendanceResponse {
	out := make([]dto.AttendanceResponse, 0, len(rows))
	if len(rows) == 0 {
		return out
	}

	kocIDs := make([]string, 0, len(rows))
	committeeIDs := make([]uint, 0, len(rows))
	userIDs := make([]uint, 0, len(rows))
	for _, r := range rows {
		kocIDs = append(kocIDs, r.ElectorKocID)
		committeeIDs = append(committeeIDs, r.CommitteeID)
		userIDs = append(userIDs, r.MarkedBy)
	}

	var electors []electoratemodel.ElectorModel
	ctrl.DB.Where("koc_id IN ?", kocIDs).Find(&electors)
	nameByKoc := make(map[string]string, len(electors))
	for _, e := range electors {
		nameByKoc[e.KocID] = e.FullName()
	}

	var committees []electionmodel.CommitteeModel
	ctrl.DB.Where("id IN ?", committeeIDs).Find(&committees)
	codeByID := make(map[uint]string, len(committees))
	for _, cm := range committees {
		codeByID[cm.ID] = cm.Code
	}

	type userRow struct {
		ID       uint
		UserName string
	}
	var users []userRow
	ctrl.DB.Table("users").Select("id, user_name").Where("id IN ?", userIDs).Scan(&users)
	nameByUser := make(map[uint]string, len(users))
	for _, u := range users {
		nameByUser[u.ID] = u.UserName
	}

	for _, r := range rows {
		out = append(out, dto.AttendanceResponse{
			AttendanceModel: r,
			ElectorName:     nameByKoc[r.ElectorKocID],
			CommitteeCode:   codeByID[r.CommitteeID],
			MarkedByName:    nameByUser[r.MarkedBy],
		})
	}
	return out
}
