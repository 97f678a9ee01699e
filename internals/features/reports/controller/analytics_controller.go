package controller

import (
	"encoding/json"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/datatypes"

	"intikhab_backend/internals/constants"
	"intikhab_backend/internals/features/reports/cache"
	"intikhab_backend/internals/features/reports/model"
	"intikhab_backend/internals/features/reports/service"
	helper "intikhab_backend/internals/helpers"
)

/* ===================== Analytics ===================== */

// GET /api/reports/analytics/trends/?days=7|30|90|all
func (ctrl *ReportsController) Trends(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.Error(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	days := 30
	switch c.Query("days", "30") {
	case "7":
		days = 7
	case "30":
		days = 30
	case "90":
		days = 90
	case "all":
		days = 0
	default:
		return helper.Error(c, fiber.StatusBadRequest, "days must be one of 7, 30, 90, all")
	}

	return ctrl.cached(c, "trends", cache.PersonalTTL, true, func() (interface{}, error) {
		userIDs := []uint{userID}
		if helper.IsSupervisorOrAbove(c) {
			userIDs = ctrl.teamMemberIDs(c, userID)
		}
		return service.GuaranteeTrend(ctrl.DB, userIDs, days)
	})
}

// POST /api/reports/analytics/create-snapshot/ (supervisor and above)
func (ctrl *ReportsController) CreateSnapshot(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.Error(c, fiber.StatusUnauthorized, "Unauthorized")
	}
	if !helper.IsSupervisorOrAbove(c) {
		return helper.Error(c, fiber.StatusForbidden, constants.RoleErrorSupervisor("snapshots"))
	}

	overview, err := ctrl.buildOverview()
	if err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Failed to build snapshot")
	}
	payload, err := json.Marshal(overview)
	if err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Failed to encode snapshot")
	}

	snapshot := model.ReportSnapshotModel{
		Kind:      "overview",
		Payload:   datatypes.JSON(payload),
		CreatedBy: userID,
	}
	if err := ctrl.DB.Create(&snapshot).Error; err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Failed to store snapshot")
	}
	return helper.JsonCreated(c, "Snapshot created", snapshot)
}

/* ===================== Admin reports ===================== */

// GET /api/reports/coverage/ (admin only)
func (ctrl *ReportsController) Coverage(c *fiber.Ctx) error {
	if !helper.IsAdminOrAbove(c) {
		return helper.Error(c, fiber.StatusForbidden, constants.RoleErrorAdmin("coverage reports"))
	}
	return ctrl.cached(c, "coverage", cache.AdminTTL, false, func() (interface{}, error) {
		return service.ComputeCoverage(ctrl.DB)
	})
}

// GET /api/reports/accuracy/ (admin only)
func (ctrl *ReportsController) Accuracy(c *fiber.Ctx) error {
	if !helper.IsAdminOrAbove(c) {
		return helper.Error(c, fiber.StatusForbidden, constants.RoleErrorAdmin("accuracy reports"))
	}
	return ctrl.cached(c, "accuracy", cache.AdminTTL, false, func() (interface{}, error) {
		return service.ComputeAccuracy(ctrl.DB)
	})
}

// GET /api/reports/committee-performance/ (admin only)
func (ctrl *ReportsController) CommitteePerformance(c *fiber.Ctx) error {
	if !helper.IsAdminOrAbove(c) {
		return helper.Error(c, fiber.StatusForbidden, constants.RoleErrorAdmin("committee reports"))
	}
	return ctrl.cached(c, "committee-performance", cache.AdminTTL, false, func() (interface{}, error) {
		return service.ComputeCommitteePerformance(ctrl.DB)
	})
}

/* ===================== Charts ===================== */

// GET /api/reports/charts/guarantee-distribution/?x=family&y=status&limit=12
func (ctrl *ReportsController) GuaranteeDistribution(c *fiber.Ctx) error {
	x := c.Query("x", "family")
	y := c.Query("y", "status")
	if !service.ValidGuaranteeDim(x) || !service.ValidGuaranteeDim(y) {
		return helper.Error(c, fiber.StatusBadRequest, "Unknown distribution dimension")
	}
	return ctrl.cached(c, "guarantee-distribution", cache.PersonalTTL, false, func() (interface{}, error) {
		return service.GuaranteeDistribution(ctrl.DB, x, y, c.QueryInt("limit"))
	})
}

// GET /api/reports/charts/elector-distribution/?x=family&y=gender
func (ctrl *ReportsController) ElectorDistribution(c *fiber.Ctx) error {
	x := c.Query("x", "family")
	y := c.Query("y")
	if !service.ValidElectorDim(x) || (y != "" && !service.ValidElectorDim(y)) {
		return helper.Error(c, fiber.StatusBadRequest, "Unknown distribution dimension")
	}
	return ctrl.cached(c, "elector-distribution", cache.PersonalTTL, false, func() (interface{}, error) {
		return service.ElectorDistribution(ctrl.DB, x, y, c.QueryInt("limit"))
	})
}

// GET /api/reports/charts/committee-comparison/
func (ctrl *ReportsController) CommitteeComparison(c *fiber.Ctx) error {
	return ctrl.cached(c, "committee-comparison", cache.AdminTTL, false, func() (interface{}, error) {
		return service.ComputeCommitteePerformance(ctrl.DB)
	})
}

// GET /api/reports/charts/hourly-attendance/?date=YYYY-MM-DD
func (ctrl *ReportsController) HourlyAttendance(c *fiber.Ctx) error {
	date := time.Now()
	if raw := c.Query("date"); raw != "" {
		parsed, err := time.ParseInLocation("2006-01-02", raw, time.Local)
		if err != nil {
			return helper.Error(c, fiber.StatusBadRequest, "date must be YYYY-MM-DD")
		}
		date = parsed
	}
	return ctrl.cached(c, "hourly-attendance", cache.AdminTTL, false, func() (interface{}, error) {
		return service.HourlyAttendance(ctrl.DB, date)
	})
}

// GET /api/reports/charts/demographics/
func (ctrl *ReportsController) Demographics(c *fiber.Ctx) error {
	return ctrl.cached(c, "demographics", cache.PersonalTTL, false, func() (interface{}, error) {
		return service.ComputeDemographics(ctrl.DB)
	})
}
