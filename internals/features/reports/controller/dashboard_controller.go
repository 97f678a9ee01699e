package controller

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"intikhab_backend/internals/constants"
	guaranteeservice "intikhab_backend/internals/features/guarantees/service"
	"intikhab_backend/internals/features/reports/cache"
	"intikhab_backend/internals/features/reports/service"
	helper "intikhab_backend/internals/helpers"
)

type ReportsController struct {
	DB *gorm.DB
}

func NewReportsController(db *gorm.DB) *ReportsController {
	return &ReportsController{DB: db}
}

// cached wraps a report computation with the response cache.
// ?refresh=1 (or true) bypasses the cache for one call.
func (ctrl *ReportsController) cached(c *fiber.Ctx, report string, ttl time.Duration, perPrincipal bool, compute func() (interface{}, error)) error {
	principal := uint(0)
	if perPrincipal {
		principal, _ = helper.GetUserIDFromToken(c)
	}

	params := map[string]string{}
	c.Context().QueryArgs().VisitAll(func(k, v []byte) {
		if string(k) != "refresh" {
			params[string(k)] = string(v)
		}
	})
	key := cache.Key(report, params, principal)

	if refresh := c.Query("refresh"); refresh != "1" && refresh != "true" {
		if cached, ok := cache.Get(key); ok {
			return helper.JsonOK(c, "OK", cached)
		}
	}

	value, err := compute()
	if err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Failed to build report")
	}
	cache.Set(key, value, ttl)
	return helper.JsonOK(c, "OK", value)
}

/* ===================== Dashboards ===================== */

// GET /api/reports/dashboard/personal/
func (ctrl *ReportsController) PersonalDashboard(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.Error(c, fiber.StatusUnauthorized, "Unauthorized")
	}
	return ctrl.cached(c, "personal", cache.PersonalTTL, true, func() (interface{}, error) {
		stats, err := guaranteeservice.ComputePersonalStatistics(ctrl.DB, userID)
		if err != nil {
			return nil, err
		}
		trend, err := service.GuaranteeTrend(ctrl.DB, []uint{userID}, 30)
		if err != nil {
			return nil, err
		}
		return fiber.Map{
			"statistics": stats,
			"trend":      trend,
		}, nil
	})
}

// GET /api/reports/dashboard/supervisor/ (supervisor and above)
func (ctrl *ReportsController) SupervisorDashboard(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.Error(c, fiber.StatusUnauthorized, "Unauthorized")
	}
	if !helper.IsSupervisorOrAbove(c) {
		return helper.Error(c, fiber.StatusForbidden, constants.RoleErrorSupervisor("supervisor dashboard"))
	}

	return ctrl.cached(c, "supervisor", cache.PersonalTTL, true, func() (interface{}, error) {
		memberIDs := ctrl.teamMemberIDs(c, userID)
		teamStats, err := guaranteeservice.ComputeTeamStatistics(ctrl.DB, memberIDs)
		if err != nil {
			return nil, err
		}
		groups, err := service.ComputeGroupPerformance(ctrl.DB, memberIDs)
		if err != nil {
			return nil, err
		}
		trend, err := service.GuaranteeTrend(ctrl.DB, memberIDs, 30)
		if err != nil {
			return nil, err
		}
		return fiber.Map{
			"team":             teamStats,
			"groupPerformance": groups,
			"trend":            trend,
		}, nil
	})
}

// GET /api/reports/dashboard/admin/ (admin only)
func (ctrl *ReportsController) AdminDashboard(c *fiber.Ctx) error {
	if !helper.IsAdminOrAbove(c) {
		return helper.Error(c, fiber.StatusForbidden, constants.RoleErrorAdmin("admin dashboard"))
	}
	return ctrl.cached(c, "admin", cache.AdminTTL, false, func() (interface{}, error) {
		coverage, err := service.ComputeCoverage(ctrl.DB)
		if err != nil {
			return nil, err
		}
		accuracy, err := service.ComputeAccuracy(ctrl.DB)
		if err != nil {
			return nil, err
		}
		committees, err := service.ComputeCommitteePerformance(ctrl.DB)
		if err != nil {
			return nil, err
		}
		return fiber.Map{
			"coverage":             coverage,
			"accuracy":             accuracy,
			"committeePerformance": committees,
		}, nil
	})
}

// GET /api/reports/dashboard/attendance/
// Demographics with the committee rollups, for the voting-day wall.
func (ctrl *ReportsController) AttendanceDashboard(c *fiber.Ctx) error {
	return ctrl.cached(c, "attendance", cache.AdminTTL, false, func() (interface{}, error) {
		demographics, err := service.ComputeDemographics(ctrl.DB)
		if err != nil {
			return nil, err
		}
		committees, err := service.ComputeCommitteePerformance(ctrl.DB)
		if err != nil {
			return nil, err
		}
		hourly, err := service.HourlyAttendance(ctrl.DB, time.Now())
		if err != nil {
			return nil, err
		}
		return fiber.Map{
			"demographics": demographics,
			"committees":   committees,
			"hourly":       hourly,
		}, nil
	})
}

// GET /api/reports/overview/
func (ctrl *ReportsController) Overview(c *fiber.Ctx) error {
	return ctrl.cached(c, "overview", cache.AdminTTL, false, func() (interface{}, error) {
		return ctrl.buildOverview()
	})
}

func (ctrl *ReportsController) buildOverview() (interface{}, error) {
	demographics, err := service.ComputeDemographics(ctrl.DB)
	if err != nil {
		return nil, err
	}
	coverage, err := service.ComputeCoverage(ctrl.DB)
	if err != nil {
		return nil, err
	}
	committees, err := service.ComputeCommitteePerformance(ctrl.DB)
	if err != nil {
		return nil, err
	}
	return fiber.Map{
		"demographics": demographics,
		"coverage":     coverage,
		"committees":   committees,
	}, nil
}

// teamMemberIDs returns the caller plus supervised principals, or
// every active user for admins.
func (ctrl *ReportsController) teamMemberIDs(c *fiber.Ctx, userID uint) []uint {
	if helper.IsAdminOrAbove(c) {
		var ids []uint
		ctrl.DB.Table("users").
			Where("is_active = true AND deleted_at IS NULL").
			Pluck("id", &ids)
		return ids
	}
	ids := []uint{userID}
	var supervised []uint
	ctrl.DB.Table("users").
		Where("supervisor_id = ? AND is_active = true AND deleted_at IS NULL", userID).
		Pluck("id", &supervised)
	return append(ids, supervised...)
}
