package controller

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"intikhab_backend/internals/features/attendance/model"
	"intikhab_backend/internals/features/attendance/service"
	electionmodel "intikhab_backend/internals/features/elections/model"
	electoratemodel "intikhab_backend/internals/features/electorate/model"
)

func setupAttendanceDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&electionmodel.CommitteeModel{},
		&electoratemodel.ElectorModel{},
		&model.AttendanceModel{},
		&model.AttendanceStatisticsModel{},
	))
	return db
}

func attendanceApp(db *gorm.DB, role string, committees []string) *fiber.App {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("user_id", uint(1))
		c.Locals("role", role)
		c.Locals("committees", committees)
		return c.Next()
	})
	ctrl := NewAttendanceController(db)
	app.Post("/mark", ctrl.Mark)
	app.Post("/add-pending-elector", ctrl.AddPendingElector)
	return app
}

func markRequest(t *testing.T, app *fiber.App, body fiber.Map) (int, map[string]interface{}) {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest("POST", "/mark", bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	payload, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var envelope map[string]interface{}
	require.NoError(t, json.Unmarshal(payload, &envelope))
	return resp.StatusCode, envelope
}

func attendanceErrorCode(envelope map[string]interface{}) string {
	errs, _ := envelope["errors"].(map[string]interface{})
	code, _ := errs["code"].(string)
	return code
}

func seedCommitteeWithElector(t *testing.T, db *gorm.DB) electionmodel.CommitteeModel {
	t.Helper()
	committee := electionmodel.CommitteeModel{
		ElectionID: 1, Code: "M1", Name: "Main Hall", Gender: electionmodel.GenderMale,
	}
	require.NoError(t, db.Create(&committee).Error)
	elector := electoratemodel.ElectorModel{
		KocID: "10001", NameFirst: "Ahmad", FamilyName: "Rashidi",
		CommitteeID: &committee.ID, IsActive: true, IsApproved: true,
	}
	require.NoError(t, db.Create(&elector).Error)
	return committee
}

func TestMarkAttendance(t *testing.T) {
	db := setupAttendanceDB(t)
	committee := seedCommitteeWithElector(t, db)
	app := attendanceApp(db, "USER", []string{"M1"})

	status, _ := markRequest(t, app, fiber.Map{"kocId": "10001", "committeeCode": "M1"})
	require.Equal(t, fiber.StatusCreated, status)

	var row model.AttendanceModel
	require.NoError(t, db.First(&row, "elector_koc_id = ?", "10001").Error)
	assert.Equal(t, model.AttendanceAttended, row.Status)
	assert.Equal(t, committee.ID, row.CommitteeID)
	assert.Equal(t, uint(1), row.MarkedBy)
}

func TestMarkAttendanceTwiceConflicts(t *testing.T) {
	db := setupAttendanceDB(t)
	seedCommitteeWithElector(t, db)
	app := attendanceApp(db, "USER", []string{"M1"})

	status, _ := markRequest(t, app, fiber.Map{"kocId": "10001", "committeeCode": "M1"})
	require.Equal(t, fiber.StatusCreated, status)

	status, envelope := markRequest(t, app, fiber.Map{"kocId": "10001", "committeeCode": "M1"})
	assert.Equal(t, fiber.StatusConflict, status)
	assert.Equal(t, "ALREADY_ATTENDED", attendanceErrorCode(envelope))

	var count int64
	db.Model(&model.AttendanceModel{}).Where("elector_koc_id = ?", "10001").Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestMarkAttendanceCommitteeMismatch(t *testing.T) {
	db := setupAttendanceDB(t)
	seedCommitteeWithElector(t, db)
	other := electionmodel.CommitteeModel{
		ElectionID: 1, Code: "F1", Name: "Annex", Gender: electionmodel.GenderFemale,
	}
	require.NoError(t, db.Create(&other).Error)
	app := attendanceApp(db, "USER", []string{"M1", "F1"})

	status, envelope := markRequest(t, app, fiber.Map{"kocId": "10001", "committeeCode": "F1"})
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "COMMITTEE_MISMATCH", attendanceErrorCode(envelope))
}

func TestMarkAttendanceScopeDenied(t *testing.T) {
	db := setupAttendanceDB(t)
	seedCommitteeWithElector(t, db)
	app := attendanceApp(db, "USER", []string{"F1"})

	status, _ := markRequest(t, app, fiber.Map{"kocId": "10001", "committeeCode": "M1"})
	assert.Equal(t, fiber.StatusForbidden, status)
}

func TestMarkAttendanceAdminBypassesScope(t *testing.T) {
	db := setupAttendanceDB(t)
	seedCommitteeWithElector(t, db)
	app := attendanceApp(db, "ADMIN", nil)

	status, _ := markRequest(t, app, fiber.Map{"kocId": "10001", "committeeCode": "M1"})
	assert.Equal(t, fiber.StatusCreated, status)
}

func TestMarkAttendanceUnknownElector(t *testing.T) {
	db := setupAttendanceDB(t)
	seedCommitteeWithElector(t, db)
	app := attendanceApp(db, "USER", []string{"M1"})

	status, _ := markRequest(t, app, fiber.Map{"kocId": "99999", "committeeCode": "M1"})
	assert.Equal(t, fiber.StatusNotFound, status)
}

func TestAddPendingElectorKnownElector(t *testing.T) {
	db := setupAttendanceDB(t)
	committee := seedCommitteeWithElector(t, db)
	app := attendanceApp(db, "USER", []string{"M1"})

	raw, _ := json.Marshal(fiber.Map{"kocId": "10001", "committeeCode": "M1", "fullName": "Ahmad Rashidi"})
	req := httptest.NewRequest("POST", "/add-pending-elector", bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var row model.AttendanceModel
	require.NoError(t, db.First(&row, "elector_koc_id = ?", "10001").Error)
	assert.Equal(t, model.AttendancePending, row.Status)
	assert.Equal(t, committee.ID, row.CommitteeID)
}

func TestAddPendingElectorCreatesUnapprovedRecord(t *testing.T) {
	db := setupAttendanceDB(t)
	seedCommitteeWithElector(t, db)
	app := attendanceApp(db, "USER", []string{"M1"})

	raw, _ := json.Marshal(fiber.Map{"kocId": "20001", "committeeCode": "M1", "fullName": "Jassem Al Mutairi"})
	req := httptest.NewRequest("POST", "/add-pending-elector", bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var elector electoratemodel.ElectorModel
	require.NoError(t, db.First(&elector, "koc_id = ?", "20001").Error)
	assert.False(t, elector.IsApproved)
	assert.Equal(t, "Jassem", elector.NameFirst)
	assert.Equal(t, "Mutairi", elector.FamilyName)
	assert.Equal(t, electionmodel.GenderMale, elector.Gender)

	// no attendance row for the unknown-elector branch
	var count int64
	db.Model(&model.AttendanceModel{}).Where("elector_koc_id = ?", "20001").Count(&count)
	assert.Zero(t, count)
}

func TestAddPendingElectorRejectsShortName(t *testing.T) {
	db := setupAttendanceDB(t)
	seedCommitteeWithElector(t, db)
	app := attendanceApp(db, "USER", []string{"M1"})

	raw, _ := json.Marshal(fiber.Map{"kocId": "20002", "committeeCode": "M1", "fullName": "X"})
	req := httptest.NewRequest("POST", "/add-pending-elector", bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestStatisticsRecomputeAndStaleness(t *testing.T) {
	db := setupAttendanceDB(t)
	committee := seedCommitteeWithElector(t, db)
	more := electoratemodel.ElectorModel{
		KocID: "10002", NameFirst: "Fahad", FamilyName: "Otaibi",
		CommitteeID: &committee.ID, IsActive: true, IsApproved: true,
	}
	require.NoError(t, db.Create(&more).Error)

	app := attendanceApp(db, "USER", []string{"M1"})
	status, _ := markRequest(t, app, fiber.Map{"kocId": "10001", "committeeCode": "M1"})
	require.Equal(t, fiber.StatusCreated, status)

	stats, err := service.GetStatistics(db, committee.ID, false)
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.TotalElectors)
	assert.Equal(t, int64(1), stats.TotalAttended)
	assert.Equal(t, 50.0, stats.AttendancePercentage)

	var hourly map[string]int
	require.NoError(t, json.Unmarshal(stats.HourlyBreakdown, &hourly))
	total := 0
	for _, n := range hourly {
		total += n
	}
	assert.Equal(t, 1, total)

	// a second mark invalidates the rollup; the next read recomputes
	status, _ = markRequest(t, app, fiber.Map{"kocId": "10002", "committeeCode": "M1"})
	require.Equal(t, fiber.StatusCreated, status)

	stats, err = service.GetStatistics(db, committee.ID, false)
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.TotalAttended)
	assert.Equal(t, 100.0, stats.AttendancePercentage)
}

func TestStatisticsFreshRollupIsServedWithoutRecompute(t *testing.T) {
	db := setupAttendanceDB(t)
	committee := seedCommitteeWithElector(t, db)

	app := attendanceApp(db, "USER", []string{"M1"})
	status, _ := markRequest(t, app, fiber.Map{"kocId": "10001", "committeeCode": "M1"})
	require.Equal(t, fiber.StatusCreated, status)

	stats, err := service.GetStatistics(db, committee.ID, false)
	require.NoError(t, err)
	require.Equal(t, int64(1), stats.TotalAttended)

	// a raw insert leaves last_updated untouched; a read within the TTL
	// must keep serving the rollup as-is
	row := model.AttendanceModel{
		ElectorKocID: "10002", CommitteeID: committee.ID,
		Status: model.AttendanceAttended, AttendedAt: time.Now(), MarkedBy: 1,
	}
	require.NoError(t, db.Create(&row).Error)

	cached, err := service.GetStatistics(db, committee.ID, false)
	require.NoError(t, err)
	assert.Equal(t, int64(1), cached.TotalAttended)
	assert.Equal(t, stats.LastUpdated.Unix(), cached.LastUpdated.Unix())

	forced, err := service.GetStatistics(db, committee.ID, true)
	require.NoError(t, err)
	assert.Equal(t, int64(2), forced.TotalAttended)
}
