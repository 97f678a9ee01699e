package controller

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	electionmodel "intikhab_backend/internals/features/elections/model"
	"intikhab_backend/internals/features/electorate/model"
	guaranteeModel "intikhab_backend/internals/features/guarantees/model"
)

func setupElectorControllerDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&electionmodel.CommitteeModel{},
		&model.ElectorModel{},
		&guaranteeModel.GuaranteeGroupModel{},
		&guaranteeModel.GuaranteeModel{},
	))
	return db
}

func electorApp(db *gorm.DB, role string) *fiber.App {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("user_id", uint(1))
		c.Locals("role", role)
		return c.Next()
	})
	ctrl := NewElectorController(db)
	app.Get("/electors", ctrl.List)
	app.Post("/electors/bulk_approve", ctrl.BulkApprove)
	app.Patch("/electors/:kocId", ctrl.Update)
	app.Post("/electors/:kocId/approve", ctrl.Approve)
	return app
}

func electorRequest(t *testing.T, app *fiber.App, method, path string, body fiber.Map) (int, map[string]interface{}) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
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

func seedApprovableElector(t *testing.T, db *gorm.DB) {
	t.Helper()
	e := model.ElectorModel{
		KocID: "10001", NameFirst: "Ahmad", FamilyName: "Rashidi",
		IsActive: true, IsApproved: false,
	}
	require.NoError(t, db.Create(&e).Error)
}

func TestElectorWritesRequireAdmin(t *testing.T) {
	db := setupElectorControllerDB(t)
	seedApprovableElector(t, db)
	app := electorApp(db, "SUPERVISOR")

	status, _ := electorRequest(t, app, "PATCH", "/electors/10001", fiber.Map{"area": "Ahmadi"})
	assert.Equal(t, fiber.StatusForbidden, status)

	status, _ = electorRequest(t, app, "POST", "/electors/10001/approve", nil)
	assert.Equal(t, fiber.StatusForbidden, status)

	status, _ = electorRequest(t, app, "POST", "/electors/bulk_approve", fiber.Map{"kocIds": []string{"10001"}})
	assert.Equal(t, fiber.StatusForbidden, status)

	var e model.ElectorModel
	require.NoError(t, db.First(&e, "koc_id = ?", "10001").Error)
	assert.False(t, e.IsApproved)
}

func TestElectorApproveAsAdmin(t *testing.T) {
	db := setupElectorControllerDB(t)
	seedApprovableElector(t, db)
	app := electorApp(db, "ADMIN")

	status, _ := electorRequest(t, app, "POST", "/electors/10001/approve", nil)
	require.Equal(t, fiber.StatusOK, status)

	var e model.ElectorModel
	require.NoError(t, db.First(&e, "koc_id = ?", "10001").Error)
	assert.True(t, e.IsApproved)
}

func TestListWithIncludeEnrichesCommitteeAndGroup(t *testing.T) {
	db := setupElectorControllerDB(t)
	committee := electionmodel.CommitteeModel{
		ElectionID: 1, Code: "M1", Name: "Main Hall", Gender: electionmodel.GenderMale,
	}
	require.NoError(t, db.Create(&committee).Error)
	group := guaranteeModel.GuaranteeGroupModel{UserID: 1, Name: "Family", Color: "#3B82F6"}
	require.NoError(t, db.Create(&group).Error)

	covered := model.ElectorModel{
		KocID: "10001", NameFirst: "Ahmad", FamilyName: "Rashidi",
		CommitteeID: &committee.ID, IsActive: true, IsApproved: true,
	}
	require.NoError(t, db.Create(&covered).Error)
	bare := model.ElectorModel{
		KocID: "10002", NameFirst: "Fahad", FamilyName: "Otaibi",
		IsActive: true, IsApproved: true,
	}
	require.NoError(t, db.Create(&bare).Error)

	guarantee := guaranteeModel.GuaranteeModel{
		UserID: 1, ElectorKocID: "10001",
		GuaranteeStatus: guaranteeModel.GuaranteeStatusGuaranteed,
		GroupID:         &group.ID,
	}
	require.NoError(t, db.Create(&guarantee).Error)

	app := electorApp(db, "USER")
	status, envelope := electorRequest(t, app, "GET", "/electors?include=groups,committees", nil)
	require.Equal(t, fiber.StatusOK, status)

	data, ok := envelope["data"].(map[string]interface{})
	require.True(t, ok)
	items, ok := data["items"].([]interface{})
	require.True(t, ok)
	require.Len(t, items, 2)

	first := items[0].(map[string]interface{})
	require.Equal(t, "10001", first["kocId"])
	committeeInfo, ok := first["committee"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "M1", committeeInfo["code"])
	assert.Equal(t, "Main Hall", committeeInfo["name"])
	guaranteeInfo, ok := first["guarantee"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "Family", guaranteeInfo["groupName"])
	assert.Equal(t, guaranteeModel.GuaranteeStatusGuaranteed, guaranteeInfo["guaranteeStatus"])
	assert.Equal(t, true, first["guaranteeStatus"])

	second := items[1].(map[string]interface{})
	require.Equal(t, "10002", second["kocId"])
	assert.Nil(t, second["committee"])
	assert.Nil(t, second["guarantee"])
	assert.Equal(t, false, second["guaranteeStatus"])
}

func TestListWithoutIncludeStaysFlat(t *testing.T) {
	db := setupElectorControllerDB(t)
	seedApprovableElector(t, db)
	app := electorApp(db, "USER")

	status, envelope := electorRequest(t, app, "GET", "/electors", nil)
	require.Equal(t, fiber.StatusOK, status)

	data := envelope["data"].(map[string]interface{})
	items := data["items"].([]interface{})
	require.Len(t, items, 1)
	first := items[0].(map[string]interface{})
	_, hasCommittee := first["committee"]
	_, hasGuarantee := first["guarantee"]
	assert.False(t, hasCommittee)
	assert.False(t, hasGuarantee)
}
