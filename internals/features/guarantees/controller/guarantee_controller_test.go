package controller

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	electionModel "intikhab_backend/internals/features/elections/model"
	electorModel "intikhab_backend/internals/features/electorate/model"
	"intikhab_backend/internals/features/guarantees/model"
	helper "intikhab_backend/internals/helpers"
)

func setupGuaranteeDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&electionModel.CommitteeModel{},
		&electorModel.ElectorModel{},
		&model.GuaranteeGroupModel{},
		&model.GuaranteeModel{},
		&model.GuaranteeNoteModel{},
		&model.GuaranteeHistoryModel{},
	))
	return db
}

// guaranteeApp wires the controller behind a stub that injects the principal.
func guaranteeApp(db *gorm.DB, userID uint) *fiber.App {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("user_id", userID)
		c.Locals("role", "USER")
		return c.Next()
	})
	ctrl := NewGuaranteeController(db)
	app.Post("/guarantees", ctrl.Create)
	app.Patch("/guarantees/:id", ctrl.Update)
	app.Post("/guarantees/bulk-update", ctrl.BulkUpdate)
	app.Post("/guarantees/:id/confirm", ctrl.Confirm)
	app.Delete("/guarantees/:id", ctrl.Delete)
	return app
}

func postJSON(t *testing.T, app *fiber.App, method, target string, body interface{}) (int, map[string]interface{}) {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(method, target, bytes.NewReader(raw))
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

func errorCode(envelope map[string]interface{}) string {
	errs, _ := envelope["errors"].(map[string]interface{})
	code, _ := errs["code"].(string)
	return code
}

func seedElector(t *testing.T, db *gorm.DB, kocID string) {
	t.Helper()
	elector := electorModel.ElectorModel{
		KocID:      kocID,
		NameFirst:  "Ahmad",
		FamilyName: "Rashidi",
		IsActive:   true,
		IsApproved: true,
	}
	require.NoError(t, db.Create(&elector).Error)
}

func TestCreateGuarantee(t *testing.T) {
	db := setupGuaranteeDB(t)
	app := guaranteeApp(db, 1)
	seedElector(t, db, "10001")

	status, _ := postJSON(t, app, "POST", "/guarantees", fiber.Map{"elector": "10001"})
	require.Equal(t, fiber.StatusCreated, status)

	var g model.GuaranteeModel
	require.NoError(t, db.First(&g, "elector_koc_id = ?", "10001").Error)
	assert.Equal(t, uint(1), g.UserID)
	assert.Equal(t, model.GuaranteeStatusPending, g.GuaranteeStatus)
	assert.Equal(t, model.ConfirmationPending, g.ConfirmationStatus)

	var history []model.GuaranteeHistoryModel
	require.NoError(t, db.Where("guarantee_id = ?", g.ID).Find(&history).Error)
	require.Len(t, history, 1)
	assert.Equal(t, model.HistoryCreated, history[0].Action)
}

func TestCreateGuaranteeDuplicate(t *testing.T) {
	db := setupGuaranteeDB(t)
	app := guaranteeApp(db, 1)
	seedElector(t, db, "10001")

	status, _ := postJSON(t, app, "POST", "/guarantees", fiber.Map{"elector": "10001"})
	require.Equal(t, fiber.StatusCreated, status)

	status, envelope := postJSON(t, app, "POST", "/guarantees", fiber.Map{"elector": "10001"})
	assert.Equal(t, fiber.StatusConflict, status)
	assert.Equal(t, "DUPLICATE", errorCode(envelope))
}

func TestCreateGuaranteeUnknownElector(t *testing.T) {
	db := setupGuaranteeDB(t)
	app := guaranteeApp(db, 1)

	status, _ := postJSON(t, app, "POST", "/guarantees", fiber.Map{"elector": "99999"})
	assert.Equal(t, fiber.StatusNotFound, status)
}

func TestCreateGuaranteeForeignGroup(t *testing.T) {
	db := setupGuaranteeDB(t)
	app := guaranteeApp(db, 1)
	seedElector(t, db, "10001")

	group := model.GuaranteeGroupModel{UserID: 2, Name: "Rivals"}
	require.NoError(t, db.Create(&group).Error)

	status, envelope := postJSON(t, app, "POST", "/guarantees",
		fiber.Map{"elector": "10001", "groupId": group.ID})
	assert.Equal(t, fiber.StatusForbidden, status)
	assert.Equal(t, "FOREIGN_GROUP", errorCode(envelope))
}

func TestCreateGuaranteeInvalidPhone(t *testing.T) {
	db := setupGuaranteeDB(t)
	app := guaranteeApp(db, 1)
	seedElector(t, db, "10001")

	status, envelope := postJSON(t, app, "POST", "/guarantees",
		fiber.Map{"elector": "10001", "mobile": "12345"})
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "INVALID_PHONE", errorCode(envelope))
}

func TestUpdateGuaranteeWritesHistoryPerAspect(t *testing.T) {
	db := setupGuaranteeDB(t)
	app := guaranteeApp(db, 1)
	seedElector(t, db, "10001")

	status, _ := postJSON(t, app, "POST", "/guarantees", fiber.Map{"elector": "10001"})
	require.Equal(t, fiber.StatusCreated, status)
	var g model.GuaranteeModel
	require.NoError(t, db.First(&g, "elector_koc_id = ?", "10001").Error)

	status, _ = postJSON(t, app, "PATCH", fmt.Sprintf("/guarantees/%d", g.ID), fiber.Map{
		"guaranteeStatus": model.GuaranteeStatusGuaranteed,
		"mobile":          "50012345",
	})
	require.Equal(t, fiber.StatusOK, status)

	require.NoError(t, db.First(&g, "id = ?", g.ID).Error)
	assert.Equal(t, model.GuaranteeStatusGuaranteed, g.GuaranteeStatus)
	require.NotNil(t, g.Mobile)
	assert.Equal(t, "50012345", *g.Mobile)

	var actions []string
	require.NoError(t, db.Model(&model.GuaranteeHistoryModel{}).
		Where("guarantee_id = ?", g.ID).
		Order("id").
		Pluck("action", &actions).Error)
	assert.Equal(t, []string{model.HistoryCreated, model.HistoryStatusChanged, model.HistoryContactUpdated}, actions)
}

func TestUpdateGuaranteeNotOwned(t *testing.T) {
	db := setupGuaranteeDB(t)
	seedElector(t, db, "10001")

	owner := guaranteeApp(db, 1)
	status, _ := postJSON(t, owner, "POST", "/guarantees", fiber.Map{"elector": "10001"})
	require.Equal(t, fiber.StatusCreated, status)
	var g model.GuaranteeModel
	require.NoError(t, db.First(&g, "elector_koc_id = ?", "10001").Error)

	intruder := guaranteeApp(db, 2)
	status, envelope := postJSON(t, intruder, "PATCH", fmt.Sprintf("/guarantees/%d", g.ID),
		fiber.Map{"guaranteeStatus": model.GuaranteeStatusGuaranteed})
	assert.Equal(t, fiber.StatusForbidden, status)
	assert.Equal(t, "NOT_OWNED", errorCode(envelope))
}

func TestBulkUpdateRejectsMixedOwnership(t *testing.T) {
	db := setupGuaranteeDB(t)
	seedElector(t, db, "10001")
	seedElector(t, db, "10002")

	mine := model.GuaranteeModel{UserID: 1, ElectorKocID: "10001",
		GuaranteeStatus: model.GuaranteeStatusPending, ConfirmationStatus: model.ConfirmationPending}
	theirs := model.GuaranteeModel{UserID: 2, ElectorKocID: "10002",
		GuaranteeStatus: model.GuaranteeStatusPending, ConfirmationStatus: model.ConfirmationPending}
	require.NoError(t, db.Create(&mine).Error)
	require.NoError(t, db.Create(&theirs).Error)

	app := guaranteeApp(db, 1)
	status, envelope := postJSON(t, app, "POST", "/guarantees/bulk-update", fiber.Map{
		"ids":             []uint{mine.ID, theirs.ID},
		"guaranteeStatus": model.GuaranteeStatusGuaranteed,
	})
	assert.Equal(t, fiber.StatusForbidden, status)
	assert.Equal(t, "NOT_OWNED", errorCode(envelope))

	// nothing changed
	var g model.GuaranteeModel
	require.NoError(t, db.First(&g, "id = ?", mine.ID).Error)
	assert.Equal(t, model.GuaranteeStatusPending, g.GuaranteeStatus)
}

func TestBulkUpdateAppliesToAll(t *testing.T) {
	db := setupGuaranteeDB(t)
	seedElector(t, db, "10001")
	seedElector(t, db, "10002")

	first := model.GuaranteeModel{UserID: 1, ElectorKocID: "10001",
		GuaranteeStatus: model.GuaranteeStatusPending, ConfirmationStatus: model.ConfirmationPending}
	second := model.GuaranteeModel{UserID: 1, ElectorKocID: "10002",
		GuaranteeStatus: model.GuaranteeStatusPending, ConfirmationStatus: model.ConfirmationPending}
	require.NoError(t, db.Create(&first).Error)
	require.NoError(t, db.Create(&second).Error)

	app := guaranteeApp(db, 1)
	status, _ := postJSON(t, app, "POST", "/guarantees/bulk-update", fiber.Map{
		"ids":             []uint{first.ID, second.ID},
		"guaranteeStatus": model.GuaranteeStatusGuaranteed,
	})
	require.Equal(t, fiber.StatusOK, status)

	var updated int64
	require.NoError(t, db.Model(&model.GuaranteeModel{}).
		Where("guarantee_status = ?", model.GuaranteeStatusGuaranteed).
		Count(&updated).Error)
	assert.Equal(t, int64(2), updated)

	var historyCount int64
	require.NoError(t, db.Model(&model.GuaranteeHistoryModel{}).Count(&historyCount).Error)
	assert.Equal(t, int64(2), historyCount)
}

func TestConfirmGuarantee(t *testing.T) {
	db := setupGuaranteeDB(t)
	app := guaranteeApp(db, 1)
	seedElector(t, db, "10001")

	status, _ := postJSON(t, app, "POST", "/guarantees", fiber.Map{"elector": "10001"})
	require.Equal(t, fiber.StatusCreated, status)
	var g model.GuaranteeModel
	require.NoError(t, db.First(&g, "elector_koc_id = ?", "10001").Error)

	status, _ = postJSON(t, app, "POST", fmt.Sprintf("/guarantees/%d/confirm", g.ID),
		fiber.Map{"confirmationStatus": model.ConfirmationConfirmed})
	require.Equal(t, fiber.StatusOK, status)

	require.NoError(t, db.First(&g, "id = ?", g.ID).Error)
	assert.Equal(t, model.ConfirmationConfirmed, g.ConfirmationStatus)
}

func TestDeleteGuaranteeRemovesNotesAndHistory(t *testing.T) {
	db := setupGuaranteeDB(t)
	app := guaranteeApp(db, 1)
	seedElector(t, db, "10001")

	status, _ := postJSON(t, app, "POST", "/guarantees", fiber.Map{"elector": "10001"})
	require.Equal(t, fiber.StatusCreated, status)
	var g model.GuaranteeModel
	require.NoError(t, db.First(&g, "elector_koc_id = ?", "10001").Error)
	require.NoError(t, db.Create(&model.GuaranteeNoteModel{
		GuaranteeID: g.ID, AuthorID: 1, Content: "call back tomorrow",
	}).Error)

	req := httptest.NewRequest("DELETE", fmt.Sprintf("/guarantees/%d", g.ID), nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var remaining int64
	db.Unscoped().Model(&model.GuaranteeModel{}).Where("id = ?", g.ID).Count(&remaining)
	assert.Zero(t, remaining)
	db.Model(&model.GuaranteeNoteModel{}).Where("guarantee_id = ?", g.ID).Count(&remaining)
	assert.Zero(t, remaining)
	db.Model(&model.GuaranteeHistoryModel{}).Where("guarantee_id = ?", g.ID).Count(&remaining)
	assert.Zero(t, remaining)
}

// normalization is exercised end to end through the create path
func TestCreateGuaranteeNormalizesPhone(t *testing.T) {
	db := setupGuaranteeDB(t)
	app := guaranteeApp(db, 1)
	seedElector(t, db, "10001")

	status, _ := postJSON(t, app, "POST", "/guarantees",
		fiber.Map{"elector": "10001", "mobile": "+965 5001 2345"})
	require.Equal(t, fiber.StatusCreated, status)

	var g model.GuaranteeModel
	require.NoError(t, db.First(&g, "elector_koc_id = ?", "10001").Error)
	require.NotNil(t, g.Mobile)
	assert.Equal(t, "+96550012345", *g.Mobile)

	normalized, err := helper.NormalizeKuwaitPhone(*g.Mobile)
	require.NoError(t, err)
	assert.Equal(t, *g.Mobile, normalized)
}
