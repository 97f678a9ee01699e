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

	candidatemodel "intikhab_backend/internals/features/candidates/model"
	electionmodel "intikhab_backend/internals/features/elections/model"
	electoratemodel "intikhab_backend/internals/features/electorate/model"
	"intikhab_backend/internals/features/voting/model"
)

func setupVoteCountDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&electionmodel.ElectionModel{},
		&electionmodel.CommitteeModel{},
		&electoratemodel.ElectorModel{},
		&candidatemodel.CandidateModel{},
		&model.VoteCountModel{},
		&model.VoteCountAuditModel{},
		&model.CommitteeVoteEntryModel{},
	))
	return db
}

func voteCountApp(db *gorm.DB, role string) *fiber.App {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("user_id", uint(1))
		c.Locals("role", role)
		return c.Next()
	})
	ctrl := NewVoteCountController(db)
	app.Post("/vote-counts", ctrl.Create)
	app.Patch("/vote-counts/:id", ctrl.Update)
	app.Post("/vote-counts/:id/verify", ctrl.Verify)
	app.Post("/vote-counts/:id/reject", ctrl.Reject)
	return app
}

func voteCountRequest(t *testing.T, app *fiber.App, method, path string, body fiber.Map) (int, map[string]interface{}) {
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

// seedCountingCommittee creates one committee with three active electors
// and one candidate.
func seedCountingCommittee(t *testing.T, db *gorm.DB) (electionmodel.CommitteeModel, candidatemodel.CandidateModel) {
	t.Helper()
	committee := electionmodel.CommitteeModel{
		ElectionID: 1, Code: "M1", Name: "Main Hall", Gender: electionmodel.GenderMale,
	}
	require.NoError(t, db.Create(&committee).Error)
	for _, kocID := range []string{"10001", "10002", "10003"} {
		e := electoratemodel.ElectorModel{
			KocID: kocID, NameFirst: "Ahmad", FamilyName: "Rashidi",
			CommitteeID: &committee.ID, IsActive: true, IsApproved: true,
		}
		require.NoError(t, db.Create(&e).Error)
	}
	candidate := candidatemodel.CandidateModel{
		ElectionID: 1, CandidateNumber: 1, Name: "Khalid Al Mutairi", IsActive: true,
	}
	require.NoError(t, db.Create(&candidate).Error)
	return committee, candidate
}

func TestCreateVoteCountRejectsCountAboveActiveElectors(t *testing.T) {
	db := setupVoteCountDB(t)
	committee, candidate := seedCountingCommittee(t, db)
	app := voteCountApp(db, "SUPERVISOR")

	status, _ := voteCountRequest(t, app, "POST", "/vote-counts", fiber.Map{
		"committeeId": committee.ID,
		"candidateId": candidate.ID,
		"voteCount":   4,
	})
	assert.Equal(t, fiber.StatusBadRequest, status)

	var count int64
	db.Model(&model.VoteCountModel{}).Count(&count)
	assert.Zero(t, count)

	status, _ = voteCountRequest(t, app, "POST", "/vote-counts", fiber.Map{
		"committeeId": committee.ID,
		"candidateId": candidate.ID,
		"voteCount":   3,
	})
	assert.Equal(t, fiber.StatusCreated, status)
}

func TestUpdateVoteCountRejectsCountAboveActiveElectors(t *testing.T) {
	db := setupVoteCountDB(t)
	committee, candidate := seedCountingCommittee(t, db)
	vc := model.VoteCountModel{
		ElectionID: 1, CommitteeID: committee.ID, CandidateID: candidate.ID,
		VoteCount: 2, Status: model.VoteCountSubmitted, EnteredBy: 1,
	}
	require.NoError(t, db.Create(&vc).Error)
	app := voteCountApp(db, "SUPERVISOR")

	status, _ := voteCountRequest(t, app, "PATCH", "/vote-counts/1", fiber.Map{"voteCount": 5})
	assert.Equal(t, fiber.StatusBadRequest, status)

	var unchanged model.VoteCountModel
	require.NoError(t, db.First(&unchanged, vc.ID).Error)
	assert.Equal(t, 2, unchanged.VoteCount)
}

func TestRejectVoteCount(t *testing.T) {
	db := setupVoteCountDB(t)
	committee, candidate := seedCountingCommittee(t, db)
	vc := model.VoteCountModel{
		ElectionID: 1, CommitteeID: committee.ID, CandidateID: candidate.ID,
		VoteCount: 2, Status: model.VoteCountSubmitted, EnteredBy: 1,
	}
	require.NoError(t, db.Create(&vc).Error)
	app := voteCountApp(db, "ADMIN")

	status, _ := voteCountRequest(t, app, "POST", "/vote-counts/1/reject", nil)
	require.Equal(t, fiber.StatusOK, status)

	var rejected model.VoteCountModel
	require.NoError(t, db.First(&rejected, vc.ID).Error)
	assert.Equal(t, model.VoteCountRejected, rejected.Status)
	assert.False(t, rejected.IsVerified)
	assert.Nil(t, rejected.VerifiedBy)

	var audit model.VoteCountAuditModel
	require.NoError(t, db.First(&audit, "vote_count_id = ?", vc.ID).Error)
	assert.Equal(t, model.AuditRejected, audit.Action)
	assert.Equal(t, uint(1), audit.ActorID)
}

func TestRejectVoteCountClearsEarlierVerification(t *testing.T) {
	db := setupVoteCountDB(t)
	committee, candidate := seedCountingCommittee(t, db)
	vc := model.VoteCountModel{
		ElectionID: 1, CommitteeID: committee.ID, CandidateID: candidate.ID,
		VoteCount: 2, Status: model.VoteCountSubmitted, EnteredBy: 1,
	}
	require.NoError(t, db.Create(&vc).Error)
	app := voteCountApp(db, "ADMIN")

	status, _ := voteCountRequest(t, app, "POST", "/vote-counts/1/verify", nil)
	require.Equal(t, fiber.StatusOK, status)

	status, _ = voteCountRequest(t, app, "POST", "/vote-counts/1/reject", nil)
	require.Equal(t, fiber.StatusOK, status)

	var row model.VoteCountModel
	require.NoError(t, db.First(&row, vc.ID).Error)
	assert.Equal(t, model.VoteCountRejected, row.Status)
	assert.False(t, row.IsVerified)
	assert.Nil(t, row.VerifiedAt)
}

func TestRejectVoteCountRequiresAdmin(t *testing.T) {
	db := setupVoteCountDB(t)
	committee, candidate := seedCountingCommittee(t, db)
	vc := model.VoteCountModel{
		ElectionID: 1, CommitteeID: committee.ID, CandidateID: candidate.ID,
		VoteCount: 2, Status: model.VoteCountSubmitted, EnteredBy: 1,
	}
	require.NoError(t, db.Create(&vc).Error)
	app := voteCountApp(db, "SUPERVISOR")

	status, _ := voteCountRequest(t, app, "POST", "/vote-counts/1/reject", nil)
	assert.Equal(t, fiber.StatusForbidden, status)
}
