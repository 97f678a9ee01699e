package service

import (
	"fmt"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	electionModel "intikhab_backend/internals/features/elections/model"
	electorModel "intikhab_backend/internals/features/electorate/model"
	"intikhab_backend/internals/features/guarantees/model"
	userModel "intikhab_backend/internals/features/users/user/model"
)

func setupStatsDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&userModel.UserModel{},
		&electionModel.CommitteeModel{},
		&electorModel.ElectorModel{},
		&model.GuaranteeGroupModel{},
		&model.GuaranteeModel{},
		&model.GuaranteeHistoryModel{},
	))
	return db
}

func seedGuarantee(t *testing.T, db *gorm.DB, userID uint, kocID, status, confirmation string, groupID *uint) {
	t.Helper()
	require.NoError(t, db.Create(&electorModel.ElectorModel{
		KocID: kocID, NameFirst: "X", FamilyName: "Y", IsActive: true, IsApproved: true,
	}).Error)
	require.NoError(t, db.Create(&model.GuaranteeModel{
		UserID:             userID,
		ElectorKocID:       kocID,
		GuaranteeStatus:    status,
		ConfirmationStatus: confirmation,
		GroupID:            groupID,
	}).Error)
}

func TestComputePersonalStatistics(t *testing.T) {
	db := setupStatsDB(t)

	group := model.GuaranteeGroupModel{UserID: 1, Name: "Family"}
	require.NoError(t, db.Create(&group).Error)

	seedGuarantee(t, db, 1, "10001", model.GuaranteeStatusGuaranteed, model.ConfirmationConfirmed, &group.ID)
	seedGuarantee(t, db, 1, "10002", model.GuaranteeStatusGuaranteed, model.ConfirmationPending, nil)
	seedGuarantee(t, db, 1, "10003", model.GuaranteeStatusPending, model.ConfirmationPending, nil)
	seedGuarantee(t, db, 1, "10004", model.GuaranteeStatusPending, model.ConfirmationNotAvailable, nil)
	// another collector's record must not leak in
	seedGuarantee(t, db, 2, "10005", model.GuaranteeStatusGuaranteed, model.ConfirmationConfirmed, nil)

	stats, err := ComputePersonalStatistics(db, 1)
	require.NoError(t, err)

	assert.Equal(t, int64(4), stats.Total)
	assert.Equal(t, int64(2), stats.Pending)
	assert.Equal(t, int64(2), stats.Guaranteed)
	assert.Equal(t, int64(1), stats.Confirmed)
	assert.Equal(t, int64(2), stats.PendingConfirmation)
	assert.Equal(t, int64(1), stats.NotAvailableConfirmation)
	assert.Equal(t, 25.0, stats.ConfirmationRate)

	byGroup := map[string]int64{}
	for _, g := range stats.ByGroup {
		byGroup[g.Name] = g.Count
	}
	assert.Equal(t, int64(1), byGroup["Family"])
	assert.Equal(t, int64(3), byGroup["Ungrouped"])

	assert.Len(t, stats.Recent, 4)
}

func TestComputePersonalStatisticsEmpty(t *testing.T) {
	db := setupStatsDB(t)

	stats, err := ComputePersonalStatistics(db, 1)
	require.NoError(t, err)
	assert.Zero(t, stats.Total)
	assert.Zero(t, stats.ConfirmationRate)
	assert.Empty(t, stats.Recent)
}

func TestComputeTeamStatistics(t *testing.T) {
	db := setupStatsDB(t)

	users := []userModel.UserModel{
		{ID: 1, UserName: "Supervisor", Email: "s@x", Password: "x", Role: "SUPERVISOR", IsActive: true},
		{ID: 2, UserName: "Member", Email: "m@x", Password: "x", Role: "USER", IsActive: true},
		{ID: 3, UserName: "Outsider", Email: "o@x", Password: "x", Role: "USER", IsActive: true},
	}
	require.NoError(t, db.Create(&users).Error)

	for i := 0; i < 3; i++ {
		seedGuarantee(t, db, 1, fmt.Sprintf("1000%d", i), model.GuaranteeStatusGuaranteed, model.ConfirmationConfirmed, nil)
	}
	seedGuarantee(t, db, 2, "20001", model.GuaranteeStatusPending, model.ConfirmationPending, nil)
	seedGuarantee(t, db, 3, "30001", model.GuaranteeStatusGuaranteed, model.ConfirmationPending, nil)

	stats, err := ComputeTeamStatistics(db, []uint{1, 2})
	require.NoError(t, err)

	assert.Equal(t, int64(4), stats.Total)
	assert.Equal(t, int64(3), stats.Guaranteed)
	assert.Equal(t, int64(3), stats.Confirmed)
	assert.Len(t, stats.RecentActivity, 4)

	perMember := map[uint]*MemberStatistics{}
	for i := range stats.Members {
		perMember[stats.Members[i].UserID] = &stats.Members[i]
	}
	require.Contains(t, perMember, uint(1))
	require.Contains(t, perMember, uint(2))
	assert.Equal(t, int64(3), perMember[1].Total)
	assert.Equal(t, 100.0, perMember[1].ConfirmationRate)
	assert.Equal(t, int64(1), perMember[2].Pending)
	assert.NotContains(t, perMember, uint(3))
}
