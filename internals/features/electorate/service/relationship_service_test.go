package service

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"intikhab_backend/internals/features/electorate/model"
	guaranteeModel "intikhab_backend/internals/features/guarantees/model"
	helper "intikhab_backend/internals/helpers"
)

func setupRelationshipDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&model.ElectorModel{},
		&guaranteeModel.GuaranteeModel{},
	))
	return db
}

func namedElector(t *testing.T, db *gorm.DB, kocID, fullName string, mutate func(*model.ElectorModel)) *model.ElectorModel {
	t.Helper()
	e := model.ElectorModel{KocID: kocID, IsActive: true, IsApproved: true}
	e.ApplyNameParts(helper.ParseFullName(fullName))
	if mutate != nil {
		mutate(&e)
	}
	require.NoError(t, db.Create(&e).Error)
	return &e
}

func TestFindRelationshipsBrothers(t *testing.T) {
	db := setupRelationshipDB(t)

	self := namedElector(t, db, "10001", "Ahmad Khalid Yousef Salem Al Rashidi", nil)
	// brother shares father (Khalid) and grandfather (Yousef) and great-grandfather
	brother := namedElector(t, db, "10002", "Fahad Khalid Yousef Salem Al Rashidi", nil)
	// unrelated: different father
	namedElector(t, db, "10003", "Bader Nasser Yousef Salem Al Rashidi", nil)

	rel, err := FindRelationships(db, self)
	require.NoError(t, err)
	require.Len(t, rel.Brothers, 1)
	assert.Equal(t, brother.KocID, rel.Brothers[0].KocID)
}

func TestFindRelationshipsFathersAndSons(t *testing.T) {
	db := setupRelationshipDB(t)

	// self: Ahmad son of Khalid son of Yousef, family Rashidi
	self := namedElector(t, db, "10001", "Ahmad Khalid Yousef Al Rashidi", nil)
	// father: first=Khalid second=Yousef, same family
	father := namedElector(t, db, "10002", "Khalid Yousef Salem Al Rashidi", nil)
	// son: second = Ahmad, same family
	son := namedElector(t, db, "10003", "Yaqoub Ahmad Khalid Rashidi", nil)

	rel, err := FindRelationships(db, self)
	require.NoError(t, err)

	require.Len(t, rel.Fathers, 1)
	assert.Equal(t, father.KocID, rel.Fathers[0].KocID)
	require.Len(t, rel.Sons, 1)
	assert.Equal(t, son.KocID, rel.Sons[0].KocID)
}

func TestFindRelationshipsCousinsExcludeBrothers(t *testing.T) {
	db := setupRelationshipDB(t)

	self := namedElector(t, db, "10001", "Ahmad Khalid Yousef Salem Al Rashidi", nil)
	// cousin: same grandfather (Yousef) and great-grandfather (Salem), different father
	cousin := namedElector(t, db, "10002", "Jassem Nawaf Yousef Salem Al Rashidi", nil)
	// brother would also match third+fourth, but must stay out of cousins
	namedElector(t, db, "10003", "Fahad Khalid Yousef Salem Al Rashidi", nil)

	rel, err := FindRelationships(db, self)
	require.NoError(t, err)
	require.Len(t, rel.Cousins, 1)
	assert.Equal(t, cousin.KocID, rel.Cousins[0].KocID)
}

func TestFindRelationshipsWorkplaceMatches(t *testing.T) {
	db := setupRelationshipDB(t)

	self := namedElector(t, db, "10001", "Ahmad Khalid Rashidi", func(e *model.ElectorModel) {
		e.Department = "Operations"
		e.Team = "Team A"
		e.Area = "Ahmadi"
	})
	colleague := namedElector(t, db, "10002", "Salem Fahad Mutairi", func(e *model.ElectorModel) {
		e.Department = "Operations"
	})
	neighbour := namedElector(t, db, "10003", "Nasser Bader Otaibi", func(e *model.ElectorModel) {
		e.Area = "Ahmadi"
	})

	rel, err := FindRelationships(db, self)
	require.NoError(t, err)

	require.Len(t, rel.SameDepartment, 1)
	assert.Equal(t, colleague.KocID, rel.SameDepartment[0].KocID)
	require.Len(t, rel.SameArea, 1)
	assert.Equal(t, neighbour.KocID, rel.SameArea[0].KocID)
	assert.Empty(t, rel.SameTeam)
}

func TestFindRelationshipsGuaranteeFlag(t *testing.T) {
	db := setupRelationshipDB(t)

	self := namedElector(t, db, "10001", "Ahmad Khalid Rashidi", func(e *model.ElectorModel) {
		e.Department = "Operations"
	})
	covered := namedElector(t, db, "10002", "Salem Fahad Mutairi", func(e *model.ElectorModel) {
		e.Department = "Operations"
	})
	uncovered := namedElector(t, db, "10003", "Nasser Bader Otaibi", func(e *model.ElectorModel) {
		e.Department = "Operations"
	})

	require.NoError(t, db.Create(&guaranteeModel.GuaranteeModel{
		UserID:             7,
		ElectorKocID:       covered.KocID,
		GuaranteeStatus:    guaranteeModel.GuaranteeStatusGuaranteed,
		ConfirmationStatus: guaranteeModel.ConfirmationPending,
	}).Error)

	rel, err := FindRelationships(db, self)
	require.NoError(t, err)
	require.Len(t, rel.SameDepartment, 2)

	byKoc := map[string]bool{}
	for _, r := range rel.SameDepartment {
		byKoc[r.KocID] = r.GuaranteeStatus
	}
	assert.True(t, byKoc[covered.KocID])
	assert.False(t, byKoc[uncovered.KocID])
}
