package service

import (
	"fmt"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	electoratemodel "intikhab_backend/internals/features/electorate/model"
)

func setupElectorDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&electoratemodel.ElectorModel{}))
	return db
}

func seedElectorRows(t *testing.T, db *gorm.DB, family string, gender string, n int, seq *int) {
	t.Helper()
	for i := 0; i < n; i++ {
		*seq++
		require.NoError(t, db.Create(&electoratemodel.ElectorModel{
			KocID:      fmt.Sprintf("%05d", *seq),
			NameFirst:  "X",
			FamilyName: family,
			Gender:     gender,
			IsActive:   true,
			IsApproved: true,
		}).Error)
	}
}

func TestClampLimit(t *testing.T) {
	assert.Equal(t, 12, ClampLimit(0))
	assert.Equal(t, 3, ClampLimit(1))
	assert.Equal(t, 25, ClampLimit(100))
	assert.Equal(t, 10, ClampLimit(10))
}

func TestValidDims(t *testing.T) {
	assert.True(t, ValidGuaranteeDim("family"))
	assert.True(t, ValidGuaranteeDim("confirmation"))
	assert.False(t, ValidGuaranteeDim("password"))

	assert.True(t, ValidElectorDim("gender"))
	assert.False(t, ValidElectorDim("collector"))
}

func TestElectorDistributionSingleAxis(t *testing.T) {
	db := setupElectorDB(t)
	seq := 0
	seedElectorRows(t, db, "Rashidi", "MALE", 3, &seq)
	seedElectorRows(t, db, "Mutairi", "MALE", 2, &seq)
	seedElectorRows(t, db, "", "FEMALE", 1, &seq)

	pivot, err := ElectorDistribution(db, "family", "", 0)
	require.NoError(t, err)

	assert.Equal(t, []string{"Rashidi", "Mutairi", "Unspecified"}, pivot.Categories)
	require.Len(t, pivot.Series, 1)
	assert.Equal(t, "count", pivot.Series[0].Name)
	assert.Equal(t, []int64{3, 2, 1}, pivot.Series[0].Values)
	assert.Equal(t, int64(3), pivot.Totals["Rashidi"])
}

func TestElectorDistributionTwoAxes(t *testing.T) {
	db := setupElectorDB(t)
	seq := 0
	seedElectorRows(t, db, "Rashidi", "MALE", 2, &seq)
	seedElectorRows(t, db, "Rashidi", "FEMALE", 1, &seq)
	seedElectorRows(t, db, "Mutairi", "MALE", 1, &seq)

	pivot, err := ElectorDistribution(db, "family", "gender", 0)
	require.NoError(t, err)

	assert.Equal(t, []string{"Rashidi", "Mutairi"}, pivot.Categories)
	require.Len(t, pivot.Series, 2)
	// MALE has 3 total, FEMALE 1, so MALE leads
	assert.Equal(t, "MALE", pivot.Series[0].Name)
	assert.Equal(t, []int64{2, 1}, pivot.Series[0].Values)
	assert.Equal(t, "FEMALE", pivot.Series[1].Name)
	assert.Equal(t, []int64{1, 0}, pivot.Series[1].Values)
}

func TestElectorDistributionTruncatesCategories(t *testing.T) {
	db := setupElectorDB(t)
	seq := 0
	for i := 0; i < 6; i++ {
		// descending counts so truncation order is deterministic
		seedElectorRows(t, db, fmt.Sprintf("Family%d", i), "MALE", 6-i, &seq)
	}

	pivot, err := ElectorDistribution(db, "family", "", 3)
	require.NoError(t, err)
	assert.Equal(t, []string{"Family0", "Family1", "Family2"}, pivot.Categories)
	assert.Len(t, pivot.Totals, 3)
}

func TestElectorDistributionTieBreaksByName(t *testing.T) {
	db := setupElectorDB(t)
	seq := 0
	seedElectorRows(t, db, "Zeta", "MALE", 2, &seq)
	seedElectorRows(t, db, "Alpha", "MALE", 2, &seq)

	pivot, err := ElectorDistribution(db, "family", "", 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"Alpha", "Zeta"}, pivot.Categories)
}

func TestElectorDistributionRejectsUnknownDim(t *testing.T) {
	db := setupElectorDB(t)
	_, err := ElectorDistribution(db, "password", "", 0)
	assert.Error(t, err)
}
