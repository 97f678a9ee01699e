package service

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	attendanceModel "intikhab_backend/internals/features/attendance/model"
	candidateModel "intikhab_backend/internals/features/candidates/model"
	electionModel "intikhab_backend/internals/features/elections/model"
	electorModel "intikhab_backend/internals/features/electorate/model"
	"intikhab_backend/internals/features/voting/dto"
	"intikhab_backend/internals/features/voting/model"
)

func setupResultsDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&electionModel.ElectionModel{},
		&electionModel.CommitteeModel{},
		&electorModel.ElectorModel{},
		&attendanceModel.AttendanceModel{},
		&candidateModel.CandidateModel{},
		&model.VoteCountModel{},
		&model.CommitteeVoteEntryModel{},
		&model.ElectionResultsModel{},
	))
	return db
}

func seedCommittees(t *testing.T, db *gorm.DB, electionID uint, n int) []electionModel.CommitteeModel {
	t.Helper()
	committees := make([]electionModel.CommitteeModel, n)
	for i := range committees {
		committees[i] = electionModel.CommitteeModel{
			ElectionID: electionID,
			Code:       fmt.Sprintf("C%d", i+1),
			Name:       fmt.Sprintf("Committee %d", i+1),
			Gender:     electionModel.GenderMixed,
		}
	}
	require.NoError(t, db.Create(&committees).Error)
	return committees
}

func TestGenerateResultsRequiresAllCommitteesVerified(t *testing.T) {
	db := setupResultsDB(t)

	election := electionModel.ElectionModel{Name: "Test", Status: electionModel.ElectionStatusCounting}
	require.NoError(t, db.Create(&election).Error)
	committees := seedCommittees(t, db, election.ID, 2)

	// only the first committee has a verified entry
	require.NoError(t, db.Create(&model.CommitteeVoteEntryModel{
		ElectionID:  election.ID,
		CommitteeID: committees[0].ID,
		Status:      model.EntryVerified,
		EnteredBy:   1,
	}).Error)

	_, err := GenerateResults(db, election.ID, 1)
	require.Error(t, err)

	var unverified *ErrUnverifiedCommittees
	require.ErrorAs(t, err, &unverified)
	assert.Equal(t, int64(1), unverified.Verified)
	assert.Equal(t, int64(2), unverified.Total)
}

func TestGenerateResultsRanksByVotesThenNumber(t *testing.T) {
	db := setupResultsDB(t)

	election := electionModel.ElectionModel{Name: "Test", Status: electionModel.ElectionStatusCounting}
	require.NoError(t, db.Create(&election).Error)
	committee := seedCommittees(t, db, election.ID, 1)[0]

	candidates := []candidateModel.CandidateModel{
		{ElectionID: election.ID, CandidateNumber: 1, Name: "One", IsActive: true},
		{ElectionID: election.ID, CandidateNumber: 2, Name: "Two", IsActive: true},
		{ElectionID: election.ID, CandidateNumber: 3, Name: "Three", IsActive: true},
	}
	require.NoError(t, db.Create(&candidates).Error)

	require.NoError(t, db.Create(&model.CommitteeVoteEntryModel{
		ElectionID:       election.ID,
		CommitteeID:      committee.ID,
		Status:           model.EntryVerified,
		TotalBallotsCast: 110,
		InvalidBallots:   10,
		ValidBallots:     100,
		EnteredBy:        1,
	}).Error)

	// candidate 2 and 3 tie on 40, candidate 1 trails with 20
	tallies := map[uint]int{candidates[0].ID: 20, candidates[1].ID: 40, candidates[2].ID: 40}
	for candidateID, votes := range tallies {
		require.NoError(t, db.Create(&model.VoteCountModel{
			ElectionID:  election.ID,
			CommitteeID: committee.ID,
			CandidateID: candidateID,
			VoteCount:   votes,
			Status:      model.VoteCountVerified,
			IsVerified:  true,
			EnteredBy:   1,
		}).Error)
	}

	results, err := GenerateResults(db, election.ID, 9)
	require.NoError(t, err)
	assert.Equal(t, model.ResultsPreliminary, results.Status)
	assert.Equal(t, int64(110), results.TotalBallotsCast)
	assert.Equal(t, int64(100), results.ValidBallots)
	require.NotNil(t, results.GeneratedAt)

	var ranked []dto.CandidateResult
	require.NoError(t, json.Unmarshal(results.ResultsData, &ranked))
	require.Len(t, ranked, 3)

	// tie broken by lower candidate number
	assert.Equal(t, 2, ranked[0].CandidateNumber)
	assert.Equal(t, 1, ranked[0].Rank)
	assert.Equal(t, 3, ranked[1].CandidateNumber)
	assert.Equal(t, 2, ranked[1].Rank)
	assert.Equal(t, 1, ranked[2].CandidateNumber)
	assert.Equal(t, 3, ranked[2].Rank)

	assert.Equal(t, 40.0, ranked[0].VotePercentage)
	assert.Equal(t, 20.0, ranked[2].VotePercentage)
}

func TestGenerateResultsIsRerunnable(t *testing.T) {
	db := setupResultsDB(t)

	election := electionModel.ElectionModel{Name: "Test", Status: electionModel.ElectionStatusCounting}
	require.NoError(t, db.Create(&election).Error)
	committee := seedCommittees(t, db, election.ID, 1)[0]
	require.NoError(t, db.Create(&model.CommitteeVoteEntryModel{
		ElectionID:  election.ID,
		CommitteeID: committee.ID,
		Status:      model.EntryVerified,
		EnteredBy:   1,
	}).Error)

	first, err := GenerateResults(db, election.ID, 1)
	require.NoError(t, err)
	second, err := GenerateResults(db, election.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	var count int64
	require.NoError(t, db.Model(&model.ElectionResultsModel{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}
