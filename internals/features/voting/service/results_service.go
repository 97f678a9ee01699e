package service

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"intikhab_backend/internals/features/voting/dto"
	"intikhab_backend/internals/features/voting/model"
)

// ErrUnverifiedCommittees reports how many committees still lack a
// verified vote entry.
type ErrUnverifiedCommittees struct {
	Verified int64
	Total    int64
}

func (e *ErrUnverifiedCommittees) Error() string {
	return fmt.Sprintf("only %d of %d committees are verified", e.Verified, e.Total)
}

// GenerateResults aggregates verified vote counts into the election
// results row and moves it to PRELIMINARY. Every committee must have a
// VERIFIED vote entry first.
func GenerateResults(db *gorm.DB, electionID, adminID uint) (*model.ElectionResultsModel, error) {
	var totalCommittees, verifiedCommittees int64
	if err := db.Table("committees").
		Where("election_id = ? AND deleted_at IS NULL", electionID).
		Count(&totalCommittees).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&model.CommitteeVoteEntryModel{}).
		Where("election_id = ? AND status = ?", electionID, model.EntryVerified).
		Count(&verifiedCommittees).Error; err != nil {
		return nil, err
	}
	if verifiedCommittees < totalCommittees {
		return nil, &ErrUnverifiedCommittees{Verified: verifiedCommittees, Total: totalCommittees}
	}

	var results *model.ElectionResultsModel
	err := db.Transaction(func(tx *gorm.DB) error {
		var row model.ElectionResultsModel
		if err := tx.First(&row, "election_id = ?", electionID).Error; err != nil {
			if err != gorm.ErrRecordNotFound {
				return err
			}
			row = model.ElectionResultsModel{ElectionID: electionID, Status: model.ResultsDraft}
		}

		if err := tx.Table("electors").
			Where("is_active = true").
			Count(&row.TotalRegisteredElectors).Error; err != nil {
			return err
		}
		if err := tx.Table("attendances").
			Count(&row.TotalAttendance).Error; err != nil {
			return err
		}

		type ballotSums struct {
			Total   int64
			Valid   int64
			Invalid int64
		}
		var sums ballotSums
		if err := tx.Model(&model.CommitteeVoteEntryModel{}).
			Select("COALESCE(SUM(total_ballots_cast),0) as total, COALESCE(SUM(valid_ballots),0) as valid, COALESCE(SUM(invalid_ballots),0) as invalid").
			Where("election_id = ? AND status = ?", electionID, model.EntryVerified).
			Scan(&sums).Error; err != nil {
			return err
		}
		row.TotalBallotsCast = sums.Total
		row.ValidBallots = sums.Valid
		row.InvalidBallots = sums.Invalid

		row.TurnoutPercentage = 0
		if row.TotalRegisteredElectors > 0 {
			row.TurnoutPercentage = round2(float64(row.TotalAttendance) / float64(row.TotalRegisteredElectors) * 100)
		}

		type candidateRow struct {
			ID              uint
			CandidateNumber int
			Name            string
			PartyID         *uint
		}
		var candidates []candidateRow
		if err := tx.Table("candidates").
			Select("id, candidate_number, name, party_id").
			Where("election_id = ? AND is_active = true AND deleted_at IS NULL", electionID).
			Scan(&candidates).Error; err != nil {
			return err
		}

		type voteRow struct {
			CandidateID uint
			Total       int64
		}
		var votes []voteRow
		if err := tx.Model(&model.VoteCountModel{}).
			Select("candidate_id, COALESCE(SUM(vote_count),0) as total").
			Where("election_id = ? AND status = ?", electionID, model.VoteCountVerified).
			Group("candidate_id").
			Scan(&votes).Error; err != nil {
			return err
		}
		votesByCandidate := make(map[uint]int64, len(votes))
		for _, v := range votes {
			votesByCandidate[v.CandidateID] = v.Total
		}

		ranked := make([]dto.CandidateResult, 0, len(candidates))
		for _, cand := range candidates {
			total := votesByCandidate[cand.ID]
			pct := 0.0
			if row.ValidBallots > 0 {
				pct = round2(float64(total) / float64(row.ValidBallots) * 100)
			}
			ranked = append(ranked, dto.CandidateResult{
				CandidateID:     cand.ID,
				CandidateNumber: cand.CandidateNumber,
				Name:            cand.Name,
				PartyID:         cand.PartyID,
				TotalVotes:      total,
				VotePercentage:  pct,
			})
		}
		sort.SliceStable(ranked, func(i, j int) bool {
			if ranked[i].TotalVotes != ranked[j].TotalVotes {
				return ranked[i].TotalVotes > ranked[j].TotalVotes
			}
			return ranked[i].CandidateNumber < ranked[j].CandidateNumber
		})
		for i := range ranked {
			ranked[i].Rank = i + 1
		}

		data, err := json.Marshal(ranked)
		if err != nil {
			return err
		}
		now := time.Now()
		row.ResultsData = datatypes.JSON(data)
		row.Status = model.ResultsPreliminary
		row.GeneratedBy = &adminID
		row.GeneratedAt = &now

		if err := tx.Save(&row).Error; err != nil {
			return err
		}
		results = &row
		return nil
	})
	return results, err
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
