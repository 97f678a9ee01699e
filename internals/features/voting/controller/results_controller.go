package controller

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"intikhab_backend/internals/constants"
	electionmodel "intikhab_backend/internals/features/elections/model"
	reportcache "intikhab_backend/internals/features/reports/cache"
	"intikhab_backend/internals/features/voting/dto"
	"intikhab_backend/internals/features/voting/model"
	"intikhab_backend/internals/features/voting/service"
	helper "intikhab_backend/internals/helpers"
)

type ResultsController struct {
	DB *gorm.DB
}

func NewResultsController(db *gorm.DB) *ResultsController {
	return &ResultsController{DB: db}
}

// loadResults returns the current election's results row, enforcing
// the pre-publication admin-only read rule.
func (ctrl *ResultsController) loadResults(c *fiber.Ctx) (*model.ElectionResultsModel, error) {
	election, err := electionmodel.CurrentElection(ctrl.DB)
	if err != nil {
		return nil, helper.Error(c, fiber.StatusNotFound, "No election configured")
	}
	var results model.ElectionResultsModel
	if err := ctrl.DB.First(&results, "election_id = ?", election.ID).Error; err != nil {
		return nil, helper.Error(c, fiber.StatusNotFound, "Results have not been generated yet")
	}
	if results.Status != model.ResultsPublished && !helper.IsAdminOrAbove(c) {
		return nil, helper.Error(c, fiber.StatusForbidden, "Results are not published yet")
	}
	return &results, nil
}

// GET /api/voting/results/
func (ctrl *ResultsController) Get(c *fiber.Ctx) error {
	results, errResp := ctrl.loadResults(c)
	if results == nil {
		return errResp
	}
	return helper.JsonOK(c, "OK", results)
}

// POST /api/voting/results/generate (admin only)
func (ctrl *ResultsController) Generate(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.Error(c, fiber.StatusUnauthorized, "Unauthorized")
	}
	if !helper.IsAdminOrAbove(c) {
		return helper.Error(c, fiber.StatusForbidden, constants.RoleErrorAdmin("results generation"))
	}

	election, err := electionmodel.CurrentElection(ctrl.DB)
	if err != nil {
		return helper.Error(c, fiber.StatusNotFound, "No election configured")
	}

	results, err := service.GenerateResults(ctrl.DB, election.ID, userID)
	if err != nil {
		var unverified *service.ErrUnverifiedCommittees
		if errors.As(err, &unverified) {
			return helper.ErrorWithDetails(c, fiber.StatusBadRequest,
				"All committees must be verified before generating results", fiber.Map{
					"code":     "UNVERIFIED_COMMITTEES",
					"verified": unverified.Verified,
					"total":    unverified.Total,
				})
		}
		return helper.Error(c, fiber.StatusInternalServerError, "Failed to generate results")
	}
	reportcache.InvalidateDashboards()
	return helper.JsonOK(c, "Results generated", results)
}

// POST /api/voting/results/publish (admin only)
func (ctrl *ResultsController) Publish(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.Error(c, fiber.StatusUnauthorized, "Unauthorized")
	}
	if !helper.IsAdminOrAbove(c) {
		return helper.Error(c, fiber.StatusForbidden, constants.RoleErrorAdmin("results publication"))
	}

	election, err := electionmodel.CurrentElection(ctrl.DB)
	if err != nil {
		return helper.Error(c, fiber.StatusNotFound, "No election configured")
	}
	var results model.ElectionResultsModel
	if err := ctrl.DB.First(&results, "election_id = ?", election.ID).Error; err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Results must be generated before publishing")
	}
	if results.Status == model.ResultsPublished {
		return helper.Error(c, fiber.StatusConflict, "Results are already published")
	}
	if results.GeneratedAt == nil {
		return helper.Error(c, fiber.StatusBadRequest, "Results must be generated before publishing")
	}

	now := time.Now()
	if err := ctrl.DB.Model(&results).Updates(map[string]interface{}{
		"status":       model.ResultsPublished,
		"published_by": userID,
		"published_at": now,
	}).Error; err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Failed to publish results")
	}
	results.Status = model.ResultsPublished
	results.PublishedBy = &userID
	results.PublishedAt = &now
	reportcache.InvalidateDashboards()
	return helper.JsonOK(c, "Results published", results)
}

// GET /api/voting/results/summary
// Headline numbers plus the top of the ranked table.
func (ctrl *ResultsController) Summary(c *fiber.Ctx) error {
	results, errResp := ctrl.loadResults(c)
	if results == nil {
		return errResp
	}

	var ranked []dto.CandidateResult
	if len(results.ResultsData) > 0 {
		if err := json.Unmarshal(results.ResultsData, &ranked); err != nil {
			return helper.Error(c, fiber.StatusInternalServerError, "Corrupt results data")
		}
	}
	top := ranked
	if len(top) > 10 {
		top = top[:10]
	}

	return helper.JsonOK(c, "OK", fiber.Map{
		"status":                  results.Status,
		"totalRegisteredElectors": results.TotalRegisteredElectors,
		"totalAttendance":         results.TotalAttendance,
		"totalBallotsCast":        results.TotalBallotsCast,
		"validBallots":            results.ValidBallots,
		"invalidBallots":          results.InvalidBallots,
		"turnoutPercentage":       results.TurnoutPercentage,
		"generatedAt":             results.GeneratedAt,
		"publishedAt":             results.PublishedAt,
		"topCandidates":           top,
	})
}

// GET /api/voting/results/by-committee
// Per-committee vote breakdown from verified counts.
func (ctrl *ResultsController) ByCommittee(c *fiber.Ctx) error {
	results, errResp := ctrl.loadResults(c)
	if results == nil {
		return errResp
	}

	type row struct {
		CommitteeID     uint   `json:"committeeId"`
		CommitteeCode   string `json:"committeeCode"`
		CommitteeName   string `json:"committeeName"`
		CandidateID     uint   `json:"candidateId"`
		CandidateName   string `json:"candidateName"`
		CandidateNumber int    `json:"candidateNumber"`
		VoteCount       int    `json:"voteCount"`
	}
	var rows []row
	if err := ctrl.DB.Table("vote_counts").
		Select(`vote_counts.committee_id, committees.code as committee_code, committees.name as committee_name,
			vote_counts.candidate_id, candidates.name as candidate_name, candidates.candidate_number,
			vote_counts.vote_count`).
		Joins("JOIN committees ON committees.id = vote_counts.committee_id").
		Joins("JOIN candidates ON candidates.id = vote_counts.candidate_id").
		Where("vote_counts.election_id = ? AND vote_counts.status = ?", results.ElectionID, model.VoteCountVerified).
		Order("committees.code, candidates.candidate_number").
		Scan(&rows).Error; err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Failed to load committee breakdown")
	}
	return helper.JsonOK(c, "OK", rows)
}
